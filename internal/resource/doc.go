// Package resource shares process-wide limits between the cube cache, the
// archive decoder and blob uploads.
package resource
