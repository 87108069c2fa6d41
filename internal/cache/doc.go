// Package cache provides a byte-capped LRU for compressed cube payloads and
// downloaded blobs.
//
// Entries count against the cache's own capacity and, when a
// resource.Controller is attached, against the process-wide cache budget.
// Entries that do not fit are silently not cached.
package cache
