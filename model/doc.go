// Package model defines the value types shared by every segmerge package.
//
// # Geometry
//
//   - Coordinate: integer voxel position (x, y, z)
//
// # Colors
//
//   - RGB: opaque color triple used for palettes and per-object overrides
//   - RGBA: color with the process-wide overlay alpha applied
//
// The types are plain values with no behavior beyond formatting and
// comparison so that engine, codec and rendering layers can share them
// without import cycles.
package model
