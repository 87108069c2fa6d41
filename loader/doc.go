// Package loader provides the voxel side of the segmentation: resolving a
// voxel position to the subobject id stored there.
//
// CubeCache keeps segmentation cubes as snappy-compressed little-endian
// uint64 labels. Clean cubes live in a byte-bounded LRU; cubes edited in
// this session (or supplied from an annotation archive) are pinned until
// the next Clear so they can be written back.
//
// Clearing runs on a Dispatcher goroutine. Callers such as
// engine.Store.Clear only enqueue the request.
package loader
