// Package engine implements the object/subobject relationship store.
//
// Subobjects are raw segmentation labels (opaque uint64 ids supplied by the
// voxel loader). Objects are annotator-curated groups of subobjects. The
// store keeps the bipartite graph between the two in an arena + index
// layout:
//
//   - objects live in one dense slice; Object.Index() is the position
//   - subobjects live in a map keyed by id
//   - an object lists its subobject ids, a subobject lists its parent
//     object indices; both lists are sorted and duplicate free
//
// # Invariants
//
// After every exported operation:
//
//   - adjacency is symmetric: s ∈ o.subobjects ⇔ o.index ∈ s.parents
//   - object indices are exactly 0..n-1 and the id → index map agrees
//   - a subobject without parents does not exist
//   - selected and active sets hold live indices only, without duplicates
//   - subobject selected/active counts equal the number of selected/active
//     parents
//
// CheckInvariants verifies all of the above and is used by the property
// tests.
//
// # Removal
//
// RemoveObject uses swap-remove: the last object moves into the freed slot
// and every stored reference to its old index (subobject parent lists,
// selected set, active set, id map) is rewritten. Object indices are
// therefore not stable across removals; object ids are.
//
// # Concurrency
//
// A Store is single-writer and not safe for concurrent use. Observers are
// invoked synchronously and must not mutate the store from inside a
// notification.
package engine
