// Package testutil provides testing utilities for segmerge.
//
// This package is intended for use in tests, benchmarks and examples only.
// It generates reproducible segmentation workloads.
//
// # Random Mergelists
//
//	rng := testutil.NewRNG(seed)
//	text := rng.Mergelist(100, 8, 500) // 100 objects, up to 8 subobjects each
//
// # Random Cubes
//
//	ids := rng.SubobjectIDs(16, 500, 1.2)
//	labels := rng.Labels(64, ids)
package testutil
