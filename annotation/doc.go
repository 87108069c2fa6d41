// Package annotation reads and writes annotation archives.
//
// An archive is a zip file holding
//
//	mergelist.txt                             object list (see package mergelist)
//	microworker.txt                           job ticket, merge-simple mode only
//	<dataset>_mag<M>x<X>y<Y>z<Z>.seg.sz       edited segmentation cubes (snappy)
//
// Entries are deflated at the fastest level. Cube entries are read in
// parallel on load.
package annotation
