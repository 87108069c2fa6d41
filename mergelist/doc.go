// Package mergelist reads and writes the mergelist text format and the job
// ticket that accompanies merge jobs.
//
// A mergelist stores four lines per object:
//
//	<objectId> <todo:0|1> <immutable:0|1> <firstSubobjectId> [<subId> ...]
//	<locX> <locY> <locZ> [<r> <g> <b>]
//	<category>
//	<comment>
//
// Color tokens are present only for objects with a color override.
// Category and comment lines may be empty but must be present. Trailing
// blank lines are ignored; every other deviation fails the whole load.
package mergelist
