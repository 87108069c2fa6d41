// Package orderedset provides an insertion-ordered set with O(1) membership,
// append, prepend, removal by value and in-place value replacement.
//
// It backs the selected and active object sets of the engine. The element
// order is the order in which values were pushed; Replace keeps the position
// of the replaced value so index remapping after a swap-remove does not
// reorder a selection.
package orderedset
