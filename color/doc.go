// Package color derives display colors for subobjects and objects.
//
// Colors come from a 256-entry palette indexed by id modulo the palette
// length. Object colors can be overridden per object. A subobject claimed
// by more than one selected object is drawn in the overlap color so that
// conflicting selections stand out.
package color
