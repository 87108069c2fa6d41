package engine

import "errors"

var (
	// ErrDuplicateID is returned when an object is created with an id that
	// is already mapped to an existing object.
	ErrDuplicateID = errors.New("object id already exists")

	// ErrAlreadyContained is returned when a subobject is attached to an
	// object that already lists it.
	ErrAlreadyContained = errors.New("object already contains subobject")

	// ErrNoSelection is returned by operations that need a selected object.
	ErrNoSelection = errors.New("no object selected")

	// ErrInvariant is returned by CheckInvariants when the graph is corrupt.
	ErrInvariant = errors.New("invariant violated")
)
