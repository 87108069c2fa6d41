package segmerge

import (
	"errors"
	"fmt"

	"github.com/hupe1980/segmerge/annotation"
	"github.com/hupe1980/segmerge/blobstore"
	"github.com/hupe1980/segmerge/color"
	"github.com/hupe1980/segmerge/engine"
	"github.com/hupe1980/segmerge/loader"
	"github.com/hupe1980/segmerge/mergelist"
)

var (
	// ErrDuplicateID is returned when an object id is already in use.
	ErrDuplicateID = engine.ErrDuplicateID
	// ErrAlreadyContained is returned when an object lists a subobject twice.
	ErrAlreadyContained = engine.ErrAlreadyContained
	// ErrNoSelection is returned by operations that need a selected object.
	ErrNoSelection = engine.ErrNoSelection
	// ErrCorruptMergelist is returned for malformed mergelists.
	ErrCorruptMergelist = mergelist.ErrCorruptMergelist
	// ErrCorruptJobFile is returned for malformed job tickets.
	ErrCorruptJobFile = mergelist.ErrCorruptJobFile
	// ErrCorruptArchive is returned for unreadable annotation archives.
	ErrCorruptArchive = annotation.ErrCorruptArchive
	// ErrInvalidPalette is returned for lookup tables of the wrong shape.
	ErrInvalidPalette = color.ErrInvalidPalette
	// ErrNotFound is returned for missing blobs and unloaded cubes.
	ErrNotFound = blobstore.ErrNotFound

	// ErrNoBlobStore is returned when no blob store is configured.
	ErrNoBlobStore = errors.New("segmerge: no blob store configured")
)

// ParseError carries the line of a mergelist or job ticket failure.
type ParseError = mergelist.ParseError

func translateError(err error) error {
	if err == nil {
		return nil
	}

	// Not found unification.
	if errors.Is(err, loader.ErrCubeNotLoaded) && !errors.Is(err, ErrNotFound) {
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	}

	return err
}
