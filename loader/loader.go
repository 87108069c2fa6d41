package loader

import (
	"errors"
	"fmt"

	"github.com/hupe1980/segmerge/model"
)

var (
	// ErrCubeNotLoaded is returned when a position falls into a cube that is not cached.
	ErrCubeNotLoaded = errors.New("loader: cube not loaded")

	// ErrInvalidCube is returned when cube data does not decode to edge³ labels.
	ErrInvalidCube = errors.New("loader: invalid cube")
)

// Loader resolves voxel positions to subobject ids.
type Loader interface {
	// ReadSubobjectID returns the label stored at pos.
	ReadSubobjectID(pos model.Coordinate) (uint64, error)
	// NotifyCacheClear asks the loader to drop edited cubes. It must not block.
	NotifyCacheClear()
}

// CubeKey addresses a cube by magnification and cube index.
type CubeKey struct {
	Mag, X, Y, Z int
}

func (k CubeKey) String() string {
	return fmt.Sprintf("mag%dx%dy%dz%d", k.Mag, k.X, k.Y, k.Z)
}

// KeyFor returns the key of the cube containing the mag-1 voxel position pos
// and the label offset inside that cube.
func KeyFor(pos model.Coordinate, mag, edge int) (CubeKey, int) {
	span := edge * mag
	key := CubeKey{
		Mag: mag,
		X:   floorDiv(pos.X, span),
		Y:   floorDiv(pos.Y, span),
		Z:   floorDiv(pos.Z, span),
	}

	lx := floorMod(pos.X, span) / mag
	ly := floorMod(pos.Y, span) / mag
	lz := floorMod(pos.Z, span) / mag

	return key, (lz*edge+ly)*edge + lx
}

func floorDiv(a, b int) int {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}

func floorMod(a, b int) int {
	m := a % b
	if m != 0 && (m < 0) != (b < 0) {
		m += b
	}
	return m
}
