package model

import (
	"fmt"
)

// Coordinate is an integer voxel position.
type Coordinate struct {
	X, Y, Z int
}

// String returns a string representation of the Coordinate.
func (c Coordinate) String() string {
	return fmt.Sprintf("(%d, %d, %d)", c.X, c.Y, c.Z)
}

// Add returns the component-wise sum of c and o.
func (c Coordinate) Add(o Coordinate) Coordinate {
	return Coordinate{X: c.X + o.X, Y: c.Y + o.Y, Z: c.Z + o.Z}
}

// RGB is an 8-bit color triple.
type RGB struct {
	R, G, B uint8
}

// WithAlpha returns the color with the given alpha channel.
func (c RGB) WithAlpha(a uint8) RGBA {
	return RGBA{R: c.R, G: c.G, B: c.B, A: a}
}

// String returns the color as "r g b".
func (c RGB) String() string {
	return fmt.Sprintf("%d %d %d", c.R, c.G, c.B)
}

// RGBA is an 8-bit color with alpha.
// The zero value is fully transparent black.
type RGBA struct {
	R, G, B, A uint8
}

// Transparent is the fully transparent color.
var Transparent = RGBA{}

// RGB drops the alpha channel.
func (c RGBA) RGB() RGB {
	return RGB{R: c.R, G: c.G, B: c.B}
}

// IsTransparent reports whether c is the zero color.
func (c RGBA) IsTransparent() bool {
	return c == Transparent
}
