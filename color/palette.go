package color

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/hupe1980/segmerge/codec"
	"github.com/hupe1980/segmerge/model"
)

// PaletteSize is the number of entries of a lookup table.
const PaletteSize = 256

// binaryLUTSize is the size of an ImageJ binary LUT: 256 reds, 256 greens,
// 256 blues.
const binaryLUTSize = PaletteSize * 3

// ErrInvalidPalette is returned for lookup tables of the wrong shape.
var ErrInvalidPalette = errors.New("invalid palette")

// Palette maps ids to colors by id modulo its length.
type Palette []model.RGB

// At returns the color for id.
func (p Palette) At(id uint64) model.RGB {
	return p[id%uint64(len(p))]
}

// DefaultPalette returns 256 colors with hues spread by the golden angle so
// neighboring ids get well separated colors.
func DefaultPalette() Palette {
	p := make(Palette, PaletteSize)
	for i := range p {
		hue := math.Mod(float64(i)*137.50776405, 360)
		sat := 0.55 + 0.15*float64(i%3)
		val := 0.8 + 0.2*float64(i%2)
		p[i] = hsv(hue, sat, val)
	}
	return p
}

func hsv(h, s, v float64) model.RGB {
	c := v * s
	x := c * (1 - math.Abs(math.Mod(h/60, 2)-1))
	m := v - c

	var r, g, b float64
	switch {
	case h < 60:
		r, g, b = c, x, 0
	case h < 120:
		r, g, b = x, c, 0
	case h < 180:
		r, g, b = 0, c, x
	case h < 240:
		r, g, b = 0, x, c
	case h < 300:
		r, g, b = x, 0, c
	default:
		r, g, b = c, 0, x
	}

	to8 := func(f float64) uint8 { return uint8(math.Round((f + m) * 255)) }

	return model.RGB{R: to8(r), G: to8(g), B: to8(b)}
}

// LoadPaletteFile reads a lookup table from path.
func LoadPaletteFile(path string) (Palette, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	p, err := LoadPalette(f, codec.Default)
	if err != nil {
		return nil, fmt.Errorf("palette %s: %w", path, err)
	}
	return p, nil
}

// LoadPalette reads either an ImageJ binary LUT (exactly 768 bytes) or a
// JSON array of 256 [r, g, b] triples decoded with c.
func LoadPalette(r io.Reader, c codec.Codec) (Palette, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	if len(data) == binaryLUTSize {
		p := make(Palette, PaletteSize)
		for i := range p {
			p[i] = model.RGB{R: data[i], G: data[PaletteSize+i], B: data[2*PaletteSize+i]}
		}
		return p, nil
	}

	if c == nil {
		c = codec.Default
	}

	var triples [][]int
	if err := c.Unmarshal(bytes.TrimSpace(data), &triples); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPalette, err)
	}

	if len(triples) != PaletteSize {
		return nil, fmt.Errorf("%w: %d entries, want %d", ErrInvalidPalette, len(triples), PaletteSize)
	}

	p := make(Palette, PaletteSize)
	for i, t := range triples {
		if len(t) != 3 {
			return nil, fmt.Errorf("%w: entry %d has %d components", ErrInvalidPalette, i, len(t))
		}
		for _, v := range t {
			if v < 0 || v > math.MaxUint8 {
				return nil, fmt.Errorf("%w: entry %d component %d out of range", ErrInvalidPalette, i, v)
			}
		}
		p[i] = model.RGB{R: uint8(t[0]), G: uint8(t[1]), B: uint8(t[2])}
	}

	return p, nil
}

// MarshalBinary encodes the palette as an ImageJ binary LUT.
func (p Palette) MarshalBinary() ([]byte, error) {
	if len(p) != PaletteSize {
		return nil, fmt.Errorf("%w: %d entries, want %d", ErrInvalidPalette, len(p), PaletteSize)
	}
	out := make([]byte, binaryLUTSize)
	for i, c := range p {
		out[i] = c.R
		out[PaletteSize+i] = c.G
		out[2*PaletteSize+i] = c.B
	}
	return out, nil
}
