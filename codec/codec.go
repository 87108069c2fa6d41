// Package codec provides the JSON codecs used for palette files and CLI
// stats output.
//
// Palette files do not record which codec wrote them, so all built-in
// codecs must read each other's output.
package codec

import "fmt"

// Codec turns values into JSON and back. A Codec may be shared between
// goroutines.
type Codec interface {
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
	Name() string
}

// ByName looks up a built-in codec by the name stored in the CLI config.
func ByName(name string) (Codec, bool) {
	switch name {
	case "json":
		return JSON{}, true
	case "go-json":
		return GoJSON{}, true
	default:
		return nil, false
	}
}

// MustMarshal encodes v with c, or with Default when c is nil, and panics
// on failure. Tests use it to build palette fixtures.
func MustMarshal(c Codec, v any) []byte {
	if c == nil {
		c = Default
	}
	b, err := c.Marshal(v)
	if err != nil {
		panic(fmt.Errorf("codec %s marshal failed: %w", c.Name(), err))
	}
	return b
}
