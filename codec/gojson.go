package codec

import gojson "github.com/goccy/go-json"

// GoJSON encodes palettes and stats output with github.com/goccy/go-json.
// It is the codec used when none is configured.
type GoJSON struct{}

func (GoJSON) Marshal(v any) ([]byte, error) { return gojson.Marshal(v) }

func (GoJSON) Unmarshal(data []byte, v any) error { return gojson.Unmarshal(data, v) }

// Name is the value of the CLI codec key that selects this codec.
func (GoJSON) Name() string { return "go-json" }

// Append marshals v onto the end of dst. On error dst is not returned.
func (GoJSON) Append(dst []byte, v any) ([]byte, error) {
	b, err := gojson.Marshal(v)
	if err != nil {
		return nil, err
	}
	return append(dst, b...), nil
}
