package codec

import (
	"encoding/json"
)

// JSON wraps encoding/json. Its output matches GoJSON for palettes and
// stats, so either can read the other's files.
type JSON struct{}

func (JSON) Marshal(v any) ([]byte, error) { return json.Marshal(v) }

func (JSON) Unmarshal(data []byte, v any) error { return json.Unmarshal(data, v) }

// Name is "json".
func (JSON) Name() string { return "json" }

// Default is GoJSON.
var Default Codec = GoJSON{}
