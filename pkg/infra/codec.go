package infra

import (
	"bytes"
	"encoding/json"
)

// Codec encodes/decodes Go values to/from slices of bytes.
type Codec interface {
	// Marshal encodes a Go value to a slice of bytes.
	Marshal(v any) ([]byte, error)
	// Unmarshal decodes a slice of bytes into a Go value.
	Unmarshal(data []byte, v any) error
}

// JSON is a JSONCodec that encodes/decodes Go values to/from JSON.
var JSON = JSONCodec{}

// JSONCodec encodes/decodes Go values to/from compact JSON text. Numbers
// decoded into an interface become float64, the same as encoding/json.
type JSONCodec struct{}

// Marshal encodes a Go value to JSON without HTML escaping, so stored text
// matches what the value looks like ("a<b" stays "a<b").
func (c JSONCodec) Marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// Unmarshal decodes a JSON value into a Go value.
func (c JSONCodec) Unmarshal(data []byte, v any) error {
	return json.Unmarshal(data, v)
}
