package jsonschema

import (
	"fmt"

	json "github.com/goccy/go-json"
)

// FromJSON decodes a schema document. Property order follows the input.
func FromJSON(data []byte) (*Schema, error) {
	s := &Schema{}
	if err := json.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("jsonschema: decode: %w", err)
	}
	return s, nil
}

// FromValue converts an already-deserialized document (maps, slices, scalars)
// into a Schema. Properties given as a Go map are ordered by key.
func FromValue(v any) (*Schema, error) {
	if s, ok := v.(*Schema); ok {
		return Clone(s), nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("jsonschema: encode value: %w", err)
	}
	return FromJSON(b)
}

// ToValue renders s as a generic JSON value (map[string]any at the root).
func ToValue(s *Schema) (any, error) {
	b, err := s.MarshalJSON()
	if err != nil {
		return nil, err
	}
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return nil, err
	}
	return v, nil
}

// MustValue is ToValue for schemas known to encode, such as ones built by this module.
func MustValue(s *Schema) any {
	v, err := ToValue(s)
	if err != nil {
		panic(err)
	}
	return v
}
