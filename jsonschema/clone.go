package jsonschema

import (
	"maps"
	"slices"

	"github.com/mohae/deepcopy"
)

// CloneValue deep copies a generic JSON value. Maps and slices are copied
// recursively; scalars (including nil) are returned as they are.
func CloneValue(v any) any {
	switch v.(type) {
	case nil, bool, string, float64, float32, int, int64, int32:
		return v
	}
	return deepcopy.Copy(v)
}

func cloneValues(vs []any) []any {
	if vs == nil {
		return nil
	}
	out := make([]any, len(vs))
	for i, v := range vs {
		out[i] = CloneValue(v)
	}
	return out
}

// Clone returns a deep copy of s sharing no mutable state with it.
func Clone(s *Schema) *Schema {
	if s == nil {
		return nil
	}
	out := *s
	out.Default = CloneValue(s.Default)
	out.Examples = cloneValues(s.Examples)
	out.Enum = cloneValues(s.Enum)
	out.Type = slices.Clone(s.Type)
	out.Required = slices.Clone(s.Required)
	out.MinLength = clonePtr(s.MinLength)
	out.MaxLength = clonePtr(s.MaxLength)
	out.Minimum = clonePtr(s.Minimum)
	out.Maximum = clonePtr(s.Maximum)
	out.ExclusiveMinimum = clonePtr(s.ExclusiveMinimum)
	out.ExclusiveMaximum = clonePtr(s.ExclusiveMaximum)
	out.MultipleOf = clonePtr(s.MultipleOf)
	out.MinProperties = clonePtr(s.MinProperties)
	out.MaxProperties = clonePtr(s.MaxProperties)
	out.MinItems = clonePtr(s.MinItems)
	out.MaxItems = clonePtr(s.MaxItems)
	if s.Properties != nil {
		out.Properties = NewProperties()
		for p := s.Properties.Oldest(); p != nil; p = p.Next() {
			out.Properties.Set(p.Key, Clone(p.Value))
		}
	}
	if ap := s.AdditionalProperties; ap != nil {
		out.AdditionalProperties = &AdditionalProperties{Allowed: ap.Allowed, Schema: Clone(ap.Schema)}
	}
	if it := s.Items; it != nil {
		out.Items = &Items{Schema: Clone(it.Schema), Tuple: cloneSchemas(it.Tuple)}
	}
	out.OneOf = cloneSchemas(s.OneOf)
	out.AllOf = cloneSchemas(s.AllOf)
	out.AnyOf = cloneSchemas(s.AnyOf)
	out.Not = Clone(s.Not)
	if s.Definitions != nil {
		out.Definitions = make(map[string]*Schema, len(s.Definitions))
		for k, d := range s.Definitions {
			out.Definitions[k] = Clone(d)
		}
	}
	if s.Extra != nil {
		out.Extra = maps.Clone(s.Extra)
		for k, v := range out.Extra {
			out.Extra[k] = CloneValue(v)
		}
	}
	return &out
}

func cloneSchemas(list []*Schema) []*Schema {
	if list == nil {
		return nil
	}
	out := make([]*Schema, len(list))
	for i, s := range list {
		out[i] = Clone(s)
	}
	return out
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
