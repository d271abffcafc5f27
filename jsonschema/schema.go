package jsonschema

import (
	"slices"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Properties is the insertion-ordered `properties` mapping.
type Properties = orderedmap.OrderedMap[string, *Schema]

// NewProperties returns an empty ordered property map.
func NewProperties() *Properties { return orderedmap.New[string, *Schema]() }

// Schema is an in-memory JSON Schema (draft-07 compatible) fragment.
// Absent keywords are represented by zero values (nil slices/pointers, empty strings).
type Schema struct {
	Ref string

	// Metadata
	Title       string
	Description string
	Default     any
	Examples    []any
	ReadOnly    bool
	WriteOnly   bool

	Type Types
	Enum []any

	// String
	MinLength *int
	MaxLength *int
	Pattern   string
	Format    string

	// Number
	Minimum          *float64
	Maximum          *float64
	ExclusiveMinimum *float64
	ExclusiveMaximum *float64
	MultipleOf       *float64

	// Object
	Properties           *Properties
	Required             []string
	AdditionalProperties *AdditionalProperties
	MinProperties        *int
	MaxProperties        *int

	// Array
	Items       *Items
	MinItems    *int
	MaxItems    *int
	UniqueItems bool

	// Combinators
	OneOf []*Schema
	AllOf []*Schema
	AnyOf []*Schema
	Not   *Schema

	Definitions map[string]*Schema

	// Extra keeps keywords the model does not know about (ui:*, x-*, $schema, const, ...).
	Extra map[string]any

	hasDefault bool
}

// Types is the `type` keyword. A single entry encodes as a string.
type Types []string

// Has reports whether t lists name.
func (t Types) Has(name string) bool { return slices.Contains(t, name) }

// Single returns the only type name, or "" when t is absent or a union.
func (t Types) Single() string {
	if len(t) == 1 {
		return t[0]
	}
	return ""
}

// Items is the `items` keyword: either one schema for every element or a tuple.
type Items struct {
	Schema *Schema
	Tuple  []*Schema
}

// IsTuple reports whether items is a per-position sequence.
func (it *Items) IsTuple() bool { return it != nil && it.Schema == nil && it.Tuple != nil }

// AdditionalProperties is the `additionalProperties` keyword: false, true or a schema.
type AdditionalProperties struct {
	Allowed bool
	Schema  *Schema
}

// AdditionalFalse returns `additionalProperties: false`.
func AdditionalFalse() *AdditionalProperties { return &AdditionalProperties{} }

// AdditionalTrue returns `additionalProperties: true`.
func AdditionalTrue() *AdditionalProperties { return &AdditionalProperties{Allowed: true} }

// AdditionalSchema returns `additionalProperties: <s>`.
func AdditionalSchema(s *Schema) *AdditionalProperties {
	return &AdditionalProperties{Allowed: true, Schema: s}
}

// Forbidden reports an explicit `additionalProperties: false`.
func (a *AdditionalProperties) Forbidden() bool {
	return a != nil && !a.Allowed && a.Schema == nil
}

// Truthy reports `true` or a schema value.
func (a *AdditionalProperties) Truthy() bool {
	return a != nil && (a.Allowed || a.Schema != nil)
}

// HasDefault reports whether the `default` keyword is present. A nil Default
// counts only when set through SetDefault or decoded from JSON.
func (s *Schema) HasDefault() bool { return s.hasDefault || s.Default != nil }

// SetDefault sets the `default` keyword, including explicit null.
func (s *Schema) SetDefault(v any) {
	s.Default = v
	s.hasDefault = true
}

// ClearDefault removes the `default` keyword.
func (s *Schema) ClearDefault() {
	s.Default = nil
	s.hasDefault = false
}

// Property returns the named property schema.
func (s *Schema) Property(name string) (*Schema, bool) {
	if s == nil || s.Properties == nil {
		return nil, false
	}
	return s.Properties.Get(name)
}

// PropertyNames lists property names in declaration order.
func (s *Schema) PropertyNames() []string {
	if s == nil || s.Properties == nil {
		return nil
	}
	names := make([]string, 0, s.Properties.Len())
	for p := s.Properties.Oldest(); p != nil; p = p.Next() {
		names = append(names, p.Key)
	}
	return names
}

// SetProperty inserts or replaces a property, keeping the position of an existing key.
func (s *Schema) SetProperty(name string, sub *Schema) {
	if s.Properties == nil {
		s.Properties = NewProperties()
	}
	s.Properties.Set(name, sub)
}

// IsRequired reports whether name is listed in `required`.
func (s *Schema) IsRequired(name string) bool { return slices.Contains(s.Required, name) }

// HasCombinators reports the presence of oneOf/allOf/anyOf/not.
func (s *Schema) HasCombinators() bool {
	return len(s.OneOf) > 0 || len(s.AllOf) > 0 || len(s.AnyOf) > 0 || s.Not != nil
}
