package jsbuilder

import (
	"slices"

	js "github.com/reoring/jsbuilder/jsonschema"
)

// Option configures a schema produced by a factory or an Add* helper.
type Option func(*settings)

type settings struct {
	keywords []func(*js.Schema)
	nullable bool
	optional bool
}

func collect(opts []Option) settings {
	var st settings
	for _, o := range opts {
		if o != nil {
			o(&st)
		}
	}
	return st
}

// apply writes the collected keywords into s and widens it when Nullable
// was requested. The returned node replaces s.
func (st settings) apply(s *js.Schema) *js.Schema {
	for _, f := range st.keywords {
		f(s)
	}
	if st.nullable {
		return widenNull(s)
	}
	return s
}

func keyword(f func(*js.Schema)) Option {
	return func(st *settings) { st.keywords = append(st.keywords, f) }
}

// Title sets the `title` annotation.
func Title(v string) Option { return keyword(func(s *js.Schema) { s.Title = v }) }

// Description sets the `description` annotation.
func Description(v string) Option { return keyword(func(s *js.Schema) { s.Description = v }) }

// Default sets the `default` keyword. nil produces an explicit `default: null`.
func Default(v any) Option {
	return keyword(func(s *js.Schema) { s.SetDefault(js.CloneValue(v)) })
}

// Examples sets the `examples` annotation.
func Examples(vs ...any) Option {
	return keyword(func(s *js.Schema) {
		for _, v := range vs {
			s.Examples = append(s.Examples, js.CloneValue(v))
		}
	})
}

// ReadOnly marks the value as `readOnly`.
func ReadOnly() Option { return keyword(func(s *js.Schema) { s.ReadOnly = true }) }

// WriteOnly marks the value as `writeOnly`.
func WriteOnly() Option { return keyword(func(s *js.Schema) { s.WriteOnly = true }) }

// MinLength sets the minimum string length in code points.
func MinLength(n int) Option { return keyword(func(s *js.Schema) { s.MinLength = &n }) }

// MaxLength sets the maximum string length in code points.
func MaxLength(n int) Option { return keyword(func(s *js.Schema) { s.MaxLength = &n }) }

// Pattern sets an ECMA-262 regular expression the string must match.
func Pattern(re string) Option { return keyword(func(s *js.Schema) { s.Pattern = re }) }

// Format sets the `format` keyword, e.g. "email" or "date-time".
func Format(name string) Option { return keyword(func(s *js.Schema) { s.Format = name }) }

// Minimum sets the inclusive lower bound.
func Minimum(v float64) Option { return keyword(func(s *js.Schema) { s.Minimum = &v }) }

// Maximum sets the inclusive upper bound.
func Maximum(v float64) Option { return keyword(func(s *js.Schema) { s.Maximum = &v }) }

// ExclusiveMinimum sets the exclusive lower bound.
func ExclusiveMinimum(v float64) Option {
	return keyword(func(s *js.Schema) { s.ExclusiveMinimum = &v })
}

// ExclusiveMaximum sets the exclusive upper bound.
func ExclusiveMaximum(v float64) Option {
	return keyword(func(s *js.Schema) { s.ExclusiveMaximum = &v })
}

// MultipleOf requires the number to be a multiple of v.
func MultipleOf(v float64) Option { return keyword(func(s *js.Schema) { s.MultipleOf = &v }) }

// MinItems sets the minimum array length.
func MinItems(n int) Option { return keyword(func(s *js.Schema) { s.MinItems = &n }) }

// MaxItems sets the maximum array length.
func MaxItems(n int) Option { return keyword(func(s *js.Schema) { s.MaxItems = &n }) }

// UniqueItems requires array elements to be pairwise distinct.
func UniqueItems() Option { return keyword(func(s *js.Schema) { s.UniqueItems = true }) }

// Keyword sets an arbitrary keyword that the model keeps verbatim, such as
// "x-order" or "uiWidget".
func Keyword(name string, v any) Option {
	return keyword(func(s *js.Schema) {
		if s.Extra == nil {
			s.Extra = map[string]any{}
		}
		s.Extra[name] = js.CloneValue(v)
	})
}

// Nullable widens the schema to also accept null.
func Nullable() Option { return func(st *settings) { st.nullable = true } }

// Optional keeps a property added through an Add* operation out of `required`.
func Optional() Option { return func(st *settings) { st.optional = true } }

// widenNull makes s accept null: "null" joins the type set and null joins
// the enum. Nodes without a type are wrapped in anyOf.
func widenNull(s *js.Schema) *js.Schema {
	if len(s.Type) == 0 {
		return &js.Schema{AnyOf: []*js.Schema{s, {Type: js.Types{"null"}}}}
	}
	if !s.Type.Has("null") {
		s.Type = append(slices.Clone(s.Type), "null")
	}
	if s.Enum != nil && !slices.Contains(s.Enum, nil) {
		s.Enum = append(s.Enum, nil)
	}
	return s
}
