package jsbuilder

import (
	"reflect"

	js "github.com/reoring/jsbuilder/jsonschema"
)

func primitive(typ string, opts []Option) *Document {
	s := collect(opts).apply(&js.Schema{Type: js.Types{typ}})
	return newDocument(s, ValidationConfig{})
}

// String returns `{"type":"string"}` with opts applied.
func String(opts ...Option) *Document { return primitive("string", opts) }

// Number returns `{"type":"number"}` with opts applied.
func Number(opts ...Option) *Document { return primitive("number", opts) }

// Integer returns `{"type":"integer"}` with opts applied.
func Integer(opts ...Option) *Document { return primitive("integer", opts) }

// Boolean returns `{"type":"boolean"}` with opts applied.
func Boolean(opts ...Option) *Document { return primitive("boolean", opts) }

// Null returns `{"type":"null"}` with opts applied.
func Null(opts ...Option) *Document { return primitive("null", opts) }

// Empty returns the unconstrained schema `{}`.
func Empty(opts ...Option) *Document {
	return newDocument(collect(opts).apply(&js.Schema{}), ValidationConfig{})
}

// Enum returns a schema restricted to values. The type set is inferred from
// the distinct kinds among the values, in first-seen order; maps and structs
// count as "object", slices and arrays as "array".
func Enum(values []any, opts ...Option) *Document {
	vals := make([]any, 0, len(values))
	var types js.Types
	for _, v := range values {
		vals = append(vals, js.CloneValue(v))
		if t := enumType(v); t != "" && !types.Has(t) {
			types = append(types, t)
		}
	}
	return newDocument(collect(opts).apply(&js.Schema{Type: types, Enum: vals}), ValidationConfig{})
}

func enumType(v any) string {
	if v == nil {
		return "null"
	}
	switch reflect.ValueOf(v).Kind() {
	case reflect.String:
		return "string"
	case reflect.Bool:
		return "boolean"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return "number"
	case reflect.Map, reflect.Struct:
		return "object"
	case reflect.Slice, reflect.Array:
		return "array"
	}
	return ""
}

// Array returns a homogeneous array of items. A nil items leaves `items` unset.
func Array(items *Document, opts ...Option) *Document {
	s := &js.Schema{Type: js.Types{"array"}}
	if items != nil {
		s.Items = &js.Items{Schema: js.Clone(items.schema)}
	}
	return newDocument(collect(opts).apply(s), ValidationConfig{})
}

// Tuple returns an array with one schema per position.
func Tuple(items []*Document, opts ...Option) *Document {
	tuple := make([]*js.Schema, len(items))
	for i, it := range items {
		tuple[i] = schemaOf(it)
	}
	s := &js.Schema{Type: js.Types{"array"}, Items: &js.Items{Tuple: tuple}}
	return newDocument(collect(opts).apply(s), ValidationConfig{})
}

// Field declares one property of an Object. The property is required unless
// one of its schemas is nil; several non-nil schemas combine with anyOf.
type Field struct {
	Name    string
	Schemas []*Document
}

// F declares a property accepting any of schemas.
func F(name string, schemas ...*Document) Field { return Field{Name: name, Schemas: schemas} }

// Opt declares an optional property.
func Opt(name string, schemas ...*Document) Field {
	return Field{Name: name, Schemas: append(schemas[:len(schemas):len(schemas)], nil)}
}

// Object returns an object schema with additionalProperties set to false.
func Object(fields []Field, opts ...Option) *Document {
	s := &js.Schema{
		Type:                 js.Types{"object"},
		Properties:           js.NewProperties(),
		AdditionalProperties: js.AdditionalFalse(),
	}
	for _, f := range fields {
		var alts []*js.Schema
		optional := false
		for _, d := range f.Schemas {
			if d == nil {
				optional = true
				continue
			}
			alts = append(alts, js.Clone(d.schema))
		}
		var sub *js.Schema
		switch len(alts) {
		case 0:
			sub = &js.Schema{}
		case 1:
			sub = alts[0]
		default:
			sub = &js.Schema{AnyOf: alts}
		}
		s.SetProperty(f.Name, sub)
		s.Required = setRequired(s.Required, f.Name, !optional)
	}
	return newDocument(collect(opts).apply(s), ValidationConfig{})
}

func combinator(docs []*Document) []*js.Schema {
	out := make([]*js.Schema, len(docs))
	for i, d := range docs {
		out[i] = schemaOf(d)
	}
	return out
}

// AllOf requires every one of docs to match.
func AllOf(docs ...*Document) *Document {
	return newDocument(&js.Schema{AllOf: combinator(docs)}, ValidationConfig{})
}

// OneOf requires exactly one of docs to match.
func OneOf(docs ...*Document) *Document {
	return newDocument(&js.Schema{OneOf: combinator(docs)}, ValidationConfig{})
}

// AnyOf requires at least one of docs to match.
func AnyOf(docs ...*Document) *Document {
	return newDocument(&js.Schema{AnyOf: combinator(docs)}, ValidationConfig{})
}

// Not matches whatever d rejects.
func Not(d *Document) *Document {
	return newDocument(&js.Schema{Not: schemaOf(d)}, ValidationConfig{})
}

// schemaOf clones the schema of d; a nil Document is `{}`.
func schemaOf(d *Document) *js.Schema {
	if d == nil {
		return &js.Schema{}
	}
	return js.Clone(d.schema)
}
