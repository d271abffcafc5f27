package jsbuilder

import (
	"slices"
	"sync"

	"github.com/reoring/jsbuilder/defaults"
	"github.com/reoring/jsbuilder/internal/engine"
	js "github.com/reoring/jsbuilder/jsonschema"
)

// Document is an immutable JSON Schema document. Every transformation clones
// the schema and returns a new Document, so Documents may be shared freely
// between goroutines.
type Document struct {
	schema *js.Schema
	config ValidationConfig

	single func() (*engine.Validator, error)
	list   func() (*engine.Validator, error)
}

// newDocument takes ownership of s.
func newDocument(s *js.Schema, cfg ValidationConfig) *Document {
	d := &Document{schema: s, config: cfg}
	d.single = sync.OnceValues(func() (*engine.Validator, error) {
		return compile("single", s, cfg)
	})
	d.list = sync.OnceValues(func() (*engine.Validator, error) {
		return compile("list", listSchema(s), cfg)
	})
	return d
}

// FromSchema wraps a copy of s. Documents containing $ref anywhere in the
// schema tree are rejected with a *RefError.
func FromSchema(s *js.Schema) (*Document, error) {
	if s == nil {
		s = &js.Schema{}
	}
	if ref := js.FindRef(s); ref != "" {
		return nil, &RefError{Ref: ref}
	}
	return newDocument(js.Clone(s), ValidationConfig{}), nil
}

// FromValue builds a Document from a deserialized schema value (maps, slices
// and scalars) or from a *jsonschema.Schema.
func FromValue(v any) (*Document, error) {
	s, err := js.FromValue(v)
	if err != nil {
		return nil, err
	}
	return FromSchema(s)
}

// FromJSON builds a Document from schema JSON, keeping property order.
func FromJSON(data []byte) (*Document, error) {
	s, err := js.FromJSON(data)
	if err != nil {
		return nil, err
	}
	return FromSchema(s)
}

// Must panics if err is non-nil. It is meant for package-level schema
// declarations.
func Must(d *Document, err error) *Document {
	if err != nil {
		panic(err)
	}
	return d
}

func (d *Document) derive(s *js.Schema) *Document { return newDocument(s, d.config) }

// edit applies fn to a clone of the schema.
func (d *Document) edit(fn func(s *js.Schema)) *Document {
	s := js.Clone(d.schema)
	fn(s)
	return d.derive(s)
}

// Schema returns a copy of the underlying schema.
func (d *Document) Schema() *js.Schema { return js.Clone(d.schema) }

// Value renders the schema as a generic JSON value.
func (d *Document) Value() any { return js.MustValue(d.schema) }

func (d *Document) MarshalJSON() ([]byte, error) { return d.schema.MarshalJSON() }

func (d *Document) String() string {
	b, err := d.schema.MarshalJSON()
	if err != nil {
		return "<invalid schema: " + err.Error() + ">"
	}
	return string(b)
}

// Clone returns an independent copy carrying the same validation config.
func (d *Document) Clone() *Document { return d.derive(js.Clone(d.schema)) }

// Properties lists declared property names in order.
func (d *Document) Properties() []string { return d.schema.PropertyNames() }

// RequiredProperties lists the `required` entries.
func (d *Document) RequiredProperties() []string { return slices.Clone(d.schema.Required) }

func (d *Document) HasProperty(name string) bool {
	_, ok := d.schema.Property(name)
	return ok
}

// IsObjectSchema reports an object type, or no type with properties present.
func (d *Document) IsObjectSchema() bool { return d.schema.IsObject() }

// HasAdditionalProperties reports an object schema whose additionalProperties
// is not explicitly false.
func (d *Document) HasAdditionalProperties() bool {
	return d.IsObjectSchema() && !d.schema.AdditionalProperties.Forbidden()
}

// HasCombinatorKeywords reports oneOf, allOf, anyOf or not.
func (d *Document) HasCombinatorKeywords() bool { return d.schema.HasCombinators() }

// IsSimpleObjectSchema reports an object schema without additional
// properties and without combinators.
func (d *Document) IsSimpleObjectSchema() bool {
	return d.IsObjectSchema() && !d.HasAdditionalProperties() && !d.HasCombinatorKeywords()
}

func (d *Document) requireObject(op string) error {
	if !d.IsObjectSchema() {
		return precondition(op, ClassObject, "")
	}
	return nil
}

func (d *Document) requireSimpleObject(op string) error {
	switch {
	case !d.IsObjectSchema():
		return precondition(op, ClassSimpleObject, "not an object schema")
	case d.HasAdditionalProperties():
		return precondition(op, ClassSimpleObject, "additionalProperties is not false")
	case d.HasCombinatorKeywords():
		return precondition(op, ClassSimpleObject, "has oneOf/allOf/anyOf/not")
	}
	return nil
}

// GetSubschema returns the named property as a new Document.
func (d *Document) GetSubschema(name string) (*Document, error) {
	const op = "GetSubschema"
	if err := d.requireSimpleObject(op); err != nil {
		return nil, err
	}
	sub, ok := d.schema.Property(name)
	if !ok {
		return nil, precondition(op, ClassPropertyExists, quote(name))
	}
	return d.derive(js.Clone(sub)), nil
}

// GetItemsSubschema returns the items schema of a homogeneous array.
func (d *Document) GetItemsSubschema() (*Document, error) {
	s := d.schema
	if !s.IsArray() || s.Items == nil || s.Items.Schema == nil {
		return nil, precondition("GetItemsSubschema", ClassHomogeneousArray, "")
	}
	return d.derive(js.Clone(s.Items.Schema)), nil
}

// Defaults computes the value implied by the document's default keywords.
// ok is false when nothing yields a default.
func (d *Document) Defaults() (value any, ok bool) {
	return defaults.Compute(d.schema, nil)
}
