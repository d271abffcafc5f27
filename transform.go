package jsbuilder

import js "github.com/reoring/jsbuilder/jsonschema"

// TransformProperties lets each named property also accept alt:
// `oneOf: [property, alt]`. No names means every declared property.
func (d *Document) TransformProperties(alt *Document, names ...string) (*Document, error) {
	return d.transform("TransformProperties", names, func(cur *js.Schema) *js.Schema {
		return &js.Schema{OneOf: []*js.Schema{cur, schemaOf(alt)}}
	})
}

// TransformPropertiesToArray lets each named property also accept an array of
// itself. opts configure the array schema. Array properties are left alone.
func (d *Document) TransformPropertiesToArray(names []string, opts ...Option) (*Document, error) {
	st := collect(opts)
	return d.transform("TransformPropertiesToArray", names, func(cur *js.Schema) *js.Schema {
		if cur.IsArray() {
			return nil
		}
		arr := st.apply(&js.Schema{Type: js.Types{"array"}, Items: &js.Items{Schema: js.Clone(cur)}})
		return &js.Schema{OneOf: []*js.Schema{cur, arr}}
	})
}

// UnwrapArrayProperties lets each named homogeneous array property also
// accept a single item: `oneOf: [items, property]`.
func (d *Document) UnwrapArrayProperties(names ...string) (*Document, error) {
	return d.transform("UnwrapArrayProperties", names, func(cur *js.Schema) *js.Schema {
		if !cur.IsArray() || cur.Items == nil || cur.Items.Schema == nil {
			return nil
		}
		return &js.Schema{OneOf: []*js.Schema{js.Clone(cur.Items.Schema), cur}}
	})
}

// transform replaces each named property with fn's result; nil skips it.
func (d *Document) transform(op string, names []string, fn func(*js.Schema) *js.Schema) (*Document, error) {
	if err := d.requireSimpleObject(op); err != nil {
		return nil, err
	}
	return d.edit(func(s *js.Schema) {
		if len(names) == 0 {
			names = s.PropertyNames()
		}
		for _, n := range names {
			cur, ok := s.Property(n)
			if !ok {
				continue
			}
			if next := fn(cur); next != nil {
				s.SetProperty(n, next)
			}
		}
	}), nil
}
