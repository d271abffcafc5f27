package jsbuilder

import (
	"slices"
	"strconv"

	js "github.com/reoring/jsbuilder/jsonschema"
)

// AddProperty adds a new property, required unless Optional is given.
func (d *Document) AddProperty(name string, sub *Document, opts ...Option) (*Document, error) {
	const op = "AddProperty"
	if err := d.requireObject(op); err != nil {
		return nil, err
	}
	if d.HasProperty(name) {
		return nil, precondition(op, ClassPropertyAbsent, quote(name)+" is already declared")
	}
	return d.putProperty(name, schemaOf(sub), collect(opts)), nil
}

// AddString adds a string property; see AddProperty.
func (d *Document) AddString(name string, opts ...Option) (*Document, error) {
	return d.AddProperty(name, String(), opts...)
}

// AddNumber adds a number property; see AddProperty.
func (d *Document) AddNumber(name string, opts ...Option) (*Document, error) {
	return d.AddProperty(name, Number(), opts...)
}

// AddInteger adds an integer property; see AddProperty.
func (d *Document) AddInteger(name string, opts ...Option) (*Document, error) {
	return d.AddProperty(name, Integer(), opts...)
}

// AddBoolean adds a boolean property; see AddProperty.
func (d *Document) AddBoolean(name string, opts ...Option) (*Document, error) {
	return d.AddProperty(name, Boolean(), opts...)
}

// AddEnum adds an Enum property; see AddProperty.
func (d *Document) AddEnum(name string, values []any, opts ...Option) (*Document, error) {
	return d.AddProperty(name, Enum(values), opts...)
}

// AddArray adds an Array property; see AddProperty.
func (d *Document) AddArray(name string, items *Document, opts ...Option) (*Document, error) {
	return d.AddProperty(name, Array(items), opts...)
}

// AddObject adds an Object property; see AddProperty.
func (d *Document) AddObject(name string, fields []Field, opts ...Option) (*Document, error) {
	return d.AddProperty(name, Object(fields), opts...)
}

// ReplaceProperty replaces the schema of an existing property. The required
// flag is set again from opts.
func (d *Document) ReplaceProperty(name string, sub *Document, opts ...Option) (*Document, error) {
	const op = "ReplaceProperty"
	if err := d.requireObject(op); err != nil {
		return nil, err
	}
	if !d.HasProperty(name) {
		return nil, precondition(op, ClassPropertyExists, quote(name))
	}
	return d.putProperty(name, schemaOf(sub), collect(opts)), nil
}

// ReplacePropertyFunc replaces an existing property with the result of fn,
// which receives the current property schema.
func (d *Document) ReplacePropertyFunc(name string, fn func(*Document) (*Document, error), opts ...Option) (*Document, error) {
	const op = "ReplacePropertyFunc"
	if err := d.requireObject(op); err != nil {
		return nil, err
	}
	cur, ok := d.schema.Property(name)
	if !ok {
		return nil, precondition(op, ClassPropertyExists, quote(name))
	}
	next, err := fn(d.derive(js.Clone(cur)))
	if err != nil {
		return nil, err
	}
	return d.putProperty(name, schemaOf(next), collect(opts)), nil
}

// AddOrReplaceProperty sets a property whether or not it exists.
func (d *Document) AddOrReplaceProperty(name string, sub *Document, opts ...Option) (*Document, error) {
	if err := d.requireObject("AddOrReplaceProperty"); err != nil {
		return nil, err
	}
	return d.putProperty(name, schemaOf(sub), collect(opts)), nil
}

// putProperty takes ownership of sub.
func (d *Document) putProperty(name string, sub *js.Schema, st settings) *Document {
	return d.edit(func(s *js.Schema) {
		s.SetProperty(name, st.apply(sub))
		s.Required = setRequired(s.Required, name, !st.optional)
	})
}

// RenameProperty moves a property to a new name, keeping its required
// status. The renamed property moves to the end of `properties`.
func (d *Document) RenameProperty(from, to string) (*Document, error) {
	const op = "RenameProperty"
	if err := d.requireSimpleObject(op); err != nil {
		return nil, err
	}
	if !d.HasProperty(from) {
		return nil, precondition(op, ClassPropertyExists, quote(from))
	}
	if from == to {
		return d.Clone(), nil
	}
	if d.HasProperty(to) {
		return nil, precondition(op, ClassPropertyAbsent, quote(to)+" is already declared")
	}
	return d.edit(func(s *js.Schema) {
		sub, _ := s.Properties.Delete(from)
		s.Properties.Set(to, sub)
		for i, r := range s.Required {
			if r == from {
				s.Required[i] = to
			}
		}
	}), nil
}

// PickProperties keeps only the named properties and forbids additional ones.
func (d *Document) PickProperties(names ...string) (*Document, error) {
	if err := d.requireSimpleObject("PickProperties"); err != nil {
		return nil, err
	}
	return d.edit(func(s *js.Schema) {
		pick(s, names)
		s.AdditionalProperties = js.AdditionalFalse()
	}), nil
}

// OmitProperties drops the named properties.
func (d *Document) OmitProperties(names ...string) (*Document, error) {
	if err := d.requireSimpleObject("OmitProperties"); err != nil {
		return nil, err
	}
	keep := slices.DeleteFunc(d.schema.PropertyNames(), func(n string) bool {
		return slices.Contains(names, n)
	})
	return d.edit(func(s *js.Schema) {
		pick(s, keep)
		s.AdditionalProperties = js.AdditionalFalse()
	}), nil
}

// PickAdditionalProperties keeps the named properties of an object that
// allows additional properties. keep decides what happens to them:
//
//   - nil keeps the original additionalProperties;
//   - an empty slice sets additionalProperties to false;
//   - otherwise every name in keep becomes a required property typed by the
//     original additionalProperties schema and additionalProperties is false.
func (d *Document) PickAdditionalProperties(names []string, keep []string) (*Document, error) {
	if !d.HasAdditionalProperties() || d.HasCombinatorKeywords() {
		return nil, precondition("PickAdditionalProperties", ClassAdditionalAllowed, "")
	}
	return d.edit(func(s *js.Schema) {
		ap := s.AdditionalProperties
		pick(s, names)
		switch {
		case keep == nil:
			return
		case len(keep) == 0:
			s.AdditionalProperties = js.AdditionalFalse()
			return
		}
		for _, k := range keep {
			sub := &js.Schema{}
			if ap != nil && ap.Schema != nil {
				sub = js.Clone(ap.Schema)
			}
			s.SetProperty(k, sub)
			s.Required = setRequired(s.Required, k, true)
		}
		s.AdditionalProperties = js.AdditionalFalse()
	}), nil
}

// pick restricts properties and required to names, in declaration order.
func pick(s *js.Schema, names []string) {
	props := js.NewProperties()
	if s.Properties != nil {
		for p := s.Properties.Oldest(); p != nil; p = p.Next() {
			if slices.Contains(names, p.Key) {
				props.Set(p.Key, p.Value)
			}
		}
	}
	s.Properties = props
	s.Required = nilIfEmpty(slices.DeleteFunc(s.Required, func(r string) bool {
		return !slices.Contains(names, r)
	}))
}

// SetOptionalProperties removes names from `required` and strips their
// defaults.
func (d *Document) SetOptionalProperties(names ...string) (*Document, error) {
	if err := d.requireSimpleObject("SetOptionalProperties"); err != nil {
		return nil, err
	}
	return d.edit(func(s *js.Schema) {
		for _, n := range names {
			s.Required = setRequired(s.Required, n, false)
			if sub, ok := s.Property(n); ok {
				sub.ClearDefault()
			}
		}
	}), nil
}

// SetRequiredProperties adds the declared names among names to `required`.
func (d *Document) SetRequiredProperties(names ...string) (*Document, error) {
	if err := d.requireSimpleObject("SetRequiredProperties"); err != nil {
		return nil, err
	}
	return d.edit(func(s *js.Schema) {
		for _, n := range names {
			if _, ok := s.Property(n); ok {
				s.Required = setRequired(s.Required, n, true)
			}
		}
	}), nil
}

// ToOptionals clears `required` and every property default.
func (d *Document) ToOptionals() *Document {
	return d.edit(makeOptional)
}

// ToDeepOptionals applies ToOptionals to every nested schema.
func (d *Document) ToDeepOptionals() *Document {
	return d.edit(func(s *js.Schema) { js.Traverse(s, makeOptional) })
}

func makeOptional(s *js.Schema) {
	s.Required = nil
	if s.Properties == nil {
		return
	}
	for p := s.Properties.Oldest(); p != nil; p = p.Next() {
		if p.Value != nil {
			p.Value.ClearDefault()
		}
	}
}

// ToNullable widens every optional property to also accept null.
func (d *Document) ToNullable() (*Document, error) {
	if err := d.requireSimpleObject("ToNullable"); err != nil {
		return nil, err
	}
	return d.edit(func(s *js.Schema) {
		if s.Properties == nil {
			return
		}
		for p := s.Properties.Oldest(); p != nil; p = p.Next() {
			if !s.IsRequired(p.Key) {
				p.Value = widenNull(p.Value)
			}
		}
	}), nil
}

// AddAdditionalProperties allows additional properties, typed by sub when
// it is non-nil.
func (d *Document) AddAdditionalProperties(sub *Document) (*Document, error) {
	const op = "AddAdditionalProperties"
	if err := d.requireObject(op); err != nil {
		return nil, err
	}
	if d.schema.AdditionalProperties.Truthy() {
		return nil, precondition(op, ClassNoAdditional, "")
	}
	return d.edit(func(s *js.Schema) {
		if sub == nil {
			s.AdditionalProperties = js.AdditionalTrue()
			return
		}
		s.AdditionalProperties = js.AdditionalSchema(js.Clone(sub.schema))
	}), nil
}

// setRequired adds or removes name, keeping the order of the other entries.
func setRequired(list []string, name string, required bool) []string {
	has := slices.Contains(list, name)
	switch {
	case required && !has:
		return append(list, name)
	case !required && has:
		return nilIfEmpty(slices.DeleteFunc(list, func(r string) bool { return r == name }))
	}
	return list
}

func nilIfEmpty(list []string) []string {
	if len(list) == 0 {
		return nil
	}
	return list
}

func quote(name string) string { return strconv.Quote(name) }
