package jsbuilder

import js "github.com/reoring/jsbuilder/jsonschema"

type mergeMode int

const (
	intersectMode mergeMode = iota
	unionMode
	overwriteMode
)

// IntersectProperties adds the properties of other. Properties declared on
// both sides become allOf of the two schemas and are required when either
// side requires them.
func (d *Document) IntersectProperties(other *Document) (*Document, error) {
	return d.combine("IntersectProperties", other, intersectMode)
}

// MergeProperties adds the properties of other. Properties declared on both
// sides become anyOf of the two schemas and stay required only when both
// sides require them.
func (d *Document) MergeProperties(other *Document) (*Document, error) {
	return d.combine("MergeProperties", other, unionMode)
}

// OverwriteProperties adds the properties of other, replacing properties
// declared on both sides together with their required status.
func (d *Document) OverwriteProperties(other *Document) (*Document, error) {
	return d.combine("OverwriteProperties", other, overwriteMode)
}

func (d *Document) combine(op string, other *Document, mode mergeMode) (*Document, error) {
	if err := d.requireSimpleObject(op); err != nil {
		return nil, err
	}
	if other == nil {
		return nil, precondition(op, ClassSimpleObject, "argument is nil")
	}
	if err := other.requireSimpleObject(op); err != nil {
		return nil, err
	}
	o := other.schema
	return d.edit(func(s *js.Schema) {
		for _, name := range o.PropertyNames() {
			incoming, _ := o.Property(name)
			incoming = js.Clone(incoming)
			otherReq := o.IsRequired(name)

			cur, exists := s.Property(name)
			if !exists {
				s.SetProperty(name, incoming)
				s.Required = setRequired(s.Required, name, otherReq)
				continue
			}
			thisReq := s.IsRequired(name)
			switch mode {
			case intersectMode:
				s.SetProperty(name, &js.Schema{AllOf: []*js.Schema{cur, incoming}})
				s.Required = setRequired(s.Required, name, thisReq || otherReq)
			case unionMode:
				s.SetProperty(name, &js.Schema{AnyOf: []*js.Schema{cur, incoming}})
				// Demote only when this side required it and other did not.
				if thisReq && !otherReq {
					s.Required = setRequired(s.Required, name, false)
				}
			case overwriteMode:
				s.SetProperty(name, incoming)
				s.Required = setRequired(s.Required, name, otherReq)
			}
		}
	}), nil
}
