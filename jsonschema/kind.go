package jsonschema

// NodeKind identifies which variant a Schema represents.
type NodeKind int

const (
	KindAny        NodeKind = iota // No constraints.
	KindNone                       // Empty type set; matches nothing.
	KindRef                        // Unresolved $ref.
	KindPrimitive                  // string/number/integer/boolean/null.
	KindEnum                       // Explicit value set.
	KindObject                     // properties/required/additionalProperties.
	KindArray                      // items (homogeneous or tuple).
	KindCombinator                 // oneOf/allOf/anyOf.
	KindNot                        // not.
)

func (k NodeKind) String() string {
	switch k {
	case KindAny:
		return "any"
	case KindNone:
		return "none"
	case KindRef:
		return "ref"
	case KindPrimitive:
		return "primitive"
	case KindEnum:
		return "enum"
	case KindObject:
		return "object"
	case KindArray:
		return "array"
	case KindCombinator:
		return "combinator"
	case KindNot:
		return "not"
	}
	return "unknown"
}

// Kind classifies s. When several keyword families coexist the first match in
// the order ref, enum, object, array, primitive, none, combinator, not wins.
func (s *Schema) Kind() NodeKind {
	switch {
	case s == nil:
		return KindAny
	case s.Ref != "":
		return KindRef
	case s.Enum != nil:
		return KindEnum
	case s.IsObject():
		return KindObject
	case s.IsArray():
		return KindArray
	case len(s.Type) > 0:
		return KindPrimitive
	case s.Type != nil:
		return KindNone
	case len(s.OneOf) > 0 || len(s.AllOf) > 0 || len(s.AnyOf) > 0:
		return KindCombinator
	case s.Not != nil:
		return KindNot
	}
	return KindAny
}

// IsObject reports `type: object` (alone or in a union), or an untyped schema
// declaring properties.
func (s *Schema) IsObject() bool {
	if s.Type.Has("object") {
		return true
	}
	return s.Type == nil && s.Properties != nil
}

// IsArray reports `type: array`, or an untyped schema declaring items.
func (s *Schema) IsArray() bool {
	if s.Type.Has("array") {
		return true
	}
	return s.Type == nil && s.Items != nil
}
