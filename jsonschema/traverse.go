package jsonschema

import "iter"

// Traverse calls action on s and then on every nested schema in pre-order:
// properties, oneOf, allOf, anyOf, items (each tuple position in order), not,
// and additionalProperties when it is a schema. The action may mutate the
// node it receives; Traverse itself copies nothing. It returns s.
func Traverse(s *Schema, action func(*Schema)) *Schema {
	if s == nil {
		return nil
	}
	action(s)
	if s.Properties != nil {
		for p := s.Properties.Oldest(); p != nil; p = p.Next() {
			Traverse(p.Value, action)
		}
	}
	TraverseAll(s.OneOf, action)
	TraverseAll(s.AllOf, action)
	TraverseAll(s.AnyOf, action)
	if s.Items != nil {
		if s.Items.Schema != nil {
			Traverse(s.Items.Schema, action)
		} else {
			TraverseAll(s.Items.Tuple, action)
		}
	}
	Traverse(s.Not, action)
	if ap := s.AdditionalProperties; ap != nil && ap.Schema != nil {
		Traverse(ap.Schema, action)
	}
	return s
}

// TraverseAll traverses each schema of a sequence; no action fires for the
// sequence itself.
func TraverseAll(list []*Schema, action func(*Schema)) []*Schema {
	for _, s := range list {
		Traverse(s, action)
	}
	return list
}

// All yields s and its nested schemas in the same order as Traverse.
func All(s *Schema) iter.Seq[*Schema] {
	return func(yield func(*Schema) bool) {
		walk(s, yield)
	}
}

func walk(s *Schema, yield func(*Schema) bool) bool {
	if s == nil {
		return true
	}
	if !yield(s) {
		return false
	}
	if s.Properties != nil {
		for p := s.Properties.Oldest(); p != nil; p = p.Next() {
			if !walk(p.Value, yield) {
				return false
			}
		}
	}
	for _, group := range [][]*Schema{s.OneOf, s.AllOf, s.AnyOf} {
		for _, sub := range group {
			if !walk(sub, yield) {
				return false
			}
		}
	}
	if s.Items != nil {
		if s.Items.Schema != nil {
			if !walk(s.Items.Schema, yield) {
				return false
			}
		} else {
			for _, sub := range s.Items.Tuple {
				if !walk(sub, yield) {
					return false
				}
			}
		}
	}
	if !walk(s.Not, yield) {
		return false
	}
	if ap := s.AdditionalProperties; ap != nil && ap.Schema != nil {
		return walk(ap.Schema, yield)
	}
	return true
}

// FindRef returns the first $ref reachable through Traverse, or "".
func FindRef(s *Schema) string {
	for n := range All(s) {
		if n.Ref != "" {
			return n.Ref
		}
	}
	return ""
}
