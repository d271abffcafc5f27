// Package defaults computes the instance implied by the `default` keywords of a
// schema, composing through allOf and local #/definitions references.
package defaults

import (
	"strings"

	js "github.com/reoring/jsbuilder/jsonschema"
)

const definitionsPrefix = "#/definitions/"

// Compute returns the default instance of s. The effective definitions are the
// document's own `definitions` deep-merged with (overridden by) the supplied
// map. s is not modified. ok is false when the schema implies no default.
func Compute(s *js.Schema, definitions map[string]*js.Schema) (value any, ok bool) {
	if s == nil {
		return nil, false
	}
	defs := mergeDefinitions(s.Definitions, definitions)
	return ComputeDefault(js.Clone(s), defs)
}

// maxDepth bounds nesting through allOf and $ref; deeper schemas imply no
// default.
const maxDepth = 64

// ComputeDefault evaluates s against a generic definitions mapping
// (definition name to schema value), checking in order: default, allOf, $ref,
// object properties, array items. A reference reached again while it is still
// being resolved contributes no default.
func ComputeDefault(s *js.Schema, definitions map[string]any) (any, bool) {
	r := &resolver{definitions: definitions, active: map[string]bool{}}
	return r.compute(s)
}

// resolver tracks the references on the current resolution path.
type resolver struct {
	definitions map[string]any
	active      map[string]bool
	depth       int
}

func (r *resolver) compute(s *js.Schema) (any, bool) {
	if s == nil || r.depth >= maxDepth {
		return nil, false
	}
	r.depth++
	defer func() { r.depth-- }()
	switch {
	case s.HasDefault():
		return js.CloneValue(s.Default), true
	case len(s.AllOf) > 0:
		refs := branchRefs(s.AllOf)
		if !r.enter(refs...) {
			return nil, false
		}
		defer r.leave(refs...)
		merged, err := js.FromValue(mergeAllOf(s.AllOf, r.definitions))
		if err != nil {
			return nil, false
		}
		return r.compute(merged)
	case s.Ref != "":
		if !r.enter(s.Ref) {
			return nil, false
		}
		defer r.leave(s.Ref)
		return r.compute(resolveRef(s.Ref, r.definitions))
	case s.IsObject():
		return r.object(s), true
	case s.IsArray():
		return r.array(s), true
	}
	return nil, false
}

// enter marks refs active; it reports false, marking nothing, when any of
// them already is.
func (r *resolver) enter(refs ...string) bool {
	for _, ref := range refs {
		if r.active[ref] {
			return false
		}
	}
	for _, ref := range refs {
		r.active[ref] = true
	}
	return true
}

func (r *resolver) leave(refs ...string) {
	for _, ref := range refs {
		delete(r.active, ref)
	}
}

func branchRefs(branches []*js.Schema) []string {
	var refs []string
	seen := map[string]bool{}
	for _, b := range branches {
		if b != nil && b.Ref != "" && !seen[b.Ref] {
			seen[b.Ref] = true
			refs = append(refs, b.Ref)
		}
	}
	return refs
}

func (r *resolver) object(s *js.Schema) map[string]any {
	out := map[string]any{}
	if s.Properties == nil {
		return out
	}
	for p := s.Properties.Oldest(); p != nil; p = p.Next() {
		if v, ok := r.compute(p.Value); ok {
			out[p.Key] = v
		}
	}
	return out
}

func (r *resolver) array(s *js.Schema) []any {
	if s.Items == nil {
		return []any{}
	}
	minItems := 0
	if s.MinItems != nil {
		minItems = *s.MinItems
	}
	if s.Items.Schema == nil {
		return r.tuple(s.Items.Tuple, minItems)
	}
	item, ok := r.compute(s.Items.Schema)
	if !ok {
		return []any{}
	}
	n := max(1, minItems)
	out := make([]any, n)
	for i := range out {
		out[i] = js.CloneValue(item)
	}
	return out
}

// tuple keeps a slot per position; positions without a default hold nil.
// Trailing empty slots are trimmed but never below minItems.
func (r *resolver) tuple(tuple []*js.Schema, minItems int) []any {
	out := make([]any, len(tuple))
	set := make([]bool, len(tuple))
	for i, item := range tuple {
		out[i], set[i] = r.compute(item)
	}
	n := len(out)
	for n > minItems && n > 0 && !set[n-1] {
		n--
	}
	return out[:n]
}

// resolveRef turns the value found at ref into a schema. Primitive targets
// carry no default and yield nil.
func resolveRef(ref string, definitions map[string]any) *js.Schema {
	m, ok := getLocalRef(ref, definitions).(map[string]any)
	if !ok {
		return nil
	}
	s, err := js.FromValue(m)
	if err != nil {
		return nil
	}
	return s
}

// getLocalRef walks "#/definitions/<a>/<b>/..." through definitions. A missing
// segment yields an empty mapping; composite values are cloned, primitives
// returned as they are.
func getLocalRef(ref string, definitions map[string]any) any {
	path := strings.TrimPrefix(ref, definitionsPrefix)
	var cur any = definitions
	for _, seg := range strings.Split(path, "/") {
		var next any
		found := false
		switch node := cur.(type) {
		case map[string]any:
			next, found = node[seg]
		case []any:
			if i, ok := index(seg); ok && i < len(node) {
				next, found = node[i], true
			}
		}
		if !found {
			return map[string]any{}
		}
		cur = next
	}
	return js.CloneValue(cur)
}

func index(seg string) (int, bool) {
	if seg == "" {
		return 0, false
	}
	n := 0
	for _, r := range seg {
		if r < '0' || r > '9' {
			return 0, false
		}
		n = n*10 + int(r-'0')
	}
	return n, true
}

// mergeAllOf deep-merges the allOf branches left to right; $ref branches are
// replaced by their resolved definition first.
func mergeAllOf(branches []*js.Schema, definitions map[string]any) any {
	var acc any = map[string]any{}
	for _, b := range branches {
		if b == nil {
			continue
		}
		var v any
		if b.Ref != "" {
			v = getLocalRef(b.Ref, definitions)
		} else {
			var err error
			if v, err = js.ToValue(b); err != nil {
				continue
			}
		}
		acc = merge(acc, v)
	}
	return acc
}

// merge combines two values: plain mappings merge key by key recursively,
// anything else (sequences included) is replaced by b.
func merge(a, b any) any {
	am, aok := a.(map[string]any)
	bm, bok := b.(map[string]any)
	if !aok || !bok {
		if bok || !aok {
			return js.CloneValue(b)
		}
		return a
	}
	out := make(map[string]any, len(am)+len(bm))
	for k, v := range am {
		out[k] = v
	}
	for k, bv := range bm {
		if av, ok := out[k]; ok && isPlainMap(av) && isPlainMap(bv) {
			out[k] = merge(av, bv)
			continue
		}
		out[k] = js.CloneValue(bv)
	}
	return out
}

func isPlainMap(v any) bool {
	_, ok := v.(map[string]any)
	return ok
}

// mergeDefinitions renders both definition sets generically and deep-merges
// the external set over the document's own.
func mergeDefinitions(own, external map[string]*js.Schema) map[string]any {
	out := map[string]any{}
	for _, set := range []map[string]*js.Schema{own, external} {
		for name, d := range set {
			v, err := js.ToValue(d)
			if err != nil {
				continue
			}
			if prev, ok := out[name]; ok {
				out[name] = merge(prev, v)
				continue
			}
			out[name] = v
		}
	}
	return out
}
