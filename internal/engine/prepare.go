package engine

import (
	"math"
	"strconv"

	js "github.com/reoring/jsbuilder/jsonschema"
)

// prepare applies the instance passes enabled in Options, walking inst
// alongside s. Maps and slices are modified in place; the (possibly
// replaced) value is returned for the caller to store back.
func (v *Validator) prepare(inst any, s *js.Schema) any {
	if s == nil {
		return inst
	}
	if v.opts.CoerceTypes {
		inst = coerce(inst, s.Type)
	}
	switch t := inst.(type) {
	case map[string]any:
		v.prepareObject(t, s)
	case []any:
		inst = v.prepareArray(t, s)
	}
	for _, sub := range s.AllOf {
		inst = v.prepare(inst, sub)
	}
	return inst
}

func (v *Validator) prepareObject(obj map[string]any, s *js.Schema) {
	if s.Properties != nil {
		for p := s.Properties.Oldest(); p != nil; p = p.Next() {
			val, ok := obj[p.Key]
			if !ok {
				if !v.opts.UseDefaults || !p.Value.HasDefault() {
					continue
				}
				val = js.CloneValue(p.Value.Default)
			}
			obj[p.Key] = v.prepare(val, p.Value)
		}
	}
	ap := s.AdditionalProperties
	for key, val := range obj {
		if _, declared := s.Property(key); declared {
			continue
		}
		switch {
		case v.opts.RemoveAdditional && ap.Forbidden():
			delete(obj, key)
		case ap != nil && ap.Schema != nil:
			obj[key] = v.prepare(val, ap.Schema)
		}
	}
}

func (v *Validator) prepareArray(list []any, s *js.Schema) []any {
	if s.Items == nil {
		return list
	}
	if !s.Items.IsTuple() {
		for i := range list {
			list[i] = v.prepare(list[i], s.Items.Schema)
		}
		return list
	}
	for i, sub := range s.Items.Tuple {
		if i < len(list) {
			list[i] = v.prepare(list[i], sub)
			continue
		}
		// Missing positions are filled only while they stay contiguous.
		if !v.opts.UseDefaults || !sub.HasDefault() {
			break
		}
		list = append(list, v.prepare(js.CloneValue(sub.Default), sub))
	}
	return list
}

var coercionOrder = []string{"string", "number", "integer", "boolean", "null"}

// coerce converts a scalar to the first declared type it can represent,
// unless it already satisfies one of them.
func coerce(val any, types js.Types) any {
	if len(types) == 0 || matchesType(val, types) {
		return val
	}
	for _, want := range coercionOrder {
		if !types.Has(want) {
			continue
		}
		if out, ok := coerceTo(val, want); ok {
			return out
		}
	}
	return val
}

func jsonType(val any) string {
	switch t := val.(type) {
	case nil:
		return "null"
	case bool:
		return "boolean"
	case string:
		return "string"
	case float64:
		if t == math.Trunc(t) {
			return "integer"
		}
		return "number"
	case map[string]any:
		return "object"
	case []any:
		return "array"
	}
	return ""
}

func matchesType(val any, types js.Types) bool {
	got := jsonType(val)
	return types.Has(got) || (got == "integer" && types.Has("number"))
}

func coerceTo(val any, want string) (any, bool) {
	switch want {
	case "string":
		switch t := val.(type) {
		case float64:
			return strconv.FormatFloat(t, 'f', -1, 64), true
		case bool:
			return strconv.FormatBool(t), true
		case nil:
			return "", true
		}
	case "number", "integer":
		var f float64
		switch t := val.(type) {
		case bool:
			if t {
				f = 1
			}
		case nil:
		case string:
			n, err := strconv.ParseFloat(t, 64)
			if t == "" || err != nil {
				return nil, false
			}
			f = n
		default:
			return nil, false
		}
		if want == "integer" && f != math.Trunc(f) {
			return nil, false
		}
		return f, true
	case "boolean":
		switch val {
		case "false", float64(0), nil:
			return false, true
		case "true", float64(1):
			return true, true
		}
	case "null":
		switch val {
		case "", float64(0), false:
			return nil, true
		}
	}
	return nil, false
}
