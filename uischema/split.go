// Package uischema separates form-rendering hints from a schema.
//
// UI hints are keywords in the "ui" family, written either in camel case
// ("uiWidget") or in colon form ("ui:widget"). Split removes them and returns
// them as a parallel document in colon form, shaped after the schema:
// property hints are nested under the property name and item hints under
// "items".
package uischema

import (
	"strings"
	"unicode"
	"unicode/utf8"

	js "github.com/reoring/jsbuilder/jsonschema"
)

// Split returns a copy of s without UI keywords and the UI document. s is
// not modified.
func Split(s *js.Schema) (*js.Schema, map[string]any) {
	if s == nil {
		return nil, map[string]any{}
	}
	c := js.Clone(s)
	return c, extract(c)
}

func extract(s *js.Schema) map[string]any {
	out := map[string]any{}
	if s == nil {
		return out
	}
	for k, v := range s.Extra {
		if name, ok := Keyword(k); ok {
			out[name] = v
			delete(s.Extra, k)
		}
	}
	if len(s.Extra) == 0 {
		s.Extra = nil
	}
	if s.Properties != nil {
		for p := s.Properties.Oldest(); p != nil; p = p.Next() {
			if sub := extract(p.Value); len(sub) > 0 {
				out[p.Key] = sub
			}
		}
	}
	switch {
	case s.Items == nil:
	case s.Items.Schema != nil:
		if sub := extract(s.Items.Schema); len(sub) > 0 {
			out["items"] = sub
		}
	default:
		list := make([]any, len(s.Items.Tuple))
		found := false
		for i, it := range s.Items.Tuple {
			sub := extract(it)
			found = found || len(sub) > 0
			list[i] = sub
		}
		if found {
			out["items"] = list
		}
	}
	return out
}

// Keyword reports whether k is a UI keyword and returns its colon form:
// "uiWidget" and "ui:widget" both yield "ui:widget".
func Keyword(k string) (string, bool) {
	if strings.HasPrefix(k, "ui:") && len(k) > 3 {
		return k, true
	}
	rest, ok := strings.CutPrefix(k, "ui")
	if !ok || rest == "" {
		return "", false
	}
	r, size := utf8.DecodeRuneInString(rest)
	if !unicode.IsUpper(r) {
		return "", false
	}
	return "ui:" + string(unicode.ToLower(r)) + rest[size:], true
}
