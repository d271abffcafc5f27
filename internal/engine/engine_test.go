package engine

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	js "github.com/reoring/jsbuilder/jsonschema"
)

func mustSchema(t *testing.T, src string) *js.Schema {
	t.Helper()
	s, err := js.FromJSON([]byte(src))
	if err != nil {
		t.Fatalf("decode schema: %v", err)
	}
	return s
}

func mustCompile(t *testing.T, src string, opts Options) *Validator {
	t.Helper()
	v, err := Compile(mustSchema(t, src), opts)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	return v
}

func TestValidate_Basic(t *testing.T) {
	v := mustCompile(t, `{"type":"object","properties":{"name":{"type":"string","minLength":2}},"required":["name"],"additionalProperties":false}`, Options{})

	if _, fails := v.Validate(map[string]any{"name": "ok"}); len(fails) != 0 {
		t.Fatalf("unexpected failures: %+v", fails)
	}
	for _, bad := range []any{
		map[string]any{},
		map[string]any{"name": "x"},
		map[string]any{"name": "ok", "extra": 1},
		"not an object",
	} {
		if _, fails := v.Validate(bad); len(fails) == 0 {
			t.Errorf("expected failure for %#v", bad)
		}
	}
}

func TestValidate_AcceptsGoValues(t *testing.T) {
	type payload struct {
		Count int `json:"count"`
	}
	v := mustCompile(t, `{"type":"object","properties":{"count":{"type":"integer","minimum":1}}}`, Options{})
	got, fails := v.Validate(payload{Count: 3})
	if len(fails) != 0 {
		t.Fatalf("unexpected failures: %+v", fails)
	}
	if diff := cmp.Diff(map[string]any{"count": float64(3)}, got); diff != "" {
		t.Fatalf("prepared value (-want +got):\n%s", diff)
	}
}

func TestValidate_TupleItems(t *testing.T) {
	v := mustCompile(t, `{"type":"array","items":[{"type":"string"},{"type":"number"}],"additionalItems":false}`, Options{})
	if _, fails := v.Validate([]any{"a", 1}); len(fails) != 0 {
		t.Fatalf("unexpected failures: %+v", fails)
	}
	if _, fails := v.Validate([]any{1, "a"}); len(fails) == 0 {
		t.Fatalf("positional types must be enforced")
	}
	if _, fails := v.Validate([]any{"a", 1, true}); len(fails) == 0 {
		t.Fatalf("additionalItems=false must reject extra positions")
	}
}

func TestValidate_UseDefaults(t *testing.T) {
	src := `{"type":"object","properties":{
		"a":{"type":"string","default":"x"},
		"b":{"type":"object","properties":{"c":{"type":"number","default":1}},"default":{}},
		"t":{"type":"array","items":[{"default":"p"},{"default":"q"},{}]}
	}}`
	v := mustCompile(t, src, Options{UseDefaults: true})
	got, fails := v.Validate(map[string]any{"t": []any{}})
	if len(fails) != 0 {
		t.Fatalf("unexpected failures: %+v", fails)
	}
	want := map[string]any{
		"a": "x",
		"b": map[string]any{"c": float64(1)},
		"t": []any{"p", "q"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("prepared value (-want +got):\n%s", diff)
	}

	off := mustCompile(t, src, Options{})
	got, _ = off.Validate(map[string]any{})
	if diff := cmp.Diff(map[string]any{}, got); diff != "" {
		t.Fatalf("defaults applied while disabled (-want +got):\n%s", diff)
	}
}

func TestValidate_RemoveAdditional(t *testing.T) {
	src := `{"type":"object","properties":{
		"keep":{"type":"string"},
		"open":{"type":"object","additionalProperties":true}
	},"additionalProperties":false}`
	v := mustCompile(t, src, Options{RemoveAdditional: true})
	in := map[string]any{"keep": "k", "drop": 1, "open": map[string]any{"any": true}}
	got, fails := v.Validate(in)
	if len(fails) != 0 {
		t.Fatalf("unexpected failures: %+v", fails)
	}
	want := map[string]any{"keep": "k", "open": map[string]any{"any": true}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("prepared value (-want +got):\n%s", diff)
	}
	if _, ok := in["drop"]; !ok {
		t.Fatalf("caller input must not be modified")
	}
}

func TestValidate_CoerceTypes(t *testing.T) {
	src := `{"type":"object","properties":{
		"n":{"type":"number"},
		"i":{"type":"integer"},
		"s":{"type":"string"},
		"b":{"type":"boolean"},
		"z":{"type":"null"},
		"u":{"type":["number","string"]}
	}}`
	v := mustCompile(t, src, Options{CoerceTypes: true})
	got, fails := v.Validate(map[string]any{"n": "1.5", "i": "7", "s": 3, "b": "true", "z": "", "u": "x"})
	if len(fails) != 0 {
		t.Fatalf("unexpected failures: %+v", fails)
	}
	want := map[string]any{"n": 1.5, "i": float64(7), "s": "3", "b": true, "z": nil, "u": "x"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("coerced value (-want +got):\n%s", diff)
	}
	if _, fails := v.Validate(map[string]any{"i": "7.5"}); len(fails) == 0 {
		t.Fatalf("non-integral string must not coerce to integer")
	}
}

func TestCoerceTo(t *testing.T) {
	cases := []struct {
		in   any
		want string
		out  any
		ok   bool
	}{
		{nil, "string", "", true},
		{true, "string", "true", true},
		{false, "number", float64(0), true},
		{nil, "integer", float64(0), true},
		{"", "number", nil, false},
		{"abc", "number", nil, false},
		{float64(0), "boolean", false, true},
		{float64(2), "boolean", nil, false},
		{false, "null", nil, true},
		{"x", "null", nil, false},
	}
	for _, tc := range cases {
		out, ok := coerceTo(tc.in, tc.want)
		if ok != tc.ok || (ok && !cmp.Equal(out, tc.out)) {
			t.Errorf("coerceTo(%#v, %s) = %#v, %v; want %#v, %v", tc.in, tc.want, out, ok, tc.out, tc.ok)
		}
	}
}

func TestCompile_Strict(t *testing.T) {
	src := `{"type":"object","properties":{"a":{"type":"string","uiWidget":"text"}}}`
	if _, err := Compile(mustSchema(t, src), Options{}); err != nil {
		t.Fatalf("lenient compile: %v", err)
	}
	_, err := Compile(mustSchema(t, src), Options{Strict: true})
	if err == nil || !strings.Contains(err.Error(), "uiWidget") {
		t.Fatalf("strict compile should name the unknown keyword, got %v", err)
	}
}

func TestCompile_InvalidPattern(t *testing.T) {
	if _, err := Compile(mustSchema(t, `{"type":"string","pattern":"("}`), Options{}); err == nil {
		t.Fatalf("expected compile error for invalid pattern")
	}
}

func TestValidate_ReportsEveryFailure(t *testing.T) {
	v := mustCompile(t, `{"type":"object","properties":{
		"a":{"type":"string"},
		"b":{"type":"integer"},
		"c":{"type":"boolean"},
		"list":{"type":"array","items":{"type":"number"}}
	},"required":["a","b","c"]}`, Options{})

	_, fails := v.Validate(map[string]any{"a": 1, "b": "x", "list": []any{1, "two", 3, "four"}})
	var paths []string
	for _, f := range fails {
		if f.Message == "" {
			t.Errorf("failure at %q has no message", f.Path)
		}
		paths = append(paths, f.Path)
	}
	want := []string{"", "/a", "/b", "/list/1", "/list/3"}
	if diff := cmp.Diff(want, paths); diff != "" {
		t.Fatalf("failure paths (-want +got):\n%s", diff)
	}
	if !strings.Contains(fails[0].Message, "c") {
		t.Fatalf("root failure should name the missing property, got %q", fails[0].Message)
	}
}

func TestValidate_AlternativesReportOnce(t *testing.T) {
	v := mustCompile(t, `{"type":"object","properties":{"a":{"anyOf":[{"type":"string"},{"type":"null"}]}}}`, Options{})
	_, fails := v.Validate(map[string]any{"a": 1})
	if len(fails) != 1 || fails[0].Path != "/a" {
		t.Fatalf("expected one failure at /a, got %+v", fails)
	}
}

func TestCompile_StrictAllowsDraft7Keywords(t *testing.T) {
	for _, src := range []string{
		`{"$schema":"http://json-schema.org/draft-07/schema#","type":"string"}`,
		`{"const":"x"}`,
		`{"type":"object","patternProperties":{"^x-":{"type":"string"}},"propertyNames":{"maxLength":8}}`,
		`{"if":{"type":"string"},"then":{"minLength":1},"else":{"type":"number"}}`,
		`{"type":"array","contains":{"type":"integer"},"additionalItems":false,"items":[{}]}`,
		`{"$id":"http://example.com/s","$comment":"c","dependencies":{"a":["b"]}}`,
	} {
		if _, err := Compile(mustSchema(t, src), Options{Strict: true}); err != nil {
			t.Errorf("%s: strict compile failed: %v", src, err)
		}
	}
}

func TestValidate_Draft7Tuples(t *testing.T) {
	v := mustCompile(t, `{"type":"array","items":[{"type":"string"}],"additionalItems":{"type":"number"}}`, Options{})
	if _, fails := v.Validate([]any{"a", 1, 2}); len(fails) != 0 {
		t.Fatalf("unexpected failures: %+v", fails)
	}
	_, fails := v.Validate([]any{"a", "b"})
	if len(fails) != 1 || fails[0].Path != "/1" {
		t.Fatalf("expected one failure at /1, got %+v", fails)
	}
}
