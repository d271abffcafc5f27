package jsonschema_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	js "github.com/reoring/jsbuilder/jsonschema"
)

func TestClone_Independent(t *testing.T) {
	src := `{"type":"object","properties":{"a":{"type":"string","enum":["x","y"],"default":{"nested":[1,2]}}},"required":["a"],"additionalProperties":{"type":"number"}}`
	orig := mustFromJSON(t, src)
	cp := js.Clone(orig)

	a, _ := cp.Property("a")
	a.Enum[0] = "changed"
	a.Default.(map[string]any)["nested"].([]any)[0] = 99
	a.Type = js.Types{"integer"}
	cp.Required[0] = "b"
	cp.AdditionalProperties.Schema.Type = nil
	cp.SetProperty("new", &js.Schema{})

	if got := encode(t, orig); got != src {
		t.Fatalf("original mutated:\nwant %s\n got %s", src, got)
	}
}

func TestCloneValue(t *testing.T) {
	v := map[string]any{"list": []any{map[string]any{"k": "v"}}, "n": nil}
	cp := js.CloneValue(v).(map[string]any)
	if diff := cmp.Diff(v, cp); diff != "" {
		t.Fatalf("clone differs (-orig +clone):\n%s", diff)
	}
	cp["list"].([]any)[0].(map[string]any)["k"] = "changed"
	if v["list"].([]any)[0].(map[string]any)["k"] != "v" {
		t.Fatalf("clone shares nested state")
	}
	if js.CloneValue(nil) != nil || js.CloneValue("s") != "s" {
		t.Fatalf("primitives must pass through")
	}
}
