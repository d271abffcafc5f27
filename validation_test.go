package jsbuilder_test

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"

	jsb "github.com/reoring/jsbuilder"
)

func user() *jsb.Document {
	return jsb.Object([]jsb.Field{
		jsb.F("name", jsb.String(jsb.MinLength(1))),
		jsb.Opt("role", jsb.Enum([]any{"admin", "member"}, jsb.Default("member"))),
		jsb.Opt("age", jsb.Integer(jsb.Minimum(0))),
	})
}

func TestValidate_AppliesDefaults(t *testing.T) {
	got, err := user().Validate(map[string]any{"name": "ann"})
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	want := map[string]any{"name": "ann", "role": "member"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("validated value (-want +got):\n%s", diff)
	}
}

func TestValidate_Failure(t *testing.T) {
	_, err := user().Validate(map[string]any{"name": "", "extra": true})
	if !errors.Is(err, jsb.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	iss, ok := jsb.AsIssues(err)
	if !ok {
		t.Fatalf("expected issues, got %v", err)
	}
	var paths []string
	for _, it := range iss {
		if it.Code != jsb.CodeSchemaViolation || it.Message == "" {
			t.Fatalf("unexpected issue: %+v", it)
		}
		paths = append(paths, it.Path)
	}
	// The unknown key is reported on the object holding it.
	if diff := cmp.Diff([]string{"", "/name"}, paths); diff != "" {
		t.Fatalf("issue paths (-want +got):\n%s", diff)
	}
	if !strings.Contains(iss[0].Message, "extra") {
		t.Fatalf("root issue should name the unknown key: %q", iss[0].Message)
	}
	if !strings.HasPrefix(err.Error(), "schema validation failed: ") {
		t.Fatalf("error text: %q", err.Error())
	}
}

func TestValidate_ReportsEveryFailure(t *testing.T) {
	d := jsb.Object([]jsb.Field{
		jsb.F("a", jsb.String()),
		jsb.F("b", jsb.Integer()),
		jsb.F("c", jsb.Boolean()),
	})
	_, err := d.Validate(map[string]any{"a": 1, "b": "x"})
	iss, ok := jsb.AsIssues(err)
	if !ok || len(iss) != 3 {
		t.Fatalf("expected three issues, got %v", err)
	}
	got := []string{iss[0].Path, iss[1].Path, iss[2].Path}
	if diff := cmp.Diff([]string{"", "/a", "/b"}, got); diff != "" {
		t.Fatalf("issue paths (-want +got):\n%s", diff)
	}
	if !strings.Contains(iss[0].Message, "c") {
		t.Fatalf("root issue should name the missing property: %q", iss[0].Message)
	}
}

func TestValidate_DisableDefaults(t *testing.T) {
	d := user().ConfigureValidation(jsb.ValidationConfig{UseDefaults: jsb.Bool(false)})
	got, err := d.Validate(map[string]any{"name": "ann"})
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if diff := cmp.Diff(map[string]any{"name": "ann"}, got); diff != "" {
		t.Fatalf("validated value (-want +got):\n%s", diff)
	}
}

func TestConfigureValidation_CoerceAndRemove(t *testing.T) {
	d := user().ConfigureValidation(jsb.ValidationConfig{
		CoerceTypes:      jsb.Bool(true),
		RemoveAdditional: jsb.Bool(true),
	})
	got, err := d.Validate(map[string]any{"name": "bob", "age": "42", "unknown": 1})
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	want := map[string]any{"name": "bob", "age": float64(42), "role": "member"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("validated value (-want +got):\n%s", diff)
	}

	cfg := d.Config()
	if cfg.UseDefaults != nil || !*cfg.CoerceTypes || !*cfg.RemoveAdditional {
		t.Fatalf("config not merged: %+v", cfg)
	}
	derived := must(t)(d.AddString("nick", jsb.Optional()))
	if derived.Config() != cfg {
		t.Fatalf("transformations must carry the validation config")
	}
}

func TestConfigureValidation_Strict(t *testing.T) {
	d := jsb.String(jsb.Keyword("uiWidget", "text"))
	if _, err := d.Validate("x"); err != nil {
		t.Fatalf("lenient validation: %v", err)
	}
	strict := d.ConfigureValidation(jsb.ValidationConfig{Strict: jsb.Bool(true)})
	if err := strict.CacheValidationFunction(); err == nil || errors.Is(err, jsb.ErrValidation) {
		t.Fatalf("expected a compile error, got %v", err)
	}
	if _, err := strict.Validate("x"); err == nil {
		t.Fatalf("Validate must report the compile error")
	}
}

func TestConfigureValidation_StrictAcceptsDraft7(t *testing.T) {
	d := jsb.String(
		jsb.Keyword("$schema", "http://json-schema.org/draft-07/schema#"),
		jsb.Keyword("const", "x"),
	).ConfigureValidation(jsb.ValidationConfig{Strict: jsb.Bool(true)})
	if err := d.CacheValidationFunction(); err != nil {
		t.Fatalf("strict compile: %v", err)
	}
	if _, err := d.Validate("x"); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if _, err := d.Validate("y"); !errors.Is(err, jsb.ErrValidation) {
		t.Fatalf("const must be enforced, got %v", err)
	}
}

func TestValidateList(t *testing.T) {
	d := user()
	got, err := d.ValidateList([]any{map[string]any{"name": "a"}, map[string]any{"name": "b", "role": "admin"}})
	if err != nil {
		t.Fatalf("ValidateList: %v", err)
	}
	want := []any{
		map[string]any{"name": "a", "role": "member"},
		map[string]any{"name": "b", "role": "admin"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("validated list (-want +got):\n%s", diff)
	}
	if _, err := d.ValidateList(nil); !errors.Is(err, jsb.ErrValidation) {
		t.Fatalf("empty list must fail, got %v", err)
	}
	if _, err := d.ValidateList([]any{map[string]any{}}); !errors.Is(err, jsb.ErrValidation) {
		t.Fatalf("invalid element must fail, got %v", err)
	}
}

func TestValidate_DoesNotMutateInput(t *testing.T) {
	in := map[string]any{"name": "ann"}
	if _, err := user().Validate(in); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if _, ok := in["role"]; ok {
		t.Fatalf("defaults must be applied to a copy")
	}
}

type account struct {
	Name string `json:"name"`
	Role string `json:"role"`
	Age  int    `json:"age,omitempty"`
}

func TestValidateAs(t *testing.T) {
	got, err := jsb.ValidateAs[account](user(), map[string]any{"name": "ann", "age": 30})
	if err != nil {
		t.Fatalf("ValidateAs: %v", err)
	}
	if diff := cmp.Diff(account{Name: "ann", Role: "member", Age: 30}, got); diff != "" {
		t.Fatalf("decoded (-want +got):\n%s", diff)
	}
	if _, err := jsb.ValidateAs[account](user(), map[string]any{}); !errors.Is(err, jsb.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestValidate_CompilesOnce(t *testing.T) {
	var buf bytes.Buffer
	jsb.SetLogger(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	t.Cleanup(func() { jsb.SetLogger(nil) })

	d := user()
	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := d.Validate(map[string]any{"name": "x"}); err != nil {
				t.Errorf("Validate: %v", err)
			}
		}()
	}
	wg.Wait()
	if _, err := d.ValidateList([]any{map[string]any{"name": "y"}}); err != nil {
		t.Fatalf("ValidateList: %v", err)
	}
	if err := d.CacheListValidationFunction(); err != nil {
		t.Fatalf("CacheListValidationFunction: %v", err)
	}

	out := buf.String()
	if n := strings.Count(out, "kind=single"); n != 1 {
		t.Fatalf("single validator compiled %d times:\n%s", n, out)
	}
	if n := strings.Count(out, "kind=list"); n != 1 {
		t.Fatalf("list validator compiled %d times:\n%s", n, out)
	}
}
