package jsbuilder_test

import (
	"errors"
	"fmt"
	"testing"

	jsb "github.com/reoring/jsbuilder"
	"github.com/reoring/jsbuilder/i18n"
)

func TestIssues_ErrorSummary(t *testing.T) {
	iss := jsb.AppendIssues(nil,
		jsb.Issue{Path: "", Code: jsb.CodeSchemaViolation, Message: "bad root"},
		jsb.Issue{Path: "/a/0", Code: jsb.CodeSchemaViolation, Message: "bad item"},
	)
	if got, want := iss.Error(), "/: bad root; /a/0: bad item"; got != want {
		t.Fatalf("got %q want %q", got, want)
	}
	wrapped := fmt.Errorf("context: %w", iss)
	back, ok := jsb.AsIssues(wrapped)
	if !ok || len(back) != 2 {
		t.Fatalf("AsIssues should unwrap Issues, got %v %v", back, ok)
	}
	if _, ok := jsb.AsIssues(errors.New("plain")); ok {
		t.Fatalf("plain errors carry no issues")
	}
}

func TestPreconditionError_Localized(t *testing.T) {
	_, err := jsb.String().RenameProperty("a", "b")
	if got, want := err.Error(), "jsbuilder: RenameProperty requires a simple object schema (no additional properties, no oneOf/allOf/anyOf/not): not an object schema"; got != want {
		t.Fatalf("en message:\n got %q\nwant %q", got, want)
	}

	i18n.SetLanguage("ja")
	t.Cleanup(func() { i18n.SetLanguage("en") })
	_, err = jsb.String().AddProperty("x", nil)
	if got, want := err.Error(), "jsbuilder: AddProperty requires オブジェクトスキーマ"; got != want {
		t.Fatalf("ja message:\n got %q\nwant %q", got, want)
	}
}
