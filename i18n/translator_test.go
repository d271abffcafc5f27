package i18n_test

import (
	"testing"

	"github.com/reoring/jsbuilder/i18n"
)

type upper struct{}

func (upper) Message(code string, _ map[string]string) string { return "X:" + code }

func TestLanguageSwitch(t *testing.T) {
	t.Cleanup(func() { i18n.SetLanguage("en") })

	if got := i18n.T("object_schema", nil); got != "an object schema" {
		t.Fatalf("en: got %q", got)
	}
	i18n.SetLanguage("ja")
	if got := i18n.T("object_schema", nil); got != "オブジェクトスキーマ" {
		t.Fatalf("ja: got %q", got)
	}
	i18n.SetLanguage("fr")
	if got := i18n.T("object_schema", nil); got != "an object schema" {
		t.Fatalf("unknown language should fall back to en, got %q", got)
	}
	if got := i18n.T("no_such_code", nil); got != "no_such_code" {
		t.Fatalf("unknown code should echo, got %q", got)
	}
}

func TestSetTranslator(t *testing.T) {
	t.Cleanup(func() { i18n.SetTranslator(nil) })

	i18n.SetTranslator(upper{})
	if got := i18n.T("property_exists", nil); got != "X:property_exists" {
		t.Fatalf("custom translator not used: %q", got)
	}
	i18n.SetTranslator(nil)
	if got := i18n.T("property_exists", nil); got != "an existing property" {
		t.Fatalf("nil translator should restore defaults: %q", got)
	}
}
