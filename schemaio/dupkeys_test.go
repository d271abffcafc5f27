package schemaio_test

import (
	"errors"
	"testing"

	"github.com/reoring/jsbuilder/schemaio"
)

func TestCheckDuplicateKeys(t *testing.T) {
	cases := []struct {
		src     string
		pointer string
		key     string
	}{
		{`{"a":1,"b":[1,{"c":2}]}`, "", ""},
		{`{"a":1,"a":2}`, "", "a"},
		{`{"properties":{"x":{},"y":{"type":"string"},"x":{}}}`, "/properties", "x"},
		{`{"items":[{},{"k":[],"k":null}]}`, "/items/1", "k"},
		{`{"a/b":{"c":1,"c":1}}`, "/a~1b", "c"},
		{`[{"a":{}},{"a":{},"a":{}}]`, "/1", "a"},
		{`{"a":{"x":1},"b":{"x":1}}`, "", ""},
	}
	for _, tc := range cases {
		err := schemaio.CheckDuplicateKeys([]byte(tc.src))
		if tc.key == "" {
			if err != nil {
				t.Errorf("%s: unexpected error %v", tc.src, err)
			}
			continue
		}
		var de *schemaio.DuplicateKeyError
		if !errors.As(err, &de) {
			t.Errorf("%s: expected DuplicateKeyError, got %v", tc.src, err)
			continue
		}
		if de.Pointer != tc.pointer || de.Key != tc.key {
			t.Errorf("%s: got %s %q want %s %q", tc.src, de.Pointer, de.Key, tc.pointer, tc.key)
		}
	}
}

func TestCheckDuplicateKeys_Syntax(t *testing.T) {
	if err := schemaio.CheckDuplicateKeys([]byte(`{"a":`)); err == nil {
		t.Fatalf("expected syntax error")
	}
}

func TestLoadSchema_RejectsDuplicateKeys(t *testing.T) {
	_, err := schemaio.LoadSchema(writeFile(t, "dup.json", `{"properties":{"a":{},"a":{"type":"string"}}}`))
	var de *schemaio.DuplicateKeyError
	if !errors.As(err, &de) || de.Key != "a" {
		t.Fatalf("expected duplicate key error, got %v", err)
	}
}
