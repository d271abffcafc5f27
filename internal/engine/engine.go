// Package engine adapts finished schemas to
// github.com/santhosh-tekuri/jsonschema/v5: it compiles a schema once as
// draft-07 and runs instance preparation (defaults, removal of unrecognized
// properties, type coercion) before delegating the check.
package engine

import (
	"bytes"
	"errors"
	"fmt"
	"path"
	"sort"

	json "github.com/goccy/go-json"
	"github.com/santhosh-tekuri/jsonschema/v5"

	js "github.com/reoring/jsbuilder/jsonschema"
)

// schemaURL names the in-memory resource each schema is compiled from.
const schemaURL = "mem:///jsbuilder/schema.json"

// Options mirrors the validation configuration after defaults were applied.
type Options struct {
	CoerceTypes      bool
	RemoveAdditional bool
	UseDefaults      bool
	Strict           bool
}

// Failure is one structured error reported by the validator. Path is the
// JSON Pointer of the offending instance location ("" for the root) and
// Keyword the JSON Pointer of the failing schema keyword.
type Failure struct {
	Path    string
	Keyword string
	Message string
}

// Validator is a compiled, reusable checker for one schema.
type Validator struct {
	schema   *js.Schema
	compiled *jsonschema.Schema
	opts     Options
}

// Compile loads s as a draft-07 document. s must not be mutated afterwards.
func Compile(s *js.Schema, opts Options) (*Validator, error) {
	if s == nil {
		s = &js.Schema{}
	}
	if opts.Strict {
		if err := checkStrict(s); err != nil {
			return nil, err
		}
	}
	b, err := s.MarshalJSON()
	if err != nil {
		return nil, fmt.Errorf("engine: encode schema: %w", err)
	}
	c := jsonschema.NewCompiler()
	c.Draft = jsonschema.Draft7
	if err := c.AddResource(schemaURL, bytes.NewReader(b)); err != nil {
		return nil, fmt.Errorf("engine: load schema: %w", err)
	}
	compiled, err := c.Compile(schemaURL)
	if err != nil {
		return nil, fmt.Errorf("engine: compile schema: %w", err)
	}
	return &Validator{schema: s, compiled: compiled, opts: opts}, nil
}

// Validate prepares a copy of instance and checks it. The prepared copy is
// returned even when failures are reported.
func (v *Validator) Validate(instance any) (any, []Failure) {
	inst, err := normalize(instance)
	if err != nil {
		return nil, []Failure{{Message: err.Error()}}
	}
	inst = v.prepare(inst, v.schema)
	if err := v.compiled.Validate(inst); err != nil {
		var ve *jsonschema.ValidationError
		if !errors.As(err, &ve) {
			return inst, []Failure{{Message: err.Error()}}
		}
		return inst, failures(ve)
	}
	return inst, nil
}

// failures flattens the validator's error tree into its leaves, ordered by
// instance location and then keyword location. anyOf and oneOf report once
// at their own location since their branch errors are alternatives.
func failures(root *jsonschema.ValidationError) []Failure {
	var out []Failure
	var walk func(e *jsonschema.ValidationError)
	walk = func(e *jsonschema.ValidationError) {
		kw := path.Base(e.KeywordLocation)
		if len(e.Causes) == 0 || kw == "anyOf" || kw == "oneOf" {
			out = append(out, Failure{Path: e.InstanceLocation, Keyword: e.KeywordLocation, Message: e.Message})
			return
		}
		for _, c := range e.Causes {
			walk(c)
		}
	}
	walk(root)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Path != out[j].Path {
			return out[i].Path < out[j].Path
		}
		return out[i].Keyword < out[j].Keyword
	})
	return out
}

// normalize turns any Go value into a fresh generic JSON value.
func normalize(instance any) (any, error) {
	b, err := json.Marshal(instance)
	if err != nil {
		return nil, fmt.Errorf("engine: instance is not JSON encodable: %w", err)
	}
	var out any
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// draft7Keywords lists every keyword draft-07 defines.
var draft7Keywords = map[string]bool{
	"$schema": true, "$id": true, "$ref": true, "$comment": true,
	"title": true, "description": true, "default": true, "examples": true,
	"readOnly": true, "writeOnly": true,
	"type": true, "enum": true, "const": true, "format": true,
	"multipleOf": true, "maximum": true, "exclusiveMaximum": true, "minimum": true, "exclusiveMinimum": true,
	"maxLength": true, "minLength": true, "pattern": true,
	"contentMediaType": true, "contentEncoding": true,
	"items": true, "additionalItems": true, "maxItems": true, "minItems": true, "uniqueItems": true, "contains": true,
	"properties": true, "patternProperties": true, "additionalProperties": true, "required": true,
	"maxProperties": true, "minProperties": true, "dependencies": true, "propertyNames": true, "definitions": true,
	"if": true, "then": true, "else": true,
	"allOf": true, "anyOf": true, "oneOf": true, "not": true,
}

// checkStrict rejects keywords outside draft-07.
func checkStrict(s *js.Schema) error {
	for n := range js.All(s) {
		var unknown []string
		for k := range n.Extra {
			if !draft7Keywords[k] {
				unknown = append(unknown, k)
			}
		}
		if len(unknown) > 0 {
			sort.Strings(unknown)
			return fmt.Errorf("engine: strict mode: unknown keyword %q", unknown[0])
		}
	}
	return nil
}
