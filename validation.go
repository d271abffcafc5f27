package jsbuilder

import (
	"fmt"
	"io"
	"log/slog"
	"sync/atomic"

	"github.com/mitchellh/mapstructure"

	"github.com/reoring/jsbuilder/i18n"
	"github.com/reoring/jsbuilder/internal/engine"
	js "github.com/reoring/jsbuilder/jsonschema"
)

// ValidationConfig configures the validator compiled for a Document. Unset
// fields fall back to: CoerceTypes=false, RemoveAdditional=false,
// UseDefaults=true, Strict=false.
type ValidationConfig struct {
	CoerceTypes      *bool `json:"coerceTypes,omitempty"`
	RemoveAdditional *bool `json:"removeAdditional,omitempty"`
	UseDefaults      *bool `json:"useDefaults,omitempty"`
	Strict           *bool `json:"strict,omitempty"`
}

// Bool returns a pointer to b, for ValidationConfig literals.
func Bool(b bool) *bool { return &b }

// Merge returns c with every field set in over replacing c's.
func (c ValidationConfig) Merge(over ValidationConfig) ValidationConfig {
	pick := func(base, o *bool) *bool {
		if o != nil {
			return o
		}
		return base
	}
	return ValidationConfig{
		CoerceTypes:      pick(c.CoerceTypes, over.CoerceTypes),
		RemoveAdditional: pick(c.RemoveAdditional, over.RemoveAdditional),
		UseDefaults:      pick(c.UseDefaults, over.UseDefaults),
		Strict:           pick(c.Strict, over.Strict),
	}
}

func (c ValidationConfig) options() engine.Options {
	get := func(p *bool, def bool) bool {
		if p == nil {
			return def
		}
		return *p
	}
	return engine.Options{
		CoerceTypes:      get(c.CoerceTypes, false),
		RemoveAdditional: get(c.RemoveAdditional, false),
		UseDefaults:      get(c.UseDefaults, true),
		Strict:           get(c.Strict, false),
	}
}

// Config returns the explicit validation configuration of d.
func (d *Document) Config() ValidationConfig { return d.config }

// ConfigureValidation returns a copy of d whose validation config is cfg
// merged over the current one. The copy compiles its own validator.
func (d *Document) ConfigureValidation(cfg ValidationConfig) *Document {
	return newDocument(js.Clone(d.schema), d.config.Merge(cfg))
}

// CacheValidationFunction compiles the single-instance validator, once.
func (d *Document) CacheValidationFunction() error {
	_, err := d.single()
	return err
}

// CacheListValidationFunction compiles the list validator, once.
func (d *Document) CacheListValidationFunction() error {
	_, err := d.list()
	return err
}

// Validate checks value and returns the prepared copy, with defaults
// applied according to the config. Failures are returned as a
// *SchemaValidationError.
func (d *Document) Validate(value any) (any, error) {
	v, err := d.single()
	if err != nil {
		return nil, err
	}
	out, fails := v.Validate(value)
	if len(fails) > 0 {
		return nil, validationError(fails)
	}
	return out, nil
}

// ValidateList checks a non-empty list of values against the schema.
func (d *Document) ValidateList(values []any) ([]any, error) {
	v, err := d.list()
	if err != nil {
		return nil, err
	}
	if values == nil {
		values = []any{}
	}
	out, fails := v.Validate(values)
	if len(fails) > 0 {
		return nil, validationError(fails)
	}
	list, _ := out.([]any)
	return list, nil
}

// ValidateAs validates value and decodes the result into T using `json`
// struct tags.
func ValidateAs[T any](d *Document, value any) (T, error) {
	var out T
	v, err := d.Validate(value)
	if err != nil {
		return out, err
	}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName: "json",
		Result:  &out,
	})
	if err != nil {
		return out, err
	}
	if err := dec.Decode(v); err != nil {
		return out, fmt.Errorf("jsbuilder: decode validated value: %w", err)
	}
	return out, nil
}

func validationError(fails []engine.Failure) error {
	var iss Issues
	for _, f := range fails {
		iss = AppendIssues(iss, Issue{Path: f.Path, Code: CodeSchemaViolation, Message: f.Message})
	}
	return &SchemaValidationError{Issues: iss}
}

func listSchema(item *js.Schema) *js.Schema {
	one := 1
	return &js.Schema{
		Type:     js.Types{"array"},
		Items:    &js.Items{Schema: item},
		MinItems: &one,
	}
}

func compile(kind string, s *js.Schema, cfg ValidationConfig) (*engine.Validator, error) {
	opts := cfg.options()
	v, err := engine.Compile(s, opts)
	if err != nil {
		logger().Debug("validator compilation failed", "kind", kind, "error", err)
		return nil, fmt.Errorf("jsbuilder: %s: %w", i18n.T(CodeCompile, nil), err)
	}
	logger().Debug("compiled validator", "kind", kind,
		"coerceTypes", opts.CoerceTypes,
		"removeAdditional", opts.RemoveAdditional,
		"useDefaults", opts.UseDefaults,
		"strict", opts.Strict)
	return v, nil
}

var currentLogger atomic.Pointer[slog.Logger]

func init() { SetLogger(nil) }

// SetLogger installs the logger used for validator compilation records.
// nil discards output.
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	currentLogger.Store(l)
}

func logger() *slog.Logger { return currentLogger.Load() }
