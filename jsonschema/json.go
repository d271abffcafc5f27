package jsonschema

import (
	"bytes"
	"errors"
	"fmt"
	"sort"

	json "github.com/goccy/go-json"
)

// MarshalJSON encodes s with keywords in a stable order; properties keep their
// declaration order and Extra keywords are emitted last, sorted by name.
func (s *Schema) MarshalJSON() ([]byte, error) {
	if s == nil {
		return []byte("null"), nil
	}
	w := &objectWriter{}
	w.buf.WriteByte('{')
	if s.Ref != "" {
		w.field("$ref", s.Ref)
	}
	switch len(s.Type) {
	case 0:
		if s.Type != nil {
			w.field("type", []string{})
		}
	case 1:
		w.field("type", s.Type[0])
	default:
		w.field("type", []string(s.Type))
	}
	if s.Title != "" {
		w.field("title", s.Title)
	}
	if s.Description != "" {
		w.field("description", s.Description)
	}
	if s.Enum != nil {
		w.field("enum", s.Enum)
	}
	if s.Format != "" {
		w.field("format", s.Format)
	}
	if s.Pattern != "" {
		w.field("pattern", s.Pattern)
	}
	w.optInt("minLength", s.MinLength)
	w.optInt("maxLength", s.MaxLength)
	w.optFloat("minimum", s.Minimum)
	w.optFloat("maximum", s.Maximum)
	w.optFloat("exclusiveMinimum", s.ExclusiveMinimum)
	w.optFloat("exclusiveMaximum", s.ExclusiveMaximum)
	w.optFloat("multipleOf", s.MultipleOf)
	if s.Properties != nil {
		w.key("properties")
		w.buf.WriteByte('{')
		i := 0
		for p := s.Properties.Oldest(); p != nil; p = p.Next() {
			if i > 0 {
				w.buf.WriteByte(',')
			}
			i++
			w.raw(p.Key)
			w.buf.WriteByte(':')
			w.schema(p.Value)
		}
		w.buf.WriteByte('}')
	}
	if s.Required != nil {
		w.field("required", s.Required)
	}
	if ap := s.AdditionalProperties; ap != nil {
		w.key("additionalProperties")
		if ap.Schema != nil {
			w.schema(ap.Schema)
		} else {
			w.raw(ap.Allowed)
		}
	}
	w.optInt("minProperties", s.MinProperties)
	w.optInt("maxProperties", s.MaxProperties)
	if it := s.Items; it != nil {
		w.key("items")
		if it.Schema != nil {
			w.schema(it.Schema)
		} else {
			w.schemas(it.Tuple)
		}
	}
	w.optInt("minItems", s.MinItems)
	w.optInt("maxItems", s.MaxItems)
	if s.UniqueItems {
		w.field("uniqueItems", true)
	}
	if s.OneOf != nil {
		w.key("oneOf")
		w.schemas(s.OneOf)
	}
	if s.AllOf != nil {
		w.key("allOf")
		w.schemas(s.AllOf)
	}
	if s.AnyOf != nil {
		w.key("anyOf")
		w.schemas(s.AnyOf)
	}
	if s.Not != nil {
		w.key("not")
		w.schema(s.Not)
	}
	if s.HasDefault() {
		w.field("default", s.Default)
	}
	if s.Examples != nil {
		w.field("examples", s.Examples)
	}
	if s.ReadOnly {
		w.field("readOnly", true)
	}
	if s.WriteOnly {
		w.field("writeOnly", true)
	}
	if s.Definitions != nil {
		names := make([]string, 0, len(s.Definitions))
		for name := range s.Definitions {
			names = append(names, name)
		}
		sort.Strings(names)
		w.key("definitions")
		w.buf.WriteByte('{')
		for i, name := range names {
			if i > 0 {
				w.buf.WriteByte(',')
			}
			w.raw(name)
			w.buf.WriteByte(':')
			w.schema(s.Definitions[name])
		}
		w.buf.WriteByte('}')
	}
	if len(s.Extra) > 0 {
		keys := make([]string, 0, len(s.Extra))
		for k := range s.Extra {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			w.field(k, s.Extra[k])
		}
	}
	w.buf.WriteByte('}')
	if w.err != nil {
		return nil, w.err
	}
	return w.buf.Bytes(), nil
}

type objectWriter struct {
	buf bytes.Buffer
	n   int
	err error
}

func (w *objectWriter) key(name string) {
	if w.n > 0 {
		w.buf.WriteByte(',')
	}
	w.n++
	w.raw(name)
	w.buf.WriteByte(':')
}

func (w *objectWriter) field(name string, v any) {
	w.key(name)
	w.raw(v)
}

func (w *objectWriter) optInt(name string, v *int) {
	if v != nil {
		w.field(name, *v)
	}
}

func (w *objectWriter) optFloat(name string, v *float64) {
	if v != nil {
		w.field(name, *v)
	}
}

func (w *objectWriter) raw(v any) {
	if w.err != nil {
		return
	}
	b, err := json.Marshal(v)
	if err != nil {
		w.err = err
		return
	}
	w.buf.Write(b)
}

func (w *objectWriter) schema(s *Schema) {
	if w.err != nil {
		return
	}
	if s == nil {
		w.buf.WriteString("{}")
		return
	}
	b, err := s.MarshalJSON()
	if err != nil {
		w.err = err
		return
	}
	w.buf.Write(b)
}

func (w *objectWriter) schemas(list []*Schema) {
	w.buf.WriteByte('[')
	for i, s := range list {
		if i > 0 {
			w.buf.WriteByte(',')
		}
		w.schema(s)
	}
	w.buf.WriteByte(']')
}

// ErrNullSchema reports a JSON null where a schema is expected.
var ErrNullSchema = errors.New("null is not a schema")

func isNull(msg []byte) bool { return string(bytes.TrimSpace(msg)) == "null" }

// UnmarshalJSON decodes a schema object or a boolean schema (true -> {},
// false -> {"not":{}}). Unknown keywords are kept in Extra. null is
// rejected with ErrNullSchema at any depth.
func (s *Schema) UnmarshalJSON(data []byte) error {
	switch string(bytes.TrimSpace(data)) {
	case "null":
		return ErrNullSchema
	case "true":
		*s = Schema{}
		return nil
	case "false":
		*s = Schema{Not: &Schema{}}
		return nil
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*s = Schema{}
	for key, msg := range raw {
		if err := s.decodeKeyword(key, msg); err != nil {
			return fmt.Errorf("jsonschema: keyword %q: %w", key, err)
		}
	}
	return nil
}

func (s *Schema) decodeKeyword(key string, msg json.RawMessage) error {
	switch key {
	case "$ref":
		return json.Unmarshal(msg, &s.Ref)
	case "title":
		return json.Unmarshal(msg, &s.Title)
	case "description":
		return json.Unmarshal(msg, &s.Description)
	case "default":
		var v any
		if err := json.Unmarshal(msg, &v); err != nil {
			return err
		}
		s.SetDefault(v)
	case "examples":
		return json.Unmarshal(msg, &s.Examples)
	case "readOnly":
		return json.Unmarshal(msg, &s.ReadOnly)
	case "writeOnly":
		return json.Unmarshal(msg, &s.WriteOnly)
	case "type":
		return s.decodeType(msg)
	case "enum":
		var vals []any
		if err := json.Unmarshal(msg, &vals); err != nil {
			return err
		}
		if vals == nil {
			vals = []any{}
		}
		s.Enum = vals
	case "minLength":
		return decodeInt(msg, &s.MinLength)
	case "maxLength":
		return decodeInt(msg, &s.MaxLength)
	case "pattern":
		return json.Unmarshal(msg, &s.Pattern)
	case "format":
		return json.Unmarshal(msg, &s.Format)
	case "minimum":
		return decodeFloat(msg, &s.Minimum)
	case "maximum":
		return decodeFloat(msg, &s.Maximum)
	case "exclusiveMinimum":
		return decodeFloat(msg, &s.ExclusiveMinimum)
	case "exclusiveMaximum":
		return decodeFloat(msg, &s.ExclusiveMaximum)
	case "multipleOf":
		return decodeFloat(msg, &s.MultipleOf)
	case "properties":
		props := NewProperties()
		if isNull(msg) {
			return ErrNullSchema
		}
		if err := props.UnmarshalJSON(msg); err != nil {
			return err
		}
		for p := props.Oldest(); p != nil; p = p.Next() {
			if p.Value == nil {
				return fmt.Errorf("property %q: %w", p.Key, ErrNullSchema)
			}
		}
		s.Properties = props
	case "required":
		var req []string
		if err := json.Unmarshal(msg, &req); err != nil {
			return err
		}
		if req == nil {
			req = []string{}
		}
		s.Required = req
	case "additionalProperties":
		return s.decodeAdditional(msg)
	case "minProperties":
		return decodeInt(msg, &s.MinProperties)
	case "maxProperties":
		return decodeInt(msg, &s.MaxProperties)
	case "items":
		return s.decodeItems(msg)
	case "minItems":
		return decodeInt(msg, &s.MinItems)
	case "maxItems":
		return decodeInt(msg, &s.MaxItems)
	case "uniqueItems":
		return json.Unmarshal(msg, &s.UniqueItems)
	case "oneOf":
		return decodeSchemas(msg, &s.OneOf)
	case "allOf":
		return decodeSchemas(msg, &s.AllOf)
	case "anyOf":
		return decodeSchemas(msg, &s.AnyOf)
	case "not":
		if isNull(msg) {
			return ErrNullSchema
		}
		s.Not = &Schema{}
		return json.Unmarshal(msg, s.Not)
	case "definitions":
		if err := json.Unmarshal(msg, &s.Definitions); err != nil {
			return err
		}
		for name, def := range s.Definitions {
			if def == nil {
				return fmt.Errorf("definition %q: %w", name, ErrNullSchema)
			}
		}
	default:
		var v any
		if err := json.Unmarshal(msg, &v); err != nil {
			return err
		}
		if s.Extra == nil {
			s.Extra = map[string]any{}
		}
		s.Extra[key] = v
	}
	return nil
}

func (s *Schema) decodeType(msg json.RawMessage) error {
	trimmed := bytes.TrimSpace(msg)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var list []string
		if err := json.Unmarshal(trimmed, &list); err != nil {
			return err
		}
		if list == nil {
			list = []string{}
		}
		s.Type = Types(list)
		return nil
	}
	var one string
	if err := json.Unmarshal(trimmed, &one); err != nil {
		return err
	}
	s.Type = Types{one}
	return nil
}

func (s *Schema) decodeAdditional(msg json.RawMessage) error {
	switch string(bytes.TrimSpace(msg)) {
	case "true":
		s.AdditionalProperties = AdditionalTrue()
		return nil
	case "false":
		s.AdditionalProperties = AdditionalFalse()
		return nil
	case "null":
		return ErrNullSchema
	}
	sub := &Schema{}
	if err := json.Unmarshal(msg, sub); err != nil {
		return err
	}
	s.AdditionalProperties = AdditionalSchema(sub)
	return nil
}

func (s *Schema) decodeItems(msg json.RawMessage) error {
	trimmed := bytes.TrimSpace(msg)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var tuple []*Schema
		if err := decodeSchemas(trimmed, &tuple); err != nil {
			return err
		}
		s.Items = &Items{Tuple: tuple}
		return nil
	}
	if isNull(trimmed) {
		return ErrNullSchema
	}
	sub := &Schema{}
	if err := json.Unmarshal(trimmed, sub); err != nil {
		return err
	}
	s.Items = &Items{Schema: sub}
	return nil
}

func decodeSchemas(msg json.RawMessage, dst *[]*Schema) error {
	var list []*Schema
	if err := json.Unmarshal(msg, &list); err != nil {
		return err
	}
	if list == nil {
		if isNull(msg) {
			return ErrNullSchema
		}
		list = []*Schema{}
	}
	for i, sub := range list {
		if sub == nil {
			return fmt.Errorf("index %d: %w", i, ErrNullSchema)
		}
	}
	*dst = list
	return nil
}

func decodeInt(msg json.RawMessage, dst **int) error {
	var n int
	if err := json.Unmarshal(msg, &n); err != nil {
		return err
	}
	*dst = &n
	return nil
}

func decodeFloat(msg json.RawMessage, dst **float64) error {
	var f float64
	if err := json.Unmarshal(msg, &f); err != nil {
		return err
	}
	*dst = &f
	return nil
}
