// Package gen renders schemas as Go source that rebuilds them with the
// jsbuilder factories.
package gen

import (
	"bytes"
	"fmt"
	"go/format"
	"go/token"
	"sort"
	"strconv"
	"strings"

	js "github.com/reoring/jsbuilder/jsonschema"
)

const pkgRef = "jsbuilder"

// File describes one generated Go file.
type File struct {
	Package string
	Vars    []Var
}

// Var is one package-level schema variable.
type Var struct {
	Name   string
	Doc    string
	Schema *js.Schema
}

// RenderFile renders f and formats it with go/format.
func RenderFile(f File) ([]byte, error) {
	if !token.IsIdentifier(f.Package) {
		return nil, fmt.Errorf("gen: invalid package name %q", f.Package)
	}
	var b bytes.Buffer
	b.WriteString("// Code generated by jsbuilder gen. DO NOT EDIT.\n\n")
	fmt.Fprintf(&b, "package %s\n\n", f.Package)
	fmt.Fprintf(&b, "import %q\n", "github.com/reoring/jsbuilder")
	for _, v := range f.Vars {
		if !token.IsIdentifier(v.Name) {
			return nil, fmt.Errorf("gen: invalid variable name %q", v.Name)
		}
		b.WriteByte('\n')
		if v.Doc != "" {
			for _, line := range strings.Split(v.Doc, "\n") {
				fmt.Fprintf(&b, "// %s\n", line)
			}
		}
		expr, err := Expr(v.Schema)
		if err != nil {
			return nil, fmt.Errorf("gen: %s: %w", v.Name, err)
		}
		fmt.Fprintf(&b, "var %s = %s\n", v.Name, expr)
	}
	out, err := format.Source(b.Bytes())
	if err != nil {
		return nil, fmt.Errorf("gen: format: %w\n%s", err, b.Bytes())
	}
	return out, nil
}

// Expr renders an expression of type *jsbuilder.Document for s. Nodes the
// factories cannot express are embedded as JSON literals.
func Expr(s *js.Schema) (string, error) {
	if s == nil {
		s = &js.Schema{}
	}
	if e, ok := factoryExpr(s); ok {
		return e, nil
	}
	return literalExpr(s)
}

func literalExpr(s *js.Schema) (string, error) {
	raw, err := s.MarshalJSON()
	if err != nil {
		return "", err
	}
	lit := "`" + string(raw) + "`"
	if bytes.ContainsRune(raw, '`') {
		lit = strconv.Quote(string(raw))
	}
	return fmt.Sprintf("%s.Must(%s.FromJSON([]byte(%s)))", pkgRef, pkgRef, lit), nil
}

// baseType splits a type set into its single non-null member and whether
// null was also allowed.
func baseType(t js.Types) (name string, nullable, ok bool) {
	switch len(t) {
	case 1:
		return t[0], false, true
	case 2:
		if t[1] == "null" && t[0] != "null" {
			return t[0], true, true
		}
	}
	return "", false, false
}

func factoryExpr(s *js.Schema) (string, bool) {
	if s.Ref != "" || s.Definitions != nil || s.MinProperties != nil || s.MaxProperties != nil {
		return "", false
	}
	switch s.Kind() {
	case js.KindAny:
		if !covered(s) {
			return "", false
		}
		return call("Empty", options(s, false)), true
	case js.KindPrimitive:
		return primitiveExpr(s)
	case js.KindEnum:
		return enumExpr(s)
	case js.KindArray:
		return arrayExpr(s)
	case js.KindObject:
		return objectExpr(s)
	case js.KindCombinator:
		return combinatorExpr(s)
	case js.KindNot:
		if !onlyCombinators(s) {
			return "", false
		}
		inner, err := Expr(s.Not)
		if err != nil {
			return "", false
		}
		return pkgRef + ".Not(" + inner + ")", true
	}
	return "", false
}

func primitiveExpr(s *js.Schema) (string, bool) {
	name, nullable, ok := baseType(s.Type)
	if !ok || !covered(s, func(b *js.Schema) { b.Type = nil }) {
		return "", false
	}
	fn := map[string]string{
		"string": "String", "number": "Number", "integer": "Integer",
		"boolean": "Boolean", "null": "Null",
	}[name]
	if fn == "" {
		return "", false
	}
	return call(fn, options(s, nullable)), true
}

func enumExpr(s *js.Schema) (string, bool) {
	if !covered(s, func(b *js.Schema) { b.Type, b.Enum = nil, nil }) {
		return "", false
	}
	// The factory infers the type set; only emit it when inference agrees.
	var inferred js.Types
	for _, v := range s.Enum {
		if t := valueType(v); t != "" && !inferred.Has(t) {
			inferred = append(inferred, t)
		}
	}
	if strings.Join(inferred, ",") != strings.Join(s.Type, ",") {
		return "", false
	}
	vals := make([]string, len(s.Enum))
	for i, v := range s.Enum {
		vals[i] = goLiteral(v)
	}
	args := append([]string{"[]any{" + strings.Join(vals, ", ") + "}"}, options(s, false)...)
	return pkgRef + ".Enum(" + strings.Join(args, ", ") + ")", true
}

func arrayExpr(s *js.Schema) (string, bool) {
	name, nullable, ok := baseType(s.Type)
	if !ok || name != "array" || !covered(s, func(b *js.Schema) { b.Type, b.Items = nil, nil }) {
		return "", false
	}
	opts := options(s, nullable)
	switch {
	case s.Items == nil:
		return pkgRef + ".Array(" + strings.Join(append([]string{"nil"}, opts...), ", ") + ")", true
	case s.Items.IsTuple():
		elems := make([]string, len(s.Items.Tuple))
		for i, it := range s.Items.Tuple {
			e, err := Expr(it)
			if err != nil {
				return "", false
			}
			elems[i] = e
		}
		list := "[]*" + pkgRef + ".Document{" + strings.Join(elems, ", ") + "}"
		return pkgRef + ".Tuple(" + strings.Join(append([]string{list}, opts...), ", ") + ")", true
	}
	item, err := Expr(s.Items.Schema)
	if err != nil {
		return "", false
	}
	return pkgRef + ".Array(" + strings.Join(append([]string{item}, opts...), ", ") + ")", true
}

func objectExpr(s *js.Schema) (string, bool) {
	name, nullable, ok := baseType(s.Type)
	if !ok || name != "object" || !s.AdditionalProperties.Forbidden() {
		return "", false
	}
	if !covered(s, func(b *js.Schema) {
		b.Type, b.Properties, b.Required, b.AdditionalProperties = nil, nil, nil, nil
	}) {
		return "", false
	}
	// Required entries must all be declared properties.
	for _, r := range s.Required {
		if _, ok := s.Property(r); !ok {
			return "", false
		}
	}
	opts := options(s, nullable)
	var fields []string
	for _, name := range s.PropertyNames() {
		sub, _ := s.Property(name)
		e, err := Expr(sub)
		if err != nil {
			return "", false
		}
		fn := "Opt"
		if s.IsRequired(name) {
			fn = "F"
		}
		fields = append(fields, fmt.Sprintf("%s.%s(%q, %s)", pkgRef, fn, name, e))
	}
	list := "nil"
	if len(fields) > 0 {
		list = "[]" + pkgRef + ".Field{\n" + strings.Join(fields, ",\n") + ",\n}"
	}
	return pkgRef + ".Object(" + strings.Join(append([]string{list}, opts...), ", ") + ")", true
}

func combinatorExpr(s *js.Schema) (string, bool) {
	if !onlyCombinators(s) {
		return "", false
	}
	var fn string
	var branches []*js.Schema
	switch {
	case s.OneOf != nil && s.AllOf == nil && s.AnyOf == nil:
		fn, branches = "OneOf", s.OneOf
	case s.AllOf != nil && s.OneOf == nil && s.AnyOf == nil:
		fn, branches = "AllOf", s.AllOf
	case s.AnyOf != nil && s.OneOf == nil && s.AllOf == nil:
		fn, branches = "AnyOf", s.AnyOf
	default:
		return "", false
	}
	if s.Not != nil {
		return "", false
	}
	args := make([]string, len(branches))
	for i, br := range branches {
		e, err := Expr(br)
		if err != nil {
			return "", false
		}
		args[i] = e
	}
	return pkgRef + "." + fn + "(" + strings.Join(args, ", ") + ")", true
}

// onlyCombinators reports a node whose only keywords are combinators.
func onlyCombinators(s *js.Schema) bool {
	bare := *s
	bare.OneOf, bare.AllOf, bare.AnyOf, bare.Not = nil, nil, nil, nil
	return isEmpty(&bare)
}

// covered reports whether every keyword of s is either rendered by options
// or cleared by the structural handlers in clear.
func covered(s *js.Schema, clear ...func(*js.Schema)) bool {
	bare := *s
	bare.Title, bare.Description, bare.Format, bare.Pattern = "", "", "", ""
	bare.MinLength, bare.MaxLength, bare.MinItems, bare.MaxItems = nil, nil, nil, nil
	bare.Minimum, bare.Maximum, bare.ExclusiveMinimum, bare.ExclusiveMaximum, bare.MultipleOf = nil, nil, nil, nil, nil
	bare.UniqueItems, bare.ReadOnly, bare.WriteOnly = false, false, false
	bare.Examples, bare.Extra = nil, nil
	bare.ClearDefault()
	for _, c := range clear {
		c(&bare)
	}
	return isEmpty(&bare)
}

func isEmpty(s *js.Schema) bool {
	raw, err := s.MarshalJSON()
	return err == nil && string(raw) == "{}"
}

// options renders the keyword options of s.
func options(s *js.Schema, nullable bool) []string {
	var out []string
	add := func(format string, a ...any) { out = append(out, pkgRef+"."+fmt.Sprintf(format, a...)) }
	if s.Title != "" {
		add("Title(%q)", s.Title)
	}
	if s.Description != "" {
		add("Description(%q)", s.Description)
	}
	if s.Format != "" {
		add("Format(%q)", s.Format)
	}
	if s.Pattern != "" {
		add("Pattern(%q)", s.Pattern)
	}
	optInt := func(name string, v *int) {
		if v != nil {
			add("%s(%d)", name, *v)
		}
	}
	optFloat := func(name string, v *float64) {
		if v != nil {
			add("%s(%s)", name, strconv.FormatFloat(*v, 'g', -1, 64))
		}
	}
	optInt("MinLength", s.MinLength)
	optInt("MaxLength", s.MaxLength)
	optFloat("Minimum", s.Minimum)
	optFloat("Maximum", s.Maximum)
	optFloat("ExclusiveMinimum", s.ExclusiveMinimum)
	optFloat("ExclusiveMaximum", s.ExclusiveMaximum)
	optFloat("MultipleOf", s.MultipleOf)
	optInt("MinItems", s.MinItems)
	optInt("MaxItems", s.MaxItems)
	if s.UniqueItems {
		add("UniqueItems()")
	}
	if s.HasDefault() {
		add("Default(%s)", goLiteral(s.Default))
	}
	if s.Examples != nil {
		ex := make([]string, len(s.Examples))
		for i, v := range s.Examples {
			ex[i] = goLiteral(v)
		}
		add("Examples(%s)", strings.Join(ex, ", "))
	}
	if s.ReadOnly {
		add("ReadOnly()")
	}
	if s.WriteOnly {
		add("WriteOnly()")
	}
	keys := make([]string, 0, len(s.Extra))
	for k := range s.Extra {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		add("Keyword(%q, %s)", k, goLiteral(s.Extra[k]))
	}
	if nullable {
		add("Nullable()")
	}
	return out
}

func call(fn string, args []string) string {
	return pkgRef + "." + fn + "(" + strings.Join(args, ", ") + ")"
}

func valueType(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case string:
		return "string"
	case bool:
		return "boolean"
	case float64, float32, int, int64, int32:
		return "number"
	case map[string]any:
		return "object"
	case []any:
		return "array"
	}
	return ""
}

// goLiteral renders a generic JSON value as a Go expression of type any.
func goLiteral(v any) string {
	switch t := v.(type) {
	case nil:
		return "nil"
	case string:
		return strconv.Quote(t)
	case bool:
		return strconv.FormatBool(t)
	case float64:
		return strconv.FormatFloat(t, 'g', -1, 64)
	case int:
		return strconv.Itoa(t)
	case []any:
		parts := make([]string, len(t))
		for i, e := range t {
			parts[i] = goLiteral(e)
		}
		return "[]any{" + strings.Join(parts, ", ") + "}"
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, len(keys))
		for i, k := range keys {
			parts[i] = strconv.Quote(k) + ": " + goLiteral(t[k])
		}
		return "map[string]any{" + strings.Join(parts, ", ") + "}"
	}
	return fmt.Sprintf("%#v", v)
}
