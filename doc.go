// Package jsbuilder provides:
//
// - Factories that build JSON Schema documents (String, Object, Array, AnyOf, ...)
// - Copy-on-write schema algebra over object schemas (add, rename, pick, merge, transform)
// - Validation with Ajv-style preparation (defaults, coercion, additional-property removal)
// - A stable error model: *PreconditionError for builder misuse, Issues for validation failures
//
// Design policy:
//   - Every operation returns a new Document; receivers are never mutated.
//   - Keep public APIs in the root package; the schema model lives in jsonschema/ and the
//     validation engine under internal/.
//   - File loading is in schemaio/, the HTTP boundary in middleware/, and the CLI under cmd/jsbuilder.
//   - Prefer black-box testing against public APIs.
//
// Typical usage:
//
//	user := jsbuilder.Object([]jsbuilder.Field{
//		jsbuilder.F("name", jsbuilder.String(jsbuilder.MinLength(1))),
//		jsbuilder.Opt("role", jsbuilder.String(jsbuilder.Default("member"))),
//	})
//	admin, err := user.AddBoolean("admin", jsbuilder.Optional())
//	v, err := admin.Validate(map[string]any{"name": "ann"})
package jsbuilder
