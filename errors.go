package jsbuilder

import (
	"errors"
	"fmt"
	"strings"

	"github.com/reoring/jsbuilder/i18n"
)

// Issue codes.
const (
	CodeSchemaViolation = "schema_violation"
	CodeCompile         = "compile_error"
)

// Precondition classifications.
const (
	ClassObject            = "object_schema"
	ClassSimpleObject      = "simple_object_schema"
	ClassAdditionalAllowed = "additional_properties"
	ClassNoAdditional      = "no_additional_properties"
	ClassHomogeneousArray  = "homogeneous_array_schema"
	ClassPropertyExists    = "property_exists"
	ClassPropertyAbsent    = "property_absent"
)

var (
	// ErrPrecondition matches every *PreconditionError.
	ErrPrecondition = errors.New("jsbuilder: precondition failed")
	// ErrUnresolvedRef matches every *RefError.
	ErrUnresolvedRef = errors.New("jsbuilder: unresolved $ref")
	// ErrValidation matches every *SchemaValidationError.
	ErrValidation = errors.New("jsbuilder: validation failed")
)

// Issue is a single validation failure record.
type Issue struct {
	Path    string `json:"path"` // JSON Pointer of the offending instance location ("" for the root).
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Issues is an ordered list of validation failures that implements error.
type Issues []Issue

// Error renders every issue as "path: message", joined by "; ".
func (iss Issues) Error() string {
	if len(iss) == 0 {
		return ""
	}
	b := &strings.Builder{}
	for i, it := range iss {
		if i > 0 {
			b.WriteString("; ")
		}
		path := it.Path
		if path == "" {
			path = "/"
		}
		fmt.Fprintf(b, "%s: %s", path, it.Message)
	}
	return b.String()
}

// AppendIssues appends issues to the destination, initializing the slice when
// needed.
func AppendIssues(dst Issues, more ...Issue) Issues {
	if dst == nil {
		dst = Issues{}
	}
	return append(dst, more...)
}

// AsIssues extracts Issues from an error (directly or from a
// SchemaValidationError) using errors.As internally.
func AsIssues(err error) (Issues, bool) {
	if err == nil {
		return nil, false
	}
	var sve *SchemaValidationError
	if errors.As(err, &sve) {
		return sve.Issues, true
	}
	var iss Issues
	if errors.As(err, &iss) {
		return iss, true
	}
	return nil, false
}

// PreconditionError reports an operation invoked on a document that does not
// have the required structural classification.
type PreconditionError struct {
	Op             string
	Classification string
	Detail         string
}

func (e *PreconditionError) Error() string {
	msg := fmt.Sprintf("jsbuilder: %s requires %s", e.Op, i18n.T(e.Classification, nil))
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	return msg
}

func (e *PreconditionError) Is(target error) bool { return target == ErrPrecondition }

func precondition(op, class, detail string) error {
	return &PreconditionError{Op: op, Classification: class, Detail: detail}
}

// RefError reports a document that still contains a $ref at construction.
type RefError struct {
	Ref string
}

func (e *RefError) Error() string {
	return fmt.Sprintf("jsbuilder: schema contains unresolved $ref %q; dereference it before building", e.Ref)
}

func (e *RefError) Is(target error) bool { return target == ErrUnresolvedRef }

// SchemaValidationError carries every failure reported by the validator.
type SchemaValidationError struct {
	Issues Issues
}

func (e *SchemaValidationError) Error() string {
	return i18n.T(CodeSchemaViolation, nil) + ": " + e.Issues.Error()
}

func (e *SchemaValidationError) Is(target error) bool { return target == ErrValidation }

// Unwrap exposes the issue list to errors.As.
func (e *SchemaValidationError) Unwrap() error { return e.Issues }
