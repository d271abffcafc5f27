// Package middleware validates JSON request bodies against a jsbuilder
// Document for net/http handlers and routers built on them (chi and others).
package middleware

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"

	json "github.com/goccy/go-json"

	"github.com/reoring/jsbuilder"
	"github.com/reoring/jsbuilder/schemaio"
)

const (
	// CodeInvalidJSON marks a request body that is not valid JSON.
	CodeInvalidJSON = "invalid_json"
	// CodeDuplicateKey marks a request body repeating a key within one object.
	CodeDuplicateKey = "duplicate_key"
)

// DefaultMaxBytes bounds request bodies when Options.MaxBytes is zero.
const DefaultMaxBytes int64 = 1 << 20

// ctxKeyValue is the context key for the validated body.
type ctxKeyValue struct{}

// ContextWithValue attaches a validated body to the context.
func ContextWithValue(ctx context.Context, v any) context.Context {
	return context.WithValue(ctx, ctxKeyValue{}, valueBox{v})
}

// ValueFromContext retrieves the validated body stored by ValidateJSON.
func ValueFromContext(ctx context.Context) (any, bool) {
	box, ok := ctx.Value(ctxKeyValue{}).(valueBox)
	return box.v, ok
}

// valueBox lets a validated JSON null be told apart from a missing value.
type valueBox struct{ v any }

// Options tunes ValidateJSON.
type Options struct {
	MaxBytes int64
	Logger   *slog.Logger
}

// ErrorPayload shapes Issues for JSON responses.
func ErrorPayload(issues []jsbuilder.Issue) map[string]any {
	return map[string]any{"issues": issues}
}

// ValidateJSON decodes the request body, validates it with doc and stores
// the validated value (defaults applied per the document config) in the
// request context. The body is replaced by the validated JSON. Invalid JSON
// and repeated object keys are answered with 400, validation failures with
// 422.
func ValidateJSON(doc *jsbuilder.Document, opt Options) func(http.Handler) http.Handler {
	maxBytes := opt.MaxBytes
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	logger := opt.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			body, err := decodeBody(http.MaxBytesReader(w, r.Body, maxBytes))
			if err != nil {
				logger.Warn("invalid request body", "path", r.URL.Path, "error", err)
				issue := jsbuilder.Issue{Code: CodeInvalidJSON, Message: err.Error()}
				var dup *schemaio.DuplicateKeyError
				if errors.As(err, &dup) {
					issue.Code, issue.Path = CodeDuplicateKey, dup.Pointer
				}
				writeJSON(w, http.StatusBadRequest, ErrorPayload([]jsbuilder.Issue{issue}))
				return
			}
			validated, err := doc.Validate(body)
			if err != nil {
				var sve *jsbuilder.SchemaValidationError
				if errors.As(err, &sve) {
					logger.Debug("request body rejected", "path", r.URL.Path, "issues", len(sve.Issues))
					writeJSON(w, http.StatusUnprocessableEntity, ErrorPayload(sve.Issues))
					return
				}
				logger.Error("validator unavailable", "path", r.URL.Path, "error", err)
				http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
				return
			}
			raw, err := json.Marshal(validated)
			if err != nil {
				logger.Error("re-encode validated body", "error", err)
				http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
				return
			}
			r = r.WithContext(ContextWithValue(r.Context(), validated))
			r.Body = io.NopCloser(bytes.NewReader(raw))
			r.ContentLength = int64(len(raw))
			next.ServeHTTP(w, r)
		})
	}
}

// decodeBody reads one JSON document, rejecting repeated keys the decoder
// would otherwise collapse.
func decodeBody(r io.Reader) (any, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	if err := schemaio.CheckDuplicateKeys(raw); err != nil {
		return nil, err
	}
	var body any
	if err := json.Unmarshal(raw, &body); err != nil {
		return nil, err
	}
	return body, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
