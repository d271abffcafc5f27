package middleware_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reoring/jsbuilder"
	"github.com/reoring/jsbuilder/middleware"
)

func newRouter(t *testing.T) http.Handler {
	t.Helper()
	doc := jsbuilder.Object([]jsbuilder.Field{
		jsbuilder.F("name", jsbuilder.String(jsbuilder.MinLength(1))),
		jsbuilder.Opt("role", jsbuilder.String(jsbuilder.Default("member"))),
	})
	r := chi.NewRouter()
	r.With(middleware.ValidateJSON(doc, middleware.Options{MaxBytes: 256})).
		Post("/users", func(w http.ResponseWriter, r *http.Request) {
			v, ok := middleware.ValueFromContext(r.Context())
			require.True(t, ok)
			raw, err := io.ReadAll(r.Body)
			require.NoError(t, err)
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(map[string]any{"ctx": v, "body": string(raw)})
		})
	return r
}

func post(h http.Handler, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/users", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestValidateJSON_Accepts(t *testing.T) {
	w := post(newRouter(t), `{"name":"ann"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Ctx  map[string]any `json:"ctx"`
		Body string         `json:"body"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, map[string]any{"name": "ann", "role": "member"}, resp.Ctx)
	assert.JSONEq(t, `{"name":"ann","role":"member"}`, resp.Body)
}

func TestValidateJSON_RejectsInvalidBody(t *testing.T) {
	w := post(newRouter(t), `{"name":""}`)
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var resp struct {
		Issues []jsbuilder.Issue `json:"issues"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Issues)
	assert.Equal(t, jsbuilder.CodeSchemaViolation, resp.Issues[0].Code)
}

func TestValidateJSON_MalformedJSON(t *testing.T) {
	w := post(newRouter(t), `{"name":`)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), middleware.CodeInvalidJSON)
}

func TestValidateJSON_DuplicateKeys(t *testing.T) {
	w := post(newRouter(t), `{"name":"a","name":"b"}`)
	require.Equal(t, http.StatusBadRequest, w.Code)

	var resp struct {
		Issues []jsbuilder.Issue `json:"issues"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Issues, 1)
	assert.Equal(t, middleware.CodeDuplicateKey, resp.Issues[0].Code)
	assert.Equal(t, "", resp.Issues[0].Path)
	assert.Contains(t, resp.Issues[0].Message, `"name"`)
}

func TestValidateJSON_BodyTooLarge(t *testing.T) {
	w := post(newRouter(t), `{"name":"`+strings.Repeat("x", 512)+`"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestValueFromContext(t *testing.T) {
	_, ok := middleware.ValueFromContext(context.Background())
	assert.False(t, ok)

	v, ok := middleware.ValueFromContext(middleware.ContextWithValue(context.Background(), nil))
	assert.True(t, ok)
	assert.Nil(t, v)
}
