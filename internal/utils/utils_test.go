package utils

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubjectContext(t *testing.T) {
	t.Run("SetSubjectContext and GetSubjectFromContext", func(t *testing.T) {
		ctx := SetSubjectContext(context.Background(), "cli-operator")

		sub, ok := GetSubjectFromContext(ctx)
		assert.True(t, ok)
		assert.Equal(t, "cli-operator", sub)
	})

	t.Run("Empty context", func(t *testing.T) {
		_, ok := GetSubjectFromContext(context.Background())
		assert.False(t, ok)
	})

	t.Run("Empty subject", func(t *testing.T) {
		_, ok := GetSubjectFromContext(SetSubjectContext(context.Background(), ""))
		assert.False(t, ok)
	})
}

func TestPointerHelpers(t *testing.T) {
	p := StrPtr("PARIS")
	require.NotNil(t, p)
	assert.Equal(t, "PARIS", *p)

	assert.Equal(t, "PARIS", PtrString(p))
	assert.Equal(t, "", PtrString(nil))

	assert.Nil(t, FirstNonNil())
	assert.Nil(t, FirstNonNil(nil, nil))
	assert.Equal(t, p, FirstNonNil(nil, p, StrPtr("LYON")))
}

func TestWriteJSONError(t *testing.T) {
	w := httptest.NewRecorder()

	WriteJSONError(w, "address not found", http.StatusNotFound)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "address not found", body["error"])
}

func TestWriteJSON(t *testing.T) {
	w := httptest.NewRecorder()

	WriteJSON(w, http.StatusCreated, map[string]string{"id": "abc"})

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.JSONEq(t, `{"id":"abc"}`, w.Body.String())
}
