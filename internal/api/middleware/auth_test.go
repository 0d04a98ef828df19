package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAuth_MissingKey(t *testing.T) {
	// Auth checks the header before any DB lookup, so nil pool is safe here.
	handler := Auth(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest("GET", "/api/projects", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	var body map[string]string
	err := json.Unmarshal(rec.Body.Bytes(), &body)
	assert.NoError(t, err)
	assert.Equal(t, "missing API key", body["error"])
}

func TestGetAPIKeyID_NoAuth(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	assert.Empty(t, GetAPIKeyID(req.Context()))
}
