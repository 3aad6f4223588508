package auth

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"condovote/pkg/requestcontext"
)

type stubVerifier struct {
	claims *Claims
	err    error
}

func (v stubVerifier) Verify(string) (*Claims, error) { return v.claims, v.err }

func TestRequireAuth(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	var seen string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = requestcontext.Resident(r.Context()).String()
		w.WriteHeader(http.StatusOK)
	})

	t.Run("missing header is unauthorized", func(t *testing.T) {
		rr := httptest.NewRecorder()
		RequireAuth(stubVerifier{}, logger)(next).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("invalid token is unauthorized", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer bad")
		rr := httptest.NewRecorder()
		RequireAuth(stubVerifier{err: errors.New("expired")}, logger)(next).ServeHTTP(rr, req)
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("claims without tax code are unauthorized", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer ok")
		rr := httptest.NewRecorder()
		RequireAuth(stubVerifier{claims: &Claims{}}, logger)(next).ServeHTTP(rr, req)
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("valid token stores normalized resident", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer ok")
		rr := httptest.NewRecorder()
		RequireAuth(stubVerifier{claims: &Claims{TaxCode: "adm01"}}, logger)(next).ServeHTTP(rr, req)
		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "ADM01", seen)
	})
}
