package http

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/abelprasad/SathikaBoutique/internal/service"
)

type validatorMock struct {
	claims *service.AdminClaims
	err    error
}

func (v validatorMock) ValidateToken(string) (*service.AdminClaims, error) {
	return v.claims, v.err
}

func protectedHandler(t *testing.T, v TokenValidator) http.Handler {
	t.Helper()
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims := claimsFromContext(r.Context())
		assert.NotNil(t, claims)
		w.WriteHeader(http.StatusNoContent)
	})
	return RequireAdmin(v)(next)
}

func TestRequireAdmin_MissingHeader(t *testing.T) {
	handler := protectedHandler(t, validatorMock{})

	recorder := httptest.NewRecorder()
	request := httptest.NewRequest("GET", "/", nil)
	handler.ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
}

func TestRequireAdmin_BadScheme(t *testing.T) {
	handler := protectedHandler(t, validatorMock{})

	recorder := httptest.NewRecorder()
	request := httptest.NewRequest("GET", "/", nil)
	request.Header.Set("Authorization", "Basic abc123")
	handler.ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
}

func TestRequireAdmin_InvalidToken(t *testing.T) {
	handler := protectedHandler(t, validatorMock{err: assert.AnError})

	recorder := httptest.NewRecorder()
	request := httptest.NewRequest("GET", "/", nil)
	request.Header.Set("Authorization", "Bearer not-a-token")
	handler.ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
}

func TestRequireAdmin_ValidToken(t *testing.T) {
	handler := protectedHandler(t, validatorMock{claims: &service.AdminClaims{Email: "admin@example.com"}})

	recorder := httptest.NewRecorder()
	request := httptest.NewRequest("GET", "/", nil)
	request.Header.Set("Authorization", "Bearer good-token")
	handler.ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusNoContent, recorder.Code)
}

func TestRequestIDMiddleware_GeneratesAndEchoes(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	handler := RequestIDMiddleware(next)

	recorder := httptest.NewRecorder()
	request := httptest.NewRequest("GET", "/", nil)
	handler.ServeHTTP(recorder, request)
	assert.NotEmpty(t, recorder.Header().Get("X-Request-ID"))

	recorder = httptest.NewRecorder()
	request = httptest.NewRequest("GET", "/", nil)
	request.Header.Set("X-Request-ID", "req-abc")
	handler.ServeHTTP(recorder, request)
	assert.Equal(t, "req-abc", recorder.Header().Get("X-Request-ID"))
}
