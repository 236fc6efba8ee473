package http

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"

	"github.com/abelprasad/SathikaBoutique/internal/domain"
	"github.com/abelprasad/SathikaBoutique/internal/service"
)

type authMock struct {
	admin *domain.Admin
	token string
	err   error
}

func (a *authMock) Register(context.Context, string, string, string, string) (*domain.Admin, string, error) {
	return a.admin, a.token, a.err
}

func (a *authMock) Login(context.Context, string, string) (*domain.Admin, string, error) {
	return a.admin, a.token, a.err
}

func (a *authMock) GetAdmin(context.Context, string) (*domain.Admin, error) {
	return a.admin, a.err
}

func newAuthRouter(auth Authenticator) *chi.Mux {
	handler := NewAuthHandler(auth, 5*time.Second)
	r := chi.NewRouter()
	r.Post("/api/auth/register", handler.Register)
	r.Post("/api/auth/login", handler.Login)
	return r
}

func TestRegister_Created(t *testing.T) {
	auth := &authMock{
		admin: &domain.Admin{ID: "admin-1", Email: "a@b.co", Role: "admin"},
		token: "signed-token",
	}
	router := newAuthRouter(auth)

	body := bytes.NewBufferString(`{"email":"a@b.co","password":"s3cret-pass","name":"Admin"}`)
	recorder := httptest.NewRecorder()
	request := httptest.NewRequest("POST", "/api/auth/register", body)
	router.ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusCreated, recorder.Code)
	env := decodeEnvelope(t, recorder.Body)
	assert.Equal(t, "success", env.Status)
}

func TestRegister_ValidationFailureIs400WithMessage(t *testing.T) {
	auth := &authMock{err: &service.ValidationError{Message: "invalid email format"}}
	router := newAuthRouter(auth)

	body := bytes.NewBufferString(`{"email":"not-an-email","password":"s3cret-pass","name":"Admin"}`)
	recorder := httptest.NewRecorder()
	request := httptest.NewRequest("POST", "/api/auth/register", body)
	router.ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	env := decodeEnvelope(t, recorder.Body)
	assert.Equal(t, "error", env.Status)
	assert.Equal(t, "invalid email format", env.Message)
}

func TestRegister_DuplicateEmailIs400(t *testing.T) {
	auth := &authMock{err: service.ErrEmailTaken}
	router := newAuthRouter(auth)

	body := bytes.NewBufferString(`{"email":"a@b.co","password":"s3cret-pass","name":"Admin"}`)
	recorder := httptest.NewRecorder()
	request := httptest.NewRequest("POST", "/api/auth/register", body)
	router.ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestLogin_BadCredentialsIs401(t *testing.T) {
	auth := &authMock{err: service.ErrBadCredentials}
	router := newAuthRouter(auth)

	body := bytes.NewBufferString(`{"email":"a@b.co","password":"wrong-password"}`)
	recorder := httptest.NewRecorder()
	request := httptest.NewRequest("POST", "/api/auth/login", body)
	router.ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	env := decodeEnvelope(t, recorder.Body)
	assert.Equal(t, "invalid email or password", env.Message)
}
