package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/abelprasad/SathikaBoutique/internal/domain"
	"github.com/abelprasad/SathikaBoutique/internal/repository"
)

type mockAdminRepo struct {
	byEmail map[string]*domain.Admin
	nextID  int
}

func (m *mockAdminRepo) GetByEmail(_ context.Context, email string) (*domain.Admin, error) {
	if admin, ok := m.byEmail[email]; ok {
		return admin, nil
	}
	return nil, repository.ErrAdminNotFound
}

func (m *mockAdminRepo) GetByID(_ context.Context, id string) (*domain.Admin, error) {
	for _, admin := range m.byEmail {
		if admin.ID == id {
			return admin, nil
		}
	}
	return nil, repository.ErrAdminNotFound
}

func (m *mockAdminRepo) Insert(_ context.Context, admin *domain.Admin) error {
	if _, ok := m.byEmail[admin.Email]; ok {
		return repository.ErrDuplicateKey
	}
	m.nextID++
	admin.ID = "admin-1"
	if m.byEmail == nil {
		m.byEmail = map[string]*domain.Admin{}
	}
	m.byEmail[admin.Email] = admin
	return nil
}

func (m *mockAdminRepo) UpdateLastLogin(_ context.Context, id string) error {
	for _, admin := range m.byEmail {
		if admin.ID == id {
			admin.LastLogin = time.Now()
			return nil
		}
	}
	return repository.ErrAdminNotFound
}

func newTestAuth(repo repository.AdminRepository) *AuthService {
	return NewAuthService(repo, "test-secret", time.Hour, zap.NewNop().Sugar())
}

func TestRegister_HashesPasswordAndIssuesToken(t *testing.T) {
	repo := &mockAdminRepo{}
	svc := newTestAuth(repo)

	admin, token, err := svc.Register(context.Background(), "Admin@Example.com", "s3cret-pass", "Admin", "")

	require.NoError(t, err)
	assert.Equal(t, "admin@example.com", admin.Email)
	assert.Equal(t, "admin", admin.Role)
	assert.NotEqual(t, "s3cret-pass", admin.PasswordHash)
	assert.NotEmpty(t, token)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, admin.ID, claims.Subject)
	assert.Equal(t, "admin@example.com", claims.Email)
}

func TestRegister_Validation(t *testing.T) {
	svc := newTestAuth(&mockAdminRepo{})
	ctx := context.Background()

	cases := []struct {
		name    string
		email   string
		pass    string
		admin   string
		message string
	}{
		{"missing fields", "", "s3cret-pass", "Admin", "email, password and name are required"},
		{"bad email", "not-an-email", "s3cret-pass", "Admin", "invalid email format"},
		{"short password", "a@b.co", "short", "Admin", "password must be at least 8 characters long"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := svc.Register(ctx, tc.email, tc.pass, tc.admin, "")

			var validationErr *ValidationError
			require.ErrorAs(t, err, &validationErr)
			assert.Equal(t, tc.message, validationErr.Message)
		})
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	repo := &mockAdminRepo{}
	svc := newTestAuth(repo)
	ctx := context.Background()

	_, _, err := svc.Register(ctx, "a@b.co", "s3cret-pass", "Admin", "")
	require.NoError(t, err)

	_, _, err = svc.Register(ctx, "a@b.co", "s3cret-pass", "Admin", "")
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestLogin_RoundTrip(t *testing.T) {
	repo := &mockAdminRepo{}
	svc := newTestAuth(repo)
	ctx := context.Background()

	_, _, err := svc.Register(ctx, "a@b.co", "s3cret-pass", "Admin", "")
	require.NoError(t, err)

	admin, token, err := svc.Login(ctx, "a@b.co", "s3cret-pass")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.False(t, admin.LastLogin.IsZero())

	_, _, err = svc.Login(ctx, "a@b.co", "wrong-password")
	assert.ErrorIs(t, err, ErrBadCredentials)

	_, _, err = svc.Login(ctx, "nobody@b.co", "s3cret-pass")
	assert.ErrorIs(t, err, ErrBadCredentials)
}

func TestValidateToken_RejectsTampering(t *testing.T) {
	svc := newTestAuth(&mockAdminRepo{})
	other := NewAuthService(&mockAdminRepo{}, "other-secret", time.Hour, zap.NewNop().Sugar())

	_, token, err := svc.Register(context.Background(), "a@b.co", "s3cret-pass", "Admin", "")
	require.NoError(t, err)

	_, err = other.ValidateToken(token)
	assert.Error(t, err)

	_, err = svc.ValidateToken(token + "x")
	assert.Error(t, err)
}

func TestValidateToken_Expired(t *testing.T) {
	repo := &mockAdminRepo{}
	svc := NewAuthService(repo, "test-secret", -time.Minute, zap.NewNop().Sugar())

	_, token, err := svc.Register(context.Background(), "a@b.co", "s3cret-pass", "Admin", "")
	require.NoError(t, err)

	_, err = svc.ValidateToken(token)
	assert.Error(t, err)
}
