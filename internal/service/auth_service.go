package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/abelprasad/SathikaBoutique/internal/domain"
	"github.com/abelprasad/SathikaBoutique/internal/repository"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// AdminClaims are the JWT claims carried by admin tokens.
type AdminClaims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
	Role  string `json:"role"`
}

// AuthService handles admin registration, login and token validation.
// Tokens are HS256 with a 7 day expiry, matching the cart session window.
type AuthService struct {
	repo     repository.AdminRepository
	secret   []byte
	tokenTTL time.Duration
	log      *zap.SugaredLogger
}

func NewAuthService(repo repository.AdminRepository, secret string, tokenTTL time.Duration, log *zap.SugaredLogger) *AuthService {
	return &AuthService{
		repo:     repo,
		secret:   []byte(secret),
		tokenTTL: tokenTTL,
		log:      log,
	}
}

// Register creates an admin account and returns it with a signed token.
func (s *AuthService) Register(ctx context.Context, email, password, name, role string) (*domain.Admin, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" || name == "" {
		return nil, "", &ValidationError{Message: "email, password and name are required"}
	}
	if !emailPattern.MatchString(email) {
		return nil, "", &ValidationError{Message: "invalid email format"}
	}
	if len(password) < 8 {
		return nil, "", &ValidationError{Message: "password must be at least 8 characters long"}
	}
	if role == "" {
		role = "admin"
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash password: %w", err)
	}

	admin := &domain.Admin{
		Email:        email,
		PasswordHash: string(hash),
		Name:         name,
		Role:         role,
	}

	if err := s.repo.Insert(ctx, admin); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, "", ErrEmailTaken
		}
		return nil, "", err
	}

	token, err := s.generateToken(admin)
	if err != nil {
		return nil, "", err
	}

	s.log.Infow("admin registered", "admin_id", admin.ID, "email", admin.Email)
	return admin, token, nil
}

// Login verifies credentials and returns the admin with a fresh token.
// Unknown email and wrong password are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.Admin, string, error) {
	admin, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrAdminNotFound) {
			return nil, "", ErrBadCredentials
		}
		return nil, "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(password)); err != nil {
		return nil, "", ErrBadCredentials
	}

	if err := s.repo.UpdateLastLogin(ctx, admin.ID); err != nil {
		s.log.Warnw("failed to update last login", "admin_id", admin.ID, "error", err)
	}

	token, err := s.generateToken(admin)
	if err != nil {
		return nil, "", err
	}

	return admin, token, nil
}

// GetAdmin loads the admin behind validated claims.
func (s *AuthService) GetAdmin(ctx context.Context, id string) (*domain.Admin, error) {
	admin, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, repository.ErrAdminNotFound) {
		return nil, ErrBadCredentials
	}
	return admin, err
}

func (s *AuthService) generateToken(admin *domain.Admin) (string, error) {
	now := time.Now().UTC()
	claims := AdminClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   admin.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
		},
		Email: admin.Email,
		Role:  admin.Role,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// ValidateToken parses and validates a JWT string.
func (s *AuthService) ValidateToken(tokenString string) (*AdminClaims, error) {
	claims := &AdminClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("token validation failed: %w", err)
	}
	if !token.Valid {
		return nil, jwt.ErrTokenSignatureInvalid
	}
	return claims, nil
}
