package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/thiago536/v0-gabycommerce-structure/internal/admin/auth"
	"github.com/thiago536/v0-gabycommerce-structure/internal/admin/domain"
	"github.com/thiago536/v0-gabycommerce-structure/internal/admin/repository"
	apperrors "github.com/thiago536/v0-gabycommerce-structure/pkg/errors"
)

// BcryptCost is the work factor for hashing admin passwords.
const BcryptCost = 12

// AuthService authenticates back-office operators.
type AuthService struct {
	repo   repository.AdminRepository
	tokens *auth.TokenManager
	logger *slog.Logger
}

// NewAuthService creates a new admin auth service.
func NewAuthService(repo repository.AdminRepository, tokens *auth.TokenManager, logger *slog.Logger) *AuthService {
	return &AuthService{
		repo:   repo,
		tokens: tokens,
		logger: logger,
	}
}

// LoginResult is a successful authentication: the signed token and the
// admin it belongs to.
type LoginResult struct {
	Token     string            `json:"token"`
	ExpiresAt time.Time         `json:"expires_at"`
	Admin     *domain.AdminUser `json:"admin"`
}

// Login verifies the credentials and issues a signed token. Unknown email,
// wrong password, and deactivated account all return the same error, so the
// login form never confirms which emails exist.
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	if email == "" || password == "" {
		return nil, apperrors.Unauthorized("invalid credentials")
	}

	admin, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			// Burn a comparison anyway to keep timing uniform.
			_ = bcrypt.CompareHashAndPassword([]byte("$2a$12$invalidinvalidinvalidinvalidinvalidinvalidinvalidinval"), []byte(password))
			return nil, apperrors.Unauthorized("invalid credentials")
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(password)); err != nil {
		return nil, apperrors.Unauthorized("invalid credentials")
	}

	if !admin.Active {
		return nil, apperrors.Unauthorized("invalid credentials")
	}

	token, err := s.tokens.Generate(admin.ID, admin.Email)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	if err := s.repo.UpdateLastLogin(ctx, admin.ID); err != nil {
		s.logger.WarnContext(ctx, "failed to record admin login",
			slog.String("admin_id", admin.ID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "admin logged in",
		slog.String("admin_id", admin.ID),
		slog.String("email", admin.Email),
	)

	return &LoginResult{
		Token:     token,
		ExpiresAt: time.Now().UTC().Add(s.tokens.Expiry()),
		Admin:     admin,
	}, nil
}

// Verify validates a token and returns its claims.
func (s *AuthService) Verify(tokenString string) (*auth.Claims, error) {
	claims, err := s.tokens.Validate(tokenString)
	if err != nil {
		return nil, apperrors.Unauthorized("invalid or expired token")
	}
	return claims, nil
}

// HashPassword hashes a plaintext password for storage. Used by the
// seeding migration tooling, not by any request path.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), BcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
