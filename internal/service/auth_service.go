package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/query-tracker/internal/auth"
	"github.com/spec-kit/query-tracker/internal/config"
	"github.com/spec-kit/query-tracker/internal/domain"
	"github.com/spec-kit/query-tracker/internal/repository"
	apperrors "github.com/spec-kit/query-tracker/pkg/util/errorutil"
)

// AuthService admits callers into one of the three roles. Authentication
// matches username (trimmed), credential hash, and role exactly; a failure
// never discloses which of the three mismatched.
type AuthService struct {
	users    repository.UserRepository
	hasher   *auth.Hasher
	tokenMgr *auth.TokenManager
	logger   *zap.Logger
}

// AuthDependencies encapsulates repo requirements for auth service.
type AuthDependencies struct {
	UserRepo repository.UserRepository
	Logger   *zap.Logger
}

// NewAuthService builds the service.
func NewAuthService(cfg config.Config, deps AuthDependencies) *AuthService {
	return &AuthService{
		users:    deps.UserRepo,
		hasher:   auth.NewHasher(cfg.Auth.CredentialSalt, cfg.Auth.PBKDF2Iterations),
		tokenMgr: auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes),
		logger:   deps.Logger,
	}
}

// Register creates a new account. Registration against an existing username
// fails with DUPLICATE_IDENTITY and leaves no partial write.
func (s *AuthService) Register(ctx context.Context, username, password string, role domain.Role) (*domain.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, apperrors.NewValidationError("username and password required", nil)
	}

	user := &domain.User{
		Username:       username,
		CredentialHash: s.hasher.Hash(password),
		Role:           role,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, apperrors.NewDuplicateIdentity(username)
		}
		return nil, apperrors.MapError(err)
	}
	return user, nil
}

// Authenticate validates the (username, password, role) triple and issues a
// token. Correct credentials under the wrong role still fail.
func (s *AuthService) Authenticate(ctx context.Context, username, password string, role domain.Role) (string, time.Time, error) {
	username = strings.TrimSpace(username)

	user, err := s.users.Get(ctx, username, role)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", time.Time{}, apperrors.NewInvalidCredential()
		}
		return "", time.Time{}, apperrors.MapError(err)
	}

	candidate := s.hasher.Hash(password)
	if subtle.ConstantTimeCompare([]byte(candidate), []byte(user.CredentialHash)) != 1 {
		return "", time.Time{}, apperrors.NewInvalidCredential()
	}

	token, exp, err := s.tokenMgr.GenerateToken(user.Username, user.Role)
	if err != nil {
		return "", time.Time{}, apperrors.MapError(err)
	}
	return token, exp, nil
}

// ResetPassword unconditionally overwrites the hash for the matching
// (username, role) pair. A reset that matches no account is a silent no-op,
// preserved as-is from the original behavior.
func (s *AuthService) ResetPassword(ctx context.Context, username, newPassword string, role domain.Role) error {
	username = strings.TrimSpace(username)
	if newPassword == "" {
		return apperrors.NewValidationError("new password required", nil)
	}

	matched, err := s.users.UpdatePassword(ctx, username, role, s.hasher.Hash(newPassword))
	if err != nil {
		return apperrors.MapError(err)
	}
	if !matched {
		s.logger.Debug("password reset matched no account",
			zap.String("username", username),
			zap.String("role", string(role)))
	}
	return nil
}

// ListSupportUsers returns the usernames eligible for ticket assignment.
func (s *AuthService) ListSupportUsers(ctx context.Context) ([]string, error) {
	names, err := s.users.ListUsernames(ctx, domain.RoleSupport)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return names, nil
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}
