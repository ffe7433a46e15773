package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/query-tracker/internal/config"
	"github.com/spec-kit/query-tracker/internal/domain"
	apperrors "github.com/spec-kit/query-tracker/pkg/util/errorutil"
)

func newTestAuthService(users *fakeUserRepo) *AuthService {
	cfg := config.Config{}
	cfg.Auth.JWTSecret = "test-secret"
	cfg.Auth.AccessTokenTTLMinutes = 5
	cfg.Auth.CredentialSalt = "test-salt"
	cfg.Auth.PBKDF2Iterations = 100
	return NewAuthService(cfg, AuthDependencies{UserRepo: users, Logger: zap.NewNop()})
}

func TestRegisterAndAuthenticateExactTriple(t *testing.T) {
	svc := newTestAuthService(newFakeUserRepo())
	ctx := context.Background()

	_, err := svc.Register(ctx, "alice", "hunter2", domain.RoleClient)
	require.NoError(t, err)

	token, _, err := svc.Authenticate(ctx, "alice", "hunter2", domain.RoleClient)
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	claims, err := svc.TokenManager().ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, domain.RoleClient, claims.Role)
}

func TestAuthenticateWrongRoleFails(t *testing.T) {
	svc := newTestAuthService(newFakeUserRepo())
	ctx := context.Background()

	_, err := svc.Register(ctx, "alice", "hunter2", domain.RoleClient)
	require.NoError(t, err)

	for _, role := range []domain.Role{domain.RoleSupport, domain.RoleAdmin} {
		_, _, err := svc.Authenticate(ctx, "alice", "hunter2", role)
		require.Error(t, err)
		assert.Equal(t, "INVALID_CREDENTIAL", apperrors.ToDomainError(err).Code)
	}
}

func TestAuthenticateWrongPasswordFails(t *testing.T) {
	svc := newTestAuthService(newFakeUserRepo())
	ctx := context.Background()

	_, err := svc.Register(ctx, "alice", "hunter2", domain.RoleClient)
	require.NoError(t, err)

	_, _, err = svc.Authenticate(ctx, "alice", "hunter3", domain.RoleClient)
	require.Error(t, err)
	// The same opaque error as for an unknown user or wrong role.
	assert.Equal(t, "INVALID_CREDENTIAL", apperrors.ToDomainError(err).Code)
}

func TestAuthenticateTrimsUsername(t *testing.T) {
	svc := newTestAuthService(newFakeUserRepo())
	ctx := context.Background()

	_, err := svc.Register(ctx, "  alice  ", "hunter2", domain.RoleClient)
	require.NoError(t, err)

	_, _, err = svc.Authenticate(ctx, " alice ", "hunter2", domain.RoleClient)
	require.NoError(t, err)
}

func TestRegisterDuplicateUsername(t *testing.T) {
	svc := newTestAuthService(newFakeUserRepo())
	ctx := context.Background()

	_, err := svc.Register(ctx, "alice", "hunter2", domain.RoleClient)
	require.NoError(t, err)

	_, err = svc.Register(ctx, "alice", "other", domain.RoleSupport)
	require.Error(t, err)
	assert.Equal(t, "DUPLICATE_IDENTITY", apperrors.ToDomainError(err).Code)
}

func TestRegisterNeverStoresPlaintext(t *testing.T) {
	users := newFakeUserRepo()
	svc := newTestAuthService(users)

	_, err := svc.Register(context.Background(), "alice", "hunter2", domain.RoleClient)
	require.NoError(t, err)

	stored := users.users["alice"]
	assert.NotEqual(t, "hunter2", stored.CredentialHash)
	assert.NotContains(t, stored.CredentialHash, "hunter2")
}

func TestResetPasswordChangesCredential(t *testing.T) {
	svc := newTestAuthService(newFakeUserRepo())
	ctx := context.Background()

	_, err := svc.Register(ctx, "alice", "hunter2", domain.RoleClient)
	require.NoError(t, err)

	require.NoError(t, svc.ResetPassword(ctx, "alice", "swordfish", domain.RoleClient))

	_, _, err = svc.Authenticate(ctx, "alice", "hunter2", domain.RoleClient)
	require.Error(t, err)
	_, _, err = svc.Authenticate(ctx, "alice", "swordfish", domain.RoleClient)
	require.NoError(t, err)
}

func TestResetPasswordUnknownPairIsSilentNoOp(t *testing.T) {
	svc := newTestAuthService(newFakeUserRepo())

	err := svc.ResetPassword(context.Background(), "ghost", "whatever", domain.RoleSupport)
	assert.NoError(t, err)
}

func TestListSupportUsers(t *testing.T) {
	svc := newTestAuthService(newFakeUserRepo())
	ctx := context.Background()

	for _, seed := range []struct {
		username string
		role     domain.Role
	}{
		{"bob", domain.RoleSupport},
		{"carol", domain.RoleSupport},
		{"alice", domain.RoleClient},
		{"dave", domain.RoleAdmin},
	} {
		_, err := svc.Register(ctx, seed.username, "pw", seed.role)
		require.NoError(t, err)
	}

	names, err := svc.ListSupportUsers(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"bob", "carol"}, names)
}
