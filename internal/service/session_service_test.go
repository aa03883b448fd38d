package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/campus-events-api/internal/models"
	"github.com/noah-isme/campus-events-api/internal/repository"
	appErrors "github.com/noah-isme/campus-events-api/pkg/errors"
)

func newSessionFixture(t *testing.T, allowSwitch bool) (*SessionService, *repository.MemoryUserRepository, *recordedAudit) {
	t.Helper()
	users := repository.NewMemoryUserRepository(repository.SeedUsers())
	audit := &recordedAudit{}
	svc := NewSessionService(users, repository.NewMemoryRevocationRepository(), audit, nil, zap.NewNop(), SessionConfig{
		AccessTokenSecret: "test-secret",
		AccessTokenExpiry: time.Hour,
		Issuer:            "campus-events-test",
		AllowSwitch:       allowSwitch,
	})
	return svc, users, audit
}

func TestSessionLoginIssuesValidToken(t *testing.T) {
	svc, _, audit := newSessionFixture(t, true)
	ctx := context.Background()

	res, err := svc.Login(ctx, models.LoginRequest{Email: "  Organizer@Example.com ", IP: "10.0.0.1"})
	require.NoError(t, err)
	assert.NotEmpty(t, res.AccessToken)
	assert.Equal(t, int64(3600), res.ExpiresIn)
	assert.Equal(t, "2", res.User.ID)
	assert.Equal(t, models.RoleOrganizer, res.User.Role)

	claims, err := svc.ValidateToken(ctx, res.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "2", claims.UserID)
	assert.Equal(t, "campus-events-test", claims.Issuer)
	assert.NotEmpty(t, claims.ID)

	require.Len(t, audit.entries, 1)
	assert.Equal(t, models.AuditActionLogin, audit.entries[0].Action)
	assert.Equal(t, "10.0.0.1", audit.entries[0].IPAddress)
}

func TestSessionLoginUnknownEmail(t *testing.T) {
	svc, _, audit := newSessionFixture(t, true)

	_, err := svc.Login(context.Background(), models.LoginRequest{Email: "nobody@example.com"})
	assertErrorCode(t, err, appErrors.ErrAuthenticationFailed)
	assert.Empty(t, audit.entries)

	_, err = svc.Login(context.Background(), models.LoginRequest{Email: "not-an-email"})
	assertErrorCode(t, err, appErrors.ErrValidation)
}

func TestSessionLogoutRevokesToken(t *testing.T) {
	svc, _, _ := newSessionFixture(t, true)
	ctx := context.Background()

	res, err := svc.Login(ctx, models.LoginRequest{Email: "student@example.com"})
	require.NoError(t, err)
	claims, err := svc.ValidateToken(ctx, res.AccessToken)
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, claims, models.LoginRequest{}))

	_, err = svc.ValidateToken(ctx, res.AccessToken)
	assertErrorCode(t, err, appErrors.ErrUnauthorized)

	assertErrorCode(t, svc.Logout(ctx, nil, models.LoginRequest{}), appErrors.ErrUnauthorized)
}

func TestSessionValidateTokenReloadsRole(t *testing.T) {
	svc, users, _ := newSessionFixture(t, true)
	ctx := context.Background()

	res, err := svc.Login(ctx, models.LoginRequest{Email: "student@example.com"})
	require.NoError(t, err)
	require.True(t, users.SetRole("3", models.RoleOrganizer))

	claims, err := svc.ValidateToken(ctx, res.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, models.RoleOrganizer, claims.Role)
}

func TestSessionValidateTokenRejectsBadTokens(t *testing.T) {
	svc, _, _ := newSessionFixture(t, true)
	ctx := context.Background()

	res, err := svc.Login(ctx, models.LoginRequest{Email: "admin@example.com"})
	require.NoError(t, err)

	_, err = svc.ValidateToken(ctx, res.AccessToken+"x")
	assertErrorCode(t, err, appErrors.ErrUnauthorized)

	_, err = svc.ValidateToken(ctx, "not-a-jwt")
	assertErrorCode(t, err, appErrors.ErrUnauthorized)

	svc.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	_, err = svc.ValidateToken(ctx, res.AccessToken)
	assertErrorCode(t, err, appErrors.ErrUnauthorized)
}

func TestSessionSwitchUser(t *testing.T) {
	svc, _, audit := newSessionFixture(t, true)
	ctx := context.Background()

	res, err := svc.Login(ctx, models.LoginRequest{Email: "student@example.com"})
	require.NoError(t, err)
	claims, err := svc.ValidateToken(ctx, res.AccessToken)
	require.NoError(t, err)

	switched, err := svc.SwitchUser(ctx, claims, models.SwitchUserRequest{UserID: "1"})
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, switched.User.Role)

	adminClaims, err := svc.ValidateToken(ctx, switched.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "1", adminClaims.UserID)

	_, err = svc.ValidateToken(ctx, res.AccessToken)
	assertErrorCode(t, err, appErrors.ErrUnauthorized)

	_, err = svc.SwitchUser(ctx, adminClaims, models.SwitchUserRequest{UserID: "99"})
	assertErrorCode(t, err, appErrors.ErrNotFound)

	assert.Equal(t, []string{models.AuditActionLogin, models.AuditActionSwitchUser}, audit.actions())
}

func TestSessionSwitchUserDisabled(t *testing.T) {
	svc, _, _ := newSessionFixture(t, false)
	ctx := context.Background()

	res, err := svc.Login(ctx, models.LoginRequest{Email: "student@example.com"})
	require.NoError(t, err)
	claims, err := svc.ValidateToken(ctx, res.AccessToken)
	require.NoError(t, err)

	_, err = svc.SwitchUser(ctx, claims, models.SwitchUserRequest{UserID: "1"})
	assertErrorCode(t, err, appErrors.ErrForbidden)
}

func TestSessionListUsersSortedByName(t *testing.T) {
	svc, _, _ := newSessionFixture(t, true)

	users, err := svc.ListUsers(context.Background())
	require.NoError(t, err)
	require.Len(t, users, 4)
	assert.Equal(t, "Alice Johnson", users[0].Name)
	assert.Equal(t, "Diana Miller", users[3].Name)
}
