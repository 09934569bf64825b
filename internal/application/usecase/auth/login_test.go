package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/khoahotran/portfolio-cms/adapters/persistence"
	"github.com/khoahotran/portfolio-cms/internal/domain/session"
	"github.com/khoahotran/portfolio-cms/pkg/apperror"
	"github.com/khoahotran/portfolio-cms/pkg/auth"
	"github.com/khoahotran/portfolio-cms/pkg/logger"
)

type brokenMarkers struct{}

func (brokenMarkers) Get(context.Context) (string, error) { return "", errors.New("redis down") }
func (brokenMarkers) Set(context.Context, string) error   { return errors.New("redis down") }
func (brokenMarkers) Clear(context.Context) error         { return errors.New("redis down") }

func newTestGuard(t *testing.T, markers session.MarkerStore) *Guard {
	t.Helper()
	creds, err := ResolveCredentials("admin", "s3cret-pass", "")
	require.NoError(t, err)
	return NewGuard(creds, markers, auth.NewJWTService("test-secret", time.Hour), nil, logger.NewNopLogger())
}

func TestResolveCredentials(t *testing.T) {
	_, err := ResolveCredentials("", "pw", "")
	assert.ErrorIs(t, err, ErrNoCredentials)
	_, err = ResolveCredentials("admin", "", "")
	assert.ErrorIs(t, err, ErrNoCredentials)

	c, err := ResolveCredentials("admin", "ignored", "$2a$10$abc")
	require.NoError(t, err)
	assert.Equal(t, "$2a$10$abc", c.PasswordHash)

	c, err = ResolveCredentials("admin", "pw", "")
	require.NoError(t, err)
	assert.True(t, auth.CheckPasswordHash("pw", c.PasswordHash))
}

func TestGuard_LoginSuccess(t *testing.T) {
	ctx := context.Background()
	markers := persistence.NewMemoryMarkerStore()
	g := newTestGuard(t, markers)
	require.False(t, g.IsAuthenticated())

	out, err := g.Login(ctx, LoginInput{Username: "admin", Password: "s3cret-pass"})
	require.NoError(t, err)
	assert.NotEmpty(t, out.AccessToken)
	assert.True(t, g.IsAuthenticated())
	assert.Equal(t, session.StateLoggedIn, g.State())

	v, _ := markers.Get(ctx)
	assert.Equal(t, session.MarkerValue, v)

	claims, err := g.Authorize(out.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, out.Session.ID, claims.SessionID)
	assert.Equal(t, "admin", claims.Subject)
}

func TestGuard_LoginFailureIsGeneric(t *testing.T) {
	ctx := context.Background()
	g := newTestGuard(t, persistence.NewMemoryMarkerStore())

	for _, in := range []LoginInput{
		{Username: "admin", Password: "wrong"},
		{Username: "root", Password: "s3cret-pass"},
		{Username: "", Password: ""},
	} {
		_, err := g.Login(ctx, in)
		require.Error(t, err)
		assert.ErrorIs(t, err, apperror.ErrUnauthorized)

		var appErr *apperror.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, "Invalid credentials", appErr.Message)
		assert.False(t, g.IsAuthenticated())
	}
}

func TestGuard_LogoutAndReload(t *testing.T) {
	ctx := context.Background()
	markers := persistence.NewMemoryMarkerStore()
	g := newTestGuard(t, markers)

	out, err := g.Login(ctx, LoginInput{Username: "admin", Password: "s3cret-pass"})
	require.NoError(t, err)

	reloaded := newTestGuard(t, markers)
	assert.Equal(t, session.StateLoggedIn, reloaded.Restore(ctx))
	assert.True(t, reloaded.IsAuthenticated())

	g.Logout(ctx)
	assert.False(t, g.IsAuthenticated())
	_, err = g.Authorize(out.AccessToken)
	assert.ErrorIs(t, err, apperror.ErrUnauthorized)

	afterLogout := newTestGuard(t, markers)
	assert.Equal(t, session.StateLoggedOut, afterLogout.Restore(ctx))
	assert.False(t, afterLogout.IsAuthenticated())

	// logout from logged out stays logged out
	g.Logout(ctx)
	assert.False(t, g.IsAuthenticated())
}

func TestGuard_ReloginAfterLogout(t *testing.T) {
	ctx := context.Background()
	g := newTestGuard(t, persistence.NewMemoryMarkerStore())

	_, err := g.Login(ctx, LoginInput{Username: "admin", Password: "s3cret-pass"})
	require.NoError(t, err)
	g.Logout(ctx)

	out, err := g.Login(ctx, LoginInput{Username: "admin", Password: "s3cret-pass"})
	require.NoError(t, err)
	_, err = g.Authorize(out.AccessToken)
	assert.NoError(t, err)
}

func TestGuard_AuthorizeRejectsBadToken(t *testing.T) {
	ctx := context.Background()
	g := newTestGuard(t, persistence.NewMemoryMarkerStore())
	_, err := g.Login(ctx, LoginInput{Username: "admin", Password: "s3cret-pass"})
	require.NoError(t, err)

	_, err = g.Authorize("not-a-token")
	assert.ErrorIs(t, err, apperror.ErrUnauthorized)

	foreign, err := auth.NewJWTService("other-secret", time.Hour).GenerateToken("admin", uuid.New())
	require.NoError(t, err)
	_, err = g.Authorize(foreign)
	assert.ErrorIs(t, err, apperror.ErrUnauthorized)
}

func TestGuard_MarkerFailuresDoNotBlock(t *testing.T) {
	ctx := context.Background()
	g := newTestGuard(t, brokenMarkers{})

	assert.Equal(t, session.StateLoggedOut, g.Restore(ctx))

	_, err := g.Login(ctx, LoginInput{Username: "admin", Password: "s3cret-pass"})
	require.NoError(t, err)
	assert.True(t, g.IsAuthenticated())

	g.Logout(ctx)
	assert.False(t, g.IsAuthenticated())
}

func TestGuard_Unconfigured(t *testing.T) {
	g := NewGuard(Credentials{}, persistence.NewMemoryMarkerStore(), auth.NewJWTService("s", time.Hour), nil, logger.NewNopLogger())
	_, err := g.Login(context.Background(), LoginInput{})
	assert.ErrorIs(t, err, apperror.ErrUnauthorized)
}
