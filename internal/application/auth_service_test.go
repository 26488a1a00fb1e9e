package application_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-user-resource-api/internal/application"
	"github.com/oksasatya/go-user-resource-api/internal/domain/entity"
	"github.com/oksasatya/go-user-resource-api/internal/infrastructure/memory"
	"github.com/oksasatya/go-user-resource-api/pkg/helpers"
)

func newAuth(t *testing.T) (*application.AuthService, *memory.SessionStore) {
	t.Helper()
	store := memory.NewUserStore()
	hash, err := helpers.HashPasswordCost("secret1", 4)
	require.NoError(t, err)
	store.Put(entity.User{ID: 1, Name: "Alice", Email: "alice@example.com", Password: hash})

	sessions := memory.NewSessionStore()
	jwt := helpers.NewJWTManager("a-secret", "r-secret", time.Minute, time.Hour)
	return application.NewAuthService(store, jwt, sessions, nil), sessions
}

func TestLoginIssuesTokensAndSession(t *testing.T) {
	auth, sessions := newAuth(t)
	ctx := context.Background()

	u, pair, err := auth.Login(ctx, " alice@example.com ", "secret1")
	require.NoError(t, err)
	assert.EqualValues(t, 1, u.ID)
	assert.NotEmpty(t, pair.AccessToken)
	assert.True(t, pair.RefreshTokenExpiry.After(pair.AccessTokenExpiry))

	sess, err := sessions.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", sess.Email)

	got, err := auth.Authorize(ctx, pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, sess.SessionID, got.SessionID)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	auth, _ := newAuth(t)
	ctx := context.Background()

	_, _, err := auth.Login(ctx, "alice@example.com", "wrong")
	assert.ErrorIs(t, err, application.ErrInvalidCredentials)
	_, _, err = auth.Login(ctx, "nobody@example.com", "secret1")
	assert.ErrorIs(t, err, application.ErrInvalidCredentials)
}

func TestAuthorizeRejectsRefreshTokenAndGarbage(t *testing.T) {
	auth, _ := newAuth(t)
	ctx := context.Background()
	_, pair, err := auth.Login(ctx, "alice@example.com", "secret1")
	require.NoError(t, err)

	for _, tok := range []string{"", "garbage", pair.RefreshToken} {
		_, err := auth.Authorize(ctx, tok)
		assert.ErrorIs(t, err, application.ErrUnauthorized)
	}
}

func TestRefreshRotatesSession(t *testing.T) {
	auth, _ := newAuth(t)
	ctx := context.Background()
	_, first, err := auth.Login(ctx, "alice@example.com", "secret1")
	require.NoError(t, err)

	second, err := auth.Refresh(ctx, first.RefreshToken)
	require.NoError(t, err)

	_, err = auth.Authorize(ctx, second.AccessToken)
	assert.NoError(t, err)
	_, err = auth.Authorize(ctx, first.AccessToken)
	assert.ErrorIs(t, err, application.ErrUnauthorized)
	_, err = auth.Refresh(ctx, first.RefreshToken)
	assert.ErrorIs(t, err, application.ErrUnauthorized)
}

func TestLogoutEndsSession(t *testing.T) {
	auth, _ := newAuth(t)
	ctx := context.Background()
	_, pair, err := auth.Login(ctx, "alice@example.com", "secret1")
	require.NoError(t, err)

	require.NoError(t, auth.Logout(ctx, 1))
	_, err = auth.Authorize(ctx, pair.AccessToken)
	assert.ErrorIs(t, err, application.ErrUnauthorized)
}
