package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"devconnect-api/internal/model"
	"devconnect-api/pkg/apierror"
)

func hashPassword(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hash)
}

type authFixture struct {
	users         *fakeUserStore
	follows       *fakeFollowStore
	notifications *fakeNotificationStore
	service       *AuthService
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()

	users := newFakeUserStore(
		model.User{
			ID:        "u1",
			Email:     "alice@example.com",
			Username:  "alice",
			FirstName: "Alice",
			LastName:  "Doe",
			Role:      model.RoleUser,
			Avatar:    "https://cdn.example.com/alice.png",
		},
		model.User{
			ID:       "u2",
			Email:    "bob@example.com",
			Username: "bob",
			Role:     model.RoleUser,
		},
	)
	alice := users.users["u1"]
	alice.PasswordHash = hashPassword(t, "correct horse")
	users.users["u1"] = alice

	follows := newFakeFollowStore(users)
	notifications := &fakeNotificationStore{}

	svc, err := NewAuthService(
		"access-secret", "refresh-secret",
		time.Hour, 24*time.Hour, 10,
		users, follows, notifications,
	)
	require.NoError(t, err)

	return &authFixture{users: users, follows: follows, notifications: notifications, service: svc}
}

func TestAuthService_Login(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("accepts email or username as login", func(t *testing.T) {
		fx := newAuthFixture(t)

		byEmail, err := fx.service.Login(ctx, "alice@example.com", "correct horse")
		require.NoError(t, err)
		require.Equal(t, "u1", byEmail.Session.ID)

		byUsername, err := fx.service.Login(ctx, "alice", "correct horse")
		require.NoError(t, err)
		require.Equal(t, "u1", byUsername.Session.ID)
	})

	t.Run("rejects a wrong password", func(t *testing.T) {
		fx := newAuthFixture(t)

		_, err := fx.service.Login(ctx, "alice", "wrong")
		require.ErrorIs(t, err, model.ErrInvalidCredentials)
	})

	t.Run("rejects an unknown login identifier", func(t *testing.T) {
		fx := newAuthFixture(t)

		_, err := fx.service.Login(ctx, "nobody", "correct horse")
		require.ErrorIs(t, err, model.ErrInvalidCredentials)
	})

	t.Run("persists the refresh token, replacing a prior session's", func(t *testing.T) {
		fx := newAuthFixture(t)

		first, err := fx.service.Login(ctx, "alice", "correct horse")
		require.NoError(t, err)
		second, err := fx.service.Login(ctx, "alice", "correct horse")
		require.NoError(t, err)

		stored := fx.users.users["u1"].RefreshToken
		require.NotNil(t, stored)
		require.Equal(t, second.RefreshToken, *stored)

		// The first session can no longer refresh.
		_, err = fx.service.Refresh(ctx, first.RefreshToken)
		var apiErr *apierror.APIError
		require.ErrorAs(t, err, &apiErr)
		require.Equal(t, 403, apiErr.HTTPStatus)
	})
}

func TestAuthService_Refresh(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("roundtrip preserves the identity issued at login", func(t *testing.T) {
		fx := newAuthFixture(t)

		login, err := fx.service.Login(ctx, "alice", "correct horse")
		require.NoError(t, err)

		session, err := fx.service.Refresh(ctx, login.RefreshToken)
		require.NoError(t, err)

		require.Equal(t, login.Session.ID, session.ID)
		require.Equal(t, login.Session.Username, session.Username)
		require.Equal(t, login.Session.FirstName, session.FirstName)
		require.Equal(t, login.Session.Role, session.Role)

		claims, err := fx.service.ValidateAccessToken(session.AccessToken)
		require.NoError(t, err)
		require.Equal(t, "u1", claims.UserID)
		require.Equal(t, "alice", claims.Username)
	})

	t.Run("does not rotate the refresh token", func(t *testing.T) {
		fx := newAuthFixture(t)

		login, err := fx.service.Login(ctx, "alice", "correct horse")
		require.NoError(t, err)

		_, err = fx.service.Refresh(ctx, login.RefreshToken)
		require.NoError(t, err)

		stored := fx.users.users["u1"].RefreshToken
		require.NotNil(t, stored)
		require.Equal(t, login.RefreshToken, *stored)
	})

	t.Run("rejects a token no user holds with 403", func(t *testing.T) {
		fx := newAuthFixture(t)

		_, err := fx.service.Refresh(ctx, "not-a-persisted-token")
		var apiErr *apierror.APIError
		require.ErrorAs(t, err, &apiErr)
		require.Equal(t, 403, apiErr.HTTPStatus)
	})

	t.Run("rejects a token surviving an email change", func(t *testing.T) {
		fx := newAuthFixture(t)

		login, err := fx.service.Login(ctx, "alice", "correct horse")
		require.NoError(t, err)

		alice := fx.users.users["u1"]
		alice.Email = "alice@new-domain.com"
		fx.users.users["u1"] = alice

		_, err = fx.service.Refresh(ctx, login.RefreshToken)
		var apiErr *apierror.APIError
		require.ErrorAs(t, err, &apiErr)
		require.Equal(t, 403, apiErr.HTTPStatus)
	})

	t.Run("embeds a fresh follow and inbox snapshot", func(t *testing.T) {
		fx := newAuthFixture(t)

		login, err := fx.service.Login(ctx, "alice", "correct horse")
		require.NoError(t, err)
		require.Empty(t, login.Session.Following)

		// State changes after login; the next refresh must see them.
		require.NoError(t, fx.follows.Follow(ctx, "u1", "u2"))
		require.NoError(t, fx.follows.Follow(ctx, "u2", "u1"))
		_, _, err = fx.notifications.Create(ctx, model.Notification{
			Type: model.NotificationFollow,
			From: model.PublicUser{ID: "u2"},
			To:   "u1",
		})
		require.NoError(t, err)

		session, err := fx.service.Refresh(ctx, login.RefreshToken)
		require.NoError(t, err)
		require.Equal(t, []string{"u2"}, session.Following)
		require.Equal(t, []string{"u2"}, session.Followers)
		require.Len(t, session.Notifications, 1)
		require.False(t, session.Notifications[0].Read)
	})
}

func TestAuthService_Logout(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	fx := newAuthFixture(t)

	login, err := fx.service.Login(ctx, "alice", "correct horse")
	require.NoError(t, err)

	require.NoError(t, fx.service.Logout(ctx, login.RefreshToken))
	require.Nil(t, fx.users.users["u1"].RefreshToken)

	// Repeating is a no-op, not an error.
	require.NoError(t, fx.service.Logout(ctx, login.RefreshToken))

	_, err = fx.service.Refresh(ctx, login.RefreshToken)
	var apiErr *apierror.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, 403, apiErr.HTTPStatus)
}

func TestAuthService_ValidateAccessToken(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	fx := newAuthFixture(t)

	login, err := fx.service.Login(ctx, "alice", "correct horse")
	require.NoError(t, err)

	t.Run("accepts a freshly issued access token", func(t *testing.T) {
		claims, err := fx.service.ValidateAccessToken(login.Session.AccessToken)
		require.NoError(t, err)
		require.Equal(t, "u1", claims.UserID)
		require.Equal(t, model.RoleUser, claims.Role)
	})

	t.Run("rejects a refresh token presented as access", func(t *testing.T) {
		_, err := fx.service.ValidateAccessToken(login.RefreshToken)
		require.Error(t, err)
	})

	t.Run("rejects a tampered token", func(t *testing.T) {
		_, err := fx.service.ValidateAccessToken(login.Session.AccessToken + "x")
		require.Error(t, err)
	})
}

func TestAuthService_Register(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	fx := newAuthFixture(t)

	user, err := fx.service.Register(ctx, model.RegisterRequest{
		Email:     "carol@example.com",
		Username:  "carol",
		FirstName: "Carol",
		LastName:  "Smith",
		Password:  "another horse",
	})
	require.NoError(t, err)
	require.Equal(t, model.RoleUser, user.Role)

	_, err = fx.service.Register(ctx, model.RegisterRequest{
		Email:     "carol@example.com",
		Username:  "carol2",
		FirstName: "Carol",
		LastName:  "Smith",
		Password:  "another horse",
	})
	require.ErrorIs(t, err, model.ErrUserAlreadyExists)
}
