package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"devconnect-api/internal/model"
	"devconnect-api/pkg/apierror"
)

// AuthService owns the access/refresh token lifecycle. Access tokens
// are never persisted; the refresh token lives in a single slot on the
// user row, so each account has at most one session able to refresh.
type AuthService struct {
	users         userStore
	follows       followStore
	notifications notificationStore
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
	snapshotSize  int
}

func NewAuthService(
	accessSecret string,
	refreshSecret string,
	accessTTL time.Duration,
	refreshTTL time.Duration,
	snapshotSize int,
	users userStore,
	follows followStore,
	notifications notificationStore,
) (*AuthService, error) {
	if strings.TrimSpace(accessSecret) == "" || strings.TrimSpace(refreshSecret) == "" {
		return nil, errors.New("token secrets are required")
	}
	if snapshotSize <= 0 {
		snapshotSize = 10
	}

	return &AuthService{
		users:         users,
		follows:       follows,
		notifications: notifications,
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
		snapshotSize:  snapshotSize,
	}, nil
}

type LoginResult struct {
	RefreshToken string
	Session      model.Session
}

// Login validates credentials, mints a fresh token pair and persists
// the refresh token onto the user row, overwriting any prior value.
func (s *AuthService) Login(ctx context.Context, login string, password string) (LoginResult, error) {
	user, err := s.users.FindByLogin(ctx, login)
	if errors.Is(err, model.ErrUserNotFound) {
		return LoginResult{}, model.ErrInvalidCredentials
	}
	if err != nil {
		return LoginResult{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return LoginResult{}, model.ErrInvalidCredentials
	}

	now := time.Now().UTC()
	refreshToken, err := s.signToken(s.refreshSecret, jwt.MapClaims{
		"sub":   user.ID,
		"email": user.Email,
		"typ":   "refresh",
		"jti":   uuid.NewString(),
		"iat":   now.Unix(),
		"exp":   now.Add(s.refreshTTL).Unix(),
	})
	if err != nil {
		return LoginResult{}, fmt.Errorf("sign refresh token: %w", err)
	}

	if err := s.users.SetRefreshToken(ctx, user.ID, &refreshToken); err != nil {
		return LoginResult{}, err
	}

	session, err := s.buildSession(ctx, user)
	if err != nil {
		return LoginResult{}, err
	}

	return LoginResult{RefreshToken: refreshToken, Session: session}, nil
}

// Refresh exchanges a persisted refresh token for a new access token
// carrying a fresh follow/notification snapshot. The refresh token
// itself is not rotated; rotation happens only at login.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (model.Session, error) {
	user, err := s.users.FindByRefreshToken(ctx, refreshToken)
	if errors.Is(err, model.ErrUserNotFound) {
		return model.Session{}, apierror.New("FORBIDDEN", "Forbidden: Invalid refresh token.", "", http.StatusForbidden)
	}
	if err != nil {
		return model.Session{}, err
	}

	claims, err := s.parseToken(refreshToken, s.refreshSecret, "refresh")
	if err != nil {
		return model.Session{}, apierror.New("FORBIDDEN", "Forbidden: Token mismatch or expired.", "", http.StatusForbidden)
	}

	// A token issued before an account email change no longer matches;
	// reject it even though the stored value lined up.
	if claims.Email != user.Email {
		return model.Session{}, apierror.New("FORBIDDEN", "Forbidden: Token mismatch or expired.", "", http.StatusForbidden)
	}

	return s.buildSession(ctx, user)
}

// Logout clears the user's refresh-token slot. Unknown tokens are a
// no-op so repeated logouts succeed.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	user, err := s.users.FindByRefreshToken(ctx, refreshToken)
	if errors.Is(err, model.ErrUserNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	return s.users.SetRefreshToken(ctx, user.ID, nil)
}

func (s *AuthService) Register(ctx context.Context, req model.RegisterRequest) (model.PublicUser, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), 12)
	if err != nil {
		return model.PublicUser{}, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now().UTC()
	user := model.User{
		ID:           uuid.NewString(),
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		Username:     strings.TrimSpace(req.Username),
		FirstName:    strings.TrimSpace(req.FirstName),
		LastName:     strings.TrimSpace(req.LastName),
		PasswordHash: string(hash),
		Role:         model.RoleUser,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.users.Create(ctx, user); err != nil {
		return model.PublicUser{}, err
	}

	return model.PublicUser{
		ID:        user.ID,
		Username:  user.Username,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Role:      user.Role,
	}, nil
}

// ValidateAccessToken verifies signature, expiry and token type and
// returns the embedded identity. Used by the session middleware and
// the websocket handshake; it never touches storage.
func (s *AuthService) ValidateAccessToken(tokenString string) (*model.AuthClaims, error) {
	return s.parseToken(tokenString, s.accessSecret, "access")
}

func (s *AuthService) buildSession(ctx context.Context, user model.User) (model.Session, error) {
	following, err := s.follows.FollowingIDs(ctx, user.ID)
	if err != nil {
		return model.Session{}, err
	}

	followers, err := s.follows.FollowerIDs(ctx, user.ID)
	if err != nil {
		return model.Session{}, err
	}

	notifications, err := s.notifications.RecentForUser(ctx, user.ID, s.snapshotSize)
	if err != nil {
		return model.Session{}, err
	}

	totalPosts, err := s.users.CountPosts(ctx, user.ID)
	if err != nil {
		return model.Session{}, err
	}

	now := time.Now().UTC()
	accessToken, err := s.signToken(s.accessSecret, jwt.MapClaims{
		"sub":           user.ID,
		"email":         user.Email,
		"username":      user.Username,
		"firstName":     user.FirstName,
		"lastName":      user.LastName,
		"role":          user.Role,
		"avatar":        user.Avatar,
		"typ":           "access",
		"jti":           uuid.NewString(),
		"iat":           now.Unix(),
		"exp":           now.Add(s.accessTTL).Unix(),
		"totalPosts":    totalPosts,
		"following":     following,
		"followers":     followers,
		"notifications": notifications,
	})
	if err != nil {
		return model.Session{}, fmt.Errorf("sign access token: %w", err)
	}

	return model.Session{
		ID:            user.ID,
		FirstName:     user.FirstName,
		LastName:      user.LastName,
		Username:      user.Username,
		Avatar:        user.Avatar,
		Role:          user.Role,
		TotalPosts:    totalPosts,
		Following:     following,
		Followers:     followers,
		Notifications: notifications,
		AccessToken:   accessToken,
	}, nil
}

func (s *AuthService) signToken(secret []byte, claims jwt.MapClaims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

func (s *AuthService) parseToken(tokenString string, secret []byte, expectedType string) (*model.AuthClaims, error) {
	parsed, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, model.ErrForbidden
		}
		return secret, nil
	})
	if err != nil || !parsed.Valid {
		return nil, model.ErrForbidden
	}

	claimsMap, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return nil, model.ErrForbidden
	}

	typ, _ := claimsMap["typ"].(string)
	if typ != expectedType {
		return nil, model.ErrForbidden
	}

	claims := &model.AuthClaims{Type: typ}
	claims.UserID, _ = claimsMap["sub"].(string)
	claims.Email, _ = claimsMap["email"].(string)
	claims.Username, _ = claimsMap["username"].(string)
	claims.FirstName, _ = claimsMap["firstName"].(string)
	claims.LastName, _ = claimsMap["lastName"].(string)
	claims.Role, _ = claimsMap["role"].(string)
	claims.Avatar, _ = claimsMap["avatar"].(string)
	claims.TokenID, _ = claimsMap["jti"].(string)

	if claims.UserID == "" {
		return nil, model.ErrForbidden
	}

	return claims, nil
}
