package service

import (
	"context"

	"devconnect-api/internal/model"
)

// Storage contracts the services depend on. The pgx repositories in
// internal/repository satisfy them; tests substitute in-memory fakes.

type userStore interface {
	FindByID(ctx context.Context, id string) (model.User, error)
	FindByLogin(ctx context.Context, login string) (model.User, error)
	FindByRefreshToken(ctx context.Context, token string) (model.User, error)
	Create(ctx context.Context, u model.User) error
	SetRefreshToken(ctx context.Context, userID string, token *string) error
	CountPosts(ctx context.Context, userID string) (int, error)
}

type followStore interface {
	IsFollowing(ctx context.Context, followerID string, followeeID string) (bool, error)
	Follow(ctx context.Context, followerID string, followeeID string) error
	Unfollow(ctx context.Context, followerID string, followeeID string) error
	FollowingIDs(ctx context.Context, userID string) ([]string, error)
	FollowerIDs(ctx context.Context, userID string) ([]string, error)
	Following(ctx context.Context, userID string) ([]model.PublicUser, error)
	Followers(ctx context.Context, userID string) ([]model.PublicUser, error)
}

type notificationStore interface {
	Create(ctx context.Context, n model.Notification) (model.Notification, bool, error)
	MarkRead(ctx context.Context, id string) (model.Notification, error)
	DeleteByTriple(ctx context.Context, typ model.NotificationType, fromID string, toID string) (string, error)
	RecentForUser(ctx context.Context, userID string, limit int) ([]model.Notification, error)
}
