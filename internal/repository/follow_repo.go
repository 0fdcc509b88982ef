package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"devconnect-api/internal/model"
)

// FollowRepository stores the follow graph as one row per edge. The
// row is the symmetric fact: inserting or deleting it updates
// "following" and "followers" together by construction.
type FollowRepository struct {
	pool *pgxpool.Pool
}

func NewFollowRepository(pool *pgxpool.Pool) *FollowRepository {
	return &FollowRepository{pool: pool}
}

func (r *FollowRepository) IsFollowing(ctx context.Context, followerID string, followeeID string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM follows WHERE follower_id = $1 AND followee_id = $2)`,
		followerID, followeeID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check following: %w", err)
	}
	return exists, nil
}

func (r *FollowRepository) Follow(ctx context.Context, followerID string, followeeID string) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO follows (follower_id, followee_id)
		 VALUES ($1, $2)
		 ON CONFLICT (follower_id, followee_id) DO NOTHING`,
		followerID, followeeID)
	if err != nil {
		return fmt.Errorf("follow: %w", err)
	}
	return nil
}

func (r *FollowRepository) Unfollow(ctx context.Context, followerID string, followeeID string) error {
	_, err := r.pool.Exec(ctx,
		`DELETE FROM follows WHERE follower_id = $1 AND followee_id = $2`,
		followerID, followeeID)
	if err != nil {
		return fmt.Errorf("unfollow: %w", err)
	}
	return nil
}

func (r *FollowRepository) FollowingIDs(ctx context.Context, userID string) ([]string, error) {
	return r.collectIDs(ctx,
		`SELECT followee_id FROM follows WHERE follower_id = $1 ORDER BY created_at DESC`,
		userID)
}

func (r *FollowRepository) FollowerIDs(ctx context.Context, userID string) ([]string, error) {
	return r.collectIDs(ctx,
		`SELECT follower_id FROM follows WHERE followee_id = $1 ORDER BY created_at DESC`,
		userID)
}

// Following returns the resolved profiles the user follows, newest
// edge first.
func (r *FollowRepository) Following(ctx context.Context, userID string) ([]model.PublicUser, error) {
	return r.collectUsers(ctx,
		`SELECT u.id, u.username, u.avatar, u.first_name, u.last_name, u.role
		 FROM follows f JOIN users u ON u.id = f.followee_id
		 WHERE f.follower_id = $1
		 ORDER BY f.created_at DESC`,
		userID)
}

func (r *FollowRepository) Followers(ctx context.Context, userID string) ([]model.PublicUser, error) {
	return r.collectUsers(ctx,
		`SELECT u.id, u.username, u.avatar, u.first_name, u.last_name, u.role
		 FROM follows f JOIN users u ON u.id = f.follower_id
		 WHERE f.followee_id = $1
		 ORDER BY f.created_at DESC`,
		userID)
}

func (r *FollowRepository) collectIDs(ctx context.Context, query string, userID string) ([]string, error) {
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list follow edges: %w", err)
	}
	defer rows.Close()

	ids := make([]string, 0)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan follow edge: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *FollowRepository) collectUsers(ctx context.Context, query string, userID string) ([]model.PublicUser, error) {
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list follow profiles: %w", err)
	}
	defer rows.Close()

	users := make([]model.PublicUser, 0)
	for rows.Next() {
		var u model.PublicUser
		if err := rows.Scan(&u.ID, &u.Username, &u.Avatar, &u.FirstName, &u.LastName, &u.Role); err != nil {
			return nil, fmt.Errorf("scan follow profile: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}
