package handler

import (
	"context"
	"fmt"
	"strings"
	"time"

	"devconnect-api/internal/event"
	"devconnect-api/internal/model"
)

// Minimal in-memory stores so handler tests can run real services
// end-to-end without Postgres.

type memUsers struct {
	users map[string]model.User
}

func (s *memUsers) FindByID(_ context.Context, id string) (model.User, error) {
	u, ok := s.users[id]
	if !ok {
		return model.User{}, model.ErrUserNotFound
	}
	return u, nil
}

func (s *memUsers) FindByLogin(_ context.Context, login string) (model.User, error) {
	login = strings.ToLower(strings.TrimSpace(login))
	for _, u := range s.users {
		if strings.ToLower(u.Email) == login || strings.ToLower(u.Username) == login {
			return u, nil
		}
	}
	return model.User{}, model.ErrUserNotFound
}

func (s *memUsers) FindByRefreshToken(_ context.Context, token string) (model.User, error) {
	for _, u := range s.users {
		if u.RefreshToken != nil && *u.RefreshToken == token {
			return u, nil
		}
	}
	return model.User{}, model.ErrUserNotFound
}

func (s *memUsers) Create(_ context.Context, u model.User) error {
	s.users[u.ID] = u
	return nil
}

func (s *memUsers) SetRefreshToken(_ context.Context, userID string, token *string) error {
	u, ok := s.users[userID]
	if !ok {
		return model.ErrUserNotFound
	}
	u.RefreshToken = token
	s.users[userID] = u
	return nil
}

func (s *memUsers) CountPosts(_ context.Context, _ string) (int, error) {
	return 0, nil
}

type memFollows struct {
	edges map[string]map[string]bool
}

func (s *memFollows) IsFollowing(_ context.Context, follower string, followee string) (bool, error) {
	return s.edges[follower][followee], nil
}

func (s *memFollows) Follow(_ context.Context, follower string, followee string) error {
	if s.edges[follower] == nil {
		s.edges[follower] = map[string]bool{}
	}
	s.edges[follower][followee] = true
	return nil
}

func (s *memFollows) Unfollow(_ context.Context, follower string, followee string) error {
	delete(s.edges[follower], followee)
	return nil
}

func (s *memFollows) FollowingIDs(_ context.Context, userID string) ([]string, error) {
	ids := make([]string, 0)
	for followee := range s.edges[userID] {
		ids = append(ids, followee)
	}
	return ids, nil
}

func (s *memFollows) FollowerIDs(_ context.Context, userID string) ([]string, error) {
	ids := make([]string, 0)
	for follower, followees := range s.edges {
		if followees[userID] {
			ids = append(ids, follower)
		}
	}
	return ids, nil
}

func (s *memFollows) Following(ctx context.Context, userID string) ([]model.PublicUser, error) {
	ids, _ := s.FollowingIDs(ctx, userID)
	return publicUsers(ids), nil
}

func (s *memFollows) Followers(ctx context.Context, userID string) ([]model.PublicUser, error) {
	ids, _ := s.FollowerIDs(ctx, userID)
	return publicUsers(ids), nil
}

func publicUsers(ids []string) []model.PublicUser {
	users := make([]model.PublicUser, 0, len(ids))
	for _, id := range ids {
		users = append(users, model.PublicUser{ID: id})
	}
	return users
}

type memNotifications struct {
	items  []model.Notification
	nextID int
}

func (s *memNotifications) Create(_ context.Context, n model.Notification) (model.Notification, bool, error) {
	if n.Type == model.NotificationFollow {
		for _, existing := range s.items {
			if existing.From.ID == n.From.ID && existing.To == n.To && existing.Type == n.Type {
				return existing, false, nil
			}
		}
	}

	s.nextID++
	n.ID = fmt.Sprintf("n%d", s.nextID)
	n.CreatedAt = time.Now().UTC()
	s.items = append([]model.Notification{n}, s.items...)
	return n, true, nil
}

func (s *memNotifications) MarkRead(_ context.Context, id string) (model.Notification, error) {
	for i, n := range s.items {
		if n.ID == id {
			s.items[i].Read = true
			return s.items[i], nil
		}
	}
	return model.Notification{}, model.ErrNotificationNotFound
}

func (s *memNotifications) DeleteByTriple(_ context.Context, typ model.NotificationType, fromID string, toID string) (string, error) {
	for i, n := range s.items {
		if n.Type == typ && n.From.ID == fromID && n.To == toID {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return n.ID, nil
		}
	}
	return "", model.ErrNotificationNotFound
}

func (s *memNotifications) RecentForUser(_ context.Context, userID string, limit int) ([]model.Notification, error) {
	out := make([]model.Notification, 0)
	for _, n := range s.items {
		if n.To == userID {
			out = append(out, n)
			if len(out) == limit {
				break
			}
		}
	}
	return out, nil
}

type dropBus struct{}

func (dropBus) Publish(event.Event) {}

func (dropBus) Subscribe() (<-chan event.Event, func()) {
	ch := make(chan event.Event)
	return ch, func() {}
}
