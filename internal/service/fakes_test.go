package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"devconnect-api/internal/event"
	"devconnect-api/internal/model"
)

// In-memory stand-ins for the pgx repositories.

type fakeUserStore struct {
	users      map[string]model.User
	postCounts map[string]int
}

func newFakeUserStore(users ...model.User) *fakeUserStore {
	s := &fakeUserStore{users: map[string]model.User{}, postCounts: map[string]int{}}
	for _, u := range users {
		s.users[u.ID] = u
	}
	return s
}

func (s *fakeUserStore) FindByID(_ context.Context, id string) (model.User, error) {
	u, ok := s.users[id]
	if !ok {
		return model.User{}, model.ErrUserNotFound
	}
	return u, nil
}

func (s *fakeUserStore) FindByLogin(_ context.Context, login string) (model.User, error) {
	login = strings.ToLower(strings.TrimSpace(login))
	for _, u := range s.users {
		if strings.ToLower(u.Email) == login || strings.ToLower(u.Username) == login {
			return u, nil
		}
	}
	return model.User{}, model.ErrUserNotFound
}

func (s *fakeUserStore) FindByRefreshToken(_ context.Context, token string) (model.User, error) {
	for _, u := range s.users {
		if u.RefreshToken != nil && *u.RefreshToken == token {
			return u, nil
		}
	}
	return model.User{}, model.ErrUserNotFound
}

func (s *fakeUserStore) Create(_ context.Context, u model.User) error {
	for _, existing := range s.users {
		if strings.EqualFold(existing.Email, u.Email) || strings.EqualFold(existing.Username, u.Username) {
			return model.ErrUserAlreadyExists
		}
	}
	s.users[u.ID] = u
	return nil
}

func (s *fakeUserStore) SetRefreshToken(_ context.Context, userID string, token *string) error {
	u, ok := s.users[userID]
	if !ok {
		return model.ErrUserNotFound
	}
	u.RefreshToken = token
	s.users[userID] = u
	return nil
}

func (s *fakeUserStore) CountPosts(_ context.Context, userID string) (int, error) {
	return s.postCounts[userID], nil
}

type followEdge struct {
	follower string
	followee string
}

type fakeFollowStore struct {
	users *fakeUserStore
	edges []followEdge
}

func newFakeFollowStore(users *fakeUserStore) *fakeFollowStore {
	return &fakeFollowStore{users: users}
}

func (s *fakeFollowStore) IsFollowing(_ context.Context, followerID string, followeeID string) (bool, error) {
	for _, e := range s.edges {
		if e.follower == followerID && e.followee == followeeID {
			return true, nil
		}
	}
	return false, nil
}

func (s *fakeFollowStore) Follow(_ context.Context, followerID string, followeeID string) error {
	// Newest edge first, matching the repository's ordering.
	s.edges = append([]followEdge{{follower: followerID, followee: followeeID}}, s.edges...)
	return nil
}

func (s *fakeFollowStore) Unfollow(_ context.Context, followerID string, followeeID string) error {
	kept := s.edges[:0]
	for _, e := range s.edges {
		if e.follower == followerID && e.followee == followeeID {
			continue
		}
		kept = append(kept, e)
	}
	s.edges = kept
	return nil
}

func (s *fakeFollowStore) FollowingIDs(_ context.Context, userID string) ([]string, error) {
	ids := make([]string, 0)
	for _, e := range s.edges {
		if e.follower == userID {
			ids = append(ids, e.followee)
		}
	}
	return ids, nil
}

func (s *fakeFollowStore) FollowerIDs(_ context.Context, userID string) ([]string, error) {
	ids := make([]string, 0)
	for _, e := range s.edges {
		if e.followee == userID {
			ids = append(ids, e.follower)
		}
	}
	return ids, nil
}

func (s *fakeFollowStore) Following(ctx context.Context, userID string) ([]model.PublicUser, error) {
	ids, _ := s.FollowingIDs(ctx, userID)
	return s.resolve(ids), nil
}

func (s *fakeFollowStore) Followers(ctx context.Context, userID string) ([]model.PublicUser, error) {
	ids, _ := s.FollowerIDs(ctx, userID)
	return s.resolve(ids), nil
}

func (s *fakeFollowStore) resolve(ids []string) []model.PublicUser {
	users := make([]model.PublicUser, 0, len(ids))
	for _, id := range ids {
		u := s.users.users[id]
		users = append(users, model.PublicUser{
			ID: u.ID, Username: u.Username, Avatar: u.Avatar,
			FirstName: u.FirstName, LastName: u.LastName, Role: u.Role,
		})
	}
	return users
}

type fakeNotificationStore struct {
	items  []model.Notification
	nextID int
}

func (s *fakeNotificationStore) Create(_ context.Context, n model.Notification) (model.Notification, bool, error) {
	if n.Type == model.NotificationFollow {
		for _, existing := range s.items {
			if existing.Type == n.Type && existing.From.ID == n.From.ID && existing.To == n.To {
				return existing, false, nil
			}
		}
	}

	s.nextID++
	n.ID = fmt.Sprintf("n%d", s.nextID)
	n.CreatedAt = time.Now().UTC()
	if n.Data == nil {
		n.Data = map[string]any{}
	}
	s.items = append([]model.Notification{n}, s.items...)
	return n, true, nil
}

func (s *fakeNotificationStore) MarkRead(_ context.Context, id string) (model.Notification, error) {
	for i, n := range s.items {
		if n.ID == id {
			s.items[i].Read = true
			return s.items[i], nil
		}
	}
	return model.Notification{}, model.ErrNotificationNotFound
}

func (s *fakeNotificationStore) DeleteByTriple(_ context.Context, typ model.NotificationType, fromID string, toID string) (string, error) {
	for i, n := range s.items {
		if n.Type == typ && n.From.ID == fromID && n.To == toID {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return n.ID, nil
		}
	}
	return "", model.ErrNotificationNotFound
}

func (s *fakeNotificationStore) RecentForUser(_ context.Context, userID string, limit int) ([]model.Notification, error) {
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

// captureBus records published events instead of fanning them out.
type captureBus struct {
	events []event.Event
}

func (b *captureBus) Publish(e event.Event) {
	b.events = append(b.events, e)
}

func (b *captureBus) Subscribe() (<-chan event.Event, func()) {
	panic("not used in tests")
}
