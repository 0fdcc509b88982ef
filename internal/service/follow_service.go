package service

import (
	"context"

	"devconnect-api/internal/model"
)

// FollowService mutates the follow graph. It deliberately does not
// create or delete notifications; the client requests those through
// the notification endpoints after a toggle, and a follow that
// succeeds while its notification fails is tolerated.
type FollowService struct {
	users   userStore
	follows followStore
}

func NewFollowService(users userStore, follows followStore) *FollowService {
	return &FollowService{users: users, follows: follows}
}

type ToggleResult struct {
	Followed       bool
	TargetUsername string
	Following      []string
	Followers      []string
}

// Toggle follows the target when the actor is not yet following it
// and unfollows otherwise. Membership of the edge in the relation is
// the single source of truth for "is following".
func (s *FollowService) Toggle(ctx context.Context, actorID string, targetID string) (ToggleResult, error) {
	if actorID == targetID {
		return ToggleResult{}, model.ErrSelfFollow
	}

	target, err := s.users.FindByID(ctx, targetID)
	if err != nil {
		return ToggleResult{}, err
	}

	isFollowing, err := s.follows.IsFollowing(ctx, actorID, targetID)
	if err != nil {
		return ToggleResult{}, err
	}

	if isFollowing {
		err = s.follows.Unfollow(ctx, actorID, targetID)
	} else {
		err = s.follows.Follow(ctx, actorID, targetID)
	}
	if err != nil {
		return ToggleResult{}, err
	}

	// Return both updated sides so the client can reconcile its cached
	// state without a re-fetch.
	following, err := s.follows.FollowingIDs(ctx, actorID)
	if err != nil {
		return ToggleResult{}, err
	}

	followers, err := s.follows.FollowerIDs(ctx, targetID)
	if err != nil {
		return ToggleResult{}, err
	}

	return ToggleResult{
		Followed:       !isFollowing,
		TargetUsername: target.Username,
		Following:      following,
		Followers:      followers,
	}, nil
}

func (s *FollowService) Followers(ctx context.Context, userID string) ([]model.PublicUser, error) {
	if _, err := s.users.FindByID(ctx, userID); err != nil {
		return nil, err
	}
	return s.follows.Followers(ctx, userID)
}

func (s *FollowService) Following(ctx context.Context, userID string) ([]model.PublicUser, error) {
	if _, err := s.users.FindByID(ctx, userID); err != nil {
		return nil, err
	}
	return s.follows.Following(ctx, userID)
}
