package handler

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"devconnect-api/internal/middleware"
	"devconnect-api/internal/service"
)

type UserHandler struct {
	follows *service.FollowService
}

func NewUserHandler(follows *service.FollowService) *UserHandler {
	return &UserHandler{follows: follows}
}

// Follow handles POST /api/users/follow/{id}, toggling the relation
// between the authenticated user and the target.
func (h *UserHandler) Follow(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "Unauthorized: No token provided.")
		return
	}

	targetID := chi.URLParam(r, "id")
	result, err := h.follows.Toggle(r.Context(), claims.UserID, targetID)
	if err != nil {
		writeError(w, err)
		return
	}

	message := fmt.Sprintf("Unfollowed %s.", result.TargetUsername)
	if result.Followed {
		message = fmt.Sprintf("%s followed.", result.TargetUsername)
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message":   message,
		"following": result.Following,
		"followers": result.Followers,
	})
}

// Followers handles GET /api/users/followers.
func (h *UserHandler) Followers(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "Unauthorized: No token provided.")
		return
	}

	followers, err := h.follows.Followers(r.Context(), claims.UserID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"userFollowers": followers})
}

// Following handles GET /api/users/following.
func (h *UserHandler) Following(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "Unauthorized: No token provided.")
		return
	}

	following, err := h.follows.Following(r.Context(), claims.UserID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"userFollowing": following})
}
