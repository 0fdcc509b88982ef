package handler

import (
	"net/http"
	"time"

	"devconnect-api/internal/model"
	"devconnect-api/internal/service"
)

const refreshCookieName = "jwt"

type AuthHandler struct {
	service      *service.AuthService
	refreshTTL   time.Duration
	secureCookie bool
}

func NewAuthHandler(service *service.AuthService, refreshTTL time.Duration, secureCookie bool) *AuthHandler {
	return &AuthHandler{service: service, refreshTTL: refreshTTL, secureCookie: secureCookie}
}

// Login handles POST /auth. The refresh token travels only in an
// http-only cookie; the body carries the access token and the session
// snapshot.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var payload model.LoginRequest
	if !decodeAndValidate(w, r, &payload) {
		return
	}

	result, err := h.service.Login(r.Context(), payload.Login, payload.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	h.setRefreshCookie(w, result.RefreshToken, payload.Persist)

	accessToken := result.Session.AccessToken
	user := result.Session
	user.AccessToken = ""

	writeJSON(w, http.StatusOK, map[string]any{
		"accessToken": accessToken,
		"user":        user,
	})
}

// Refresh handles GET /auth/refresh: exchanges the cookie for a new
// access token plus the snapshot a reloading tab needs to rehydrate.
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(refreshCookieName)
	if err != nil || cookie.Value == "" {
		writeMessage(w, http.StatusUnauthorized, "Unauthorized: No token provided.")
		return
	}

	session, err := h.service.Refresh(r.Context(), cookie.Value)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, session)
}

// Logout handles GET /logout. Clearing an already-cleared session is
// fine; the endpoint is idempotent.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(refreshCookieName)
	if err == nil && cookie.Value != "" {
		if err := h.service.Logout(r.Context(), cookie.Value); err != nil {
			writeError(w, err)
			return
		}
	}

	h.clearRefreshCookie(w)
	w.WriteHeader(http.StatusNoContent)
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var payload model.RegisterRequest
	if !decodeAndValidate(w, r, &payload) {
		return
	}

	user, err := h.service.Register(r.Context(), payload)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"message": "Account created.",
		"user":    user,
	})
}

func (h *AuthHandler) setRefreshCookie(w http.ResponseWriter, token string, persist bool) {
	cookie := &http.Cookie{
		Name:     refreshCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteNoneMode,
	}
	// Without persist the cookie lives only for the browser session.
	if persist {
		cookie.MaxAge = int(h.refreshTTL.Seconds())
	}

	http.SetCookie(w, cookie)
}

func (h *AuthHandler) clearRefreshCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     refreshCookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteNoneMode,
		MaxAge:   -1,
	})
}
