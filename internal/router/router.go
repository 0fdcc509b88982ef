package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"devconnect-api/internal/config"
	"devconnect-api/internal/handler"
	"devconnect-api/internal/middleware"
	"devconnect-api/internal/websocket"
)

type Handlers struct {
	Auth         *handler.AuthHandler
	Notification *handler.NotificationHandler
	User         *handler.UserHandler
	WS           *websocket.Handler
}

func New(cfg *config.Config, authMiddleware *middleware.AuthMiddleware, h Handlers) http.Handler {
	r := chi.NewRouter()
	rateLimitMiddleware := middleware.NewRateLimitMiddleware(cfg.RateLimitRPM, cfg.AuthRateLimitRPM)

	r.Use(middleware.Recovery)
	r.Use(middleware.Logging)
	r.Use(middleware.CORS(cfg.CORSOrigins))
	r.Use(rateLimitMiddleware.Handler)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	// The websocket route stays outside the timeout wrapper: the
	// connection is long-lived and the upgrade needs hijacking.
	r.Get("/ws", h.WS.ServeWS)

	memberRoles := []string{"user", "moderator", "admin", "owner"}

	r.Group(func(api chi.Router) {
		api.Use(middleware.Timeout(cfg.RequestTimeout))

		api.Post("/register", h.Auth.Register)
		api.Post("/auth", h.Auth.Login)
		api.Get("/auth/refresh", h.Auth.Refresh)
		api.Get("/logout", h.Auth.Logout)

		api.Route("/system/notifications", func(system chi.Router) {
			system.Use(authMiddleware.RequireAuth)
			system.With(authMiddleware.RequireRoles(memberRoles...)).Post("/", h.Notification.Create)
			system.Patch("/{id}/read", h.Notification.MarkRead)
			system.Delete("/", h.Notification.Remove)
		})

		api.Route("/api/users", func(users chi.Router) {
			users.Use(authMiddleware.RequireAuth)
			users.With(authMiddleware.RequireRoles(memberRoles...)).Post("/follow/{id}", h.User.Follow)
			users.With(authMiddleware.RequireRoles(memberRoles...)).Get("/followers", h.User.Followers)
			users.With(authMiddleware.RequireRoles(memberRoles...)).Get("/following", h.User.Following)
		})
	})

	return r
}
