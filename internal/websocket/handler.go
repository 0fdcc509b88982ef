package websocket

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/websocket"

	"devconnect-api/internal/model"
)

type tokenValidator interface {
	ValidateAccessToken(tokenString string) (*model.AuthClaims, error)
}

// Handler upgrades connections and admits them to exactly one room:
// the one named by the verified access token's subject. A connection
// cannot join another user's channel by asserting an id.
type Handler struct {
	hub       *Hub
	validator tokenValidator
	upgrader  websocket.Upgrader
}

func NewHandler(hub *Hub, validator tokenValidator, allowedOrigins []string) *Handler {
	originSet := map[string]struct{}{}
	allowAll := len(allowedOrigins) == 0
	for _, origin := range allowedOrigins {
		if origin == "*" {
			allowAll = true
		}
		originSet[origin] = struct{}{}
	}

	return &Handler{
		hub:       hub,
		validator: validator,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				if allowAll {
					return true
				}
				_, ok := originSet[r.Header.Get("Origin")]
				return ok
			},
		},
	}
}

// ServeWS handles `GET /ws?token=…`. The token rides a query
// parameter because browsers cannot set headers on the websocket
// handshake.
func (h *Handler) ServeWS(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		writeHandshakeError(w, http.StatusUnauthorized, "Unauthorized: No token provided.")
		return
	}

	claims, err := h.validator.ValidateAccessToken(token)
	if err != nil {
		writeHandshakeError(w, http.StatusForbidden, "Forbidden: Invalid or expired token.")
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote the response.
		return
	}

	client := &Client{
		hub:    h.hub,
		conn:   conn,
		send:   make(chan []byte, 64),
		userID: claims.UserID,
	}
	h.hub.register <- client

	go client.writePump()
	go client.readPump()
}

func writeHandshakeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"message": message})
}
