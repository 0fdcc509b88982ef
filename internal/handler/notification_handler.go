package handler

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"devconnect-api/internal/model"
	"devconnect-api/internal/service"
)

type NotificationHandler struct {
	service *service.NotificationService
}

func NewNotificationHandler(service *service.NotificationService) *NotificationHandler {
	return &NotificationHandler{service: service}
}

// Create handles POST /system/notifications.
func (h *NotificationHandler) Create(w http.ResponseWriter, r *http.Request) {
	var payload model.CreateNotificationRequest
	if !decodeAndValidate(w, r, &payload) {
		return
	}

	notification, recipient, err := h.service.Create(r.Context(), payload)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"message":      fmt.Sprintf("Notification sent to %s", recipient),
		"notification": notification,
	})
}

// MarkRead handles PATCH /system/notifications/{id}/read.
func (h *NotificationHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	notification, err := h.service.MarkRead(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"notification": notification})
}

// Remove handles DELETE /system/notifications. Deletion is keyed by
// (type, from, to) because the client does not track the id when
// reversing a follow.
func (h *NotificationHandler) Remove(w http.ResponseWriter, r *http.Request) {
	var payload model.RemoveNotificationRequest
	if !decodeAndValidate(w, r, &payload) {
		return
	}

	if err := h.service.Remove(r.Context(), payload); err != nil {
		writeError(w, err)
		return
	}

	writeMessage(w, http.StatusOK, "Notification successfully removed.")
}
