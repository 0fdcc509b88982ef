package service

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"devconnect-api/internal/event"
	"devconnect-api/internal/model"
	"devconnect-api/pkg/apierror"
)

type NotificationService struct {
	users         userStore
	notifications notificationStore
	bus           event.Bus
}

func NewNotificationService(users userStore, notifications notificationStore, bus event.Bus) *NotificationService {
	return &NotificationService{users: users, notifications: notifications, bus: bus}
}

// Create persists a notification, resolves the sender into the
// payload and pushes it to the recipient's channel. The recipient's
// username is returned for the response message.
func (s *NotificationService) Create(ctx context.Context, req model.CreateNotificationRequest) (model.Notification, string, error) {
	typ := model.NotificationType(req.Type)
	if !typ.Valid() {
		return model.Notification{}, "", apierror.New("VALIDATION_ERROR", "Invalid notification type.", req.Type, http.StatusBadRequest)
	}

	recipient, err := s.users.FindByID(ctx, req.To)
	if err != nil {
		return model.Notification{}, "", err
	}

	sender, err := s.users.FindByID(ctx, req.From)
	if err != nil {
		return model.Notification{}, "", err
	}

	stored, created, err := s.notifications.Create(ctx, model.Notification{
		Type:    typ,
		From:    model.PublicUser{ID: req.From},
		To:      req.To,
		Message: req.Message,
		Data:    req.Data,
	})
	if err != nil {
		return model.Notification{}, "", err
	}

	stored.From = model.PublicUser{ID: sender.ID, Username: sender.Username, Avatar: sender.Avatar}

	if created {
		s.publish(event.TypeNewNotification, stored.To, stored)
	} else {
		// Duplicate follow action collapsed onto the existing row;
		// the recipient already has it, so nothing is pushed.
		slog.Debug("duplicate notification collapsed",
			"type", stored.Type, "from", stored.From.ID, "to", stored.To)
	}

	return stored, recipient.Username, nil
}

// MarkRead flips read to true. Marking an already-read notification is
// a no-op success.
func (s *NotificationService) MarkRead(ctx context.Context, id string) (model.Notification, error) {
	n, err := s.notifications.MarkRead(ctx, id)
	if err != nil {
		return model.Notification{}, err
	}

	sender, err := s.users.FindByID(ctx, n.From.ID)
	if err == nil {
		n.From = model.PublicUser{ID: sender.ID, Username: sender.Username, Avatar: sender.Avatar}
	} else if !errors.Is(err, model.ErrUserNotFound) {
		return model.Notification{}, err
	}

	return n, nil
}

// Remove deletes the notification matching (type, from, to) and tells
// the recipient's channel which id disappeared so optimistic client
// state can reconcile.
func (s *NotificationService) Remove(ctx context.Context, req model.RemoveNotificationRequest) error {
	typ := model.NotificationType(req.Type)
	if !typ.Valid() {
		return apierror.New("VALIDATION_ERROR", "Invalid notification type.", req.Type, http.StatusBadRequest)
	}

	deletedID, err := s.notifications.DeleteByTriple(ctx, typ, req.From, req.To)
	if err != nil {
		return err
	}

	s.publish(event.TypeRemoveNotification, req.To, model.RemovedNotification{
		ID:   deletedID,
		Type: typ,
		From: req.From,
	})

	return nil
}

func (s *NotificationService) RecentForUser(ctx context.Context, userID string, limit int) ([]model.Notification, error) {
	return s.notifications.RecentForUser(ctx, userID, limit)
}

func (s *NotificationService) publish(typ event.Type, userID string, payload any) {
	s.bus.Publish(event.Event{
		ID:        uuid.NewString(),
		Type:      typ,
		UserID:    userID,
		Payload:   payload,
		Timestamp: time.Now().UTC().Format(time.RFC3339Nano),
	})
}
