package model

import "time"

type NotificationType string

const (
	NotificationFollow  NotificationType = "follow"
	NotificationLike    NotificationType = "like"
	NotificationComment NotificationType = "comment"
	NotificationMention NotificationType = "mention"
	NotificationRepost  NotificationType = "repost"
	NotificationShare   NotificationType = "share"
	NotificationCustom  NotificationType = "custom"
)

var notificationTypes = map[NotificationType]struct{}{
	NotificationFollow:  {},
	NotificationLike:    {},
	NotificationComment: {},
	NotificationMention: {},
	NotificationRepost:  {},
	NotificationShare:   {},
	NotificationCustom:  {},
}

func (t NotificationType) Valid() bool {
	_, ok := notificationTypes[t]
	return ok
}

// Notification is a persisted inbox entry. From carries the sender's
// resolved username/avatar so clients can render the entry without a
// secondary lookup.
type Notification struct {
	ID        string           `json:"id"`
	Type      NotificationType `json:"type"`
	From      PublicUser       `json:"from"`
	To        string           `json:"to"`
	Message   string           `json:"message"`
	Data      map[string]any   `json:"data"`
	Read      bool             `json:"read"`
	CreatedAt time.Time        `json:"createdAt"`
}

// RemovedNotification is the payload pushed when a notification is
// deleted, keyed the way clients track it (triple, not id).
type RemovedNotification struct {
	ID   string           `json:"_id"`
	Type NotificationType `json:"type"`
	From string           `json:"from"`
}
