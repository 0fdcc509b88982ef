package event

type Type string

const (
	TypeNewNotification    Type = "new-notification"
	TypeRemoveNotification Type = "remove-notification"
)

// Event is addressed to a single user; the hub fans it out to every
// live connection that user holds.
type Event struct {
	ID        string `json:"id"`
	Type      Type   `json:"type"`
	UserID    string `json:"-"`
	Payload   any    `json:"payload"`
	Timestamp string `json:"timestamp"`
}

type Bus interface {
	Publish(e Event)
	Subscribe() (<-chan Event, func()) // Returns channel and unsubscribe function
}
