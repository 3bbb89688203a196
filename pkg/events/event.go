package events

import "time"

// Event types emitted on the bus.
const (
	TypeProjectCreated   = "PROJECT_CREATED"
	TypeProjectDeleted   = "PROJECT_DELETED"
	TypeProjectExpiring  = "PROJECT_EXPIRING"
	TypeDocumentUploaded = "DOCUMENT_UPLOADED"
	TypeDocumentProcessed = "DOCUMENT_PROCESSED"
)

// Event defines the contract for all system events.
type Event interface {
	// EventType returns the unique code for this event (e.g., "PROJECT_CREATED").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

// New builds a BaseEvent stamped with the current time.
func New(eventType string, data map[string]interface{}) BaseEvent {
	return BaseEvent{
		Type:       eventType,
		Data:       data,
		OccurredAt: time.Now(),
	}
}
