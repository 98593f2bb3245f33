package models

import "time"

// JournalEntry is a single recorded event. It always references an EventType
// owned by the same user; Tags is independent of the event type's tag set.
// CreatedAt is assigned by the server unless the caller supplied one.
type JournalEntry struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	EventTypeID string    `json:"event_type_id"`
	Description *string   `json:"description"`
	Tags        []string  `json:"tags"`
	CreatedAt   time.Time `json:"created_at"`
}
