package models

// EventType is a user-defined category for journal entries. Name is unique
// within the owning user's set of event types; Tags is an unordered set of
// free-text labels.
type EventType struct {
	ID     string   `json:"id"`
	UserID string   `json:"user_id"`
	Name   string   `json:"name"`
	Tags   []string `json:"tags"`
}
