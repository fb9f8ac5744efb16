// Package core holds the note domain and the authorization policy that gates every
// operation on it.
package core

import "time"

// Note is the central entity of the domain.
// Author always holds the canonical lowercase address of the wallet that created it.
type Note struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Author    string    `json:"author"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Authorization is the signed-message triple a client sends to prove it controls Author.
// It is never persisted.
type Authorization struct {
	Author    string
	Message   string
	Signature string
}

// CreateRequest carries the fields of a new note together with its authorization.
type CreateRequest struct {
	Title   string
	Content string
	Authorization
}

// UpdateRequest carries a partial update. A nil field keeps the stored value.
type UpdateRequest struct {
	Title   *string
	Content *string
	Authorization
}

// EventType represents the type of change in the store.
type EventType string

const (
	EventCreate EventType = "CREATE"
	EventModify EventType = "MODIFY"
	EventDelete EventType = "DELETE"
)

// Event represents a change in the store.
type Event struct {
	Type      EventType
	ID        string
	Timestamp int64 // Unix timestamp
}

// String implements fmt.Stringer.
func (e Event) String() string {
	return string(e.Type) + " " + e.ID
}
