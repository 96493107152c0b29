package models

import "time"

// Request status machine: new -> assigned -> pending_confirmation -> completed.
// A dispute moves pending_confirmation back to assigned. No other transitions.
const (
	RequestStatusNew       = "new"
	RequestStatusAssigned  = "assigned"
	RequestStatusPending   = "pending_confirmation"
	RequestStatusCompleted = "completed"
)

// Request represents a client service request.
type Request struct {
	ID          int64  `bson:"id" json:"id"`                   // Sequential display identifier
	ClientID    int64  `bson:"client_id" json:"client_id"`     // Telegram user who posted the request
	Name        string `bson:"name" json:"name"`
	Phone       string `bson:"phone" json:"phone"`
	Category    string `bson:"category" json:"category"`
	District    string `bson:"district" json:"district"`
	Description string `bson:"description" json:"description"`
	WhenText    string `bson:"when_text" json:"when_text"`     // Free-form timing as the client wrote it
	Status      string `bson:"status" json:"status"`
	MasterID    int64  `bson:"master_id,omitempty" json:"master_id,omitempty"` // Assigned master, 0 while new

	// ReviewRequested is the one-shot gate for the review prompt: it is
	// flipped before the prompt is sent and never cleared.
	ReviewRequested bool `bson:"review_requested" json:"review_requested"`

	CreatedAt   time.Time  `bson:"created_at" json:"created_at"`
	CompletedAt *time.Time `bson:"completed_at,omitempty" json:"completed_at,omitempty"`
}
