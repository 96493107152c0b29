package models

import "time"

// Review is a client's rating of a completed order. Exactly one review
// may exist per request; the comment may be attached or overwritten later.
type Review struct {
	ID        int64     `bson:"id" json:"id"`
	RequestID int64     `bson:"request_id" json:"request_id"`
	MasterID  int64     `bson:"master_id" json:"master_id"`
	ClientID  int64     `bson:"client_id" json:"client_id"`
	Rating    int       `bson:"rating" json:"rating"` // 1..5
	Comment   string    `bson:"comment,omitempty" json:"comment,omitempty"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
