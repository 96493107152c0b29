package models

import "time"

// Complaint is a free-text problem report from a client, optionally tied
// to a request. Complaints are stored and forwarded to the admin channel.
type Complaint struct {
	ID        int64     `bson:"id" json:"id"`
	ClientID  int64     `bson:"client_id" json:"client_id"`
	RequestID int64     `bson:"request_id,omitempty" json:"request_id,omitempty"`
	Text      string    `bson:"text" json:"text"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
