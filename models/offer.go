package models

import "time"

// Offer statuses. An offer is persisted as "sent" before delivery is
// attempted; at most one offer per request ever becomes "taken".
const (
	OfferStatusSent    = "sent"
	OfferStatusTaken   = "taken"
	OfferStatusSkipped = "skipped"
)

// Offer links a broadcast request to one notified master.
type Offer struct {
	ID        int64     `bson:"id" json:"id"`
	RequestID int64     `bson:"request_id" json:"request_id"`
	MasterID  int64     `bson:"master_id" json:"master_id"`
	Status    string    `bson:"status" json:"status"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
