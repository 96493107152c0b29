package review

import (
	"context"

	"mastera/models"
)

// Service records client feedback and keeps master rating aggregates fresh.
type Service interface {
	// SubmitRating stores the client's star rating for a request. A
	// request carries at most one review: a repeat submission returns
	// the stored review with created=false and changes nothing.
	SubmitRating(ctx context.Context, requestID, clientTelegramID int64, rating int) (rev *models.Review, created bool, err error)

	// AttachComment sets or replaces the free-text comment on the
	// request's review. Rating aggregates are unaffected.
	AttachComment(ctx context.Context, requestID, clientTelegramID int64, comment string) error

	// LatestForMaster lists the master's newest reviews for the cabinet.
	LatestForMaster(ctx context.Context, masterID int64, limit int64) ([]models.Review, error)
}
