package reviewRepo

import "mastera/models"

// ReviewRepository defines methods for review data access.
type ReviewRepository interface {
	// Create inserts a new review record.
	Create(review *models.Review) error
	// GetByRequestID retrieves the review attached to a request.
	GetByRequestID(requestID int64) (*models.Review, error)
	// UpdateComment overwrites the comment on the request's review row.
	UpdateComment(requestID int64, comment string) error
	// AggregateForMaster recomputes (average rating, review count) over
	// the master's stored reviews.
	AggregateForMaster(masterID int64) (float64, int64, error)
	// LatestByMaster lists a master's most recent reviews.
	LatestByMaster(masterID int64, limit int64) ([]models.Review, error)
	// GlobalStats returns (review count, average rating) across all reviews.
	GlobalStats() (int64, float64, error)
}
