package requestRepo

import (
	"errors"
	"time"

	"mastera/models"
)

// ErrStatusConflict is returned by guarded transitions when the request is
// no longer in the expected status. A lost claim race surfaces as this.
var ErrStatusConflict = errors.New("request status conflict")

// RequestRepository defines methods for request data access.
type RequestRepository interface {
	// GetByID retrieves a request by its display ID.
	GetByID(id int64) (*models.Request, error)
	// Create inserts a new request record.
	Create(request *models.Request) error
	// TransitionStatus performs a compare-and-set status move; it returns
	// ErrStatusConflict when the request is not in the from status.
	TransitionStatus(id int64, from, to string) error
	// CompleteIfPending moves pending_confirmation to completed and stamps
	// completed_at; ErrStatusConflict when the request is elsewhere.
	CompleteIfPending(id int64, completedAt time.Time) error
	// ClaimReviewPrompt flips the one-shot review_requested gate; it
	// reports true only for the single caller that wins the flip.
	ClaimReviewPrompt(id int64) (bool, error)
	// PendingOlderThan lists pending_confirmation requests created before
	// the cutoff (the sweep's auto-complete feed).
	PendingOlderThan(cutoff time.Time) ([]models.Request, error)
	// ActiveByMaster lists a master's assigned and pending requests.
	ActiveByMaster(masterID int64) ([]models.Request, error)
	// CountByStatus groups request counts by status.
	CountByStatus() (map[string]int64, error)
}
