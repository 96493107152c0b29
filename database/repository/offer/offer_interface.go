package offerRepo

import "mastera/models"

// Stats summarizes a master's offer history for the cabinet.
type Stats struct {
	Sent    int64
	Skipped int64
	Taken   int64
}

// OfferRepository defines methods for offer data access.
type OfferRepository interface {
	// Create inserts a new offer record.
	Create(offer *models.Offer) error
	// GetByRequestAndMaster retrieves the offer addressed to one master
	// for one request.
	GetByRequestAndMaster(requestID, masterID int64) (*models.Offer, error)
	// MarkSkipped resolves a still-sent offer as skipped; resolving an
	// already-resolved offer is a no-op.
	MarkSkipped(requestID, masterID int64) error
	// StatsByMaster aggregates a master's offers by status.
	StatsByMaster(masterID int64) (Stats, error)
	// CountByStatus groups global offer counts by status.
	CountByStatus() (map[string]int64, error)
}
