package complaintRepo

import "mastera/models"

// ComplaintRepository defines methods for complaint data access.
type ComplaintRepository interface {
	// Create inserts a new complaint record.
	Create(complaint *models.Complaint) error
	// Latest lists the most recent complaints.
	Latest(limit int64) ([]models.Complaint, error)
}
