package masterRepo

import (
	"time"

	"mastera/models"

	"go.mongodb.org/mongo-driver/bson"
)

// MasterRepository defines methods for master data access.
type MasterRepository interface {
	// GetByID retrieves a master by its display ID.
	GetByID(id int64) (*models.Master, error)
	// GetByTelegramID retrieves a master by the owning Telegram user.
	GetByTelegramID(telegramID int64) (*models.Master, error)
	// GetActive retrieves all masters currently receiving offers.
	GetActive() ([]models.Master, error)
	// Create inserts a new master record.
	Create(master *models.Master) error
	// Update replaces an existing master record.
	Update(master *models.Master) error
	// UpdateSetDocument applies a partial $set update by display ID.
	UpdateSetDocument(id int64, updateDoc bson.M) error
	// SetActive flips the is_active flag.
	SetActive(id int64, active bool) error
	// IncrementOrdersCompleted bumps the completed counter and returns
	// the post-increment document.
	IncrementOrdersCompleted(id int64) (*models.Master, error)
	// DocumentHolders lists masters created before the cutoff that still
	// carry any sensitive document reference.
	DocumentHolders(createdBefore time.Time) ([]models.Master, error)
	// ClearDocuments removes all sensitive document references.
	ClearDocuments(id int64) error
	// TopByRating lists active masters ordered by rating for the catalog.
	TopByRating(limit int64) ([]models.Master, error)
	// Counts returns (total, active) master counts.
	Counts() (int64, int64, error)
}
