package entitlement

import (
	"context"
	"time"

	"mastera/models"
)

// Grant records the outcome of a successful purchase.
type Grant struct {
	Master  *models.Master
	Product models.Product
	Until   time.Time
}

// Service applies paid products to master profiles.
type Service interface {
	// Grant activates the product for the master behind the given
	// Telegram account. The new expiry is counted from now; an earlier
	// unexpired grant of the same product is replaced, not extended.
	Grant(ctx context.Context, masterTelegramID int64, productCode string) (*Grant, error)
}
