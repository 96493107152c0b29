package notify

import (
	"context"

	"mastera/models"
)

// Notifier delivers product messages to Telegram users. Implementations
// render the message texts and keyboards; services decide when something
// must be said.
type Notifier interface {
	// NewOffer shows a broadcast request to a master with take/skip buttons.
	NewOffer(ctx context.Context, master *models.Master, request *models.Request) error
	// RequestAssignedClient hands the client the winning master's card.
	RequestAssignedClient(ctx context.Context, request *models.Request, master *models.Master) error
	// RequestAssignedMaster hands the master the client's contact details.
	RequestAssignedMaster(ctx context.Context, master *models.Master, request *models.Request) error
	// ConfirmPrompt asks the client to confirm or dispute a finished order.
	ConfirmPrompt(ctx context.Context, request *models.Request) error
	// AutoCompleted tells the client their order was closed automatically.
	AutoCompleted(ctx context.Context, request *models.Request) error
	// DisputeOpenedMaster tells the master the client disputed completion.
	DisputeOpenedMaster(ctx context.Context, master *models.Master, request *models.Request) error
	// OrderCompletedMaster tells the master the order is closed.
	OrderCompletedMaster(ctx context.Context, master *models.Master, request *models.Request) error
	// ReviewPrompt asks the client for a 1-5 star rating.
	ReviewPrompt(ctx context.Context, request *models.Request) error
}

// AdminNotifier posts free-text notes to the admin channel. Delivery is
// fire-and-forget: implementations log failures and never propagate them.
type AdminNotifier interface {
	NotifyAdmin(text string)
}
