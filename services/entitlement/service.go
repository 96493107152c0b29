package entitlement

import (
	"context"
	"errors"
	"fmt"
	"time"

	masterRepo "mastera/database/repository/master"
	"mastera/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// expiryField maps each product to the profile field it extends.
var expiryField = map[string]string{
	models.ProductSub30:    "sub_until",
	models.ProductPriority: "priority_until",
	models.ProductPin7:     "pin_until",
}

// DefaultEntitlementService is the production implementation.
type DefaultEntitlementService struct {
	Masters masterRepo.MasterRepository
	Logger  *zap.Logger
}

func (s *DefaultEntitlementService) Grant(ctx context.Context, masterTelegramID int64, productCode string) (*Grant, error) {
	product, ok := models.ProductByCode(productCode)
	if !ok {
		return nil, ErrUnknownProduct
	}
	field, ok := expiryField[product.Code]
	if !ok {
		return nil, ErrUnknownProduct
	}

	master, err := s.Masters.GetByTelegramID(masterTelegramID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotMaster
		}
		return nil, fmt.Errorf("failed to resolve master: %w", err)
	}

	until := time.Now().Add(product.Duration)
	if err := s.Masters.UpdateSetDocument(master.ID, bson.M{field: until}); err != nil {
		return nil, fmt.Errorf("failed to apply %s to master %d: %w", product.Code, master.ID, err)
	}

	switch product.Code {
	case models.ProductSub30:
		master.SubUntil = &until
	case models.ProductPriority:
		master.PriorityUntil = &until
	case models.ProductPin7:
		master.PinUntil = &until
	}

	s.Logger.Info("entitlement granted",
		zap.Int64("master_id", master.ID),
		zap.String("product", product.Code),
		zap.Time("until", until))

	return &Grant{Master: master, Product: product, Until: until}, nil
}
