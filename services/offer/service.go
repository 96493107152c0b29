package offer

import (
	"context"
	"errors"
	"fmt"
	"time"

	masterRepo "mastera/database/repository/master"
	offerRepo "mastera/database/repository/offer"
	orderRepo "mastera/database/repository/order"
	requestRepo "mastera/database/repository/request"
	sequenceRepo "mastera/database/repository/sequence"
	"mastera/models"
	"mastera/services/matching"
	"mastera/services/notify"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// DefaultOfferService is the production implementation.
type DefaultOfferService struct {
	Requests requestRepo.RequestRepository
	Masters  masterRepo.MasterRepository
	Offers   offerRepo.OfferRepository
	Orders   orderRepo.OrderRepository
	Sequence sequenceRepo.Sequence
	Matching matching.Service
	Notifier notify.Notifier
	Admin    notify.AdminNotifier
	Logger   *zap.Logger
}

// Broadcast fans a new request out to the ranked matching masters. Each
// offer is persisted as "sent" before delivery is attempted, so a failed
// send never loses the offer.
func (s *DefaultOfferService) Broadcast(ctx context.Context, request *models.Request) (int, error) {
	matched, err := s.Matching.SelectMasters(request)
	if err != nil {
		return 0, fmt.Errorf("failed to select masters for request %d: %w", request.ID, err)
	}

	if len(matched) == 0 {
		s.Admin.NotifyAdmin(fmt.Sprintf(
			"Заявка #%d (%s, %s): подходящих мастеров нет", request.ID, request.Category, request.District))
		return 0, nil
	}

	sent := 0
	for i := range matched {
		m := &matched[i]

		id, err := s.Sequence.Next("offers")
		if err != nil {
			s.Logger.Error("offer id mint failed",
				zap.Int64("request_id", request.ID), zap.Int64("master_id", m.ID), zap.Error(err))
			continue
		}
		o := &models.Offer{
			ID:        id,
			RequestID: request.ID,
			MasterID:  m.ID,
			Status:    models.OfferStatusSent,
		}
		if err := s.Offers.Create(o); err != nil {
			s.Logger.Error("offer persist failed",
				zap.Int64("request_id", request.ID), zap.Int64("master_id", m.ID), zap.Error(err))
			continue
		}
		sent++

		if err := s.Notifier.NewOffer(ctx, m, request); err != nil {
			if notify.PermanentDeliveryFailure(err) {
				if derr := s.Masters.SetActive(m.ID, false); derr != nil {
					s.Logger.Error("deactivate unreachable master failed",
						zap.Int64("master_id", m.ID), zap.Error(derr))
				} else {
					s.Logger.Warn("master unreachable, deactivated",
						zap.Int64("master_id", m.ID), zap.Error(err))
				}
			} else {
				s.Logger.Warn("offer delivery failed",
					zap.Int64("request_id", request.ID), zap.Int64("master_id", m.ID), zap.Error(err))
			}
		}
	}
	return sent, nil
}

// Claim resolves an offer in the caller's favor, atomically with the
// entitlement debit. Notifications go out only after the transaction
// committed.
func (s *DefaultOfferService) Claim(ctx context.Context, requestID, callerTelegramID int64) (*ClaimResult, error) {
	master, err := s.Masters.GetByTelegramID(callerTelegramID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotMaster
		}
		return nil, fmt.Errorf("failed to resolve claiming master: %w", err)
	}

	if _, err := s.Offers.GetByRequestAndMaster(requestID, master.ID); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrForeignOffer
		}
		return nil, fmt.Errorf("failed to resolve offer: %w", err)
	}

	// Entitlement is evaluated at claim time; the debit itself is
	// guarded inside the transaction.
	debit := !master.SubActive(time.Now())

	if err := s.Orders.Claim(ctx, requestID, master.ID, debit); err != nil {
		switch {
		case errors.Is(err, orderRepo.ErrAlreadyTaken):
			return nil, ErrAlreadyTaken
		case errors.Is(err, orderRepo.ErrNoFreeOrders):
			return nil, ErrQuotaExhausted
		}
		return nil, fmt.Errorf("claim failed for request %d: %w", requestID, err)
	}

	request, err := s.Requests.GetByID(requestID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload claimed request %d: %w", requestID, err)
	}
	fresh, err := s.Masters.GetByID(master.ID)
	if err != nil {
		fresh = master
	}

	if err := s.Notifier.RequestAssignedClient(ctx, request, fresh); err != nil {
		s.Logger.Warn("client assignment notice failed",
			zap.Int64("request_id", requestID), zap.Error(err))
	}
	if err := s.Notifier.RequestAssignedMaster(ctx, fresh, request); err != nil {
		s.Logger.Warn("master assignment notice failed",
			zap.Int64("request_id", requestID), zap.Error(err))
	}
	s.Admin.NotifyAdmin(fmt.Sprintf(
		"Заявка #%d закреплена за мастером #%d %s", requestID, fresh.ID, fresh.FullName))

	return &ClaimResult{Request: request, Master: fresh, DebitedFreeOrder: debit}, nil
}

// Skip resolves the caller's offer as skipped. Resolving an offer that is
// no longer "sent" is a silent no-op.
func (s *DefaultOfferService) Skip(ctx context.Context, requestID, callerTelegramID int64) error {
	master, err := s.Masters.GetByTelegramID(callerTelegramID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ErrNotMaster
		}
		return fmt.Errorf("failed to resolve skipping master: %w", err)
	}

	if err := s.Offers.MarkSkipped(requestID, master.ID); err != nil {
		return fmt.Errorf("failed to skip offer: %w", err)
	}
	return nil
}
