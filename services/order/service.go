package order

import (
	"context"
	"errors"
	"fmt"
	"time"

	masterRepo "mastera/database/repository/master"
	requestRepo "mastera/database/repository/request"
	"mastera/models"
	"mastera/services/notify"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// DefaultOrderService is the production implementation.
type DefaultOrderService struct {
	Requests requestRepo.RequestRepository
	Masters  masterRepo.MasterRepository
	Notifier notify.Notifier
	Admin    notify.AdminNotifier
	Logger   *zap.Logger
}

func (s *DefaultOrderService) MarkDone(ctx context.Context, requestID, masterTelegramID int64) error {
	master, err := s.Masters.GetByTelegramID(masterTelegramID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ErrNotMaster
		}
		return fmt.Errorf("failed to resolve master: %w", err)
	}

	request, err := s.Requests.GetByID(requestID)
	if err != nil {
		return fmt.Errorf("failed to fetch request %d: %w", requestID, err)
	}
	if request.MasterID != master.ID {
		return ErrNotYourOrder
	}

	switch request.Status {
	case models.RequestStatusAssigned:
		// proceed
	case models.RequestStatusPending:
		return ErrAlreadyPending
	case models.RequestStatusCompleted:
		return ErrAlreadyCompleted
	default:
		return ErrInvalidState
	}

	if err := s.Requests.TransitionStatus(requestID, models.RequestStatusAssigned, models.RequestStatusPending); err != nil {
		if errors.Is(err, requestRepo.ErrStatusConflict) {
			// A concurrent repeat got there first.
			return ErrAlreadyPending
		}
		return fmt.Errorf("failed to mark request %d done: %w", requestID, err)
	}

	request.Status = models.RequestStatusPending
	if err := s.Notifier.ConfirmPrompt(ctx, request); err != nil {
		s.Logger.Warn("confirm prompt delivery failed",
			zap.Int64("request_id", requestID), zap.Error(err))
	}
	return nil
}

func (s *DefaultOrderService) Confirm(ctx context.Context, requestID, clientTelegramID int64) error {
	request, err := s.Requests.GetByID(requestID)
	if err != nil {
		return fmt.Errorf("failed to fetch request %d: %w", requestID, err)
	}
	if request.ClientID != clientTelegramID {
		return ErrNotYourRequest
	}
	return s.finalize(ctx, request, false)
}

func (s *DefaultOrderService) Dispute(ctx context.Context, requestID, clientTelegramID int64) error {
	request, err := s.Requests.GetByID(requestID)
	if err != nil {
		return fmt.Errorf("failed to fetch request %d: %w", requestID, err)
	}
	if request.ClientID != clientTelegramID {
		return ErrNotYourRequest
	}

	if err := s.Requests.TransitionStatus(requestID, models.RequestStatusPending, models.RequestStatusAssigned); err != nil {
		if errors.Is(err, requestRepo.ErrStatusConflict) {
			return ErrInvalidState
		}
		return fmt.Errorf("failed to open dispute for request %d: %w", requestID, err)
	}

	request.Status = models.RequestStatusAssigned
	if master, merr := s.Masters.GetByID(request.MasterID); merr == nil {
		if err := s.Notifier.DisputeOpenedMaster(ctx, master, request); err != nil {
			s.Logger.Warn("dispute notice delivery failed",
				zap.Int64("request_id", requestID), zap.Error(err))
		}
	}
	s.Admin.NotifyAdmin(fmt.Sprintf("Спор по заявке #%d: клиент не подтвердил выполнение", requestID))
	return nil
}

func (s *DefaultOrderService) AutoComplete(ctx context.Context, requestID int64) error {
	request, err := s.Requests.GetByID(requestID)
	if err != nil {
		return fmt.Errorf("failed to fetch request %d: %w", requestID, err)
	}
	err = s.finalize(ctx, request, true)
	if errors.Is(err, ErrInvalidState) {
		// Someone confirmed or disputed while the sweep was running.
		return nil
	}
	return err
}

// finalize is the one completion path: the status flip, the master's
// bookkeeping, the one-shot review prompt. Mutations happen before any
// notification; notification failures never roll anything back.
func (s *DefaultOrderService) finalize(ctx context.Context, request *models.Request, auto bool) error {
	now := time.Now()
	if err := s.Requests.CompleteIfPending(request.ID, now); err != nil {
		if errors.Is(err, requestRepo.ErrStatusConflict) {
			return ErrInvalidState
		}
		return fmt.Errorf("failed to complete request %d: %w", request.ID, err)
	}
	request.Status = models.RequestStatusCompleted
	request.CompletedAt = &now

	master, err := s.Masters.IncrementOrdersCompleted(request.MasterID)
	if err != nil {
		return fmt.Errorf("failed to update master stats for request %d: %w", request.ID, err)
	}
	if tier := models.SkillTierFor(master.OrdersCompleted); tier != master.SkillTier {
		if err := s.Masters.UpdateSetDocument(master.ID, bson.M{"skill_tier": tier}); err != nil {
			s.Logger.Error("skill tier update failed",
				zap.Int64("master_id", master.ID), zap.Error(err))
		} else {
			master.SkillTier = tier
		}
	}

	// The flag flips before the prompt goes out; only one caller ever wins.
	won, err := s.Requests.ClaimReviewPrompt(request.ID)
	if err != nil {
		s.Logger.Error("review gate check failed",
			zap.Int64("request_id", request.ID), zap.Error(err))
	} else if won {
		if err := s.Notifier.ReviewPrompt(ctx, request); err != nil {
			s.Logger.Warn("review prompt delivery failed",
				zap.Int64("request_id", request.ID), zap.Error(err))
		}
	}

	if auto {
		if err := s.Notifier.AutoCompleted(ctx, request); err != nil {
			s.Logger.Warn("auto-complete notice delivery failed",
				zap.Int64("request_id", request.ID), zap.Error(err))
		}
	}
	if err := s.Notifier.OrderCompletedMaster(ctx, master, request); err != nil {
		s.Logger.Warn("completion notice delivery failed",
			zap.Int64("request_id", request.ID), zap.Error(err))
	}
	return nil
}
