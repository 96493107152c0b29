package review

import (
	"context"
	"errors"
	"fmt"
	"math"

	masterRepo "mastera/database/repository/master"
	requestRepo "mastera/database/repository/request"
	reviewRepo "mastera/database/repository/review"
	sequenceRepo "mastera/database/repository/sequence"
	"mastera/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// DefaultReviewService is the production implementation.
type DefaultReviewService struct {
	Requests requestRepo.RequestRepository
	Reviews  reviewRepo.ReviewRepository
	Masters  masterRepo.MasterRepository
	Sequence sequenceRepo.Sequence
	Logger   *zap.Logger
}

func (s *DefaultReviewService) SubmitRating(ctx context.Context, requestID, clientTelegramID int64, rating int) (*models.Review, bool, error) {
	if !models.ValidRating(rating) {
		return nil, false, ErrInvalidRating
	}

	request, err := s.Requests.GetByID(requestID)
	if err != nil {
		return nil, false, fmt.Errorf("failed to fetch request %d: %w", requestID, err)
	}
	if request.ClientID != clientTelegramID {
		return nil, false, ErrNotYourRequest
	}

	if existing, gerr := s.Reviews.GetByRequestID(requestID); gerr == nil {
		return existing, false, nil
	} else if !errors.Is(gerr, mongo.ErrNoDocuments) {
		return nil, false, fmt.Errorf("failed to check existing review: %w", gerr)
	}

	id, err := s.Sequence.Next("reviews")
	if err != nil {
		return nil, false, fmt.Errorf("failed to allocate review id: %w", err)
	}
	rev := &models.Review{
		ID:        id,
		RequestID: requestID,
		MasterID:  request.MasterID,
		ClientID:  clientTelegramID,
		Rating:    rating,
	}
	if err := s.Reviews.Create(rev); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			// Lost a double-tap race; the stored review wins.
			existing, gerr := s.Reviews.GetByRequestID(requestID)
			if gerr != nil {
				return nil, false, fmt.Errorf("failed to fetch winning review: %w", gerr)
			}
			return existing, false, nil
		}
		return nil, false, fmt.Errorf("failed to store review: %w", err)
	}

	if err := s.refreshAggregates(request.MasterID); err != nil {
		// The review is stored; the next one repairs the aggregates.
		s.Logger.Error("rating aggregate refresh failed",
			zap.Int64("master_id", request.MasterID), zap.Error(err))
	}
	return rev, true, nil
}

func (s *DefaultReviewService) AttachComment(ctx context.Context, requestID, clientTelegramID int64, comment string) error {
	request, err := s.Requests.GetByID(requestID)
	if err != nil {
		return fmt.Errorf("failed to fetch request %d: %w", requestID, err)
	}
	if request.ClientID != clientTelegramID {
		return ErrNotYourRequest
	}

	if _, err := s.Reviews.GetByRequestID(requestID); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ErrNoReview
		}
		return fmt.Errorf("failed to fetch review for request %d: %w", requestID, err)
	}
	if err := s.Reviews.UpdateComment(requestID, comment); err != nil {
		return fmt.Errorf("failed to attach comment: %w", err)
	}
	return nil
}

func (s *DefaultReviewService) LatestForMaster(ctx context.Context, masterID int64, limit int64) ([]models.Review, error) {
	return s.Reviews.LatestByMaster(masterID, limit)
}

func (s *DefaultReviewService) refreshAggregates(masterID int64) error {
	avg, count, err := s.Reviews.AggregateForMaster(masterID)
	if err != nil {
		return fmt.Errorf("failed to aggregate reviews for master %d: %w", masterID, err)
	}
	rounded := math.Round(avg*10) / 10
	if err := s.Masters.UpdateSetDocument(masterID, bson.M{"avg_rating": rounded, "reviews_count": count}); err != nil {
		return fmt.Errorf("failed to store rating aggregates for master %d: %w", masterID, err)
	}
	return nil
}
