package stats

import (
	"context"
	"fmt"

	masterRepo "mastera/database/repository/master"
	offerRepo "mastera/database/repository/offer"
	requestRepo "mastera/database/repository/request"
	reviewRepo "mastera/database/repository/review"
	"mastera/models"
)

// Overview is the operational snapshot behind /stats and the admin API.
type Overview struct {
	RequestsByStatus map[string]int64 `json:"requests_by_status"`
	MastersTotal     int64            `json:"masters_total"`
	MastersActive    int64            `json:"masters_active"`
	OffersByStatus   map[string]int64 `json:"offers_by_status"`
	ReviewsCount     int64            `json:"reviews_count"`
	AvgRating        float64          `json:"avg_rating"`
}

// MasterFunnel is one master's offer acquisition funnel.
type MasterFunnel struct {
	Sent    int64 `json:"sent"`
	Taken   int64 `json:"taken"`
	Skipped int64 `json:"skipped"`
}

// AcceptRate is the taken share of resolved offers, in percent.
func (f MasterFunnel) AcceptRate() float64 {
	resolved := f.Taken + f.Skipped
	if resolved == 0 {
		return 0
	}
	return float64(f.Taken) / float64(resolved) * 100
}

// Service assembles marketplace-wide figures.
type Service interface {
	Overview(ctx context.Context) (*Overview, error)
	// TopMasters lists the best-rated active masters.
	TopMasters(ctx context.Context, limit int64) ([]models.Master, error)
	// MasterStats reports one master's offer funnel.
	MasterStats(ctx context.Context, masterID int64) (MasterFunnel, error)
}

// DefaultStatsService is the production implementation.
type DefaultStatsService struct {
	Requests requestRepo.RequestRepository
	Masters  masterRepo.MasterRepository
	Offers   offerRepo.OfferRepository
	Reviews  reviewRepo.ReviewRepository
}

func (s *DefaultStatsService) Overview(ctx context.Context) (*Overview, error) {
	byStatus, err := s.Requests.CountByStatus()
	if err != nil {
		return nil, fmt.Errorf("failed to count requests: %w", err)
	}
	total, active, err := s.Masters.Counts()
	if err != nil {
		return nil, fmt.Errorf("failed to count masters: %w", err)
	}
	offers, err := s.Offers.CountByStatus()
	if err != nil {
		return nil, fmt.Errorf("failed to count offers: %w", err)
	}
	reviews, avg, err := s.Reviews.GlobalStats()
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate reviews: %w", err)
	}
	return &Overview{
		RequestsByStatus: byStatus,
		MastersTotal:     total,
		MastersActive:    active,
		OffersByStatus:   offers,
		ReviewsCount:     reviews,
		AvgRating:        avg,
	}, nil
}

func (s *DefaultStatsService) TopMasters(ctx context.Context, limit int64) ([]models.Master, error) {
	return s.Masters.TopByRating(limit)
}

func (s *DefaultStatsService) MasterStats(ctx context.Context, masterID int64) (MasterFunnel, error) {
	st, err := s.Offers.StatsByMaster(masterID)
	if err != nil {
		return MasterFunnel{}, fmt.Errorf("failed to aggregate offers for master %d: %w", masterID, err)
	}
	return MasterFunnel{Sent: st.Sent, Taken: st.Taken, Skipped: st.Skipped}, nil
}
