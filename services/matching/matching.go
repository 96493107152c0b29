package matching

import (
	"fmt"
	"sort"
	"time"

	masterRepo "mastera/database/repository/master"
	"mastera/models"
)

// MaxOffersPerRequest caps how many masters one request is broadcast to.
const MaxOffersPerRequest = 5

// Service selects and ranks masters for a request broadcast.
type Service interface {
	// SelectMasters returns the ranked head of the candidate list:
	// active masters whose categories match the request, ordered by
	// priority, then subscription, then level, capped at
	// MaxOffersPerRequest.
	SelectMasters(request *models.Request) ([]models.Master, error)
}

// DefaultMatchingService is the production implementation.
type DefaultMatchingService struct {
	MasterRepo masterRepo.MasterRepository
}

func (s *DefaultMatchingService) SelectMasters(request *models.Request) ([]models.Master, error) {
	masters, err := s.MasterRepo.GetActive()
	if err != nil {
		return nil, fmt.Errorf("failed to load active masters: %w", err)
	}

	var matched []models.Master
	for _, m := range masters {
		if CategoriesMatch(request.Category, m.Categories) {
			matched = append(matched, m)
		}
	}

	now := time.Now()
	// Stable sort keeps repository order for equally ranked masters.
	sort.SliceStable(matched, func(i, j int) bool {
		a, b := &matched[i], &matched[j]
		if pa, pb := a.PriorityActive(now), b.PriorityActive(now); pa != pb {
			return pa
		}
		if sa, sb := a.SubActive(now), b.SubActive(now); sa != sb {
			return sa
		}
		return a.LevelRank() > b.LevelRank()
	})

	if len(matched) > MaxOffersPerRequest {
		matched = matched[:MaxOffersPerRequest]
	}
	return matched, nil
}
