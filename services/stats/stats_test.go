package stats

import (
	"context"
	"testing"

	offerRepo "mastera/database/repository/offer"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAcceptRate(t *testing.T) {
	tests := []struct {
		name   string
		funnel MasterFunnel
		want   float64
	}{
		{name: "nothing resolved", funnel: MasterFunnel{Sent: 5}, want: 0},
		{name: "all taken", funnel: MasterFunnel{Sent: 4, Taken: 4}, want: 100},
		{name: "three of four", funnel: MasterFunnel{Sent: 10, Taken: 3, Skipped: 1}, want: 75},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.funnel.AcceptRate())
		})
	}
}

type stubOffers struct {
	offerRepo.OfferRepository
	stats offerRepo.Stats
}

func (s *stubOffers) StatsByMaster(masterID int64) (offerRepo.Stats, error) {
	return s.stats, nil
}

func TestMasterStats(t *testing.T) {
	svc := &DefaultStatsService{Offers: &stubOffers{stats: offerRepo.Stats{Sent: 7, Taken: 2, Skipped: 3}}}

	funnel, err := svc.MasterStats(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, MasterFunnel{Sent: 7, Taken: 2, Skipped: 3}, funnel)
	assert.Equal(t, 40.0, funnel.AcceptRate())
}
