package matching

import (
	"errors"
	"testing"
	"time"

	masterRepo "mastera/database/repository/master"
	"mastera/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategoriesMatch(t *testing.T) {
	tests := []struct {
		name    string
		request string
		master  []string
		want    bool
	}{
		{name: "exact", request: "Сантехника", master: []string{"Сантехника"}, want: true},
		{name: "case insensitive", request: "сантехника", master: []string{"САНТЕХНИКА"}, want: true},
		{name: "slash variant", request: "Ремонт", master: []string{"Ремонт / отделка"}, want: true},
		{name: "request contains master", request: "Ремонт квартиры", master: []string{"Ремонт"}, want: true},
		{name: "master contains request", request: "Ремонт", master: []string{"Мелкий ремонт"}, want: true},
		{name: "second category matches", request: "Электрика", master: []string{"Сантехника", "Электрика"}, want: true},
		{name: "no overlap", request: "Электрика", master: []string{"Сантехника"}, want: false},
		{name: "tail after slash is ignored", request: "Электрика", master: []string{"Сантехника/электрика"}, want: false},
		{name: "empty request", request: "", master: []string{"Сантехника"}, want: false},
		{name: "no master categories", request: "Сантехника", master: nil, want: false},
		{name: "digits only never match", request: "123", master: []string{"123"}, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CategoriesMatch(tt.request, tt.master))
		})
	}
}

// stubMasterRepo serves a fixed active-master list.
type stubMasterRepo struct {
	masterRepo.MasterRepository
	active []models.Master
	err    error
}

func (s *stubMasterRepo) GetActive() ([]models.Master, error) {
	return s.active, s.err
}

func TestSelectMastersRanking(t *testing.T) {
	now := time.Now()
	future := now.Add(24 * time.Hour)

	active := []models.Master{
		{ID: 1, Categories: []string{"Сантехника"}, Level: models.LevelCandidate},
		{ID: 2, Categories: []string{"Сантехника"}, Level: models.LevelCandidate, PriorityUntil: &future},
		{ID: 3, Categories: []string{"Сантехника"}, Level: models.LevelVerified, SubUntil: &future},
		{ID: 4, Categories: []string{"Сантехника"}, Level: models.LevelChecked, SubUntil: &future},
		{ID: 5, Categories: []string{"Сантехника"}, Level: models.LevelVerified},
		{ID: 6, Categories: []string{"Электрика"}, Level: models.LevelVerified, PriorityUntil: &future},
	}
	svc := &DefaultMatchingService{MasterRepo: &stubMasterRepo{active: active}}

	got, err := svc.SelectMasters(&models.Request{ID: 10, Category: "Сантехника"})
	require.NoError(t, err)

	ids := make([]int64, 0, len(got))
	for i := range got {
		ids = append(ids, got[i].ID)
	}
	// Priority first, then subscribers by level, then the rest by level.
	assert.Equal(t, []int64{2, 3, 4, 5, 1}, ids)
}

func TestSelectMastersCap(t *testing.T) {
	var active []models.Master
	for i := int64(1); i <= 8; i++ {
		active = append(active, models.Master{ID: i, Categories: []string{"Уборка"}, Level: models.LevelCandidate})
	}
	svc := &DefaultMatchingService{MasterRepo: &stubMasterRepo{active: active}}

	got, err := svc.SelectMasters(&models.Request{Category: "Уборка"})
	require.NoError(t, err)
	require.Len(t, got, MaxOffersPerRequest)

	// Equally ranked masters keep repository order.
	for i := range got {
		assert.Equal(t, int64(i+1), got[i].ID)
	}
}

func TestSelectMastersNoMatch(t *testing.T) {
	svc := &DefaultMatchingService{MasterRepo: &stubMasterRepo{active: []models.Master{
		{ID: 1, Categories: []string{"Сантехника"}},
	}}}

	got, err := svc.SelectMasters(&models.Request{Category: "Сборка мебели"})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestSelectMastersRepoError(t *testing.T) {
	svc := &DefaultMatchingService{MasterRepo: &stubMasterRepo{err: errors.New("mongo down")}}

	_, err := svc.SelectMasters(&models.Request{Category: "Уборка"})
	assert.ErrorContains(t, err, "failed to load active masters")
}
