package order

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	masterRepo "mastera/database/repository/master"
	requestRepo "mastera/database/repository/request"
	"mastera/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// fakeRequests keeps request state in memory and mirrors the repository's
// compare-and-set guards.
type fakeRequests struct {
	requestRepo.RequestRepository
	byID          map[int64]*models.Request
	reviewClaimed map[int64]bool
	transitionErr error
}

func (f *fakeRequests) GetByID(id int64) (*models.Request, error) {
	if r, ok := f.byID[id]; ok {
		cp := *r
		return &cp, nil
	}
	return nil, fmt.Errorf("failed to fetch request with id %d: %w", id, mongo.ErrNoDocuments)
}

func (f *fakeRequests) TransitionStatus(id int64, from, to string) error {
	if f.transitionErr != nil {
		return f.transitionErr
	}
	r, ok := f.byID[id]
	if !ok || r.Status != from {
		return requestRepo.ErrStatusConflict
	}
	r.Status = to
	return nil
}

func (f *fakeRequests) CompleteIfPending(id int64, completedAt time.Time) error {
	r, ok := f.byID[id]
	if !ok || r.Status != models.RequestStatusPending {
		return requestRepo.ErrStatusConflict
	}
	r.Status = models.RequestStatusCompleted
	r.CompletedAt = &completedAt
	return nil
}

func (f *fakeRequests) ClaimReviewPrompt(id int64) (bool, error) {
	if f.reviewClaimed[id] {
		return false, nil
	}
	f.reviewClaimed[id] = true
	return true, nil
}

type fakeMasters struct {
	masterRepo.MasterRepository
	byTelegram map[int64]*models.Master
	byID       map[int64]*models.Master
	sets       []bson.M
	incrErr    error
}

func (f *fakeMasters) GetByTelegramID(telegramID int64) (*models.Master, error) {
	if m, ok := f.byTelegram[telegramID]; ok {
		cp := *m
		return &cp, nil
	}
	return nil, fmt.Errorf("failed to fetch master with telegram id %d: %w", telegramID, mongo.ErrNoDocuments)
}

func (f *fakeMasters) GetByID(id int64) (*models.Master, error) {
	if m, ok := f.byID[id]; ok {
		cp := *m
		return &cp, nil
	}
	return nil, fmt.Errorf("failed to fetch master with id %d: %w", id, mongo.ErrNoDocuments)
}

func (f *fakeMasters) IncrementOrdersCompleted(id int64) (*models.Master, error) {
	if f.incrErr != nil {
		return nil, f.incrErr
	}
	m, ok := f.byID[id]
	if !ok {
		return nil, fmt.Errorf("failed to fetch master with id %d: %w", id, mongo.ErrNoDocuments)
	}
	m.OrdersCompleted++
	cp := *m
	return &cp, nil
}

func (f *fakeMasters) UpdateSetDocument(id int64, updateDoc bson.M) error {
	f.sets = append(f.sets, updateDoc)
	return nil
}

type notifierRecorder struct {
	confirmPrompts  int
	reviewPrompts   int
	autoCompleted   int
	disputeNotices  int
	completedMaster int
}

func (n *notifierRecorder) NewOffer(context.Context, *models.Master, *models.Request) error {
	return nil
}
func (n *notifierRecorder) RequestAssignedClient(context.Context, *models.Request, *models.Master) error {
	return nil
}
func (n *notifierRecorder) RequestAssignedMaster(context.Context, *models.Master, *models.Request) error {
	return nil
}
func (n *notifierRecorder) ConfirmPrompt(context.Context, *models.Request) error {
	n.confirmPrompts++
	return nil
}
func (n *notifierRecorder) AutoCompleted(context.Context, *models.Request) error {
	n.autoCompleted++
	return nil
}
func (n *notifierRecorder) DisputeOpenedMaster(context.Context, *models.Master, *models.Request) error {
	n.disputeNotices++
	return nil
}
func (n *notifierRecorder) OrderCompletedMaster(context.Context, *models.Master, *models.Request) error {
	n.completedMaster++
	return nil
}
func (n *notifierRecorder) ReviewPrompt(context.Context, *models.Request) error {
	n.reviewPrompts++
	return nil
}

type adminRecorder struct {
	notes []string
}

func (a *adminRecorder) NotifyAdmin(text string) {
	a.notes = append(a.notes, text)
}

type fixture struct {
	svc      *DefaultOrderService
	requests *fakeRequests
	masters  *fakeMasters
	notifier *notifierRecorder
	admin    *adminRecorder
}

// newFixture seeds master #1 (telegram 500) holding request #7 for client 900.
func newFixture(status string) *fixture {
	f := &fixture{
		requests: &fakeRequests{byID: map[int64]*models.Request{}, reviewClaimed: map[int64]bool{}},
		masters:  &fakeMasters{byTelegram: map[int64]*models.Master{}, byID: map[int64]*models.Master{}},
		notifier: &notifierRecorder{},
		admin:    &adminRecorder{},
	}
	f.masters.byTelegram[500] = &models.Master{ID: 1, TelegramID: 500, SkillTier: models.SkillTierNovice}
	f.masters.byID[1] = &models.Master{ID: 1, TelegramID: 500, SkillTier: models.SkillTierNovice}
	f.requests.byID[7] = &models.Request{ID: 7, ClientID: 900, MasterID: 1, Status: status}
	f.svc = &DefaultOrderService{
		Requests: f.requests,
		Masters:  f.masters,
		Notifier: f.notifier,
		Admin:    f.admin,
		Logger:   zap.NewNop(),
	}
	return f
}

func TestMarkDoneNotMaster(t *testing.T) {
	f := newFixture(models.RequestStatusAssigned)

	err := f.svc.MarkDone(context.Background(), 7, 999)
	assert.ErrorIs(t, err, ErrNotMaster)
}

func TestMarkDoneForeignOrder(t *testing.T) {
	f := newFixture(models.RequestStatusAssigned)
	f.requests.byID[7].MasterID = 2

	err := f.svc.MarkDone(context.Background(), 7, 500)
	assert.ErrorIs(t, err, ErrNotYourOrder)
}

func TestMarkDone(t *testing.T) {
	tests := []struct {
		name    string
		status  string
		wantErr error
	}{
		{name: "assigned proceeds", status: models.RequestStatusAssigned, wantErr: nil},
		{name: "pending repeats", status: models.RequestStatusPending, wantErr: ErrAlreadyPending},
		{name: "completed is closed", status: models.RequestStatusCompleted, wantErr: ErrAlreadyCompleted},
		{name: "new is unassigned", status: models.RequestStatusNew, wantErr: ErrInvalidState},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(tt.status)

			err := f.svc.MarkDone(context.Background(), 7, 500)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Zero(t, f.notifier.confirmPrompts)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, models.RequestStatusPending, f.requests.byID[7].Status)
			assert.Equal(t, 1, f.notifier.confirmPrompts)
		})
	}
}

func TestMarkDoneLostRace(t *testing.T) {
	f := newFixture(models.RequestStatusAssigned)
	f.requests.transitionErr = requestRepo.ErrStatusConflict

	err := f.svc.MarkDone(context.Background(), 7, 500)
	assert.ErrorIs(t, err, ErrAlreadyPending)
}

func TestConfirmWrongClient(t *testing.T) {
	f := newFixture(models.RequestStatusPending)

	err := f.svc.Confirm(context.Background(), 7, 901)
	assert.ErrorIs(t, err, ErrNotYourRequest)
}

func TestConfirmCompletes(t *testing.T) {
	f := newFixture(models.RequestStatusPending)

	require.NoError(t, f.svc.Confirm(context.Background(), 7, 900))

	stored := f.requests.byID[7]
	assert.Equal(t, models.RequestStatusCompleted, stored.Status)
	require.NotNil(t, stored.CompletedAt)
	assert.Equal(t, 1, f.masters.byID[1].OrdersCompleted)

	assert.Equal(t, 1, f.notifier.reviewPrompts)
	assert.Equal(t, 1, f.notifier.completedMaster)
	assert.Zero(t, f.notifier.autoCompleted)
	// One completion away from novice keeps the tier untouched.
	assert.Empty(t, f.masters.sets)
}

func TestConfirmTwice(t *testing.T) {
	f := newFixture(models.RequestStatusPending)

	require.NoError(t, f.svc.Confirm(context.Background(), 7, 900))
	err := f.svc.Confirm(context.Background(), 7, 900)
	assert.ErrorIs(t, err, ErrInvalidState)
	assert.Equal(t, 1, f.notifier.reviewPrompts)
}

func TestConfirmPromotesSkillTier(t *testing.T) {
	tests := []struct {
		name   string
		before int
		tier   string
		want   string
	}{
		{name: "twentieth order", before: 19, tier: models.SkillTierNovice, want: models.SkillTierMaster},
		{name: "fiftieth order", before: 49, tier: models.SkillTierMaster, want: models.SkillTierProfessional},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(models.RequestStatusPending)
			f.masters.byID[1].OrdersCompleted = tt.before
			f.masters.byID[1].SkillTier = tt.tier

			require.NoError(t, f.svc.Confirm(context.Background(), 7, 900))
			require.Len(t, f.masters.sets, 1)
			assert.Equal(t, bson.M{"skill_tier": tt.want}, f.masters.sets[0])
		})
	}
}

func TestConfirmReviewPromptFiresOnce(t *testing.T) {
	f := newFixture(models.RequestStatusPending)
	f.requests.reviewClaimed[7] = true

	require.NoError(t, f.svc.Confirm(context.Background(), 7, 900))
	assert.Zero(t, f.notifier.reviewPrompts)
	assert.Equal(t, 1, f.notifier.completedMaster)
}

func TestConfirmMasterStatsFailure(t *testing.T) {
	f := newFixture(models.RequestStatusPending)
	f.masters.incrErr = errors.New("mongo down")

	err := f.svc.Confirm(context.Background(), 7, 900)
	assert.ErrorContains(t, err, "failed to update master stats")
	// The status flip itself is already committed.
	assert.Equal(t, models.RequestStatusCompleted, f.requests.byID[7].Status)
}

func TestAutoComplete(t *testing.T) {
	f := newFixture(models.RequestStatusPending)

	require.NoError(t, f.svc.AutoComplete(context.Background(), 7))
	assert.Equal(t, models.RequestStatusCompleted, f.requests.byID[7].Status)
	assert.Equal(t, 1, f.notifier.autoCompleted)
	assert.Equal(t, 1, f.notifier.reviewPrompts)
	assert.Equal(t, 1, f.notifier.completedMaster)
}

func TestAutoCompleteAlreadyHandled(t *testing.T) {
	f := newFixture(models.RequestStatusAssigned)

	// The client disputed while the sweep was queued; nothing to do.
	require.NoError(t, f.svc.AutoComplete(context.Background(), 7))
	assert.Equal(t, models.RequestStatusAssigned, f.requests.byID[7].Status)
	assert.Zero(t, f.notifier.autoCompleted)
}

func TestDispute(t *testing.T) {
	f := newFixture(models.RequestStatusPending)

	require.NoError(t, f.svc.Dispute(context.Background(), 7, 900))
	assert.Equal(t, models.RequestStatusAssigned, f.requests.byID[7].Status)
	assert.Equal(t, 1, f.notifier.disputeNotices)
	require.Len(t, f.admin.notes, 1)
	assert.Contains(t, f.admin.notes[0], "Спор по заявке #7")
}

func TestDisputeWrongClient(t *testing.T) {
	f := newFixture(models.RequestStatusPending)

	err := f.svc.Dispute(context.Background(), 7, 901)
	assert.ErrorIs(t, err, ErrNotYourRequest)
}

func TestDisputeNotPending(t *testing.T) {
	f := newFixture(models.RequestStatusAssigned)

	err := f.svc.Dispute(context.Background(), 7, 900)
	assert.ErrorIs(t, err, ErrInvalidState)
	assert.Zero(t, f.notifier.disputeNotices)
}
