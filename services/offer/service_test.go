package offer

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	masterRepo "mastera/database/repository/master"
	offerRepo "mastera/database/repository/offer"
	orderRepo "mastera/database/repository/order"
	requestRepo "mastera/database/repository/request"
	"mastera/models"
	"mastera/services/notify"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type fakeMasters struct {
	masterRepo.MasterRepository
	byTelegram  map[int64]*models.Master
	byID        map[int64]*models.Master
	deactivated []int64
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

func (f *fakeMasters) SetActive(id int64, active bool) error {
	if !active {
		f.deactivated = append(f.deactivated, id)
	}
	return nil
}

type fakeRequests struct {
	requestRepo.RequestRepository
	byID map[int64]*models.Request
}

func (f *fakeRequests) GetByID(id int64) (*models.Request, error) {
	if r, ok := f.byID[id]; ok {
		cp := *r
		return &cp, nil
	}
	return nil, fmt.Errorf("failed to fetch request with id %d: %w", id, mongo.ErrNoDocuments)
}

func offerKey(requestID, masterID int64) string {
	return fmt.Sprintf("%d:%d", requestID, masterID)
}

type fakeOffers struct {
	offerRepo.OfferRepository
	created  []models.Offer
	existing map[string]*models.Offer
	skipped  []string
}

func (f *fakeOffers) Create(o *models.Offer) error {
	f.created = append(f.created, *o)
	return nil
}

func (f *fakeOffers) GetByRequestAndMaster(requestID, masterID int64) (*models.Offer, error) {
	if o, ok := f.existing[offerKey(requestID, masterID)]; ok {
		cp := *o
		return &cp, nil
	}
	return nil, fmt.Errorf("failed to fetch offer: %w", mongo.ErrNoDocuments)
}

func (f *fakeOffers) MarkSkipped(requestID, masterID int64) error {
	f.skipped = append(f.skipped, offerKey(requestID, masterID))
	return nil
}

type claimCall struct {
	requestID int64
	masterID  int64
	debit     bool
}

type fakeOrders struct {
	err    error
	claims []claimCall
}

func (f *fakeOrders) Claim(ctx context.Context, requestID, masterID int64, debitFreeOrder bool) error {
	f.claims = append(f.claims, claimCall{requestID, masterID, debitFreeOrder})
	return f.err
}

type fakeSequence struct {
	n     int64
	fails int
}

func (f *fakeSequence) Next(name string) (int64, error) {
	if f.fails > 0 {
		f.fails--
		return 0, errors.New("counter unavailable")
	}
	f.n++
	return f.n, nil
}

type fixedMatching struct {
	masters []models.Master
	err     error
}

func (f *fixedMatching) SelectMasters(*models.Request) ([]models.Master, error) {
	return f.masters, f.err
}

// notifierRecorder counts deliveries and can fail NewOffer per master.
type notifierRecorder struct {
	offeredTo      []int64
	offerErrs      map[int64]error
	assignedClient int
	assignedMaster int
}

func (n *notifierRecorder) NewOffer(_ context.Context, master *models.Master, _ *models.Request) error {
	n.offeredTo = append(n.offeredTo, master.ID)
	return n.offerErrs[master.ID]
}

func (n *notifierRecorder) RequestAssignedClient(context.Context, *models.Request, *models.Master) error {
	n.assignedClient++
	return nil
}

func (n *notifierRecorder) RequestAssignedMaster(context.Context, *models.Master, *models.Request) error {
	n.assignedMaster++
	return nil
}

func (n *notifierRecorder) ConfirmPrompt(context.Context, *models.Request) error    { return nil }
func (n *notifierRecorder) AutoCompleted(context.Context, *models.Request) error    { return nil }
func (n *notifierRecorder) ReviewPrompt(context.Context, *models.Request) error     { return nil }
func (n *notifierRecorder) DisputeOpenedMaster(context.Context, *models.Master, *models.Request) error {
	return nil
}
func (n *notifierRecorder) OrderCompletedMaster(context.Context, *models.Master, *models.Request) error {
	return nil
}

type adminRecorder struct {
	notes []string
}

func (a *adminRecorder) NotifyAdmin(text string) {
	a.notes = append(a.notes, text)
}

type fixture struct {
	svc      *DefaultOfferService
	masters  *fakeMasters
	requests *fakeRequests
	offers   *fakeOffers
	orders   *fakeOrders
	sequence *fakeSequence
	matching *fixedMatching
	notifier *notifierRecorder
	admin    *adminRecorder
}

func newFixture() *fixture {
	f := &fixture{
		masters:  &fakeMasters{byTelegram: map[int64]*models.Master{}, byID: map[int64]*models.Master{}},
		requests: &fakeRequests{byID: map[int64]*models.Request{}},
		offers:   &fakeOffers{existing: map[string]*models.Offer{}},
		orders:   &fakeOrders{},
		sequence: &fakeSequence{},
		matching: &fixedMatching{},
		notifier: &notifierRecorder{offerErrs: map[int64]error{}},
		admin:    &adminRecorder{},
	}
	f.svc = &DefaultOfferService{
		Requests: f.requests,
		Masters:  f.masters,
		Offers:   f.offers,
		Orders:   f.orders,
		Sequence: f.sequence,
		Matching: f.matching,
		Notifier: f.notifier,
		Admin:    f.admin,
		Logger:   zap.NewNop(),
	}
	return f
}

func TestBroadcastNoMatchTellsAdmin(t *testing.T) {
	f := newFixture()
	req := &models.Request{ID: 7, Category: "Сантехника", District: "Центральный"}

	sent, err := f.svc.Broadcast(context.Background(), req)
	require.NoError(t, err)
	assert.Zero(t, sent)
	assert.Empty(t, f.offers.created)
	require.Len(t, f.admin.notes, 1)
	assert.Contains(t, f.admin.notes[0], "подходящих мастеров нет")
}

func TestBroadcastPersistsOffersBeforeDelivery(t *testing.T) {
	f := newFixture()
	f.matching.masters = []models.Master{{ID: 1}, {ID: 2}}
	f.notifier.offerErrs[2] = errors.New("telegram: 500")

	sent, err := f.svc.Broadcast(context.Background(), &models.Request{ID: 7})
	require.NoError(t, err)
	assert.Equal(t, 2, sent)

	require.Len(t, f.offers.created, 2)
	for _, o := range f.offers.created {
		assert.Equal(t, int64(7), o.RequestID)
		assert.Equal(t, models.OfferStatusSent, o.Status)
	}
	assert.Equal(t, []int64{1, 2}, f.notifier.offeredTo)
	// A transient delivery failure never deactivates the master.
	assert.Empty(t, f.masters.deactivated)
}

func TestBroadcastDeactivatesUnreachableMaster(t *testing.T) {
	f := newFixture()
	f.matching.masters = []models.Master{{ID: 1}, {ID: 2}}
	f.notifier.offerErrs[1] = fmt.Errorf("%w: telegram: bot was blocked by the user", notify.ErrRecipientUnreachable)

	sent, err := f.svc.Broadcast(context.Background(), &models.Request{ID: 7})
	require.NoError(t, err)
	assert.Equal(t, 2, sent)
	assert.Equal(t, []int64{1}, f.masters.deactivated)
}

func TestBroadcastSkipsMasterOnMintFailure(t *testing.T) {
	f := newFixture()
	f.matching.masters = []models.Master{{ID: 1}, {ID: 2}}
	f.sequence.fails = 1

	sent, err := f.svc.Broadcast(context.Background(), &models.Request{ID: 7})
	require.NoError(t, err)
	assert.Equal(t, 1, sent)
	require.Len(t, f.offers.created, 1)
	assert.Equal(t, int64(2), f.offers.created[0].MasterID)
	assert.Equal(t, []int64{2}, f.notifier.offeredTo)
}

func TestBroadcastMatchingError(t *testing.T) {
	f := newFixture()
	f.matching.err = errors.New("mongo down")

	_, err := f.svc.Broadcast(context.Background(), &models.Request{ID: 7})
	assert.ErrorContains(t, err, "failed to select masters")
}

func claimFixture(t *testing.T, subUntil *time.Time) *fixture {
	t.Helper()
	f := newFixture()
	f.masters.byTelegram[500] = &models.Master{ID: 1, TelegramID: 500, FullName: "Иван Петров", FreeOrdersLeft: 3, SubUntil: subUntil}
	f.masters.byID[1] = &models.Master{ID: 1, TelegramID: 500, FullName: "Иван Петров", FreeOrdersLeft: 2, SubUntil: subUntil}
	f.offers.existing[offerKey(7, 1)] = &models.Offer{ID: 1, RequestID: 7, MasterID: 1, Status: models.OfferStatusSent}
	f.requests.byID[7] = &models.Request{ID: 7, ClientID: 900, Status: models.RequestStatusAssigned, MasterID: 1}
	return f
}

func TestClaimNotMaster(t *testing.T) {
	f := newFixture()

	_, err := f.svc.Claim(context.Background(), 7, 500)
	assert.ErrorIs(t, err, ErrNotMaster)
	assert.Empty(t, f.orders.claims)
}

func TestClaimForeignOffer(t *testing.T) {
	f := claimFixture(t, nil)
	delete(f.offers.existing, offerKey(7, 1))

	_, err := f.svc.Claim(context.Background(), 7, 500)
	assert.ErrorIs(t, err, ErrForeignOffer)
	assert.Empty(t, f.orders.claims)
}

func TestClaimLostRace(t *testing.T) {
	f := claimFixture(t, nil)
	f.orders.err = orderRepo.ErrAlreadyTaken

	_, err := f.svc.Claim(context.Background(), 7, 500)
	assert.ErrorIs(t, err, ErrAlreadyTaken)
	assert.Zero(t, f.notifier.assignedClient)
}

func TestClaimQuotaExhausted(t *testing.T) {
	f := claimFixture(t, nil)
	f.orders.err = orderRepo.ErrNoFreeOrders

	_, err := f.svc.Claim(context.Background(), 7, 500)
	assert.ErrorIs(t, err, ErrQuotaExhausted)
}

func TestClaimDebitsFreeOrderWithoutSubscription(t *testing.T) {
	f := claimFixture(t, nil)

	res, err := f.svc.Claim(context.Background(), 7, 500)
	require.NoError(t, err)

	require.Len(t, f.orders.claims, 1)
	assert.Equal(t, claimCall{requestID: 7, masterID: 1, debit: true}, f.orders.claims[0])
	assert.True(t, res.DebitedFreeOrder)
	// The result carries the post-transaction master state.
	assert.Equal(t, 2, res.Master.FreeOrdersLeft)

	assert.Equal(t, 1, f.notifier.assignedClient)
	assert.Equal(t, 1, f.notifier.assignedMaster)
	require.Len(t, f.admin.notes, 1)
	assert.Contains(t, f.admin.notes[0], "закреплена за мастером")
}

func TestClaimSubscriberKeepsFreeOrders(t *testing.T) {
	until := time.Now().Add(24 * time.Hour)
	f := claimFixture(t, &until)

	res, err := f.svc.Claim(context.Background(), 7, 500)
	require.NoError(t, err)
	require.Len(t, f.orders.claims, 1)
	assert.False(t, f.orders.claims[0].debit)
	assert.False(t, res.DebitedFreeOrder)
}

// racingOrders honors the compare-and-set claim contract under a mutex,
// the way the transactional repository does against Mongo.
type racingOrders struct {
	mu      sync.Mutex
	claimed bool
	debits  int
}

func (f *racingOrders) Claim(ctx context.Context, requestID, masterID int64, debitFreeOrder bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.claimed {
		return orderRepo.ErrAlreadyTaken
	}
	f.claimed = true
	if debitFreeOrder {
		f.debits++
	}
	return nil
}

func TestClaimSingleWinnerUnderRace(t *testing.T) {
	f := newFixture()
	race := &racingOrders{}
	f.svc.Orders = race
	f.requests.byID[7] = &models.Request{ID: 7, ClientID: 900, Status: models.RequestStatusNew}

	const masters = 5
	for i := int64(1); i <= masters; i++ {
		f.masters.byTelegram[500+i] = &models.Master{ID: i, TelegramID: 500 + i, FreeOrdersLeft: 3}
		f.masters.byID[i] = &models.Master{ID: i, TelegramID: 500 + i, FreeOrdersLeft: 2}
		f.offers.existing[offerKey(7, i)] = &models.Offer{RequestID: 7, MasterID: i, Status: models.OfferStatusSent}
	}

	var wins, losses int64
	var wg sync.WaitGroup
	for i := int64(1); i <= masters; i++ {
		wg.Add(1)
		go func(telegramID int64) {
			defer wg.Done()
			_, err := f.svc.Claim(context.Background(), 7, telegramID)
			switch {
			case err == nil:
				atomic.AddInt64(&wins, 1)
			case errors.Is(err, ErrAlreadyTaken):
				atomic.AddInt64(&losses, 1)
			default:
				t.Errorf("unexpected claim error: %v", err)
			}
		}(500 + i)
	}
	wg.Wait()

	assert.EqualValues(t, 1, wins)
	assert.EqualValues(t, masters-1, losses)
	assert.Equal(t, 1, race.debits)
}

func TestSkip(t *testing.T) {
	f := claimFixture(t, nil)

	require.NoError(t, f.svc.Skip(context.Background(), 7, 500))
	assert.Equal(t, []string{offerKey(7, 1)}, f.offers.skipped)
}

func TestSkipNotMaster(t *testing.T) {
	f := newFixture()

	err := f.svc.Skip(context.Background(), 7, 500)
	assert.ErrorIs(t, err, ErrNotMaster)
}
