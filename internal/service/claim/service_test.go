package claim

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"reviewlottery-service/internal/domain/brand"
	"reviewlottery-service/internal/domain/campaign"
	"reviewlottery-service/internal/domain/winner"
	xerrors "reviewlottery-service/internal/pkg/errors"
	ws "reviewlottery-service/internal/websocket"
)

const (
	testMerchantID = int64(1)
	testBrandID    = int64(30)
	testStoreID    = int64(20)
	testCampaignID = int64(10)
)

// ========== Fakes ==========

type fakeWinnerRepo struct {
	winners       map[int64]*winner.Winner
	statusUpdates []winner.WinnerStatus
	cancelled     []int64
}

func newFakeWinnerRepo(items ...*winner.Winner) *fakeWinnerRepo {
	r := &fakeWinnerRepo{winners: map[int64]*winner.Winner{}}
	for _, w := range items {
		r.winners[w.ID] = w
	}
	return r
}

func (r *fakeWinnerRepo) CreateAwardingPrize(ctx context.Context, w *winner.Winner) error {
	r.winners[w.ID] = w
	return nil
}

func (r *fakeWinnerRepo) FindByID(ctx context.Context, id int64) (*winner.Winner, error) {
	w, ok := r.winners[id]
	if !ok {
		return nil, xerrors.ErrNotFound
	}
	cp := *w
	return &cp, nil
}

func (r *fakeWinnerRepo) FindByClaimCode(ctx context.Context, code string) (*winner.Winner, error) {
	for _, w := range r.winners {
		if w.ClaimCode == code {
			cp := *w
			return &cp, nil
		}
	}
	return nil, xerrors.ErrNotFound
}

func (r *fakeWinnerRepo) List(ctx context.Context, filters *winner.WinnerListFilters) ([]winner.Winner, int64, error) {
	var out []winner.Winner
	for _, w := range r.winners {
		if filters.CampaignID != nil && w.CampaignID != *filters.CampaignID {
			continue
		}
		out = append(out, *w)
	}
	return out, int64(len(out)), nil
}

func (r *fakeWinnerRepo) UpdateStatus(ctx context.Context, w *winner.Winner) error {
	stored, ok := r.winners[w.ID]
	if !ok {
		return xerrors.ErrNotFound
	}
	stored.Status = w.Status
	stored.ClaimedAt = w.ClaimedAt
	r.statusUpdates = append(r.statusUpdates, w.Status)
	return nil
}

func (r *fakeWinnerRepo) CancelRestoringStock(ctx context.Context, w *winner.Winner) error {
	stored, ok := r.winners[w.ID]
	if !ok {
		return xerrors.ErrNotFound
	}
	if stored.Status != winner.StatusPending {
		return xerrors.ErrConflict
	}
	stored.Status = winner.StatusCancelled
	w.Status = winner.StatusCancelled
	r.cancelled = append(r.cancelled, w.ID)
	return nil
}

func (r *fakeWinnerRepo) FindExpiredPending(ctx context.Context, now time.Time, limit int) ([]winner.Winner, error) {
	var out []winner.Winner
	for _, w := range r.winners {
		if w.Status == winner.StatusPending && w.ExpiresAt.Before(now) {
			out = append(out, *w)
		}
		if len(out) >= limit {
			break
		}
	}
	return out, nil
}

type fakeCampaignRepo struct {
	campaigns map[int64]*campaign.Campaign
}

func (r *fakeCampaignRepo) Create(ctx context.Context, c *campaign.Campaign) error { return nil }

func (r *fakeCampaignRepo) FindByID(ctx context.Context, id int64) (*campaign.Campaign, error) {
	c, ok := r.campaigns[id]
	if !ok {
		return nil, xerrors.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (r *fakeCampaignRepo) FindByIDWithConditions(ctx context.Context, id int64) (*campaign.Campaign, error) {
	return r.FindByID(ctx, id)
}

func (r *fakeCampaignRepo) List(ctx context.Context, filters *campaign.CampaignListFilters) ([]campaign.Campaign, int64, error) {
	return nil, 0, nil
}

func (r *fakeCampaignRepo) Update(ctx context.Context, c *campaign.Campaign) error    { return nil }
func (r *fakeCampaignRepo) SetActive(ctx context.Context, id int64, active bool) error { return nil }
func (r *fakeCampaignRepo) Delete(ctx context.Context, id int64) error                 { return nil }

func (r *fakeCampaignRepo) Stats(ctx context.Context, id int64) (*campaign.CampaignStats, error) {
	return &campaign.CampaignStats{}, nil
}

func (r *fakeCampaignRepo) CreateCondition(ctx context.Context, cond *campaign.Condition) error {
	return nil
}

func (r *fakeCampaignRepo) ListConditions(ctx context.Context, campaignID int64) ([]campaign.Condition, error) {
	return nil, nil
}

func (r *fakeCampaignRepo) DeleteCondition(ctx context.Context, id int64) error { return nil }

type fakeStoreRepo struct {
	stores map[int64]*brand.Store
}

func (r *fakeStoreRepo) Create(ctx context.Context, s *brand.Store) error { return nil }

func (r *fakeStoreRepo) FindByID(ctx context.Context, id int64) (*brand.Store, error) {
	s, ok := r.stores[id]
	if !ok {
		return nil, xerrors.ErrNotFound
	}
	cp := *s
	return &cp, nil
}

func (r *fakeStoreRepo) ListByBrand(ctx context.Context, brandID int64) ([]brand.Store, error) {
	return nil, nil
}

func (r *fakeStoreRepo) Update(ctx context.Context, s *brand.Store) error { return nil }
func (r *fakeStoreRepo) Delete(ctx context.Context, id int64) error       { return nil }

type fakeBrandRepo struct {
	brands map[int64]*brand.Brand
}

func (r *fakeBrandRepo) Create(ctx context.Context, b *brand.Brand) error { return nil }

func (r *fakeBrandRepo) FindByID(ctx context.Context, id int64) (*brand.Brand, error) {
	b, ok := r.brands[id]
	if !ok {
		return nil, xerrors.ErrNotFound
	}
	cp := *b
	return &cp, nil
}

func (r *fakeBrandRepo) ListByMerchant(ctx context.Context, merchantID int64) ([]brand.Brand, error) {
	return nil, nil
}

func (r *fakeBrandRepo) Update(ctx context.Context, b *brand.Brand) error { return nil }
func (r *fakeBrandRepo) Delete(ctx context.Context, id int64) error       { return nil }

type recordingHub struct {
	events []*ws.Event
}

func (h *recordingHub) Publish(event *ws.Event) { h.events = append(h.events, event) }

// ========== Helpers ==========

func ownershipChain() (*fakeCampaignRepo, *fakeStoreRepo, *fakeBrandRepo) {
	campaignRepo := &fakeCampaignRepo{campaigns: map[int64]*campaign.Campaign{
		testCampaignID: {ID: testCampaignID, StoreID: testStoreID, Active: true},
	}}
	storeRepo := &fakeStoreRepo{stores: map[int64]*brand.Store{
		testStoreID: {ID: testStoreID, BrandID: testBrandID},
	}}
	brandRepo := &fakeBrandRepo{brands: map[int64]*brand.Brand{
		testBrandID: {ID: testBrandID, MerchantID: testMerchantID},
	}}
	return campaignRepo, storeRepo, brandRepo
}

func newService(winnerRepo *fakeWinnerRepo) (*ClaimService, *recordingHub) {
	campaignRepo, storeRepo, brandRepo := ownershipChain()
	hub := &recordingHub{}
	svc := NewClaimService(winnerRepo, campaignRepo, storeRepo, brandRepo, hub, zap.NewNop())
	return svc, hub
}

func pendingWinner(id int64, code string, expiresAt time.Time) *winner.Winner {
	return &winner.Winner{
		ID:         id,
		Reference:  "01J0000000000000000000TEST",
		PrizeID:    5,
		CampaignID: testCampaignID,
		ClaimCode:  code,
		Status:     winner.StatusPending,
		ExpiresAt:  expiresAt,
	}
}

// ========== Tests ==========

func TestClaim_Success(t *testing.T) {
	repo := newFakeWinnerRepo(pendingWinner(1, "AB12-CD34-EF56", time.Now().Add(24*time.Hour)))
	svc, hub := newService(repo)

	w, err := svc.Claim(context.Background(), testMerchantID, "ab12-cd34-ef56")
	require.NoError(t, err)

	assert.Equal(t, winner.StatusClaimed, w.Status)
	assert.True(t, w.ClaimedAt.Valid)
	assert.Equal(t, winner.StatusClaimed, repo.winners[1].Status)

	require.Len(t, hub.events, 1)
	assert.Equal(t, ws.EventPrizeClaimed, hub.events[0].Type)
	assert.Equal(t, testCampaignID, hub.events[0].CampaignID)
}

func TestClaim_PastDeadlinePersistsExpiry(t *testing.T) {
	repo := newFakeWinnerRepo(pendingWinner(1, "AB12-CD34-EF56", time.Now().Add(-time.Hour)))
	svc, hub := newService(repo)

	_, err := svc.Claim(context.Background(), testMerchantID, "AB12-CD34-EF56")
	assert.ErrorIs(t, err, xerrors.ErrClaimExpired)

	// The overdue code crossed its deadline unswept; the failed claim
	// must leave the stored row EXPIRED.
	assert.Equal(t, winner.StatusExpired, repo.winners[1].Status)
	assert.Empty(t, hub.events)
}

func TestClaim_AlreadyClaimed(t *testing.T) {
	w := pendingWinner(1, "AB12-CD34-EF56", time.Now().Add(24*time.Hour))
	w.Status = winner.StatusClaimed
	repo := newFakeWinnerRepo(w)
	svc, _ := newService(repo)

	_, err := svc.Claim(context.Background(), testMerchantID, "AB12-CD34-EF56")
	assert.ErrorIs(t, err, xerrors.ErrAlreadyClaimed)
	assert.Empty(t, repo.statusUpdates)
}

func TestClaim_WrongMerchantForbidden(t *testing.T) {
	repo := newFakeWinnerRepo(pendingWinner(1, "AB12-CD34-EF56", time.Now().Add(24*time.Hour)))
	svc, _ := newService(repo)

	_, err := svc.Claim(context.Background(), testMerchantID+1, "AB12-CD34-EF56")
	assert.ErrorIs(t, err, xerrors.ErrForbidden)
	assert.Equal(t, winner.StatusPending, repo.winners[1].Status)
}

func TestClaim_MalformedCode(t *testing.T) {
	repo := newFakeWinnerRepo()
	svc, _ := newService(repo)

	_, err := svc.Claim(context.Background(), testMerchantID, "not-a-code")
	assert.ErrorIs(t, err, xerrors.ErrInvalidInput)
}

func TestLookup_DoesNotMutate(t *testing.T) {
	repo := newFakeWinnerRepo(pendingWinner(1, "AB12-CD34-EF56", time.Now().Add(-time.Hour)))
	svc, _ := newService(repo)

	w, err := svc.Lookup(context.Background(), "AB12-CD34-EF56")
	require.NoError(t, err)
	assert.Equal(t, winner.StatusPending, w.Status)
	assert.Empty(t, repo.statusUpdates)
}

func TestCancel_Pending(t *testing.T) {
	repo := newFakeWinnerRepo(pendingWinner(1, "AB12-CD34-EF56", time.Now().Add(24*time.Hour)))
	svc, _ := newService(repo)

	w, err := svc.Cancel(context.Background(), testMerchantID, 1)
	require.NoError(t, err)
	assert.Equal(t, winner.StatusCancelled, w.Status)
	assert.Equal(t, []int64{1}, repo.cancelled)
}

func TestCancel_ClaimedRejected(t *testing.T) {
	w := pendingWinner(1, "AB12-CD34-EF56", time.Now().Add(24*time.Hour))
	w.Status = winner.StatusClaimed
	repo := newFakeWinnerRepo(w)
	svc, _ := newService(repo)

	_, err := svc.Cancel(context.Background(), testMerchantID, 1)
	assert.ErrorIs(t, err, xerrors.ErrAlreadyClaimed)
	assert.Empty(t, repo.cancelled)
	assert.Equal(t, winner.StatusClaimed, repo.winners[1].Status)
}

func TestListWinners_RequiresCampaignFilter(t *testing.T) {
	svc, _ := newService(newFakeWinnerRepo())

	_, err := svc.ListWinners(context.Background(), testMerchantID, &winner.WinnerListFilters{})
	assert.ErrorIs(t, err, xerrors.ErrInvalidInput)
}

func TestListWinners_DefaultsPagination(t *testing.T) {
	repo := newFakeWinnerRepo(pendingWinner(1, "AB12-CD34-EF56", time.Now().Add(24*time.Hour)))
	svc, _ := newService(repo)

	cid := testCampaignID
	resp, err := svc.ListWinners(context.Background(), testMerchantID, &winner.WinnerListFilters{CampaignID: &cid})
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Page)
	assert.Equal(t, 20, resp.PageSize)
	assert.Equal(t, int64(1), resp.Total)
	assert.Equal(t, 1, resp.TotalPages)
}

func TestSweepExpired(t *testing.T) {
	now := time.Now()
	repo := newFakeWinnerRepo(
		pendingWinner(1, "AB12-CD34-EF56", now.Add(-time.Hour)),
		pendingWinner(2, "GH78-IJ90-KL12", now.Add(-time.Minute)),
		pendingWinner(3, "MN34-OP56-QR78", now.Add(time.Hour)),
	)
	svc, _ := newService(repo)

	count, err := svc.SweepExpired(context.Background(), 100)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	assert.Equal(t, winner.StatusExpired, repo.winners[1].Status)
	assert.Equal(t, winner.StatusExpired, repo.winners[2].Status)
	assert.Equal(t, winner.StatusPending, repo.winners[3].Status)
}
