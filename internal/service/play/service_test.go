package play

import (
	"context"
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"reviewlottery-service/internal/domain/campaign"
	"reviewlottery-service/internal/domain/participant"
	"reviewlottery-service/internal/domain/prize"
	"reviewlottery-service/internal/domain/winner"
	xerrors "reviewlottery-service/internal/pkg/errors"
	ws "reviewlottery-service/internal/websocket"
)

const testCampaignID = int64(10)

var claimCodeFormat = regexp.MustCompile(`^[A-Z0-9]{4}-[A-Z0-9]{4}-[A-Z0-9]{4}$`)

// ========== Fakes ==========

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

type fakeParticipantRepo struct {
	byID map[int64]*participant.Participant
}

func (r *fakeParticipantRepo) Create(ctx context.Context, p *participant.Participant) error {
	r.byID[p.ID] = p
	return nil
}

func (r *fakeParticipantRepo) FindByID(ctx context.Context, id int64) (*participant.Participant, error) {
	p, ok := r.byID[id]
	if !ok {
		return nil, xerrors.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *fakeParticipantRepo) FindByEmailAndCampaign(ctx context.Context, email string, campaignID int64) (*participant.Participant, error) {
	for _, p := range r.byID {
		if p.CampaignID == campaignID && p.Email == email {
			cp := *p
			return &cp, nil
		}
	}
	return nil, xerrors.ErrNotFound
}

func (r *fakeParticipantRepo) ListByCampaign(ctx context.Context, campaignID int64, page, pageSize int) ([]participant.Participant, int64, error) {
	return nil, 0, nil
}

func (r *fakeParticipantRepo) UpdateProgress(ctx context.Context, p *participant.Participant) error {
	return nil
}

func (r *fakeParticipantRepo) MarkPlayed(ctx context.Context, id int64) error {
	p, ok := r.byID[id]
	if !ok {
		return xerrors.ErrNotFound
	}
	if p.HasPlayed {
		return xerrors.ErrAlreadyPlayed
	}
	p.HasPlayed = true
	return nil
}

func (r *fakeParticipantRepo) SaveReview(ctx context.Context, id int64, rating int, comment string) error {
	return nil
}

func (r *fakeParticipantRepo) Anonymize(ctx context.Context, id int64) error { return nil }

type fakePrizeRepo struct {
	prizes []prize.Prize
}

func (r *fakePrizeRepo) Create(ctx context.Context, p *prize.Prize) error { return nil }

func (r *fakePrizeRepo) FindByID(ctx context.Context, id int64) (*prize.Prize, error) {
	for i := range r.prizes {
		if r.prizes[i].ID == id {
			cp := r.prizes[i]
			return &cp, nil
		}
	}
	return nil, xerrors.ErrNotFound
}

func (r *fakePrizeRepo) ListByCampaign(ctx context.Context, campaignID int64) ([]prize.Prize, error) {
	out := make([]prize.Prize, len(r.prizes))
	copy(out, r.prizes)
	return out, nil
}

func (r *fakePrizeRepo) Update(ctx context.Context, p *prize.Prize) error { return nil }
func (r *fakePrizeRepo) Delete(ctx context.Context, id int64) error       { return nil }

type fakeWinnerRepo struct {
	created    []*winner.Winner
	outOfStock bool
}

func (r *fakeWinnerRepo) CreateAwardingPrize(ctx context.Context, w *winner.Winner) error {
	if r.outOfStock {
		return xerrors.ErrOutOfStock
	}
	w.ID = int64(len(r.created) + 1)
	r.created = append(r.created, w)
	return nil
}

func (r *fakeWinnerRepo) FindByID(ctx context.Context, id int64) (*winner.Winner, error) {
	return nil, xerrors.ErrNotFound
}

func (r *fakeWinnerRepo) FindByClaimCode(ctx context.Context, code string) (*winner.Winner, error) {
	return nil, xerrors.ErrNotFound
}

func (r *fakeWinnerRepo) List(ctx context.Context, filters *winner.WinnerListFilters) ([]winner.Winner, int64, error) {
	return nil, 0, nil
}

func (r *fakeWinnerRepo) UpdateStatus(ctx context.Context, w *winner.Winner) error { return nil }

func (r *fakeWinnerRepo) CancelRestoringStock(ctx context.Context, w *winner.Winner) error {
	return nil
}

func (r *fakeWinnerRepo) FindExpiredPending(ctx context.Context, now time.Time, limit int) ([]winner.Winner, error) {
	return nil, nil
}

type fakeSender struct {
	mu   sync.Mutex
	sent []string
}

func (s *fakeSender) Send(to, subject, bodyHTML string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, to)
	return nil
}

func (s *fakeSender) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sent)
}

type recordingHub struct {
	events []*ws.Event
}

func (h *recordingHub) Publish(event *ws.Event) { h.events = append(h.events, event) }

func (h *recordingHub) types() []string {
	out := make([]string, len(h.events))
	for i, e := range h.events {
		out[i] = e.Type
	}
	return out
}

// ========== Helpers ==========

type fixture struct {
	svc          *PlayService
	campaigns    *fakeCampaignRepo
	participants *fakeParticipantRepo
	winners      *fakeWinnerRepo
	sender       *fakeSender
	hub          *recordingHub
}

func newFixture(gameType campaign.GameType, prizes []prize.Prize) *fixture {
	conditions := []campaign.Condition{
		{ID: 101, CampaignID: testCampaignID, Type: campaign.ConditionNewsletter, Order: 1, IsRequired: true, Label: "Join the newsletter"},
	}
	campaigns := &fakeCampaignRepo{campaigns: map[int64]*campaign.Campaign{
		testCampaignID: {
			ID:                   testCampaignID,
			StoreID:              20,
			Active:               true,
			GameType:             gameType,
			PrizeClaimExpiryDays: 7,
			Conditions:           conditions,
		},
	}}
	participants := &fakeParticipantRepo{byID: map[int64]*participant.Participant{}}
	winners := &fakeWinnerRepo{}
	sender := &fakeSender{}
	hub := &recordingHub{}

	svc := NewPlayService(campaigns, participants, &fakePrizeRepo{prizes: prizes}, winners, sender, hub, zap.NewNop())
	return &fixture{svc: svc, campaigns: campaigns, participants: participants, winners: winners, sender: sender, hub: hub}
}

// registerReady seeds a participant who completed the required condition.
func (f *fixture) registerReady(email string) *participant.Participant {
	p := &participant.Participant{
		ID:         1,
		CampaignID: testCampaignID,
		Email:      email,
		CompletedConditions: []participant.CompletedCondition{
			{ConditionID: 101, Type: string(campaign.ConditionNewsletter), CompletedAt: time.Now()},
		},
	}
	f.participants.byID[p.ID] = p
	return p
}

func singlePrize(probability float64, remaining int) []prize.Prize {
	return []prize.Prize{{
		ID:          5,
		CampaignID:  testCampaignID,
		Name:        "Free Coffee",
		Probability: probability,
		Quantity:    10,
		Remaining:   remaining,
		Color:       "#ffcc00",
	}}
}

// ========== Tests ==========

func TestPlay_GuaranteedWin(t *testing.T) {
	f := newFixture(campaign.GameTypeWheel, singlePrize(100, 5))
	p := f.registerReady("anna@example.com")

	resp, err := f.svc.Play(context.Background(), testCampaignID, &PlayRequest{Email: "anna@example.com"})
	require.NoError(t, err)

	assert.True(t, resp.Won)
	assert.Equal(t, int64(5), resp.PrizeID)
	assert.Equal(t, "Free Coffee", resp.PrizeName)
	assert.Regexp(t, claimCodeFormat, resp.ClaimCode)
	assert.NotEmpty(t, resp.Reference)
	assert.NotNil(t, resp.Game)

	require.NotNil(t, resp.ExpiresAt)
	assert.WithinDuration(t, time.Now().AddDate(0, 0, 7), *resp.ExpiresAt, time.Minute)

	require.Len(t, f.winners.created, 1)
	assert.Equal(t, winner.StatusPending, f.winners.created[0].Status)
	assert.Equal(t, p.ID, f.winners.created[0].ParticipantID)

	assert.True(t, f.participants.byID[p.ID].HasPlayed)
	assert.Equal(t, []string{ws.EventPrizeWon, ws.EventParticipantPlayed}, f.hub.types())

	assert.Eventually(t, func() bool { return f.sender.count() == 1 }, time.Second, 10*time.Millisecond)
}

func TestPlay_UnregisteredParticipant(t *testing.T) {
	f := newFixture(campaign.GameTypeWheel, singlePrize(100, 5))

	_, err := f.svc.Play(context.Background(), testCampaignID, &PlayRequest{Email: "nobody@example.com"})
	assert.ErrorIs(t, err, xerrors.ErrConditionsIncomplete)
}

func TestPlay_RequiredConditionIncomplete(t *testing.T) {
	f := newFixture(campaign.GameTypeWheel, singlePrize(100, 5))
	p := f.registerReady("anna@example.com")
	p.CompletedConditions = nil

	_, err := f.svc.Play(context.Background(), testCampaignID, &PlayRequest{Email: "anna@example.com"})
	assert.ErrorIs(t, err, xerrors.ErrConditionsIncomplete)
	assert.False(t, f.participants.byID[p.ID].HasPlayed)
}

func TestPlay_SecondPlayRejected(t *testing.T) {
	f := newFixture(campaign.GameTypeWheel, singlePrize(100, 5))
	f.registerReady("anna@example.com")
	ctx := context.Background()

	_, err := f.svc.Play(ctx, testCampaignID, &PlayRequest{Email: "anna@example.com"})
	require.NoError(t, err)

	_, err = f.svc.Play(ctx, testCampaignID, &PlayRequest{Email: "anna@example.com"})
	assert.ErrorIs(t, err, xerrors.ErrAlreadyPlayed)
	assert.Len(t, f.winners.created, 1)
}

func TestPlay_InactiveCampaign(t *testing.T) {
	f := newFixture(campaign.GameTypeWheel, singlePrize(100, 5))
	f.registerReady("anna@example.com")
	f.campaigns.campaigns[testCampaignID].Active = false

	_, err := f.svc.Play(context.Background(), testCampaignID, &PlayRequest{Email: "anna@example.com"})
	assert.ErrorIs(t, err, xerrors.ErrCampaignInactive)
}

func TestPlay_AllPrizesOutOfStockIsLoss(t *testing.T) {
	f := newFixture(campaign.GameTypeWheel, singlePrize(100, 0))
	p := f.registerReady("anna@example.com")

	resp, err := f.svc.Play(context.Background(), testCampaignID, &PlayRequest{Email: "anna@example.com"})
	require.NoError(t, err)

	assert.False(t, resp.Won)
	assert.Empty(t, resp.ClaimCode)
	assert.NotNil(t, resp.Game)
	assert.Empty(t, f.winners.created)

	// The play is still consumed on a loss.
	assert.True(t, f.participants.byID[p.ID].HasPlayed)
	assert.Equal(t, []string{ws.EventParticipantPlayed}, f.hub.types())
}

func TestPlay_StockRaceResolvesAsLoss(t *testing.T) {
	f := newFixture(campaign.GameTypeWheel, singlePrize(100, 1))
	f.winners.outOfStock = true
	f.registerReady("anna@example.com")

	resp, err := f.svc.Play(context.Background(), testCampaignID, &PlayRequest{Email: "anna@example.com"})
	require.NoError(t, err)

	assert.False(t, resp.Won)
	assert.Empty(t, resp.ClaimCode)
	assert.NotNil(t, resp.Game)
	assert.Empty(t, f.winners.created)
	assert.Equal(t, []string{ws.EventParticipantPlayed}, f.hub.types())
}

func TestPlay_SlotLossNeverLinesUpThree(t *testing.T) {
	prizes := singlePrize(0, 5)
	f := newFixture(campaign.GameTypeSlot, prizes)
	f.registerReady("anna@example.com")

	resp, err := f.svc.Play(context.Background(), testCampaignID, &PlayRequest{Email: "anna@example.com"})
	require.NoError(t, err)
	require.False(t, resp.Won)
	require.NotNil(t, resp.Game)
}

func TestPlay_ScratchPayloadCarriesZones(t *testing.T) {
	f := newFixture(campaign.GameTypeScratch, singlePrize(100, 5))
	f.registerReady("anna@example.com")

	resp, err := f.svc.Play(context.Background(), testCampaignID, &PlayRequest{Email: "anna@example.com"})
	require.NoError(t, err)
	require.True(t, resp.Won)

	payload, ok := resp.Game.(map[string]interface{})
	require.True(t, ok)
	assert.Contains(t, payload, "pattern")
	assert.Contains(t, payload, "zones")
}
