package participant

import (
	"context"
	"database/sql"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"reviewlottery-service/internal/domain/brand"
	"reviewlottery-service/internal/domain/campaign"
	"reviewlottery-service/internal/domain/participant"
	"reviewlottery-service/internal/domain/review"
	xerrors "reviewlottery-service/internal/pkg/errors"
)

const (
	testMerchantID = int64(1)
	testBrandID    = int64(30)
	testStoreID    = int64(20)
	testCampaignID = int64(10)
)

// ========== Fakes ==========

type fakeParticipantRepo struct {
	byID            map[int64]*participant.Participant
	nextID          int64
	progressUpdates int
	anonymized      []int64
}

func newFakeParticipantRepo() *fakeParticipantRepo {
	return &fakeParticipantRepo{byID: map[int64]*participant.Participant{}, nextID: 1}
}

func (r *fakeParticipantRepo) Create(ctx context.Context, p *participant.Participant) error {
	for _, existing := range r.byID {
		if existing.CampaignID == p.CampaignID && existing.Email == p.Email {
			return xerrors.ErrDuplicateEntry
		}
	}
	p.ID = r.nextID
	r.nextID++
	cp := *p
	r.byID[p.ID] = &cp
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
		if p.CampaignID == campaignID && p.Email == strings.ToLower(email) {
			cp := *p
			return &cp, nil
		}
	}
	return nil, xerrors.ErrNotFound
}

func (r *fakeParticipantRepo) ListByCampaign(ctx context.Context, campaignID int64, page, pageSize int) ([]participant.Participant, int64, error) {
	var out []participant.Participant
	for _, p := range r.byID {
		if p.CampaignID == campaignID {
			out = append(out, *p)
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakeParticipantRepo) UpdateProgress(ctx context.Context, p *participant.Participant) error {
	stored, ok := r.byID[p.ID]
	if !ok {
		return xerrors.ErrNotFound
	}
	stored.CurrentConditionOrder = p.CurrentConditionOrder
	stored.CompletedConditions = append([]participant.CompletedCondition(nil), p.CompletedConditions...)
	r.progressUpdates++
	return nil
}

func (r *fakeParticipantRepo) MarkPlayed(ctx context.Context, id int64) error {
	stored, ok := r.byID[id]
	if !ok {
		return xerrors.ErrNotFound
	}
	if stored.HasPlayed {
		return xerrors.ErrAlreadyPlayed
	}
	stored.HasPlayed = true
	return nil
}

func (r *fakeParticipantRepo) SaveReview(ctx context.Context, id int64, rating int, comment string) error {
	if _, ok := r.byID[id]; !ok {
		return xerrors.ErrNotFound
	}
	return nil
}

func (r *fakeParticipantRepo) Anonymize(ctx context.Context, id int64) error {
	if _, ok := r.byID[id]; !ok {
		return xerrors.ErrNotFound
	}
	r.anonymized = append(r.anonymized, id)
	return nil
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

type fakeReviewRepo struct {
	reviews []review.Review
}

func (r *fakeReviewRepo) Upsert(ctx context.Context, rev *review.Review) error { return nil }

func (r *fakeReviewRepo) FindByEmailAndStore(ctx context.Context, email string, storeID int64) (*review.Review, error) {
	for i := range r.reviews {
		if r.reviews[i].StoreID == storeID && r.reviews[i].AuthorEmail.String == email {
			return &r.reviews[i], nil
		}
	}
	return nil, xerrors.ErrNotFound
}

func (r *fakeReviewRepo) ListByStore(ctx context.Context, storeID int64, page, pageSize int) ([]review.Review, int64, error) {
	return nil, 0, nil
}

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

// ========== Helpers ==========

func testConditions() []campaign.Condition {
	return []campaign.Condition{
		{ID: 101, CampaignID: testCampaignID, Type: campaign.ConditionNewsletter, Order: 1, IsRequired: true, Label: "Join the newsletter"},
		{ID: 102, CampaignID: testCampaignID, Type: campaign.ConditionInstagramFollow, Order: 2, IsRequired: true, Label: "Follow us"},
		{ID: 103, CampaignID: testCampaignID, Type: campaign.ConditionCustomRedirect, Order: 3, IsRequired: false, Label: "Visit our site"},
	}
}

func newService(conditions []campaign.Condition, reviews *fakeReviewRepo) (*ParticipantService, *fakeParticipantRepo) {
	participantRepo := newFakeParticipantRepo()
	campaignRepo := &fakeCampaignRepo{campaigns: map[int64]*campaign.Campaign{
		testCampaignID: {
			ID:         testCampaignID,
			StoreID:    testStoreID,
			Active:     true,
			GameType:   campaign.GameTypeWheel,
			Conditions: conditions,
		},
	}}
	storeRepo := &fakeStoreRepo{stores: map[int64]*brand.Store{
		testStoreID: {ID: testStoreID, BrandID: testBrandID},
	}}
	brandRepo := &fakeBrandRepo{brands: map[int64]*brand.Brand{
		testBrandID: {ID: testBrandID, MerchantID: testMerchantID},
	}}
	if reviews == nil {
		reviews = &fakeReviewRepo{}
	}
	svc := NewParticipantService(participantRepo, campaignRepo, reviews, storeRepo, brandRepo, zap.NewNop())
	return svc, participantRepo
}

// ========== Tests ==========

func TestCheckEligibility_NewVisitor(t *testing.T) {
	svc, repo := newService(testConditions(), nil)

	resp, err := svc.CheckEligibility(context.Background(), testCampaignID, "Anna@Example.com")
	require.NoError(t, err)

	assert.True(t, resp.Eligible)
	assert.False(t, resp.ReadyToPlay)
	require.NotNil(t, resp.NextCondition)
	assert.Equal(t, int64(101), resp.NextCondition.ConditionID)

	// The visit registered the identity with the email lowercased.
	p, err := repo.FindByID(context.Background(), resp.ParticipantID)
	require.NoError(t, err)
	assert.Equal(t, "anna@example.com", p.Email)
}

func TestCheckEligibility_ReturningVisitorKeepsIdentity(t *testing.T) {
	svc, repo := newService(testConditions(), nil)

	first, err := svc.CheckEligibility(context.Background(), testCampaignID, "anna@example.com")
	require.NoError(t, err)
	second, err := svc.CheckEligibility(context.Background(), testCampaignID, "ANNA@example.com")
	require.NoError(t, err)

	assert.Equal(t, first.ParticipantID, second.ParticipantID)
	assert.Len(t, repo.byID, 1)
}

func TestCheckEligibility_InactiveCampaign(t *testing.T) {
	svc, _ := newService(testConditions(), nil)
	svc.campaignRepo.(*fakeCampaignRepo).campaigns[testCampaignID].Active = false

	_, err := svc.CheckEligibility(context.Background(), testCampaignID, "anna@example.com")
	assert.ErrorIs(t, err, xerrors.ErrCampaignInactive)
}

func TestCheckEligibility_AlreadyPlayed(t *testing.T) {
	svc, repo := newService(testConditions(), nil)

	resp, err := svc.CheckEligibility(context.Background(), testCampaignID, "anna@example.com")
	require.NoError(t, err)
	require.NoError(t, repo.MarkPlayed(context.Background(), resp.ParticipantID))

	resp, err = svc.CheckEligibility(context.Background(), testCampaignID, "anna@example.com")
	require.NoError(t, err)
	assert.False(t, resp.Eligible)
	assert.False(t, resp.ReadyToPlay)
}

func TestCompleteCondition_InOrderReachesReady(t *testing.T) {
	svc, _ := newService(testConditions(), nil)
	ctx := context.Background()

	resp, err := svc.CompleteCondition(ctx, testCampaignID, 101, "anna@example.com")
	require.NoError(t, err)
	assert.False(t, resp.ReadyToPlay)
	require.NotNil(t, resp.NextCondition)
	assert.Equal(t, int64(102), resp.NextCondition.ConditionID)

	resp, err = svc.CompleteCondition(ctx, testCampaignID, 102, "anna@example.com")
	require.NoError(t, err)
	// The optional third condition does not gate the play.
	assert.True(t, resp.ReadyToPlay)
	assert.Nil(t, resp.NextCondition)
}

func TestCompleteCondition_OutOfOrderRejected(t *testing.T) {
	svc, repo := newService(testConditions(), nil)

	_, err := svc.CompleteCondition(context.Background(), testCampaignID, 102, "anna@example.com")
	assert.ErrorIs(t, err, xerrors.ErrConditionsIncomplete)
	assert.Zero(t, repo.progressUpdates)
}

func TestCompleteCondition_OptionalSkipsOrderCheck(t *testing.T) {
	svc, _ := newService(testConditions(), nil)

	// The optional condition can be checked off before the required ones.
	resp, err := svc.CompleteCondition(context.Background(), testCampaignID, 103, "anna@example.com")
	require.NoError(t, err)
	assert.False(t, resp.ReadyToPlay)
	require.NotNil(t, resp.NextCondition)
	assert.Equal(t, int64(101), resp.NextCondition.ConditionID)
}

func TestCompleteCondition_Idempotent(t *testing.T) {
	svc, repo := newService(testConditions(), nil)
	ctx := context.Background()

	_, err := svc.CompleteCondition(ctx, testCampaignID, 101, "anna@example.com")
	require.NoError(t, err)
	resp, err := svc.CompleteCondition(ctx, testCampaignID, 101, "anna@example.com")
	require.NoError(t, err)

	assert.Equal(t, 1, repo.progressUpdates)
	require.NotNil(t, resp.NextCondition)
	assert.Equal(t, int64(102), resp.NextCondition.ConditionID)
}

func TestCompleteCondition_UnknownCondition(t *testing.T) {
	svc, _ := newService(testConditions(), nil)

	_, err := svc.CompleteCondition(context.Background(), testCampaignID, 999, "anna@example.com")
	assert.ErrorIs(t, err, xerrors.ErrNotFound)
}

func TestCompleteCondition_AfterPlayRejected(t *testing.T) {
	svc, repo := newService(testConditions(), nil)
	ctx := context.Background()

	resp, err := svc.CheckEligibility(ctx, testCampaignID, "anna@example.com")
	require.NoError(t, err)
	require.NoError(t, repo.MarkPlayed(ctx, resp.ParticipantID))

	_, err = svc.CompleteCondition(ctx, testCampaignID, 101, "anna@example.com")
	assert.ErrorIs(t, err, xerrors.ErrAlreadyPlayed)
}

func TestCompleteCondition_GoogleReviewVerified(t *testing.T) {
	conditions := []campaign.Condition{
		{ID: 201, CampaignID: testCampaignID, Type: campaign.ConditionGoogleReview, Order: 1, IsRequired: true, Label: "Leave a review"},
	}

	t.Run("no synced review", func(t *testing.T) {
		svc, _ := newService(conditions, &fakeReviewRepo{})
		_, err := svc.CompleteCondition(context.Background(), testCampaignID, 201, "anna@example.com")
		assert.ErrorIs(t, err, xerrors.ErrConditionsIncomplete)
	})

	t.Run("review present", func(t *testing.T) {
		reviews := &fakeReviewRepo{reviews: []review.Review{
			{StoreID: testStoreID, AuthorEmail: sql.NullString{String: "anna@example.com", Valid: true}, Rating: 5},
		}}
		svc, _ := newService(conditions, reviews)
		resp, err := svc.CompleteCondition(context.Background(), testCampaignID, 201, "anna@example.com")
		require.NoError(t, err)
		assert.True(t, resp.ReadyToPlay)
	})
}

func TestAnonymize_WrongCampaign(t *testing.T) {
	svc, repo := newService(testConditions(), nil)
	ctx := context.Background()

	resp, err := svc.CheckEligibility(ctx, testCampaignID, "anna@example.com")
	require.NoError(t, err)

	err = svc.Anonymize(ctx, testMerchantID, testCampaignID+1, resp.ParticipantID)
	assert.ErrorIs(t, err, xerrors.ErrNotFound)
	assert.Empty(t, repo.anonymized)
}

func TestAnonymize_OwnedParticipant(t *testing.T) {
	svc, repo := newService(testConditions(), nil)
	ctx := context.Background()

	resp, err := svc.CheckEligibility(ctx, testCampaignID, "anna@example.com")
	require.NoError(t, err)

	require.NoError(t, svc.Anonymize(ctx, testMerchantID, testCampaignID, resp.ParticipantID))
	assert.Equal(t, []int64{resp.ParticipantID}, repo.anonymized)
}
