// internal/service/participant/service.go
package participant

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"reviewlottery-service/internal/domain/campaign"
	"reviewlottery-service/internal/domain/participant"
	"reviewlottery-service/internal/domain/shared"
	xerrors "reviewlottery-service/internal/pkg/errors"
	"reviewlottery-service/internal/repository"

	"go.uber.org/zap"
)

// ParticipantService drives the public condition funnel: a visitor
// registers by email, works through the campaign's ordered conditions
// and becomes ready to play once every required one is checked off.
type ParticipantService struct {
	participantRepo repository.ParticipantRepository
	campaignRepo    repository.CampaignRepository
	reviewRepo      repository.ReviewRepository
	storeRepo       repository.StoreRepository
	brandRepo       repository.BrandRepository
	logger          *zap.Logger
}

func NewParticipantService(
	participantRepo repository.ParticipantRepository,
	campaignRepo repository.CampaignRepository,
	reviewRepo repository.ReviewRepository,
	storeRepo repository.StoreRepository,
	brandRepo repository.BrandRepository,
	logger *zap.Logger,
) *ParticipantService {
	return &ParticipantService{
		participantRepo: participantRepo,
		campaignRepo:    campaignRepo,
		reviewRepo:      reviewRepo,
		storeRepo:       storeRepo,
		brandRepo:       brandRepo,
		logger:          logger,
	}
}

// CheckEligibility registers the (email, campaign) identity if new and
// reports where the visitor stands in the funnel.
func (s *ParticipantService) CheckEligibility(ctx context.Context, campaignID int64, rawEmail string) (*participant.EligibilityResponse, error) {
	c, err := s.activeCampaign(ctx, campaignID)
	if err != nil {
		return nil, err
	}

	p, err := s.findOrCreate(ctx, campaignID, rawEmail)
	if err != nil {
		return nil, err
	}

	if p.HasPlayed {
		return &participant.EligibilityResponse{
			Eligible:      false,
			ReadyToPlay:   false,
			ParticipantID: p.ID,
		}, nil
	}

	next := nextCondition(p, c.Conditions)
	resp := &participant.EligibilityResponse{
		Eligible:      true,
		ReadyToPlay:   next == nil,
		ParticipantID: p.ID,
	}
	if next != nil {
		resp.NextCondition = conditionView(next)
	}

	return resp, nil
}

// CompleteCondition checks off one condition. Re-completing an already
// completed condition is a no-op. Required conditions must be completed
// in their declared order; skipping ahead is rejected.
func (s *ParticipantService) CompleteCondition(ctx context.Context, campaignID, conditionID int64, rawEmail string) (*participant.EligibilityResponse, error) {
	c, err := s.activeCampaign(ctx, campaignID)
	if err != nil {
		return nil, err
	}

	var cond *campaign.Condition
	for i := range c.Conditions {
		if c.Conditions[i].ID == conditionID {
			cond = &c.Conditions[i]
			break
		}
	}
	if cond == nil {
		return nil, xerrors.ErrNotFound
	}

	p, err := s.findOrCreate(ctx, campaignID, rawEmail)
	if err != nil {
		return nil, err
	}
	if p.HasPlayed {
		return nil, xerrors.ErrAlreadyPlayed
	}

	if !p.HasCompleted(conditionID) {
		if cond.IsRequired {
			next := nextCondition(p, c.Conditions)
			if next == nil || next.ID != cond.ID {
				return nil, fmt.Errorf("condition %d attempted out of order: %w", cond.Order, xerrors.ErrConditionsIncomplete)
			}
		}

		if cond.Type == campaign.ConditionGoogleReview {
			if err := s.verifyGoogleReview(ctx, c.StoreID, p.Email); err != nil {
				return nil, err
			}
		}

		p.CompletedConditions = append(p.CompletedConditions, participant.CompletedCondition{
			ConditionID: conditionID,
			Type:        string(cond.Type),
			CompletedAt: time.Now(),
		})
		if cond.Order > p.CurrentConditionOrder {
			p.CurrentConditionOrder = cond.Order
		}

		if err := s.participantRepo.UpdateProgress(ctx, p); err != nil {
			return nil, err
		}

		s.logger.Info("condition completed",
			zap.Int64("participant_id", p.ID),
			zap.Int64("condition_id", conditionID),
			zap.String("type", string(cond.Type)),
		)
	}

	next := nextCondition(p, c.Conditions)
	resp := &participant.EligibilityResponse{
		Eligible:      true,
		ReadyToPlay:   next == nil,
		ParticipantID: p.ID,
	}
	if next != nil {
		resp.NextCondition = conditionView(next)
	}
	return resp, nil
}

// SubmitReview stores the in-widget rating and comment on the
// participant record. Separate from the external Google review.
func (s *ParticipantService) SubmitReview(ctx context.Context, campaignID int64, req *participant.SubmitReviewRequest) error {
	p, err := s.findOrCreate(ctx, campaignID, req.Email)
	if err != nil {
		return err
	}

	return s.participantRepo.SaveReview(ctx, p.ID, req.Rating, req.Comment)
}

// ListParticipants is the merchant dashboard view of a campaign funnel
func (s *ParticipantService) ListParticipants(ctx context.Context, merchantID, campaignID int64, page, pageSize int) ([]participant.Participant, int64, error) {
	if err := s.checkCampaignOwnership(ctx, merchantID, campaignID); err != nil {
		return nil, 0, err
	}
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	return s.participantRepo.ListByCampaign(ctx, campaignID, page, pageSize)
}

// Anonymize is the GDPR erasure path: the row survives for stats, the
// personal fields do not.
func (s *ParticipantService) Anonymize(ctx context.Context, merchantID, campaignID, participantID int64) error {
	if err := s.checkCampaignOwnership(ctx, merchantID, campaignID); err != nil {
		return err
	}

	p, err := s.participantRepo.FindByID(ctx, participantID)
	if err != nil {
		return err
	}
	if p.CampaignID != campaignID {
		return xerrors.ErrNotFound
	}

	if err := s.participantRepo.Anonymize(ctx, participantID); err != nil {
		return err
	}

	s.logger.Info("participant anonymized", zap.Int64("participant_id", participantID))
	return nil
}

func (s *ParticipantService) findOrCreate(ctx context.Context, campaignID int64, rawEmail string) (*participant.Participant, error) {
	email, err := shared.NewEmail(rawEmail)
	if err != nil {
		return nil, err
	}

	p, err := s.participantRepo.FindByEmailAndCampaign(ctx, email.String(), campaignID)
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, xerrors.ErrNotFound) {
		return nil, err
	}

	p = &participant.Participant{
		CampaignID:          campaignID,
		Email:               email.String(),
		CompletedConditions: []participant.CompletedCondition{},
	}
	if err := s.participantRepo.Create(ctx, p); err != nil {
		// Concurrent first visit: the other request won, reload.
		if errors.Is(err, xerrors.ErrDuplicateEntry) {
			return s.participantRepo.FindByEmailAndCampaign(ctx, email.String(), campaignID)
		}
		return nil, err
	}

	return p, nil
}

func (s *ParticipantService) activeCampaign(ctx context.Context, campaignID int64) (*campaign.Campaign, error) {
	c, err := s.campaignRepo.FindByIDWithConditions(ctx, campaignID)
	if err != nil {
		return nil, err
	}
	if !c.Active || !c.IsWithinWindow(time.Now()) {
		return nil, xerrors.ErrCampaignInactive
	}
	return c, nil
}

// verifyGoogleReview requires a synced review from this email on the
// campaign's store.
func (s *ParticipantService) verifyGoogleReview(ctx context.Context, storeID int64, email string) error {
	_, err := s.reviewRepo.FindByEmailAndStore(ctx, email, storeID)
	if errors.Is(err, xerrors.ErrNotFound) {
		return fmt.Errorf("no published review found for this email: %w", xerrors.ErrConditionsIncomplete)
	}
	return err
}

func (s *ParticipantService) checkCampaignOwnership(ctx context.Context, merchantID, campaignID int64) error {
	c, err := s.campaignRepo.FindByID(ctx, campaignID)
	if err != nil {
		return err
	}
	st, err := s.storeRepo.FindByID(ctx, c.StoreID)
	if err != nil {
		return err
	}
	b, err := s.brandRepo.FindByID(ctx, st.BrandID)
	if err != nil {
		return err
	}
	if b.MerchantID != merchantID {
		return xerrors.ErrForbidden
	}
	return nil
}

// nextCondition returns the first required condition, in declared
// order, the participant has not completed. Nil means ready to play.
func nextCondition(p *participant.Participant, conditions []campaign.Condition) *campaign.Condition {
	ordered := make([]campaign.Condition, len(conditions))
	copy(ordered, conditions)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].Order < ordered[j].Order })

	for i := range ordered {
		if !ordered[i].IsRequired {
			continue
		}
		if !p.HasCompleted(ordered[i].ID) {
			return &ordered[i]
		}
	}
	return nil
}

func conditionView(c *campaign.Condition) *participant.NextConditionView {
	v := &participant.NextConditionView{
		ConditionID: c.ID,
		Type:        string(c.Type),
		Order:       c.Order,
		Label:       c.Label,
	}
	if c.TargetURL.Valid {
		v.TargetURL = c.TargetURL.String
	}
	return v
}
