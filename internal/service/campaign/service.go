// internal/service/campaign/service.go
package campaign

import (
	"context"
	"database/sql"
	"fmt"

	"reviewlottery-service/internal/domain/campaign"
	"reviewlottery-service/internal/game/draw"
	xerrors "reviewlottery-service/internal/pkg/errors"
	"reviewlottery-service/internal/repository"

	"go.uber.org/zap"
)

type CampaignService struct {
	campaignRepo repository.CampaignRepository
	prizeRepo    repository.PrizeRepository
	storeRepo    repository.StoreRepository
	brandRepo    repository.BrandRepository
	logger       *zap.Logger
}

func NewCampaignService(
	campaignRepo repository.CampaignRepository,
	prizeRepo repository.PrizeRepository,
	storeRepo repository.StoreRepository,
	brandRepo repository.BrandRepository,
	logger *zap.Logger,
) *CampaignService {
	return &CampaignService{
		campaignRepo: campaignRepo,
		prizeRepo:    prizeRepo,
		storeRepo:    storeRepo,
		brandRepo:    brandRepo,
		logger:       logger,
	}
}

// CreateCampaign creates a campaign with its ordered conditions.
// Campaigns start inactive; Activate runs the configuration checks.
func (s *CampaignService) CreateCampaign(ctx context.Context, merchantID int64, req *campaign.CreateCampaignRequest) (*campaign.Campaign, error) {
	if err := s.checkStoreOwnership(ctx, merchantID, req.StoreID); err != nil {
		return nil, err
	}

	if err := validateGameConfig(req.GameType, req.SlotSymbols); err != nil {
		return nil, err
	}

	c := &campaign.Campaign{
		StoreID:              req.StoreID,
		Name:                 req.Name,
		GameType:             req.GameType,
		Active:               false,
		PrizeClaimExpiryDays: req.PrizeClaimExpiryDays,
		SlotSymbols:          req.SlotSymbols,
		ScratchPattern:       sql.NullString{String: req.ScratchPattern, Valid: req.ScratchPattern != ""},
	}
	if req.StartDate != nil {
		c.StartDate = sql.NullTime{Time: *req.StartDate, Valid: true}
	}
	if req.EndDate != nil {
		c.EndDate = sql.NullTime{Time: *req.EndDate, Valid: true}
	}
	if c.PrizeClaimExpiryDays == 0 {
		c.PrizeClaimExpiryDays = 30
	}
	if c.StartDate.Valid && c.EndDate.Valid && c.EndDate.Time.Before(c.StartDate.Time) {
		return nil, fmt.Errorf("end date before start date: %w", xerrors.ErrInvalidInput)
	}

	if err := s.campaignRepo.Create(ctx, c); err != nil {
		s.logger.Error("failed to create campaign", zap.Error(err))
		return nil, err
	}

	for i, condReq := range req.Conditions {
		order := condReq.Order
		if order == 0 {
			order = i + 1
		}
		required := true
		if condReq.IsRequired != nil {
			required = *condReq.IsRequired
		}

		cond := &campaign.Condition{
			CampaignID: c.ID,
			Type:       condReq.Type,
			Order:      order,
			IsRequired: required,
			Label:      condReq.Label,
			TargetURL:  sql.NullString{String: condReq.TargetURL, Valid: condReq.TargetURL != ""},
		}
		if err := s.campaignRepo.CreateCondition(ctx, cond); err != nil {
			return nil, fmt.Errorf("failed to create condition %d: %w", order, err)
		}
		c.Conditions = append(c.Conditions, *cond)
	}

	s.logger.Info("campaign created",
		zap.Int64("campaign_id", c.ID),
		zap.Int64("store_id", c.StoreID),
		zap.String("game_type", string(c.GameType)),
	)

	return c, nil
}

func (s *CampaignService) GetCampaign(ctx context.Context, merchantID, campaignID int64) (*campaign.Campaign, error) {
	c, err := s.campaignRepo.FindByIDWithConditions(ctx, campaignID)
	if err != nil {
		return nil, err
	}
	if err := s.checkStoreOwnership(ctx, merchantID, c.StoreID); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *CampaignService) ListCampaigns(ctx context.Context, merchantID int64, filters *campaign.CampaignListFilters) (*campaign.CampaignListResponse, error) {
	if filters.Page < 1 {
		filters.Page = 1
	}
	if filters.PageSize < 1 {
		filters.PageSize = 20
	}
	if filters.StoreID != nil {
		if err := s.checkStoreOwnership(ctx, merchantID, *filters.StoreID); err != nil {
			return nil, err
		}
	}

	campaigns, total, err := s.campaignRepo.List(ctx, filters)
	if err != nil {
		return nil, err
	}

	totalPages := int((total + int64(filters.PageSize) - 1) / int64(filters.PageSize))
	return &campaign.CampaignListResponse{
		Campaigns:  campaigns,
		Total:      total,
		Page:       filters.Page,
		PageSize:   filters.PageSize,
		TotalPages: totalPages,
	}, nil
}

func (s *CampaignService) UpdateCampaign(ctx context.Context, merchantID, campaignID int64, req *campaign.UpdateCampaignRequest) (*campaign.Campaign, error) {
	c, err := s.GetCampaign(ctx, merchantID, campaignID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		c.Name = *req.Name
	}
	if req.StartDate != nil {
		c.StartDate = sql.NullTime{Time: *req.StartDate, Valid: true}
	}
	if req.EndDate != nil {
		c.EndDate = sql.NullTime{Time: *req.EndDate, Valid: true}
	}
	if req.PrizeClaimExpiryDays != nil {
		c.PrizeClaimExpiryDays = *req.PrizeClaimExpiryDays
	}
	if req.SlotSymbols != nil {
		c.SlotSymbols = req.SlotSymbols
	}
	if req.ScratchPattern != nil {
		c.ScratchPattern = sql.NullString{String: *req.ScratchPattern, Valid: *req.ScratchPattern != ""}
	}

	if c.StartDate.Valid && c.EndDate.Valid && c.EndDate.Time.Before(c.StartDate.Time) {
		return nil, fmt.Errorf("end date before start date: %w", xerrors.ErrInvalidInput)
	}

	if err := validateGameConfig(c.GameType, c.SlotSymbols); err != nil {
		return nil, err
	}

	if err := s.campaignRepo.Update(ctx, c); err != nil {
		return nil, err
	}

	return c, nil
}

// Activate switches a campaign live. The prize pool must exist and its
// probabilities must cover the full 100% mass within tolerance.
func (s *CampaignService) Activate(ctx context.Context, merchantID, campaignID int64) error {
	c, err := s.GetCampaign(ctx, merchantID, campaignID)
	if err != nil {
		return err
	}

	prizes, err := s.prizeRepo.ListByCampaign(ctx, campaignID)
	if err != nil {
		return err
	}
	if len(prizes) == 0 {
		return fmt.Errorf("campaign has no prizes: %w", xerrors.ErrInvalidInput)
	}

	probabilities := make([]float64, len(prizes))
	for i, p := range prizes {
		probabilities[i] = p.Probability
	}
	if err := draw.ValidateSum(probabilities); err != nil {
		return err
	}

	if err := s.campaignRepo.SetActive(ctx, campaignID, true); err != nil {
		return err
	}

	s.logger.Info("campaign activated",
		zap.Int64("campaign_id", campaignID),
		zap.Int("prizes", len(prizes)),
		zap.String("game_type", string(c.GameType)),
	)
	return nil
}

func (s *CampaignService) Deactivate(ctx context.Context, merchantID, campaignID int64) error {
	if _, err := s.GetCampaign(ctx, merchantID, campaignID); err != nil {
		return err
	}
	return s.campaignRepo.SetActive(ctx, campaignID, false)
}

func (s *CampaignService) DeleteCampaign(ctx context.Context, merchantID, campaignID int64) error {
	if _, err := s.GetCampaign(ctx, merchantID, campaignID); err != nil {
		return err
	}

	if err := s.campaignRepo.Delete(ctx, campaignID); err != nil {
		return err
	}

	s.logger.Info("campaign deleted", zap.Int64("campaign_id", campaignID))
	return nil
}

func (s *CampaignService) GetStats(ctx context.Context, merchantID, campaignID int64) (*campaign.CampaignStats, error) {
	if _, err := s.GetCampaign(ctx, merchantID, campaignID); err != nil {
		return nil, err
	}
	return s.campaignRepo.Stats(ctx, campaignID)
}

// AddCondition appends a gating condition to an existing campaign
func (s *CampaignService) AddCondition(ctx context.Context, merchantID, campaignID int64, req *campaign.CreateConditionRequest) (*campaign.Condition, error) {
	c, err := s.GetCampaign(ctx, merchantID, campaignID)
	if err != nil {
		return nil, err
	}

	order := req.Order
	if order == 0 {
		order = len(c.Conditions) + 1
	}
	required := true
	if req.IsRequired != nil {
		required = *req.IsRequired
	}

	cond := &campaign.Condition{
		CampaignID: campaignID,
		Type:       req.Type,
		Order:      order,
		IsRequired: required,
		Label:      req.Label,
		TargetURL:  sql.NullString{String: req.TargetURL, Valid: req.TargetURL != ""},
	}
	if err := s.campaignRepo.CreateCondition(ctx, cond); err != nil {
		return nil, err
	}

	return cond, nil
}

func (s *CampaignService) RemoveCondition(ctx context.Context, merchantID, campaignID, conditionID int64) error {
	if _, err := s.GetCampaign(ctx, merchantID, campaignID); err != nil {
		return err
	}
	return s.campaignRepo.DeleteCondition(ctx, conditionID)
}

// checkStoreOwnership walks store -> brand -> merchant
func (s *CampaignService) checkStoreOwnership(ctx context.Context, merchantID, storeID int64) error {
	st, err := s.storeRepo.FindByID(ctx, storeID)
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

// validateGameConfig checks the presentation config matches the game type
func validateGameConfig(gameType campaign.GameType, slotSymbols []string) error {
	switch gameType {
	case campaign.GameTypeSlot:
		if len(slotSymbols) > 0 && len(slotSymbols) < 2 {
			return fmt.Errorf("slot campaigns need at least 2 symbols: %w", xerrors.ErrInvalidInput)
		}
	case campaign.GameTypeWheel, campaign.GameTypeScratch:
		// Wheel segments come from the prize pool; the scratch pattern
		// enum is validated by request binding.
	default:
		return fmt.Errorf("unknown game type %q: %w", gameType, xerrors.ErrInvalidInput)
	}
	return nil
}
