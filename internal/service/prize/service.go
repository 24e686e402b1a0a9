// internal/service/prize/service.go
package prize

import (
	"context"
	"fmt"

	"reviewlottery-service/internal/domain/prize"
	"reviewlottery-service/internal/domain/shared"
	xerrors "reviewlottery-service/internal/pkg/errors"
	"reviewlottery-service/internal/repository"

	"go.uber.org/zap"
)

type PrizeService struct {
	prizeRepo    repository.PrizeRepository
	campaignRepo repository.CampaignRepository
	storeRepo    repository.StoreRepository
	brandRepo    repository.BrandRepository
	logger       *zap.Logger
}

func NewPrizeService(
	prizeRepo repository.PrizeRepository,
	campaignRepo repository.CampaignRepository,
	storeRepo repository.StoreRepository,
	brandRepo repository.BrandRepository,
	logger *zap.Logger,
) *PrizeService {
	return &PrizeService{
		prizeRepo:    prizeRepo,
		campaignRepo: campaignRepo,
		storeRepo:    storeRepo,
		brandRepo:    brandRepo,
		logger:       logger,
	}
}

// CreatePrize adds a prize to a campaign. New prizes start fully
// stocked. The 100% sum check happens on campaign activation, not here,
// so merchants can build the pool incrementally.
func (s *PrizeService) CreatePrize(ctx context.Context, merchantID, campaignID int64, req *prize.CreatePrizeRequest) (*prize.Prize, error) {
	if err := s.checkCampaignOwnership(ctx, merchantID, campaignID); err != nil {
		return nil, err
	}

	currency := req.Currency
	if currency == "" {
		currency = "EUR"
	}
	value, err := shared.NewMoney(req.Value, currency)
	if err != nil {
		return nil, err
	}

	p := &prize.Prize{
		CampaignID:  campaignID,
		Name:        req.Name,
		Probability: req.Probability,
		Quantity:    req.Quantity,
		Remaining:   req.Quantity,
		Value:       value.Amount(),
		Currency:    value.Currency(),
		Color:       req.Color,
	}

	if err := s.prizeRepo.Create(ctx, p); err != nil {
		s.logger.Error("failed to create prize", zap.Error(err))
		return nil, err
	}

	s.logger.Info("prize created",
		zap.Int64("prize_id", p.ID),
		zap.Int64("campaign_id", campaignID),
		zap.Float64("probability", p.Probability),
	)

	return p, nil
}

func (s *PrizeService) GetPrize(ctx context.Context, merchantID, prizeID int64) (*prize.Prize, error) {
	p, err := s.prizeRepo.FindByID(ctx, prizeID)
	if err != nil {
		return nil, err
	}
	if err := s.checkCampaignOwnership(ctx, merchantID, p.CampaignID); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *PrizeService) ListPrizes(ctx context.Context, merchantID, campaignID int64) ([]prize.Prize, error) {
	if err := s.checkCampaignOwnership(ctx, merchantID, campaignID); err != nil {
		return nil, err
	}
	return s.prizeRepo.ListByCampaign(ctx, campaignID)
}

// UpdatePrize edits a prize. Shrinking quantity below the units already
// awarded is rejected so remaining never goes negative.
func (s *PrizeService) UpdatePrize(ctx context.Context, merchantID, prizeID int64, req *prize.UpdatePrizeRequest) (*prize.Prize, error) {
	p, err := s.GetPrize(ctx, merchantID, prizeID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		p.Name = *req.Name
	}
	if req.Probability != nil {
		p.Probability = *req.Probability
	}
	if req.Quantity != nil {
		awarded := p.Quantity - p.Remaining
		if *req.Quantity < awarded {
			return nil, fmt.Errorf("quantity %d below %d already awarded: %w", *req.Quantity, awarded, xerrors.ErrInvalidInput)
		}
		p.Remaining += *req.Quantity - p.Quantity
		p.Quantity = *req.Quantity
	}
	if req.Value != nil {
		value, err := shared.NewMoney(*req.Value, p.Currency)
		if err != nil {
			return nil, err
		}
		p.Value = value.Amount()
	}
	if req.Color != nil {
		p.Color = *req.Color
	}

	if err := s.prizeRepo.Update(ctx, p); err != nil {
		return nil, err
	}

	return p, nil
}

func (s *PrizeService) DeletePrize(ctx context.Context, merchantID, prizeID int64) error {
	if _, err := s.GetPrize(ctx, merchantID, prizeID); err != nil {
		return err
	}
	return s.prizeRepo.Delete(ctx, prizeID)
}

func (s *PrizeService) checkCampaignOwnership(ctx context.Context, merchantID, campaignID int64) error {
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
