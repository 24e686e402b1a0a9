// internal/service/claim/service.go
package claim

import (
	"context"
	"errors"
	"time"

	"reviewlottery-service/internal/domain/shared"
	"reviewlottery-service/internal/domain/winner"
	xerrors "reviewlottery-service/internal/pkg/errors"
	"reviewlottery-service/internal/repository"
	ws "reviewlottery-service/internal/websocket"

	"go.uber.org/zap"
)

// EventPublisher pushes dashboard events. Satisfied by the websocket hub.
type EventPublisher interface {
	Publish(event *ws.Event)
}

// ClaimService drives the winner lifecycle after the award:
// PENDING -> CLAIMED | EXPIRED | CANCELLED, all transitions terminal.
type ClaimService struct {
	winnerRepo   repository.WinnerRepository
	campaignRepo repository.CampaignRepository
	storeRepo    repository.StoreRepository
	brandRepo    repository.BrandRepository
	hub          EventPublisher
	logger       *zap.Logger
}

func NewClaimService(
	winnerRepo repository.WinnerRepository,
	campaignRepo repository.CampaignRepository,
	storeRepo repository.StoreRepository,
	brandRepo repository.BrandRepository,
	hub EventPublisher,
	logger *zap.Logger,
) *ClaimService {
	return &ClaimService{
		winnerRepo:   winnerRepo,
		campaignRepo: campaignRepo,
		storeRepo:    storeRepo,
		brandRepo:    brandRepo,
		hub:          hub,
		logger:       logger,
	}
}

// Lookup finds a winner by claim code without changing its state
func (s *ClaimService) Lookup(ctx context.Context, rawCode string) (*winner.Winner, error) {
	code, err := shared.ParseClaimCode(rawCode)
	if err != nil {
		return nil, err
	}
	return s.winnerRepo.FindByClaimCode(ctx, code.String())
}

// Claim redeems a claim code. An attempt past the expiry persists the
// EXPIRED transition before failing, so the sweep and the claim path
// agree on the final state.
func (s *ClaimService) Claim(ctx context.Context, merchantID int64, rawCode string) (*winner.Winner, error) {
	w, err := s.Lookup(ctx, rawCode)
	if err != nil {
		return nil, err
	}

	if err := s.checkOwnership(ctx, merchantID, w.CampaignID); err != nil {
		return nil, err
	}

	now := time.Now()
	if err := w.MarkClaimed(now); err != nil {
		if errors.Is(err, xerrors.ErrClaimExpired) && w.Status == winner.StatusExpired {
			// Lazy expiry: the code crossed its deadline unswept.
			if uerr := s.winnerRepo.UpdateStatus(ctx, w); uerr != nil {
				s.logger.Error("failed to persist lazy expiry",
					zap.Int64("winner_id", w.ID),
					zap.Error(uerr),
				)
			}
		}
		return nil, err
	}

	if err := s.winnerRepo.UpdateStatus(ctx, w); err != nil {
		return nil, err
	}

	s.hub.Publish(&ws.Event{
		CampaignID: w.CampaignID,
		Type:       ws.EventPrizeClaimed,
		Payload: map[string]interface{}{
			"winner_id":  w.ID,
			"prize_name": w.PrizeName,
			"reference":  w.Reference,
		},
	})

	s.logger.Info("prize claimed",
		zap.Int64("winner_id", w.ID),
		zap.Int64("campaign_id", w.CampaignID),
	)

	return w, nil
}

// Cancel voids a pending win and returns the prize unit to stock
func (s *ClaimService) Cancel(ctx context.Context, merchantID, winnerID int64) (*winner.Winner, error) {
	w, err := s.winnerRepo.FindByID(ctx, winnerID)
	if err != nil {
		return nil, err
	}

	if err := s.checkOwnership(ctx, merchantID, w.CampaignID); err != nil {
		return nil, err
	}

	// Validate the transition on a copy; the repository owns the
	// status-flip-plus-restock transaction.
	probe := *w
	if err := probe.MarkCancelled(); err != nil {
		return nil, err
	}
	if err := s.winnerRepo.CancelRestoringStock(ctx, w); err != nil {
		return nil, err
	}

	s.logger.Info("winner cancelled",
		zap.Int64("winner_id", w.ID),
		zap.Int64("prize_id", w.PrizeID),
	)

	return w, nil
}

// ListWinners is the merchant dashboard winner table
func (s *ClaimService) ListWinners(ctx context.Context, merchantID int64, filters *winner.WinnerListFilters) (*winner.WinnerListResponse, error) {
	if filters.CampaignID == nil {
		return nil, xerrors.ErrInvalidInput
	}
	if err := s.checkOwnership(ctx, merchantID, *filters.CampaignID); err != nil {
		return nil, err
	}

	if filters.Page < 1 {
		filters.Page = 1
	}
	if filters.PageSize < 1 {
		filters.PageSize = 20
	}

	winners, total, err := s.winnerRepo.List(ctx, filters)
	if err != nil {
		return nil, err
	}

	totalPages := int((total + int64(filters.PageSize) - 1) / int64(filters.PageSize))
	return &winner.WinnerListResponse{
		Winners:    winners,
		Total:      total,
		Page:       filters.Page,
		PageSize:   filters.PageSize,
		TotalPages: totalPages,
	}, nil
}

// SweepExpired expires overdue PENDING winners in batches. Runs on a
// timer; the lazy expiry on Claim covers anything the timer misses.
func (s *ClaimService) SweepExpired(ctx context.Context, batchSize int) (int, error) {
	overdue, err := s.winnerRepo.FindExpiredPending(ctx, time.Now(), batchSize)
	if err != nil {
		return 0, err
	}

	swept := 0
	for i := range overdue {
		w := &overdue[i]
		if err := w.MarkExpired(); err != nil {
			continue
		}
		if err := s.winnerRepo.UpdateStatus(ctx, w); err != nil {
			s.logger.Error("failed to expire winner",
				zap.Int64("winner_id", w.ID),
				zap.Error(err),
			)
			continue
		}
		swept++
	}

	if swept > 0 {
		s.logger.Info("expired pending winners", zap.Int("count", swept))
	}

	return swept, nil
}

func (s *ClaimService) checkOwnership(ctx context.Context, merchantID, campaignID int64) error {
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
