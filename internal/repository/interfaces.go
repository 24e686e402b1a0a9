// internal/repository/interfaces.go
package repository

import (
	"context"
	"time"

	"reviewlottery-service/internal/domain/brand"
	"reviewlottery-service/internal/domain/campaign"
	"reviewlottery-service/internal/domain/merchant"
	"reviewlottery-service/internal/domain/participant"
	"reviewlottery-service/internal/domain/prize"
	"reviewlottery-service/internal/domain/review"
	"reviewlottery-service/internal/domain/winner"
)

// Repositories return xerrors.ErrNotFound when a lookup misses; services
// translate sentinels into user-facing failures.

type MerchantRepository interface {
	Create(ctx context.Context, m *merchant.Merchant) error
	FindByID(ctx context.Context, id int64) (*merchant.Merchant, error)
	FindByEmail(ctx context.Context, email string) (*merchant.Merchant, error)
	UpdateLastLogin(ctx context.Context, id int64, at time.Time) error
}

type BrandRepository interface {
	Create(ctx context.Context, b *brand.Brand) error
	FindByID(ctx context.Context, id int64) (*brand.Brand, error)
	ListByMerchant(ctx context.Context, merchantID int64) ([]brand.Brand, error)
	Update(ctx context.Context, b *brand.Brand) error
	Delete(ctx context.Context, id int64) error
}

type StoreRepository interface {
	Create(ctx context.Context, s *brand.Store) error
	FindByID(ctx context.Context, id int64) (*brand.Store, error)
	ListByBrand(ctx context.Context, brandID int64) ([]brand.Store, error)
	Update(ctx context.Context, s *brand.Store) error
	Delete(ctx context.Context, id int64) error
}

type CampaignRepository interface {
	Create(ctx context.Context, c *campaign.Campaign) error
	FindByID(ctx context.Context, id int64) (*campaign.Campaign, error)
	// FindByIDWithConditions loads the campaign and its ordered conditions.
	FindByIDWithConditions(ctx context.Context, id int64) (*campaign.Campaign, error)
	List(ctx context.Context, filters *campaign.CampaignListFilters) ([]campaign.Campaign, int64, error)
	Update(ctx context.Context, c *campaign.Campaign) error
	SetActive(ctx context.Context, id int64, active bool) error
	Delete(ctx context.Context, id int64) error
	Stats(ctx context.Context, id int64) (*campaign.CampaignStats, error)

	CreateCondition(ctx context.Context, cond *campaign.Condition) error
	ListConditions(ctx context.Context, campaignID int64) ([]campaign.Condition, error)
	DeleteCondition(ctx context.Context, id int64) error
}

type PrizeRepository interface {
	Create(ctx context.Context, p *prize.Prize) error
	FindByID(ctx context.Context, id int64) (*prize.Prize, error)
	ListByCampaign(ctx context.Context, campaignID int64) ([]prize.Prize, error)
	Update(ctx context.Context, p *prize.Prize) error
	Delete(ctx context.Context, id int64) error
}

type WinnerRepository interface {
	// CreateAwardingPrize decrements the prize stock and inserts the
	// winner in one database transaction. The decrement is conditional
	// (remaining > 0); ErrOutOfStock rolls everything back.
	CreateAwardingPrize(ctx context.Context, w *winner.Winner) error
	FindByID(ctx context.Context, id int64) (*winner.Winner, error)
	FindByClaimCode(ctx context.Context, code string) (*winner.Winner, error)
	List(ctx context.Context, filters *winner.WinnerListFilters) ([]winner.Winner, int64, error)
	UpdateStatus(ctx context.Context, w *winner.Winner) error
	// CancelRestoringStock persists CANCELLED and restores the prize
	// stock by one in a single transaction.
	CancelRestoringStock(ctx context.Context, w *winner.Winner) error
	// FindExpiredPending is the sweep query: PENDING with expires_at < now.
	FindExpiredPending(ctx context.Context, now time.Time, limit int) ([]winner.Winner, error)
}

type ParticipantRepository interface {
	Create(ctx context.Context, p *participant.Participant) error
	FindByID(ctx context.Context, id int64) (*participant.Participant, error)
	FindByEmailAndCampaign(ctx context.Context, email string, campaignID int64) (*participant.Participant, error)
	ListByCampaign(ctx context.Context, campaignID int64, page, pageSize int) ([]participant.Participant, int64, error)
	UpdateProgress(ctx context.Context, p *participant.Participant) error
	MarkPlayed(ctx context.Context, id int64) error
	SaveReview(ctx context.Context, id int64, rating int, comment string) error
	Anonymize(ctx context.Context, id int64) error
}

type ReviewRepository interface {
	Upsert(ctx context.Context, r *review.Review) error
	FindByEmailAndStore(ctx context.Context, email string, storeID int64) (*review.Review, error)
	ListByStore(ctx context.Context, storeID int64, page, pageSize int) ([]review.Review, int64, error)
}
