// internal/service/review/service.go
package review

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"reviewlottery-service/internal/domain/brand"
	"reviewlottery-service/internal/domain/review"
	xerrors "reviewlottery-service/internal/pkg/errors"
	"reviewlottery-service/internal/provider"
	"reviewlottery-service/internal/repository"

	"go.uber.org/zap"
)

// ReviewService syncs external reviews into the local table the
// GOOGLE_REVIEW condition is verified against.
type ReviewService struct {
	reviewRepo repository.ReviewRepository
	storeRepo  repository.StoreRepository
	brandRepo  repository.BrandRepository
	fetcher    provider.ReviewFetcher
	logger     *zap.Logger
}

func NewReviewService(
	reviewRepo repository.ReviewRepository,
	storeRepo repository.StoreRepository,
	brandRepo repository.BrandRepository,
	fetcher provider.ReviewFetcher,
	logger *zap.Logger,
) *ReviewService {
	return &ReviewService{
		reviewRepo: reviewRepo,
		storeRepo:  storeRepo,
		brandRepo:  brandRepo,
		fetcher:    fetcher,
		logger:     logger,
	}
}

// SyncStoreReviews pulls the store's published reviews from the
// provider and upserts them. Returns the number of reviews received.
func (s *ReviewService) SyncStoreReviews(ctx context.Context, merchantID, storeID int64) (int, error) {
	st, err := s.ownedStore(ctx, merchantID, storeID)
	if err != nil {
		return 0, err
	}
	if !st.GooglePlaceID.Valid || st.GooglePlaceID.String == "" {
		return 0, fmt.Errorf("store has no google place id: %w", xerrors.ErrInvalidInput)
	}

	fetched, err := s.fetcher.FetchReviews(ctx, st.GooglePlaceID.String)
	if err != nil {
		s.logger.Error("review sync failed",
			zap.Int64("store_id", storeID),
			zap.Error(err),
		)
		return 0, err
	}

	for _, f := range fetched {
		rv := &review.Review{
			StoreID:     storeID,
			AuthorEmail: sql.NullString{String: f.AuthorEmail, Valid: f.AuthorEmail != ""},
			AuthorName:  sql.NullString{String: f.AuthorName, Valid: f.AuthorName != ""},
			Rating:      f.Rating,
			Comment:     sql.NullString{String: f.Comment, Valid: f.Comment != ""},
			Source:      "google",
			PublishedAt: f.PublishedAt,
		}
		if err := s.reviewRepo.Upsert(ctx, rv); err != nil {
			s.logger.Error("failed to store synced review",
				zap.Int64("store_id", storeID),
				zap.Error(err),
			)
		}
	}

	s.logger.Info("store reviews synced",
		zap.Int64("store_id", storeID),
		zap.Int("count", len(fetched)),
	)

	return len(fetched), nil
}

// ListReviews returns the synced reviews for the dashboard
func (s *ReviewService) ListReviews(ctx context.Context, merchantID, storeID int64, page, pageSize int) ([]review.Review, int64, error) {
	if _, err := s.ownedStore(ctx, merchantID, storeID); err != nil {
		return nil, 0, err
	}
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	return s.reviewRepo.ListByStore(ctx, storeID, page, pageSize)
}

// RecordManualReview lets a merchant register a review seen outside the
// provider feed, which unblocks the matching condition for that email.
func (s *ReviewService) RecordManualReview(ctx context.Context, merchantID, storeID int64, authorEmail, authorName string, rating int, comment string) error {
	if _, err := s.ownedStore(ctx, merchantID, storeID); err != nil {
		return err
	}
	if rating < 1 || rating > 5 {
		return fmt.Errorf("rating %d out of range [1,5]: %w", rating, xerrors.ErrInvalidInput)
	}

	rv := &review.Review{
		StoreID:     storeID,
		AuthorEmail: sql.NullString{String: authorEmail, Valid: authorEmail != ""},
		AuthorName:  sql.NullString{String: authorName, Valid: authorName != ""},
		Rating:      rating,
		Comment:     sql.NullString{String: comment, Valid: comment != ""},
		Source:      "manual",
		PublishedAt: time.Now(),
	}
	return s.reviewRepo.Upsert(ctx, rv)
}

func (s *ReviewService) ownedStore(ctx context.Context, merchantID, storeID int64) (*brand.Store, error) {
	st, err := s.storeRepo.FindByID(ctx, storeID)
	if err != nil {
		return nil, err
	}
	b, err := s.brandRepo.FindByID(ctx, st.BrandID)
	if err != nil {
		return nil, err
	}
	if b.MerchantID != merchantID {
		return nil, xerrors.ErrForbidden
	}
	return st, nil
}
