// internal/service/brand/service.go
package brand

import (
	"context"
	"database/sql"

	"reviewlottery-service/internal/domain/brand"
	xerrors "reviewlottery-service/internal/pkg/errors"
	"reviewlottery-service/internal/repository"

	"go.uber.org/zap"
)

// BrandService owns brands and their stores. Every operation checks the
// target belongs to the calling merchant before touching it.
type BrandService struct {
	brandRepo repository.BrandRepository
	storeRepo repository.StoreRepository
	logger    *zap.Logger
}

func NewBrandService(
	brandRepo repository.BrandRepository,
	storeRepo repository.StoreRepository,
	logger *zap.Logger,
) *BrandService {
	return &BrandService{
		brandRepo: brandRepo,
		storeRepo: storeRepo,
		logger:    logger,
	}
}

func (s *BrandService) CreateBrand(ctx context.Context, merchantID int64, req *brand.CreateBrandRequest) (*brand.Brand, error) {
	b := &brand.Brand{
		MerchantID:   merchantID,
		Name:         req.Name,
		LogoURL:      sql.NullString{String: req.LogoURL, Valid: req.LogoURL != ""},
		PrimaryColor: sql.NullString{String: req.PrimaryColor, Valid: req.PrimaryColor != ""},
	}

	if err := s.brandRepo.Create(ctx, b); err != nil {
		s.logger.Error("failed to create brand", zap.Error(err))
		return nil, err
	}

	s.logger.Info("brand created",
		zap.Int64("brand_id", b.ID),
		zap.Int64("merchant_id", merchantID),
	)

	return b, nil
}

func (s *BrandService) GetBrand(ctx context.Context, merchantID, brandID int64) (*brand.Brand, error) {
	return s.ownedBrand(ctx, merchantID, brandID)
}

func (s *BrandService) ListBrands(ctx context.Context, merchantID int64) ([]brand.Brand, error) {
	return s.brandRepo.ListByMerchant(ctx, merchantID)
}

func (s *BrandService) UpdateBrand(ctx context.Context, merchantID, brandID int64, req *brand.UpdateBrandRequest) (*brand.Brand, error) {
	b, err := s.ownedBrand(ctx, merchantID, brandID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		b.Name = *req.Name
	}
	if req.LogoURL != nil {
		b.LogoURL = sql.NullString{String: *req.LogoURL, Valid: *req.LogoURL != ""}
	}
	if req.PrimaryColor != nil {
		b.PrimaryColor = sql.NullString{String: *req.PrimaryColor, Valid: *req.PrimaryColor != ""}
	}

	if err := s.brandRepo.Update(ctx, b); err != nil {
		return nil, err
	}

	return b, nil
}

func (s *BrandService) DeleteBrand(ctx context.Context, merchantID, brandID int64) error {
	if _, err := s.ownedBrand(ctx, merchantID, brandID); err != nil {
		return err
	}

	if err := s.brandRepo.Delete(ctx, brandID); err != nil {
		return err
	}

	s.logger.Info("brand deleted",
		zap.Int64("brand_id", brandID),
		zap.Int64("merchant_id", merchantID),
	)
	return nil
}

// ========== Stores ==========

func (s *BrandService) CreateStore(ctx context.Context, merchantID, brandID int64, req *brand.CreateStoreRequest) (*brand.Store, error) {
	if _, err := s.ownedBrand(ctx, merchantID, brandID); err != nil {
		return nil, err
	}

	st := &brand.Store{
		BrandID:       brandID,
		Name:          req.Name,
		Address:       sql.NullString{String: req.Address, Valid: req.Address != ""},
		GooglePlaceID: sql.NullString{String: req.GooglePlaceID, Valid: req.GooglePlaceID != ""},
		SocialLinks:   req.SocialLinks,
	}

	if err := s.storeRepo.Create(ctx, st); err != nil {
		s.logger.Error("failed to create store", zap.Error(err))
		return nil, err
	}

	s.logger.Info("store created",
		zap.Int64("store_id", st.ID),
		zap.Int64("brand_id", brandID),
	)

	return st, nil
}

func (s *BrandService) GetStore(ctx context.Context, merchantID, storeID int64) (*brand.Store, error) {
	return s.ownedStore(ctx, merchantID, storeID)
}

func (s *BrandService) ListStores(ctx context.Context, merchantID, brandID int64) ([]brand.Store, error) {
	if _, err := s.ownedBrand(ctx, merchantID, brandID); err != nil {
		return nil, err
	}
	return s.storeRepo.ListByBrand(ctx, brandID)
}

func (s *BrandService) UpdateStore(ctx context.Context, merchantID, storeID int64, req *brand.UpdateStoreRequest) (*brand.Store, error) {
	st, err := s.ownedStore(ctx, merchantID, storeID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		st.Name = *req.Name
	}
	if req.Address != nil {
		st.Address = sql.NullString{String: *req.Address, Valid: *req.Address != ""}
	}
	if req.GooglePlaceID != nil {
		st.GooglePlaceID = sql.NullString{String: *req.GooglePlaceID, Valid: *req.GooglePlaceID != ""}
	}
	if req.SocialLinks != nil {
		st.SocialLinks = req.SocialLinks
	}

	if err := s.storeRepo.Update(ctx, st); err != nil {
		return nil, err
	}

	return st, nil
}

func (s *BrandService) DeleteStore(ctx context.Context, merchantID, storeID int64) error {
	if _, err := s.ownedStore(ctx, merchantID, storeID); err != nil {
		return err
	}
	return s.storeRepo.Delete(ctx, storeID)
}

// ownedBrand loads a brand and enforces merchant ownership
func (s *BrandService) ownedBrand(ctx context.Context, merchantID, brandID int64) (*brand.Brand, error) {
	b, err := s.brandRepo.FindByID(ctx, brandID)
	if err != nil {
		return nil, err
	}
	if b.MerchantID != merchantID {
		return nil, xerrors.ErrForbidden
	}
	return b, nil
}

// ownedStore loads a store and enforces merchant ownership through its brand
func (s *BrandService) ownedStore(ctx context.Context, merchantID, storeID int64) (*brand.Store, error) {
	st, err := s.storeRepo.FindByID(ctx, storeID)
	if err != nil {
		return nil, err
	}
	if _, err := s.ownedBrand(ctx, merchantID, st.BrandID); err != nil {
		return nil, err
	}
	return st, nil
}
