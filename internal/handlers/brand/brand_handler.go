// internal/handlers/brand/brand_handler.go
package brand

import (
	"net/http"
	"strconv"

	"reviewlottery-service/internal/domain/brand"
	"reviewlottery-service/internal/middleware"
	"reviewlottery-service/internal/pkg/response"
	service "reviewlottery-service/internal/service/brand"

	"github.com/gin-gonic/gin"
)

type BrandHandler struct {
	brandService *service.BrandService
}

func NewBrandHandler(brandService *service.BrandService) *BrandHandler {
	return &BrandHandler{
		brandService: brandService,
	}
}

func (h *BrandHandler) CreateBrand(c *gin.Context) {
	merchantID := middleware.MustGetMerchantID(c)

	var req brand.CreateBrandRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request", err)
		return
	}

	b, err := h.brandService.CreateBrand(c.Request.Context(), merchantID, &req)
	if err != nil {
		response.FromError(c, "failed to create brand", err)
		return
	}

	response.Success(c, http.StatusCreated, "brand created successfully", b)
}

func (h *BrandHandler) GetBrand(c *gin.Context) {
	merchantID := middleware.MustGetMerchantID(c)
	brandID, err := pathID(c, "id")
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid brand ID", err)
		return
	}

	b, err := h.brandService.GetBrand(c.Request.Context(), merchantID, brandID)
	if err != nil {
		response.FromError(c, "failed to load brand", err)
		return
	}

	response.Success(c, http.StatusOK, "brand", b)
}

func (h *BrandHandler) ListBrands(c *gin.Context) {
	merchantID := middleware.MustGetMerchantID(c)

	brands, err := h.brandService.ListBrands(c.Request.Context(), merchantID)
	if err != nil {
		response.FromError(c, "failed to list brands", err)
		return
	}

	response.Success(c, http.StatusOK, "brands", brands)
}

func (h *BrandHandler) UpdateBrand(c *gin.Context) {
	merchantID := middleware.MustGetMerchantID(c)
	brandID, err := pathID(c, "id")
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid brand ID", err)
		return
	}

	var req brand.UpdateBrandRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request", err)
		return
	}

	b, err := h.brandService.UpdateBrand(c.Request.Context(), merchantID, brandID, &req)
	if err != nil {
		response.FromError(c, "failed to update brand", err)
		return
	}

	response.Success(c, http.StatusOK, "brand updated successfully", b)
}

func (h *BrandHandler) DeleteBrand(c *gin.Context) {
	merchantID := middleware.MustGetMerchantID(c)
	brandID, err := pathID(c, "id")
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid brand ID", err)
		return
	}

	if err := h.brandService.DeleteBrand(c.Request.Context(), merchantID, brandID); err != nil {
		response.FromError(c, "failed to delete brand", err)
		return
	}

	response.Success(c, http.StatusOK, "brand deleted successfully", nil)
}

// ========== Stores ==========

func (h *BrandHandler) CreateStore(c *gin.Context) {
	merchantID := middleware.MustGetMerchantID(c)
	brandID, err := pathID(c, "id")
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid brand ID", err)
		return
	}

	var req brand.CreateStoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request", err)
		return
	}

	st, err := h.brandService.CreateStore(c.Request.Context(), merchantID, brandID, &req)
	if err != nil {
		response.FromError(c, "failed to create store", err)
		return
	}

	response.Success(c, http.StatusCreated, "store created successfully", st)
}

func (h *BrandHandler) ListStores(c *gin.Context) {
	merchantID := middleware.MustGetMerchantID(c)
	brandID, err := pathID(c, "id")
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid brand ID", err)
		return
	}

	stores, err := h.brandService.ListStores(c.Request.Context(), merchantID, brandID)
	if err != nil {
		response.FromError(c, "failed to list stores", err)
		return
	}

	response.Success(c, http.StatusOK, "stores", stores)
}

func (h *BrandHandler) GetStore(c *gin.Context) {
	merchantID := middleware.MustGetMerchantID(c)
	storeID, err := pathID(c, "id")
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid store ID", err)
		return
	}

	st, err := h.brandService.GetStore(c.Request.Context(), merchantID, storeID)
	if err != nil {
		response.FromError(c, "failed to load store", err)
		return
	}

	response.Success(c, http.StatusOK, "store", st)
}

func (h *BrandHandler) UpdateStore(c *gin.Context) {
	merchantID := middleware.MustGetMerchantID(c)
	storeID, err := pathID(c, "id")
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid store ID", err)
		return
	}

	var req brand.UpdateStoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request", err)
		return
	}

	st, err := h.brandService.UpdateStore(c.Request.Context(), merchantID, storeID, &req)
	if err != nil {
		response.FromError(c, "failed to update store", err)
		return
	}

	response.Success(c, http.StatusOK, "store updated successfully", st)
}

func (h *BrandHandler) DeleteStore(c *gin.Context) {
	merchantID := middleware.MustGetMerchantID(c)
	storeID, err := pathID(c, "id")
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid store ID", err)
		return
	}

	if err := h.brandService.DeleteStore(c.Request.Context(), merchantID, storeID); err != nil {
		response.FromError(c, "failed to delete store", err)
		return
	}

	response.Success(c, http.StatusOK, "store deleted successfully", nil)
}

func pathID(c *gin.Context, name string) (int64, error) {
	return strconv.ParseInt(c.Param(name), 10, 64)
}
