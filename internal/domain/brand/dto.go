// internal/domain/brand/dto.go
package brand

type CreateBrandRequest struct {
	Name         string `json:"name" binding:"required,max=255"`
	LogoURL      string `json:"logo_url" binding:"omitempty,url"`
	PrimaryColor string `json:"primary_color" binding:"omitempty,max=16"`
}

type UpdateBrandRequest struct {
	Name         *string `json:"name" binding:"omitempty,max=255"`
	LogoURL      *string `json:"logo_url" binding:"omitempty,url"`
	PrimaryColor *string `json:"primary_color" binding:"omitempty,max=16"`
}

type CreateStoreRequest struct {
	Name          string   `json:"name" binding:"required,max=255"`
	Address       string   `json:"address"`
	GooglePlaceID string   `json:"google_place_id"`
	SocialLinks   []string `json:"social_links"`
}

type UpdateStoreRequest struct {
	Name          *string  `json:"name" binding:"omitempty,max=255"`
	Address       *string  `json:"address"`
	GooglePlaceID *string  `json:"google_place_id"`
	SocialLinks   []string `json:"social_links"`
}
