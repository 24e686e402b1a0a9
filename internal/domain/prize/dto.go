// internal/domain/prize/dto.go
package prize

type CreatePrizeRequest struct {
	Name        string  `json:"name" binding:"required,max=255"`
	Probability float64 `json:"probability" binding:"required,gt=0,lte=100"`
	Quantity    int     `json:"quantity" binding:"required,min=1"`
	Value       float64 `json:"value" binding:"min=0"`
	Currency    string  `json:"currency" binding:"omitempty,len=3"`
	Color       string  `json:"color" binding:"omitempty,max=16"`
}

type UpdatePrizeRequest struct {
	Name        *string  `json:"name" binding:"omitempty,max=255"`
	Probability *float64 `json:"probability" binding:"omitempty,gt=0,lte=100"`
	Quantity    *int     `json:"quantity" binding:"omitempty,min=1"`
	Value       *float64 `json:"value" binding:"omitempty,min=0"`
	Color       *string  `json:"color" binding:"omitempty,max=16"`
}
