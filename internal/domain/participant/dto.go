// internal/domain/participant/dto.go
package participant

type EligibilityRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type EligibilityResponse struct {
	Eligible      bool   `json:"eligible"`
	ReadyToPlay   bool   `json:"ready_to_play"`
	ParticipantID int64  `json:"participant_id"`
	NextCondition *NextConditionView `json:"next_condition,omitempty"`
}

type NextConditionView struct {
	ConditionID int64  `json:"condition_id"`
	Type        string `json:"type"`
	Order       int    `json:"order"`
	Label       string `json:"label"`
	TargetURL   string `json:"target_url,omitempty"`
}

type CompleteConditionRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type SubmitReviewRequest struct {
	Email   string `json:"email" binding:"required,email"`
	Rating  int    `json:"rating" binding:"required,min=1,max=5"`
	Comment string `json:"comment" binding:"max=4000"`
}
