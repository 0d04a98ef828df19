package request

type CreatePhase struct {
	Name        string  `json:"name" validate:"required"`
	Description string  `json:"description"`
	StartDate   *string `json:"startDate" validate:"omitempty,date"`
	EndDate     *string `json:"endDate" validate:"omitempty,date"`
	Status      string  `json:"status" validate:"omitempty,oneof=pending in_progress completed"`
	Order       int     `json:"order"`
}

type UpdatePhase struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	StartDate   *string `json:"startDate" validate:"omitempty,date"`
	EndDate     *string `json:"endDate" validate:"omitempty,date"`
	Status      *string `json:"status" validate:"omitempty,oneof=pending in_progress completed"`
	Order       *int    `json:"order"`
}
