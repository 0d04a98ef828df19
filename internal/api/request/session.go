package request

type CreateSession struct {
	Title     string   `json:"title" validate:"required"`
	Date      string   `json:"date" validate:"required,date"`
	Time      string   `json:"time" validate:"required,clocktime"`
	Duration  int      `json:"duration" validate:"omitempty,min=1"`
	Type      string   `json:"type" validate:"omitempty,oneof=online presencial"`
	Location  string   `json:"location"`
	PhaseID   *string  `json:"phaseId"`
	Attendees []string `json:"attendees" validate:"omitempty,dive,email"`
}

type UpdateSession struct {
	Title    *string `json:"title"`
	Date     *string `json:"date" validate:"omitempty,date"`
	Time     *string `json:"time" validate:"omitempty,clocktime"`
	Duration *int    `json:"duration" validate:"omitempty,min=1"`
	Type     *string `json:"type" validate:"omitempty,oneof=online presencial"`
	Location *string `json:"location"`
	PhaseID  *string `json:"phaseId"`
}
