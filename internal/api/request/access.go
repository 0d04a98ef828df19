package request

type GrantAccess struct {
	Email       string   `json:"email" validate:"required,email"`
	Name        string   `json:"name"`
	Permissions []string `json:"permissions" validate:"omitempty,dive,oneof=view tasks messages"`
	SendEmail   bool     `json:"sendEmail"`
}
