package request

type PortalLogin struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
	// Slug restricts the login to one project; empty logs into all
	// projects the user was granted.
	Slug string `json:"slug" validate:"omitempty,slug"`
}

type CreateMessage struct {
	Content string `json:"content" validate:"required,max=4000"`
}
