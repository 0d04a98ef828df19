package model

import "time"

type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	PasswordHash *string   `json:"-"`
	MicrosoftID  *string   `json:"microsoftId,omitempty"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
}

// User role constants.
const (
	RoleAdmin  = "admin"
	RoleClient = "client"
)
