package model

import "time"

type Message struct {
	ID        string    `json:"id"`
	ProjectID string    `json:"projectId"`
	UserID    *string   `json:"userId"`
	UserName  *string   `json:"userName,omitempty"`
	UserEmail *string   `json:"userEmail,omitempty"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}
