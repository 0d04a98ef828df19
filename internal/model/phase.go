package model

import "time"

type Phase struct {
	ID              string    `json:"id"`
	ProjectID       string    `json:"projectId"`
	Name            string    `json:"name"`
	Description     string    `json:"description"`
	StartDate       *string   `json:"startDate"`
	EndDate         *string   `json:"endDate"`
	Status          string    `json:"status"`
	Order           int       `json:"order"`
	CalendarEventID *string   `json:"calendarEventId"`
	CreatedAt       time.Time `json:"createdAt"`
}
