package model

import "time"

// Session is a scheduled working session with the client, optionally
// mirrored to the Microsoft 365 group calendar as an online meeting.
type Session struct {
	ID              string    `json:"id"`
	ProjectID       string    `json:"projectId"`
	PhaseID         *string   `json:"phaseId"`
	Title           string    `json:"title"`
	Date            string    `json:"date"`
	Time            string    `json:"time"`
	Duration        int       `json:"duration"`
	Type            string    `json:"type"`
	Location        string    `json:"location"`
	TeamsLink       *string   `json:"teamsLink"`
	CalendarEventID *string   `json:"calendarEventId"`
	CreatedAt       time.Time `json:"createdAt"`
}
