package model

import "time"

type Task struct {
	ID            string     `json:"id"`
	ProjectID     string     `json:"projectId"`
	PhaseID       *string    `json:"phaseId"`
	Title         string     `json:"title"`
	Description   string     `json:"description"`
	DueDate       *string    `json:"dueDate"`
	Priority      string     `json:"priority"`
	Status        string     `json:"status"`
	Visibility    string     `json:"visibility"`
	Assignees     []Assignee `json:"assignedTo"`
	PlannerTaskID *string    `json:"plannerTaskId"`
	CreatedBy     *string    `json:"createdBy"`
	CreatedAt     time.Time  `json:"createdAt"`
}

type Assignee struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
	Photo string `json:"photo,omitempty"`
}
