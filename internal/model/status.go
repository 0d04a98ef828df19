package model

// Project status constants.
const (
	ProjectStatusActive    = "active"
	ProjectStatusPaused    = "paused"
	ProjectStatusCompleted = "completed"
	ProjectStatusArchived  = "archived"
)

// Provisioning status constants for the Microsoft 365 setup workflow.
const (
	ProvisionStatusNone      = "none"
	ProvisionStatusPending   = "pending"
	ProvisionStatusRunning   = "running"
	ProvisionStatusCompleted = "completed"
	ProvisionStatusFailed    = "failed"
)

// Task status constants.
const (
	TaskStatusPending    = "pending"
	TaskStatusInProgress = "in_progress"
	TaskStatusCompleted  = "completed"
)
