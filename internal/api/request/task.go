package request

type TaskAssignee struct {
	Email string `json:"email" validate:"required,email"`
	Name  string `json:"name"`
	Photo string `json:"photo"`
}

type CreateTask struct {
	Title       string         `json:"title" validate:"required"`
	Description string         `json:"description"`
	DueDate     *string        `json:"dueDate" validate:"omitempty,date"`
	PhaseID     *string        `json:"phaseId"`
	Priority    string         `json:"priority" validate:"omitempty,oneof=low medium high"`
	Status      string         `json:"status" validate:"omitempty,oneof=pending in_progress completed"`
	Visibility  string         `json:"visibility" validate:"omitempty,oneof=public internal"`
	Assignees   []TaskAssignee `json:"assignedTo" validate:"omitempty,dive"`
}

type UpdateTask struct {
	Title       *string         `json:"title"`
	Description *string         `json:"description"`
	DueDate     *string         `json:"dueDate" validate:"omitempty,date"`
	PhaseID     *string         `json:"phaseId"`
	Priority    *string         `json:"priority" validate:"omitempty,oneof=low medium high"`
	Status      *string         `json:"status" validate:"omitempty,oneof=pending in_progress completed"`
	Visibility  *string         `json:"visibility" validate:"omitempty,oneof=public internal"`
	Assignees   *[]TaskAssignee `json:"assignedTo" validate:"omitempty,dive"`
}

// UpdateTaskStatus is the only task mutation the client portal allows.
type UpdateTaskStatus struct {
	Status string `json:"status" validate:"required,oneof=pending in_progress completed"`
}
