package provision

import (
	"context"
	"fmt"

	"github.com/plainvanilla/portal/internal/graph"
)

// Request describes the Microsoft 365 resources to provision for a project.
type Request struct {
	ProjectName string   `json:"projectName"`
	ClientName  string   `json:"clientName"`
	Description string   `json:"description"`
	TeamEmails  []string `json:"teamEmails"`
}

// Step identifies one provisioning step.
type Step string

const (
	StepGroup      Step = "group"
	StepTeam       Step = "team"
	StepSharePoint Step = "sharepoint"
	StepPlanner    Step = "planner"
	StepBuckets    Step = "buckets"
	StepMembers    Step = "members"
)

// StepResult records the outcome of a single step. Once recorded it is
// never revised by later steps.
type StepResult struct {
	Step  Step   `json:"step"`
	OK    bool   `json:"success"`
	Error string `json:"error,omitempty"`
	Data  any    `json:"data,omitempty"`
}

// Report is the outcome of a provisioning run. Succeeded reflects the
// group step only; dependent resources can fail while Succeeded stays true.
type Report struct {
	Succeeded bool         `json:"success"`
	GroupID   string       `json:"groupId,omitempty"`
	Steps     []StepResult `json:"steps"`
}

// StepByName returns the step result with the given name, or nil.
func (r *Report) StepByName(step Step) *StepResult {
	for i := range r.Steps {
		if r.Steps[i].Step == step {
			return &r.Steps[i]
		}
	}
	return nil
}

// ValidationError marks a request rejected before any Graph call was made.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// GraphAPI is the slice of the Graph client the orchestrator needs.
type GraphAPI interface {
	CreateGroup(ctx context.Context, displayName, mailNickname, description string) (*graph.Group, error)
	CreateTeamFromGroup(ctx context.Context, groupID string) (*graph.Team, error)
	GetGroupSite(ctx context.Context, groupID string) (*graph.Site, error)
	CreatePlan(ctx context.Context, groupID, title string) (*graph.Plan, error)
	CreateBucket(ctx context.Context, planID, name, orderHint string) (*graph.Bucket, error)
	AddGroupMembers(ctx context.Context, groupID string, emails []string) ([]graph.MemberResult, error)
}
