package activity

import (
	"context"
	"errors"

	"go.temporal.io/sdk/temporal"

	"github.com/plainvanilla/portal/internal/graph"
	"github.com/plainvanilla/portal/internal/provision"
)

// M365 contains the activity that runs the full Microsoft 365
// provisioning sequence against Graph.
type M365 struct {
	orch *provision.Orchestrator
}

// NewM365 creates a new M365 activity struct.
func NewM365(orch *provision.Orchestrator) *M365 {
	return &M365{orch: orch}
}

// ProvisionM365Params holds the parameters for ProvisionM365.
type ProvisionM365Params struct {
	ProjectName string
	ClientName  string
	Description string
	TeamEmails  []string
}

// ProvisionOutcome is the workflow-facing result of a provisioning run.
// Succeeded reflects the group step only; dependent resources can fail
// while Succeeded stays true, with their failures listed in Errors.
type ProvisionOutcome struct {
	Succeeded bool
	GroupID   string
	TeamID    *string
	SiteID    *string
	PlanID    *string
	Errors    []string
}

// ProvisionM365 creates the project's Microsoft 365 resources. The run is
// not idempotent, so retries are disabled via a non-retryable error on
// validation failures and MaximumAttempts 1 on the workflow side.
func (a *M365) ProvisionM365(ctx context.Context, params ProvisionM365Params) (*ProvisionOutcome, error) {
	report, err := a.orch.Provision(ctx, provision.Request{
		ProjectName: params.ProjectName,
		ClientName:  params.ClientName,
		Description: params.Description,
		TeamEmails:  params.TeamEmails,
	})
	if err != nil {
		var verr *provision.ValidationError
		if errors.As(err, &verr) {
			return nil, temporal.NewNonRetryableApplicationError(verr.Error(), "ValidationError", err)
		}
		return nil, err
	}

	outcome := &ProvisionOutcome{Succeeded: report.Succeeded, GroupID: report.GroupID}
	for _, step := range report.Steps {
		if !step.OK {
			outcome.Errors = append(outcome.Errors, string(step.Step)+": "+step.Error)
			continue
		}
		switch step.Step {
		case provision.StepTeam:
			if team, ok := step.Data.(*graph.Team); ok {
				id := team.ID
				outcome.TeamID = &id
			}
		case provision.StepSharePoint:
			if site, ok := step.Data.(*graph.Site); ok {
				id := site.ID
				outcome.SiteID = &id
			}
		case provision.StepPlanner:
			if plan, ok := step.Data.(*graph.Plan); ok {
				id := plan.ID
				outcome.PlanID = &id
			}
		}
	}
	return outcome, nil
}
