package workflow

import (
	"strings"
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	"github.com/plainvanilla/portal/internal/activity"
	"github.com/plainvanilla/portal/internal/model"
)

// ProvisionM365Workflow creates the Microsoft 365 resources for a project:
// group, team, SharePoint site and Planner plan, plus group members for
// the project's portal users. Only the group is mandatory; partial
// failures of dependent resources leave the project provisioned with the
// failures recorded in provision_error.
func ProvisionM365Workflow(ctx workflow.Context, projectID string) error {
	ao := workflow.ActivityOptions{
		StartToCloseTimeout: 30 * time.Second,
		RetryPolicy: &temporal.RetryPolicy{
			MaximumAttempts: 3,
		},
	}
	ctx = workflow.WithActivityOptions(ctx, ao)

	// Set status to running.
	err := workflow.ExecuteActivity(ctx, "SetProvisionStatus", activity.SetProvisionStatusParams{
		ProjectID: projectID,
		Status:    model.ProvisionStatusRunning,
	}).Get(ctx, nil)
	if err != nil {
		return err
	}

	// Look up the project.
	var info activity.ProvisionInfo
	err = workflow.ExecuteActivity(ctx, "GetProvisionInfo", projectID).Get(ctx, &info)
	if err != nil {
		_ = setProvisionFailed(ctx, projectID, err)
		return err
	}

	// A project that already has a group keeps its resources untouched.
	if info.HasGroup {
		return workflow.ExecuteActivity(ctx, "SetProvisionStatus", activity.SetProvisionStatusParams{
			ProjectID: projectID,
			Status:    model.ProvisionStatusCompleted,
		}).Get(ctx, nil)
	}

	// Run the Graph sequence. Group creation is not idempotent, so the
	// activity gets one attempt and a generous timeout.
	graphCtx := workflow.WithActivityOptions(ctx, workflow.ActivityOptions{
		StartToCloseTimeout: 5 * time.Minute,
		RetryPolicy: &temporal.RetryPolicy{
			MaximumAttempts: 1,
		},
	})

	var outcome activity.ProvisionOutcome
	err = workflow.ExecuteActivity(graphCtx, "ProvisionM365", activity.ProvisionM365Params{
		ProjectName: info.Name,
		ClientName:  info.Client,
		Description: info.Description,
		TeamEmails:  info.TeamEmails,
	}).Get(ctx, &outcome)
	if err != nil {
		_ = setProvisionFailed(ctx, projectID, err)
		return err
	}

	if !outcome.Succeeded {
		msg := strings.Join(outcome.Errors, "; ")
		return workflow.ExecuteActivity(ctx, "SetProvisionStatus", activity.SetProvisionStatusParams{
			ProjectID: projectID,
			Status:    model.ProvisionStatusFailed,
			Error:     &msg,
		}).Get(ctx, nil)
	}

	// Persist the created references.
	err = workflow.ExecuteActivity(ctx, "SaveProvisionedResources", activity.SaveProvisionedResourcesParams{
		ProjectID: projectID,
		GroupID:   outcome.GroupID,
		TeamID:    outcome.TeamID,
		SiteID:    outcome.SiteID,
		PlanID:    outcome.PlanID,
	}).Get(ctx, nil)
	if err != nil {
		_ = setProvisionFailed(ctx, projectID, err)
		return err
	}

	// Set status to completed, keeping any dependent-step failures visible.
	params := activity.SetProvisionStatusParams{
		ProjectID: projectID,
		Status:    model.ProvisionStatusCompleted,
	}
	if len(outcome.Errors) > 0 {
		msg := strings.Join(outcome.Errors, "; ")
		params.Error = &msg
	}
	return workflow.ExecuteActivity(ctx, "SetProvisionStatus", params).Get(ctx, nil)
}

// setProvisionFailed records a failed provisioning run. Callers typically
// ignore its error since the primary error matters more.
func setProvisionFailed(ctx workflow.Context, projectID string, err error) error {
	msg := err.Error()
	return workflow.ExecuteActivity(ctx, "SetProvisionStatus", activity.SetProvisionStatusParams{
		ProjectID: projectID,
		Status:    model.ProvisionStatusFailed,
		Error:     &msg,
	}).Get(ctx, nil)
}
