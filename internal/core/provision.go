package core

import (
	"context"
	"fmt"

	temporalclient "go.temporal.io/sdk/client"
)

const taskQueue = "portal-tasks"

// skipWorkflowKey is a context key that suppresses workflow execution.
// Used in tests and by activities so that persistence done from inside a
// workflow never starts another one.
type skipWorkflowKey struct{}

// WithSkipWorkflow returns a context that causes startWorkflow to be a no-op.
func WithSkipWorkflow(ctx context.Context) context.Context {
	return context.WithValue(ctx, skipWorkflowKey{}, true)
}

// workflowID builds a Temporal workflow ID from a resource type prefix and
// the resource's ID.
func workflowID(prefix, id string) string {
	return fmt.Sprintf("%s-%s", prefix, id)
}

// startWorkflow executes a Temporal workflow by name. The workflow ID makes
// Temporal reject a duplicate start while a run for the same resource is
// still open, which is the dedupe guarantee for provisioning retries.
func startWorkflow(ctx context.Context, tc temporalclient.Client, workflowName, wfID string, arg any) error {
	if v, _ := ctx.Value(skipWorkflowKey{}).(bool); v {
		return nil
	}

	_, err := tc.ExecuteWorkflow(ctx, temporalclient.StartWorkflowOptions{
		ID:        wfID,
		TaskQueue: taskQueue,
	}, workflowName, arg)
	return err
}
