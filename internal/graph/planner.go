package graph

import (
	"context"
	"fmt"
)

type Plan struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Owner string `json:"owner"`
}

type Bucket struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	PlanID    string `json:"planId"`
	OrderHint string `json:"orderHint"`
}

type PlannerTask struct {
	ID              string `json:"id"`
	PlanID          string `json:"planId"`
	BucketID        string `json:"bucketId"`
	Title           string `json:"title"`
	PercentComplete int    `json:"percentComplete"`
	ETag            string `json:"@odata.etag"`
}

// DefaultBucketNames are the buckets every new plan starts with.
var DefaultBucketNames = []string{"Por hacer", "En curso", "Completado", "En espera"}

func (c *Client) CreatePlan(ctx context.Context, groupID, title string) (*Plan, error) {
	payload := map[string]string{
		"owner": groupID,
		"title": title,
	}

	var plan Plan
	if err := c.post(ctx, "/planner/plans", payload, &plan); err != nil {
		return nil, fmt.Errorf("create plan %q: %w", title, err)
	}
	return &plan, nil
}

func (c *Client) ListBuckets(ctx context.Context, planID string) ([]Bucket, error) {
	var result struct {
		Value []Bucket `json:"value"`
	}
	if err := c.get(ctx, "/planner/plans/"+planID+"/buckets", &result); err != nil {
		return nil, fmt.Errorf("list buckets of plan %s: %w", planID, err)
	}
	return result.Value, nil
}

func (c *Client) CreateBucket(ctx context.Context, planID, name, orderHint string) (*Bucket, error) {
	if orderHint == "" {
		orderHint = " !"
	}
	payload := map[string]string{
		"name":      name,
		"planId":    planID,
		"orderHint": orderHint,
	}

	var bucket Bucket
	if err := c.post(ctx, "/planner/buckets", payload, &bucket); err != nil {
		return nil, fmt.Errorf("create bucket %q in plan %s: %w", name, planID, err)
	}
	return &bucket, nil
}

// CreateDefaultBuckets creates the four standard buckets with ascending
// order hints so Planner renders them in the given order. Individual bucket
// failures are skipped.
func (c *Client) CreateDefaultBuckets(ctx context.Context, planID string) ([]Bucket, error) {
	buckets := make([]Bucket, 0, len(DefaultBucketNames))
	for i, name := range DefaultBucketNames {
		orderHint := fmt.Sprintf(" %c!", 'A'+i)
		bucket, err := c.CreateBucket(ctx, planID, name, orderHint)
		if err != nil {
			continue
		}
		buckets = append(buckets, *bucket)
	}
	return buckets, nil
}

func (c *Client) CreatePlannerTask(ctx context.Context, planID, bucketID, title string) (*PlannerTask, error) {
	payload := map[string]any{
		"planId":   planID,
		"bucketId": bucketID,
		"title":    title,
	}

	var task PlannerTask
	if err := c.post(ctx, "/planner/tasks", payload, &task); err != nil {
		return nil, fmt.Errorf("create planner task %q: %w", title, err)
	}
	return &task, nil
}

func (c *Client) GetPlannerTask(ctx context.Context, taskID string) (*PlannerTask, error) {
	var task PlannerTask
	if err := c.get(ctx, "/planner/tasks/"+taskID, &task); err != nil {
		return nil, fmt.Errorf("get planner task %s: %w", taskID, err)
	}
	return &task, nil
}

// UpdatePlannerTask patches a task. Planner requires the task's current
// etag in If-Match.
func (c *Client) UpdatePlannerTask(ctx context.Context, taskID, etag string, updates map[string]any) error {
	headers := map[string]string{"If-Match": etag}
	if err := c.patch(ctx, "/planner/tasks/"+taskID, updates, nil, headers); err != nil {
		return fmt.Errorf("update planner task %s: %w", taskID, err)
	}
	return nil
}
