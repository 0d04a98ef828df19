package core

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/plainvanilla/portal/internal/graph"
)

// DB is the subset of pgxpool.Pool the services use.
type DB interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, arguments ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, arguments ...any) pgx.Row
}

// Graph is the slice of the Microsoft Graph client the services use.
// The orchestrated full-provisioning path has its own narrower interface
// in the provision package.
type Graph interface {
	CreateFolder(ctx context.Context, siteID, parentID, name string) (*graph.DriveItem, error)
	CreatePlan(ctx context.Context, groupID, title string) (*graph.Plan, error)
	CreateDefaultBuckets(ctx context.Context, planID string) ([]graph.Bucket, error)
	CreateChannel(ctx context.Context, teamID, displayName, description string) (*graph.Channel, error)
	SendChannelMessage(ctx context.Context, teamID, channelID, html string) error
	CreateGroupEvent(ctx context.Context, groupID string, event *graph.Event) (*graph.Event, error)
	UpdateGroupEvent(ctx context.Context, groupID, eventID string, updates map[string]any) error
	DeleteGroupEvent(ctx context.Context, groupID, eventID string) error
	CreatePlannerTask(ctx context.Context, planID, bucketID, title string) (*graph.PlannerTask, error)
	GetPlannerTask(ctx context.Context, taskID string) (*graph.PlannerTask, error)
	UpdatePlannerTask(ctx context.Context, taskID, etag string, updates map[string]any) error
	ListBuckets(ctx context.Context, planID string) ([]graph.Bucket, error)
	SendMail(ctx context.Context, from, to, subject, htmlBody string) error
}
