package activity

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DB defines the database operations used by activity structs.
// *pgxpool.Pool satisfies this interface.
type DB interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// CoreDB contains activities that read from and update the portal database.
type CoreDB struct {
	db DB
}

// NewCoreDB creates a new CoreDB activity struct.
func NewCoreDB(db DB) *CoreDB {
	return &CoreDB{db: db}
}

// ProvisionInfo is what the provisioning workflow needs to know about a
// project before creating its Microsoft 365 resources.
type ProvisionInfo struct {
	ProjectID   string
	Name        string
	Client      string
	Description string
	HasGroup    bool
	TeamEmails  []string
}

// GetProvisionInfo loads the project fields relevant to provisioning plus
// the emails of its portal users, which become group members.
func (a *CoreDB) GetProvisionInfo(ctx context.Context, projectID string) (*ProvisionInfo, error) {
	info := ProvisionInfo{ProjectID: projectID, TeamEmails: []string{}}
	var groupID *string
	err := a.db.QueryRow(ctx,
		`SELECT name, client, description, planner_group_id FROM projects WHERE id = $1`, projectID,
	).Scan(&info.Name, &info.Client, &info.Description, &groupID)
	if err != nil {
		return nil, fmt.Errorf("get project %s: %w", projectID, err)
	}
	info.HasGroup = groupID != nil

	rows, err := a.db.Query(ctx,
		`SELECT u.email FROM project_access pa JOIN users u ON u.id = pa.user_id
		 WHERE pa.project_id = $1`, projectID)
	if err != nil {
		return nil, fmt.Errorf("list portal users of project %s: %w", projectID, err)
	}
	defer rows.Close()

	for rows.Next() {
		var email string
		if err := rows.Scan(&email); err != nil {
			return nil, fmt.Errorf("scan portal user email: %w", err)
		}
		info.TeamEmails = append(info.TeamEmails, email)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate portal user emails: %w", err)
	}
	return &info, nil
}

// SetProvisionStatusParams holds the parameters for SetProvisionStatus.
type SetProvisionStatusParams struct {
	ProjectID string
	Status    string
	Error     *string
}

// SetProvisionStatus updates the project's provisioning status and error.
func (a *CoreDB) SetProvisionStatus(ctx context.Context, params SetProvisionStatusParams) error {
	_, err := a.db.Exec(ctx,
		`UPDATE projects SET provision_status = $1, provision_error = $2 WHERE id = $3`,
		params.Status, params.Error, params.ProjectID)
	if err != nil {
		return fmt.Errorf("set provision status of project %s: %w", params.ProjectID, err)
	}
	return nil
}

// SaveProvisionedResourcesParams holds the parameters for
// SaveProvisionedResources. Nil references are left alone.
type SaveProvisionedResourcesParams struct {
	ProjectID string
	GroupID   string
	TeamID    *string
	SiteID    *string
	PlanID    *string
}

// SaveProvisionedResources merges the provisioned resource references onto
// the project. Columns are only written when still NULL, so a reference
// attached by another path is never overwritten.
func (a *CoreDB) SaveProvisionedResources(ctx context.Context, params SaveProvisionedResourcesParams) error {
	tag, err := a.db.Exec(ctx,
		`UPDATE projects SET
			planner_group_id   = COALESCE(planner_group_id, $1),
			teams_team_id      = COALESCE(teams_team_id, $2),
			sharepoint_site_id = COALESCE(sharepoint_site_id, $3),
			planner_plan_id    = COALESCE(planner_plan_id, $4)
		 WHERE id = $5`,
		params.GroupID, params.TeamID, params.SiteID, params.PlanID, params.ProjectID)
	if err != nil {
		return fmt.Errorf("save provisioned resources of project %s: %w", params.ProjectID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("project %s not found", params.ProjectID)
	}
	return nil
}
