package core

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	temporalclient "go.temporal.io/sdk/client"

	"github.com/plainvanilla/portal/internal/model"
	"github.com/plainvanilla/portal/internal/platform"
)

// ErrNotFound marks a lookup for a row that does not exist.
var ErrNotFound = errors.New("not found")

// ErrAlreadyProvisioned is returned when provisioning is requested for a
// project that already has a Microsoft 365 group.
var ErrAlreadyProvisioned = errors.New("project already has a Microsoft 365 group")

type ProjectService struct {
	db     DB
	tc     temporalclient.Client
	gc     Graph
	logger zerolog.Logger
}

func NewProjectService(db DB, tc temporalclient.Client, gc Graph, logger zerolog.Logger) *ProjectService {
	return &ProjectService{db: db, tc: tc, gc: gc, logger: logger}
}

const projectColumns = `id, name, client, slug, description, status,
	sharepoint_site_id, sharepoint_folder_id, sharepoint_folder_url,
	teams_team_id, teams_channel_id, teams_channel_url,
	planner_group_id, planner_plan_id,
	provision_status, provision_error,
	pricing_base, pricing_vat_exempt, pricing_vat_rate,
	created_by, created_at`

func scanProject(row pgx.Row) (*model.Project, error) {
	var p model.Project
	var siteID, folderID, folderURL *string
	var teamID, channelID, channelURL *string
	var plannerGroupID, plannerPlanID *string

	err := row.Scan(&p.ID, &p.Name, &p.Client, &p.Slug, &p.Description, &p.Status,
		&siteID, &folderID, &folderURL,
		&teamID, &channelID, &channelURL,
		&plannerGroupID, &plannerPlanID,
		&p.ProvisionStatus, &p.ProvisionError,
		&p.Pricing.BasePrice, &p.Pricing.VATExempt, &p.Pricing.VATRate,
		&p.CreatedBy, &p.CreatedAt)
	if err != nil {
		return nil, err
	}

	if siteID != nil {
		p.SharePoint = &model.SharePointResources{SiteID: *siteID, FolderID: folderID, FolderURL: folderURL}
	}
	if teamID != nil {
		p.Teams = &model.TeamsResources{TeamID: *teamID, ChannelID: channelID, ChannelURL: channelURL}
	}
	if plannerPlanID != nil && plannerGroupID != nil {
		p.Planner = &model.PlannerResources{GroupID: *plannerGroupID, PlanID: *plannerPlanID}
	}
	p.AddOns = []model.AddOn{}
	return &p, nil
}

// Create inserts the project and, when autoSetup is set, starts the
// Microsoft 365 provisioning workflow for it.
func (s *ProjectService) Create(ctx context.Context, p *model.Project, autoSetup bool) error {
	if p.ID == "" {
		p.ID = platform.NewShortID()
	}
	if p.Slug == "" {
		p.Slug = platform.ClientSlug(p.Name)
	}
	if p.Status == "" {
		p.Status = model.ProjectStatusActive
	}
	if p.Pricing.VATRate == 0 {
		p.Pricing.VATRate = 21
	}
	p.ProvisionStatus = model.ProvisionStatusNone

	_, err := s.db.Exec(ctx,
		`INSERT INTO projects (id, name, client, slug, description, status, provision_status, pricing_base, pricing_vat_exempt, pricing_vat_rate, created_by)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		p.ID, p.Name, p.Client, p.Slug, p.Description, p.Status, p.ProvisionStatus,
		p.Pricing.BasePrice, p.Pricing.VATExempt, p.Pricing.VATRate, p.CreatedBy,
	)
	if err != nil {
		return fmt.Errorf("insert project: %w", err)
	}

	for i := range p.AddOns {
		if err := s.insertAddOn(ctx, p.ID, &p.AddOns[i]); err != nil {
			return err
		}
	}

	if autoSetup {
		if err := s.StartProvisioning(ctx, p.ID); err != nil {
			return err
		}
	}
	return nil
}

// StartProvisioning kicks off the full provisioning workflow for a project
// that has no Microsoft 365 group yet. The workflow ID is derived from the
// project ID, so Temporal rejects a concurrent duplicate start.
func (s *ProjectService) StartProvisioning(ctx context.Context, id string) error {
	var groupID *string
	err := s.db.QueryRow(ctx,
		`SELECT planner_group_id FROM projects WHERE id = $1`, id).Scan(&groupID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("project %s: %w", id, ErrNotFound)
		}
		return fmt.Errorf("get project %s: %w", id, err)
	}
	if groupID != nil {
		return ErrAlreadyProvisioned
	}

	_, err = s.db.Exec(ctx,
		`UPDATE projects SET provision_status = $1, provision_error = NULL WHERE id = $2`,
		model.ProvisionStatusPending, id)
	if err != nil {
		return fmt.Errorf("mark project %s pending: %w", id, err)
	}

	if err := startWorkflow(ctx, s.tc, "ProvisionM365Workflow", workflowID("m365-project", id), id); err != nil {
		return fmt.Errorf("start ProvisionM365Workflow: %w", err)
	}
	return nil
}

func (s *ProjectService) GetByID(ctx context.Context, id string) (*model.Project, error) {
	p, err := scanProject(s.db.QueryRow(ctx,
		`SELECT `+projectColumns+` FROM projects WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("project %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("get project %s: %w", id, err)
	}

	if err := s.loadRelations(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *ProjectService) GetBySlug(ctx context.Context, slug string) (*model.Project, error) {
	var id string
	err := s.db.QueryRow(ctx, `SELECT id FROM projects WHERE slug = $1`, slug).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("project %s: %w", slug, ErrNotFound)
		}
		return nil, fmt.Errorf("get project by slug %s: %w", slug, err)
	}
	return s.GetByID(ctx, id)
}

func (s *ProjectService) List(ctx context.Context) ([]model.Project, error) {
	rows, err := s.db.Query(ctx,
		`SELECT `+projectColumns+` FROM projects ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	defer rows.Close()

	var projects []model.Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("scan project: %w", err)
		}
		projects = append(projects, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate projects: %w", err)
	}

	for i := range projects {
		addOns, err := s.listAddOns(ctx, projects[i].ID)
		if err != nil {
			return nil, err
		}
		projects[i].AddOns = addOns
	}
	return projects, nil
}

// ProjectUpdate carries a partial project update; nil fields are untouched.
type ProjectUpdate struct {
	Name        *string
	Client      *string
	Slug        *string
	Description *string
	Status      *string
	BasePrice   *float64
	VATExempt   *bool
	VATRate     *int
	AddOns      *[]model.AddOn
}

func (s *ProjectService) Update(ctx context.Context, id string, upd ProjectUpdate) (*model.Project, error) {
	var fields []string
	var args []any

	set := func(col string, v any) {
		args = append(args, v)
		fields = append(fields, fmt.Sprintf("%s = $%d", col, len(args)))
	}
	if upd.Name != nil {
		set("name", *upd.Name)
	}
	if upd.Client != nil {
		set("client", *upd.Client)
	}
	if upd.Slug != nil {
		set("slug", *upd.Slug)
	}
	if upd.Description != nil {
		set("description", *upd.Description)
	}
	if upd.Status != nil {
		set("status", *upd.Status)
	}
	if upd.BasePrice != nil {
		set("pricing_base", *upd.BasePrice)
	}
	if upd.VATExempt != nil {
		set("pricing_vat_exempt", *upd.VATExempt)
	}
	if upd.VATRate != nil {
		set("pricing_vat_rate", *upd.VATRate)
	}

	if len(fields) > 0 {
		args = append(args, id)
		query := fmt.Sprintf(`UPDATE projects SET %s WHERE id = $%d`, strings.Join(fields, ", "), len(args))
		tag, err := s.db.Exec(ctx, query, args...)
		if err != nil {
			return nil, fmt.Errorf("update project %s: %w", id, err)
		}
		if tag.RowsAffected() == 0 {
			return nil, fmt.Errorf("project %s: %w", id, ErrNotFound)
		}
	}

	if upd.AddOns != nil {
		if _, err := s.db.Exec(ctx, `DELETE FROM project_addons WHERE project_id = $1`, id); err != nil {
			return nil, fmt.Errorf("clear add-ons of project %s: %w", id, err)
		}
		for i := range *upd.AddOns {
			addOn := (*upd.AddOns)[i]
			if err := s.insertAddOn(ctx, id, &addOn); err != nil {
				return nil, err
			}
		}
	}

	return s.GetByID(ctx, id)
}

func (s *ProjectService) Delete(ctx context.Context, id string) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM projects WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete project %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("project %s: %w", id, ErrNotFound)
	}
	return nil
}

// ResourceRefs are Microsoft 365 resource references to merge onto a
// project. Nil fields are left alone.
type ResourceRefs struct {
	SharePointSiteID    *string
	SharePointFolderID  *string
	SharePointFolderURL *string
	TeamsTeamID         *string
	TeamsChannelID      *string
	TeamsChannelURL     *string
	PlannerGroupID      *string
	PlannerPlanID       *string
}

// AttachResources merges resource references onto the project record. Each
// column is only written when currently NULL, so near-simultaneous
// provisioning outcomes compose instead of clobbering each other.
func (s *ProjectService) AttachResources(ctx context.Context, id string, refs ResourceRefs) error {
	tag, err := s.db.Exec(ctx,
		`UPDATE projects SET
			sharepoint_site_id   = COALESCE(sharepoint_site_id, $1),
			sharepoint_folder_id = COALESCE(sharepoint_folder_id, $2),
			sharepoint_folder_url = COALESCE(sharepoint_folder_url, $3),
			teams_team_id        = COALESCE(teams_team_id, $4),
			teams_channel_id     = COALESCE(teams_channel_id, $5),
			teams_channel_url    = COALESCE(teams_channel_url, $6),
			planner_group_id     = COALESCE(planner_group_id, $7),
			planner_plan_id      = COALESCE(planner_plan_id, $8)
		 WHERE id = $9`,
		refs.SharePointSiteID, refs.SharePointFolderID, refs.SharePointFolderURL,
		refs.TeamsTeamID, refs.TeamsChannelID, refs.TeamsChannelURL,
		refs.PlannerGroupID, refs.PlannerPlanID, id)
	if err != nil {
		return fmt.Errorf("attach resources to project %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("project %s: %w", id, ErrNotFound)
	}
	return nil
}

func (s *ProjectService) insertAddOn(ctx context.Context, projectID string, addOn *model.AddOn) error {
	if addOn.ID == "" {
		addOn.ID = platform.NewShortID()
	}
	_, err := s.db.Exec(ctx,
		`INSERT INTO project_addons (id, project_id, name, price) VALUES ($1, $2, $3, $4)`,
		addOn.ID, projectID, addOn.Name, addOn.Price)
	if err != nil {
		return fmt.Errorf("insert add-on: %w", err)
	}
	return nil
}

func (s *ProjectService) listAddOns(ctx context.Context, projectID string) ([]model.AddOn, error) {
	rows, err := s.db.Query(ctx,
		`SELECT id, name, price FROM project_addons WHERE project_id = $1`, projectID)
	if err != nil {
		return nil, fmt.Errorf("list add-ons of project %s: %w", projectID, err)
	}
	defer rows.Close()

	addOns := []model.AddOn{}
	for rows.Next() {
		var a model.AddOn
		if err := rows.Scan(&a.ID, &a.Name, &a.Price); err != nil {
			return nil, fmt.Errorf("scan add-on: %w", err)
		}
		addOns = append(addOns, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate add-ons: %w", err)
	}
	return addOns, nil
}

func (s *ProjectService) loadRelations(ctx context.Context, p *model.Project) error {
	addOns, err := s.listAddOns(ctx, p.ID)
	if err != nil {
		return err
	}
	p.AddOns = addOns

	phases, err := listPhases(ctx, s.db, p.ID)
	if err != nil {
		return err
	}
	p.Phases = phases

	sessions, err := listSessions(ctx, s.db, p.ID)
	if err != nil {
		return err
	}
	p.Sessions = sessions

	tasks, err := listTasks(ctx, s.db, p.ID)
	if err != nil {
		return err
	}
	p.Tasks = tasks
	return nil
}
