package provision

import (
	"context"
	"regexp"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/plainvanilla/portal/internal/graph"
)

// defaultDescription is used when the request carries no description.
const defaultDescription = "Proyecto gestionado por Plain Vanilla"

var emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Config tunes the orchestrator.
type Config struct {
	// GroupWait is the pause between group creation and dependent steps,
	// giving Graph time to replicate the new group. Zero skips the wait.
	GroupWait time.Duration
	// StepTimeout bounds each individual Graph step. Zero means no bound
	// beyond the caller's context.
	StepTimeout time.Duration
}

// Orchestrator runs the full Microsoft 365 provisioning sequence for a
// project: group, then team, SharePoint site, Planner plan with default
// buckets, and group members. Only the group step is mandatory; dependent
// steps fail independently and are recorded in the report. There is no
// rollback: resources created before a failure stay.
type Orchestrator struct {
	api    GraphAPI
	cfg    Config
	logger zerolog.Logger
}

func New(api GraphAPI, cfg Config, logger zerolog.Logger) *Orchestrator {
	return &Orchestrator{api: api, cfg: cfg, logger: logger}
}

// Provision validates the request and runs the provisioning sequence.
// Validation failures return a *ValidationError before any Graph call.
// After validation the returned error is always nil; outcomes, including
// a failed group step, are in the report.
func (o *Orchestrator) Provision(ctx context.Context, req Request) (*Report, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	projectName := strings.TrimSpace(req.ProjectName)
	clientName := strings.TrimSpace(req.ClientName)
	description := strings.TrimSpace(req.Description)
	if description == "" {
		description = defaultDescription
	}

	displayName := DisplayName(clientName, projectName)
	mailNickname := MailNickname(clientName, projectName)

	report := &Report{}

	stepCtx, cancel := o.stepContext(ctx)
	group, err := o.api.CreateGroup(stepCtx, displayName, mailNickname, description)
	cancel()
	if err != nil {
		o.logger.Error().Err(err).Str("group", displayName).Msg("group creation failed, aborting provisioning")
		report.Steps = append(report.Steps, StepResult{Step: StepGroup, Error: err.Error()})
		return report, nil
	}

	report.Succeeded = true
	report.GroupID = group.ID
	report.Steps = append(report.Steps, StepResult{Step: StepGroup, OK: true, Data: group})
	o.logger.Info().Str("group_id", group.ID).Str("group", displayName).Msg("group created")

	if o.cfg.GroupWait > 0 {
		select {
		case <-time.After(o.cfg.GroupWait):
		case <-ctx.Done():
			return report, nil
		}
	}

	var teamStep, siteStep, plannerStep, bucketsStep, membersStep *StepResult

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		teamStep = o.runTeam(gctx, group.ID)
		return nil
	})
	g.Go(func() error {
		siteStep = o.runSharePoint(gctx, group.ID)
		return nil
	})
	g.Go(func() error {
		plannerStep, bucketsStep = o.runPlanner(gctx, group.ID, projectName)
		return nil
	})
	if len(req.TeamEmails) > 0 {
		g.Go(func() error {
			membersStep = o.runMembers(gctx, group.ID, req.TeamEmails)
			return nil
		})
	}
	_ = g.Wait() // goroutines record their own failures

	for _, step := range []*StepResult{teamStep, siteStep, plannerStep, bucketsStep, membersStep} {
		if step != nil {
			report.Steps = append(report.Steps, *step)
		}
	}

	return report, nil
}

func (o *Orchestrator) runTeam(ctx context.Context, groupID string) *StepResult {
	stepCtx, cancel := o.stepContext(ctx)
	defer cancel()

	team, err := o.api.CreateTeamFromGroup(stepCtx, groupID)
	if err != nil {
		o.logger.Warn().Err(err).Str("group_id", groupID).Msg("team creation failed")
		return &StepResult{Step: StepTeam, Error: err.Error()}
	}
	return &StepResult{Step: StepTeam, OK: true, Data: team}
}

func (o *Orchestrator) runSharePoint(ctx context.Context, groupID string) *StepResult {
	stepCtx, cancel := o.stepContext(ctx)
	defer cancel()

	site, err := o.api.GetGroupSite(stepCtx, groupID)
	if err != nil {
		o.logger.Warn().Err(err).Str("group_id", groupID).Msg("site lookup failed")
		return &StepResult{Step: StepSharePoint, Error: err.Error()}
	}
	return &StepResult{Step: StepSharePoint, OK: true, Data: site}
}

func (o *Orchestrator) runPlanner(ctx context.Context, groupID, projectName string) (planner, buckets *StepResult) {
	stepCtx, cancel := o.stepContext(ctx)
	defer cancel()

	plan, err := o.api.CreatePlan(stepCtx, groupID, projectName)
	if err != nil {
		o.logger.Warn().Err(err).Str("group_id", groupID).Msg("plan creation failed")
		return &StepResult{Step: StepPlanner, Error: err.Error()}, nil
	}
	planner = &StepResult{Step: StepPlanner, OK: true, Data: plan}

	created := make([]any, 0, len(graph.DefaultBucketNames))
	for i, name := range graph.DefaultBucketNames {
		bucketCtx, bucketCancel := o.stepContext(ctx)
		bucket, err := o.api.CreateBucket(bucketCtx, plan.ID, name, orderHint(i))
		bucketCancel()
		if err != nil {
			o.logger.Warn().Err(err).Str("plan_id", plan.ID).Str("bucket", name).Msg("bucket creation failed")
			continue
		}
		created = append(created, bucket)
	}
	buckets = &StepResult{Step: StepBuckets, OK: true, Data: created}
	return planner, buckets
}

func (o *Orchestrator) runMembers(ctx context.Context, groupID string, emails []string) *StepResult {
	stepCtx, cancel := o.stepContext(ctx)
	defer cancel()

	results, err := o.api.AddGroupMembers(stepCtx, groupID, emails)
	if err != nil {
		o.logger.Warn().Err(err).Str("group_id", groupID).Msg("adding members failed")
		return &StepResult{Step: StepMembers, Error: err.Error()}
	}
	return &StepResult{Step: StepMembers, OK: true, Data: results}
}

func (o *Orchestrator) stepContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if o.cfg.StepTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, o.cfg.StepTimeout)
}

// orderHint gives buckets strictly increasing Planner order hints
// (" A!", " B!", ...) so they render in creation order.
func orderHint(i int) string {
	return " " + string(rune('A'+i)) + "!"
}

func validate(req Request) error {
	if strings.TrimSpace(req.ProjectName) == "" {
		return &ValidationError{Field: "projectName", Message: "must not be empty"}
	}
	if req.ClientName != "" && strings.TrimSpace(req.ClientName) == "" {
		return &ValidationError{Field: "clientName", Message: "must not be blank"}
	}
	for _, email := range req.TeamEmails {
		if !emailRe.MatchString(email) {
			return &ValidationError{Field: "teamEmails", Message: "invalid email " + email}
		}
	}
	return nil
}
