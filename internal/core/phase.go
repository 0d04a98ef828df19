package core

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	"github.com/plainvanilla/portal/internal/graph"
	"github.com/plainvanilla/portal/internal/model"
	"github.com/plainvanilla/portal/internal/platform"
)

type PhaseService struct {
	db     DB
	gc     Graph
	logger zerolog.Logger
}

func NewPhaseService(db DB, gc Graph, logger zerolog.Logger) *PhaseService {
	return &PhaseService{db: db, gc: gc, logger: logger}
}

const phaseColumns = `id, project_id, name, description, start_date, end_date, status, sort_order, calendar_event_id, created_at`

func scanPhase(row pgx.Row) (*model.Phase, error) {
	var p model.Phase
	var start, end *time.Time
	err := row.Scan(&p.ID, &p.ProjectID, &p.Name, &p.Description, &start, &end,
		&p.Status, &p.Order, &p.CalendarEventID, &p.CreatedAt)
	if err != nil {
		return nil, err
	}
	p.StartDate = dateString(start)
	p.EndDate = dateString(end)
	return &p, nil
}

func dateString(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format("2006-01-02")
	return &s
}

func listPhases(ctx context.Context, db DB, projectID string) ([]model.Phase, error) {
	rows, err := db.Query(ctx,
		`SELECT `+phaseColumns+` FROM phases WHERE project_id = $1 ORDER BY sort_order`, projectID)
	if err != nil {
		return nil, fmt.Errorf("list phases of project %s: %w", projectID, err)
	}
	defer rows.Close()

	phases := []model.Phase{}
	for rows.Next() {
		p, err := scanPhase(rows)
		if err != nil {
			return nil, fmt.Errorf("scan phase: %w", err)
		}
		phases = append(phases, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate phases: %w", err)
	}
	return phases, nil
}

func (s *PhaseService) Get(ctx context.Context, id string) (*model.Phase, error) {
	p, err := scanPhase(s.db.QueryRow(ctx,
		`SELECT `+phaseColumns+` FROM phases WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("phase %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("get phase %s: %w", id, err)
	}
	return p, nil
}

func (s *PhaseService) Create(ctx context.Context, project *model.Project, phase *model.Phase) error {
	if phase.ID == "" {
		phase.ID = platform.NewShortID()
	}
	phase.ProjectID = project.ID
	if phase.Status == "" {
		phase.Status = "pending"
	}

	_, err := s.db.Exec(ctx,
		`INSERT INTO phases (id, project_id, name, description, start_date, end_date, status, sort_order)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		phase.ID, phase.ProjectID, phase.Name, phase.Description,
		phase.StartDate, phase.EndDate, phase.Status, phase.Order)
	if err != nil {
		return fmt.Errorf("insert phase: %w", err)
	}

	s.syncCalendar(ctx, project, phase)
	return nil
}

// PhaseUpdate carries a partial phase update; nil fields are untouched.
type PhaseUpdate struct {
	Name        *string
	Description *string
	StartDate   *string
	EndDate     *string
	Status      *string
	Order       *int
}

func (s *PhaseService) Update(ctx context.Context, project *model.Project, id string, upd PhaseUpdate) (*model.Phase, error) {
	var fields []string
	var args []any

	set := func(col string, v any) {
		args = append(args, v)
		fields = append(fields, fmt.Sprintf("%s = $%d", col, len(args)))
	}
	if upd.Name != nil {
		set("name", *upd.Name)
	}
	if upd.Description != nil {
		set("description", *upd.Description)
	}
	if upd.StartDate != nil {
		set("start_date", *upd.StartDate)
	}
	if upd.EndDate != nil {
		set("end_date", *upd.EndDate)
	}
	if upd.Status != nil {
		set("status", *upd.Status)
	}
	if upd.Order != nil {
		set("sort_order", *upd.Order)
	}
	if len(fields) == 0 {
		return s.Get(ctx, id)
	}

	args = append(args, id)
	query := fmt.Sprintf(`UPDATE phases SET %s WHERE id = $%d`, strings.Join(fields, ", "), len(args))
	tag, err := s.db.Exec(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("update phase %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return nil, fmt.Errorf("phase %s: %w", id, ErrNotFound)
	}

	phase, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if upd.StartDate != nil || upd.EndDate != nil || upd.Name != nil {
		s.syncCalendar(ctx, project, phase)
	}
	return phase, nil
}

func (s *PhaseService) Delete(ctx context.Context, project *model.Project, id string) error {
	phase, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	if _, err := s.db.Exec(ctx, `DELETE FROM phases WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete phase %s: %w", id, err)
	}

	if phase.CalendarEventID != nil && project.Planner != nil {
		if err := s.gc.DeleteGroupEvent(ctx, project.Planner.GroupID, *phase.CalendarEventID); err != nil {
			s.logger.Warn().Err(err).Str("phase_id", id).Msg("calendar event cleanup failed")
		}
	}
	return nil
}

// syncCalendar mirrors the phase to the group calendar as an all-day event.
// Best effort: failures are logged and never fail the phase operation.
func (s *PhaseService) syncCalendar(ctx context.Context, project *model.Project, phase *model.Phase) {
	if project.Planner == nil || phase.StartDate == nil {
		return
	}

	end := phase.EndDate
	if end == nil {
		end = phase.StartDate
	}
	// All-day events end on the day after the last day.
	endDay, err := time.Parse("2006-01-02", *end)
	if err != nil {
		s.logger.Warn().Err(err).Str("phase_id", phase.ID).Msg("invalid phase end date")
		return
	}
	endExclusive := endDay.AddDate(0, 0, 1).Format("2006-01-02")

	subject := fmt.Sprintf("%s: %s", project.Name, phase.Name)
	groupID := project.Planner.GroupID

	if phase.CalendarEventID != nil {
		err := s.gc.UpdateGroupEvent(ctx, groupID, *phase.CalendarEventID, map[string]any{
			"subject": subject,
			"start":   map[string]string{"dateTime": *phase.StartDate, "timeZone": "UTC"},
			"end":     map[string]string{"dateTime": endExclusive, "timeZone": "UTC"},
		})
		if err != nil {
			s.logger.Warn().Err(err).Str("phase_id", phase.ID).Msg("calendar event update failed")
		}
		return
	}

	event, err := s.gc.CreateGroupEvent(ctx, groupID, allDayEvent(subject, *phase.StartDate, endExclusive))
	if err != nil {
		s.logger.Warn().Err(err).Str("phase_id", phase.ID).Msg("calendar event creation failed")
		return
	}

	if _, err := s.db.Exec(ctx,
		`UPDATE phases SET calendar_event_id = $1 WHERE id = $2`, event.ID, phase.ID); err != nil {
		s.logger.Warn().Err(err).Str("phase_id", phase.ID).Msg("storing calendar event id failed")
		return
	}
	phase.CalendarEventID = &event.ID
}

func allDayEvent(subject, start, endExclusive string) *graph.Event {
	return &graph.Event{
		Subject:  subject,
		IsAllDay: true,
		Start:    &graph.EventTime{DateTime: start, TimeZone: "UTC"},
		End:      &graph.EventTime{DateTime: endExclusive, TimeZone: "UTC"},
	}
}
