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

type SessionService struct {
	db     DB
	gc     Graph
	logger zerolog.Logger
}

func NewSessionService(db DB, gc Graph, logger zerolog.Logger) *SessionService {
	return &SessionService{db: db, gc: gc, logger: logger}
}

const sessionColumns = `id, project_id, phase_id, title, date, time, duration, type, location, teams_meeting_url, calendar_event_id, created_at`

func scanSession(row pgx.Row) (*model.Session, error) {
	var s model.Session
	var date time.Time
	err := row.Scan(&s.ID, &s.ProjectID, &s.PhaseID, &s.Title, &date, &s.Time,
		&s.Duration, &s.Type, &s.Location, &s.TeamsLink, &s.CalendarEventID, &s.CreatedAt)
	if err != nil {
		return nil, err
	}
	s.Date = date.Format("2006-01-02")
	return &s, nil
}

func listSessions(ctx context.Context, db DB, projectID string) ([]model.Session, error) {
	rows, err := db.Query(ctx,
		`SELECT `+sessionColumns+` FROM sessions WHERE project_id = $1 ORDER BY date, time`, projectID)
	if err != nil {
		return nil, fmt.Errorf("list sessions of project %s: %w", projectID, err)
	}
	defer rows.Close()

	sessions := []model.Session{}
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		sessions = append(sessions, *s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sessions: %w", err)
	}
	return sessions, nil
}

func (s *SessionService) Get(ctx context.Context, id string) (*model.Session, error) {
	sess, err := scanSession(s.db.QueryRow(ctx,
		`SELECT `+sessionColumns+` FROM sessions WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("session %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("get session %s: %w", id, err)
	}
	return sess, nil
}

// Create inserts the session. Online sessions on a provisioned project get
// a Teams meeting on the group calendar; meeting creation is best effort
// and never fails the insert.
func (s *SessionService) Create(ctx context.Context, project *model.Project, sess *model.Session, attendees []string) error {
	if sess.ID == "" {
		sess.ID = platform.NewShortID()
	}
	sess.ProjectID = project.ID
	if sess.Duration == 0 {
		sess.Duration = 60
	}
	if sess.Type == "" {
		sess.Type = "online"
	}

	_, err := s.db.Exec(ctx,
		`INSERT INTO sessions (id, project_id, phase_id, title, date, time, duration, type, location)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		sess.ID, sess.ProjectID, sess.PhaseID, sess.Title, sess.Date, sess.Time,
		sess.Duration, sess.Type, sess.Location)
	if err != nil {
		return fmt.Errorf("insert session: %w", err)
	}

	if sess.Type == "online" && project.Planner != nil {
		s.createMeeting(ctx, project, sess, attendees)
	}
	return nil
}

func (s *SessionService) createMeeting(ctx context.Context, project *model.Project, sess *model.Session, attendees []string) {
	event := &graph.Event{
		Subject:   fmt.Sprintf("[%s] %s", project.Name, sess.Title),
		Start:     &graph.EventTime{DateTime: sess.Date + "T" + sess.Time + ":00", TimeZone: graph.Madrid},
		End:       &graph.EventTime{DateTime: endDateTime(sess.Date, sess.Time, sess.Duration), TimeZone: graph.Madrid},
		IsOnline:  true,
		Provider:  "teamsForBusiness",
		Attendees: graph.RequiredAttendees(attendees),
	}

	created, err := s.gc.CreateGroupEvent(ctx, project.Planner.GroupID, event)
	if err != nil {
		s.logger.Warn().Err(err).Str("session_id", sess.ID).Msg("meeting creation failed")
		return
	}

	var joinURL *string
	if created.OnlineMeeting != nil && created.OnlineMeeting.JoinURL != "" {
		joinURL = &created.OnlineMeeting.JoinURL
	}
	if _, err := s.db.Exec(ctx,
		`UPDATE sessions SET teams_meeting_url = $1, calendar_event_id = $2 WHERE id = $3`,
		joinURL, created.ID, sess.ID); err != nil {
		s.logger.Warn().Err(err).Str("session_id", sess.ID).Msg("storing meeting refs failed")
		return
	}
	sess.TeamsLink = joinURL
	sess.CalendarEventID = &created.ID
}

// SessionUpdate carries a partial session update; nil fields are untouched.
type SessionUpdate struct {
	Title    *string
	Date     *string
	Time     *string
	Duration *int
	Type     *string
	Location *string
	PhaseID  *string
}

func (s *SessionService) Update(ctx context.Context, project *model.Project, id string, upd SessionUpdate) (*model.Session, error) {
	var fields []string
	var args []any

	set := func(col string, v any) {
		args = append(args, v)
		fields = append(fields, fmt.Sprintf("%s = $%d", col, len(args)))
	}
	if upd.Title != nil {
		set("title", *upd.Title)
	}
	if upd.Date != nil {
		set("date", *upd.Date)
	}
	if upd.Time != nil {
		set("time", *upd.Time)
	}
	if upd.Duration != nil {
		set("duration", *upd.Duration)
	}
	if upd.Type != nil {
		set("type", *upd.Type)
	}
	if upd.Location != nil {
		set("location", *upd.Location)
	}
	if upd.PhaseID != nil {
		set("phase_id", *upd.PhaseID)
	}
	if len(fields) == 0 {
		return s.Get(ctx, id)
	}

	args = append(args, id)
	query := fmt.Sprintf(`UPDATE sessions SET %s WHERE id = $%d`, strings.Join(fields, ", "), len(args))
	tag, err := s.db.Exec(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("update session %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return nil, fmt.Errorf("session %s: %w", id, ErrNotFound)
	}

	sess, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if sess.CalendarEventID != nil && project.Planner != nil &&
		(upd.Title != nil || upd.Date != nil || upd.Time != nil || upd.Duration != nil) {
		updates := map[string]any{
			"subject": fmt.Sprintf("[%s] %s", project.Name, sess.Title),
			"start":   map[string]string{"dateTime": sess.Date + "T" + sess.Time + ":00", "timeZone": graph.Madrid},
			"end":     map[string]string{"dateTime": endDateTime(sess.Date, sess.Time, sess.Duration), "timeZone": graph.Madrid},
		}
		if err := s.gc.UpdateGroupEvent(ctx, project.Planner.GroupID, *sess.CalendarEventID, updates); err != nil {
			s.logger.Warn().Err(err).Str("session_id", id).Msg("meeting update failed")
		}
	}
	return sess, nil
}

func (s *SessionService) Delete(ctx context.Context, project *model.Project, id string) error {
	sess, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	if _, err := s.db.Exec(ctx, `DELETE FROM sessions WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete session %s: %w", id, err)
	}

	if sess.CalendarEventID != nil && project.Planner != nil {
		if err := s.gc.DeleteGroupEvent(ctx, project.Planner.GroupID, *sess.CalendarEventID); err != nil {
			s.logger.Warn().Err(err).Str("session_id", id).Msg("meeting cleanup failed")
		}
	}
	return nil
}

// endDateTime computes the session end from its start and duration in
// minutes, clamped to 23:59 so the event never spills into the next day.
func endDateTime(date, startTime string, durationMinutes int) string {
	start, err := time.Parse("2006-01-02T15:04", date+"T"+startTime)
	if err != nil {
		return date + "T23:59:00"
	}
	end := start.Add(time.Duration(durationMinutes) * time.Minute)
	if end.Day() != start.Day() {
		return date + "T23:59:00"
	}
	return end.Format("2006-01-02T15:04:05")
}
