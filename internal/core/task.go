package core

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	"github.com/plainvanilla/portal/internal/model"
	"github.com/plainvanilla/portal/internal/platform"
)

type TaskService struct {
	db     DB
	gc     Graph
	logger zerolog.Logger
}

func NewTaskService(db DB, gc Graph, logger zerolog.Logger) *TaskService {
	return &TaskService{db: db, gc: gc, logger: logger}
}

const taskColumns = `id, project_id, phase_id, title, description, due_date, priority, status, visibility, assignees, planner_task_id, created_by, created_at`

func scanTask(row pgx.Row) (*model.Task, error) {
	var t model.Task
	var due *time.Time
	var assignees []byte
	err := row.Scan(&t.ID, &t.ProjectID, &t.PhaseID, &t.Title, &t.Description, &due,
		&t.Priority, &t.Status, &t.Visibility, &assignees, &t.PlannerTaskID,
		&t.CreatedBy, &t.CreatedAt)
	if err != nil {
		return nil, err
	}
	t.DueDate = dateString(due)
	t.Assignees = []model.Assignee{}
	if len(assignees) > 0 {
		if err := json.Unmarshal(assignees, &t.Assignees); err != nil {
			return nil, fmt.Errorf("decode assignees: %w", err)
		}
	}
	return &t, nil
}

func listTasks(ctx context.Context, db DB, projectID string) ([]model.Task, error) {
	rows, err := db.Query(ctx,
		`SELECT `+taskColumns+` FROM tasks WHERE project_id = $1 ORDER BY created_at`, projectID)
	if err != nil {
		return nil, fmt.Errorf("list tasks of project %s: %w", projectID, err)
	}
	defer rows.Close()

	tasks := []model.Task{}
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		tasks = append(tasks, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tasks: %w", err)
	}
	return tasks, nil
}

func (s *TaskService) Get(ctx context.Context, id string) (*model.Task, error) {
	t, err := scanTask(s.db.QueryRow(ctx,
		`SELECT `+taskColumns+` FROM tasks WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("task %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("get task %s: %w", id, err)
	}
	return t, nil
}

// Create inserts the task. Public tasks on a provisioned project are
// mirrored to Planner best-effort.
func (s *TaskService) Create(ctx context.Context, project *model.Project, task *model.Task) error {
	if task.ID == "" {
		task.ID = platform.NewShortID()
	}
	task.ProjectID = project.ID
	if task.Priority == "" {
		task.Priority = "medium"
	}
	if task.Status == "" {
		task.Status = model.TaskStatusPending
	}
	if task.Visibility == "" {
		task.Visibility = "public"
	}
	if task.Assignees == nil {
		task.Assignees = []model.Assignee{}
	}

	assignees, err := json.Marshal(task.Assignees)
	if err != nil {
		return fmt.Errorf("encode assignees: %w", err)
	}

	_, err = s.db.Exec(ctx,
		`INSERT INTO tasks (id, project_id, phase_id, title, description, due_date, priority, status, visibility, assignees, created_by)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		task.ID, task.ProjectID, task.PhaseID, task.Title, task.Description, task.DueDate,
		task.Priority, task.Status, task.Visibility, assignees, task.CreatedBy)
	if err != nil {
		return fmt.Errorf("insert task: %w", err)
	}

	if task.Visibility == "public" && project.Planner != nil {
		s.syncToPlanner(ctx, project, task)
	}
	return nil
}

// TaskUpdate carries a partial task update; nil fields are untouched.
type TaskUpdate struct {
	Title       *string
	Description *string
	DueDate     *string
	PhaseID     *string
	Priority    *string
	Status      *string
	Visibility  *string
	Assignees   *[]model.Assignee
}

func (s *TaskService) Update(ctx context.Context, project *model.Project, id string, upd TaskUpdate) (*model.Task, error) {
	var fields []string
	var args []any

	set := func(col string, v any) {
		args = append(args, v)
		fields = append(fields, fmt.Sprintf("%s = $%d", col, len(args)))
	}
	if upd.Title != nil {
		set("title", *upd.Title)
	}
	if upd.Description != nil {
		set("description", *upd.Description)
	}
	if upd.DueDate != nil {
		set("due_date", *upd.DueDate)
	}
	if upd.PhaseID != nil {
		set("phase_id", *upd.PhaseID)
	}
	if upd.Priority != nil {
		set("priority", *upd.Priority)
	}
	if upd.Status != nil {
		set("status", *upd.Status)
	}
	if upd.Visibility != nil {
		set("visibility", *upd.Visibility)
	}
	if upd.Assignees != nil {
		encoded, err := json.Marshal(*upd.Assignees)
		if err != nil {
			return nil, fmt.Errorf("encode assignees: %w", err)
		}
		set("assignees", encoded)
	}
	if len(fields) == 0 {
		return s.Get(ctx, id)
	}

	args = append(args, id)
	query := fmt.Sprintf(`UPDATE tasks SET %s WHERE id = $%d`, strings.Join(fields, ", "), len(args))
	tag, err := s.db.Exec(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("update task %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return nil, fmt.Errorf("task %s: %w", id, ErrNotFound)
	}

	task, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if upd.Status != nil && task.PlannerTaskID != nil && project.Planner != nil {
		s.syncStatusToPlanner(ctx, task)
	}
	return task, nil
}

func (s *TaskService) Delete(ctx context.Context, id string) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete task %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("task %s: %w", id, ErrNotFound)
	}
	return nil
}

// bucketForStatus maps a portal task status to the default Planner bucket
// it belongs in.
func bucketForStatus(status string) string {
	switch status {
	case model.TaskStatusInProgress:
		return "En curso"
	case model.TaskStatusCompleted:
		return "Completado"
	default:
		return "Por hacer"
	}
}

func percentForStatus(status string) int {
	switch status {
	case model.TaskStatusInProgress:
		return 50
	case model.TaskStatusCompleted:
		return 100
	default:
		return 0
	}
}

// syncToPlanner mirrors a new task into the project plan, creating the
// default buckets first when the plan has none.
func (s *TaskService) syncToPlanner(ctx context.Context, project *model.Project, task *model.Task) {
	planID := project.Planner.PlanID

	buckets, err := s.gc.ListBuckets(ctx, planID)
	if err != nil {
		s.logger.Warn().Err(err).Str("task_id", task.ID).Msg("listing plan buckets failed")
		return
	}
	if len(buckets) == 0 {
		buckets, err = s.gc.CreateDefaultBuckets(ctx, planID)
		if err != nil || len(buckets) == 0 {
			s.logger.Warn().Err(err).Str("task_id", task.ID).Msg("creating default buckets failed")
			return
		}
	}

	bucketID := buckets[0].ID
	wanted := bucketForStatus(task.Status)
	for _, b := range buckets {
		if b.Name == wanted {
			bucketID = b.ID
			break
		}
	}

	created, err := s.gc.CreatePlannerTask(ctx, planID, bucketID, task.Title)
	if err != nil {
		s.logger.Warn().Err(err).Str("task_id", task.ID).Msg("planner task creation failed")
		return
	}

	if _, err := s.db.Exec(ctx,
		`UPDATE tasks SET planner_task_id = $1 WHERE id = $2`, created.ID, task.ID); err != nil {
		s.logger.Warn().Err(err).Str("task_id", task.ID).Msg("storing planner task id failed")
		return
	}
	task.PlannerTaskID = &created.ID
}

// syncStatusToPlanner pushes the task's status as percentComplete. Planner
// updates need the current etag, so the task is fetched first.
func (s *TaskService) syncStatusToPlanner(ctx context.Context, task *model.Task) {
	current, err := s.gc.GetPlannerTask(ctx, *task.PlannerTaskID)
	if err != nil {
		s.logger.Warn().Err(err).Str("task_id", task.ID).Msg("fetching planner task failed")
		return
	}
	err = s.gc.UpdatePlannerTask(ctx, current.ID, current.ETag, map[string]any{
		"percentComplete": percentForStatus(task.Status),
	})
	if err != nil {
		s.logger.Warn().Err(err).Str("task_id", task.ID).Msg("planner status sync failed")
	}
}
