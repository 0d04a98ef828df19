package core

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/plainvanilla/portal/internal/graph"
	"github.com/plainvanilla/portal/internal/model"
)

func taskScanRow(task *model.Task, assigneesJSON string) func(dest ...any) error {
	return func(dest ...any) error {
		*dest[0].(*string) = task.ID
		*dest[1].(*string) = task.ProjectID
		*dest[2].(**string) = task.PhaseID
		*dest[3].(*string) = task.Title
		*dest[4].(*string) = task.Description
		*dest[5].(**time.Time) = nil
		*dest[6].(*string) = task.Priority
		*dest[7].(*string) = task.Status
		*dest[8].(*string) = task.Visibility
		*dest[9].(*[]byte) = []byte(assigneesJSON)
		*dest[10].(**string) = task.PlannerTaskID
		*dest[11].(**string) = task.CreatedBy
		*dest[12].(*time.Time) = task.CreatedAt
		return nil
	}
}

func plannerProject() *model.Project {
	p := testProject()
	p.Planner = &model.PlannerResources{GroupID: "group-1", PlanID: "plan-1"}
	return p
}

func defaultBuckets() []graph.Bucket {
	names := graph.DefaultBucketNames
	buckets := make([]graph.Bucket, len(names))
	for i, name := range names {
		buckets[i] = graph.Bucket{ID: "bucket-" + name, Name: name, PlanID: "plan-1"}
	}
	return buckets
}

func TestTaskCreate_Defaults(t *testing.T) {
	ctx := context.Background()
	db := new(mockDB)
	gc := new(mockGraphClient)
	svc := NewTaskService(db, gc, zerolog.Nop())

	var insertArgs []any
	db.On("Exec", ctx, mock.AnythingOfType("string"), mock.Anything).
		Run(func(args mock.Arguments) { insertArgs = args.Get(2).([]any) }).
		Return(pgconn.NewCommandTag("INSERT 0 1"), nil)

	task := &model.Task{Title: "Configurar tenant"}
	require.NoError(t, svc.Create(ctx, testProject(), task))

	assert.NotEmpty(t, task.ID)
	assert.Equal(t, "medium", task.Priority)
	assert.Equal(t, model.TaskStatusPending, task.Status)
	assert.Equal(t, "public", task.Visibility)

	require.Len(t, insertArgs, 11)
	assert.Equal(t, []byte("[]"), insertArgs[9])

	// No plan linked, nothing to mirror.
	gc.AssertNotCalled(t, "ListBuckets", mock.Anything, mock.Anything)
}

func TestTaskCreate_MirrorsPublicTaskToPlanner(t *testing.T) {
	ctx := context.Background()
	db := new(mockDB)
	gc := new(mockGraphClient)
	svc := NewTaskService(db, gc, zerolog.Nop())

	db.On("Exec", ctx, mock.AnythingOfType("string"), mock.Anything).
		Return(pgconn.NewCommandTag("INSERT 0 1"), nil)
	gc.On("ListBuckets", ctx, "plan-1").Return(defaultBuckets(), nil)
	gc.On("CreatePlannerTask", ctx, "plan-1", "bucket-Por hacer", "Configurar tenant").
		Return(&graph.PlannerTask{ID: "pt-1"}, nil)

	task := &model.Task{Title: "Configurar tenant"}
	require.NoError(t, svc.Create(ctx, plannerProject(), task))

	require.NotNil(t, task.PlannerTaskID)
	assert.Equal(t, "pt-1", *task.PlannerTaskID)
	gc.AssertExpectations(t)
}

func TestTaskCreate_CreatesDefaultBucketsWhenPlanEmpty(t *testing.T) {
	ctx := context.Background()
	db := new(mockDB)
	gc := new(mockGraphClient)
	svc := NewTaskService(db, gc, zerolog.Nop())

	db.On("Exec", ctx, mock.AnythingOfType("string"), mock.Anything).
		Return(pgconn.NewCommandTag("INSERT 0 1"), nil)
	gc.On("ListBuckets", ctx, "plan-1").Return([]graph.Bucket{}, nil)
	gc.On("CreateDefaultBuckets", ctx, "plan-1").Return(defaultBuckets(), nil)
	gc.On("CreatePlannerTask", ctx, "plan-1", "bucket-Completado", "Entrega final").
		Return(&graph.PlannerTask{ID: "pt-2"}, nil)

	task := &model.Task{Title: "Entrega final", Status: model.TaskStatusCompleted}
	require.NoError(t, svc.Create(ctx, plannerProject(), task))

	gc.AssertExpectations(t)
}

func TestTaskCreate_InternalTaskNotMirrored(t *testing.T) {
	ctx := context.Background()
	db := new(mockDB)
	gc := new(mockGraphClient)
	svc := NewTaskService(db, gc, zerolog.Nop())

	db.On("Exec", ctx, mock.AnythingOfType("string"), mock.Anything).
		Return(pgconn.NewCommandTag("INSERT 0 1"), nil)

	task := &model.Task{Title: "Preparar factura", Visibility: "internal"}
	require.NoError(t, svc.Create(ctx, plannerProject(), task))

	gc.AssertNotCalled(t, "ListBuckets", mock.Anything, mock.Anything)
}

func TestTaskUpdate_StatusSyncsPercentComplete(t *testing.T) {
	ctx := context.Background()
	db := new(mockDB)
	gc := new(mockGraphClient)
	svc := NewTaskService(db, gc, zerolog.Nop())

	plannerTaskID := "pt-1"
	stored := &model.Task{
		ID:            "t1",
		ProjectID:     "p1",
		Title:         "Configurar tenant",
		Priority:      "medium",
		Status:        model.TaskStatusInProgress,
		Visibility:    "public",
		PlannerTaskID: &plannerTaskID,
	}

	db.On("Exec", ctx, mock.AnythingOfType("string"), mock.Anything).
		Return(pgconn.NewCommandTag("UPDATE 1"), nil)
	db.On("QueryRow", ctx, mock.AnythingOfType("string"), mock.Anything).
		Return(&mockRow{scanFunc: taskScanRow(stored, `[]`)})
	gc.On("GetPlannerTask", ctx, "pt-1").
		Return(&graph.PlannerTask{ID: "pt-1", ETag: `W/"etag-1"`}, nil)
	gc.On("UpdatePlannerTask", ctx, "pt-1", `W/"etag-1"`, map[string]any{"percentComplete": 50}).
		Return(nil)

	status := model.TaskStatusInProgress
	updated, err := svc.Update(ctx, plannerProject(), "t1", TaskUpdate{Status: &status})
	require.NoError(t, err)
	assert.Equal(t, model.TaskStatusInProgress, updated.Status)
	gc.AssertExpectations(t)
}

func TestTaskUpdate_NoFieldsReturnsCurrent(t *testing.T) {
	ctx := context.Background()
	db := new(mockDB)
	svc := NewTaskService(db, new(mockGraphClient), zerolog.Nop())

	stored := &model.Task{ID: "t1", ProjectID: "p1", Title: "Configurar tenant",
		Priority: "medium", Status: model.TaskStatusPending, Visibility: "public"}
	db.On("QueryRow", ctx, mock.AnythingOfType("string"), mock.Anything).
		Return(&mockRow{scanFunc: taskScanRow(stored, `[{"email":"ana@acme.es","name":"Ana"}]`)})

	task, err := svc.Update(ctx, testProject(), "t1", TaskUpdate{})
	require.NoError(t, err)
	require.Len(t, task.Assignees, 1)
	assert.Equal(t, "ana@acme.es", task.Assignees[0].Email)
	db.AssertNotCalled(t, "Exec", mock.Anything, mock.Anything, mock.Anything)
}

func TestBucketForStatus(t *testing.T) {
	assert.Equal(t, "Por hacer", bucketForStatus(model.TaskStatusPending))
	assert.Equal(t, "En curso", bucketForStatus(model.TaskStatusInProgress))
	assert.Equal(t, "Completado", bucketForStatus(model.TaskStatusCompleted))
	assert.Equal(t, "Por hacer", bucketForStatus("whatever"))
}

func TestPercentForStatus(t *testing.T) {
	assert.Equal(t, 0, percentForStatus(model.TaskStatusPending))
	assert.Equal(t, 50, percentForStatus(model.TaskStatusInProgress))
	assert.Equal(t, 100, percentForStatus(model.TaskStatusCompleted))
}
