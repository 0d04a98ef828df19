package core

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/mock"

	"github.com/plainvanilla/portal/internal/graph"
)

// ---------- Mock DB ----------

// mockDB implements the DB interface for testing.
type mockDB struct {
	mock.Mock
}

func (m *mockDB) Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error) {
	args := m.Called(ctx, sql, arguments)
	return args.Get(0).(pgconn.CommandTag), args.Error(1)
}

func (m *mockDB) Query(ctx context.Context, sql string, arguments ...any) (pgx.Rows, error) {
	args := m.Called(ctx, sql, arguments)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(pgx.Rows), args.Error(1)
}

func (m *mockDB) QueryRow(ctx context.Context, sql string, arguments ...any) pgx.Row {
	args := m.Called(ctx, sql, arguments)
	return args.Get(0).(pgx.Row)
}

// ---------- Mock Row ----------

// mockRow implements pgx.Row for testing.
type mockRow struct {
	scanFunc func(dest ...any) error
}

func (m *mockRow) Scan(dest ...any) error {
	return m.scanFunc(dest...)
}

// ---------- Mock Rows ----------

// mockRows implements pgx.Rows for testing.
// It iterates through a list of scan functions, one per row.
type mockRows struct {
	callIndex int
	scanFuncs []func(dest ...any) error
	err       error
}

func newMockRows(scanFuncs ...func(dest ...any) error) *mockRows {
	return &mockRows{scanFuncs: scanFuncs}
}

// newEmptyMockRows returns a mockRows that yields zero rows.
func newEmptyMockRows() *mockRows {
	return &mockRows{}
}

func (m *mockRows) Next() bool {
	return m.callIndex < len(m.scanFuncs)
}

func (m *mockRows) Scan(dest ...any) error {
	if m.callIndex < len(m.scanFuncs) {
		fn := m.scanFuncs[m.callIndex]
		m.callIndex++
		return fn(dest...)
	}
	return nil
}

func (m *mockRows) Err() error                                   { return m.err }
func (m *mockRows) Close()                                       {}
func (m *mockRows) CommandTag() pgconn.CommandTag                { return pgconn.CommandTag{} }
func (m *mockRows) FieldDescriptions() []pgconn.FieldDescription { return nil }
func (m *mockRows) RawValues() [][]byte                          { return nil }
func (m *mockRows) Values() ([]any, error)                       { return nil, nil }
func (m *mockRows) Conn() *pgx.Conn                              { return nil }

// ---------- Mock Graph ----------

// mockGraphClient implements the Graph interface for testing.
type mockGraphClient struct {
	mock.Mock
}

func (m *mockGraphClient) CreateFolder(ctx context.Context, siteID, parentID, name string) (*graph.DriveItem, error) {
	args := m.Called(ctx, siteID, parentID, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*graph.DriveItem), args.Error(1)
}

func (m *mockGraphClient) CreatePlan(ctx context.Context, groupID, title string) (*graph.Plan, error) {
	args := m.Called(ctx, groupID, title)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*graph.Plan), args.Error(1)
}

func (m *mockGraphClient) CreateDefaultBuckets(ctx context.Context, planID string) ([]graph.Bucket, error) {
	args := m.Called(ctx, planID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]graph.Bucket), args.Error(1)
}

func (m *mockGraphClient) CreateChannel(ctx context.Context, teamID, displayName, description string) (*graph.Channel, error) {
	args := m.Called(ctx, teamID, displayName, description)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*graph.Channel), args.Error(1)
}

func (m *mockGraphClient) SendChannelMessage(ctx context.Context, teamID, channelID, html string) error {
	args := m.Called(ctx, teamID, channelID, html)
	return args.Error(0)
}

func (m *mockGraphClient) CreateGroupEvent(ctx context.Context, groupID string, event *graph.Event) (*graph.Event, error) {
	args := m.Called(ctx, groupID, event)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*graph.Event), args.Error(1)
}

func (m *mockGraphClient) UpdateGroupEvent(ctx context.Context, groupID, eventID string, updates map[string]any) error {
	args := m.Called(ctx, groupID, eventID, updates)
	return args.Error(0)
}

func (m *mockGraphClient) DeleteGroupEvent(ctx context.Context, groupID, eventID string) error {
	args := m.Called(ctx, groupID, eventID)
	return args.Error(0)
}

func (m *mockGraphClient) CreatePlannerTask(ctx context.Context, planID, bucketID, title string) (*graph.PlannerTask, error) {
	args := m.Called(ctx, planID, bucketID, title)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*graph.PlannerTask), args.Error(1)
}

func (m *mockGraphClient) GetPlannerTask(ctx context.Context, taskID string) (*graph.PlannerTask, error) {
	args := m.Called(ctx, taskID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*graph.PlannerTask), args.Error(1)
}

func (m *mockGraphClient) UpdatePlannerTask(ctx context.Context, taskID, etag string, updates map[string]any) error {
	args := m.Called(ctx, taskID, etag, updates)
	return args.Error(0)
}

func (m *mockGraphClient) ListBuckets(ctx context.Context, planID string) ([]graph.Bucket, error) {
	args := m.Called(ctx, planID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]graph.Bucket), args.Error(1)
}

func (m *mockGraphClient) SendMail(ctx context.Context, from, to, subject, htmlBody string) error {
	args := m.Called(ctx, from, to, subject, htmlBody)
	return args.Error(0)
}
