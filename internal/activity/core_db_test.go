package activity

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// ---------- Mock DB ----------

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

// ---------- Mock Row / Rows ----------

type mockRow struct {
	scanFunc func(dest ...any) error
}

func (m *mockRow) Scan(dest ...any) error {
	return m.scanFunc(dest...)
}

type mockRows struct {
	callIndex int
	scanFuncs []func(dest ...any) error
	err       error
}

func newMockRows(scanFuncs ...func(dest ...any) error) *mockRows {
	return &mockRows{scanFuncs: scanFuncs}
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

// ---------- GetProvisionInfo ----------

func TestCoreDB_GetProvisionInfo(t *testing.T) {
	db := &mockDB{}
	a := NewCoreDB(db)
	ctx := context.Background()

	row := &mockRow{scanFunc: func(dest ...any) error {
		*dest[0].(*string) = "Adopción M365"
		*dest[1].(*string) = "Acme"
		*dest[2].(*string) = "Despliegue inicial"
		*dest[3].(**string) = nil
		return nil
	}}
	db.On("QueryRow", ctx, mock.AnythingOfType("string"), mock.Anything).Return(row)
	db.On("Query", ctx, mock.AnythingOfType("string"), mock.Anything).Return(newMockRows(
		func(dest ...any) error { *dest[0].(*string) = "ana@acme.es"; return nil },
		func(dest ...any) error { *dest[0].(*string) = "luis@acme.es"; return nil },
	), nil)

	info, err := a.GetProvisionInfo(ctx, "proj-1")
	require.NoError(t, err)

	assert.Equal(t, "Adopción M365", info.Name)
	assert.Equal(t, "Acme", info.Client)
	assert.False(t, info.HasGroup)
	assert.Equal(t, []string{"ana@acme.es", "luis@acme.es"}, info.TeamEmails)
}

func TestCoreDB_GetProvisionInfo_ExistingGroup(t *testing.T) {
	db := &mockDB{}
	a := NewCoreDB(db)
	ctx := context.Background()

	groupID := "group-1"
	row := &mockRow{scanFunc: func(dest ...any) error {
		*dest[0].(*string) = "Adopción M365"
		*dest[1].(*string) = "Acme"
		*dest[2].(*string) = ""
		*dest[3].(**string) = &groupID
		return nil
	}}
	db.On("QueryRow", ctx, mock.AnythingOfType("string"), mock.Anything).Return(row)
	db.On("Query", ctx, mock.AnythingOfType("string"), mock.Anything).Return(&mockRows{}, nil)

	info, err := a.GetProvisionInfo(ctx, "proj-1")
	require.NoError(t, err)
	assert.True(t, info.HasGroup)
	assert.Empty(t, info.TeamEmails)
}

// ---------- SaveProvisionedResources ----------

func TestCoreDB_SaveProvisionedResources(t *testing.T) {
	db := &mockDB{}
	a := NewCoreDB(db)
	ctx := context.Background()

	teamID := "team-1"
	var sql string
	var args []any
	db.On("Exec", ctx, mock.AnythingOfType("string"), mock.Anything).
		Run(func(callArgs mock.Arguments) {
			sql = callArgs.Get(1).(string)
			args = callArgs.Get(2).([]any)
		}).
		Return(pgconn.NewCommandTag("UPDATE 1"), nil)

	err := a.SaveProvisionedResources(ctx, SaveProvisionedResourcesParams{
		ProjectID: "proj-1",
		GroupID:   "group-1",
		TeamID:    &teamID,
	})
	require.NoError(t, err)

	assert.Contains(t, sql, "COALESCE(planner_group_id, $1)")
	assert.Contains(t, sql, "COALESCE(teams_team_id, $2)")
	require.Len(t, args, 5)
	assert.Equal(t, "group-1", args[0])
	assert.Equal(t, &teamID, args[1])
	assert.Nil(t, args[2])
	assert.Equal(t, "proj-1", args[4])
}

func TestCoreDB_SaveProvisionedResources_UnknownProject(t *testing.T) {
	db := &mockDB{}
	a := NewCoreDB(db)
	ctx := context.Background()

	db.On("Exec", ctx, mock.AnythingOfType("string"), mock.Anything).
		Return(pgconn.NewCommandTag("UPDATE 0"), nil)

	err := a.SaveProvisionedResources(ctx, SaveProvisionedResourcesParams{
		ProjectID: "missing", GroupID: "group-1",
	})
	assert.Error(t, err)
}

// ---------- SetProvisionStatus ----------

func TestCoreDB_SetProvisionStatus(t *testing.T) {
	db := &mockDB{}
	a := NewCoreDB(db)
	ctx := context.Background()

	msg := "group: insufficient privileges"
	var args []any
	db.On("Exec", ctx, mock.AnythingOfType("string"), mock.Anything).
		Run(func(callArgs mock.Arguments) { args = callArgs.Get(2).([]any) }).
		Return(pgconn.NewCommandTag("UPDATE 1"), nil)

	err := a.SetProvisionStatus(ctx, SetProvisionStatusParams{
		ProjectID: "proj-1", Status: "failed", Error: &msg,
	})
	require.NoError(t, err)

	require.Len(t, args, 3)
	assert.Equal(t, "failed", args[0])
	assert.Equal(t, &msg, args[1])
	assert.Equal(t, "proj-1", args[2])
}
