package core

import (
	"context"
	"encoding/base64"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/plainvanilla/portal/internal/model"
)

func userScanRow(u *model.User) func(dest ...any) error {
	return func(dest ...any) error {
		*dest[0].(*string) = u.ID
		*dest[1].(*string) = u.Email
		*dest[2].(*string) = u.Name
		*dest[3].(**string) = u.PasswordHash
		*dest[4].(**string) = u.MicrosoftID
		*dest[5].(*string) = u.Role
		return nil
	}
}

func portalUser(t *testing.T, password string) *model.User {
	t.Helper()
	hashBytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	require.NoError(t, err)
	hash := string(hashBytes)
	return &model.User{
		ID:           "u1",
		Email:        "cliente@acme.es",
		Name:         "Cliente Acme",
		PasswordHash: &hash,
		Role:         model.RoleClient,
	}
}

func TestPortalLogin_Success(t *testing.T) {
	ctx := context.Background()
	db := new(mockDB)
	svc := NewPortalService(db)

	user := portalUser(t, "A1B2C3D4")
	db.On("QueryRow", ctx, mock.AnythingOfType("string"), mock.Anything).
		Return(&mockRow{scanFunc: userScanRow(user)})
	db.On("Query", ctx, mock.AnythingOfType("string"), mock.Anything).
		Return(newMockRows(func(dest ...any) error {
			*dest[0].(*string) = "p1"
			*dest[1].(*string) = "Adopción M365"
			*dest[2].(*string) = "adopcion-m365"
			return nil
		}), nil)

	result, err := svc.Login(ctx, "cliente@acme.es", "A1B2C3D4", "adopcion-m365")
	require.NoError(t, err)

	require.Len(t, result.Projects, 1)
	assert.Equal(t, "adopcion-m365", result.Projects[0].Slug)

	raw, err := base64.StdEncoding.DecodeString(result.Token)
	require.NoError(t, err)
	assert.Equal(t, "cliente@acme.es:"+*user.PasswordHash, string(raw))
}

func TestPortalLogin_WrongPassword(t *testing.T) {
	ctx := context.Background()
	db := new(mockDB)
	svc := NewPortalService(db)

	db.On("QueryRow", ctx, mock.AnythingOfType("string"), mock.Anything).
		Return(&mockRow{scanFunc: userScanRow(portalUser(t, "A1B2C3D4"))})

	_, err := svc.Login(ctx, "cliente@acme.es", "WRONG", "")
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestPortalLogin_UnknownUser(t *testing.T) {
	ctx := context.Background()
	db := new(mockDB)
	svc := NewPortalService(db)

	row := &mockRow{scanFunc: func(dest ...any) error { return pgx.ErrNoRows }}
	db.On("QueryRow", ctx, mock.AnythingOfType("string"), mock.Anything).Return(row)

	_, err := svc.Login(ctx, "nadie@acme.es", "A1B2C3D4", "")
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestPortalLogin_SlugNotGranted(t *testing.T) {
	ctx := context.Background()
	db := new(mockDB)
	svc := NewPortalService(db)

	db.On("QueryRow", ctx, mock.AnythingOfType("string"), mock.Anything).
		Return(&mockRow{scanFunc: userScanRow(portalUser(t, "A1B2C3D4"))})
	db.On("Query", ctx, mock.AnythingOfType("string"), mock.Anything).
		Return(newEmptyMockRows(), nil)

	_, err := svc.Login(ctx, "cliente@acme.es", "A1B2C3D4", "otro-proyecto")
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestVerifyToken(t *testing.T) {
	ctx := context.Background()
	db := new(mockDB)
	svc := NewPortalService(db)

	user := portalUser(t, "A1B2C3D4")
	db.On("QueryRow", ctx, mock.AnythingOfType("string"), mock.Anything).
		Return(&mockRow{scanFunc: userScanRow(user)})

	token := base64.StdEncoding.EncodeToString([]byte(user.Email + ":" + *user.PasswordHash))
	got, err := svc.VerifyToken(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, "u1", got.ID)

	// A token minted against an older password hash no longer verifies.
	stale := base64.StdEncoding.EncodeToString([]byte(user.Email + ":$2a$10$staleHash"))
	_, err = svc.VerifyToken(ctx, stale)
	assert.ErrorIs(t, err, ErrUnauthorized)

	_, err = svc.VerifyToken(ctx, "not base64!!")
	assert.ErrorIs(t, err, ErrUnauthorized)

	_, err = svc.VerifyToken(ctx, base64.StdEncoding.EncodeToString([]byte("no-separator")))
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestFilterForClient(t *testing.T) {
	p := &model.Project{Tasks: []model.Task{
		{ID: "t1", Visibility: "public"},
		{ID: "t2", Visibility: "internal"},
		{ID: "t3", Visibility: "public"},
	}}

	FilterForClient(p)

	require.Len(t, p.Tasks, 2)
	assert.Equal(t, "t1", p.Tasks[0].ID)
	assert.Equal(t, "t3", p.Tasks[1].ID)
}

func TestCanUpdateTask(t *testing.T) {
	user := &model.User{Email: "cliente@acme.es"}

	assigned := &model.Task{Assignees: []model.Assignee{{Email: "Cliente@Acme.es"}}}
	assert.True(t, CanUpdateTask(assigned, user))

	other := &model.Task{Assignees: []model.Assignee{{Email: "otra@acme.es"}}}
	assert.False(t, CanUpdateTask(other, user))

	unassigned := &model.Task{}
	assert.False(t, CanUpdateTask(unassigned, user))
}
