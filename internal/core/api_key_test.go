package core

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"regexp"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestAPIKeyCreate(t *testing.T) {
	ctx := context.Background()
	db := new(mockDB)
	svc := NewAPIKeyService(db)

	var insertArgs []any
	db.On("QueryRow", ctx, mock.AnythingOfType("string"), mock.Anything).
		Run(func(args mock.Arguments) { insertArgs = args.Get(2).([]any) }).
		Return(&mockRow{scanFunc: func(dest ...any) error { return nil }})

	key, rawKey, err := svc.Create(ctx, "ci")
	require.NoError(t, err)

	assert.Regexp(t, regexp.MustCompile(`^pv_[0-9a-f]{64}$`), rawKey)
	assert.Equal(t, "ci", key.Name)

	// Only the hash hits the database.
	hash := sha256.Sum256([]byte(rawKey))
	assert.Equal(t, hex.EncodeToString(hash[:]), key.KeyHash)
	require.Len(t, insertArgs, 3)
	assert.Equal(t, key.KeyHash, insertArgs[2])
	assert.NotContains(t, insertArgs, rawKey)
}

func TestAPIKeyDelete_NotFound(t *testing.T) {
	ctx := context.Background()
	db := new(mockDB)
	svc := NewAPIKeyService(db)

	db.On("Exec", ctx, mock.AnythingOfType("string"), mock.Anything).
		Return(pgconn.NewCommandTag("DELETE 0"), nil)

	err := svc.Delete(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}
