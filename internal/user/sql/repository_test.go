package usersql_test

import (
	"context"
	"os"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cmflairs/gateway/internal/dbtest/postgrestest"
	"github.com/cmflairs/gateway/internal/serviceerr"
	usersql "github.com/cmflairs/gateway/internal/user/sql"
)

var dbPool *pgxpool.Pool

func TestMain(m *testing.M) {
	ctx := context.Background()

	pool, _, terminate := postgrestest.Start(ctx)
	defer terminate(ctx)

	dbPool = pool

	code := m.Run()
	os.Exit(code)
}

func TestDirectory_CreateOrGet(t *testing.T) {
	d := usersql.NewDirectory(dbPool)

	t.Run("returns the existing id for a known identity", func(t *testing.T) {
		id, created, err := d.CreateOrGet(t.Context(), "ext-alice", "alice")

		require.NoError(t, err)
		assert.Equal(t, int64(1), id)
		assert.False(t, created)
	})

	t.Run("creates a record on first sign-in", func(t *testing.T) {
		id, created, err := d.CreateOrGet(t.Context(), "ext-carol", "carol")

		require.NoError(t, err)
		assert.True(t, created)

		again, created, err := d.CreateOrGet(t.Context(), "ext-carol", "carol")

		require.NoError(t, err)
		assert.Equal(t, id, again)
		assert.False(t, created)
	})
}

func TestDirectory_Get(t *testing.T) {
	d := usersql.NewDirectory(dbPool)

	t.Run("loads an existing user", func(t *testing.T) {
		u, err := d.Get(t.Context(), 1)

		require.NoError(t, err)
		assert.Equal(t, "ext-alice", u.ExternalID)
		assert.Equal(t, "alice", u.DisplayName)
		assert.False(t, u.CreatedAt.IsZero())
	})

	t.Run("missing user yields not found", func(t *testing.T) {
		_, err := d.Get(t.Context(), 999)

		assert.ErrorIs(t, err, serviceerr.ErrNotFound)
	})
}
