package summonersql_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cmflairs/gateway/internal/dbtest/postgrestest"
	"github.com/cmflairs/gateway/internal/gamestats"
	"github.com/cmflairs/gateway/internal/serviceerr"
	summonersql "github.com/cmflairs/gateway/internal/summoner/sql"
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

func TestRepository_Get(t *testing.T) {
	r := summonersql.NewRepository(dbPool)

	t.Run("loads a summoner with scores", func(t *testing.T) {
		s, err := r.Get(t.Context(), 2)

		require.NoError(t, err)
		assert.Equal(t, int64(1), s.UserID)
		assert.Equal(t, "puuid-two", s.PUUID)
		assert.Equal(t, "alice-smurf", s.GameName)
		assert.Equal(t, "euw1", s.Platform)
		assert.Equal(t, []gamestats.ChampScore{{Champion: 64, Points: 1000, Level: 3}}, s.ChampScores)
		require.NotNil(t, s.LastUpdate)
		assert.True(t, s.LastUpdate.Equal(postgrestest.UpdateTime))
	})

	t.Run("loads a summoner without scores", func(t *testing.T) {
		s, err := r.Get(t.Context(), 1)

		require.NoError(t, err)
		assert.Nil(t, s.ChampScores)
		assert.Nil(t, s.LastUpdate)
	})

	t.Run("missing summoner yields not found", func(t *testing.T) {
		_, err := r.Get(t.Context(), 999)

		assert.ErrorIs(t, err, serviceerr.ErrNotFound)
	})
}

func TestRepository_ListByUser(t *testing.T) {
	r := summonersql.NewRepository(dbPool)

	t.Run("lists linked accounts ordered by id", func(t *testing.T) {
		summoners, err := r.ListByUser(t.Context(), 1)

		require.NoError(t, err)
		require.Len(t, summoners, 2)
		assert.Equal(t, "puuid-one", summoners[0].PUUID)
		assert.Equal(t, "puuid-two", summoners[1].PUUID)
	})

	t.Run("unknown user yields an empty list", func(t *testing.T) {
		summoners, err := r.ListByUser(t.Context(), 999)

		require.NoError(t, err)
		assert.Empty(t, summoners)
	})
}

func TestRepository_ListStalest(t *testing.T) {
	r := summonersql.NewRepository(dbPool)

	t.Run("never-updated accounts come first", func(t *testing.T) {
		summoners, err := r.ListStalest(t.Context(), 2)

		require.NoError(t, err)
		require.Len(t, summoners, 2)
		assert.Equal(t, "puuid-one", summoners[0].PUUID)
		assert.Equal(t, "puuid-two", summoners[1].PUUID)
	})

	t.Run("limit bounds the batch", func(t *testing.T) {
		summoners, err := r.ListStalest(t.Context(), 1)

		require.NoError(t, err)
		assert.Len(t, summoners, 1)
	})
}

func TestRepository_UpdateScores(t *testing.T) {
	r := summonersql.NewRepository(dbPool)

	t.Run("stores scores and the update time", func(t *testing.T) {
		now := postgrestest.UpdateTime.Add(48 * time.Hour)
		scores := []gamestats.ChampScore{{Champion: 103, Points: 50000, Level: 7}}

		require.NoError(t, r.UpdateScores(t.Context(), 3, scores, now))

		s, err := r.Get(t.Context(), 3)
		require.NoError(t, err)
		assert.Equal(t, scores, s.ChampScores)
		require.NotNil(t, s.LastUpdate)
		assert.True(t, s.LastUpdate.Equal(now))
	})

	t.Run("missing summoner yields not found", func(t *testing.T) {
		err := r.UpdateScores(t.Context(), 999, nil, postgrestest.UpdateTime)

		assert.ErrorIs(t, err, serviceerr.ErrNotFound)
	})
}
