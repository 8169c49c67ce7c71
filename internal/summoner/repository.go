package summoner

import (
	"context"
	"time"

	"github.com/cmflairs/gateway/internal/gamestats"
)

type Repository interface {
	// Get loads one summoner; missing ids yield serviceerr.ErrNotFound.
	Get(ctx context.Context, id int64) (Summoner, error)
	// ListByUser returns the user's linked accounts, oldest link first.
	ListByUser(ctx context.Context, userID int64) ([]Summoner, error)
	// ListStalest returns up to limit accounts ordered by least recently
	// updated, the bulk-refresh work queue.
	ListStalest(ctx context.Context, limit int32) ([]Summoner, error)
	// UpdateScores replaces the stored statistics and stamps the update time.
	UpdateScores(ctx context.Context, id int64, scores []gamestats.ChampScore, now time.Time) error
}
