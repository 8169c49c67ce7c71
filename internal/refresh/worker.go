package refresh

import (
	"context"
	"errors"
	"fmt"
	"time"

	slogctx "github.com/veqryn/slog-context"

	"github.com/cmflairs/gateway/internal/gamestats"
	"github.com/cmflairs/gateway/internal/summoner"
)

// Worker consumes queued tasks and writes refreshed statistics back through
// the summoner repository.
type Worker struct {
	queue     Queue
	summoners summoner.Repository
	stats     gamestats.Fetcher

	batchSize int32
	now       func() time.Time
}

func NewWorker(queue Queue, summoners summoner.Repository, stats gamestats.Fetcher, batchSize int32) *Worker {
	if batchSize <= 0 {
		batchSize = 10
	}

	return &Worker{
		queue:     queue,
		summoners: summoners,
		stats:     stats,
		batchSize: batchSize,
		now:       time.Now,
	}
}

// Run processes tasks until the context is cancelled. Task failures are
// logged and do not stop the loop; only queue transport failures do.
func (w *Worker) Run(ctx context.Context) error {
	for {
		task, err := w.queue.Dequeue(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil
			}

			return fmt.Errorf("dequeuing task: %w", err)
		}

		slogctx.Info(ctx, "Handling refresh task", "kind", task.Kind, "summoner_id", task.SummonerID, "user_id", task.UserID)

		if err := w.Handle(ctx, task); err != nil {
			slogctx.Error(ctx, "Failed to handle refresh task", "kind", task.Kind, "error", err)
		}
	}
}

// Handle resolves a single task.
func (w *Worker) Handle(ctx context.Context, task Task) error {
	switch task.Kind {
	case TaskSummonerUpdate:
		s, err := w.summoners.Get(ctx, task.SummonerID)
		if err != nil {
			return fmt.Errorf("loading summoner %d: %w", task.SummonerID, err)
		}

		return w.update(ctx, s)
	case TaskUserRefresh:
		summoners, err := w.summoners.ListByUser(ctx, task.UserID)
		if err != nil {
			return fmt.Errorf("listing summoners for user %d: %w", task.UserID, err)
		}

		return w.updateAll(ctx, summoners)
	case TaskSummonerBulkUpdate:
		summoners, err := w.summoners.ListStalest(ctx, w.batchSize)
		if err != nil {
			return fmt.Errorf("listing stalest summoners: %w", err)
		}

		return w.updateAll(ctx, summoners)
	default:
		return fmt.Errorf("unknown task kind: %q", task.Kind)
	}
}

// updateAll refreshes each account independently and reports the collected
// failures; one bad account does not starve the rest of the batch.
func (w *Worker) updateAll(ctx context.Context, summoners []summoner.Summoner) error {
	var errs []error
	for _, s := range summoners {
		if err := w.update(ctx, s); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

func (w *Worker) update(ctx context.Context, s summoner.Summoner) error {
	scores, err := w.stats.ChampionMasteries(ctx, s.Platform, s.PUUID)
	if err != nil {
		return fmt.Errorf("fetching masteries for puuid %s: %w", s.PUUID, err)
	}

	if err := w.summoners.UpdateScores(ctx, s.ID, scores, w.now()); err != nil {
		return fmt.Errorf("storing scores for summoner %d: %w", s.ID, err)
	}

	return nil
}
