// Package summonermock is an in-memory summoner repository for tests.
package summonermock

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/cmflairs/gateway/internal/gamestats"
	"github.com/cmflairs/gateway/internal/serviceerr"
	"github.com/cmflairs/gateway/internal/summoner"
)

type RepositoryOption func(*Repository)

type Repository struct {
	mu        sync.Mutex
	summoners map[int64]summoner.Summoner

	getErr, listErr, updateErr error
}

func WithSummoner(s summoner.Summoner) RepositoryOption {
	return func(r *Repository) { r.summoners[s.ID] = s }
}

func WithGetError(err error) RepositoryOption {
	return func(r *Repository) { r.getErr = err }
}

func WithListError(err error) RepositoryOption {
	return func(r *Repository) { r.listErr = err }
}

func WithUpdateError(err error) RepositoryOption {
	return func(r *Repository) { r.updateErr = err }
}

func NewInMemRepository(opts ...RepositoryOption) *Repository {
	r := &Repository{
		summoners: make(map[int64]summoner.Summoner),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}

	return r
}

var _ summoner.Repository = (*Repository)(nil)

func (r *Repository) Get(_ context.Context, id int64) (summoner.Summoner, error) {
	if r.getErr != nil {
		return summoner.Summoner{}, r.getErr
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.summoners[id]
	if !ok {
		return summoner.Summoner{}, serviceerr.ErrNotFound
	}

	return s, nil
}

func (r *Repository) ListByUser(_ context.Context, userID int64) ([]summoner.Summoner, error) {
	if r.listErr != nil {
		return nil, r.listErr
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	var result []summoner.Summoner
	for _, s := range r.summoners {
		if s.UserID == userID {
			result = append(result, s)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })

	return result, nil
}

func (r *Repository) ListStalest(_ context.Context, limit int32) ([]summoner.Summoner, error) {
	if r.listErr != nil {
		return nil, r.listErr
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	result := make([]summoner.Summoner, 0, len(r.summoners))
	for _, s := range r.summoners {
		result = append(result, s)
	}
	sort.Slice(result, func(i, j int) bool {
		switch {
		case result[i].LastUpdate == nil:
			return true
		case result[j].LastUpdate == nil:
			return false
		default:
			return result[i].LastUpdate.Before(*result[j].LastUpdate)
		}
	})

	if int32(len(result)) > limit {
		result = result[:limit]
	}

	return result, nil
}

func (r *Repository) UpdateScores(_ context.Context, id int64, scores []gamestats.ChampScore, now time.Time) error {
	if r.updateErr != nil {
		return r.updateErr
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.summoners[id]
	if !ok {
		return serviceerr.ErrNotFound
	}

	s.ChampScores = scores
	s.LastUpdate = &now
	r.summoners[id] = s

	return nil
}
