// Package refresh runs the background game-data refresh: a queue of tasks fed
// by the gateway and a worker that resolves them against the statistics
// provider.
package refresh

import "context"

// TaskKind discriminates the queued task payload.
type TaskKind string

const (
	// TaskSummonerUpdate refreshes a single game account by id.
	TaskSummonerUpdate TaskKind = "summoner_update"
	// TaskUserRefresh refreshes every game account linked to a user. Enqueued
	// on first sign-in and by the explicit refresh endpoint.
	TaskUserRefresh TaskKind = "user_refresh"
	// TaskSummonerBulkUpdate refreshes a batch of the least recently updated
	// accounts.
	TaskSummonerBulkUpdate TaskKind = "summoner_bulk_update"
)

// Task is the unit of queued work.
type Task struct {
	Kind       TaskKind `json:"kind"`
	SummonerID int64    `json:"summoner_id,omitempty"`
	UserID     int64    `json:"user_id,omitempty"`
}

// Queue transports tasks between the gateway and the worker.
type Queue interface {
	Enqueue(ctx context.Context, task Task) error
	// Dequeue blocks until a task is available or the context is done.
	Dequeue(ctx context.Context) (Task, error)
}

// Enqueuer is the narrow queue view handed to the auth flow and the API
// handlers.
type Enqueuer interface {
	Enqueue(ctx context.Context, task Task) error
}
