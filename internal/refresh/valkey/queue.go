// Package refreshvalkey is the valkey-list-backed refresh task queue.
package refreshvalkey

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/valkey-io/valkey-go"

	"github.com/cmflairs/gateway/internal/refresh"
)

const objectTypeTask = "task"

// dequeueBlock bounds each BLPOP so the loop can observe context
// cancellation.
const dequeueBlock = 5.0

type Queue struct {
	valkey valkey.Client
	prefix string
}

func NewQueue(valkeyClient valkey.Client, prefix string) *Queue {
	prefix = strings.TrimSuffix(prefix, ":")

	return &Queue{
		valkey: valkeyClient,
		prefix: prefix,
	}
}

var _ refresh.Queue = (*Queue)(nil)

func (q *Queue) key() string {
	return fmt.Sprintf("%s:%s", q.prefix, objectTypeTask)
}

func (q *Queue) Enqueue(ctx context.Context, task refresh.Task) error {
	bytes, err := json.Marshal(task)
	if err != nil {
		return fmt.Errorf("marshaling task: %w", err)
	}

	cmd := q.valkey.B().Rpush().Key(q.key()).Element(valkey.BinaryString(bytes)).Build()
	if err := q.valkey.Do(ctx, cmd).Error(); err != nil {
		return fmt.Errorf("executing rpush command: %w", err)
	}

	return nil
}

func (q *Queue) Dequeue(ctx context.Context) (refresh.Task, error) {
	for {
		if err := ctx.Err(); err != nil {
			return refresh.Task{}, err
		}

		cmd := q.valkey.B().Blpop().Key(q.key()).Timeout(dequeueBlock).Build()
		entries, err := q.valkey.Do(ctx, cmd).AsStrSlice()
		if err != nil {
			valkeyErr, ok := valkey.IsValkeyErr(err)
			if ok && valkeyErr.IsNil() {
				// BLPOP timed out with no task, poll again.
				continue
			}

			return refresh.Task{}, fmt.Errorf("executing blpop command: %w", err)
		}

		// BLPOP returns the key followed by the popped element.
		if len(entries) != 2 {
			return refresh.Task{}, fmt.Errorf("unexpected blpop reply length: %d", len(entries))
		}

		var task refresh.Task
		if err := json.Unmarshal([]byte(entries[1]), &task); err != nil {
			return refresh.Task{}, fmt.Errorf("unmarshaling task: %w", err)
		}

		return task, nil
	}
}
