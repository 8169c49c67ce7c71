package refresh

import "time"

// SetNow sets the worker clock for testing purposes.
func (w *Worker) SetNow(now func() time.Time) {
	w.now = now
}
