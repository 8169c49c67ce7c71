package session

import "time"

// SetNow sets the codec clock for testing purposes.
func (c *Codec) SetNow(now func() time.Time) {
	c.now = now
}
