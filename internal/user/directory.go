// Package user maps verified external identities to internal user records.
package user

import (
	"context"
	"time"
)

// User is an enrolled account. The display name is copied from the provider
// at enrollment and doubles as the durable, user-visible handle downstream.
type User struct {
	ID          int64
	ExternalID  string
	DisplayName string
	CreatedAt   time.Time
}

// Directory resolves external identities to internal user ids.
type Directory interface {
	// CreateOrGet returns the user id for the given external identity,
	// creating the record on first sign-in. Atomic and idempotent on
	// externalID; concurrent callers for the same identity observe one id.
	// The second result reports whether the record was created by this call.
	CreateOrGet(ctx context.Context, externalID, displayName string) (int64, bool, error)
	// Get loads a user by internal id. Missing users yield
	// serviceerr.ErrNotFound.
	Get(ctx context.Context, id int64) (User, error)
}
