// Package usermock is an in-memory user directory for tests.
package usermock

import (
	"context"
	"sync"
	"time"

	"github.com/cmflairs/gateway/internal/serviceerr"
	"github.com/cmflairs/gateway/internal/user"
)

type DirectoryOption func(*Directory)

type Directory struct {
	mu     sync.Mutex
	nextID int64
	byExt  map[string]int64
	users  map[int64]user.User

	createOrGetErr error
	getErr         error
}

// WithUser pre-registers a user under the given external id.
func WithUser(externalID string, u user.User) DirectoryOption {
	return func(d *Directory) {
		d.byExt[externalID] = u.ID
		d.users[u.ID] = u
		if u.ID >= d.nextID {
			d.nextID = u.ID + 1
		}
	}
}

func WithCreateOrGetError(err error) DirectoryOption {
	return func(d *Directory) { d.createOrGetErr = err }
}

func WithGetError(err error) DirectoryOption {
	return func(d *Directory) { d.getErr = err }
}

func NewInMemDirectory(opts ...DirectoryOption) *Directory {
	d := &Directory{
		nextID: 1,
		byExt:  make(map[string]int64),
		users:  make(map[int64]user.User),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(d)
		}
	}

	return d
}

var _ user.Directory = (*Directory)(nil)

func (d *Directory) CreateOrGet(_ context.Context, externalID, displayName string) (int64, bool, error) {
	if d.createOrGetErr != nil {
		return 0, false, d.createOrGetErr
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if id, ok := d.byExt[externalID]; ok {
		return id, false, nil
	}

	id := d.nextID
	d.nextID++
	d.byExt[externalID] = id
	d.users[id] = user.User{
		ID:          id,
		ExternalID:  externalID,
		DisplayName: displayName,
		CreatedAt:   time.Now(),
	}

	return id, true, nil
}

func (d *Directory) Get(_ context.Context, id int64) (user.User, error) {
	if d.getErr != nil {
		return user.User{}, d.getErr
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	u, ok := d.users[id]
	if !ok {
		return user.User{}, serviceerr.ErrNotFound
	}

	return u, nil
}
