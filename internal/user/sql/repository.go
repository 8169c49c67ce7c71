// Package usersql is the PostgreSQL-backed user directory.
package usersql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cmflairs/gateway/internal/serviceerr"
	"github.com/cmflairs/gateway/internal/user"
)

type Directory struct {
	db *pgxpool.Pool
}

func NewDirectory(db *pgxpool.Pool) *Directory {
	return &Directory{
		db: db,
	}
}

var _ user.Directory = (*Directory)(nil)

// CreateOrGet upserts in a single statement so an aborted request can never
// leave a partial record. The do-nothing-shaped DO UPDATE keeps RETURNING
// populated on the conflict path; xmax = 0 distinguishes a fresh insert.
func (d *Directory) CreateOrGet(ctx context.Context, externalID, displayName string) (int64, bool, error) {
	row := d.db.QueryRow(ctx,
		`INSERT INTO users (external_id, display_name)
		     VALUES ($1, $2)
		     ON CONFLICT (external_id) DO UPDATE SET external_id = EXCLUDED.external_id
		     RETURNING id, (xmax = 0) AS created;`,
		externalID, displayName,
	)

	var id int64
	var created bool
	if err := row.Scan(&id, &created); err != nil {
		return 0, false, fmt.Errorf("upserting user: %w", err)
	}

	return id, created, nil
}

func (d *Directory) Get(ctx context.Context, id int64) (user.User, error) {
	tx, err := d.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return user.User{}, fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	row := tx.QueryRow(ctx,
		`SELECT id, external_id, display_name, created_at FROM users WHERE id = $1;`, id)

	var u user.User
	if err := row.Scan(&u.ID, &u.ExternalID, &u.DisplayName, &u.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return user.User{}, serviceerr.ErrNotFound
		}

		return user.User{}, fmt.Errorf("scanning row: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return user.User{}, fmt.Errorf("committing tx: %w", err)
	}

	return u, nil
}
