// Package summonersql is the PostgreSQL-backed summoner repository.
package summonersql

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cmflairs/gateway/internal/gamestats"
	"github.com/cmflairs/gateway/internal/serviceerr"
	"github.com/cmflairs/gateway/internal/summoner"
)

type Repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{
		db: db,
	}
}

var _ summoner.Repository = (*Repository)(nil)

const selectColumns = `id, user_id, puuid, game_name, tag_line, platform, champ_scores, last_update`

func (r *Repository) Get(ctx context.Context, id int64) (summoner.Summoner, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+selectColumns+` FROM summoners WHERE id = $1;`, id)

	s, err := scanSummoner(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return summoner.Summoner{}, serviceerr.ErrNotFound
		}

		return summoner.Summoner{}, fmt.Errorf("scanning row: %w", err)
	}

	return s, nil
}

func (r *Repository) ListByUser(ctx context.Context, userID int64) ([]summoner.Summoner, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+selectColumns+` FROM summoners WHERE user_id = $1 ORDER BY id;`, userID)
	if err != nil {
		return nil, fmt.Errorf("querying summoners: %w", err)
	}
	defer rows.Close()

	return collectSummoners(rows)
}

func (r *Repository) ListStalest(ctx context.Context, limit int32) ([]summoner.Summoner, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+selectColumns+` FROM summoners ORDER BY last_update ASC NULLS FIRST LIMIT $1;`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying stalest summoners: %w", err)
	}
	defer rows.Close()

	return collectSummoners(rows)
}

func (r *Repository) UpdateScores(ctx context.Context, id int64, scores []gamestats.ChampScore, now time.Time) error {
	scoresBytes, err := json.Marshal(scores)
	if err != nil {
		return fmt.Errorf("marshaling champ scores: %w", err)
	}

	ct, err := r.db.Exec(ctx,
		`UPDATE summoners SET champ_scores = $1, last_update = $2 WHERE id = $3;`,
		scoresBytes, now, id)
	if err != nil {
		return fmt.Errorf("updating summoner scores: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return serviceerr.ErrNotFound
	}

	return nil
}

func collectSummoners(rows pgx.Rows) ([]summoner.Summoner, error) {
	var summoners []summoner.Summoner
	for rows.Next() {
		s, err := scanSummoner(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}

		summoners = append(summoners, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating rows: %w", err)
	}

	return summoners, nil
}

func scanSummoner(row pgx.Row) (summoner.Summoner, error) {
	var s summoner.Summoner
	var scoresBytes []byte
	if err := row.Scan(&s.ID, &s.UserID, &s.PUUID, &s.GameName, &s.TagLine, &s.Platform, &scoresBytes, &s.LastUpdate); err != nil {
		return summoner.Summoner{}, err
	}

	if len(scoresBytes) > 0 {
		if err := json.Unmarshal(scoresBytes, &s.ChampScores); err != nil {
			return summoner.Summoner{}, fmt.Errorf("unmarshalling champ scores: %w", err)
		}
	}

	return s, nil
}
