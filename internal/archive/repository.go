// Package archive records finished games. The session manager writes one row
// per completed game; readers pull recent history for display.
package archive

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/quietpawn/gambit/internal/domain"
)

var ErrDuplicateGame = errors.New("game already archived")

type Repository interface {
	InsertGame(ctx context.Context, rec *domain.GameRecord) (int64, error)
	RecentGames(ctx context.Context, limit int) ([]*domain.GameRecord, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

// EnsureSchema creates the games table when it does not exist yet.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	const schema = `
		CREATE TABLE IF NOT EXISTS games (
			id BIGSERIAL PRIMARY KEY,
			session_uuid TEXT NOT NULL UNIQUE,
			result TEXT NOT NULL,
			termination TEXT NOT NULL,
			human_color TEXT NOT NULL,
			ai_enabled BOOLEAN NOT NULL,
			search_depth INT NOT NULL,
			moves_uci JSONB NOT NULL,
			move_count INT NOT NULL,
			engine_name TEXT NOT NULL DEFAULT '',
			started_at TIMESTAMPTZ NOT NULL,
			ended_at TIMESTAMPTZ NOT NULL
		)`
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("create games table: %w", err)
	}
	const index = `CREATE INDEX IF NOT EXISTS idx_games_ended_at ON games (ended_at DESC)`
	if _, err := db.ExecContext(ctx, index); err != nil {
		return fmt.Errorf("create games index: %w", err)
	}
	return nil
}

func (r *repository) InsertGame(ctx context.Context, rec *domain.GameRecord) (int64, error) {
	if rec == nil {
		return 0, fmt.Errorf("nil game record")
	}

	movesUCI, err := json.Marshal(rec.MovesUCI)
	if err != nil {
		return 0, fmt.Errorf("marshal moves_uci: %w", err)
	}

	const query = `
		INSERT INTO games (
			session_uuid,
			result,
			termination,
			human_color,
			ai_enabled,
			search_depth,
			moves_uci,
			move_count,
			engine_name,
			started_at,
			ended_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7::jsonb, $8, $9, $10, $11)
		ON CONFLICT (session_uuid) DO NOTHING
		RETURNING id`

	var id sql.NullInt64
	err = r.db.QueryRowContext(
		ctx,
		query,
		rec.SessionUUID,
		rec.Result,
		rec.Termination,
		rec.HumanColor,
		rec.AIEnabled,
		rec.SearchDepth,
		movesUCI,
		rec.MoveCount,
		rec.EngineName,
		rec.StartedAt,
		rec.EndedAt,
	).Scan(&id)
	if err == sql.ErrNoRows || (err == nil && !id.Valid) {
		return 0, ErrDuplicateGame
	}
	if err != nil {
		return 0, fmt.Errorf("insert game: %w", err)
	}
	return id.Int64, nil
}

func (r *repository) RecentGames(ctx context.Context, limit int) ([]*domain.GameRecord, error) {
	if limit <= 0 {
		limit = 10
	}
	const query = `
		SELECT
			id,
			session_uuid,
			result,
			termination,
			human_color,
			ai_enabled,
			search_depth,
			moves_uci,
			move_count,
			engine_name,
			started_at,
			ended_at
		FROM games
		ORDER BY ended_at DESC
		LIMIT $1`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("select games: %w", err)
	}
	defer rows.Close()

	games := make([]*domain.GameRecord, 0, limit)
	for rows.Next() {
		var (
			rec          domain.GameRecord
			movesUCIJSON []byte
		)
		if err := rows.Scan(
			&rec.ID,
			&rec.SessionUUID,
			&rec.Result,
			&rec.Termination,
			&rec.HumanColor,
			&rec.AIEnabled,
			&rec.SearchDepth,
			&movesUCIJSON,
			&rec.MoveCount,
			&rec.EngineName,
			&rec.StartedAt,
			&rec.EndedAt,
		); err != nil {
			return nil, fmt.Errorf("scan game: %w", err)
		}
		if err := json.Unmarshal(movesUCIJSON, &rec.MovesUCI); err != nil {
			return nil, fmt.Errorf("unmarshal moves_uci: %w", err)
		}
		games = append(games, &rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate games: %w", err)
	}
	return games, nil
}
