package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/bmarchant/imperium/pkg/game/types"
	"github.com/jackc/pgx/v5"
)

// PostgresStore persists games and snapshots as JSONB documents.
type PostgresStore struct {
	conn *pgx.Conn
}

// NewPostgresStore connects and ensures the schema exists. The caller
// is responsible for calling Close() on the store.
func NewPostgresStore(ctx context.Context, connStr string) (*PostgresStore, error) {
	conn, err := pgx.Connect(ctx, connStr)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to database: %w", err)
	}
	schema := `
	CREATE TABLE IF NOT EXISTS games (
		game_id TEXT PRIMARY KEY,
		state JSONB NOT NULL,
		updated_at BIGINT NOT NULL DEFAULT (extract(epoch from now()) * 1000)::BIGINT
	);
	CREATE TABLE IF NOT EXISTS snapshots (
		game_id TEXT NOT NULL,
		version BIGINT NOT NULL,
		state JSONB NOT NULL,
		PRIMARY KEY (game_id, version)
	);
	`
	if _, err := conn.Exec(ctx, schema); err != nil {
		return nil, fmt.Errorf("failed to ensure schema: %w", err)
	}
	return &PostgresStore{conn: conn}, nil
}

func (s *PostgresStore) Load(ctx context.Context, gameID string) (*types.GameState, error) {
	var raw []byte
	err := s.conn.QueryRow(ctx, "SELECT state FROM games WHERE game_id = $1", gameID).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, &ErrNotFound{}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query game: %w", err)
	}
	return decodeState(raw)
}

func (s *PostgresStore) Save(ctx context.Context, gameID string, gs *types.GameState) error {
	raw, err := json.Marshal(gs)
	if err != nil {
		return fmt.Errorf("failed to marshal game state: %w", err)
	}
	q := `
	INSERT INTO games (game_id, state) VALUES ($1, $2)
	ON CONFLICT (game_id) DO UPDATE SET state = $2, updated_at = (extract(epoch from now()) * 1000)::BIGINT;
	`
	if _, err := s.conn.Exec(ctx, q, gameID, raw); err != nil {
		return fmt.Errorf("failed to upsert game: %w", err)
	}
	return nil
}

func (s *PostgresStore) SaveSnapshot(ctx context.Context, gameID string, version int64, gs *types.GameState) error {
	raw, err := json.Marshal(gs)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}
	q := `
	INSERT INTO snapshots (game_id, version, state) VALUES ($1, $2, $3)
	ON CONFLICT (game_id, version) DO UPDATE SET state = $3;
	`
	if _, err := s.conn.Exec(ctx, q, gameID, version, raw); err != nil {
		return fmt.Errorf("failed to upsert snapshot: %w", err)
	}
	return nil
}

func (s *PostgresStore) LoadSnapshot(ctx context.Context, gameID string, version int64) (*types.GameState, error) {
	var raw []byte
	err := s.conn.QueryRow(ctx, "SELECT state FROM snapshots WHERE game_id = $1 AND version = $2", gameID, version).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, &ErrNotFound{}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query snapshot: %w", err)
	}
	return decodeState(raw)
}

func (s *PostgresStore) RemoveSnapshot(ctx context.Context, gameID string, version int64) error {
	if _, err := s.conn.Exec(ctx, "DELETE FROM snapshots WHERE game_id = $1 AND version = $2", gameID, version); err != nil {
		return fmt.Errorf("failed to delete snapshot: %w", err)
	}
	return nil
}

func (s *PostgresStore) RemoveSnapshotsBefore(ctx context.Context, gameID string, version int64) error {
	if _, err := s.conn.Exec(ctx, "DELETE FROM snapshots WHERE game_id = $1 AND version < $2", gameID, version); err != nil {
		return fmt.Errorf("failed to prune snapshots: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListGames(ctx context.Context) ([]string, error) {
	rows, err := s.conn.Query(ctx, "SELECT game_id FROM games ORDER BY game_id")
	if err != nil {
		return nil, fmt.Errorf("failed to query games: %w", err)
	}
	defer rows.Close()
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan game id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (s *PostgresStore) Close(ctx context.Context) error {
	return s.conn.Close(ctx)
}

func decodeState(raw []byte) (*types.GameState, error) {
	gs := &types.GameState{}
	if err := json.Unmarshal(raw, gs); err != nil {
		return nil, fmt.Errorf("failed to unmarshal game state: %w", err)
	}
	return gs, nil
}
