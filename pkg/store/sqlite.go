package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/bmarchant/imperium/pkg/game/types"
	_ "github.com/mattn/go-sqlite3"
)

// SQLiteStore persists games and snapshots in a single database file,
// for deployments without a postgres server.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens the database file and ensures the schema
// exists.
func NewSQLiteStore(ctx context.Context, path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	schema := `
	CREATE TABLE IF NOT EXISTS games (
		game_id TEXT PRIMARY KEY,
		state TEXT NOT NULL
	);
	CREATE TABLE IF NOT EXISTS snapshots (
		game_id TEXT NOT NULL,
		version INTEGER NOT NULL,
		state TEXT NOT NULL,
		PRIMARY KEY (game_id, version)
	);
	`
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return nil, fmt.Errorf("failed to ensure schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Load(ctx context.Context, gameID string) (*types.GameState, error) {
	var raw string
	err := s.db.QueryRowContext(ctx, "SELECT state FROM games WHERE game_id = ?", gameID).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &ErrNotFound{}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query game: %w", err)
	}
	return decodeState([]byte(raw))
}

func (s *SQLiteStore) Save(ctx context.Context, gameID string, gs *types.GameState) error {
	raw, err := json.Marshal(gs)
	if err != nil {
		return fmt.Errorf("failed to marshal game state: %w", err)
	}
	q := "INSERT OR REPLACE INTO games (game_id, state) VALUES (?, ?);"
	if _, err := s.db.ExecContext(ctx, q, gameID, string(raw)); err != nil {
		return fmt.Errorf("failed to upsert game: %w", err)
	}
	return nil
}

func (s *SQLiteStore) SaveSnapshot(ctx context.Context, gameID string, version int64, gs *types.GameState) error {
	raw, err := json.Marshal(gs)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}
	q := "INSERT OR REPLACE INTO snapshots (game_id, version, state) VALUES (?, ?, ?);"
	if _, err := s.db.ExecContext(ctx, q, gameID, version, string(raw)); err != nil {
		return fmt.Errorf("failed to upsert snapshot: %w", err)
	}
	return nil
}

func (s *SQLiteStore) LoadSnapshot(ctx context.Context, gameID string, version int64) (*types.GameState, error) {
	var raw string
	err := s.db.QueryRowContext(ctx, "SELECT state FROM snapshots WHERE game_id = ? AND version = ?", gameID, version).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &ErrNotFound{}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query snapshot: %w", err)
	}
	return decodeState([]byte(raw))
}

func (s *SQLiteStore) RemoveSnapshot(ctx context.Context, gameID string, version int64) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM snapshots WHERE game_id = ? AND version = ?", gameID, version); err != nil {
		return fmt.Errorf("failed to delete snapshot: %w", err)
	}
	return nil
}

func (s *SQLiteStore) RemoveSnapshotsBefore(ctx context.Context, gameID string, version int64) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM snapshots WHERE game_id = ? AND version < ?", gameID, version); err != nil {
		return fmt.Errorf("failed to prune snapshots: %w", err)
	}
	return nil
}

func (s *SQLiteStore) ListGames(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT game_id FROM games ORDER BY game_id")
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

func (s *SQLiteStore) Close(ctx context.Context) error {
	return s.db.Close()
}
