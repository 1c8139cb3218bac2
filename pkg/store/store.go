package store

import (
	"context"

	"github.com/bmarchant/imperium/pkg/game/types"
)

// Store is the keyed game-state store the engine depends on. Per game
// it holds one current state document plus version-keyed snapshots
// (the pre-mutation copies that back single-level undo). There is no
// compare-and-set: the engine assumes one legitimate writer per turn
// and the last write wins.
type Store interface {
	Load(ctx context.Context, gameID string) (*types.GameState, error)
	Save(ctx context.Context, gameID string, gs *types.GameState) error
	SaveSnapshot(ctx context.Context, gameID string, version int64, gs *types.GameState) error
	LoadSnapshot(ctx context.Context, gameID string, version int64) (*types.GameState, error)
	RemoveSnapshot(ctx context.Context, gameID string, version int64) error
	// RemoveSnapshotsBefore prunes archive entries older than the
	// given version, keeping the undo window bounded.
	RemoveSnapshotsBefore(ctx context.Context, gameID string, version int64) error
	ListGames(ctx context.Context) ([]string, error)
	Close(ctx context.Context) error
}

// ErrNotFound reports a missing game or snapshot.
type ErrNotFound struct{}

func (e *ErrNotFound) Error() string {
	return "not found"
}

// IsNotFound reports whether err is a missing-key error.
func IsNotFound(err error) bool {
	_, ok := err.(*ErrNotFound)
	return ok
}
