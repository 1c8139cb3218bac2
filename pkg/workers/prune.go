package workers

import (
	"context"
	"time"

	"github.com/bmarchant/imperium/pkg/game/types"
	"github.com/bmarchant/imperium/pkg/store"
	"github.com/sirupsen/logrus"
)

// SnapshotPruneWorker periodically trims each game's snapshot archive
// down to the single entry that backs undo. Only the snapshot at
// version-1 is ever restorable, so anything older is dead weight.
type SnapshotPruneWorker struct {
	store    store.Store
	interval time.Duration
}

// NewSnapshotPruneWorkerOptions contains options for creating a new
// SnapshotPruneWorker.
type NewSnapshotPruneWorkerOptions struct {
	Store    store.Store
	Interval time.Duration
}

// NewSnapshotPruneWorker creates a new SnapshotPruneWorker.
func NewSnapshotPruneWorker(opts NewSnapshotPruneWorkerOptions) *SnapshotPruneWorker {
	return &SnapshotPruneWorker{
		store:    opts.Store,
		interval: opts.Interval,
	}
}

// Start runs the worker until the context is cancelled.
func (w *SnapshotPruneWorker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.prune(ctx)
		}
	}
}

func (w *SnapshotPruneWorker) prune(ctx context.Context) {
	gameIDs, err := w.store.ListGames(ctx)
	if err != nil {
		logrus.Errorf("failed to list games for pruning: %v", err)
		return
	}
	for _, gameID := range gameIDs {
		gs, err := w.store.Load(ctx, gameID)
		if err != nil {
			logrus.Errorf("failed to load game %s for pruning: %v", gameID, err)
			continue
		}
		if err := w.pruneGame(ctx, gameID, gs); err != nil {
			logrus.Errorf("failed to prune snapshots for game %s: %v", gameID, err)
		}
	}
}

func (w *SnapshotPruneWorker) pruneGame(ctx context.Context, gameID string, gs *types.GameState) error {
	return w.store.RemoveSnapshotsBefore(ctx, gameID, gs.Version-1)
}
