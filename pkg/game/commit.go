package game

import (
	"context"
	"fmt"
	"math"

	"github.com/bmarchant/imperium/pkg/game/types"
	"github.com/sirupsen/logrus"
)

// roundCents rounds a money amount to two decimal places.
func roundCents(amount float64) float64 {
	return math.Round(amount*100) / 100
}

// commit is the single exit path of every submit operation: it rounds
// all money to cents, archives the pre-mutation snapshot under the old
// version number, bumps the version, maintains the chess clock, writes
// the new state, and enqueues turn notifications for newly flagged
// players. old must be the untouched loaded state; work the mutated
// clone; mover the player whose submission this is.
func (e *Engine) commit(ctx context.Context, old, work *types.GameState, mover string) error {
	for _, p := range work.Players {
		p.Money = roundCents(p.Money)
	}
	for _, c := range work.Countries {
		c.Treasury = roundCents(c.Treasury)
	}
	work.LastMover = mover
	work.Version = old.Version + 1

	if work.Timer != nil && work.Timer.Enabled {
		now := e.clock.NowMillis()
		elapsed := float64(now-work.Timer.LastTurnStartMillis) / 1000
		if p := work.Player(mover); p != nil && elapsed > 0 {
			p.BankedSeconds -= elapsed
		}
		work.Timer.LastTurnStartMillis = now
	}

	if err := e.store.SaveSnapshot(ctx, work.ID, old.Version, old); err != nil {
		return fmt.Errorf("failed to archive snapshot: %w", err)
	}
	if err := e.store.Save(ctx, work.ID, work); err != nil {
		return fmt.Errorf("failed to save game state: %w", err)
	}

	for _, name := range work.FlaggedPlayers() {
		wasFlagged := false
		if p := old.Player(name); p != nil {
			wasFlagged = p.TurnFlag
		}
		if !wasFlagged {
			e.notifyTurn(work, name)
		}
	}

	e.log.WithFields(logrus.Fields{
		"game":    work.ID,
		"version": work.Version,
		"mode":    work.Mode,
		"mover":   mover,
	}).Debug("committed")

	if e.onCommit != nil {
		e.onCommit(work.ID, work.Version)
	}
	return nil
}

// UndoLastTurn restores the immediately prior snapshot. Only the
// player who made the last commit may undo, and the consumed snapshot
// is removed, so exactly one level of undo exists.
func (e *Engine) UndoLastTurn(ctx context.Context, gameID, caller string) (*types.GameState, error) {
	current, err := e.store.Load(ctx, gameID)
	if err != nil {
		return nil, fmt.Errorf("failed to load game %s: %w", gameID, err)
	}
	if current.LastMover != caller {
		return nil, &RuleError{Code: "not_last_mover", Reason: fmt.Sprintf("only %s may undo the last turn", current.LastMover)}
	}
	prevVersion := current.Version - 1
	snapshot, err := e.store.LoadSnapshot(ctx, gameID, prevVersion)
	if err != nil {
		return nil, fmt.Errorf("no snapshot to undo to: %w", err)
	}
	// The restored state keeps the advancing version counter so
	// watchers still see a change.
	restored := snapshot.Clone()
	restored.Version = current.Version + 1
	if err := e.store.Save(ctx, gameID, restored); err != nil {
		return nil, fmt.Errorf("failed to save restored state: %w", err)
	}
	if err := e.store.RemoveSnapshot(ctx, gameID, prevVersion); err != nil {
		e.log.WithField("game", gameID).Warnf("failed to remove consumed snapshot %d: %v", prevVersion, err)
	}
	e.log.WithFields(logrus.Fields{"game": gameID, "player": caller}).Info("turn undone")
	if e.onCommit != nil {
		e.onCommit(gameID, restored.Version)
	}
	return restored, nil
}
