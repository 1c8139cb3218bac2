package store

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/bmarchant/imperium/pkg/game/types"
)

// InMemoryStore keeps games and snapshots in process memory. It hands
// out deep copies so callers cannot alias the stored state.
type InMemoryStore struct {
	lock      sync.RWMutex
	games     map[string]*types.GameState
	snapshots map[string]map[int64]*types.GameState
}

// NewInMemoryStore creates a new InMemoryStore.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		games:     make(map[string]*types.GameState),
		snapshots: make(map[string]map[int64]*types.GameState),
	}
}

func (s *InMemoryStore) Load(ctx context.Context, gameID string) (*types.GameState, error) {
	s.lock.RLock()
	defer s.lock.RUnlock()
	gs, ok := s.games[gameID]
	if !ok {
		return nil, &ErrNotFound{}
	}
	return gs.Clone(), nil
}

func (s *InMemoryStore) Save(ctx context.Context, gameID string, gs *types.GameState) error {
	if gs == nil {
		return fmt.Errorf("game state is nil")
	}
	s.lock.Lock()
	defer s.lock.Unlock()
	s.games[gameID] = gs.Clone()
	return nil
}

func (s *InMemoryStore) SaveSnapshot(ctx context.Context, gameID string, version int64, gs *types.GameState) error {
	if gs == nil {
		return fmt.Errorf("game state is nil")
	}
	s.lock.Lock()
	defer s.lock.Unlock()
	if s.snapshots[gameID] == nil {
		s.snapshots[gameID] = make(map[int64]*types.GameState)
	}
	s.snapshots[gameID][version] = gs.Clone()
	return nil
}

func (s *InMemoryStore) LoadSnapshot(ctx context.Context, gameID string, version int64) (*types.GameState, error) {
	s.lock.RLock()
	defer s.lock.RUnlock()
	gs, ok := s.snapshots[gameID][version]
	if !ok {
		return nil, &ErrNotFound{}
	}
	return gs.Clone(), nil
}

func (s *InMemoryStore) RemoveSnapshot(ctx context.Context, gameID string, version int64) error {
	s.lock.Lock()
	defer s.lock.Unlock()
	delete(s.snapshots[gameID], version)
	return nil
}

func (s *InMemoryStore) RemoveSnapshotsBefore(ctx context.Context, gameID string, version int64) error {
	s.lock.Lock()
	defer s.lock.Unlock()
	for v := range s.snapshots[gameID] {
		if v < version {
			delete(s.snapshots[gameID], v)
		}
	}
	return nil
}

func (s *InMemoryStore) ListGames(ctx context.Context) ([]string, error) {
	s.lock.RLock()
	defer s.lock.RUnlock()
	ids := make([]string, 0, len(s.games))
	for id := range s.games {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

func (s *InMemoryStore) Close(ctx context.Context) error {
	return nil
}
