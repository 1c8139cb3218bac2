package store

import (
	"context"
	"testing"

	"github.com/bmarchant/imperium/pkg/game/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryStoreSaveLoad(t *testing.T) {
	s := NewInMemoryStore()
	ctx := context.Background()

	gs := &types.GameState{
		ID:      "g1",
		Mode:    types.ModeBid,
		Version: 3,
		Players: map[string]*types.PlayerInfo{"alice": {Money: 10}},
		Countries: map[string]*types.CountryInfo{
			"austria": {Treasury: 5, AvailableStock: []int{1, 2, 3}},
		},
	}
	require.NoError(t, s.Save(ctx, "g1", gs))

	loaded, err := s.Load(ctx, "g1")
	require.NoError(t, err)
	assert.Equal(t, gs, loaded)

	// nil slices survive the round trip as nil, not empty
	assert.Nil(t, loaded.Players["alice"].Stock)
	assert.Nil(t, loaded.Countries["austria"].Fleets)

	// loads are isolated copies
	loaded.Players["alice"].Money = 99
	again, err := s.Load(ctx, "g1")
	require.NoError(t, err)
	assert.Equal(t, 10.0, again.Players["alice"].Money)
}

func TestInMemoryStoreLoadMissing(t *testing.T) {
	s := NewInMemoryStore()

	_, err := s.Load(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
}

func TestInMemoryStoreSnapshots(t *testing.T) {
	s := NewInMemoryStore()
	ctx := context.Background()

	gs := &types.GameState{ID: "g1", Version: 1}
	require.NoError(t, s.SaveSnapshot(ctx, "g1", 1, gs))

	snap, err := s.LoadSnapshot(ctx, "g1", 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), snap.Version)

	require.NoError(t, s.RemoveSnapshot(ctx, "g1", 1))
	_, err = s.LoadSnapshot(ctx, "g1", 1)
	assert.True(t, IsNotFound(err))
}

func TestInMemoryStoreRemoveSnapshotsBefore(t *testing.T) {
	s := NewInMemoryStore()
	ctx := context.Background()

	for v := int64(1); v <= 5; v++ {
		require.NoError(t, s.SaveSnapshot(ctx, "g1", v, &types.GameState{ID: "g1", Version: v}))
	}
	require.NoError(t, s.RemoveSnapshotsBefore(ctx, "g1", 4))

	for v := int64(1); v <= 3; v++ {
		_, err := s.LoadSnapshot(ctx, "g1", v)
		assert.True(t, IsNotFound(err), "snapshot %d should be pruned", v)
	}
	_, err := s.LoadSnapshot(ctx, "g1", 4)
	require.NoError(t, err)
	_, err = s.LoadSnapshot(ctx, "g1", 5)
	require.NoError(t, err)
}

func TestInMemoryStoreListGames(t *testing.T) {
	s := NewInMemoryStore()
	ctx := context.Background()

	ids, err := s.ListGames(ctx)
	require.NoError(t, err)
	assert.Empty(t, ids)

	require.NoError(t, s.Save(ctx, "g1", &types.GameState{ID: "g1"}))
	require.NoError(t, s.Save(ctx, "g2", &types.GameState{ID: "g2"}))

	ids, err = s.ListGames(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"g1", "g2"}, ids)
}
