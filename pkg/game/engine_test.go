package game

import (
	"context"
	"io"
	"math/rand"
	"testing"

	"github.com/bmarchant/imperium/pkg/clock"
	"github.com/bmarchant/imperium/pkg/game/types"
	"github.com/bmarchant/imperium/pkg/queue"
	"github.com/bmarchant/imperium/pkg/refdata"
	"github.com/bmarchant/imperium/pkg/store"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEngine(t *testing.T) (*Engine, store.Store) {
	t.Helper()
	s := store.NewInMemoryStore()
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	e := NewEngine(NewEngineOptions{
		Store:         s,
		RefData:       refdata.Default(),
		Clock:         &clock.Fixed{Millis: 1000000},
		Notifications: queue.NewInMemoryQueue(64),
		Rand:          rand.New(rand.NewSource(7)),
		Logger:        logger,
	})
	return e, s
}

// newTestState builds a bare mid-game state with every country at the
// start marker and a full unsold bond pool. Tests fill in players,
// leadership and units as needed.
func newTestState() *types.GameState {
	gs := &types.GameState{
		ID:            "test-game",
		Mode:          types.ModeProposal,
		ActiveCountry: refdata.Austria,
		Round:         1,
		Players:       make(map[string]*types.PlayerInfo),
		Countries:     make(map[string]*types.CountryInfo),
	}
	for _, country := range refdata.Countries() {
		gs.Countries[country] = &types.CountryInfo{
			WheelPosition:  refdata.WheelStart,
			Government:     types.GovernmentDictatorship,
			AvailableStock: []int{1, 2, 3, 4, 5, 6, 7, 8, 9},
		}
	}
	return gs
}

func addTestPlayer(gs *types.GameState, name string, money float64) *types.PlayerInfo {
	p := &types.PlayerInfo{Money: money, TurnOrder: len(gs.Players) + 1}
	gs.Players[name] = p
	return p
}

func giveStock(gs *types.GameState, player, country string, denoms ...int) {
	p := gs.Player(player)
	for _, d := range denoms {
		p.Stock = append(p.Stock, types.StockEntry{Country: country, Denomination: d})
		gs.Country(country).RemoveAvailableStock(d)
	}
}

func saveState(t *testing.T, s store.Store, gs *types.GameState) {
	t.Helper()
	require.NoError(t, s.Save(context.Background(), gs.ID, gs))
}

func TestCreateGame(t *testing.T) {
	e, _ := newTestEngine(t)
	ctx := context.Background()

	gs, err := e.CreateGame(ctx, []PlayerSeed{{Name: "alice"}, {Name: "bob"}, {Name: "carol"}}, false)
	require.NoError(t, err)

	assert.NotEmpty(t, gs.ID)
	assert.Equal(t, types.ModeBid, gs.Mode)
	assert.Equal(t, refdata.Austria, gs.ActiveCountry)
	assert.Equal(t, 1, gs.Round)
	assert.Equal(t, int64(0), gs.Version)
	assert.Nil(t, gs.Timer)
	require.Len(t, gs.Players, 3)
	for name, p := range gs.Players {
		assert.Equal(t, 40.0, p.Money, "player %s", name)
		assert.True(t, p.TurnFlag, "player %s", name)
	}
	for _, country := range refdata.Countries() {
		c := gs.Country(country)
		assert.Len(t, c.Factories, 2)
		assert.Equal(t, refdata.WheelStart, c.WheelPosition)
		assert.Equal(t, []int{1, 2, 3, 4, 5, 6, 7, 8, 9}, c.AvailableStock)
		assert.Empty(t, c.Leadership)
	}
}

func TestCreateGameWithTimer(t *testing.T) {
	e, _ := newTestEngine(t)

	gs, err := e.CreateGame(context.Background(), []PlayerSeed{{Name: "alice"}, {Name: "bob"}}, true)
	require.NoError(t, err)
	require.NotNil(t, gs.Timer)
	assert.True(t, gs.Timer.Enabled)
	assert.Equal(t, int64(1000000), gs.Timer.LastTurnStartMillis)
}

func TestCreateGameRejectsBadSeeds(t *testing.T) {
	e, _ := newTestEngine(t)
	ctx := context.Background()

	_, err := e.CreateGame(ctx, []PlayerSeed{{Name: "alice"}}, false)
	assert.True(t, IsRuleError(err))

	_, err = e.CreateGame(ctx, []PlayerSeed{{Name: "alice"}, {Name: ""}}, false)
	assert.True(t, IsRuleError(err))

	_, err = e.CreateGame(ctx, []PlayerSeed{{Name: "alice"}, {Name: "alice"}}, false)
	assert.True(t, IsRuleError(err))
}

func TestSubmitRejectsWrongMode(t *testing.T) {
	e, s := newTestEngine(t)
	ctx := context.Background()

	gs := newTestState()
	alice := addTestPlayer(gs, "alice", 20)
	alice.TurnFlag = true
	saveState(t, s, gs)

	_, err := e.SubmitBid(ctx, gs.ID, "alice", 5)
	require.Error(t, err)
	require.True(t, IsRuleError(err))
	assert.Equal(t, "wrong_mode", err.(*RuleError).Code)
}

func TestSubmitRejectsUnflaggedPlayer(t *testing.T) {
	e, s := newTestEngine(t)
	ctx := context.Background()

	gs := newTestState()
	gs.Mode = types.ModeBid
	addTestPlayer(gs, "alice", 20)
	saveState(t, s, gs)

	_, err := e.SubmitBid(ctx, gs.ID, "alice", 5)
	require.True(t, IsRuleError(err))
	assert.Equal(t, "not_your_turn", err.(*RuleError).Code)

	_, err = e.SubmitBid(ctx, gs.ID, "nobody", 5)
	require.True(t, IsRuleError(err))
	assert.Equal(t, "unknown_player", err.(*RuleError).Code)
}

func TestCommitBumpsVersionAndArchives(t *testing.T) {
	e, s := newTestEngine(t)
	ctx := context.Background()

	gs := newTestState()
	gs.Mode = types.ModeBid
	gs.Version = 4
	alice := addTestPlayer(gs, "alice", 20)
	alice.TurnFlag = true
	addTestPlayer(gs, "bob", 20)
	saveState(t, s, gs)

	after, err := e.SubmitBid(ctx, gs.ID, "alice", 5)
	require.NoError(t, err)
	assert.Equal(t, int64(5), after.Version)
	assert.Equal(t, "alice", after.LastMover)

	snap, err := s.LoadSnapshot(ctx, gs.ID, 4)
	require.NoError(t, err)
	assert.Nil(t, snap.Player("alice").PendingBid)
}

func TestCommitChargesChessClock(t *testing.T) {
	e, s := newTestEngine(t)
	ctx := context.Background()

	gs := newTestState()
	gs.Mode = types.ModeBid
	gs.Timer = &types.TimerState{Enabled: true, LastTurnStartMillis: 970000}
	alice := addTestPlayer(gs, "alice", 20)
	alice.TurnFlag = true
	alice.BankedSeconds = 300
	addTestPlayer(gs, "bob", 20)
	saveState(t, s, gs)

	after, err := e.SubmitBid(ctx, gs.ID, "alice", 5)
	require.NoError(t, err)
	// 30 seconds elapsed on the fixed clock
	assert.InDelta(t, 270, after.Player("alice").BankedSeconds, 0.001)
	assert.Equal(t, int64(1000000), after.Timer.LastTurnStartMillis)
}

func TestUndoLastTurn(t *testing.T) {
	e, s := newTestEngine(t)
	ctx := context.Background()

	gs := newTestState()
	gs.Countries[refdata.Austria].Treasury = 10
	gs.Countries[refdata.Austria].Factories = []string{"vienna", "budapest"}
	gs.Countries[refdata.Austria].Leadership = []string{"alice"}
	alice := addTestPlayer(gs, "alice", 20)
	alice.TurnFlag = true
	giveStock(gs, "alice", refdata.Austria, 3)
	saveState(t, s, gs)

	after, err := e.SubmitProposal(ctx, gs.ID, "alice", &types.StagedAction{
		Wheel:            refdata.SlotFactory,
		FactoryTerritory: "trieste",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), after.Version)
	assert.True(t, after.Country(refdata.Austria).HasFactory("trieste"))

	// only the last mover may undo
	_, err = e.UndoLastTurn(ctx, gs.ID, "bob")
	require.True(t, IsRuleError(err))
	assert.Equal(t, "not_last_mover", err.(*RuleError).Code)

	restored, err := e.UndoLastTurn(ctx, gs.ID, "alice")
	require.NoError(t, err)
	// the version counter keeps advancing through an undo
	assert.Equal(t, int64(2), restored.Version)
	assert.False(t, restored.Country(refdata.Austria).HasFactory("trieste"))
	assert.Equal(t, 10.0, restored.Country(refdata.Austria).Treasury)

	// the consumed snapshot is gone: undo is single-level
	_, err = e.UndoLastTurn(ctx, gs.ID, "alice")
	assert.Error(t, err)
}

func TestRoundCents(t *testing.T) {
	assert.Equal(t, 3.33, roundCents(10.0/3))
	assert.Equal(t, 2.5, roundCents(2.5))
	assert.Equal(t, 0.0, roundCents(0.001))
}
