package game

import (
	"testing"

	"github.com/bmarchant/imperium/pkg/game/types"
	"github.com/bmarchant/imperium/pkg/refdata"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIncrementCountrySkipsLeaderless(t *testing.T) {
	e, _ := newTestEngine(t)
	gs := newTestState()
	addTestPlayer(gs, "alice", 10)
	addTestPlayer(gs, "bob", 10)
	gs.Countries[refdata.Austria].Leadership = []string{"alice"}
	gs.Countries[refdata.Germany].Leadership = []string{"bob"}
	gs.ActiveCountry = refdata.Austria

	require.NoError(t, e.incrementCountry(gs))

	// italy, france and britain have no leadership and are skipped
	assert.Equal(t, refdata.Germany, gs.ActiveCountry)
	assert.Equal(t, types.ModeProposal, gs.Mode)
	assert.Equal(t, 1, gs.Round)
	assert.True(t, gs.Player("bob").TurnFlag)
	assert.False(t, gs.Player("alice").TurnFlag)
}

func TestIncrementCountryWrapsAndBumpsRound(t *testing.T) {
	e, _ := newTestEngine(t)
	gs := newTestState()
	addTestPlayer(gs, "alice", 10)
	gs.Countries[refdata.Austria].Leadership = []string{"alice"}
	gs.ActiveCountry = refdata.Russia

	require.NoError(t, e.incrementCountry(gs))

	assert.Equal(t, refdata.Austria, gs.ActiveCountry)
	assert.Equal(t, 2, gs.Round)
}

func TestIncrementCountryWrapsOnceWhileSkipping(t *testing.T) {
	e, _ := newTestEngine(t)
	gs := newTestState()
	addTestPlayer(gs, "alice", 10)
	gs.Countries[refdata.Austria].Leadership = nil
	gs.Countries[refdata.Italy].Leadership = []string{"alice"}
	gs.ActiveCountry = refdata.Britain

	require.NoError(t, e.incrementCountry(gs))

	// germany, russia and austria are leaderless; the single wrap past
	// russia bumps the round exactly once
	assert.Equal(t, refdata.Italy, gs.ActiveCountry)
	assert.Equal(t, 2, gs.Round)
}

func TestIncrementCountryClearsSubStates(t *testing.T) {
	e, _ := newTestEngine(t)
	gs := newTestState()
	addTestPlayer(gs, "alice", 10)
	gs.Countries[refdata.Italy].Leadership = []string{"alice"}
	gs.Voting = &types.VotingState{Country: refdata.Austria}
	gs.CurrentManeuver = &types.ManeuverState{Country: refdata.Austria}
	gs.PeaceVote = &types.PeaceVoteState{TargetCountry: refdata.Italy}
	gs.PendingProposals[0] = &types.StagedAction{Wheel: refdata.SlotTaxation}

	require.NoError(t, e.incrementCountry(gs))

	assert.Nil(t, gs.Voting)
	assert.Nil(t, gs.CurrentManeuver)
	assert.Nil(t, gs.PeaceVote)
	assert.Nil(t, gs.PendingProposals[0])
}

func TestIncrementCountryErrorsWithNoLeadership(t *testing.T) {
	e, _ := newTestEngine(t)
	gs := newTestState()

	assert.Error(t, e.incrementCountry(gs))
}

func TestCheckGameOver(t *testing.T) {
	e, _ := newTestEngine(t)
	gs := newTestState()
	addTestPlayer(gs, "alice", 10)
	gs.Player("alice").TurnFlag = true
	gs.Countries[refdata.France].Points = winningPoints

	assert.True(t, e.checkGameOver(gs))
	assert.Equal(t, types.ModeGameOver, gs.Mode)
	assert.Empty(t, gs.FlaggedPlayers())
}

func TestCheckGameOverNotYet(t *testing.T) {
	e, _ := newTestEngine(t)
	gs := newTestState()
	gs.Countries[refdata.France].Points = winningPoints - 1

	assert.False(t, e.checkGameOver(gs))
	assert.Equal(t, types.ModeProposal, gs.Mode)
}
