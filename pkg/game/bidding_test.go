package game

import (
	"context"
	"testing"

	"github.com/bmarchant/imperium/pkg/game/types"
	"github.com/bmarchant/imperium/pkg/refdata"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBidRound(t *testing.T) {
	e, _ := newTestEngine(t)
	ctx := context.Background()

	gs, err := e.CreateGame(ctx, []PlayerSeed{{Name: "alice"}, {Name: "bob"}, {Name: "carol"}}, false)
	require.NoError(t, err)
	gameID := gs.ID

	// bids stay hidden until everyone is in
	gs, err = e.SubmitBid(ctx, gameID, "alice", 5)
	require.NoError(t, err)
	assert.Equal(t, types.ModeBid, gs.Mode)
	assert.NotNil(t, gs.Player("alice").PendingBid)
	assert.False(t, gs.Player("alice").TurnFlag)

	// a player bids once per round
	_, err = e.SubmitBid(ctx, gameID, "alice", 6)
	require.True(t, IsRuleError(err))

	gs, err = e.SubmitBid(ctx, gameID, "bob", 5)
	require.NoError(t, err)
	gs, err = e.SubmitBid(ctx, gameID, "carol", 2)
	require.NoError(t, err)

	// all in: reveal sorts highest first, carol's 2 comes last, the
	// alice/bob tie is broken randomly
	assert.Equal(t, types.ModeBuyBid, gs.Mode)
	require.Len(t, gs.BidOrder, 3)
	assert.Equal(t, "carol", gs.BidOrder[2])
	assert.ElementsMatch(t, []string{"alice", "bob"}, gs.BidOrder[:2])
	assert.Equal(t, []string{gs.BidOrder[0]}, gs.FlaggedPlayers())

	// the head buys the richest denomination their bid affords: 2M..5M
	// affords bond 2 at 4M
	first := gs.BidOrder[0]
	second := gs.BidOrder[1]
	gs, err = e.SubmitBuyBidDecision(ctx, gameID, first, true)
	require.NoError(t, err)
	assert.True(t, gs.Player(first).HoldsDenomination(refdata.Austria, 2))
	assert.Equal(t, 36.0, gs.Player(first).Money)
	assert.Equal(t, []string{second}, gs.FlaggedPlayers())

	// bond 2 is gone, so the same bid now only affords bond 1
	gs, err = e.SubmitBuyBidDecision(ctx, gameID, second, true)
	require.NoError(t, err)
	assert.True(t, gs.Player(second).HoldsDenomination(refdata.Austria, 1))

	// carol's 2M affords nothing anymore
	_, err = e.SubmitBuyBidDecision(ctx, gameID, "carol", true)
	require.True(t, IsRuleError(err))

	// declining grants swiss status and closes the round
	gs, err = e.SubmitBuyBidDecision(ctx, gameID, "carol", false)
	require.NoError(t, err)
	assert.True(t, gs.Player("carol").HasSwissStatus)

	// austria is locked and the next country's round opens for everyone
	assert.True(t, gs.Country(refdata.Austria).LockedThisRound)
	assert.Equal(t, refdata.Italy, gs.ActiveCountry)
	assert.Equal(t, types.ModeBid, gs.Mode)
	assert.Len(t, gs.FlaggedPlayers(), 3)
	for _, p := range gs.Players {
		assert.Nil(t, p.PendingBid)
	}

	// the two buyers lead austria; the bigger bond ranks first
	c := gs.Country(refdata.Austria)
	assert.Equal(t, []string{first, second}, c.Leadership)
	assert.Equal(t, types.GovernmentDictatorship, c.Government)
}

func TestSubmitBidRejectsOutOfRange(t *testing.T) {
	e, _ := newTestEngine(t)
	ctx := context.Background()

	gs, err := e.CreateGame(ctx, []PlayerSeed{{Name: "alice"}, {Name: "bob"}}, false)
	require.NoError(t, err)

	_, err = e.SubmitBid(ctx, gs.ID, "alice", -1)
	require.True(t, IsRuleError(err))
	_, err = e.SubmitBid(ctx, gs.ID, "alice", 61)
	require.True(t, IsRuleError(err))
}

func TestSubmitBuyBidDecisionRejectsOutOfOrder(t *testing.T) {
	e, _ := newTestEngine(t)
	ctx := context.Background()

	gs, err := e.CreateGame(ctx, []PlayerSeed{{Name: "alice"}, {Name: "bob"}}, false)
	require.NoError(t, err)
	gameID := gs.ID

	_, err = e.SubmitBid(ctx, gameID, "alice", 10)
	require.NoError(t, err)
	gs, err = e.SubmitBid(ctx, gameID, "bob", 4)
	require.NoError(t, err)

	require.Equal(t, types.ModeBuyBid, gs.Mode)
	assert.Equal(t, "alice", gs.BidOrder[0])
	_, err = e.SubmitBuyBidDecision(ctx, gameID, "bob", true)
	require.True(t, IsRuleError(err))
}

func TestEndBidPhase(t *testing.T) {
	e, s := newTestEngine(t)
	ctx := context.Background()

	gs := newTestState()
	gs.Mode = types.ModeBuyBid
	gs.ActiveCountry = refdata.Austria
	for _, country := range refdata.Countries() {
		if country != refdata.Austria {
			gs.Country(country).LockedThisRound = true
		}
	}
	alice := addTestPlayer(gs, "alice", 30)
	addTestPlayer(gs, "bob", 20)
	addTestPlayer(gs, "carol", 10)
	bid := 5.0
	alice.PendingBid = &bid
	alice.TurnFlag = true
	gs.BidOrder = []string{"alice"}
	saveState(t, s, gs)

	gs, err := e.SubmitBuyBidDecision(ctx, gs.ID, "alice", true)
	require.NoError(t, err)

	// every country has had its round: the phase ends. Turn order is
	// wealth descending and the wealthiest holds the investor card.
	assert.Equal(t, 1, gs.Player("alice").TurnOrder)
	assert.Equal(t, 2, gs.Player("bob").TurnOrder)
	assert.Equal(t, 3, gs.Player("carol").TurnOrder)
	assert.True(t, gs.Player("alice").HoldsInvestorCard)
	assert.False(t, gs.Player("bob").HoldsInvestorCard)

	// players with no leadership seat become swiss and get the buy
	// window; alice leads austria and does not
	assert.False(t, gs.Player("alice").HasSwissStatus)
	assert.True(t, gs.Player("bob").HasSwissStatus)
	assert.True(t, gs.Player("carol").HasSwissStatus)
	assert.Equal(t, types.ModeBuy, gs.Mode)
	assert.ElementsMatch(t, []string{"bob", "carol"}, gs.FlaggedPlayers())
	assert.ElementsMatch(t, []string{"bob", "carol"}, gs.PendingSwiss)

	// the per-round locks are cleared for the next opening
	for _, country := range refdata.Countries() {
		assert.False(t, gs.Country(country).LockedThisRound)
	}
}

func TestBuyWindow(t *testing.T) {
	e, s := newTestEngine(t)
	ctx := context.Background()

	gs := newTestState()
	gs.Mode = types.ModeBuy
	gs.ActiveCountry = refdata.Austria
	addTestPlayer(gs, "alice", 26)
	bob := addTestPlayer(gs, "bob", 20)
	carol := addTestPlayer(gs, "carol", 10)
	giveStock(gs, "alice", refdata.Austria, 2)
	gs.Country(refdata.Austria).Leadership = []string{"alice"}
	bob.HasSwissStatus = true
	bob.TurnFlag = true
	carol.HasSwissStatus = true
	carol.TurnFlag = true
	gs.PendingSwiss = []string{"bob", "carol"}
	saveState(t, s, gs)

	// bob buys into italy and takes its leadership
	gs, err := e.SubmitBuy(ctx, gs.ID, "bob", refdata.Italy, 5, 0)
	require.NoError(t, err)
	assert.True(t, gs.Player("bob").HoldsDenomination(refdata.Italy, 5))
	assert.Equal(t, []string{"bob"}, gs.Country(refdata.Italy).Leadership)
	assert.Equal(t, types.ModeBuy, gs.Mode)
	assert.Equal(t, []string{"carol"}, gs.FlaggedPlayers())

	// carol passes; the window closes and play rotates to the first
	// governed country after austria
	gs, err = e.SubmitBuy(ctx, gs.ID, "carol", "", 0, 0)
	require.NoError(t, err)
	assert.Nil(t, gs.PendingSwiss)
	assert.Equal(t, refdata.Italy, gs.ActiveCountry)
	assert.Equal(t, types.ModeProposal, gs.Mode)
	assert.Equal(t, []string{"bob"}, gs.FlaggedPlayers())
}

func TestBuyWithReturn(t *testing.T) {
	e, s := newTestEngine(t)
	ctx := context.Background()

	gs := newTestState()
	gs.Mode = types.ModeBuy
	bob := addTestPlayer(gs, "bob", 5)
	giveStock(gs, "bob", refdata.Italy, 2)
	gs.Country(refdata.Italy).Treasury = 4
	gs.Country(refdata.Italy).Leadership = []string{"bob"}
	bob.HasSwissStatus = true
	bob.TurnFlag = true
	gs.PendingSwiss = []string{"bob"}
	saveState(t, s, gs)

	// returning bond 2 (4M back) funds the jump to bond 4 (9M)
	gs, err := e.SubmitBuy(ctx, gs.ID, "bob", refdata.Italy, 4, 2)
	require.NoError(t, err)
	p := gs.Player("bob")
	assert.False(t, p.HoldsDenomination(refdata.Italy, 2))
	assert.True(t, p.HoldsDenomination(refdata.Italy, 4))
	assert.Equal(t, 0.0, p.Money)
	assert.Equal(t, 9.0, gs.Country(refdata.Italy).Treasury)
}

func TestEnterBuyWindowViaInvestorPass(t *testing.T) {
	e, _ := newTestEngine(t)

	gs := newTestState()
	alice := addTestPlayer(gs, "alice", 10)
	bob := addTestPlayer(gs, "bob", 10)
	addTestPlayer(gs, "carol", 10)
	alice.HoldsInvestorCard = true
	bob.HasSwissStatus = true
	gs.Country(refdata.Austria).Leadership = []string{"alice"}

	require.NoError(t, e.enterBuyWindow(gs, true))

	// the card holder collects the flat bonus and may buy alongside
	// the swiss players
	assert.Equal(t, 12.0, gs.Player("alice").Money)
	assert.Equal(t, types.ModeBuy, gs.Mode)
	assert.ElementsMatch(t, []string{"alice", "bob"}, gs.FlaggedPlayers())
}

func TestEnterBuyWindowNoBuyersRotates(t *testing.T) {
	e, _ := newTestEngine(t)

	gs := newTestState()
	addTestPlayer(gs, "alice", 10)
	gs.Country(refdata.Italy).Leadership = []string{"alice"}
	gs.ActiveCountry = refdata.Austria

	require.NoError(t, e.enterBuyWindow(gs, false))

	assert.Equal(t, types.ModeProposal, gs.Mode)
	assert.Equal(t, refdata.Italy, gs.ActiveCountry)
}
