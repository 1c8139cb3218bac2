package game

import (
	"testing"

	"github.com/bmarchant/imperium/pkg/game/types"
	"github.com/bmarchant/imperium/pkg/refdata"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunTaxation(t *testing.T) {
	e, _ := newTestEngine(t)
	gs := newTestState()
	addTestPlayer(gs, "alice", 0)
	giveStock(gs, "alice", refdata.Austria, 5)

	c := gs.Country(refdata.Austria)
	c.Leadership = []string{"alice"}
	c.Factories = []string{"vienna", "budapest", "trieste"}
	c.TaxMarkers = []string{"serbia", "romania"}
	c.Armies = []types.Unit{{Territory: "vienna"}, {Territory: "budapest"}, {Territory: "prague"}}
	c.Fleets = []types.Unit{{Territory: "trieste"}}
	c.Treasury = 10
	c.LastTaxThreshold = 5

	e.runTaxation(gs, refdata.Austria, "alice")

	// 2 markers + 2*3 factories = 8 points; money delta 8-4 units = 4;
	// pool 8-5 = 3 goes to the leadership
	assert.Equal(t, 11.0, c.Treasury)
	assert.Equal(t, 3.0, gs.Player("alice").Money)
	assert.Equal(t, 3, c.Points)
	assert.Equal(t, 3, gs.Player("alice").ScoreModifier)
	assert.Equal(t, 13, c.LastTaxThreshold)
}

func TestRunTaxationSkipsSaturatedFactories(t *testing.T) {
	e, _ := newTestEngine(t)
	gs := newTestState()
	addTestPlayer(gs, "alice", 0)
	giveStock(gs, "alice", refdata.Austria, 5)

	c := gs.Country(refdata.Austria)
	c.Leadership = []string{"alice"}
	c.Factories = []string{"vienna", "budapest"}
	c.Treasury = 10
	// a hostile foreign army sits on one factory
	gs.Country(refdata.Russia).Armies = []types.Unit{{Territory: "vienna", Hostile: true}}

	e.runTaxation(gs, refdata.Austria, "alice")

	// only budapest counts: 2 points, none of which score
	assert.Equal(t, 0, c.Points)
	assert.Equal(t, 2.0, gs.Player("alice").Money)
	assert.Equal(t, 10.0, c.Treasury)
}

func TestRunTaxationCapsPoints(t *testing.T) {
	e, _ := newTestEngine(t)
	gs := newTestState()
	addTestPlayer(gs, "alice", 0)
	giveStock(gs, "alice", refdata.Austria, 5)

	c := gs.Country(refdata.Austria)
	c.Leadership = []string{"alice"}
	c.Factories = []string{"vienna", "budapest", "prague", "lemberg", "trieste"}
	c.TaxMarkers = []string{"serbia", "romania", "bulgaria", "greece", "turkey", "spain", "norway", "sweden"}
	c.Treasury = 20
	c.LastTaxThreshold = 15

	e.runTaxation(gs, refdata.Austria, "alice")

	// 8 + 10 = 18, capped at 15; the ratcheted threshold leaves no pool
	assert.Equal(t, 10, c.Points)
	assert.Equal(t, 0.0, gs.Player("alice").Money)
	assert.Equal(t, 35.0, c.Treasury)
	assert.Equal(t, 15, c.LastTaxThreshold)
}

func TestRunTaxationTreasuryNeverNegative(t *testing.T) {
	e, _ := newTestEngine(t)
	gs := newTestState()
	addTestPlayer(gs, "alice", 0)
	giveStock(gs, "alice", refdata.Austria, 5)

	c := gs.Country(refdata.Austria)
	c.Leadership = []string{"alice"}
	// no markers, no factories, many mouths to feed
	c.Armies = []types.Unit{{Territory: "vienna"}, {Territory: "budapest"}, {Territory: "prague"}}
	c.Treasury = 2

	e.runTaxation(gs, refdata.Austria, "alice")

	assert.Equal(t, 0.0, c.Treasury)
}

func TestTaxSplit(t *testing.T) {
	testCases := []struct {
		name   string
		pool   float64
		stocks []int
		want   []float64
	}{
		{
			name:   "highest averages favors the bigger holder",
			pool:   3,
			stocks: []int{5, 3},
			want:   []float64{2, 1},
		},
		{
			name:   "single member takes all",
			pool:   2.5,
			stocks: []int{4},
			want:   []float64{2.5},
		},
		{
			name:   "zero pool pays nothing",
			pool:   0,
			stocks: []int{5, 3},
			want:   []float64{0, 0},
		},
		{
			name:   "equal holders split evenly",
			pool:   4,
			stocks: []int{2, 2},
			want:   []float64{2, 2},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := taxSplit(tc.pool, tc.stocks)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestTaxSplitConservesPool(t *testing.T) {
	pools := []float64{1, 2.5, 7.3, 13}
	stockSets := [][]int{{4, 2, 1}, {9, 1}, {3, 3, 3, 1}}
	for _, pool := range pools {
		for _, stocks := range stockSets {
			payouts := taxSplit(pool, stocks)
			require.Len(t, payouts, len(stocks))
			sum := 0.0
			for _, p := range payouts {
				sum += p
			}
			assert.InDelta(t, pool, sum, 0.0001, "pool %.1f stocks %v", pool, stocks)
		}
	}
}

func TestRunInvestorPayout(t *testing.T) {
	e, _ := newTestEngine(t)
	gs := newTestState()
	addTestPlayer(gs, "alice", 0)
	addTestPlayer(gs, "bob", 0)
	giveStock(gs, "alice", refdata.Austria, 5)
	giveStock(gs, "bob", refdata.Austria, 3)

	c := gs.Country(refdata.Austria)
	c.Leadership = []string{"alice", "bob"}
	c.Treasury = 20

	e.runInvestorPayout(gs, refdata.Austria, "alice")

	assert.Equal(t, 5.0, gs.Player("alice").Money)
	assert.Equal(t, 3.0, gs.Player("bob").Money)
	assert.Equal(t, 12.0, c.Treasury)
}

func TestRunInvestorPayoutShortfallHitsActor(t *testing.T) {
	e, _ := newTestEngine(t)
	gs := newTestState()
	addTestPlayer(gs, "alice", 0)
	addTestPlayer(gs, "bob", 0)
	giveStock(gs, "alice", refdata.Austria, 5)
	giveStock(gs, "bob", refdata.Austria, 3)

	c := gs.Country(refdata.Austria)
	c.Leadership = []string{"alice", "bob"}
	c.Treasury = 6

	e.runInvestorPayout(gs, refdata.Austria, "alice")

	// the shortfall of 2 comes out of the acting player's share alone
	assert.Equal(t, 3.0, gs.Player("alice").Money)
	assert.Equal(t, 3.0, gs.Player("bob").Money)
	assert.Equal(t, 0.0, c.Treasury)
}
