package game

import (
	"fmt"

	"github.com/bmarchant/imperium/pkg/game/types"
	"github.com/bmarchant/imperium/pkg/refdata"
)

// incrementCountry advances play to the next country in fixed order,
// skipping countries with no leadership. Wrapping past the last
// country increments the round. The loop is bounded by the country
// count: if no country has leadership the invariant is violated and an
// error is returned instead of spinning.
func (e *Engine) incrementCountry(gs *types.GameState) error {
	countries := refdata.Countries()
	idx, err := refdata.CountryIndex(gs.ActiveCountry)
	if err != nil {
		return err
	}
	for step := 1; step <= len(countries); step++ {
		next := (idx + step) % len(countries)
		candidate := countries[next]
		if len(gs.Country(candidate).Leadership) == 0 {
			continue
		}
		if next <= idx {
			gs.Round++
		}
		gs.ActiveCountry = candidate
		gs.Mode = types.ModeProposal
		gs.Voting = nil
		gs.CurrentManeuver = nil
		gs.PeaceVote = nil
		gs.PendingProposals[0] = nil
		gs.PendingProposals[1] = nil
		gs.ClearTurnFlags()
		leader := gs.Country(candidate).Leader()
		gs.Player(leader).TurnFlag = true
		e.logEvent(gs, "%s to move; %s leads", candidate, leader)
		return nil
	}
	return fmt.Errorf("no country has leadership; cannot rotate")
}

// checkGameOver switches to the terminal mode if any country reached
// the winning point total. Returns true if the game ended.
func (e *Engine) checkGameOver(gs *types.GameState) bool {
	for _, country := range refdata.Countries() {
		if gs.Country(country).Points >= winningPoints {
			gs.Mode = types.ModeGameOver
			gs.Voting = nil
			gs.CurrentManeuver = nil
			gs.PeaceVote = nil
			gs.PendingProposals[0] = nil
			gs.PendingProposals[1] = nil
			gs.ClearTurnFlags()
			e.logEvent(gs, "%s reached %d points; game over", country, winningPoints)
			return true
		}
	}
	return false
}

// advanceAfterAction is the common tail of every executed action:
// either the game ends, the investor-pass buy window opens, or play
// rotates to the next country.
func (e *Engine) advanceAfterAction(gs *types.GameState, investorPassed bool) error {
	if e.checkGameOver(gs) {
		return nil
	}
	if investorPassed {
		return e.enterBuyWindow(gs, true)
	}
	return e.incrementCountry(gs)
}
