package game

import (
	"context"

	"github.com/bmarchant/imperium/pkg/game/types"
)

// enterBuyWindow opens the stock-purchase window. Entered via an
// investor pass it admits the investor-card holder (who collects the
// flat bonus) and all swiss players; entered at the end of the bid
// phase it admits the swiss players only. With no eligible buyers the
// window is skipped and play rotates on.
func (e *Engine) enterBuyWindow(gs *types.GameState, viaInvestorPass bool) error {
	var eligible []string
	for name, p := range gs.Players {
		if p.HasSwissStatus {
			eligible = append(eligible, name)
			continue
		}
		if viaInvestorPass && p.HoldsInvestorCard {
			eligible = append(eligible, name)
		}
	}
	if viaInvestorPass {
		for name, p := range gs.Players {
			if p.HoldsInvestorCard {
				p.Money += investorCardBonus
				e.logEvent(gs, "%s collected the investor card bonus of %.0fM", name, investorCardBonus)
			}
		}
	}
	if len(eligible) == 0 {
		return e.incrementCountry(gs)
	}
	gs.Mode = types.ModeBuy
	gs.ClearTurnFlags()
	for _, name := range eligible {
		gs.Player(name).TurnFlag = true
	}
	gs.PendingSwiss = eligible
	e.logEvent(gs, "buy window open for %d player(s)", len(eligible))
	return nil
}

// SubmitBuy is one flagged player's purchase during the buy window:
// buy one available denomination, optionally returning a held bond to
// part-fund it (returnDenom 0 returns nothing), or pass with denom 0.
// When the last flagged player has acted, play rotates on.
func (e *Engine) SubmitBuy(ctx context.Context, gameID, caller, country string, denom, returnDenom int) (*types.GameState, error) {
	old, gs, err := e.load(ctx, gameID)
	if err != nil {
		return nil, err
	}
	if err := requireMode(gs, types.ModeBuy); err != nil {
		return nil, err
	}
	if err := requireActor(gs, caller); err != nil {
		return nil, err
	}

	if denom != 0 {
		if err := e.returnStock(gs, caller, country, returnDenom); err != nil {
			return nil, err
		}
		if err := e.buyStock(gs, caller, country, denom); err != nil {
			return nil, err
		}
		recomputeLeadership(gs, country, caller)
	} else {
		e.logEvent(gs, "%s passed on buying", caller)
	}

	gs.Player(caller).TurnFlag = false
	for i, name := range gs.PendingSwiss {
		if name == caller {
			gs.PendingSwiss = append(gs.PendingSwiss[:i], gs.PendingSwiss[i+1:]...)
			break
		}
	}

	if len(gs.FlaggedPlayers()) == 0 {
		gs.PendingSwiss = nil
		if err := e.incrementCountry(gs); err != nil {
			return nil, err
		}
	}

	if err := e.commit(ctx, old, gs, caller); err != nil {
		return nil, err
	}
	return gs, nil
}
