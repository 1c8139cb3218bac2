package game

import (
	"context"

	"github.com/bmarchant/imperium/pkg/game/types"
	"github.com/bmarchant/imperium/pkg/refdata"
)

// SubmitBid records a player's hidden bid for the active country's bid
// round. Once every eligible player has bid, the bids are revealed and
// sorted into a processing queue, highest first with random
// tie-breaks.
func (e *Engine) SubmitBid(ctx context.Context, gameID, caller string, amount float64) (*types.GameState, error) {
	old, gs, err := e.load(ctx, gameID)
	if err != nil {
		return nil, err
	}
	if err := requireMode(gs, types.ModeBid); err != nil {
		return nil, err
	}
	if err := requireActor(gs, caller); err != nil {
		return nil, err
	}
	p := gs.Player(caller)
	if amount < 0 || amount > p.Money {
		return nil, errBadRequest("bid %.2f is outside 0..%.2f", amount, p.Money)
	}
	bid := amount
	p.PendingBid = &bid
	p.TurnFlag = false

	if e.allBidsIn(gs) {
		e.revealBids(gs)
	}
	if err := e.commit(ctx, old, gs, caller); err != nil {
		return nil, err
	}
	return gs, nil
}

func (e *Engine) allBidsIn(gs *types.GameState) bool {
	for _, p := range gs.Players {
		if p.PendingBid == nil {
			return false
		}
	}
	return true
}

// revealBids builds the processing queue: players sorted by bid
// descending, ties broken by a shuffle before the stable sort.
func (e *Engine) revealBids(gs *types.GameState) {
	names := make([]string, 0, len(gs.Players))
	for name := range gs.Players {
		names = append(names, name)
	}
	order := e.shuffledNames(names)
	for i := 1; i < len(order); i++ {
		for j := i; j > 0 && *gs.Players[order[j]].PendingBid > *gs.Players[order[j-1]].PendingBid; j-- {
			order[j], order[j-1] = order[j-1], order[j]
		}
	}
	gs.BidOrder = order
	gs.Mode = types.ModeBuyBid
	gs.ClearTurnFlags()
	gs.Player(order[0]).TurnFlag = true
	e.logEvent(gs, "bids revealed for %s; %s decides first", gs.ActiveCountry, order[0])
}

// SubmitBuyBidDecision is the head-of-queue player's choice: buy the
// richest denomination their bid affords in the active country, or
// decline. Declining grants swiss status. When the queue drains, the
// next country's bid round begins, or the whole bid phase ends once no
// one can afford the minimum denomination or every country has had its
// round.
func (e *Engine) SubmitBuyBidDecision(ctx context.Context, gameID, caller string, buy bool) (*types.GameState, error) {
	old, gs, err := e.load(ctx, gameID)
	if err != nil {
		return nil, err
	}
	if err := requireMode(gs, types.ModeBuyBid); err != nil {
		return nil, err
	}
	if err := requireActor(gs, caller); err != nil {
		return nil, err
	}
	if len(gs.BidOrder) == 0 || gs.BidOrder[0] != caller {
		return nil, errNotYourTurn(caller)
	}

	p := gs.Player(caller)
	if buy {
		denom := e.ref.RichestAffordable(*p.PendingBid, gs.Country(gs.ActiveCountry).AvailableStock)
		if denom == 0 {
			return nil, errBadRequest("bid of %.2f affords no available %s bond", *p.PendingBid, gs.ActiveCountry)
		}
		if err := e.buyStock(gs, caller, gs.ActiveCountry, denom); err != nil {
			return nil, err
		}
		recomputeLeadership(gs, gs.ActiveCountry, caller)
	} else {
		p.HasSwissStatus = true
		e.logEvent(gs, "%s declined to buy %s stock", caller, gs.ActiveCountry)
	}
	p.PendingBid = nil
	p.TurnFlag = false
	gs.BidOrder = gs.BidOrder[1:]

	if len(gs.BidOrder) > 0 {
		gs.Player(gs.BidOrder[0]).TurnFlag = true
	} else if err := e.nextBidRound(gs); err != nil {
		return nil, err
	}

	if err := e.commit(ctx, old, gs, caller); err != nil {
		return nil, err
	}
	return gs, nil
}

// nextBidRound closes the active country's bid round and opens the
// next one, or ends the bid phase entirely when nobody can afford the
// minimum tradable denomination or every country has been auctioned.
func (e *Engine) nextBidRound(gs *types.GameState) error {
	gs.Country(gs.ActiveCountry).LockedThisRound = true
	for _, p := range gs.Players {
		p.PendingBid = nil
	}

	anyoneAfford := false
	minCost := float64(e.ref.MinBondCost())
	for _, p := range gs.Players {
		if p.Money >= minCost {
			anyoneAfford = true
			break
		}
	}
	allLocked := true
	for _, country := range refdata.Countries() {
		if !gs.Country(country).LockedThisRound {
			allLocked = false
			break
		}
	}

	if !anyoneAfford || allLocked {
		return e.endBidPhase(gs)
	}

	idx, err := refdata.CountryIndex(gs.ActiveCountry)
	if err != nil {
		return err
	}
	countries := refdata.Countries()
	for step := 1; step <= len(countries); step++ {
		candidate := countries[(idx+step)%len(countries)]
		if !gs.Country(candidate).LockedThisRound {
			gs.ActiveCountry = candidate
			break
		}
	}
	gs.Mode = types.ModeBid
	for _, p := range gs.Players {
		p.TurnFlag = true
	}
	e.logEvent(gs, "bidding opens on %s", gs.ActiveCountry)
	return nil
}

// endBidPhase reassigns turn order by total wealth descending (random
// tie-break), hands the investor card to the wealthiest player, grants
// swiss status to everyone holding no leadership seat, and rotates
// play to the first governed country.
func (e *Engine) endBidPhase(gs *types.GameState) error {
	names := make([]string, 0, len(gs.Players))
	for name := range gs.Players {
		names = append(names, name)
	}
	order := e.shuffledNames(names)
	for i := 1; i < len(order); i++ {
		for j := i; j > 0 && gs.Players[order[j]].Money > gs.Players[order[j-1]].Money; j-- {
			order[j], order[j-1] = order[j-1], order[j]
		}
	}
	for i, name := range order {
		p := gs.Player(name)
		p.TurnOrder = i + 1
		p.HoldsInvestorCard = i == 0
		if !gs.HoldsAnyLeadership(name) {
			p.HasSwissStatus = true
		}
	}
	for _, country := range refdata.Countries() {
		gs.Country(country).LockedThisRound = false
	}
	gs.BidOrder = nil
	e.logEvent(gs, "bidding closed; %s holds the investor card", order[0])

	// The buy window sits between the bid phase and the first
	// proposal so swiss players get their bonus buy.
	return e.enterBuyWindow(gs, false)
}
