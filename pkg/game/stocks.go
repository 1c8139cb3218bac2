package game

import (
	"github.com/bmarchant/imperium/pkg/game/types"
)

// buyStock moves a bond from the country's unsold pool to the buyer,
// debiting the buyer and crediting the treasury at the price-table
// rate.
func (e *Engine) buyStock(gs *types.GameState, buyer, country string, denom int) error {
	c := gs.Country(country)
	if c == nil {
		return errBadRequest("unknown country: %s", country)
	}
	if !c.HasAvailableStock(denom) {
		return errBadRequest("%s bond %d is not available", country, denom)
	}
	cost, err := e.ref.BondCost(denom)
	if err != nil {
		return errBadRequest("%v", err)
	}
	if err := pay(gs, buyer, float64(cost)); err != nil {
		return err
	}
	c.RemoveAvailableStock(denom)
	c.Treasury += float64(cost)
	gs.Player(buyer).Stock = append(gs.Player(buyer).Stock, types.StockEntry{Country: country, Denomination: denom})
	e.logEvent(gs, "%s bought %s bond %d for %dM", buyer, country, denom, cost)
	return nil
}

// returnStock gives a held bond back to the unsold pool, refunding the
// holder from the treasury. Denomination 0 is the "return nothing"
// sentinel and is a no-op.
func (e *Engine) returnStock(gs *types.GameState, holder, country string, denom int) error {
	if denom == 0 {
		return nil
	}
	c := gs.Country(country)
	if c == nil {
		return errBadRequest("unknown country: %s", country)
	}
	p := gs.Player(holder)
	if p == nil {
		return errUnknownPlayer(holder)
	}
	if !p.RemoveDenomination(country, denom) {
		return errBadRequest("%s does not hold %s bond %d", holder, country, denom)
	}
	cost, err := e.ref.BondCost(denom)
	if err != nil {
		return errBadRequest("%v", err)
	}
	c.InsertAvailableStock(denom)
	p.Money += float64(cost)
	c.Treasury -= float64(cost)
	e.logEvent(gs, "%s returned %s bond %d for %dM", holder, country, denom, cost)
	return nil
}

// recomputeLeadership re-ranks a country's stockholders after a trade
// by actingPlayer. The acting player is ensured a seat before ranking;
// members left with no stock drop off. Government is dictatorship iff
// the top holder owns at least half the stock in play.
func recomputeLeadership(gs *types.GameState, country, actingPlayer string) {
	c := gs.Country(country)
	members := c.Leadership
	present := false
	for _, name := range members {
		if name == actingPlayer {
			present = true
			break
		}
	}
	if !present {
		members = append(members, actingPlayer)
	}

	type ranked struct {
		name string
		sum  int
	}
	var kept []ranked
	total := 0
	for _, name := range members {
		sum := gs.StockSum(name, country)
		if sum == 0 {
			continue
		}
		kept = append(kept, ranked{name: name, sum: sum})
		total += sum
	}

	// Stable insertion sort, descending: equal sums keep their
	// insertion order.
	for i := 1; i < len(kept); i++ {
		for j := i; j > 0 && kept[j].sum > kept[j-1].sum; j-- {
			kept[j], kept[j-1] = kept[j-1], kept[j]
		}
	}

	c.Leadership = c.Leadership[:0]
	for _, r := range kept {
		c.Leadership = append(c.Leadership, r.name)
	}
	if len(kept) > 0 && 2*kept[0].sum >= total {
		c.Government = types.GovernmentDictatorship
	} else {
		c.Government = types.GovernmentDemocracy
	}
}

// leadershipTotalStock sums the stock held by a country's leadership.
func leadershipTotalStock(gs *types.GameState, country string) int {
	c := gs.Country(country)
	total := 0
	for _, name := range c.Leadership {
		total += gs.StockSum(name, country)
	}
	return total
}

// voteWeight is a leadership member's voting weight for the country:
// their stock sum, plus a 0.1 tie-break for the top-ranked leader.
func voteWeight(gs *types.GameState, country, member string) float64 {
	w := float64(gs.StockSum(member, country))
	if gs.Country(country).Leader() == member {
		w += 0.1
	}
	return w
}

// voteThreshold is the weight a side must exceed to win outright.
func voteThreshold(totalStock int) float64 {
	return (float64(totalStock) + 0.01) / 2
}
