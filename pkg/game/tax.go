package game

import (
	"github.com/bmarchant/imperium/pkg/game/types"
)

// runTaxation applies the taxation wheel action for the active
// country, acted by actor. Point and money computation:
//
//	points     = min(taxMarkers + 2*unsaturatedFactories, 15)
//	moneyDelta = points - totalUnits, clamped so the treasury stays >= 0
//	payoutPool = clamp(points - lastTaxThreshold, 0, treasury+moneyDelta)
//
// The pool is split among the leadership by highest averages; the
// country scores max(points-5, 0) and the threshold ratchets to
// min(points+5, 15).
func (e *Engine) runTaxation(gs *types.GameState, country, actor string) {
	c := gs.Country(country)

	unsaturated := 0
	for _, territory := range c.Factories {
		if !e.factorySaturated(gs, country, territory) {
			unsaturated++
		}
	}
	points := len(c.TaxMarkers) + 2*unsaturated
	if points > taxPointsCap {
		points = taxPointsCap
	}

	moneyDelta := float64(points - c.TotalUnits())
	if c.Treasury+moneyDelta < 0 {
		moneyDelta = -c.Treasury
	}

	pool := float64(points - c.LastTaxThreshold)
	if pool < 0 {
		pool = 0
	}
	if max := c.Treasury + moneyDelta; pool > max {
		pool = max
	}

	c.Treasury += moneyDelta - pool
	payouts := taxSplit(pool, leadershipStocks(gs, country))
	for i, member := range c.Leadership {
		gs.Player(member).Money += payouts[i]
	}

	scored := points - 5
	if scored < 0 {
		scored = 0
	}
	c.Points += scored
	if leader := c.Leader(); leader != "" && scored > 0 {
		gs.Player(leader).ScoreModifier += scored
	}
	c.LastTaxThreshold = points + 5
	if c.LastTaxThreshold > taxPointsCap {
		c.LastTaxThreshold = taxPointsCap
	}

	e.logEvent(gs, "%s taxed: %d points, %+.0fM treasury, %.2fM paid to leadership (by %s)", country, points, moneyDelta-pool, pool, actor)
}

// factorySaturated reports whether a hostile foreign army sits on the
// factory's territory.
func (e *Engine) factorySaturated(gs *types.GameState, owner, territory string) bool {
	for name, c := range gs.Countries {
		if name == owner {
			continue
		}
		for _, u := range c.Armies {
			if u.Territory == territory && u.Hostile {
				return true
			}
		}
	}
	return false
}

// leadershipStocks returns each leadership member's stock sum, in
// leadership order.
func leadershipStocks(gs *types.GameState, country string) []int {
	c := gs.Country(country)
	stocks := make([]int, len(c.Leadership))
	for i, member := range c.Leadership {
		stocks[i] = gs.StockSum(member, country)
	}
	return stocks
}

// taxSplit distributes pool among members by the highest-averages
// method: one unit at a time to whichever member has the highest ratio
// of stock to units already received. The fractional remainder goes
// with the last unit, so the distributed amounts always sum to pool
// exactly.
func taxSplit(pool float64, stocks []int) []float64 {
	payouts := make([]float64, len(stocks))
	if pool <= 0 || len(stocks) == 0 {
		return payouts
	}
	remaining := pool
	for remaining > 0 {
		best := -1
		var bestRatio float64
		for i, stock := range stocks {
			if stock == 0 {
				continue
			}
			ratio := float64(stock) / (payouts[i] + 1)
			if best == -1 || ratio > bestRatio {
				best = i
				bestRatio = ratio
			}
		}
		if best == -1 {
			// Leadership members always hold stock; if none do, hand
			// the rest to the top seat so the split still sums to pool.
			payouts[0] += remaining
			return payouts
		}
		unit := 1.0
		if remaining < unit {
			unit = remaining
		}
		payouts[best] += unit
		remaining -= unit
	}
	return payouts
}

// runInvestorPayout applies the investor wheel action: each leadership
// member collects cash equal to their held denominations, paid from
// the treasury. If the treasury cannot cover everyone, only the acting
// player's share absorbs the shortfall.
func (e *Engine) runInvestorPayout(gs *types.GameState, country, actor string) {
	c := gs.Country(country)
	total := 0.0
	shares := make(map[string]float64, len(c.Leadership))
	for _, member := range c.Leadership {
		share := float64(gs.StockSum(member, country))
		shares[member] = share
		total += share
	}
	shortfall := total - c.Treasury
	if shortfall > 0 {
		actorShare := shares[actor] - shortfall
		if actorShare < 0 {
			actorShare = 0
		}
		shares[actor] = actorShare
	}
	for _, member := range c.Leadership {
		gs.Player(member).Money += shares[member]
		c.Treasury -= shares[member]
	}
	e.logEvent(gs, "%s paid interest to its leadership (by %s)", country, actor)
}
