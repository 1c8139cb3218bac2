package refdata

import (
	"fmt"
	"sort"
)

// WheelStart is the off-wheel position every country marker begins on.
// The first move off it is free.
const WheelStart = "start"

// Wheel slot names, in rondel order.
const (
	SlotFactory     = "factory"
	SlotProduction1 = "production1"
	SlotManeuver1   = "maneuver1"
	SlotInvestor    = "investor"
	SlotImport      = "import"
	SlotProduction2 = "production2"
	SlotManeuver2   = "maneuver2"
	SlotTaxation    = "taxation"
)

var wheelOrder = []string{
	SlotFactory,
	SlotProduction1,
	SlotManeuver1,
	SlotInvestor,
	SlotImport,
	SlotProduction2,
	SlotManeuver2,
	SlotTaxation,
}

// bondCosts maps a bond denomination to its purchase price.
var bondCosts = map[int]int{
	1: 2,
	2: 4,
	3: 6,
	4: 9,
	5: 12,
	6: 16,
	7: 20,
	8: 25,
	9: 30,
}

// RefData bundles the static reference data the engine reads:
// the rondel order, the bond price table, and the board graph.
// It is never mutated after construction.
type RefData struct {
	board *Board
}

// Default returns the reference data for the standard six-nation board.
func Default() *RefData {
	return &RefData{board: defaultBoard()}
}

// WheelSize is the number of rondel slots.
func (r *RefData) WheelSize() int {
	return len(wheelOrder)
}

// WheelSlot returns the slot name at index i (mod wheel size).
func (r *RefData) WheelSlot(i int) string {
	return wheelOrder[((i%len(wheelOrder))+len(wheelOrder))%len(wheelOrder)]
}

// WheelIndex returns the index of the named slot, or an error for
// unknown names (including the start marker, which is off the wheel).
func (r *RefData) WheelIndex(name string) (int, error) {
	for i, slot := range wheelOrder {
		if slot == name {
			return i, nil
		}
	}
	return 0, fmt.Errorf("unknown wheel slot: %s", name)
}

// IsManeuverSlot reports whether the named slot triggers a maneuver.
func IsManeuverSlot(name string) bool {
	return name == SlotManeuver1 || name == SlotManeuver2
}

// IsProductionSlot reports whether the named slot triggers production.
func IsProductionSlot(name string) bool {
	return name == SlotProduction1 || name == SlotProduction2
}

// BondCost returns the purchase price of a denomination.
func (r *RefData) BondCost(denom int) (int, error) {
	cost, ok := bondCosts[denom]
	if !ok {
		return 0, fmt.Errorf("unknown bond denomination: %d", denom)
	}
	return cost, nil
}

// MinBondCost returns the price of the cheapest tradable denomination.
func (r *RefData) MinBondCost() int {
	min := 0
	for _, cost := range bondCosts {
		if min == 0 || cost < min {
			min = cost
		}
	}
	return min
}

// Denominations returns all denominations in ascending order.
func (r *RefData) Denominations() []int {
	denoms := make([]int, 0, len(bondCosts))
	for d := range bondCosts {
		denoms = append(denoms, d)
	}
	sort.Ints(denoms)
	return denoms
}

// RichestAffordable returns the highest available denomination whose
// price does not exceed budget, or 0 if none is affordable.
func (r *RefData) RichestAffordable(budget float64, available []int) int {
	best := 0
	for _, d := range available {
		cost, ok := bondCosts[d]
		if !ok {
			continue
		}
		if float64(cost) <= budget && d > best {
			best = d
		}
	}
	return best
}

// Board returns the territory graph.
func (r *RefData) Board() *Board {
	return r.board
}
