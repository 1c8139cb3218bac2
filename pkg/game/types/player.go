package types

// StockEntry is one bond held by a player. Denominations within one
// country's sold pool are unique.
type StockEntry struct {
	Country      string `json:"country"`
	Denomination int    `json:"denomination"`
}

// PlayerInfo is the per-player slice of the game state.
type PlayerInfo struct {
	Email             string       `json:"email,omitempty"`
	Money             float64      `json:"money"`
	TurnFlag          bool         `json:"turnFlag"`
	HoldsInvestorCard bool         `json:"holdsInvestorCard"`
	TurnOrder         int          `json:"turnOrder"`
	HasSwissStatus    bool         `json:"hasSwissStatus"`
	Stock             []StockEntry `json:"stock"`
	ScoreModifier     int          `json:"scoreModifier"`
	BankedSeconds     float64      `json:"bankedSeconds"`

	// PendingBid is present only during a bid round, before the bids
	// are revealed.
	PendingBid *float64 `json:"pendingBid,omitempty"`
}

// HoldsDenomination reports whether the player holds the given bond.
func (p *PlayerInfo) HoldsDenomination(country string, denom int) bool {
	for _, s := range p.Stock {
		if s.Country == country && s.Denomination == denom {
			return true
		}
	}
	return false
}

// RemoveDenomination removes one matching bond from the player's
// holdings. Returns false if the player does not hold it.
func (p *PlayerInfo) RemoveDenomination(country string, denom int) bool {
	for i, s := range p.Stock {
		if s.Country == country && s.Denomination == denom {
			p.Stock = append(p.Stock[:i], p.Stock[i+1:]...)
			return true
		}
	}
	return false
}

func (p *PlayerInfo) clone() *PlayerInfo {
	if p == nil {
		return nil
	}
	out := *p
	out.Stock = copySlice(p.Stock)
	if p.PendingBid != nil {
		bid := *p.PendingBid
		out.PendingBid = &bid
	}
	return &out
}
