package types

// Mode identifies the active state of the turn state machine.
type Mode string

const (
	ModeBid              Mode = "bid"
	ModeBuyBid           Mode = "buy_bid"
	ModeBuy              Mode = "buy"
	ModeProposal         Mode = "proposal"
	ModeProposalOpp      Mode = "proposal_opp"
	ModeVote             Mode = "vote"
	ModeContinueManeuver Mode = "continue_maneuver"
	ModePeaceVote        Mode = "peace_vote"
	ModeGameOver         Mode = "game_over"
)

// GameState is the root aggregate for one game session. It is persisted
// as a single document and mutated only through the engine's submit
// operations, each of which commits a full new copy.
type GameState struct {
	ID            string                  `json:"id"`
	Mode          Mode                    `json:"mode"`
	ActiveCountry string                  `json:"activeCountry"`
	Round         int                     `json:"round"`
	Version       int64                   `json:"version"`
	Players       map[string]*PlayerInfo  `json:"players"`
	Countries     map[string]*CountryInfo `json:"countries"`

	// Turn-scoped sub-states. Each is non-nil only while its mode is
	// active and is cleared by the transition that leaves that mode.
	Voting          *VotingState    `json:"voting,omitempty"`
	CurrentManeuver *ManeuverState  `json:"currentManeuver,omitempty"`
	PeaceVote       *PeaceVoteState `json:"peaceVote,omitempty"`

	BidOrder         []string         `json:"bidOrder,omitempty"`
	PendingSwiss     []string         `json:"pendingSwiss,omitempty"`
	History          []string         `json:"history"`
	PendingProposals [2]*StagedAction `json:"pendingProposals"`
	LastMover        string           `json:"lastMover,omitempty"`
	Timer            *TimerState      `json:"timer,omitempty"`
}

// TimerState holds the optional chess-clock configuration. Per-player
// banked time lives on PlayerInfo.
type TimerState struct {
	Enabled             bool  `json:"enabled"`
	LastTurnStartMillis int64 `json:"lastTurnStartMillis"`
}

// Player returns the named player, or nil.
func (gs *GameState) Player(name string) *PlayerInfo {
	return gs.Players[name]
}

// Country returns the named country, or nil.
func (gs *GameState) Country(name string) *CountryInfo {
	return gs.Countries[name]
}

// FlaggedPlayers returns the names of all players whose turn flag is
// set, sorted by turn order.
func (gs *GameState) FlaggedPlayers() []string {
	var flagged []string
	for name, p := range gs.Players {
		if p.TurnFlag {
			flagged = append(flagged, name)
		}
	}
	sortByTurnOrder(flagged, gs.Players)
	return flagged
}

// ClearTurnFlags resets every player's turn flag.
func (gs *GameState) ClearTurnFlags() {
	for _, p := range gs.Players {
		p.TurnFlag = false
	}
}

// StockSum returns the total denomination value the player holds in
// the given country.
func (gs *GameState) StockSum(player, country string) int {
	p := gs.Players[player]
	if p == nil {
		return 0
	}
	sum := 0
	for _, s := range p.Stock {
		if s.Country == country {
			sum += s.Denomination
		}
	}
	return sum
}

// HoldsAnyLeadership reports whether the player sits on any country's
// leadership list.
func (gs *GameState) HoldsAnyLeadership(player string) bool {
	for _, c := range gs.Countries {
		for _, name := range c.Leadership {
			if name == player {
				return true
			}
		}
	}
	return false
}

// Clone returns a deep copy of the game state. The engine mutates a
// clone and commits it, keeping the loaded copy intact for archiving.
func (gs *GameState) Clone() *GameState {
	if gs == nil {
		return nil
	}
	out := *gs
	out.Players = make(map[string]*PlayerInfo, len(gs.Players))
	for name, p := range gs.Players {
		out.Players[name] = p.clone()
	}
	out.Countries = make(map[string]*CountryInfo, len(gs.Countries))
	for name, c := range gs.Countries {
		out.Countries[name] = c.clone()
	}
	out.Voting = gs.Voting.clone()
	out.CurrentManeuver = gs.CurrentManeuver.clone()
	out.PeaceVote = gs.PeaceVote.clone()
	out.BidOrder = copySlice(gs.BidOrder)
	out.PendingSwiss = copySlice(gs.PendingSwiss)
	out.History = copySlice(gs.History)
	out.PendingProposals[0] = gs.PendingProposals[0].clone()
	out.PendingProposals[1] = gs.PendingProposals[1].clone()
	if gs.Timer != nil {
		timer := *gs.Timer
		out.Timer = &timer
	}
	return &out
}

// copySlice preserves nil so clones round-trip exactly through
// serialization and deep-equality checks.
func copySlice[T any](in []T) []T {
	if in == nil {
		return nil
	}
	out := make([]T, len(in))
	copy(out, in)
	return out
}

// sortByTurnOrder is a stable insertion sort; ties keep their
// insertion order.
func sortByTurnOrder(names []string, players map[string]*PlayerInfo) {
	for i := 1; i < len(names); i++ {
		for j := i; j > 0 && players[names[j]].TurnOrder < players[names[j-1]].TurnOrder; j-- {
			names[j], names[j-1] = names[j-1], names[j]
		}
	}
}
