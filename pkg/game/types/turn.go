package types

// Maneuver action codes carried on a resolved move. The empty code is
// a plain move.
const (
	MoveActionPeace   = "peace"
	MoveActionHostile = "hostile"
	// War and blow-up codes carry arguments and are built with
	// WarAction / BlowUpAction.
)

// Move is one resolved unit movement: origin, destination and the
// action code describing what happens on arrival.
type Move struct {
	Origin      string `json:"origin"`
	Destination string `json:"destination"`
	Action      string `json:"action,omitempty"`
}

// ManeuverCompletion selects what happens when the last unit of a
// maneuver has been resolved.
type ManeuverCompletion string

const (
	CompletionExecute           ManeuverCompletion = "execute"
	CompletionStageAsLeader     ManeuverCompletion = "stage_as_leader"
	CompletionStageAsOpposition ManeuverCompletion = "stage_as_opposition"
)

// ManeuverState tracks an in-progress maneuver. The pending unit lists
// are frozen at maneuver start; each submit resolves the unit at
// UnitIndex in the current phase.
type ManeuverState struct {
	Country            string             `json:"country"`
	ActingPlayer       string             `json:"actingPlayer"`
	WheelAction        string             `json:"wheelAction"`
	Phase              UnitType           `json:"phase"`
	UnitIndex          int                `json:"unitIndex"`
	PendingFleets      []Unit             `json:"pendingFleets"`
	PendingArmies      []Unit             `json:"pendingArmies"`
	ResolvedFleetMoves []Move             `json:"resolvedFleetMoves"`
	ResolvedArmyMoves  []Move             `json:"resolvedArmyMoves"`
	OnCompletion       ManeuverCompletion `json:"onCompletion"`

	// InvestorPassed records whether the wheel move that started an
	// immediately-executing maneuver crossed the investor slot; the
	// buy window opens only after the maneuver completes.
	InvestorPassed bool `json:"investorPassed,omitempty"`

	// PendingPeaceDecision holds the move awaiting a peace sub-vote.
	// The unit index does not advance until the vote resolves.
	PendingPeaceDecision *Move `json:"pendingPeaceDecision,omitempty"`
}

func (m *ManeuverState) clone() *ManeuverState {
	if m == nil {
		return nil
	}
	out := *m
	out.PendingFleets = copySlice(m.PendingFleets)
	out.PendingArmies = copySlice(m.PendingArmies)
	out.ResolvedFleetMoves = copySlice(m.ResolvedFleetMoves)
	out.ResolvedArmyMoves = copySlice(m.ResolvedArmyMoves)
	if m.PendingPeaceDecision != nil {
		move := *m.PendingPeaceDecision
		out.PendingPeaceDecision = &move
	}
	return &out
}

// ProposalVote tallies weighted votes for one staged proposal.
type ProposalVote struct {
	Description   string   `json:"description"`
	WeightedVotes float64  `json:"weightedVotes"`
	Voters        []string `json:"voters"`
}

// VotingState tracks a democracy's leader-vs-opposition vote.
type VotingState struct {
	Country   string          `json:"country"`
	Proposals [2]ProposalVote `json:"proposals"`
}

func (v *VotingState) clone() *VotingState {
	if v == nil {
		return nil
	}
	out := *v
	out.Proposals[0].Voters = copySlice(v.Proposals[0].Voters)
	out.Proposals[1].Voters = copySlice(v.Proposals[1].Voters)
	return &out
}

// HasVoted reports whether the player already voted on either
// proposal.
func (v *VotingState) HasVoted(player string) bool {
	for i := range v.Proposals {
		for _, name := range v.Proposals[i].Voters {
			if name == player {
				return true
			}
		}
	}
	return false
}

// PeaceVoteState tracks the target country's decision on a peace
// offer made during a maneuver.
type PeaceVoteState struct {
	MovingCountry      string   `json:"movingCountry"`
	TargetCountry      string   `json:"targetCountry"`
	UnitType           UnitType `json:"unitType"`
	Origin             string   `json:"origin"`
	Destination        string   `json:"destination"`
	AcceptWeight       float64  `json:"acceptWeight"`
	RejectWeight       float64  `json:"rejectWeight"`
	Voters             []string `json:"voters"`
	TotalEligibleStock int      `json:"totalEligibleStock"`
}

func (pv *PeaceVoteState) clone() *PeaceVoteState {
	if pv == nil {
		return nil
	}
	out := *pv
	out.Voters = copySlice(pv.Voters)
	return &out
}

// HasVoted reports whether the player already cast a peace vote.
func (pv *PeaceVoteState) HasVoted(player string) bool {
	for _, name := range pv.Voters {
		if name == player {
			return true
		}
	}
	return false
}

// ImportUnit is one unit placement requested by an import proposal.
type ImportUnit struct {
	Territory string   `json:"territory"`
	Type      UnitType `json:"type"`
}

// ManeuverPlan is the fully resolved move set a staged maneuver
// carries into the vote cycle.
type ManeuverPlan struct {
	FleetMoves []Move `json:"fleetMoves"`
	ArmyMoves  []Move `json:"armyMoves"`
}

// StagedAction is a pending proposal: the wheel action plus its
// payload fields. It is a plain tagged record; exactly the payload
// matching Wheel is set.
type StagedAction struct {
	Wheel            string        `json:"wheel"`
	FactoryTerritory string        `json:"factoryTerritory,omitempty"`
	Imports          []ImportUnit  `json:"imports,omitempty"`
	Maneuver         *ManeuverPlan `json:"maneuver,omitempty"`
}

func (a *StagedAction) clone() *StagedAction {
	if a == nil {
		return nil
	}
	out := *a
	out.Imports = copySlice(a.Imports)
	if a.Maneuver != nil {
		out.Maneuver = &ManeuverPlan{
			FleetMoves: copySlice(a.Maneuver.FleetMoves),
			ArmyMoves:  copySlice(a.Maneuver.ArmyMoves),
		}
	}
	return &out
}
