package game

import (
	"context"
	"fmt"

	"github.com/bmarchant/imperium/pkg/game/types"
)

// openPeaceVote diverts a "peace" move into the target country's
// accept/reject decision. A dictatorship's sole leader decides alone;
// a democracy polls every stockholder, weighted by held denomination.
// The unit index does not advance until the sub-vote resolves.
func (e *Engine) openPeaceVote(gs *types.GameState, m *types.ManeuverState, move types.Move) error {
	dest, err := e.ref.Board().Territory(move.Destination)
	if err != nil {
		return errBadRequest("%v", err)
	}
	target := dest.Home
	tc := gs.Country(target)
	if tc == nil {
		return errBadRequest("no country owns %s", move.Destination)
	}
	if len(tc.Leadership) == 0 {
		// Nobody can answer for an unled country: the offer stands
		// accepted.
		move.Action = types.MoveActionPeace
		e.logEvent(gs, "%s entered %s unopposed; %s has no leadership", m.Country, move.Destination, target)
		return e.resolveStep(gs, move)
	}

	unitType := types.UnitArmy
	if m.Phase == types.UnitFleet {
		unitType = types.UnitFleet
	}
	m.PendingPeaceDecision = &move

	totalStock := 0
	var voters []string
	for name := range gs.Players {
		if s := gs.StockSum(name, target); s > 0 {
			totalStock += s
			voters = append(voters, name)
		}
	}

	gs.PeaceVote = &types.PeaceVoteState{
		MovingCountry:      m.Country,
		TargetCountry:      target,
		UnitType:           unitType,
		Origin:             move.Origin,
		Destination:        move.Destination,
		TotalEligibleStock: totalStock,
	}
	gs.Mode = types.ModePeaceVote
	gs.ClearTurnFlags()
	if tc.Government == types.GovernmentDictatorship {
		gs.Player(tc.Leader()).TurnFlag = true
		e.logEvent(gs, "%s offers peace at %s; %s decides for %s", m.Country, move.Destination, tc.Leader(), target)
	} else {
		for _, name := range voters {
			gs.Player(name).TurnFlag = true
		}
		e.logEvent(gs, "%s offers peace at %s; %s stockholders vote", m.Country, move.Destination, target)
	}
	return nil
}

// SubmitDictatorPeaceDecision is the target dictatorship's binary
// answer to a pending peace offer.
func (e *Engine) SubmitDictatorPeaceDecision(ctx context.Context, gameID, caller string, accept bool) (*types.GameState, error) {
	old, gs, err := e.load(ctx, gameID)
	if err != nil {
		return nil, err
	}
	if err := requireMode(gs, types.ModePeaceVote); err != nil {
		return nil, err
	}
	if err := requireActor(gs, caller); err != nil {
		return nil, err
	}
	pv := gs.PeaceVote
	if pv == nil {
		return nil, errBadRequest("no peace vote in progress")
	}
	tc := gs.Country(pv.TargetCountry)
	if tc.Government != types.GovernmentDictatorship {
		return nil, errBadRequest("%s is a democracy; its stockholders vote", pv.TargetCountry)
	}
	if caller != tc.Leader() {
		return nil, errNotYourTurn(caller)
	}

	if err := e.resolvePeace(gs, accept); err != nil {
		return nil, err
	}
	if err := e.commit(ctx, old, gs, caller); err != nil {
		return nil, err
	}
	return gs, nil
}

// SubmitDemocracyPeaceVote records one stockholder's weighted vote on
// a pending peace offer. Acceptance or rejection fires the instant
// either side's weight exceeds half the eligible stock.
func (e *Engine) SubmitDemocracyPeaceVote(ctx context.Context, gameID, caller string, accept bool) (*types.GameState, error) {
	old, gs, err := e.load(ctx, gameID)
	if err != nil {
		return nil, err
	}
	if err := requireMode(gs, types.ModePeaceVote); err != nil {
		return nil, err
	}
	if err := requireActor(gs, caller); err != nil {
		return nil, err
	}
	pv := gs.PeaceVote
	if pv == nil {
		return nil, errBadRequest("no peace vote in progress")
	}
	tc := gs.Country(pv.TargetCountry)
	if tc.Government != types.GovernmentDemocracy {
		return nil, errBadRequest("%s is a dictatorship; its leader decides alone", pv.TargetCountry)
	}
	if pv.HasVoted(caller) {
		return nil, errBadRequest("%s has already voted", caller)
	}

	weight := float64(gs.StockSum(caller, pv.TargetCountry))
	if weight == 0 {
		return nil, errNotYourTurn(caller)
	}
	if tc.Leader() == caller {
		weight += 0.1
	}
	if accept {
		pv.AcceptWeight += weight
	} else {
		pv.RejectWeight += weight
	}
	pv.Voters = append(pv.Voters, caller)
	gs.Player(caller).TurnFlag = false
	e.logEvent(gs, "%s voted %s on the peace offer (weight %.1f)", caller, yesNo(accept), weight)

	threshold := voteThreshold(pv.TotalEligibleStock)
	switch {
	case pv.AcceptWeight > threshold:
		if err := e.resolvePeace(gs, true); err != nil {
			return nil, err
		}
	case pv.RejectWeight > threshold:
		if err := e.resolvePeace(gs, false); err != nil {
			return nil, err
		}
	}

	if err := e.commit(ctx, old, gs, caller); err != nil {
		return nil, err
	}
	return gs, nil
}

// resolvePeace closes the sub-vote. Acceptance commits the move as a
// peaceful entry; rejection converts it into a war against whichever
// enemy unit occupies the destination, or a hostile entry if none
// does. Either way the maneuver resumes (or completes) for the moving
// country's acting player.
func (e *Engine) resolvePeace(gs *types.GameState, accepted bool) error {
	m := gs.CurrentManeuver
	if m == nil || m.PendingPeaceDecision == nil {
		return fmt.Errorf("peace vote resolved with no pending move")
	}
	pv := gs.PeaceVote
	move := *m.PendingPeaceDecision
	m.PendingPeaceDecision = nil
	gs.PeaceVote = nil

	if accepted {
		move.Action = types.MoveActionPeace
		e.logEvent(gs, "%s accepted the peace offer at %s", pv.TargetCountry, move.Destination)
	} else {
		move.Action = types.MoveActionHostile
		tc := gs.Country(pv.TargetCountry)
		for _, u := range tc.Fleets {
			if u.Territory == move.Destination {
				move.Action = fmt.Sprintf("war %s %s", pv.TargetCountry, types.UnitFleet)
			}
		}
		for _, u := range tc.Armies {
			if u.Territory == move.Destination {
				move.Action = fmt.Sprintf("war %s %s", pv.TargetCountry, types.UnitArmy)
			}
		}
		e.logEvent(gs, "%s rejected the peace offer at %s", pv.TargetCountry, move.Destination)
	}

	gs.Mode = types.ModeContinueManeuver
	gs.ClearTurnFlags()
	gs.Player(m.ActingPlayer).TurnFlag = true
	return e.resolveStep(gs, move)
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
