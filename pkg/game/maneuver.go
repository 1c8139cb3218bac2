package game

import (
	"context"
	"fmt"
	"strings"

	"github.com/bmarchant/imperium/pkg/game/types"
)

// startManeuver freezes the country's units and begins interactive
// stepping: fleets first, then armies, one unit per submit. With no
// units at all, completion runs immediately.
func (e *Engine) startManeuver(gs *types.GameState, country, actor, wheelSlot string, completion types.ManeuverCompletion, investorPassed bool) error {
	c := gs.Country(country)
	m := &types.ManeuverState{
		Country:        country,
		ActingPlayer:   actor,
		WheelAction:    wheelSlot,
		Phase:          types.UnitFleet,
		PendingFleets:  append([]types.Unit(nil), c.Fleets...),
		PendingArmies:  append([]types.Unit(nil), c.Armies...),
		OnCompletion:   completion,
		InvestorPassed: investorPassed,
	}
	if len(m.PendingFleets) == 0 {
		m.Phase = types.UnitArmy
	}
	gs.CurrentManeuver = m
	if c.TotalUnits() == 0 {
		return e.completeManeuver(gs)
	}
	gs.Mode = types.ModeContinueManeuver
	gs.ClearTurnFlags()
	gs.Player(actor).TurnFlag = true
	e.logEvent(gs, "%s maneuvers %d unit(s), directed by %s", country, c.TotalUnits(), actor)
	return nil
}

// SubmitManeuverStep resolves the unit at the maneuver's current
// index. A "peace" move into foreign territory diverts into a peace
// sub-vote instead of committing; every other action code resolves
// the unit and advances the index.
func (e *Engine) SubmitManeuverStep(ctx context.Context, gameID, caller, origin, destination, actionCode string) (*types.GameState, error) {
	old, gs, err := e.load(ctx, gameID)
	if err != nil {
		return nil, err
	}
	if err := requireMode(gs, types.ModeContinueManeuver); err != nil {
		return nil, err
	}
	if err := requireActor(gs, caller); err != nil {
		return nil, err
	}
	m := gs.CurrentManeuver
	if m == nil {
		return nil, errBadRequest("no maneuver in progress")
	}
	if caller != m.ActingPlayer {
		return nil, errNotYourTurn(caller)
	}

	unit, err := currentUnit(m)
	if err != nil {
		return nil, err
	}
	if origin != unit.Territory {
		return nil, errBadRequest("unit %d of the %s phase is at %s, not %s", m.UnitIndex, m.Phase, unit.Territory, origin)
	}
	move := types.Move{Origin: origin, Destination: destination, Action: actionCode}
	if err := e.validateMove(gs, m, move); err != nil {
		return nil, err
	}

	if actionCode == types.MoveActionPeace {
		if err := e.openPeaceVote(gs, m, move); err != nil {
			return nil, err
		}
	} else if err := e.resolveStep(gs, move); err != nil {
		return nil, err
	}

	if err := e.commit(ctx, old, gs, caller); err != nil {
		return nil, err
	}
	return gs, nil
}

func currentUnit(m *types.ManeuverState) (types.Unit, error) {
	pending := m.PendingArmies
	if m.Phase == types.UnitFleet {
		pending = m.PendingFleets
	}
	if m.UnitIndex >= len(pending) {
		return types.Unit{}, errBadRequest("no unit left to move in the %s phase", m.Phase)
	}
	return pending[m.UnitIndex], nil
}

// validateMove checks the geometry and the action code arguments
// before anything is recorded.
func (e *Engine) validateMove(gs *types.GameState, m *types.ManeuverState, move types.Move) error {
	board := e.ref.Board()
	dest, err := board.Territory(move.Destination)
	if err != nil {
		return errBadRequest("%v", err)
	}
	if move.Destination != move.Origin && !board.AreAdjacent(move.Origin, move.Destination) {
		return errBadRequest("%s is not adjacent to %s", move.Destination, move.Origin)
	}
	if m.Phase == types.UnitFleet && !dest.Sea && !dest.Port {
		return errBadRequest("a fleet cannot enter %s", move.Destination)
	}
	if m.Phase == types.UnitArmy && dest.Sea {
		return errBadRequest("an army cannot enter %s", move.Destination)
	}

	foreign := dest.Home != "" && dest.Home != m.Country
	switch {
	case move.Action == "":
		if foreign {
			return errBadRequest("moving into %s territory at %s requires a peace, hostile, war or blow up action", dest.Home, move.Destination)
		}
		return nil
	case move.Action == types.MoveActionPeace:
		if !foreign {
			return errBadRequest("a peace offer requires foreign territory, %s is not", move.Destination)
		}
		return nil
	case move.Action == types.MoveActionHostile:
		if !foreign {
			return errBadRequest("hostile entry requires foreign territory, %s is not", move.Destination)
		}
		return nil
	default:
		if target, unitType, ok := parseWarAction(move.Action); ok {
			tc := gs.Country(target)
			if tc == nil {
				return errBadRequest("unknown country in war action: %s", target)
			}
			units := tc.Armies
			if unitType == types.UnitFleet {
				units = tc.Fleets
			}
			for _, u := range units {
				if u.Territory == move.Destination {
					return nil
				}
			}
			return errBadRequest("%s has no %s at %s", target, unitType, move.Destination)
		}
		if target, ok := parseBlowUpAction(move.Action); ok {
			tc := gs.Country(target)
			if tc == nil {
				return errBadRequest("unknown country in blow up action: %s", target)
			}
			if !tc.HasFactory(move.Destination) {
				return errBadRequest("%s has no factory at %s", target, move.Destination)
			}
			return nil
		}
		return errBadRequest("unknown action code: %q", move.Action)
	}
}

// resolveStep records the move and advances the maneuver: next unit,
// next phase, or completion.
func (e *Engine) resolveStep(gs *types.GameState, move types.Move) error {
	m := gs.CurrentManeuver
	if m.Phase == types.UnitFleet {
		m.ResolvedFleetMoves = append(m.ResolvedFleetMoves, move)
	} else {
		m.ResolvedArmyMoves = append(m.ResolvedArmyMoves, move)
	}
	m.UnitIndex++
	if m.Phase == types.UnitFleet && m.UnitIndex >= len(m.PendingFleets) {
		m.Phase = types.UnitArmy
		m.UnitIndex = 0
	}
	if m.Phase == types.UnitArmy && m.UnitIndex >= len(m.PendingArmies) {
		return e.completeManeuver(gs)
	}
	return nil
}

// completeManeuver assembles the resolved move lists and either
// executes them now or stages them into the proposal/vote cycle.
func (e *Engine) completeManeuver(gs *types.GameState) error {
	m := gs.CurrentManeuver
	plan := &types.ManeuverPlan{
		FleetMoves: append([]types.Move(nil), m.ResolvedFleetMoves...),
		ArmyMoves:  append([]types.Move(nil), m.ResolvedArmyMoves...),
	}
	gs.CurrentManeuver = nil

	switch m.OnCompletion {
	case types.CompletionExecute:
		e.executeManeuverMoves(gs, m.Country, plan)
		return e.advanceAfterAction(gs, m.InvestorPassed)
	case types.CompletionStageAsLeader:
		gs.PendingProposals[0] = &types.StagedAction{Wheel: m.WheelAction, Maneuver: plan}
		gs.Mode = types.ModeProposalOpp
		gs.ClearTurnFlags()
		opposition := gs.Country(m.Country).Opposition()
		gs.Player(opposition).TurnFlag = true
		e.logEvent(gs, "%s staged a maneuver for %s; %s may counter", m.ActingPlayer, m.Country, opposition)
		return nil
	case types.CompletionStageAsOpposition:
		gs.PendingProposals[1] = &types.StagedAction{Wheel: m.WheelAction, Maneuver: plan}
		return e.openVote(gs, m.ActingPlayer, gs.PendingProposals[1])
	default:
		return fmt.Errorf("unknown maneuver completion: %s", m.OnCompletion)
	}
}

// executeManeuverMoves replaces the country's live unit lists with the
// resolved destinations and applies every side effect: tax markers on
// unclaimed territory, wars, factory demolitions, hostile entries.
// Wars destroy both the defender and the moving unit.
func (e *Engine) executeManeuverMoves(gs *types.GameState, country string, plan *types.ManeuverPlan) {
	c := gs.Country(country)
	c.Fleets = e.applyMoves(gs, country, plan.FleetMoves)
	c.Armies = e.applyMoves(gs, country, plan.ArmyMoves)
	e.logEvent(gs, "%s completed a maneuver of %d move(s)", country, len(plan.FleetMoves)+len(plan.ArmyMoves))
}

func (e *Engine) applyMoves(gs *types.GameState, country string, moves []types.Move) []types.Unit {
	var units []types.Unit
	for _, move := range moves {
		switch {
		case move.Action == "":
			units = append(units, types.Unit{Territory: move.Destination})
			e.placeTaxMarker(gs, country, move.Destination)
		case move.Action == types.MoveActionPeace:
			units = append(units, types.Unit{Territory: move.Destination})
		case move.Action == types.MoveActionHostile:
			units = append(units, types.Unit{Territory: move.Destination, Hostile: true})
		default:
			if target, unitType, ok := parseWarAction(move.Action); ok {
				if tc := gs.Country(target); tc != nil {
					if tc.RemoveUnit(unitType, move.Destination) {
						e.logEvent(gs, "%s destroyed a %s %s at %s, losing its own unit", country, target, unitType, move.Destination)
					}
				}
				// Mutual destruction: the mover dies too.
				continue
			}
			if target, ok := parseBlowUpAction(move.Action); ok {
				if tc := gs.Country(target); tc != nil {
					if tc.RemoveFactory(move.Destination) {
						e.logEvent(gs, "%s blew up the %s factory at %s", country, target, move.Destination)
					}
				}
				units = append(units, types.Unit{Territory: move.Destination, Hostile: true})
			}
		}
	}
	return units
}

// placeTaxMarker claims unclaimed territory for the country, removing
// any other nation's marker there.
func (e *Engine) placeTaxMarker(gs *types.GameState, country, territory string) {
	t, err := e.ref.Board().Territory(territory)
	if err != nil || t.Sea || t.Home != "" {
		return
	}
	for name, other := range gs.Countries {
		if name != country {
			other.RemoveTaxMarker(territory)
		}
	}
	c := gs.Country(country)
	if !c.HasTaxMarker(territory) {
		c.TaxMarkers = append(c.TaxMarkers, territory)
		e.logEvent(gs, "%s placed a tax marker at %s", country, territory)
	}
}

// parseWarAction decodes "war <country> <unitType>".
func parseWarAction(code string) (country string, unitType types.UnitType, ok bool) {
	parts := strings.Fields(code)
	if len(parts) != 3 || parts[0] != "war" {
		return "", "", false
	}
	ut := types.UnitType(parts[2])
	if ut != types.UnitFleet && ut != types.UnitArmy {
		return "", "", false
	}
	return parts[1], ut, true
}

// parseBlowUpAction decodes "blow up <country>".
func parseBlowUpAction(code string) (country string, ok bool) {
	parts := strings.Fields(code)
	if len(parts) != 3 || parts[0] != "blow" || parts[1] != "up" {
		return "", false
	}
	return parts[2], true
}
