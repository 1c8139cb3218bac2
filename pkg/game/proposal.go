package game

import (
	"context"
	"fmt"

	"github.com/bmarchant/imperium/pkg/game/types"
	"github.com/bmarchant/imperium/pkg/refdata"
)

// SubmitProposal is the leader's (mode proposal) or the opposition's
// counter (mode proposal_opp) choice of wheel action for the active
// country. Under a dictatorship the proposal executes immediately; in
// a democracy it is staged and the turn passes on — to the opposition,
// or from the opposition into the vote.
func (e *Engine) SubmitProposal(ctx context.Context, gameID, caller string, action *types.StagedAction) (*types.GameState, error) {
	old, gs, err := e.load(ctx, gameID)
	if err != nil {
		return nil, err
	}
	if err := requireMode(gs, types.ModeProposal, types.ModeProposalOpp); err != nil {
		return nil, err
	}
	if err := requireActor(gs, caller); err != nil {
		return nil, err
	}
	country := gs.Country(gs.ActiveCountry)
	if gs.Mode == types.ModeProposal && caller != country.Leader() {
		return nil, errNotYourTurn(caller)
	}
	if gs.Mode == types.ModeProposalOpp && caller != country.Opposition() {
		return nil, errNotYourTurn(caller)
	}
	if err := e.validateProposal(gs, gs.ActiveCountry, caller, action); err != nil {
		return nil, err
	}

	if gs.Mode == types.ModeProposal && country.Government == types.GovernmentDictatorship {
		// Sole ruler: no opposition, no vote.
		if err := e.executeOrStartManeuver(gs, gs.ActiveCountry, caller, action, types.CompletionExecute); err != nil {
			return nil, err
		}
	} else if gs.Mode == types.ModeProposal {
		if err := e.stageOrStartManeuver(gs, caller, action, 0); err != nil {
			return nil, err
		}
	} else {
		if err := e.stageOrStartManeuver(gs, caller, action, 1); err != nil {
			return nil, err
		}
	}

	if err := e.commit(ctx, old, gs, caller); err != nil {
		return nil, err
	}
	return gs, nil
}

// stageOrStartManeuver stores a proposal for the vote cycle. A
// maneuver proposal instead diverts into interactive stepping; its
// fully resolved plan is staged at completion.
func (e *Engine) stageOrStartManeuver(gs *types.GameState, caller string, action *types.StagedAction, slot int) error {
	if refdata.IsManeuverSlot(action.Wheel) && action.Maneuver == nil {
		completion := types.CompletionStageAsLeader
		if slot == 1 {
			completion = types.CompletionStageAsOpposition
		}
		return e.startManeuver(gs, gs.ActiveCountry, caller, action.Wheel, completion, false)
	}
	gs.PendingProposals[slot] = action
	gs.ClearTurnFlags()
	if slot == 0 {
		opposition := gs.Country(gs.ActiveCountry).Opposition()
		gs.Mode = types.ModeProposalOpp
		gs.Player(opposition).TurnFlag = true
		e.logEvent(gs, "%s proposed %s for %s; %s may counter", caller, action.Wheel, gs.ActiveCountry, opposition)
		return nil
	}
	return e.openVote(gs, caller, action)
}

// openVote moves a countered proposal pair into the vote, flagging the
// whole leadership.
func (e *Engine) openVote(gs *types.GameState, caller string, counter *types.StagedAction) error {
	country := gs.ActiveCountry
	gs.Mode = types.ModeVote
	gs.Voting = &types.VotingState{Country: country}
	gs.Voting.Proposals[0].Description = describeAction(gs.PendingProposals[0])
	gs.Voting.Proposals[1].Description = describeAction(gs.PendingProposals[1])
	for _, member := range gs.Country(country).Leadership {
		gs.Player(member).TurnFlag = true
	}
	e.logEvent(gs, "%s countered with %s; %s leadership votes", caller, gs.Voting.Proposals[1].Description, country)
	return nil
}

// AcceptLeaderProposal lets the opposition skip counter-proposing and
// execute the leader's staged proposal outright.
func (e *Engine) AcceptLeaderProposal(ctx context.Context, gameID, caller string) (*types.GameState, error) {
	old, gs, err := e.load(ctx, gameID)
	if err != nil {
		return nil, err
	}
	if err := requireMode(gs, types.ModeProposalOpp); err != nil {
		return nil, err
	}
	if err := requireActor(gs, caller); err != nil {
		return nil, err
	}
	country := gs.Country(gs.ActiveCountry)
	if caller != country.Opposition() {
		return nil, errNotYourTurn(caller)
	}
	proposal := gs.PendingProposals[0]
	if proposal == nil {
		return nil, errBadRequest("no staged proposal to accept")
	}
	e.logEvent(gs, "%s accepted the leader's proposal", caller)
	if err := e.executeStagedAction(gs, gs.ActiveCountry, country.Leader(), proposal); err != nil {
		return nil, err
	}
	if err := e.commit(ctx, old, gs, caller); err != nil {
		return nil, err
	}
	return gs, nil
}

// SubmitVote records a leadership member's weighted vote for proposal
// 0 (leader) or 1 (opposition). A side wins the instant its tally
// exceeds half the leadership's stock; the winner executes
// immediately. Votes arriving after the threshold has been cleared are
// recorded but change nothing.
func (e *Engine) SubmitVote(ctx context.Context, gameID, caller string, choice int) (*types.GameState, error) {
	old, gs, err := e.load(ctx, gameID)
	if err != nil {
		return nil, err
	}
	if err := requireMode(gs, types.ModeVote); err != nil {
		return nil, err
	}
	if err := requireActor(gs, caller); err != nil {
		return nil, err
	}
	if choice != 0 && choice != 1 {
		return nil, errBadRequest("vote choice must be 0 or 1, got %d", choice)
	}
	v := gs.Voting
	if v == nil {
		return nil, errBadRequest("no vote in progress")
	}
	if v.HasVoted(caller) {
		return nil, errBadRequest("%s has already voted", caller)
	}

	weight := voteWeight(gs, v.Country, caller)
	v.Proposals[choice].WeightedVotes += weight
	v.Proposals[choice].Voters = append(v.Proposals[choice].Voters, caller)
	gs.Player(caller).TurnFlag = false
	e.logEvent(gs, "%s voted for %s (weight %.1f)", caller, v.Proposals[choice].Description, weight)

	threshold := voteThreshold(leadershipTotalStock(gs, v.Country))
	if v.Proposals[choice].WeightedVotes > threshold {
		winner := gs.PendingProposals[choice]
		actor := gs.Country(v.Country).Leader()
		if choice == 1 {
			actor = gs.Country(v.Country).Opposition()
		}
		e.logEvent(gs, "%s carried the vote", v.Proposals[choice].Description)
		gs.Voting = nil
		if err := e.executeStagedAction(gs, gs.ActiveCountry, actor, winner); err != nil {
			return nil, err
		}
	}

	if err := e.commit(ctx, old, gs, caller); err != nil {
		return nil, err
	}
	return gs, nil
}

// validateProposal front-checks a proposal so illegal submissions are
// rejected before anything is staged.
func (e *Engine) validateProposal(gs *types.GameState, country, caller string, action *types.StagedAction) error {
	if action == nil {
		return errBadRequest("missing proposal payload")
	}
	if _, err := e.ref.WheelIndex(action.Wheel); err != nil {
		return errBadRequest("%v", err)
	}
	c := gs.Country(country)
	d, err := e.wheelDistance(c.WheelPosition, action.Wheel)
	if err != nil {
		return errBadRequest("%v", err)
	}
	if cost := wheelCost(d); gs.Player(caller).Money < cost {
		return errCannotAfford(caller, cost)
	}
	switch {
	case action.Wheel == refdata.SlotFactory:
		t, err := e.ref.Board().Territory(action.FactoryTerritory)
		if err != nil {
			return errBadRequest("%v", err)
		}
		if t.Home != country {
			return errBadRequest("%s is not a %s home province", action.FactoryTerritory, country)
		}
		if c.HasFactory(action.FactoryTerritory) {
			return errBadRequest("%s already has a factory at %s", country, action.FactoryTerritory)
		}
		if c.Treasury < factoryCost {
			return &RuleError{Code: "treasury_short", Reason: fmt.Sprintf("%s treasury cannot pay %.0fM for a factory", country, factoryCost)}
		}
	case action.Wheel == refdata.SlotImport:
		if len(action.Imports) == 0 || len(action.Imports) > importMaxUnits {
			return errBadRequest("import must bring 1..%d units", importMaxUnits)
		}
		if c.Treasury < float64(len(action.Imports))*importUnitCost {
			return &RuleError{Code: "treasury_short", Reason: fmt.Sprintf("%s treasury cannot pay for %d imports", country, len(action.Imports))}
		}
		for _, imp := range action.Imports {
			t, err := e.ref.Board().Territory(imp.Territory)
			if err != nil {
				return errBadRequest("%v", err)
			}
			if t.Home != country {
				return errBadRequest("imports must land in %s home provinces", country)
			}
			if imp.Type == types.UnitFleet && !t.Port {
				return errBadRequest("a fleet cannot be imported to %s: no port", imp.Territory)
			}
		}
	}
	return nil
}

// executeOrStartManeuver executes a proposal right away. A maneuver
// without a prebuilt plan diverts into interactive stepping instead.
func (e *Engine) executeOrStartManeuver(gs *types.GameState, country, actor string, action *types.StagedAction, completion types.ManeuverCompletion) error {
	if refdata.IsManeuverSlot(action.Wheel) && action.Maneuver == nil {
		investorPassed, err := e.moveWheel(gs, country, actor, action.Wheel)
		if err != nil {
			return err
		}
		return e.startManeuver(gs, country, actor, action.Wheel, completion, investorPassed)
	}
	return e.executeStagedAction(gs, country, actor, action)
}

// moveWheel advances the country's marker, charges the acting player,
// and reports whether the move crossed or landed on the investor slot.
func (e *Engine) moveWheel(gs *types.GameState, country, actor, slot string) (bool, error) {
	c := gs.Country(country)
	d, err := e.wheelDistance(c.WheelPosition, slot)
	if err != nil {
		return false, err
	}
	if cost := wheelCost(d); cost > 0 {
		if err := pay(gs, actor, cost); err != nil {
			return false, err
		}
		e.logEvent(gs, "%s paid %.0fM to move the %s wheel %d steps", actor, cost, country, d)
	}
	investorPassed, err := e.crossesInvestor(c.WheelPosition, slot)
	if err != nil {
		return false, err
	}
	c.WheelPosition = slot
	return investorPassed, nil
}

// executeStagedAction runs a (possibly staged) proposal to completion:
// wheel move, the action itself, then the normal advance.
func (e *Engine) executeStagedAction(gs *types.GameState, country, actor string, action *types.StagedAction) error {
	investorPassed, err := e.moveWheel(gs, country, actor, action.Wheel)
	if err != nil {
		return err
	}
	gs.PendingProposals[0] = nil
	gs.PendingProposals[1] = nil

	switch {
	case action.Wheel == refdata.SlotFactory:
		if err := e.runFactory(gs, country, action.FactoryTerritory); err != nil {
			return err
		}
	case refdata.IsProductionSlot(action.Wheel):
		e.runProduction(gs, country)
	case action.Wheel == refdata.SlotImport:
		if err := e.runImport(gs, country, action.Imports); err != nil {
			return err
		}
	case refdata.IsManeuverSlot(action.Wheel):
		if action.Maneuver == nil {
			return errBadRequest("maneuver proposal has no resolved plan")
		}
		e.executeManeuverMoves(gs, country, action.Maneuver)
	case action.Wheel == refdata.SlotTaxation:
		e.runTaxation(gs, country, actor)
	case action.Wheel == refdata.SlotInvestor:
		e.runInvestorPayout(gs, country, actor)
	default:
		return errBadRequest("unknown wheel action: %s", action.Wheel)
	}

	return e.advanceAfterAction(gs, investorPassed)
}

// runFactory builds a factory at the given home province, paid by the
// treasury.
func (e *Engine) runFactory(gs *types.GameState, country, territory string) error {
	c := gs.Country(country)
	if c.Treasury < factoryCost {
		return &RuleError{Code: "treasury_short", Reason: fmt.Sprintf("%s treasury cannot pay %.0fM for a factory", country, factoryCost)}
	}
	c.Treasury -= factoryCost
	c.Factories = append(c.Factories, territory)
	e.logEvent(gs, "%s built a factory at %s", country, territory)
	return nil
}

// runProduction produces one unit at every unsaturated factory: a
// fleet at ports, an army inland.
func (e *Engine) runProduction(gs *types.GameState, country string) {
	c := gs.Country(country)
	produced := 0
	for _, territory := range c.Factories {
		if e.factorySaturated(gs, country, territory) {
			continue
		}
		t, err := e.ref.Board().Territory(territory)
		if err != nil {
			continue
		}
		if t.Port {
			c.Fleets = append(c.Fleets, types.Unit{Territory: territory})
		} else {
			c.Armies = append(c.Armies, types.Unit{Territory: territory})
		}
		produced++
	}
	e.logEvent(gs, "%s produced %d unit(s)", country, produced)
}

// runImport places the bought units in home provinces, paid by the
// treasury.
func (e *Engine) runImport(gs *types.GameState, country string, imports []types.ImportUnit) error {
	c := gs.Country(country)
	cost := float64(len(imports)) * importUnitCost
	if c.Treasury < cost {
		return &RuleError{Code: "treasury_short", Reason: fmt.Sprintf("%s treasury cannot pay %.0fM for imports", country, cost)}
	}
	c.Treasury -= cost
	for _, imp := range imports {
		if imp.Type == types.UnitFleet {
			c.Fleets = append(c.Fleets, types.Unit{Territory: imp.Territory})
		} else {
			c.Armies = append(c.Armies, types.Unit{Territory: imp.Territory})
		}
	}
	e.logEvent(gs, "%s imported %d unit(s)", country, len(imports))
	return nil
}

func describeAction(a *types.StagedAction) string {
	if a == nil {
		return "nothing"
	}
	switch {
	case a.Wheel == refdata.SlotFactory:
		return fmt.Sprintf("factory at %s", a.FactoryTerritory)
	case a.Wheel == refdata.SlotImport:
		return fmt.Sprintf("import of %d unit(s)", len(a.Imports))
	case refdata.IsManeuverSlot(a.Wheel) && a.Maneuver != nil:
		return fmt.Sprintf("maneuver of %d move(s)", len(a.Maneuver.FleetMoves)+len(a.Maneuver.ArmyMoves))
	default:
		return a.Wheel
	}
}
