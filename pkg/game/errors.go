package game

import "fmt"

// RuleError is a rejected submit call: the request was understood but
// is illegal in the current game state. Handlers map these to 4xx
// responses; anything else is a server fault.
type RuleError struct {
	Code   string
	Reason string
}

func (e *RuleError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Reason)
}

// IsRuleError reports whether err is a rules rejection.
func IsRuleError(err error) bool {
	_, ok := err.(*RuleError)
	return ok
}

func errNotYourTurn(caller string) error {
	return &RuleError{Code: "not_your_turn", Reason: fmt.Sprintf("%s is not an active player right now", caller)}
}

func errWrongMode(got, want interface{}) error {
	return &RuleError{Code: "wrong_mode", Reason: fmt.Sprintf("operation requires mode %v, game is in %v", want, got)}
}

func errCannotAfford(caller string, cost float64) error {
	return &RuleError{Code: "cannot_afford", Reason: fmt.Sprintf("%s cannot pay %.2f", caller, cost)}
}

func errUnknownPlayer(name string) error {
	return &RuleError{Code: "unknown_player", Reason: fmt.Sprintf("no player named %s", name)}
}

func errBadRequest(format string, args ...interface{}) error {
	return &RuleError{Code: "bad_request", Reason: fmt.Sprintf(format, args...)}
}
