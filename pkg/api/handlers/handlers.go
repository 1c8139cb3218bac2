package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/bmarchant/imperium/pkg/api/middleware"
	"github.com/bmarchant/imperium/pkg/game"
	"github.com/bmarchant/imperium/pkg/game/types"
	"github.com/bmarchant/imperium/pkg/store"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

// ack is the minimal response of every submit operation: callers
// observe the actual state change through the state endpoints.
type ack struct {
	Version int64 `json:"version"`
}

func writeAck(w http.ResponseWriter, gs *types.GameState) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(ack{Version: gs.Version}); err != nil {
		logrus.Errorf("failed to encode ack: %v", err)
	}
}

// writeEngineError maps engine failures onto HTTP statuses: rules
// rejections are the caller's fault, missing games are 404, anything
// else is a server fault.
func writeEngineError(w http.ResponseWriter, err error) {
	var ruleErr *game.RuleError
	switch {
	case store.IsNotFound(err):
		http.Error(w, "game not found", http.StatusNotFound)
	case asRuleError(err, &ruleErr):
		status := http.StatusBadRequest
		switch ruleErr.Code {
		case "not_your_turn", "not_last_mover":
			status = http.StatusForbidden
		case "wrong_mode":
			status = http.StatusConflict
		}
		http.Error(w, ruleErr.Error(), status)
	default:
		logrus.Errorf("submit operation failed: %v", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func asRuleError(err error, target **game.RuleError) bool {
	re, ok := err.(*game.RuleError)
	if ok {
		*target = re
	}
	return ok
}

func decodeBody(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return false
	}
	return true
}

func requestIdentity(w http.ResponseWriter, r *http.Request) (gameID, caller string, ok bool) {
	caller, ok = middleware.Caller(r)
	if !ok {
		http.Error(w, "missing caller identity", http.StatusUnauthorized)
		return "", "", false
	}
	return mux.Vars(r)["gameID"], caller, true
}

// HandleCreateGame creates a fresh game from a player list.
func HandleCreateGame(engine *game.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Players   []game.PlayerSeed `json:"players"`
			WithTimer bool              `json:"withTimer"`
		}
		if !decodeBody(w, r, &body) {
			return
		}
		gs, err := engine.CreateGame(r.Context(), body.Players, body.WithTimer)
		if err != nil {
			writeEngineError(w, err)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(map[string]interface{}{"id": gs.ID, "version": gs.Version}); err != nil {
			logrus.Errorf("failed to encode create response: %v", err)
		}
	}
}

// HandleGetGame returns the full current state document.
func HandleGetGame(st store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		gs, err := st.Load(r.Context(), mux.Vars(r)["gameID"])
		if err != nil {
			writeEngineError(w, err)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(gs); err != nil {
			logrus.Errorf("failed to encode game state: %v", err)
		}
	}
}

// HandleGetVersion returns just the version counter, for cheap
// staleness polling.
func HandleGetVersion(st store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		gs, err := st.Load(r.Context(), mux.Vars(r)["gameID"])
		if err != nil {
			writeEngineError(w, err)
			return
		}
		writeAck(w, gs)
	}
}

// HandleListGames lists all game ids.
func HandleListGames(st store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ids, err := st.ListGames(r.Context())
		if err != nil {
			writeEngineError(w, err)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(ids); err != nil {
			logrus.Errorf("failed to encode game list: %v", err)
		}
	}
}

// HandleSubmitBid records the caller's hidden bid.
func HandleSubmitBid(engine *game.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		gameID, caller, ok := requestIdentity(w, r)
		if !ok {
			return
		}
		var body struct {
			Amount float64 `json:"amount"`
		}
		if !decodeBody(w, r, &body) {
			return
		}
		gs, err := engine.SubmitBid(r.Context(), gameID, caller, body.Amount)
		if err != nil {
			writeEngineError(w, err)
			return
		}
		writeAck(w, gs)
	}
}

// HandleSubmitBuyBidDecision is the head-of-queue buy-or-decline.
func HandleSubmitBuyBidDecision(engine *game.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		gameID, caller, ok := requestIdentity(w, r)
		if !ok {
			return
		}
		var body struct {
			Buy bool `json:"buy"`
		}
		if !decodeBody(w, r, &body) {
			return
		}
		gs, err := engine.SubmitBuyBidDecision(r.Context(), gameID, caller, body.Buy)
		if err != nil {
			writeEngineError(w, err)
			return
		}
		writeAck(w, gs)
	}
}

// HandleSubmitBuy is one purchase (or pass) in the buy window.
func HandleSubmitBuy(engine *game.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		gameID, caller, ok := requestIdentity(w, r)
		if !ok {
			return
		}
		var body struct {
			Country            string `json:"country"`
			Denomination       int    `json:"denomination"`
			ReturnDenomination int    `json:"returnDenomination"`
		}
		if !decodeBody(w, r, &body) {
			return
		}
		gs, err := engine.SubmitBuy(r.Context(), gameID, caller, body.Country, body.Denomination, body.ReturnDenomination)
		if err != nil {
			writeEngineError(w, err)
			return
		}
		writeAck(w, gs)
	}
}

// HandleSubmitProposal is the leader's or opposition's wheel-action
// proposal.
func HandleSubmitProposal(engine *game.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		gameID, caller, ok := requestIdentity(w, r)
		if !ok {
			return
		}
		action := &types.StagedAction{}
		if !decodeBody(w, r, action) {
			return
		}
		gs, err := engine.SubmitProposal(r.Context(), gameID, caller, action)
		if err != nil {
			writeEngineError(w, err)
			return
		}
		writeAck(w, gs)
	}
}

// HandleAcceptProposal lets the opposition execute the leader's
// proposal without a counter.
func HandleAcceptProposal(engine *game.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		gameID, caller, ok := requestIdentity(w, r)
		if !ok {
			return
		}
		gs, err := engine.AcceptLeaderProposal(r.Context(), gameID, caller)
		if err != nil {
			writeEngineError(w, err)
			return
		}
		writeAck(w, gs)
	}
}

// HandleSubmitVote records a leadership vote for proposal 0 or 1.
func HandleSubmitVote(engine *game.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		gameID, caller, ok := requestIdentity(w, r)
		if !ok {
			return
		}
		var body struct {
			Choice int `json:"choice"`
		}
		if !decodeBody(w, r, &body) {
			return
		}
		gs, err := engine.SubmitVote(r.Context(), gameID, caller, body.Choice)
		if err != nil {
			writeEngineError(w, err)
			return
		}
		writeAck(w, gs)
	}
}

// HandleSubmitManeuverStep resolves one unit of the active maneuver.
func HandleSubmitManeuverStep(engine *game.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		gameID, caller, ok := requestIdentity(w, r)
		if !ok {
			return
		}
		var body struct {
			Origin      string `json:"origin"`
			Destination string `json:"destination"`
			Action      string `json:"action"`
		}
		if !decodeBody(w, r, &body) {
			return
		}
		gs, err := engine.SubmitManeuverStep(r.Context(), gameID, caller, body.Origin, body.Destination, body.Action)
		if err != nil {
			writeEngineError(w, err)
			return
		}
		writeAck(w, gs)
	}
}

// HandleDictatorPeaceDecision is the target dictator's answer to a
// peace offer.
func HandleDictatorPeaceDecision(engine *game.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		gameID, caller, ok := requestIdentity(w, r)
		if !ok {
			return
		}
		var body struct {
			Accept bool `json:"accept"`
		}
		if !decodeBody(w, r, &body) {
			return
		}
		gs, err := engine.SubmitDictatorPeaceDecision(r.Context(), gameID, caller, body.Accept)
		if err != nil {
			writeEngineError(w, err)
			return
		}
		writeAck(w, gs)
	}
}

// HandleDemocracyPeaceVote is one stockholder's weighted peace vote.
func HandleDemocracyPeaceVote(engine *game.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		gameID, caller, ok := requestIdentity(w, r)
		if !ok {
			return
		}
		var body struct {
			Accept bool `json:"accept"`
		}
		if !decodeBody(w, r, &body) {
			return
		}
		gs, err := engine.SubmitDemocracyPeaceVote(r.Context(), gameID, caller, body.Accept)
		if err != nil {
			writeEngineError(w, err)
			return
		}
		writeAck(w, gs)
	}
}

// HandleUndo restores the previous snapshot for the last mover.
func HandleUndo(engine *game.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		gameID, caller, ok := requestIdentity(w, r)
		if !ok {
			return
		}
		gs, err := engine.UndoLastTurn(r.Context(), gameID, caller)
		if err != nil {
			writeEngineError(w, err)
			return
		}
		writeAck(w, gs)
	}
}
