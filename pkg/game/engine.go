package game

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/bmarchant/imperium/pkg/clock"
	"github.com/bmarchant/imperium/pkg/game/types"
	"github.com/bmarchant/imperium/pkg/notify"
	"github.com/bmarchant/imperium/pkg/queue"
	"github.com/bmarchant/imperium/pkg/refdata"
	"github.com/bmarchant/imperium/pkg/store"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const (
	startingPool      = 120.0
	factoryCost       = 5.0
	importUnitCost    = 1.0
	importMaxUnits    = 3
	investorCardBonus = 2.0
	taxPointsCap      = 15
	winningPoints     = 25
	wheelFreeSteps    = 3
	wheelStepCost     = 2.0
)

// startingFactories gives each nation its two opening factories.
var startingFactories = map[string][]string{
	refdata.Austria: {"vienna", "budapest"},
	refdata.Italy:   {"rome", "naples"},
	refdata.France:  {"paris", "bordeaux"},
	refdata.Britain: {"london", "liverpool"},
	refdata.Germany: {"berlin", "hamburg"},
	refdata.Russia:  {"moscow", "odessa"},
}

// Engine owns the turn rules. Every submit operation loads the current
// state, mutates a working copy, and hands it to the commit pipeline.
type Engine struct {
	store         store.Store
	ref           *refdata.RefData
	clock         clock.Clock
	notifications queue.Queue
	rand          *rand.Rand
	onCommit      func(gameID string, version int64)
	log           *logrus.Entry
}

// NewEngineOptions contains options for creating a new Engine.
type NewEngineOptions struct {
	Store         store.Store
	RefData       *refdata.RefData
	Clock         clock.Clock
	Notifications queue.Queue
	// Rand drives the shuffle-then-sort tie breaks; tests inject a
	// seeded source.
	Rand *rand.Rand
	// OnCommit, if set, is called after every successful commit.
	OnCommit func(gameID string, version int64)
	Logger   *logrus.Logger
}

// NewEngine creates a new Engine.
func NewEngine(opts NewEngineOptions) *Engine {
	logger := opts.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Engine{
		store:         opts.Store,
		ref:           opts.RefData,
		clock:         opts.Clock,
		notifications: opts.Notifications,
		rand:          opts.Rand,
		onCommit:      opts.OnCommit,
		log:           logger.WithField("component", "engine"),
	}
}

// PlayerSeed describes one player joining a new game.
type PlayerSeed struct {
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
}

// CreateGame creates and persists a fresh game in bid mode on the
// first country, splitting the starting money pool evenly.
func (e *Engine) CreateGame(ctx context.Context, seeds []PlayerSeed, withTimer bool) (*types.GameState, error) {
	if len(seeds) < 2 {
		return nil, errBadRequest("a game needs at least 2 players, got %d", len(seeds))
	}
	gs := &types.GameState{
		ID:            uuid.NewString(),
		Mode:          types.ModeBid,
		ActiveCountry: refdata.Countries()[0],
		Round:         1,
		Version:       0,
		Players:       make(map[string]*types.PlayerInfo),
		Countries:     make(map[string]*types.CountryInfo),
	}
	share := roundCents(startingPool / float64(len(seeds)))
	for i, seed := range seeds {
		if seed.Name == "" {
			return nil, errBadRequest("player %d has no name", i)
		}
		if _, ok := gs.Players[seed.Name]; ok {
			return nil, errBadRequest("duplicate player name: %s", seed.Name)
		}
		gs.Players[seed.Name] = &types.PlayerInfo{
			Email:     seed.Email,
			Money:     share,
			TurnFlag:  true,
			TurnOrder: i + 1,
		}
	}
	for _, country := range refdata.Countries() {
		gs.Countries[country] = &types.CountryInfo{
			WheelPosition:  refdata.WheelStart,
			Government:     types.GovernmentDictatorship,
			Factories:      append([]string(nil), startingFactories[country]...),
			AvailableStock: e.ref.Denominations(),
		}
	}
	if withTimer {
		gs.Timer = &types.TimerState{Enabled: true, LastTurnStartMillis: e.clock.NowMillis()}
	}
	gs.History = append(gs.History, fmt.Sprintf("game started with %d players; bidding opens on %s", len(seeds), gs.ActiveCountry))
	if err := e.store.Save(ctx, gs.ID, gs); err != nil {
		return nil, fmt.Errorf("failed to save new game: %w", err)
	}
	e.log.WithFields(logrus.Fields{"game": gs.ID, "players": len(seeds)}).Info("game created")
	return gs, nil
}

// load fetches the current state and returns both the pristine copy
// and a working clone.
func (e *Engine) load(ctx context.Context, gameID string) (old, work *types.GameState, err error) {
	old, err = e.store.Load(ctx, gameID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load game %s: %w", gameID, err)
	}
	return old, old.Clone(), nil
}

// requireMode rejects the call unless the game is in one of the given
// modes.
func requireMode(gs *types.GameState, modes ...types.Mode) error {
	for _, m := range modes {
		if gs.Mode == m {
			return nil
		}
	}
	return errWrongMode(gs.Mode, modes)
}

// requireActor rejects the call unless the caller exists and is
// flagged to act in the current mode.
func requireActor(gs *types.GameState, caller string) error {
	p := gs.Player(caller)
	if p == nil {
		return errUnknownPlayer(caller)
	}
	if !p.TurnFlag {
		return errNotYourTurn(caller)
	}
	return nil
}

// pay debits the player, rejecting if the balance would go negative.
func pay(gs *types.GameState, player string, amount float64) error {
	p := gs.Player(player)
	if p == nil {
		return errUnknownPlayer(player)
	}
	if p.Money < amount {
		return errCannotAfford(player, amount)
	}
	p.Money -= amount
	return nil
}

func (e *Engine) logEvent(gs *types.GameState, format string, args ...interface{}) {
	gs.History = append(gs.History, fmt.Sprintf(format, args...))
}

// shuffledNames returns a shuffled copy of names using the engine's
// random source. Shuffle-then-stable-sort implements random
// tie-breaking for bid and wealth orderings.
func (e *Engine) shuffledNames(names []string) []string {
	out := make([]string, len(names))
	copy(out, names)
	e.rand.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out
}

func (e *Engine) notifyTurn(gs *types.GameState, player string) {
	p := gs.Player(player)
	if p == nil || p.Email == "" || e.notifications == nil {
		return
	}
	e.notifications.Enqueue(notify.TurnNotification{Email: p.Email, Name: player, GameID: gs.ID})
}
