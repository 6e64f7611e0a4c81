package game

import (
	"fmt"
	"math/rand"

	"github.com/wanlucas/poker-game/internal/deck"
)

// ActionKind names the betting actions a player may submit.
type ActionKind string

const (
	ActionCheck ActionKind = "check"
	ActionCall  ActionKind = "call"
	ActionRaise ActionKind = "raise"
	ActionFold  ActionKind = "fold"
)

// Default table parameters when the caller does not configure them.
const (
	DefaultSmallBlind      = 5
	DefaultInitialBankroll = 200
)

// GameOption configures a game.
type GameOption func(*Game)

// WithSmallBlind sets the small blind unit.
func WithSmallBlind(smallBlind int) GameOption {
	return func(g *Game) { g.smallBlind = smallBlind }
}

// WithInitialBankroll sets the bankroll new players buy in for.
func WithInitialBankroll(bankroll int) GameOption {
	return func(g *Game) { g.initialBankroll = bankroll }
}

// WithGameRNG sets the RNG that shuffles every round's deck.
func WithGameRNG(rng *rand.Rand) GameOption {
	return func(g *Game) { g.rng = rng }
}

// OnRoundEnd registers an observer for showdown results, invoked before
// the next round starts.
func OnRoundEnd(fn func(ShowdownResult)) GameOption {
	return func(g *Game) { g.onRoundEnd = fn }
}

// Game is the session layer around rounds: it keeps the roster, validates
// that the submitting player is the one to act, translates action requests
// into stage calls, and rotates the dealer seat between rounds.
//
// All methods assume one caller at a time; the transport layer above must
// serialize actions.
type Game struct {
	players         []*Player
	round           *Round
	smallBlind      int
	initialBankroll int
	rng             *rand.Rand
	onRoundEnd      func(ShowdownResult)
}

// New creates a game with no players seated.
func New(opts ...GameOption) *Game {
	g := &Game{
		smallBlind:      DefaultSmallBlind,
		initialBankroll: DefaultInitialBankroll,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// AddPlayer seats a player with the configured buy-in. Seating during a
// running round takes effect when the next round starts.
func (g *Game) AddPlayer(id, name string) *Player {
	p := NewPlayer(id, name, g.initialBankroll)
	g.players = append(g.players, p)
	return p
}

// RemovePlayer unseats a player. Effective from the next round; a running
// round still rotates through the seat.
func (g *Game) RemovePlayer(id string) {
	// Build a fresh slice so a running round's view of the old seating
	// order is left untouched.
	out := make([]*Player, 0, len(g.players))
	for _, p := range g.players {
		if p.ID != id {
			out = append(out, p)
		}
	}
	g.players = out
}

// Start begins the first round. Fails when fewer than two players are
// seated.
func (g *Game) Start() error {
	if len(g.players) < 2 {
		return fmt.Errorf("%w: have %d, need at least 2", ErrNotEnoughPlayers, len(g.players))
	}
	return g.startRound()
}

func (g *Game) startRound() error {
	var opts []RoundOption
	if g.rng != nil {
		opts = append(opts, WithRNG(g.rng))
	}

	round, err := NewRound(g.players, g.smallBlind, g.roundEnded, opts...)
	if err != nil {
		return err
	}
	g.round = round
	return nil
}

// roundEnded notifies the observer, rotates the dealer seat and starts the
// next round. If the next round cannot start (a blind can no longer be
// posted) the game stops and Started reports false again.
func (g *Game) roundEnded(result ShowdownResult) {
	if g.onRoundEnd != nil {
		g.onRoundEnd(result)
	}

	g.nextDealer()
	if err := g.startRound(); err != nil {
		g.round = nil
	}
}

// nextDealer rotates the seating order by one.
func (g *Game) nextDealer() {
	if len(g.players) < 2 {
		return
	}
	g.players = append(g.players[1:], g.players[0])
}

// Action validates and applies one betting action on behalf of playerID.
// Success is the absence of an error.
func (g *Game) Action(playerID string, kind ActionKind, value int) error {
	stage := g.CurrentStage()
	if stage == nil {
		return ErrGameNotStarted
	}

	current := stage.CurrentPlayer()
	if current.ID != playerID {
		return fmt.Errorf("%w: %s is up, not %s", ErrNotYourTurn, current.ID, playerID)
	}

	switch kind {
	case ActionCheck:
		return stage.Check()
	case ActionCall:
		return stage.Call()
	case ActionFold:
		return stage.Fold()
	case ActionRaise:
		if value <= 0 {
			return fmt.Errorf("%w: raise needs a positive value", ErrInvalidAction)
		}
		return stage.Raise(value)
	default:
		return fmt.Errorf("%w: unknown action %q", ErrInvalidAction, kind)
	}
}

// Started reports whether a round is in play.
func (g *Game) Started() bool {
	return g.round != nil
}

// CurrentStage returns the stage accepting actions, or nil.
func (g *Game) CurrentStage() *Stage {
	if g.round == nil {
		return nil
	}
	return g.round.CurrentStage()
}

// CurrentPlayer returns the player whose turn it is, or nil when no round
// is running.
func (g *Game) CurrentPlayer() *Player {
	stage := g.CurrentStage()
	if stage == nil {
		return nil
	}
	return stage.CurrentPlayer()
}

// Pot returns the current round's pot.
func (g *Game) Pot() int {
	if g.round == nil {
		return 0
	}
	return g.round.Pot()
}

// Community returns a copy of the current round's community cards.
func (g *Game) Community() []deck.Card {
	if g.round == nil {
		return nil
	}
	return g.round.Community()
}

// Players returns the seated players in current rotation order.
func (g *Game) Players() []*Player {
	out := make([]*Player, len(g.players))
	copy(out, g.players)
	return out
}

// Player finds a seated player by ID.
func (g *Game) Player(id string) *Player {
	for _, p := range g.players {
		if p.ID == id {
			return p
		}
	}
	return nil
}
