package game

import (
	"fmt"

	"github.com/wanlucas/poker-game/internal/deck"
)

// Street represents the betting round
type Street int

const (
	Preflop Street = iota
	Flop
	Turn
	River
)

func (s Street) String() string {
	return [...]string{"preflop", "flop", "turn", "river"}[s]
}

// streetConfig parameterizes the one betting state machine per street:
// how many community cards entry deals and whether blinds are posted.
type streetConfig struct {
	communityCards int
	postBlinds     bool
}

var streetConfigs = [...]streetConfig{
	Preflop: {communityCards: 0, postBlinds: true},
	Flop:    {communityCards: 3, postBlinds: false},
	Turn:    {communityCards: 1, postBlinds: false},
	River:   {communityCards: 1, postBlinds: false},
}

// Stage is the betting state machine for a single street. It holds a
// non-owning view of the round's ordered player list; turn order is fixed
// seating order with wraparound, skipping folded seats. The street ends
// when the seat at the closing pointer finishes acting, at which point the
// stage-end callback fires exactly once and the stage goes inert.
//
// There are no side pots: a call or raise short of the target caps at the
// player's bankroll and the shortfall is absorbed by the single pot.
type Stage struct {
	street     Street
	players    []*Player
	deck       *deck.Deck
	smallBlind int

	current    int
	lastToAct  int
	biggestBet int
	closed     bool

	onDeal func()
	onEnd  func()
}

func newStage(street Street, players []*Player, d *deck.Deck, smallBlind int, onDeal, onEnd func()) *Stage {
	return &Stage{
		street:     street,
		players:    players,
		deck:       d,
		smallBlind: smallBlind,
		lastToAct:  len(players) - 1,
		onDeal:     onDeal,
		onEnd:      onEnd,
	}
}

// Street returns which street this stage bets.
func (s *Stage) Street() Street {
	return s.street
}

// CurrentPlayer returns the player whose turn it is to act.
func (s *Stage) CurrentPlayer() *Player {
	return s.players[s.current]
}

// BiggestBet returns the highest current-street bet among the players,
// the amount others must match to call.
func (s *Stage) BiggestBet() int {
	return s.biggestBet
}

// Closed reports whether the street has ended.
func (s *Stage) Closed() bool {
	return s.closed
}

// Start performs the street's entry work: preflop deals two hole cards to
// every seat in a fixed two-pass round-robin and posts the blinds through
// the raise machinery; the later streets deal their community cards. The
// first action seat and the closing pointer skip seats folded on an
// earlier street.
func (s *Stage) Start() error {
	if s.players[s.current].Folded {
		s.current = s.nextActive(s.current)
	}
	s.lastToAct = s.prevActive(s.current)

	cfg := streetConfigs[s.street]
	for i := 0; i < cfg.communityCards; i++ {
		s.onDeal()
	}

	if !cfg.postBlinds {
		return nil
	}

	for pass := 0; pass < 2; pass++ {
		for _, p := range s.players {
			card, ok := s.deck.Draw()
			if !ok {
				return fmt.Errorf("deck exhausted dealing hole cards")
			}
			p.AddCard(card)
		}
	}

	// Forced bets ride the regular raise path, which tolerates a zero
	// biggest bet for the very first one.
	if err := s.Raise(s.smallBlind); err != nil {
		return fmt.Errorf("posting small blind: %w", err)
	}
	if err := s.Raise(s.smallBlind * 2); err != nil {
		return fmt.Errorf("posting big blind: %w", err)
	}
	return nil
}

// Check passes the action. Legal only while the player's street bet
// matches the biggest bet.
func (s *Stage) Check() error {
	if s.closed {
		return ErrStageClosed
	}
	p := s.CurrentPlayer()
	if p.CurrentBet != s.biggestBet {
		return fmt.Errorf("%w: bet %d does not match biggest bet %d", ErrInvalidCheck, p.CurrentBet, s.biggestBet)
	}
	s.finishAction()
	return nil
}

// Fold surrenders the hand; the seat is skipped by rotation and excluded
// from the showdown. Folding is only legal while the player has an
// unmatched bet in front: a player whose bet already equals the biggest
// bet cannot fold and must check instead. Unusual, but it is the table
// rule here.
func (s *Stage) Fold() error {
	if s.closed {
		return ErrStageClosed
	}
	p := s.CurrentPlayer()
	if p.CurrentBet == s.biggestBet {
		return fmt.Errorf("%w: bet %d already matches biggest bet", ErrInvalidFold, p.CurrentBet)
	}
	p.Folded = true
	s.finishAction()
	return nil
}

// Call matches the biggest bet, wagering the difference. A bankroll too
// short for the full difference goes all-in for what it has.
func (s *Stage) Call() error {
	if s.closed {
		return ErrStageClosed
	}
	p := s.CurrentPlayer()
	p.Wager(s.biggestBet - p.CurrentBet)
	s.finishAction()
	return nil
}

// Raise sets the player's new total street bet. The minimum raise is
// double the biggest bet; any positive value opens when nothing has been
// bet yet. Raising relocates the closing pointer to the active seat just
// before the raiser, giving every other player exactly one more action.
func (s *Stage) Raise(value int) error {
	if s.closed {
		return ErrStageClosed
	}
	p := s.CurrentPlayer()

	if value <= 0 || (s.biggestBet > 0 && value < s.biggestBet*2) {
		return fmt.Errorf("%w: %d is below the minimum raise %d", ErrInvalidRaise, value, s.biggestBet*2)
	}
	delta := value - p.CurrentBet
	if delta > p.Bankroll {
		return fmt.Errorf("%w: raise to %d needs %d, bankroll is %d", ErrInsufficientFunds, value, delta, p.Bankroll)
	}

	s.biggestBet = value
	s.lastToAct = s.prevActive(s.current)
	p.Wager(delta)
	s.finishAction()
	return nil
}

// finishAction applies the closing rule after an action completes: the
// stage closes when the player at the closing pointer has just acted,
// otherwise the turn advances to the next unfolded seat.
func (s *Stage) finishAction() {
	if s.current == s.lastToAct {
		s.closed = true
		s.onEnd()
		return
	}
	s.current = s.nextActive(s.current)
}

func (s *Stage) nextActive(from int) int {
	i := from
	for step := 0; step < len(s.players); step++ {
		i = (i + 1) % len(s.players)
		if !s.players[i].Folded {
			return i
		}
	}
	return from
}

func (s *Stage) prevActive(from int) int {
	i := from
	for step := 0; step < len(s.players); step++ {
		i = (i - 1 + len(s.players)) % len(s.players)
		if !s.players[i].Folded {
			return i
		}
	}
	return from
}
