package game

import (
	"github.com/wanlucas/poker-game/internal/deck"
)

// Player is the chip ledger for one seat: bankroll, the bet committed on
// the current street, and the hole cards. CurrentBet is a liability already
// subtracted from the bankroll, so bankroll+CurrentBet only ever grows
// through Credit.
type Player struct {
	ID         string
	Name       string
	Bankroll   int
	CurrentBet int
	Folded     bool

	hole []deck.Card
}

// NewPlayer creates a player with the given starting bankroll.
func NewPlayer(id, name string, bankroll int) *Player {
	return &Player{
		ID:       id,
		Name:     name,
		Bankroll: bankroll,
		hole:     make([]deck.Card, 0, 2),
	}
}

// AddCard deals a hole card to the player.
func (p *Player) AddCard(card deck.Card) {
	p.hole = append(p.hole, card)
}

// Hole returns a copy of the player's hole cards.
func (p *Player) Hole() []deck.Card {
	out := make([]deck.Card, len(p.hole))
	copy(out, p.hole)
	return out
}

// HandSize returns the number of hole cards held.
func (p *Player) HandSize() int {
	return len(p.hole)
}

// ClearHand discards the hole cards and resets the folded flag for the
// next round.
func (p *Player) ClearHand() {
	p.hole = p.hole[:0]
	p.Folded = false
}

// Wager moves up to amount from the bankroll into the current street bet
// and returns how much was actually moved. A short bankroll caps the wager
// instead of failing: an all-in call is quietly smaller than the target.
func (p *Player) Wager(amount int) int {
	wagered := min(amount, p.Bankroll)
	p.Bankroll -= wagered
	p.CurrentBet += wagered
	return wagered
}

// Settle pays out the current street bet and resets it, returning the
// amount paid. Called by the round when a street completes.
func (p *Player) Settle() int {
	paid := p.CurrentBet
	p.CurrentBet = 0
	return paid
}

// Credit adds winnings to the bankroll.
func (p *Player) Credit(amount int) {
	p.Bankroll += amount
}
