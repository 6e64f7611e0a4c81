package game

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/wanlucas/poker-game/internal/deck"
	"github.com/wanlucas/poker-game/internal/hand"
)

// ShowdownResult summarizes how a round ended: every surviving player's
// evaluated hand, who took the pot, and how much it held.
type ShowdownResult struct {
	Pot     int
	Winners []*Player
	Hands   map[string]hand.Result // by player ID, folded players absent
}

// RoundOption configures a round.
type RoundOption func(*Round)

// WithDeck supplies a pre-built deck, for deterministic card sequences in
// tests.
func WithDeck(d *deck.Deck) RoundOption {
	return func(r *Round) { r.deck = d }
}

// WithRNG supplies the RNG used to shuffle the round's deck.
func WithRNG(rng *rand.Rand) RoundOption {
	return func(r *Round) { r.rng = rng }
}

// Round owns one hand of play: the deck, the pot, the community cards and
// the fixed stage queue (preflop, flop, turn, river, consumed front to
// back). When the queue empties the showdown runs and the round-end
// callback fires.
type Round struct {
	players   []*Player
	deck      *deck.Deck
	rng       *rand.Rand
	pot       int
	community []deck.Card
	stages    []*Stage
	onEnd     func(ShowdownResult)
}

// NewRound deals a fresh hand to the given players and starts the preflop
// stage, posting blinds immediately. The round takes exclusive ownership
// of the player sequence for its duration; stages only see a view of it.
func NewRound(players []*Player, smallBlind int, onEnd func(ShowdownResult), opts ...RoundOption) (*Round, error) {
	r := &Round{
		players:   players,
		community: make([]deck.Card, 0, 5),
		onEnd:     onEnd,
	}
	for _, opt := range opts {
		opt(r)
	}

	if r.deck == nil {
		if r.rng == nil {
			r.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
		}
		r.deck = deck.New(r.rng)
	}

	for _, p := range players {
		p.ClearHand()
	}

	for street := Preflop; street <= River; street++ {
		r.stages = append(r.stages, newStage(street, players, r.deck, smallBlind, r.dealCommunity, r.nextStage))
	}

	if err := r.stages[0].Start(); err != nil {
		return nil, fmt.Errorf("starting preflop: %w", err)
	}
	return r, nil
}

// CurrentStage returns the stage accepting actions, or nil once the round
// is over.
func (r *Round) CurrentStage() *Stage {
	if len(r.stages) == 0 {
		return nil
	}
	return r.stages[0]
}

// Pot returns the chips accumulated from completed streets.
func (r *Round) Pot() int {
	return r.pot
}

// Community returns a copy of the community cards dealt so far.
func (r *Round) Community() []deck.Card {
	out := make([]deck.Card, len(r.community))
	copy(out, r.community)
	return out
}

func (r *Round) dealCommunity() {
	if card, ok := r.deck.Draw(); ok {
		r.community = append(r.community, card)
	}
}

// nextStage runs when a street's betting closes: every pending street bet
// is settled into the pot, the finished stage is discarded, and either the
// next street starts or the showdown decides the round.
func (r *Round) nextStage() {
	for _, p := range r.players {
		r.pot += p.Settle()
	}

	r.stages = r.stages[1:]

	if len(r.stages) > 0 {
		// Only preflop can fail to start (blind posting); later
		// streets just deal community cards.
		_ = r.stages[0].Start()
		return
	}

	r.showdown()
}

// showdown evaluates every unfolded player's two hole cards against the
// five community cards and pays the pot to the strongest hand. Exact ties
// split the pot evenly; an indivisible remainder goes to the tied seat
// closest to the dealer.
func (r *Round) showdown() {
	result := ShowdownResult{
		Pot:   r.pot,
		Hands: make(map[string]hand.Result),
	}

	var best hand.Result
	for _, p := range r.players {
		if p.Folded {
			continue
		}

		evaluated, err := hand.Evaluate(append(p.Hole(), r.community...))
		if err != nil {
			continue
		}
		result.Hands[p.ID] = evaluated

		switch {
		case len(result.Winners) == 0 || hand.Compare(evaluated, best) > 0:
			best = evaluated
			result.Winners = []*Player{p}
		case hand.Compare(evaluated, best) == 0:
			result.Winners = append(result.Winners, p)
		}
	}

	if n := len(result.Winners); n > 0 {
		share := r.pot / n
		remainder := r.pot % n
		for i, w := range result.Winners {
			amount := share
			if i == 0 {
				amount += remainder
			}
			w.Credit(amount)
		}
		r.pot = 0
	}

	if r.onEnd != nil {
		r.onEnd(result)
	}
}
