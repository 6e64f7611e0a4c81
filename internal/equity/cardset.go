package equity

import "github.com/wanlucas/poker-game/internal/deck"

// CardSet is a 52-bit set of cards, one bit per rank/suit combination.
// Cheap to copy, which matters inside the simulation loop.
type CardSet uint64

func cardIndex(c deck.Card) int {
	return (int(c.Rank)-int(deck.Two))*4 + int(c.Suit)
}

// Add puts a card in the set.
func (cs *CardSet) Add(c deck.Card) {
	*cs |= 1 << cardIndex(c)
}

// Contains reports whether the card is in the set.
func (cs CardSet) Contains(c deck.Card) bool {
	return cs&(1<<cardIndex(c)) != 0
}

// NewCardSet builds a set from the given cards.
func NewCardSet(cards []deck.Card) CardSet {
	var cs CardSet
	for _, c := range cards {
		cs.Add(c)
	}
	return cs
}

// remainingCards lists the 52-card deck minus the given set, in a fixed
// order so seeded simulations are reproducible.
func remainingCards(used CardSet) []deck.Card {
	out := make([]deck.Card, 0, 52)
	for suit := deck.Spades; suit <= deck.Clubs; suit++ {
		for rank := deck.Two; rank <= deck.Ace; rank++ {
			c := deck.Card{Suit: suit, Rank: rank}
			if !used.Contains(c) {
				out = append(out, c)
			}
		}
	}
	return out
}
