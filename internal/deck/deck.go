package deck

import (
	"math/rand"
)

// Deck represents a standard 52-card deck. Cards are drawn without
// replacement and the deck is never replenished mid-round.
type Deck struct {
	cards [52]Card
	next  int
	rng   *rand.Rand
}

// New creates a new shuffled deck with an explicit RNG. Passing the RNG in
// keeps shuffling as the single non-deterministic input, so callers can fix
// the card sequence in tests.
func New(rng *rand.Rand) *Deck {
	d := &Deck{rng: rng}

	i := 0
	for suit := Spades; suit <= Clubs; suit++ {
		for rank := Two; rank <= Ace; rank++ {
			d.cards[i] = Card{Suit: suit, Rank: rank}
			i++
		}
	}

	d.shuffle()
	return d
}

// Stacked creates an unshuffled deck that deals the given cards in order,
// followed by the rest of the 52-card set. Repeated cards count once; the
// deck always holds 52 distinct cards. Intended for deterministic tests.
func Stacked(cards ...Card) *Deck {
	d := &Deck{}

	seen := make(map[Card]bool, len(cards))
	i := 0
	for _, c := range cards {
		if seen[c] {
			continue
		}
		d.cards[i] = c
		seen[c] = true
		i++
	}
	for suit := Spades; suit <= Clubs; suit++ {
		for rank := Two; rank <= Ace; rank++ {
			c := Card{Suit: suit, Rank: rank}
			if !seen[c] {
				d.cards[i] = c
				i++
			}
		}
	}

	return d
}

// shuffle shuffles the deck using Fisher-Yates
func (d *Deck) shuffle() {
	for i := len(d.cards) - 1; i > 0; i-- {
		var j int
		if d.rng != nil {
			j = d.rng.Intn(i + 1)
		} else {
			j = rand.Intn(i + 1)
		}
		d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
	}
}

// Draw removes and returns the next card. The second return value is false
// once the deck is exhausted.
func (d *Deck) Draw() (Card, bool) {
	if d.next >= len(d.cards) {
		return Card{}, false
	}
	card := d.cards[d.next]
	d.next++
	return card, true
}

// Remaining returns the number of cards left in the deck
func (d *Deck) Remaining() int {
	return len(d.cards) - d.next
}
