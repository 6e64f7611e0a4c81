package hand

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/wanlucas/poker-game/internal/deck"
)

// ErrInvalidHandSize is returned when Evaluate is given anything other than
// the seven candidate cards (two hole cards plus five community cards).
var ErrInvalidHandSize = errors.New("hand evaluation requires exactly 7 cards")

// Result is the outcome of evaluating seven cards: the ranking category and
// the best five cards ordered highest significance first. Results are built
// fresh per call and never mutated.
type Result struct {
	Ranking  Ranking
	BestFive [5]deck.Card
}

// String renders the best hand in conventional notation, e.g. "A♠ K♠ Q♠ J♠ T♠".
func (r Result) String() string {
	parts := make([]string, len(r.BestFive))
	for i, c := range r.BestFive {
		parts[i] = c.String()
	}
	return strings.Join(parts, " ")
}

// Compare returns 1 if a beats b, -1 if b beats a and 0 for an exact tie.
// Hands compare by category first, then by the best-five rank sequence.
// Suits never break ties.
func Compare(a, b Result) int {
	if a.Ranking != b.Ranking {
		if a.Ranking > b.Ranking {
			return 1
		}
		return -1
	}
	for i := range a.BestFive {
		if a.BestFive[i].Rank != b.BestFive[i].Rank {
			if a.BestFive[i].Rank > b.BestFive[i].Rank {
				return 1
			}
			return -1
		}
	}
	return 0
}

// Evaluate classifies the best five-card combination among seven cards.
// The result is invariant to the input order.
//
// Two independent passes run over the cards: a group pass that finds the
// pair-family categories from rank multiplicities, and a straight/flush pass
// that treats the ace as both low and high. The strictly stronger category
// wins; on equal category the group pass is authoritative (the two passes
// can only collide on high card, where they agree).
func Evaluate(cards []deck.Card) (Result, error) {
	if len(cards) != 7 {
		return Result{}, fmt.Errorf("%w: got %d", ErrInvalidHandSize, len(cards))
	}

	group := checkGroups(cards)
	sf := checkStraightFlush(cards)

	if sf.Ranking > group.Ranking {
		return sf, nil
	}
	return group, nil
}

// sortByGroup orders the seven cards by descending occurrence count of their
// rank, then by descending rank. Suit is a final tiebreak so that permuting
// the input can never change the output sequence.
func sortByGroup(cards []deck.Card) []deck.Card {
	counts := make(map[deck.Rank]int, 7)
	for _, c := range cards {
		counts[c.Rank]++
	}

	sorted := make([]deck.Card, len(cards))
	copy(sorted, cards)
	sort.Slice(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if counts[a.Rank] != counts[b.Rank] {
			return counts[a.Rank] > counts[b.Rank]
		}
		if a.Rank != b.Rank {
			return a.Rank > b.Rank
		}
		return a.Suit < b.Suit
	})
	return sorted
}

// checkGroups derives the pair-family category from positional checks on the
// group-sorted cards. With seven cards, any rank seen twice sorts ahead of
// every singleton, so the multiplicities of the first few positions
// determine the category outright.
func checkGroups(cards []deck.Card) Result {
	sorted := sortByGroup(cards)
	rankAt := func(i int) deck.Rank { return sorted[i].Rank }

	switch {
	case rankAt(0) == rankAt(3):
		// Four of a kind. The leftover cards may contain a pair that
		// sorts ahead of a higher singleton, so the kicker is picked
		// by rank, not position.
		return Result{
			Ranking:  FourOfAKind,
			BestFive: withKickers(sorted[:4], sorted[4:], 1),
		}

	case rankAt(0) == rankAt(2):
		if rankAt(3) == rankAt(4) {
			return Result{FullHouse, toBestFive(sorted)}
		}
		// Trips: the four leftover cards are all distinct ranks, so
		// positional order is already kicker order.
		return Result{ThreeOfAKind, toBestFive(sorted)}

	case rankAt(0) == rankAt(1):
		if rankAt(2) == rankAt(3) {
			// Two pair. Seven cards can hold a third pair, which
			// would shadow a higher singleton kicker.
			return Result{
				Ranking:  TwoPair,
				BestFive: withKickers(sorted[:4], sorted[4:], 1),
			}
		}
		return Result{Pair, toBestFive(sorted)}

	default:
		return Result{HighCard, toBestFive(sorted)}
	}
}

// withKickers combines the grouped cards with the n highest-ranked leftovers.
func withKickers(grouped, rest []deck.Card, n int) [5]deck.Card {
	kickers := make([]deck.Card, len(rest))
	copy(kickers, rest)
	sort.Slice(kickers, func(i, j int) bool {
		if kickers[i].Rank != kickers[j].Rank {
			return kickers[i].Rank > kickers[j].Rank
		}
		return kickers[i].Suit < kickers[j].Suit
	})

	var five [5]deck.Card
	copy(five[:], grouped)
	copy(five[len(grouped):], kickers[:n])
	return five
}

func toBestFive(cards []deck.Card) [5]deck.Card {
	var five [5]deck.Card
	copy(five[:], cards[:5])
	return five
}

// checkStraightFlush runs the suit-bucket pass: flush detection first, then
// straight detection inside the flush suit (or over all seven cards when no
// flush exists). Falls back to high card so the caller can take the
// stronger of the two passes.
func checkStraightFlush(cards []deck.Card) Result {
	var bySuit [4][]deck.Card
	for _, c := range cards {
		bySuit[c.Suit] = append(bySuit[c.Suit], c)
	}

	var flush []deck.Card
	for _, suited := range bySuit {
		if len(suited) >= 5 {
			flush = suited
			break
		}
	}

	if flush != nil {
		if run := findStraight(flush); run != nil {
			ranking := StraightFlush
			// The wheel contains an ace but its top card is the
			// five, so it never upgrades to royal.
			if run[0].Rank == deck.Ace {
				ranking = RoyalFlush
			}
			return Result{ranking, toBestFive(run)}
		}
		sortByRank(flush)
		return Result{Flush, toBestFive(flush)}
	}

	if run := findStraight(cards); run != nil {
		return Result{Straight, toBestFive(run)}
	}

	sorted := make([]deck.Card, len(cards))
	copy(sorted, cards)
	sortByRank(sorted)
	return Result{HighCard, toBestFive(sorted)}
}

func sortByRank(cards []deck.Card) {
	sort.Slice(cards, func(i, j int) bool {
		if cards[i].Rank != cards[j].Rank {
			return cards[i].Rank > cards[j].Rank
		}
		return cards[i].Suit < cards[j].Suit
	})
}

// findStraight returns the top five cards of the best straight in the given
// cards, or nil when none exists. An ace contributes both rank 14 and rank 1
// to the candidate pool; an ace used low is rewritten back to rank 14 in the
// returned cards so display and tie-breaking stay canonical.
func findStraight(cards []deck.Card) []deck.Card {
	pool := make([]deck.Card, 0, len(cards)+4)
	for _, c := range cards {
		pool = append(pool, c)
		if c.Rank == deck.Ace {
			pool = append(pool, deck.Card{Suit: c.Suit, Rank: 1})
		}
	}
	sortByRank(pool)

	run := []deck.Card{pool[0]}
	for _, c := range pool[1:] {
		prev := run[len(run)-1].Rank
		switch {
		case prev == c.Rank:
			// Equal ranks extend nothing but do not break the run.
		case prev == c.Rank+1:
			run = append(run, c)
		case len(run) < 5:
			run = []deck.Card{c}
		}
	}

	if len(run) < 5 {
		return nil
	}

	top := make([]deck.Card, 5)
	copy(top, run[:5])
	for i, c := range top {
		if c.Rank == 1 {
			top[i].Rank = deck.Ace
		}
	}
	return top
}
