package hand

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wanlucas/poker-game/internal/deck"
)

func cards(specs ...string) []deck.Card {
	out := make([]deck.Card, len(specs))
	for i, s := range specs {
		c, err := deck.ParseCard(s)
		if err != nil {
			panic(err)
		}
		out[i] = c
	}
	return out
}

func TestEvaluateRequiresSevenCards(t *testing.T) {
	_, err := Evaluate(cards("As", "Kd"))
	require.ErrorIs(t, err, ErrInvalidHandSize)

	_, err = Evaluate(cards("As", "2d", "5h", "8c", "9s", "3s", "Qc", "Kd"))
	require.ErrorIs(t, err, ErrInvalidHandSize)
}

func TestEvaluateCategories(t *testing.T) {
	tests := []struct {
		name     string
		cards    []deck.Card
		ranking  Ranking
		bestFive string
	}{
		{
			name:     "high card",
			cards:    cards("As", "2d", "5h", "8c", "9s", "3s", "Qc"),
			ranking:  HighCard,
			bestFive: "A♠ Q♣ 9♠ 8♣ 5♥",
		},
		{
			name:     "pair",
			cards:    cards("5h", "7c", "Ts", "As", "Ad", "Js", "Ks"),
			ranking:  Pair,
			bestFive: "A♠ A♦ K♠ J♠ T♠",
		},
		{
			name:     "two pair",
			cards:    cards("5h", "5c", "Ts", "As", "Ad", "Js", "2d"),
			ranking:  TwoPair,
			bestFive: "A♠ A♦ 5♥ 5♣ J♠",
		},
		{
			name:     "two pair picks highest kicker over a third pair",
			cards:    cards("Qs", "Qd", "Js", "Jd", "9s", "9d", "Ac"),
			ranking:  TwoPair,
			bestFive: "Q♠ Q♦ J♠ J♦ A♣",
		},
		{
			name:     "three of a kind",
			cards:    cards("5h", "5c", "5s", "As", "Td", "Js", "2d"),
			ranking:  ThreeOfAKind,
			bestFive: "5♠ 5♥ 5♣ A♠ J♠",
		},
		{
			name:     "straight",
			cards:    cards("5h", "6c", "7s", "8s", "9d", "Js", "2d"),
			ranking:  Straight,
			bestFive: "9♦ 8♠ 7♠ 6♣ 5♥",
		},
		{
			name:     "wheel straight",
			cards:    cards("Ah", "2c", "3s", "4s", "5d", "Js", "9d"),
			ranking:  Straight,
			bestFive: "5♦ 4♠ 3♠ 2♣ A♥",
		},
		{
			name:     "seven card run keeps the top five",
			cards:    cards("4h", "5c", "6s", "7s", "8d", "9s", "Td"),
			ranking:  Straight,
			bestFive: "T♦ 9♠ 8♦ 7♠ 6♠",
		},
		{
			name:     "flush",
			cards:    cards("As", "Ts", "7s", "4s", "2s", "Kd", "Kh"),
			ranking:  Flush,
			bestFive: "A♠ T♠ 7♠ 4♠ 2♠",
		},
		{
			name:     "full house",
			cards:    cards("5h", "5c", "5s", "As", "Ad", "Js", "2d"),
			ranking:  FullHouse,
			bestFive: "5♠ 5♥ 5♣ A♠ A♦",
		},
		{
			name:     "full house from two sets of trips",
			cards:    cards("5h", "5c", "5s", "Ks", "Kd", "Kc", "2d"),
			ranking:  FullHouse,
			bestFive: "K♠ K♦ K♣ 5♠ 5♥",
		},
		{
			name:     "four of a kind",
			cards:    cards("5h", "5c", "5s", "5d", "Ad", "Js", "2d"),
			ranking:  FourOfAKind,
			bestFive: "5♠ 5♥ 5♦ 5♣ A♦",
		},
		{
			name:     "four of a kind picks highest kicker over a pair",
			cards:    cards("Qs", "Qh", "Qd", "Qc", "9s", "9d", "Ac"),
			ranking:  FourOfAKind,
			bestFive: "Q♠ Q♥ Q♦ Q♣ A♣",
		},
		{
			name:     "straight flush",
			cards:    cards("5h", "6h", "7h", "8h", "9h", "Js", "2d"),
			ranking:  StraightFlush,
			bestFive: "9♥ 8♥ 7♥ 6♥ 5♥",
		},
		{
			name:     "royal flush",
			cards:    cards("As", "Ks", "Qs", "Js", "Ts", "Qh", "Jh"),
			ranking:  RoyalFlush,
			bestFive: "A♠ K♠ Q♠ J♠ T♠",
		},
		{
			name:     "wheel straight flush is not royal",
			cards:    cards("5h", "5c", "Ac", "2c", "3c", "4c", "5s"),
			ranking:  StraightFlush,
			bestFive: "5♣ 4♣ 3♣ 2♣ A♣",
		},
		{
			name:     "flush beats a straight in the other pass",
			cards:    cards("5h", "6h", "7h", "8h", "Th", "9s", "2d"),
			ranking:  Flush,
			bestFive: "T♥ 8♥ 7♥ 6♥ 5♥",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := Evaluate(tt.cards)
			require.NoError(t, err)
			assert.Equal(t, tt.ranking, result.Ranking, "ranking")
			assert.Equal(t, tt.bestFive, result.String(), "best five")
		})
	}
}

// The concrete seven-card scenarios from the table rules, rank 14 = ace.
func TestEvaluateKnownScenarios(t *testing.T) {
	highCard, err := Evaluate(cards("As", "2d", "5h", "8c", "9s", "3s", "Qc"))
	require.NoError(t, err)
	assert.Equal(t, HighCard, highCard.Ranking)
	assert.Equal(t, "A♠ Q♣ 9♠ 8♣ 5♥", highCard.String())

	pair, err := Evaluate(cards("5h", "7c", "Ts", "As", "Ad", "Js", "Ks"))
	require.NoError(t, err)
	assert.Equal(t, Pair, pair.Ranking)
	assert.Equal(t, "A♠ A♦ K♠ J♠ T♠", pair.String())

	royal, err := Evaluate(cards("As", "Ks", "Qs", "Js", "Ts", "Qh", "Jh"))
	require.NoError(t, err)
	assert.Equal(t, RoyalFlush, royal.Ranking)
	assert.Equal(t, "A♠ K♠ Q♠ J♠ T♠", royal.String())

	wheel, err := Evaluate(cards("5h", "5c", "Ac", "2c", "3c", "4c", "5s"))
	require.NoError(t, err)
	assert.Equal(t, StraightFlush, wheel.Ranking)
	assert.Equal(t, "5♣ 4♣ 3♣ 2♣ A♣", wheel.String())
}

// Permuting the seven input cards never changes the returned ranking or the
// best-five sequence.
func TestEvaluateOrderInvariance(t *testing.T) {
	rng := rand.New(rand.NewSource(99))

	for trial := 0; trial < 200; trial++ {
		d := deck.New(rng)
		seven := make([]deck.Card, 7)
		for i := range seven {
			seven[i], _ = d.Draw()
		}

		base, err := Evaluate(seven)
		require.NoError(t, err)

		for p := 0; p < 20; p++ {
			shuffled := make([]deck.Card, 7)
			copy(shuffled, seven)
			rng.Shuffle(7, func(i, j int) {
				shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
			})

			got, err := Evaluate(shuffled)
			require.NoError(t, err)
			require.Equal(t, base, got, "cards %v vs %v", seven, shuffled)
		}
	}
}

// naiveRank classifies exactly five cards, independently of the evaluator's
// positional scheme. Used to enumerate all C(7,5) subsets below.
func naiveRank(five []deck.Card) Ranking {
	counts := make(map[deck.Rank]int)
	suits := make(map[deck.Suit]int)
	for _, c := range five {
		counts[c.Rank]++
		suits[c.Suit]++
	}

	var pairs, trips, quads int
	for _, n := range counts {
		switch n {
		case 2:
			pairs++
		case 3:
			trips++
		case 4:
			quads++
		}
	}

	flush := len(suits) == 1
	straight := false
	if len(counts) == 5 {
		var lo, hi deck.Rank = deck.Ace + 1, 0
		hasAce := false
		for r := range counts {
			if r == deck.Ace {
				hasAce = true
			}
			if r < lo {
				lo = r
			}
			if r > hi {
				hi = r
			}
		}
		if hi-lo == 4 {
			straight = true
		}
		// Wheel: A-2-3-4-5
		if hasAce && counts[deck.Two] == 1 && counts[deck.Three] == 1 &&
			counts[deck.Four] == 1 && counts[deck.Five] == 1 {
			straight = true
		}
	}

	switch {
	case straight && flush:
		if counts[deck.Ace] == 1 && counts[deck.King] == 1 {
			return RoyalFlush
		}
		return StraightFlush
	case quads == 1:
		return FourOfAKind
	case trips == 1 && pairs == 1:
		return FullHouse
	case flush:
		return Flush
	case straight:
		return Straight
	case trips == 1:
		return ThreeOfAKind
	case pairs == 2:
		return TwoPair
	case pairs == 1:
		return Pair
	default:
		return HighCard
	}
}

// The chosen category is never lower than the maximum over every five-card
// subset of the seven input cards.
func TestEvaluateCategoryMonotonicity(t *testing.T) {
	rng := rand.New(rand.NewSource(123))

	for trial := 0; trial < 500; trial++ {
		d := deck.New(rng)
		seven := make([]deck.Card, 7)
		for i := range seven {
			seven[i], _ = d.Draw()
		}

		result, err := Evaluate(seven)
		require.NoError(t, err)

		best := HighCard
		five := make([]deck.Card, 0, 5)
		for i := 0; i < 7; i++ {
			for j := i + 1; j < 7; j++ {
				five = five[:0]
				for k := 0; k < 7; k++ {
					if k != i && k != j {
						five = append(five, seven[k])
					}
				}
				if r := naiveRank(five); r > best {
					best = r
				}
			}
		}

		require.Equal(t, best, result.Ranking, "cards %v", seven)
	}
}

func TestCompare(t *testing.T) {
	flush, err := Evaluate(cards("As", "Ts", "7s", "4s", "2s", "Kd", "Kh"))
	require.NoError(t, err)
	pair, err := Evaluate(cards("5h", "7c", "Ts", "As", "Ad", "Js", "Ks"))
	require.NoError(t, err)

	assert.Equal(t, 1, Compare(flush, pair))
	assert.Equal(t, -1, Compare(pair, flush))

	// Same category, kicker decides.
	aceHigh, err := Evaluate(cards("As", "2d", "5h", "8c", "9s", "3s", "Qc"))
	require.NoError(t, err)
	kingHigh, err := Evaluate(cards("Ks", "2d", "5h", "8c", "9s", "3s", "Qc"))
	require.NoError(t, err)
	assert.Equal(t, 1, Compare(aceHigh, kingHigh))

	// Identical ranks in different suits are an exact tie.
	tieA, err := Evaluate(cards("As", "2d", "5h", "8c", "9s", "3s", "Qc"))
	require.NoError(t, err)
	tieB, err := Evaluate(cards("Ah", "2c", "5d", "8s", "9h", "3d", "Qd"))
	require.NoError(t, err)
	assert.Equal(t, 0, Compare(tieA, tieB))
}
