package equity

import (
	"context"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wanlucas/poker-game/internal/deck"
	"github.com/wanlucas/poker-game/internal/hand"
)

func mustCards(t *testing.T, s string) []deck.Card {
	t.Helper()
	cards, err := deck.ParseCards(s)
	require.NoError(t, err)
	return cards
}

func TestEstimateRanges(t *testing.T) {
	tests := []struct {
		name      string
		hole      string
		board     string
		opponents int
		min, max  float64
	}{
		{
			name:      "pocket aces heads up",
			hole:      "AsAd",
			opponents: 1,
			min:       0.75,
			max:       0.95,
		},
		{
			name:      "seven-deuce heads up",
			hole:      "7h2c",
			opponents: 1,
			min:       0.25,
			max:       0.45,
		},
		{
			name:      "pocket aces against three",
			hole:      "AsAd",
			opponents: 3,
			min:       0.50,
			max:       0.80,
		},
		{
			name:      "nut flush draw on the flop",
			hole:      "AsKs",
			board:     "QsJs2h",
			opponents: 1,
			min:       0.60,
			max:       0.85,
		},
		{
			name:      "air against a scary board",
			hole:      "2h3c",
			board:     "AsKdQh",
			opponents: 1,
			min:       0.05,
			max:       0.30,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var board []deck.Card
			if tt.board != "" {
				board = mustCards(t, tt.board)
			}

			rng := rand.New(rand.NewSource(12345))
			eq, err := Estimate(context.Background(), mustCards(t, tt.hole), board, tt.opponents, 2000, rng)
			require.NoError(t, err)
			assert.GreaterOrEqual(t, eq, tt.min)
			assert.LessOrEqual(t, eq, tt.max)
		})
	}
}

func TestEstimateValidation(t *testing.T) {
	ctx := context.Background()
	rng := rand.New(rand.NewSource(1))

	_, err := Estimate(ctx, mustCards(t, "As"), nil, 1, 100, rng)
	require.ErrorIs(t, err, ErrInvalidHand)

	_, err = Estimate(ctx, mustCards(t, "AsAd"), mustCards(t, "2c3c4c5c6c7c"), 1, 100, rng)
	require.ErrorIs(t, err, ErrInvalidBoard)

	_, err = Estimate(ctx, mustCards(t, "AsAd"), nil, 0, 100, rng)
	require.Error(t, err)
}

func TestCompareDominatedHand(t *testing.T) {
	hands := [][]deck.Card{
		mustCards(t, "AsAd"),
		mustCards(t, "KsKd"),
	}

	rng := rand.New(rand.NewSource(99))
	odds, err := Compare(context.Background(), hands, nil, 2000, rng)
	require.NoError(t, err)
	require.Len(t, odds, 2)

	// Aces win roughly 80% against kings preflop.
	assert.Greater(t, odds[0].WinPct(), 70.0)
	assert.Less(t, odds[1].WinPct(), 25.0)
	assert.Equal(t, 2000, odds[0].Samples)

	// Every sample lands in some category bucket.
	total := 0
	for _, n := range odds[0].Categories {
		total += n
	}
	assert.Equal(t, 2000, total)
}

func TestCompareLockedBoard(t *testing.T) {
	// The board is already a royal flush: every runout is a chop.
	hands := [][]deck.Card{
		mustCards(t, "2c3c"),
		mustCards(t, "7d8d"),
	}
	board := mustCards(t, "AsKsQsJsTs")

	rng := rand.New(rand.NewSource(1))
	odds, err := Compare(context.Background(), hands, board, 200, rng)
	require.NoError(t, err)

	for _, o := range odds {
		assert.Equal(t, 0, o.Wins)
		assert.Equal(t, o.Samples, o.Ties)
		assert.Equal(t, o.Samples, o.Categories[hand.RoyalFlush])
	}
}

func TestCompareRejectsDuplicates(t *testing.T) {
	hands := [][]deck.Card{
		mustCards(t, "AsAd"),
		mustCards(t, "AsKd"),
	}

	_, err := Compare(context.Background(), hands, nil, 100, rand.New(rand.NewSource(1)))
	require.ErrorIs(t, err, ErrDuplicateCard)
}

func TestEstimateHonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Estimate(ctx, mustCards(t, "AsAd"), nil, 1, 100000, rand.New(rand.NewSource(1)))
	require.ErrorIs(t, err, context.Canceled)
}
