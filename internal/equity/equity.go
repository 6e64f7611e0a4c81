// Package equity estimates Texas Hold'em winning chances by Monte Carlo
// simulation, fanning samples out across a parallel worker pool.
package equity

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/wanlucas/poker-game/internal/deck"
	"github.com/wanlucas/poker-game/internal/hand"
)

var (
	ErrInvalidHand   = errors.New("hand must hold exactly 2 cards")
	ErrInvalidBoard  = errors.New("board cannot hold more than 5 cards")
	ErrDuplicateCard = errors.New("duplicate card")
)

// maxWorkers caps parallelism; past this the coordination overhead eats
// the gains.
const maxWorkers = 8

// Odds accumulates simulation outcomes for one hand.
type Odds struct {
	Hand    []deck.Card
	Wins    int
	Ties    int
	Samples int

	// Categories counts how often the hand made each ranking.
	Categories map[hand.Ranking]int
}

// WinPct returns the outright-win percentage.
func (o Odds) WinPct() float64 {
	if o.Samples == 0 {
		return 0
	}
	return float64(o.Wins) / float64(o.Samples) * 100
}

// TiePct returns the split-pot percentage.
func (o Odds) TiePct() float64 {
	if o.Samples == 0 {
		return 0
	}
	return float64(o.Ties) / float64(o.Samples) * 100
}

// Equity returns the expected pot share in [0, 1], counting a tie as half
// a win. Ties with more than two players split evenly in reality; half is
// close enough for an estimate.
func (o Odds) Equity() float64 {
	if o.Samples == 0 {
		return 0
	}
	return (float64(o.Wins) + float64(o.Ties)/2) / float64(o.Samples)
}

// Compare pits the given hole-card hands against each other, dealing out
// random board completions. Results come back in hand order.
func Compare(ctx context.Context, hands [][]deck.Card, board []deck.Card, iterations int, rng *rand.Rand) ([]Odds, error) {
	if len(hands) < 2 {
		return nil, fmt.Errorf("need at least 2 hands, got %d", len(hands))
	}
	if len(board) > 5 {
		return nil, ErrInvalidBoard
	}

	var used CardSet
	for _, c := range board {
		if used.Contains(c) {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateCard, c)
		}
		used.Add(c)
	}
	for i, h := range hands {
		if len(h) != 2 {
			return nil, fmt.Errorf("hand %d: %w", i+1, ErrInvalidHand)
		}
		for _, c := range h {
			if used.Contains(c) {
				return nil, fmt.Errorf("hand %d: %w: %s", i+1, ErrDuplicateCard, c)
			}
			used.Add(c)
		}
	}

	results := make([]Odds, len(hands))
	for i := range results {
		results[i].Hand = hands[i]
		results[i].Categories = make(map[hand.Ranking]int)
	}

	run := func(ctx context.Context, samples int, rng *rand.Rand) ([]Odds, error) {
		return compareWorker(ctx, hands, board, used, samples, rng)
	}
	partials, err := fanOut(ctx, iterations, rng, run)
	if err != nil {
		return nil, err
	}

	for _, partial := range partials {
		for i := range partial {
			results[i].Wins += partial[i].Wins
			results[i].Ties += partial[i].Ties
			results[i].Samples += partial[i].Samples
			for ranking, n := range partial[i].Categories {
				results[i].Categories[ranking] += n
			}
		}
	}
	return results, nil
}

// Estimate returns the hero's equity against the given number of
// opponents holding random cards.
func Estimate(ctx context.Context, hole, board []deck.Card, opponents, iterations int, rng *rand.Rand) (float64, error) {
	if len(hole) != 2 {
		return 0, ErrInvalidHand
	}
	if len(board) > 5 {
		return 0, ErrInvalidBoard
	}
	if opponents < 1 {
		return 0, fmt.Errorf("need at least 1 opponent, got %d", opponents)
	}
	if remaining := 52 - 2 - len(board); (5-len(board))+2*opponents > remaining {
		return 0, fmt.Errorf("not enough cards in the deck for %d opponents", opponents)
	}

	used := NewCardSet(hole)
	for _, c := range board {
		used.Add(c)
	}

	run := func(ctx context.Context, samples int, rng *rand.Rand) (Odds, error) {
		return estimateWorker(ctx, hole, board, used, opponents, samples, rng)
	}
	partials, err := fanOut(ctx, iterations, rng, run)
	if err != nil {
		return 0, err
	}

	var total Odds
	for _, partial := range partials {
		total.Wins += partial.Wins
		total.Ties += partial.Ties
		total.Samples += partial.Samples
	}
	return total.Equity(), nil
}

// fanOut splits iterations across workers, each with its own RNG seeded
// from the caller's, and collects the per-worker partial results.
func fanOut[T any](ctx context.Context, iterations int, rng *rand.Rand, run func(ctx context.Context, samples int, rng *rand.Rand) (T, error)) ([]T, error) {
	workers := runtime.NumCPU()
	if workers > maxWorkers {
		workers = maxWorkers
	}
	if iterations < 500 {
		workers = 1
	}

	partials := make([]T, workers)
	g, ctx := errgroup.WithContext(ctx)

	perWorker := iterations / workers
	remainder := iterations % workers
	for w := 0; w < workers; w++ {
		samples := perWorker
		if w < remainder {
			samples++
		}
		seed := rng.Int63()
		w := w
		g.Go(func() error {
			partial, err := run(ctx, samples, rand.New(rand.NewSource(seed)))
			if err != nil {
				return err
			}
			partials[w] = partial
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return partials, nil
}

func compareWorker(ctx context.Context, hands [][]deck.Card, board []deck.Card, used CardSet, samples int, rng *rand.Rand) ([]Odds, error) {
	results := make([]Odds, len(hands))
	for i := range results {
		results[i].Categories = make(map[hand.Ranking]int)
	}

	pool := remainingCards(used)
	needed := 5 - len(board)
	fullBoard := make([]deck.Card, 5)
	copy(fullBoard, board)
	sevenCards := make([]deck.Card, 7)
	evaluated := make([]hand.Result, len(hands))

	for i := 0; i < samples; i++ {
		if i%1024 == 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			default:
			}
		}

		drawInto(fullBoard[len(board):], pool, needed, rng)

		for h, hole := range hands {
			copy(sevenCards[:2], hole)
			copy(sevenCards[2:], fullBoard)
			res, err := hand.Evaluate(sevenCards)
			if err != nil {
				return nil, err
			}
			evaluated[h] = res
			results[h].Categories[res.Ranking]++
			results[h].Samples++
		}

		best := 0
		for h := 1; h < len(evaluated); h++ {
			if hand.Compare(evaluated[h], evaluated[best]) > 0 {
				best = h
			}
		}
		winners := 0
		for h := range evaluated {
			if hand.Compare(evaluated[h], evaluated[best]) == 0 {
				winners++
			}
		}
		for h := range evaluated {
			if hand.Compare(evaluated[h], evaluated[best]) != 0 {
				continue
			}
			if winners == 1 {
				results[h].Wins++
			} else {
				results[h].Ties++
			}
		}
	}
	return results, nil
}

func estimateWorker(ctx context.Context, hole, board []deck.Card, used CardSet, opponents, samples int, rng *rand.Rand) (Odds, error) {
	var result Odds

	pool := remainingCards(used)
	needed := 5 - len(board)
	drawn := make([]deck.Card, needed+2*opponents)
	fullBoard := make([]deck.Card, 5)
	copy(fullBoard, board)
	sevenCards := make([]deck.Card, 7)

	for i := 0; i < samples; i++ {
		if i%1024 == 0 {
			select {
			case <-ctx.Done():
				return Odds{}, ctx.Err()
			default:
			}
		}

		// One draw covers the board completion and every opponent's
		// hole cards.
		drawInto(drawn, pool, len(drawn), rng)
		copy(fullBoard[len(board):], drawn[:needed])

		copy(sevenCards[:2], hole)
		copy(sevenCards[2:], fullBoard)
		hero, err := hand.Evaluate(sevenCards)
		if err != nil {
			return Odds{}, err
		}

		won, tied := true, false
		for o := 0; o < opponents; o++ {
			copy(sevenCards[:2], drawn[needed+2*o:needed+2*o+2])
			opp, err := hand.Evaluate(sevenCards)
			if err != nil {
				return Odds{}, err
			}
			switch c := hand.Compare(hero, opp); {
			case c < 0:
				won, tied = false, false
			case c == 0 && won:
				tied = true
			}
			if !won {
				break
			}
		}

		result.Samples++
		if won && tied {
			result.Ties++
		} else if won {
			result.Wins++
		}
	}
	return result, nil
}

// drawInto fills dst with n distinct cards chosen uniformly from pool,
// using the swap-to-front partial shuffle. The pool stays a permutation
// of the same cards, so reuse across samples is fine.
func drawInto(dst, pool []deck.Card, n int, rng *rand.Rand) {
	for i := 0; i < n; i++ {
		j := i + rng.Intn(len(pool)-i)
		pool[i], pool[j] = pool[j], pool[i]
		dst[i] = pool[i]
	}
}
