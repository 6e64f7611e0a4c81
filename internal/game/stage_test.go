package game

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wanlucas/poker-game/internal/deck"
)

func testPlayers(bankrolls ...int) []*Player {
	players := make([]*Player, len(bankrolls))
	for i, b := range bankrolls {
		players[i] = NewPlayer(string(rune('a'+i)), "", b)
	}
	return players
}

// testStage builds a started post-flop stage with no blinds and no
// community dealing, isolating the betting machine.
func testStage(t *testing.T, players []*Player, ends *int) *Stage {
	t.Helper()
	s := newStage(Flop, players, deck.New(rand.New(rand.NewSource(1))), 5, func() {}, func() { *ends++ })
	require.NoError(t, s.Start())
	return s
}

func TestPreflopDealsAndPostsBlinds(t *testing.T) {
	players := testPlayers(200, 200, 200)
	d := deck.New(rand.New(rand.NewSource(1)))

	ends := 0
	s := newStage(Preflop, players, d, 5, func() {}, func() { ends++ })
	require.NoError(t, s.Start())

	// Two-pass round-robin: everyone holds two cards.
	for _, p := range players {
		assert.Equal(t, 2, p.HandSize())
	}
	assert.Equal(t, 52-6, d.Remaining())

	// Seat 0 posted the small blind, seat 1 the big blind.
	assert.Equal(t, 5, players[0].CurrentBet)
	assert.Equal(t, 195, players[0].Bankroll)
	assert.Equal(t, 10, players[1].CurrentBet)
	assert.Equal(t, 190, players[1].Bankroll)
	assert.Equal(t, 10, s.BiggestBet())
	assert.Same(t, players[2], s.CurrentPlayer())
	assert.Equal(t, 0, ends)
}

func TestCheckRequiresMatchedBet(t *testing.T) {
	players := testPlayers(200, 200)
	ends := 0
	s := testStage(t, players, &ends)

	require.NoError(t, s.Check())

	require.NoError(t, s.Raise(10))
	err := s.Check()
	require.ErrorIs(t, err, ErrInvalidCheck)
	assert.Contains(t, err.Error(), "biggest bet 10")
}

func TestFoldRequiresUnmatchedBet(t *testing.T) {
	players := testPlayers(200, 200, 200)
	ends := 0
	s := testStage(t, players, &ends)

	// Nothing to call yet: folding while matched is not allowed here.
	require.ErrorIs(t, s.Fold(), ErrInvalidFold)

	require.NoError(t, s.Raise(10))
	require.NoError(t, s.Fold())
	assert.True(t, players[1].Folded)
	assert.Same(t, players[2], s.CurrentPlayer())
}

// After a fold, both the turn rotation and the closing pointer skip the
// dead seat; a raise sends the pointer to the nearest live seat before the
// raiser.
func TestRotationSkipsFoldedSeats(t *testing.T) {
	players := testPlayers(200, 200, 200)
	ends := 0
	s := testStage(t, players, &ends)

	require.NoError(t, s.Raise(10)) // seat 0
	require.NoError(t, s.Fold())    // seat 1
	require.NoError(t, s.Raise(20)) // seat 2: pointer lands on seat 0, not the dead seat 1

	assert.Same(t, players[0], s.CurrentPlayer())
	require.NoError(t, s.Call()) // seat 0 closes
	assert.Equal(t, 1, ends)
}

func TestCallMatchesBiggestBet(t *testing.T) {
	players := testPlayers(200, 200)
	ends := 0
	s := testStage(t, players, &ends)

	require.NoError(t, s.Raise(30))
	require.NoError(t, s.Call())

	assert.Equal(t, 30, players[1].CurrentBet)
	assert.Equal(t, 170, players[1].Bankroll)
	assert.Equal(t, 1, ends)
}

func TestCallCapsAtBankroll(t *testing.T) {
	players := testPlayers(200, 20)
	ends := 0
	s := testStage(t, players, &ends)

	require.NoError(t, s.Raise(50))
	require.NoError(t, s.Call())

	// The short stack calls all-in for less; no error, single pot.
	assert.Equal(t, 20, players[1].CurrentBet)
	assert.Equal(t, 0, players[1].Bankroll)
}

func TestRaiseMinimumIsDoubleBiggestBet(t *testing.T) {
	players := testPlayers(200, 200)
	ends := 0
	s := testStage(t, players, &ends)

	require.NoError(t, s.Raise(30))

	err := s.Raise(40)
	require.ErrorIs(t, err, ErrInvalidRaise)
	assert.Contains(t, err.Error(), "minimum raise 60")
	assert.Equal(t, 30, s.BiggestBet(), "failed raise must not move the biggest bet")

	require.NoError(t, s.Raise(60))
	assert.Equal(t, 60, s.BiggestBet())
}

func TestRaiseRejectsNonPositiveValues(t *testing.T) {
	players := testPlayers(200, 200)
	ends := 0
	s := testStage(t, players, &ends)

	require.ErrorIs(t, s.Raise(0), ErrInvalidRaise)
	require.ErrorIs(t, s.Raise(-5), ErrInvalidRaise)

	// With no bet on the street, any positive value opens.
	require.NoError(t, s.Raise(1))
}

func TestRaiseRequiresFunds(t *testing.T) {
	players := testPlayers(200, 25)
	ends := 0
	s := testStage(t, players, &ends)

	require.NoError(t, s.Raise(20))

	err := s.Raise(40)
	require.ErrorIs(t, err, ErrInsufficientFunds)
	assert.Contains(t, err.Error(), "bankroll is 25")
	assert.Equal(t, 20, s.BiggestBet())
	assert.Equal(t, 25, players[1].Bankroll, "failed raise must not touch the bankroll")
}

// A raise relocates the closing pointer so every other player acts exactly
// once more, and the stage-end callback fires exactly once.
func TestRaiseReopensAction(t *testing.T) {
	players := testPlayers(200, 200, 200)
	ends := 0
	s := testStage(t, players, &ends)

	require.NoError(t, s.Check()) // seat 0
	require.NoError(t, s.Raise(10))
	assert.Equal(t, 0, ends)

	require.NoError(t, s.Call()) // seat 2
	assert.Equal(t, 0, ends)

	// Seat 0 already acted but the raise reopened its action; its call
	// closes the street.
	assert.Same(t, players[0], s.CurrentPlayer())
	require.NoError(t, s.Call())
	assert.Equal(t, 1, ends)
	assert.True(t, s.Closed())
}

func TestClosedStageRejectsActions(t *testing.T) {
	players := testPlayers(200, 200)
	ends := 0
	s := testStage(t, players, &ends)

	require.NoError(t, s.Check())
	require.NoError(t, s.Check())
	require.Equal(t, 1, ends)

	require.ErrorIs(t, s.Check(), ErrStageClosed)
	require.ErrorIs(t, s.Call(), ErrStageClosed)
	require.ErrorIs(t, s.Raise(10), ErrStageClosed)
	require.ErrorIs(t, s.Fold(), ErrStageClosed)
	assert.Equal(t, 1, ends, "stage-end callback must fire exactly once")
}

// A street can end on a fold when the folding seat holds the closing
// pointer.
func TestFoldAtClosingPointerEndsStreet(t *testing.T) {
	players := testPlayers(200, 200, 200)
	ends := 0
	s := testStage(t, players, &ends)

	require.NoError(t, s.Raise(10)) // seat 0, closing pointer on seat 2
	require.NoError(t, s.Call())    // seat 1
	require.NoError(t, s.Fold())    // seat 2 closes the street
	assert.Equal(t, 1, ends)
}

func TestStageStartSkipsFoldedSeats(t *testing.T) {
	players := testPlayers(200, 200, 200)
	players[0].Folded = true

	ends := 0
	s := testStage(t, players, &ends)

	assert.Same(t, players[1], s.CurrentPlayer())
	require.NoError(t, s.Check()) // seat 1
	require.NoError(t, s.Check()) // seat 2 closes: seat 0 never acts
	assert.Equal(t, 1, ends)
}
