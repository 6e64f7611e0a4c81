package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wanlucas/poker-game/internal/deck"
)

func TestPlayerWagerCapsAtBankroll(t *testing.T) {
	p := NewPlayer("a", "Alice", 30)

	assert.Equal(t, 20, p.Wager(20))
	assert.Equal(t, 10, p.Bankroll)
	assert.Equal(t, 20, p.CurrentBet)

	// Betting past the stack commits only what is left.
	assert.Equal(t, 10, p.Wager(50))
	assert.Equal(t, 0, p.Bankroll)
	assert.Equal(t, 30, p.CurrentBet)
}

func TestPlayerSettleAndCredit(t *testing.T) {
	p := NewPlayer("a", "Alice", 100)
	p.Wager(40)

	assert.Equal(t, 40, p.Settle())
	assert.Equal(t, 0, p.CurrentBet)
	assert.Equal(t, 60, p.Bankroll)

	p.Credit(90)
	assert.Equal(t, 150, p.Bankroll)
}

func TestPlayerClearHandResetsRoundState(t *testing.T) {
	p := NewPlayer("a", "Alice", 100)
	c, err := deck.ParseCard("As")
	require.NoError(t, err)
	p.AddCard(c)
	p.Folded = true

	p.ClearHand()
	assert.Equal(t, 0, p.HandSize())
	assert.False(t, p.Folded)
}

func TestPlayerHoleReturnsCopy(t *testing.T) {
	p := NewPlayer("a", "Alice", 100)
	as, _ := deck.ParseCard("As")
	kd, _ := deck.ParseCard("Kd")
	p.AddCard(as)
	p.AddCard(kd)

	hole := p.Hole()
	hole[0] = kd
	assert.Equal(t, as, p.Hole()[0])
}
