package engine

import (
	"testing"

	"github.com/lox/pokerengine/internal/randutil"
	"github.com/lox/pokerengine/poker"
	"github.com/stretchr/testify/require"
)

func mustCards(t *testing.T, s ...string) poker.Hand {
	t.Helper()
	var h poker.Hand
	for _, c := range s {
		card, err := poker.ParseCard(c)
		require.NoError(t, err)
		h.AddCard(card)
	}
	return h
}

// newShowdownHand builds a hand already parked at Showdown with
// caller-supplied hole cards and board, bypassing Step/dealing so tests can
// pin down exact cards and a chosen LastAggressor.
func newShowdownHand(t *testing.T, board poker.Hand, hole ...poker.Hand) *HandState {
	t.Helper()
	names := make([]string, len(hole))
	chips := make([]int, len(hole))
	for i := range hole {
		names[i] = string(rune('A' + i))
		chips[i] = 1000
	}
	h, err := NewHand(Config{
		PlayerNames: names,
		Chips:       chips,
		Button:      0,
		SmallBlind:  5,
		BigBlind:    10,
		RNG:         randutil.New(7),
	})
	require.NoError(t, err)
	for i, hc := range hole {
		h.Players[i].HoleCards = hc
	}
	h.Board = board
	h.Street = Showdown
	return h
}

func TestShowdownRevealOrderStartsFromLastAggressor(t *testing.T) {
	t.Parallel()
	board := mustCards(t, "2c", "7d", "9h", "4d", "3s")
	h := newShowdownHand(t, board,
		mustCards(t, "Ah", "Ad"),
		mustCards(t, "Kh", "Kd"),
		mustCards(t, "Qh", "Qd"),
	)
	h.LastAggressor = 2

	order, _ := h.ShowdownReveal()
	require.Equal(t, []int{2, 0, 1}, order)
}

func TestShowdownRevealOrderFallsBackWhenRiverCheckedThrough(t *testing.T) {
	t.Parallel()
	board := mustCards(t, "2c", "7d", "9h", "4d", "3s")
	h := newShowdownHand(t, board,
		mustCards(t, "Ah", "Ad"),
		mustCards(t, "Kh", "Kd"),
		mustCards(t, "Qh", "Qd"),
	)
	h.LastAggressor = -1 // river checked through

	order, _ := h.ShowdownReveal()
	require.Equal(t, []int{1, 2, 0}, order, "falls back to the first non-folded seat clockwise from the button")
}

func TestShowdownRevealWorseHandMucksAfterBetterShown(t *testing.T) {
	t.Parallel()
	board := mustCards(t, "2c", "7d", "9h", "4d", "3s")
	h := newShowdownHand(t, board,
		mustCards(t, "Ah", "Ad"), // seat 0: best, acts first
		mustCards(t, "Kh", "Kd"), // seat 1: worse than seat 0
		mustCards(t, "Qh", "Qd"), // seat 2: worse than both
	)
	h.LastAggressor = 0
	h.Players[0].Chips, h.Players[1].Chips, h.Players[2].Chips = 500, 500, 500

	order, mustShow := h.ShowdownReveal()
	require.Equal(t, []int{0, 1, 2}, order)
	require.True(t, mustShow[0])
	require.False(t, mustShow[1], "pair of kings is strictly worse than the shown pair of aces")
	require.False(t, mustShow[2], "pair of queens is strictly worse than both shown hands")
}

func TestShowdownRevealMustShowIfNotWorseThanWorstShown(t *testing.T) {
	t.Parallel()
	board := mustCards(t, "2c", "7d", "9h", "4d", "3s")
	h := newShowdownHand(t, board,
		mustCards(t, "Qh", "Qd"), // seat 0: worst, acts first
		mustCards(t, "Ah", "Ad"), // seat 1: best
		mustCards(t, "Kh", "Kd"), // seat 2: middle, still not worse than worst shown (queens)
	)
	h.LastAggressor = 0
	h.Players[0].Chips, h.Players[1].Chips, h.Players[2].Chips = 500, 500, 500

	order, mustShow := h.ShowdownReveal()
	require.Equal(t, []int{0, 1, 2}, order)
	require.True(t, mustShow[0])
	require.True(t, mustShow[1], "the eventual winner must always show")
	require.True(t, mustShow[2], "pair of kings is not strictly worse than the worst hand shown (queens)")
}

func TestShowdownRevealAllInForcesEveryoneToShow(t *testing.T) {
	t.Parallel()
	board := mustCards(t, "2c", "7d", "9h", "4d", "3s")
	h := newShowdownHand(t, board,
		mustCards(t, "Ah", "Ad"),
		mustCards(t, "2h", "3d"),
	)
	h.LastAggressor = 0
	h.Players[0].Chips, h.Players[1].Chips = 0, 0

	order, mustShow := h.ShowdownReveal()
	require.Len(t, order, 2)
	for _, seat := range order {
		require.True(t, mustShow[seat])
	}
}

func TestShowdownRevealSkipsFoldedSeats(t *testing.T) {
	t.Parallel()
	board := mustCards(t, "2c", "7d", "9h", "4d", "3s")
	h := newShowdownHand(t, board,
		mustCards(t, "Ah", "Ad"),
		mustCards(t, "Kh", "Kd"),
		mustCards(t, "Qh", "Qd"),
	)
	h.LastAggressor = 0
	h.Players[1].Folded = true
	h.Players[0].Chips, h.Players[2].Chips = 500, 500

	order, _ := h.ShowdownReveal()
	require.Equal(t, []int{0, 2}, order)
}
