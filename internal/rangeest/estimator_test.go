package rangeest

import (
	"testing"

	"github.com/lox/pokerengine/internal/engine"
	"github.com/lox/pokerengine/internal/equity"
	"github.com/lox/pokerengine/internal/randutil"
	"github.com/lox/pokerengine/poker"
	"github.com/stretchr/testify/require"
)

func TestInitializeRangeNarrowerForEarlyThanLatePosition(t *testing.T) {
	t.Parallel()
	rng := randutil.New(1)
	stats := StatsSnapshot{}

	early := NewEstimator(3)
	early.InitializeRange(engine.UnderTheGun, FiveHandedPlus, 0.3, 0, stats, false, rng, 0)

	late := NewEstimator(7)
	late.InitializeRange(engine.Button, FiveHandedPlus, 0.3, 0, stats, false, rng, 0)

	require.Less(t, early.Current.Size(), late.Current.Size())
}

func TestInitializeRangeExcludesKnownCards(t *testing.T) {
	t.Parallel()
	rng := randutil.New(2)
	known := poker.Hand(mustCard(t, "As")) | poker.Hand(mustCard(t, "Ks"))

	e := NewEstimator(1)
	e.InitializeRange(engine.Button, HeadsUp, 0.3, 0, StatsSnapshot{}, false, rng, known)

	for _, combo := range e.Current.Hands() {
		require.Zero(t, combo&known)
	}
}

func TestNarrowRemovesNoPairNoDrawOnFlopBet(t *testing.T) {
	t.Parallel()
	board := poker.NewHand(mustCard(t, "Ks"), mustCard(t, "7d"), mustCard(t, "2c"))

	// A dead combo with nothing at all (offsuit, no pair, no draw, no overcard).
	deadCombo := poker.NewHand(mustCard(t, "4h"), mustCard(t, "3d"))
	// A live combo that paired the board.
	pairedCombo := poker.NewHand(mustCard(t, "Kh"), mustCard(t, "9c"))

	r := NewRange()
	r.hands[deadCombo] = 1.0
	r.hands[pairedCombo] = 1.0
	e := &Estimator{Seat: 2, Current: r}

	e.Narrow(NarrowingContext{
		Street: engine.Flop,
		Action: engine.Raise,
		Board:  board,
	})

	require.False(t, e.Current.ContainsHand(deadCombo))
	require.True(t, e.Current.ContainsHand(pairedCombo))
}

func TestNarrowKeepsPriorRangeRatherThanEmptyIt(t *testing.T) {
	t.Parallel()
	board := poker.NewHand(mustCard(t, "Ks"), mustCard(t, "7d"), mustCard(t, "2c"))
	deadCombo := poker.NewHand(mustCard(t, "4h"), mustCard(t, "3d"))

	r := NewRange()
	r.hands[deadCombo] = 1.0

	e := &Estimator{Seat: 4, Current: r}
	e.Narrow(NarrowingContext{
		Street: engine.Flop,
		Action: engine.Raise,
		Board:  board,
	})

	require.True(t, e.Current.ContainsHand(deadCombo), "range must not be emptied")
	require.Len(t, e.Anomalies, 1)
}

func TestNarrowBlufferSkipsRemoval(t *testing.T) {
	t.Parallel()
	board := poker.NewHand(mustCard(t, "Ks"), mustCard(t, "7d"), mustCard(t, "2c"))
	deadCombo := poker.NewHand(mustCard(t, "4h"), mustCard(t, "3d"))

	r := NewRange()
	r.hands[deadCombo] = 1.0
	r.hands[poker.NewHand(mustCard(t, "Kh"), mustCard(t, "9c"))] = 1.0

	e := &Estimator{Seat: 5, Current: r}
	e.Narrow(NarrowingContext{
		Street:    engine.Flop,
		Action:    engine.Raise,
		Board:     board,
		IsBluffer: true,
	})

	require.True(t, e.Current.ContainsHand(deadCombo), "a known bluffer's range isn't narrowed by a single bet")
}

func mustCard(t *testing.T, s string) poker.Card {
	t.Helper()
	c, err := poker.ParseCard(s)
	require.NoError(t, err)
	return c
}

func TestHasPairOrBetterDetectsBoardPair(t *testing.T) {
	t.Parallel()
	board := poker.NewHand(mustCard(t, "Ks"), mustCard(t, "7d"), mustCard(t, "2c"))
	combo := poker.NewHand(mustCard(t, "Kh"), mustCard(t, "9c"))
	require.True(t, hasPairOrBetter(combo, board))

	noPair := poker.NewHand(mustCard(t, "4h"), mustCard(t, "3d"))
	require.False(t, hasPairOrBetter(noPair, board))
}

func TestDrawDetectionAgreesWithHasStrongDraw(t *testing.T) {
	t.Parallel()
	board := poker.NewHand(mustCard(t, "2s"), mustCard(t, "7s"), mustCard(t, "Jd"))
	combo := poker.NewHand(mustCard(t, "As"), mustCard(t, "Ks"))
	info := equity.DetectDraws(combo, board)
	require.True(t, info.HasStrongDraw())
}
