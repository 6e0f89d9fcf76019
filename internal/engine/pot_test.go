package engine

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func playersWithBets(bets []int, foldedSeats ...int) []*Player {
	folded := make(map[int]bool)
	for _, s := range foldedSeats {
		folded[s] = true
	}
	players := make([]*Player, len(bets))
	for i, bet := range bets {
		players[i] = &Player{Seat: i, TotalBet: bet, Folded: folded[i]}
	}
	return players
}

func TestPotManagerNoSidePots(t *testing.T) {
	t.Parallel()
	players := playersWithBets([]int{100, 100, 100})
	pm := NewPotManager(players)
	pm.CollectBets(players)

	pots := pm.GetPots()
	require.Len(t, pots, 1)
	require.Equal(t, 300, pots[0].Amount)
	require.ElementsMatch(t, []int{0, 1, 2}, pots[0].Eligible)
}

func TestPotManagerSidePotForShortAllIn(t *testing.T) {
	t.Parallel()
	// Seat 0 all-in for 50, seats 1 and 2 both put in 100.
	players := playersWithBets([]int{50, 100, 100})
	pm := NewPotManager(players)
	pm.CollectBets(players)

	pots := pm.GetPots()
	require.Len(t, pots, 2)
	require.Equal(t, 150, pots[0].Amount) // 50 * 3
	require.ElementsMatch(t, []int{0, 1, 2}, pots[0].Eligible)
	require.Equal(t, 100, pots[1].Amount) // (100-50) * 2
	require.ElementsMatch(t, []int{1, 2}, pots[1].Eligible)
}

func TestPotManagerExcludesFoldedFromEligibility(t *testing.T) {
	t.Parallel()
	players := playersWithBets([]int{50, 100, 100}, 1)
	pm := NewPotManager(players)
	pm.CollectBets(players)

	pots := pm.GetPots()
	require.Len(t, pots, 2)
	require.ElementsMatch(t, []int{0, 2}, pots[0].Eligible)
	require.ElementsMatch(t, []int{2}, pots[1].Eligible)
}

func TestDistributeRemainderGoesClosestClockwiseFromDealer(t *testing.T) {
	t.Parallel()
	pots := []Pot{{Amount: 101, Eligible: []int{0, 2}}}
	winners := map[int][]int{0: {0, 2}}

	// Button is seat 3: clockwise order from dealer is 0, 1, 2, 3. Seat 0 is
	// the first eligible winner encountered after the button, so it gets
	// the extra chip.
	payouts := Distribute(pots, winners, 3, 4)
	require.Equal(t, 51, payouts[0])
	require.Equal(t, 50, payouts[2])
}

func TestDistributeSplitsEvenlyWithNoRemainder(t *testing.T) {
	t.Parallel()
	pots := []Pot{{Amount: 100, Eligible: []int{0, 1}}}
	winners := map[int][]int{0: {0, 1}}

	payouts := Distribute(pots, winners, 0, 2)
	require.Equal(t, 50, payouts[0])
	require.Equal(t, 50, payouts[1])
}
