package engine

import (
	"testing"

	"github.com/lox/pokerengine/internal/randutil"
	"github.com/stretchr/testify/require"
)

func TestCheckChipConservationHoldsAfterBlinds(t *testing.T) {
	t.Parallel()
	h := newTestHand(t, []string{"Alice", "Bob", "Charlie"}, []int{1000, 1000, 1000}, 0)

	starting := map[int]int{0: 1000, 1: 1000, 2: 1000}
	require.NoError(t, CheckChipConservation(h.Players, h.PotManager.GetPots(), starting))
}

func TestCheckChipConservationCatchesFabricatedChips(t *testing.T) {
	t.Parallel()
	h := newTestHand(t, []string{"Alice", "Bob"}, []int{1000, 1000}, 0)

	starting := map[int]int{0: 1000, 1: 999} // one chip short of reality
	require.Error(t, CheckChipConservation(h.Players, h.PotManager.GetPots(), starting))
}
