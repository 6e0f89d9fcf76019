package engine

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPositionAtHeadsUp(t *testing.T) {
	t.Parallel()
	require.Equal(t, Button, PositionAt(0, 2))
	require.Equal(t, BigBlind, PositionAt(1, 2))
}

func TestPositionAtSixHanded(t *testing.T) {
	t.Parallel()
	require.Equal(t, Button, PositionAt(0, 6))
	require.Equal(t, SmallBlind, PositionAt(1, 6))
	require.Equal(t, BigBlind, PositionAt(2, 6))
	require.Equal(t, UnderTheGun, PositionAt(3, 6))
	require.Equal(t, UTGPlus1, PositionAt(4, 6))
	require.Equal(t, Cutoff, PositionAt(5, 6))
}

func TestPositionAtFullRing(t *testing.T) {
	t.Parallel()
	require.Equal(t, Cutoff, PositionAt(9, 10))
	require.Equal(t, Late, PositionAt(8, 10))
}

func TestPositionAtWrapsOffset(t *testing.T) {
	t.Parallel()
	require.Equal(t, PositionAt(0, 6), PositionAt(6, 6))
	require.Equal(t, PositionAt(2, 6), PositionAt(-4, 6))
}
