package engine

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestActionTypeStringIncludesBlindPosts(t *testing.T) {
	t.Parallel()
	require.Equal(t, "bet", Bet.String())
	require.Equal(t, "post_small_blind", PostSmallBlind.String())
	require.Equal(t, "post_big_blind", PostBigBlind.String())
}
