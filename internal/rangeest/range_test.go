package rangeest

import (
	"testing"

	"github.com/lox/pokerengine/poker"
	"github.com/stretchr/testify/require"
)

func card(t *testing.T, s string) poker.Card {
	t.Helper()
	c, err := poker.ParseCard(s)
	require.NoError(t, err)
	return c
}

func TestParseRangePocketPairHasSixCombos(t *testing.T) {
	t.Parallel()
	r, err := ParseRange("AA")
	require.NoError(t, err)
	require.Equal(t, 6, r.Size())
}

func TestParseRangeSuitedHasFourCombos(t *testing.T) {
	t.Parallel()
	r, err := ParseRange("AKs")
	require.NoError(t, err)
	require.Equal(t, 4, r.Size())

	hand := poker.Hand(card(t, "As")) | poker.Hand(card(t, "Ks"))
	require.True(t, r.ContainsHand(hand))

	offsuit := poker.Hand(card(t, "As")) | poker.Hand(card(t, "Kh"))
	require.False(t, r.ContainsHand(offsuit))
}

func TestParseRangeOffsuitHasTwelveCombos(t *testing.T) {
	t.Parallel()
	r, err := ParseRange("AKo")
	require.NoError(t, err)
	require.Equal(t, 12, r.Size())
}

func TestParseRangeUnsuffixedExpandsBoth(t *testing.T) {
	t.Parallel()
	r, err := ParseRange("AK")
	require.NoError(t, err)
	require.Equal(t, 16, r.Size()) // 4 suited + 12 offsuit
}

func TestParseRangeConcreteCombo(t *testing.T) {
	t.Parallel()
	r, err := ParseRange("AhKh")
	require.NoError(t, err)
	require.Equal(t, 1, r.Size())

	hand := poker.Hand(card(t, "Ah")) | poker.Hand(card(t, "Kh"))
	require.True(t, r.ContainsHand(hand))
}

func TestParseRangePlusPocketPair(t *testing.T) {
	t.Parallel()
	r, err := ParseRange("QQ+")
	require.NoError(t, err)
	require.Equal(t, 18, r.Size()) // QQ, KK, AA -> 6 combos each
}

func TestParseRangePlusSuited(t *testing.T) {
	t.Parallel()
	r, err := ParseRange("ATs+")
	require.NoError(t, err)
	// ATs, AJs, AQs, AKs -> 4 combos each
	require.Equal(t, 16, r.Size())
}

func TestParseRangeRejectsMalformedAtom(t *testing.T) {
	t.Parallel()
	_, err := ParseRange("ZZ")
	require.Error(t, err)
}

func TestParseRangeCommaSeparatedUnion(t *testing.T) {
	t.Parallel()
	r, err := ParseRange("AA,KK,AKs")
	require.NoError(t, err)
	require.Equal(t, 16, r.Size()) // 6 + 6 + 4
}

func TestFilterBoardConsistencyRemovesConflicts(t *testing.T) {
	t.Parallel()
	r, err := ParseRange("AA")
	require.NoError(t, err)
	require.Equal(t, 6, r.Size())

	known := poker.Hand(card(t, "As"))
	r.FilterBoardConsistency(known)

	// 3 of the 6 AA combos use the ace of spades.
	require.Equal(t, 3, r.Size())
	for _, h := range r.Hands() {
		require.False(t, h.HasCard(card(t, "As")))
	}
}

func TestCloneIsIndependent(t *testing.T) {
	t.Parallel()
	r, err := ParseRange("AA")
	require.NoError(t, err)

	clone := r.Clone()
	clone.Remove(clone.Hands()[0])

	require.Equal(t, 6, r.Size())
	require.Equal(t, 5, clone.Size())
}
