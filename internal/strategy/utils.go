package strategy

import (
	"github.com/lox/pokerengine/internal/equity"
	"github.com/lox/pokerengine/poker"
)

// classifyHandClass buckets a made hand plus its draws into the coarse
// classes the PostflopMatrix keys on. Made hands take priority over draws:
// a flush with a gutshot redraw is still "TripsPlus"-or-better territory,
// not a draw row.
func classifyHandClass(flags equity.PostflopFlags) string {
	switch {
	case flags.HandType >= poker.ThreeOfAKind:
		return "TripsPlus"
	case flags.HandType == poker.TwoPair:
		return "TwoPair"
	case flags.HandType == poker.Pair && (flags.Pair == equity.TopPair || flags.Pair == equity.OverPair):
		return "TopPair"
	}

	if flags.Draws.HasStrongDraw() {
		if flags.HandType == poker.Pair {
			return "ComboDraw"
		}
		return "StrongDraw"
	}
	if flags.Draws.HasWeakDraw() {
		return "WeakDraw"
	}
	return "Air"
}

// stackToPotRatio computes SPR from the effective stack behind and the
// current pot, guarding the degenerate empty-pot case.
func stackToPotRatio(effectiveStack, pot int) float64 {
	if pot <= 0 {
		return 999
	}
	return float64(effectiveStack) / float64(pot)
}

// computeRaiseAmount turns a pot-fraction sizing into a chip amount,
// clamped to the actor's remaining chips (an all-in shove when the sizing
// would otherwise exceed the stack).
func computeRaiseAmount(pot int, sizePct float64, chips int) int {
	amount := int(float64(pot) * sizePct)
	if amount < 1 {
		amount = 1
	}
	if amount > chips {
		amount = chips
	}
	return amount
}

// shouldPotControl reports whether a hand that is good but vulnerable
// (two pair or weaker on a very wet board, or one pair or less on any
// street with a stack-to-pot ratio above 6) should favor checking/calling over
// building the pot, to keep variance and bluff-raise exposure down.
func shouldPotControl(flags equity.PostflopFlags, spr float64) bool {
	if flags.HandType >= poker.FullHouse {
		return false
	}
	if flags.Texture == equity.VeryWet && flags.HandType <= poker.TwoPair {
		return true
	}
	return spr > 6 && flags.HandType <= poker.Pair
}
