package engine

import "github.com/lox/pokerengine/poker"

// ShowdownReveal computes the order hands are turned up at showdown and
// which of those seats are required to show rather than muck. Order starts
// from the last aggressor of the final betting round and proceeds
// clockwise; a street that closed with no raise (checked through, or
// skipped entirely by an all-in runout) falls back to the first
// non-folded seat clockwise from the button. When the pot was contested
// entirely by all-in players with no further action possible, every
// non-folded seat must show; otherwise a seat may muck only if its hand
// is strictly worse than every hand already shown — tracked as the worst
// rank shown so far, since the global winner's hand is never strictly
// worse than anything and so always ends up required to show.
func (h *HandState) ShowdownReveal() (order []int, mustShow map[int]bool) {
	nonFolded := make(map[int]bool)
	for _, p := range h.Players {
		if !p.Folded {
			nonFolded[p.Seat] = true
		}
	}
	if len(nonFolded) == 0 {
		return nil, map[int]bool{}
	}

	start := h.LastAggressor
	if start < 0 || !nonFolded[start] {
		start = h.firstNonFoldedFrom((h.Button + 1) % len(h.Players))
	}

	n := len(h.Players)
	order = make([]int, 0, len(nonFolded))
	for i := 0; i < n; i++ {
		seat := (start + i) % n
		if nonFolded[seat] {
			order = append(order, seat)
		}
	}

	mustShow = make(map[int]bool, len(order))
	if h.allInShowdown() {
		for _, seat := range order {
			mustShow[seat] = true
		}
		return order, mustShow
	}

	var worstShown poker.HandRank
	for i, seat := range order {
		rank := poker.Evaluate7Cards(h.Players[seat].HoleCards | h.Board)
		if i == 0 || poker.CompareHands(rank, worstShown) >= 0 {
			mustShow[seat] = true
			if i == 0 || poker.CompareHands(rank, worstShown) < 0 {
				worstShown = rank
			}
		}
	}
	return order, mustShow
}

// allInShowdown reports whether at most one non-folded seat still has
// chips behind it, meaning no further betting was possible and the rule
// that lets a beaten hand muck doesn't apply: everyone still in turns their
// cards up.
func (h *HandState) allInShowdown() bool {
	canStillAct := 0
	for _, p := range h.Players {
		if !p.Folded && p.Chips > 0 {
			canStillAct++
		}
	}
	return canStillAct <= 1
}

func (h *HandState) firstNonFoldedFrom(from int) int {
	n := len(h.Players)
	for i := 0; i < n; i++ {
		seat := (from + i) % n
		if !h.Players[seat].Folded {
			return seat
		}
	}
	return -1
}
