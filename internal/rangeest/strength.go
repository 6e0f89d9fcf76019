package rangeest

import (
	"slices"

	"github.com/lox/pokerengine/poker"
)

// StrengthResult is the opponents-strength evaluator's output (§4.5): for
// every opponent, the fraction of their surviving range that beats hero's
// hand, plus a shortcut to the single most dangerous opponent.
type StrengthResult struct {
	PerOpponent map[int]float64
	MaxSeat     int
	MaxStrength float64
}

// EvaluateOpponentsStrength is purely functional: given hero's hand rank,
// the board, hero's own hole cards (to exclude conflicting combos), and
// each live opponent's estimated range, it computes what fraction of each
// opponent's surviving combinations currently beat hero. It performs no
// mutation of any range.
func EvaluateOpponentsStrength(heroRank poker.HandRank, board, heroCards poker.Hand, ranges map[int]*Range) StrengthResult {
	result := StrengthResult{PerOpponent: make(map[int]float64, len(ranges)), MaxSeat: -1}
	known := board | heroCards

	seats := make([]int, 0, len(ranges))
	for seat := range ranges {
		seats = append(seats, seat)
	}
	slices.Sort(seats)

	for _, seat := range seats {
		r := ranges[seat]
		beats, total := 0, 0
		for _, combo := range r.Hands() {
			if combo&known != 0 {
				continue
			}
			total++
			oppRank := poker.Evaluate(combo | board)
			if oppRank > heroRank {
				beats++
			}
		}

		var strength float64
		if total > 0 {
			strength = float64(beats) / float64(total)
		}
		result.PerOpponent[seat] = strength

		if strength > result.MaxStrength || result.MaxSeat == -1 {
			result.MaxStrength = strength
			result.MaxSeat = seat
		}
	}

	return result
}
