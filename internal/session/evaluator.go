package session

import "github.com/lox/pokerengine/poker"

// HandEvaluator is the Hand Evaluator port (§4.6/§6): the one capability
// the context builder needs to rank a made hand. Kept as an interface
// rather than a direct dependency on the poker package so the port stays
// swappable, per §6's port-contract language, even though this repo ships
// exactly one concrete implementation.
type HandEvaluator interface {
	Evaluate(holeCards, board poker.Hand) poker.HandRank
}

// PokerPackageEvaluator is the concrete Hand Evaluator port implementation,
// backed directly by the poker package's own 7-card evaluator.
type PokerPackageEvaluator struct{}

// Evaluate ranks the best hand obtainable from holeCards plus board. Preflop
// (fewer than 5 known cards) has no made-hand ranking yet and returns a
// zero HandRank; poker.Evaluate itself dispatches flop/turn/river (5/6/7
// cards) to the matching evaluator.
func (PokerPackageEvaluator) Evaluate(holeCards, board poker.Hand) poker.HandRank {
	combined := holeCards | board
	if combined.CountCards() < 5 {
		return 0
	}
	return poker.Evaluate(combined)
}

var _ HandEvaluator = PokerPackageEvaluator{}
