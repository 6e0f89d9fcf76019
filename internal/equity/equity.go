package equity

import (
	"context"
	"math"
	"math/rand"
	"runtime"

	"github.com/lox/pokerengine/poker"
	"golang.org/x/sync/errgroup"
)

// Result is the outcome of a Monte Carlo equity simulation.
type Result struct {
	Wins             uint32
	Ties             uint32
	TotalSimulations uint32
}

// Equity returns overall equity in [0,1], wins counting fully and ties half.
func (r Result) Equity() float64 {
	if r.TotalSimulations == 0 {
		return 0
	}
	return (float64(r.Wins) + float64(r.Ties)*0.5) / float64(r.TotalSimulations)
}

// ConfidenceInterval returns the 95% confidence interval around Equity,
// using the normal approximation to the binomial proportion.
func (r Result) ConfidenceInterval() (lower, upper float64) {
	equity := r.Equity()
	n := float64(r.TotalSimulations)
	if n == 0 {
		return 0, 0
	}
	se := math.Sqrt(equity * (1 - equity) / n)
	margin := 1.96 * se
	return math.Max(0, equity-margin), math.Min(1, equity+margin)
}

type workerResult struct {
	wins, ties, samples int
}

// maxWorkers caps the parallel fan-out at 8 for diminishing returns beyond
// that on a typical simulation-batch size.
const maxWorkers = 8

// SimulateEquity runs a parallel Monte Carlo simulation of hero's hole
// cards against `opponents` random hands, given 0-5 known board cards.
// Work is split evenly across an errgroup worker pool, each worker running
// on its own RNG stream derived from rng so results stay reproducible
// given a fixed seed and worker count.
func SimulateEquity(ctx context.Context, hero poker.Hand, board poker.Hand, opponents, simulations int, rng *rand.Rand) (Result, error) {
	if hero.CountCards() != 2 {
		return Result{}, nil
	}
	if opponents < 1 {
		opponents = 1
	}

	used := hero | board
	available := make([]poker.Card, 0, 52-used.CountCards())
	for i := 0; i < 52; i++ {
		c := poker.Card(1) << i
		if !used.HasCard(c) {
			available = append(available, c)
		}
	}

	workers := runtime.NumCPU()
	if workers > maxWorkers {
		workers = maxWorkers
	}
	if workers > simulations {
		workers = simulations
	}
	if workers < 1 {
		workers = 1
	}

	g, gctx := errgroup.WithContext(ctx)
	results := make([]workerResult, workers)

	perWorker := simulations / workers
	remainder := simulations % workers

	for w := 0; w < workers; w++ {
		w := w
		n := perWorker
		if w < remainder {
			n++
		}
		workerSeed := rng.Int63()
		g.Go(func() error {
			workerRng := rand.New(rand.NewSource(workerSeed))
			results[w] = runWorker(gctx, hero, board, available, opponents, n, workerRng)
			return gctx.Err()
		})
	}

	if err := g.Wait(); err != nil {
		return Result{}, err
	}

	var wins, ties, samples int
	for _, r := range results {
		wins += r.wins
		ties += r.ties
		samples += r.samples
	}

	return Result{Wins: uint32(wins), Ties: uint32(ties), TotalSimulations: uint32(samples)}, nil
}

func runWorker(ctx context.Context, hero, board poker.Hand, available []poker.Card, opponents, samples int, rng *rand.Rand) workerResult {
	var result workerResult
	needed := 5 - board.CountCards()

	for i := 0; i < samples; i++ {
		if i%256 == 0 && ctx.Err() != nil {
			return result
		}

		shuffled := make([]poker.Card, len(available))
		copy(shuffled, available)
		for j := len(shuffled) - 1; j > 0; j-- {
			k := rng.Intn(j + 1)
			shuffled[j], shuffled[k] = shuffled[k], shuffled[j]
		}

		if needed+opponents*2 > len(shuffled) {
			continue
		}

		idx := 0
		finalBoard := board
		for n := 0; n < needed; n++ {
			finalBoard.AddCard(shuffled[idx])
			idx++
		}

		heroRank := poker.Evaluate7Cards(hero | finalBoard)

		heroWins, tied := true, false
		for o := 0; o < opponents; o++ {
			oppHand := poker.NewHand(shuffled[idx], shuffled[idx+1])
			idx += 2
			oppRank := poker.Evaluate7Cards(oppHand | finalBoard)
			switch poker.CompareHands(heroRank, oppRank) {
			case -1:
				heroWins = false
			case 0:
				tied = true
			}
		}

		result.samples++
		if heroWins {
			if tied {
				result.ties++
			} else {
				result.wins++
			}
		}
	}

	return result
}

// PairPosition classifies where a pairing hole card ranks relative to the
// board, when the made hand is exactly one pair.
type PairPosition int

const (
	NoPairPosition PairPosition = iota
	OverPair                    // pocket pair above every board card
	TopPair
	MiddlePair
	BottomPair
)

// PostflopFlags is the structural summary the range estimator and bot
// strategies use to reason about a hand on an unfinished board, without
// running a full equity simulation.
type PostflopFlags struct {
	Texture             BoardTexture
	Draws               DrawInfo
	HandType            poker.HandRank // HighCard..StraightFlush, 0 if board has fewer than 3 cards
	MadeTwoPairOrBetter bool
	Pair                PairPosition
}

// evaluateCombined dispatches to the right evaluator for however many
// cards are currently in play, returning 0 when there are fewer than 5.
func evaluateCombined(combined poker.Hand) poker.HandRank {
	switch combined.CountCards() {
	case 5:
		return poker.Evaluate5Cards(combined)
	case 6:
		return poker.EvaluateTurn(combined)
	case 7:
		return poker.Evaluate7Cards(combined)
	default:
		return 0
	}
}

// classifyPairPosition determines, for a made one-pair hand, whether the
// pairing rank is a pocket overpair or ranks top/middle/bottom relative to
// the board's own ranks. Returns NoPairPosition if the best hand isn't
// exactly one pair or holeCards don't contribute the pair.
func classifyPairPosition(holeCards, board poker.Hand, handType poker.HandRank) PairPosition {
	if handType != poker.Pair {
		return NoPairPosition
	}

	holeRanks := holeCards.GetRankMask()
	boardRanks := board.GetRankMask()

	var holeRankList []int
	for r := 0; r < 13; r++ {
		if holeRanks&(1<<r) != 0 {
			holeRankList = append(holeRankList, r)
		}
	}

	// Pocket pair: both hole cards share a rank not on the board.
	if len(holeRankList) == 1 {
		pairRank := holeRankList[0]
		if boardRanks&(1<<pairRank) == 0 {
			for r := 0; r < 13; r++ {
				if boardRanks&(1<<r) != 0 && r > pairRank {
					return NoPairPosition // board has overcards; not an overpair, and it's not the made pair either
				}
			}
			return OverPair
		}
	}

	// Paired with a board card: find which hole rank matched.
	var pairedRank = -1
	for _, r := range holeRankList {
		if boardRanks&(1<<r) != 0 {
			pairedRank = r
			break
		}
	}
	if pairedRank < 0 {
		return NoPairPosition
	}

	var sortedBoard []int
	for r := 12; r >= 0; r-- {
		if boardRanks&(1<<r) != 0 {
			sortedBoard = append(sortedBoard, r)
		}
	}
	if len(sortedBoard) == 0 {
		return NoPairPosition
	}
	switch {
	case pairedRank == sortedBoard[0]:
		return TopPair
	case pairedRank == sortedBoard[len(sortedBoard)-1]:
		return BottomPair
	default:
		return MiddlePair
	}
}

// AnalyzePostflop combines board texture, draw detection, and made-hand
// classification into one flag set for a given hole-cards/board
// combination. Fields that require a complete hand (HandType,
// MadeTwoPairOrBetter, Pair) stay at their zero value before the flop, or
// on a board with fewer than 3 cards, rather than being evaluated against
// a fabricated card.
func AnalyzePostflop(holeCards, board poker.Hand) PostflopFlags {
	combined := holeCards | board
	handType := evaluateCombined(combined).Type()

	return PostflopFlags{
		Texture:             AnalyzeBoardTexture(board),
		Draws:               DetectDraws(holeCards, board),
		HandType:            handType,
		MadeTwoPairOrBetter: handType >= poker.TwoPair,
		Pair:                classifyPairPosition(holeCards, board, handType),
	}
}
