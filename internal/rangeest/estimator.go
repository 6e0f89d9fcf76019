package rangeest

import (
	"fmt"
	"math/rand"
	"slices"

	"github.com/lox/pokerengine/internal/engine"
	"github.com/lox/pokerengine/internal/equity"
	"github.com/lox/pokerengine/poker"
)

// minObservedHands is the threshold below which a player's own statistics
// are considered too thin and the estimator falls back to a standard
// position/table-size range instead.
const minObservedHands = 30

// StatsSnapshot is the subset of a player's aggregate behavioral statistics
// the estimator needs to seed a preflop range. internal/statstore produces
// values in this shape; rangeest does not import that package, so callers
// assemble the snapshot themselves and there is no import cycle.
type StatsSnapshot struct {
	HandsObserved int
	VPIP          float64
	PFR           float64
	ThreeBet      float64
	FourBet       float64
	CallThreeBet  float64
}

// standardOpenPercentile gives a baseline opening percentile by position,
// used when a player's own statistics are too thin to trust (see
// minObservedHands). Values are approximate real-world opening frequencies
// consistent with the position-keyed ranges in sdk/bots/complex/strategy.go
// (UTG ~ 77+/AJo+/A5s+ is roughly a 10% range, Button's much wider range is
// roughly 45%).
func standardOpenPercentile(pos engine.Position) float64 {
	switch pos {
	case engine.UnderTheGun:
		return 10
	case engine.UTGPlus1:
		return 13
	case engine.UTGPlus2:
		return 16
	case engine.Middle:
		return 20
	case engine.MiddlePlus1:
		return 25
	case engine.Late:
		return 30
	case engine.Cutoff:
		return 35
	case engine.Button:
		return 45
	case engine.SmallBlind:
		return 28
	case engine.BigBlind:
		return 35
	default:
		return 20
	}
}

func isEarlyPosition(pos engine.Position) bool {
	switch pos {
	case engine.UnderTheGun, engine.UTGPlus1, engine.UTGPlus2:
		return true
	}
	return false
}

func isLatePosition(pos engine.Position) bool {
	switch pos {
	case engine.Late, engine.Cutoff, engine.Button:
		return true
	}
	return false
}

func clampPercent(pct float64) float64 {
	if pct < 1 {
		return 1
	}
	if pct > 100 {
		return 100
	}
	return pct
}

// Estimator tracks one opponent's plausible range across a hand.
type Estimator struct {
	Seat      int
	Current   *Range
	Anomalies []string
}

// NewEstimator returns an estimator with an empty starting range.
func NewEstimator(seat int) *Estimator {
	return &Estimator{Seat: seat, Current: NewRange()}
}

// InitializeRange selects the preflop opening percentile per §4.4: a
// table-size-keyed base percentile (from the player's own VPIP once enough
// hands are observed, else a standard position table), adjusted by
// position and the current raise/pot-odds pressure, then clamped to
// [1,100] and expanded to concrete combinations with known cards removed.
func (e *Estimator) InitializeRange(pos engine.Position, bucket TableBucket, potOdds float64, raisesBefore int, stats StatsSnapshot, veryLooseMode bool, rng *rand.Rand, known poker.Hand) {
	basePercentile := standardOpenPercentile(pos)
	if stats.HandsObserved >= minObservedHands {
		basePercentile = clampPercent(stats.VPIP * 100)
	}

	modifier := 1.0
	switch {
	case isEarlyPosition(pos):
		modifier *= 0.9
	case isLatePosition(pos):
		modifier *= 1.45
	}

	if raisesBefore >= 2 {
		// Stiff 3-bet-or-more scenario: tighten further, more so when
		// pot odds are poor (calling/continuing is less justified).
		squeeze := 0.7 - potOdds*0.4
		if squeeze > 0.7 {
			squeeze = 0.7
		}
		if squeeze < 0.3 {
			squeeze = 0.3
		}
		modifier *= squeeze
	}

	if veryLooseMode {
		modifier *= 1.2
	}

	finalPercentile := clampPercent(basePercentile * modifier)

	categories := Tables(rng)[bucket].TopPercent(finalPercentile)
	r := NewRange()
	for _, cat := range categories {
		// Category notation round-trips through ParseRange's single-hand
		// parser (handles "AA", "AKs", "AKo" alike).
		if err := r.addRangePart(cat); err != nil {
			continue
		}
	}
	r.FilterBoardConsistency(known)
	e.Current = r
}

// NarrowingContext is the (street, action, board, raises this street)
// tuple the predicate table is indexed by, plus two player-type flags; it
// carries no position. Per spec.md's own open-question
// resolution, this rule table is implementation-defined; the three rules
// below are the illustrative examples spec.md gives, generalized slightly.
type NarrowingContext struct {
	Street           engine.Street
	Action           engine.ActionType
	Board            poker.Hand
	RaisesThisStreet int
	IsBluffer        bool
	IsCallingStation bool
}

// Narrow applies the post-action narrowing predicate, then enforces the
// monotonic-narrowing invariant: it computes candidates-to-remove first,
// and only applies the removal if doing so would not empty the range. If
// it would, the prior range is kept and an anomaly is recorded instead of
// ever re-expanding the range.
func (e *Estimator) Narrow(ctx NarrowingContext) {
	combos := e.Current.Hands()
	if len(combos) == 0 {
		return
	}

	toRemove := make([]poker.Hand, 0, len(combos))
	for _, combo := range combos {
		if shouldRemove(combo, ctx) {
			toRemove = append(toRemove, combo)
		}
	}

	if len(toRemove) == len(combos) {
		e.Anomalies = append(e.Anomalies, fmt.Sprintf(
			"seat %d: %s %s on %s would empty the range; keeping prior range",
			e.Seat, ctx.Action, ctx.Street, ctx.Board))
		return
	}

	next := e.Current.Clone()
	for _, combo := range toRemove {
		next.Remove(combo)
	}
	next.FilterBoardConsistency(ctx.Board)
	e.Current = next
}

// shouldRemove implements the illustrative predicate rules from §4.4.
func shouldRemove(combo poker.Hand, ctx NarrowingContext) bool {
	madePairOrBetter := hasPairOrBetter(combo, ctx.Board)
	draws := equity.DetectDraws(combo, ctx.Board)
	hasOvercards := slices.Contains(draws.Draws, equity.Overcards)

	switch {
	case ctx.Street == engine.Flop && (ctx.Action == engine.Raise || ctx.Action == engine.AllIn):
		// Flop bet or raise, from any position: no pair, no draw, no
		// overcards. The actor's position is not considered.
		if ctx.IsBluffer {
			return false
		}
		return !madePairOrBetter && !draws.HasStrongDraw() && !draws.HasWeakDraw() && !hasOvercards

	case ctx.Street == engine.Flop && ctx.Action == engine.Call && ctx.RaisesThisStreet >= 2:
		// Flop call facing two or more raises this street: no pair and no
		// strong draw. Whether the caller checked earlier in the street
		// (a check-raise line) is not tracked.
		return !madePairOrBetter && !draws.HasStrongDraw()

	case ctx.Street == engine.River && ctx.Action == engine.Call && ctx.RaisesThisStreet >= 3:
		// River call facing three or more raises on the river itself: no
		// pair, unless a known calling station. Bets on earlier streets
		// (a flop-turn-river three-barrel) are not counted.
		if ctx.IsCallingStation {
			return false
		}
		return !madePairOrBetter
	}

	return false
}

// hasPairOrBetter reports whether combo plus board makes at least a pair
// of some rank, counted across both hole cards and the board.
func hasPairOrBetter(combo, board poker.Hand) bool {
	combined := combo | board
	var counts [13]int
	for i := 0; i < 52; i++ {
		c := poker.Card(1) << i
		if combined.HasCard(c) {
			counts[c.Rank()]++
		}
	}
	for _, n := range counts {
		if n >= 2 {
			return true
		}
	}
	return false
}
