package strategy

import (
	"math/rand"
	"slices"

	"github.com/lox/pokerengine/internal/engine"
	"github.com/lox/pokerengine/internal/rangeest"
)

// Strategy produces one action for the seat on the move, given a complete
// read-only snapshot of the hand. Implementations hold no mutable state of
// their own beyond a profile's fixed parameters and its share of the
// Randomizer port; everything hand-specific comes in through ctx.
type Strategy interface {
	Decide(ctx CurrentHandContext) engine.PlayerAction
}

// profile bundles the shared decision skeleton with the four tunable knobs
// that differentiate the bot personalities described in the spec: how wide
// a range to open and defend with, how often to bluff when dealt the
// chance, and how strongly to press an edge once raising is correct.
type profile struct {
	tables *Tables
	rng    *rand.Rand

	openPercentile   float64 // fraction of rangeest's strength-ordered preflop categories treated as "in range" at this profile's tightness
	threebetBluffFreq float64
	postflopBluffFreq float64
	aggressionFactor  float64 // multiplies the matrix's base bet sizing
}

func fold(seat int) engine.PlayerAction   { return engine.PlayerAction{Seat: seat, Type: engine.Fold} }
func check(seat int) engine.PlayerAction  { return engine.PlayerAction{Seat: seat, Type: engine.Check} }
func callAction(seat, amount int) engine.PlayerAction {
	return engine.PlayerAction{Seat: seat, Type: engine.Call, Amount: amount}
}

func canAct(legal []engine.ActionType, t engine.ActionType) bool {
	return slices.Contains(legal, t)
}

// Decide runs the shared skeleton: preflop range membership and 3-bet
// bluffing, or postflop hand classification against the PostflopMatrix,
// with a fold-equity check against the opponent's bet size at every street.
func (p *profile) Decide(ctx CurrentHandContext) engine.PlayerAction {
	seat := ctx.Hero.Seat
	toCall := ctx.Table.HighestBet - ctx.Hero.CurrentBet

	if ctx.Table.Street == engine.Preflop {
		return p.decidePreflop(ctx, seat, toCall)
	}
	return p.decidePostflop(ctx, seat, toCall)
}

// openingRange derives this profile's preflop opening range for the
// current table size by taking the top openPercentile of the lazily-built
// Monte Carlo preflop tables (internal/rangeest), rather than a single
// static range shared by every profile: a Maniac opens far more categories
// than an UltraTight profile at the same table size and position.
func (p *profile) openingRange(numStillActing int) *rangeest.Range {
	bucket := rangeest.BucketForTableSize(numStillActing)
	table := rangeest.Tables(p.rng)[bucket]
	categories := table.TopPercent(p.openPercentile * 100)
	r := rangeest.NewRange()
	for _, cat := range categories {
		r.AddCategory(cat)
	}
	return r
}

func (p *profile) decidePreflop(ctx CurrentHandContext, seat, toCall int) engine.PlayerAction {
	r := p.openingRange(ctx.Table.NumStillActing)
	inOpeningRange := r.ContainsHand(ctx.Hero.HoleCards)

	if toCall <= 0 {
		if inOpeningRange && canAct(ctx.LegalActions, engine.Raise) {
			return engine.PlayerAction{Seat: seat, Type: engine.Raise, Amount: ctx.Table.MinRaise * 3}
		}
		if canAct(ctx.LegalActions, engine.Check) {
			return check(seat)
		}
		return fold(seat)
	}

	betPct := potFraction(toCall, ctx.Table.Pot)
	minEquity := p.tables.FoldThresholdValue(engine.Preflop, betPct)

	if inOpeningRange && ctx.Equity.Stats.Equity() >= minEquity {
		if canAct(ctx.LegalActions, engine.Raise) && p.rng.Float64() < p.threebetBluffFreq+equityAggressionBonus(ctx, p.aggressionFactor) {
			return engine.PlayerAction{Seat: seat, Type: engine.Raise, Amount: ctx.Table.HighestBet + ctx.Table.MinRaise*2}
		}
		if canAct(ctx.LegalActions, engine.Call) {
			return callAction(seat, ctx.Table.HighestBet)
		}
	}

	if !inOpeningRange && ctx.Hero.CanBluffThisHand && p.rng.Float64() < p.threebetBluffFreq {
		if bluffRange := p.tables.PreflopRangeFor(ctx.Hero.Position, "3bet_bluff"); bluffRange != nil &&
			bluffRange.ContainsHand(ctx.Hero.HoleCards) && canAct(ctx.LegalActions, engine.Raise) {
			return engine.PlayerAction{Seat: seat, Type: engine.Raise, Amount: ctx.Table.HighestBet + ctx.Table.MinRaise*2}
		}
	}

	if canAct(ctx.LegalActions, engine.Check) {
		return check(seat)
	}
	return fold(seat)
}

func (p *profile) decidePostflop(ctx CurrentHandContext, seat, toCall int) engine.PlayerAction {
	handClass := classifyHandClass(ctx.Equity.Postflop)
	canCheck := canAct(ctx.LegalActions, engine.Check)
	multiway := ctx.Table.NumStillActing > 2
	spr := stackToPotRatio(ctx.Hero.Chips, ctx.Table.Pot)

	action, sizePct := p.tables.PostflopDecision(handClass, canCheck, spr, multiway)

	if shouldPotControl(ctx.Equity.Postflop, spr) && action == engine.Raise {
		action, sizePct = engine.Call, 0
		if !canAct(ctx.LegalActions, engine.Call) {
			action = engine.Check
		}
	}

	if toCall > 0 {
		betPct := potFraction(toCall, ctx.Table.Pot)
		minEquity := p.tables.FoldThresholdValue(ctx.Table.Street, betPct)
		if ctx.Equity.Stats.Equity() < minEquity && action != engine.Raise {
			if ctx.Hero.CanBluffThisHand && p.rng.Float64() < p.postflopBluffFreq && canAct(ctx.LegalActions, engine.Raise) {
				return engine.PlayerAction{Seat: seat, Type: engine.Raise, Amount: ctx.Table.HighestBet + raiseSize(ctx, sizePct, p.aggressionFactor)}
			}
			return fold(seat)
		}
	}

	switch action {
	case engine.Raise:
		if !canAct(ctx.LegalActions, engine.Raise) {
			if canAct(ctx.LegalActions, engine.Call) {
				return callAction(seat, ctx.Table.HighestBet)
			}
			return fold(seat)
		}
		return engine.PlayerAction{Seat: seat, Type: engine.Raise, Amount: ctx.Table.HighestBet + raiseSize(ctx, sizePct, p.aggressionFactor)}
	case engine.Call:
		if canCheck {
			return check(seat)
		}
		if canAct(ctx.LegalActions, engine.Call) {
			return callAction(seat, ctx.Table.HighestBet)
		}
		return fold(seat)
	case engine.Check:
		if canCheck {
			return check(seat)
		}
		return fold(seat)
	default:
		return fold(seat)
	}
}

func potFraction(amount, pot int) float64 {
	if pot <= 0 {
		return 999
	}
	return float64(amount) / float64(pot)
}

func raiseSize(ctx CurrentHandContext, sizePct, aggressionFactor float64) int {
	return computeRaiseAmount(ctx.Table.Pot, sizePct*aggressionFactor, ctx.Hero.Chips)
}

// equityAggressionBonus nudges the 3-bet/raise frequency up the further
// hero's equity sits above 50%, scaled by the profile's aggression factor.
func equityAggressionBonus(ctx CurrentHandContext, aggressionFactor float64) float64 {
	margin := ctx.Equity.Stats.Equity() - 0.5
	if margin <= 0 {
		return 0
	}
	return margin * aggressionFactor * 0.3
}

// NewUltraTight builds the nittiest profile: plays a narrow opening range,
// almost never bluffs, and sizes up only with genuinely strong hands.
func NewUltraTight(tables *Tables, rng *rand.Rand) Strategy {
	return &profile{tables: tables, rng: rng, openPercentile: 0.12, threebetBluffFreq: 0.02, postflopBluffFreq: 0.03, aggressionFactor: 0.8}
}

// NewTightAggressive builds a standard TAG profile: a conventional
// positional opening range with moderate, well-timed aggression.
func NewTightAggressive(tables *Tables, rng *rand.Rand) Strategy {
	return &profile{tables: tables, rng: rng, openPercentile: 0.20, threebetBluffFreq: 0.08, postflopBluffFreq: 0.10, aggressionFactor: 1.0}
}

// NewLooseAggressive builds a LAG profile: a much wider opening range and
// a higher bluff frequency at every street.
func NewLooseAggressive(tables *Tables, rng *rand.Rand) Strategy {
	return &profile{tables: tables, rng: rng, openPercentile: 0.35, threebetBluffFreq: 0.18, postflopBluffFreq: 0.22, aggressionFactor: 1.3}
}

// NewManiac builds the loosest, most aggressive profile: plays almost any
// two cards and leans on raises well past what equity alone would justify.
func NewManiac(tables *Tables, rng *rand.Rand) Strategy {
	return &profile{tables: tables, rng: rng, openPercentile: 0.55, threebetBluffFreq: 0.35, postflopBluffFreq: 0.40, aggressionFactor: 1.7}
}
