package strategy

import (
	"github.com/lox/pokerengine/internal/engine"
	"github.com/lox/pokerengine/internal/equity"
	"github.com/lox/pokerengine/internal/rangeest"
)

// FoldThreshold is the minimum equity needed to continue facing a bet of
// at most MaxBetPct of the pot on a given street.
type FoldThreshold struct {
	Street    engine.Street
	MaxBetPct float64
	MinEquity float64
}

// PostflopAction is one row of the postflop decision matrix: for a given
// made-hand classification, whether the actor can check, the max
// stack-to-pot ratio the row applies under, and whether the pot is
// multiway, it names the action and (for bets/raises) the pot-fraction size.
type PostflopAction struct {
	HandClass string
	CanCheck  bool
	MaxSPR    float64
	Multiway  bool
	Action    engine.ActionType
	SizePct   float64
}

// BetSizing gives the pot-fraction bet size for a street/texture/hand-strength
// combination; "*" on BoardTexture or HandStrength matches any value.
type BetSizing struct {
	Street       engine.Street
	BoardTexture equity.BoardTexture
	AnyTexture   bool
	HandStrength string
	AnyStrength  bool
	SizePct      float64
}

const handStrengthAny = "*"

type preflopKey struct {
	Position engine.Position
	Action   string
}

// Tables holds the shared, precomputed strategy lookup tables every
// profile consults. Position/action preflop range strings are grounded on
// sdk/bots/complex/strategy.go's default table; fold thresholds and bet
// sizing rows are carried over unchanged.
type Tables struct {
	FoldThresholds []FoldThreshold
	PreflopRanges  map[preflopKey]*rangeest.Range
	PostflopMatrix []PostflopAction
	BetSizingTable []BetSizing
	FlatTrapRange  *rangeest.Range
}

// DefaultTables builds the shared table set once; callers keep a single
// instance and reuse it across all profiles and hands.
func DefaultTables() *Tables {
	t := &Tables{
		FoldThresholds: []FoldThreshold{
			{engine.Flop, 0.33, 0.15},
			{engine.Flop, 0.66, 0.35},
			{engine.Flop, 999, 0.50},
			{engine.Turn, 0.50, 0.30},
			{engine.Turn, 1.00, 0.50},
			{engine.Turn, 999, 0.60},
			{engine.River, 0.25, 0.30},
			{engine.River, 0.50, 0.45},
			{engine.River, 999, 0.60},
		},
		PreflopRanges: map[preflopKey]*rangeest.Range{},
		PostflopMatrix: []PostflopAction{
			{"TripsPlus", true, 999, false, engine.Raise, 0.50},
			{"TripsPlus", true, 999, true, engine.Raise, 0.75},
			{"TripsPlus", false, 999, false, engine.Raise, 0.50},
			{"TripsPlus", false, 999, true, engine.Call, 0},
			{"TwoPair", true, 999, false, engine.Raise, 0.50},
			{"TwoPair", true, 999, true, engine.Check, 0},
			{"TwoPair", false, 999, false, engine.Call, 0},
			{"TwoPair", false, 999, true, engine.Call, 0},
			{"TopPair", true, 5.0, false, engine.Raise, 0.25},
			{"TopPair", true, 999, false, engine.Check, 0},
			{"TopPair", true, 999, true, engine.Check, 0},
			{"TopPair", false, 999, false, engine.Call, 0},
			{"TopPair", false, 999, true, engine.Fold, 0},
			{"ComboDraw", true, 8.0, false, engine.Raise, 0.33},
			{"ComboDraw", true, 999, false, engine.Check, 0},
			{"ComboDraw", false, 999, false, engine.Call, 0},
			{"ComboDraw", false, 999, true, engine.Call, 0},
			{"StrongDraw", true, 5.0, false, engine.Raise, 0.25},
			{"StrongDraw", true, 999, false, engine.Check, 0},
			{"StrongDraw", false, 999, false, engine.Call, 0},
			{"StrongDraw", false, 999, true, engine.Fold, 0},
			{"WeakDraw", true, 999, false, engine.Check, 0},
			{"WeakDraw", false, 999, false, engine.Fold, 0},
			{"WeakDraw", false, 999, true, engine.Fold, 0},
			{"Air", true, 999, false, engine.Check, 0},
			{"Air", false, 999, false, engine.Fold, 0},
			{"Air", false, 999, true, engine.Fold, 0},
		},
		BetSizingTable: []BetSizing{
			{engine.Flop, equity.Dry, false, handStrengthAny, true, 0.33},
			{engine.Flop, equity.SemiWet, false, handStrengthAny, true, 0.50},
			{engine.Flop, equity.Wet, false, handStrengthAny, true, 0.66},
			{engine.Flop, equity.VeryWet, false, handStrengthAny, true, 0.75},
			{engine.Turn, 0, true, "strong", false, 0.66},
			{engine.Turn, 0, true, "medium", false, 0.50},
			{engine.Turn, 0, true, "draw", false, 0.50},
			{engine.River, 0, true, "strong", false, 1.00},
			{engine.River, 0, true, "medium", false, 0.50},
			{engine.River, 0, true, "draw", false, 0.75},
		},
	}

	addRange := func(pos engine.Position, action, spec string) {
		r, err := rangeest.ParseRange(spec)
		if err != nil {
			return
		}
		t.PreflopRanges[preflopKey{Position: pos, Action: action}] = r
	}

	addRange(engine.UnderTheGun, "open", "77+,AJo+,KQo,A5s+,KTs+,QTs+,JTs,T9s")
	addRange(engine.Middle, "open", "55+,ATo+,KJo+,A2s+,K9s+,Q9s+,J9s+,T9s,98s,87s,76s")
	addRange(engine.Cutoff, "open", "22+,A2+,K8o+,Q9o+,J9o+,T9o,K2s+,Q4s+,J7s+,T7s+,97s+,86s+,75s+,65s,54s")
	addRange(engine.Button, "open", "22+,A2+,K5o+,Q8o+,J8o+,T8o+,98o,K2s+,Q2s+,J4s+,T6s+,96s+,85s+,74s+,64s+,53s+,43s")
	addRange(engine.Button, "3bet_bluff", "A5s,A4s,A3s,A2s,K9s,K8s,QTs,JTs,T9s,98s,87s,76s,65s")
	addRange(engine.Cutoff, "3bet_bluff", "A5s,A4s,A3s,A2s,KTs,K9s,QTs,JTs")

	if trap, err := rangeest.ParseRange("TT,JJ"); err == nil {
		t.FlatTrapRange = trap
	}

	return t
}

// FoldThresholdValue returns the minimum equity needed to continue facing
// a bet of betPct of the pot on the given street.
func (t *Tables) FoldThresholdValue(street engine.Street, betPct float64) float64 {
	for _, threshold := range t.FoldThresholds {
		if threshold.Street == street && betPct <= threshold.MaxBetPct {
			return threshold.MinEquity
		}
	}
	return 0.50
}

// PreflopRangeFor returns the opening/defending range for a position and
// action label, falling back to UnderTheGun's range for any earlier
// position not given its own entry.
func (t *Tables) PreflopRangeFor(pos engine.Position, action string) *rangeest.Range {
	if r, ok := t.PreflopRanges[preflopKey{Position: pos, Action: action}]; ok {
		return r
	}
	if r, ok := t.PreflopRanges[preflopKey{Position: engine.UnderTheGun, Action: action}]; ok {
		return r
	}
	return nil
}

// PostflopDecision picks the first matching row of the postflop matrix.
func (t *Tables) PostflopDecision(handClass string, canCheck bool, spr float64, multiway bool) (engine.ActionType, float64) {
	for _, action := range t.PostflopMatrix {
		if action.HandClass != handClass || action.CanCheck != canCheck || action.Multiway != multiway {
			continue
		}
		if spr > action.MaxSPR {
			continue
		}
		return action.Action, action.SizePct
	}
	if canCheck {
		return engine.Check, 0
	}
	return engine.Fold, 0
}

// BetSize returns the pot-fraction bet size for a street/texture/strength
// combination.
func (t *Tables) BetSize(street engine.Street, texture equity.BoardTexture, handStrength string) float64 {
	for _, sizing := range t.BetSizingTable {
		if sizing.Street != street {
			continue
		}
		if !sizing.AnyTexture && sizing.BoardTexture != texture {
			continue
		}
		if !sizing.AnyStrength && sizing.HandStrength != handStrength {
			continue
		}
		return sizing.SizePct
	}
	return 0.50
}
