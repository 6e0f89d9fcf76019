package strategy

import (
	"github.com/lox/pokerengine/internal/engine"
	"github.com/lox/pokerengine/internal/equity"
	"github.com/lox/pokerengine/internal/rangeest"
	"github.com/lox/pokerengine/poker"
)

// HeroContext is the read-only snapshot of the acting player's own state,
// produced by the hand just before prompting for an action.
type HeroContext struct {
	Seat               int
	Position           engine.Position
	Chips              int
	HoleCards          poker.Hand
	CurrentBet         int
	TotalBet           int
	HandRanking        poker.HandRank
	ActionsThisHand    map[engine.Street][]engine.ActionType
	IsAggressorOfFlop  bool
	IsAggressorOfTurn  bool
	IsAggressorOfRiver bool
	CanBluffThisHand   bool // randomized once per hand
	InVeryLooseMode    bool
	MRatio             float64 // stack in big-blind units
}

// IsAggressorOf reports whether hero was last to bet/raise on the given street.
func (h HeroContext) IsAggressorOf(street engine.Street) bool {
	switch street {
	case engine.Flop:
		return h.IsAggressorOfFlop
	case engine.Turn:
		return h.IsAggressorOfTurn
	case engine.River:
		return h.IsAggressorOfRiver
	}
	return false
}

// TableContext summarizes table-wide state for the current street.
type TableContext struct {
	NumSeated           int
	NumStillActing      int
	Street              engine.Street
	Pot                 int
	SumCurrentBets      int
	MinRaise            int
	HighestBet          int
	NumRaisesThisStreet int
	NumCallsThisStreet  int
	PotOddsFacingHero   float64
	IsPreflopBigBet     bool
}

// OpponentContext summarizes one still-acting opponent.
type OpponentContext struct {
	Seat          int
	Position      engine.Position
	Chips         int
	Stats         rangeest.StatsSnapshot
	EstimateRange *rangeest.Range
	LastAction    *engine.PlayerAction
}

// OpponentsContext bundles per-opponent snapshots plus the aggressor shortcuts
// the bot profiles reason about.
type OpponentsContext struct {
	Live                     []OpponentContext
	PreflopLastRaiserSeat    int // -1 if none
	FlopLastRaiserSeat       int
	TurnLastRaiserSeat       int
	RiverLastRaiserSeat      int
	LastVoluntaryContributor int
}

// EquityContext is the hand-simulation and postflop-analysis payload.
type EquityContext struct {
	Stats       equity.Result
	WinAgainstRange float64
	StdDev      float64
	Postflop    equity.PostflopFlags
	Strength    rangeest.StrengthResult
}

// CurrentHandContext is the complete, read-only snapshot a Strategy
// consumes to produce one PlayerAction.
type CurrentHandContext struct {
	Hero          HeroContext
	Table         TableContext
	Opponents     OpponentsContext
	Equity        EquityContext
	RoundIsOver   bool // everyone else folded or an equivalent terminal condition
	LegalActions  []engine.ActionType
}
