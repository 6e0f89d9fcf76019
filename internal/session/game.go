package session

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/lox/pokerengine/internal/engine"
	"github.com/lox/pokerengine/internal/equity"
	"github.com/lox/pokerengine/internal/handaudit"
	"github.com/lox/pokerengine/internal/portlog"
	"github.com/lox/pokerengine/internal/rangeest"
	"github.com/lox/pokerengine/internal/statstore"
	"github.com/lox/pokerengine/internal/strategy"
	"github.com/lox/pokerengine/poker"
)

// simulationsPerDecision is the Monte Carlo sample count spent on each
// decision's equity estimate. The spec's headline figure (5000) is for a
// single-call equity read; a full decision also needs postflop analysis
// and range-vs-range strength, so this stays modest enough that a full
// session of many hands completes promptly.
const simulationsPerDecision = 2000

// seat is one occupant of the table across the Game's lifetime: identity,
// chip stack, and the strategy that decides its actions. Unlike
// engine.Player (which lives and dies with one hand), a seat survives
// across hands so the Game can rotate the dealer and carry forward chip
// counts.
type seat struct {
	id       int
	name     string
	chips    int
	strategy strategy.Strategy
	isHuman  bool

	estimator *rangeest.Estimator
	stats     rangeest.StatsSnapshot
}

// Game owns the seat list, the current dealer, and drives successive
// hands to completion, per spec.md §4.9. One Game belongs to one Session.
type Game struct {
	cfg       Config
	seats     []*seat
	button    int
	rng       *rand.Rand
	logger    portlog.Logger
	evaluator HandEvaluator
	stats     *statstore.Store
	session   *statstore.SessionStats
	audit     *handaudit.Store
	sink      engine.EventSink
	tables    *strategy.Tables

	handNum int
}

// SeatChips returns the current chip stack for a seat id, for callers
// (the CLI summary, tests) that want to report results without reaching
// into Game's internals.
func (g *Game) SeatChips(id int) int {
	return g.seats[id].chips
}

// Button returns the current dealer seat id.
func (g *Game) Button() int { return g.button }

// activeSeats returns the seats with chips remaining, in table order
// starting from the button, the order a fresh hand deals them into.
func (g *Game) activeSeats() []*seat {
	var active []*seat
	n := len(g.seats)
	for i := 0; i < n; i++ {
		s := g.seats[(g.button+i)%n]
		if s.chips > 0 {
			active = append(active, s)
		}
	}
	return active
}

// advanceButton moves the dealer to the next clockwise seat that still has
// chips, per spec.md §8's dealer-rotation property.
func (g *Game) advanceButton() {
	n := len(g.seats)
	for i := 1; i <= n; i++ {
		next := (g.button + i) % n
		if g.seats[next].chips > 0 {
			g.button = next
			return
		}
	}
}

// StartNewHand deals, plays, and settles exactly one hand, per spec.md
// §4.9's startNewHand: build a fresh HandState from the current seats and
// button, run the hand's loop synchronously to completion, then rotate
// the dealer for next time. Returns an error when fewer than two seats
// have chips, when engine.NewHand rejects the hand's configuration, or when
// ctx is cancelled mid-hand; invalid player actions are handled internally
// via the retry/auto-fold policy and never surface here.
func (g *Game) StartNewHand(ctx context.Context) error {
	active := g.activeSeats()
	if len(active) < 2 {
		return fmt.Errorf("session: fewer than 2 seats with chips remain")
	}

	g.handNum++
	names := make([]string, len(active))
	chips := make([]int, len(active))
	for i, s := range active {
		names[i] = s.name
		chips[i] = s.chips
	}

	hand, err := engine.NewHand(engine.Config{
		PlayerNames: names,
		Chips:       chips,
		Button:      0, // active[] is already button-relative
		SmallBlind:  g.cfg.FirstSmallBlind,
		BigBlind:    g.cfg.BigBlind(),
		RNG:         g.rng,
		Sink:        g.sink,
	})
	if err != nil {
		return err
	}

	startingChips := make(map[int]int, len(active))
	for i, s := range active {
		startingChips[i] = s.chips
		g.initRange(i, active, hand, 0)
		g.stats.RecordHandStart(s.id)
	}

	if g.audit != nil {
		g.beginAudit(hand, active)
	}

	if err := g.runBettingLoop(ctx, hand, active); err != nil {
		return err
	}

	g.settle(hand, active, startingChips)
	g.advanceButton()
	return nil
}

// initRange seeds seat idx's range estimator ahead of the first action
// that needs to read it, using the seat's own statistics once enough
// hands have been observed for that player (§4.4).
func (g *Game) initRange(idx int, active []*seat, hand *engine.HandState, raisesBefore int) {
	s := active[idx]
	s.stats = toRangeestStats(g.stats.Snapshot(s.id))
	pos := engine.PositionAt(idx, len(active))
	bucket := rangeest.BucketForTableSize(len(active))
	known := hand.Board
	if s.estimator == nil {
		s.estimator = rangeest.NewEstimator(idx)
	}
	s.estimator.InitializeRange(pos, bucket, 0, raisesBefore, s.stats, false, g.rng, known)
}

// preflopSpotTracker carries the per-hand state recordStats needs to
// recognize 3-bet, 4-bet, call-3-bet, and continuation-bet spots. None of
// this survives inside engine.BettingRound itself: ResetForNewRound wipes
// NumRaises/LastRaiser at every street boundary, so the preflop aggressor
// has to be captured here before the flop's reset erases it from the
// engine's own view.
type preflopSpotTracker struct {
	opener    int // seat that made the opening preflop raise, -1 if none
	aggressor int // most recent preflop raiser, -1 if none
	flopActed bool
}

// runBettingLoop drives HandState.Step for every seat on the move until
// the hand reaches Showdown or is decided by folds, interleaving range
// narrowing and behavioral-statistics recording for every action taken.
func (g *Game) runBettingLoop(ctx context.Context, hand *engine.HandState, active []*seat) error {
	pf := &preflopSpotTracker{opener: -1, aggressor: -1}

	for !hand.IsComplete() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		idx := hand.ActivePlayer
		if idx < 0 {
			break
		}

		handCtx := g.buildContext(hand, active, idx)
		decision := active[idx].strategy.Decide(handCtx)
		decision.Seat = idx

		// Capture everything recordStats and range narrowing need before
		// Step runs: a round-closing action has its street, board and
		// NumRaises replaced by the very same Step call, via
		// ResetForNewRound and the next deal firing inside advanceStreet.
		street := hand.Street
		board := hand.Board
		raisesBefore := hand.Betting.NumRaises
		currentBetBefore := hand.Betting.CurrentBet
		betBefore, chipsBefore := hand.Players[idx].Bet, hand.Players[idx].Chips

		if err := hand.Step(decision); err != nil {
			// hand.Step already published onInvalidPlayerAction and, on the
			// third strike, force-folded the seat; nothing further to do
			// here except let the loop re-read ActivePlayer.
			continue
		}

		raised := decision.Type == engine.Raise ||
			(decision.Type == engine.AllIn && betBefore+chipsBefore > currentBetBefore)

		g.recordStats(pf, active, idx, street, raisesBefore, raised, decision)
		g.narrowOpponentRanges(active, idx, street, board, raisesBefore, decision)
	}
	return nil
}

// narrowOpponentRanges narrows the acting seat's range estimator (the
// range every other seat reads as that seat's likely holdings) with the
// action just taken, per §4.4's per-action narrowing step, using the
// street, board and raise count the action was taken against.
func (g *Game) narrowOpponentRanges(active []*seat, idx int, street engine.Street, board poker.Hand, raisesBefore int, action engine.PlayerAction) {
	for i, s := range active {
		if i != idx || s.estimator == nil {
			continue
		}
		s.estimator.Narrow(rangeest.NarrowingContext{
			Street:           street,
			Action:           action.Type,
			Board:            board,
			RaisesThisStreet: raisesBefore,
			IsBluffer:        false,
			IsCallingStation: s.stats.CallThreeBet > 0.6,
		})
	}
}

// recordStats updates the persistent statistics store with the behavioral
// facts §6's PlayersStatisticsStore.update aggregates: VPIP/PFR on every
// voluntary preflop action, and 3-bet/4-bet/call-3-bet/continuation-bet
// opportunities and conversions as each spot comes up. raisesBefore is the
// number of preflop raises that had already happened when this seat acted
// (0 = unopened or facing limps only, 1 = facing a raise, 2 = facing a
// 3-bet, and so on); raised reports whether this specific action itself
// raised.
func (g *Game) recordStats(pf *preflopSpotTracker, active []*seat, idx int, street engine.Street, raisesBefore int, raised bool, action engine.PlayerAction) {
	seatID := active[idx].id

	if street == engine.Preflop {
		switch action.Type {
		case engine.Call, engine.Raise, engine.AllIn:
			g.stats.RecordVoluntaryPreflopAction(seatID, raised)
		}

		switch raisesBefore {
		case 0:
			if raised {
				pf.opener = idx
				pf.aggressor = idx
			}
		case 1:
			g.stats.RecordThreeBetSpot(seatID, raised)
			if raised {
				pf.aggressor = idx
			}
		case 2:
			g.stats.RecordFourBetSpot(seatID, raised)
			if idx == pf.opener {
				g.stats.RecordCallThreeBetSpot(seatID, action.Type == engine.Call)
			}
			if raised {
				pf.aggressor = idx
			}
		default:
			if raised {
				pf.aggressor = idx
			}
		}
		return
	}

	if street == engine.Flop && !pf.flopActed {
		pf.flopActed = true
		if idx == pf.aggressor {
			g.stats.RecordContinuationBetSpot(seatID, action.Type == engine.Raise || action.Type == engine.AllIn)
		}
	}
}

// buildContext materializes the read-only CurrentHandContext a Strategy
// consumes for the seat on the move, per spec.md §4.7: hero snapshot,
// table snapshot, per-opponent snapshots, and the equity/postflop payload.
func (g *Game) buildContext(hand *engine.HandState, active []*seat, idx int) strategy.CurrentHandContext {
	hero := hand.Players[idx]
	legal := hand.LegalActions()

	numStillActing := 0
	for _, p := range hand.Players {
		if p.IsActive() {
			numStillActing++
		}
	}

	toCall := hand.Betting.CurrentBet - hero.Bet
	potOdds := 0.0
	if pot := hand.PotManager.Total() + toCall; pot > 0 && toCall > 0 {
		potOdds = float64(toCall) / float64(pot)
	}

	opponentRanges := make(map[int]*rangeest.Range)
	var opps []strategy.OpponentContext
	preflopRaiser, flopRaiser, turnRaiser, riverRaiser, lastVoluntary := -1, -1, -1, -1, -1
	for i, p := range hand.Players {
		if i == idx || p.Folded {
			continue
		}
		s := active[i]
		if s.estimator != nil {
			opponentRanges[i] = s.estimator.Current
		}
		var last *engine.PlayerAction
		opps = append(opps, strategy.OpponentContext{
			Seat:          i,
			Position:      engine.PositionAt(i-hand.Button, len(active)),
			Chips:         p.Chips,
			Stats:         s.stats,
			EstimateRange: opponentRanges[i],
			LastAction:    last,
		})
	}
	if hand.Betting.LastRaiser >= 0 {
		switch hand.Street {
		case engine.Preflop:
			preflopRaiser = hand.Betting.LastRaiser
		case engine.Flop:
			flopRaiser = hand.Betting.LastRaiser
		case engine.Turn:
			turnRaiser = hand.Betting.LastRaiser
		case engine.River:
			riverRaiser = hand.Betting.LastRaiser
		}
		lastVoluntary = hand.Betting.LastRaiser
	}

	simCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	simResult, _ := equity.SimulateEquity(simCtx, hero.HoleCards, hand.Board, numStillActing-1, simulationsPerDecision, g.rng)
	postflop := equity.AnalyzePostflop(hero.HoleCards, hand.Board)
	strengthResult := rangeest.EvaluateOpponentsStrength(g.evaluator.Evaluate(hero.HoleCards, hand.Board), hand.Board, hero.HoleCards, opponentRanges)

	return strategy.CurrentHandContext{
		Hero: strategy.HeroContext{
			Seat:             idx,
			Position:         engine.PositionAt(idx-hand.Button, len(active)),
			Chips:            hero.Chips,
			HoleCards:        hero.HoleCards,
			CurrentBet:       hero.Bet,
			TotalBet:         hero.TotalBet,
			HandRanking:      g.evaluator.Evaluate(hero.HoleCards, hand.Board),
			CanBluffThisHand: g.rng.Float64() < 0.3,
			MRatio:           float64(hero.Chips) / float64(hand.BigBlind),
		},
		Table: strategy.TableContext{
			NumSeated:         len(active),
			NumStillActing:    numStillActing,
			Street:            hand.Street,
			Pot:               hand.PotManager.Total(),
			SumCurrentBets:    sumBets(hand.Players),
			MinRaise:            hand.Betting.MinRaise,
			HighestBet:          hand.Betting.CurrentBet,
			NumRaisesThisStreet: hand.Betting.NumRaises,
			PotOddsFacingHero:   potOdds,
			IsPreflopBigBet:   hand.Street == engine.Preflop && hand.Betting.CurrentBet > hand.BigBlind*4,
		},
		Opponents: strategy.OpponentsContext{
			Live:                     opps,
			PreflopLastRaiserSeat:    preflopRaiser,
			FlopLastRaiserSeat:       flopRaiser,
			TurnLastRaiserSeat:       turnRaiser,
			RiverLastRaiserSeat:      riverRaiser,
			LastVoluntaryContributor: lastVoluntary,
		},
		Equity: strategy.EquityContext{
			Stats:           simResult,
			WinAgainstRange: strengthResult.MaxStrength,
			Postflop:        postflop,
			Strength:        strengthResult,
		},
		RoundIsOver:  hand.IsComplete(),
		LegalActions: legal,
	}
}

func sumBets(players []*engine.Player) int {
	total := 0
	for _, p := range players {
		total += p.Bet
	}
	return total
}

// settle evaluates showdown (when reached), distributes every pot, applies
// payouts to seat chip stacks, updates the statistics and session-results
// stores, finalizes the hand-audit record, and emits the terminal events
// spec.md §5 requires (onHandCompleted last, no further events).
func (g *Game) settle(hand *engine.HandState, active []*seat, startingChips map[int]int) {
	if err := engine.CheckChipConservation(hand.Players, hand.PotManager.GetPots(), startingChips); err != nil {
		g.sink.Publish(engine.Event{Type: engine.EventEngineError, Detail: err.Error()})
		g.logger.Error("chip conservation violated", "hand", g.handNum, "err", err)
	}

	payouts := hand.Settle()

	winnerIDs := make(map[int]bool)
	for _, seats := range hand.Winners() {
		for _, w := range seats {
			winnerIDs[w] = true
		}
	}

	for idx, payout := range payouts {
		active[idx].chips += payout
	}

	var revealed []poker.Hand
	wentToShowdown := hand.Street == engine.Showdown
	if wentToShowdown {
		order, mustShow := hand.ShowdownReveal()
		g.sink.Publish(engine.Event{Type: engine.EventShowdownRevealOrder, Street: hand.Street, Seats: order})

		revealed = make([]poker.Hand, len(active))
		for _, seat := range order {
			if mustShow[seat] {
				revealed[seat] = hand.Players[seat].HoleCards
			}
		}
		g.sink.Publish(engine.Event{Type: engine.EventShowdownRevealed, Street: hand.Street})
	}

	for i, s := range active {
		p := hand.Players[i]
		net := float64(payouts[i]-p.TotalBet) / float64(hand.BigBlind)
		won := winnerIDs[i]
		g.session.Record(statstore.HandOutcome{
			Seat:           s.id,
			NetBB:          net,
			WentToShowdown: wentToShowdown && !p.Folded,
			WonAtShowdown:  wentToShowdown && !p.Folded && won,
		})
		if wentToShowdown && !p.Folded {
			g.stats.RecordShowdown(s.id, won)
		}
	}

	if g.audit != nil {
		g.finalizeAudit(hand, active, payouts, revealed)
	}

	total := 0
	for _, payout := range payouts {
		total += payout
	}
	g.sink.Publish(engine.Event{Type: engine.EventHandEnded, Street: hand.Street, Amount: total})
}

func (g *Game) beginAudit(hand *engine.HandState, active []*seat) {
	names := make([]string, len(active))
	stacks := make([]int, len(active))
	holeCards := make([]poker.Hand, len(active))
	for i, s := range active {
		names[i] = s.name
		stacks[i] = hand.Players[i].Chips + hand.Players[i].Bet
		holeCards[i] = hand.Players[i].HoleCards
	}
	g.audit.BeginHand(handaudit.HandMeta{
		HandID:         fmt.Sprintf("%d", g.handNum),
		Table:          "pokerengine",
		Players:        names,
		StartingStacks: stacks,
		SmallBlind:     g.cfg.FirstSmallBlind,
		BigBlind:       g.cfg.BigBlind(),
		Button:         hand.Button,
		Timestamp:      time.Unix(0, 0),
	})
	g.audit.DealHoleCards(holeCards)
}

func (g *Game) finalizeAudit(hand *engine.HandState, active []*seat, payouts map[int]int, revealed []poker.Hand) {
	finishing := make([]int, len(active))
	winnings := make([]int, len(active))
	for i, s := range active {
		finishing[i] = s.chips
		winnings[i] = payouts[i]
	}
	if err := g.audit.Finalize(handaudit.HandResult{
		FinishingStacks: finishing,
		Winnings:        winnings,
		RevealedHands:   revealed,
		Board:           hand.Board,
	}); err != nil {
		g.logger.Error("hand audit write failed", "hand", g.handNum, "err", err)
	}
}

// toRangeestStats converts a statstore.Snapshot to the subset of fields
// rangeest.StatsSnapshot needs. The two types are defined independently
// (statstore must not import rangeest, per internal/statstore's own doc
// comment), so this is a field-by-field copy rather than a type
// conversion.
func toRangeestStats(snap statstore.Snapshot) rangeest.StatsSnapshot {
	return rangeest.StatsSnapshot{
		HandsObserved: snap.HandsObserved,
		VPIP:          snap.VPIP,
		PFR:           snap.PFR,
		ThreeBet:      snap.ThreeBet,
		FourBet:       snap.FourBet,
		CallThreeBet:  snap.CallThreeBet,
	}
}
