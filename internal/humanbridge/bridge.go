// Package humanbridge implements the Human Strategy Bridge: the single
// suspension point where the engine's synchronous hand loop waits on an
// external actor. The mechanism is a single-slot rendezvous — one producer
// (the UI, on its own goroutine or event loop), one consumer (Decide,
// called from the Game loop) — with no shared mutable state beyond the slot.
package humanbridge

import (
	"time"

	"github.com/lox/pokerengine/internal/engine"
	"github.com/lox/pokerengine/internal/strategy"
)

// idleTickInterval bounds how long Decide can block before giving the
// caller another chance to pump its event queue, per the spec's
// cooperative-pause suspension semantics.
const idleTickInterval = 50 * time.Millisecond

// Bridge is the one-shot rendezvous slot. One Bridge serves one human seat
// for the lifetime of a session; Decide and Submit may be called many
// times across many hands. For each await, Submit runs on the producer's
// goroutine while Strategy.Decide blocks on the slot, which hands the
// action from one to the other.
type Bridge struct {
	slot chan engine.PlayerAction
	tick func()
}

// New returns an empty Bridge ready to back a human seat.
func New() *Bridge {
	return &Bridge{slot: make(chan engine.PlayerAction, 1)}
}

// OnIdleTick installs the cooperative pump hook: called repeatedly, at
// idleTickInterval, while Decide is blocked waiting for Submit. A typical
// hook drains a UI event queue or redraws a prompt; it must not block.
func (b *Bridge) OnIdleTick(tick func()) {
	b.tick = tick
}

// Submit delivers the human's chosen action to the currently-waiting
// Decide call. Called from the producer side (UI), never from the engine
// loop itself. Submitting with nothing waiting is a no-op-until-consumed:
// the slot holds exactly one pending action.
func (b *Bridge) Submit(action engine.PlayerAction) {
	select {
	case b.slot <- action:
	default:
		// Drain a stale, unconsumed action before delivering the new one
		// rather than blocking the producer on a slow/abandoned consumer.
		select {
		case <-b.slot:
		default:
		}
		b.slot <- action
	}
}

// Cancel delivers a Fold for seat, the spec's prescribed cancellation
// behavior for a human await that must be abandoned (timeout, disconnect).
func (b *Bridge) Cancel(seat int) {
	b.Submit(engine.PlayerAction{Seat: seat, Type: engine.Fold})
}

// Strategy adapts a Bridge to strategy.Strategy so a human occupies a seat
// exactly like any bot profile from the Game loop's perspective: Decide
// blocks until Submit delivers an action.
type Strategy struct {
	bridge          *Bridge
	onAwaitingInput func(seat int, legal []engine.ActionType)
}

// NewStrategy returns a Strategy backed by bridge. onAwaitingInput fires
// once per Decide call, before blocking, carrying the seat and legal
// action set — the information the spec's onAwaitingHumanInput event needs.
// It may be nil.
func NewStrategy(bridge *Bridge, onAwaitingInput func(seat int, legal []engine.ActionType)) *Strategy {
	return &Strategy{bridge: bridge, onAwaitingInput: onAwaitingInput}
}

// Decide blocks until the bridge's Submit (or Cancel) delivers an action.
// It validates nothing: the engine's Step call is the sole authority on
// legality, per the spec's bridge semantics.
func (s *Strategy) Decide(ctx strategy.CurrentHandContext) engine.PlayerAction {
	if s.onAwaitingInput != nil {
		s.onAwaitingInput(ctx.Hero.Seat, ctx.LegalActions)
	}

	ticker := time.NewTicker(idleTickInterval)
	defer ticker.Stop()
	for {
		select {
		case action := <-s.bridge.slot:
			return action
		case <-ticker.C:
			if s.bridge.tick != nil {
				s.bridge.tick()
			}
		}
	}
}

var _ strategy.Strategy = (*Strategy)(nil)
