package engine

import "github.com/lox/pokerengine/poker"

// maxInvalidActions is how many consecutive illegal actions a seat may
// submit before the hand force-folds it, per the invalid-action retry
// policy: a strategy gets a chance to correct itself, but a hand can never
// stall forever on a broken or adversarial actor.
const maxInvalidActions = 3

// Player is one seat's state for the current hand. It carries no
// dependency on Hand or Table to keep the state machine free of reference
// cycles; anything that needs to relate a player back to a hand does so by
// Seat index, not by pointer.
type Player struct {
	Seat   int
	Name   string
	Chips  int
	Folded bool

	HoleCards poker.Hand
	Bet       int // chips committed this street, not yet collected into a pot
	TotalBet  int // chips committed this hand
	AllInFlag bool

	invalidActionStrikes int
}

// IsActive reports whether the player can still act or be dealt to, i.e.
// has not folded and is not already committed all-in.
func (p *Player) IsActive() bool {
	return !p.Folded && !p.AllInFlag
}

// recordInvalidAction increments the strike counter and reports whether the
// seat has now exhausted its retries and must be force-folded.
func (p *Player) recordInvalidAction() (exhausted bool) {
	p.invalidActionStrikes++
	return p.invalidActionStrikes >= maxInvalidActions
}

func (p *Player) resetInvalidActionStrikes() {
	p.invalidActionStrikes = 0
}
