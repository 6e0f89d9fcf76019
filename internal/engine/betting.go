package engine

// BettingRound tracks the state of a single street's action: the current
// bet to match, the minimum legal raise increment, who raised last, and
// who has acted since the last raise.
type BettingRound struct {
	CurrentBet int
	MinRaise   int // max(big blind, last raise increment), per street
	LastRaiser int // -1 if nobody has raised this street
	BBActed    bool
	NumRaises  int // voluntary raises/re-raises this street, for 3-bet/4-bet-spot bookkeeping
	ActedThisRound []bool
	bigBlind       int
}

// NewBettingRound starts a fresh round for numPlayers seats.
func NewBettingRound(numPlayers, bigBlind int) *BettingRound {
	return &BettingRound{
		MinRaise:       bigBlind,
		LastRaiser:     -1,
		ActedThisRound: make([]bool, numPlayers),
		bigBlind:       bigBlind,
	}
}

// ResetForNewRound clears per-street state ahead of the next betting round.
// BBActed is intentionally left alone; it only matters preflop and is never
// consulted postflop.
func (br *BettingRound) ResetForNewRound(numPlayers int) {
	br.CurrentBet = 0
	br.MinRaise = br.bigBlind
	br.LastRaiser = -1
	br.NumRaises = 0
	br.ActedThisRound = make([]bool, numPlayers)
}

func (br *BettingRound) MarkActed(seat int) {
	if seat >= 0 && seat < len(br.ActedThisRound) {
		br.ActedThisRound[seat] = true
	}
}

// LegalActions returns the set of actions available to the given player
// given the round's current bet.
func (br *BettingRound) LegalActions(p *Player) []ActionType {
	actions := []ActionType{Fold}
	toCall := br.CurrentBet - p.Bet

	if toCall <= 0 {
		actions = append(actions, Check)
		if p.Chips > br.MinRaise {
			actions = append(actions, Raise)
		} else if p.Chips > 0 {
			actions = append(actions, AllIn)
		}
		return actions
	}

	if toCall >= p.Chips {
		return append(actions, AllIn)
	}

	actions = append(actions, Call)
	if p.Chips > toCall+br.MinRaise {
		actions = append(actions, Raise)
	} else if p.Chips > toCall {
		actions = append(actions, AllIn)
	}
	return actions
}

// applyRaise records a raise to `amount` (total chips the player will have
// in front of them) by the given seat, enforcing min-raise = max(big
// blind, last raise increment) unless the raise is an involuntary all-in
// for less.
func (br *BettingRound) applyRaise(seat int, amount int, playerTotalChips int) error {
	if amount > playerTotalChips {
		return &InvalidActionError{Seat: seat, Action: Raise, Reason: "insufficient chips"}
	}
	minLegal := br.CurrentBet + br.MinRaise
	if amount < minLegal && amount < playerTotalChips {
		return &InvalidActionError{Seat: seat, Action: Raise, Reason: "raise below minimum"}
	}

	increment := amount - br.CurrentBet
	if increment > br.bigBlind {
		br.MinRaise = increment
	} else {
		br.MinRaise = br.bigBlind
	}
	br.CurrentBet = amount
	br.LastRaiser = seat
	br.NumRaises++

	for i := range br.ActedThisRound {
		br.ActedThisRound[i] = false
	}
	br.ActedThisRound[seat] = true
	return nil
}

// IsComplete reports whether every player still able to act has matched the
// current bet and acted at least once this round, accounting for the
// preflop big-blind option.
func (br *BettingRound) IsComplete(players []*Player, street Street, bbSeat int) bool {
	active := 0
	for _, p := range players {
		if p.IsActive() {
			active++
		}
	}
	if active == 0 {
		return true
	}

	for i, p := range players {
		if !p.IsActive() {
			continue
		}
		if p.Bet != br.CurrentBet {
			return false
		}
		if !br.ActedThisRound[i] {
			return false
		}
	}

	if active == 1 {
		return true
	}

	if street == Preflop && br.LastRaiser == -1 && !br.BBActed {
		bb := players[bbSeat]
		if bb.IsActive() {
			return false
		}
	}

	return true
}
