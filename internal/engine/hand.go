package engine

import (
	"math/rand"

	"github.com/lox/pokerengine/poker"
)

// HandState is the full state of one hand in progress. It advances only
// through Step (an action from the player on the move) or ForceFold (an
// exceptional, out-of-turn fold); there is no goroutine or channel inside
// the state machine itself; the one place a caller might need to suspend
// is waiting on a human's action between two Step calls, which is modeled
// entirely outside this package by internal/humanbridge.
type HandState struct {
	Players    []*Player
	Button     int
	Street     Street
	Board      poker.Hand
	Deck       *poker.Deck
	PotManager *PotManager
	Betting    *BettingRound

	ActivePlayer int // -1 once no seat can act

	SmallBlind int
	BigBlind   int

	// LastAggressor is the seat that most recently bet or raised on the
	// current street, or -1 if none has. advanceStreet clears it whenever a
	// new betting street opens but keeps it when the river closes, so
	// showdown sees the river's last aggressor (-1 if the river checked
	// through).
	LastAggressor int

	sink EventSink
}

// Config configures a new hand. RNG stands in for the spec's Randomizer
// port: callers get reproducible shuffles by passing a *rand.Rand derived
// from internal/randutil.New for a fixed seed, or an unseeded source for
// live play.
type Config struct {
	PlayerNames []string
	Chips       []int // per-seat starting chips, must match len(PlayerNames)
	Button      int
	SmallBlind  int
	BigBlind    int
	RNG         *rand.Rand
	Deck        *poker.Deck // overrides RNG-driven shuffling when set, for tests
	Sink        EventSink
}

// NewHand validates cfg and deals a fresh hand: blinds posted, hole cards
// dealt, first actor on the move.
func NewHand(cfg Config) (*HandState, error) {
	if len(cfg.PlayerNames) < 2 {
		return nil, &ConfigError{Field: "PlayerNames", Reason: "at least 2 players required"}
	}
	if cfg.Chips != nil && len(cfg.Chips) != len(cfg.PlayerNames) {
		return nil, &ConfigError{Field: "Chips", Reason: "length must match PlayerNames"}
	}
	if cfg.Button < 0 || cfg.Button >= len(cfg.PlayerNames) {
		return nil, &ConfigError{Field: "Button", Reason: "out of range"}
	}
	if cfg.SmallBlind <= 0 || cfg.BigBlind <= 0 || cfg.SmallBlind > cfg.BigBlind {
		return nil, &ConfigError{Field: "Blinds", Reason: "small blind must be positive and not exceed big blind"}
	}
	if cfg.RNG == nil && cfg.Deck == nil {
		return nil, &ConfigError{Field: "RNG", Reason: "a Randomizer or pre-built Deck is required"}
	}

	sink := cfg.Sink
	if sink == nil {
		sink = NullSink{}
	}

	players := make([]*Player, len(cfg.PlayerNames))
	for i, name := range cfg.PlayerNames {
		chips := 0
		if cfg.Chips != nil {
			chips = cfg.Chips[i]
		}
		players[i] = &Player{Seat: i, Name: name, Chips: chips}
	}

	deck := cfg.Deck
	if deck == nil {
		deck = poker.NewDeck(cfg.RNG)
	}

	h := &HandState{
		Players:    players,
		Button:     cfg.Button,
		Street:     Preflop,
		Deck:       deck,
		PotManager: NewPotManager(players),
		Betting:    NewBettingRound(len(players), cfg.BigBlind),
		SmallBlind:    cfg.SmallBlind,
		BigBlind:      cfg.BigBlind,
		LastAggressor: -1,
		sink:          sink,
	}

	h.postBlinds()
	h.dealHoleCards()

	sink.Publish(Event{Type: EventHandStarted, Seat: -1, Street: Preflop})

	if len(players) == 2 {
		h.ActivePlayer = cfg.Button
	} else {
		h.ActivePlayer = h.nextActivePlayer((cfg.Button + 3) % len(players))
	}
	if h.ActivePlayer >= 0 && !h.Players[h.ActivePlayer].IsActive() {
		h.ActivePlayer = h.nextActivePlayer(h.ActivePlayer + 1)
	}
	if h.ActivePlayer == -1 || h.Betting.IsComplete(h.Players, h.Street, h.bbSeat()) {
		h.advanceStreet()
	}

	return h, nil
}

func (h *HandState) bbSeat() int {
	if len(h.Players) == 2 {
		return (h.Button + 1) % len(h.Players)
	}
	return (h.Button + 2) % len(h.Players)
}

func (h *HandState) sbSeat() int {
	if len(h.Players) == 2 {
		return h.Button
	}
	return (h.Button + 1) % len(h.Players)
}

func (h *HandState) postBlinds() {
	sb := h.Players[h.sbSeat()]
	sbAmount := min(h.SmallBlind, sb.Chips)
	sb.Bet, sb.TotalBet, sb.Chips = sbAmount, sbAmount, sb.Chips-sbAmount
	if sb.Chips == 0 {
		sb.AllInFlag = true
	}
	h.sink.Publish(Event{Type: EventBlindPosted, Seat: sb.Seat, Action: PostSmallBlind, Amount: sbAmount})
	h.sink.Publish(Event{Type: EventPlayerChipsUpdated, Seat: sb.Seat, Amount: sb.Chips})

	bb := h.Players[h.bbSeat()]
	bbAmount := min(h.BigBlind, bb.Chips)
	bb.Bet, bb.TotalBet, bb.Chips = bbAmount, bbAmount, bb.Chips-bbAmount
	if bb.Chips == 0 {
		bb.AllInFlag = true
	}
	h.sink.Publish(Event{Type: EventBlindPosted, Seat: bb.Seat, Action: PostBigBlind, Amount: bbAmount})
	h.sink.Publish(Event{Type: EventPlayerChipsUpdated, Seat: bb.Seat, Amount: bb.Chips})

	h.Betting.CurrentBet = h.BigBlind
	h.sink.Publish(Event{Type: EventPotUpdated, Street: Preflop, Amount: h.potTotal()})
}

func (h *HandState) dealHoleCards() {
	for _, p := range h.Players {
		p.HoleCards = poker.NewHand(h.Deck.Deal(2)...)
	}
	h.sink.Publish(Event{Type: EventHoleCardsDealt, Seat: -1, Street: Preflop})
}

// LegalActions returns the actions available to whoever is on the move.
func (h *HandState) LegalActions() []ActionType {
	if h.ActivePlayer < 0 {
		return nil
	}
	return h.Betting.LegalActions(h.Players[h.ActivePlayer])
}

// Step applies one action by the active player and advances the state
// machine, collecting bets and dealing the next street whenever the
// betting round closes. A malformed action returns an *InvalidActionError
// and leaves the hand state unchanged except for the actor's strike
// count; three consecutive invalid actions from the same seat trigger an
// automatic fold so the hand can never stall.
func (h *HandState) Step(action PlayerAction) error {
	if h.IsComplete() {
		return &InvalidStateTransitionError{From: h.Street, Reason: "hand already complete"}
	}
	if action.Seat != h.ActivePlayer {
		return &InvalidActionError{Seat: action.Seat, Action: action.Type, Reason: "not this seat's turn"}
	}

	p := h.Players[h.ActivePlayer]
	if err := h.applyAction(p, action); err != nil {
		h.sink.Publish(Event{Type: EventInvalidActionRejected, Seat: p.Seat, Action: action.Type, Detail: err.Error()})
		if p.recordInvalidAction() {
			h.ForceFold(p.Seat)
		}
		return err
	}
	p.resetInvalidActionStrikes()

	h.Betting.MarkActed(h.ActivePlayer)
	if h.Street == Preflop && h.ActivePlayer == h.bbSeat() {
		h.Betting.BBActed = true
	}
	if h.Betting.LastRaiser == p.Seat {
		h.LastAggressor = p.Seat
	}

	h.sink.Publish(Event{Type: EventActionTaken, Seat: p.Seat, Street: h.Street, Action: action.Type, Amount: action.Amount})
	h.sink.Publish(Event{Type: EventPlayerChipsUpdated, Seat: p.Seat, Street: h.Street, Amount: p.Chips})
	h.sink.Publish(Event{Type: EventPotUpdated, Street: h.Street, Amount: h.potTotal()})

	h.ActivePlayer = h.nextActivePlayer(h.ActivePlayer + 1)
	if h.ActivePlayer == -1 || h.Betting.IsComplete(h.Players, h.Street, h.bbSeat()) {
		h.advanceStreet()
	}
	return nil
}

func (h *HandState) applyAction(p *Player, action PlayerAction) error {
	switch action.Type {
	case Fold:
		p.Folded = true
		return nil

	case Check:
		if h.Betting.CurrentBet != p.Bet {
			return &InvalidActionError{Seat: p.Seat, Action: Check, Reason: "must call or fold"}
		}
		return nil

	case Call:
		toCall := min(h.Betting.CurrentBet-p.Bet, p.Chips)
		p.Bet += toCall
		p.TotalBet += toCall
		p.Chips -= toCall
		if p.Chips == 0 {
			p.AllInFlag = true
		}
		return nil

	case Raise:
		playerTotalChips := p.Chips + p.Bet
		if err := h.Betting.applyRaise(p.Seat, action.Amount, playerTotalChips); err != nil {
			return err
		}
		delta := action.Amount - p.Bet
		p.Chips -= delta
		p.TotalBet += delta
		p.Bet = action.Amount
		if p.Chips == 0 {
			p.AllInFlag = true
		}
		return nil

	case AllIn:
		allIn := p.Chips
		p.Chips = 0
		p.AllInFlag = true
		p.Bet += allIn
		p.TotalBet += allIn
		if p.Bet > h.Betting.CurrentBet {
			increment := p.Bet - h.Betting.CurrentBet
			if increment > h.Betting.bigBlind {
				h.Betting.MinRaise = increment
			}
			h.Betting.CurrentBet = p.Bet
			h.Betting.LastRaiser = p.Seat
			h.Betting.NumRaises++
			for i := range h.Betting.ActedThisRound {
				h.Betting.ActedThisRound[i] = false
			}
			h.Betting.ActedThisRound[p.Seat] = true
		}
		return nil

	default:
		return &InvalidActionError{Seat: p.Seat, Action: action.Type, Reason: "unknown action type"}
	}
}

// ForceFold folds a seat out of turn, for exceptional conditions (a
// disconnected human, a strategy that exhausted its invalid-action
// retries). It keeps round-closure bookkeeping consistent even though the
// fold did not originate from the normal Step path.
func (h *HandState) ForceFold(seat int) {
	if seat < 0 || seat >= len(h.Players) || h.Players[seat].Folded {
		return
	}

	p := h.Players[seat]
	p.Folded = true
	h.Betting.MarkActed(seat)
	h.sink.Publish(Event{Type: EventPlayerForceFolded, Seat: seat, Street: h.Street})

	if h.Street == Preflop && seat == h.bbSeat() {
		h.Betting.BBActed = true
	}
	if h.Betting.LastRaiser == seat {
		h.Betting.LastRaiser = -1
	}
	if seat == h.ActivePlayer {
		h.ActivePlayer = h.nextActivePlayer(seat + 1)
	}
	if h.ActivePlayer == -1 || h.Betting.IsComplete(h.Players, h.Street, h.bbSeat()) {
		h.advanceStreet()
	}
}

func (h *HandState) nextActivePlayer(from int) int {
	n := len(h.Players)
	for i := 0; i < n; i++ {
		pos := (from + i) % n
		if h.Players[pos].IsActive() {
			return pos
		}
	}
	return -1
}

// advanceStreet collects bets, deals the next street's community cards (or
// moves to Showdown), and finds the new street's first actor, recursing
// forward through streets with no one left to act (e.g. everyone all-in).
func (h *HandState) advanceStreet() {
	h.PotManager.CollectBets(h.Players)
	for _, p := range h.Players {
		p.Bet = 0
	}
	h.Betting.ResetForNewRound(len(h.Players))
	// A street with no raise (checked through, or skipped entirely by an
	// all-in runout) has no aggressor of its own, so LastAggressor is
	// cleared as each new betting street opens. When the river closes it is
	// kept: ShowdownReveal starts from the river's aggressor, and falls back
	// to left of the dealer only when the river checked through.
	if h.Street != River {
		h.LastAggressor = -1
	}

	switch h.Street {
	case Preflop:
		h.Street = Flop
		h.dealBoard(3)
	case Flop:
		h.Street = Turn
		h.dealBoard(1)
	case Turn:
		h.Street = River
		h.dealBoard(1)
	case River:
		h.Street = Showdown
	case Showdown:
		return
	}
	h.sink.Publish(Event{Type: EventStreetAdvanced, Seat: -1, Street: h.Street})

	if h.IsComplete() {
		h.ActivePlayer = -1
		return
	}

	h.ActivePlayer = h.nextActivePlayer((h.Button + 1) % len(h.Players))
	if h.ActivePlayer == -1 && h.Street != Showdown {
		h.advanceStreet()
	}
}

func (h *HandState) dealBoard(n int) {
	cards := h.Deck.Deal(n)
	for _, c := range cards {
		h.Board.AddCard(c)
	}
	h.sink.Publish(Event{Type: EventBoardDealt, Seat: -1, Street: h.Street, Detail: h.Board.String()})
}

// GetPots returns the current pots, including any bets not yet swept by a
// street transition.
func (h *HandState) GetPots() []Pot {
	return h.PotManager.GetPotsWithUncollected(h.Players)
}

// potTotal sums every pot, including bets not yet collected from the
// current street, for EventPotUpdated's running total.
func (h *HandState) potTotal() int {
	total := 0
	for _, pot := range h.GetPots() {
		total += pot.Amount
	}
	return total
}

// IsComplete reports whether the hand has reached showdown or been
// decided by everyone but one player folding.
func (h *HandState) IsComplete() bool {
	if h.Street == Showdown {
		return true
	}
	remaining := 0
	for _, p := range h.Players {
		if !p.Folded {
			remaining++
		}
	}
	return remaining <= 1
}

// Winners evaluates every pot's eligible hands (via the poker package, the
// concrete Hand Evaluator port implementation) and returns the winning
// seats per pot index.
func (h *HandState) Winners() map[int][]int {
	winners := make(map[int][]int)
	for idx, pot := range h.GetPots() {
		winners[idx] = h.potWinners(pot)
	}
	return winners
}

func (h *HandState) potWinners(pot Pot) []int {
	if len(pot.Eligible) == 0 {
		return nil
	}

	var stillIn []int
	for _, seat := range pot.Eligible {
		if !h.Players[seat].Folded {
			stillIn = append(stillIn, seat)
		}
	}
	if len(stillIn) <= 1 {
		return stillIn
	}

	best := poker.HandRank(0)
	var bestSeats []int
	for _, seat := range stillIn {
		p := h.Players[seat]
		rank := poker.Evaluate7Cards(p.HoleCards | h.Board)
		switch poker.CompareHands(rank, best) {
		case 1:
			best = rank
			bestSeats = []int{seat}
		case 0:
			bestSeats = append(bestSeats, seat)
		}
	}
	return bestSeats
}

// Settle distributes every pot to its winners, applying the
// closest-clockwise-from-dealer remainder rule, and returns each seat's
// net payout. It is the caller's responsibility to add the payouts to
// player chip stacks and publish EventPotAwarded/EventHandEnded once done,
// since settlement may be preceded by a showdown reveal step that an
// EventSink needs to observe first.
func (h *HandState) Settle() map[int]int {
	return Distribute(h.GetPots(), h.Winners(), h.Button, len(h.Players))
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
