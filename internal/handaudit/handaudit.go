// Package handaudit records completed hands to disk in PHH-style TOML,
// implementing the optional HandAuditStore port: an engine.EventSink that
// accumulates one hand's action stream as it happens, then encodes the
// whole hand once HandMeta/HandResult close it out.
package handaudit

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/lox/pokerengine/internal/engine"
	"github.com/lox/pokerengine/internal/phh"
	"github.com/lox/pokerengine/poker"
)

// HandMeta is the information known at the start of a hand that the
// engine's event stream itself never carries (player names, starting
// stacks, blinds) but phh.HandHistory needs.
type HandMeta struct {
	HandID         string
	Table          string
	Players        []string
	StartingStacks []int
	SmallBlind     int
	BigBlind       int
	Button         int
	Timestamp      time.Time
}

// HandResult is the information known only once a hand is over: final
// stacks, net winnings per seat, hole cards revealed at showdown (a zero
// poker.Hand for a seat that folded and was never shown), and the final board.
type HandResult struct {
	FinishingStacks []int
	Winnings        []int
	RevealedHands   []poker.Hand // zero Hand for a seat never shown
	Board           poker.Hand
}

// Store accumulates one hand's action stream via Publish (engine.EventSink)
// and writes a complete phh.HandHistory to w once Finalize is called for
// that hand. One Store instance serves one writer across many hands, each
// one's record appended after the previous.
type Store struct {
	mu sync.Mutex
	w  io.Writer

	meta      HandMeta
	actions   []string
	dealt     bool
	boardSeen poker.Hand
}

// New returns a Store writing hand histories to w as they complete.
func New(w io.Writer) *Store {
	return &Store{w: w}
}

// BeginHand starts accumulating a new hand's actions; any prior hand
// must have been finalized first.
func (s *Store) BeginHand(meta HandMeta) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.meta = meta
	s.actions = s.actions[:0]
	s.dealt = false
	s.boardSeen = 0
}

// Publish implements engine.EventSink, appending one action line per
// action-bearing event in the order the engine produces them.
func (s *Store) Publish(e engine.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch e.Type {
	case engine.EventActionTaken:
		if line, ok := formatAction(e.Seat, e.Action, e.Amount); ok {
			s.actions = append(s.actions, line)
		}
	case engine.EventPlayerForceFolded:
		s.actions = append(s.actions, fmt.Sprintf("p%d f", e.Seat+1))
	case engine.EventBoardDealt:
		current := parseBoard(e.Detail)
		newCards := current &^ s.boardSeen
		if newCards != 0 {
			s.actions = append(s.actions, fmt.Sprintf("d db %s", handCardsString(newCards)))
		}
		s.boardSeen = current
	}
}

// parseBoard reconstructs a poker.Hand from the space-separated card string
// h.Board.String() produces, ignoring any token that fails to parse.
func parseBoard(s string) poker.Hand {
	var board poker.Hand
	for _, token := range strings.Fields(s) {
		if c, err := poker.ParseCard(token); err == nil {
			board.AddCard(c)
		}
	}
	return board
}

// formatAction adapts engine.ActionType to phh.FormatAction's string
// vocabulary; the blind-post exclusion phh.FormatAction performs doesn't
// apply here since NewHand reports blinds as EventBlindPosted (with
// PostSmallBlind/PostBigBlind), which Publish does not record, so no blind
// action ever reaches this function.
func formatAction(seat int, action engine.ActionType, amount int) (string, bool) {
	switch action {
	case engine.Fold:
		return phh.FormatAction(seat, "fold", amount)
	case engine.Check:
		return phh.FormatAction(seat, "check", amount)
	case engine.Call:
		return phh.FormatAction(seat, "call", amount)
	case engine.Raise:
		return phh.FormatAction(seat, "raise", amount)
	case engine.AllIn:
		return phh.FormatAction(seat, "allin", amount)
	default:
		return "", false
	}
}

// DealHoleCards records the "d dh" lines for every seat's hole cards.
// Called once, after BeginHand, since the engine doesn't publish an event
// carrying the dealt cards themselves (EventHoleCardsDealt's Seat is -1).
func (s *Store) DealHoleCards(holeCards []poker.Hand) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.dealt {
		return
	}
	s.dealt = true
	dealLines := make([]string, 0, len(holeCards))
	for seat, hand := range holeCards {
		dealLines = append(dealLines, fmt.Sprintf("d dh p%d %s", seat+1, handCardsString(hand)))
	}
	s.actions = append(dealLines, s.actions...)
}

func handCardsString(hand poker.Hand) string {
	var out string
	for _, c := range boardCards(hand) {
		out += c
	}
	return out
}

// boardCards lists the individual PHH-notation cards set in hand, lowest
// bit first (the order poker.Hand.String uses internally).
func boardCards(hand poker.Hand) []string {
	var cards []string
	for i := 0; i < 52; i++ {
		c := poker.Card(1) << i
		if hand.HasCard(c) {
			cards = append(cards, phh.NormalizeCard(c.String()))
		}
	}
	return cards
}

// showdownLines appends a "pN sm <cards>" line for each seat whose hand was
// revealed at showdown; a zero Hand means that seat was never shown.
func showdownLines(revealed []poker.Hand) []string {
	var lines []string
	for seat, hand := range revealed {
		if hand == 0 {
			continue
		}
		lines = append(lines, fmt.Sprintf("p%d sm %s", seat+1, handCardsString(hand)))
	}
	return lines
}

// Finalize writes the accumulated hand as one phh.HandHistory record and
// resets the buffer for the next hand.
func (s *Store) Finalize(result HandResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	seats := make([]int, len(s.meta.Players))
	blinds := make([]int, len(s.meta.Players))
	antes := make([]int, len(s.meta.Players))
	for i := range seats {
		seats[i] = i + 1
	}
	if len(blinds) > 0 {
		sbSeat := (s.meta.Button + 1) % len(blinds)
		bbSeat := (s.meta.Button + 2) % len(blinds)
		if len(blinds) == 2 {
			sbSeat, bbSeat = s.meta.Button, (s.meta.Button+1)%2
		}
		blinds[sbSeat] = s.meta.SmallBlind
		blinds[bbSeat] = s.meta.BigBlind
	}

	hand := &phh.HandHistory{
		Variant:           "NT",
		Table:             s.meta.Table,
		SeatCount:         len(s.meta.Players),
		Seats:             seats,
		Antes:             antes,
		BlindsOrStraddles: blinds,
		MinBet:            s.meta.BigBlind,
		StartingStacks:    s.meta.StartingStacks,
		FinishingStacks:   result.FinishingStacks,
		Winnings:          result.Winnings,
		Actions:           append(append([]string(nil), s.actions...), showdownLines(result.RevealedHands)...),
		Players:           s.meta.Players,
		HandID:            s.meta.HandID,
		Time:              s.meta.Timestamp.Format("15:04:05"),
		TimeZone:          s.meta.Timestamp.Location().String(),
		Day:               s.meta.Timestamp.Day(),
		Month:             int(s.meta.Timestamp.Month()),
		Year:              s.meta.Timestamp.Year(),
		Timestamp:         s.meta.Timestamp,
		Board:             boardCards(result.Board),
	}

	return phh.Encode(s.w, hand)
}
