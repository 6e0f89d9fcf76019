package handaudit_test

import (
	"bytes"
	"testing"
	"time"

	"github.com/lox/pokerengine/internal/engine"
	"github.com/lox/pokerengine/internal/handaudit"
	"github.com/lox/pokerengine/poker"
	"github.com/stretchr/testify/require"
)

func mustCard(t *testing.T, s string) poker.Card {
	t.Helper()
	c, err := poker.ParseCard(s)
	require.NoError(t, err)
	return c
}

func TestFinalizeEncodesFullHeadsUpHand(t *testing.T) {
	var buf bytes.Buffer
	store := handaudit.New(&buf)

	store.BeginHand(handaudit.HandMeta{
		HandID:         "hand-1",
		Table:          "default",
		Players:        []string{"alice-bot", "bob-bot"},
		StartingStacks: []int{200, 200},
		SmallBlind:     1,
		BigBlind:       2,
		Button:         0,
		Timestamp:      time.Date(2026, time.July, 31, 10, 0, 0, 0, time.UTC),
	})

	store.DealHoleCards([]poker.Hand{
		poker.NewHand(mustCard(t, "Ah"), mustCard(t, "Kh")),
		poker.NewHand(mustCard(t, "7c"), mustCard(t, "2d")),
	})

	store.Publish(engine.Event{Type: engine.EventActionTaken, Seat: 0, Action: engine.Raise, Amount: 6})
	store.Publish(engine.Event{Type: engine.EventActionTaken, Seat: 1, Action: engine.Fold})

	err := store.Finalize(handaudit.HandResult{
		FinishingStacks: []int{202, 198},
		Winnings:        []int{2, -2},
	})
	require.NoError(t, err)

	out := buf.String()
	// Hand is a bitset, so within a card group cards come out lowest
	// bit-index first (here, rank order within a shared suit), not deal order.
	require.Contains(t, out, `actions = ["d dh p1 KhAh", "d dh p2 7c2d", "p1 cbr 6", "p2 f"]`)
	require.Contains(t, out, `hand = "hand-1"`)
	require.Contains(t, out, `starting_stacks = [200, 200]`)
	require.Contains(t, out, `finishing_stacks = [202, 198]`)
}

func TestPublishOnlyEmitsNewBoardCardsPerStreet(t *testing.T) {
	var buf bytes.Buffer
	store := handaudit.New(&buf)
	store.BeginHand(handaudit.HandMeta{Players: []string{"alice-bot", "bob-bot"}, StartingStacks: []int{200, 200}})
	store.DealHoleCards([]poker.Hand{
		poker.NewHand(mustCard(t, "Ah"), mustCard(t, "Kh")),
		poker.NewHand(mustCard(t, "7c"), mustCard(t, "2d")),
	})

	flop := poker.NewHand(mustCard(t, "2h"), mustCard(t, "5s"), mustCard(t, "9c"))
	store.Publish(engine.Event{Type: engine.EventBoardDealt, Seat: -1, Detail: flop.String()})

	turn := flop | poker.NewHand(mustCard(t, "Tc"))
	store.Publish(engine.Event{Type: engine.EventBoardDealt, Seat: -1, Detail: turn.String()})

	require.NoError(t, store.Finalize(handaudit.HandResult{
		FinishingStacks: []int{200, 200},
		Winnings:        []int{0, 0},
	}))

	out := buf.String()
	require.Contains(t, out, `"d db 9c2h5s"`)
	require.Contains(t, out, `"d db Tc"`)
}

func TestPublishIgnoresUnrecognizedEventTypes(t *testing.T) {
	var buf bytes.Buffer
	store := handaudit.New(&buf)
	store.BeginHand(handaudit.HandMeta{Players: []string{"alice-bot"}, StartingStacks: []int{200}})
	store.Publish(engine.Event{Type: engine.EventHandStarted, Seat: -1})
	store.Publish(engine.Event{Type: engine.EventStreetAdvanced, Seat: -1})

	require.NoError(t, store.Finalize(handaudit.HandResult{FinishingStacks: []int{200}, Winnings: []int{0}}))
	out := buf.String()
	require.NotContains(t, out, "cbr")
	require.NotContains(t, out, " f\"")
	require.NotContains(t, out, "d dh")
	require.NotContains(t, out, "d db")
}

func TestFinalizeRecordsForceFoldAndShowdownReveal(t *testing.T) {
	var buf bytes.Buffer
	store := handaudit.New(&buf)
	store.BeginHand(handaudit.HandMeta{Players: []string{"alice-bot", "bob-bot"}, StartingStacks: []int{200, 200}})
	store.Publish(engine.Event{Type: engine.EventPlayerForceFolded, Seat: 1})

	winner := poker.NewHand(mustCard(t, "Ah"), mustCard(t, "Kh"))
	err := store.Finalize(handaudit.HandResult{
		FinishingStacks: []int{204, 196},
		Winnings:        []int{4, -4},
		RevealedHands:   []poker.Hand{winner, 0},
	})
	require.NoError(t, err)

	out := buf.String()
	require.Contains(t, out, `"p2 f"`)
	require.Contains(t, out, `"p1 sm KhAh"`)
}

func TestBeginHandResetsStateBetweenHands(t *testing.T) {
	var buf bytes.Buffer
	store := handaudit.New(&buf)

	store.BeginHand(handaudit.HandMeta{HandID: "hand-1", Players: []string{"alice-bot"}, StartingStacks: []int{200}})
	store.Publish(engine.Event{Type: engine.EventActionTaken, Seat: 0, Action: engine.Check})
	require.NoError(t, store.Finalize(handaudit.HandResult{FinishingStacks: []int{200}, Winnings: []int{0}}))

	buf.Reset()
	store.BeginHand(handaudit.HandMeta{HandID: "hand-2", Players: []string{"alice-bot"}, StartingStacks: []int{200}})
	require.NoError(t, store.Finalize(handaudit.HandResult{FinishingStacks: []int{200}, Winnings: []int{0}}))

	out := buf.String()
	require.Contains(t, out, `hand = "hand-2"`)
	require.NotContains(t, out, "p1 cc")
}
