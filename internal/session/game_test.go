package session

import (
	"context"
	"testing"

	"github.com/lox/pokerengine/internal/engine"
	"github.com/stretchr/testify/require"
)

func newTestSession(t *testing.T, players int, seed int64) *Session {
	t.Helper()
	sess, err := New(Config{
		MaxNumberOfPlayers:  players,
		StartMoney:          1000,
		FirstSmallBlind:     5,
		TableProfile:        RandomOpponents,
		StartDealerPlayerID: AutoSelectDealer,
		HumanSeat:           -1,
	}, WithSeed(seed))
	require.NoError(t, err)
	return sess
}

func totalChips(sess *Session, players int) int {
	total := 0
	for i := 0; i < players; i++ {
		total += sess.Game.SeatChips(i)
	}
	return total
}

func TestStartNewHandConservesChips(t *testing.T) {
	t.Parallel()

	const players = 6
	sess := newTestSession(t, players, 1)
	before := totalChips(sess, players)

	for i := 0; i < 200; i++ {
		require.NoError(t, sess.Game.StartNewHand(context.Background()))
	}

	require.Equal(t, before, totalChips(sess, players))
}

func TestStartNewHandRotatesButton(t *testing.T) {
	t.Parallel()

	sess := newTestSession(t, 4, 2)
	first := sess.Game.Button()
	require.NoError(t, sess.Game.StartNewHand(context.Background()))
	require.NotEqual(t, first, sess.Game.Button())
}

func TestStartNewHandRecordsSessionStats(t *testing.T) {
	t.Parallel()

	const players = 4
	sess := newTestSession(t, players, 3)
	for i := 0; i < 50; i++ {
		require.NoError(t, sess.Game.StartNewHand(context.Background()))
	}

	seats := sess.Results.Seats()
	require.Len(t, seats, players)
	for _, seat := range seats {
		r := sess.Results.Result(seat)
		require.Equal(t, 50, r.Hands)
	}
}

func TestStartNewHandRecordsBehavioralStats(t *testing.T) {
	t.Parallel()

	const players = 6
	sess := newTestSession(t, players, 5)
	for i := 0; i < 300; i++ {
		require.NoError(t, sess.Game.StartNewHand(context.Background()))
	}

	var sawVoluntaryAction, sawContinuationBet bool
	for id := 0; id < players; id++ {
		snap := sess.Game.stats.Snapshot(id)
		require.Equal(t, 300, snap.HandsObserved)
		if snap.VPIP > 0 || snap.PFR > 0 {
			sawVoluntaryAction = true
		}
		if snap.ContinuationBet > 0 {
			sawContinuationBet = true
		}
	}

	require.True(t, sawVoluntaryAction, "random opponents should voluntarily enter pots across 300 hands")
	require.True(t, sawContinuationBet, "300 hands across 6 seats should produce at least one flop continuation bet")
}

type eventCollector struct {
	events []engine.Event
}

func (c *eventCollector) Publish(e engine.Event) {
	c.events = append(c.events, e)
}

func TestStartNewHandPublishesShowdownRevealOrder(t *testing.T) {
	t.Parallel()

	collector := &eventCollector{}
	sess, err := New(Config{
		MaxNumberOfPlayers:  6,
		StartMoney:          1000,
		FirstSmallBlind:     5,
		TableProfile:        RandomOpponents,
		StartDealerPlayerID: AutoSelectDealer,
		HumanSeat:           -1,
	}, WithSeed(9), WithEventSink(collector))
	require.NoError(t, err)

	var sawReveal bool
	for i := 0; i < 300 && !sawReveal; i++ {
		collector.events = nil
		require.NoError(t, sess.Game.StartNewHand(context.Background()))
		for _, e := range collector.events {
			if e.Type == engine.EventShowdownRevealOrder {
				sawReveal = true
				require.NotEmpty(t, e.Seats)
			}
		}
	}

	require.True(t, sawReveal, "300 hands at 6-handed should reach at least one showdown")
}

func TestStartNewHandHeadsUpStopsWhenASeatBusts(t *testing.T) {
	t.Parallel()

	sess := newTestSession(t, 2, 4)
	hands := 0
	for ; hands < 2000; hands++ {
		if err := sess.Game.StartNewHand(context.Background()); err != nil {
			break
		}
	}

	require.Equal(t, 2000, totalChips(sess, 2))
	if hands < 2000 {
		require.True(t, sess.Game.SeatChips(0) == 0 || sess.Game.SeatChips(1) == 0)
	}
}
