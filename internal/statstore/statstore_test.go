package statstore

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSnapshotComputesRatesFromOpportunities(t *testing.T) {
	t.Parallel()
	s := New()

	for i := 0; i < 10; i++ {
		s.RecordHandStart(1)
	}
	s.RecordVoluntaryPreflopAction(1, true)  // VPIP + PFR
	s.RecordVoluntaryPreflopAction(1, true)  // VPIP + PFR
	s.RecordVoluntaryPreflopAction(1, false) // VPIP only

	snap := s.Snapshot(1)
	require.Equal(t, 10, snap.HandsObserved)
	require.InDelta(t, 0.3, snap.VPIP, 1e-9)
	require.InDelta(t, 0.2, snap.PFR, 1e-9)
}

func TestSnapshotThreeBetAndFourBetRates(t *testing.T) {
	t.Parallel()
	s := New()

	s.RecordThreeBetSpot(2, true)
	s.RecordThreeBetSpot(2, false)
	s.RecordThreeBetSpot(2, false)
	s.RecordThreeBetSpot(2, false)

	s.RecordFourBetSpot(2, true)

	snap := s.Snapshot(2)
	require.InDelta(t, 0.25, snap.ThreeBet, 1e-9)
	require.InDelta(t, 1.0, snap.FourBet, 1e-9)
}

func TestSnapshotContinuationBetAndShowdownRates(t *testing.T) {
	t.Parallel()
	s := New()

	s.RecordContinuationBetSpot(3, true)
	s.RecordContinuationBetSpot(3, true)
	s.RecordContinuationBetSpot(3, false)

	s.RecordShowdown(3, true)
	s.RecordShowdown(3, false)

	snap := s.Snapshot(3)
	require.InDelta(t, 2.0/3.0, snap.ContinuationBet, 1e-9)
	require.InDelta(t, 0.5, snap.ShowdownWinRate, 1e-9)
}

func TestSnapshotUnobservedSeatIsZero(t *testing.T) {
	t.Parallel()
	s := New()
	snap := s.Snapshot(99)
	require.Equal(t, Snapshot{}, snap)
}

func TestSnapshotCallThreeBetRate(t *testing.T) {
	t.Parallel()
	s := New()
	s.RecordCallThreeBetSpot(4, true)
	s.RecordCallThreeBetSpot(4, true)
	s.RecordCallThreeBetSpot(4, false)

	snap := s.Snapshot(4)
	require.InDelta(t, 2.0/3.0, snap.CallThreeBet, 1e-9)
}
