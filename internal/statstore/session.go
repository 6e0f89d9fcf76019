package statstore

import (
	"math"
	"sync"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// HandOutcome is one completed hand's net result for one seat, the unit
// SessionStats accumulates over a run.
type HandOutcome struct {
	Seat           int
	NetBB          float64
	WentToShowdown bool
	WonAtShowdown  bool
}

// SessionStats accumulates every seat's hand-by-hand results for a run and
// reports aggregate BB/100, standard deviation, and a 95% confidence
// interval, the same win-rate reporting a batch of simulated hands needs
// at the end of a session.
type SessionStats struct {
	mu     sync.RWMutex
	values map[int][]float64

	showdownsReached map[int]int
	showdownsWon     map[int]int
}

// NewSessionStats returns an empty session accumulator.
func NewSessionStats() *SessionStats {
	return &SessionStats{
		values:           make(map[int][]float64),
		showdownsReached: make(map[int]int),
		showdownsWon:     make(map[int]int),
	}
}

// Record adds one hand's outcome for its seat.
func (s *SessionStats) Record(outcome HandOutcome) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[outcome.Seat] = append(s.values[outcome.Seat], outcome.NetBB)
	if outcome.WentToShowdown {
		s.showdownsReached[outcome.Seat]++
		if outcome.WonAtShowdown {
			s.showdownsWon[outcome.Seat]++
		}
	}
}

// SeatResult is one seat's aggregate session performance.
type SeatResult struct {
	Seat          int
	Hands         int
	BB100         float64
	StdDev        float64
	CI95Low       float64
	CI95High      float64
	ShowdownRate  float64
}

// Result computes the aggregate BB/100, standard deviation, and 95%
// t-distribution confidence interval for one seat, following
// internal/regression's CalculateStatistics/calculateCI95 (gonum's
// stat.Mean/stat.Variance for the moments, distuv.StudentsT for the
// two-tailed 97.5th-percentile critical value).
func (s *SessionStats) Result(seat int) SeatResult {
	s.mu.RLock()
	defer s.mu.RUnlock()

	values := s.values[seat]
	n := len(values)
	result := SeatResult{Seat: seat, Hands: n, ShowdownRate: ratio(s.showdownsWon[seat], s.showdownsReached[seat])}
	if n == 0 {
		return result
	}

	mean := stat.Mean(values, nil)
	result.BB100 = mean * 100

	if n < 2 {
		result.CI95Low, result.CI95High = result.BB100-100, result.BB100+100
		return result
	}

	variance := stat.Variance(values, nil)
	stdDevPerHand := math.Sqrt(variance)
	stdDev100 := stdDevPerHand * 10
	result.StdDev = stdDev100

	se := stdDev100 / math.Sqrt(float64(n))
	tDist := distuv.StudentsT{Nu: float64(n - 1), Mu: 0, Sigma: 1}
	margin := tDist.Quantile(0.975) * se
	result.CI95Low = result.BB100 - margin
	result.CI95High = result.BB100 + margin
	return result
}

// Seats returns every seat that has recorded at least one hand.
func (s *SessionStats) Seats() []int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	seats := make([]int, 0, len(s.values))
	for seat := range s.values {
		seats = append(seats, seat)
	}
	return seats
}
