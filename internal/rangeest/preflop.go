package rangeest

import (
	"context"
	"math/rand"
	"sort"
	"sync"

	"github.com/lox/pokerengine/internal/equity"
	"github.com/lox/pokerengine/poker"
)

// TableBucket names one of the four preflop lookup tables the estimator
// keys opening percentiles from.
type TableBucket int

const (
	HeadsUp TableBucket = iota
	ThreeHanded
	FourHanded
	FiveHandedPlus
)

// BucketForTableSize maps an active seat count to its lookup-table bucket.
func BucketForTableSize(numPlayers int) TableBucket {
	switch {
	case numPlayers <= 2:
		return HeadsUp
	case numPlayers == 3:
		return ThreeHanded
	case numPlayers == 4:
		return FourHanded
	default:
		return FiveHandedPlus
	}
}

func (b TableBucket) opponents() int {
	switch b {
	case HeadsUp:
		return 1
	case ThreeHanded:
		return 2
	case FourHanded:
		return 3
	default:
		return 5
	}
}

type canonicalHand struct {
	category string
	rank1    int // poker.Two..poker.Ace, rank1 >= rank2
	rank2    int
	suited   bool
}

// allCanonicalHands enumerates the 169 distinct starting-hand categories:
// 13 pocket pairs, 78 suited combos, 78 offsuit combos.
func allCanonicalHands() []canonicalHand {
	hands := make([]canonicalHand, 0, 169)
	for r1 := 12; r1 >= 0; r1-- {
		hands = append(hands, canonicalHand{category(r1, r1, false), r1, r1, false})
		for r2 := r1 - 1; r2 >= 0; r2-- {
			hands = append(hands, canonicalHand{category(r1, r2, true), r1, r2, true})
			hands = append(hands, canonicalHand{category(r1, r2, false), r1, r2, false})
		}
	}
	return hands
}

func category(rank1, rank2 int, suited bool) string {
	chars := "23456789TJQKA"
	if rank1 == rank2 {
		return string([]byte{chars[rank1], chars[rank2]})
	}
	if suited {
		return string([]byte{chars[rank1], chars[rank2], 's'})
	}
	return string([]byte{chars[rank1], chars[rank2], 'o'})
}

func (h canonicalHand) representativeHand() poker.Hand {
	if h.rank1 == h.rank2 {
		return poker.NewHand(poker.NewCard(uint8(h.rank1), poker.Clubs), poker.NewCard(uint8(h.rank2), poker.Diamonds))
	}
	if h.suited {
		return poker.NewHand(poker.NewCard(uint8(h.rank1), poker.Clubs), poker.NewCard(uint8(h.rank2), poker.Clubs))
	}
	return poker.NewHand(poker.NewCard(uint8(h.rank1), poker.Clubs), poker.NewCard(uint8(h.rank2), poker.Diamonds))
}

// PreflopTable ranks all 169 starting-hand categories best to worst for one
// table-size bucket, letting the estimator answer "is category X within the
// top N%".
type PreflopTable struct {
	ordered  []string       // best to worst
	rankPct  map[string]float64 // category -> percentile, 0 (best) to 100 (worst)
}

// percentileOf returns the percentile rank of category (0 = best possible
// hand, 100 = worst), or 100 if the category is unrecognized.
func (t *PreflopTable) percentileOf(cat string) float64 {
	if pct, ok := t.rankPct[cat]; ok {
		return pct
	}
	return 100
}

// TopPercent returns every category within the top pct% of this bucket's
// ranking (pct clamped to [1, 100]).
func (t *PreflopTable) TopPercent(pct float64) []string {
	if pct < 1 {
		pct = 1
	}
	if pct > 100 {
		pct = 100
	}
	cutoff := int((pct / 100) * float64(len(t.ordered)))
	if cutoff < 1 {
		cutoff = 1
	}
	if cutoff > len(t.ordered) {
		cutoff = len(t.ordered)
	}
	return t.ordered[:cutoff]
}

// buildPreflopTable computes one bucket's table via Monte Carlo equity
// simulation of every canonical hand against `opponents` random hands, the
// same approach sdk/analysis/preflop.go's GeneratePreflopTable uses. The
// teacher generates this once offline via `go:generate` into a static file;
// this module instead computes it lazily on first use (see Tables() below),
// since embedding a generated table would require running the simulation
// ahead of time through the Go toolchain.
func buildPreflopTable(opponents, simulationsPerHand int, rng *rand.Rand) *PreflopTable {
	hands := allCanonicalHands()
	type scored struct {
		category string
		equity   float64
	}
	scores := make([]scored, 0, len(hands))
	for _, h := range hands {
		result, err := equity.SimulateEquity(context.Background(), h.representativeHand(), poker.Hand(0), opponents, simulationsPerHand, rng)
		if err != nil {
			continue
		}
		scores = append(scores, scored{h.category, result.Equity()})
	}

	sort.Slice(scores, func(i, j int) bool { return scores[i].equity > scores[j].equity })

	table := &PreflopTable{
		ordered: make([]string, len(scores)),
		rankPct: make(map[string]float64, len(scores)),
	}
	for i, s := range scores {
		table.ordered[i] = s.category
		table.rankPct[s.category] = (float64(i) / float64(len(scores))) * 100
	}
	return table
}

var (
	tablesOnce sync.Once
	tables     [4]*PreflopTable
)

// simulationsPerHandDefault keeps lazy table construction fast; it is not
// the headline-equity iteration count from SimulateEquity callers, just the
// ranking precision needed to order 169 categories relative to each other.
const simulationsPerHandDefault = 400

// Tables returns the four table-size-keyed PreflopTable lookups, building
// them on first call and reusing the result afterward.
func Tables(rng *rand.Rand) [4]*PreflopTable {
	tablesOnce.Do(func() {
		for _, bucket := range []TableBucket{HeadsUp, ThreeHanded, FourHanded, FiveHandedPlus} {
			tables[bucket] = buildPreflopTable(bucket.opponents(), simulationsPerHandDefault, rng)
		}
	})
	return tables
}
