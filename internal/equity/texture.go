// Package equity provides Monte Carlo equity simulation and postflop
// board/hand structural analysis, built on the bit-packed poker.Hand
// representation.
package equity

import (
	"math/bits"

	"github.com/lox/pokerengine/poker"
)

// BoardTexture is the "wetness" of a board from dry to very wet.
type BoardTexture int

const (
	Dry BoardTexture = iota
	SemiWet
	Wet
	VeryWet
)

func (bt BoardTexture) String() string {
	switch bt {
	case Dry:
		return "dry"
	case SemiWet:
		return "semi-wet"
	case Wet:
		return "wet"
	case VeryWet:
		return "very wet"
	default:
		return "unknown"
	}
}

// FlushInfo describes flush potential on a board.
type FlushInfo struct {
	MaxSuitCount int
	DominantSuit *uint8
	IsMonotone   bool
	IsRainbow    bool
}

// StraightInfo describes straight potential on a board.
type StraightInfo struct {
	ConnectedCards int
	Gaps           int
	HasAce         bool
	BroadwayCards  int
}

// AnalyzeBoardTexture scores how coordinated a board is.
func AnalyzeBoardTexture(board poker.Hand) BoardTexture {
	if board.CountCards() < 3 {
		return Dry
	}

	var wetness int

	flush := AnalyzeFlushPotential(board)
	switch {
	case flush.IsMonotone:
		wetness += 4
	case flush.MaxSuitCount >= 4:
		wetness += 4
	case flush.MaxSuitCount == 3:
		wetness += 3
	case flush.MaxSuitCount == 2:
		wetness += 1
	}

	straight := AnalyzeStraightPotential(board)
	switch {
	case straight.ConnectedCards >= 4:
		wetness += 4
	case straight.ConnectedCards == 3:
		wetness += 3
	case straight.ConnectedCards == 2:
		wetness += 1
	}

	if countBoardPairs(board) >= 1 {
		wetness++
	}
	if countHighCards(board) >= 3 {
		wetness++
	}

	switch {
	case wetness <= 0:
		return Dry
	case wetness <= 3:
		return SemiWet
	case wetness <= 5:
		return Wet
	default:
		return VeryWet
	}
}

// AnalyzeFlushPotential reports the strongest suit concentration on the board.
func AnalyzeFlushPotential(board poker.Hand) FlushInfo {
	var suitCounts [4]int
	var suitMasks [4]uint16

	for suit := uint8(0); suit < 4; suit++ {
		mask := board.GetSuitMask(suit)
		suitCounts[suit] = bits.OnesCount16(mask)
		suitMasks[suit] = mask
	}

	var maxCount int
	var dominantSuit *uint8
	bestRank := -1
	nonZeroSuits := 0

	// Walk suits high-to-low: ties in count go to the suit with the higher
	// top card, and only then to the higher suit.
	for suit := 3; suit >= 0; suit-- {
		count := suitCounts[suit]
		if count == 0 {
			continue
		}
		nonZeroSuits++

		highestRank := bits.Len16(suitMasks[suit]) - 1
		if count > maxCount || (count == maxCount && highestRank > bestRank) {
			maxCount = count
			bestRank = highestRank
			s := uint8(suit)
			dominantSuit = &s
		}
	}

	cardCount := board.CountCards()
	return FlushInfo{
		MaxSuitCount: maxCount,
		DominantSuit: dominantSuit,
		IsMonotone:   nonZeroSuits == 1 && cardCount >= 3,
		IsRainbow:    nonZeroSuits == cardCount && cardCount >= 3,
	}
}

// AnalyzeStraightPotential reports rank connectivity on the board.
func AnalyzeStraightPotential(board poker.Hand) StraightInfo {
	cardCount := board.CountCards()
	if cardCount == 0 {
		return StraightInfo{}
	}

	rankMask := board.GetRankMask()
	hasAce := rankMask&(1<<poker.Ace) != 0

	if cardCount == 1 {
		broadway := 0
		if hasAce {
			broadway = 1
		}
		return StraightInfo{ConnectedCards: 1, HasAce: hasAce, BroadwayCards: broadway}
	}

	broadwayCount := 0
	for rank := poker.Ten; rank <= poker.Ace; rank++ {
		if rankMask&(1<<rank) != 0 {
			broadwayCount++
		}
	}

	var ranks []int
	for rank := 0; rank < 13; rank++ {
		if rankMask&(1<<rank) != 0 {
			ranks = append(ranks, rank)
		}
	}
	if len(ranks) == 0 {
		return StraightInfo{}
	}

	maxConnected, current, totalGaps := 1, 1, 0
	for i := 1; i < len(ranks); i++ {
		gap := ranks[i] - ranks[i-1] - 1
		if gap == 0 {
			current++
			continue
		}
		if current > maxConnected {
			maxConnected = current
		}
		current = 1
		totalGaps += gap
	}
	if current > maxConnected {
		maxConnected = current
	}

	// A-low wheel connectivity: treat the ace as rank -1 when low cards are present.
	if hasAce {
		var low []int
		for _, r := range ranks {
			if r <= 3 {
				low = append(low, r)
			}
		}
		if len(low) >= 2 {
			wheel := append([]int{-1}, low...)
			wheelConnected, wheelMax := 1, 1
			for i := 1; i < len(wheel); i++ {
				if wheel[i]-wheel[i-1] == 1 {
					wheelConnected++
				} else {
					if wheelConnected > wheelMax {
						wheelMax = wheelConnected
					}
					wheelConnected = 1
				}
			}
			if wheelConnected > wheelMax {
				wheelMax = wheelConnected
			}
			if wheelMax > maxConnected {
				maxConnected = wheelMax
			}
		}
	}

	return StraightInfo{ConnectedCards: maxConnected, Gaps: totalGaps, HasAce: hasAce, BroadwayCards: broadwayCount}
}

func countBoardPairs(board poker.Hand) int {
	var counts [13]int
	for suit := uint8(0); suit < 4; suit++ {
		mask := board.GetSuitMask(suit)
		for rank := uint8(0); rank < 13; rank++ {
			if mask&(1<<rank) != 0 {
				counts[rank]++
			}
		}
	}
	pairs := 0
	for _, c := range counts {
		if c >= 2 {
			pairs++
		}
	}
	return pairs
}

func countHighCards(board poker.Hand) int {
	count := 0
	for suit := uint8(0); suit < 4; suit++ {
		mask := board.GetSuitMask(suit)
		count += bits.OnesCount16(mask & 0x1F00) // T,J,Q,K,A
	}
	return count
}
