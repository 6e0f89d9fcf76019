package equity

import (
	"math/bits"
	"slices"

	"github.com/lox/pokerengine/poker"
)

// DrawType is a kind of draw a hand can hold on an unfinished board.
type DrawType int

const (
	FlushDraw DrawType = iota
	NutFlushDraw
	OpenEndedStraightDraw
	Gutshot
	ComboDraw
	BackdoorFlush
	Overcards
	NoDraw
)

func (dt DrawType) String() string {
	switch dt {
	case FlushDraw:
		return "flush draw"
	case NutFlushDraw:
		return "nut flush draw"
	case OpenEndedStraightDraw:
		return "open-ended straight draw"
	case Gutshot:
		return "gutshot"
	case ComboDraw:
		return "combo draw"
	case BackdoorFlush:
		return "backdoor flush"
	case Overcards:
		return "overcards"
	case NoDraw:
		return "no draw"
	default:
		return "unknown"
	}
}

// DrawInfo summarizes the draws present in a hand plus board combination.
type DrawInfo struct {
	Draws   []DrawType
	Outs    int
	NutOuts int
}

// HasStrongDraw reports a flush draw, OESD, or combo draw.
func (d DrawInfo) HasStrongDraw() bool {
	for _, draw := range d.Draws {
		switch draw {
		case FlushDraw, NutFlushDraw, OpenEndedStraightDraw, ComboDraw:
			return true
		}
	}
	return false
}

// HasWeakDraw reports a gutshot, backdoor flush, or overcards.
func (d DrawInfo) HasWeakDraw() bool {
	for _, draw := range d.Draws {
		switch draw {
		case Gutshot, BackdoorFlush, Overcards:
			return true
		}
	}
	return false
}

// DetectDraws finds every draw a hand holds against the current board.
func DetectDraws(holeCards, board poker.Hand) DrawInfo {
	if board.CountCards() < 3 {
		return DrawInfo{Draws: []DrawType{NoDraw}}
	}

	var draws []DrawType
	var outsMask, nutOutsMask poker.Hand
	allCards := holeCards | board

	flush := detectFlushDraw(holeCards, board)
	if flush.HasFlushDraw {
		if flush.IsNutFlushDraw {
			draws = append(draws, NutFlushDraw)
			nutOutsMask |= flush.OutsMask
		} else {
			draws = append(draws, FlushDraw)
		}
		outsMask |= flush.OutsMask
	}

	straight := detectStraightDraws(holeCards, board)
	if straight.HasOESD {
		draws = append(draws, OpenEndedStraightDraw)
		outsMask |= straight.OESDOutsMask
	}
	if straight.HasGutshot {
		draws = append(draws, Gutshot)
		outsMask |= straight.GutshotOutsMask
	}

	if board.CountCards() == 3 {
		if bf := detectBackdoorFlush(holeCards, board); bf {
			draws = append(draws, BackdoorFlush)
		}
	}

	if !flush.HasFlushDraw && !straight.HasOESD {
		over := detectOvercards(holeCards, board, allCards)
		if over.HasOvercards {
			draws = append(draws, Overcards)
			outsMask |= over.OutsMask
		}
	}

	totalOuts := outsMask.CountCards()
	nutOuts := nutOutsMask.CountCards()

	if len(draws) >= 2 && totalOuts >= 12 {
		draws = append(draws, ComboDraw)
	}
	if len(draws) == 0 {
		draws = []DrawType{NoDraw}
	}

	return DrawInfo{Draws: draws, Outs: totalOuts, NutOuts: nutOuts}
}

type flushDrawResult struct {
	HasFlushDraw   bool
	IsNutFlushDraw bool
	OutsMask       poker.Hand
}

func detectFlushDraw(holeCards, board poker.Hand) flushDrawResult {
	for suit := uint8(0); suit < 4; suit++ {
		holeMask := holeCards.GetSuitMask(suit)
		boardMask := board.GetSuitMask(suit)
		holeCount := bits.OnesCount16(holeMask)
		total := holeCount + bits.OnesCount16(boardMask)

		// A flush draw requires at least one hole card contributing to the suit.
		if total >= 4 && holeCount > 0 {
			used := holeMask | boardMask
			available := uint16(0x1FFF) &^ used
			outs := poker.Hand(available) << (uint64(suit) * 13)
			isNut := holeMask&(1<<poker.Ace) != 0
			return flushDrawResult{HasFlushDraw: true, IsNutFlushDraw: isNut, OutsMask: outs}
		}
	}
	return flushDrawResult{}
}

type straightDrawResult struct {
	HasOESD        bool
	HasGutshot     bool
	OESDOutsMask   poker.Hand
	GutshotOutsMask poker.Hand
}

func detectStraightDraws(holeCards, board poker.Hand) straightDrawResult {
	rankMask := (holeCards | board).GetRankMask()
	var result straightDrawResult

	for start := 0; start <= 9; start++ {
		consecutive := 0
		for i := 0; i < 4; i++ {
			if rankMask&(1<<(start+i)) != 0 {
				consecutive++
			}
		}
		if consecutive != 4 {
			continue
		}
		lowRank, highRank := start-1, start+4
		if lowRank < 0 || highRank > int(poker.Ace) {
			continue
		}
		if rankMask&(1<<lowRank) == 0 && rankMask&(1<<highRank) == 0 {
			result.HasOESD = true
			for suit := uint8(0); suit < 4; suit++ {
				result.OESDOutsMask.AddCard(poker.NewCard(uint8(lowRank), suit))
				result.OESDOutsMask.AddCard(poker.NewCard(uint8(highRank), suit))
			}
		}
	}

	for start := 0; start <= 8; start++ {
		var present []int
		for i := 0; i < 5; i++ {
			if rankMask&(1<<(start+i)) != 0 {
				present = append(present, start+i)
			}
		}
		if len(present) != 4 {
			continue
		}
		first, last := present[0], present[len(present)-1]
		if last-first == 3 {
			lowOut, highOut := first-1, last+1
			if first == 0 {
				lowOut = int(poker.Ace)
			}
			hasLow := lowOut >= 0 && lowOut <= int(poker.Ace) && rankMask&(1<<lowOut) == 0
			hasHigh := highOut >= 0 && highOut <= int(poker.Ace) && rankMask&(1<<highOut) == 0
			if hasLow && hasHigh {
				continue // already counted as an OESD
			}
		}

		needed := make(map[int]bool, 5)
		for i := 0; i < 5; i++ {
			needed[start+i] = true
		}
		missing := -1
		for rank := range needed {
			if !slices.Contains(present, rank) {
				missing = rank
				break
			}
		}
		if missing < 0 {
			continue
		}
		result.HasGutshot = true
		for suit := uint8(0); suit < 4; suit++ {
			result.GutshotOutsMask.AddCard(poker.NewCard(uint8(missing), suit))
		}
		break
	}

	return result
}

func detectBackdoorFlush(holeCards, board poker.Hand) bool {
	if board.CountCards() != 3 {
		return false
	}
	for suit := uint8(0); suit < 4; suit++ {
		holeCount := bits.OnesCount16(holeCards.GetSuitMask(suit))
		boardCount := bits.OnesCount16(board.GetSuitMask(suit))
		if holeCount >= 1 && holeCount+boardCount == 3 {
			return true
		}
	}
	return false
}

type overcardsResult struct {
	HasOvercards bool
	OutsMask     poker.Hand
}

func detectOvercards(holeCards, board, usedCards poker.Hand) overcardsResult {
	boardRanks := board.GetRankMask()
	var highestBoardRank uint8
	for rank := uint8(12); rank > 0; rank-- {
		if boardRanks&(1<<rank) != 0 {
			highestBoardRank = rank
			break
		}
	}

	holeRanks := holeCards.GetRankMask()
	var outs poker.Hand
	for rank := highestBoardRank + 1; rank <= 12; rank++ {
		if holeRanks&(1<<rank) == 0 {
			continue
		}
		for suit := uint8(0); suit < 4; suit++ {
			card := poker.NewCard(rank, suit)
			if !usedCards.HasCard(card) {
				outs |= poker.Hand(card)
			}
		}
	}
	return overcardsResult{HasOvercards: outs.CountCards() > 0, OutsMask: outs}
}
