// Package rangeest maintains, per opponent, the textual range of two-card
// holdings that player could plausibly hold given observed actions.
package rangeest

import (
	"fmt"
	"slices"
	"strings"

	"github.com/lox/pokerengine/poker"
)

// Range is a weighted set of two-card hole-card combinations. Weights are
// always 1.0 in this implementation (no partial-frequency ranges), kept as
// a float for parity with the teacher's range representation and to leave
// room for mixed-frequency ranges without changing the API.
type Range struct {
	hands map[poker.Hand]float64
}

// NewRange returns an empty range.
func NewRange() *Range {
	return &Range{hands: make(map[poker.Hand]float64)}
}

// ParseRange builds a range from comma-separated notation atoms: pairs
// ("99"), suited/offsuit combos ("AKs", "AKo" or "AK" for both), concrete
// two-card combos with suits ("AhKh"), and "plus" ranges ("99+", "AJo+",
// "AQs+"). Every atom must parse; a malformed atom fails the whole range
// rather than silently dropping hands from it.
func ParseRange(notation string) (*Range, error) {
	r := NewRange()
	for _, part := range strings.Split(notation, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if err := r.addRangePart(part); err != nil {
			return nil, fmt.Errorf("invalid range part %q: %w", part, err)
		}
	}
	return r, nil
}

// AddCategory adds every combo matching one category atom (e.g. "AKs",
// "TT", "AhKh") to the range, the same notation ParseRange's parts use. A
// malformed category is ignored rather than erroring, since callers here
// are building a range from categories already known to be well-formed
// (this repo's own canonical-hand enumeration).
func (r *Range) AddCategory(category string) {
	_ = r.addRangePart(category)
}

func (r *Range) addRangePart(part string) error {
	if strings.Contains(part, "+") {
		return r.addPlusRange(part)
	}
	if isConcreteCombo(part) {
		return r.addConcreteCombo(part)
	}
	return r.addSingleHand(part, 1.0)
}

// isConcreteCombo reports whether notation names two specific cards with
// suits, e.g. "AhKh", as opposed to a rank-pair shorthand like "AKs".
func isConcreteCombo(notation string) bool {
	if len(notation) != 4 {
		return false
	}
	_, err1 := poker.ParseCard(notation[0:2])
	_, err2 := poker.ParseCard(notation[2:4])
	return err1 == nil && err2 == nil
}

func (r *Range) addConcreteCombo(notation string) error {
	c1, err := poker.ParseCard(notation[0:2])
	if err != nil {
		return err
	}
	c2, err := poker.ParseCard(notation[2:4])
	if err != nil {
		return err
	}
	if c1 == c2 {
		return fmt.Errorf("duplicate card in combo: %s", notation)
	}
	r.hands[poker.Hand(c1)|poker.Hand(c2)] = 1.0
	return nil
}

func (r *Range) addSingleHand(notation string, weight float64) error {
	if len(notation) < 2 || len(notation) > 3 {
		return fmt.Errorf("invalid notation length: %s", notation)
	}

	rank1 := parseRank(notation[0])
	rank2 := parseRank(notation[1])
	if rank1 < 0 || rank2 < 0 {
		return fmt.Errorf("invalid rank in: %s", notation)
	}

	if rank1 == rank2 {
		if len(notation) == 3 {
			return fmt.Errorf("pocket pairs cannot have suited/offsuit modifier: %s", notation)
		}
		return r.addPocketPair(rank1, weight)
	}

	if len(notation) == 2 {
		if err := r.addSuitedCombos(rank1, rank2, weight); err != nil {
			return err
		}
		return r.addOffsuitCombos(rank1, rank2, weight)
	}

	switch notation[2] {
	case 's':
		return r.addSuitedCombos(rank1, rank2, weight)
	case 'o':
		return r.addOffsuitCombos(rank1, rank2, weight)
	default:
		return fmt.Errorf("invalid modifier: %c", notation[2])
	}
}

func (r *Range) addPlusRange(notation string) error {
	plusIdx := strings.Index(notation, "+")
	base := notation[:plusIdx]
	if len(base) < 2 || len(base) > 3 {
		return fmt.Errorf("invalid base notation: %s", base)
	}

	rank1 := parseRank(base[0])
	rank2 := parseRank(base[1])
	if rank1 < 0 || rank2 < 0 {
		return fmt.Errorf("invalid rank")
	}

	if rank1 == rank2 {
		for rank := rank1; rank <= 12; rank++ {
			if err := r.addPocketPair(rank, 1.0); err != nil {
				return err
			}
		}
		return nil
	}

	suited, offsuit := false, false
	switch {
	case len(base) == 2:
		suited, offsuit = true, true
	case base[2] == 's':
		suited = true
	case base[2] == 'o':
		offsuit = true
	default:
		return fmt.Errorf("invalid modifier")
	}

	for rank := rank2; rank < rank1; rank++ {
		if suited {
			if err := r.addSuitedCombos(rank1, rank, 1.0); err != nil {
				return err
			}
		}
		if offsuit {
			if err := r.addOffsuitCombos(rank1, rank, 1.0); err != nil {
				return err
			}
		}
	}
	return nil
}

func (r *Range) addPocketPair(rank int, weight float64) error {
	pRank := uint8(rank)
	for suit1 := uint8(0); suit1 < 4; suit1++ {
		for suit2 := suit1 + 1; suit2 < 4; suit2++ {
			hand := poker.Hand(poker.NewCard(pRank, suit1)) | poker.Hand(poker.NewCard(pRank, suit2))
			r.hands[hand] = weight
		}
	}
	return nil
}

func (r *Range) addSuitedCombos(rank1, rank2 int, weight float64) error {
	if rank1 == rank2 {
		return fmt.Errorf("cannot have suited pocket pair")
	}
	for suit := uint8(0); suit < 4; suit++ {
		hand := poker.Hand(poker.NewCard(uint8(rank1), suit)) | poker.Hand(poker.NewCard(uint8(rank2), suit))
		r.hands[hand] = weight
	}
	return nil
}

func (r *Range) addOffsuitCombos(rank1, rank2 int, weight float64) error {
	if rank1 == rank2 {
		return fmt.Errorf("cannot have offsuit pocket pair")
	}
	for suit1 := uint8(0); suit1 < 4; suit1++ {
		for suit2 := uint8(0); suit2 < 4; suit2++ {
			if suit1 == suit2 {
				continue
			}
			hand := poker.Hand(poker.NewCard(uint8(rank1), suit1)) | poker.Hand(poker.NewCard(uint8(rank2), suit2))
			r.hands[hand] = weight
		}
	}
	return nil
}

// ContainsHand reports whether hand is a member of the range.
func (r *Range) ContainsHand(hand poker.Hand) bool {
	_, ok := r.hands[hand]
	return ok
}

// Size returns the number of distinct two-card combinations in the range.
func (r *Range) Size() int {
	return len(r.hands)
}

// Hands returns every combination in the range, sorted for deterministic
// iteration.
func (r *Range) Hands() []poker.Hand {
	hands := make([]poker.Hand, 0, len(r.hands))
	for hand := range r.hands {
		hands = append(hands, hand)
	}
	slices.Sort(hands)
	return hands
}

// Clone returns an independent copy of the range.
func (r *Range) Clone() *Range {
	clone := NewRange()
	for hand, weight := range r.hands {
		clone.hands[hand] = weight
	}
	return clone
}

// Remove deletes hand from the range if present.
func (r *Range) Remove(hand poker.Hand) {
	delete(r.hands, hand)
}

// FilterBoardConsistency removes every combination that shares a card with
// known (the board plus any hole cards already known to the observer),
// both at range creation and after every subsequent narrowing update.
func (r *Range) FilterBoardConsistency(known poker.Hand) {
	for hand := range r.hands {
		if hand&known != 0 {
			delete(r.hands, hand)
		}
	}
}

// parseRank converts a rank character to the poker package's 0-based
// Two(0)..Ace(12) encoding, or -1 if unrecognized.
func parseRank(c byte) int {
	idx := strings.IndexByte("23456789TJQKA", c)
	return idx
}
