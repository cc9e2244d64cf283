package domain

import "fmt"

// CardSlots is the number of development card slots on a personal board.
const CardSlots = 3

// DevelopmentCardSpace is a player's three-slot card tableau. Each slot is a
// stack of cards of strictly increasing level bottom-to-top.
type DevelopmentCardSpace struct {
	slots [CardSlots][]*DevelopmentCard
}

// NewDevelopmentCardSpace returns an empty card space.
func NewDevelopmentCardSpace() *DevelopmentCardSpace {
	return &DevelopmentCardSpace{}
}

// AddCard places a card in the 1-based slot. A card may only go on an empty
// slot when it is level 1, or atop a card exactly one level lower.
func (s *DevelopmentCardSpace) AddCard(card *DevelopmentCard, slot int) error {
	if slot < 1 || slot > CardSlots {
		return fmt.Errorf("%w: slot out of range", ErrInvalidParameter)
	}
	stack := s.slots[slot-1]
	if len(stack) == 0 {
		if card.Level != 1 {
			return fmt.Errorf("%w: only a level 1 card can start a slot", ErrInvalidDevelopmentCard)
		}
	} else if card.Level != stack[len(stack)-1].Level+1 {
		return fmt.Errorf("%w: card level must be one above the top card", ErrInvalidDevelopmentCard)
	}
	s.slots[slot-1] = append(stack, card)
	return nil
}

// Card returns the top card of the 1-based slot.
func (s *DevelopmentCardSpace) Card(slot int) (*DevelopmentCard, error) {
	if slot < 1 || slot > CardSlots {
		return nil, fmt.Errorf("%w: slot out of range", ErrInvalidParameter)
	}
	stack := s.slots[slot-1]
	if len(stack) == 0 {
		return nil, ErrNoCard
	}
	return stack[len(stack)-1], nil
}

// PowerOfProduction returns the production power of the top card in the slot.
func (s *DevelopmentCardSpace) PowerOfProduction(slot int) (PowerOfProduction, error) {
	card, err := s.Card(slot)
	if err != nil {
		return PowerOfProduction{}, err
	}
	return card.Power, nil
}

// CheckRequirement evaluates a conjunction of card thresholds against every
// owned card, including buried ones.
func (s *DevelopmentCardSpace) CheckRequirement(requirements []CardRequirement) bool {
	for _, req := range requirements {
		needed := req.Count
		if needed <= 0 {
			needed = 1
		}
		found := 0
		for _, stack := range s.slots {
			for _, card := range stack {
				if card.Color != req.Color {
					continue
				}
				if req.Level != 0 && card.Level < req.Level {
					continue
				}
				found++
			}
		}
		if found < needed {
			return false
		}
	}
	return true
}

// VictoryPoints sums the point values of every owned card.
func (s *DevelopmentCardSpace) VictoryPoints() int {
	vp := 0
	for _, stack := range s.slots {
		for _, card := range stack {
			vp += card.VictoryPoints
		}
	}
	return vp
}

// TotalCards returns how many cards the space holds.
func (s *DevelopmentCardSpace) TotalCards() int {
	total := 0
	for _, stack := range s.slots {
		total += len(stack)
	}
	return total
}

// Snapshot returns the card ids of every slot, bottom-to-top.
func (s *DevelopmentCardSpace) Snapshot() [CardSlots][]int {
	var out [CardSlots][]int
	for i, stack := range s.slots {
		ids := make([]int, len(stack))
		for j, card := range stack {
			ids[j] = card.ID
		}
		out[i] = ids
	}
	return out
}
