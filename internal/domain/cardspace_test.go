package domain

import (
	"errors"
	"testing"
)

func card(id, level int, color CardColor, vp int) *DevelopmentCard {
	return &DevelopmentCard{ID: id, Color: color, Level: level, VictoryPoints: vp}
}

func TestAddCardStackingRule(t *testing.T) {
	s := NewDevelopmentCardSpace()

	if err := s.AddCard(card(1, 2, GreenCard, 5), 1); !errors.Is(err, ErrInvalidDevelopmentCard) {
		t.Fatalf("level 2 on empty slot = %v, want invalid development card", err)
	}
	if err := s.AddCard(card(2, 1, GreenCard, 1), 1); err != nil {
		t.Fatalf("level 1 on empty slot: %v", err)
	}
	if err := s.AddCard(card(3, 3, BlueCard, 9), 1); !errors.Is(err, ErrInvalidDevelopmentCard) {
		t.Fatalf("level 3 on level 1 = %v, want invalid development card", err)
	}
	if err := s.AddCard(card(4, 2, BlueCard, 5), 1); err != nil {
		t.Fatalf("level 2 on level 1: %v", err)
	}
	if err := s.AddCard(card(5, 1, YellowCard, 1), 4); !errors.Is(err, ErrInvalidParameter) {
		t.Fatalf("slot out of range = %v, want invalid parameter", err)
	}

	top, err := s.Card(1)
	if err != nil {
		t.Fatalf("Card(1): %v", err)
	}
	if top.ID != 4 {
		t.Fatalf("top card = %d, want 4", top.ID)
	}
	if _, err := s.Card(2); !errors.Is(err, ErrNoCard) {
		t.Fatalf("empty slot = %v, want no card", err)
	}
}

func TestCheckRequirementCountsBuriedCards(t *testing.T) {
	s := NewDevelopmentCardSpace()
	s.AddCard(card(1, 1, GreenCard, 1), 1)
	s.AddCard(card(2, 2, BlueCard, 5), 1) // buries the green card
	s.AddCard(card(3, 1, GreenCard, 1), 2)

	tests := []struct {
		name string
		reqs []CardRequirement
		want bool
	}{
		{"TwoGreensAnyLevel", []CardRequirement{{Color: GreenCard, Count: 2}}, true},
		{"ThreeGreens", []CardRequirement{{Color: GreenCard, Count: 3}}, false},
		{"MinimumLevelTwo", []CardRequirement{{Color: BlueCard, Level: 2}}, true},
		{"LevelTwoSatisfiedByHigher", []CardRequirement{{Color: BlueCard, Level: 1}}, true},
		{"MissingColor", []CardRequirement{{Color: PurpleCard}}, false},
		{"Conjunction", []CardRequirement{{Color: GreenCard}, {Color: BlueCard, Level: 2}}, true},
		{"Empty", nil, true},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if got := s.CheckRequirement(test.reqs); got != test.want {
				t.Fatalf("CheckRequirement(%v) = %t, want %t", test.reqs, got, test.want)
			}
		})
	}
}

func TestCardSpaceTotals(t *testing.T) {
	s := NewDevelopmentCardSpace()
	s.AddCard(card(1, 1, GreenCard, 1), 1)
	s.AddCard(card(2, 2, BlueCard, 5), 1)
	s.AddCard(card(3, 1, YellowCard, 3), 3)

	if s.TotalCards() != 3 {
		t.Fatalf("TotalCards() = %d, want 3", s.TotalCards())
	}
	if s.VictoryPoints() != 9 {
		t.Fatalf("VictoryPoints() = %d, want 9", s.VictoryPoints())
	}
	snapshot := s.Snapshot()
	if len(snapshot[0]) != 2 || snapshot[0][1] != 2 || len(snapshot[2]) != 1 {
		t.Fatalf("snapshot = %v", snapshot)
	}
}
