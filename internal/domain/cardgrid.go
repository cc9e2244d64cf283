package domain

import (
	"fmt"
	"math/rand"
)

const (
	// GridLevels is the number of card levels, row 0 holding level 1.
	GridLevels = 3
	// GridColumns is the number of color columns.
	GridColumns = 4
)

// CardGrid is the shared grid of face-down development card stacks. Drawing
// takes the top card of a stack; a stack empties permanently once exhausted.
type CardGrid struct {
	// stacks[row][column], top card last. Row index is level-1, column index
	// follows CardColors order.
	stacks [GridLevels][GridColumns][]*DevelopmentCard
}

// columnOf returns the grid column of a color.
func columnOf(color CardColor) int {
	for i, c := range CardColors {
		if c == color {
			return i
		}
	}
	return -1
}

// NewCardGrid groups the given cards into shuffled (level, color) stacks.
func NewCardGrid(cards []*DevelopmentCard, rng *rand.Rand) *CardGrid {
	g := &CardGrid{}
	for _, card := range cards {
		col := columnOf(card.Color)
		if col < 0 || card.Level < 1 || card.Level > GridLevels {
			continue
		}
		g.stacks[card.Level-1][col] = append(g.stacks[card.Level-1][col], card)
	}
	for row := range g.stacks {
		for col := range g.stacks[row] {
			stack := g.stacks[row][col]
			rng.Shuffle(len(stack), func(i, j int) { stack[i], stack[j] = stack[j], stack[i] })
		}
	}
	return g
}

// Card returns the top card of the (row, column) stack without removing it.
func (g *CardGrid) Card(row, column int) (*DevelopmentCard, error) {
	if row < 0 || row >= GridLevels || column < 0 || column >= GridColumns {
		return nil, fmt.Errorf("%w: grid coordinates out of range", ErrInvalidParameter)
	}
	stack := g.stacks[row][column]
	if len(stack) == 0 {
		return nil, ErrNoCard
	}
	return stack[len(stack)-1], nil
}

// BuyCard removes and returns the top card of the (row, column) stack.
func (g *CardGrid) BuyCard(row, column int) (*DevelopmentCard, error) {
	card, err := g.Card(row, column)
	if err != nil {
		return nil, err
	}
	stack := g.stacks[row][column]
	g.stacks[row][column] = stack[:len(stack)-1]
	return card, nil
}

// ColorExhausted reports whether every stack of the given color is empty.
func (g *CardGrid) ColorExhausted(color CardColor) bool {
	col := columnOf(color)
	if col < 0 {
		return false
	}
	for row := 0; row < GridLevels; row++ {
		if len(g.stacks[row][col]) > 0 {
			return false
		}
	}
	return true
}

// AnyColorExhausted reports whether any color column is fully exhausted.
func (g *CardGrid) AnyColorExhausted() bool {
	for _, color := range CardColors {
		if g.ColorExhausted(color) {
			return true
		}
	}
	return false
}

// DiscardLowest removes up to n cards of the given color, draining the
// lowest-level stacks first. It returns how many cards were removed.
func (g *CardGrid) DiscardLowest(color CardColor, n int) int {
	col := columnOf(color)
	if col < 0 {
		return 0
	}
	removed := 0
	for row := 0; row < GridLevels && removed < n; row++ {
		stack := g.stacks[row][col]
		for len(stack) > 0 && removed < n {
			stack = stack[:len(stack)-1]
			removed++
		}
		g.stacks[row][col] = stack
	}
	return removed
}

// GridCell describes the visible top of one stack.
type GridCell struct {
	CardID    int `json:"card_id"` // 0 when the stack is empty
	Remaining int `json:"remaining"`
}

// Snapshot returns the visible top card and remaining count of every stack.
func (g *CardGrid) Snapshot() [GridLevels][GridColumns]GridCell {
	var out [GridLevels][GridColumns]GridCell
	for row := 0; row < GridLevels; row++ {
		for col := 0; col < GridColumns; col++ {
			stack := g.stacks[row][col]
			cell := GridCell{Remaining: len(stack)}
			if len(stack) > 0 {
				cell.CardID = stack[len(stack)-1].ID
			}
			out[row][col] = cell
		}
	}
	return out
}
