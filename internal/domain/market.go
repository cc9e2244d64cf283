package domain

import (
	"fmt"
	"math/rand"
)

const (
	// MarketRows is the number of market rows.
	MarketRows = 3
	// MarketColumns is the number of market columns.
	MarketColumns = 4
)

// LineSelector picks whether a market draw targets a row or a column.
type LineSelector int

const (
	// RowLine draws one of the three rows.
	RowLine LineSelector = iota
	// ColumnLine draws one of the four columns.
	ColumnLine
)

// standardMarbles is the fixed marble composition of a market.
func standardMarbles() []Marble {
	marbles := make([]Marble, 0, MarketRows*MarketColumns+1)
	add := func(m Marble, n int) {
		for i := 0; i < n; i++ {
			marbles = append(marbles, m)
		}
	}
	add(WhiteMarble, 4)
	add(PurpleMarble, 2)
	add(BlueMarble, 2)
	add(YellowMarble, 2)
	add(GreyMarble, 2)
	add(RedMarble, 1)
	return marbles
}

// Market is the shared marble grid plus its extra marble. The grid has a
// fixed shape: drawing a line returns a copy of its marbles and shifts the
// line by one, rotating the extra marble in and the displaced marble out.
type Market struct {
	grid  [MarketRows][MarketColumns]Marble
	extra Marble
}

// NewMarket deals the standard marble set into a shuffled grid.
func NewMarket(rng *rand.Rand) *Market {
	marbles := standardMarbles()
	rng.Shuffle(len(marbles), func(i, j int) { marbles[i], marbles[j] = marbles[j], marbles[i] })

	m := &Market{}
	k := 0
	for row := 0; row < MarketRows; row++ {
		for col := 0; col < MarketColumns; col++ {
			m.grid[row][col] = marbles[k]
			k++
		}
	}
	m.extra = marbles[k]
	return m
}

// Grid returns a snapshot of the marble grid.
func (m *Market) Grid() [MarketRows][MarketColumns]Marble {
	return m.grid
}

// Extra returns the marble currently outside the grid.
func (m *Market) Extra() Marble {
	return m.extra
}

// TakeBoughtMarbles returns the marbles along the selected line as a multiset
// and shifts the line: the extra marble enters at the line tail and the
// marble at the line head becomes the new extra.
func (m *Market) TakeBoughtMarbles(selector LineSelector, index int) (MarbleMap, error) {
	switch selector {
	case RowLine:
		if index < 0 || index >= MarketRows {
			return nil, fmt.Errorf("%w: row index out of range", ErrInvalidParameter)
		}
	case ColumnLine:
		if index < 0 || index >= MarketColumns {
			return nil, fmt.Errorf("%w: column index out of range", ErrInvalidParameter)
		}
	default:
		return nil, fmt.Errorf("%w: unknown line selector", ErrInvalidParameter)
	}

	bought := MarbleMap{}
	if selector == RowLine {
		for col := 0; col < MarketColumns; col++ {
			bought[m.grid[index][col]]++
		}
		displaced := m.grid[index][0]
		for col := 0; col < MarketColumns-1; col++ {
			m.grid[index][col] = m.grid[index][col+1]
		}
		m.grid[index][MarketColumns-1] = m.extra
		m.extra = displaced
	} else {
		for row := 0; row < MarketRows; row++ {
			bought[m.grid[row][index]]++
		}
		displaced := m.grid[0][index]
		for row := 0; row < MarketRows-1; row++ {
			m.grid[row][index] = m.grid[row+1][index]
		}
		m.grid[MarketRows-1][index] = m.extra
		m.extra = displaced
	}
	return bought, nil
}
