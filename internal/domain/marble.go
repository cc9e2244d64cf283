package domain

// Marble is a market token kind.
type Marble string

const (
	WhiteMarble  Marble = "white"
	PurpleMarble Marble = "purple"
	BlueMarble   Marble = "blue"
	YellowMarble Marble = "yellow"
	GreyMarble   Marble = "grey"
	RedMarble    Marble = "red"
)

// MarbleMap counts marbles by kind.
type MarbleMap map[Marble]int

// Clone returns an independent copy of the map.
func (m MarbleMap) Clone() MarbleMap {
	out := make(MarbleMap, len(m))
	for k, q := range m {
		out[k] = q
	}
	return out
}

// Total sums every quantity in the map.
func (m MarbleMap) Total() int {
	total := 0
	for _, q := range m {
		total += q
	}
	return total
}

// ResourceYield returns the resource a marble converts into. White marbles
// yield nothing until a leader ability transforms them; red marbles advance
// the faith track instead and also yield no storable resource.
func (m Marble) ResourceYield() (Resource, bool) {
	switch m {
	case PurpleMarble:
		return Servant, true
	case BlueMarble:
		return Shield, true
	case YellowMarble:
		return Coin, true
	case GreyMarble:
		return Stone, true
	}
	return "", false
}

// IsFaith reports whether drawing this marble advances the faith track.
func (m Marble) IsFaith() bool {
	return m == RedMarble
}

// marbleFor maps a storable resource back to the marble kind producing it.
func marbleFor(r Resource) (Marble, bool) {
	switch r {
	case Servant:
		return PurpleMarble, true
	case Shield:
		return BlueMarble, true
	case Coin:
		return YellowMarble, true
	case Stone:
		return GreyMarble, true
	}
	return "", false
}
