package domain

import "fmt"

// TileState is the lifecycle of a pope favour tile.
type TileState int

const (
	// TileInactive means the tile has not been evaluated by a vatican report yet.
	TileInactive TileState = iota
	// TileLapsed means the tile was evaluated out of window and never scores.
	TileLapsed
	// TileActive means the tile was evaluated inside its window and scores.
	TileActive
)

const (
	// TrackCeiling is the last reachable position of the faith track.
	TrackCeiling = 20
	// NumPopeTiles is how many pope favour tiles each track carries.
	NumPopeTiles = 3
)

// popeTileBonus lists the victory points of each active tile, in tile order.
var popeTileBonus = [NumPopeTiles]int{2, 3, 4}

// FaithTrack is one player's progress line plus its pope favour tiles.
type FaithTrack struct {
	position int
	tiles    [NumPopeTiles]TileState
}

// NewFaithTrack returns a track at position 0 with every tile inactive.
func NewFaithTrack() *FaithTrack {
	return &FaithTrack{}
}

// Position returns the marker position, in [0, TrackCeiling].
func (f *FaithTrack) Position() int { return f.position }

// MoveFaithMarker advances the marker, clamping at the track ceiling.
func (f *FaithTrack) MoveFaithMarker(steps int) error {
	if steps < 0 {
		return fmt.Errorf("%w: negative faith steps", ErrInvalidParameter)
	}
	f.position += steps
	if f.position > TrackCeiling {
		f.position = TrackCeiling
	}
	return nil
}

// Tile returns the state of the 1-based tile.
func (f *FaithTrack) Tile(tileNumber int) TileState {
	return f.tiles[tileNumber-1]
}

// tileWindow returns the exclusive bounds of the 1-based tile's activation
// window: a position qualifies when low < position < high.
func tileWindow(tileNumber int) (low, high int) {
	t := tileNumber - 1
	return 4 + 7*t, 9 + 8*t
}

// InTileWindow reports whether the marker currently sits inside the
// activation window of the 1-based tile.
func (f *FaithTrack) InTileWindow(tileNumber int) bool {
	low, high := tileWindow(tileNumber)
	return f.position > low && f.position < high
}

// SetPopeFavourTile evaluates the tile against the current position: inside
// the window it becomes active, outside it lapses. A tile already evaluated
// is never re-evaluated.
func (f *FaithTrack) SetPopeFavourTile(tileNumber int) {
	if f.tiles[tileNumber-1] != TileInactive {
		return
	}
	if f.InTileWindow(tileNumber) {
		f.tiles[tileNumber-1] = TileActive
	} else {
		f.tiles[tileNumber-1] = TileLapsed
	}
}

// VictoryPoints sums the position band value and the active tile bonuses.
func (f *FaithTrack) VictoryPoints() int {
	vp := positionVictoryPoints(f.position)
	for i, tile := range f.tiles {
		if tile == TileActive {
			vp += popeTileBonus[i]
		}
	}
	return vp
}

// positionVictoryPoints rounds the position down to a multiple of three and
// looks up the band value.
func positionVictoryPoints(position int) int {
	switch position - position%3 {
	case 3:
		return 1
	case 6:
		return 2
	case 9:
		return 4
	case 12:
		return 6
	case 15:
		return 9
	case 18:
		return 12
	case 21:
		return 16
	case 24:
		return 20
	}
	return 0
}

// TileStates returns a snapshot of every tile state, in tile order.
func (f *FaithTrack) TileStates() [NumPopeTiles]TileState {
	return f.tiles
}
