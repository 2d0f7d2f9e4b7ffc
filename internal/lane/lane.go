// Package lane generates and evaluates the stepping-stone road.
// A lane is a fixed row of stones and pits; it is never mutated after
// generation and holds no references to the rest of the game.
package lane

import (
	"errors"
	"fmt"
)

// Tile is a single slot on the lane.
type Tile uint8

const (
	Empty Tile = iota // Pit the player falls into
	Solid             // Stone the player can land on
)

// String returns a human-readable name for the tile.
func (t Tile) String() string {
	switch t {
	case Empty:
		return "Empty"
	case Solid:
		return "Solid"
	default:
		return "Unknown"
	}
}

// Errors returned by Generate.
var (
	ErrInvalidLength = errors.New("lane: length must be at least 1")
	ErrNilRandom     = errors.New("lane: random source is nil")
)

// RandomSource picks uniformly among n outcomes. *rand.Rand satisfies it.
type RandomSource interface {
	Intn(n int) int
}

// Lane is an immutable sequence of tiles.
// Slot 0 is reserved, slots 1..Len() are playable.
type Lane struct {
	tiles []Tile
}

// New builds a lane from an explicit tile slice (slot 0 included).
// The slice is copied. Used for fixed layouts and tests.
func New(tiles []Tile) Lane {
	cp := make([]Tile, len(tiles))
	copy(cp, tiles)
	return Lane{tiles: cp}
}

// Len returns the number of playable tiles (the road length).
func (l Lane) Len() int {
	if len(l.tiles) == 0 {
		return 0
	}
	return len(l.tiles) - 1
}

// At returns the tile at slot i. Slots outside the lane are pits.
func (l Lane) At(i int) Tile {
	if i < 0 || i >= len(l.tiles) {
		return Empty
	}
	return l.tiles[i]
}

// Tiles returns a copy of all slots, including the reserved slot 0.
func (l Lane) Tiles() []Tile {
	cp := make([]Tile, len(l.tiles))
	copy(cp, l.tiles)
	return cp
}

// String renders the playable slots as '#' for stones and '_' for pits.
func (l Lane) String() string {
	if l.Len() == 0 {
		return ""
	}
	b := make([]byte, 0, l.Len())
	for _, t := range l.tiles[1:] {
		if t == Solid {
			b = append(b, '#')
		} else {
			b = append(b, '_')
		}
	}
	return string(b)
}

// Generate builds a lane with length playable tiles.
// The first and last playable tiles are always stones and no three
// consecutive slots are pits; everything else is a coin flip.
func Generate(length int, rng RandomSource) (Lane, error) {
	if length < 1 {
		return Lane{}, fmt.Errorf("%w: got %d", ErrInvalidLength, length)
	}
	if rng == nil {
		return Lane{}, ErrNilRandom
	}

	tiles := make([]Tile, length+1)
	tiles[0] = Solid
	tiles[1] = Solid

	for i := 2; i <= length; i++ {
		// At most two pits in a row
		if tiles[i-2] == Empty && tiles[i-1] == Empty {
			tiles[i] = Solid
			continue
		}
		if rng.Intn(2) == 0 {
			tiles[i] = Empty
		} else {
			tiles[i] = Solid
		}
	}

	// Finish stone is always reachable
	tiles[length] = Solid

	return Lane{tiles: tiles}, nil
}
