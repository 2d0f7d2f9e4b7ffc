package lane

import (
	"errors"
	"math/rand"
	"testing"
)

// fixedSource always returns the same outcome.
type fixedSource int

func (f fixedSource) Intn(n int) int {
	return int(f) % n
}

// scriptSource replays a list of outcomes, then repeats the last one.
type scriptSource struct {
	outcomes []int
	pos      int
}

func (s *scriptSource) Intn(n int) int {
	if len(s.outcomes) == 0 {
		return 0
	}
	v := s.outcomes[len(s.outcomes)-1]
	if s.pos < len(s.outcomes) {
		v = s.outcomes[s.pos]
		s.pos++
	}
	return v % n
}

func checkInvariants(t *testing.T, l Lane, length int) {
	t.Helper()

	if l.Len() != length {
		t.Fatalf("Len() = %d, expected %d", l.Len(), length)
	}
	if l.At(1) != Solid {
		t.Errorf("tile 1 should be Solid, got %v (lane %s)", l.At(1), l)
	}
	if l.At(length) != Solid {
		t.Errorf("tile %d should be Solid, got %v (lane %s)", length, l.At(length), l)
	}
	tiles := l.Tiles()
	for i := 2; i < len(tiles); i++ {
		if tiles[i-2] == Empty && tiles[i-1] == Empty && tiles[i] == Empty {
			t.Errorf("three pits in a row ending at %d (lane %s)", i, l)
		}
	}
}

func TestGenerateInvariants(t *testing.T) {
	for seed := int64(0); seed < 200; seed++ {
		rng := rand.New(rand.NewSource(seed))
		for _, length := range []int{1, 2, 3, 5, 20, 64} {
			l, err := Generate(length, rng)
			if err != nil {
				t.Fatalf("Generate(%d) failed: %v", length, err)
			}
			checkInvariants(t, l, length)
		}
	}
}

func TestGenerateAllPitsSource(t *testing.T) {
	// A source that always asks for a pit must still obey the two-pit rule
	l, err := Generate(10, fixedSource(0))
	if err != nil {
		t.Fatalf("Generate() failed: %v", err)
	}
	checkInvariants(t, l, 10)

	expected := "#__#__#__#"
	if l.String() != expected {
		t.Errorf("String() = %q, expected %q", l.String(), expected)
	}
}

func TestGenerateAllStones(t *testing.T) {
	l, err := Generate(3, fixedSource(1))
	if err != nil {
		t.Fatalf("Generate() failed: %v", err)
	}

	tiles := l.Tiles()
	if len(tiles) != 4 {
		t.Fatalf("expected 4 slots, got %d", len(tiles))
	}
	for i, tile := range tiles {
		if tile != Solid {
			t.Errorf("slot %d = %v, expected Solid", i, tile)
		}
	}
}

func TestGenerateForcesStoneAfterTwoPits(t *testing.T) {
	// Pit at 2 and 3 requested; 4 must be forced to a stone even though the
	// script keeps asking for pits.
	src := &scriptSource{outcomes: []int{0, 0, 0, 1}}
	l, err := Generate(5, src)
	if err != nil {
		t.Fatalf("Generate() failed: %v", err)
	}

	if l.At(2) != Empty || l.At(3) != Empty {
		t.Fatalf("expected pits at 2 and 3, lane %s", l)
	}
	if l.At(4) != Solid {
		t.Errorf("tile 4 should be forced Solid, lane %s", l)
	}
	if l.At(5) != Solid {
		t.Errorf("finish tile should be Solid, lane %s", l)
	}
}

func TestGenerateInvalidArgs(t *testing.T) {
	tests := []struct {
		name   string
		length int
		rng    RandomSource
		want   error
	}{
		{"zero length", 0, fixedSource(1), ErrInvalidLength},
		{"negative length", -3, fixedSource(1), ErrInvalidLength},
		{"nil source", 5, nil, ErrNilRandom},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Generate(tc.length, tc.rng)
			if !errors.Is(err, tc.want) {
				t.Errorf("Generate() error = %v, expected %v", err, tc.want)
			}
		})
	}
}

func TestGenerateLengthOne(t *testing.T) {
	l, err := Generate(1, fixedSource(0))
	if err != nil {
		t.Fatalf("Generate(1) failed: %v", err)
	}
	if l.Len() != 1 || l.At(1) != Solid {
		t.Errorf("expected a single stone, got %q", l.String())
	}
}

func TestLaneAtOutOfRange(t *testing.T) {
	l := New([]Tile{Solid, Solid, Solid})

	if l.At(-1) != Empty {
		t.Error("At(-1) should be Empty")
	}
	if l.At(3) != Empty {
		t.Error("At past the end should be Empty")
	}
}

func TestLaneTilesIsCopy(t *testing.T) {
	l := New([]Tile{Solid, Solid, Empty, Solid})
	tiles := l.Tiles()
	tiles[2] = Solid

	if l.At(2) != Empty {
		t.Error("mutating Tiles() result should not change the lane")
	}
}
