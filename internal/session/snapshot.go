package session

import (
	"time"

	"github.com/vovakirdan/stepstone/internal/lane"
)

// Snapshot is a read-only view of the session for renderers.
type Snapshot struct {
	State          State
	Lane           lane.Lane
	TileSize       float64
	Index          int     // Current tile index
	Position       float64 // Continuous position in distance units
	Jumping        bool
	HopProgress    float64 // 0..1 through the current hop
	Steps          int
	Verdict        lane.Verdict
	Elapsed        time.Duration
	Total          time.Duration
	Best           time.Duration
	HasBest        bool
	AcceptingInput bool
}

// Snapshot captures the current state.
func (s *Session) Snapshot() Snapshot {
	return Snapshot{
		State:          s.state,
		Lane:           s.lane,
		TileSize:       s.motion.TileSize(),
		Index:          s.motion.Index(),
		Position:       s.motion.Position(),
		Jumping:        s.motion.Jumping(),
		HopProgress:    s.motion.Progress(),
		Steps:          s.steps,
		Verdict:        s.verdict,
		Elapsed:        s.elapsed,
		Total:          s.total,
		Best:           s.best,
		HasBest:        s.hasBest,
		AcceptingInput: s.AcceptingInput(),
	}
}

// State returns the current phase.
func (s *Session) State() State {
	return s.state
}

// Lane returns the current lane.
func (s *Session) Lane() lane.Lane {
	return s.lane
}

// Steps returns the displayed step count.
func (s *Session) Steps() int {
	return s.steps
}

// AcceptingInput reports whether Jump would be considered.
func (s *Session) AcceptingInput() bool {
	return s.state == StatePlaying && s.inputEnabled
}

// BestTime returns the fastest finished run of this session, if any.
func (s *Session) BestTime() (time.Duration, bool) {
	return s.best, s.hasBest
}

// Elapsed returns the run time as last refreshed by the timer.
func (s *Session) Elapsed() time.Duration {
	return s.elapsed
}
