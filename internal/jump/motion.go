// Package jump implements the hop state machine: a stride command starts a
// timed flight along the lane axis and a later tick reports the landing.
package jump

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// Errors returned by BeginJump.
var (
	ErrBusy          = errors.New("jump: already in flight")
	ErrInvalidStride = errors.New("jump: invalid stride")
)

// DefaultClip is the animation clip whose length sets the flight time.
const DefaultClip = "jump"

// Animator is the animation collaborator. Both methods are optional in the
// sense that a nil Animator or an unknown clip falls back to Config defaults.
type Animator interface {
	// ClipDuration returns the length of a clip, or false if it is unknown.
	ClipDuration(clip string) (time.Duration, bool)
	// Play starts a clip. Purely cosmetic.
	Play(clip string)
}

// Config holds the motion parameters.
type Config struct {
	TileSize        float64       // Distance units per tile
	MaxStride       int           // Largest accepted stride in tiles
	Clip            string        // Clip used for flight time and playback
	DefaultDuration time.Duration // Flight time when the clip is unavailable
}

// DefaultConfig returns the classic parameters: 40 units per tile,
// strides up to 3 and a 0.3s hop.
func DefaultConfig() Config {
	return Config{
		TileSize:        40,
		MaxStride:       3,
		Clip:            DefaultClip,
		DefaultDuration: 300 * time.Millisecond,
	}
}

// LandingEvent is emitted once per completed hop.
type LandingEvent struct {
	Index     int           // Tile index after the hop
	Stride    int           // Tiles covered by the hop
	StartedAt time.Time     // When the hop was accepted
	Airtime   time.Duration // Accumulated flight time at landing
}

// Motion tracks the player's continuous position and discrete tile index.
type Motion struct {
	cfg    Config
	anim   Animator
	logger *log.Logger

	jumping   bool
	stride    int
	elapsed   time.Duration
	duration  time.Duration
	speed     float64 // units per second
	position  float64
	start     float64
	target    float64
	index     int
	startedAt time.Time
}

// NewMotion creates an idle motion at the origin.
func NewMotion(cfg Config, anim Animator, logger *log.Logger) *Motion {
	if cfg.TileSize <= 0 {
		cfg.TileSize = DefaultConfig().TileSize
	}
	if cfg.MaxStride <= 0 {
		cfg.MaxStride = DefaultConfig().MaxStride
	}
	if cfg.Clip == "" {
		cfg.Clip = DefaultClip
	}
	if cfg.DefaultDuration <= 0 {
		cfg.DefaultDuration = DefaultConfig().DefaultDuration
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Motion{
		cfg:    cfg,
		anim:   anim,
		logger: logger,
	}
}

// Reset puts the player back at the origin on tile index 0.
func (m *Motion) Reset() {
	m.jumping = false
	m.stride = 0
	m.elapsed = 0
	m.duration = 0
	m.speed = 0
	m.position = 0
	m.start = 0
	m.target = 0
	m.index = 0
	m.startedAt = time.Time{}
}

// BeginJump starts a hop of stride tiles. It fails with ErrBusy, leaving
// all state untouched, while a previous hop is still in flight.
func (m *Motion) BeginJump(stride int, now time.Time) error {
	if m.jumping {
		return ErrBusy
	}
	if stride < 1 || stride > m.cfg.MaxStride {
		return fmt.Errorf("%w: %d (allowed 1..%d)", ErrInvalidStride, stride, m.cfg.MaxStride)
	}

	distance := float64(stride) * m.cfg.TileSize

	m.duration = m.flightTime()
	m.speed = distance / m.duration.Seconds()
	m.start = m.position
	m.target = m.position + distance
	m.index += stride
	m.stride = stride
	m.elapsed = 0
	m.startedAt = now
	m.jumping = true

	if m.anim != nil {
		m.anim.Play(m.cfg.Clip)
	}

	m.logger.Debug("hop started",
		"stride", stride,
		"index", m.index,
		"duration", m.duration,
	)
	return nil
}

// flightTime asks the animator for the clip length, falling back to the
// configured default.
func (m *Motion) flightTime() time.Duration {
	if m.anim == nil {
		return m.cfg.DefaultDuration
	}
	d, ok := m.anim.ClipDuration(m.cfg.Clip)
	if !ok || d <= 0 {
		m.logger.Debug("clip unavailable, using default flight time",
			"clip", m.cfg.Clip,
			"default", m.cfg.DefaultDuration,
		)
		return m.cfg.DefaultDuration
	}
	return d
}

// Tick advances an in-flight hop by dt. When the accumulated flight time
// exceeds the hop duration the position snaps to the target tile and the
// landing is reported; otherwise it returns false.
func (m *Motion) Tick(dt time.Duration) (LandingEvent, bool) {
	if !m.jumping {
		return LandingEvent{}, false
	}

	m.elapsed += dt
	if m.elapsed > m.duration {
		m.position = m.target
		m.jumping = false
		ev := LandingEvent{
			Index:     m.index,
			Stride:    m.stride,
			StartedAt: m.startedAt,
			Airtime:   m.elapsed,
		}
		m.logger.Debug("hop landed", "index", ev.Index, "airtime", ev.Airtime)
		return ev, true
	}

	m.position += m.speed * dt.Seconds()
	if m.position > m.target {
		m.position = m.target
	}
	return LandingEvent{}, false
}

// Jumping reports whether a hop is in flight.
func (m *Motion) Jumping() bool {
	return m.jumping
}

// Index returns the current tile index.
func (m *Motion) Index() int {
	return m.index
}

// Position returns the continuous position along the lane axis.
func (m *Motion) Position() float64 {
	return m.position
}

// Progress returns how far through the current hop the player is, in
// [0, 1]. It is 0 when idle.
func (m *Motion) Progress() float64 {
	if !m.jumping || m.duration <= 0 {
		return 0
	}
	p := m.elapsed.Seconds() / m.duration.Seconds()
	if p > 1 {
		return 1
	}
	return p
}

// TileSize returns the distance units per tile.
func (m *Motion) TileSize() float64 {
	return m.cfg.TileSize
}
