// Package session binds lane generation, hop motion and timing into the
// INIT -> PLAYING -> END game loop.
//
// A Session is driven from a single goroutine: the host forwards commands
// and input, advances its Scheduler, then calls Update once per frame.
// Presentation collaborators (panels, labels, animator) are optional; a
// missing one is skipped and logged.
package session

import (
	"errors"
	"fmt"
	"io"
	"math/rand"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/stepstone/internal/jump"
	"github.com/vovakirdan/stepstone/internal/lane"
	"github.com/vovakirdan/stepstone/internal/schedule"
)

// Errors returned by New and the command methods.
var (
	ErrInvalidCommand = errors.New("session: command not valid in current state")
	ErrMissingClock   = errors.New("session: clock is required")
	ErrMissingSched   = errors.New("session: scheduler is required")
)

// State is the top-level game phase.
type State uint8

const (
	StateInit    State = iota // Start panel shown, waiting for Start
	StatePlaying              // Timer running, hops accepted
	StateEnd                  // Run finished, win or lose panel shown
)

// String returns a human-readable name for the state.
func (s State) String() string {
	switch s {
	case StateInit:
		return "Init"
	case StatePlaying:
		return "Playing"
	case StateEnd:
		return "End"
	default:
		return "Unknown"
	}
}

// Command is an external request from the UI.
type Command uint8

const (
	CommandStart Command = iota
	CommandRetry
	CommandReplay
	CommandExit
)

// String returns a human-readable name for the command.
func (c Command) String() string {
	switch c {
	case CommandStart:
		return "Start"
	case CommandRetry:
		return "Retry"
	case CommandReplay:
		return "Replay"
	case CommandExit:
		return "Exit"
	default:
		return "Unknown"
	}
}

// PanelID names a UI panel.
type PanelID string

const (
	PanelStart PanelID = "start"
	PanelPlay  PanelID = "play"
	PanelLose  PanelID = "lose"
	PanelWin   PanelID = "win"
)

// LabelID names a UI text label.
type LabelID string

const (
	LabelSteps LabelID = "steps"
	LabelTimer LabelID = "timer"
	LabelGrade LabelID = "grade"
	LabelBest  LabelID = "best"
)

// Panel is a UI element that can be shown or hidden.
type Panel interface {
	SetVisible(visible bool)
}

// Label is a UI element displaying text.
type Label interface {
	SetText(text string)
}

// Clock reports the current time.
type Clock interface {
	Now() time.Time
}

// Scheduler runs deferred and recurring callbacks. *schedule.Scheduler
// satisfies it.
type Scheduler interface {
	After(d time.Duration, fn func()) schedule.Task
	Every(interval time.Duration, fn func()) schedule.Task
}

// Config holds the session parameters.
type Config struct {
	RoadLength    int           // Playable tiles per lane
	InputDelay    time.Duration // Debounce before hops are accepted in PLAYING
	TimerInterval time.Duration // Period of the elapsed-time refresh
	Motion        jump.Config
}

// DefaultConfig returns a 20-tile lane with the classic timings.
func DefaultConfig() Config {
	return Config{
		RoadLength:    20,
		InputDelay:    100 * time.Millisecond,
		TimerInterval: 7 * time.Millisecond,
		Motion:        jump.DefaultConfig(),
	}
}

// RunResult describes a finished run.
type RunResult struct {
	Verdict  lane.Verdict
	Steps    int
	Duration time.Duration
	Best     time.Duration // Best time after this run (zero if none yet)
	NewBest  bool
}

// Deps are the external collaborators. Clock and Scheduler are required.
type Deps struct {
	Panels    map[PanelID]Panel
	Labels    map[LabelID]Label
	Animator  jump.Animator
	Clock     Clock
	Scheduler Scheduler
	// NewRandom returns a fresh random source for each generated lane.
	// Defaults to a time-seeded math/rand source.
	NewRandom func() lane.RandomSource
	// OnRunEnd is called once when a run reaches END.
	OnRunEnd func(RunResult)
	Logger   *log.Logger
}

// Session is the top-level game state machine.
type Session struct {
	cfg    Config
	deps   Deps
	logger *log.Logger
	motion *jump.Motion

	state        State
	lane         lane.Lane
	inputEnabled bool
	steps        int
	verdict      lane.Verdict

	startedAt time.Time
	elapsed   time.Duration
	total     time.Duration
	best      time.Duration
	hasBest   bool

	timerTask schedule.Task
	inputTask schedule.Task
}

// New creates a session and enters INIT.
func New(cfg Config, deps Deps) (*Session, error) {
	if cfg.RoadLength < 1 {
		return nil, fmt.Errorf("session: road length %d: %w", cfg.RoadLength, lane.ErrInvalidLength)
	}
	if deps.Clock == nil {
		return nil, ErrMissingClock
	}
	if deps.Scheduler == nil {
		return nil, ErrMissingSched
	}
	if cfg.TimerInterval <= 0 {
		cfg.TimerInterval = DefaultConfig().TimerInterval
	}
	if cfg.InputDelay < 0 {
		cfg.InputDelay = 0
	}
	if deps.NewRandom == nil {
		deps.NewRandom = func() lane.RandomSource {
			return rand.New(rand.NewSource(time.Now().UnixNano()))
		}
	}
	logger := deps.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	s := &Session{
		cfg:    cfg,
		deps:   deps,
		logger: logger,
		motion: jump.NewMotion(cfg.Motion, deps.Animator, logger),
	}
	if err := s.enterInit(); err != nil {
		return nil, err
	}
	return s, nil
}

// Handle dispatches a UI command.
func (s *Session) Handle(cmd Command) error {
	switch cmd {
	case CommandStart:
		return s.Start()
	case CommandRetry:
		return s.Retry()
	case CommandReplay:
		return s.Replay()
	case CommandExit:
		return s.Exit()
	default:
		return fmt.Errorf("%w: unknown command %d", ErrInvalidCommand, cmd)
	}
}

// Start begins a run. Only valid in INIT.
func (s *Session) Start() error {
	if s.state != StateInit {
		return fmt.Errorf("%w: start in %s", ErrInvalidCommand, s.state)
	}
	s.enterPlaying()
	return nil
}

// Retry regenerates the lane and immediately starts a new run.
func (s *Session) Retry() error {
	if err := s.enterInit(); err != nil {
		return err
	}
	s.enterPlaying()
	return nil
}

// Replay is Retry under the name used by the win panel.
func (s *Session) Replay() error {
	return s.Retry()
}

// Exit returns to INIT with a fresh lane.
func (s *Session) Exit() error {
	return s.enterInit()
}

// Jump requests a hop of stride tiles. It returns false when input is not
// being accepted or a hop is already in flight.
func (s *Session) Jump(stride int) bool {
	if s.state != StatePlaying || !s.inputEnabled {
		return false
	}
	if err := s.motion.BeginJump(stride, s.deps.Clock.Now()); err != nil {
		if !errors.Is(err, jump.ErrBusy) {
			s.logger.Warn("hop rejected", "stride", stride, "error", err)
		}
		return false
	}
	return true
}

// Update advances the hop in flight by dt and handles its landing.
func (s *Session) Update(dt time.Duration) {
	if ev, ok := s.motion.Tick(dt); ok {
		s.onLanding(ev)
	}
}

func (s *Session) onLanding(ev jump.LandingEvent) {
	if s.state != StatePlaying {
		return
	}

	s.steps = min(ev.Index, s.lane.Len())
	s.setText(LabelSteps, fmt.Sprintf("step: %d", s.steps))

	verdict := lane.Evaluate(s.lane, ev.Index)
	s.verdict = verdict
	if verdict != lane.Continue {
		s.enterEnd(verdict)
	}
}

func (s *Session) enterInit() error {
	s.cancelTasks()

	l, err := lane.Generate(s.cfg.RoadLength, s.deps.NewRandom())
	if err != nil {
		return fmt.Errorf("session: generate lane: %w", err)
	}

	s.state = StateInit
	s.lane = l
	s.motion.Reset()
	s.inputEnabled = false
	s.steps = 0
	s.verdict = lane.Continue
	s.elapsed = 0
	s.total = 0

	s.setVisible(PanelPlay, false)
	s.setVisible(PanelLose, false)
	s.setVisible(PanelWin, false)
	s.setVisible(PanelStart, true)

	s.setText(LabelSteps, "step: 0")
	s.setText(LabelTimer, formatTime("Time", 0))
	if s.hasBest {
		s.setText(LabelBest, formatTime("Best Time", s.best))
	} else {
		s.setText(LabelBest, "No Record!")
	}

	s.logger.Debug("session init", "lane", s.lane.String())
	return nil
}

func (s *Session) enterPlaying() {
	s.state = StatePlaying

	s.setVisible(PanelStart, false)
	s.setVisible(PanelPlay, true)

	// Hops are only accepted after a short delay so the keypress that
	// started the run is not read as a hop.
	s.inputTask = s.deps.Scheduler.After(s.cfg.InputDelay, func() {
		s.inputEnabled = true
	})

	s.startedAt = s.deps.Clock.Now()
	s.elapsed = 0
	s.timerTask = s.deps.Scheduler.Every(s.cfg.TimerInterval, s.refreshTimer)

	s.logger.Debug("session playing", "road_length", s.lane.Len())
}

func (s *Session) enterEnd(verdict lane.Verdict) {
	s.cancelTasks()
	s.inputEnabled = false
	s.refreshTimer()
	s.total = s.elapsed
	s.state = StateEnd

	s.setVisible(PanelPlay, false)

	result := RunResult{
		Verdict:  verdict,
		Steps:    s.steps,
		Duration: s.total,
	}

	if verdict == lane.Finish {
		s.setText(LabelGrade, formatTime("Grade", s.total))
		if !s.hasBest || s.total < s.best {
			s.best = s.total
			s.hasBest = true
			result.NewBest = true
		}
		s.setVisible(PanelWin, true)
	} else {
		s.setVisible(PanelLose, true)
	}
	if s.hasBest {
		result.Best = s.best
	}

	s.logger.Info("run ended",
		"verdict", verdict,
		"steps", s.steps,
		"time", s.total,
		"new_best", result.NewBest,
	)

	if s.deps.OnRunEnd != nil {
		s.deps.OnRunEnd(result)
	}
}

func (s *Session) refreshTimer() {
	s.elapsed = s.deps.Clock.Now().Sub(s.startedAt)
	s.setText(LabelTimer, formatTime("Time", s.elapsed))
}

// cancelTasks stops everything scheduled by PLAYING.
func (s *Session) cancelTasks() {
	if s.timerTask != nil {
		s.timerTask.Cancel()
		s.timerTask = nil
	}
	if s.inputTask != nil {
		s.inputTask.Cancel()
		s.inputTask = nil
	}
}

func (s *Session) setVisible(id PanelID, visible bool) {
	p, ok := s.deps.Panels[id]
	if !ok || p == nil {
		s.logger.Debug("panel missing, skipped", "panel", id)
		return
	}
	p.SetVisible(visible)
}

func (s *Session) setText(id LabelID, text string) {
	l, ok := s.deps.Labels[id]
	if !ok || l == nil {
		s.logger.Debug("label missing, skipped", "label", id)
		return
	}
	l.SetText(text)
}

func formatTime(prefix string, d time.Duration) string {
	return fmt.Sprintf("%s: %.2f s", prefix, d.Seconds())
}
