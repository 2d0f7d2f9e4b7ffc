// Package stepstone adapts the stepping-stone session to the terminal
// platform: actions become commands and hops, ticks advance a virtual
// scheduler, and the session's panels and labels are drawn into a Screen.
package stepstone

import (
	"io"
	"math/rand"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/stepstone/internal/config"
	"github.com/vovakirdan/stepstone/internal/core"
	"github.com/vovakirdan/stepstone/internal/jump"
	"github.com/vovakirdan/stepstone/internal/lane"
	"github.com/vovakirdan/stepstone/internal/registry"
	"github.com/vovakirdan/stepstone/internal/schedule"
	"github.com/vovakirdan/stepstone/internal/session"
)

// Variant selects the lane length family.
type Variant string

const (
	VariantClassic  Variant = "classic"
	VariantMarathon Variant = "marathon"
)

// marathonFactor multiplies the configured road length for the marathon variant.
const marathonFactor = 3

// Package-level settings applied on the next Reset (set by the CLI).
var (
	settingsMu       sync.RWMutex
	configPath       string
	difficultyPreset string
	logger           = log.New(io.Discard)
)

// SetConfigPath sets a custom YAML config path.
func SetConfigPath(path string) {
	settingsMu.Lock()
	defer settingsMu.Unlock()
	configPath = path
}

// SetDifficultyPreset sets the difficulty preset ("easy", "normal", "hard").
func SetDifficultyPreset(preset string) {
	settingsMu.Lock()
	defer settingsMu.Unlock()
	difficultyPreset = preset
}

// SetLogger sets the logger used by games created afterwards.
func SetLogger(l *log.Logger) {
	if l == nil {
		l = log.New(io.Discard)
	}
	settingsMu.Lock()
	defer settingsMu.Unlock()
	logger = l
}

func currentSettings() (string, string, *log.Logger) {
	settingsMu.RLock()
	defer settingsMu.RUnlock()
	return configPath, difficultyPreset, logger
}

// epoch is the origin of each game's virtual clock.
var epoch = time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC)

// Game implements registry.Game on top of a session.Session.
type Game struct {
	variant    Variant
	difficulty string // Overrides the package-level preset when set
	rt         core.RuntimeConfig
	cfg        config.StepstoneConfig
	logger     *log.Logger

	sched *schedule.Scheduler
	sess  *session.Session
	view  *view

	lanes   int64 // lanes generated so far, mixed into the seed
	lastRun *session.RunResult

	// newRandom overrides the seeded source; tests use it to script lanes.
	newRandom func() lane.RandomSource
	// newClock picks the run clock. Nil means wall time.
	newClock func(*schedule.Scheduler) session.Clock
}

// wallClock times runs in real time, as a player would with a stopwatch.
type wallClock struct{}

func (wallClock) Now() time.Time { return time.Now() }

// New creates the classic variant.
func New() *Game {
	return &Game{variant: VariantClassic}
}

// NewMarathon creates the marathon variant with a three times longer lane.
func NewMarathon() *Game {
	return &Game{variant: VariantMarathon}
}

func init() {
	registry.Register("stepstone", func() registry.Game {
		return New()
	})
	registry.Register("stepstone_marathon", func() registry.Game {
		return NewMarathon()
	})
}

// ID returns the game identifier.
func (g *Game) ID() string {
	if g.variant == VariantMarathon {
		return "stepstone_marathon"
	}
	return "stepstone"
}

// Title returns the display name.
func (g *Game) Title() string {
	if g.variant == VariantMarathon {
		return "Stepstone (Marathon)"
	}
	return "Stepstone"
}

// Reset loads the configuration and builds a fresh session in INIT.
// The in-memory best time starts over.
func (g *Game) Reset(rt core.RuntimeConfig) {
	path, preset, l := currentSettings()
	if g.difficulty != "" {
		preset = g.difficulty
	}
	g.rt = rt
	g.logger = l.With("game", g.ID())
	g.cfg = g.loadConfig(path, preset)

	if g.sched != nil {
		// Tasks of the previous session must not fire into the new one.
		if n := g.sched.Pending(); n > 0 {
			g.logger.Debug("dropping scheduled tasks", "pending", n)
		}
		g.sched.CancelAll()
	}
	g.sched = schedule.New(epoch)
	g.view = newView(g.cfg.Animation.Clips)
	g.lanes = 0
	g.lastRun = nil

	sess, err := session.New(g.sessionConfig(), g.sessionDeps())
	if err != nil {
		// Only reachable with a config that bypassed Validate.
		g.logger.Error("session setup failed, using defaults", "error", err)
		g.cfg = config.DefaultStepstoneConfig()
		sess, _ = session.New(g.sessionConfig(), g.sessionDeps())
	}
	g.sess = sess
}

func (g *Game) loadConfig(path, preset string) config.StepstoneConfig {
	cfg, err := config.LoadStepstone(path)
	if err != nil {
		g.logger.Warn("config load failed, using defaults", "path", path, "error", err)
		cfg = config.DefaultStepstoneConfig()
	}
	if p, ok := config.ParsePreset(preset); ok {
		config.ApplyPreset(&cfg, p)
	}
	if g.variant == VariantMarathon {
		cfg.Lane.RoadLength *= marathonFactor
	}
	return cfg
}

func (g *Game) sessionConfig() session.Config {
	return session.Config{
		RoadLength:    g.cfg.Lane.RoadLength,
		InputDelay:    g.cfg.Session.InputDelay,
		TimerInterval: g.cfg.Session.TimerInterval,
		Motion: jump.Config{
			TileSize:        g.cfg.Jump.TileSize,
			MaxStride:       g.cfg.Jump.MaxStride,
			Clip:            g.cfg.Jump.Clip,
			DefaultDuration: g.cfg.Jump.DefaultDuration,
		},
	}
}

func (g *Game) sessionDeps() session.Deps {
	return session.Deps{
		Panels:    g.view.panelMap(),
		Labels:    g.view.labelMap(),
		Animator:  g.view.anim,
		Clock:     g.clock(),
		Scheduler: g.sched,
		NewRandom: g.randomSource,
		OnRunEnd:  g.onRunEnd,
		Logger:    g.logger,
	}
}

// clock returns the clock runs are timed with. Tasks and hops always
// follow the virtual scheduler; only the elapsed time is wall time, so a
// slow terminal cannot shorten a run.
func (g *Game) clock() session.Clock {
	if g.newClock != nil {
		return g.newClock(g.sched)
	}
	return wallClock{}
}

// randomSource returns a fresh source per lane. With a fixed runtime seed
// the sequence of lanes is reproducible.
func (g *Game) randomSource() lane.RandomSource {
	if g.newRandom != nil {
		return g.newRandom()
	}
	g.lanes++
	seed := g.rt.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed + g.lanes))
}

func (g *Game) onRunEnd(r session.RunResult) {
	g.lastRun = &r
}

// SetDifficulty sets this game's preset; it applies from the next Reset.
func (g *Game) SetDifficulty(preset string) {
	g.difficulty = preset
}

// Resize follows a terminal resize without touching the run.
func (g *Game) Resize(width, height int) {
	g.rt.ScreenW = width
	g.rt.ScreenH = height
}

// Step applies the frame's actions and advances the virtual clock by one tick.
func (g *Game) Step(in core.InputFrame) core.StepResult {
	if g.sess == nil {
		return core.StepResult{}
	}

	g.dispatch(in)

	dt := g.rt.TickDuration()
	g.sched.Advance(dt)
	g.sess.Update(dt)

	return core.StepResult{State: g.State()}
}

func (g *Game) dispatch(in core.InputFrame) {
	var cmd session.Command
	hasCmd := true
	state := g.sess.State()

	switch {
	case in.Has(core.ActionBack):
		cmd = session.CommandExit
	case in.Has(core.ActionRestart):
		cmd = session.CommandRetry
		if state == session.StateEnd && g.lastRun != nil && g.lastRun.Verdict == lane.Finish {
			cmd = session.CommandReplay
		}
	case in.Has(core.ActionConfirm) && state == session.StateInit:
		cmd = session.CommandStart
	case in.Has(core.ActionConfirm) && state == session.StateEnd:
		cmd = session.CommandReplay
	default:
		hasCmd = false
	}

	if hasCmd {
		if err := g.sess.Handle(cmd); err != nil {
			g.logger.Warn("command rejected", "command", cmd, "error", err)
		}
		// The command's keypress never doubles as a hop.
		return
	}

	if stride := in.Stride(); stride > 0 {
		g.sess.Jump(stride)
	}
}

// State reports steps as the score and the final time once the run is over.
func (g *Game) State() core.GameState {
	if g.sess == nil {
		return core.GameState{}
	}
	snap := g.sess.Snapshot()
	st := core.GameState{
		Score:    snap.Steps,
		GameOver: snap.State == session.StateEnd,
		Elapsed:  snap.Elapsed,
	}
	if st.GameOver {
		st.Won = snap.Verdict == lane.Finish
		st.Elapsed = snap.Total
	}
	return st
}

// LastRun returns the most recent finished run, if any.
func (g *Game) LastRun() (session.RunResult, bool) {
	if g.lastRun == nil {
		return session.RunResult{}, false
	}
	return *g.lastRun, true
}

// Session exposes the underlying session for inspection.
func (g *Game) Session() *session.Session {
	return g.sess
}
