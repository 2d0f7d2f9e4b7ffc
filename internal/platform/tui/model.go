package tui

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/adrg/xdg"
	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/stepstone/internal/core"
	"github.com/vovakirdan/stepstone/internal/registry"
	"github.com/vovakirdan/stepstone/internal/storage"
)

// Model is the Bubble Tea model for running a game.
type Model struct {
	game       registry.Game
	screen     *core.Screen
	store      *storage.Store
	logger     *log.Logger
	keys       *KeyMapper
	help       help.Model
	config     core.RuntimeConfig
	inputFrame core.InputFrame
	gameState  core.GameState
	quitting   bool
	runSaved   bool // Whether the current finished run has been stored
	embedded   bool // Hosted by a SessionModel: q returns to the menu
	backToMenu bool
	clipboard  bool // Screenshots are also copied to the local clipboard
}

// Option configures a Model.
type Option func(*Model)

// WithLogger sets the logger for run and screenshot events.
func WithLogger(l *log.Logger) Option {
	return func(m *Model) {
		if l != nil {
			m.logger = l
		}
	}
}

// WithMenuReturn makes q leave the game for the host menu instead of
// quitting the program. Ctrl+C still quits.
func WithMenuReturn() Option {
	return func(m *Model) {
		m.embedded = true
	}
}

// WithClipboard copies screenshots to the system clipboard as well.
// Only meaningful when the terminal runs on the same machine.
func WithClipboard() Option {
	return func(m *Model) {
		m.clipboard = true
	}
}

// NewModel creates a new Bubble Tea model for the given game.
// The game is Reset here so the first frame already has a lane.
func NewModel(game registry.Game, store *storage.Store, cfg core.RuntimeConfig, opts ...Option) Model {
	// Use time-based seed if not specified
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}

	m := Model{
		game:       game,
		store:      store,
		logger:     log.New(io.Discard),
		keys:       NewKeyMapper(),
		help:       help.New(),
		config:     cfg,
		inputFrame: core.NewInputFrame(),
	}
	for _, opt := range opts {
		opt(&m)
	}

	gameCfg := m.gameConfig()
	m.screen = core.NewScreen(gameCfg.ScreenW, gameCfg.ScreenH)
	m.help.Width = cfg.ScreenW
	m.game.Reset(gameCfg)
	m.gameState = m.game.State()
	return m
}

// Init starts the tick loop.
func (m Model) Init() tea.Cmd {
	return tickCmd(m.config.TickRate)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		m.keys.MapMouseToFrame(msg, &m.inputFrame)
		return m, nil

	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case TickMsg:
		return m.handleTick()
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Keys().Screenshot) {
		m.saveScreenshot()
		return m, nil
	}

	if quit := m.keys.MapKeyToFrame(msg, &m.inputFrame); quit {
		if m.embedded && msg.String() != "ctrl+c" {
			m.backToMenu = true
			return m, nil
		}
		m.quitting = true
		return m, tea.Quit
	}

	return m, nil
}

// handleResize processes window resize events.
func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.config.ScreenW = msg.Width
	m.config.ScreenH = msg.Height
	m.help.Width = msg.Width

	gameCfg := m.gameConfig()
	m.screen.Resize(gameCfg.ScreenW, gameCfg.ScreenH)

	// Games that can follow a resize keep their run; others start over.
	if r, ok := m.game.(registry.Resizer); ok {
		r.Resize(gameCfg.ScreenW, gameCfg.ScreenH)
	} else if !m.gameState.GameOver {
		m.game.Reset(gameCfg)
	}

	return m, nil
}

// handleTick processes simulation ticks.
func (m Model) handleTick() (tea.Model, tea.Cmd) {
	result := m.game.Step(m.inputFrame)
	m.gameState = result.State

	switch {
	case m.gameState.GameOver && !m.runSaved:
		m.saveRun()
		m.runSaved = true
	case !m.gameState.GameOver:
		m.runSaved = false
	}

	m.inputFrame.Clear()

	return m, tickCmd(m.config.TickRate)
}

// saveRun stores the finished run. Best-effort: the game continues
// regardless of storage errors.
func (m *Model) saveRun() {
	st := m.gameState
	m.logger.Info("run finished",
		"game", m.game.ID(),
		"won", st.Won,
		"steps", st.Score,
		"time", st.Elapsed,
	)
	if m.store == nil {
		return
	}
	run, err := m.store.SaveRun(m.game.ID(), st.Score, st.Elapsed, st.Won)
	if err != nil {
		m.logger.Warn("cannot save run", "error", err)
		return
	}
	m.logger.Debug("run saved", "run_id", run.RunID)
}

// saveScreenshot writes the current screen as plain text under the XDG
// data directory.
func (m *Model) saveScreenshot() {
	m.screen.Clear()
	m.game.Render(m.screen)
	text := m.screen.String()

	if m.clipboard {
		if err := clipboard.WriteAll(text); err != nil {
			m.logger.Warn("cannot copy screenshot to clipboard", "error", err)
		} else {
			m.logger.Debug("screenshot copied to clipboard")
		}
	}

	timestamp := time.Now().Format("20060102_150405")
	path, err := xdg.DataFile(fmt.Sprintf("stepstone/screenshots/%s_%s.txt", m.game.ID(), timestamp))
	if err != nil {
		m.logger.Warn("cannot create screenshot directory", "error", err)
		return
	}
	if err := os.WriteFile(path, []byte(text), 0o600); err != nil {
		m.logger.Warn("cannot save screenshot", "path", path, "error", err)
		return
	}
	m.logger.Info("screenshot saved", "path", path)
}

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	m.screen.Clear()
	m.game.Render(m.screen)

	return RenderScreen(m.screen) + "\n" + m.help.View(m.keys.Keys())
}

// gameConfig is the runtime config the game sees: the bottom row is
// kept for the key help.
func (m Model) gameConfig() core.RuntimeConfig {
	cfg := m.config
	cfg.ScreenH = max(0, cfg.ScreenH-1)
	return cfg
}

// IsQuitting returns true if user requested to quit entirely.
func (m Model) IsQuitting() bool {
	return m.quitting
}

// BackToMenu returns true if user asked to return to the host menu.
func (m Model) BackToMenu() bool {
	return m.backToMenu
}

// State returns the game state as of the last tick.
func (m Model) State() core.GameState {
	return m.gameState
}

// Run starts the Bubble Tea program with the given model.
func Run(game registry.Game, store *storage.Store, cfg core.RuntimeConfig, opts ...Option) error {
	model := NewModel(game, store, cfg, opts...)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(), // Button releases drive hops
	)

	_, err := p.Run()
	return err
}
