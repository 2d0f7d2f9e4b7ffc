package stepstone

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/vovakirdan/stepstone/internal/core"
	"github.com/vovakirdan/stepstone/internal/lane"
	"github.com/vovakirdan/stepstone/internal/registry"
	"github.com/vovakirdan/stepstone/internal/schedule"
	"github.com/vovakirdan/stepstone/internal/session"
)

// fixedSource always returns the same choice: 0 asks for a pit, 1 for a stone.
type fixedSource int

func (f fixedSource) Intn(n int) int { return int(f) % n }

const testYAML = `
lane:
  road_length: 3
session:
  input_delay: 100ms
  timer_interval: 7ms
animation:
  clips:
    jump: 300ms
`

// newTestGame builds a game on a 100ms tick with a scripted lane source.
func newTestGame(t *testing.T, g *Game, yaml string, src lane.RandomSource) *Game {
	t.Helper()

	path := filepath.Join(t.TempDir(), "stepstone.yaml")
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	SetConfigPath(path)
	SetDifficultyPreset("")
	t.Cleanup(func() { SetConfigPath("") })

	if src != nil {
		g.newRandom = func() lane.RandomSource { return src }
	}
	// Time runs on the scheduler so durations are exact.
	g.newClock = func(s *schedule.Scheduler) session.Clock { return s }
	g.Reset(core.RuntimeConfig{ScreenW: 60, ScreenH: 20, TickRate: 10, Seed: 42})
	return g
}

func frame(actions ...core.Action) core.InputFrame {
	f := core.NewInputFrame()
	for _, a := range actions {
		f.Set(a)
	}
	return f
}

// startRun presses Confirm and waits out the input delay.
func startRun(t *testing.T, g *Game) {
	t.Helper()
	g.Step(frame(core.ActionConfirm))
	if g.Session().State() != session.StatePlaying {
		t.Fatalf("state after Confirm = %v, expected Playing", g.Session().State())
	}
	for i := 0; i < 5 && !g.Session().AcceptingInput(); i++ {
		g.Step(frame())
	}
	if !g.Session().AcceptingInput() {
		t.Fatal("input never became enabled")
	}
}

// hop requests a hop and steps until it lands.
func hop(t *testing.T, g *Game, a core.Action) core.GameState {
	t.Helper()
	res := g.Step(frame(a))
	for i := 0; i < 20 && g.Session().Snapshot().Jumping; i++ {
		res = g.Step(frame())
	}
	if g.Session().Snapshot().Jumping {
		t.Fatal("hop never landed")
	}
	return res.State
}

func TestRegistered(t *testing.T) {
	for _, id := range []string{"stepstone", "stepstone_marathon"} {
		if !registry.Exists(id) {
			t.Errorf("%q should be registered", id)
		}
		g, err := registry.Create(id)
		if err != nil {
			t.Fatalf("Create(%q) failed: %v", id, err)
		}
		if g.ID() != id {
			t.Errorf("ID() = %q, expected %q", g.ID(), id)
		}
	}
	if New().Title() == NewMarathon().Title() {
		t.Error("variants should have distinct titles")
	}
}

func TestResetEntersInit(t *testing.T) {
	g := newTestGame(t, New(), testYAML, fixedSource(1))

	if g.Session().State() != session.StateInit {
		t.Errorf("state = %v, expected Init", g.Session().State())
	}
	if got := g.Session().Lane().String(); got != "###" {
		t.Errorf("lane = %q, expected %q", got, "###")
	}
	if st := g.State(); st.GameOver || st.Score != 0 {
		t.Errorf("fresh state = %+v", st)
	}
	if !g.view.visible(session.PanelStart) {
		t.Error("start panel should be visible")
	}
	if g.view.text(session.LabelBest) != "No Record!" {
		t.Errorf("best label = %q", g.view.text(session.LabelBest))
	}
}

func TestMarathonLength(t *testing.T) {
	g := newTestGame(t, NewMarathon(), testYAML, fixedSource(1))

	if got := g.Session().Lane().Len(); got != 3*marathonFactor {
		t.Errorf("marathon road length = %d, expected %d", got, 3*marathonFactor)
	}
}

func TestWinningRun(t *testing.T) {
	g := newTestGame(t, New(), testYAML, fixedSource(1))
	startRun(t, g)

	var st core.GameState
	for i := 1; i <= 3; i++ {
		st = hop(t, g, core.ActionHopShort)
		if st.Score != i {
			t.Errorf("after hop %d score = %d", i, st.Score)
		}
	}

	if !st.GameOver || !st.Won {
		t.Fatalf("state after third hop = %+v, expected won", st)
	}
	if st.Elapsed <= 0 {
		t.Errorf("final time = %v, expected > 0", st.Elapsed)
	}
	run, ok := g.LastRun()
	if !ok || !run.NewBest || run.Duration != st.Elapsed {
		t.Errorf("LastRun() = %+v, %v", run, ok)
	}
	if !g.view.visible(session.PanelWin) {
		t.Error("win panel should be visible")
	}
	if g.view.anim.plays != 3 || g.view.anim.playing != "jump" {
		t.Errorf("animator plays = %d clip %q, expected 3 jump", g.view.anim.plays, g.view.anim.playing)
	}
}

func TestFallingRun(t *testing.T) {
	yaml := strings.Replace(testYAML, "road_length: 3", "road_length: 5", 1)
	g := newTestGame(t, New(), yaml, fixedSource(0))
	if got := g.Session().Lane().String(); got != "#__##" {
		t.Fatalf("lane = %q, expected %q", got, "#__##")
	}
	startRun(t, g)

	st := hop(t, g, core.ActionHopShort)
	if !st.GameOver || st.Won {
		t.Fatalf("state = %+v, expected lost", st)
	}
	if st.Score != 1 {
		t.Errorf("score = %d, expected 1", st.Score)
	}
	if !g.view.visible(session.PanelLose) {
		t.Error("lose panel should be visible")
	}
}

func TestLongHopAcrossPits(t *testing.T) {
	yaml := strings.Replace(testYAML, "road_length: 3", "road_length: 5", 1)
	g := newTestGame(t, New(), yaml, fixedSource(0))
	startRun(t, g)

	// Index 2 stands over slot 3, a pit; index 3 over slot 4, a stone.
	st := hop(t, g, core.ActionHopLong)
	if st.GameOver {
		t.Fatalf("hop 3 onto a stone should continue, got %+v", st)
	}
	if st.Score != 3 {
		t.Errorf("score = %d, expected 3", st.Score)
	}
}

func TestConfirmDoesNotHop(t *testing.T) {
	g := newTestGame(t, New(), testYAML, fixedSource(1))

	g.Step(frame(core.ActionConfirm, core.ActionHopShort))
	if g.Session().State() != session.StatePlaying {
		t.Fatalf("state = %v, expected Playing", g.Session().State())
	}
	if g.Session().Snapshot().Jumping {
		t.Error("the start keypress should not also hop")
	}
}

func TestRestartAndBack(t *testing.T) {
	yaml := strings.Replace(testYAML, "road_length: 3", "road_length: 5", 1)
	g := newTestGame(t, New(), yaml, fixedSource(0))
	startRun(t, g)
	hop(t, g, core.ActionHopShort)

	g.Step(frame(core.ActionRestart))
	if g.Session().State() != session.StatePlaying {
		t.Errorf("Restart from End: state = %v, expected Playing", g.Session().State())
	}
	if st := g.State(); st.Score != 0 || st.GameOver {
		t.Errorf("state after restart = %+v", st)
	}

	g.Step(frame(core.ActionBack))
	if g.Session().State() != session.StateInit {
		t.Errorf("Back: state = %v, expected Init", g.Session().State())
	}
}

func TestBestTimeSurvivesRetry(t *testing.T) {
	g := newTestGame(t, New(), testYAML, fixedSource(1))
	startRun(t, g)
	for i := 0; i < 3; i++ {
		hop(t, g, core.ActionHopShort)
	}
	first := g.State().Elapsed

	g.Step(frame(core.ActionConfirm))
	for i := 0; i < 5 && !g.Session().AcceptingInput(); i++ {
		g.Step(frame())
	}
	hop(t, g, core.ActionHopShort)
	hop(t, g, core.ActionHopShort)
	// Dawdle so the second run is slower.
	for i := 0; i < 10; i++ {
		g.Step(frame())
	}
	hop(t, g, core.ActionHopShort)

	run, _ := g.LastRun()
	if run.NewBest {
		t.Error("slower run should not be a new best")
	}
	if best, ok := g.Session().BestTime(); !ok || best != first {
		t.Errorf("best = %v, %v, expected %v", best, ok, first)
	}
}

func TestSeededLanesAreReproducible(t *testing.T) {
	a := newTestGame(t, New(), strings.Replace(testYAML, "road_length: 3", "road_length: 30", 1), nil)
	b := newTestGame(t, New(), strings.Replace(testYAML, "road_length: 3", "road_length: 30", 1), nil)

	if a.Session().Lane().String() != b.Session().Lane().String() {
		t.Errorf("same seed gave different lanes: %q vs %q",
			a.Session().Lane().String(), b.Session().Lane().String())
	}
}

func TestResizeKeepsRun(t *testing.T) {
	g := newTestGame(t, New(), testYAML, fixedSource(1))
	startRun(t, g)
	hop(t, g, core.ActionHopShort)

	g.Resize(100, 30)
	if g.Session().State() != session.StatePlaying || g.State().Score != 1 {
		t.Errorf("resize should keep the run, got %v %+v", g.Session().State(), g.State())
	}
}

func TestRender(t *testing.T) {
	g := newTestGame(t, New(), testYAML, fixedSource(1))
	scr := core.NewScreen(60, 20)

	g.Render(scr)
	out := scr.String()
	for _, want := range []string{"STEPSTONE", "Enter/Space: start", "No Record!", "@", "⚑"} {
		if !strings.Contains(out, want) {
			t.Errorf("init screen missing %q:\n%s", want, out)
		}
	}

	startRun(t, g)
	for i := 0; i < 3; i++ {
		hop(t, g, core.ActionHopShort)
	}
	scr.Clear()
	g.Render(scr)
	out = scr.String()
	for _, want := range []string{"GOAL!", "Grade:", "New record!"} {
		if !strings.Contains(out, want) {
			t.Errorf("win screen missing %q:\n%s", want, out)
		}
	}
}

func TestRenderTooSmall(t *testing.T) {
	g := newTestGame(t, New(), testYAML, fixedSource(1))
	scr := core.NewScreen(20, 5)
	g.Render(scr)

	if !strings.Contains(scr.String(), "Terminal too small") {
		t.Errorf("expected size warning, got:\n%s", scr.String())
	}
}

func TestSetDifficultyPerInstance(t *testing.T) {
	SetConfigPath("")
	SetDifficultyPreset("easy")
	t.Cleanup(func() { SetDifficultyPreset("") })

	easy := New()
	easy.newRandom = func() lane.RandomSource { return fixedSource(1) }
	easy.Reset(core.RuntimeConfig{ScreenW: 60, ScreenH: 20, TickRate: 10})

	hard := New()
	hard.newRandom = func() lane.RandomSource { return fixedSource(1) }
	hard.SetDifficulty("hard")
	hard.Reset(core.RuntimeConfig{ScreenW: 60, ScreenH: 20, TickRate: 10})

	if got := easy.Session().Lane().Len(); got != 12 {
		t.Errorf("package preset easy: road length = %d, expected 12", got)
	}
	if got := hard.Session().Lane().Len(); got != 40 {
		t.Errorf("instance preset hard: road length = %d, expected 40", got)
	}
}

func TestRunTimedOnWallClock(t *testing.T) {
	SetConfigPath("")
	SetDifficultyPreset("")

	g := New()
	g.newRandom = func() lane.RandomSource { return fixedSource(1) }
	// One tick is a full virtual second.
	g.Reset(core.RuntimeConfig{ScreenW: 60, ScreenH: 20, TickRate: 1})

	g.Step(frame(core.ActionConfirm))
	g.Step(frame())

	if !g.Session().AcceptingInput() {
		t.Fatal("input delay should have passed on the scheduler")
	}
	if got := g.Session().Elapsed(); got >= 500*time.Millisecond {
		t.Errorf("elapsed = %v after two quick steps, expected wall time well under a second", got)
	}
}

func TestResetCancelsScheduledTasks(t *testing.T) {
	g := newTestGame(t, New(), testYAML, fixedSource(1))
	g.Step(frame(core.ActionConfirm))

	old := g.sched
	if old.Pending() == 0 {
		t.Fatal("a started run should have scheduled tasks")
	}

	g.Reset(core.RuntimeConfig{ScreenW: 60, ScreenH: 20, TickRate: 10, Seed: 42})
	if old.Pending() != 0 {
		t.Errorf("old scheduler still has %d tasks", old.Pending())
	}
	if g.Session().State() != session.StateInit {
		t.Errorf("state = %v, expected Init", g.Session().State())
	}
}
