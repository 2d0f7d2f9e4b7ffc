package jump

import (
	"errors"
	"testing"
	"time"
)

const frame = 16 * time.Millisecond

var t0 = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

type fakeAnimator struct {
	clips  map[string]time.Duration
	played []string
}

func (a *fakeAnimator) ClipDuration(clip string) (time.Duration, bool) {
	d, ok := a.clips[clip]
	return d, ok
}

func (a *fakeAnimator) Play(clip string) {
	a.played = append(a.played, clip)
}

// fly ticks until the hop lands and returns the landing events seen.
func fly(m *Motion, maxTicks int) []LandingEvent {
	var events []LandingEvent
	for i := 0; i < maxTicks; i++ {
		if ev, ok := m.Tick(frame); ok {
			events = append(events, ev)
		}
	}
	return events
}

func TestStrideAdvancesIndex(t *testing.T) {
	for _, stride := range []int{1, 2, 3} {
		m := NewMotion(DefaultConfig(), nil, nil)

		if err := m.BeginJump(stride, t0); err != nil {
			t.Fatalf("BeginJump(%d) failed: %v", stride, err)
		}
		if m.Index() != stride {
			t.Errorf("stride %d: Index() = %d, expected %d", stride, m.Index(), stride)
		}

		events := fly(m, 60)
		if len(events) != 1 {
			t.Fatalf("stride %d: expected exactly one landing, got %d", stride, len(events))
		}
		if events[0].Index != stride || events[0].Stride != stride {
			t.Errorf("stride %d: landing = %+v", stride, events[0])
		}
		if m.Jumping() {
			t.Errorf("stride %d: should be idle after landing", stride)
		}

		want := float64(stride) * 40
		if m.Position() != want {
			t.Errorf("stride %d: Position() = %f, expected %f", stride, m.Position(), want)
		}
	}
}

func TestLandingOnlyAfterDurationExceeded(t *testing.T) {
	cfg := DefaultConfig()
	cfg.DefaultDuration = 100 * time.Millisecond
	m := NewMotion(cfg, nil, nil)

	if err := m.BeginJump(1, t0); err != nil {
		t.Fatalf("BeginJump failed: %v", err)
	}

	// Exactly reaching the duration is not enough; it must be exceeded
	if _, ok := m.Tick(100 * time.Millisecond); ok {
		t.Fatal("landing reported at elapsed == duration")
	}
	ev, ok := m.Tick(time.Millisecond)
	if !ok {
		t.Fatal("landing should be reported once duration is exceeded")
	}
	if ev.Airtime != 101*time.Millisecond {
		t.Errorf("Airtime = %v, expected 101ms", ev.Airtime)
	}
	if !ev.StartedAt.Equal(t0) {
		t.Errorf("StartedAt = %v, expected %v", ev.StartedAt, t0)
	}
}

func TestBusyRejectsWithoutChange(t *testing.T) {
	m := NewMotion(DefaultConfig(), nil, nil)
	if err := m.BeginJump(1, t0); err != nil {
		t.Fatalf("BeginJump failed: %v", err)
	}
	m.Tick(frame)

	index, pos, progress := m.Index(), m.Position(), m.Progress()

	err := m.BeginJump(3, t0.Add(frame))
	if !errors.Is(err, ErrBusy) {
		t.Fatalf("second BeginJump error = %v, expected ErrBusy", err)
	}
	if m.Index() != index || m.Position() != pos || m.Progress() != progress {
		t.Error("rejected jump should not change state")
	}

	events := fly(m, 60)
	if len(events) != 1 || events[0].Index != 1 {
		t.Errorf("expected a single landing at 1, got %+v", events)
	}
}

func TestInvalidStride(t *testing.T) {
	m := NewMotion(DefaultConfig(), nil, nil)

	for _, stride := range []int{0, -1, 4} {
		if err := m.BeginJump(stride, t0); !errors.Is(err, ErrInvalidStride) {
			t.Errorf("BeginJump(%d) error = %v, expected ErrInvalidStride", stride, err)
		}
	}
	if m.Jumping() || m.Index() != 0 {
		t.Error("invalid strides should not start a hop")
	}
}

func TestNeverOvershootsTarget(t *testing.T) {
	m := NewMotion(DefaultConfig(), nil, nil)
	if err := m.BeginJump(2, t0); err != nil {
		t.Fatalf("BeginJump failed: %v", err)
	}

	// Jittery frames, one of them huge
	steps := []time.Duration{frame, 3 * time.Millisecond, 250 * time.Millisecond, frame, frame}
	for _, dt := range steps {
		m.Tick(dt)
		if m.Position() > 80 {
			t.Fatalf("position %f passed the target 80", m.Position())
		}
	}
	if m.Jumping() {
		t.Fatal("hop should have landed")
	}
	if m.Position() != 80 {
		t.Errorf("Position() = %f, expected 80", m.Position())
	}
}

func TestAnimatorDrivesDuration(t *testing.T) {
	anim := &fakeAnimator{clips: map[string]time.Duration{"jump": 50 * time.Millisecond}}
	m := NewMotion(DefaultConfig(), anim, nil)

	if err := m.BeginJump(1, t0); err != nil {
		t.Fatalf("BeginJump failed: %v", err)
	}
	if len(anim.played) != 1 || anim.played[0] != "jump" {
		t.Errorf("played = %v, expected [jump]", anim.played)
	}

	// 4 frames of 16ms = 64ms > 50ms
	landed := 0
	for i := 0; i < 4; i++ {
		if _, ok := m.Tick(frame); ok {
			landed++
			if i != 3 {
				t.Errorf("landed on frame %d, expected frame 3", i)
			}
		}
	}
	if landed != 1 {
		t.Errorf("landed %d times, expected 1", landed)
	}
}

func TestMissingClipFallsBack(t *testing.T) {
	anim := &fakeAnimator{clips: map[string]time.Duration{"idle": time.Second}}
	cfg := DefaultConfig()
	cfg.DefaultDuration = 20 * time.Millisecond
	m := NewMotion(cfg, anim, nil)

	if err := m.BeginJump(1, t0); err != nil {
		t.Fatalf("BeginJump failed: %v", err)
	}
	m.Tick(frame)
	if _, ok := m.Tick(frame); !ok {
		t.Error("hop should land after the default duration")
	}
}

func TestReset(t *testing.T) {
	m := NewMotion(DefaultConfig(), nil, nil)
	if err := m.BeginJump(3, t0); err != nil {
		t.Fatalf("BeginJump failed: %v", err)
	}
	m.Tick(frame)

	m.Reset()

	if m.Jumping() || m.Index() != 0 || m.Position() != 0 || m.Progress() != 0 {
		t.Error("Reset should return to an idle origin")
	}
	if _, ok := m.Tick(time.Second); ok {
		t.Error("no landing should be reported after Reset")
	}
}

func TestIndexAccumulatesPastLane(t *testing.T) {
	m := NewMotion(DefaultConfig(), nil, nil)
	for i := 0; i < 5; i++ {
		if err := m.BeginJump(3, t0); err != nil {
			t.Fatalf("BeginJump failed: %v", err)
		}
		fly(m, 30)
	}
	if m.Index() != 15 {
		t.Errorf("Index() = %d, expected 15", m.Index())
	}
}
