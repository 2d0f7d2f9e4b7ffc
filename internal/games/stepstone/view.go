package stepstone

import (
	"time"

	"github.com/vovakirdan/stepstone/internal/session"
)

// panel is the in-memory stand-in for a UI panel; the renderer reads it.
type panel struct {
	visible bool
}

func (p *panel) SetVisible(visible bool) { p.visible = visible }

type label struct {
	text string
}

func (l *label) SetText(text string) { l.text = text }

// clipAnimator serves clip lengths from the config and remembers the last
// clip played so the renderer can pick a sprite.
type clipAnimator struct {
	clips   map[string]time.Duration
	playing string
	plays   int
}

func (a *clipAnimator) ClipDuration(clip string) (time.Duration, bool) {
	d, ok := a.clips[clip]
	return d, ok
}

func (a *clipAnimator) Play(clip string) {
	a.playing = clip
	a.plays++
}

// view holds everything the session shows to the player.
type view struct {
	panels map[session.PanelID]*panel
	labels map[session.LabelID]*label
	anim   *clipAnimator
}

func newView(clips map[string]time.Duration) *view {
	v := &view{
		panels: make(map[session.PanelID]*panel),
		labels: make(map[session.LabelID]*label),
		anim:   &clipAnimator{clips: clips},
	}
	for _, id := range []session.PanelID{session.PanelStart, session.PanelPlay, session.PanelLose, session.PanelWin} {
		v.panels[id] = &panel{}
	}
	for _, id := range []session.LabelID{session.LabelSteps, session.LabelTimer, session.LabelGrade, session.LabelBest} {
		v.labels[id] = &label{}
	}
	return v
}

func (v *view) panelMap() map[session.PanelID]session.Panel {
	m := make(map[session.PanelID]session.Panel, len(v.panels))
	for id, p := range v.panels {
		m[id] = p
	}
	return m
}

func (v *view) labelMap() map[session.LabelID]session.Label {
	m := make(map[session.LabelID]session.Label, len(v.labels))
	for id, l := range v.labels {
		m[id] = l
	}
	return m
}

func (v *view) visible(id session.PanelID) bool {
	p, ok := v.panels[id]
	return ok && p.visible
}

func (v *view) text(id session.LabelID) string {
	if l, ok := v.labels[id]; ok {
		return l.text
	}
	return ""
}
