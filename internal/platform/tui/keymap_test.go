package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/stepstone/internal/core"
)

func runeKey(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func TestMapKey(t *testing.T) {
	km := NewKeyMapper()

	tests := []struct {
		name     string
		msg      tea.KeyMsg
		expected core.Action
		quit     bool
	}{
		{"1 hops one", runeKey('1'), core.ActionHopShort, false},
		{"j hops one", runeKey('j'), core.ActionHopShort, false},
		{"2 hops two", runeKey('2'), core.ActionHopMedium, false},
		{"k hops two", runeKey('k'), core.ActionHopMedium, false},
		{"3 hops three", runeKey('3'), core.ActionHopLong, false},
		{"l hops three", runeKey('l'), core.ActionHopLong, false},
		{"enter starts", tea.KeyMsg{Type: tea.KeyEnter}, core.ActionConfirm, false},
		{"space starts", tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}, core.ActionConfirm, false},
		{"r retries", runeKey('r'), core.ActionRestart, false},
		{"b goes back", runeKey('b'), core.ActionBack, false},
		{"esc goes back", tea.KeyMsg{Type: tea.KeyEsc}, core.ActionBack, false},
		{"q quits", runeKey('q'), core.ActionQuit, true},
		{"ctrl+c quits", tea.KeyMsg{Type: tea.KeyCtrlC}, core.ActionQuit, true},
		{"unbound key", runeKey('x'), core.ActionNone, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			action, quit := km.MapKey(tc.msg)
			if action != tc.expected || quit != tc.quit {
				t.Errorf("MapKey(%q) = %v, %v; expected %v, %v", tc.msg.String(), action, quit, tc.expected, tc.quit)
			}
		})
	}
}

func TestMapMouse(t *testing.T) {
	km := NewKeyMapper()

	tests := []struct {
		name     string
		msg      tea.MouseMsg
		expected core.Action
	}{
		{"left release", tea.MouseMsg{Action: tea.MouseActionRelease, Button: tea.MouseButtonLeft}, core.ActionHopShort},
		{"middle release", tea.MouseMsg{Action: tea.MouseActionRelease, Button: tea.MouseButtonMiddle}, core.ActionHopMedium},
		{"right release", tea.MouseMsg{Action: tea.MouseActionRelease, Button: tea.MouseButtonRight}, core.ActionHopLong},
		{"left press ignored", tea.MouseMsg{Action: tea.MouseActionPress, Button: tea.MouseButtonLeft}, core.ActionNone},
		{"wheel ignored", tea.MouseMsg{Action: tea.MouseActionRelease, Button: tea.MouseButtonWheelUp}, core.ActionNone},
		{"motion ignored", tea.MouseMsg{Action: tea.MouseActionMotion}, core.ActionNone},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := km.MapMouse(tc.msg); got != tc.expected {
				t.Errorf("MapMouse() = %v, expected %v", got, tc.expected)
			}
		})
	}
}

func TestMapToFrame(t *testing.T) {
	km := NewKeyMapper()
	frame := core.NewInputFrame()

	if quit := km.MapKeyToFrame(runeKey('2'), &frame); quit {
		t.Error("2 should not quit")
	}
	km.MapMouseToFrame(tea.MouseMsg{Action: tea.MouseActionRelease, Button: tea.MouseButtonRight}, &frame)

	if !frame.Has(core.ActionHopMedium) || !frame.Has(core.ActionHopLong) {
		t.Errorf("frame = %v, expected both hops", frame.Actions)
	}
	if frame.Stride() != 3 {
		t.Errorf("Stride() = %d, expected the longest hop", frame.Stride())
	}

	if quit := km.MapKeyToFrame(runeKey('q'), &frame); !quit {
		t.Error("q should quit")
	}
	if frame.Has(core.ActionQuit) {
		t.Error("quit is handled by the platform, not put in the frame")
	}
}
