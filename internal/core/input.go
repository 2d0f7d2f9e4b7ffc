package core

// Action represents a semantic game action, abstracted from physical key presses
// and mouse buttons. Games work with intents rather than raw input.
type Action int

const (
	ActionNone      Action = iota
	ActionHopShort         // 1, J, left mouse release - hop one tile
	ActionHopMedium        // 2, K, middle mouse release - hop two tiles
	ActionHopLong          // 3, L, right mouse release - hop three tiles
	ActionConfirm          // Enter, Space - start a run
	ActionRestart          // R - retry / replay
	ActionBack             // B, Escape - exit to the start panel
	ActionQuit             // Q, Ctrl+C - exit program
)

// String returns a human-readable name for the action.
func (a Action) String() string {
	switch a {
	case ActionNone:
		return "None"
	case ActionHopShort:
		return "HopShort"
	case ActionHopMedium:
		return "HopMedium"
	case ActionHopLong:
		return "HopLong"
	case ActionConfirm:
		return "Confirm"
	case ActionRestart:
		return "Restart"
	case ActionBack:
		return "Back"
	case ActionQuit:
		return "Quit"
	default:
		return "Unknown"
	}
}

// Stride returns the hop length in tiles for a hop action, or 0.
func (a Action) Stride() int {
	switch a {
	case ActionHopShort:
		return 1
	case ActionHopMedium:
		return 2
	case ActionHopLong:
		return 3
	default:
		return 0
	}
}

// InputFrame represents the input state during one simulation tick.
// It contains all actions that were triggered during this frame.
type InputFrame struct {
	// Actions maps action types to whether they were triggered this frame.
	Actions map[Action]bool
}

// NewInputFrame creates an empty input frame.
func NewInputFrame() InputFrame {
	return InputFrame{
		Actions: make(map[Action]bool),
	}
}

// Set marks an action as triggered for this frame.
func (f *InputFrame) Set(a Action) {
	if f.Actions == nil {
		f.Actions = make(map[Action]bool)
	}
	f.Actions[a] = true
}

// Has returns true if the given action was triggered this frame.
func (f InputFrame) Has(a Action) bool {
	if f.Actions == nil {
		return false
	}
	return f.Actions[a]
}

// Stride returns the longest hop requested this frame, or 0 if none.
// Several hop presses within one frame collapse into a single hop.
func (f InputFrame) Stride() int {
	for _, a := range []Action{ActionHopLong, ActionHopMedium, ActionHopShort} {
		if f.Has(a) {
			return a.Stride()
		}
	}
	return 0
}

// Clear resets all actions for the next frame.
func (f *InputFrame) Clear() {
	for k := range f.Actions {
		delete(f.Actions, k)
	}
}
