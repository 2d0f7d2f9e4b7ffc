package lane

// Verdict classifies a landing.
type Verdict uint8

const (
	Continue Verdict = iota // Landed on a stone, keep going
	Fall                    // Landed in a pit or past the goal
	Finish                  // Landed exactly on the goal
)

// String returns a human-readable name for the verdict.
func (v Verdict) String() string {
	switch v {
	case Continue:
		return "Continue"
	case Fall:
		return "Fall"
	case Finish:
		return "Finish"
	default:
		return "Unknown"
	}
}

// Evaluate decides the outcome of landing on tile index landed.
// The player at index i stands on slot i+1, so the goal is index Len().
// Jumping past the goal counts as a fall.
func Evaluate(l Lane, landed int) Verdict {
	last := l.Len()
	switch {
	case landed < last:
		if l.At(landed+1) == Empty {
			return Fall
		}
		return Continue
	case landed == last:
		return Finish
	default:
		return Fall
	}
}
