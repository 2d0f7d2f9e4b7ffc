package core

// Color represents a foreground color for a screen cell.
// The platform maps each value onto an ANSI terminal color.
type Color uint8

// Palette used by the stepstone renderer.
const (
	ColorDefault Color = iota
	ColorRed
	ColorGreen
	ColorYellow
	ColorCyan
	ColorWhite
	ColorBrightRed
	ColorBrightGreen
	ColorBrightYellow
	ColorBrightCyan
	ColorGray
)
