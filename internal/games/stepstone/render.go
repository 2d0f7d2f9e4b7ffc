package stepstone

import (
	"fmt"
	"strings"

	"github.com/vovakirdan/stepstone/internal/core"
	"github.com/vovakirdan/stepstone/internal/lane"
	"github.com/vovakirdan/stepstone/internal/session"
)

const (
	tileW     = 3 // Screen columns per tile
	hopHeight = 2 // Rows the player rises at the top of a hop
	panelW    = 40
	panelH    = 6
	minW      = panelW + 4
	minH      = 16
)

// Render draws the HUD, the lane, the player and whichever panel is visible.
func (g *Game) Render(dst *core.Screen) {
	w, h := dst.Width(), dst.Height()
	if w < minW || h < minH {
		dst.DrawTextCentered(h/2, "Terminal too small", core.ColorBrightRed)
		dst.DrawTextCentered(h/2+1, fmt.Sprintf("need %dx%d", minW, minH), core.ColorGray)
		return
	}
	if g.sess == nil {
		return
	}

	snap := g.sess.Snapshot()
	g.drawHUD(dst, snap)

	laneY := h - 5
	g.drawLane(dst, snap, laneY)

	switch {
	case g.view.visible(session.PanelStart):
		g.drawStartPanel(dst)
	case g.view.visible(session.PanelLose):
		g.drawLosePanel(dst)
	case g.view.visible(session.PanelWin):
		g.drawWinPanel(dst, snap)
	}
}

func (g *Game) drawHUD(dst *core.Screen, snap session.Snapshot) {
	w := dst.Width()
	dst.DrawTextCentered(0, strings.ToUpper(g.Title()), core.ColorBrightYellow)

	color := core.ColorGray
	if g.view.visible(session.PanelPlay) {
		color = core.ColorWhite
	}
	dst.DrawTextColored(1, 1, g.view.text(session.LabelSteps), color)
	dst.DrawTextColored(12, 1, fmt.Sprintf("/ %d", snap.Lane.Len()), core.ColorGray)

	timer := g.view.text(session.LabelTimer)
	dst.DrawTextColored(w-len(timer)-1, 1, timer, color)

	dst.DrawHLine(0, 2, w, '─', core.ColorGray)
}

// playerColumn returns the world column of the player's center. The player
// at index i stands over slot i+1.
func playerColumn(snap session.Snapshot) float64 {
	f := 0.0
	if snap.TileSize > 0 {
		f = snap.Position / snap.TileSize
	}
	return (f+1)*tileW + tileW/2
}

func (g *Game) drawLane(dst *core.Screen, snap session.Snapshot, laneY int) {
	w := dst.Width()
	last := snap.Lane.Len()
	px := playerColumn(snap)

	worldW := (last + 2) * tileW
	cam := core.Clamp(int(px)-w/3, 0, max(0, worldW-w))

	dst.DrawHLine(0, laneY+1, w, '~', core.ColorCyan)

	for slot := 0; slot <= last+1; slot++ {
		x := slot*tileW - cam
		if x+tileW < 0 || x >= w {
			continue
		}
		switch {
		case slot == 0:
			dst.DrawHLine(x, laneY, tileW, '▄', core.ColorGreen)
		case slot == last+1:
			// The flag sits one slot past the lane: landing index last
			// stands the player here and wins.
			dst.DrawHLine(x, laneY, tileW, '▄', core.ColorGreen)
			dst.SetColored(x+1, laneY-2, '⚑', core.ColorBrightYellow)
		case snap.Lane.At(slot) == lane.Solid:
			dst.DrawHLine(x, laneY, tileW-1, '▄', core.ColorWhite)
		default:
			dst.DrawHLine(x, laneY, tileW, '~', core.ColorCyan)
		}
	}

	g.drawPlayer(dst, snap, int(px)-cam, laneY)
}

func (g *Game) drawPlayer(dst *core.Screen, snap session.Snapshot, x, laneY int) {
	if snap.State == session.StateEnd && snap.Verdict == lane.Fall {
		dst.SetColored(x, laneY, 'x', core.ColorBrightRed)
		return
	}

	y := laneY - 1
	if snap.Jumping {
		p := snap.HopProgress
		y -= int(4*p*(1-p)*hopHeight + 0.5)
	}

	color := core.ColorBrightYellow
	if snap.State == session.StateEnd {
		color = core.ColorBrightGreen
	}
	dst.SetColored(x, y, '@', color)
}

func panelRect(dst *core.Screen) core.Rect {
	return core.NewRect((dst.Width()-panelW)/2, 4, panelW, panelH)
}

func (g *Game) drawPanel(dst *core.Screen, border core.Color, lines []string, colors []core.Color) {
	r := panelRect(dst)
	dst.DrawRect(r, ' ')
	dst.DrawBox(r, border)
	for i, line := range lines {
		if i >= panelH-2 {
			break
		}
		x := r.X + (r.W-len([]rune(line)))/2
		dst.DrawTextColored(x, r.Y+1+i, line, colors[i])
	}
}

func (g *Game) drawStartPanel(dst *core.Screen) {
	g.drawPanel(dst, core.ColorBrightCyan,
		[]string{
			"Cross the stones to the flag",
			g.view.text(session.LabelBest),
			"",
			"Enter/Space: start",
		},
		[]core.Color{core.ColorWhite, core.ColorYellow, core.ColorDefault, core.ColorBrightCyan},
	)
}

func (g *Game) drawLosePanel(dst *core.Screen) {
	g.drawPanel(dst, core.ColorBrightRed,
		[]string{
			"SPLASH! You fell in.",
			g.view.text(session.LabelSteps),
			"",
			"R: retry  B: back",
		},
		[]core.Color{core.ColorBrightRed, core.ColorWhite, core.ColorDefault, core.ColorGray},
	)
}

func (g *Game) drawWinPanel(dst *core.Screen, snap session.Snapshot) {
	best := fmt.Sprintf("Best Time: %.2f s", snap.Best.Seconds())
	if r, ok := g.LastRun(); ok && r.NewBest {
		best = "New record!"
	}
	g.drawPanel(dst, core.ColorBrightGreen,
		[]string{
			"GOAL!",
			g.view.text(session.LabelGrade),
			best,
			"Enter/R: replay  B: back",
		},
		[]core.Color{core.ColorBrightGreen, core.ColorWhite, core.ColorYellow, core.ColorGray},
	)
}
