// Package overlay draws a heads-up display over a rendered bitmap: where
// the stack members sit, which one is showing, and a status line.
package overlay

import(
	"image"
	"image/color"
	"math"

	"github.com/fogleman/gg"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/abworrall/lfp-viewer/pkg/lfp"
	"github.com/abworrall/lfp-viewer/pkg/viewer"
)

// HUD is everything the overlay shows.
type HUD struct {
	Title    string
	Active   lfp.ImageKey
	Refocus  []lfp.Member
	Parallax []lfp.Member
	Status   string
}

type Theme struct {
	Active  colorful.Color
	Text    colorful.Color
	Shadow  colorful.Color
	Radius  float64  // of a parallax dot, in pixels
	Margin  float64
}

var DefaultTheme = Theme{
	Active: colorful.Color{R: 1.0, G: 0.8, B: 0.0},
	Text:   colorful.Color{R: 1, G: 1, B: 1},
	Shadow: colorful.Color{},
	Radius: 3,
	Margin: 8,
}

// WithActive overrides the highlight colour; colours that don't convert
// are ignored.
func (t Theme)WithActive(c color.Color) Theme {
	if cc, ok := colorful.MakeColor(c); ok {
		t.Active = cc
	}
	return t
}

// FromController snapshots the controller's picture and view.
func FromController(c *viewer.Controller, title string) HUD {
	hud := HUD{
		Title:  title,
		Active: c.View().Key(),
		Status: c.View().String(),
	}
	if ix, ok := c.Index(lfp.Refocus); ok {
		hud.Refocus = ix.Members()
	}
	if ix, ok := c.Index(lfp.Parallax); ok {
		hud.Parallax = ix.Members()
	}
	return hud
}

// memberColor spreads the members around the hue wheel, by position.
func memberColor(i, n int) colorful.Color {
	if n < 1 {
		n = 1
	}
	return colorful.Hsv(360.0*float64(i)/float64(n), 0.6, 0.9)
}

// Draw renders the HUD onto a copy of `img`; `img` itself is untouched.
func Draw(img image.Image, hud HUD, theme Theme) *image.RGBA {
	dc := gg.NewContextForImage(img)
	w, h := float64(dc.Width()), float64(dc.Height())

	drawParallax(dc, hud, theme, w, h)
	drawRefocus(dc, hud, theme, w, h)

	if hud.Title != "" {
		shadowed(dc, theme, hud.Title, theme.Margin, theme.Margin, 0, 1)
	}
	if hud.Status != "" {
		shadowed(dc, theme, hud.Status, w-theme.Margin, theme.Margin, 1, 1)
	}

	return dc.Image().(*image.RGBA)
}

func shadowed(dc *gg.Context, theme Theme, s string, x, y, ax, ay float64) {
	dc.SetColor(theme.Shadow)
	dc.DrawStringAnchored(s, x+1, y+1, ax, ay)
	dc.SetColor(theme.Text)
	dc.DrawStringAnchored(s, x, y, ax, ay)
}

func drawParallax(dc *gg.Context, hud HUD, theme Theme, w, h float64) {
	for i, m := range hud.Parallax {
		if len(m.Coord) != 2 {
			continue
		}
		x, y := m.Coord[0]*w, m.Coord[1]*h
		c := memberColor(i, len(hud.Parallax))

		dc.DrawCircle(x, y, theme.Radius)
		dc.SetColor(c)
		dc.Fill()

		if hud.Active.Group == lfp.Parallax && hud.Active.ID == m.ID {
			dc.SetLineWidth(2)
			dc.DrawCircle(x, y, theme.Radius*2.5)
			dc.SetColor(theme.Active)
			dc.Stroke()
		}
	}
}

// Refocus depths go along the bottom edge, scaled to the stack's range.
func drawRefocus(dc *gg.Context, hud HUD, theme Theme, w, h float64) {
	if len(hud.Refocus) == 0 {
		return
	}

	lo, hi := math.Inf(1), math.Inf(-1)
	for _, m := range hud.Refocus {
		if len(m.Coord) != 1 {
			continue
		}
		lo, hi = math.Min(lo, m.Coord[0]), math.Max(hi, m.Coord[0])
	}
	if math.IsInf(lo, 0) {
		return
	}

	y := h - theme.Margin
	x0, x1 := theme.Margin, w-theme.Margin
	dc.SetLineWidth(1)
	dc.SetColor(theme.Text.BlendLab(theme.Shadow, 0.5))
	dc.DrawLine(x0, y, x1, y)
	dc.Stroke()

	for i, m := range hud.Refocus {
		if len(m.Coord) != 1 {
			continue
		}
		f := 0.5
		if hi > lo {
			f = (m.Coord[0] - lo) / (hi - lo)
		}
		x := x0 + f*(x1-x0)

		tick, c := theme.Radius, memberColor(i, len(hud.Refocus))
		if hud.Active.Group == lfp.Refocus && hud.Active.ID == m.ID {
			tick, c = theme.Radius*2.5, theme.Active
		}
		dc.SetLineWidth(2)
		dc.SetColor(c)
		dc.DrawLine(x, y-tick, x, y+tick)
		dc.Stroke()
	}
}
