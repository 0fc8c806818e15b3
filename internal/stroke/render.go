package stroke

import (
	"image/color"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/colornames"
)

// Pen is the subset of a 2D path API that strokes are rendered with.
// *gg.Context satisfies it.
type Pen interface {
	SetColor(c color.Color)
	SetLineWidth(width float64)
	SetLineCapRound()
	SetLineJoinRound()
	MoveTo(x, y float64)
	LineTo(x, y float64)
	Stroke()
	DrawCircle(x, y, r float64)
	Fill()
}

// Render draws s as a polyline with round joins and caps. A stroke with a
// single point is drawn as a dot.
func Render(s Stroke, pen Pen) {
	if !s.Valid() {
		return
	}
	pen.SetColor(ParseColor(s.Color))
	if len(s.Points) == 1 {
		pen.DrawCircle(s.Points[0].X, s.Points[0].Y, s.Width/2)
		pen.Fill()
		return
	}
	pen.SetLineWidth(s.Width)
	pen.SetLineCapRound()
	pen.SetLineJoinRound()
	pen.MoveTo(s.Points[0].X, s.Points[0].Y)
	for _, p := range s.Points[1:] {
		pen.LineTo(p.X, p.Y)
	}
	pen.Stroke()
}

// RenderTail draws only the newest segment of s.
func RenderTail(s Stroke, pen Pen) {
	n := len(s.Points)
	if n < 2 || s.Width <= 0 {
		Render(s, pen)
		return
	}
	Render(Stroke{Color: s.Color, Width: s.Width, Points: s.Points[n-2:]}, pen)
}

// ParseColor resolves a colour token: "#rgb", "#rrggbb" or a CSS colour name.
// Unknown tokens resolve to black.
func ParseColor(token string) color.Color {
	token = strings.ToLower(strings.TrimSpace(token))
	if c, ok := colornames.Map[token]; ok {
		return c
	}
	if strings.HasPrefix(token, "#") {
		if c, err := colorful.Hex(token); err == nil {
			r, g, b := c.RGB255()
			return color.RGBA{R: r, G: g, B: b, A: 0xff}
		}
	}
	return color.Black
}
