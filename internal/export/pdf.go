package export

import (
	"fmt"
	"io"
	"math"

	"github.com/jung-kurt/gofpdf"

	"LocalBoard/internal/stroke"
)

const (
	pageWidth  = 210.0 // A4, mm
	pageHeight = 297.0
	margin     = 10.0
)

// PDF draws strokes as vector paths on an A4 page. The board area
// (width x height surface units) is scaled to fit inside the margins.
func PDF(w io.Writer, strokes []stroke.Stroke, width, height float64) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("invalid board size %gx%g", width, height)
	}
	orientation := "P"
	pw, ph := pageWidth, pageHeight
	if width > height {
		orientation = "L"
		pw, ph = pageHeight, pageWidth
	}
	scale := math.Min((pw-2*margin)/width, (ph-2*margin)/height)

	p := gofpdf.New(orientation, "mm", "A4", "")
	p.SetTitle("LocalBoard drawing", true)
	p.AddPage()
	p.SetLineCapStyle("round")
	p.SetLineJoinStyle("round")

	pt := func(q stroke.Point) (float64, float64) {
		return margin + q.X*scale, margin + q.Y*scale
	}
	for _, s := range strokes {
		if !s.Valid() {
			continue
		}
		r, g, b, _ := stroke.ParseColor(s.Color).RGBA()
		ri, gi, bi := int(r>>8), int(g>>8), int(b>>8)
		if len(s.Points) == 1 {
			x, y := pt(s.Points[0])
			p.SetFillColor(ri, gi, bi)
			p.Circle(x, y, s.Width*scale/2, "F")
			continue
		}
		p.SetDrawColor(ri, gi, bi)
		p.SetLineWidth(s.Width * scale)
		x, y := pt(s.Points[0])
		p.MoveTo(x, y)
		for _, q := range s.Points[1:] {
			x, y = pt(q)
			p.LineTo(x, y)
		}
		p.DrawPath("D")
	}

	if err := p.Output(w); err != nil {
		return fmt.Errorf("failed to write pdf: %w", err)
	}
	return nil
}
