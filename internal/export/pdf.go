package export

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"github.com/quillboard/quillboard/backend-go/internal/document"
	"github.com/quillboard/quillboard/backend-go/internal/geom"
)

const (
	pageWidthMM  = 297.0 // A4 landscape
	pageHeightMM = 210.0
	pageMarginMM = 10.0
)

// WritePDF renders the document onto a single landscape A4 page,
// scaled so all content fits inside the margins.
func WritePDF(w io.Writer, doc *document.Document) error {
	p := gofpdf.New("L", "mm", "A4", "")
	p.AddPage()

	bounds, ok := contentBounds(doc)
	if !ok {
		// Empty board exports as a blank page
		return p.Output(w)
	}
	bounds = bounds.Pad(8)

	availW := pageWidthMM - 2*pageMarginMM
	availH := pageHeightMM - 2*pageMarginMM
	scale := availW / bounds.Width()
	if s := availH / bounds.Height(); s < scale {
		scale = s
	}

	toPage := func(pt geom.Point) (float64, float64) {
		return pageMarginMM + (pt.X-bounds.MinX)*scale, pageMarginMM + (pt.Y-bounds.MinY)*scale
	}

	for _, s := range doc.Strokes {
		r, g, b := parseHexColor(s.Color)
		p.SetDrawColor(r, g, b)
		p.SetLineWidth(s.Size * scale)
		p.SetLineCapStyle("round")

		if len(s.Points) == 1 {
			x, y := toPage(s.Points[0])
			p.SetFillColor(r, g, b)
			p.Circle(x, y, s.Size*scale/2, "F")
			continue
		}
		for i := 1; i < len(s.Points); i++ {
			x1, y1 := toPage(s.Points[i-1])
			x2, y2 := toPage(s.Points[i])
			p.Line(x1, y1, x2, y2)
		}
	}

	for _, t := range doc.Texts {
		drawText(p, t, toPage, scale)
	}

	return p.Output(w)
}

func drawText(p *gofpdf.Fpdf, t document.TextElement, toPage func(geom.Point) (float64, float64), scale float64) {
	r, g, b := parseHexColor(t.Color)
	p.SetTextColor(r, g, b)

	// World units map to page mm through scale; gofpdf wants points.
	fontPt := t.FontSize * scale * 72 / 25.4
	lineHeight := t.FontSize * 1.2 * scale
	pad := geom.TextPadding(t.FontSize) * scale

	x0, y0 := toPage(geom.Point{X: t.X, Y: t.Y})
	x := x0 + pad
	y := y0 + pad + t.FontSize*scale // baseline of the first line

	for _, run := range t.Runs {
		style := ""
		if run.Bold {
			style += "B"
		}
		if run.Italic {
			style += "I"
		}
		p.SetFont("Helvetica", style, fontPt)

		lines := strings.Split(run.Text, "\n")
		for i, line := range lines {
			if i > 0 {
				x = x0 + pad
				y += lineHeight
			}
			if line == "" {
				continue
			}
			p.Text(x, y, line)
			w := p.GetStringWidth(line)
			if run.Strikethrough {
				strikeY := y - t.FontSize*scale*0.3
				p.SetDrawColor(r, g, b)
				p.SetLineWidth(t.FontSize * scale * 0.06)
				p.Line(x, strikeY, x+w, strikeY)
			}
			x += w
		}
	}
}

func contentBounds(doc *document.Document) (geom.Bounds, bool) {
	var bounds geom.Bounds
	found := false
	add := func(b geom.Bounds) {
		if !found {
			bounds = b
			found = true
			return
		}
		bounds = bounds.Union(b)
	}

	for _, s := range doc.Strokes {
		if len(s.Points) == 0 {
			continue
		}
		add(geom.PointsBounds(s.Points).Pad(s.Size / 2))
	}
	for _, t := range doc.Texts {
		add(t.Bounds(geom.DefaultMeasurer))
	}
	return bounds, found
}

func parseHexColor(s string) (int, int, int) {
	s = strings.TrimPrefix(s, "#")
	if len(s) == 3 {
		s = fmt.Sprintf("%c%c%c%c%c%c", s[0], s[0], s[1], s[1], s[2], s[2])
	}
	if len(s) != 6 {
		return 0, 0, 0
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return 0, 0, 0
	}
	return int(v >> 16 & 0xff), int(v >> 8 & 0xff), int(v & 0xff)
}
