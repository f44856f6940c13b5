package geom

import "strings"

// LineMeasurer returns the rendered width of a single line of text at the
// given font size. The engine's default approximates a monospace advance;
// a frontend with real font metrics can substitute its own.
type LineMeasurer func(line string, fontSize float64) float64

// DefaultMeasurer approximates each rune at 0.6em.
func DefaultMeasurer(line string, fontSize float64) float64 {
	return float64(len([]rune(line))) * fontSize * 0.6
}

// lineHeightFactor is the line advance relative to the font size.
const lineHeightFactor = 1.2

// TextPadding is the padding added on all sides of a text element's content
// box so the hit area and selection box clear the glyphs.
func TextPadding(fontSize float64) float64 {
	return max(4, fontSize*0.3)
}

// MeasureText returns the padded width and height of a text block.
// A trailing empty line produced by a terminal newline does not count
// toward the line count.
func MeasureText(text string, fontSize float64, measure LineMeasurer) (w, h float64) {
	if measure == nil {
		measure = DefaultMeasurer
	}

	lines := strings.Split(text, "\n")
	if len(lines) > 1 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}

	var widest float64
	for _, line := range lines {
		widest = max(widest, measure(line, fontSize))
	}

	pad := TextPadding(fontSize)
	lineHeight := fontSize * lineHeightFactor
	h = float64(len(lines)-1)*lineHeight + fontSize

	return widest + 2*pad, h + 2*pad
}

// TextBounds returns the bounding box of a text block anchored at (x, y),
// the anchor being the top-left corner of the padded box.
func TextBounds(x, y float64, text string, fontSize float64, measure LineMeasurer) Bounds {
	w, h := MeasureText(text, fontSize, measure)
	return Bounds{MinX: x, MinY: y, MaxX: x + w, MaxY: y + h}
}
