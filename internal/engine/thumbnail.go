package engine

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"math"
	"strconv"
	"strings"

	"github.com/nfnt/resize"

	"github.com/quillboard/quillboard/backend-go/internal/geom"
)

// thumbnailRenderScale rasterizes at this many pixels per document unit
// before downscaling, capped by maxRasterDim.
const (
	thumbnailRenderScale = 1.0
	maxRasterDim         = 1024
)

// RenderThumbnail rasterizes the whole board, downscales it to fit within
// maxW x maxH, and returns a base64 PNG. An empty board yields "".
func (e *Engine) RenderThumbnail(maxW, maxH int) string {
	bounds, ok := e.ContentBounds()
	if !ok || maxW <= 0 || maxH <= 0 {
		return ""
	}
	bounds = bounds.Pad(8)

	scale := thumbnailRenderScale
	if bounds.Width()*scale > maxRasterDim {
		scale = maxRasterDim / bounds.Width()
	}
	if bounds.Height()*scale > maxRasterDim {
		scale = maxRasterDim / bounds.Height()
	}

	w := int(math.Ceil(bounds.Width() * scale))
	h := int(math.Ceil(bounds.Height() * scale))
	if w <= 0 || h <= 0 {
		return ""
	}

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)

	toPixel := func(p geom.Point) geom.Point {
		return geom.Point{X: (p.X - bounds.MinX) * scale, Y: (p.Y - bounds.MinY) * scale}
	}

	for _, s := range e.strokes {
		c := parseHexColor(s.Color)
		r := max(s.Size*scale/2, 0.75)
		if len(s.Points) == 1 {
			stampDisc(img, toPixel(s.Points[0]), r, c)
			continue
		}
		for i := 0; i+1 < len(s.Points); i++ {
			stampSegment(img, toPixel(s.Points[i]), toPixel(s.Points[i+1]), r, c)
		}
	}

	for _, t := range e.texts {
		c := parseHexColor(t.Color)
		drawTextBlock(img, t.Text, toPixel(geom.Point{X: t.X, Y: t.Y}), t.FontSize*scale, c)
	}

	thumb := resize.Thumbnail(uint(maxW), uint(maxH), img, resize.Lanczos3)

	var buf bytes.Buffer
	if err := png.Encode(&buf, thumb); err != nil {
		return ""
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes())
}

// stampSegment draws a thick line by stamping discs along it.
func stampSegment(img *image.RGBA, a, b geom.Point, r float64, c color.RGBA) {
	dist := a.Dist(b)
	step := max(r/2, 0.5)
	steps := int(math.Ceil(dist/step)) + 1
	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(steps)
		stampDisc(img, geom.Point{X: a.X + (b.X-a.X)*t, Y: a.Y + (b.Y-a.Y)*t}, r, c)
	}
}

func stampDisc(img *image.RGBA, p geom.Point, r float64, c color.RGBA) {
	x0, x1 := int(p.X-r), int(p.X+r)+1
	y0, y1 := int(p.Y-r), int(p.Y+r)+1
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			dx := float64(x) + 0.5 - p.X
			dy := float64(y) + 0.5 - p.Y
			if dx*dx+dy*dy <= r*r {
				img.SetRGBA(x, y, c)
			}
		}
	}
}

// drawTextBlock paints a placeholder bar per line of text. The thumbnail
// is a postage stamp; legible glyphs are not worth a font stack here.
func drawTextBlock(img *image.RGBA, text string, anchor geom.Point, fontSize float64, c color.RGBA) {
	if fontSize <= 0 {
		return
	}
	lines := strings.Split(text, "\n")
	lineHeight := fontSize * 1.2
	faded := color.RGBA{R: c.R, G: c.G, B: c.B, A: 160}

	for li, line := range lines {
		runeCount := len([]rune(line))
		if runeCount == 0 {
			continue
		}
		w := float64(runeCount) * fontSize * 0.6
		top := anchor.Y + float64(li)*lineHeight + fontSize*0.2
		fillRect(img,
			int(anchor.X), int(top),
			int(anchor.X+w), int(top+fontSize*0.7),
			faded)
	}
}

func fillRect(img *image.RGBA, x0, y0, x1, y1 int, c color.RGBA) {
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			img.SetRGBA(x, y, c)
		}
	}
}

// parseHexColor parses #rgb and #rrggbb; anything else renders black.
func parseHexColor(s string) color.RGBA {
	s = strings.TrimPrefix(s, "#")
	var r, g, b uint64
	switch len(s) {
	case 3:
		r, _ = strconv.ParseUint(strings.Repeat(s[0:1], 2), 16, 8)
		g, _ = strconv.ParseUint(strings.Repeat(s[1:2], 2), 16, 8)
		b, _ = strconv.ParseUint(strings.Repeat(s[2:3], 2), 16, 8)
	case 6:
		r, _ = strconv.ParseUint(s[0:2], 16, 8)
		g, _ = strconv.ParseUint(s[2:4], 16, 8)
		b, _ = strconv.ParseUint(s[4:6], 16, 8)
	}
	return color.RGBA{R: uint8(r), G: uint8(g), B: uint8(b), A: 255}
}
