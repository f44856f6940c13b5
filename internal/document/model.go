package document

import (
	"time"

	"github.com/quillboard/quillboard/backend-go/internal/geom"
	"github.com/quillboard/quillboard/backend-go/internal/richtext"
)

// Tool tags record which tool produced a stroke.
const (
	ToolDraw  = "draw"
	ToolErase = "erase"
)

// Stroke is a freehand polyline. A single-point stroke renders as a dot.
// Once committed to a document the point list is never empty.
type Stroke struct {
	ID     string       `json:"id"`
	Points []geom.Point `json:"points"`
	Size   float64      `json:"size"`
	Color  string       `json:"color"`
	Tool   string       `json:"tool"`
}

// TextElement is a styled text block anchored at (X, Y). Text always equals
// the concatenation of the run texts; every run mutation re-establishes that.
type TextElement struct {
	ID         string         `json:"id"`
	X          float64        `json:"x"`
	Y          float64        `json:"y"`
	FontSize   float64        `json:"fontSize"`
	FontFamily string         `json:"fontFamily"`
	Color      string         `json:"color"`
	Runs       []richtext.Run `json:"runs"`
	Text       string         `json:"text"`
}

// SyncText re-derives the denormalized Text field from the runs.
func (t *TextElement) SyncText() {
	t.Text = richtext.FullText(t.Runs)
}

// Bounds returns the element's padded bounding box.
func (t *TextElement) Bounds(measure geom.LineMeasurer) geom.Bounds {
	return geom.TextBounds(t.X, t.Y, t.Text, t.FontSize, measure)
}

// Document is one whiteboard as stored by the document service.
type Document struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	Strokes   []Stroke       `json:"strokes"`
	Texts     []TextElement  `json:"texts"`
	Transform geom.Transform `json:"transform"`
	Thumbnail string         `json:"thumbnail,omitempty"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
}

// NewEmptyDocument creates a blank whiteboard.
func NewEmptyDocument(id, name string) *Document {
	now := time.Now().UTC()
	return &Document{
		ID:        id,
		Name:      name,
		Strokes:   []Stroke{},
		Texts:     []TextElement{},
		Transform: geom.IdentityTransform(),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Normalize repairs documents written by older or partial clients so they
// still open: missing slices become empty, a zero transform becomes the
// identity, and run lists are rebuilt from the flat text where they diverge.
func (d *Document) Normalize() {
	if d.Strokes == nil {
		d.Strokes = []Stroke{}
	}
	if d.Texts == nil {
		d.Texts = []TextElement{}
	}
	if !d.Transform.IsValid() {
		d.Transform = geom.IdentityTransform()
	}
	for i := range d.Texts {
		t := &d.Texts[i]
		if t.FontSize <= 0 {
			t.FontSize = 16
		}
		if len(t.Runs) == 0 || richtext.FullText(t.Runs) != t.Text {
			t.Runs = richtext.Normalize([]richtext.Run{{Text: t.Text}})
		}
	}
}

// CloneStrokes deep-copies a stroke sequence; used for history snapshots.
func CloneStrokes(strokes []Stroke) []Stroke {
	out := make([]Stroke, len(strokes))
	for i, s := range strokes {
		out[i] = s
		out[i].Points = make([]geom.Point, len(s.Points))
		copy(out[i].Points, s.Points)
	}
	return out
}

// CloneTexts deep-copies a text sequence; used for history snapshots.
func CloneTexts(texts []TextElement) []TextElement {
	out := make([]TextElement, len(texts))
	for i, t := range texts {
		out[i] = t
		out[i].Runs = make([]richtext.Run, len(t.Runs))
		copy(out[i].Runs, t.Runs)
	}
	return out
}
