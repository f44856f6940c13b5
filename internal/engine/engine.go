package engine

import (
	"encoding/json"

	"github.com/quillboard/quillboard/backend-go/internal/document"
	"github.com/quillboard/quillboard/backend-go/internal/geom"
	"github.com/quillboard/quillboard/backend-go/internal/history"
	"github.com/quillboard/quillboard/backend-go/internal/richtext"
	"github.com/quillboard/quillboard/backend-go/internal/spatial"
	"github.com/quillboard/quillboard/backend-go/internal/typeid"
	"github.com/quillboard/quillboard/backend-go/internal/view"
)

// Tool is one of the four mutually exclusive interaction modes.
type Tool string

const (
	ToolDraw   Tool = "draw"
	ToolErase  Tool = "erase"
	ToolSelect Tool = "select"
	ToolText   Tool = "text"
)

// initialRegion seeds the spatial index; the index grows past it on demand.
var initialRegion = geom.Bounds{MinX: -4096, MinY: -4096, MaxX: 4096, MaxY: 4096}

// Engine owns the whiteboard document and all interaction state. The
// stroke/text sequences are the source of truth; the spatial index is a
// cache maintained by every mutation and rebuilt after undo/redo. Nothing
// outside the engine mutates the document.
type Engine struct {
	// Document state
	docID   string
	docName string
	strokes []document.Stroke
	texts   []document.TextElement

	index *spatial.Index
	hist  *history.Stack
	view  *view.Controller

	measure geom.LineMeasurer

	// Tool state
	tool       Tool
	brushSize  float64
	brushColor string
	eraserSize float64
	fontSize   float64
	fontFamily string
	fontColor  string

	// Interaction state: one gesture at a time.
	gesture gesture

	selection Selection
	editor    *textEditor
	clipboard []richtext.Run

	// Redraw coalescing
	dirty bool
}

// NewEngine creates an engine with an empty document.
func NewEngine() *Engine {
	return &Engine{
		index:      spatial.New(initialRegion, spatial.DefaultCapacity),
		hist:       history.NewStack(history.DefaultCapacity),
		view:       view.NewController(),
		measure:    geom.DefaultMeasurer,
		tool:       ToolDraw,
		brushSize:  3,
		brushColor: "#1d1d1f",
		eraserSize: 20,
		fontSize:   16,
		fontFamily: "sans-serif",
		fontColor:  "#1d1d1f",
		dirty:      true,
	}
}

// --- Commands (frontend → engine) ---

// LoadDocument replaces the engine state with a persisted document.
// Malformed documents are defaulted, not rejected.
func (e *Engine) LoadDocument(jsonData string) error {
	var doc document.Document
	if err := json.Unmarshal([]byte(jsonData), &doc); err != nil {
		return err
	}
	e.Load(&doc)
	return nil
}

// Load populates the engine from a document record.
func (e *Engine) Load(doc *document.Document) {
	doc.Normalize()

	e.docID = doc.ID
	e.docName = doc.Name
	e.strokes = document.CloneStrokes(doc.Strokes)
	e.texts = document.CloneTexts(doc.Texts)
	for i := range e.strokes {
		if e.strokes[i].ID == "" {
			e.strokes[i].ID = typeid.NewStrokeID()
		}
	}
	for i := range e.texts {
		if e.texts[i].ID == "" {
			e.texts[i].ID = typeid.NewTextID()
		}
	}

	e.view.SetTransform(doc.Transform)
	e.hist.Reset()
	e.selection = Selection{}
	e.editor = nil
	e.gesture = gesture{}
	e.rebuildIndex()
	e.dirty = true
}

// Snapshot returns the persistable document content: strokes, texts, and
// the current view transform.
func (e *Engine) Snapshot() *document.Document {
	return &document.Document{
		ID:        e.docID,
		Name:      e.docName,
		Strokes:   document.CloneStrokes(e.strokes),
		Texts:     document.CloneTexts(e.texts),
		Transform: e.view.Transform(),
	}
}

// SnapshotJSON returns Snapshot serialized for the host.
func (e *Engine) SnapshotJSON() string {
	data, _ := json.Marshal(e.Snapshot())
	return string(data)
}

// SetTool switches the active tool, aborting any gesture in flight.
func (e *Engine) SetTool(tool Tool) {
	switch tool {
	case ToolDraw, ToolErase, ToolSelect, ToolText:
	default:
		return
	}
	if e.tool == tool {
		return
	}
	e.abortGesture()
	e.tool = tool
	e.dirty = true
}

// ActiveTool returns the current tool.
func (e *Engine) ActiveTool() Tool { return e.tool }

// SetBrush sets the draw tool's stroke width and color.
func (e *Engine) SetBrush(size float64, color string) {
	if size > 0 {
		e.brushSize = size
	}
	if color != "" {
		e.brushColor = color
	}
}

// SetEraserSize sets the eraser diameter in document units.
func (e *Engine) SetEraserSize(size float64) {
	if size > 0 {
		e.eraserSize = size
	}
}

// SetFont sets the defaults applied to newly created text elements.
func (e *Engine) SetFont(size float64, family, color string) {
	if size > 0 {
		e.fontSize = size
	}
	if family != "" {
		e.fontFamily = family
	}
	if color != "" {
		e.fontColor = color
	}
}

// SetMeasurer overrides the text measurement function, e.g. with real font
// metrics from the frontend.
func (e *Engine) SetMeasurer(m geom.LineMeasurer) {
	if m != nil {
		e.measure = m
		e.refreshTextBounds()
		e.dirty = true
	}
}

// Undo restores the previous snapshot. Returns false with no visible
// change when the undo stack is empty.
func (e *Engine) Undo() bool {
	entry := e.hist.Undo(e.strokes, e.texts)
	if entry == nil {
		return false
	}
	e.restore(entry)
	return true
}

// Redo restores the next snapshot. Returns false when there is nothing to
// redo.
func (e *Engine) Redo() bool {
	entry := e.hist.Redo(e.strokes, e.texts)
	if entry == nil {
		return false
	}
	e.restore(entry)
	return true
}

func (e *Engine) restore(entry *history.Entry) {
	e.abortGesture()
	e.editor = nil
	e.strokes = entry.Strokes
	e.texts = entry.Texts
	e.selection = Selection{}
	// Transform history is not tracked incrementally, so a full rebuild is
	// the cheapest correct recovery.
	e.rebuildIndex()
	e.dirty = true
}

// Clear wipes the whiteboard, saving the current content for undo first.
func (e *Engine) Clear() {
	if len(e.strokes) == 0 && len(e.texts) == 0 {
		return
	}
	e.hist.Save(e.strokes, e.texts)
	e.strokes = e.strokes[:0]
	e.texts = e.texts[:0]
	e.selection = Selection{}
	e.editor = nil
	e.index.Clear()
	e.dirty = true
}

// Wheel handles wheel input at a screen point. A modified wheel (ctrl/cmd)
// zooms anchored at the pointer; an unmodified wheel pans inertially.
func (e *Engine) Wheel(x, y, deltaX, deltaY float64, zoomModifier bool) {
	if zoomModifier {
		e.view.ZoomAt(geom.Point{X: x, Y: y}, deltaY, 0.002)
	} else {
		e.view.PanBy(geom.Point{X: -deltaX, Y: -deltaY})
	}
	e.dirty = true
}

// ViewTransform returns the current view transform.
func (e *Engine) ViewTransform() geom.Transform { return e.view.Transform() }

// SetViewTransform lets the host drive the view directly (hand drag).
func (e *Engine) SetViewTransform(t geom.Transform) {
	e.view.SetTransform(t)
	e.dirty = true
}

// --- Arena mutation helpers ---

// addStroke appends a stroke and indexes it.
func (e *Engine) addStroke(s document.Stroke) {
	e.strokes = append(e.strokes, s)
	e.index.Insert(s.ID, e.strokeBounds(s))
}

// addText appends a text element and indexes it.
func (e *Engine) addText(t document.TextElement) {
	e.texts = append(e.texts, t)
	e.index.Insert(t.ID, t.Bounds(e.measure))
}

// removeStrokesAt deletes strokes by index (any order, duplicates allowed)
// and remaps the surviving selection.
func (e *Engine) removeStrokesAt(indices []int) {
	if len(indices) == 0 {
		return
	}
	removed := make(map[int]bool, len(indices))
	for _, i := range indices {
		if i >= 0 && i < len(e.strokes) {
			removed[i] = true
		}
	}
	if len(removed) == 0 {
		return
	}

	kept := e.strokes[:0]
	for i, s := range e.strokes {
		if removed[i] {
			e.index.Remove(s.ID)
			continue
		}
		kept = append(kept, s)
	}
	e.strokes = kept

	e.selection.remapAfterStrokeRemoval(removed)
	e.recomputeSelectionBounds()
	e.dirty = true
}

// removeTextByID deletes one text element; removal is identity-based so no
// index remapping is needed.
func (e *Engine) removeTextByID(id string) {
	for i, t := range e.texts {
		if t.ID == id {
			e.index.Remove(id)
			e.texts = append(e.texts[:i], e.texts[i+1:]...)
			delete(e.selection.TextIDs, id)
			e.recomputeSelectionBounds()
			e.dirty = true
			return
		}
	}
}

func (e *Engine) strokeBounds(s document.Stroke) geom.Bounds {
	return geom.PointsBounds(s.Points).Pad(s.Size / 2)
}

func (e *Engine) textByID(id string) *document.TextElement {
	for i := range e.texts {
		if e.texts[i].ID == id {
			return &e.texts[i]
		}
	}
	return nil
}

func (e *Engine) strokeIndexByID(id string) int {
	for i := range e.strokes {
		if e.strokes[i].ID == id {
			return i
		}
	}
	return -1
}

// rebuildIndex reconstructs the spatial index from the authoritative
// sequences.
func (e *Engine) rebuildIndex() {
	e.index.Clear()
	for _, s := range e.strokes {
		e.index.Insert(s.ID, e.strokeBounds(s))
	}
	for _, t := range e.texts {
		e.index.Insert(t.ID, t.Bounds(e.measure))
	}
}

// refreshTextBounds re-indexes all texts, e.g. after the measurer changed.
func (e *Engine) refreshTextBounds() {
	for _, t := range e.texts {
		e.index.Insert(t.ID, t.Bounds(e.measure))
	}
	e.recomputeSelectionBounds()
}

// Strokes exposes the stroke sequence read-only (for rendering and tests).
func (e *Engine) Strokes() []document.Stroke { return e.strokes }

// Texts exposes the text sequence read-only.
func (e *Engine) Texts() []document.TextElement { return e.texts }

// CanUndo reports whether undo is available.
func (e *Engine) CanUndo() bool { return e.hist.CanUndo() }

// CanRedo reports whether redo is available.
func (e *Engine) CanRedo() bool { return e.hist.CanRedo() }
