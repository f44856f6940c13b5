package engine

import (
	"math"

	"github.com/quillboard/quillboard/backend-go/internal/document"
	"github.com/quillboard/quillboard/backend-go/internal/geom"
	"github.com/quillboard/quillboard/backend-go/internal/richtext"
	"github.com/quillboard/quillboard/backend-go/internal/typeid"
)

// pickRadius is the hit-test slop around the pointer, in screen pixels.
const pickRadius = 5.0

// gestureKind tags the single interaction in flight. One enum instead of a
// pile of boolean flags makes the mutual exclusion structural.
type gestureKind int

const (
	gestureNone gestureKind = iota
	gestureDraw
	gestureErase
	gestureBoxSelect
	gestureMove
	gestureResize
	gestureTextResize
)

type gesture struct {
	kind gestureKind

	// draw
	strokeIdx int

	// erase
	lastSample geom.Point
	erasedAny  bool

	// box select
	anchor geom.Point
	box    geom.Bounds
	multi  bool

	// move
	last  geom.Point
	moved bool

	// resize
	handle      geom.Handle
	fixed       geom.Point
	origBounds  geom.Bounds
	origStrokes map[int]document.Stroke
	origTexts   map[string]document.TextElement

	// text font-size handle
	textID       string
	center       geom.Point
	origDist     float64
	origFontSize float64
}

// PointerDown dispatches a pointer press at screen coordinates to the
// active tool. multi is the ctrl/cmd modifier.
func (e *Engine) PointerDown(x, y float64, multi bool) {
	p := e.view.Transform().ScreenToWorld(geom.Point{X: x, Y: y})

	switch e.tool {
	case ToolDraw:
		e.beginStroke(p)
	case ToolErase:
		e.gesture = gesture{kind: gestureErase, lastSample: p}
		e.eraseAt(p)
	case ToolSelect:
		e.selectDown(p, multi)
	case ToolText:
		e.placeText(p)
	}
}

// PointerMove dispatches pointer motion to the gesture in flight.
func (e *Engine) PointerMove(x, y float64) {
	p := e.view.Transform().ScreenToWorld(geom.Point{X: x, Y: y})

	switch e.gesture.kind {
	case gestureDraw:
		e.extendStroke(p)
	case gestureErase:
		e.eraseAlong(p)
	case gestureBoxSelect:
		e.gesture.box = geom.NewBounds(e.gesture.anchor, p)
		e.dirty = true
	case gestureMove:
		e.moveStep(p)
	case gestureResize:
		e.resizeStep(p)
	case gestureTextResize:
		e.textResizeStep(p)
	}
}

// PointerUp ends the gesture in flight.
func (e *Engine) PointerUp(x, y float64) {
	p := e.view.Transform().ScreenToWorld(geom.Point{X: x, Y: y})

	switch e.gesture.kind {
	case gestureDraw:
		e.finishStroke()
	case gestureBoxSelect:
		e.gesture.box = geom.NewBounds(e.gesture.anchor, p)
		e.selectWithinBox(e.gesture.box)
	case gestureMove, gestureResize:
		e.reindexSelection()
		e.recomputeSelectionBounds()
	case gestureTextResize:
		if t := e.textByID(e.gesture.textID); t != nil {
			e.index.Insert(t.ID, t.Bounds(e.measure))
		}
	}
	e.gesture = gesture{}
	e.dirty = true
}

// abortGesture ends the current gesture without waiting for a pointer-up;
// switching tools or loading a document implicitly cancels the interaction.
func (e *Engine) abortGesture() {
	switch e.gesture.kind {
	case gestureDraw:
		e.finishStroke()
	case gestureMove, gestureResize:
		e.reindexSelection()
		e.recomputeSelectionBounds()
	case gestureTextResize:
		if t := e.textByID(e.gesture.textID); t != nil {
			e.index.Insert(t.ID, t.Bounds(e.measure))
		}
	}
	e.gesture = gesture{}
}

// --- Draw tool ---

func (e *Engine) beginStroke(p geom.Point) {
	e.hist.Save(e.strokes, e.texts)

	s := document.Stroke{
		ID:     typeid.NewStrokeID(),
		Points: []geom.Point{p},
		Size:   e.brushSize,
		Color:  e.brushColor,
		Tool:   document.ToolDraw,
	}
	e.strokes = append(e.strokes, s)
	e.gesture = gesture{kind: gestureDraw, strokeIdx: len(e.strokes) - 1}
	e.dirty = true
}

func (e *Engine) extendStroke(p geom.Point) {
	idx := e.gesture.strokeIdx
	if idx < 0 || idx >= len(e.strokes) {
		return
	}
	e.strokes[idx].Points = append(e.strokes[idx].Points, p)
	e.dirty = true
}

// finishStroke commits the in-progress stroke to the spatial index. A
// stroke that never moved stays a single-point dot.
func (e *Engine) finishStroke() {
	idx := e.gesture.strokeIdx
	if idx < 0 || idx >= len(e.strokes) {
		return
	}
	s := e.strokes[idx]
	e.index.Insert(s.ID, e.strokeBounds(s))
}

// --- Erase tool ---

// eraseAlong samples the pointer path at half the eraser diameter so a
// fast-moving pointer cannot skip over strokes between events.
func (e *Engine) eraseAlong(p geom.Point) {
	from := e.gesture.lastSample
	dist := from.Dist(p)
	step := e.eraserSize / 2
	if step <= 0 {
		step = 1
	}

	steps := int(math.Ceil(dist / step))
	for i := 1; i <= steps; i++ {
		t := float64(i) / float64(steps)
		e.eraseAt(geom.Point{
			X: from.X + (p.X-from.X)*t,
			Y: from.Y + (p.Y-from.Y)*t,
		})
	}
	e.gesture.lastSample = p
}

// eraseAt deletes every stroke the eraser circle touches. The history push
// is deferred until something is actually deleted, so a pure miss leaves
// the undo stack untouched.
func (e *Engine) eraseAt(p geom.Point) {
	radius := e.eraserSize / 2
	probe := geom.Bounds{MinX: p.X, MinY: p.Y, MaxX: p.X, MaxY: p.Y}.Pad(radius)

	candidates := make(map[string]bool)
	for _, id := range e.index.Retrieve(probe) {
		candidates[id] = true
	}
	if len(candidates) == 0 {
		return
	}

	var doomed []int
	for i, s := range e.strokes {
		if candidates[s.ID] && geom.StrokeHit(s.Points, s.Size, p, radius) {
			doomed = append(doomed, i)
		}
	}
	if len(doomed) == 0 {
		return
	}

	if !e.gesture.erasedAny {
		e.hist.Save(e.strokes, e.texts)
		e.gesture.erasedAny = true
	}
	e.removeStrokesAt(doomed)
}

// --- Select tool ---

func (e *Engine) selectDown(p geom.Point, multi bool) {
	scale := e.view.Transform().Scale

	// During text editing the corner handle adjusts font size; anywhere
	// else a press blurs the editor first.
	if e.editor != nil {
		if t := e.textByID(e.editor.textID); t != nil {
			b := t.Bounds(e.measure)
			if geom.HandleAt(b, p, scale) != geom.HandleNone {
				e.hist.Save(e.strokes, e.texts)
				e.index.Remove(t.ID)
				center := b.Center()
				e.gesture = gesture{
					kind:         gestureTextResize,
					textID:       t.ID,
					center:       center,
					origDist:     max(p.Dist(center), 1e-6),
					origFontSize: t.FontSize,
				}
				return
			}
		}
		e.CloseEditor()
	}

	// Corner handle of the selection box starts a resize.
	if e.selection.hasBounds {
		if h := geom.HandleAt(e.selection.Bounds, p, scale); h != geom.HandleNone {
			e.beginResize(h)
			return
		}
	}

	h := e.hitAt(p, pickRadius/scale)

	if multi && h.ok() {
		// Toggle membership without clearing the rest.
		if h.textID != "" {
			e.selection.toggleText(h.textID)
		} else {
			e.selection.toggleStroke(h.strokeIdx)
		}
		e.recomputeSelectionBounds()
		e.dirty = true
		return
	}

	insideSelection := e.selection.hasBounds && e.selection.Bounds.Contains(p)

	if h.ok() || insideSelection {
		if h.ok() && !insideSelection && !e.isSelected(h) {
			e.selection = Selection{}
			e.selection.ensure()
			if h.textID != "" {
				e.selection.TextIDs[h.textID] = true
			} else {
				e.selection.StrokeIndices[h.strokeIdx] = true
			}
			e.recomputeSelectionBounds()
		}
		e.unindexSelection()
		e.gesture = gesture{kind: gestureMove, last: p}
		e.dirty = true
		return
	}

	// Empty canvas: start a box select.
	if !multi {
		e.selection = Selection{}
	}
	e.gesture = gesture{kind: gestureBoxSelect, anchor: p, box: geom.NewBounds(p, p), multi: multi}
	e.dirty = true
}

func (e *Engine) isSelected(h hit) bool {
	if h.textID != "" {
		return e.selection.TextIDs[h.textID]
	}
	return e.selection.StrokeIndices[h.strokeIdx]
}

func (e *Engine) moveStep(p geom.Point) {
	delta := p.Sub(e.gesture.last)
	if delta.X == 0 && delta.Y == 0 {
		return
	}
	if !e.gesture.moved {
		// Defer the history push to the first real movement so a plain
		// click never pollutes the undo stack.
		e.hist.Save(e.strokes, e.texts)
		e.gesture.moved = true
	}
	e.moveSelectionBy(delta)
	e.gesture.last = p
}

func (e *Engine) beginResize(h geom.Handle) {
	e.hist.Save(e.strokes, e.texts)

	g := gesture{
		kind:        gestureResize,
		handle:      h,
		fixed:       e.selection.Bounds.Corner(h.Opposite()),
		origBounds:  e.selection.Bounds,
		origStrokes: make(map[int]document.Stroke),
		origTexts:   make(map[string]document.TextElement),
	}
	for idx := range e.selection.StrokeIndices {
		if idx >= 0 && idx < len(e.strokes) {
			g.origStrokes[idx] = document.CloneStrokes(e.strokes[idx : idx+1])[0]
		}
	}
	for id := range e.selection.TextIDs {
		if t := e.textByID(id); t != nil {
			g.origTexts[id] = document.CloneTexts([]document.TextElement{*t})[0]
		}
	}

	e.unindexSelection()
	e.gesture = g
	e.dirty = true
}

// resizeStep rescales the original geometry anchored at the fixed opposite
// corner. Widths and font sizes take the uniform scale; positions scale
// per axis — unless text is selected, which forces the axes equal so text
// never stretches.
func (e *Engine) resizeStep(p geom.Point) {
	g := &e.gesture
	origCorner := g.origBounds.Corner(g.handle)

	sx := scaleRatio(p.X, g.fixed.X, origCorner.X)
	sy := scaleRatio(p.Y, g.fixed.Y, origCorner.Y)
	uniform := (math.Abs(sx) + math.Abs(sy)) / 2

	if len(g.origTexts) > 0 {
		sx = math.Copysign(uniform, sx)
		sy = math.Copysign(uniform, sy)
	}

	for idx, orig := range g.origStrokes {
		if idx < 0 || idx >= len(e.strokes) {
			continue
		}
		s := &e.strokes[idx]
		s.Size = orig.Size * uniform
		for i, pt := range orig.Points {
			s.Points[i] = geom.Point{
				X: g.fixed.X + (pt.X-g.fixed.X)*sx,
				Y: g.fixed.Y + (pt.Y-g.fixed.Y)*sy,
			}
		}
	}
	for id, orig := range g.origTexts {
		if t := e.textByID(id); t != nil {
			t.X = g.fixed.X + (orig.X-g.fixed.X)*sx
			t.Y = g.fixed.Y + (orig.Y-g.fixed.Y)*sy
			t.FontSize = max(1, orig.FontSize*uniform)
		}
	}

	e.recomputeSelectionBounds()
	e.dirty = true
}

func scaleRatio(cur, fixed, orig float64) float64 {
	span := orig - fixed
	if span == 0 {
		return 1
	}
	return (cur - fixed) / span
}

func (e *Engine) textResizeStep(p geom.Point) {
	t := e.textByID(e.gesture.textID)
	if t == nil {
		return
	}
	ratio := p.Dist(e.gesture.center) / e.gesture.origDist
	t.FontSize = max(4, e.gesture.origFontSize*ratio)
	e.dirty = true
}

// --- Text tool ---

// placeText creates a text element near the pointer, opens it for editing,
// and hands the active tool back to select. The open editor outlives the
// tool switch.
func (e *Engine) placeText(p geom.Point) {
	e.hist.Save(e.strokes, e.texts)

	t := document.TextElement{
		ID:         typeid.NewTextID(),
		X:          p.X,
		Y:          p.Y - e.fontSize/2,
		FontSize:   e.fontSize,
		FontFamily: e.fontFamily,
		Color:      e.fontColor,
		Runs:       []richtext.Run{{}},
	}
	t.SyncText()
	e.addText(t)

	e.selection = Selection{}
	e.selection.ensure()
	e.selection.TextIDs[t.ID] = true
	e.recomputeSelectionBounds()

	e.openEditor(t.ID)
	e.tool = ToolSelect
	e.dirty = true
}
