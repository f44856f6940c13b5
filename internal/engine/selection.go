package engine

import (
	"sort"

	"github.com/quillboard/quillboard/backend-go/internal/geom"
)

// Selection is the set of selected stroke indices and text ids plus the
// cached enclosing bounds. Stroke indices are positions in the stroke
// sequence and must be remapped when strokes are deleted.
type Selection struct {
	StrokeIndices map[int]bool
	TextIDs       map[string]bool
	Bounds        geom.Bounds
	hasBounds     bool
}

// IsEmpty reports whether nothing is selected.
func (s *Selection) IsEmpty() bool {
	return len(s.StrokeIndices) == 0 && len(s.TextIDs) == 0
}

func (s *Selection) ensure() {
	if s.StrokeIndices == nil {
		s.StrokeIndices = make(map[int]bool)
	}
	if s.TextIDs == nil {
		s.TextIDs = make(map[string]bool)
	}
}

func (s *Selection) toggleStroke(i int) {
	s.ensure()
	if s.StrokeIndices[i] {
		delete(s.StrokeIndices, i)
	} else {
		s.StrokeIndices[i] = true
	}
}

func (s *Selection) toggleText(id string) {
	s.ensure()
	if s.TextIDs[id] {
		delete(s.TextIDs, id)
	} else {
		s.TextIDs[id] = true
	}
}

// SortedStrokeIndices returns the selected stroke indices in order.
func (s *Selection) SortedStrokeIndices() []int {
	out := make([]int, 0, len(s.StrokeIndices))
	for i := range s.StrokeIndices {
		out = append(out, i)
	}
	sort.Ints(out)
	return out
}

// remapAfterStrokeRemoval rewrites the selected indices after the given
// indices were deleted from the stroke sequence: every surviving index
// shifts down by the number of removed indices below it, and indices that
// were themselves removed are dropped.
func (s *Selection) remapAfterStrokeRemoval(removed map[int]bool) {
	if len(s.StrokeIndices) == 0 || len(removed) == 0 {
		return
	}

	sorted := make([]int, 0, len(removed))
	for i := range removed {
		sorted = append(sorted, i)
	}
	sort.Ints(sorted)

	next := make(map[int]bool, len(s.StrokeIndices))
	for idx := range s.StrokeIndices {
		if removed[idx] {
			continue
		}
		shift := sort.SearchInts(sorted, idx) // removed indices below idx
		next[idx-shift] = true
	}
	s.StrokeIndices = next
}

// --- Engine-level selection operations ---

// SelectionBounds returns the cached bounds of the selection; ok is false
// when the selection is empty.
func (e *Engine) SelectionBounds() (geom.Bounds, bool) {
	return e.selection.Bounds, e.selection.hasBounds
}

// SelectedStrokeIndices returns the selected stroke indices in order.
func (e *Engine) SelectedStrokeIndices() []int {
	return e.selection.SortedStrokeIndices()
}

// SelectedTextIDs returns the selected text ids.
func (e *Engine) SelectedTextIDs() []string {
	out := make([]string, 0, len(e.selection.TextIDs))
	for id := range e.selection.TextIDs {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// ClearSelection empties the selection.
func (e *Engine) ClearSelection() {
	if e.selection.IsEmpty() {
		return
	}
	e.selection = Selection{}
	e.dirty = true
}

// recomputeSelectionBounds refreshes the cached box from the current
// membership and geometry.
func (e *Engine) recomputeSelectionBounds() {
	var bounds geom.Bounds
	first := true
	add := func(b geom.Bounds) {
		if first {
			bounds = b
			first = false
		} else {
			bounds = bounds.Union(b)
		}
	}

	for idx := range e.selection.StrokeIndices {
		if idx >= 0 && idx < len(e.strokes) {
			add(e.strokeBounds(e.strokes[idx]))
		}
	}
	for id := range e.selection.TextIDs {
		if t := e.textByID(id); t != nil {
			add(t.Bounds(e.measure))
		}
	}

	e.selection.Bounds = bounds
	e.selection.hasBounds = !first
}

// selectWithinBox adds every stroke and text whose bounding box overlaps
// the box to the selection. Pure box overlap, not path intersection.
func (e *Engine) selectWithinBox(box geom.Bounds) {
	e.selection.ensure()

	candidates := make(map[string]bool)
	for _, id := range e.index.Retrieve(box) {
		candidates[id] = true
	}

	for i, s := range e.strokes {
		if candidates[s.ID] && e.strokeBounds(s).Intersects(box) {
			e.selection.StrokeIndices[i] = true
		}
	}
	for _, t := range e.texts {
		if candidates[t.ID] && t.Bounds(e.measure).Intersects(box) {
			e.selection.TextIDs[t.ID] = true
		}
	}

	e.recomputeSelectionBounds()
	e.dirty = true
}

// hit is the result of a point hit test.
type hit struct {
	strokeIdx int    // -1 when no stroke hit
	textID    string // "" when no text hit
}

func (h hit) ok() bool { return h.strokeIdx >= 0 || h.textID != "" }

// hitAt finds the topmost item at a document-space point. Texts are probed
// before strokes since they render on top; within each class, later
// (newer) items win.
func (e *Engine) hitAt(p geom.Point, radius float64) hit {
	probe := geom.Bounds{MinX: p.X, MinY: p.Y, MaxX: p.X, MaxY: p.Y}.Pad(radius)

	candidates := make(map[string]bool)
	for _, id := range e.index.Retrieve(probe) {
		candidates[id] = true
	}

	for i := len(e.texts) - 1; i >= 0; i-- {
		t := e.texts[i]
		if candidates[t.ID] && t.Bounds(e.measure).Contains(p) {
			return hit{strokeIdx: -1, textID: t.ID}
		}
	}
	for i := len(e.strokes) - 1; i >= 0; i-- {
		s := e.strokes[i]
		if candidates[s.ID] && geom.StrokeHit(s.Points, s.Size, p, radius) {
			return hit{strokeIdx: i}
		}
	}
	return hit{strokeIdx: -1}
}

// DeleteSelection removes all selected items, saving history first.
func (e *Engine) DeleteSelection() {
	if e.selection.IsEmpty() {
		return
	}
	e.hist.Save(e.strokes, e.texts)

	for _, id := range e.SelectedTextIDs() {
		e.removeTextByID(id)
	}
	e.removeStrokesAt(e.selection.SortedStrokeIndices())

	e.selection = Selection{}
	e.dirty = true
}

// moveSelectionBy translates every selected item by a document-space
// delta. Items are out of the index during a move gesture; bounds are
// reindexed on gesture end.
func (e *Engine) moveSelectionBy(delta geom.Point) {
	for idx := range e.selection.StrokeIndices {
		if idx < 0 || idx >= len(e.strokes) {
			continue
		}
		pts := e.strokes[idx].Points
		for i := range pts {
			pts[i] = pts[i].Add(delta)
		}
	}
	for id := range e.selection.TextIDs {
		if t := e.textByID(id); t != nil {
			t.X += delta.X
			t.Y += delta.Y
		}
	}
	e.selection.Bounds = e.selection.Bounds.Translate(delta)
	e.dirty = true
}

// reindexSelection reinserts all selected items with fresh bounds.
func (e *Engine) reindexSelection() {
	for idx := range e.selection.StrokeIndices {
		if idx >= 0 && idx < len(e.strokes) {
			e.index.Insert(e.strokes[idx].ID, e.strokeBounds(e.strokes[idx]))
		}
	}
	for id := range e.selection.TextIDs {
		if t := e.textByID(id); t != nil {
			e.index.Insert(t.ID, t.Bounds(e.measure))
		}
	}
}

// unindexSelection removes all selected items from the index for the
// duration of a gesture, avoiding stale-bounds churn.
func (e *Engine) unindexSelection() {
	for idx := range e.selection.StrokeIndices {
		if idx >= 0 && idx < len(e.strokes) {
			e.index.Remove(e.strokes[idx].ID)
		}
	}
	for id := range e.selection.TextIDs {
		e.index.Remove(id)
	}
}
