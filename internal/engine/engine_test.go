package engine

import (
	"strings"
	"testing"

	"github.com/quillboard/quillboard/backend-go/internal/geom"
)

// drawLine runs a full draw gesture through the pointer interface.
func drawLine(e *Engine, from, to geom.Point) {
	e.SetTool(ToolDraw)
	e.PointerDown(from.X, from.Y, false)
	e.PointerMove((from.X+to.X)/2, (from.Y+to.Y)/2)
	e.PointerMove(to.X, to.Y)
	e.PointerUp(to.X, to.Y)
}

func TestDrawCommitsStroke(t *testing.T) {
	e := NewEngine()
	drawLine(e, geom.Point{X: 10, Y: 10}, geom.Point{X: 50, Y: 50})

	if len(e.Strokes()) != 1 {
		t.Fatalf("strokes = %d, want 1", len(e.Strokes()))
	}
	s := e.Strokes()[0]
	if len(s.Points) != 3 {
		t.Errorf("points = %d, want 3", len(s.Points))
	}
	if s.ID == "" {
		t.Error("committed stroke has no id")
	}

	// The stroke is queryable through the index after the gesture.
	ids := e.index.Retrieve(geom.Bounds{MinX: 0, MinY: 0, MaxX: 60, MaxY: 60})
	if len(ids) != 1 || ids[0] != s.ID {
		t.Errorf("index query = %v, want [%s]", ids, s.ID)
	}
}

func TestSinglePointStrokeIsDot(t *testing.T) {
	e := NewEngine()
	e.SetTool(ToolDraw)
	e.PointerDown(5, 5, false)
	e.PointerUp(5, 5)

	if len(e.Strokes()) != 1 || len(e.Strokes()[0].Points) != 1 {
		t.Fatalf("expected a one-point dot stroke, got %+v", e.Strokes())
	}
}

func TestEraseGapFill(t *testing.T) {
	e := NewEngine()
	// A vertical stroke crossing the midpoint between two erase samples.
	drawLine(e, geom.Point{X: 25, Y: -20}, geom.Point{X: 25, Y: 20})

	e.SetTool(ToolErase)
	e.SetEraserSize(10)

	// The pointer jumps 50 units in one event; interpolation must still
	// erase the stroke in the middle.
	e.PointerDown(0, 0, false)
	e.PointerMove(50, 0)
	e.PointerUp(50, 0)

	if len(e.Strokes()) != 0 {
		t.Errorf("stroke between erase samples survived: %d strokes left", len(e.Strokes()))
	}
}

func TestEraseMissLeavesHistoryUntouched(t *testing.T) {
	e := NewEngine()
	drawLine(e, geom.Point{X: 100, Y: 100}, geom.Point{X: 120, Y: 100})
	if !e.CanUndo() {
		t.Fatal("draw should have pushed history")
	}
	e.Undo()
	if e.CanUndo() {
		t.Fatal("undo stack should be drained")
	}
	e.Redo()

	e.SetTool(ToolErase)
	e.PointerDown(0, 0, false)
	e.PointerMove(10, 0)
	e.PointerUp(10, 0)

	// A pure miss must not add an undo entry: one undo still returns to
	// the blank board.
	e.Undo()
	if len(e.Strokes()) != 0 {
		t.Errorf("strokes after undo = %d, want 0", len(e.Strokes()))
	}
	if e.CanUndo() {
		t.Error("extra history entry pushed by a missing erase")
	}
}

func TestUndoRedoThroughEngine(t *testing.T) {
	e := NewEngine()
	drawLine(e, geom.Point{X: 0, Y: 0}, geom.Point{X: 10, Y: 0})
	drawLine(e, geom.Point{X: 0, Y: 10}, geom.Point{X: 10, Y: 10})

	if !e.Undo() {
		t.Fatal("Undo() = false")
	}
	if len(e.Strokes()) != 1 {
		t.Fatalf("strokes after undo = %d, want 1", len(e.Strokes()))
	}

	// The index follows the restored document.
	ids := e.index.Retrieve(geom.Bounds{MinX: -5, MinY: 5, MaxX: 15, MaxY: 15})
	if len(ids) != 0 {
		t.Errorf("undone stroke still indexed: %v", ids)
	}

	if !e.Redo() {
		t.Fatal("Redo() = false")
	}
	if len(e.Strokes()) != 2 {
		t.Fatalf("strokes after redo = %d, want 2", len(e.Strokes()))
	}

	if e.Redo() {
		t.Error("Redo on empty stack should report false")
	}
}

func TestClearSavesHistory(t *testing.T) {
	e := NewEngine()
	drawLine(e, geom.Point{X: 0, Y: 0}, geom.Point{X: 10, Y: 0})

	e.Clear()
	if len(e.Strokes()) != 0 {
		t.Fatal("Clear left strokes behind")
	}

	e.Undo()
	if len(e.Strokes()) != 1 {
		t.Error("undo after Clear should restore the stroke")
	}
}

func TestLoadDocumentDefaultsMalformed(t *testing.T) {
	e := NewEngine()
	// No transform, nil arrays, text with missing runs.
	err := e.LoadDocument(`{"id":"board_1","name":"wb","texts":[{"id":"text_1","x":5,"y":5,"text":"hello"}]}`)
	if err != nil {
		t.Fatalf("LoadDocument: %v", err)
	}

	if got := e.ViewTransform(); got != geom.IdentityTransform() {
		t.Errorf("transform = %v, want identity", got)
	}
	if e.Strokes() == nil {
		t.Error("strokes not defaulted to empty slice")
	}

	texts := e.Texts()
	if len(texts) != 1 {
		t.Fatalf("texts = %d, want 1", len(texts))
	}
	if got := texts[0].Runs; len(got) != 1 || got[0].Text != "hello" {
		t.Errorf("runs rebuilt from text = %+v", got)
	}
	if texts[0].FontSize <= 0 {
		t.Error("font size not defaulted")
	}
}

func TestSnapshotRoundTrip(t *testing.T) {
	e := NewEngine()
	drawLine(e, geom.Point{X: 0, Y: 0}, geom.Point{X: 30, Y: 30})
	e.Wheel(0, 0, -100, -50, false)
	for e.Tick() != "" {
	}

	snap := e.Snapshot()
	if len(snap.Strokes) != 1 {
		t.Fatalf("snapshot strokes = %d, want 1", len(snap.Strokes))
	}

	// Mutating the snapshot must not reach the live engine.
	snap.Strokes[0].Points[0].X = 9999
	if e.Strokes()[0].Points[0].X == 9999 {
		t.Error("snapshot aliases live stroke storage")
	}

	e2 := NewEngine()
	e2.Load(snap)
	if len(e2.Strokes()) != 1 {
		t.Errorf("loaded strokes = %d, want 1", len(e2.Strokes()))
	}
	if got := e2.ViewTransform(); got != e.ViewTransform() {
		t.Errorf("loaded transform = %v, want %v", got, e.ViewTransform())
	}
}

func TestZoomAnchorThroughEngine(t *testing.T) {
	e := NewEngine()
	world := e.ViewTransform().ScreenToWorld(geom.Point{X: 100, Y: 100})

	// Modified wheel zooms at the cursor.
	e.Wheel(100, 100, 0, -500, true)

	tr := e.ViewTransform()
	if tr.Scale <= 1 {
		t.Fatalf("scale = %v, want > 1", tr.Scale)
	}
	back := tr.WorldToScreen(world)
	if back.Dist(geom.Point{X: 100, Y: 100}) > 1e-9 {
		t.Errorf("world point under cursor drifted to %v", back)
	}
}

func TestTickCoalesces(t *testing.T) {
	e := NewEngine()
	drawLine(e, geom.Point{X: 0, Y: 0}, geom.Point{X: 10, Y: 10})

	if e.Tick() == "" {
		t.Fatal("first Tick after a mutation should render")
	}
	if e.Tick() != "" {
		t.Error("second Tick with no changes should skip the frame")
	}

	e.PointerDown(1, 1, false)
	e.PointerMove(2, 2)
	e.PointerMove(3, 3)
	e.PointerUp(3, 3)
	if e.Tick() == "" {
		t.Error("Tick after a burst of input should render once")
	}
}

func TestRenderCommandOrder(t *testing.T) {
	e := NewEngine()
	drawLine(e, geom.Point{X: 0, Y: 0}, geom.Point{X: 10, Y: 10})

	out := e.Render()
	viewIdx := strings.Index(out, `"view"`)
	strokeIdx := strings.Index(out, `"stroke"`)
	if viewIdx == -1 || strokeIdx == -1 || viewIdx > strokeIdx {
		t.Errorf("unexpected command order in %s", out)
	}
}

func TestRenderThumbnail(t *testing.T) {
	e := NewEngine()

	if got := e.RenderThumbnail(128, 128); got != "" {
		t.Errorf("empty board thumbnail = %q, want empty", got)
	}

	drawLine(e, geom.Point{X: 0, Y: 0}, geom.Point{X: 100, Y: 60})
	got := e.RenderThumbnail(128, 128)
	if got == "" {
		t.Fatal("thumbnail empty for a non-empty board")
	}
}
