package engine

import (
	"reflect"
	"testing"

	"github.com/quillboard/quillboard/backend-go/internal/geom"
)

func selectionOf(indices ...int) Selection {
	s := Selection{}
	s.ensure()
	for _, i := range indices {
		s.StrokeIndices[i] = true
	}
	return s
}

func removedSet(indices ...int) map[int]bool {
	m := make(map[int]bool)
	for _, i := range indices {
		m[i] = true
	}
	return m
}

func TestRemapAfterStrokeRemoval(t *testing.T) {
	tests := []struct {
		name     string
		selected []int
		removed  []int
		want     []int
	}{
		{"shift and drop", []int{0, 1, 2, 4, 5}, []int{1, 3}, []int{0, 1, 2, 3}},
		{"survivors shift down", []int{2, 4}, []int{1, 3}, []int{1, 2}},
		{"nothing removed", []int{0, 2}, nil, []int{0, 2}},
		{"all removed", []int{1, 2}, []int{1, 2}, []int{}},
		{"removal above selection", []int{0, 1}, []int{5}, []int{0, 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := selectionOf(tt.selected...)
			s.remapAfterStrokeRemoval(removedSet(tt.removed...))
			if got := s.SortedStrokeIndices(); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("remap = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestBoxSelect(t *testing.T) {
	e := NewEngine()
	drawLine(e, geom.Point{X: 0, Y: 0}, geom.Point{X: 10, Y: 10})
	drawLine(e, geom.Point{X: 100, Y: 100}, geom.Point{X: 110, Y: 110})

	e.SetTool(ToolSelect)
	e.PointerDown(-20, -20, false)
	e.PointerMove(50, 50)
	e.PointerUp(50, 50)

	if got := e.SelectedStrokeIndices(); !reflect.DeepEqual(got, []int{0}) {
		t.Fatalf("selected = %v, want [0]", got)
	}

	b, ok := e.SelectionBounds()
	if !ok {
		t.Fatal("selection has no bounds")
	}
	if !b.Contains(geom.Point{X: 5, Y: 5}) {
		t.Errorf("selection bounds %v does not cover the stroke", b)
	}
}

func TestBoxSelectUsesBoundsOverlapNotPath(t *testing.T) {
	e := NewEngine()
	// An L-shaped stroke whose bounding box covers the query even though
	// the path itself stays out of it.
	e.SetTool(ToolDraw)
	e.PointerDown(0, 0, false)
	e.PointerMove(100, 0)
	e.PointerMove(100, 100)
	e.PointerUp(100, 100)

	e.SetTool(ToolSelect)
	e.PointerDown(20, 20, false)
	e.PointerMove(40, 40)
	e.PointerUp(40, 40)

	if got := e.SelectedStrokeIndices(); !reflect.DeepEqual(got, []int{0}) {
		t.Errorf("selected = %v, want [0] (bounding-box overlap)", got)
	}
}

func TestClickSelectsTopmostAndMoves(t *testing.T) {
	e := NewEngine()
	drawLine(e, geom.Point{X: 0, Y: 0}, geom.Point{X: 20, Y: 0})

	e.SetTool(ToolSelect)
	e.PointerDown(10, 0, false)
	e.PointerMove(10, 30)
	e.PointerUp(10, 30)

	pts := e.Strokes()[0].Points
	if pts[0].Y != 30 {
		t.Errorf("stroke not moved: first point %v", pts[0])
	}

	// The index reflects the new position after the gesture.
	old := e.index.Retrieve(geom.Bounds{MinX: -5, MinY: -5, MaxX: 25, MaxY: 5})
	if len(old) != 0 {
		t.Errorf("stale index entry at old position: %v", old)
	}
	fresh := e.index.Retrieve(geom.Bounds{MinX: -5, MinY: 25, MaxX: 25, MaxY: 35})
	if len(fresh) != 1 {
		t.Errorf("moved stroke missing from index at new position")
	}
}

func TestMoveDefersHistoryUntilMotion(t *testing.T) {
	e := NewEngine()
	drawLine(e, geom.Point{X: 0, Y: 0}, geom.Point{X: 20, Y: 0})
	e.Undo()
	e.Redo() // undo stack: [empty]

	e.SetTool(ToolSelect)
	// Click without moving: no history entry.
	e.PointerDown(10, 0, false)
	e.PointerUp(10, 0)

	e.Undo()
	if len(e.Strokes()) != 0 {
		t.Error("plain click pushed a history entry")
	}
}

func TestMultiSelectToggles(t *testing.T) {
	e := NewEngine()
	drawLine(e, geom.Point{X: 0, Y: 0}, geom.Point{X: 10, Y: 0})
	drawLine(e, geom.Point{X: 0, Y: 50}, geom.Point{X: 10, Y: 50})

	e.SetTool(ToolSelect)
	e.PointerDown(5, 0, true)
	e.PointerUp(5, 0)
	e.PointerDown(5, 50, true)
	e.PointerUp(5, 50)

	if got := e.SelectedStrokeIndices(); !reflect.DeepEqual(got, []int{0, 1}) {
		t.Fatalf("selected = %v, want [0 1]", got)
	}

	// Toggling an already selected member removes only it.
	e.PointerDown(5, 0, true)
	e.PointerUp(5, 0)
	if got := e.SelectedStrokeIndices(); !reflect.DeepEqual(got, []int{1}) {
		t.Errorf("selected = %v, want [1]", got)
	}
}

func TestDeleteSelectionRemapsAndRestores(t *testing.T) {
	e := NewEngine()
	for i := 0; i < 3; i++ {
		drawLine(e, geom.Point{X: 0, Y: float64(i * 50)}, geom.Point{X: 10, Y: float64(i * 50)})
	}

	e.SetTool(ToolSelect)
	e.PointerDown(5, 50, false)
	e.PointerUp(5, 50)
	e.DeleteSelection()

	if len(e.Strokes()) != 2 {
		t.Fatalf("strokes = %d, want 2", len(e.Strokes()))
	}

	// The deleted stroke is gone from the index too.
	got := e.index.Retrieve(geom.Bounds{MinX: -5, MinY: 45, MaxX: 15, MaxY: 55})
	if len(got) != 0 {
		t.Errorf("deleted stroke still indexed: %v", got)
	}

	e.Undo()
	if len(e.Strokes()) != 3 {
		t.Errorf("strokes after undo = %d, want 3", len(e.Strokes()))
	}
}

func TestResizeScalesWidthUniformly(t *testing.T) {
	e := NewEngine()
	e.SetBrush(4, "#000000")
	drawLine(e, geom.Point{X: 0, Y: 0}, geom.Point{X: 100, Y: 100})

	e.SetTool(ToolSelect)
	// Select via box, then grab the bottom-right handle and double the size.
	e.PointerDown(-10, -10, false)
	e.PointerMove(120, 120)
	e.PointerUp(120, 120)

	b, _ := e.SelectionBounds()
	corner := b.Corner(geom.HandleBottomRight)
	fixed := b.Corner(geom.HandleTopLeft)

	e.PointerDown(corner.X, corner.Y, false)
	if e.gesture.kind != gestureResize {
		t.Fatalf("gesture = %v, want resize", e.gesture.kind)
	}
	targetX := fixed.X + (corner.X-fixed.X)*2
	targetY := fixed.Y + (corner.Y-fixed.Y)*2
	e.PointerMove(targetX, targetY)
	e.PointerUp(targetX, targetY)

	s := e.Strokes()[0]
	if got := s.Size; got < 7.9 || got > 8.1 {
		t.Errorf("stroke width = %v, want ~8", got)
	}
	// Geometry scales about the fixed top-left bounds corner (-2, -2).
	last := s.Points[len(s.Points)-1]
	if last.Dist(geom.Point{X: 202, Y: 202}) > 1e-6 {
		t.Errorf("endpoint = %v, want (202, 202)", last)
	}
	first := s.Points[0]
	if first.Dist(geom.Point{X: 2, Y: 2}) > 1e-6 {
		t.Errorf("first point = %v, want (2, 2)", first)
	}
}

func TestResizeWithTextForcesUniformAxes(t *testing.T) {
	e := NewEngine()
	e.SetTool(ToolText)
	e.PointerDown(50, 50, false)
	e.PointerUp(50, 50)
	e.UpdateEditorText("hello")
	e.CloseEditor()

	e.SetTool(ToolSelect)
	e.PointerDown(0, 0, false)
	e.PointerMove(200, 200)
	e.PointerUp(200, 200)
	if len(e.SelectedTextIDs()) != 1 {
		t.Fatal("text not selected")
	}

	origFont := e.Texts()[0].FontSize
	b, _ := e.SelectionBounds()
	corner := b.Corner(geom.HandleBottomRight)
	fixed := b.Corner(geom.HandleTopLeft)

	// Drag x to 2x but y to 1x; text forces both axes to the uniform mean.
	e.PointerDown(corner.X, corner.Y, false)
	e.PointerMove(fixed.X+(corner.X-fixed.X)*2, corner.Y)
	e.PointerUp(fixed.X+(corner.X-fixed.X)*2, corner.Y)

	wantFont := origFont * 1.5
	if got := e.Texts()[0].FontSize; got < wantFont-0.01 || got > wantFont+0.01 {
		t.Errorf("font size = %v, want %v", got, wantFont)
	}
}

func TestSelectionClearedOnEmptyClick(t *testing.T) {
	e := NewEngine()
	drawLine(e, geom.Point{X: 0, Y: 0}, geom.Point{X: 10, Y: 0})

	e.SetTool(ToolSelect)
	e.PointerDown(5, 0, false)
	e.PointerUp(5, 0)
	if len(e.SelectedStrokeIndices()) != 1 {
		t.Fatal("stroke not selected")
	}

	e.PointerDown(500, 500, false)
	e.PointerUp(500, 500)
	if !e.selection.IsEmpty() {
		t.Error("selection should clear on an empty click")
	}
}
