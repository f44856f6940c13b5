package geom

import (
	"math"
	"testing"
)

const epsilon = 1e-9

func almost(a, b float64) bool {
	return math.Abs(a-b) < epsilon
}

func TestNewBounds(t *testing.T) {
	tests := []struct {
		name string
		a, b Point
		want Bounds
	}{
		{"normal order", Point{0, 0}, Point{10, 10}, Bounds{0, 0, 10, 10}},
		{"reversed order", Point{10, 10}, Point{0, 0}, Bounds{0, 0, 10, 10}},
		{"mixed", Point{5, 0}, Point{0, 5}, Bounds{0, 0, 5, 5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NewBounds(tt.a, tt.b); got != tt.want {
				t.Errorf("NewBounds() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestBoundsIntersects(t *testing.T) {
	tests := []struct {
		name string
		a, b Bounds
		want bool
	}{
		{"overlapping", Bounds{0, 0, 5, 5}, Bounds{3, 3, 10, 10}, true},
		{"touching edge", Bounds{0, 0, 5, 5}, Bounds{5, 0, 10, 5}, true},
		{"disjoint x", Bounds{0, 0, 5, 5}, Bounds{6, 0, 10, 5}, false},
		{"disjoint y", Bounds{0, 0, 5, 5}, Bounds{0, 6, 5, 10}, false},
		{"contained", Bounds{0, 0, 10, 10}, Bounds{2, 2, 4, 4}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Intersects(tt.b); got != tt.want {
				t.Errorf("Intersects() = %v, want %v", got, tt.want)
			}
			if got := tt.b.Intersects(tt.a); got != tt.want {
				t.Errorf("Intersects() not symmetric: %v, want %v", got, tt.want)
			}
		})
	}
}

func TestBoundsContainsBounds(t *testing.T) {
	outer := Bounds{0, 0, 10, 10}
	if !outer.ContainsBounds(Bounds{2, 2, 8, 8}) {
		t.Error("inner box should be contained")
	}
	if outer.ContainsBounds(Bounds{5, 5, 12, 8}) {
		t.Error("overlapping box should not be contained")
	}
	if !outer.ContainsBounds(outer) {
		t.Error("box should contain itself")
	}
}

func TestPointsBounds(t *testing.T) {
	pts := []Point{{3, 7}, {-1, 2}, {5, 0}}
	want := Bounds{-1, 0, 5, 7}
	if got := PointsBounds(pts); got != want {
		t.Errorf("PointsBounds() = %v, want %v", got, want)
	}

	if got := PointsBounds(nil); !got.IsEmpty() {
		t.Errorf("PointsBounds(nil) = %v, want empty", got)
	}
}

func TestPointSegmentDist(t *testing.T) {
	tests := []struct {
		name    string
		p, a, b Point
		want    float64
	}{
		{"perpendicular", Point{5, 5}, Point{0, 0}, Point{10, 0}, 5},
		{"beyond end", Point{13, 4}, Point{0, 0}, Point{10, 0}, 5},
		{"before start", Point{-3, 4}, Point{0, 0}, Point{10, 0}, 5},
		{"on segment", Point{5, 0}, Point{0, 0}, Point{10, 0}, 0},
		{"degenerate segment", Point{3, 4}, Point{0, 0}, Point{0, 0}, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PointSegmentDist(tt.p, tt.a, tt.b); !almost(got, tt.want) {
				t.Errorf("PointSegmentDist() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestStrokeHit(t *testing.T) {
	line := []Point{{0, 0}, {10, 0}, {10, 10}}

	tests := []struct {
		name   string
		points []Point
		width  float64
		q      Point
		radius float64
		want   bool
	}{
		{"on segment", line, 2, Point{5, 0}, 0, true},
		{"within half width", line, 4, Point{5, 1.9}, 0, true},
		{"within radius", line, 2, Point{5, 5}, 4.1, true},
		{"miss", line, 2, Point{5, 5}, 1, false},
		{"dot hit", []Point{{3, 3}}, 6, Point{5, 3}, 0, true},
		{"dot miss", []Point{{3, 3}}, 2, Point{5, 3}, 0.5, false},
		{"empty stroke", nil, 2, Point{0, 0}, 100, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StrokeHit(tt.points, tt.width, tt.q, tt.radius); got != tt.want {
				t.Errorf("StrokeHit() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestHandleAt(t *testing.T) {
	b := Bounds{0, 0, 100, 100}

	tests := []struct {
		name  string
		p     Point
		scale float64
		want  Handle
	}{
		{"top left exact", Point{0, 0}, 1, HandleTopLeft},
		{"top left near", Point{5, 5}, 1, HandleTopLeft},
		{"bottom right", Point{99, 101}, 1, HandleBottomRight},
		{"center miss", Point{50, 50}, 1, HandleNone},
		{"zoomed in shrinks radius", Point{5, 5}, 4, HandleNone},
		{"zoomed out grows radius", Point{12, 12}, 0.5, HandleTopLeft},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HandleAt(b, tt.p, tt.scale); got != tt.want {
				t.Errorf("HandleAt() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestHandleOpposite(t *testing.T) {
	pairs := map[Handle]Handle{
		HandleTopLeft:     HandleBottomRight,
		HandleTopRight:    HandleBottomLeft,
		HandleBottomLeft:  HandleTopRight,
		HandleBottomRight: HandleTopLeft,
	}
	for h, want := range pairs {
		if got := h.Opposite(); got != want {
			t.Errorf("%v.Opposite() = %v, want %v", h, got, want)
		}
	}
}

func TestTransformRoundTrip(t *testing.T) {
	tr := Transform{Scale: 2.5, OffsetX: -30, OffsetY: 12}
	p := Point{17, -4}

	s := tr.WorldToScreen(p)
	back := tr.ScreenToWorld(s)

	if !almost(back.X, p.X) || !almost(back.Y, p.Y) {
		t.Errorf("round trip = %v, want %v", back, p)
	}
}

func TestMeasureText(t *testing.T) {
	// Monospace-equivalent: each rune is 0.6em, so "Hi" at 20 is 24 wide
	// plus 6 padding each side.
	w, h := MeasureText("Hi", 20, nil)
	if !almost(w, 36) {
		t.Errorf("width = %v, want 36", w)
	}
	if !almost(h, 20+2*6) {
		t.Errorf("height = %v, want 32", h)
	}
}

func TestMeasureTextMultiline(t *testing.T) {
	// Two lines plus a trailing newline; the empty trailing line is not
	// counted.
	w, h := MeasureText("ab\ncdef\n", 10, nil)

	pad := TextPadding(10) // 4
	wantW := 4*10*0.6 + 2*pad
	wantH := 1*10*1.2 + 10 + 2*pad

	if !almost(w, wantW) {
		t.Errorf("width = %v, want %v", w, wantW)
	}
	if !almost(h, wantH) {
		t.Errorf("height = %v, want %v", h, wantH)
	}
}

func TestMeasureTextCustomMeasurer(t *testing.T) {
	fixed := func(line string, fontSize float64) float64 { return 100 }
	w, _ := MeasureText("x", 10, fixed)
	if !almost(w, 100+2*TextPadding(10)) {
		t.Errorf("width = %v, want %v", w, 100+2*TextPadding(10))
	}
}
