package geom

import "math"

// Point is a position in document space.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Add returns p translated by d.
func (p Point) Add(d Point) Point {
	return Point{X: p.X + d.X, Y: p.Y + d.Y}
}

// Sub returns p - q.
func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

// Dist returns the Euclidean distance between p and q.
func (p Point) Dist(q Point) float64 {
	return math.Hypot(p.X-q.X, p.Y-q.Y)
}

// Bounds is an axis-aligned bounding box with MinX <= MaxX and MinY <= MaxY.
type Bounds struct {
	MinX float64 `json:"minX"`
	MinY float64 `json:"minY"`
	MaxX float64 `json:"maxX"`
	MaxY float64 `json:"maxY"`
}

// NewBounds returns the bounds spanning two arbitrary corner points.
func NewBounds(a, b Point) Bounds {
	return Bounds{
		MinX: min(a.X, b.X),
		MinY: min(a.Y, b.Y),
		MaxX: max(a.X, b.X),
		MaxY: max(a.Y, b.Y),
	}
}

// Width returns the horizontal extent.
func (b Bounds) Width() float64 { return b.MaxX - b.MinX }

// Height returns the vertical extent.
func (b Bounds) Height() float64 { return b.MaxY - b.MinY }

// Center returns the center point of the box.
func (b Bounds) Center() Point {
	return Point{X: (b.MinX + b.MaxX) / 2, Y: (b.MinY + b.MaxY) / 2}
}

// IsEmpty checks if the box has zero or negative area.
func (b Bounds) IsEmpty() bool {
	return b.MaxX <= b.MinX || b.MaxY <= b.MinY
}

// Contains checks if a point is inside the box (inclusive).
func (b Bounds) Contains(p Point) bool {
	return p.X >= b.MinX && p.X <= b.MaxX && p.Y >= b.MinY && p.Y <= b.MaxY
}

// ContainsBounds checks if other lies entirely inside b.
func (b Bounds) ContainsBounds(other Bounds) bool {
	return other.MinX >= b.MinX && other.MaxX <= b.MaxX &&
		other.MinY >= b.MinY && other.MaxY <= b.MaxY
}

// Intersects checks if the two boxes overlap (touching counts).
func (b Bounds) Intersects(other Bounds) bool {
	return !(other.MinX > b.MaxX || other.MaxX < b.MinX ||
		other.MinY > b.MaxY || other.MaxY < b.MinY)
}

// Union returns the smallest box containing both boxes.
func (b Bounds) Union(other Bounds) Bounds {
	return Bounds{
		MinX: min(b.MinX, other.MinX),
		MinY: min(b.MinY, other.MinY),
		MaxX: max(b.MaxX, other.MaxX),
		MaxY: max(b.MaxY, other.MaxY),
	}
}

// Pad returns the box grown by d on all sides.
func (b Bounds) Pad(d float64) Bounds {
	return Bounds{MinX: b.MinX - d, MinY: b.MinY - d, MaxX: b.MaxX + d, MaxY: b.MaxY + d}
}

// Translate returns the box shifted by d.
func (b Bounds) Translate(d Point) Bounds {
	return Bounds{MinX: b.MinX + d.X, MinY: b.MinY + d.Y, MaxX: b.MaxX + d.X, MaxY: b.MaxY + d.Y}
}

// PointsBounds returns the bounding box of a non-empty point list,
// or an empty Bounds for no points.
func PointsBounds(points []Point) Bounds {
	if len(points) == 0 {
		return Bounds{}
	}
	b := Bounds{MinX: points[0].X, MinY: points[0].Y, MaxX: points[0].X, MaxY: points[0].Y}
	for _, p := range points[1:] {
		b.MinX = min(b.MinX, p.X)
		b.MinY = min(b.MinY, p.Y)
		b.MaxX = max(b.MaxX, p.X)
		b.MaxY = max(b.MaxY, p.Y)
	}
	return b
}

// PointSegmentDist returns the distance from p to the segment a-b.
func PointSegmentDist(p, a, b Point) float64 {
	dx := b.X - a.X
	dy := b.Y - a.Y
	lenSq := dx*dx + dy*dy
	if lenSq == 0 {
		return p.Dist(a)
	}

	// Project p onto the segment, clamped to its endpoints.
	t := ((p.X-a.X)*dx + (p.Y-a.Y)*dy) / lenSq
	t = max(0, min(1, t))

	return p.Dist(Point{X: a.X + t*dx, Y: a.Y + t*dy})
}

// StrokeHit checks whether a query circle touches a polyline of the given
// stroke width. A single-point stroke is treated as a dot.
func StrokeHit(points []Point, width float64, q Point, radius float64) bool {
	if len(points) == 0 {
		return false
	}

	threshold := width/2 + radius

	if len(points) == 1 {
		return q.Dist(points[0]) <= threshold
	}

	for i := 0; i+1 < len(points); i++ {
		if PointSegmentDist(q, points[i], points[i+1]) <= threshold {
			return true
		}
	}
	return false
}

// Handle identifies one of the four corner resize handles.
type Handle int

const (
	HandleNone Handle = iota
	HandleTopLeft
	HandleTopRight
	HandleBottomLeft
	HandleBottomRight
)

// HandleRadius is the on-screen handle hit radius in pixels; divide by the
// view scale for the document-space radius.
const HandleRadius = 8

// HandleAt returns which corner handle of b the point p hits, given the
// current view scale. Handle size is constant on screen, so the document-space
// radius shrinks as the view zooms in.
func HandleAt(b Bounds, p Point, scale float64) Handle {
	if scale <= 0 {
		scale = 1
	}
	r := HandleRadius / scale

	corners := [...]struct {
		h Handle
		p Point
	}{
		{HandleTopLeft, Point{X: b.MinX, Y: b.MinY}},
		{HandleTopRight, Point{X: b.MaxX, Y: b.MinY}},
		{HandleBottomLeft, Point{X: b.MinX, Y: b.MaxY}},
		{HandleBottomRight, Point{X: b.MaxX, Y: b.MaxY}},
	}
	for _, c := range corners {
		if p.Dist(c.p) <= r {
			return c.h
		}
	}
	return HandleNone
}

// Opposite returns the corner diagonally across from h.
func (h Handle) Opposite() Handle {
	switch h {
	case HandleTopLeft:
		return HandleBottomRight
	case HandleTopRight:
		return HandleBottomLeft
	case HandleBottomLeft:
		return HandleTopRight
	case HandleBottomRight:
		return HandleTopLeft
	}
	return HandleNone
}

// Corner returns the position of handle h on b.
func (b Bounds) Corner(h Handle) Point {
	switch h {
	case HandleTopLeft:
		return Point{X: b.MinX, Y: b.MinY}
	case HandleTopRight:
		return Point{X: b.MaxX, Y: b.MinY}
	case HandleBottomLeft:
		return Point{X: b.MinX, Y: b.MaxY}
	case HandleBottomRight:
		return Point{X: b.MaxX, Y: b.MaxY}
	}
	return b.Center()
}
