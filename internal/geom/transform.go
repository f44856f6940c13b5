package geom

// Transform maps document space to screen space:
// screen = document*Scale + Offset.
type Transform struct {
	Scale   float64 `json:"scale"`
	OffsetX float64 `json:"offsetX"`
	OffsetY float64 `json:"offsetY"`
}

// IdentityTransform returns the neutral view transform.
func IdentityTransform() Transform {
	return Transform{Scale: 1}
}

// WorldToScreen converts a document-space point to screen space.
func (t Transform) WorldToScreen(p Point) Point {
	return Point{X: p.X*t.Scale + t.OffsetX, Y: p.Y*t.Scale + t.OffsetY}
}

// ScreenToWorld converts a screen-space point to document space.
func (t Transform) ScreenToWorld(p Point) Point {
	if t.Scale == 0 {
		return p
	}
	return Point{X: (p.X - t.OffsetX) / t.Scale, Y: (p.Y - t.OffsetY) / t.Scale}
}

// IsValid reports whether the transform can be used as-is. Documents saved
// by older clients may carry a zero transform; callers default those.
func (t Transform) IsValid() bool {
	return t.Scale > 0
}
