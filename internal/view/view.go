// Package view owns the pan/zoom state mapping document space to screen
// space. Zoom anchors at the cursor; wheel panning animates toward a target
// offset so fast scrolls feel inertial.
package view

import (
	"math"

	"github.com/quillboard/quillboard/backend-go/internal/geom"
)

const (
	// MinScale and MaxScale clamp the zoom range.
	MinScale = 0.1
	MaxScale = 10

	// panLerp is the per-frame fraction of the remaining distance covered
	// while animating toward the pan target.
	panLerp = 0.3
	// panSettle stops the animation once within this many screen units.
	panSettle = 0.5
	// externalDriftTolerance cancels the animation when someone else moved
	// the offset by more than this, ceding control to direct manipulation.
	externalDriftTolerance = 1.0
)

// Controller holds the current view transform and the in-flight pan
// animation, if any.
type Controller struct {
	transform geom.Transform

	panning    bool
	target     geom.Point
	lastOffset geom.Point
}

// NewController starts at the identity transform.
func NewController() *Controller {
	return &Controller{transform: geom.IdentityTransform()}
}

// Transform returns the current view transform.
func (c *Controller) Transform() geom.Transform {
	return c.transform
}

// SetTransform replaces the view transform directly, e.g. on document load
// or a hand drag. A direct write cancels any in-flight pan animation.
func (c *Controller) SetTransform(t geom.Transform) {
	if !t.IsValid() {
		t = geom.IdentityTransform()
	}
	c.transform = t
	c.panning = false
}

// ZoomAt applies a wheel zoom anchored at the given screen point: the world
// point under the cursor stays under the cursor after the scale change.
func (c *Controller) ZoomAt(screen geom.Point, delta, speed float64) {
	c.panning = false

	scale := c.transform.Scale * math.Exp(-delta*speed)
	scale = max(MinScale, min(MaxScale, scale))
	if scale == c.transform.Scale {
		return
	}

	world := c.transform.ScreenToWorld(screen)
	c.transform.Scale = scale
	// Solve offset so world maps back onto screen.
	c.transform.OffsetX = screen.X - world.X*scale
	c.transform.OffsetY = screen.Y - world.Y*scale
}

// PanBy shifts the pan target by a screen-space delta. The offset itself
// catches up over subsequent Step calls.
func (c *Controller) PanBy(delta geom.Point) {
	if !c.panning {
		c.target = geom.Point{X: c.transform.OffsetX, Y: c.transform.OffsetY}
		c.lastOffset = c.target
		c.panning = true
	}
	c.target = c.target.Add(delta)
}

// Step advances the pan animation by one frame and reports whether another
// frame is needed. Detecting that the offset moved underneath us (a drag,
// a zoom) cancels the animation.
func (c *Controller) Step() bool {
	if !c.panning {
		return false
	}

	current := geom.Point{X: c.transform.OffsetX, Y: c.transform.OffsetY}
	if current.Dist(c.lastOffset) > externalDriftTolerance {
		c.panning = false
		return false
	}

	remaining := c.target.Sub(current)
	if math.Hypot(remaining.X, remaining.Y) <= panSettle {
		c.transform.OffsetX = c.target.X
		c.transform.OffsetY = c.target.Y
		c.panning = false
		return false
	}

	c.transform.OffsetX += remaining.X * panLerp
	c.transform.OffsetY += remaining.Y * panLerp
	c.lastOffset = geom.Point{X: c.transform.OffsetX, Y: c.transform.OffsetY}
	return true
}

// Panning reports whether a pan animation is in flight.
func (c *Controller) Panning() bool { return c.panning }
