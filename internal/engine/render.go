package engine

import (
	"encoding/json"

	"github.com/quillboard/quillboard/backend-go/internal/geom"
	"github.com/quillboard/quillboard/backend-go/internal/richtext"
)

// DrawCommand is a single drawing operation for the frontend canvas.
// Geometry is in document space; the "view" command carries the transform
// the frontend applies before painting.
type DrawCommand struct {
	Op string `json:"op"` // "view", "stroke", "text", "selection", "editbox"

	// view
	Transform *geom.Transform `json:"transform,omitempty"`

	// stroke
	ID     string       `json:"id,omitempty"`
	Points []geom.Point `json:"points,omitempty"`
	Size   float64      `json:"size,omitempty"`
	Color  string       `json:"color,omitempty"`

	// text
	X          float64        `json:"x,omitempty"`
	Y          float64        `json:"y,omitempty"`
	FontSize   float64        `json:"fontSize,omitempty"`
	FontFamily string         `json:"fontFamily,omitempty"`
	Runs       []richtext.Run `json:"runs,omitempty"`

	// selection / editbox
	Bounds  *geom.Bounds `json:"bounds,omitempty"`
	Handles bool         `json:"handles,omitempty"`
}

// CompileDrawCommands walks the document and selection state once and
// produces the frame's command buffer in painter's order: strokes, then
// texts, then overlay chrome.
func (e *Engine) CompileDrawCommands() []DrawCommand {
	t := e.view.Transform()
	commands := []DrawCommand{{Op: "view", Transform: &t}}

	for _, s := range e.strokes {
		commands = append(commands, DrawCommand{
			Op:     "stroke",
			ID:     s.ID,
			Points: s.Points,
			Size:   s.Size,
			Color:  s.Color,
		})
	}
	for _, txt := range e.texts {
		commands = append(commands, DrawCommand{
			Op:         "text",
			ID:         txt.ID,
			X:          txt.X,
			Y:          txt.Y,
			FontSize:   txt.FontSize,
			FontFamily: txt.FontFamily,
			Color:      txt.Color,
			Runs:       txt.Runs,
		})
	}

	if e.gesture.kind == gestureBoxSelect {
		box := e.gesture.box
		commands = append(commands, DrawCommand{Op: "selection", Bounds: &box})
	} else if e.selection.hasBounds {
		bounds := e.selection.Bounds
		commands = append(commands, DrawCommand{Op: "selection", Bounds: &bounds, Handles: true})
	}

	if e.editor != nil {
		if txt := e.textByID(e.editor.textID); txt != nil {
			b := txt.Bounds(e.measure)
			commands = append(commands, DrawCommand{Op: "editbox", ID: txt.ID, Bounds: &b, Handles: true})
		}
	}

	return commands
}

// Render returns the current frame's draw commands as JSON and marks the
// frame clean.
func (e *Engine) Render() string {
	commands := e.CompileDrawCommands()
	e.dirty = false

	data, err := json.Marshal(commands)
	if err != nil {
		return "[]"
	}
	return string(data)
}

// Tick advances per-frame animation (inertial pan) and returns the draw
// commands when a repaint is due, or "" when the frame can be skipped.
// Bursts of input collapse into a single paint this way.
func (e *Engine) Tick() string {
	if e.view.Step() {
		e.dirty = true
	}
	if !e.dirty {
		return ""
	}
	return e.Render()
}

// ContentBounds returns the box around all content, or ok=false for an
// empty board.
func (e *Engine) ContentBounds() (geom.Bounds, bool) {
	var bounds geom.Bounds
	first := true
	for _, s := range e.strokes {
		b := e.strokeBounds(s)
		if first {
			bounds, first = b, false
		} else {
			bounds = bounds.Union(b)
		}
	}
	for _, t := range e.texts {
		b := t.Bounds(e.measure)
		if first {
			bounds, first = b, false
		} else {
			bounds = bounds.Union(b)
		}
	}
	return bounds, !first
}
