// Package history implements the undo/redo stack as deep document snapshots.
// Snapshots are cheap at interactive document sizes; structural diffing is
// not worth the bookkeeping here.
package history

import "github.com/quillboard/quillboard/backend-go/internal/document"

// DefaultCapacity bounds the undo depth; the oldest entry is discarded
// when the stack overflows.
const DefaultCapacity = 100

// Entry is an immutable deep snapshot of the document content.
type Entry struct {
	Strokes []document.Stroke
	Texts   []document.TextElement
}

// Stack holds undo and redo entries. Any new save invalidates the redo side.
type Stack struct {
	undo     []Entry
	redo     []Entry
	capacity int
}

// NewStack creates a stack with the given capacity (DefaultCapacity if <= 0).
func NewStack(capacity int) *Stack {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Stack{capacity: capacity}
}

func snapshot(strokes []document.Stroke, texts []document.TextElement) Entry {
	return Entry{
		Strokes: document.CloneStrokes(strokes),
		Texts:   document.CloneTexts(texts),
	}
}

// Save pushes a deep copy of the current content and clears the redo stack.
func (s *Stack) Save(strokes []document.Stroke, texts []document.TextElement) {
	s.undo = append(s.undo, snapshot(strokes, texts))
	if len(s.undo) > s.capacity {
		s.undo = s.undo[1:]
	}
	s.redo = s.redo[:0]
}

// Undo pushes the current content onto the redo stack and returns the most
// recent undo entry, or nil when there is nothing to undo.
func (s *Stack) Undo(strokes []document.Stroke, texts []document.TextElement) *Entry {
	if len(s.undo) == 0 {
		return nil
	}
	s.redo = append(s.redo, snapshot(strokes, texts))
	e := s.undo[len(s.undo)-1]
	s.undo = s.undo[:len(s.undo)-1]
	return &e
}

// Redo is the mirror of Undo.
func (s *Stack) Redo(strokes []document.Stroke, texts []document.TextElement) *Entry {
	if len(s.redo) == 0 {
		return nil
	}
	s.undo = append(s.undo, snapshot(strokes, texts))
	e := s.redo[len(s.redo)-1]
	s.redo = s.redo[:len(s.redo)-1]
	return &e
}

// CanUndo reports whether an undo entry is available.
func (s *Stack) CanUndo() bool { return len(s.undo) > 0 }

// CanRedo reports whether a redo entry is available.
func (s *Stack) CanRedo() bool { return len(s.redo) > 0 }

// Reset drops all entries, e.g. when a new document is loaded.
func (s *Stack) Reset() {
	s.undo = s.undo[:0]
	s.redo = s.redo[:0]
}
