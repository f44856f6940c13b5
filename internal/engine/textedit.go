package engine

import (
	"github.com/quillboard/quillboard/backend-go/internal/document"
	"github.com/quillboard/quillboard/backend-go/internal/richtext"
)

// textEditor is the editing sub-state of a single text element. It is
// independent of the active tool: the element stays open for typing while
// the select tool handles everything else.
type textEditor struct {
	textID   string
	selStart int // rune offsets; caret when start == end
	selEnd   int
	touched  bool // history has been pushed for this editing session
}

func (e *Engine) openEditor(id string) {
	t := e.textByID(id)
	if t == nil {
		return
	}
	caret := len([]rune(t.Text))
	e.editor = &textEditor{textID: id, selStart: caret, selEnd: caret}
	e.dirty = true
}

// EditSelectedText opens the editor on the single selected text element.
// Returns false when the selection is not exactly one text.
func (e *Engine) EditSelectedText() bool {
	if len(e.selection.TextIDs) != 1 || len(e.selection.StrokeIndices) != 0 {
		return false
	}
	for id := range e.selection.TextIDs {
		e.openEditor(id)
	}
	return e.editor != nil
}

// EditingTextID returns the id of the text being edited, or "".
func (e *Engine) EditingTextID() string {
	if e.editor == nil {
		return ""
	}
	return e.editor.textID
}

// CloseEditor ends text editing. An element left empty is discarded; its
// creation already saved a history entry, so undo still lands before it.
func (e *Engine) CloseEditor() {
	if e.editor == nil {
		return
	}
	id := e.editor.textID
	e.editor = nil

	if t := e.textByID(id); t != nil && t.Text == "" {
		e.removeTextByID(id)
	}
	e.dirty = true
}

// SetEditorSelection sets the caret or selection range in rune offsets.
func (e *Engine) SetEditorSelection(start, end int) {
	t := e.editedText()
	if t == nil {
		return
	}
	n := len([]rune(t.Text))
	e.editor.selStart = clamp(start, 0, n)
	e.editor.selEnd = clamp(end, 0, n)
	e.dirty = true
}

// UpdateEditorText reconciles the edited element against the new flat text
// from the input field, preserving run styles across the edit.
func (e *Engine) UpdateEditorText(newText string) {
	t := e.editedText()
	if t == nil {
		return
	}
	e.touchHistory()

	t.Runs = richtext.UpdateFromText(t.Runs, newText)
	t.SyncText()
	caret := len([]rune(t.Text))
	e.editor.selStart = clamp(e.editor.selStart, 0, caret)
	e.editor.selEnd = clamp(e.editor.selEnd, 0, caret)

	e.index.Insert(t.ID, t.Bounds(e.measure))
	e.recomputeSelectionBounds()
	e.dirty = true
}

// ToggleEditorStyle toggles a style flag over the selected range, or over
// the whole element when nothing is selected.
func (e *Engine) ToggleEditorStyle(field richtext.Field) {
	t := e.editedText()
	if t == nil {
		return
	}
	e.hist.Save(e.strokes, e.texts)
	e.editor.touched = true

	t.Runs = richtext.ApplyToRange(t.Runs, e.editor.selStart, e.editor.selEnd, field)
	t.SyncText()
	e.dirty = true
}

// CopySelection returns the selected text and keeps its styled runs for
// paste. Empty when no editor is open or no range is selected.
func (e *Engine) CopySelection() string {
	t := e.editedText()
	if t == nil {
		return ""
	}
	start, end := e.editor.ordered()
	if start == end {
		return ""
	}

	slice := richtext.SplitAt(t.Runs, start, end)
	var copied []richtext.Run
	pos := 0
	for _, r := range slice {
		n := len([]rune(r.Text))
		if pos >= start && pos+n <= end {
			copied = append(copied, r)
		}
		pos += n
	}
	e.clipboard = richtext.Normalize(copied)
	return richtext.FullText(e.clipboard)
}

// CutSelection copies the selected range and deletes it.
func (e *Engine) CutSelection() string {
	text := e.CopySelection()
	if text == "" {
		return ""
	}

	t := e.editedText()
	start, end := e.editor.ordered()
	full := []rune(t.Text)
	e.UpdateEditorText(string(full[:start]) + string(full[end:]))
	e.editor.selStart = start
	e.editor.selEnd = start
	return text
}

// Paste splices the internal clipboard in at the caret, replacing any
// selected range and keeping the clipboard's own styles.
func (e *Engine) Paste() {
	t := e.editedText()
	if t == nil || len(e.clipboard) == 0 {
		return
	}
	e.touchHistory()

	start, end := e.editor.ordered()
	split := richtext.SplitAt(t.Runs, start, end)

	var out []richtext.Run
	pos := 0
	inserted := false
	for _, r := range split {
		n := len([]rune(r.Text))
		if pos+n <= start {
			out = append(out, r)
		} else if pos >= end {
			if !inserted {
				out = append(out, e.clipboard...)
				inserted = true
			}
			out = append(out, r)
		}
		pos += n
	}
	if !inserted {
		out = append(out, e.clipboard...)
	}

	t.Runs = richtext.Normalize(out)
	t.SyncText()

	caret := start + len([]rune(richtext.FullText(e.clipboard)))
	e.editor.selStart = caret
	e.editor.selEnd = caret

	e.index.Insert(t.ID, t.Bounds(e.measure))
	e.recomputeSelectionBounds()
	e.dirty = true
}

func (e *Engine) editedText() *document.TextElement {
	if e.editor == nil {
		return nil
	}
	t := e.textByID(e.editor.textID)
	if t == nil {
		e.editor = nil
		return nil
	}
	return t
}

// touchHistory saves one history entry per editing session, before the
// first content mutation.
func (e *Engine) touchHistory() {
	if e.editor != nil && !e.editor.touched {
		e.hist.Save(e.strokes, e.texts)
		e.editor.touched = true
	}
}

func (ed *textEditor) ordered() (int, int) {
	if ed.selStart <= ed.selEnd {
		return ed.selStart, ed.selEnd
	}
	return ed.selEnd, ed.selStart
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}
