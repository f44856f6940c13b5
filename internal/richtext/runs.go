// Package richtext models a text element's content as an ordered list of
// style-homogeneous runs. Edits arrive as flat strings from the frontend
// input; the run list is reconciled against them diff-style so inline
// styling survives typing.
package richtext

// Style is the inline style of a run.
type Style struct {
	Bold          bool `json:"bold,omitempty"`
	Italic        bool `json:"italic,omitempty"`
	Strikethrough bool `json:"strikethrough,omitempty"`
}

// Run is a style-homogeneous fragment of text.
type Run struct {
	Text          string `json:"text"`
	Bold          bool   `json:"bold,omitempty"`
	Italic        bool   `json:"italic,omitempty"`
	Strikethrough bool   `json:"strikethrough,omitempty"`
}

// StyleOf returns the run's style flags.
func (r Run) StyleOf() Style {
	return Style{Bold: r.Bold, Italic: r.Italic, Strikethrough: r.Strikethrough}
}

func withStyle(text string, s Style) Run {
	return Run{Text: text, Bold: s.Bold, Italic: s.Italic, Strikethrough: s.Strikethrough}
}

// Field selects one style flag for toggling.
type Field int

const (
	FieldBold Field = iota
	FieldItalic
	FieldStrikethrough
)

func (s Style) get(f Field) bool {
	switch f {
	case FieldBold:
		return s.Bold
	case FieldItalic:
		return s.Italic
	case FieldStrikethrough:
		return s.Strikethrough
	}
	return false
}

func (s Style) with(f Field, on bool) Style {
	switch f {
	case FieldBold:
		s.Bold = on
	case FieldItalic:
		s.Italic = on
	case FieldStrikethrough:
		s.Strikethrough = on
	}
	return s
}

// FullText returns the concatenation of all run texts.
func FullText(runs []Run) string {
	var out []rune
	for _, r := range runs {
		out = append(out, []rune(r.Text)...)
	}
	return string(out)
}

// Normalize merges adjacent runs with identical styles and drops empty runs.
// An empty text element is represented as a single empty run.
func Normalize(runs []Run) []Run {
	var out []Run
	for _, r := range runs {
		if r.Text == "" {
			continue
		}
		if len(out) > 0 && out[len(out)-1].StyleOf() == r.StyleOf() {
			out[len(out)-1].Text += r.Text
			continue
		}
		out = append(out, r)
	}
	if len(out) == 0 {
		return []Run{{}}
	}
	return out
}

// SplitAt slices runs at the given character offsets without changing style.
// Offsets are in runes, must be non-decreasing, and are clamped to the text
// length. This is the shared primitive under diffing and range styling.
func SplitAt(runs []Run, offsets ...int) []Run {
	var out []Run
	pos := 0
	oi := 0

	for _, r := range runs {
		text := []rune(r.Text)
		start := 0
		for oi < len(offsets) {
			cut := offsets[oi] - pos
			if cut < 0 {
				cut = 0
			}
			if cut > len(text) {
				break
			}
			if cut > start {
				out = append(out, withStyle(string(text[start:cut]), r.StyleOf()))
				start = cut
			}
			oi++
		}
		if start < len(text) {
			out = append(out, withStyle(string(text[start:]), r.StyleOf()))
		}
		pos += len(text)
	}

	if len(out) == 0 {
		out = runs
	}
	return out
}

// styleAt returns the style of the character at rune index i, or the first
// run's style when i precedes all text.
func styleAt(runs []Run, i int) Style {
	if len(runs) == 0 {
		return Style{}
	}
	if i < 0 {
		return runs[0].StyleOf()
	}
	pos := 0
	for _, r := range runs {
		n := len([]rune(r.Text))
		if i < pos+n {
			return r.StyleOf()
		}
		pos += n
	}
	return runs[len(runs)-1].StyleOf()
}

// UpdateFromText reconciles runs against a new flat text. The common prefix
// and suffix are preserved with their styles; the remainder is treated as a
// single inserted span styled like the character just before the insertion
// point (or like the first run when inserting at the start).
func UpdateFromText(runs []Run, newText string) []Run {
	oldRunes := []rune(FullText(runs))
	newRunes := []rune(newText)

	prefix := 0
	for prefix < len(oldRunes) && prefix < len(newRunes) && oldRunes[prefix] == newRunes[prefix] {
		prefix++
	}

	suffix := 0
	for suffix < len(oldRunes)-prefix && suffix < len(newRunes)-prefix &&
		oldRunes[len(oldRunes)-1-suffix] == newRunes[len(newRunes)-1-suffix] {
		suffix++
	}

	insertStyle := styleAt(runs, prefix-1)
	inserted := string(newRunes[prefix : len(newRunes)-suffix])

	// Rebuild: prefix fragments, the inserted span, then suffix fragments.
	var out []Run
	appendRun := func(r Run) {
		if r.Text == "" {
			return
		}
		if len(out) > 0 && out[len(out)-1].StyleOf() == r.StyleOf() {
			out[len(out)-1].Text += r.Text
			return
		}
		out = append(out, r)
	}

	pos := 0
	suffixStart := len(oldRunes) - suffix
	for _, r := range runs {
		text := []rune(r.Text)
		end := pos + len(text)

		if pos < prefix {
			keep := min(prefix, end) - pos
			appendRun(withStyle(string(text[:keep]), r.StyleOf()))
		}
		if pos == prefix || (pos < prefix && end >= prefix) {
			// Crossing the insertion point: splice in the inserted span.
			if inserted != "" {
				appendRun(withStyle(inserted, insertStyle))
				inserted = ""
			}
		}
		if end > suffixStart {
			from := max(suffixStart, pos) - pos
			appendRun(withStyle(string(text[from:]), r.StyleOf()))
		}

		pos = end
	}
	if inserted != "" {
		appendRun(withStyle(inserted, insertStyle))
	}

	result := Normalize(out)

	// The reconciliation must be lossless. If it ever is not, degrade to a
	// single run so the element still renders the typed text.
	if FullText(result) != newText {
		result = Normalize([]Run{withStyle(newText, insertStyle)})
	}
	return result
}

// ApplyToRange toggles one style flag over [start, end) rune offsets: if
// every character in the range already has the flag the flag is cleared,
// otherwise it is set for the whole range. An empty range styles the whole
// text. The result is normalized.
func ApplyToRange(runs []Run, start, end int, field Field) []Run {
	total := len([]rune(FullText(runs)))
	if start > end {
		start, end = end, start
	}
	if start == end {
		start, end = 0, total
	}
	start = max(0, min(start, total))
	end = max(0, min(end, total))
	if start == end {
		return Normalize(runs)
	}

	split := SplitAt(runs, start, end)

	// Uniformly styled already?
	allOn := true
	pos := 0
	for _, r := range split {
		n := len([]rune(r.Text))
		if pos < end && pos+n > start && !r.StyleOf().get(field) {
			allOn = false
			break
		}
		pos += n
	}

	out := make([]Run, 0, len(split))
	pos = 0
	for _, r := range split {
		n := len([]rune(r.Text))
		if pos < end && pos+n > start {
			out = append(out, withStyle(r.Text, r.StyleOf().with(field, !allOn)))
		} else {
			out = append(out, r)
		}
		pos += n
	}

	return Normalize(out)
}
