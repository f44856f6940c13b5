// Package keymap maps keyboard chords to whiteboard actions. Chords are
// matched on physical key codes translated to logical letters, so bindings
// survive non-QWERTY layouts. The host persists bindings externally and
// hands them back as JSON.
package keymap

import (
	"encoding/json"
	"strings"
)

// Action names a bindable whiteboard command.
type Action string

const (
	ActionUndo       Action = "undo"
	ActionRedo       Action = "redo"
	ActionClear      Action = "clear"
	ActionToolDraw   Action = "toolDraw"
	ActionToolErase  Action = "toolErase"
	ActionToolSelect Action = "toolSelect"
	ActionToolText   Action = "toolText"
	ActionToggleUI   Action = "toggleUI"
)

// Chord is one key plus its modifier set.
type Chord struct {
	Key   string `json:"key"`
	Ctrl  bool   `json:"ctrl"`
	Shift bool   `json:"shift"`
	Alt   bool   `json:"alt"`
}

// Map binds actions to chords.
type Map struct {
	bindings map[Action]Chord
}

// Default returns the stock bindings.
func Default() *Map {
	return &Map{bindings: map[Action]Chord{
		ActionUndo:       {Key: "z", Ctrl: true},
		ActionRedo:       {Key: "z", Ctrl: true, Shift: true},
		ActionClear:      {Key: "k", Ctrl: true},
		ActionToolDraw:   {Key: "d"},
		ActionToolErase:  {Key: "e"},
		ActionToolSelect: {Key: "s"},
		ActionToolText:   {Key: "t"},
		ActionToggleUI:   {Key: "h", Ctrl: true, Shift: true},
	}}
}

// Bind replaces the chord of one action.
func (m *Map) Bind(a Action, c Chord) {
	c.Key = strings.ToLower(c.Key)
	m.bindings[a] = c
}

// Chord returns the binding for an action.
func (m *Map) Chord(a Action) (Chord, bool) {
	c, ok := m.bindings[a]
	return c, ok
}

// Match resolves a key event to an action. The code is the physical key
// ("KeyZ", "Digit1"); it takes precedence over the layout-dependent key
// value so shortcuts stay put on any layout. Returns "" for no match.
func (m *Map) Match(code, key string, ctrl, shift, alt bool) Action {
	logical := LogicalKey(code)
	if logical == "" {
		logical = strings.ToLower(key)
	}

	for action, c := range m.bindings {
		if c.Key == logical && c.Ctrl == ctrl && c.Shift == shift && c.Alt == alt {
			return action
		}
	}
	return ""
}

// LogicalKey translates a physical key code to the logical letter or digit
// it carries on a US reference layout, or "" when the code is not a plain
// letter/digit key.
func LogicalKey(code string) string {
	switch {
	case strings.HasPrefix(code, "Key") && len(code) == 4:
		return strings.ToLower(code[3:])
	case strings.HasPrefix(code, "Digit") && len(code) == 6:
		return code[5:]
	}
	return ""
}

// MarshalJSON serializes the bindings as an action→chord object.
func (m *Map) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.bindings)
}

// UnmarshalJSON loads bindings on top of the defaults; unknown actions are
// ignored so stale persisted configs still load.
func (m *Map) UnmarshalJSON(data []byte) error {
	var raw map[Action]Chord
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	if m.bindings == nil {
		m.bindings = Default().bindings
	}
	for action, chord := range raw {
		switch action {
		case ActionUndo, ActionRedo, ActionClear,
			ActionToolDraw, ActionToolErase, ActionToolSelect, ActionToolText,
			ActionToggleUI:
			chord.Key = strings.ToLower(chord.Key)
			m.bindings[action] = chord
		}
	}
	return nil
}
