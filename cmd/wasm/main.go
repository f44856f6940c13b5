//go:build js && wasm

package main

import (
	"encoding/json"
	"syscall/js"

	"github.com/quillboard/quillboard/backend-go/internal/engine"
	"github.com/quillboard/quillboard/backend-go/internal/keymap"
	"github.com/quillboard/quillboard/backend-go/internal/richtext"
)

var (
	eng  *engine.Engine
	keys *keymap.Map
)

func main() {
	eng = engine.NewEngine()
	keys = keymap.Default()

	// Create the engine API object
	board := js.Global().Get("Object").New()

	// --- Document lifecycle ---
	board.Set("loadDocument", js.FuncOf(loadDocument))
	board.Set("snapshot", js.FuncOf(snapshot))
	board.Set("renderThumbnail", js.FuncOf(renderThumbnail))

	// --- Tools and pointer input ---
	board.Set("setTool", js.FuncOf(setTool))
	board.Set("getTool", js.FuncOf(getTool))
	board.Set("setBrush", js.FuncOf(setBrush))
	board.Set("setEraserSize", js.FuncOf(setEraserSize))
	board.Set("setFont", js.FuncOf(setFont))
	board.Set("pointerDown", js.FuncOf(pointerDown))
	board.Set("pointerMove", js.FuncOf(pointerMove))
	board.Set("pointerUp", js.FuncOf(pointerUp))
	board.Set("wheel", js.FuncOf(wheel))

	// --- History and selection ---
	board.Set("undo", js.FuncOf(undo))
	board.Set("redo", js.FuncOf(redo))
	board.Set("canUndo", js.FuncOf(canUndo))
	board.Set("canRedo", js.FuncOf(canRedo))
	board.Set("clear", js.FuncOf(clear))
	board.Set("deleteSelection", js.FuncOf(deleteSelection))
	board.Set("clearSelection", js.FuncOf(clearSelection))

	// --- Text editing ---
	board.Set("editSelectedText", js.FuncOf(editSelectedText))
	board.Set("closeEditor", js.FuncOf(closeEditor))
	board.Set("editingTextId", js.FuncOf(editingTextID))
	board.Set("setEditorSelection", js.FuncOf(setEditorSelection))
	board.Set("updateEditorText", js.FuncOf(updateEditorText))
	board.Set("toggleStyle", js.FuncOf(toggleStyle))
	board.Set("copySelection", js.FuncOf(copySelection))
	board.Set("cutSelection", js.FuncOf(cutSelection))
	board.Set("paste", js.FuncOf(paste))

	// --- Keyboard ---
	board.Set("keyDown", js.FuncOf(keyDown))
	board.Set("getKeymap", js.FuncOf(getKeymap))
	board.Set("setKeymap", js.FuncOf(setKeymap))

	// --- Rendering ---
	board.Set("render", js.FuncOf(render))
	board.Set("tick", js.FuncOf(tick))

	// Register on global scope
	js.Global().Set("quillboardEngine", board)

	// Signal that WASM is ready
	js.Global().Set("quillboardWasmReady", js.ValueOf(true))

	// Keep Go runtime alive
	select {}
}

// --- Document lifecycle ---

func loadDocument(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return js.ValueOf(map[string]interface{}{"error": "missing document JSON"})
	}

	jsonData := args[0].String()
	if err := eng.LoadDocument(jsonData); err != nil {
		return js.ValueOf(map[string]interface{}{"error": err.Error()})
	}

	return js.ValueOf(map[string]interface{}{"ok": true})
}

func snapshot(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(eng.SnapshotJSON())
}

func renderThumbnail(this js.Value, args []js.Value) interface{} {
	maxW, maxH := 320, 200
	if len(args) >= 2 {
		maxW = args[0].Int()
		maxH = args[1].Int()
	}
	return js.ValueOf(eng.RenderThumbnail(maxW, maxH))
}

// --- Tools and pointer input ---

func setTool(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return nil
	}
	eng.SetTool(engine.Tool(args[0].String()))
	return nil
}

func getTool(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(string(eng.ActiveTool()))
}

func setBrush(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return nil
	}
	eng.SetBrush(args[0].Float(), args[1].String())
	return nil
}

func setEraserSize(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return nil
	}
	eng.SetEraserSize(args[0].Float())
	return nil
}

func setFont(this js.Value, args []js.Value) interface{} {
	if len(args) < 3 {
		return nil
	}
	eng.SetFont(args[0].Float(), args[1].String(), args[2].String())
	return nil
}

func pointerDown(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return nil
	}
	multi := len(args) >= 3 && args[2].Bool()
	eng.PointerDown(args[0].Float(), args[1].Float(), multi)
	return nil
}

func pointerMove(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return nil
	}
	eng.PointerMove(args[0].Float(), args[1].Float())
	return nil
}

func pointerUp(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return nil
	}
	eng.PointerUp(args[0].Float(), args[1].Float())
	return nil
}

func wheel(this js.Value, args []js.Value) interface{} {
	if len(args) < 4 {
		return nil
	}
	zoomMod := len(args) >= 5 && args[4].Bool()
	eng.Wheel(args[0].Float(), args[1].Float(), args[2].Float(), args[3].Float(), zoomMod)
	return nil
}

// --- History and selection ---

func undo(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(eng.Undo())
}

func redo(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(eng.Redo())
}

func canUndo(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(eng.CanUndo())
}

func canRedo(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(eng.CanRedo())
}

func clear(this js.Value, args []js.Value) interface{} {
	eng.Clear()
	return nil
}

func deleteSelection(this js.Value, args []js.Value) interface{} {
	eng.DeleteSelection()
	return nil
}

func clearSelection(this js.Value, args []js.Value) interface{} {
	eng.ClearSelection()
	return nil
}

// --- Text editing ---

func editSelectedText(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(eng.EditSelectedText())
}

func closeEditor(this js.Value, args []js.Value) interface{} {
	eng.CloseEditor()
	return nil
}

func editingTextID(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(eng.EditingTextID())
}

func setEditorSelection(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return nil
	}
	eng.SetEditorSelection(args[0].Int(), args[1].Int())
	return nil
}

func updateEditorText(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return nil
	}
	eng.UpdateEditorText(args[0].String())
	return nil
}

func toggleStyle(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return nil
	}
	switch args[0].String() {
	case "bold":
		eng.ToggleEditorStyle(richtext.FieldBold)
	case "italic":
		eng.ToggleEditorStyle(richtext.FieldItalic)
	case "strikethrough":
		eng.ToggleEditorStyle(richtext.FieldStrikethrough)
	}
	return nil
}

func copySelection(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(eng.CopySelection())
}

func cutSelection(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(eng.CutSelection())
}

func paste(this js.Value, args []js.Value) interface{} {
	eng.Paste()
	return nil
}

// --- Keyboard ---

// keyDown matches a key event against the bindings and applies the
// action. The matched action name is returned so the frontend can
// react to bindings it owns, like toggling the UI chrome.
func keyDown(this js.Value, args []js.Value) interface{} {
	if len(args) < 5 {
		return js.ValueOf("")
	}

	code := args[0].String()
	key := args[1].String()
	ctrl := args[2].Bool()
	shift := args[3].Bool()
	alt := args[4].Bool()

	// Shortcuts are suspended while a text editor is open, except the
	// style toggles the frontend routes separately.
	if eng.EditingTextID() != "" {
		return js.ValueOf("")
	}

	action := keys.Match(code, key, ctrl, shift, alt)
	switch action {
	case keymap.ActionUndo:
		eng.Undo()
	case keymap.ActionRedo:
		eng.Redo()
	case keymap.ActionClear:
		eng.Clear()
	case keymap.ActionToolDraw:
		eng.SetTool(engine.ToolDraw)
	case keymap.ActionToolErase:
		eng.SetTool(engine.ToolErase)
	case keymap.ActionToolSelect:
		eng.SetTool(engine.ToolSelect)
	case keymap.ActionToolText:
		eng.SetTool(engine.ToolText)
	}

	return js.ValueOf(string(action))
}

func getKeymap(this js.Value, args []js.Value) interface{} {
	data, err := json.Marshal(keys)
	if err != nil {
		return js.ValueOf("{}")
	}
	return js.ValueOf(string(data))
}

func setKeymap(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return js.ValueOf(map[string]interface{}{"error": "missing keymap JSON"})
	}
	if err := json.Unmarshal([]byte(args[0].String()), keys); err != nil {
		return js.ValueOf(map[string]interface{}{"error": err.Error()})
	}
	return js.ValueOf(map[string]interface{}{"ok": true})
}

// --- Rendering ---

func render(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(eng.Render())
}

func tick(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(eng.Tick())
}
