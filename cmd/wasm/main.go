//go:build js && wasm

package main

import (
	"encoding/json"
	"strings"
	"syscall/js"

	"github.com/planer/planer/internal/document"
	"github.com/planer/planer/internal/engine"
	"github.com/planer/planer/internal/registry"
)

var (
	session  *engine.Session
	recorder *engine.Recorder
)

func main() {
	recorder = &engine.Recorder{}
	session = engine.NewSession(registry.Default(), recorder)
	session.Replace(document.Sample())

	// Create the engine API object
	planerEngine := js.Global().Get("Object").New()

	// --- Commands (frontend → engine) ---
	planerEngine.Set("press", js.FuncOf(press))
	planerEngine.Set("drag", js.FuncOf(drag))
	planerEngine.Set("release", js.FuncOf(release))
	planerEngine.Set("setMode", js.FuncOf(setMode))
	planerEngine.Set("setKind", js.FuncOf(setKind))
	planerEngine.Set("setColors", js.FuncOf(setColors))
	planerEngine.Set("load", js.FuncOf(load))

	// --- Queries (frontend ← engine) ---
	planerEngine.Set("render", js.FuncOf(render))
	planerEngine.Set("save", js.FuncOf(save))
	planerEngine.Set("kinds", js.FuncOf(kinds))

	// Register on global scope
	js.Global().Set("planerEngine", planerEngine)

	// Signal that WASM is ready
	js.Global().Set("planerWasmReady", js.ValueOf(true))

	// Keep Go runtime alive
	select {}
}

func errorResult(err error) interface{} {
	return js.ValueOf(map[string]interface{}{"error": err.Error()})
}

func okResult() interface{} {
	return js.ValueOf(map[string]interface{}{"ok": true})
}

// pointerArgs reads (x, y, button?) in logical coordinates.
func pointerArgs(args []js.Value) (float64, float64, engine.Button, bool) {
	if len(args) < 2 {
		return 0, 0, engine.ButtonPrimary, false
	}
	b := engine.ButtonPrimary
	if len(args) > 2 && args[2].Type() == js.TypeString {
		b = engine.ParseButton(args[2].String())
	}
	return args[0].Float(), args[1].Float(), b, true
}

// --- Command Handlers ---

func press(this js.Value, args []js.Value) interface{} {
	x, y, b, ok := pointerArgs(args)
	if !ok {
		return nil
	}
	if err := session.Press(x, y, b); err != nil {
		return errorResult(err)
	}
	return okResult()
}

func drag(this js.Value, args []js.Value) interface{} {
	x, y, b, ok := pointerArgs(args)
	if !ok {
		return nil
	}
	session.Drag(x, y, b)
	return nil
}

func release(this js.Value, args []js.Value) interface{} {
	x, y, b, ok := pointerArgs(args)
	if !ok {
		return nil
	}
	session.Release(x, y, b)
	return nil
}

func setMode(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return nil
	}
	m, err := engine.ParseMode(args[0].String())
	if err == nil {
		err = session.SetMode(m)
	}
	if err != nil {
		return errorResult(err)
	}
	return okResult()
}

func setKind(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return nil
	}
	if err := session.SetActiveKind(args[0].String()); err != nil {
		return errorResult(err)
	}
	return okResult()
}

// setColors takes "#rrggbb" pen and background; an empty string keeps the
// current color.
func setColors(this js.Value, args []js.Value) interface{} {
	if len(args) > 0 && args[0].String() != "" {
		c, err := engine.ParseColor(args[0].String())
		if err != nil {
			return errorResult(err)
		}
		session.SetPen(c)
	}
	if len(args) > 1 && args[1].String() != "" {
		c, err := engine.ParseColor(args[1].String())
		if err != nil {
			return errorResult(err)
		}
		session.SetBackground(c)
		return okResult()
	}
	session.Redraw()
	return okResult()
}

func load(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return js.ValueOf(map[string]interface{}{"error": "missing document XML"})
	}

	report, err := session.Load(strings.NewReader(args[0].String()))
	if err != nil {
		return errorResult(err)
	}

	skipped := make([]interface{}, len(report.Skipped))
	for i, s := range report.Skipped {
		skipped[i] = map[string]interface{}{"index": s.Index, "type": s.Type}
	}
	return js.ValueOf(map[string]interface{}{"ok": true, "loaded": report.Loaded, "skipped": skipped})
}

// --- Query Handlers ---

// render drains the draw commands recorded since the last call.
func render(this js.Value, args []js.Value) interface{} {
	out, err := engine.DrawCommandsToJSON(recorder.Flush())
	if err != nil {
		return js.ValueOf("[]")
	}
	return js.ValueOf(out)
}

func save(this js.Value, args []js.Value) interface{} {
	var sb strings.Builder
	if err := session.Save(&sb); err != nil {
		return errorResult(err)
	}
	return js.ValueOf(sb.String())
}

func kinds(this js.Value, args []js.Value) interface{} {
	reg := session.Registry()
	type kind struct {
		ID          string `json:"id"`
		DisplayName string `json:"displayName"`
	}
	out := struct {
		Kinds  []kind              `json:"kinds"`
		Active string              `json:"active"`
		Mode   string              `json:"mode"`
		Menu   []registry.MenuItem `json:"menu"`
	}{Active: session.ActiveKind(), Mode: session.Mode().String(), Menu: reg.Menu()}
	for _, k := range reg.Kinds() {
		out.Kinds = append(out.Kinds, kind{ID: k, DisplayName: reg.DisplayName(k)})
	}

	data, err := json.Marshal(out)
	if err != nil {
		return errorResult(err)
	}
	return js.ValueOf(string(data))
}
