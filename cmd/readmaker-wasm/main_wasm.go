//go:build js && wasm

package main

import (
	"fmt"
	"log/slog"
	"os"
	"sync"
	"syscall/js"
	"unicode/utf8"

	"github.com/example/go-readmaker/internal/bridge"
	"github.com/example/go-readmaker/internal/config"
	"github.com/example/go-readmaker/internal/dictionary"
	"github.com/example/go-readmaker/internal/morph"
	"github.com/example/go-readmaker/internal/result"
)

var (
	defaults  = config.DefaultConfig()
	logger    = slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))
	serviceMu sync.RWMutex
	// service has no engine until loadDictionary succeeds, so every call
	// falls back and warns.
	service = newService(nil)
)

// newService wraps e with the default analysis settings.
func newService(e *morph.Engine) *morph.Service {
	unit, err := config.NormalizeFallbackUnit(defaults.Analysis.FallbackUnit)
	if err != nil {
		unit = config.UnitCodepoint
	}
	return morph.NewService(e,
		morph.WithFallbackUnit(unit),
		morph.WithMaxChunkRunes(defaults.Analysis.MaxChunkRunes),
		morph.WithLogger(logger),
	)
}

func main() {
	kernel := map[string]any{
		"version":        "0.1.0-wasm",
		"loadDictionary": js.FuncOf(loadDictionaryAsync),
		"analyze":        js.FuncOf(analyzeText),
		"analyzeRich":    js.FuncOf(analyzeTextRich),
		"status":         js.FuncOf(dictionaryStatus),
		"testBridge":     js.FuncOf(testBridge),
	}

	js.Global().Set("ReadMakerKernel", js.ValueOf(kernel))
	println("ReadMaker wasm kernel loaded")
	select {}
}

func testBridge(_ js.Value, _ []js.Value) any {
	return bridge.DiagnosticMessage
}

func analyzeText(_ js.Value, args []js.Value) any {
	return analyze(args, false)
}

func analyzeTextRich(_ js.Value, args []js.Value) any {
	return analyze(args, true)
}

// analyze segments args[0]. Until a dictionary is loaded every call uses the
// fallback segmenter, logs a warning and reports degraded.
func analyze(args []js.Value, rich bool) any {
	if len(args) < 1 || args[0].Type() != js.TypeString {
		return errResult("missing text argument")
	}
	input := args[0].String()
	if !utf8.ValidString(input) {
		return errResult(bridge.ErrInvalidInput.Error())
	}

	serviceMu.RLock()
	svc := service
	serviceMu.RUnlock()

	res := svc.Tokenize(input)

	payload := result.EncodeWords(res.Tokens)
	if rich {
		payload = result.EncodeRich(res.Tokens)
	}

	return okResult(map[string]any{
		"json":     payload,
		"degraded": res.Degraded,
	})
}

func dictionaryStatus(_ js.Value, _ []js.Value) any {
	serviceMu.RLock()
	svc := service
	serviceMu.RUnlock()

	st := svc.Status()
	return okResult(map[string]any{
		"state":   st.State.String(),
		"entries": st.Entries,
		"format":  st.Format,
	})
}

func loadDictionaryAsync(_ js.Value, args []js.Value) any {
	promiseCtor := js.Global().Get("Promise")
	var handler js.Func
	handler = js.FuncOf(func(_ js.Value, pArgs []js.Value) any {
		defer handler.Release()
		resolve := pArgs[0]
		reject := pArgs[1]

		if len(args) < 1 {
			reject.Invoke("missing dictionary bytes argument")
			return nil
		}

		dictBytes, ok := copyJSBytes(args[0])
		if !ok || len(dictBytes) == 0 {
			reject.Invoke("dictionary bytes must be a non-empty Uint8Array/ArrayBuffer")
			return nil
		}

		go func() {
			res, err := loadDictionary(dictBytes)
			if err != nil {
				reject.Invoke(err.Error())
				return
			}
			resolve.Invoke(js.ValueOf(res))
		}()

		return nil
	})

	return promiseCtor.New(handler)
}

func loadDictionary(data []byte) (map[string]any, error) {
	d, format, err := dictionary.DecodeBytes(data)
	if err != nil {
		return nil, fmt.Errorf("decode dictionary: %w", err)
	}

	engine, err := morph.NewEngineFromDictionary(d, morph.WithEngineLogger(logger))
	if err != nil {
		return nil, fmt.Errorf("index dictionary: %w", err)
	}
	svc := newService(engine)
	logger.Info("dictionary loaded", "name", d.Name, "format", format.String(), "entries", len(d.Entries))

	serviceMu.Lock()
	service = svc
	serviceMu.Unlock()

	return okResult(map[string]any{
		"name":    d.Name,
		"format":  format.String(),
		"entries": len(d.Entries),
	}), nil
}

func copyJSBytes(v js.Value) ([]byte, bool) {
	if v.IsUndefined() || v.IsNull() {
		return nil, false
	}

	uint8Array := js.Global().Get("Uint8Array")
	if !uint8Array.IsUndefined() && v.InstanceOf(uint8Array) {
		buf := make([]byte, v.Get("length").Int())
		n := js.CopyBytesToGo(buf, v)
		return buf[:n], true
	}

	arrayBuffer := js.Global().Get("ArrayBuffer")
	if !arrayBuffer.IsUndefined() && v.InstanceOf(arrayBuffer) {
		wrapped := uint8Array.New(v)
		buf := make([]byte, wrapped.Get("length").Int())
		n := js.CopyBytesToGo(buf, wrapped)
		return buf[:n], true
	}

	return nil, false
}

func okResult(payload map[string]any) map[string]any {
	payload["ok"] = true
	return payload
}

func errResult(msg string) map[string]any {
	return map[string]any{
		"ok":    false,
		"error": msg,
	}
}
