// Package capi adapts the process-wide Bridge to C calling conventions.
//
// Result strings are allocated on the C heap and recorded in the bridge
// ledger; the host must return each one through FreeString exactly once.
// Input strings are borrowed: they are copied before the call returns and
// never retained or freed.
//
// The functions take and return unsafe.Pointer so that the exporting main
// package and the tests can call them without importing "C" themselves.
package capi

/*
#include <stdlib.h>
*/
import "C"

import (
	"fmt"
	"log/slog"
	"os"
	"sync"
	"unsafe"

	"github.com/example/go-readmaker/internal/bridge"
	"github.com/example/go-readmaker/internal/config"
	"github.com/example/go-readmaker/internal/morph"
)

// Return codes of SetDictionaryPath.
const (
	CodeOK      = 0
	CodeInvalid = -1
)

var (
	bootstrapOnce sync.Once
	shared        *bridge.Bridge
)

// Bridge returns the process-wide bridge, building it from configuration
// (READMAKER_* env vars and ./readmaker.{yaml,toml,json}) on first use.
func Bridge() *bridge.Bridge {
	bootstrapOnce.Do(func() {
		shared = bootstrap()
	})
	return shared
}

func bootstrap() *bridge.Bridge {
	cfg, err := config.Load(config.LoadOptions{Defaults: config.DefaultConfig()})
	if err != nil {
		cfg = config.DefaultConfig()
	}

	level, lvlErr := config.ParseLogLevel(cfg.LogLevel)
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	if err != nil {
		logger.Warn("configuration unreadable, using defaults", "error", err)
	}
	if lvlErr != nil {
		logger.Warn("invalid log level, using info", "error", lvlErr)
	}

	b, err := bridge.New(bridge.WithConfig(cfg), bridge.WithLogger(logger))
	if err != nil {
		logger.Warn("invalid analysis settings, using defaults", "error", err)
		cfg.Analysis = config.DefaultConfig().Analysis
		b, err = bridge.New(bridge.WithConfig(cfg), bridge.WithLogger(logger))
		if err != nil {
			panic(fmt.Sprintf("capi: default bridge: %v", err))
		}
	}
	return b
}

// AnalyzeText segments the NUL-terminated UTF-8 string at input and returns
// a newly allocated JSON string array. It returns nil for a nil or non-UTF-8
// input.
func AnalyzeText(input unsafe.Pointer) unsafe.Pointer {
	return analyze(input, (*bridge.Bridge).Analyze)
}

// AnalyzeTextRich is AnalyzeText with the rich payload.
func AnalyzeTextRich(input unsafe.Pointer) unsafe.Pointer {
	return analyze(input, (*bridge.Bridge).AnalyzeRich)
}

func analyze(input unsafe.Pointer, fn func(*bridge.Bridge, string) (string, error)) unsafe.Pointer {
	if input == nil {
		return nil
	}
	b := Bridge()
	out, err := fn(b, C.GoString((*C.char)(input)))
	if err != nil {
		b.Logger().Warn("analyze_text rejected input", "error", err)
		return nil
	}
	return own(b, out)
}

// TestBridge returns a newly allocated copy of the diagnostic message.
func TestBridge() unsafe.Pointer {
	b := Bridge()
	return own(b, b.Ping())
}

// FreeString releases a string returned by this package. A nil pointer is a
// no-op. A pointer that is not outstanding is logged and left alone.
//
// Releasing a string twice violates the caller contract. The ledger only
// catches it while the address has not been handed out again.
func FreeString(p unsafe.Pointer) {
	if p == nil {
		return
	}
	b := Bridge()
	if err := b.Ledger().Release(uintptr(p)); err != nil {
		b.Logger().Error("free_string called with a pointer that is not outstanding",
			"addr", fmt.Sprintf("%#x", uintptr(p)), "error", err)
		return
	}
	C.free(p)
}

// SetDictionaryPath sets the dictionary path used by the next load. It
// returns CodeOK, or CodeInvalid for a nil, empty or non-UTF-8 path.
func SetDictionaryPath(path unsafe.Pointer) int {
	if path == nil {
		return CodeInvalid
	}
	if err := Bridge().SetDictionaryPath(C.GoString((*C.char)(path))); err != nil {
		return CodeInvalid
	}
	return CodeOK
}

// ReloadDictionary re-attempts the dictionary load and returns the resulting
// state code.
func ReloadDictionary() int {
	return int(Bridge().Reload())
}

// DictionaryState returns the current state code without loading.
func DictionaryState() int {
	return int(Bridge().State())
}

// Outstanding returns the number of result strings not yet freed.
func Outstanding() int {
	return Bridge().Ledger().Outstanding()
}

// State codes returned by ReloadDictionary and DictionaryState.
const (
	StateUninitialized = int(morph.Uninitialized)
	StateLoading       = int(morph.Loading)
	StateReady         = int(morph.Ready)
	StateDegraded      = int(morph.Degraded)
)

func own(b *bridge.Bridge, s string) unsafe.Pointer {
	p := unsafe.Pointer(C.CString(s))
	b.Ledger().Track(uintptr(p))
	return p
}

// CString copies s to the C heap. The caller frees it with Free. It exists
// for hosts written in Go and for tests, which cannot use cgo directly.
func CString(s string) unsafe.Pointer {
	return unsafe.Pointer(C.CString(s))
}

// GoString copies the NUL-terminated string at p.
func GoString(p unsafe.Pointer) string {
	if p == nil {
		return ""
	}
	return C.GoString((*C.char)(p))
}

// Free releases memory obtained from CString.
func Free(p unsafe.Pointer) {
	C.free(p)
}
