// Package morph owns the analysis engine lifecycle and the analysis service
// built on top of it.
//
// An Engine loads its dictionary lazily, at most once, on first use. The
// outcome is published atomically: readers after the load never lock. A
// failed load leaves the Engine Degraded until Reload is called, and every
// analysis in that state is served by the fallback segmenter.
package morph

import (
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/example/go-readmaker/internal/dictionary"
	"github.com/example/go-readmaker/internal/tokenizer"
)

// State is the lifecycle stage of an Engine.
type State int32

const (
	Uninitialized State = iota
	Loading
	Ready
	Degraded
)

func (s State) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case Loading:
		return "loading"
	case Ready:
		return "ready"
	case Degraded:
		return "degraded"
	default:
		return fmt.Sprintf("State(%d)", int32(s))
	}
}

// MarshalText renders the state by name.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Status describes the last load attempt.
type Status struct {
	State      State     `json:"state"`
	Path       string    `json:"dictionary_path,omitempty"`
	Format     string    `json:"format,omitempty"`
	Entries    int       `json:"entries,omitempty"`
	Error      string    `json:"error,omitempty"`
	LoadedAt   time.Time `json:"loaded_at,omitzero"`
	LoadMillis int64     `json:"load_ms,omitempty"`
}

// loaded is the published outcome of one load attempt.
type loaded struct {
	analyzer *tokenizer.Analyzer
	err      error
	path     string
	format   dictionary.Format
	entries  int
	at       time.Time
	took     time.Duration
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithLoader replaces the dictionary loader.
func WithLoader(l dictionary.Loader) EngineOption {
	return func(e *Engine) { e.loader = l }
}

// WithEngineLogger sets the logger used for load events.
func WithEngineLogger(l *slog.Logger) EngineOption {
	return func(e *Engine) {
		if l != nil {
			e.log = l
		}
	}
}

// Engine holds the analyzer for one dictionary source.
type Engine struct {
	source func() string
	loader dictionary.Loader
	log    *slog.Logger

	group   singleflight.Group
	state   atomic.Int32
	current atomic.Pointer[loaded]
}

// NewEngine returns an Uninitialized engine. source is called at every load
// attempt to pick the dictionary path; a nil source loads DefaultPath.
func NewEngine(source func() string, opts ...EngineOption) *Engine {
	if source == nil {
		source = func() string { return dictionary.DefaultPath }
	}
	e := &Engine{source: source, log: slog.Default()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// NewEngineFromDictionary returns an engine that is Ready with d.
func NewEngineFromDictionary(d *dictionary.Dictionary, opts ...EngineOption) (*Engine, error) {
	a, err := tokenizer.New(d)
	if err != nil {
		return nil, err
	}
	e := NewEngine(nil, opts...)
	e.publish(&loaded{analyzer: a, path: "<memory>", entries: len(d.Entries), at: time.Now()})
	return e, nil
}

// State returns the current lifecycle stage.
func (e *Engine) State() State {
	return State(e.state.Load())
}

// Analyzer returns the loaded analyzer, loading the dictionary on first use.
// Concurrent first callers share one load. In the Degraded state it returns
// the load error without retrying.
func (e *Engine) Analyzer() (*tokenizer.Analyzer, error) {
	l := e.current.Load()
	if l == nil {
		l = e.run(false)
	}
	return l.analyzer, l.err
}

// Reload discards the published outcome and loads again, consulting the
// source anew. It returns the resulting state. A Reload issued while a load
// is in flight waits for that load.
func (e *Engine) Reload() State {
	e.run(true)
	return e.State()
}

// Status reports the last load attempt.
func (e *Engine) Status() Status {
	st := Status{State: e.State()}
	l := e.current.Load()
	if l == nil {
		return st
	}
	st.Path = l.path
	st.Entries = l.entries
	st.LoadedAt = l.at
	st.LoadMillis = l.took.Milliseconds()
	if l.err != nil {
		st.Error = l.err.Error()
	} else if l.path != "<memory>" {
		st.Format = l.format.String()
	}
	return st
}

func (e *Engine) run(force bool) *loaded {
	v, _, _ := e.group.Do("load", func() (any, error) {
		if !force {
			if l := e.current.Load(); l != nil {
				return l, nil
			}
		}
		return e.load(), nil
	})
	return v.(*loaded)
}

func (e *Engine) load() *loaded {
	e.state.Store(int32(Loading))
	start := time.Now()
	path := e.source()

	l := &loaded{path: path, at: start}
	d, format, err := e.loader.Load(path)
	if err == nil {
		l.format = format
		l.entries = len(d.Entries)
		l.analyzer, err = tokenizer.New(d)
	}
	l.err = err
	l.took = time.Since(start)

	if err != nil {
		e.log.Warn("dictionary load failed, falling back to per-character segmentation",
			"path", path, "error", err, "duration", l.took)
	} else {
		e.log.Info("dictionary loaded",
			"path", path, "format", format.String(), "entries", l.entries, "duration", l.took)
	}

	e.publish(l)
	return l
}

func (e *Engine) publish(l *loaded) {
	e.current.Store(l)
	if l.err != nil {
		e.state.Store(int32(Degraded))
		return
	}
	e.state.Store(int32(Ready))
}
