// Package bridge is the host-facing surface of the analyzer. It validates
// borrowed input, routes it through the analysis service, and keeps the
// ledger of result buffers the host must hand back.
//
// The C ABI in internal/capi is a thin adapter over a Bridge; everything
// that can be tested without cgo lives here.
package bridge

import (
	"errors"
	"log/slog"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/example/go-readmaker/internal/config"
	"github.com/example/go-readmaker/internal/dictionary"
	"github.com/example/go-readmaker/internal/morph"
)

// DiagnosticMessage is the fixed reply of Ping.
const DiagnosticMessage = "ReadMaker Bridge - OK"

var (
	// ErrInvalidInput is returned for input that is not valid UTF-8.
	ErrInvalidInput = errors.New("bridge: input is not valid UTF-8")
	// ErrEmptyPath is returned when an empty dictionary path is configured.
	ErrEmptyPath = errors.New("bridge: empty dictionary path")
)

// ---------------------------------------------------------------------------
// Functional options
// ---------------------------------------------------------------------------

type options struct {
	cfg    config.Config
	loader dictionary.Loader
	logger *slog.Logger
}

// Option configures a Bridge.
type Option func(*options)

// WithConfig sets the configured dictionary path and analysis settings.
func WithConfig(cfg config.Config) Option {
	return func(o *options) { o.cfg = cfg }
}

// WithLoader replaces the dictionary loader.
func WithLoader(l dictionary.Loader) Option {
	return func(o *options) { o.loader = l }
}

// WithLogger sets the logger shared by the bridge, engine and service.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// ---------------------------------------------------------------------------
// Bridge
// ---------------------------------------------------------------------------

// Bridge owns one analysis engine and the ledger of outstanding buffers.
type Bridge struct {
	svc    *morph.Service
	ledger *Ledger
	log    *slog.Logger

	configured string

	mu       sync.RWMutex
	override string
}

// New builds a Bridge. The dictionary is not loaded until the first analysis.
func New(optFns ...Option) (*Bridge, error) {
	opts := options{cfg: config.DefaultConfig(), logger: slog.Default()}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.logger == nil {
		opts.logger = slog.Default()
	}

	unit, err := config.NormalizeFallbackUnit(opts.cfg.Analysis.FallbackUnit)
	if err != nil {
		return nil, err
	}

	b := &Bridge{
		ledger:     NewLedger(),
		log:        opts.logger,
		configured: opts.cfg.Paths.DictionaryPath,
	}

	engine := morph.NewEngine(b.dictionaryPath,
		morph.WithLoader(opts.loader),
		morph.WithEngineLogger(opts.logger),
	)
	b.svc = morph.NewService(engine,
		morph.WithFallbackUnit(unit),
		morph.WithMaxChunkRunes(opts.cfg.Analysis.MaxChunkRunes),
		morph.WithBatchWorkers(opts.cfg.Analysis.BatchWorkers),
		morph.WithLogger(opts.logger),
	)
	return b, nil
}

// dictionaryPath resolves the path for the next load attempt.
func (b *Bridge) dictionaryPath() string {
	b.mu.RLock()
	override := b.override
	b.mu.RUnlock()
	return dictionary.ResolvePath(override, b.configured)
}

// Analyze segments input and returns the lightweight JSON payload. It only
// fails for invalid input; dictionary problems yield fallback output.
func (b *Bridge) Analyze(input string) (string, error) {
	if !utf8.ValidString(input) {
		return "", ErrInvalidInput
	}
	return b.svc.WordsJSON(input), nil
}

// AnalyzeRich is Analyze with the rich payload.
func (b *Bridge) AnalyzeRich(input string) (string, error) {
	if !utf8.ValidString(input) {
		return "", ErrInvalidInput
	}
	return b.svc.RichJSON(input), nil
}

// Ping returns DiagnosticMessage. It never touches the dictionary.
func (b *Bridge) Ping() string {
	return DiagnosticMessage
}

// SetDictionaryPath overrides the configured dictionary path. The new path
// is used by the next load attempt: the first analysis, or Reload.
func (b *Bridge) SetDictionaryPath(path string) error {
	if !utf8.ValidString(path) {
		return ErrInvalidInput
	}
	path = strings.TrimSpace(path)
	if path == "" {
		return ErrEmptyPath
	}

	b.mu.Lock()
	b.override = path
	b.mu.Unlock()

	b.log.Info("dictionary path set", "path", path, "state", b.State().String())
	return nil
}

// Reload re-attempts the dictionary load and returns the resulting state.
func (b *Bridge) Reload() morph.State {
	return b.svc.Engine().Reload()
}

// State returns the engine state without triggering a load.
func (b *Bridge) State() morph.State {
	return b.svc.Engine().State()
}

// Status returns the engine status without triggering a load.
func (b *Bridge) Status() morph.Status {
	return b.svc.Status()
}

// Service returns the analysis service.
func (b *Bridge) Service() *morph.Service { return b.svc }

// Ledger returns the buffer ledger.
func (b *Bridge) Ledger() *Ledger { return b.ledger }

// Logger returns the bridge logger.
func (b *Bridge) Logger() *slog.Logger { return b.log }
