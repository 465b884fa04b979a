package morph

import (
	"context"
	"errors"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/example/go-readmaker/internal/result"
	"github.com/example/go-readmaker/internal/text"
	"github.com/example/go-readmaker/internal/tokenizer"
)

// ErrNoEngine is reported when a Service has no engine to analyse with.
var ErrNoEngine = errors.New("morph: no dictionary engine")

// ---------------------------------------------------------------------------
// Functional options
// ---------------------------------------------------------------------------

type options struct {
	fallback      tokenizer.Unit
	maxChunkRunes int
	batchWorkers  int
	logger        *slog.Logger
}

func defaultOptions() options {
	return options{
		fallback:     tokenizer.UnitCodepoint,
		batchWorkers: 4,
		logger:       slog.Default(),
	}
}

// Option configures a Service.
type Option func(*options)

// WithFallbackUnit sets how text is split when the engine is unavailable.
func WithFallbackUnit(u tokenizer.Unit) Option {
	return func(o *options) { o.fallback = u }
}

// WithMaxChunkRunes splits inputs longer than n runes into sentence chunks
// analysed independently. Zero disables chunking.
func WithMaxChunkRunes(n int) Option {
	return func(o *options) { o.maxChunkRunes = n }
}

// WithBatchWorkers bounds the number of texts AnalyzeBatch works on at once.
func WithBatchWorkers(n int) Option {
	return func(o *options) { o.batchWorkers = n }
}

// WithLogger sets the logger used for fallback warnings.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// ---------------------------------------------------------------------------
// Service
// ---------------------------------------------------------------------------

// Result is the segmentation of one input.
type Result struct {
	Tokens []tokenizer.Token
	// Degraded is set when the tokens come from the fallback segmenter.
	Degraded bool
}

// Words returns the token surfaces.
func (r Result) Words() []string {
	return tokenizer.Surfaces(r.Tokens)
}

// Service analyses text with an Engine and falls back to dictionary-free
// segmentation whenever the engine cannot serve a call.
type Service struct {
	engine   *Engine
	fallback tokenizer.Fallback
	opts     options
	log      *slog.Logger
}

// NewService wraps e. A nil e yields a Service that always falls back.
func NewService(e *Engine, optFns ...Option) *Service {
	opts := defaultOptions()
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.logger == nil {
		opts.logger = slog.Default()
	}
	return &Service{
		engine:   e,
		fallback: tokenizer.Fallback{Unit: opts.fallback},
		opts:     opts,
		log:      opts.logger,
	}
}

// Engine returns the underlying engine.
func (s *Service) Engine() *Engine { return s.engine }

// Status reports the engine status. A Service without an engine is
// Uninitialized.
func (s *Service) Status() Status {
	if s.engine == nil {
		return Status{State: Uninitialized}
	}
	return s.engine.Status()
}

// Tokenize segments input. It never fails: when the dictionary is
// unavailable or analysis errors, the fallback segmentation is returned and
// a warning is logged.
func (s *Service) Tokenize(input string) Result {
	if input == "" {
		return Result{Tokens: []tokenizer.Token{}}
	}

	if s.engine == nil {
		return s.degrade(input, "no dictionary loaded", ErrNoEngine)
	}

	a, err := s.engine.Analyzer()
	if err != nil {
		return s.degrade(input, "dictionary unavailable", err)
	}

	chunks := text.ChunkBySentence(input, s.opts.maxChunkRunes)
	if len(chunks) == 1 {
		tokens, err := a.Tokenize(input)
		if err != nil {
			return s.degrade(input, "analysis failed", err)
		}
		return Result{Tokens: tokens}
	}

	var tokens []tokenizer.Token
	base := 0
	for _, chunk := range chunks {
		part, err := a.Tokenize(chunk)
		if err != nil {
			return s.degrade(input, "analysis failed", err)
		}
		for _, t := range part {
			t.Start += base
			t.End += base
			tokens = append(tokens, t)
		}
		base += len(chunk)
	}
	return Result{Tokens: tokens}
}

func (s *Service) degrade(input, reason string, err error) Result {
	s.log.Warn(reason+", using fallback segmentation",
		"error", err, "unit", string(s.fallback.Unit), "bytes", len(input))
	return Result{Tokens: s.fallback.Segment(input), Degraded: true}
}

// Words segments input and returns the surfaces.
func (s *Service) Words(input string) []string {
	return s.Tokenize(input).Words()
}

// WordsJSON segments input and returns the lightweight JSON payload.
func (s *Service) WordsJSON(input string) string {
	return result.EncodeWords(s.Tokenize(input).Tokens)
}

// RichJSON segments input and returns the rich JSON payload.
func (s *Service) RichJSON(input string) string {
	return result.EncodeRich(s.Tokenize(input).Tokens)
}

// AnalyzeBatch segments every text concurrently and returns one payload per
// input, in order. Cancelling ctx stops scheduling further texts and returns
// ctx's error.
func (s *Service) AnalyzeBatch(ctx context.Context, texts []string, rich bool) ([]string, error) {
	out := make([]string, len(texts))

	g, gctx := errgroup.WithContext(ctx)
	if s.opts.batchWorkers > 0 {
		g.SetLimit(s.opts.batchWorkers)
	}

	for i, input := range texts {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			if rich {
				out[i] = s.RichJSON(input)
			} else {
				out[i] = s.WordsJSON(input)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
