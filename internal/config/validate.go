package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/example/go-readmaker/internal/tokenizer"
)

const (
	UnitCodepoint = tokenizer.UnitCodepoint
	UnitGrapheme  = tokenizer.UnitGrapheme
)

// NormalizeFallbackUnit maps a configured unit name to a tokenizer unit.
// It accepts the same names and aliases as tokenizer.ParseUnit.
func NormalizeFallbackUnit(raw string) (tokenizer.Unit, error) {
	return tokenizer.ParseUnit(raw)
}

// ParseLogLevel converts a case-insensitive level string to slog.Level.
// An empty string returns slog.LevelInfo. Unknown strings return an error.
func ParseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "", "info":
		return slog.LevelInfo, nil
	case "debug":
		return slog.LevelDebug, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q (want debug|info|warn|error)", s)
	}
}

// Validate reports every invalid setting in c.
func (c Config) Validate() error {
	var errs []error
	if _, err := NormalizeFallbackUnit(c.Analysis.FallbackUnit); err != nil {
		errs = append(errs, err)
	}
	if c.Analysis.MaxChunkRunes < 0 {
		errs = append(errs, fmt.Errorf("max_chunk_runes must be >= 0, got %d", c.Analysis.MaxChunkRunes))
	}
	if c.Analysis.BatchWorkers < 0 {
		errs = append(errs, fmt.Errorf("batch_workers must be >= 0, got %d", c.Analysis.BatchWorkers))
	}
	if _, err := ParseLogLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}
