// Package tokenizer splits Japanese text into words.
// The primary implementation is a dictionary-driven lattice analyzer; Fallback
// splits text without a dictionary so callers always get a segmentation.
package tokenizer

import (
	"errors"
	"strings"
)

// Tokenizer splits text into tokens whose surfaces concatenate back to the
// input.
type Tokenizer interface {
	Tokenize(text string) ([]Token, error)
}

// Kind tells where a token came from.
type Kind uint8

const (
	// KindKnown tokens match a lexicon entry.
	KindKnown Kind = iota
	// KindUnknown tokens were generated from a character class rule.
	KindUnknown
	// KindFallback tokens come from the dictionary-free segmenter.
	KindFallback
)

func (k Kind) String() string {
	switch k {
	case KindKnown:
		return "known"
	case KindUnknown:
		return "unknown"
	case KindFallback:
		return "fallback"
	default:
		return "invalid"
	}
}

// readingField is the IPADIC feature column holding the katakana reading.
const readingField = 7

// Token is one segment of the input. Start and End are byte offsets.
type Token struct {
	Surface string
	Feature string
	Start   int
	End     int
	Kind    Kind
}

// Features returns the comma separated feature fields. Tokens without a
// feature return an empty, non-nil slice.
func (t Token) Features() []string {
	if t.Feature == "" {
		return []string{}
	}
	return strings.Split(t.Feature, ",")
}

// PartOfSpeech returns the first feature field, or "" when there is none.
func (t Token) PartOfSpeech() string {
	head, _, _ := strings.Cut(t.Feature, ",")
	return head
}

// Reading returns the dictionary reading when the feature carries one,
// otherwise the surface.
func (t Token) Reading() string {
	f := t.Features()
	if len(f) > readingField && f[readingField] != "" && f[readingField] != "*" {
		return f[readingField]
	}
	return t.Surface
}

// Surfaces returns the surface of every token in order.
func Surfaces(tokens []Token) []string {
	out := make([]string, len(tokens))
	for i, t := range tokens {
		out[i] = t.Surface
	}
	return out
}

// Join concatenates the surfaces of tokens.
func Join(tokens []Token) string {
	var b strings.Builder
	for _, t := range tokens {
		b.WriteString(t.Surface)
	}
	return b.String()
}

var errBrokenPath = errors.New("tokenizer: segmentation does not cover the input")

// checkCoverage verifies that tokens tile text exactly.
func checkCoverage(text string, tokens []Token) error {
	pos := 0
	for _, t := range tokens {
		if t.Start != pos || t.End < t.Start || t.End > len(text) || text[t.Start:t.End] != t.Surface {
			return errBrokenPath
		}
		pos = t.End
	}
	if pos != len(text) {
		return errBrokenPath
	}
	return nil
}
