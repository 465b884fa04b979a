package tokenizer

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/clipperhouse/uax29/v2/graphemes"
)

// Unit selects how Fallback splits text.
type Unit string

const (
	// UnitCodepoint emits one token per Unicode scalar value.
	UnitCodepoint Unit = "codepoint"
	// UnitGrapheme emits one token per extended grapheme cluster, keeping
	// combining marks and emoji sequences together.
	UnitGrapheme Unit = "grapheme"
)

// ParseUnit maps a fallback unit name, including the "rune", "char" and
// "cluster" aliases, to a Unit. Empty selects UnitCodepoint.
func ParseUnit(s string) (Unit, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", string(UnitCodepoint), "rune", "char":
		return UnitCodepoint, nil
	case string(UnitGrapheme), "cluster":
		return UnitGrapheme, nil
	default:
		return "", fmt.Errorf("invalid fallback unit %q (expected %s|%s)", s, UnitCodepoint, UnitGrapheme)
	}
}

// Fallback segments text without a dictionary. It is total: every input,
// including invalid UTF-8, is split so that the surfaces concatenate back to
// the input.
type Fallback struct {
	Unit Unit
}

// Tokenize implements Tokenizer. It never fails.
func (f Fallback) Tokenize(text string) ([]Token, error) {
	return f.Segment(text), nil
}

// Segment splits text into fallback tokens.
func (f Fallback) Segment(text string) []Token {
	if f.Unit == UnitGrapheme {
		return segmentGraphemes(text)
	}
	return segmentCodepoints(text)
}

func segmentCodepoints(text string) []Token {
	tokens := make([]Token, 0, utf8.RuneCountInString(text))
	for i := 0; i < len(text); {
		_, size := utf8.DecodeRuneInString(text[i:])
		tokens = append(tokens, Token{Surface: text[i : i+size], Start: i, End: i + size, Kind: KindFallback})
		i += size
	}
	return tokens
}

func segmentGraphemes(text string) []Token {
	tokens := []Token{}
	iter := graphemes.FromString(text)
	for iter.Next() {
		tokens = append(tokens, Token{Surface: iter.Value(), Start: iter.Start(), End: iter.End(), Kind: KindFallback})
	}
	return tokens
}
