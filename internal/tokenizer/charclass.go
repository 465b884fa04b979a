package tokenizer

import (
	"unicode"

	"golang.org/x/text/width"
)

// Builtin class names, following the usual char.def naming.
const (
	classSpace    = "SPACE"
	classHiragana = "HIRAGANA"
	classKatakana = "KATAKANA"
	classKanji    = "KANJI"
	classNumeric  = "NUMERIC"
	classAlpha    = "ALPHA"
	classGreek    = "GREEK"
	classCyrillic = "CYRILLIC"
	classSymbol   = "SYMBOL"
)

// builtinClass names the class of r from its Unicode properties. Fullwidth
// ASCII and halfwidth katakana are folded first so that "Ａ" classifies like
// "A" and "ｶ" like "カ". It returns "" when no builtin class applies.
func builtinClass(r rune) string {
	if f := width.LookupRune(r).Folded(); f != 0 {
		r = f
	}

	switch {
	case unicode.IsSpace(r):
		return classSpace
	case unicode.Is(unicode.Hiragana, r):
		return classHiragana
	case unicode.Is(unicode.Katakana, r), r == 'ー', r == 'ｰ':
		return classKatakana
	case unicode.Is(unicode.Han, r), r == '〆', r == '〇':
		return classKanji
	case unicode.IsDigit(r):
		return classNumeric
	case unicode.Is(unicode.Latin, r):
		return classAlpha
	case unicode.Is(unicode.Greek, r):
		return classGreek
	case unicode.Is(unicode.Cyrillic, r):
		return classCyrillic
	case unicode.IsPunct(r), unicode.IsSymbol(r):
		return classSymbol
	default:
		return ""
	}
}
