// Package text splits and cleans input before analysis.
package text

import (
	"strings"
	"unicode/utf8"
)

// ChunkBySentence splits text into chunks at sentence boundaries, grouping
// consecutive sentences while a chunk stays within maxRunes runes.
// Chunks concatenate back to text exactly: no whitespace is trimmed or
// inserted. If maxRunes is 0 or negative, text is returned as one chunk.
// Sentences that individually exceed maxRunes are kept intact.
func ChunkBySentence(text string, maxRunes int) []string {
	if maxRunes <= 0 || text == "" {
		return []string{text}
	}

	sentences := Sentences(text)
	if len(sentences) <= 1 {
		return []string{text}
	}

	var chunks []string
	var current strings.Builder
	currentRunes := 0

	for _, s := range sentences {
		n := utf8.RuneCountInString(s)
		if currentRunes > 0 && currentRunes+n > maxRunes {
			chunks = append(chunks, current.String())
			current.Reset()
			currentRunes = 0
		}
		current.WriteString(s)
		currentRunes += n
	}
	if current.Len() > 0 {
		chunks = append(chunks, current.String())
	}

	return chunks
}

// Sentences splits text after each run of sentence terminators, keeping the
// terminators, any closing brackets that follow them and trailing
// whitespace attached to the sentence they end. The result tiles text.
func Sentences(text string) []string {
	var sentences []string
	start := 0
	inTerm := false

	for i, r := range text {
		switch {
		case isTerminator(r):
			inTerm = true
		case inTerm && (isCloser(r) || isSpace(r)):
		case inTerm:
			sentences = append(sentences, text[start:i])
			start = i
			inTerm = false
		}
	}

	if start < len(text) {
		sentences = append(sentences, text[start:])
	}

	return sentences
}

func isTerminator(r rune) bool {
	switch r {
	case '。', '．', '！', '？', '!', '?', '.', '\n':
		return true
	}
	return false
}

func isCloser(r rune) bool {
	switch r {
	case '」', '』', '）', ')', '】', '〉', '》', '"', '\'', '”', '’':
		return true
	}
	return false
}

func isSpace(r rune) bool {
	switch r {
	case ' ', '\t', '\r', '　':
		return true
	}
	return false
}
