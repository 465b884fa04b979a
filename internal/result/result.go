// Package result renders tokenization output as the JSON payloads returned
// across the host boundary.
//
// Two shapes exist. The lightweight shape is an array of surface strings;
// the rich shape is an array of Record objects. Both are encoded without
// HTML escaping and without a trailing newline. An encoding failure never
// propagates: the payload degrades to an empty array.
package result

import (
	"bytes"
	"encoding/json"
	"log/slog"

	"github.com/example/go-readmaker/internal/tokenizer"
)

// Empty is the payload for zero tokens and the degraded payload on failure.
const Empty = "[]"

// Record is one element of the rich payload.
type Record struct {
	Surface      string   `json:"surface"`
	Reading      string   `json:"reading"`
	PartOfSpeech string   `json:"part_of_speech"`
	Features     []string `json:"features"`
}

// NewRecord builds the rich record for t.
func NewRecord(t tokenizer.Token) Record {
	return Record{
		Surface:      t.Surface,
		Reading:      t.Reading(),
		PartOfSpeech: t.PartOfSpeech(),
		Features:     t.Features(),
	}
}

// EncodeWords renders the surfaces of tokens as a JSON string array.
func EncodeWords(tokens []tokenizer.Token) string {
	return encode(tokenizer.Surfaces(tokens))
}

// EncodeStrings renders words as a JSON string array.
func EncodeStrings(words []string) string {
	if words == nil {
		words = []string{}
	}
	return encode(words)
}

// EncodeRich renders tokens as an array of Record objects.
func EncodeRich(tokens []tokenizer.Token) string {
	records := make([]Record, len(tokens))
	for i, t := range tokens {
		records[i] = NewRecord(t)
	}
	return encode(records)
}

func encode(v any) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		slog.Error("encode result payload", "error", err)
		return Empty
	}
	return string(bytes.TrimSuffix(buf.Bytes(), []byte("\n")))
}
