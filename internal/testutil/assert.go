package testutil

import (
	"encoding/json"
	"slices"
	"testing"
)

// DecodeWords parses a lightweight result payload, failing the test when it
// is not a JSON array of strings.
func DecodeWords(tb testing.TB, payload string) []string {
	tb.Helper()

	var words []string
	if err := json.Unmarshal([]byte(payload), &words); err != nil {
		tb.Fatalf("payload %q is not a JSON string array: %v", payload, err)
	}

	if words == nil {
		tb.Fatalf("payload %q decoded to null, want an array", payload)
	}

	return words
}

// AssertWords fails the test unless got equals want element by element.
func AssertWords(tb testing.TB, got, want []string) {
	tb.Helper()

	if !slices.Equal(got, want) {
		tb.Fatalf("words = %q, want %q", got, want)
	}
}

// AssertReconstructs fails the test unless the words concatenate to input.
func AssertReconstructs(tb testing.TB, input string, words []string) {
	tb.Helper()

	var joined []byte
	for _, w := range words {
		joined = append(joined, w...)
	}

	if string(joined) != input {
		tb.Fatalf("words %q concatenate to %q, want %q", words, joined, input)
	}
}
