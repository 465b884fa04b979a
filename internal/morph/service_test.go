package morph

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/example/go-readmaker/internal/testutil"
	"github.com/example/go-readmaker/internal/tokenizer"
)

// syncBuffer is a bytes.Buffer safe for concurrent log writes.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func newReadyService(t *testing.T, opts ...Option) *Service {
	t.Helper()

	e, err := NewEngineFromDictionary(testutil.SampleDictionary())
	if err != nil {
		t.Fatalf("NewEngineFromDictionary: %v", err)
	}

	return NewService(e, opts...)
}

func newDegradedService(t *testing.T, logs *syncBuffer, opts ...Option) *Service {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(logs, nil))
	e := NewEngine(fixedPath(filepath.Join(t.TempDir(), "missing.dict")), WithEngineLogger(logger))

	return NewService(e, append([]Option{WithLogger(logger)}, opts...)...)
}

func TestService_Tokenize(t *testing.T) {
	s := newReadyService(t)

	res := s.Tokenize(testutil.SampleText)
	if res.Degraded {
		t.Fatal("ready engine produced degraded result")
	}

	testutil.AssertWords(t, res.Words(), testutil.SampleWords)
}

func TestService_Empty(t *testing.T) {
	s := newReadyService(t)

	if got := s.WordsJSON(""); got != "[]" {
		t.Fatalf("WordsJSON(\"\") = %s", got)
	}

	if got := s.RichJSON(""); got != "[]" {
		t.Fatalf("RichJSON(\"\") = %s", got)
	}
}

func TestService_FallbackWhenDegraded(t *testing.T) {
	var logs syncBuffer
	s := newDegradedService(t, &logs)

	res := s.Tokenize(testutil.SampleText)
	if !res.Degraded {
		t.Fatal("expected degraded result")
	}

	want := []string{"今", "日", "は", "良", "い", "天", "気", "で", "す", "。"}
	testutil.AssertWords(t, res.Words(), want)

	if !strings.Contains(logs.String(), "fallback segmentation") {
		t.Fatalf("expected fallback warning in logs, got %q", logs.String())
	}

	if s.Engine().State() != Degraded {
		t.Fatalf("state = %s, want degraded", s.Engine().State())
	}
}

func TestService_FallbackWarnsEveryCall(t *testing.T) {
	var logs syncBuffer
	s := newDegradedService(t, &logs)

	for range 3 {
		s.Words("猫")
	}

	if got := strings.Count(logs.String(), "using fallback segmentation"); got != 3 {
		t.Fatalf("fallback warnings = %d, want 3", got)
	}
}

func TestService_NoEngineFallsBackAndWarns(t *testing.T) {
	var logs syncBuffer
	s := NewService(nil, WithLogger(slog.New(slog.NewTextHandler(&logs, nil))))

	if st := s.Status(); st.State != Uninitialized {
		t.Fatalf("state = %s, want uninitialized", st.State)
	}

	for range 2 {
		res := s.Tokenize("猫です")
		if !res.Degraded {
			t.Fatal("expected degraded result without an engine")
		}
		testutil.AssertWords(t, res.Words(), []string{"猫", "で", "す"})
	}

	if got := strings.Count(logs.String(), "no dictionary loaded, using fallback segmentation"); got != 2 {
		t.Fatalf("fallback warnings = %d, want 2; logs: %q", got, logs.String())
	}

	if got := s.WordsJSON(""); got != "[]" {
		t.Fatalf("WordsJSON(\"\") = %s", got)
	}
}

func TestService_GraphemeFallback(t *testing.T) {
	var logs syncBuffer
	s := newDegradedService(t, &logs, WithFallbackUnit(tokenizer.UnitGrapheme))

	testutil.AssertWords(t, s.Words("か\u3099き"), []string{"か\u3099", "き"})
}

func TestService_ChunkedAnalysis(t *testing.T) {
	input := "吾輩は猫である。今日は良い天気です。"
	s := newReadyService(t, WithMaxChunkRunes(8))

	res := s.Tokenize(input)
	want := append([]string{"吾輩", "は", "猫", "で", "ある", "。"}, testutil.SampleWords...)
	testutil.AssertWords(t, res.Words(), want)

	pos := 0
	for _, tok := range res.Tokens {
		if tok.Start != pos || input[tok.Start:tok.End] != tok.Surface {
			t.Fatalf("token %+v does not tile input at %d", tok, pos)
		}
		pos = tok.End
	}

	if pos != len(input) {
		t.Fatalf("tokens end at %d, want %d", pos, len(input))
	}
}

func TestService_WordsJSON(t *testing.T) {
	s := newReadyService(t)

	got := testutil.DecodeWords(t, s.WordsJSON(testutil.SampleText))
	testutil.AssertWords(t, got, testutil.SampleWords)
}

func TestService_RichJSON(t *testing.T) {
	s := newReadyService(t)

	var records []struct {
		Surface      string   `json:"surface"`
		Reading      string   `json:"reading"`
		PartOfSpeech string   `json:"part_of_speech"`
		Features     []string `json:"features"`
	}
	if err := json.Unmarshal([]byte(s.RichJSON("今日は")), &records); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}

	if len(records) != 2 {
		t.Fatalf("got %d records", len(records))
	}

	if records[0].Surface != "今日" || records[0].Reading != "キョウ" || records[0].PartOfSpeech != "名詞" {
		t.Fatalf("record[0] = %+v", records[0])
	}

	if records[1].PartOfSpeech != "助詞" || len(records[1].Features) == 0 {
		t.Fatalf("record[1] = %+v", records[1])
	}
}

func TestService_AnalyzeBatch(t *testing.T) {
	s := newReadyService(t, WithBatchWorkers(2))
	texts := []string{testutil.SampleText, "", "吾輩は猫である。", "学問のすすめ"}

	got, err := s.AnalyzeBatch(context.Background(), texts, false)
	if err != nil {
		t.Fatalf("AnalyzeBatch: %v", err)
	}

	if len(got) != len(texts) {
		t.Fatalf("got %d payloads, want %d", len(got), len(texts))
	}

	for i, in := range texts {
		if want := s.WordsJSON(in); got[i] != want {
			t.Errorf("payload[%d] = %s, want %s", i, got[i], want)
		}
	}
}

func TestService_AnalyzeBatchRich(t *testing.T) {
	s := newReadyService(t)

	got, err := s.AnalyzeBatch(context.Background(), []string{"猫"}, true)
	if err != nil {
		t.Fatalf("AnalyzeBatch: %v", err)
	}

	if !strings.Contains(got[0], `"surface":"猫"`) {
		t.Fatalf("rich payload = %s", got[0])
	}
}

func TestService_AnalyzeBatchCancelled(t *testing.T) {
	s := newReadyService(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.AnalyzeBatch(ctx, []string{"猫", "犬"}, false)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
