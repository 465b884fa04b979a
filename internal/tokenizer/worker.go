package tokenizer

import (
	"sync/atomic"
	"unicode/utf8"
)

// Worker holds the mutable lattice scratch for one analysis at a time.
type Worker struct {
	a    *Analyzer
	busy atomic.Bool

	runes []rune
	offs  []int // byte offset of each rune, plus len(text)
	cls   []int // class id of each rune
	nodes []node
	ends  [][]int32 // nodes ending at each rune position
}

// Tokenize segments text. Empty input yields an empty slice. A Worker
// entered while busy returns ErrWorkerBusy without touching its scratch.
func (w *Worker) Tokenize(text string) ([]Token, error) {
	if !w.busy.CompareAndSwap(false, true) {
		return nil, ErrWorkerBusy
	}
	defer w.busy.Store(false)

	if text == "" {
		return []Token{}, nil
	}

	w.reset(text)
	w.build()
	path := w.bestPath()

	tokens := make([]Token, 0, len(path))
	for _, idx := range path {
		n := &w.nodes[idx]
		t := Token{
			Start: w.offs[n.start],
			End:   w.offs[n.end],
		}
		t.Surface = text[t.Start:t.End]
		if n.entry >= 0 {
			t.Kind = KindKnown
			t.Feature = w.a.dict.Entries[n.entry].Feature
		} else {
			t.Kind = KindUnknown
			t.Feature = w.a.dict.Unknown[n.unk].Feature
		}
		tokens = append(tokens, t)
	}

	if err := checkCoverage(text, tokens); err != nil {
		return nil, err
	}
	return tokens, nil
}

func (w *Worker) reset(text string) {
	w.runes = w.runes[:0]
	w.offs = w.offs[:0]
	w.cls = w.cls[:0]
	for i := 0; i < len(text); {
		r, size := utf8.DecodeRuneInString(text[i:])
		w.runes = append(w.runes, r)
		w.offs = append(w.offs, i)
		w.cls = append(w.cls, w.a.classOf(r))
		i += size
	}
	w.offs = append(w.offs, len(text))

	n := len(w.runes)
	if cap(w.ends) < n+1 {
		w.ends = make([][]int32, n+1)
	}
	w.ends = w.ends[:n+1]
	for i := range w.ends {
		w.ends[i] = w.ends[i][:0]
	}

	w.nodes = w.nodes[:0]
	w.nodes = append(w.nodes, node{entry: -1, unk: -1, prev: -1})
	w.ends[0] = append(w.ends[0], 0)
}
