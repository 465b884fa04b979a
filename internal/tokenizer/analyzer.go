package tokenizer

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/example/go-readmaker/internal/dictionary"
)

var (
	// ErrNilDictionary is returned by New when no dictionary is given.
	ErrNilDictionary = errors.New("tokenizer: nil dictionary")
	// ErrWorkerBusy is returned when a Worker is entered while another call
	// is still using it.
	ErrWorkerBusy = errors.New("tokenizer: worker already in use")
)

// Workers whose scratch grew beyond this many lattice nodes are dropped
// instead of being returned to the pool.
const maxPooledNodes = 1 << 20

// trieNode is one step of the surface index, keyed by rune.
type trieNode struct {
	children map[rune]*trieNode
	entries  []int32
}

func (n *trieNode) insert(surface string, entry int32) {
	cur := n
	for _, r := range surface {
		if cur.children == nil {
			cur.children = make(map[rune]*trieNode)
		}
		next, ok := cur.children[r]
		if !ok {
			next = &trieNode{}
			cur.children[r] = next
		}
		cur = next
	}
	cur.entries = append(cur.entries, entry)
}

type classRange struct {
	lo, hi rune
	class  int
}

// Analyzer is the immutable, shareable index built from a Dictionary. It is
// safe for concurrent use; per-call scratch lives in Workers.
type Analyzer struct {
	dict *dictionary.Dictionary
	root trieNode

	classes      []dictionary.CharClass
	classIDs     map[string]int
	defaultClass int
	ranges       []classRange
	unknown      [][]int32

	pool sync.Pool
}

// New indexes d for analysis.
func New(d *dictionary.Dictionary) (*Analyzer, error) {
	if d == nil {
		return nil, ErrNilDictionary
	}
	if err := d.Validate(); err != nil {
		return nil, fmt.Errorf("tokenizer: %w", err)
	}

	a := &Analyzer{
		dict:     d,
		classes:  d.Classes,
		classIDs: make(map[string]int, len(d.Classes)),
	}

	for i, e := range d.Entries {
		a.root.insert(e.Surface, int32(i))
	}

	for i, c := range d.Classes {
		a.classIDs[c.Name] = i
	}
	a.defaultClass = a.classIDs[dictionary.DefaultClass]

	for _, r := range d.Ranges {
		a.ranges = append(a.ranges, classRange{lo: r.Lo, hi: r.Hi, class: a.classIDs[r.Class]})
	}
	sort.SliceStable(a.ranges, func(i, j int) bool { return a.ranges[i].lo < a.ranges[j].lo })

	a.unknown = make([][]int32, len(d.Classes))
	for i, u := range d.Unknown {
		id := a.classIDs[u.Class]
		a.unknown[id] = append(a.unknown[id], int32(i))
	}
	for id := range a.unknown {
		if len(a.unknown[id]) == 0 {
			a.unknown[id] = a.unknown[a.defaultClass]
		}
	}

	a.pool.New = func() any { return a.NewWorker() }

	return a, nil
}

// Dictionary returns the dictionary the analyzer was built from.
func (a *Analyzer) Dictionary() *dictionary.Dictionary { return a.dict }

// NewWorker returns a fresh Worker bound to a. A Worker must not be shared
// between goroutines; concurrent entry fails with ErrWorkerBusy.
func (a *Analyzer) NewWorker() *Worker {
	return &Worker{a: a}
}

// Tokenize segments text with a pooled Worker.
func (a *Analyzer) Tokenize(text string) ([]Token, error) {
	w, ok := a.pool.Get().(*Worker)
	if !ok || w.a != a {
		w = a.NewWorker()
	}
	tokens, err := w.Tokenize(text)
	if cap(w.nodes) <= maxPooledNodes {
		a.pool.Put(w)
	}
	return tokens, err
}

// classOf returns the class id of r: an explicit range first, then the
// builtin class when the dictionary defines it, then DEFAULT.
func (a *Analyzer) classOf(r rune) int {
	i := sort.Search(len(a.ranges), func(i int) bool { return a.ranges[i].lo > r })
	for j := i - 1; j >= 0; j-- {
		if rg := a.ranges[j]; r <= rg.hi {
			return rg.class
		}
	}
	if name := builtinClass(r); name != "" {
		if id, ok := a.classIDs[name]; ok {
			return id
		}
	}
	return a.defaultClass
}
