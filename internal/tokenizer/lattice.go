package tokenizer

import "math"

// maxGroupRunes caps the length of a grouped unknown word.
const maxGroupRunes = 1024

// node is one lattice candidate spanning runes [start, end). Exactly one of
// entry and unk is non-negative, except for the BOS node.
type node struct {
	start, end int
	left       uint16
	right      uint16
	entry      int32
	unk        int32
	total      int64
	prev       int32
}

// build adds every candidate reachable from BOS. Positions are visited left
// to right, so all nodes ending at a position are final before any node
// starting there is scored.
func (w *Worker) build() {
	n := len(w.runes)
	for i := 0; i < n; i++ {
		if len(w.ends[i]) == 0 {
			continue
		}
		found := w.addKnown(i)
		w.addUnknown(i, found)
	}
}

func (w *Worker) addKnown(i int) bool {
	found := false
	cur := &w.a.root
	for j := i; j < len(w.runes); j++ {
		next, ok := cur.children[w.runes[j]]
		if !ok {
			break
		}
		for _, e := range next.entries {
			ent := &w.a.dict.Entries[e]
			w.addNode(i, j+1, ent.LeftID, ent.RightID, ent.Cost, e, -1)
			found = true
		}
		cur = next
	}
	return found
}

// addUnknown generates unknown-word candidates at i from the character class
// rules: invoke, group and length.
func (w *Worker) addUnknown(i int, found bool) {
	cls := w.cls[i]
	def := w.a.classes[cls]
	if found && !def.Invoke {
		return
	}

	n := len(w.runes)
	added := false
	groupEnd := -1
	if def.Group {
		j := i + 1
		for j < n && w.cls[j] == cls && j-i < maxGroupRunes {
			j++
		}
		w.addUnknownSpan(i, j, cls)
		groupEnd = j
		added = true
	}

	for l := 1; l <= def.Length && i+l <= n; l++ {
		if w.cls[i+l-1] != cls {
			break
		}
		if i+l == groupEnd {
			continue
		}
		w.addUnknownSpan(i, i+l, cls)
		added = true
	}

	if !added && !found {
		w.addUnknownSpan(i, i+1, cls)
	}
}

func (w *Worker) addUnknownSpan(start, end, cls int) {
	for _, u := range w.a.unknown[cls] {
		ue := &w.a.dict.Unknown[u]
		w.addNode(start, end, ue.LeftID, ue.RightID, ue.Cost, -1, u)
	}
}

// addNode scores a candidate against every node ending at start and links it
// to the cheapest. Ties keep the earliest predecessor.
func (w *Worker) addNode(start, end int, left, right uint16, cost int16, entry, unk int32) {
	m := &w.a.dict.Matrix
	best := int64(math.MaxInt64)
	prev := int32(-1)
	for _, pi := range w.ends[start] {
		p := &w.nodes[pi]
		c := p.total + int64(m.Cost(p.right, left)) + int64(cost)
		if c < best {
			best = c
			prev = pi
		}
	}

	w.nodes = append(w.nodes, node{
		start: start,
		end:   end,
		left:  left,
		right: right,
		entry: entry,
		unk:   unk,
		total: best,
		prev:  prev,
	})
	w.ends[end] = append(w.ends[end], int32(len(w.nodes)-1))
}

// bestPath closes the lattice with EOS and returns the node indices of the
// cheapest path, BOS excluded, in input order.
func (w *Worker) bestPath() []int32 {
	m := &w.a.dict.Matrix
	best := int64(math.MaxInt64)
	last := int32(-1)
	for _, pi := range w.ends[len(w.runes)] {
		p := &w.nodes[pi]
		c := p.total + int64(m.Cost(p.right, 0))
		if c < best {
			best = c
			last = pi
		}
	}

	var path []int32
	for idx := last; idx > 0; idx = w.nodes[idx].prev {
		path = append(path, idx)
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}
