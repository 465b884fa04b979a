// Package dictionary loads and writes the compiled lexicon that drives
// morphological analysis.
//
// An artifact is a CBOR document holding the lexicon entries, the connection
// cost matrix and the character class rules used for unknown words. On disk
// it is stored either raw or wrapped in a zstd frame; Load accepts both
// shapes without looking at the file name.
package dictionary

import (
	"encoding/binary"
	"errors"
	"fmt"
)

const (
	// Magic identifies a ReadMaker dictionary document.
	Magic = "RMDIC"
	// Version is the only wire version this package reads and writes.
	Version = 1
	// DefaultClass is the character class used when no other class matches.
	DefaultClass = "DEFAULT"
)

// Entry is one lexicon word.
type Entry struct {
	Surface string
	LeftID  uint16
	RightID uint16
	Cost    int16
	Feature string
}

// Matrix holds connection costs indexed by the right context id of the
// preceding word and the left context id of the following word.
type Matrix struct {
	Rows  int
	Cols  int
	Costs []int16
}

// Cost returns the connection cost between two adjacent words.
func (m *Matrix) Cost(prevRight, nextLeft uint16) int16 {
	return m.Costs[int(prevRight)*m.Cols+int(nextLeft)]
}

// CharClass configures how unknown words of one character class are
// generated.
type CharClass struct {
	Name string
	// Invoke forces unknown-word generation even when a known word starts
	// at the same position.
	Invoke bool
	// Group emits one unknown word spanning the whole run of this class.
	Group bool
	// Length emits unknown words of 1..Length runes.
	Length int
}

// CharRange maps an inclusive rune range to a character class.
type CharRange struct {
	Lo    rune
	Hi    rune
	Class string
}

// UnknownEntry is the template used for unknown words of a class.
type UnknownEntry struct {
	Class   string
	LeftID  uint16
	RightID uint16
	Cost    int16
	Feature string
}

// Dictionary is a decoded, validated artifact. It is never mutated after
// Load returns it.
type Dictionary struct {
	Name    string
	Entries []Entry
	Matrix  Matrix
	Classes []CharClass
	Ranges  []CharRange
	Unknown []UnknownEntry
}

// Class returns the class definition with the given name.
func (d *Dictionary) Class(name string) (CharClass, bool) {
	for _, c := range d.Classes {
		if c.Name == name {
			return c, true
		}
	}
	return CharClass{}, false
}

// MaxContextIDs bounds each matrix dimension; context ids are uint16.
const MaxContextIDs = 1 << 16

// Validate checks the internal consistency of d.
func (d *Dictionary) Validate() error {
	if d.Matrix.Rows <= 0 || d.Matrix.Cols <= 0 || d.Matrix.Rows > MaxContextIDs || d.Matrix.Cols > MaxContextIDs {
		return fmt.Errorf("connection matrix has invalid size %dx%d", d.Matrix.Rows, d.Matrix.Cols)
	}
	if len(d.Matrix.Costs) != d.Matrix.Rows*d.Matrix.Cols {
		return fmt.Errorf("connection matrix has %d costs, want %d", len(d.Matrix.Costs), d.Matrix.Rows*d.Matrix.Cols)
	}

	for i, e := range d.Entries {
		if e.Surface == "" {
			return fmt.Errorf("entry %d has empty surface", i)
		}
		if err := d.checkIDs(e.LeftID, e.RightID); err != nil {
			return fmt.Errorf("entry %d (%q): %w", i, e.Surface, err)
		}
	}

	classes := make(map[string]bool, len(d.Classes))
	for _, c := range d.Classes {
		if c.Name == "" {
			return errors.New("character class with empty name")
		}
		if classes[c.Name] {
			return fmt.Errorf("duplicate character class %q", c.Name)
		}
		if c.Length < 0 {
			return fmt.Errorf("character class %q has negative length", c.Name)
		}
		classes[c.Name] = true
	}
	if !classes[DefaultClass] {
		return fmt.Errorf("missing %s character class", DefaultClass)
	}

	for _, r := range d.Ranges {
		if r.Lo > r.Hi {
			return fmt.Errorf("character range %U..%U is reversed", r.Lo, r.Hi)
		}
		if !classes[r.Class] {
			return fmt.Errorf("character range %U..%U references unknown class %q", r.Lo, r.Hi, r.Class)
		}
	}

	hasDefault := false
	for _, u := range d.Unknown {
		if !classes[u.Class] {
			return fmt.Errorf("unknown-word entry references unknown class %q", u.Class)
		}
		if err := d.checkIDs(u.LeftID, u.RightID); err != nil {
			return fmt.Errorf("unknown-word entry for %q: %w", u.Class, err)
		}
		if u.Class == DefaultClass {
			hasDefault = true
		}
	}
	if !hasDefault {
		return fmt.Errorf("no unknown-word entry for %s class", DefaultClass)
	}

	return nil
}

func (d *Dictionary) checkIDs(left, right uint16) error {
	if int(right) >= d.Matrix.Rows {
		return fmt.Errorf("right id %d out of range [0,%d)", right, d.Matrix.Rows)
	}
	if int(left) >= d.Matrix.Cols {
		return fmt.Errorf("left id %d out of range [0,%d)", left, d.Matrix.Cols)
	}
	return nil
}

// document is the CBOR wire shape. The matrix is packed little-endian so
// large matrices stay a single byte string instead of a huge CBOR array.
type document struct {
	Magic   string         `cbor:"magic"`
	Version int            `cbor:"version"`
	Name    string         `cbor:"name,omitempty"`
	Entries []Entry        `cbor:"entries"`
	Rows    int            `cbor:"rows"`
	Cols    int            `cbor:"cols"`
	Matrix  []byte         `cbor:"matrix"`
	Classes []CharClass    `cbor:"classes"`
	Ranges  []CharRange    `cbor:"ranges"`
	Unknown []UnknownEntry `cbor:"unknown"`
}

func toDocument(d *Dictionary) document {
	packed := make([]byte, 2*len(d.Matrix.Costs))
	for i, c := range d.Matrix.Costs {
		binary.LittleEndian.PutUint16(packed[2*i:], uint16(c))
	}
	return document{
		Magic:   Magic,
		Version: Version,
		Name:    d.Name,
		Entries: d.Entries,
		Rows:    d.Matrix.Rows,
		Cols:    d.Matrix.Cols,
		Matrix:  packed,
		Classes: d.Classes,
		Ranges:  d.Ranges,
		Unknown: d.Unknown,
	}
}

func fromDocument(doc *document) (*Dictionary, error) {
	if doc.Magic != Magic {
		return nil, fmt.Errorf("bad magic %q", doc.Magic)
	}
	if doc.Version != Version {
		return nil, fmt.Errorf("unsupported version %d", doc.Version)
	}
	if len(doc.Matrix)%2 != 0 {
		return nil, fmt.Errorf("matrix payload has odd length %d", len(doc.Matrix))
	}

	costs := make([]int16, len(doc.Matrix)/2)
	for i := range costs {
		costs[i] = int16(binary.LittleEndian.Uint16(doc.Matrix[2*i:]))
	}

	d := &Dictionary{
		Name:    doc.Name,
		Entries: doc.Entries,
		Matrix:  Matrix{Rows: doc.Rows, Cols: doc.Cols, Costs: costs},
		Classes: doc.Classes,
		Ranges:  doc.Ranges,
		Unknown: doc.Unknown,
	}
	if err := d.Validate(); err != nil {
		return nil, err
	}

	return d, nil
}
