package dictionary

import "fmt"

// Builder assembles a Dictionary in memory. The first error is kept and
// returned by Build; later calls are ignored.
type Builder struct {
	d   Dictionary
	err error
}

// NewBuilder starts a dictionary with a zero-filled rows x cols connection
// matrix.
func NewBuilder(name string, rows, cols int) *Builder {
	b := &Builder{d: Dictionary{Name: name}}
	if rows <= 0 || cols <= 0 {
		b.err = fmt.Errorf("invalid matrix size %dx%d", rows, cols)
		return b
	}
	b.d.Matrix = Matrix{Rows: rows, Cols: cols, Costs: make([]int16, rows*cols)}
	return b
}

// Connect sets the cost of a word with right id right followed by a word
// with left id left.
func (b *Builder) Connect(right, left uint16, cost int16) *Builder {
	if b.err != nil {
		return b
	}
	if int(right) >= b.d.Matrix.Rows || int(left) >= b.d.Matrix.Cols {
		b.err = fmt.Errorf("connection (%d,%d) outside %dx%d matrix", right, left, b.d.Matrix.Rows, b.d.Matrix.Cols)
		return b
	}
	b.d.Matrix.Costs[int(right)*b.d.Matrix.Cols+int(left)] = cost
	return b
}

// Word adds a lexicon entry.
func (b *Builder) Word(surface string, left, right uint16, cost int16, feature string) *Builder {
	if b.err != nil {
		return b
	}
	b.d.Entries = append(b.d.Entries, Entry{Surface: surface, LeftID: left, RightID: right, Cost: cost, Feature: feature})
	return b
}

// Class adds a character class.
func (b *Builder) Class(c CharClass) *Builder {
	if b.err != nil {
		return b
	}
	b.d.Classes = append(b.d.Classes, c)
	return b
}

// Range maps lo..hi to class.
func (b *Builder) Range(lo, hi rune, class string) *Builder {
	if b.err != nil {
		return b
	}
	b.d.Ranges = append(b.d.Ranges, CharRange{Lo: lo, Hi: hi, Class: class})
	return b
}

// Unknown adds an unknown-word template.
func (b *Builder) Unknown(u UnknownEntry) *Builder {
	if b.err != nil {
		return b
	}
	b.d.Unknown = append(b.d.Unknown, u)
	return b
}

// Build validates and returns the dictionary.
func (b *Builder) Build() (*Dictionary, error) {
	if b.err != nil {
		return nil, fmt.Errorf("build dictionary: %w", b.err)
	}
	d := b.d
	if err := d.Validate(); err != nil {
		return nil, fmt.Errorf("build dictionary: %w", err)
	}
	return &d, nil
}
