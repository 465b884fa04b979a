package bridge

import (
	"errors"
	"sync"
)

// ErrNotOwned is returned when a buffer is released that is not currently
// tracked, either because it was never handed out or because it was already
// released.
var ErrNotOwned = errors.New("bridge: buffer not owned by this library")

// Ledger records the result buffers handed to the host that have not been
// released yet. Addresses are C heap addresses and never move.
type Ledger struct {
	mu       sync.Mutex
	live     map[uintptr]struct{}
	issued   uint64
	released uint64
}

// NewLedger returns an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{live: make(map[uintptr]struct{})}
}

// Track records addr as handed out. A zero addr is ignored.
func (l *Ledger) Track(addr uintptr) {
	if addr == 0 {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.live[addr] = struct{}{}
	l.issued++
}

// Release forgets addr. Releasing zero is a no-op. Releasing an address that
// is not tracked returns ErrNotOwned and leaves the ledger unchanged; the
// caller must not free the memory in that case.
func (l *Ledger) Release(addr uintptr) error {
	if addr == 0 {
		return nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.live[addr]; !ok {
		return ErrNotOwned
	}
	delete(l.live, addr)
	l.released++
	return nil
}

// Owns reports whether addr is currently tracked.
func (l *Ledger) Owns(addr uintptr) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, ok := l.live[addr]
	return ok
}

// Outstanding returns the number of buffers handed out and not released.
func (l *Ledger) Outstanding() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.live)
}

// LedgerStats summarizes ledger activity.
type LedgerStats struct {
	Issued      uint64 `json:"issued"`
	Released    uint64 `json:"released"`
	Outstanding int    `json:"outstanding"`
}

// Stats returns the ledger counters.
func (l *Ledger) Stats() LedgerStats {
	l.mu.Lock()
	defer l.mu.Unlock()
	return LedgerStats{Issued: l.issued, Released: l.released, Outstanding: len(l.live)}
}
