package ledger

import (
	"CoinSentry/internal/model"
)

// Ledger is the append-only record of classified observations for one tracking
// session. Insertion order is poll order; entries are never mutated or removed.
// The ledger is owned by a single goroutine, so it carries no locking.
type Ledger struct {
	entries []model.Observation
	flushed int
}

// New creates an empty Ledger.
func New() *Ledger {
	return &Ledger{}
}

// Append adds observations to the ledger in the order given.
func (l *Ledger) Append(observations ...model.Observation) {
	l.entries = append(l.entries, observations...)
}

// Len returns the total number of entries appended this session.
func (l *Ledger) Len() int {
	return len(l.entries)
}

// Entries returns a copy of all entries in insertion order.
func (l *Ledger) Entries() []model.Observation {
	out := make([]model.Observation, len(l.entries))
	copy(out, l.entries)
	return out
}

// Unflushed returns the entries appended since the last MarkFlushed call.
func (l *Ledger) Unflushed() []model.Observation {
	out := make([]model.Observation, len(l.entries)-l.flushed)
	copy(out, l.entries[l.flushed:])
	return out
}

// MarkFlushed advances the flush cursor past all current entries.
func (l *Ledger) MarkFlushed() {
	l.flushed = len(l.entries)
}
