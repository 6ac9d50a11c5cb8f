package re2c

// DefaultLogCapacity is the number of views a Log allocates on first use.
const DefaultLogCapacity = 64

// Log accumulates the capture sets of repeated matches.
//
// Growth contract: entries are append-only; when one more capture set
// does not fit, capacity doubles (as many times as needed) and every
// recorded view is copied to the new storage at the same index. Storage
// is allocated on first append and never shrinks. Reset starts a new
// session and is the only way to drop entries.
//
// The zero Log is ready to use. A Log must not be used by more than one
// goroutine at a time.
type Log struct {
	entries []View
	n       int
	initial int
	grows   int
}

// NewLog returns a Log that allocates capacity views on first use.
// A non-positive capacity selects DefaultLogCapacity.
func NewLog(capacity int) *Log {
	return &Log{initial: capacity}
}

// Len returns the number of recorded views.
func (l *Log) Len() int {
	return l.n
}

// Cap returns the allocated capacity in views.
func (l *Log) Cap() int {
	return len(l.entries)
}

// Grows returns how many times storage has been reallocated to a larger
// capacity since the Log was created.
func (l *Log) Grows() int {
	return l.grows
}

// Get returns the i-th recorded view. It reports false when i is not
// below Len, including every index of an unallocated Log.
func (l *Log) Get(i int) (View, bool) {
	if i < 0 || i >= l.n {
		return View{}, false
	}
	return l.entries[i], true
}

// Append records one capture set. An empty set records nothing.
func (l *Log) Append(set []View) {
	need := l.n + len(set)
	if need > len(l.entries) {
		l.grow(need)
	}
	copy(l.entries[l.n:need], set)
	l.n = need
}

// Reset forgets every entry but keeps the storage.
func (l *Log) Reset() {
	clear(l.entries[:l.n])
	l.n = 0
}

func (l *Log) grow(need int) {
	if len(l.entries) == 0 {
		size := l.initial
		if size <= 0 {
			size = DefaultLogCapacity
		}
		for size < need {
			size *= 2
		}
		l.entries = make([]View, size)
		return
	}

	size := len(l.entries)
	for size < need {
		size *= 2
	}
	entries := make([]View, size)
	copy(entries, l.entries[:l.n])
	l.entries = entries
	l.grows++
}
