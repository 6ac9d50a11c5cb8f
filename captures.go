package re2c

// View is a non-owning reference to a span of caller-supplied text.
//
// The zero View is an unmatched capture. A matched capture may be empty;
// Matched distinguishes the two.
type View struct {
	src        []byte
	start, end int
	matched    bool
}

func viewAt(src []byte, base, start, end int) View {
	if start < 0 || end < 0 {
		return View{}
	}
	return View{src: src, start: base + start, end: base + end, matched: true}
}

// Matched reports whether the capture group participated in the match.
func (v View) Matched() bool {
	return v.matched
}

// Bytes returns the captured text as a subslice of the original text,
// or nil for an unmatched capture. The slice is not a copy.
func (v View) Bytes() []byte {
	if !v.matched || v.src == nil {
		return nil
	}
	return v.src[v.start:v.end:v.end]
}

// Source returns the whole text the capture was taken from, so that
// Start and End index into it. It is nil for an unmatched capture.
func (v View) Source() []byte {
	if !v.matched {
		return nil
	}
	return v.src
}

// String returns a copy of the captured text.
func (v View) String() string {
	return string(v.Bytes())
}

// Start returns the byte offset of the capture in the original text,
// or -1 for an unmatched capture.
func (v View) Start() int {
	if !v.matched {
		return -1
	}
	return v.start
}

// End returns the byte offset just past the capture, or -1 for an
// unmatched capture.
func (v View) End() int {
	if !v.matched {
		return -1
	}
	return v.end
}

// Len returns the capture length in bytes; 0 when unmatched.
func (v View) Len() int {
	return v.end - v.start
}

// Captures is a reusable capture buffer for single-shot matches.
//
// After a successful Pattern.Match, slot 0 holds the whole match and
// slots 1..NumCaptures() hold the groups. The buffer may be reused
// across patterns; see Rebind for what survives.
//
// A Captures must not be used by more than one goroutine at a time.
type Captures struct {
	views []View
	n     int
	loc   []int
}

// NewCaptures returns a buffer with room for slots views.
func NewCaptures(slots int) *Captures {
	c := &Captures{}
	c.Rebind(slots)
	return c
}

// Rebind prepares the buffer for a match needing slots views.
//
// If the backing storage is unallocated or smaller than slots, it is
// discarded and replaced by storage of exactly slots views. Storage is
// never shrunk. Either way every view from a previous match is
// invalidated: all slots read as unmatched until the next match fills
// them.
func (c *Captures) Rebind(slots int) {
	if slots < 0 {
		slots = 0
	}
	if len(c.views) == 0 || len(c.views) < slots {
		c.views = make([]View, slots)
	} else {
		clear(c.views[:slots])
	}
	c.n = slots
}

// Len returns the number of live slots.
func (c *Captures) Len() int {
	return c.n
}

// Cap returns the number of allocated slots.
func (c *Captures) Cap() int {
	return len(c.views)
}

// Get returns slot i. It reports false when i is outside the live
// slots, including every index of a never-bound buffer.
func (c *Captures) Get(i int) (View, bool) {
	if i < 0 || i >= c.n {
		return View{}, false
	}
	return c.views[i], true
}

// Views returns the live slots. The slice is owned by the buffer and is
// overwritten by the next match.
func (c *Captures) Views() []View {
	return c.views[:c.n]
}

func (c *Captures) fill(text []byte, loc []int) {
	for i := 0; i < c.n && 2*i+1 < len(loc); i++ {
		c.views[i] = viewAt(text, 0, loc[2*i], loc[2*i+1])
	}
}
