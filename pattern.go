package re2c

import (
	"iter"
	"sync"
	"unicode/utf8"

	"github.com/golang/glog"

	"github.com/coregx/re2c/engine"
	"github.com/coregx/re2c/options"
)

// Mode selects how Match anchors the search.
type Mode int

const (
	// Find searches for the pattern anywhere in the text.
	Find Mode = iota
	// FullMatch requires the pattern to match the entire text.
	FullMatch
)

// String returns the mode name.
func (m Mode) String() string {
	switch m {
	case Find:
		return "find"
	case FullMatch:
		return "full-match"
	default:
		return "unknown"
	}
}

func (m Mode) anchor() engine.Anchor {
	if m == FullMatch {
		return engine.AnchorBoth
	}
	return engine.Unanchored
}

// State is the lifecycle state of a Pattern.
type State int

const (
	// Compiled patterns can be matched.
	Compiled State = iota
	// Freed patterns have released their program. No transition leaves
	// this state.
	Freed
)

// String returns the state name.
func (s State) String() string {
	if s == Compiled {
		return "compiled"
	}
	return "freed"
}

// Pattern is a compiled regular expression.
//
// A Pattern is safe for concurrent matching. Free must not run
// concurrently with any other method, and a Pattern must be freed at
// most once.
type Pattern struct {
	prog   engine.Program
	ncap   int
	source string
	opts   options.Options

	badShape sync.Once
}

func newPattern(prog engine.Program, source []byte, opts options.Options) *Pattern {
	return &Pattern{
		prog:   prog,
		ncap:   prog.NumCaptures(),
		source: string(source),
		opts:   opts,
	}
}

// NumCaptures returns the number of capture groups, recorded once at
// compile time.
func (p *Pattern) NumCaptures() int {
	return p.ncap
}

// String returns the pattern as it was passed to Compile.
func (p *Pattern) String() string {
	return p.source
}

// Options returns the configuration the pattern was compiled with.
func (p *Pattern) Options() options.Options {
	return p.opts
}

// State reports whether the pattern is still usable.
func (p *Pattern) State() State {
	if p == nil || p.prog == nil {
		return Freed
	}
	return Compiled
}

// Check returns ErrNullHandle for a nil or freed pattern.
func (p *Pattern) Check() error {
	if p.State() != Compiled {
		return ErrNullHandle
	}
	return nil
}

// Free releases the compiled program.
func (p *Pattern) Free() {
	if p == nil || p.prog == nil {
		return
	}
	if r, ok := p.prog.(engine.Releaser); ok {
		r.Release()
	}
	p.prog = nil
}

// Match runs one search over text and reports whether it matched.
//
// If caps is non-nil it is rebound to NumCaptures()+1 slots: on success
// slot 0 is the whole match and slot i is group i. On failure the slots
// all read as unmatched. A nil caps only tests for a match.
//
// Match reports false for a nil or freed pattern.
func (p *Pattern) Match(text []byte, mode Mode, caps *Captures) bool {
	if p.State() != Compiled {
		return false
	}
	if caps == nil {
		return p.prog.Match(text, mode.anchor(), nil) != nil
	}

	caps.Rebind(p.ncap + 1)
	loc := p.prog.Match(text, mode.anchor(), caps.loc)
	if len(loc) < 2 {
		return false
	}
	p.verify(loc)
	caps.loc = loc
	caps.fill(text, loc)
	return true
}

// All returns an iterator over successive non-overlapping matches in
// text. Each step yields the explicit capture groups only, so the set
// has NumCaptures() views and no whole-match slot.
//
// The cursor advances past every match. After an empty match it also
// advances by one character so the loop always terminates. The yielded
// slice is reused between steps; copy it to keep it.
//
// Example:
//
//	for set := range pat.All(text) {
//	    fmt.Println(set[0].String())
//	}
func (p *Pattern) All(text []byte) iter.Seq[[]View] {
	return func(yield func([]View) bool) {
		if p.State() != Compiled {
			return
		}
		set := make([]View, p.ncap)
		var loc []int
		for pos := 0; pos <= len(text); {
			rest := text[pos:]
			if loc = p.prog.Match(rest, engine.Unanchored, loc); len(loc) < 2 {
				return
			}
			p.verify(loc)
			for i := range set {
				if 2*i+3 < len(loc) {
					set[i] = viewAt(text, pos, loc[2*i+2], loc[2*i+3])
				} else {
					set[i] = View{}
				}
			}
			if !yield(set) {
				return
			}

			next := loc[1]
			if loc[0] == next {
				next += p.step(rest[next:])
			}
			pos += next
		}
	}
}

// FindAll appends the capture groups of every match in text to log and
// reports whether at least one match occurred. A nil log only counts.
//
// The log is not reset: repeated calls accumulate until Log.Reset.
func (p *Pattern) FindAll(text []byte, log *Log) bool {
	matched := false
	for set := range p.All(text) {
		matched = true
		if log != nil {
			log.Append(set)
		}
	}
	return matched
}

// verify checks that loc holds one offset pair per slot. Views are only
// read from pairs that exist, so a short result leaves the trailing groups
// unmatched; the mismatch is logged once per pattern.
func (p *Pattern) verify(loc []int) {
	if want := 2 * (p.ncap + 1); len(loc) != want {
		p.badShape.Do(func() {
			glog.Errorf("re2c: engine returned %d offsets for %q, want %d", len(loc), p.source, want)
		})
	}
}

// step returns the width of the character at the start of b.
func (p *Pattern) step(b []byte) int {
	if !p.opts.UTF8 || len(b) == 0 {
		return 1
	}
	_, size := utf8.DecodeRune(b)
	return size
}
