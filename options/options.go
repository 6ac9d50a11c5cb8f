// Package options implements the single-character flag grammar that
// configures pattern compilation.
//
// A flag string is a sequence of letters. A lowercase letter turns the
// corresponding option on, the uppercase form turns it off:
//
//	u  UTF-8 text and pattern (on by default; off means Latin-1)
//	p  POSIX egrep syntax
//	a  leftmost-longest match instead of leftmost-first
//	e  log syntax errors
//	l  pattern is a literal string, not a regular expression
//	n  never match \n, even if it appears in the pattern
//	s  dot matches \n
//	c  parse every group as non-capturing
//	i  case-insensitive matching (clears CaseSensitive)
//	m  multiline: ^ and $ match at line boundaries
//
// Multiline has no native engine switch. Instead the pattern text is
// rewritten to (?m:<pattern>) before it reaches the engine, see
// Options.Rewrite.
//
// Example:
//
//	opts, err := options.Parse("imA")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	src := opts.Rewrite([]byte(`^error: (\w+)$`))
//	defer src.Release()
package options

import "strconv"

// DefaultMaxMem is the memory budget applied when a caller passes zero.
const DefaultMaxMem = 2 << 20

// Options is the structured configuration handed to an engine.
//
// Options is a plain value: it is built once per compile call, consumed
// by the engine and discarded.
type Options struct {
	// UTF8 treats text and pattern as UTF-8; false means Latin-1.
	// Default: true
	UTF8 bool

	// PosixSyntax restricts patterns to POSIX egrep syntax.
	// Default: false
	PosixSyntax bool

	// LongestMatch selects leftmost-longest semantics.
	// Default: false
	LongestMatch bool

	// LogErrors logs syntax errors when compilation fails.
	// Default: false
	LogErrors bool

	// Literal interprets the pattern as a literal string.
	// Default: false
	Literal bool

	// NeverNL never matches \n, even if it is in the pattern.
	// Default: false
	NeverNL bool

	// DotNL lets '.' match \n.
	// Default: false
	DotNL bool

	// NeverCapture parses all parentheses as non-capturing.
	// Default: false
	NeverCapture bool

	// CaseSensitive is cleared by the 'i' flag.
	// Default: true
	CaseSensitive bool

	// PerlClasses allows \d \s \w in POSIX mode.
	// Default: true
	PerlClasses bool

	// WordBoundary allows \b \B in POSIX mode.
	// Default: true
	WordBoundary bool

	// Multiline makes ^ and $ match at line boundaries. It is applied by
	// rewriting the pattern, not by the engine.
	// Default: false
	Multiline bool

	// MaxMem is the approximate memory budget of a compiled pattern.
	// Default: DefaultMaxMem
	MaxMem int64
}

// Default returns the configuration in effect before any flag is applied.
func Default() Options {
	return Options{
		UTF8:          true,
		CaseSensitive: true,
		PerlClasses:   true,
		WordBoundary:  true,
		MaxMem:        DefaultMaxMem,
	}
}

// WithMaxMem returns a copy of o using budget as its memory budget.
// A zero budget selects DefaultMaxMem.
func (o Options) WithMaxMem(budget uint64) Options {
	if budget == 0 {
		o.MaxMem = DefaultMaxMem
		return o
	}
	if budget > 1<<62 {
		budget = 1 << 62
	}
	o.MaxMem = int64(budget)
	return o
}

// Flags returns the canonical flag string for o: every letter of the
// grammar, lowercase when the option is on and uppercase when it is off.
// Parse(o.Flags()) reproduces o apart from MaxMem.
func (o Options) Flags() string {
	b := make([]byte, 0, len(flagTable))
	for i := range flagTable {
		f := &flagTable[i]
		if f.get(o) {
			b = append(b, f.letter)
		} else {
			b = append(b, f.letter-'a'+'A')
		}
	}
	return string(b)
}

// Key identifies o for caching compiled programs.
func (o Options) Key() string {
	return o.Flags() + ":" + strconv.FormatInt(o.MaxMem, 10)
}
