// Package translate bakes an options.Options configuration into pattern
// text that any RE2-syntax engine compiles with its default settings.
//
// The pattern is parsed with regexp/syntax under flags derived from the
// options, the parse tree is rewritten for options that have no parser
// flag (never-newline, never-capture), and the tree is printed back.
// The printer emits explicit flag groups such as (?i:...) and (?s:.), so
// the result means the same thing under plain Perl syntax.
package translate

import (
	"regexp/syntax"
	"unicode/utf8"

	"github.com/coregx/re2c/options"
)

// Flags returns the regexp/syntax parse flags for opts.
func Flags(opts options.Options) syntax.Flags {
	var flags syntax.Flags
	if opts.PosixSyntax {
		// POSIX egrep: ^ and $ are line-sensitive, no \pN groups.
		// Perl classes and word boundaries live in PerlX.
		if opts.PerlClasses || opts.WordBoundary {
			flags |= syntax.PerlX
		}
	} else {
		flags = syntax.Perl
	}
	if !opts.CaseSensitive {
		flags |= syntax.FoldCase
	}
	if opts.DotNL {
		flags |= syntax.DotNL
	}
	if opts.Literal {
		flags |= syntax.Literal
	}
	return flags
}

// Result is engine-ready pattern text.
type Result struct {
	// Text is the rewritten pattern.
	Text string
	// NumCaptures is the number of capture groups Text declares, group 0
	// excluded.
	NumCaptures int
}

// Translate translates pattern under opts. Syntax errors are returned as
// *syntax.Error, unchanged.
//
// When opts.UTF8 is false the pattern bytes are Latin-1 and so is the
// returned text.
func Translate(pattern string, opts options.Options) (Result, error) {
	if !opts.UTF8 {
		pattern = latin1ToUTF8(pattern)
	}

	re, err := syntax.Parse(pattern, Flags(opts))
	if err != nil {
		return Result{}, err
	}
	if opts.NeverNL {
		re = walk(re, dropNewline)
	}
	if opts.NeverCapture {
		re = walk(re, dropCapture)
	}

	out := re.String()
	if !opts.UTF8 {
		out = utf8ToLatin1(out)
	}
	return Result{Text: out, NumCaptures: re.MaxCap()}, nil
}

// Pattern is Translate without the capture count.
func Pattern(pattern string, opts options.Options) (string, error) {
	res, err := Translate(pattern, opts)
	return res.Text, err
}

// Anchored wraps translated text so it only matches the entire input.
func Anchored(text string) string {
	return `\A(?:` + text + `)\z`
}

// walk rewrites the tree bottom-up, replacing each node by f(node).
func walk(re *syntax.Regexp, f func(*syntax.Regexp) *syntax.Regexp) *syntax.Regexp {
	for i, sub := range re.Sub {
		re.Sub[i] = walk(sub, f)
	}
	return f(re)
}

func dropCapture(re *syntax.Regexp) *syntax.Regexp {
	if re.Op == syntax.OpCapture {
		return re.Sub[0]
	}
	return re
}

func dropNewline(re *syntax.Regexp) *syntax.Regexp {
	switch re.Op {
	case syntax.OpAnyChar:
		re.Op = syntax.OpAnyCharNotNL
	case syntax.OpLiteral:
		for _, r := range re.Rune {
			if r == '\n' {
				return noMatch(re)
			}
		}
	case syntax.OpCharClass:
		re.Rune = removeNewline(re.Rune)
		if len(re.Rune) == 0 {
			return noMatch(re)
		}
	}
	return re
}

func noMatch(re *syntax.Regexp) *syntax.Regexp {
	return &syntax.Regexp{Op: syntax.OpNoMatch, Flags: re.Flags}
}

// removeNewline removes '\n' from a class given as [lo, hi] range pairs.
func removeNewline(ranges []rune) []rune {
	out := make([]rune, 0, len(ranges)+2)
	for i := 0; i+1 < len(ranges); i += 2 {
		lo, hi := ranges[i], ranges[i+1]
		if lo > '\n' || hi < '\n' {
			out = append(out, lo, hi)
			continue
		}
		if lo < '\n' {
			out = append(out, lo, '\n'-1)
		}
		if hi > '\n' {
			out = append(out, '\n'+1, hi)
		}
	}
	return out
}

func latin1ToUTF8(s string) string {
	ascii := true
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			ascii = false
			break
		}
	}
	if ascii {
		return s
	}
	b := make([]byte, 0, len(s)*2)
	for i := 0; i < len(s); i++ {
		b = utf8.AppendRune(b, rune(s[i]))
	}
	return string(b)
}

// utf8ToLatin1 folds runes below 256 back to single bytes. Larger runes
// cannot come from Latin-1 input and are left encoded.
func utf8ToLatin1(s string) string {
	b := make([]byte, 0, len(s))
	for _, r := range s {
		if r < 256 {
			b = append(b, byte(r))
			continue
		}
		b = utf8.AppendRune(b, r)
	}
	return string(b)
}
