// Package re2wasm is an engine backed by the RE2 C++ library through
// github.com/wasilibs/go-re2.
//
// Unlike the coregex engine it can treat text as Latin-1 (the 'U' flag).
// Compiled RE2 objects live in wasm memory and are reclaimed by go-re2's
// finalizers once the program is unreachable.
//
// Importing this package registers the engine under the name "re2".
package re2wasm

import (
	"sync"

	"github.com/dustin/go-humanize"
	"github.com/golang/glog"
	"github.com/pkg/errors"
	re2 "github.com/wasilibs/go-re2"
	"github.com/wasilibs/go-re2/experimental"

	"github.com/coregx/re2c/engine"
	"github.com/coregx/re2c/internal/translate"
	"github.com/coregx/re2c/options"
)

// Name is the registry name of this engine.
const Name = "re2"

// ErrLatin1Longest is returned for the unsupported combination of
// Latin-1 text and leftmost-longest matching.
var ErrLatin1Longest = errors.New("re2 engine does not support longest match with Latin-1 text")

func init() {
	engine.Register(Engine{})
}

// Engine compiles patterns with RE2.
type Engine struct{}

// Name implements engine.Engine.
func (Engine) Name() string {
	return Name
}

// Compile implements engine.Engine.
func (Engine) Compile(pattern string, opts options.Options) (engine.Program, error) {
	if !opts.UTF8 && opts.LongestMatch {
		return nil, ErrLatin1Longest
	}

	res, err := translate.Translate(pattern, opts)
	if err != nil {
		return nil, err
	}
	text := res.Text
	if opts.MaxMem != options.DefaultMaxMem {
		glog.V(1).Infof("re2wasm: memory budget %s not applied to %q, go-re2 has no max_mem setting",
			humanize.IBytes(uint64(opts.MaxMem)), pattern)
	}

	re, err := compile(text, opts)
	if err != nil {
		return nil, err
	}
	glog.V(2).Infof("re2wasm: compiled %q as %q", pattern, text)

	return &program{
		find: re,
		text: text,
		opts: opts,
		ncap: res.NumCaptures,
	}, nil
}

func compile(text string, opts options.Options) (*re2.Regexp, error) {
	if !opts.UTF8 {
		return experimental.CompileLatin1(text)
	}
	re, err := re2.Compile(text)
	if err != nil {
		return nil, err
	}
	if opts.LongestMatch {
		re.Longest()
	}
	return re, nil
}

type program struct {
	find *re2.Regexp
	text string
	opts options.Options
	ncap int

	fullOnce sync.Once
	full     *re2.Regexp
}

func (p *program) NumCaptures() int {
	return p.ncap
}

func (p *program) Match(text []byte, anchor engine.Anchor, dst []int) []int {
	re := p.find
	if anchor == engine.AnchorBoth {
		if re = p.anchored(); re == nil {
			return nil
		}
	}

	loc := re.FindSubmatchIndex(text)
	if loc == nil {
		return nil
	}
	return append(dst[:0], loc...)
}

func (p *program) anchored() *re2.Regexp {
	p.fullOnce.Do(func() {
		re, err := compile(translate.Anchored(p.text), p.opts)
		if err != nil {
			glog.Errorf("re2wasm: anchoring %q: %v", p.text, err)
			return
		}
		p.full = re
	})
	return p.full
}
