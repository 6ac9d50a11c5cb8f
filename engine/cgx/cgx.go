// Package cgx is the default engine, backed by github.com/coregx/coregex.
//
// coregex is a linear-time, RE2-syntax engine (lazy DFA, PikeVM and
// literal prefilters). Options that coregex has no switch for are baked
// into the pattern text by internal/translate; the memory budget sizes
// the lazy DFA state cache.
//
// Importing this package registers the engine under the name "coregex".
package cgx

import (
	"sync"

	"github.com/coregx/coregex"
	"github.com/coregx/coregex/meta"
	"github.com/golang/glog"
	"github.com/pkg/errors"

	"github.com/coregx/re2c/engine"
	"github.com/coregx/re2c/internal/translate"
	"github.com/coregx/re2c/options"
)

// Name is the registry name of this engine.
const Name = "coregex"

// ErrLatin1 is returned when a pattern is compiled with the UTF-8 option
// turned off. coregex only understands UTF-8 text.
var ErrLatin1 = errors.New("coregex engine does not support Latin-1 text")

// bytesPerDFAState approximates the footprint of one cached DFA state.
const bytesPerDFAState = 256

func init() {
	engine.Register(Engine{})
}

// Engine compiles patterns with coregex.
type Engine struct{}

// Name implements engine.Engine.
func (Engine) Name() string {
	return Name
}

// Compile implements engine.Engine.
func (Engine) Compile(pattern string, opts options.Options) (engine.Program, error) {
	if !opts.UTF8 {
		return nil, ErrLatin1
	}

	res, err := translate.Translate(pattern, opts)
	if err != nil {
		return nil, err
	}
	text := res.Text

	cfg := Config(opts)
	re, err := compile(text, cfg, opts.LongestMatch)
	if err != nil {
		return nil, err
	}
	glog.V(2).Infof("cgx: compiled %q as %q (%d DFA states)", pattern, text, cfg.MaxDFAStates)

	return &program{
		find:    re,
		text:    text,
		cfg:     cfg,
		longest: opts.LongestMatch,
		ncap:    res.NumCaptures,
	}, nil
}

// Config derives the coregex configuration for opts.
//
// Example:
//
//	cfg := cgx.Config(opts) // opts.MaxMem == 2 MiB
//	// cfg.MaxDFAStates == 8192
func Config(opts options.Options) meta.Config {
	cfg := coregex.DefaultConfig()
	if opts.MaxMem <= 0 {
		return cfg
	}

	states := opts.MaxMem / bytesPerDFAState
	switch {
	case states < 1:
		states = 1
	case states > 1_000_000:
		states = 1_000_000
	}
	cfg.MaxDFAStates = uint32(states)
	return cfg
}

func compile(text string, cfg meta.Config, longest bool) (*coregex.Regex, error) {
	re, err := coregex.CompileWithConfig(text, cfg)
	if err != nil {
		return nil, err
	}
	if longest {
		re.Longest()
	}
	return re, nil
}

// program is a compiled coregex pattern. The anchored companion used for
// full matches is compiled on first use.
type program struct {
	find    *coregex.Regex
	text    string
	cfg     meta.Config
	longest bool
	// ncap comes from the parse tree; coregex's NumSubexp counts group 0.
	ncap int

	fullOnce sync.Once
	full     *coregex.Regex
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

func (p *program) anchored() *coregex.Regex {
	p.fullOnce.Do(func() {
		re, err := compile(translate.Anchored(p.text), p.cfg, p.longest)
		if err != nil {
			glog.Errorf("cgx: anchoring %q: %v", p.text, err)
			return
		}
		p.full = re
	})
	return p.full
}
