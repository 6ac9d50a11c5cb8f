// Package re2c is a boundary layer that lets callers outside Go compile
// regular expressions, match them against caller-owned text and read
// back submatch captures.
//
// Compilation and matching are delegated to an external engine (see
// package engine). This package owns only what crosses the boundary:
//   - the single-character flag grammar (package options)
//   - compiled pattern handles with a cached capture count
//   - a reusable capture buffer for single-shot matches
//   - a doubling log that accumulates captures across repeated matches
//
// Captured text is never copied. Every View points into the text the
// caller passed in, which must stay alive and unmodified while views
// are read.
//
// Basic usage:
//
//	pat, err := re2c.Compile([]byte(`(\d+)-(\d+)`), "")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer pat.Free()
//
//	var caps re2c.Captures
//	if pat.Match([]byte("12-34"), re2c.Find, &caps) {
//	    v, _ := caps.Get(1)
//	    fmt.Println(v.String()) // "12"
//	}
//
// Repeated matches:
//
//	var log re2c.Log
//	pat.FindAll([]byte("1-2 3-4"), &log)
//	// log.Len() == 4, two captures per match
//
// Concurrency: a Pattern may be matched from many goroutines at once.
// Captures and Log values are scratch state and belong to one goroutine
// at a time.
package re2c

import (
	"sync"

	"github.com/dustin/go-humanize"
	"github.com/golang/glog"

	"github.com/coregx/re2c/config"
	"github.com/coregx/re2c/engine"
	_ "github.com/coregx/re2c/engine/cgx"     // registers "coregex"
	_ "github.com/coregx/re2c/engine/re2wasm" // registers "re2"
	"github.com/coregx/re2c/internal/progcache"
	"github.com/coregx/re2c/options"
)

// Compiler compiles patterns with one engine and an optional program
// cache. A Compiler is safe for concurrent use.
type Compiler struct {
	eng    engine.Engine
	cache  *progcache.Cache
	maxMem uint64
}

// NewCompiler returns a Compiler configured by cfg.
//
// Example:
//
//	cfg := config.Default()
//	cfg.Engine = "re2"
//	c, err := re2c.NewCompiler(cfg)
func NewCompiler(cfg config.Config) (*Compiler, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	eng, err := engine.Lookup(cfg.Engine)
	if err != nil {
		return nil, err
	}

	c := &Compiler{eng: eng, maxMem: cfg.MaxMem}
	if cfg.CacheEntries > 0 {
		if c.cache, err = progcache.New(cfg.CacheEntries); err != nil {
			return nil, err
		}
	}
	glog.V(1).Infof("re2c: compiler using %s engine, default budget %s, cache %d entries",
		eng.Name(), humanize.IBytes(cfg.MaxMem), cfg.CacheEntries)
	return c, nil
}

// Engine returns the name of the engine in use.
func (c *Compiler) Engine() string {
	return c.eng.Name()
}

// Compile parses flags and compiles pattern. A zero maxMem selects the
// compiler's default budget.
//
// An unsupported flag fails with an error matching ErrUnsupportedFlag
// before the engine is involved. A pattern the engine rejects fails
// with *SyntaxError.
func (c *Compiler) Compile(pattern []byte, flags string, maxMem uint64) (*Pattern, error) {
	opts, err := options.Parse(flags)
	if err != nil {
		glog.V(1).Infof("re2c: rejecting flags %q: %v", flags, err)
		return nil, err
	}
	if maxMem == 0 {
		maxMem = c.maxMem
	}
	return c.CompileOptions(pattern, opts.WithMaxMem(maxMem))
}

// CompileOptions compiles pattern under an already built configuration.
func (c *Compiler) CompileOptions(pattern []byte, opts options.Options) (*Pattern, error) {
	src := opts.Rewrite(pattern)
	defer src.Release()

	var key string
	if c.cache != nil {
		key = progcache.Key(c.eng.Name(), opts, src.Bytes())
		if prog, ok := c.cache.Get(key); ok {
			return newPattern(prog, pattern, opts), nil
		}
	}

	prog, err := c.eng.Compile(src.String(), opts)
	if err != nil {
		serr := &SyntaxError{Pattern: string(pattern), Err: err}
		if opts.LogErrors {
			glog.Errorf("re2c: compiling %q with %s: %v", pattern, c.eng.Name(), err)
		}
		return nil, serr
	}

	if c.cache != nil {
		c.cache.Set(key, prog)
	}
	if glog.V(2) {
		glog.Infof("re2c: compiled %q flags=%s budget=%s captures=%d",
			pattern, opts.Flags(), humanize.IBytes(uint64(opts.MaxMem)), prog.NumCaptures())
	}
	return newPattern(prog, pattern, opts), nil
}

// Close releases the compiler's cache. Patterns already compiled stay
// valid.
func (c *Compiler) Close() {
	if c.cache != nil {
		c.cache.Close()
	}
}

var defaultCompiler = sync.OnceValues(func() (*Compiler, error) {
	return NewCompiler(config.Default())
})

// Compile compiles pattern with the default engine and memory budget.
//
// Example:
//
//	pat, err := re2c.Compile([]byte(`^x$`), "m")
func Compile(pattern []byte, flags string) (*Pattern, error) {
	c, err := defaultCompiler()
	if err != nil {
		return nil, err
	}
	return c.Compile(pattern, flags, 0)
}

// MustCompile is like Compile but panics on error.
func MustCompile(pattern, flags string) *Pattern {
	p, err := Compile([]byte(pattern), flags)
	if err != nil {
		panic("re2c: Compile(`" + pattern + "`): " + err.Error())
	}
	return p
}
