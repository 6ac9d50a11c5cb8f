// Package engine defines the capability interface between the boundary
// layer and an external regular expression engine.
//
// The boundary never compiles or executes patterns itself. It needs
// exactly three things from an engine:
//   - compile a pattern under an options.Options configuration
//   - run one search and report submatch offsets
//   - report the number of capture groups
//
// Implementations live in subpackages (engine/cgx, engine/re2wasm) and
// register themselves by name on import, similar to database/sql drivers.
package engine

import (
	"sort"
	"sync"

	"github.com/pkg/errors"

	"github.com/coregx/re2c/options"
)

// Anchor selects how a search is anchored.
type Anchor int

const (
	// Unanchored searches for the pattern anywhere in the text.
	Unanchored Anchor = iota
	// AnchorBoth requires the pattern to match the entire text.
	AnchorBoth
)

// String returns a human-readable anchor name.
func (a Anchor) String() string {
	switch a {
	case Unanchored:
		return "unanchored"
	case AnchorBoth:
		return "anchor-both"
	default:
		return "unknown"
	}
}

// Engine compiles patterns.
type Engine interface {
	// Name identifies the engine in the registry and in cache keys.
	Name() string

	// Compile compiles pattern under opts. Syntax failures are reported
	// as errors whose message is the engine's own description.
	Compile(pattern string, opts options.Options) (Program, error)
}

// Program is a compiled pattern. A Program must be safe for concurrent
// use by multiple goroutines.
type Program interface {
	// NumCaptures returns the number of explicit capture groups.
	NumCaptures() int

	// Match runs one search over text. On success it returns
	// 2*(NumCaptures()+1) offsets appended to dst[:0]: pair 0 is the
	// whole match, pair i is group i, -1 marks an unmatched group.
	// It returns nil when there is no match.
	Match(text []byte, anchor Anchor, dst []int) []int
}

// Releaser is implemented by programs whose resources must be freed
// explicitly rather than by the garbage collector. Neither built-in
// engine needs it; Pattern.Free calls Release when it is present and the
// program cache refuses such programs.
type Releaser interface {
	Release()
}

// ErrUnknownEngine is returned by Lookup for unregistered names.
var ErrUnknownEngine = errors.New("unknown regex engine")

var (
	registryMu sync.RWMutex
	registry   = make(map[string]Engine)
)

// Register makes e available by its Name. It panics if the name is
// empty or already registered.
func Register(e Engine) {
	registryMu.Lock()
	defer registryMu.Unlock()

	name := e.Name()
	if name == "" {
		panic("engine: Register with empty name")
	}
	if _, dup := registry[name]; dup {
		panic("engine: Register called twice for " + name)
	}
	registry[name] = e
}

// Lookup returns the engine registered under name.
func Lookup(name string) (Engine, error) {
	registryMu.RLock()
	defer registryMu.RUnlock()

	e, ok := registry[name]
	if !ok {
		return nil, errors.Wrapf(ErrUnknownEngine, "%q (registered: %v)", name, namesLocked())
	}
	return e, nil
}

// Names returns the registered engine names in sorted order.
func Names() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	return namesLocked()
}

func namesLocked() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
