// Package capi is the flat, handle-based surface that cmd/libre2c exports
// to C.
//
// Every object crossing the boundary is an opaque integer handle issued
// from a table, never a Go pointer. Results follow C conventions: 0 for
// success, 1 for no match or a failed call, null (a nil slice) for an
// absent capture. Error text goes into byte buffers owned by the caller,
// always truncated to fit and NUL-terminated.
//
// Scratch state for matching (the capture buffer, the accumulated log
// and the error buffer) lives in a Context. A Context belongs to one
// thread at a time; a Pattern may be shared.
package capi

import (
	"sync"
	"unsafe"

	"github.com/dustin/go-humanize"
	"github.com/golang/glog"
	"github.com/pkg/errors"

	"github.com/coregx/re2c"
	"github.com/coregx/re2c/config"
	"github.com/coregx/re2c/internal/conv"
	"github.com/coregx/re2c/internal/handle"
)

// Return codes.
const (
	OK      = 0
	NoMatch = 1
)

// Match modes.
const (
	ModeFind      = re2c.Find
	ModeFullMatch = re2c.FullMatch
)

// Pattern is an opaque compiled pattern handle. Zero is null.
type Pattern handle.ID

// Context is an opaque handle to per-thread matching state. Zero is null.
type Context handle.ID

type aux struct {
	caps   re2c.Captures
	log    re2c.Log
	errBuf []byte
	errLen int
}

func (c *aux) setError(err error) {
	c.errLen = copyError(c.errBuf, err.Error())
}

func (c *aux) clearError() {
	c.errLen = -1
}

var (
	patterns = handle.New[*re2c.Pattern]()
	contexts = handle.New[*aux]()
)

var errNullContext = errors.New("re2c: null or freed context handle")

var compiler = sync.OnceValue(func() *re2c.Compiler {
	cfg, err := config.FromEnv()
	if err != nil {
		glog.Errorf("re2c: ignoring configuration: %v", err)
		cfg = config.Default()
	}
	c, err := re2c.NewCompiler(cfg)
	if err != nil {
		glog.Errorf("re2c: falling back to defaults: %v", err)
		if c, err = re2c.NewCompiler(config.Default()); err != nil {
			panic(err)
		}
	}
	glog.Infof("re2c: boundary ready, engine %s, default memory budget %s",
		c.Engine(), humanize.IBytes(cfg.MaxMem))
	return c
})

// copyError writes msg into buf, truncated to len(buf)-1 bytes and
// followed by a NUL. It returns the number of message bytes written, or
// -1 when buf cannot hold even the terminator.
func copyError(buf []byte, msg string) int {
	if len(buf) == 0 {
		return -1
	}
	n := copy(buf[:len(buf)-1], msg)
	buf[n] = 0
	return n
}

// Compile compiles pattern under flags. A zero maxMem selects the
// configured default. On failure it returns 0 and, if errBuf is
// non-empty, the reason is copied into it.
func Compile(pattern []byte, flags string, maxMem uint, errBuf []byte) Pattern {
	p, err := compiler().Compile(pattern, flags, uint64(maxMem))
	if err != nil {
		copyError(errBuf, err.Error())
		return 0
	}
	return Pattern(patterns.Put(p))
}

// Free releases p. Freeing 0 or an unknown handle does nothing.
func Free(p Pattern) {
	if pat, ok := patterns.Delete(handle.ID(p)); ok {
		pat.Free()
	}
}

// CaptureCount returns the number of capture groups of p, or -1 if p is
// not a live handle.
func CaptureCount(p Pattern) int {
	pat, ok := patterns.Get(handle.ID(p))
	if !ok {
		return -1
	}
	return pat.NumCaptures()
}

// Find reports OK if p matches anywhere in text.
func Find(p Pattern, text []byte) int {
	pat, ok := patterns.Get(handle.ID(p))
	if !ok || !pat.Match(text, re2c.Find, nil) {
		return NoMatch
	}
	return OK
}

func lookup(p Pattern, ctx Context) (*re2c.Pattern, *aux, int) {
	c, _ := contexts.Get(handle.ID(ctx))
	if c != nil {
		c.clearError()
	}
	pat, ok := patterns.Get(handle.ID(p))
	if !ok {
		if c != nil {
			c.setError(re2c.ErrNullHandle)
		}
		return nil, c, NoMatch
	}
	return pat, c, OK
}

// Match runs one search of p over text. When ctx is a live context its
// capture buffer receives NumCaptures()+1 views, slot 0 being the whole
// match. A null ctx only tests for a match.
func Match(p Pattern, ctx Context, text []byte, mode re2c.Mode) int {
	pat, c, rc := lookup(p, ctx)
	if rc != OK {
		return rc
	}
	var caps *re2c.Captures
	if c != nil {
		caps = &c.caps
	}
	if !pat.Match(text, mode, caps) {
		return NoMatch
	}
	return OK
}

// GetCapture returns slot idx of the last Match on ctx, or nil if there
// is no such slot. The slice aliases the matched text.
func GetCapture(ctx Context, idx uint) []byte {
	c, ok := contexts.Get(handle.ID(ctx))
	if !ok {
		return nil
	}
	v, ok := c.caps.Get(conv.Index(uint64(idx)))
	if !ok || !v.Matched() {
		return nil
	}
	return v.Bytes()
}

// CaptureAddr returns the address of slot idx inside the matched text, or
// nil if absent. Unlike the data pointer of GetCapture's slice, it is
// exact for empty captures too.
func CaptureAddr(ctx Context, idx uint) unsafe.Pointer {
	c, ok := contexts.Get(handle.ID(ctx))
	if !ok {
		return nil
	}
	v, _ := c.caps.Get(conv.Index(uint64(idx)))
	return viewAddr(v)
}

// GetCaptureLen returns the length of slot idx, or 0 if absent.
func GetCaptureLen(ctx Context, idx uint) uint {
	c, ok := contexts.Get(handle.ID(ctx))
	if !ok {
		return 0
	}
	v, _ := c.caps.Get(conv.Index(uint64(idx)))
	return conv.IntToUint(v.Len())
}

// FindAll appends the explicit groups of every match of p in text to the
// log of ctx. It returns OK if at least one match occurred. The log keeps
// growing across calls until LogReset.
func FindAll(p Pattern, ctx Context, text []byte) int {
	pat, c, rc := lookup(p, ctx)
	if rc != OK {
		return rc
	}
	if c == nil {
		if pat.FindAll(text, nil) {
			return OK
		}
		return NoMatch
	}
	if !pat.FindAll(text, &c.log) {
		return NoMatch
	}
	return OK
}

// LogCount returns the number of views recorded in the log of ctx.
func LogCount(ctx Context) uint {
	c, ok := contexts.Get(handle.ID(ctx))
	if !ok {
		return 0
	}
	return conv.IntToUint(c.log.Len())
}

// LogGet returns recorded view idx, or nil if absent.
func LogGet(ctx Context, idx uint) []byte {
	c, ok := contexts.Get(handle.ID(ctx))
	if !ok {
		return nil
	}
	v, ok := c.log.Get(conv.Index(uint64(idx)))
	if !ok || !v.Matched() {
		return nil
	}
	return v.Bytes()
}

// LogAddr returns the address of recorded view idx inside the matched
// text, or nil if absent.
func LogAddr(ctx Context, idx uint) unsafe.Pointer {
	c, ok := contexts.Get(handle.ID(ctx))
	if !ok {
		return nil
	}
	v, _ := c.log.Get(conv.Index(uint64(idx)))
	return viewAddr(v)
}

// LogGetLen returns the length of recorded view idx, or 0 if absent.
func LogGetLen(ctx Context, idx uint) uint {
	c, ok := contexts.Get(handle.ID(ctx))
	if !ok {
		return 0
	}
	v, _ := c.log.Get(conv.Index(uint64(idx)))
	return conv.IntToUint(v.Len())
}

// LogReset empties the log of ctx, keeping its storage.
func LogReset(ctx Context) {
	if c, ok := contexts.Get(handle.ID(ctx)); ok {
		c.log.Reset()
	}
}

// viewAddr computes the capture address from the text base, since a
// zero-capacity slice does not carry its offset in its data pointer.
func viewAddr(v re2c.View) unsafe.Pointer {
	src := v.Source()
	if src == nil {
		return nil
	}
	return unsafe.Add(unsafe.Pointer(unsafe.SliceData(src)), v.Start())
}

// NewContext returns a context that reports errors into errBuf. The
// buffer stays owned by the caller and must outlive the context; it may
// be empty, in which case no error text is kept.
func NewContext(errBuf []byte) Context {
	c := &aux{errBuf: errBuf, errLen: -1}
	if len(errBuf) > 0 {
		errBuf[0] = 0
	}
	return Context(contexts.Put(c))
}

// FreeContext releases ctx. Views previously returned from it stay
// valid since they point into caller text.
func FreeContext(ctx Context) {
	contexts.Delete(handle.ID(ctx))
}

// ErrorString returns the NUL-terminated error text recorded by the last
// failed call on ctx, terminator included, or nil if there is none.
func ErrorString(ctx Context) []byte {
	c, ok := contexts.Get(handle.ID(ctx))
	if !ok || c.errLen < 0 {
		return nil
	}
	return c.errBuf[:c.errLen+1]
}

// ContextError returns the error for ctx as a Go error: nil when the
// last call succeeded.
func ContextError(ctx Context) error {
	if _, ok := contexts.Get(handle.ID(ctx)); !ok {
		return errNullContext
	}
	msg := ErrorString(ctx)
	if msg == nil {
		return nil
	}
	return errors.New(string(msg[:len(msg)-1]))
}
