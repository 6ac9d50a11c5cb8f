package capi

import (
	"bytes"
	"strconv"
	"strings"
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustCompile(t *testing.T, pattern, flags string) Pattern {
	t.Helper()
	errBuf := make([]byte, 128)
	p := Compile([]byte(pattern), flags, 0, errBuf)
	require.NotZero(t, p, "compile %q: %s", pattern, cString(errBuf))
	t.Cleanup(func() { Free(p) })
	return p
}

func newContext(t *testing.T, errLen int) Context {
	t.Helper()
	ctx := NewContext(make([]byte, errLen))
	require.NotZero(t, ctx)
	t.Cleanup(func() { FreeContext(ctx) })
	return ctx
}

func cString(b []byte) string {
	if i := bytes.IndexByte(b, 0); i >= 0 {
		return string(b[:i])
	}
	return string(b)
}

func TestCopyError(t *testing.T) {
	buf := make([]byte, 6)
	assert.Equal(t, 5, copyError(buf, "syntax error"))
	assert.Equal(t, "synta\x00", string(buf))

	buf = make([]byte, 16)
	assert.Equal(t, 2, copyError(buf, "ok"))
	assert.Equal(t, "ok", cString(buf))

	buf = make([]byte, 1)
	assert.Zero(t, copyError(buf, "anything"))
	assert.Equal(t, byte(0), buf[0])

	assert.Equal(t, -1, copyError(nil, "anything"))
}

func TestCompileCaptureCount(t *testing.T) {
	p := mustCompile(t, `(a)(b)`, "")
	assert.Equal(t, 2, CaptureCount(p))
	assert.Equal(t, -1, CaptureCount(0))
}

func TestCompileUnsupportedFlag(t *testing.T) {
	live := patterns.Len()
	errBuf := make([]byte, 64)

	p := Compile([]byte(`a`), "az", 0, errBuf)
	assert.Zero(t, p)
	assert.Contains(t, cString(errBuf), "unsupported flag 'z'")
	assert.Equal(t, live, patterns.Len(), "no handle allocated")
}

func TestCompileSyntaxErrorTruncated(t *testing.T) {
	live := patterns.Len()
	errBuf := []byte("xxxxxxxxxx")

	p := Compile([]byte(`(`), "", 0, errBuf)
	assert.Zero(t, p)
	assert.Equal(t, byte(0), errBuf[len(errBuf)-1], "always NUL-terminated")
	assert.Len(t, cString(errBuf), len(errBuf)-1)
	assert.Equal(t, live, patterns.Len())

	assert.Zero(t, Compile([]byte(`(`), "", 0, nil), "nil error buffer is optional")
}

func TestFind(t *testing.T) {
	p := mustCompile(t, `^x$`, "m")
	assert.Equal(t, OK, Find(p, []byte("a\nx\nb")))

	q := mustCompile(t, `^x$`, "")
	assert.Equal(t, NoMatch, Find(q, []byte("a\nx\nb")))
	assert.Equal(t, NoMatch, Find(0, []byte("x")))
}

func TestMatchCaptures(t *testing.T) {
	p := mustCompile(t, `(\d+)-(\d+)`, "")
	ctx := newContext(t, 64)

	text := []byte("12-34")
	require.Equal(t, OK, Match(p, ctx, text, ModeFind))
	assert.Equal(t, "12-34", string(GetCapture(ctx, 0)))
	assert.Equal(t, "12", string(GetCapture(ctx, 1)))
	assert.Equal(t, "34", string(GetCapture(ctx, 2)))
	assert.Equal(t, uint(2), GetCaptureLen(ctx, 2))
	assert.Nil(t, ErrorString(ctx))
	assert.NoError(t, ContextError(ctx))

	// Captures alias the caller's text.
	text[0] = '9'
	assert.Equal(t, "92", string(GetCapture(ctx, 1)))

	assert.Nil(t, GetCapture(ctx, 3))
	assert.Zero(t, GetCaptureLen(ctx, 3))
	assert.Nil(t, GetCapture(ctx, ^uint(0)))

	require.Equal(t, OK, Match(p, ctx, []byte("5-6"), ModeFullMatch))
	assert.Equal(t, "5", string(GetCapture(ctx, 1)))
	assert.Equal(t, NoMatch, Match(p, ctx, []byte("x5-6"), ModeFullMatch))
	assert.Equal(t, OK, Match(p, 0, []byte("x5-6"), ModeFind))
}

func TestMatchRebind(t *testing.T) {
	ctx := newContext(t, 64)
	three := mustCompile(t, `(a)(b)(c)`, "")
	one := mustCompile(t, `(z)`, "")

	require.Equal(t, OK, Match(three, ctx, []byte("abc"), ModeFind))
	require.Equal(t, OK, Match(one, ctx, []byte("z"), ModeFind))
	assert.Equal(t, "z", string(GetCapture(ctx, 1)))
	assert.Nil(t, GetCapture(ctx, 2), "slot beyond the current count")
	assert.Nil(t, GetCapture(ctx, 3))
}

func TestEmptyCaptureIsNotAbsent(t *testing.T) {
	p := mustCompile(t, `b(x*)c`, "")
	ctx := newContext(t, 64)
	text := []byte("aaabcd")

	require.Equal(t, OK, Match(p, ctx, text, ModeFind))
	v := GetCapture(ctx, 1)
	assert.NotNil(t, v)
	assert.Empty(t, v)
	assert.Zero(t, GetCaptureLen(ctx, 1))

	addr := CaptureAddr(ctx, 1)
	require.NotNil(t, addr)
	assert.Equal(t, uintptr(4), uintptr(addr)-uintptr(unsafe.Pointer(&text[0])))
	assert.Equal(t, uintptr(3), uintptr(CaptureAddr(ctx, 0))-uintptr(unsafe.Pointer(&text[0])))
	assert.Nil(t, CaptureAddr(ctx, 2))
}

func TestLogAddrOfEmptyCapture(t *testing.T) {
	p := mustCompile(t, `b(x*)`, "")
	ctx := newContext(t, 64)
	text := []byte("abcabcd")

	require.Equal(t, OK, FindAll(p, ctx, text))
	require.Equal(t, uint(2), LogCount(ctx))
	base := uintptr(unsafe.Pointer(&text[0]))
	assert.Equal(t, uintptr(2), uintptr(LogAddr(ctx, 0))-base)
	assert.Equal(t, uintptr(5), uintptr(LogAddr(ctx, 1))-base)
	assert.Zero(t, LogGetLen(ctx, 1))
	assert.Nil(t, LogAddr(ctx, 2))
}

func TestFindAllNoGroups(t *testing.T) {
	p := mustCompile(t, `\d`, "")
	ctx := newContext(t, 64)

	assert.Equal(t, OK, FindAll(p, ctx, []byte("1 2 3")))
	assert.Zero(t, LogCount(ctx))
	assert.Nil(t, LogGet(ctx, 0))
	assert.Equal(t, NoMatch, FindAll(p, ctx, []byte("none")))
}

func TestUnboundContext(t *testing.T) {
	ctx := newContext(t, 64)
	for _, idx := range []uint{0, 1, 64} {
		assert.Nil(t, GetCapture(ctx, idx))
		assert.Nil(t, LogGet(ctx, idx))
		assert.Zero(t, GetCaptureLen(ctx, idx))
		assert.Zero(t, LogGetLen(ctx, idx))
	}
	assert.Zero(t, LogCount(ctx))

	assert.Nil(t, GetCapture(0, 0))
	assert.Zero(t, LogCount(0))
	assert.Error(t, ContextError(0))
}

func TestNullPatternReportsError(t *testing.T) {
	ctx := newContext(t, 8)

	assert.Equal(t, NoMatch, Match(0, ctx, []byte("a"), ModeFind))
	msg := ErrorString(ctx)
	require.NotNil(t, msg)
	assert.Len(t, msg, 8)
	assert.Equal(t, byte(0), msg[len(msg)-1])
	assert.Error(t, ContextError(ctx))

	assert.Equal(t, NoMatch, FindAll(0, ctx, []byte("a")))
	assert.NotNil(t, ErrorString(ctx))

	p := mustCompile(t, `a`, "")
	assert.Equal(t, OK, Match(p, ctx, []byte("a"), ModeFind))
	assert.Nil(t, ErrorString(ctx), "success clears the error")
}

func TestFreeDiscipline(t *testing.T) {
	live := patterns.Len()

	p := Compile([]byte(`(a)`), "", 0, nil)
	require.NotZero(t, p)
	assert.Equal(t, live+1, patterns.Len())

	Free(p)
	assert.Equal(t, live, patterns.Len())
	assert.Equal(t, -1, CaptureCount(p))
	assert.Equal(t, NoMatch, Find(p, []byte("a")))
}

func TestFindAllGrowth(t *testing.T) {
	p := mustCompile(t, `(\d+)`, "")
	ctx := newContext(t, 64)

	nums := make([]string, 100)
	for i := range nums {
		nums[i] = strconv.Itoa(i * 7)
	}
	text := []byte(strings.Join(nums, " "))

	require.Equal(t, OK, FindAll(p, ctx, text))
	require.Equal(t, uint(100*CaptureCount(p)), LogCount(ctx))
	for i, want := range nums {
		assert.Equal(t, want, string(LogGet(ctx, uint(i))))
		assert.Equal(t, uint(len(want)), LogGetLen(ctx, uint(i)))
	}
	assert.Nil(t, LogGet(ctx, 100))

	require.Equal(t, OK, FindAll(p, ctx, []byte("1 2")))
	assert.Equal(t, uint(102), LogCount(ctx))

	LogReset(ctx)
	assert.Zero(t, LogCount(ctx))
	assert.Equal(t, NoMatch, FindAll(p, ctx, []byte("none")))
	assert.Equal(t, OK, FindAll(p, 0, []byte("7")))
}

func TestFindAllTwoGroups(t *testing.T) {
	p := mustCompile(t, `(\w+)=(\w+)`, "")
	ctx := newContext(t, 64)

	require.Equal(t, OK, FindAll(p, ctx, []byte("k1=v1;k2=v2")))
	require.Equal(t, uint(4), LogCount(ctx))
	var got []string
	for i := uint(0); i < LogCount(ctx); i++ {
		got = append(got, string(LogGet(ctx, i)))
	}
	assert.Equal(t, []string{"k1", "v1", "k2", "v2"}, got)
}

func TestContextLifecycle(t *testing.T) {
	live := contexts.Len()
	ctx := NewContext(nil)
	assert.Equal(t, live+1, contexts.Len())

	assert.Equal(t, NoMatch, Match(0, ctx, nil, ModeFind))
	assert.Nil(t, ErrorString(ctx), "no buffer, no text")

	FreeContext(ctx)
	assert.Equal(t, live, contexts.Len())
	assert.Zero(t, LogCount(ctx))
}
