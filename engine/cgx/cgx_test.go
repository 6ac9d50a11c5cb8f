package cgx

import (
	"regexp"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coregx/re2c/engine"
	"github.com/coregx/re2c/options"
)

func mustCompile(t *testing.T, pattern, flags string) engine.Program {
	t.Helper()
	opts, err := options.Parse(flags)
	require.NoError(t, err)
	prog, err := Engine{}.Compile(pattern, opts)
	require.NoError(t, err)
	return prog
}

func TestRegistered(t *testing.T) {
	e, err := engine.Lookup(Name)
	require.NoError(t, err)
	assert.Equal(t, Name, e.Name())
}

func TestMatchAgainstStdlib(t *testing.T) {
	tests := []struct {
		pattern string
		input   string
	}{
		{`(\d+)-(\d+)`, "12-34"},
		{`(\d+)-(\d+)`, "call 555-1234 now"},
		{`(a)|(b)`, "b"},
		{`(\w+)@(\w+)\.com`, "mail user@example.com today"},
		{`x*`, "yyy"},
		{`hello`, "goodbye"},
	}

	for _, tt := range tests {
		t.Run(tt.pattern+"/"+tt.input, func(t *testing.T) {
			prog := mustCompile(t, tt.pattern, "")
			std := regexp.MustCompile(tt.pattern)

			assert.Equal(t, std.NumSubexp(), prog.NumCaptures())
			assert.Equal(t, std.FindSubmatchIndex([]byte(tt.input)),
				prog.Match([]byte(tt.input), engine.Unanchored, nil))
		})
	}
}

func TestNumCapturesMatchesStdlib(t *testing.T) {
	for _, pattern := range []string{`abc`, `(a)(b)`, `(a(b))|(c)`, `(?:x)(y)`, `(?P<k>\w+)=(?P<v>\w*)`} {
		prog := mustCompile(t, pattern, "")
		std := regexp.MustCompile(pattern)
		assert.Equal(t, std.NumSubexp(), prog.NumCaptures(), pattern)

		if loc := prog.Match([]byte("ab c k=v xy"), engine.Unanchored, nil); loc != nil {
			assert.Len(t, loc, 2*(prog.NumCaptures()+1), pattern)
		}
	}
}

func TestFullMatch(t *testing.T) {
	prog := mustCompile(t, `(\d+)-(\d+)`, "")

	loc := prog.Match([]byte("12-34"), engine.AnchorBoth, nil)
	assert.Equal(t, []int{0, 5, 0, 2, 3, 5}, loc)

	assert.Nil(t, prog.Match([]byte("x12-34"), engine.AnchorBoth, nil))
	assert.Nil(t, prog.Match([]byte("12-34x"), engine.AnchorBoth, nil))
	assert.NotNil(t, prog.Match([]byte("x12-34"), engine.Unanchored, nil))
}

func TestMatchReusesDst(t *testing.T) {
	prog := mustCompile(t, `(b)`, "")
	dst := make([]int, 0, 8)
	loc := prog.Match([]byte("abc"), engine.Unanchored, dst)
	require.Equal(t, []int{1, 2, 1, 2}, loc)
	assert.Equal(t, &dst[:1][0], &loc[0])
}

func TestCaseInsensitive(t *testing.T) {
	prog := mustCompile(t, `hello`, "i")
	assert.NotNil(t, prog.Match([]byte("HeLLo"), engine.Unanchored, nil))

	prog = mustCompile(t, `hello`, "")
	assert.Nil(t, prog.Match([]byte("HeLLo"), engine.Unanchored, nil))
}

func TestNeverCapture(t *testing.T) {
	prog := mustCompile(t, `(a)(b)`, "c")
	assert.Equal(t, 0, prog.NumCaptures())
	assert.Equal(t, []int{0, 2}, prog.Match([]byte("ab"), engine.Unanchored, nil))
}

func TestSyntaxError(t *testing.T) {
	_, err := Engine{}.Compile(`(abc`, options.Default())
	require.Error(t, err)

	_, stdErr := regexp.Compile(`(abc`)
	assert.Equal(t, stdErr.Error(), err.Error())
}

func TestLatin1Rejected(t *testing.T) {
	opts, err := options.Parse("U")
	require.NoError(t, err)

	_, err = Engine{}.Compile(`abc`, opts)
	assert.True(t, errors.Is(err, ErrLatin1))
}

func TestConfig(t *testing.T) {
	assert.Equal(t, uint32(8192), Config(options.Default()).MaxDFAStates)
	assert.Equal(t, uint32(1), Config(options.Default().WithMaxMem(1)).MaxDFAStates)
	assert.Equal(t, uint32(1_000_000), Config(options.Default().WithMaxMem(1<<40)).MaxDFAStates)
	require.NoError(t, Config(options.Default()).Validate())
}
