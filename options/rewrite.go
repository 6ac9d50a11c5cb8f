package options

import "sync"

const (
	multilinePrefix = "(?m:"
	multilineSuffix = ")"
)

// Source is pattern text ready for an engine. When the pattern had to be
// rewritten it owns a pooled buffer, which Release hands back.
//
// Usage pattern:
//
//	src := opts.Rewrite(pattern)
//	defer src.Release()
//	prog, err := eng.Compile(src.String(), opts)
type Source struct {
	text []byte
	buf  *[]byte
}

// Bytes returns the pattern text. It must not be used after Release.
func (s *Source) Bytes() []byte {
	return s.text
}

// String returns a copy of the pattern text.
func (s *Source) String() string {
	return string(s.text)
}

// Rewritten reports whether the text differs from the caller's pattern.
func (s *Source) Rewritten() bool {
	return s.buf != nil
}

// Release returns pooled storage. It is safe to call more than once and
// on a Source that was never rewritten.
func (s *Source) Release() {
	if s.buf == nil {
		return
	}
	rewritePool.put(s.buf)
	s.buf = nil
	s.text = nil
}

// Rewrite prepares pattern for the engine. With Multiline set (and
// Literal clear) the result is (?m:<pattern>) in a fresh buffer distinct
// from pattern; otherwise the result aliases pattern.
func (o Options) Rewrite(pattern []byte) *Source {
	if !o.Multiline || o.Literal {
		return &Source{text: pattern}
	}

	buf := rewritePool.get(len(multilinePrefix) + len(pattern) + len(multilineSuffix))
	b := append((*buf)[:0], multilinePrefix...)
	b = append(b, pattern...)
	b = append(b, multilineSuffix...)
	*buf = b
	return &Source{text: b, buf: buf}
}

// bufferPool recycles rewrite buffers between compile calls.
type bufferPool struct {
	pool sync.Pool
}

// maxPooledBuffer keeps unusually large patterns from pinning memory.
const maxPooledBuffer = 64 << 10

var rewritePool = &bufferPool{
	pool: sync.Pool{
		New: func() any {
			b := make([]byte, 0, 256)
			return &b
		},
	},
}

func (p *bufferPool) get(size int) *[]byte {
	buf := p.pool.Get().(*[]byte)
	if cap(*buf) < size {
		*buf = make([]byte, 0, size)
	}
	return buf
}

func (p *bufferPool) put(buf *[]byte) {
	if cap(*buf) > maxPooledBuffer {
		return
	}
	*buf = (*buf)[:0]
	p.pool.Put(buf)
}
