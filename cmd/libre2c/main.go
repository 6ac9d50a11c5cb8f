// Command libre2c builds the C shared library:
//
//	go build -buildmode=c-shared -o libre2c.so ./cmd/libre2c
//
// Handles are uintptr_t values issued by package capi. Text, pattern and
// error buffers stay in C memory; returned capture pointers point into
// the caller's text and are not NUL-terminated.
package main

/*
#include <stdint.h>
#include <stdlib.h>
*/
import "C"

import (
	"sync"
	"unsafe"

	"github.com/coregx/re2c"
	"github.com/coregx/re2c/capi"
	"github.com/coregx/re2c/internal/conv"
)

// errBufs keeps the C error buffer of each context until re2c_free_aux.
var errBufs sync.Map

func bytesOf(p *C.char, n C.int) []byte {
	if p == nil || n <= 0 {
		return nil
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(p)), conv.Length(int64(n)))
}

func match(text *C.char, n C.int, pat, aux C.uintptr_t, mode re2c.Mode) C.int {
	return C.int(capi.Match(capi.Pattern(pat), capi.Context(aux), bytesOf(text, n), mode))
}

//export re2c_compile
func re2c_compile(pattern *C.char, patLen C.int, flags *C.char, errstr *C.char, errLen C.int, maxMem C.uint) C.uintptr_t {
	var f string
	if flags != nil {
		f = C.GoString(flags)
	}
	return C.uintptr_t(capi.Compile(bytesOf(pattern, patLen), f, uint(maxMem), bytesOf(errstr, errLen)))
}

//export re2c_free
func re2c_free(pat C.uintptr_t) {
	capi.Free(capi.Pattern(pat))
}

//export re2c_getncap
func re2c_getncap(pat C.uintptr_t) C.int {
	return C.int(conv.IntToInt32(capi.CaptureCount(capi.Pattern(pat))))
}

//export re2c_find
func re2c_find(text *C.char, n C.int, pat C.uintptr_t) C.int {
	return C.int(capi.Find(capi.Pattern(pat), bytesOf(text, n)))
}

//export re2c_match
func re2c_match(text *C.char, n C.int, pat, aux C.uintptr_t) C.int {
	return match(text, n, pat, aux, capi.ModeFind)
}

//export re2c_fmatch
func re2c_fmatch(text *C.char, n C.int, pat, aux C.uintptr_t) C.int {
	return match(text, n, pat, aux, capi.ModeFullMatch)
}

//export re2c_match_r
func re2c_match_r(text *C.char, n C.int, pat, aux C.uintptr_t) C.int {
	return C.int(capi.FindAll(capi.Pattern(pat), capi.Context(aux), bytesOf(text, n)))
}

//export re2c_get_capture
func re2c_get_capture(aux C.uintptr_t, idx C.uint) *C.char {
	return (*C.char)(capi.CaptureAddr(capi.Context(aux), uint(idx)))
}

//export re2c_get_capture_len
func re2c_get_capture_len(aux C.uintptr_t, idx C.uint) C.uint {
	return C.uint(capi.GetCaptureLen(capi.Context(aux), uint(idx)))
}

//export re2c_get_capture_r_count
func re2c_get_capture_r_count(aux C.uintptr_t) C.uint {
	return C.uint(capi.LogCount(capi.Context(aux)))
}

//export re2c_get_capture_r
func re2c_get_capture_r(aux C.uintptr_t, idx C.uint) *C.char {
	return (*C.char)(capi.LogAddr(capi.Context(aux), uint(idx)))
}

//export re2c_get_capture_r_len
func re2c_get_capture_r_len(aux C.uintptr_t, idx C.uint) C.uint {
	return C.uint(capi.LogGetLen(capi.Context(aux), uint(idx)))
}

//export re2c_reset_capture_r
func re2c_reset_capture_r(aux C.uintptr_t) {
	capi.LogReset(capi.Context(aux))
}

//export re2c_alloc_aux
func re2c_alloc_aux(errLen C.int) C.uintptr_t {
	var buf *C.char
	if errLen > 0 {
		buf = (*C.char)(C.calloc(C.size_t(errLen), 1))
	}
	ctx := capi.NewContext(bytesOf(buf, errLen))
	if buf != nil {
		errBufs.Store(ctx, buf)
	}
	return C.uintptr_t(ctx)
}

//export re2c_free_aux
func re2c_free_aux(aux C.uintptr_t) {
	ctx := capi.Context(aux)
	capi.FreeContext(ctx)
	if buf, ok := errBufs.LoadAndDelete(ctx); ok {
		C.free(unsafe.Pointer(buf.(*C.char)))
	}
}

//export re2c_get_errstr
func re2c_get_errstr(aux C.uintptr_t) *C.char {
	msg := capi.ErrorString(capi.Context(aux))
	if msg == nil {
		return nil
	}
	return (*C.char)(unsafe.Pointer(&msg[0]))
}

func main() {}
