// Package conv provides checked integer conversions for the C boundary.
//
// Lengths and indices cross the boundary as C ints and unsigned ints.
// Narrowing conversions that cannot represent a value panic, since that
// means a caller violated the interface contract. Index conversions
// saturate instead, so an out-of-range index stays out of range.
package conv

import "math"

// IntToUint converts a non-negative int to uint.
// Panics if n < 0.
//
//go:inline
func IntToUint(n int) uint {
	if n < 0 {
		panic("integer overflow: negative int converted to uint")
	}
	return uint(n)
}

// IntToInt32 converts an int to int32.
// Panics if n is outside the int32 range.
//
//go:inline
func IntToInt32(n int) int32 {
	if n < math.MinInt32 || n > math.MaxInt32 {
		panic("integer overflow: int value out of int32 range")
	}
	return int32(n)
}

// Length converts a caller-supplied length to int.
// Panics if n < 0.
//
//go:inline
func Length(n int64) int {
	if n < 0 || uint64(n) > uint64(math.MaxInt) {
		panic("integer overflow: invalid length")
	}
	return int(n)
}

// Index converts a caller-supplied unsigned index to int, saturating at
// math.MaxInt so that bounds checks still reject it.
//
//go:inline
func Index(idx uint64) int {
	if idx > uint64(math.MaxInt) {
		return math.MaxInt
	}
	return int(idx)
}
