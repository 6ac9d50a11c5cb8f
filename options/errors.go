package options

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrUnsupportedFlag is matched by every *FlagError via errors.Is.
var ErrUnsupportedFlag = errors.New("unsupported flag")

// FlagError reports a byte outside the flag grammar.
type FlagError struct {
	// Flag is the offending byte exactly as the caller wrote it.
	Flag byte
	// Offset is the position of Flag in the flag string.
	Offset int
}

// Error implements the error interface.
func (e *FlagError) Error() string {
	if e.Flag >= 0x20 && e.Flag < 0x7f {
		return fmt.Sprintf("unsupported flag %q at offset %d", rune(e.Flag), e.Offset)
	}
	return fmt.Sprintf("unsupported flag byte 0x%02x at offset %d", e.Flag, e.Offset)
}

// Is reports whether target is ErrUnsupportedFlag.
func (e *FlagError) Is(target error) bool {
	return target == ErrUnsupportedFlag
}
