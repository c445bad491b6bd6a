package orgf

import (
	"errors"
	"strconv"
	"unicode/utf8"
)

var (
	// ErrInvalidUTF8 reports invalid UTF-8 input.
	ErrInvalidUTF8 = errors.New("invalid utf-8 input")
	// ErrBinaryInput reports input that appears to be binary.
	ErrBinaryInput = errors.New("binary input detected")
)

const (
	minBinarySample = 64
	maxControlPct   = 2
)

// InputError locates the byte that made ValidateInput reject a buffer. It
// unwraps to ErrInvalidUTF8 or ErrBinaryInput.
type InputError struct {
	Offset int
	Err    error
}

func (e *InputError) Error() string {
	return e.Err.Error() + " at byte " + strconv.Itoa(e.Offset)
}

func (e *InputError) Unwrap() error { return e.Err }

// ValidateInput rejects buffers the parser cannot treat as Org text: invalid
// UTF-8, a NUL byte, or a sample of 64 bytes or more in which control
// characters reach 2%. For the ratio check the offset is the first control
// character. It is the only check that fails a parse.
func ValidateInput(src []byte) error {
	control, firstControl := 0, -1
	for i := 0; i < len(src); {
		r, size := utf8.DecodeRune(src[i:])
		switch {
		case r == utf8.RuneError && size == 1:
			return &InputError{Offset: i, Err: ErrInvalidUTF8}
		case r == 0:
			return &InputError{Offset: i, Err: ErrBinaryInput}
		case isControlRune(r) && r != '\v' && r != '\f':
			if firstControl < 0 {
				firstControl = i
			}
			control++
		}
		i += size
	}
	if len(src) >= minBinarySample && control*100 >= len(src)*maxControlPct {
		return &InputError{Offset: firstControl, Err: ErrBinaryInput}
	}
	return nil
}

// isControlRune reports C0 controls other than tab, newline and carriage
// return, plus DEL.
func isControlRune(r rune) bool {
	if r == '\n' || r == '\r' || r == '\t' {
		return false
	}
	return r < 0x20 || r == 0x7F
}

func trimBOM(b []byte) []byte {
	if len(b) >= 3 && b[0] == 0xEF && b[1] == 0xBB && b[2] == 0xBF {
		return b[3:]
	}
	return b
}
