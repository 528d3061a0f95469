// SPDX-License-Identifier: MIT
package lexer

import (
	"errors"
	"fmt"
)

// Lexing errors.
var (
	// ErrDecode is matched by every DecodeError.
	ErrDecode = errors.New("malformed percent-encoding")

	ErrInvalidDelimiter = errors.New("invalid delimiter")
)

// DecodeError reports a run that could not be percent-decoded.
type DecodeError struct {
	Err error
	Run string
	Pos int
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode error: %v at %d (%q): %v", ErrDecode, e.Pos, e.Run, e.Err)
}

// Unwrap exposes the underlying escape error.
func (e *DecodeError) Unwrap() error { return e.Err }

// Is reports whether target is ErrDecode.
func (e *DecodeError) Is(target error) bool { return target == ErrDecode }

// CheckDelimiter reports whether delimiter can separate segments.
//
// Operators, '%', digits & the upper case hex letters used by escapes would be confused with the
// escaped or numeric content of a segment.
func CheckDelimiter(delimiter string) error {
	for index := 0; index < len(delimiter); index++ {
		if c := delimiter[index]; isOperator(c) || c == '%' || isHex(c) {
			return fmt.Errorf("%w: %q contains %q", ErrInvalidDelimiter, delimiter, c)
		}
	}

	return nil
}

func isHex(c byte) bool { return (c >= '0' && c <= '9') || (c >= 'A' && c <= 'F') }
