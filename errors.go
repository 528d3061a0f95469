// SPDX-License-Identifier: MIT
package querystring

import (
	"errors"
	"fmt"

	"gitlab.com/fisherprime/querystring/lexer"
)

// Errors encountered when decoding or encoding a query string.
var (
	ErrSyntax        = errors.New("syntax error")
	ErrDecode        = lexer.ErrDecode
	ErrSerialization = errors.New("serialization error")

	ErrInvalidDelimiter = lexer.ErrInvalidDelimiter

	ErrDepthLimit = errors.New("nesting depth limit exceeded")
	ErrIndexLimit = errors.New("index limit exceeded")

	ErrPanicked = errors.New("recovery from panic")
)

type (
	// DecodeError reports a malformed percent-encoded run.
	DecodeError = lexer.DecodeError

	// SyntaxError reports an unexpected token.
	SyntaxError struct {
		// Token is the offending token.
		Token lexer.Item
		// Expected lists the tokens that would have been accepted.
		Expected lexer.ItemSet
		// Delimiter renders lexer.ItemDelimiter.
		Delimiter string
		// Reason details a conflict with an existing value.
		Reason string
	}

	// SerializationError reports a value the encoder cannot represent.
	SerializationError struct {
		// Label is the bracket notation path of the value.
		Label string
		// Type describes the value's Go type.
		Type string
		// Reason details why a supported type was rejected.
		Reason string
	}
)

func (e *SyntaxError) Error() string {
	msg := fmt.Sprintf("%v: unexpected %s at %d, expected %s",
		ErrSyntax, e.Token.ID.Describe(e.Delimiter), e.Token.Pos, e.Expected.Describe(e.Delimiter))
	if e.Reason != "" {
		msg += " (" + e.Reason + ")"
	}

	return msg
}

// Is reports whether target is ErrSyntax.
func (e *SyntaxError) Is(target error) bool { return target == ErrSyntax }

func (e *SerializationError) Error() string {
	msg := fmt.Sprintf("%v: value for key %q of type %s is not serializable", ErrSerialization, e.Label, e.Type)
	if e.Reason != "" {
		msg += ": " + e.Reason
	}

	return msg
}

// Is reports whether target is ErrSerialization.
func (e *SerializationError) Is(target error) bool { return target == ErrSerialization }
