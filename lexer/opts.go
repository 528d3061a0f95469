// SPDX-License-Identifier: MIT
package lexer

import (
	"github.com/sirupsen/logrus"
)

type (
	// Option defines the Lexer functional option type
	Option func(*Lexer)
)

const (
	// DefaultDelimiter is the string separating the segments of a query string.
	DefaultDelimiter = "&"

	assignMarker     = '='
	arrayOpenMarker  = '['
	arrayCloseMarker = ']'
)

// WithDebug configures the debug option.
func WithDebug(debug bool) Option { return func(l *Lexer) { l.debug = debug } }

// WithDelimiter configures the segment delimiter.
//
// An empty delimiter is replaced by DefaultDelimiter.
func WithDelimiter(delimiter string) Option {
	return func(l *Lexer) {
		if delimiter == "" {
			delimiter = DefaultDelimiter
		}
		l.delimiter = delimiter
	}
}

// WithLogger configures the logger option.
func WithLogger(logger logrus.FieldLogger) Option {
	return func(l *Lexer) {
		if logger != nil {
			l.logger = logger
		}
	}
}
