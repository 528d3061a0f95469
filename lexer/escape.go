// SPDX-License-Identifier: MIT
package lexer

import (
	"errors"
	"net/url"
	"strings"
	"unicode/utf8"
)

const upperHex = "0123456789ABCDEF"

// ErrInvalidUTF8 is returned when a percent-decoded run is not valid UTF-8.
var ErrInvalidUTF8 = errors.New("escaped octets are not valid UTF-8")

// unreserved holds the characters left as is by Escape.
var unreserved = func() (table [256]bool) {
	for c := 'a'; c <= 'z'; c++ {
		table[c] = true
	}
	for c := 'A'; c <= 'Z'; c++ {
		table[c] = true
	}
	for c := '0'; c <= '9'; c++ {
		table[c] = true
	}
	for _, c := range "-_.!~*'()" {
		table[c] = true
	}

	return
}()

// Escaper percent-encodes text so that it survives splitting on a delimiter.
//
// A delimiter may contain unreserved characters, "." or "-" for instance; their bytes are escaped
// too.
type Escaper struct {
	component [256]bool
	literal   [256]bool
}

// NewEscaper creates an Escaper for text joined by delimiter.
func NewEscaper(delimiter string) *Escaper {
	e := &Escaper{component: unreserved}
	for index := range e.literal {
		e.literal[index] = true
	}
	for index := 0; index < len(delimiter); index++ {
		e.component[delimiter[index]] = false
		e.literal[delimiter[index]] = false
	}

	return e
}

var defaultEscaper = NewEscaper(DefaultDelimiter)

// Escape percent-encodes s as a URI component.
//
// Every byte outside the unreserved set is written as an upper case `%XX` escape.
func Escape(s string) string { return defaultEscaper.Component(s) }

// Component percent-encodes s as a URI component, delimiter bytes included.
func (e *Escaper) Component(s string) string { return escape(s, &e.component) }

// Literal percent-encodes the delimiter bytes of s, leaving the rest as is.
//
// Used for rendered numbers, "-1.5" with a "." delimiter becomes "-1%2E5".
func (e *Escaper) Literal(s string) string { return escape(s, &e.literal) }

func escape(s string, keep *[256]bool) string {
	escapes := 0
	for index := 0; index < len(s); index++ {
		if !keep[s[index]] {
			escapes++
		}
	}
	if escapes == 0 {
		return s
	}

	var buffer strings.Builder
	buffer.Grow(len(s) + 2*escapes)
	for index := 0; index < len(s); index++ {
		c := s[index]
		if keep[c] {
			buffer.WriteByte(c)
			continue
		}
		buffer.WriteByte('%')
		buffer.WriteByte(upperHex[c>>4])
		buffer.WriteByte(upperHex[c&15])
	}

	return buffer.String()
}

// Unescape decodes the `%XX` escapes of a URI component.
//
// '+' is not treated as a space.
func Unescape(s string) (string, error) {
	if strings.IndexByte(s, '%') < 0 {
		return s, nil
	}

	out, err := url.PathUnescape(s)
	if err != nil {
		return "", err
	}
	if !utf8.ValidString(out) {
		return "", ErrInvalidUTF8
	}

	return out, nil
}
