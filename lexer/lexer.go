// SPDX-License-Identifier: MIT
package lexer

import (
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
)

type (
	// NextOperation type for the next function to be executed
	NextOperation func() NextOperation

	// Lexer defines a type to capture tokens from a query string.
	//
	// A Lexer is single use, create one per source.
	Lexer struct {
		debug     bool
		delimiter string
		logger    logrus.FieldLogger

		// source is the complete input.
		source string

		// segment is the portion of source between delimiters being lexed.
		segment string
		// segmentPos is the position of segment within source.
		segmentPos int
		// offset is the current position within segment.
		offset int

		items []Item
		err   error
	}
)

const defItemsSize = 16

// New creates a new scanner for the input string
func New(source string, opts ...Option) *Lexer {
	l := &Lexer{
		delimiter: DefaultDelimiter,
		logger:    logrus.New(),
		source:    source,
	}

	for _, opt := range opts {
		opt(l)
	}

	return l
}

// Tokenize lexes text into a sequence of Items.
//
// Every segment, empty ones included, is terminated by an ItemDelimiter.
func Tokenize(text string, opts ...Option) ([]Item, error) { return New(text, opts...).Lex() }

// Delimiter obtains the configured segment delimiter.
func (l *Lexer) Delimiter() string { return l.delimiter }

// Logger obtains the logger.
func (l *Lexer) Logger() logrus.FieldLogger { return l.logger }

// Lex lexes the input by executing state functions over each segment.
func (l *Lexer) Lex() (items []Item, err error) {
	if l.err != nil {
		return nil, l.err
	}
	if l.items != nil {
		return l.items, nil
	}
	if l.err = CheckDelimiter(l.delimiter); l.err != nil {
		return nil, l.err
	}
	l.items = make([]Item, 0, defItemsSize)

	position := 0
	for _, segment := range strings.Split(l.source, l.delimiter) {
		l.segment, l.segmentPos, l.offset = segment, position, 0

		for stateFunction := l.LexOperator; stateFunction != nil; {
			stateFunction = stateFunction()
		}
		if l.err != nil {
			return nil, l.err
		}

		l.Emit(Item{ID: ItemDelimiter, Pos: position + len(segment)})
		position += len(segment) + len(l.delimiter)
	}

	return l.items, nil
}

// LexOperator emits operator Items until a value run is encountered.
func (l *Lexer) LexOperator() NextOperation {
	if l.offset >= len(l.segment) {
		return nil
	}

	var id ItemID
	switch l.segment[l.offset] {
	case assignMarker:
		id = ItemAssign
	case arrayOpenMarker:
		id = ItemArrayOpen
	case arrayCloseMarker:
		id = ItemArrayClose
	default:
		return l.LexValue
	}

	l.Emit(Item{ID: id, Pos: l.segmentPos + l.offset})
	l.offset++

	return l.LexOperator
}

// LexValue consumes a run of non-operator characters & classifies it.
//
// Operators are ASCII, scanning bytes never splits a multi-byte rune.
func (l *Lexer) LexValue() NextOperation {
	start := l.offset
	for l.offset < len(l.segment) && !isOperator(l.segment[l.offset]) {
		l.offset++
	}
	run, pos := l.segment[start:l.offset], l.segmentPos+start

	if isNumber(run) {
		// Digit runs exceeding the int range are kept as text.
		if num, err := strconv.Atoi(run); err == nil {
			l.Emit(Item{ID: ItemNumber, Num: num, Pos: pos})
			return l.LexOperator
		}
	}

	val, err := Unescape(run)
	if err != nil {
		l.err = &DecodeError{Run: run, Pos: pos, Err: err}
		if l.debug {
			l.logger.Debugf("lex error: %v", l.err)
		}

		return nil
	}
	l.Emit(Item{ID: ItemString, Val: val, Pos: pos})

	return l.LexOperator
}

// Emit appends an Item to the lexed sequence.
func (l *Lexer) Emit(item Item) {
	if l.debug {
		l.logger.Debugf("lexed item: %v @%d", item, item.Pos)
	}
	l.items = append(l.items, item)
}

// isOperator return true for the characters with a syntactic meaning within a segment.
func isOperator(c byte) bool {
	return c == assignMarker || c == arrayOpenMarker || c == arrayCloseMarker
}

// isNumber return true for a non-empty run of ASCII digits.
func isNumber(run string) bool {
	if run == "" {
		return false
	}

	for index := 0; index < len(run); index++ {
		if run[index] < '0' || run[index] > '9' {
			return false
		}
	}

	return true
}
