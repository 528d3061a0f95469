// SPDX-License-Identifier: MIT
package lexer

import (
	"strconv"
	"strings"
)

type (
	// ItemID int holding an identifier for the Item tokens
	ItemID int

	// ItemSet is a set of ItemIDs accepted at some point of the parse.
	ItemSet []ItemID

	// Item type holding the kind & payload of a scanned token.
	Item struct {
		Val string // The percent-decoded value of an ItemString.
		ID  ItemID // The type of this Item
		Num int    // The value of an ItemNumber.
		Pos int    // The starting position, (in bytes) of this Item
	}
)

// iota is used to define an incrementing number sequence for const
// declarations
const (
	_              = iota // Consume 0 to start actual numbering at 1.
	ItemAssign            // '='.
	ItemArrayOpen         // '['.
	ItemArrayClose        // ']'.
	ItemDelimiter         // End of a segment.
	ItemString            // Percent-decoded text.
	ItemNumber            // A digit-only run.
	ItemEOF               // End of the input, never emitted by the Lexer.
)

// NewItemSet creates an ItemSet from ids.
func NewItemSet(ids ...ItemID) ItemSet { return ItemSet(ids) }

// Contains reports whether id is a member of the ItemSet.
func (s ItemSet) Contains(id ItemID) bool {
	for _, member := range s {
		if member == id {
			return true
		}
	}

	return false
}

// Describe renders the ItemSet as a readable list, e.g: `"]", (number) or (string)`.
func (s ItemSet) Describe(delimiter string) string {
	switch len(s) {
	case 0:
		return "nothing"
	case 1:
		return s[0].Describe(delimiter)
	}

	names := make([]string, len(s))
	for index, id := range s {
		names[index] = id.Describe(delimiter)
	}

	return strings.Join(names[:len(names)-1], ", ") + " or " + names[len(names)-1]
}

// String is the fmt.Stringer implementation for ItemSet.
func (s ItemSet) String() string { return s.Describe(DefaultDelimiter) }

// Describe renders a readable representation of an ItemID.
//
// The delimiter is required to render ItemDelimiter.
func (id ItemID) Describe(delimiter string) string {
	switch id {
	case ItemAssign:
		return `"="`
	case ItemArrayOpen:
		return `"["`
	case ItemArrayClose:
		return `"]"`
	case ItemDelimiter:
		return strconv.Quote(delimiter)
	case ItemString:
		return "(string)"
	case ItemNumber:
		return "(number)"
	case ItemEOF:
		return "end of input"
	default:
		return "?(" + strconv.Itoa(int(id)) + ")?"
	}
}

// String is the fmt.Stringer implementation for ItemID.
func (id ItemID) String() string { return id.Describe(DefaultDelimiter) }

// String renders the Item with its payload.
func (i Item) String() string {
	switch i.ID {
	case ItemString:
		return "(string) " + strconv.Quote(i.Val)
	case ItemNumber:
		return "(number) " + strconv.Itoa(i.Num)
	default:
		return i.ID.String()
	}
}
