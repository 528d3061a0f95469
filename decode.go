// SPDX-License-Identifier: MIT
package querystring

import (
	"fmt"
	"strconv"

	"github.com/davecgh/go-spew/spew"

	"gitlab.com/fisherprime/querystring/lexer"
)

type (
	// decoder holds the state of a single Decode call.
	decoder struct {
		cfg *Config

		items []lexer.Item
		// offset is the index of the next unconsumed item.
		offset int
		// end is the position reported for lexer.ItemEOF.
		end int
	}

	// slot addresses an entry of a Map or a List.
	slot struct {
		m     *Map
		l     *List
		key   string
		index int
	}
)

var (
	scalarItems   = lexer.NewItemSet(lexer.ItemString, lexer.ItemNumber)
	collectItems  = lexer.NewItemSet(lexer.ItemArrayOpen, lexer.ItemAssign, lexer.ItemDelimiter)
	accessItems   = lexer.NewItemSet(lexer.ItemArrayClose, lexer.ItemNumber, lexer.ItemString)
	listItems     = lexer.NewItemSet(lexer.ItemArrayClose, lexer.ItemNumber)
	mapItems      = lexer.NewItemSet(lexer.ItemString, lexer.ItemNumber)
	scalarNext    = lexer.NewItemSet(lexer.ItemAssign, lexer.ItemDelimiter)
	keyItems      = lexer.NewItemSet(lexer.ItemString)
	closeItems    = lexer.NewItemSet(lexer.ItemArrayClose)
	delimiterItem = lexer.NewItemSet(lexer.ItemDelimiter)
)

// Decode transforms a query string into a Map.
//
// Bracket notation builds nested values: `a[]=1&a[]=2` yields a List, `a[b]=1` a Map & `a[2]=x`
// densifies a List with Absent fillers. A key without "=" decodes to true.
//
// Explicit indices above Config.MaxIndex fail with ErrIndexLimit, see WithMaxIndex before raising it
// for untrusted input.
//
// Decoding is all or nothing, an error never comes with a partial Map.
func Decode(text string, opts ...Option) (result *Map, err error) {
	cfg := newConfig(opts)
	if err = lexer.CheckDelimiter(cfg.Delimiter); err != nil {
		return nil, err
	}

	result = NewMap()
	if text == "" {
		return
	}

	items, err := lexer.Tokenize(text, cfg.lexerOptions()...)
	if err != nil {
		return nil, err
	}

	d := &decoder{cfg: cfg, items: items, end: len(text)}
	if err = d.decode(result); err != nil {
		// Skip expensive operation if not debug.
		if cfg.Debug {
			cfg.Logger.Debugf("partial result: %s\nremaining tokens: %s",
				spew.Sdump(result), spew.Sdump(d.items[d.offset:]))
		}

		return nil, err
	}

	return
}

// decode consumes every segment into result.
func (d *decoder) decode(result *Map) error {
	for d.offset < len(d.items) {
		item, err := d.expect(keyItems)
		if err != nil {
			return err
		}

		if d.cfg.Debug {
			d.cfg.Logger.Debugf("decoding key: %q", item.Val)
		}

		target := slot{m: result, key: item.Val}

		// Later occurrences of a key extend the existing value.
		if !result.Has(item.Val) {
			if err = d.initialize(target); err != nil {
				return err
			}
		}

		if err = d.collect(target, 0); err != nil {
			return err
		}
	}

	return nil
}

// collect handles the token following a key or an access expression.
func (d *decoder) collect(target slot, depth int) (err error) {
	item := d.next()

	switch item.ID {
	case lexer.ItemArrayOpen:
		return d.access(target, item, depth+1)
	case lexer.ItemAssign:
		var val lexer.Item
		if val, err = d.expect(scalarItems); err != nil {
			return
		}
		target.set(scalar(val))

		_, err = d.expect(delimiterItem)
	case lexer.ItemDelimiter:
		target.set(true)
	default:
		err = d.syntaxError(item, collectItems, "")
	}

	return
}

// access handles one "[" ... "]" expression on the value at target.
func (d *decoder) access(target slot, open lexer.Item, depth int) error {
	if d.cfg.MaxDepth > 0 && depth > d.cfg.MaxDepth {
		return fmt.Errorf("%w: %d at %d", ErrDepthLimit, d.cfg.MaxDepth, open.Pos)
	}

	current, _ := target.get()
	switch host := current.(type) {
	case *List:
		return d.accessList(host, depth)
	case *Map:
		return d.accessMap(host, depth)
	default:
		return d.syntaxError(open, scalarNext, fmt.Sprintf("cannot index %s", describe(current)))
	}
}

func (d *decoder) accessList(host *List, depth int) (err error) {
	item := d.next()

	switch item.ID {
	case lexer.ItemArrayClose:
		// Append.
		target := slot{l: host, index: host.Append(nil)}
		if err = d.initialize(target); err != nil {
			return
		}

		return d.collect(target, depth)
	case lexer.ItemNumber:
		if _, err = d.expect(closeItems); err != nil {
			return
		}

		index := item.Num
		if d.cfg.MaxIndex > 0 && index > d.cfg.MaxIndex {
			return fmt.Errorf("%w: %d > %d at %d", ErrIndexLimit, index, d.cfg.MaxIndex, item.Pos)
		}

		// Densify.
		for host.Len() <= index {
			host.Append(Absent)
		}

		target := slot{l: host, index: index}
		if current, _ := target.get(); IsAbsent(current) {
			if err = d.initialize(target); err != nil {
				return
			}
		}

		return d.collect(target, depth)
	case lexer.ItemString:
		return d.syntaxError(item, listItems, "cannot access a sequence by key")
	default:
		return d.syntaxError(item, listItems, "")
	}
}

func (d *decoder) accessMap(host *Map, depth int) (err error) {
	item := d.next()

	var key string
	switch item.ID {
	case lexer.ItemString:
		key = item.Val
	case lexer.ItemNumber:
		key = strconv.Itoa(item.Num)
	case lexer.ItemArrayClose:
		return d.syntaxError(item, mapItems, "cannot append to a mapping")
	default:
		return d.syntaxError(item, mapItems, "")
	}

	if _, err = d.expect(closeItems); err != nil {
		return
	}

	target := slot{m: host, key: key}
	if !host.Has(key) {
		if err = d.initialize(target); err != nil {
			return
		}
	}

	return d.collect(target, depth)
}

// initialize stores an empty container at target when the upcoming tokens access it.
//
// The slot is left as is for a scalar, collect assigns it.
func (d *decoder) initialize(target slot) error {
	if d.peek(0).ID != lexer.ItemArrayOpen {
		return nil
	}

	switch item := d.peek(1); item.ID {
	case lexer.ItemArrayClose, lexer.ItemNumber:
		target.set(NewList())
	case lexer.ItemString:
		target.set(NewMap())
	default:
		return d.syntaxError(item, accessItems, "")
	}

	return nil
}

// next consumes the next item.
func (d *decoder) next() (item lexer.Item) {
	item = d.peek(0)
	if d.offset < len(d.items) {
		d.offset++
	}

	return
}

// peek obtains the item seek positions past the next one without consuming it.
func (d *decoder) peek(seek int) lexer.Item {
	if index := d.offset + seek; index < len(d.items) {
		return d.items[index]
	}

	return lexer.Item{ID: lexer.ItemEOF, Pos: d.end}
}

// expect consumes the next item if it is a member of accepted.
func (d *decoder) expect(accepted lexer.ItemSet) (item lexer.Item, err error) {
	if item = d.peek(0); !accepted.Contains(item.ID) {
		err = d.syntaxError(item, accepted, "")
		return
	}
	d.offset++

	return
}

func (d *decoder) syntaxError(item lexer.Item, expected lexer.ItemSet, reason string) error {
	return &SyntaxError{Token: item, Expected: expected, Delimiter: d.cfg.Delimiter, Reason: reason}
}

func (s slot) get() (Value, bool) {
	if s.l != nil {
		return s.l.Get(s.index)
	}

	return s.m.Get(s.key)
}

func (s slot) set(v Value) {
	if s.l != nil {
		s.l.Set(s.index, v)
		return
	}
	s.m.Set(s.key, v)
}

// scalar obtains the value carried by a (string) or (number) item.
func scalar(item lexer.Item) Value {
	if item.ID == lexer.ItemNumber {
		return item.Num
	}

	return item.Val
}

// describe names the kind of a decoded value for error messages.
func describe(v Value) string {
	switch v.(type) {
	case string:
		return "a string"
	case int:
		return "a number"
	case bool:
		return "a boolean"
	case nil:
		return "an unset value"
	default:
		return fmt.Sprintf("a %T", v)
	}
}
