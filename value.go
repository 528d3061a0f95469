// SPDX-License-Identifier: MIT

// Package querystring decodes query strings using bracket notation (`a[b][]=1`) into nested
// values & encodes them back.
package querystring

import (
	"bytes"
	"encoding/json"

	"github.com/goccy/go-yaml"
)

type (
	// Value is a decoded value: string, int, bool, Absent, *List or *Map.
	Value = any

	// Map is a string keyed mapping preserving insertion order.
	//
	// Synchronization is unnecessary, the type is designed for single write multiple read.
	Map struct {
		keys   []string
		values map[string]Value
	}

	// List is an ordered sequence of values.
	//
	// A *List is a stable handle, appending never invalidates it.
	List struct {
		values []Value
	}

	// Pair is a Map entry.
	Pair struct {
		Key   string
		Value Value
	}

	absent struct{}
)

// Absent fills the List slots created only to reach a higher index.
var Absent Value = absent{}

// IsAbsent reports whether v is the Absent filler.
func IsAbsent(v Value) bool {
	_, ok := v.(absent)
	return ok
}

func (absent) String() string { return "<absent>" }

// NewMap instantiates a Map holding pairs, in order.
func NewMap(pairs ...Pair) *Map {
	m := &Map{values: make(map[string]Value, len(pairs))}
	for _, pair := range pairs {
		m.Set(pair.Key, pair.Value)
	}

	return m
}

// Len is the number of entries in the Map.
func (m *Map) Len() int { return len(m.keys) }

// Has checks for the existence of key.
func (m *Map) Has(key string) (ok bool) {
	_, ok = m.values[key]
	return
}

// Get retrieves the value stored at key.
func (m *Map) Get(key string) (v Value, ok bool) {
	v, ok = m.values[key]
	return
}

// Set stores v at key.
//
// An existing key keeps its position.
func (m *Map) Set(key string, v Value) {
	if m.values == nil {
		m.values = make(map[string]Value)
	}
	if _, ok := m.values[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.values[key] = v
}

// Delete removes key from the Map.
func (m *Map) Delete(key string) {
	if _, ok := m.values[key]; !ok {
		return
	}
	delete(m.values, key)

	for index := range m.keys {
		if m.keys[index] == key {
			m.keys = append(m.keys[:index], m.keys[index+1:]...)
			break
		}
	}
}

// Keys lists the Map's keys in insertion order.
func (m *Map) Keys() []string {
	keys := make([]string, len(m.keys))
	copy(keys, m.keys)

	return keys
}

// Range calls fn for every entry in insertion order, stopping when fn returns false.
func (m *Map) Range(fn func(key string, v Value) bool) {
	for _, key := range m.keys {
		if !fn(key, m.values[key]) {
			return
		}
	}
}

// MarshalJSON is the json.Marshaler implementation for Map, keys keep their order.
func (m *Map) MarshalJSON() ([]byte, error) {
	var buffer bytes.Buffer
	buffer.WriteByte('{')

	for index, key := range m.keys {
		if index > 0 {
			buffer.WriteByte(',')
		}

		k, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(plain(m.values[key]))
		if err != nil {
			return nil, err
		}

		buffer.Write(k)
		buffer.WriteByte(':')
		buffer.Write(v)
	}
	buffer.WriteByte('}')

	return buffer.Bytes(), nil
}

// MarshalYAML is the yaml.InterfaceMarshaler implementation for Map.
func (m *Map) MarshalYAML() (any, error) {
	slice := make(yaml.MapSlice, len(m.keys))
	for index, key := range m.keys {
		slice[index] = yaml.MapItem{Key: key, Value: plain(m.values[key])}
	}

	return slice, nil
}

// NewList instantiates a List holding values.
func NewList(values ...Value) *List {
	l := &List{values: make([]Value, 0, len(values))}
	l.values = append(l.values, values...)

	return l
}

// Len is the number of slots in the List, Absent fillers included.
func (l *List) Len() int { return len(l.values) }

// Get retrieves the value at index.
func (l *List) Get(index int) (v Value, ok bool) {
	if index < 0 || index >= len(l.values) {
		return
	}

	return l.values[index], true
}

// Set replaces the value at an existing index.
func (l *List) Set(index int, v Value) (ok bool) {
	if index < 0 || index >= len(l.values) {
		return
	}
	l.values[index] = v

	return true
}

// Append adds v to the end of the List, returning its index.
func (l *List) Append(v Value) (index int) {
	l.values = append(l.values, v)
	return len(l.values) - 1
}

// Values obtains a copy of the List's slots.
func (l *List) Values() []Value {
	values := make([]Value, len(l.values))
	copy(values, l.values)

	return values
}

// Range calls fn for every slot in order, stopping when fn returns false.
func (l *List) Range(fn func(index int, v Value) bool) {
	for index, v := range l.values {
		if !fn(index, v) {
			return
		}
	}
}

// MarshalJSON is the json.Marshaler implementation for List; Absent slots are null.
func (l *List) MarshalJSON() ([]byte, error) { return json.Marshal(l.plain()) }

// MarshalYAML is the yaml.InterfaceMarshaler implementation for List.
func (l *List) MarshalYAML() (any, error) { return l.plain(), nil }

func (l *List) plain() []Value {
	values := make([]Value, len(l.values))
	for index, v := range l.values {
		values[index] = plain(v)
	}

	return values
}

// plain replaces Absent by nil for marshalers unaware of it.
func plain(v Value) Value {
	if IsAbsent(v) {
		return nil
	}

	return v
}
