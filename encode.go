// SPDX-License-Identifier: MIT
package querystring

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/goccy/go-yaml"
	"golang.org/x/exp/constraints"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"gitlab.com/fisherprime/querystring/lexer"
)

// encoder holds the state of a single Encode call.
type encoder struct {
	cfg     *Config
	escaper *lexer.Escaper
}

// Encode transforms a Map into a query string.
//
// Entries serializing to nothing, such as nil or Absent values, are omitted along with their key.
func Encode(value *Map, opts ...Option) (string, error) {
	if value == nil {
		return "", nil
	}

	return EncodeValue(value, opts...)
}

// EncodeValue transforms a mapping into a query string.
//
// value may be a *Map, a yaml.MapSlice or a Go map with string keys; the keys of the latter are
// sorted for a deterministic output.
func EncodeValue(value any, opts ...Option) (output string, err error) {
	cfg := newConfig(opts)
	if err = lexer.CheckDelimiter(cfg.Delimiter); err != nil {
		return
	}
	e := &encoder{cfg: cfg, escaper: lexer.NewEscaper(cfg.Delimiter)}

	var parts []string
	err = e.entries(value, "", func(key string, v any) error {
		if e.cfg.Debug {
			e.cfg.Logger.Debugf("encoding key: %q", key)
		}

		part, err := e.serialize(v, e.escaper.Component(key))
		if err == nil && part != "" {
			parts = append(parts, part)
		}

		return err
	})
	if err != nil {
		return
	}

	return strings.Join(parts, e.cfg.Delimiter), nil
}

// serialize renders value & its descendants labeled by label.
func (e *encoder) serialize(value any, label string) (string, error) {
	switch v := value.(type) {
	case nil, absent:
		return "", nil
	case time.Time:
		return e.assign(label, formatSigned(v.UnixMilli())), nil
	case *time.Time:
		if v == nil {
			return "", nil
		}
		return e.assign(label, formatSigned(v.UnixMilli())), nil
	case string:
		if !utf8.ValidString(v) {
			return "", &SerializationError{Label: label, Type: "string", Reason: "invalid UTF-8"}
		}
		return label + "=" + e.escaper.Component(v), nil
	case bool:
		if v {
			return label + "=1", nil
		}
		return label + "=0", nil
	case int:
		return e.assign(label, formatSigned(v)), nil
	case int8:
		return e.assign(label, formatSigned(v)), nil
	case int16:
		return e.assign(label, formatSigned(v)), nil
	case int32:
		return e.assign(label, formatSigned(v)), nil
	case int64:
		return e.assign(label, formatSigned(v)), nil
	case uint:
		return e.assign(label, formatUnsigned(v)), nil
	case uint8:
		return e.assign(label, formatUnsigned(v)), nil
	case uint16:
		return e.assign(label, formatUnsigned(v)), nil
	case uint32:
		return e.assign(label, formatUnsigned(v)), nil
	case uint64:
		return e.assign(label, formatUnsigned(v)), nil
	case float32:
		return e.assign(label, formatFloat(v)), nil
	case float64:
		return e.assign(label, formatFloat(v)), nil
	case *List, *Map, yaml.MapSlice, []any, map[string]any:
		return e.access(v, label)
	}

	return e.serializeReflect(reflect.ValueOf(value), label)
}

// serializeReflect handles the named & composite types missed by serialize.
func (e *encoder) serializeReflect(rv reflect.Value, label string) (string, error) {
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return "", nil
		}
		return e.serialize(rv.Elem().Interface(), label)
	case reflect.String:
		return e.serialize(rv.String(), label)
	case reflect.Bool:
		return e.serialize(rv.Bool(), label)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return e.assign(label, formatSigned(rv.Int())), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return e.assign(label, formatUnsigned(rv.Uint())), nil
	case reflect.Float32:
		return e.assign(label, formatFloat(float32(rv.Float()))), nil
	case reflect.Float64:
		return e.assign(label, formatFloat(rv.Float())), nil
	case reflect.Slice, reflect.Array, reflect.Map:
		if rv.Kind() != reflect.Map || rv.Type().Key().Kind() == reflect.String {
			return e.access(rv.Interface(), label)
		}
	}

	return "", &SerializationError{Label: label, Type: typeName(rv)}
}

// assign renders a number assignment, the number's delimiter bytes escaped.
func (e *encoder) assign(label, number string) string {
	return label + "=" + e.escaper.Literal(number)
}

// access renders the children of a sequence or mapping.
func (e *encoder) access(value any, label string) (string, error) {
	var parts []string

	handle := func(prop string, child any) error {
		part, err := e.serialize(child, label+"["+prop+"]")
		if err == nil && part != "" {
			parts = append(parts, part)
		}

		return err
	}

	err := e.items(value, handle)
	if errors.Is(err, errNotSequence) {
		err = e.entries(value, label, func(key string, child any) error {
			return handle(e.escaper.Component(key), child)
		})
	}
	if err != nil {
		return "", err
	}

	return strings.Join(parts, e.cfg.Delimiter), nil
}

var errNotSequence = fmt.Errorf("%w: not a sequence", ErrSerialization)

// items iterates over the elements of a sequence.
func (e *encoder) items(value any, fn func(prop string, child any) error) (err error) {
	switch v := value.(type) {
	case *Map, yaml.MapSlice:
		return errNotSequence
	case *List:
		if v == nil {
			return
		}
		v.Range(func(index int, child Value) bool {
			err = fn(strconv.Itoa(index), child)
			return err == nil
		})
	case []any:
		for index := range v {
			if err = fn(strconv.Itoa(index), v[index]); err != nil {
				return
			}
		}
	default:
		rv := reflect.ValueOf(value)
		if kind := rv.Kind(); kind != reflect.Slice && kind != reflect.Array {
			return errNotSequence
		}

		for index := 0; index < rv.Len(); index++ {
			if err = fn(strconv.Itoa(index), rv.Index(index).Interface()); err != nil {
				return
			}
		}
	}

	return
}

// entries iterates over the entries of a mapping.
func (e *encoder) entries(value any, label string, fn func(key string, child any) error) (err error) {
	switch v := value.(type) {
	case nil:
		return
	case *Map:
		if v == nil {
			return
		}
		v.Range(func(key string, child Value) bool {
			err = fn(key, child)
			return err == nil
		})
	case yaml.MapSlice:
		for _, item := range v {
			if err = fn(fmt.Sprint(item.Key), item.Value); err != nil {
				return
			}
		}
	case map[string]any:
		keys := maps.Keys(v)
		slices.Sort(keys)
		for _, key := range keys {
			if err = fn(key, v[key]); err != nil {
				return
			}
		}
	default:
		rv := reflect.ValueOf(value)
		if rv.Kind() != reflect.Map || rv.Type().Key().Kind() != reflect.String {
			return &SerializationError{Label: label, Type: typeName(rv), Reason: "not a mapping"}
		}

		keys := rv.MapKeys()
		sort.Slice(keys, func(i, j int) bool { return keys[i].String() < keys[j].String() })
		for _, key := range keys {
			if err = fn(key.String(), rv.MapIndex(key).Interface()); err != nil {
				return
			}
		}
	}

	return
}

func formatSigned[T constraints.Signed](n T) string { return strconv.FormatInt(int64(n), 10) }

func formatUnsigned[T constraints.Unsigned](n T) string { return strconv.FormatUint(uint64(n), 10) }

// formatFloat renders n the way a JavaScript number is rendered.
//
// Magnitudes below 1e-6 or from 1e21 up use the exponent form: 1e-7, 1.5e+21.
func formatFloat[T constraints.Float](n T) string {
	f := float64(n)
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	case f == 0:
		return "0"
	}

	var bitSize int
	switch any(n).(type) {
	case float32:
		bitSize = 32
	default:
		bitSize = 64
	}

	if abs := math.Abs(f); abs >= 1e-6 && abs < 1e21 {
		return strconv.FormatFloat(f, 'f', -1, bitSize)
	}

	// Go pads the exponent to two digits.
	mantissa, exponent, _ := strings.Cut(strconv.FormatFloat(f, 'e', -1, bitSize), "e")

	return mantissa + "e" + exponent[:1] + strings.TrimLeft(exponent[1:], "0")
}

func typeName(rv reflect.Value) string {
	if !rv.IsValid() {
		return "nil"
	}

	return rv.Type().String()
}
