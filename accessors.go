// SPDX-License-Identifier: MIT
package querystring

import (
	"errors"
	"fmt"
	"strconv"
)

// ReadErrFmt is the format of the errors returned by the typed Map accessors.
const ReadErrFmt = "failed to read (%s): %w"

// Accessor errors.
var (
	ErrNotFound    = errors.New("not found")
	ErrInvalidType = errors.New("invalid data type")
)

// GetString obtains the string stored at key.
//
// Numbers are formatted, a query string can't tell "7" from 7.
func (m *Map) GetString(key string) (strVal string, err error) {
	val, err := m.lookup(key)
	if err != nil {
		return
	}

	switch v := val.(type) {
	case string:
		strVal = v
	case int:
		strVal = strconv.Itoa(v)
	default:
		err = fmt.Errorf(ReadErrFmt, key, ErrInvalidType)
	}

	return
}

// GetInt obtains the number stored at key.
func (m *Map) GetInt(key string) (intVal int, err error) {
	val, err := m.lookup(key)
	if err != nil {
		return
	}

	var ok bool
	if intVal, ok = val.(int); !ok {
		err = fmt.Errorf(ReadErrFmt, key, ErrInvalidType)
	}

	return
}

// GetBool obtains the flag stored at key.
//
// A bare key decodes to true; the encoder writes booleans as 1 & 0, these are accepted too.
func (m *Map) GetBool(key string) (boolVal bool, err error) {
	val, err := m.lookup(key)
	if err != nil {
		return
	}

	switch v := val.(type) {
	case bool:
		boolVal = v
	case int:
		if v != 0 && v != 1 {
			err = fmt.Errorf(ReadErrFmt, key, ErrInvalidType)
			return
		}
		boolVal = v == 1
	default:
		err = fmt.Errorf(ReadErrFmt, key, ErrInvalidType)
	}

	return
}

// GetList obtains the List stored at key.
func (m *Map) GetList(key string) (l *List, err error) {
	val, err := m.lookup(key)
	if err != nil {
		return
	}

	var ok bool
	if l, ok = val.(*List); !ok {
		err = fmt.Errorf(ReadErrFmt, key, ErrInvalidType)
	}

	return
}

// GetMap obtains the Map stored at key.
func (m *Map) GetMap(key string) (sub *Map, err error) {
	val, err := m.lookup(key)
	if err != nil {
		return
	}

	var ok bool
	if sub, ok = val.(*Map); !ok {
		err = fmt.Errorf(ReadErrFmt, key, ErrInvalidType)
	}

	return
}

// GetStrings obtains the List stored at key as a []string, Absent slots are skipped.
func (m *Map) GetStrings(key string) (result []string, err error) {
	l, err := m.GetList(key)
	if err != nil {
		return
	}

	result = make([]string, 0, l.Len())
	l.Range(func(index int, v Value) bool {
		switch val := v.(type) {
		case absent:
		case string:
			result = append(result, val)
		case int:
			result = append(result, strconv.Itoa(val))
		default:
			err = fmt.Errorf(ReadErrFmt, key+"["+strconv.Itoa(index)+"]", ErrInvalidType)
		}

		return err == nil
	})
	if err != nil {
		result = nil
	}

	return
}

// Merge copies the entries of data into the Map, replacing existing keys.
func (m *Map) Merge(data *Map) {
	data.Range(func(key string, v Value) bool {
		m.Set(key, v)
		return true
	})
}

func (m *Map) lookup(key string) (val Value, err error) {
	val, ok := m.Get(key)
	if !ok {
		err = fmt.Errorf(ReadErrFmt, key, ErrNotFound)
	}

	return
}
