// SPDX-License-Identifier: MIT
package querystring

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/goccy/go-yaml"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

type (
	tag   string
	ratio float32
)

func TestEncode(t *testing.T) {
	type args struct {
		value *Map
		opts  []Option
	}

	tests := []struct {
		name       string
		args       args
		wantOutput string
		wantErr    error
	}{
		{
			name:       "nil",
			args:       args{value: nil},
			wantOutput: "",
		},
		{
			name:       "nothing omitted",
			args:       args{value: mapOf("a", nil)},
			wantOutput: "",
		},
		{
			name:       "sequence",
			args:       args{value: mapOf("a", NewList(1, 2, 3))},
			wantOutput: "a[0]=1&a[1]=2&a[2]=3",
		},
		{
			name:       "scalars",
			args:       args{value: mapOf("a", "foo bar", "b", 7, "c", true, "d", false, "e", nil, "f", 1.5)},
			wantOutput: "a=foo%20bar&b=7&c=1&d=0&f=1.5",
		},
		{
			name:       "nested mapping",
			args:       args{value: mapOf("a", mapOf("b", mapOf("c", 1)), "d", mapOf("e", "x", "f", "y"))},
			wantOutput: "a[b][c]=1&d[e]=x&d[f]=y",
		},
		{
			name:       "absent fillers skipped",
			args:       args{value: mapOf("a", NewList("x", Absent, "y", Absent))},
			wantOutput: "a[0]=x&a[2]=y",
		},
		{
			name:       "empty containers omitted",
			args:       args{value: mapOf("a", NewList(), "b", NewMap(), "c", 1)},
			wantOutput: "c=1",
		},
		{
			name:       "keys escaped",
			args:       args{value: mapOf("a&b", "c=d", "e", mapOf("f]g", 1))},
			wantOutput: "a%26b=c%3Dd&e[f%5Dg]=1",
		},
		{
			name:       "time",
			args:       args{value: mapOf("t", time.UnixMilli(1700000000123))},
			wantOutput: "t=1700000000123",
		},
		{
			name:       "go values",
			args:       args{value: mapOf("a", []int{4, 5}, "b", map[string]any{"z": 1, "y": []any{"x"}}, "c", tag("l"), "d", ratio(0.25))},
			wantOutput: "a[0]=4&a[1]=5&b[y][0]=x&b[z]=1&c=l&d=0.25",
		},
		{
			name:       "pointers",
			args:       args{value: mapOf("a", ptr(3), "b", (*int)(nil))},
			wantOutput: "a=3",
		},
		{
			name:       "non-finite floats",
			args:       args{value: mapOf("a", math.NaN(), "b", math.Inf(-1))},
			wantOutput: "a=NaN&b=-Infinity",
		},
		{
			name:       "exponent floats",
			args:       args{value: mapOf("a", 1e21, "b", 1e-7, "c", -1.5e-10, "d", 0.000001, "e", float32(2e22), "f", math.Copysign(0, -1))},
			wantOutput: "a=1e+21&b=1e-7&c=-1.5e-10&d=0.000001&e=2e+22&f=0",
		},
		{
			name:       "unreserved delimiter escaped",
			args:       args{value: mapOf("a.b", "x.y", "c", -1.5, "d", NewList(1)), opts: []Option{WithDelimiter(".")}},
			wantOutput: "a%2Eb=x%2Ey.c=-1%2E5.d[0]=1",
		},
		{
			name:       "letter delimiter escaped",
			args:       args{value: mapOf("and", "hand", "n", math.Inf(1)), opts: []Option{WithDelimiter("and")}},
			wantOutput: "%61%6E%64=h%61%6E%64and%6E=I%6Efi%6Eity",
		},
		{
			name:    "invalid delimiter",
			args:    args{value: mapOf("a", 1), opts: []Option{WithDelimiter("=")}},
			wantErr: ErrInvalidDelimiter,
		},
		{
			name:       "custom delimiter",
			args:       args{value: mapOf("a", NewList(1, 2), "b", "c"), opts: []Option{WithDelimiter(";")}},
			wantOutput: "a[0]=1;a[1]=2;b=c",
		},
		{
			name:    "function",
			args:    args{value: mapOf("a", NewList(func() {}))},
			wantErr: ErrSerialization,
		},
		{
			name:    "channel",
			args:    args{value: mapOf("a", make(chan int))},
			wantErr: ErrSerialization,
		},
		{
			name:    "struct",
			args:    args{value: mapOf("a", struct{ B int }{1})},
			wantErr: ErrSerialization,
		},
		{
			name:    "map with non-string keys",
			args:    args{value: mapOf("a", map[int]string{1: "b"})},
			wantErr: ErrSerialization,
		},
		{
			name:    "invalid utf-8",
			args:    args{value: mapOf("a", "\xff")},
			wantErr: ErrSerialization,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotOutput, err := Encode(tt.args.value, tt.args.opts...)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("Encode() error = %v, wantErr %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Encode() error = %v", err)
			}
			if gotOutput != tt.wantOutput {
				t.Errorf("Encode() = %v, want %v", gotOutput, tt.wantOutput)
			}
		})
	}
}

func TestEncode_serializationError(t *testing.T) {
	_, err := Encode(mapOf("a", mapOf("b", NewList(1, func() {}))))

	var serErr *SerializationError
	if !errors.As(err, &serErr) {
		t.Fatalf("Encode() error = %v, want a *SerializationError", err)
	}
	if serErr.Label != "a[b][1]" {
		t.Errorf("SerializationError.Label = %v, want %v", serErr.Label, "a[b][1]")
	}
	if serErr.Type != "func()" {
		t.Errorf("SerializationError.Type = %v, want %v", serErr.Type, "func()")
	}
}

func TestEncodeValue(t *testing.T) {
	tests := []struct {
		name       string
		value      any
		wantOutput string
		wantErr    bool
	}{
		{
			name:       "go map",
			value:      map[string]any{"b": 2, "a": []any{1, "x"}},
			wantOutput: "a[0]=1&a[1]=x&b=2",
		},
		{
			name:       "typed go map",
			value:      map[string]int{"b": 2, "a": 1},
			wantOutput: "a=1&b=2",
		},
		{
			name: "yaml map slice",
			value: yaml.MapSlice{
				{Key: "z", Value: uint64(1)},
				{Key: "a", Value: yaml.MapSlice{{Key: "b", Value: true}, {Key: 3, Value: int64(-4)}}},
			},
			wantOutput: "z=1&a[b]=1&a[3]=-4",
		},
		{
			name:       "nil",
			value:      nil,
			wantOutput: "",
		},
		{
			name:    "sequence",
			value:   []int{1},
			wantErr: true,
		},
		{
			name:    "scalar",
			value:   "a",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotOutput, err := EncodeValue(tt.value)
			if (err != nil) != tt.wantErr {
				t.Errorf("EncodeValue() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if tt.wantErr && !errors.Is(err, ErrSerialization) {
				t.Errorf("EncodeValue() error = %v, want %v", err, ErrSerialization)
			}
			if gotOutput != tt.wantOutput {
				t.Errorf("EncodeValue() = %v, want %v", gotOutput, tt.wantOutput)
			}
		})
	}
}

func TestRoundTrip(t *testing.T) {
	tests := []struct {
		name  string
		value *Map
		opts  []Option
	}{
		{
			name:  "empty",
			value: NewMap(),
		},
		{
			name:  "scalars",
			value: mapOf("a", 1, "b", "foo", "c", "with space & symbols=[]", "d", "é"),
		},
		{
			name:  "sequences",
			value: mapOf("a", NewList(1, "x", 3), "b", NewList(NewList(1, 2), NewList("y"))),
		},
		{
			name:  "sparse sequence",
			value: mapOf("a", NewList("x", Absent, "y")),
		},
		{
			name: "nested",
			value: mapOf(
				"user", mapOf("name", "ann", "roles", NewList("admin", "dev"), "address", mapOf("city", "Nairobi")),
				"page", 2,
				"items", NewList(mapOf("id", 1, "tags", NewList("a")), mapOf("id", 2)),
			),
		},
		{
			name:  "escaped keys",
			value: mapOf("a b", mapOf("c&d", "e", "[f]", NewList("g"))),
		},
		{
			name:  "dot delimiter",
			value: mapOf("a", "x.y", "b", 1, "c.d", mapOf("e", NewList("-1.5", "f.g"))),
			opts:  []Option{WithDelimiter(".")},
		},
		{
			name:  "unreserved delimiters",
			value: mapOf("a", "x-y!z", "b", NewList("~", "(*)'")),
			opts:  []Option{WithDelimiter("-!~*'()")},
		},
		{
			name:  "letter delimiter",
			value: mapOf("xyz", "axb", "n", NewList("NaN")),
			opts:  []Option{WithDelimiter("x")},
		},
	}

	opts := []cmp.Option{cmp.AllowUnexported(Map{}, List{}), cmpopts.EquateEmpty()}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			encoded, err := Encode(tt.value, tt.opts...)
			if err != nil {
				t.Fatalf("Encode() error = %v", err)
			}

			decoded, err := Decode(encoded, tt.opts...)
			if err != nil {
				t.Fatalf("Decode(%q) error = %v", encoded, err)
			}
			if diff := cmp.Diff(tt.value, decoded, opts...); diff != "" {
				t.Errorf("Decode(Encode()) mismatch (-want +got):\n%s", diff)
			}

			reencoded, err := Encode(decoded, tt.opts...)
			if err != nil {
				t.Fatalf("Encode() error = %v", err)
			}
			if reencoded != encoded {
				t.Errorf("Encode(Decode(Encode())) = %v, want %v", reencoded, encoded)
			}
		})
	}
}

func TestRoundTrip_lossy(t *testing.T) {
	tests := []struct {
		name  string
		value *Map
		want  *Map
	}{
		{
			name:  "digit strings become numbers",
			value: mapOf("a", "007"),
			want:  mapOf("a", 7),
		},
		{
			name:  "booleans become numbers",
			value: mapOf("a", true, "b", false),
			want:  mapOf("a", 1, "b", 0),
		},
		{
			name:  "trailing fillers dropped",
			value: mapOf("a", NewList("x", Absent, Absent)),
			want:  mapOf("a", NewList("x")),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			encoded, err := Encode(tt.value)
			if err != nil {
				t.Fatalf("Encode() error = %v", err)
			}

			got, err := Decode(encoded)
			if err != nil {
				t.Fatalf("Decode(%q) error = %v", encoded, err)
			}
			if diff := cmp.Diff(tt.want, got, cmp.AllowUnexported(Map{}, List{})); diff != "" {
				t.Errorf("Decode(Encode()) mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func ptr[T any](v T) *T { return &v }

func BenchmarkEncode(b *testing.B) {
	src := mapOf("a", NewList(1, 2), "b", mapOf("c", mapOf("d", " foo", "e", 2)), "f", true, "g", NewList(Absent, "x"))

	b.ReportAllocs()
	b.ResetTimer()

	for n := 0; n < b.N; n++ {
		if _, err := Encode(src); err != nil {
			b.Fatal(err)
		}
	}
}
