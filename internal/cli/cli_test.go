// SPDX-License-Identifier: MIT
package cli

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"gitlab.com/fisherprime/querystring"
)

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()

	var stdout bytes.Buffer
	err := Run(context.Background(), strings.NewReader(stdin), &stdout, io.Discard, func(code int) {
		t.Fatalf("unexpected exit: %d", code)
	}, args...)

	return stdout.String(), err
}

func TestDecode(t *testing.T) {
	tests := []struct {
		name  string
		stdin string
		args  []string
		want  string
	}{
		{
			name: "argument",
			args: []string{"decode", "a[]=1&a[]=2&b[c]=x%20y&d"},
			want: `{"a":[1,2],"b":{"c":"x y"},"d":true}` + "\n",
		},
		{
			name: "several arguments",
			args: []string{"decode", "a=1", "b[2]=c"},
			want: `{"a":1}` + "\n" + `{"b":[null,null,"c"]}` + "\n",
		},
		{
			name:  "stdin lines",
			stdin: "a=1\n\nb=2\r\n",
			args:  []string{"decode"},
			want:  `{"a":1}` + "\n" + `{"b":2}` + "\n",
		},
		{
			name: "delimiter",
			args: []string{"decode", "--delimiter", ";", "a=1;b=2"},
			want: `{"a":1,"b":2}` + "\n",
		},
		{
			name: "indented",
			args: []string{"decode", "-i", "2", "a=1"},
			want: "{\n  \"a\": 1\n}\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := run(t, tt.stdin, tt.args...)
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestDecode_yaml(t *testing.T) {
	got, err := run(t, "", "decode", "--format", "yaml", "b=1&a[]=x", "c")
	require.NoError(t, err)

	require.Contains(t, got, "b: 1")
	require.Contains(t, got, "- x")
	require.Contains(t, got, "---")
	require.Contains(t, got, "c: true")
	require.Less(t, strings.Index(got, "b:"), strings.Index(got, "a:"))
}

func TestDecode_errors(t *testing.T) {
	_, err := run(t, "", "decode", "a=%")
	require.ErrorIs(t, err, querystring.ErrDecode)

	_, err = run(t, "", "decode", "a=1&a[b]=2")
	require.ErrorIs(t, err, querystring.ErrSyntax)

	_, err = run(t, "", "decode", "--max-depth", "1", "a[b][c]=1")
	require.ErrorIs(t, err, querystring.ErrDepthLimit)
}

func TestEncode(t *testing.T) {
	tests := []struct {
		name  string
		stdin string
		want  string
	}{
		{
			name:  "json",
			stdin: `{"b": 1, "a": {"c": [1, "x y"]}, "d": null}`,
			want:  "b=1&a[c][0]=1&a[c][1]=x%20y\n",
		},
		{
			name:  "yaml",
			stdin: "z: true\na:\n  - 1\n  - k: v\n",
			want:  "z=1&a[0]=1&a[1][k]=v\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := run(t, tt.stdin, "encode")
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestEncode_file(t *testing.T) {
	path := filepath.Join(t.TempDir(), "source.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"a": [1, 2]}`), 0o600))

	got, err := run(t, "", "encode", "-d", ";", path)
	require.NoError(t, err)
	require.Equal(t, "a[0]=1;a[1]=2\n", got)
}

func TestEncode_errors(t *testing.T) {
	_, err := run(t, "{", "encode")
	require.ErrorIs(t, err, ErrInvalidSource)

	_, err = run(t, "[1, 2]", "encode")
	require.ErrorIs(t, err, querystring.ErrSerialization)
}

func TestDecodeEncode(t *testing.T) {
	query := "user[name]=ann&user[roles][]=admin&user[roles][]=dev&page=2"

	decoded, err := run(t, "", "decode", query)
	require.NoError(t, err)

	encoded, err := run(t, decoded, "encode")
	require.NoError(t, err)
	require.Equal(t, "user[name]=ann&user[roles][0]=admin&user[roles][1]=dev&page=2\n", encoded)
}

func TestRun_stderr(t *testing.T) {
	var stdout, stderr bytes.Buffer

	err := Run(context.Background(), strings.NewReader(""), &stdout, &stderr, func(code int) {
		t.Fatalf("unexpected exit: %d", code)
	}, "--log-debug", "--log-format", "json", "decode", "a=1")
	require.NoError(t, err)

	require.Equal(t, `{"a":1}`+"\n", stdout.String())
	require.Contains(t, stderr.String(), `"msg":"decoded 1 queries"`)
}

func TestDecode_indexLimit(t *testing.T) {
	_, err := run(t, "", "decode", "a[65537]=1")
	require.ErrorIs(t, err, querystring.ErrIndexLimit)

	got, err := run(t, "", "decode", "--max-index", "0", "a[1]=1")
	require.NoError(t, err)
	require.Equal(t, `{"a":[null,1]}`+"\n", got)
}

func TestDecodeEncode_delimiter(t *testing.T) {
	decoded, err := run(t, "", "decode", "-d", ".", "a=x%2Ey.b[c]=-1%2E5")
	require.NoError(t, err)
	require.Equal(t, `{"a":"x.y","b":{"c":"-1.5"}}`+"\n", decoded)

	encoded, err := run(t, decoded, "encode", "-d", ".")
	require.NoError(t, err)
	require.Equal(t, "a=x%2Ey.b[c]=-1%2E5\n", encoded)

	_, err = run(t, "", "decode", "-d", "=", "a")
	require.ErrorIs(t, err, querystring.ErrInvalidDelimiter)
}
