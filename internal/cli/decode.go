// SPDX-License-Identifier: MIT
package cli

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/goccy/go-yaml"

	"gitlab.com/fisherprime/querystring"
)

// Decode converts query strings into JSON or YAML documents.
type Decode struct {
	Format string `default:"json" enum:"json,yaml" help:"Output format (json, yaml)." short:"f"`
	Indent int    `default:"0"                     help:"Indent width, 0 for a compact output." short:"i"`

	Query []string `arg:"" help:"Query strings, read line by line from stdin when omitted or '-'." optional:""`
}

// Run executes the decode command.
func (d *Decode) Run(ctx context.Context, env *Env) error {
	queries, err := d.queries(env.Stdin)
	if err != nil {
		return err
	}

	results, err := querystring.DecodeAll(ctx, queries, env.Options...)
	if err != nil {
		return err
	}
	env.Logger.Debugf("decoded %d queries", len(results))

	for index, result := range results {
		data, err := d.marshal(ctx, result)
		if err != nil {
			return err
		}

		if d.Format == "yaml" && index > 0 {
			if _, err = fmt.Fprintln(env.Stdout, "---"); err != nil {
				return err
			}
		}
		if _, err = fmt.Fprintln(env.Stdout, strings.TrimRight(string(data), "\n")); err != nil {
			return err
		}
	}

	return nil
}

// queries obtains the arguments, or the non-blank lines of stdin.
func (d *Decode) queries(stdin io.Reader) (queries []string, err error) {
	if len(d.Query) > 0 && !(len(d.Query) == 1 && d.Query[0] == "-") {
		return d.Query, nil
	}

	scanner := bufio.NewScanner(stdin)
	scanner.Buffer(make([]byte, 0, bufio.MaxScanTokenSize), 16*bufio.MaxScanTokenSize)
	for scanner.Scan() {
		if line := strings.TrimRight(scanner.Text(), "\r"); line != "" {
			queries = append(queries, line)
		}
	}
	err = scanner.Err()

	return
}

func (d *Decode) marshal(ctx context.Context, result *querystring.Map) ([]byte, error) {
	if d.Format == "yaml" {
		var opts []yaml.EncodeOption
		if d.Indent > 0 {
			opts = append(opts, yaml.Indent(d.Indent))
		}

		return yaml.MarshalContext(ctx, result, opts...)
	}

	if d.Indent > 0 {
		return json.MarshalIndent(result, "", strings.Repeat(" ", d.Indent))
	}

	return json.Marshal(result)
}
