// SPDX-License-Identifier: MIT
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/goccy/go-yaml"

	"gitlab.com/fisherprime/querystring"
)

// ErrInvalidSource is returned for input that is neither JSON nor YAML.
var ErrInvalidSource = errors.New("invalid JSON or YAML source")

// Encode converts a JSON or YAML mapping into a query string.
type Encode struct {
	Source string `arg:"" default:"-" help:"JSON or YAML source file or '-' for stdin." name:"source" optional:""`
}

// Run executes the encode command.
func (e *Encode) Run(ctx context.Context, env *Env) error {
	data, err := e.read(env.Stdin)
	if err != nil {
		return err
	}

	// Mappings decode to yaml.MapSlice, preserving the order of their keys.
	var value any
	if err = yaml.UnmarshalContext(ctx, data, &value, yaml.UseOrderedMap()); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSource, err)
	}
	env.Logger.Debugf("encoding %T", value)

	output, err := querystring.EncodeValue(value, env.Options...)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(env.Stdout, output)

	return err
}

func (e *Encode) read(stdin io.Reader) ([]byte, error) {
	if e.Source == "-" {
		return io.ReadAll(stdin)
	}

	return os.ReadFile(e.Source)
}
