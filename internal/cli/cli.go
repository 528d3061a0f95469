// SPDX-License-Identifier: MIT

// Package cli implements the qs command line interface.
package cli

import (
	"context"
	"io"

	"github.com/alecthomas/kong"
	"github.com/sirupsen/logrus"

	"gitlab.com/fisherprime/querystring"
)

const (
	name        = "qs"
	description = "Convert between bracket notation query strings and JSON or YAML."
)

type (
	// CLI is the top-level command-line interface for qs.
	CLI struct {
		Log logConfig `embed:"" group:"log" prefix:"log-"`

		Delimiter string `default:"&" help:"Segment delimiter." short:"d"`
		MaxDepth  int    `default:"0" help:"Bracket nesting limit, 0 disables it."`
		MaxIndex  int    `default:"65536" help:"Sequence index limit, 0 disables it."`
		Workers   int    `default:"0" help:"Concurrent decoders for multiple queries, 0 uses GOMAXPROCS."`

		Decode Decode `cmd:"" help:"Decode query strings into JSON or YAML."`
		Encode Encode `cmd:"" help:"Encode a JSON or YAML mapping into a query string."`
	}

	// Env holds the dependencies shared by the commands.
	Env struct {
		Stdin  io.Reader
		Stdout io.Writer
		Logger logrus.FieldLogger

		Options []querystring.Option
	}
)

// Run executes the qs CLI with the given context and arguments.
// Log messages & usage errors are written to stderr, os.Stderr when nil.
// The exit function is called with the appropriate exit code upon completion.
func Run(
	ctx context.Context,
	stdin io.Reader,
	stdout io.Writer,
	stderr io.Writer,
	exit func(code int),
	args ...string,
) error {
	var cli CLI
	cli.Log.output = stderr

	parser, err := kong.New(&cli,
		kong.Name(name),
		kong.Description(description),
		kong.UsageOnError(),
		kong.Exit(exit),
		kong.Writers(stdout, cli.Log.writer()),
		kong.BindTo(ctx, (*context.Context)(nil)),
		kong.ConfigureHelp(kong.HelpOptions{Compact: true, Summary: true}),
	)
	if err != nil {
		return err
	}

	ktx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	logger := cli.Log.logger()
	env := &Env{
		Stdin:  stdin,
		Stdout: stdout,
		Logger: logger,
		Options: []querystring.Option{
			querystring.WithDelimiter(cli.Delimiter),
			querystring.WithLogger(logger),
			querystring.WithDebug(cli.Log.Debug),
			querystring.WithMaxDepth(cli.MaxDepth),
			querystring.WithMaxIndex(cli.MaxIndex),
			querystring.WithPoolSize(cli.Workers),
		},
	}

	return ktx.Run(env)
}
