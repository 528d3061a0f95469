// SPDX-License-Identifier: MIT
package cli

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// logConfig configures the logrus.Logger used by the commands.
type logConfig struct {
	Debug  bool   `help:"Enable debug messages."`
	Format string `default:"text" enum:"text,json" help:"Log message format (text, json)."`

	output io.Writer
}

func (c *logConfig) writer() io.Writer {
	if c.output == nil {
		return os.Stderr
	}

	return c.output
}

func (c *logConfig) logger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(c.writer())

	if c.Debug {
		logger.SetLevel(logrus.DebugLevel)
	}
	if c.Format == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}

	return logger
}
