// SPDX-License-Identifier: MIT
package main

import (
	"context"
	"os"

	"github.com/sirupsen/logrus"

	"gitlab.com/fisherprime/querystring/internal/cli"
)

func main() {
	err := cli.Run(context.Background(), os.Stdin, os.Stdout, os.Stderr, os.Exit, os.Args[1:]...)
	if err != nil {
		logrus.WithError(err).Error("run failed")
		os.Exit(1)
	}
}
