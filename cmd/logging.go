package cmd

import (
	"github.com/photomc/photomc/log"
	"github.com/urfave/cli"
)

var logger = log.New("photomc")

// SetupLogging applies the global verbosity flags.
func SetupLogging(ctx *cli.Context) error {
	if ctx.GlobalBool("v") {
		log.SetLevel(log.Info)
	}

	if ctx.GlobalBool("vv") {
		log.SetLevel(log.Debug)
	}
	return nil
}
