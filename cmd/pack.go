package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/urfave/cli"

	"github.com/photomc/photomc/cltypes"
	"github.com/photomc/photomc/material"
)

// loadStack reads a material stack definition from a JSON file.
func loadStack(path string) (*material.Stack, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var stack material.Stack
	if err := json.Unmarshal(data, &stack); err != nil {
		return nil, fmt.Errorf("parsing %s: %v", path, err)
	}
	return &stack, nil
}

// applyPrecision configures the process-wide scalar width from the
// command flags. Must run before anything is sized or packed.
func applyPrecision(ctx *cli.Context) {
	if ctx.Bool("double") {
		cltypes.SetPrecision(cltypes.Double)
	} else {
		cltypes.SetPrecision(cltypes.Single)
	}
	logger.Infof("packing with %s precision", cltypes.FpName())
}

// PackStack packs a material stack definition into the contiguous
// device record buffer and writes it out.
func PackStack(ctx *cli.Context) error {
	if ctx.NArg() != 1 {
		return fmt.Errorf("pack requires exactly one stack file argument")
	}
	applyPrecision(ctx)

	stack, err := loadStack(ctx.Args().First())
	if err != nil {
		return err
	}

	start := time.Now()
	buf, err := stack.Pack(nil)
	if err != nil {
		return err
	}
	logger.Noticef("packed %d materials (%s family, %d byte records) in %d us",
		stack.Len(), stack.Family(), stack.RecordSize(),
		time.Since(start).Microseconds())

	out := ctx.String("out")
	if err := os.WriteFile(out, buf, 0644); err != nil {
		return err
	}
	logger.Noticef("wrote %d bytes to %s", len(buf), out)

	return nil
}
