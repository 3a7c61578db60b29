package cmd

import (
	"fmt"
	"os"

	"github.com/urfave/cli"

	"github.com/photomc/photomc/kernel"
)

// Sources emits the generated opencl source document for a material
// stack definition: precision header, record declarations and record
// implementations.
func Sources(ctx *cli.Context) error {
	if ctx.NArg() != 1 {
		return fmt.Errorf("sources requires exactly one stack file argument")
	}
	applyPrecision(ctx)

	stack, err := loadStack(ctx.Args().First())
	if err != nil {
		return err
	}

	src := kernel.Assemble(stack)

	out := ctx.String("out")
	if out == "" || out == "-" {
		fmt.Print(src)
		return nil
	}
	if err := os.WriteFile(out, []byte(src), 0644); err != nil {
		return err
	}
	logger.Noticef("wrote %d bytes of kernel source to %s", len(src), out)

	return nil
}
