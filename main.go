package main

import (
	"os"

	"github.com/urfave/cli"

	"github.com/photomc/photomc/cmd"
)

func main() {
	cli.VersionFlag = cli.BoolFlag{
		Name:  "version",
		Usage: "print only the version",
	}

	app := cli.NewApp()
	app.Name = "photomc"
	app.Usage = "pack turbid-media material stacks and generate Monte Carlo kernel sources"
	app.Version = "0.1.0"
	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "v",
			Usage: "enable verbose logging",
		},
		cli.BoolFlag{
			Name:  "vv",
			Usage: "enable even more verbose logging",
		},
	}
	app.Before = cmd.SetupLogging
	app.Commands = []cli.Command{
		{
			Name:  "pack",
			Usage: "pack a material stack definition into a device record buffer",
			Description: `
Read a material stack from a JSON definition file, derive the per-material
reciprocals and phase function sampling constants, and write the contiguous
device records consumed by the Monte Carlo simulator.`,
			ArgsUsage: "stack.json",
			Flags: []cli.Flag{
				cli.BoolFlag{
					Name:  "double",
					Usage: "pack with double precision scalars",
				},
				cli.StringFlag{
					Name:  "out, o",
					Value: "materials.bin",
					Usage: "output filename for the packed records",
				},
			},
			Action: cmd.PackStack,
		},
		{
			Name:      "sources",
			Usage:     "emit the generated opencl source for a material stack",
			ArgsUsage: "stack.json",
			Flags: []cli.Flag{
				cli.BoolFlag{
					Name:  "double",
					Usage: "generate double precision sources",
				},
				cli.StringFlag{
					Name:  "out, o",
					Usage: "output filename (stdout when omitted)",
				},
			},
			Action: cmd.Sources,
		},
		{
			Name:  "verify",
			Usage: "round-trip a packed material stack through an opencl device",
			Description: `
Pack a material stack, compile its generated record declarations on an opencl
device, upload the records and read them back, verifying that the device copy
is byte-identical to the host packing.`,
			ArgsUsage: "stack.json",
			Flags: []cli.Flag{
				cli.BoolFlag{
					Name:  "double",
					Usage: "pack with double precision scalars",
				},
				cli.StringFlag{
					Name:  "device, d",
					Usage: "select the first device whose name contains this value",
				},
			},
			Action: cmd.Verify,
		},
		{
			Name:   "list-devices",
			Usage:  "list available opencl devices",
			Action: cmd.ListDevices,
		},
	}

	app.Run(os.Args)
}
