package cmd

import (
	"fmt"
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"

	"github.com/photomc/photomc/device"
)

// ListDevices prints a table of the available opencl platforms and
// devices.
func ListDevices(ctx *cli.Context) error {
	platforms, err := device.GetPlatformInfo()
	if err != nil {
		return err
	}

	logger.Noticef("system provides %d opencl platform(s)", len(platforms))

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Platform", "Version", "Device", "Type", "GFlops"})
	for _, platform := range platforms {
		for _, dev := range platform.Devices {
			table.Append([]string{
				platform.Name,
				platform.Version,
				dev.Name,
				dev.Type.String(),
				fmt.Sprintf("%d", dev.Speed),
			})
		}
	}
	table.Render()

	return nil
}
