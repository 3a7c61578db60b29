package cmd

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/achilleasa/gopencl/v1.2/cl"
	"github.com/urfave/cli"

	"github.com/photomc/photomc/device"
	"github.com/photomc/photomc/kernel"
)

// copyKernel shuttles the uploaded records back out byte for byte so the
// host can compare them against the original packing.
const copyKernel = `__kernel void copy_records(
	__global const uchar *src,
	__global uchar *dst,
	uint count
){
	size_t i = get_global_id(0);
	if (i < count) {
		dst[i] = src[i];
	}
}`

// Verify packs a material stack, uploads the records to an opencl device
// and reads them back through a copy kernel. A successful run proves the
// device compiles the generated record declarations and that the upload
// survives the round trip unmodified.
func Verify(ctx *cli.Context) error {
	if ctx.NArg() != 1 {
		return fmt.Errorf("verify requires exactly one stack file argument")
	}
	applyPrecision(ctx)

	stack, err := loadStack(ctx.Args().First())
	if err != nil {
		return err
	}
	records, err := stack.Pack(nil)
	if err != nil {
		return err
	}

	devList, err := device.SelectDevices(device.AllDevices, ctx.String("device"))
	if err != nil {
		return err
	}
	if len(devList) == 0 {
		return fmt.Errorf("no opencl device matches %q", ctx.String("device"))
	}
	dev := devList[0]
	logger.Noticef("verifying on device: %s", dev.Name)

	src := strings.Join([]string{
		kernel.Header(),
		"",
		stack.Declaration(),
		"",
		copyKernel,
		"",
	}, "\n")

	start := time.Now()
	if err = dev.Init(src); err != nil {
		return err
	}
	defer dev.Close()
	logger.Infof("compiled %d bytes of kernel source in %d ms", len(src), time.Since(start).Milliseconds())

	in := dev.Buffer("materials")
	defer in.Release()
	if err = in.AllocateAndWrite(records, cl.MEM_READ_ONLY); err != nil {
		return err
	}

	out := dev.Buffer("readback")
	defer out.Release()
	if err = out.Allocate(len(records), cl.MEM_WRITE_ONLY); err != nil {
		return err
	}

	krn, err := dev.Kernel("copy_records")
	if err != nil {
		return err
	}
	defer krn.Release()

	if err = krn.SetArgs(in, out, uint32(len(records))); err != nil {
		return err
	}
	elapsed, err := krn.Exec1D(0, len(records), 0)
	if err != nil {
		return err
	}

	readback := make([]byte, len(records))
	if err = out.Read(0, 0, readback); err != nil {
		return err
	}
	if !bytes.Equal(records, readback) {
		return fmt.Errorf("device round trip corrupted the packed records")
	}

	logger.Noticef("verified %d packed bytes (%d materials) on %s in %d us",
		len(records), stack.Len(), dev.Name, elapsed.Microseconds())

	return nil
}
