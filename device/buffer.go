package device

import (
	"fmt"
	"unsafe"

	"github.com/achilleasa/gopencl/v1.2/cl"
)

// Buffer wraps one device memory allocation. The packing subsystem
// produces records as byte slices, so the buffer API is byte oriented.
type Buffer struct {
	// Handle to opencl buffer.
	bufHandle cl.Mem

	// Associated device.
	device *Device

	// A name for identifying the buffer in errors.
	name string

	// Allocated size.
	size int
}

// Size returns the allocated size in bytes.
func (b *Buffer) Size() int {
	return b.size
}

// Allocate reserves size bytes of device memory with the given flags.
// A previous allocation is released first.
func (b *Buffer) Allocate(size int, flags cl.MemFlags) error {
	var errCode cl.ErrorCode

	b.Release()

	b.bufHandle = cl.CreateBuffer(
		*b.device.ctx,
		flags,
		cl.MemFlags(size),
		nil,
		(*int32)(&errCode),
	)

	if errCode != cl.SUCCESS {
		return fmt.Errorf("device (%s): could not allocate buffer %s of size %d (error: %s; code %d)", b.device.Name, b.name, size, ErrorName(errCode), errCode)
	}

	b.size = size

	return nil
}

// AllocateAndWrite reserves device memory sized for data and has opencl
// copy the bytes from the host. This is the upload path for packed
// material stacks: one contiguous, immutable device copy that worker
// threads only read.
func (b *Buffer) AllocateAndWrite(data []byte, flags cl.MemFlags) error {
	var errCode cl.ErrorCode

	b.Release()

	if len(data) == 0 {
		return fmt.Errorf("device (%s): refusing to upload empty buffer %s", b.device.Name, b.name)
	}

	b.bufHandle = cl.CreateBuffer(
		*b.device.ctx,
		flags|cl.MEM_COPY_HOST_PTR,
		cl.MemFlags(len(data)),
		unsafe.Pointer(&data[0]),
		(*int32)(&errCode),
	)

	if errCode != cl.SUCCESS {
		return fmt.Errorf("device (%s): could not allocate buffer %s of size %d (error: %s; code %d)", b.device.Name, b.name, len(data), ErrorName(errCode), errCode)
	}

	b.size = len(data)

	return nil
}

// Write copies host bytes into the device buffer at the given byte
// offset.
func (b *Buffer) Write(data []byte, offset int) error {
	if offset+len(data) > b.size {
		return fmt.Errorf("device (%s): insufficient buffer space (%d) in %s for copying %d bytes at offset %d", b.device.Name, b.size, b.name, len(data), offset)
	}

	errCode := cl.EnqueueWriteBuffer(
		b.device.cmdQueue,
		b.bufHandle,
		cl.TRUE,
		uint64(offset),
		uint64(len(data)),
		unsafe.Pointer(&data[0]),
		0,
		nil,
		nil,
	)

	if errCode != cl.SUCCESS {
		return fmt.Errorf("device (%s): error copying host data to device buffer %s (errCode %d)", b.device.Name, b.name, errCode)
	}

	return nil
}

// Read copies size device bytes starting at srcOffset into the host
// slice. A size <= 0 reads the entire buffer.
func (b *Buffer) Read(srcOffset, size int, host []byte) error {
	if size <= 0 {
		size = b.size
	}
	if len(host) < size {
		return fmt.Errorf("device (%s): host slice of %d bytes cannot hold %d bytes from buffer %s", b.device.Name, len(host), size, b.name)
	}

	errCode := cl.EnqueueReadBuffer(
		b.device.cmdQueue,
		b.bufHandle,
		cl.TRUE,
		uint64(srcOffset),
		uint64(size),
		unsafe.Pointer(&host[0]),
		0,
		nil,
		nil,
	)

	if errCode != cl.SUCCESS {
		return fmt.Errorf("device (%s): error copying device data from %s to host buffer (errCode %d)", b.device.Name, b.name, errCode)
	}

	return nil
}

// Release frees the device allocation.
func (b *Buffer) Release() {
	if b.bufHandle != nil {
		cl.ReleaseMemObject(b.bufHandle)
		b.bufHandle = nil
	}
}

// Handle returns the opencl buffer handle.
func (b *Buffer) Handle() cl.Mem {
	return b.bufHandle
}
