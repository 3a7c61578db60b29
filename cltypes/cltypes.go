// Package cltypes translates host-side simulation objects into the
// fixed-layout binary records consumed by the OpenCL Monte Carlo kernels.
//
// Every packable host object declares a StructLayout that is a pure
// function of its concrete type. All instances of the same type share one
// layout, which is what allows a material stack to pack a heterogeneous
// set of materials into a single contiguous device buffer.
package cltypes

import (
	"encoding/binary"
	"math"
)

// Precision selects the floating-point width used for every packed scalar
// and for the mc_fp_t typedef in the generated kernel sources.
type Precision uint8

const (
	// Single packs scalars as 32-bit IEEE-754 floats.
	Single Precision = iota
	// Double packs scalars as 64-bit IEEE-754 floats.
	Double
)

func (p Precision) String() string {
	if p == Double {
		return "double"
	}
	return "float"
}

// The process-wide precision mode. Chosen once per simulation run, before
// any layout is sized or any record is packed. Mixing records packed under
// different modes corrupts the device buffer.
var precision = Single

// SetPrecision selects the process-wide floating-point width.
func SetPrecision(p Precision) {
	precision = p
}

// GetPrecision reports the active precision mode.
func GetPrecision() Precision {
	return precision
}

// FpSize returns the byte width of one packed scalar under the active
// precision mode.
func FpSize() int {
	if precision == Double {
		return 8
	}
	return 4
}

// FpName returns the kernel-side scalar type name (mc_fp_t maps to this).
func FpName() string {
	return precision.String()
}

// Packer writes scalars sequentially into a record buffer using the
// active precision width and little-endian byte order.
type Packer struct {
	buf []byte
	off int
}

// NewPacker wraps an existing record buffer.
func NewPacker(buf []byte) *Packer {
	return &Packer{buf: buf}
}

// PutFp appends one scalar at the current offset.
func (p *Packer) PutFp(v float64) error {
	width := FpSize()
	if p.off+width > len(p.buf) {
		return ErrBufferTooSmall
	}
	if width == 8 {
		binary.LittleEndian.PutUint64(p.buf[p.off:], math.Float64bits(v))
	} else {
		binary.LittleEndian.PutUint32(p.buf[p.off:], math.Float32bits(float32(v)))
	}
	p.off += width
	return nil
}

// Offset returns the number of bytes written so far.
func (p *Packer) Offset() int {
	return p.off
}

// Bytes returns the underlying record buffer.
func (p *Packer) Bytes() []byte {
	return p.buf
}
