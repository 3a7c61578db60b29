package cltypes

import (
	"fmt"
	"strings"
)

// Field describes one member of a device record: either a floating-point
// scalar (Struct == nil) or an embedded sub-record.
type Field struct {
	Name   string
	Struct *StructLayout
}

// Fp declares a scalar field.
func Fp(name string) Field {
	return Field{Name: name}
}

// Embed declares an embedded sub-record field.
func Embed(name string, layout *StructLayout) Field {
	return Field{Name: name, Struct: layout}
}

// StructLayout is an ordered, named record description. It is a pure
// function of a host type, never of instance state; layouts with the same
// name are interchangeable.
type StructLayout struct {
	// Kernel-side struct type name, e.g. McMaterial.
	Name   string
	Fields []Field
}

// NewStructLayout assembles a record description from the given fields.
func NewStructLayout(name string, fields ...Field) *StructLayout {
	return &StructLayout{Name: name, Fields: fields}
}

// Size returns the record size in bytes under the active precision mode.
// Scalars are packed back to back; no padding is inserted.
func (l *StructLayout) Size() int {
	size := 0
	for _, f := range l.Fields {
		if f.Struct != nil {
			size += f.Struct.Size()
		} else {
			size += FpSize()
		}
	}
	return size
}

// NumScalars returns the total scalar count including embedded records.
func (l *StructLayout) NumScalars() int {
	n := 0
	for _, f := range l.Fields {
		if f.Struct != nil {
			n += f.Struct.NumScalars()
		} else {
			n++
		}
	}
	return n
}

// Offset returns the byte offset of a top-level field under the active
// precision mode.
func (l *StructLayout) Offset(name string) (int, error) {
	off := 0
	for _, f := range l.Fields {
		if f.Name == name {
			return off, nil
		}
		if f.Struct != nil {
			off += f.Struct.Size()
		} else {
			off += FpSize()
		}
	}
	return 0, fmt.Errorf("cltypes: layout %s has no field %q", l.Name, name)
}

// Declaration renders the kernel-side struct declaration for this record.
// The output depends only on the layout, so identical host types always
// produce identical text.
func (l *StructLayout) Declaration() string {
	var sb strings.Builder
	sb.WriteString("struct MC_STRUCT_ATTRIBUTES ")
	sb.WriteString(l.Name)
	sb.WriteString(" {\n")
	for _, f := range l.Fields {
		if f.Struct != nil {
			fmt.Fprintf(&sb, "\t%s %s;\n", f.Struct.Name, f.Name)
		} else {
			fmt.Fprintf(&sb, "\tmc_fp_t %s;\n", f.Name)
		}
	}
	sb.WriteString("};")
	return sb.String()
}

// matches reports whether two layouts describe the same record type:
// equal struct names and the same ordered field names, recursively
// through embedded records. Name and scalar count alone are not enough;
// two families may both call their record McPf with equal scalar counts.
func (l *StructLayout) matches(o *StructLayout) bool {
	if l == o {
		return true
	}
	if l.Name != o.Name || len(l.Fields) != len(o.Fields) {
		return false
	}
	for i, f := range l.Fields {
		of := o.Fields[i]
		if f.Name != of.Name {
			return false
		}
		if (f.Struct == nil) != (of.Struct == nil) {
			return false
		}
		if f.Struct != nil && !f.Struct.matches(of.Struct) {
			return false
		}
	}
	return true
}

// Packable is implemented by host objects that own a device record.
type Packable interface {
	// Layout returns the record description shared by all instances of
	// the implementing type.
	Layout() *StructLayout

	// PackInto writes the record scalars in layout order.
	PackInto(p *Packer) error
}

// Pack fills target with the device record of obj, validating that the
// object's declared layout matches the expected one. A nil target
// allocates a fresh zero-initialized record buffer; a non-nil target must
// have the exact record size.
func Pack(layout *StructLayout, obj Packable, target []byte) ([]byte, error) {
	got := obj.Layout()
	if !layout.matches(got) {
		return nil, fmt.Errorf("cltypes: cannot pack %s record (%d scalars) with %s layout (%d scalars): %w",
			got.Name, got.NumScalars(), layout.Name, layout.NumScalars(), ErrLayoutMismatch)
	}

	size := layout.Size()
	if target == nil {
		target = make([]byte, size)
	} else if len(target) != size {
		return nil, fmt.Errorf("cltypes: target buffer is %d bytes, %s record needs %d: %w",
			len(target), layout.Name, size, ErrBufferTooSmall)
	}

	packer := NewPacker(target)
	if err := obj.PackInto(packer); err != nil {
		return nil, err
	}
	if packer.Offset() != size {
		return nil, fmt.Errorf("cltypes: %s record packed %d of %d bytes",
			layout.Name, packer.Offset(), size)
	}
	return target, nil
}
