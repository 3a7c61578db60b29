package cltypes

import (
	"bytes"
	"encoding/binary"
	"errors"
	"math"
	"strings"
	"testing"
)

func withPrecision(t *testing.T, p Precision) {
	t.Helper()
	prev := GetPrecision()
	SetPrecision(p)
	t.Cleanup(func() { SetPrecision(prev) })
}

var testLayout = NewStructLayout("McTest",
	Fp("x"),
	Fp("y"),
	Embed("inner", NewStructLayout("McInner", Fp("a"), Fp("b"))),
)

type testRecord struct {
	x, y, a, b float64
}

func (r *testRecord) Layout() *StructLayout { return testLayout }

func (r *testRecord) PackInto(p *Packer) error {
	for _, v := range []float64{r.x, r.y, r.a, r.b} {
		if err := p.PutFp(v); err != nil {
			return err
		}
	}
	return nil
}

func TestLayoutSizes(t *testing.T) {
	withPrecision(t, Single)
	if got := testLayout.Size(); got != 16 {
		t.Fatalf("expected 16 byte record under single precision; got %d", got)
	}
	if got := testLayout.NumScalars(); got != 4 {
		t.Fatalf("expected 4 scalars; got %d", got)
	}

	SetPrecision(Double)
	if got := testLayout.Size(); got != 32 {
		t.Fatalf("expected 32 byte record under double precision; got %d", got)
	}
}

func TestLayoutOffsets(t *testing.T) {
	withPrecision(t, Single)

	cases := map[string]int{"x": 0, "y": 4, "inner": 8}
	for name, exp := range cases {
		got, err := testLayout.Offset(name)
		if err != nil {
			t.Fatal(err)
		}
		if got != exp {
			t.Fatalf("expected offset %d for field %s; got %d", exp, name, got)
		}
	}

	if _, err := testLayout.Offset("missing"); err == nil {
		t.Fatal("expected an error for an unknown field")
	}
}

func TestPackSinglePrecision(t *testing.T) {
	withPrecision(t, Single)

	rec := &testRecord{x: 1.5, y: -2.25, a: 0.125, b: 3}
	buf, err := Pack(testLayout, rec, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(buf) != 16 {
		t.Fatalf("expected a 16 byte buffer; got %d", len(buf))
	}

	for i, exp := range []float64{1.5, -2.25, 0.125, 3} {
		bits := binary.LittleEndian.Uint32(buf[i*4:])
		if got := float64(math.Float32frombits(bits)); got != exp {
			t.Fatalf("expected scalar %d to be %g; got %g", i, exp, got)
		}
	}
}

func TestPackDoublePrecision(t *testing.T) {
	withPrecision(t, Double)

	rec := &testRecord{x: math.Inf(1), y: 1.0 / 55}
	buf, err := Pack(testLayout, rec, nil)
	if err != nil {
		t.Fatal(err)
	}

	if got := math.Float64frombits(binary.LittleEndian.Uint64(buf)); !math.IsInf(got, 1) {
		t.Fatalf("expected +Inf in scalar 0; got %g", got)
	}
	if got := math.Float64frombits(binary.LittleEndian.Uint64(buf[8:])); got != 1.0/55 {
		t.Fatalf("expected %g in scalar 1; got %g", 1.0/55, got)
	}
}

func TestPackIsIdempotent(t *testing.T) {
	withPrecision(t, Single)

	rec := &testRecord{x: 0.1, y: 0.2, a: 0.3, b: 0.4}
	first, err := Pack(testLayout, rec, nil)
	if err != nil {
		t.Fatal(err)
	}
	second, err := Pack(testLayout, rec, nil)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(first, second) {
		t.Fatal("expected repeated packing to produce byte-identical output")
	}
}

func TestPackLayoutMismatch(t *testing.T) {
	withPrecision(t, Single)

	other := NewStructLayout("McOther", Fp("x"))
	if _, err := Pack(other, &testRecord{}, nil); !errors.Is(err, ErrLayoutMismatch) {
		t.Fatalf("expected ErrLayoutMismatch; got %v", err)
	}
}

// Two record types may share a struct name and a scalar count while
// meaning entirely different fields; such layouts must not interchange.
func TestPackRejectsSameNameDifferentFields(t *testing.T) {
	withPrecision(t, Single)

	imposter := NewStructLayout("McTest",
		Fp("x"),
		Fp("y"),
		Embed("inner", NewStructLayout("McInner", Fp("a"), Fp("c"))),
	)
	if _, err := Pack(imposter, &testRecord{}, nil); !errors.Is(err, ErrLayoutMismatch) {
		t.Fatalf("expected ErrLayoutMismatch; got %v", err)
	}
}

func TestPackAcceptsStructurallyIdenticalLayout(t *testing.T) {
	withPrecision(t, Single)

	twin := NewStructLayout("McTest",
		Fp("x"),
		Fp("y"),
		Embed("inner", NewStructLayout("McInner", Fp("a"), Fp("b"))),
	)
	if _, err := Pack(twin, &testRecord{x: 1}, nil); err != nil {
		t.Fatal(err)
	}
}

func TestPackTargetSizeChecked(t *testing.T) {
	withPrecision(t, Single)

	if _, err := Pack(testLayout, &testRecord{}, make([]byte, 3)); !errors.Is(err, ErrBufferTooSmall) {
		t.Fatalf("expected ErrBufferTooSmall; got %v", err)
	}
}

func TestDeclarationDeterministic(t *testing.T) {
	first := testLayout.Declaration()
	second := testLayout.Declaration()
	if first != second {
		t.Fatal("expected identical declaration text across calls")
	}
	if !strings.Contains(first, "struct MC_STRUCT_ATTRIBUTES McTest {") {
		t.Fatalf("unexpected declaration text:\n%s", first)
	}
	if !strings.Contains(first, "McInner inner;") {
		t.Fatalf("expected embedded record field in declaration:\n%s", first)
	}
	if !strings.Contains(first, "mc_fp_t x;") {
		t.Fatalf("expected scalar field in declaration:\n%s", first)
	}
}
