package material

import (
	"bytes"
	"encoding/binary"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/photomc/photomc/cltypes"
	"github.com/photomc/photomc/pf"
)

func withPrecision(t *testing.T, p cltypes.Precision) {
	t.Helper()
	prev := cltypes.GetPrecision()
	cltypes.SetPrecision(p)
	t.Cleanup(func() { cltypes.SetPrecision(prev) })
}

// scalarAt decodes the i-th scalar of a packed record under the active
// precision mode.
func scalarAt(t *testing.T, buf []byte, i int) float64 {
	t.Helper()
	switch cltypes.GetPrecision() {
	case cltypes.Single:
		return float64(math.Float32frombits(binary.LittleEndian.Uint32(buf[i*4:])))
	default:
		return math.Float64frombits(binary.LittleEndian.Uint64(buf[i*8:]))
	}
}

func TestMaterialAccessors(t *testing.T) {
	m := New(1.33, 0.5, 20, pf.NewGk(0.8, 0.5))
	if m.N() != 1.33 || m.Mua() != 0.5 || m.Mus() != 20 {
		t.Fatalf("unexpected coefficients: n=%g mua=%g mus=%g", m.N(), m.Mua(), m.Mus())
	}

	m.SetN(1.45)
	m.SetMua(1)
	m.SetMus(30)
	if m.N() != 1.45 || m.Mua() != 1 || m.Mus() != 30 {
		t.Fatalf("unexpected coefficients after update: n=%g mua=%g mus=%g", m.N(), m.Mua(), m.Mus())
	}
}

func TestSetPfRejectsFamilyChange(t *testing.T) {
	m := New(1.33, 0.5, 20, pf.NewGk(0.8, 0.5))

	if err := m.SetPf(pf.NewHg(0.9)); !errors.Is(err, ErrFamilyMismatch) {
		t.Fatalf("expected ErrFamilyMismatch; got %v", err)
	}
	if _, ok := m.Pf().(*pf.Gk); !ok {
		t.Fatalf("expected the original phase function to survive a rejected replacement; got %T", m.Pf())
	}

	if err := m.SetPf(pf.NewGk(0.2, 1)); err != nil {
		t.Fatal(err)
	}
	if got := m.Pf().(*pf.Gk).G(); got != 0.2 {
		t.Fatalf("expected replacement parameters to take effect; got g=%g", got)
	}
}

func TestLayoutSharedPerFamily(t *testing.T) {
	first := New(1.33, 0.5, 20, pf.NewGk(0.8, 0.5))
	second := New(1.45, 2, 40, pf.NewGk(-0.3, 1.5))
	if first.Layout() != second.Layout() {
		t.Fatal("expected materials of one family to share a single layout instance")
	}

	other := New(1.33, 0.5, 20, pf.NewHg(0.8))
	if first.Layout() == other.Layout() {
		t.Fatal("expected distinct layout instances across families")
	}
}

func TestPackRecordScalars(t *testing.T) {
	withPrecision(t, cltypes.Double)

	m := New(1.33, 5, 50, pf.NewGk(0.8, 0.5))
	buf, err := m.Pack(nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(buf) != m.Layout().Size() {
		t.Fatalf("expected a %d byte record; got %d", m.Layout().Size(), len(buf))
	}

	// n, mus, mua, inv_mut, mua_inv_mut precede the phase function
	// scalars.
	if got := scalarAt(t, buf, 0); got != 1.33 {
		t.Fatalf("expected n=1.33; got %g", got)
	}
	if got := scalarAt(t, buf, 1); got != 50 {
		t.Fatalf("expected mus=50; got %g", got)
	}
	if got := scalarAt(t, buf, 2); got != 5 {
		t.Fatalf("expected mua=5; got %g", got)
	}
	if got := scalarAt(t, buf, 3); got != 1.0/55 {
		t.Fatalf("expected inv_mut=%g; got %g", 1.0/55, got)
	}
	if got := scalarAt(t, buf, 4); got != 5.0/55 {
		t.Fatalf("expected mua_inv_mut=%g; got %g", 5.0/55, got)
	}
}

func TestPackDegenerateCoefficients(t *testing.T) {
	withPrecision(t, cltypes.Double)

	// A vacuum-like material packs an infinite mean free path.
	vacuum := New(1, 0, 0, pf.NewGk(0, 0.5))
	buf, err := vacuum.Pack(nil)
	if err != nil {
		t.Fatal(err)
	}
	if got := scalarAt(t, buf, 3); !math.IsInf(got, 1) {
		t.Fatalf("expected inv_mut=+Inf for mua=mus=0; got %g", got)
	}
	if got := scalarAt(t, buf, 4); got != 1 {
		t.Fatalf("expected mua_inv_mut=1 for mus=0; got %g", got)
	}

	// A purely absorbing material consumes the whole packet weight.
	absorber := New(1.4, 3, 0, pf.NewGk(0, 0.5))
	buf, err = absorber.Pack(nil)
	if err != nil {
		t.Fatal(err)
	}
	if got := scalarAt(t, buf, 3); got != 1.0/3 {
		t.Fatalf("expected inv_mut=%g; got %g", 1.0/3, got)
	}
	if got := scalarAt(t, buf, 4); got != 1 {
		t.Fatalf("expected mua_inv_mut=1 for mus=0; got %g", got)
	}
}

func TestPackIdempotent(t *testing.T) {
	withPrecision(t, cltypes.Single)

	m := New(1.33, 0.5, 20, pf.NewGk(0.8, 0.5))
	first, err := m.Pack(nil)
	if err != nil {
		t.Fatal(err)
	}
	second, err := m.Pack(nil)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(first, second) {
		t.Fatal("expected repeated packing to produce byte-identical records")
	}
}

func TestDeclarationText(t *testing.T) {
	m := New(1.33, 0.5, 20, pf.NewGk(0.8, 0.5))
	decl := m.Declaration()

	for _, want := range []string{
		"struct MC_STRUCT_ATTRIBUTES McMaterial {",
		"McPf pf;",
		"#define mc_material_inv_mut(pmaterial, pdir) ((pmaterial)->inv_mut)",
		"#define mc_material_pf(pmaterial) (&((pmaterial)->pf))",
	} {
		if !strings.Contains(decl, want) {
			t.Fatalf("declaration is missing %q:\n%s", want, decl)
		}
	}
}

func TestMaterialDictRoundTrip(t *testing.T) {
	m := New(1.33, 0.5, 20, pf.NewGk(0.8, 0.5))

	clone, err := FromDict(m.ToDict())
	if err != nil {
		t.Fatal(err)
	}
	if clone.N() != m.N() || clone.Mua() != m.Mua() || clone.Mus() != m.Mus() {
		t.Fatalf("coefficients changed across round trip: %v vs %v", clone, m)
	}
	gk, ok := clone.Pf().(*pf.Gk)
	if !ok {
		t.Fatalf("expected *pf.Gk after round trip; got %T", clone.Pf())
	}
	if gk.G() != 0.8 || gk.A() != 0.5 {
		t.Fatalf("phase function parameters changed across round trip: g=%g a=%g", gk.G(), gk.A())
	}
}

func TestMaterialFromDictRejections(t *testing.T) {
	if _, err := FromDict(map[string]interface{}{"type": "Sample"}); !errors.Is(err, ErrBadDict) {
		t.Fatalf("expected ErrBadDict for a wrong discriminator; got %v", err)
	}

	// An unknown phase function family must be rejected before any
	// material construction takes place.
	_, err := FromDict(map[string]interface{}{
		"type": "Material",
		"n":    1.33, "mua": 0.5, "mus": 20.0,
		"pf": map[string]interface{}{"type": "MiePd", "g": 0.5},
	})
	if !errors.Is(err, pf.ErrUnknownFamily) {
		t.Fatalf("expected ErrUnknownFamily; got %v", err)
	}
}
