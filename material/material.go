// Package material models the optical medium stack backing every photon
// packet interaction: per-material coefficients coupled with a scattering
// phase function, and their translation into the contiguous device
// records consumed by the Monte Carlo kernels.
package material

import (
	"fmt"
	"math"
	"strings"
	"sync"

	"github.com/photomc/photomc/cltypes"
	"github.com/photomc/photomc/pf"
)

// Material couples one scattering phase function with the optical
// coefficients of a medium.
//
// Coefficients use inverse length units: mua is the absorption
// coefficient (>= 0), mus the scattering coefficient (>= 0) and n the
// refractive index (> 0).
type Material struct {
	n   float64
	mua float64
	mus float64
	phf pf.PhaseFunction
}

// New constructs a material. The material takes exclusive ownership of
// the phase function instance; callers that share one phase function
// across materials must pass independent copies.
func New(n, mua, mus float64, phf pf.PhaseFunction) *Material {
	return &Material{n: n, mua: mua, mus: mus, phf: phf}
}

// N returns the refractive index.
func (m *Material) N() float64 { return m.n }

// Mua returns the absorption coefficient.
func (m *Material) Mua() float64 { return m.mua }

// Mus returns the scattering coefficient.
func (m *Material) Mus() float64 { return m.mus }

// Pf returns the owned phase function.
func (m *Material) Pf() pf.PhaseFunction { return m.phf }

// SetN replaces the refractive index.
func (m *Material) SetN(n float64) { m.n = n }

// SetMua replaces the absorption coefficient.
func (m *Material) SetMua(mua float64) { m.mua = mua }

// SetMus replaces the scattering coefficient.
func (m *Material) SetMus(mus float64) { m.mus = mus }

// SetPf replaces the phase function. The concrete family is fixed at
// construction time; only the parameters may change, so a replacement
// from a different family is rejected.
func (m *Material) SetPf(phf pf.PhaseFunction) error {
	if phf.Family() != m.phf.Family() {
		return fmt.Errorf("material: cannot replace %s phase function with %s: %w",
			m.phf.Family(), phf.Family(), ErrFamilyMismatch)
	}
	m.phf = phf
	return nil
}

// Material layouts are memoized per phase function family so that every
// material of one family shares a single canonical layout instance.
var (
	layoutMu  sync.Mutex
	layoutTab = map[string]*cltypes.StructLayout{}
)

func layoutFor(phf pf.PhaseFunction) *cltypes.StructLayout {
	layoutMu.Lock()
	defer layoutMu.Unlock()

	layout, ok := layoutTab[phf.Family()]
	if !ok {
		layout = cltypes.NewStructLayout("McMaterial",
			cltypes.Fp("n"),
			cltypes.Fp("mus"),
			cltypes.Fp("mua"),
			cltypes.Fp("inv_mut"),
			cltypes.Fp("mua_inv_mut"),
			cltypes.Embed("pf", phf.Layout()),
		)
		layoutTab[phf.Family()] = layout
	}
	return layout
}

// Layout implements cltypes.Packable. All materials that share a phase
// function family return the identical layout instance.
func (m *Material) Layout() *cltypes.StructLayout {
	return layoutFor(m.phf)
}

// PackInto writes the device record scalars in layout order. The two
// reciprocals are derived here, at pack time:
//
//	inv_mut     = 1/(mua+mus), +Inf when the sum is zero
//	mua_inv_mut = mua/(mua+mus), fixed at 1 when mus is zero
//
// The mus == 0 convention makes a purely absorbing material consume the
// whole packet weight on interaction.
func (m *Material) PackInto(p *cltypes.Packer) error {
	mut := m.mua + m.mus

	invMut := math.Inf(1)
	if mut > 0 {
		invMut = 1 / mut
	}

	muaInvMut := 1.0
	if m.mus != 0 {
		muaInvMut = m.mua * invMut
	}

	for _, v := range []float64{m.n, m.mus, m.mua, invMut, muaInvMut} {
		if err := p.PutFp(v); err != nil {
			return err
		}
	}
	return m.phf.PackInto(p)
}

// Pack fills target with the material's device record. A nil target
// allocates a fresh record buffer. Packing never mutates the material;
// repeated calls on an unmodified material produce byte-identical output.
func (m *Material) Pack(target []byte) ([]byte, error) {
	return cltypes.Pack(m.Layout(), m, target)
}

// Declaration returns the OpenCL declaration of the material record, its
// accessor macros and the embedded phase function declaration.
func (m *Material) Declaration() string {
	return strings.Join([]string{
		m.phf.Declaration(),
		"",
		m.Layout().Declaration(),
		"",
		"#define mc_material_n(pmaterial) ((pmaterial)->n)",
		"#define mc_material_mus(pmaterial, pdir) ((pmaterial)->mus)",
		"#define mc_material_mua(pmaterial, pdir) ((pmaterial)->mua)",
		"#define mc_material_mut(pmaterial, pdir) ((pmaterial)->mua + (pmaterial)->mus)",
		"#define mc_material_inv_mut(pmaterial, pdir) ((pmaterial)->inv_mut)",
		"#define mc_material_mua_inv_mut(pmaterial, pdir) ((pmaterial)->mua_inv_mut)",
		"#define mc_material_pf(pmaterial) (&((pmaterial)->pf))",
	}, "\n")
}

// Implementation returns the OpenCL implementation of the material type:
// the embedded phase function routines plus a debug print helper.
func (m *Material) Implementation() string {
	return strings.Join([]string{
		m.phf.Implementation(),
		"",
		"#if MC_ENABLE_DEBUG || defined(__DOXYGEN__)",
		"void dbg_print_material(__mc_material_mem McMaterial const *material){",
		`	dbg_print("McMaterial:");`,
		`	dbg_print_float(INDENT "n:", material->n);`,
		`	dbg_print_float(INDENT "mus:", material->mus);`,
		`	dbg_print_float(INDENT "mua:", material->mua);`,
		`	dbg_print_float(INDENT "inv_mut:", material->inv_mut);`,
		`	dbg_print_float(INDENT "mua_inv_mut:", material->mua_inv_mut);`,
		"	McPf const dbg_pf = material->pf;",
		"	dbg_print_pf(&dbg_pf);",
		"};",
		"#endif",
	}, "\n")
}

// ToDict exports the constructor parameters together with a type
// discriminator.
func (m *Material) ToDict() map[string]interface{} {
	return map[string]interface{}{
		"type": "Material",
		"n":    m.n,
		"mua":  m.mua,
		"mus":  m.mus,
		"pf":   m.phf.ToDict(),
	}
}

// FromDict reconstructs a material from dict data produced by ToDict.
// The phase function family is resolved through the pf registry before
// any construction takes place; unknown families are rejected.
func FromDict(data map[string]interface{}) (*Material, error) {
	if t, _ := data["type"].(string); t != "Material" {
		return nil, fmt.Errorf("material: expected type Material, got %q: %w", data["type"], ErrBadDict)
	}

	pfData, ok := data["pf"].(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("material: missing pf entry: %w", ErrBadDict)
	}
	phf, err := pf.FromDict(pfData)
	if err != nil {
		return nil, err
	}

	var coeffs [3]float64
	for i, key := range []string{"n", "mua", "mus"} {
		v, ok := data[key].(float64)
		if !ok {
			return nil, fmt.Errorf("material: dict entry %q is not a number: %w", key, ErrBadDict)
		}
		coeffs[i] = v
	}
	return New(coeffs[0], coeffs[1], coeffs[2], phf), nil
}

// String implements Stringer.
func (m *Material) String() string {
	return fmt.Sprintf("Material(n=%g, mua=%g, mus=%g, pf=%v)", m.n, m.mua, m.mus, m.phf)
}
