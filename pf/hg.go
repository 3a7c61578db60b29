package pf

import (
	"fmt"

	"github.com/photomc/photomc/cltypes"
	"github.com/photomc/photomc/pf/pfutil"
)

// HgFamily is the discriminator of the Henyey-Greenstein family.
const HgFamily = "Hg"

var hgLayout = cltypes.NewStructLayout("McPf",
	cltypes.Fp("g"),
	cltypes.Fp("inv_2g"),
)

// Hg is the Henyey-Greenstein scattering phase function. The Gegenbauer
// kernel reduces to it for a = 0.5; samples with a plain anisotropy model
// should prefer this family for its leaner device record.
type Hg struct {
	g float64

	// Precomputed reciprocal 1/(2g), zero in the isotropic case. Keeps
	// the division out of the per-interaction sampling path.
	inv2g float64
}

// NewHg constructs a Henyey-Greenstein phase function. The anisotropy
// factor g is clamped into [-1, 1], never rejected.
func NewHg(g float64) *Hg {
	hg := &Hg{}
	hg.g = clip(g, -1, 1)
	hg.recalculate()
	return hg
}

// G returns the anisotropy factor.
func (hg *Hg) G() float64 { return hg.g }

// SetG clamps g into [-1, 1] and re-derives the sampling constant.
func (hg *Hg) SetG(g float64) {
	hg.g = clip(g, -1, 1)
	hg.recalculate()
}

// Inv2G returns the precomputed reciprocal 1/(2g).
func (hg *Hg) Inv2G() float64 { return hg.inv2g }

func (hg *Hg) recalculate() {
	if hg.g == 0 {
		hg.inv2g = 0
		return
	}
	hg.inv2g = 1 / (2 * hg.g)
}

// SampleCosTheta transforms a uniform draw into the cosine of the polar
// scattering angle using the closed-form inverse of the HG distribution.
func (hg *Hg) SampleCosTheta(u float64) float64 {
	g := hg.g
	if g == 0 {
		return clip(1-2*u, -1, 1)
	}
	tmp := (1 - g*g) / (1 - g + 2*g*u)
	cosTheta := (1 + g*g - tmp*tmp) * hg.inv2g
	return clip(cosTheta, -1, 1)
}

// Util returns the related offline-analysis representation.
func (hg *Hg) Util() *pfutil.Hg {
	return pfutil.NewHg(hg.g)
}

// Family implements PhaseFunction.
func (hg *Hg) Family() string { return HgFamily }

// Layout implements cltypes.Packable.
func (hg *Hg) Layout() *cltypes.StructLayout { return hgLayout }

// PackInto writes (g, inv_2g) in layout order.
func (hg *Hg) PackInto(p *cltypes.Packer) error {
	if err := p.PutFp(hg.g); err != nil {
		return err
	}
	return p.PutFp(hg.inv2g)
}

// Declaration returns the OpenCL declaration of the Hg record.
func (hg *Hg) Declaration() string {
	return hgLayout.Declaration() + "\n" +
		"void dbg_print_pf(const McPf *pf);"
}

// Implementation returns the OpenCL sampling routine of the Hg family.
func (hg *Hg) Implementation() string {
	return `void dbg_print_pf(const McPf *pf) {
	dbg_print("Hg scattering phase function:");
	dbg_print_float(INDENT "g:", pf->g);
	dbg_print_float(INDENT "inv_2g:", pf->inv_2g);
};

inline mc_fp_t mcsim_pf_sample_angles(McSim *mcsim, mc_fp_t *azimuth){
	mc_fp_t tmp, cos_theta;
	mc_fp_t g = mcsim_current_pf(mcsim)->g;
	mc_fp_t inv_2g = mcsim_current_pf(mcsim)->inv_2g;

	*azimuth = FP_2PI*mcsim_random(mcsim);

	if (g == FP_0) {
		cos_theta = FP_1 - FP_2*mcsim_random(mcsim);
	} else {
		tmp = mc_fdiv(
			FP_1 - g*g,
			FP_1 - g + FP_2*g*mcsim_random(mcsim)
		);
		cos_theta = (FP_1 + g*g - tmp*tmp)*inv_2g;
	};

	return mc_fclip(cos_theta, -FP_1, FP_1);
};`
}

// ToDict exports the construction parameters.
func (hg *Hg) ToDict() map[string]interface{} {
	return map[string]interface{}{"type": HgFamily, "g": hg.g}
}

// String implements Stringer.
func (hg *Hg) String() string {
	return fmt.Sprintf("Hg(g=%g)", hg.g)
}

func init() {
	Register(HgFamily, func(data map[string]interface{}) (PhaseFunction, error) {
		g, err := dictFloat(data, "g")
		if err != nil {
			return nil, err
		}
		return NewHg(g), nil
	})
}
