package pf

import (
	"fmt"
	"math"

	"github.com/photomc/photomc/cltypes"
	"github.com/photomc/photomc/pf/pfutil"
)

// GkFamily is the discriminator of the Gegenbauer kernel family.
const GkFamily = "Gk"

// The device record shared by all Gk instances.
var gkLayout = cltypes.NewStructLayout("McPf",
	cltypes.Fp("g"),
	cltypes.Fp("a"),
	cltypes.Fp("inv_a"),
	cltypes.Fp("a1"),
	cltypes.Fp("a2"),
)

// Gk is the Gegenbauer kernel scattering phase function. It generalizes
// Henyey-Greenstein, which is recovered for a = 0.5.
//
// The shape parameters are clamped, never rejected: g is limited to
// [-1, 1] and a to values >= -0.5. This permissiveness is intentional so
// that parameter sweeps can feed raw values straight in; the sampling
// formulas are well defined on the clamped domain.
type Gk struct {
	g float64
	a float64

	// Sampling constants derived from g and a. Always consistent with
	// the current parameter values.
	invA float64
	a1   float64
	a2   float64
}

// NewGk constructs a Gegenbauer kernel phase function with the given
// anisotropy parameter g and shape parameter a.
func NewGk(g, a float64) *Gk {
	gk := &Gk{}
	gk.g = clip(g, -1, 1)
	gk.a = math.Max(a, -0.5)
	gk.recalculate()
	return gk
}

// G returns the g parameter.
func (gk *Gk) G() float64 { return gk.g }

// A returns the a parameter.
func (gk *Gk) A() float64 { return gk.a }

// SetG clamps g into [-1, 1] and re-derives the sampling constants.
func (gk *Gk) SetG(g float64) {
	gk.g = clip(g, -1, 1)
	gk.recalculate()
}

// SetA clamps a to >= -0.5 and re-derives the sampling constants.
func (gk *Gk) SetA(a float64) {
	gk.a = math.Max(a, -0.5)
	gk.recalculate()
}

// Constants returns the derived sampling constants (invA, a1, a2).
func (gk *Gk) Constants() (invA, a1, a2 float64) {
	return gk.invA, gk.a1, gk.a2
}

// recalculate derives the sampling constants from the current parameters.
// The three branches are mutually exclusive and must stay exactly as
// written for numerical reproducibility with the kernel-side sampler.
func (gk *Gk) recalculate() {
	g, a := gk.g, gk.a
	switch {
	case g == 0:
		// Isotropic: cosTheta = 1 - 2*u.
		gk.invA, gk.a1, gk.a2 = 0, 0, 0
	case a == 0:
		// Henyey-Greenstein equivalent closed form.
		gk.a1 = (1 + g*g) / (2 * g)
		gk.a2 = (1 + 2*g + g*g) / (2 * g)
		gk.invA = 0
	default:
		temp := a * g * math.Pow(1-g*g, 2*a)
		temp /= math.Pi * (math.Pow(1+g, 2*a) - math.Pow(1-g, 2*a))
		gk.a1 = 2 * a * g / (2 * math.Pi * temp)
		gk.a2 = math.Pow(1+g, -2*a)
		gk.invA = 1 / a
	}
}

// SampleCosTheta transforms a uniform draw into the cosine of the polar
// scattering angle.
func (gk *Gk) SampleCosTheta(u float64) float64 {
	g := gk.g
	var cosTheta float64
	switch {
	case g == 0:
		cosTheta = 1 - 2*u
	case gk.a == 0:
		cosTheta = gk.a1 - math.Pow((1-g)/(1+g), 2*u)*gk.a2
	default:
		tmp := gk.a1*u + gk.a2
		tmp = 1 + g*g - math.Pow(tmp, -gk.invA)
		cosTheta = tmp / (2 * g)
	}
	return clip(cosTheta, -1, 1)
}

// Util returns the related offline-analysis representation used to
// compute Legendre moments and similar quantifiers.
func (gk *Gk) Util() *pfutil.Gk {
	return pfutil.NewGk(gk.g, gk.a)
}

// Family implements PhaseFunction.
func (gk *Gk) Family() string { return GkFamily }

// Layout implements cltypes.Packable. The layout is shared by all Gk
// instances.
func (gk *Gk) Layout() *cltypes.StructLayout { return gkLayout }

// PackInto writes (g, a, inv_a, a1, a2) in layout order.
func (gk *Gk) PackInto(p *cltypes.Packer) error {
	for _, v := range []float64{gk.g, gk.a, gk.invA, gk.a1, gk.a2} {
		if err := p.PutFp(v); err != nil {
			return err
		}
	}
	return nil
}

// Declaration returns the OpenCL declaration of the Gk record.
func (gk *Gk) Declaration() string {
	return gkLayout.Declaration() + "\n" +
		"void dbg_print_pf(const McPf *pf);"
}

// Implementation returns the OpenCL sampling routine of the Gk family.
func (gk *Gk) Implementation() string {
	return `void dbg_print_pf(const McPf *pf) {
	dbg_print("Gk scattering phase function:");
	dbg_print_float(INDENT "g:", pf->g);
	dbg_print_float(INDENT "a:", pf->a);
	dbg_print_float(INDENT "inv_a:", pf->inv_a);
	dbg_print_float(INDENT "a1:", pf->a1);
	dbg_print_float(INDENT "a2:", pf->a2);
};

inline mc_fp_t mcsim_pf_sample_angles(McSim *mcsim, mc_fp_t *azimuth){
	mc_fp_t tmp, cos_theta;
	mc_fp_t g = mcsim_current_pf(mcsim)->g;
	mc_fp_t a = mcsim_current_pf(mcsim)->a;
	mc_fp_t inv_a = mcsim_current_pf(mcsim)->inv_a;
	mc_fp_t a1 = mcsim_current_pf(mcsim)->a1;
	mc_fp_t a2 = mcsim_current_pf(mcsim)->a2;

	*azimuth = FP_2PI*mcsim_random(mcsim);

	if (g == FP_0) {
		cos_theta = FP_1 - FP_2*mcsim_random(mcsim);
	} else if(a == FP_0) {
		cos_theta = a1 - mc_pow(
			mc_fdiv(FP_1 - g, FP_1 + g),
			FP_2*mcsim_random(mcsim)
		)*a2;
	} else {
		tmp = a1*mcsim_random(mcsim) + a2;
		tmp = FP_1 + g*g - mc_pow(tmp, -inv_a);
		cos_theta = mc_fdiv(tmp, FP_2*g);
	};

	return mc_fclip(cos_theta, -FP_1, FP_1);
};`
}

// ToDict exports the construction parameters.
func (gk *Gk) ToDict() map[string]interface{} {
	return map[string]interface{}{"type": GkFamily, "g": gk.g, "a": gk.a}
}

// String implements Stringer.
func (gk *Gk) String() string {
	return fmt.Sprintf("Gk(g=%g, a=%g)", gk.g, gk.a)
}

func init() {
	Register(GkFamily, func(data map[string]interface{}) (PhaseFunction, error) {
		g, err := dictFloat(data, "g")
		if err != nil {
			return nil, err
		}
		a, err := dictFloat(data, "a")
		if err != nil {
			return nil, err
		}
		return NewGk(g, a), nil
	})
}
