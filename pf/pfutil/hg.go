package pfutil

import (
	"fmt"
	"math"
)

// Hg is the analysis form of the Henyey-Greenstein phase function. Its
// Legendre moments have the closed form g^n.
type Hg struct {
	g float64
}

// NewHg constructs the analysis form with g clamped into [-1, 1].
func NewHg(g float64) *Hg {
	if g < -1 {
		g = -1
	} else if g > 1 {
		g = 1
	}
	return &Hg{g: g}
}

// G returns the anisotropy factor.
func (p *Hg) G() float64 { return p.g }

// Eval returns the phase function value per steradian at the given polar
// scattering angle cosine.
func (p *Hg) Eval(cosTheta float64) float64 {
	g := p.g
	return (1 - g*g) /
		(4 * math.Pi * math.Pow(1+g*g-2*g*cosTheta, 1.5))
}

// Moment returns the n-th Legendre moment g^n.
func (p *Hg) Moment(n int) float64 {
	return math.Pow(p.g, float64(n))
}

// Anisotropy is shorthand for the first Legendre moment.
func (p *Hg) Anisotropy() float64 {
	return p.g
}

// String implements Stringer.
func (p *Hg) String() string {
	return fmt.Sprintf("pfutil.Hg(g=%g)", p.g)
}
