package pfutil

import (
	"fmt"
	"math"
)

// Gk is the analysis form of the Gegenbauer kernel phase function
//
//	p(cos) = K * (1 + g^2 - 2*g*cos)^-(a + 1)
//
// normalized over the full solid angle.
type Gk struct {
	g float64
	a float64
	k float64
}

// NewGk constructs the analysis form. Parameters are clamped to the same
// domain as the device model: g into [-1, 1], a to >= -0.5.
func NewGk(g, a float64) *Gk {
	if g < -1 {
		g = -1
	} else if g > 1 {
		g = 1
	}
	a = math.Max(a, -0.5)
	return &Gk{g: g, a: a, k: gkNorm(g, a)}
}

// gkNorm derives the normalization constant of the Gegenbauer kernel.
func gkNorm(g, a float64) float64 {
	switch {
	case g == 0:
		return 1 / (4 * math.Pi)
	case a == 0:
		// The a -> 0 limit integrates to a logarithm.
		return g / (2 * math.Pi * math.Log((1+g)/(1-g)))
	default:
		return a * g * math.Pow(1-g*g, 2*a) /
			(math.Pi * (math.Pow(1+g, 2*a) - math.Pow(1-g, 2*a)))
	}
}

// G returns the g parameter.
func (p *Gk) G() float64 { return p.g }

// A returns the a parameter.
func (p *Gk) A() float64 { return p.a }

// Eval returns the phase function value per steradian at the given polar
// scattering angle cosine.
func (p *Gk) Eval(cosTheta float64) float64 {
	if p.g == 0 {
		return 1 / (4 * math.Pi)
	}
	return p.k * math.Pow(1+p.g*p.g-2*p.g*cosTheta, -(p.a + 1))
}

// Moment computes the n-th Legendre moment of the phase function by
// numerical quadrature. Moment(1) is the scattering anisotropy.
func (p *Gk) Moment(n int) float64 {
	if n == 0 {
		return 1
	}
	if p.g == 0 {
		return 0
	}
	return moment(p.Eval, n)
}

// Anisotropy is shorthand for the first Legendre moment.
func (p *Gk) Anisotropy() float64 {
	return p.Moment(1)
}

// String implements Stringer.
func (p *Gk) String() string {
	return fmt.Sprintf("pfutil.Gk(g=%g, a=%g)", p.g, p.a)
}
