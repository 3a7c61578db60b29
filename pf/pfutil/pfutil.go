// Package pfutil holds the offline-analysis counterparts of the device
// scattering phase functions. These types never touch device records;
// they evaluate the normalized phase function and compute Legendre
// moments for quantifying scattering anisotropy.
package pfutil

import "math"

// Quadrature node count used for the numerical Legendre moments. Simpson
// integration over cos(theta) in [-1, 1] with this many intervals keeps
// the first few moments accurate to well below 1e-6 for any admissible
// shape parameters.
const quadratureIntervals = 4096

// legendre evaluates the Legendre polynomial P_n(x) via the Bonnet
// recurrence.
func legendre(n int, x float64) float64 {
	if n == 0 {
		return 1
	}
	if n == 1 {
		return x
	}
	pPrev, p := 1.0, x
	for k := 2; k <= n; k++ {
		pPrev, p = p, (float64(2*k-1)*x*p-float64(k-1)*pPrev)/float64(k)
	}
	return p
}

// moment integrates 2*pi * eval(x) * P_n(x) over x in [-1, 1] with
// composite Simpson quadrature.
func moment(eval func(float64) float64, n int) float64 {
	h := 2.0 / quadratureIntervals
	sum := eval(-1)*legendre(n, -1) + eval(1)*legendre(n, 1)
	for i := 1; i < quadratureIntervals; i++ {
		x := -1 + float64(i)*h
		w := 2.0
		if i%2 == 1 {
			w = 4.0
		}
		sum += w * eval(x) * legendre(n, x)
	}
	return 2 * math.Pi * sum * h / 3
}
