package spectral

import (
	"errors"
	"fmt"
	"sort"
)

// ErrOutOfRange is returned by interpolators configured with the Reject
// policy when a wavelength falls outside the tabulated range.
var ErrOutOfRange = errors.New("wavelength outside the tabulated range")

// RangePolicy selects how an interpolator treats wavelengths outside its
// table.
type RangePolicy uint8

const (
	// Clamp evaluates out-of-range wavelengths to the nearest edge
	// value. This is the default.
	Clamp RangePolicy = iota
	// Reject fails out-of-range evaluation with ErrOutOfRange.
	Reject
)

// Interpolator linearly interpolates a two-column (wavelength, value)
// table sorted by wavelength.
type Interpolator struct {
	wavelengths []float64
	values      []float64
	policy      RangePolicy
}

// NewInterpolator builds an interpolator over the given table. The two
// columns must have equal length >= 2 and wavelengths must increase
// strictly.
func NewInterpolator(wavelengths, values []float64, policy RangePolicy) (*Interpolator, error) {
	if len(wavelengths) != len(values) {
		return nil, fmt.Errorf("spectral: column lengths differ (%d wavelengths, %d values)",
			len(wavelengths), len(values))
	}
	if len(wavelengths) < 2 {
		return nil, fmt.Errorf("spectral: at least two table rows are required, got %d", len(wavelengths))
	}
	for i := 1; i < len(wavelengths); i++ {
		if wavelengths[i] <= wavelengths[i-1] {
			return nil, fmt.Errorf("spectral: wavelengths must increase strictly, row %d does not", i)
		}
	}

	w := make([]float64, len(wavelengths))
	v := make([]float64, len(values))
	copy(w, wavelengths)
	copy(v, values)
	return &Interpolator{wavelengths: w, values: v, policy: policy}, nil
}

// Range returns the tabulated wavelength range.
func (ip *Interpolator) Range() (min, max float64) {
	return ip.wavelengths[0], ip.wavelengths[len(ip.wavelengths)-1]
}

// At evaluates the table at a single wavelength.
func (ip *Interpolator) At(wavelength float64) (float64, error) {
	n := len(ip.wavelengths)
	if wavelength <= ip.wavelengths[0] {
		if wavelength < ip.wavelengths[0] && ip.policy == Reject {
			return 0, fmt.Errorf("spectral: %g below table start %g: %w",
				wavelength, ip.wavelengths[0], ErrOutOfRange)
		}
		return ip.values[0], nil
	}
	if wavelength >= ip.wavelengths[n-1] {
		if wavelength > ip.wavelengths[n-1] && ip.policy == Reject {
			return 0, fmt.Errorf("spectral: %g above table end %g: %w",
				wavelength, ip.wavelengths[n-1], ErrOutOfRange)
		}
		return ip.values[n-1], nil
	}

	// First node strictly above the query point.
	hi := sort.SearchFloat64s(ip.wavelengths, wavelength)
	if ip.wavelengths[hi] == wavelength {
		return ip.values[hi], nil
	}
	lo := hi - 1
	t := (wavelength - ip.wavelengths[lo]) / (ip.wavelengths[hi] - ip.wavelengths[lo])
	return ip.values[lo] + t*(ip.values[hi]-ip.values[lo]), nil
}

// Eval implements Function. Out-of-range wavelengths under the Reject
// policy evaluate to the nearest edge value here; use At when the error
// matters.
func (ip *Interpolator) Eval(wavelength, temperature float64) float64 {
	v, err := ip.At(wavelength)
	if err != nil {
		if wavelength < ip.wavelengths[0] {
			return ip.values[0]
		}
		return ip.values[len(ip.values)-1]
	}
	return v
}

// Slice evaluates the table at every wavelength of the argument slice.
func (ip *Interpolator) Slice(wavelengths []float64) ([]float64, error) {
	out := make([]float64, len(wavelengths))
	for i, w := range wavelengths {
		v, err := ip.At(w)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}
