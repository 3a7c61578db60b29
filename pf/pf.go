// Package pf implements the scattering phase function models used by the
// Monte Carlo kernels. Each model derives closed-form sampling constants
// from its shape parameters, packs them into a fixed device record and
// contributes the OpenCL declaration/implementation text for the kernel
// source assembly.
package pf

import (
	"fmt"
	"math"

	"github.com/photomc/photomc/cltypes"
)

// PhaseFunction is implemented by every scattering phase function family.
// All materials of one sample must share a single family; the kernel is
// compiled against exactly one McPf record type.
type PhaseFunction interface {
	cltypes.Packable

	// Family returns the discriminator string of the concrete family,
	// e.g. "Gk". Two phase functions belong to the same family iff
	// their Family values are equal.
	Family() string

	// SampleCosTheta transforms one uniform draw from [0, 1) into the
	// cosine of the polar scattering angle. The result is clipped into
	// [-1, 1] to guard against floating-point overshoot.
	SampleCosTheta(u float64) float64

	// Declaration returns the OpenCL declaration of the family's record
	// type and debug hooks.
	Declaration() string

	// Implementation returns the OpenCL sampling routine of the family.
	Implementation() string

	// ToDict exports the construction parameters together with a "type"
	// discriminator.
	ToDict() map[string]interface{}
}

// SampleAzimuth transforms one uniform draw from [0, 1) into an azimuthal
// scattering angle, uniformly distributed in [0, 2*pi). Every scattering
// event consumes two independent draws: one for the polar cosine and one
// for the azimuth.
func SampleAzimuth(u float64) float64 {
	return 2 * math.Pi * u
}

// clip limits x to the [low, high] interval.
func clip(x, low, high float64) float64 {
	if x < low {
		return low
	}
	if x > high {
		return high
	}
	return x
}

// FromDictFunc reconstructs a phase function from its dict form.
type FromDictFunc func(data map[string]interface{}) (PhaseFunction, error)

var registry = map[string]FromDictFunc{}

// Register adds a family to the deserialization registry. Called from the
// init functions of the concrete families.
func Register(family string, fn FromDictFunc) {
	registry[family] = fn
}

// FromDict reconstructs a phase function from a dict produced by ToDict.
// The "type" discriminator must name a registered family.
func FromDict(data map[string]interface{}) (PhaseFunction, error) {
	name, ok := data["type"].(string)
	if !ok {
		return nil, fmt.Errorf("pf: missing type discriminator: %w", ErrUnknownFamily)
	}
	fn, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("pf: scattering phase function %q not implemented: %w",
			name, ErrUnknownFamily)
	}
	return fn(data)
}

// dictFloat extracts a numeric dict entry.
func dictFloat(data map[string]interface{}, key string) (float64, error) {
	switch v := data[key].(type) {
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	case int:
		return float64(v), nil
	default:
		return 0, fmt.Errorf("pf: dict entry %q is not a number", key)
	}
}
