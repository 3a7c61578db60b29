// Package spectral models optical properties that vary with wavelength
// and temperature: tabulated absorption spectra, refractive index models
// and the constant-valued stand-ins used when a property does not vary.
package spectral

// Function evaluates an optical property at a wavelength (m) and
// temperature (K). Absorption models, refractive index models and the
// constant wrapper all satisfy this contract, which lets higher layers
// compose them without caring which one they hold.
type Function interface {
	Eval(wavelength, temperature float64) float64
}

// Constant is a Function that ignores wavelength and temperature.
type Constant float64

// Eval implements Function.
func (c Constant) Eval(wavelength, temperature float64) float64 {
	return float64(c)
}
