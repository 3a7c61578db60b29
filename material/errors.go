package material

import "errors"

var (
	// ErrFamilyMismatch is returned when a phase function of a different
	// family would replace an established one, either on a single
	// material or across a stack.
	ErrFamilyMismatch = errors.New("scattering phase function family mismatch")

	// ErrEmptyStack is returned when a stack is constructed without any
	// materials.
	ErrEmptyStack = errors.New("at least one material is required")

	// ErrBadDict is returned when dict data cannot be turned back into a
	// material or stack.
	ErrBadDict = errors.New("malformed material dict data")
)
