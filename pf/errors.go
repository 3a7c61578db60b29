package pf

import "errors"

// ErrUnknownFamily is returned when a dict names a scattering phase
// function family that has not been registered.
var ErrUnknownFamily = errors.New("unknown scattering phase function family")
