package config

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrConfiguration marks every failure caused by a bad pipeline or
	// multiplication description: unknown names, unknown parameters,
	// parameters of the wrong type or out of range.
	ErrConfiguration = errors.New("invalid configuration")

	// ErrUnknownName is returned together with ErrConfiguration when a step
	// names an algorithm or multiplier that is not registered.
	ErrUnknownName = errors.New("unknown")
)

// Errorf returns a configuration error. A %w verb in format keeps the
// wrapped error reachable through errors.Is / errors.As.
func Errorf(format string, args ...interface{}) error {
	return errors.WithStack(fmt.Errorf("%w: "+format, append([]interface{}{ErrConfiguration}, args...)...))
}

// Unknown returns the error for a name missing from a registry, kind being
// "algorithm" or "multiplier".
func Unknown(kind, name string) error {
	return errors.WithStack(fmt.Errorf("%w: %w %s %q", ErrConfiguration, ErrUnknownName, kind, name))
}
