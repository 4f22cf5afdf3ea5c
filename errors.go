package bvh

import (
	"github.com/aukilabs/go-tooling/pkg/errors"
)

// Error types attached to the errors returned by this package. Use
// errors.Type from go-tooling to inspect them.
const (
	ErrTypeNilArgument     = "bvh_nil_argument"
	ErrTypeInvalidArgument = "bvh_invalid_argument"
	ErrTypeOwnership       = "bvh_ownership"
)

func errNilArgument(name string) error {
	return errors.New(name + " is nil").
		WithType(ErrTypeNilArgument).
		WithTag("argument", name)
}

func errNegativeMax(max int) error {
	return errors.New("max must not be negative").
		WithType(ErrTypeInvalidArgument).
		WithTag("max", max)
}
