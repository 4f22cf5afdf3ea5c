package bvh

import (
	"math"

	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/golang/geo/r3"
)

// Point is a location in 3D space. Point queries treat it as a box with zero
// extent.
type Point = r3.Vector

// NewPoint returns the point (x, y, z). It fails when a coordinate is NaN or
// infinite.
func NewPoint(x, y, z float64) (Point, error) {
	p := Point{X: x, Y: y, Z: z}
	if err := validatePoint(p); err != nil {
		return Point{}, err
	}
	return p, nil
}

func validatePoint(p Point) error {
	if !finite(p.X) || !finite(p.Y) || !finite(p.Z) {
		return errors.New("coordinates must be finite").
			WithType(ErrTypeInvalidArgument).
			WithTag("point", p.String())
	}
	return nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
