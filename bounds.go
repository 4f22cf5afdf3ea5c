package bvh

import (
	"fmt"

	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/golang/geo/r3"
	"github.com/google/uuid"
)

// Bounds is a mutable axis-aligned bounding box. Callers keep a single Bounds
// per object and mutate it as the object moves, then tell the tree about it
// with Tree.Update.
//
// A Bounds can be tracked by at most one tree at a time. Coordinates are
// always finite and min <= max on every axis: the mutating methods reject
// anything else and leave the Bounds unchanged.
type Bounds struct {
	box aabb

	// owner is the ID of the tree tracking this Bounds, or uuid.Nil.
	owner uuid.UUID
}

// NewBounds returns the box spanning [minX, maxX] x [minY, maxY] x [minZ, maxZ].
func NewBounds(minX, minY, minZ, maxX, maxY, maxZ float64) (*Bounds, error) {
	return NewBoundsFromPoints(
		Point{X: minX, Y: minY, Z: minZ},
		Point{X: maxX, Y: maxY, Z: maxZ},
	)
}

// NewBoundsFromPoints returns the box with the given min and max corners.
func NewBoundsFromPoints(min, max Point) (*Bounds, error) {
	b := aabb{min: min, max: max}
	if err := validateBox(b); err != nil {
		return nil, err
	}
	return &Bounds{box: b}, nil
}

// NewBoundsAround returns the smallest box containing all the given points.
func NewBoundsAround(p Point, others ...Point) (*Bounds, error) {
	b, err := NewBoundsFromPoints(p, p)
	if err != nil {
		return nil, err
	}
	for _, o := range others {
		if err := b.EncompassPoint(o); err != nil {
			return nil, err
		}
	}
	return b, nil
}

func validateBox(b aabb) error {
	if err := validatePoint(b.min); err != nil {
		return err
	}
	if err := validatePoint(b.max); err != nil {
		return err
	}
	if b.min.X > b.max.X || b.min.Y > b.max.Y || b.min.Z > b.max.Z {
		return errors.New("min must not be greater than max").
			WithType(ErrTypeInvalidArgument).
			WithTag("min", b.min.String()).
			WithTag("max", b.max.String())
	}
	return nil
}

// Min returns the min corner.
func (b *Bounds) Min() Point {
	return b.box.min
}

// Max returns the max corner.
func (b *Bounds) Max() Point {
	return b.box.max
}

func (b *Bounds) Center() Point {
	return b.box.min.Add(b.box.max).Mul(0.5)
}

// Size returns the extent of the box along each axis.
func (b *Bounds) Size() r3.Vector {
	return b.box.size()
}

func (b *Bounds) Volume() float64 {
	return b.box.volume()
}

func (b *Bounds) SurfaceArea() float64 {
	return b.box.surfaceArea()
}

// Set moves and resizes the box.
func (b *Bounds) Set(minX, minY, minZ, maxX, maxY, maxZ float64) error {
	return b.SetPoints(
		Point{X: minX, Y: minY, Z: minZ},
		Point{X: maxX, Y: maxY, Z: maxZ},
	)
}

// SetPoints moves and resizes the box to the given corners.
func (b *Bounds) SetPoints(min, max Point) error {
	return b.assign(aabb{min: min, max: max})
}

// Translate moves the box by d without resizing it.
func (b *Bounds) Translate(d r3.Vector) error {
	return b.assign(aabb{min: b.box.min.Add(d), max: b.box.max.Add(d)})
}

// Encompass grows the box minimally so that it contains o.
func (b *Bounds) Encompass(o *Bounds) error {
	if o == nil {
		return errNilArgument("bounds")
	}
	b.box = combine(b.box, o.box)
	return nil
}

// EncompassPoint grows the box minimally so that it contains p.
func (b *Bounds) EncompassPoint(p Point) error {
	if err := validatePoint(p); err != nil {
		return err
	}
	b.box = combine(b.box, aabb{min: p, max: p})
	return nil
}

func (b *Bounds) assign(box aabb) error {
	if err := validateBox(box); err != nil {
		return err
	}
	b.box = box
	return nil
}

// Contains reports whether o lies entirely inside b, faces included. A nil o
// is never contained.
func (b *Bounds) Contains(o *Bounds) bool {
	return o != nil && b.box.contains(o.box)
}

// ContainsPoint reports whether p lies inside b, faces included.
func (b *Bounds) ContainsPoint(p Point) bool {
	return b.box.containsPoint(p)
}

// Intersects reports whether b and o share at least one point. Touching faces
// count as an intersection.
func (b *Bounds) Intersects(o *Bounds) bool {
	return o != nil && b.box.intersects(o.box)
}

// Equal reports whether b and o span the same box. Ownership is ignored.
func (b *Bounds) Equal(o *Bounds) bool {
	if b == nil || o == nil {
		return b == o
	}
	return b.box == o.box
}

// Clone returns an untracked copy of b.
func (b *Bounds) Clone() *Bounds {
	return &Bounds{box: b.box}
}

func (b *Bounds) String() string {
	return fmt.Sprintf("[%v .. %v]", b.box.min, b.box.max)
}
