package bvh

import (
	"math"

	"github.com/golang/geo/r3"
)

// aabb is the value form of an axis-aligned box. Nodes cache their envelope
// as an aabb.
type aabb struct {
	min, max r3.Vector
}

// combine gives the smallest box containing both a and b.
func combine(a, b aabb) aabb {
	return aabb{
		min: r3.Vector{
			X: math.Min(a.min.X, b.min.X),
			Y: math.Min(a.min.Y, b.min.Y),
			Z: math.Min(a.min.Z, b.min.Z),
		},
		max: r3.Vector{
			X: math.Max(a.max.X, b.max.X),
			Y: math.Max(a.max.Y, b.max.Y),
			Z: math.Max(a.max.Z, b.max.Z),
		},
	}
}

// enlargement returns how much volume the existing box would have to grow by
// to accommodate the additional box. The surface area growth is returned as
// well, to tell apart candidates when boxes are flat.
func enlargement(existing, additional aabb) (volume, surface float64) {
	c := combine(existing, additional)
	return c.volume() - existing.volume(), c.surfaceArea() - existing.surfaceArea()
}

func (b aabb) size() r3.Vector {
	return b.max.Sub(b.min)
}

func (b aabb) volume() float64 {
	s := b.size()
	return s.X * s.Y * s.Z
}

func (b aabb) surfaceArea() float64 {
	s := b.size()
	return 2 * (s.X*s.Y + s.X*s.Z + s.Y*s.Z)
}

func (b aabb) contains(o aabb) bool {
	return b.min.X <= o.min.X && o.max.X <= b.max.X &&
		b.min.Y <= o.min.Y && o.max.Y <= b.max.Y &&
		b.min.Z <= o.min.Z && o.max.Z <= b.max.Z
}

func (b aabb) containsPoint(p r3.Vector) bool {
	return b.min.X <= p.X && p.X <= b.max.X &&
		b.min.Y <= p.Y && p.Y <= b.max.Y &&
		b.min.Z <= p.Z && p.Z <= b.max.Z
}

func (b aabb) intersects(o aabb) bool {
	return b.min.X <= o.max.X && b.max.X >= o.min.X &&
		b.min.Y <= o.max.Y && b.max.Y >= o.min.Y &&
		b.min.Z <= o.max.Z && b.max.Z >= o.min.Z
}
