package bvh

import "hash/maphash"

var hashSeed = maphash.MakeSeed()

// pair is a tracked entry by value: the box of its Bounds, not the pointer.
type pair[E comparable] struct {
	box  aabb
	elem E
}

func (n *node[E]) pair() pair[E] {
	return pair[E]{box: n.bounds.box, elem: n.elem}
}

// Equal reports whether t and o track the same multiset of (bounds value,
// element) pairs, regardless of their shape, insertion order or Bounds
// identity. A nil tree is equal to an empty one.
//
// Equal panics if E is an interface type holding an incomparable value.
func (t *Tree[E]) Equal(o *Tree[E]) bool {
	if t == nil || o == nil {
		return t.empty() && o.empty()
	}
	if t.Size() != o.Size() {
		return false
	}

	counts := make(map[pair[E]]int, t.Size())
	for _, leaf := range t.leaves {
		counts[leaf.pair()]++
	}
	for _, leaf := range o.leaves {
		p := leaf.pair()
		if counts[p] == 0 {
			return false
		}
		counts[p]--
	}
	return true
}

// Hash returns a hash of the tracked pairs that does not depend on insertion
// order. Trees that are Equal have the same hash within a process.
func (t *Tree[E]) Hash() uint64 {
	var h uint64
	for _, leaf := range t.leaves {
		h += maphash.Comparable(hashSeed, leaf.pair())
	}
	return h
}

func (t *Tree[E]) empty() bool {
	return t == nil || t.Size() == 0
}
