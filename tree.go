// Package bvh implements a dynamic bounding volume hierarchy: a height
// balanced binary tree of axis-aligned boxes used as a broad-phase spatial
// index for objects that are continuously created, moved and destroyed.
//
// Every element is tracked through a *Bounds owned by the caller. The caller
// moves an object by mutating its Bounds in place and then calling
// Tree.Update, which only restructures the tree when the Bounds left the
// envelope it was last fitted into.
//
// A Tree is not safe for concurrent use.
package bvh

import (
	"reflect"

	"github.com/google/uuid"
)

// Tree is a dynamic bounding volume hierarchy mapping tracked Bounds to
// elements. Its zero value is an empty tree.
type Tree[E comparable] struct {
	id     uuid.UUID
	root   *node[E]
	leaves map[*Bounds]*node[E]
}

// New returns an empty tree.
func New[E comparable]() *Tree[E] {
	return &Tree[E]{
		id:     uuid.New(),
		leaves: make(map[*Bounds]*node[E]),
	}
}

// Size returns the number of tracked (bounds, element) pairs.
func (t *Tree[E]) Size() int {
	return len(t.leaves)
}

// Height returns the height of the tree: 0 for a single element and -1 when
// the tree is empty.
func (t *Tree[E]) Height() int {
	if t.root == nil {
		return -1
	}
	return t.root.height
}

// Envelope returns an untracked copy of the box enclosing every element. The
// boolean is false when the tree is empty.
func (t *Tree[E]) Envelope() (*Bounds, bool) {
	if t.root == nil {
		return nil, false
	}
	return &Bounds{box: t.root.envelope()}, true
}

// Contains reports whether this exact Bounds is tracked by the tree.
func (t *Tree[E]) Contains(b *Bounds) bool {
	if b == nil || !t.owns(b) {
		return false
	}
	_, ok := t.leaves[b]
	return ok
}

// ContainsElement reports whether an element equal to e is tracked by the
// tree. It scans every element.
func (t *Tree[E]) ContainsElement(e E) bool {
	for _, leaf := range t.leaves {
		if leaf.elem == e {
			return true
		}
	}
	return false
}

// Each calls fn for every tracked pair until fn returns false. The tree must
// not be modified from fn.
func (t *Tree[E]) Each(fn func(b *Bounds, e E) bool) {
	t.walk(func(n *node[E]) bool {
		if n.isLeaf() {
			return fn(n.bounds, n.elem)
		}
		return true
	})
}

// Clear removes every element and unlocks every tracked Bounds.
func (t *Tree[E]) Clear() {
	for b := range t.leaves {
		t.unlock(b)
	}
	t.root = nil
	t.leaves = nil
}

// Stats describes the shape of a tree.
type Stats struct {
	Leaves int
	Nodes  int
	Height int
	Volume float64
}

// Stats walks the tree and reports its shape.
func (t *Tree[E]) Stats() Stats {
	s := Stats{Height: t.Height()}
	if t.root != nil {
		s.Volume = t.root.envelope().volume()
	}
	t.walk(func(n *node[E]) bool {
		s.Nodes++
		if n.isLeaf() {
			s.Leaves++
		}
		return true
	})
	return s
}

// walk visits nodes depth first, left to right, until fn returns false.
func (t *Tree[E]) walk(fn func(*node[E]) bool) {
	if t.root == nil {
		return
	}
	var recurse func(*node[E]) bool
	recurse = func(n *node[E]) bool {
		if !fn(n) {
			return false
		}
		if n.isLeaf() {
			return true
		}
		return recurse(n.left) && recurse(n.right)
	}
	recurse(t.root)
}

func (t *Tree[E]) track(leaf *node[E]) {
	if t.leaves == nil {
		t.leaves = make(map[*Bounds]*node[E])
	}
	t.leaves[leaf.bounds] = leaf
	t.lock(leaf.bounds)
}

func (t *Tree[E]) untrack(leaf *node[E]) {
	delete(t.leaves, leaf.bounds)
	t.unlock(leaf.bounds)
}

// isNil reports whether e is a nil interface or a nil pointer, channel or
// interface value.
func isNil[E comparable](e E) bool {
	v := reflect.ValueOf(&e).Elem()
	switch v.Kind() {
	case reflect.Pointer, reflect.Chan, reflect.Interface, reflect.UnsafePointer:
		return v.IsNil()
	}
	return false
}
