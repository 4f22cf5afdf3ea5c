package bvh

// node is a node in the hierarchy. Leaves hold a tracked Bounds and its
// element. Internal nodes always have two children and cache the union of
// their envelopes.
type node[E comparable] struct {
	// box is the cached envelope of an internal node. Leaves read their
	// Bounds directly so that they never go stale.
	box    aabb
	bounds *Bounds
	elem   E

	// parent is only used to walk up the tree; children are owned through
	// left and right.
	parent      *node[E]
	left, right *node[E]

	// height is 0 for leaves.
	height int
}

func (n *node[E]) isLeaf() bool {
	return n.bounds != nil
}

func (n *node[E]) envelope() aabb {
	if n.isLeaf() {
		return n.bounds.box
	}
	return n.box
}

// refit recomputes the envelope and height of an internal node from its
// children.
func (n *node[E]) refit() {
	n.box = combine(n.left.envelope(), n.right.envelope())
	n.height = 1 + max(n.left.height, n.right.height)
}

// balance returns the height of the left subtree minus the height of the
// right one.
func (n *node[E]) balance() int {
	if n.isLeaf() {
		return 0
	}
	return n.left.height - n.right.height
}

func (n *node[E]) sibling(child *node[E]) *node[E] {
	if n.left == child {
		return n.right
	}
	return n.left
}

func (n *node[E]) replaceChild(old, repl *node[E]) {
	if n.left == old {
		n.left = repl
	} else {
		n.right = repl
	}
}

// fits reports whether a leaf still lies inside the envelope its parent was
// last refitted to.
func (n *node[E]) fits() bool {
	return n.parent == nil || n.parent.box.contains(n.bounds.box)
}
