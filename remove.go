package bvh

// Remove stops tracking b and returns the element it was tracked with. The
// boolean is false when b is not tracked by this tree.
func (t *Tree[E]) Remove(b *Bounds) (E, bool, error) {
	var zero E
	if b == nil {
		return zero, false, errNilArgument("bounds")
	}

	leaf, ok := t.leaves[b]
	if !ok {
		return zero, false, nil
	}

	t.removeLeaf(leaf)
	t.untrack(leaf)
	return leaf.elem, true, nil
}

// removeLeaf unlinks a leaf from the tree. Its parent is spliced out by
// promoting the sibling subtree, then the tree is refitted and rebalanced
// from the splice point.
func (t *Tree[E]) removeLeaf(leaf *node[E]) {
	parent := leaf.parent
	leaf.parent = nil
	if parent == nil {
		t.root = nil
		return
	}

	sibling := parent.sibling(leaf)
	t.replace(parent, sibling)
	parent.parent, parent.left, parent.right = nil, nil, nil

	t.rebalance(sibling.parent)
}
