package bvh

// Add starts tracking e under b. It returns false, without modifying the
// tree, when b is already tracked by this tree.
//
// Add fails when b or e is nil, and when b is tracked by another tree.
func (t *Tree[E]) Add(b *Bounds, e E) (bool, error) {
	if b == nil {
		return false, errNilArgument("bounds")
	}
	if isNil(e) {
		return false, errNilArgument("element")
	}
	if t.owns(b) {
		return false, nil
	}
	if err := t.checkLock(b); err != nil {
		return false, err
	}

	leaf := &node[E]{bounds: b, elem: e}
	t.insertLeaf(leaf)
	t.track(leaf)
	return true, nil
}

// insertLeaf links a detached leaf into the tree, pairing it with the leaf
// that grows least to admit it, then refits and rebalances up to the root.
func (t *Tree[E]) insertLeaf(leaf *node[E]) {
	leaf.parent = nil
	if t.root == nil {
		t.root = leaf
		return
	}

	sibling := t.chooseLeafNode(leaf.envelope())
	parent := &node[E]{
		left:  sibling,
		right: leaf,
	}
	t.replace(sibling, parent)
	sibling.parent = parent
	leaf.parent = parent

	t.rebalance(parent)
}

// chooseLeafNode descends from the root, at each level following the child
// whose envelope needs the smallest volume increase to admit bb.
func (t *Tree[E]) chooseLeafNode(bb aabb) *node[E] {
	n := t.root
	for !n.isLeaf() {
		leftVolume, leftSurface := enlargement(n.left.envelope(), bb)
		rightVolume, rightSurface := enlargement(n.right.envelope(), bb)
		if rightVolume < leftVolume || (rightVolume == leftVolume && rightSurface < leftSurface) {
			n = n.right
		} else {
			n = n.left
		}
	}
	return n
}

// replace puts repl where old is: under old's parent, or at the root.
func (t *Tree[E]) replace(old, repl *node[E]) {
	repl.parent = old.parent
	if old.parent == nil {
		t.root = repl
		return
	}
	old.parent.replaceChild(old, repl)
}
