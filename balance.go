package bvh

// rebalance walks from n up to the root. Each node on the way is refitted to
// its children and, when its subtrees differ in height by more than one,
// rotated back into balance.
func (t *Tree[E]) rebalance(n *node[E]) {
	for n != nil {
		n.refit()

		switch b := n.balance(); {
		case b > 1:
			if n.left.balance() < 0 {
				t.rotateLeft(n.left)
			}
			n = t.rotateRight(n)
		case b < -1:
			if n.right.balance() > 0 {
				t.rotateRight(n.right)
			}
			n = t.rotateLeft(n)
		}

		n = n.parent
	}
}

// rotateRight lifts the left child of n into its place and returns it.
//
//	    n            l
//	   / \          / \
//	  l   c   ->   a   n
//	 / \              / \
//	a   b            b   c
func (t *Tree[E]) rotateRight(n *node[E]) *node[E] {
	l := n.left
	t.replace(n, l)

	n.left = l.right
	n.left.parent = n
	l.right = n
	n.parent = l

	n.refit()
	l.refit()
	return l
}

// rotateLeft lifts the right child of n into its place and returns it.
//
//	  n                r
//	 / \              / \
//	a   r     ->     n   c
//	   / \          / \
//	  b   c        a   b
func (t *Tree[E]) rotateLeft(n *node[E]) *node[E] {
	r := n.right
	t.replace(n, r)

	n.right = r.left
	n.right.parent = n
	r.left = n
	n.parent = r

	n.refit()
	r.refit()
	return r
}
