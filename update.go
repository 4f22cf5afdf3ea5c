package bvh

import (
	"github.com/aukilabs/go-tooling/pkg/logs"
)

// Update repositions b after the caller mutated it. When b still fits in the
// envelope its parent was last fitted to, nothing changes and false is
// returned. Otherwise the element is removed and inserted again with the
// current extents of b, and true is returned.
//
// Update returns false when b is not tracked by this tree.
func (t *Tree[E]) Update(b *Bounds) (bool, error) {
	if b == nil {
		return false, errNilArgument("bounds")
	}

	leaf, ok := t.leaves[b]
	if !ok || leaf.fits() {
		return false, nil
	}

	t.reinsert(leaf)
	return true, nil
}

// UpdateAll runs Update on every tracked Bounds and reports whether at least
// one of them had to be repositioned.
func (t *Tree[E]) UpdateAll() bool {
	var moved []*node[E]
	t.walk(func(n *node[E]) bool {
		if n.isLeaf() && !n.fits() {
			moved = append(moved, n)
		}
		return true
	})

	for _, leaf := range moved {
		t.reinsert(leaf)
	}

	if len(moved) != 0 {
		logs.WithTag("tree_id", t.ID().String()).
			WithTag("tracked", t.Size()).
			WithTag("reinserted", len(moved)).
			Debug("tree updated")
	}
	return len(moved) != 0
}

func (t *Tree[E]) reinsert(leaf *node[E]) {
	t.removeLeaf(leaf)
	t.insertLeaf(leaf)
}
