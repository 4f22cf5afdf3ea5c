package bvh

import (
	"sort"

	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/aukilabs/go-tooling/pkg/logs"
	"github.com/golang/geo/r3"
)

// Item is a (bounds, element) pair that can be bulk loaded.
type Item[E comparable] struct {
	Bounds  *Bounds
	Element E
}

// BulkLoad bulk loads multiple items into a new tree. The bulk load operation
// is optimised for creating trees with minimal node overlap, which allows for
// fast searching, and produces a balanced tree without any rotation.
//
// No item is tracked when BulkLoad fails.
func BulkLoad[E comparable](items []Item[E]) (*Tree[E], error) {
	t := New[E]()

	leaves := make([]*node[E], len(items))
	seen := make(map[*Bounds]struct{}, len(items))
	for i, item := range items {
		switch {
		case item.Bounds == nil:
			return nil, errors.New("bounds is nil").
				WithType(ErrTypeNilArgument).
				WithTag("index", i)

		case isNil(item.Element):
			return nil, errors.New("element is nil").
				WithType(ErrTypeNilArgument).
				WithTag("index", i)
		}

		if err := t.checkLock(item.Bounds); err != nil {
			return nil, errors.New("bulk loading item failed").
				WithType(ErrTypeOwnership).
				WithTag("index", i).
				Wrap(err)
		}
		if _, ok := seen[item.Bounds]; ok {
			return nil, errors.New("bounds appears more than once").
				WithType(ErrTypeInvalidArgument).
				WithTag("index", i)
		}
		seen[item.Bounds] = struct{}{}

		leaves[i] = &node[E]{bounds: item.Bounds, elem: item.Element}
	}

	if len(leaves) != 0 {
		t.root = t.bulkInsert(leaves)
	}
	for _, leaf := range leaves {
		t.track(leaf)
	}

	logs.WithTag("tree_id", t.ID().String()).
		WithTag("tracked", t.Size()).
		WithTag("height", t.Height()).
		Debug("tree bulk loaded")
	return t, nil
}

// bulkInsert builds a subtree over leaves by splitting them at the median
// along the longest axis of their envelope. Both halves differ in size by at
// most one, so the subtree is height balanced.
func (t *Tree[E]) bulkInsert(leaves []*node[E]) *node[E] {
	if len(leaves) == 1 {
		return leaves[0]
	}

	bbox := leaves[0].envelope()
	for _, leaf := range leaves[1:] {
		bbox = combine(bbox, leaf.envelope())
	}

	axis := bbox.size().LargestComponent()
	sort.Slice(leaves, func(i, j int) bool {
		bi := leaves[i].envelope()
		bj := leaves[j].envelope()
		return component(bi.min, axis)+component(bi.max, axis) <
			component(bj.min, axis)+component(bj.max, axis)
	})

	split := len(leaves) / 2
	n1 := t.bulkInsert(leaves[:split])
	n2 := t.bulkInsert(leaves[split:])

	parent := &node[E]{left: n1, right: n2}
	n1.parent = parent
	n2.parent = parent
	parent.refit()
	return parent
}

func component(v r3.Vector, axis r3.Axis) float64 {
	switch axis {
	case r3.XAxis:
		return v.X
	case r3.YAxis:
		return v.Y
	default:
		return v.Z
	}
}
