package bvh

// AppendContained appends to dst up to max elements whose Bounds lie entirely
// inside area, and returns the extended slice.
func (t *Tree[E]) AppendContained(dst []E, area *Bounds, max int) ([]E, error) {
	if err := checkQuery(area, max); err != nil {
		return dst, err
	}
	q := area.box
	return t.appendMatches(dst, q, q.contains, max), nil
}

// AppendIntersections appends to dst up to max elements whose Bounds
// intersect area, and returns the extended slice.
func (t *Tree[E]) AppendIntersections(dst []E, area *Bounds, max int) ([]E, error) {
	if err := checkQuery(area, max); err != nil {
		return dst, err
	}
	q := area.box
	return t.appendMatches(dst, q, q.intersects, max), nil
}

// AppendIntersectionsAt appends to dst up to max elements whose Bounds
// contain p, and returns the extended slice.
func (t *Tree[E]) AppendIntersectionsAt(dst []E, p Point, max int) ([]E, error) {
	if err := checkPointQuery(p, max); err != nil {
		return dst, err
	}
	return t.appendMatches(dst, aabb{min: p, max: p}, containing(p), max), nil
}

// FillContained writes into dst up to max elements whose Bounds lie entirely
// inside area. No more than len(dst) elements are written and the unused
// tail of dst is zeroed. It returns the number of elements written.
func (t *Tree[E]) FillContained(dst []E, area *Bounds, max int) (int, error) {
	if dst == nil {
		return 0, errNilArgument("container")
	}
	if err := checkQuery(area, max); err != nil {
		return 0, err
	}
	q := area.box
	return t.fillMatches(dst, q, q.contains, max), nil
}

// FillIntersections writes into dst up to max elements whose Bounds intersect
// area, like FillContained.
func (t *Tree[E]) FillIntersections(dst []E, area *Bounds, max int) (int, error) {
	if dst == nil {
		return 0, errNilArgument("container")
	}
	if err := checkQuery(area, max); err != nil {
		return 0, err
	}
	q := area.box
	return t.fillMatches(dst, q, q.intersects, max), nil
}

// FillIntersectionsAt writes into dst up to max elements whose Bounds contain
// p, like FillContained.
func (t *Tree[E]) FillIntersectionsAt(dst []E, p Point, max int) (int, error) {
	if dst == nil {
		return 0, errNilArgument("container")
	}
	if err := checkPointQuery(p, max); err != nil {
		return 0, err
	}
	return t.fillMatches(dst, aabb{min: p, max: p}, containing(p), max), nil
}

// VisitContained calls fn for each tracked pair whose Bounds lie entirely
// inside area, until fn returns false. The tree must not be modified from fn.
func (t *Tree[E]) VisitContained(area *Bounds, fn func(b *Bounds, e E) bool) error {
	if err := checkQuery(area, 0); err != nil {
		return err
	}
	q := area.box
	t.search(q, q.contains, visitor(fn))
	return nil
}

// VisitIntersections calls fn for each tracked pair whose Bounds intersect
// area, until fn returns false. The tree must not be modified from fn.
func (t *Tree[E]) VisitIntersections(area *Bounds, fn func(b *Bounds, e E) bool) error {
	if err := checkQuery(area, 0); err != nil {
		return err
	}
	q := area.box
	t.search(q, q.intersects, visitor(fn))
	return nil
}

func checkQuery(area *Bounds, max int) error {
	if area == nil {
		return errNilArgument("area")
	}
	if max < 0 {
		return errNegativeMax(max)
	}
	return nil
}

func checkPointQuery(p Point, max int) error {
	if err := validatePoint(p); err != nil {
		return err
	}
	if max < 0 {
		return errNegativeMax(max)
	}
	return nil
}

func containing(p Point) func(aabb) bool {
	return func(b aabb) bool {
		return b.containsPoint(p)
	}
}

func visitor[E comparable](fn func(*Bounds, E) bool) func(*node[E]) bool {
	return func(n *node[E]) bool {
		return fn(n.bounds, n.elem)
	}
}

func (t *Tree[E]) appendMatches(dst []E, query aabb, match func(aabb) bool, max int) []E {
	if max == 0 {
		return dst
	}
	var found int
	t.search(query, match, func(n *node[E]) bool {
		dst = append(dst, n.elem)
		found++
		return found < max
	})
	return dst
}

func (t *Tree[E]) fillMatches(dst []E, query aabb, match func(aabb) bool, max int) int {
	n := len(t.appendMatches(dst[:0], query, match, min(max, len(dst))))
	clear(dst[n:])
	return n
}

// search looks for leaves matching the query. Subtrees whose envelope does
// not intersect the query box are skipped. The callback is called with each
// matching leaf, and the search stops as soon as it returns false.
func (t *Tree[E]) search(query aabb, match func(aabb) bool, callback func(*node[E]) bool) {
	if t.root == nil {
		return
	}
	var recurse func(*node[E]) bool
	recurse = func(n *node[E]) bool {
		if !n.envelope().intersects(query) {
			return true
		}
		if n.isLeaf() {
			if match(n.bounds.box) {
				return callback(n)
			}
			return true
		}
		return recurse(n.left) && recurse(n.right)
	}
	recurse(t.root)
}
