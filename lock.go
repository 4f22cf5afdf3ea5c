package bvh

import (
	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/google/uuid"
)

// Locked reports whether b is currently tracked by a tree.
func (b *Bounds) Locked() bool {
	return b.owner != uuid.Nil
}

// ID returns the identifier the tree locks its Bounds with. It is assigned on
// first use so that the zero Tree is ready to use.
func (t *Tree[E]) ID() uuid.UUID {
	if t.id == uuid.Nil {
		t.id = uuid.New()
	}
	return t.id
}

func (t *Tree[E]) lock(b *Bounds) {
	b.owner = t.ID()
}

func (t *Tree[E]) unlock(b *Bounds) {
	b.owner = uuid.Nil
}

// owns reports whether b is locked by t.
func (t *Tree[E]) owns(b *Bounds) bool {
	return t.id != uuid.Nil && b.owner == t.id
}

// checkLock fails when b is locked by another tree.
func (t *Tree[E]) checkLock(b *Bounds) error {
	if b.owner == uuid.Nil || t.owns(b) {
		return nil
	}
	return errors.New("bounds is tracked by another tree").
		WithType(ErrTypeOwnership).
		WithTag("owner_id", b.owner.String()).
		WithTag("tree_id", t.ID().String())
}
