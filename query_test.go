package bvh

import (
	"math"
	"testing"

	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/stretchr/testify/require"
)

func TestBroadPhaseScenario(t *testing.T) {
	a := mustBounds(t, 0, 0, 0, 1, 1, 1)
	b := mustBounds(t, 10, 10, 10, 11, 11, 11)

	tr := New[string]()
	_, err := tr.Add(a, "A")
	require.NoError(t, err)
	_, err = tr.Add(b, "B")
	require.NoError(t, err)

	near := mustBounds(t, 0, 0, 0, 5, 5, 5)
	got, err := tr.AppendIntersections(nil, near, 10)
	require.NoError(t, err)
	require.Equal(t, []string{"A"}, got)

	got, err = tr.AppendContained(nil, mustBounds(t, -1, -1, -1, 20, 20, 20), 10)
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"A", "B"}, got)

	require.NoError(t, a.Set(100, 100, 100, 101, 101, 101))
	moved, err := tr.Update(a)
	require.NoError(t, err)
	require.True(t, moved)

	got, err = tr.AppendIntersections(nil, near, 10)
	require.NoError(t, err)
	require.Empty(t, got)
	checkInvariants(t, tr, true)
}

func TestQueryLimits(t *testing.T) {
	tr := New[int]()
	for i := 0; i < 20; i++ {
		x := float64(i)
		_, err := tr.Add(mustBounds(t, x, 0, 0, x+1, 1, 1), i)
		require.NoError(t, err)
	}
	area := mustBounds(t, -1, -1, -1, 100, 100, 100)

	t.Run("max caps the result", func(t *testing.T) {
		got, err := tr.AppendContained(nil, area, 5)
		require.NoError(t, err)
		require.Len(t, got, 5)

		got, err = tr.AppendIntersections([]int{-1}, area, 7)
		require.NoError(t, err)
		require.Len(t, got, 8)
		require.Equal(t, -1, got[0])

		got, err = tr.AppendIntersectionsAt(nil, Point{X: 3, Y: 0.5, Z: 0.5}, 1)
		require.NoError(t, err)
		require.Len(t, got, 1)
		require.Contains(t, []int{2, 3}, got[0])
	})

	t.Run("zero max", func(t *testing.T) {
		got, err := tr.AppendIntersections(nil, area, 0)
		require.NoError(t, err)
		require.Empty(t, got)

		n, err := tr.FillContained(make([]int, 4), area, 0)
		require.NoError(t, err)
		require.Zero(t, n)
	})

	t.Run("negative max", func(t *testing.T) {
		_, err := tr.AppendContained(nil, area, -1)
		require.Equal(t, ErrTypeInvalidArgument, errors.Type(err))
		_, err = tr.AppendIntersections(nil, area, -1)
		require.Equal(t, ErrTypeInvalidArgument, errors.Type(err))
		_, err = tr.AppendIntersectionsAt(nil, Point{}, -1)
		require.Equal(t, ErrTypeInvalidArgument, errors.Type(err))
		_, err = tr.FillIntersections(make([]int, 1), area, -1)
		require.Equal(t, ErrTypeInvalidArgument, errors.Type(err))
	})

	t.Run("nil arguments", func(t *testing.T) {
		_, err := tr.AppendContained(nil, nil, 1)
		require.Equal(t, ErrTypeNilArgument, errors.Type(err))
		_, err = tr.AppendIntersections(nil, nil, 1)
		require.Equal(t, ErrTypeNilArgument, errors.Type(err))
		_, err = tr.FillContained(nil, area, 1)
		require.Equal(t, ErrTypeNilArgument, errors.Type(err))
		_, err = tr.FillIntersections(make([]int, 1), nil, 1)
		require.Equal(t, ErrTypeNilArgument, errors.Type(err))
		_, err = tr.FillIntersectionsAt(nil, Point{}, 1)
		require.Equal(t, ErrTypeNilArgument, errors.Type(err))
		require.Equal(t, ErrTypeNilArgument, errors.Type(tr.VisitIntersections(nil, nil)))
	})

	t.Run("invalid point", func(t *testing.T) {
		_, err := tr.AppendIntersectionsAt(nil, Point{X: math.NaN()}, 1)
		require.Equal(t, ErrTypeInvalidArgument, errors.Type(err))
	})
}

func TestFill(t *testing.T) {
	tr := New[string]()
	for _, e := range []string{"a", "b", "c"} {
		_, err := tr.Add(mustBounds(t, 0, 0, 0, 1, 1, 1), e)
		require.NoError(t, err)
	}
	area := mustBounds(t, 0, 0, 0, 1, 1, 1)

	t.Run("trailing slots are cleared", func(t *testing.T) {
		dst := []string{"x", "x", "x", "x", "x"}
		n, err := tr.FillContained(dst, area, 10)
		require.NoError(t, err)
		require.Equal(t, 3, n)
		require.ElementsMatch(t, []string{"a", "b", "c"}, dst[:n])
		require.Equal(t, []string{"", ""}, dst[n:])
	})

	t.Run("capacity bounded by the slice", func(t *testing.T) {
		dst := make([]string, 2)
		n, err := tr.FillIntersections(dst, area, 10)
		require.NoError(t, err)
		require.Equal(t, 2, n)
		require.NotContains(t, dst, "")
	})

	t.Run("capacity bounded by max", func(t *testing.T) {
		dst := []string{"x", "x", "x"}
		n, err := tr.FillIntersectionsAt(dst, Point{X: 0.5, Y: 0.5, Z: 0.5}, 1)
		require.NoError(t, err)
		require.Equal(t, 1, n)
		require.NotEmpty(t, dst[0])
		require.Equal(t, []string{"", ""}, dst[1:])
	})
}

func TestQueryEmptyTree(t *testing.T) {
	var tr Tree[int]
	area := mustBounds(t, 0, 0, 0, 1, 1, 1)

	got, err := tr.AppendIntersections(nil, area, 10)
	require.NoError(t, err)
	require.Empty(t, got)

	dst := []int{7}
	n, err := tr.FillContained(dst, area, 10)
	require.NoError(t, err)
	require.Zero(t, n)
	require.Equal(t, []int{0}, dst)
}

func TestVisit(t *testing.T) {
	tr := New[int]()
	for i := 0; i < 10; i++ {
		x := float64(i)
		_, err := tr.Add(mustBounds(t, x, 0, 0, x+1, 1, 1), i)
		require.NoError(t, err)
	}

	var got []int
	err := tr.VisitContained(mustBounds(t, 2, 0, 0, 5, 1, 1), func(b *Bounds, e int) bool {
		got = append(got, e)
		return true
	})
	require.NoError(t, err)
	require.ElementsMatch(t, []int{2, 3, 4}, got)

	got = nil
	err = tr.VisitIntersections(mustBounds(t, 2, 0, 0, 5, 1, 1), func(b *Bounds, e int) bool {
		got = append(got, e)
		return len(got) < 2
	})
	require.NoError(t, err)
	require.Len(t, got, 2)
}
