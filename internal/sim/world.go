// Package sim moves bodies around a cubic world and keeps a bvh.Tree in sync
// with them, the way a physics step would: bodies are added on spawn, updated
// once per step and removed on despawn, and every step runs a broad phase and
// a visibility query against the tree.
package sim

import (
	"math"
	"math/rand"
	"time"

	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/golang/geo/r3"
	"github.com/peterstace/bvh"
)

const (
	ErrTypeInvalidConfig = "sim_invalid_config"
	ErrTypeTree          = "sim_tree"
)

// Config describes the world.
type Config struct {
	// The number of bodies alive at any time.
	Bodies int

	// The edge of the cube bodies live in. Bodies bounce on its faces.
	WorldSize float64

	// The maximum body speed on each axis, in world units per step.
	MaxSpeed float64

	// The maximum body edge length.
	MaxBodySize float64

	// The fraction of bodies despawned and respawned on each step.
	Churn float64

	// The maximum number of candidates a body gathers in the broad phase. 0
	// means no limit.
	QueryLimit int

	Seed int64
}

func (c Config) validate() error {
	switch {
	case c.Bodies < 0:
		return errors.New("bodies must not be negative").
			WithType(ErrTypeInvalidConfig).
			WithTag("bodies", c.Bodies)

	case !(c.WorldSize > 0) || math.IsInf(c.WorldSize, 0):
		return errors.New("world size must be positive and finite").
			WithType(ErrTypeInvalidConfig).
			WithTag("world_size", c.WorldSize)

	case !(c.MaxSpeed >= 0) || math.IsInf(c.MaxSpeed, 0):
		return errors.New("max speed must not be negative").
			WithType(ErrTypeInvalidConfig).
			WithTag("max_speed", c.MaxSpeed)

	case !(c.MaxBodySize > 0) || c.MaxBodySize > c.WorldSize:
		return errors.New("max body size must be positive and fit in the world").
			WithType(ErrTypeInvalidConfig).
			WithTag("max_body_size", c.MaxBodySize).
			WithTag("world_size", c.WorldSize)

	case !(c.Churn >= 0 && c.Churn <= 1):
		return errors.New("churn must be between 0 and 1").
			WithType(ErrTypeInvalidConfig).
			WithTag("churn", c.Churn)

	case c.QueryLimit < 0:
		return errors.New("query limit must not be negative").
			WithType(ErrTypeInvalidConfig).
			WithTag("query_limit", c.QueryLimit)
	}
	return nil
}

// Body is a moving box.
type Body struct {
	ID       int
	Bounds   *bvh.Bounds
	Velocity r3.Vector
}

// StepStats is what happened during one or more steps.
type StepStats struct {
	Steps          int           `json:"steps"`
	Reinserted     int           `json:"reinserted"`
	Spawned        int           `json:"spawned"`
	Despawned      int           `json:"despawned"`
	CandidatePairs int           `json:"candidate_pairs"`
	Visible        int           `json:"visible"`
	Picked         int           `json:"picked"`
	Duration       time.Duration `json:"duration"`
}

func (s *StepStats) add(o StepStats) {
	s.Steps += o.Steps
	s.Reinserted += o.Reinserted
	s.Spawned += o.Spawned
	s.Despawned += o.Despawned
	s.CandidatePairs += o.CandidatePairs
	s.Visible += o.Visible
	s.Picked += o.Picked
	s.Duration += o.Duration
}

// World is a set of bodies indexed by a bvh.Tree. It is not safe for
// concurrent use.
type World struct {
	conf   Config
	rnd    *rand.Rand
	tree   *bvh.Tree[*Body]
	bodies []*Body
	nextID int
	totals StepStats

	candidates []*Body
	picked     []*Body
}

// NewWorld spawns conf.Bodies bodies at random and bulk loads them into a new
// tree.
func NewWorld(conf Config) (*World, error) {
	if err := conf.validate(); err != nil {
		return nil, err
	}

	w := &World{
		conf:   conf,
		rnd:    rand.New(rand.NewSource(conf.Seed)),
		bodies: make([]*Body, 0, conf.Bodies),
	}

	items := make([]bvh.Item[*Body], conf.Bodies)
	for i := range items {
		b, err := w.newBody()
		if err != nil {
			return nil, err
		}
		w.bodies = append(w.bodies, b)
		items[i] = bvh.Item[*Body]{Bounds: b.Bounds, Element: b}
	}

	tree, err := bvh.BulkLoad(items)
	if err != nil {
		return nil, errors.New("loading bodies failed").
			WithType(ErrTypeTree).
			Wrap(err)
	}
	w.tree = tree

	instrumentTree(tree)
	return w, nil
}

// Tree returns the tree indexing the bodies.
func (w *World) Tree() *bvh.Tree[*Body] {
	return w.tree
}

// Bodies returns the bodies alive in the world. The slice is only valid
// until the next step.
func (w *World) Bodies() []*Body {
	return w.bodies
}

// Totals returns the sum of the stats of every step run so far.
func (w *World) Totals() StepStats {
	return w.totals
}

// Step moves every body, replaces the churned ones and runs the queries.
func (w *World) Step() (StepStats, error) {
	start := time.Now()
	stats := StepStats{Steps: 1}

	reinserted, err := w.move()
	if err != nil {
		return stats, err
	}
	stats.Reinserted = reinserted

	churned, err := w.churn()
	if err != nil {
		return stats, err
	}
	stats.Spawned = churned
	stats.Despawned = churned

	pairs, err := w.BroadPhase(func(a, b *Body) {})
	if err != nil {
		return stats, err
	}
	stats.CandidatePairs = pairs

	visible, picked, err := w.look()
	if err != nil {
		return stats, err
	}
	stats.Visible = visible
	stats.Picked = picked

	stats.Duration = time.Since(start)
	w.totals.add(stats)

	instrumentStep(stats)
	instrumentTree(w.tree)
	return stats, nil
}

func (w *World) move() (int, error) {
	reinserted := 0
	for _, b := range w.bodies {
		if err := b.Bounds.Translate(b.Velocity); err != nil {
			return reinserted, errors.New("moving body failed").
				WithType(ErrTypeTree).
				WithTag("body_id", b.ID).
				Wrap(err)
		}
		w.bounce(b)

		moved, err := w.tree.Update(b.Bounds)
		if err != nil {
			return reinserted, errors.New("updating body failed").
				WithType(ErrTypeTree).
				WithTag("body_id", b.ID).
				Wrap(err)
		}
		if moved {
			reinserted++
		}
	}
	return reinserted, nil
}

// bounce turns a body back when it crosses a face of the world.
func (w *World) bounce(b *Body) {
	min, max := b.Bounds.Min(), b.Bounds.Max()
	if (min.X < 0 && b.Velocity.X < 0) || (max.X > w.conf.WorldSize && b.Velocity.X > 0) {
		b.Velocity.X = -b.Velocity.X
	}
	if (min.Y < 0 && b.Velocity.Y < 0) || (max.Y > w.conf.WorldSize && b.Velocity.Y > 0) {
		b.Velocity.Y = -b.Velocity.Y
	}
	if (min.Z < 0 && b.Velocity.Z < 0) || (max.Z > w.conf.WorldSize && b.Velocity.Z > 0) {
		b.Velocity.Z = -b.Velocity.Z
	}
}

func (w *World) churn() (int, error) {
	if len(w.bodies) == 0 {
		return 0, nil
	}

	n := w.conf.Churn * float64(len(w.bodies))
	count := int(n)
	if w.rnd.Float64() < n-float64(count) {
		count++
	}

	for i := 0; i < count; i++ {
		if err := w.despawn(w.rnd.Intn(len(w.bodies))); err != nil {
			return i, err
		}
		if err := w.spawn(); err != nil {
			return i, err
		}
	}
	return count, nil
}

func (w *World) spawn() error {
	b, err := w.newBody()
	if err != nil {
		return err
	}
	if _, err := w.tree.Add(b.Bounds, b); err != nil {
		return errors.New("spawning body failed").
			WithType(ErrTypeTree).
			WithTag("body_id", b.ID).
			Wrap(err)
	}
	w.bodies = append(w.bodies, b)
	instrumentChurn(spawnOp)
	return nil
}

func (w *World) despawn(i int) error {
	b := w.bodies[i]
	if _, _, err := w.tree.Remove(b.Bounds); err != nil {
		return errors.New("despawning body failed").
			WithType(ErrTypeTree).
			WithTag("body_id", b.ID).
			Wrap(err)
	}

	last := len(w.bodies) - 1
	w.bodies[i] = w.bodies[last]
	w.bodies[last] = nil
	w.bodies = w.bodies[:last]
	instrumentChurn(despawnOp)
	return nil
}

func (w *World) newBody() (*Body, error) {
	var size, pos, vel r3.Vector
	size.X = w.randomSize()
	size.Y = w.randomSize()
	size.Z = w.randomSize()
	pos.X = w.rnd.Float64() * (w.conf.WorldSize - size.X)
	pos.Y = w.rnd.Float64() * (w.conf.WorldSize - size.Y)
	pos.Z = w.rnd.Float64() * (w.conf.WorldSize - size.Z)
	vel.X = (w.rnd.Float64()*2 - 1) * w.conf.MaxSpeed
	vel.Y = (w.rnd.Float64()*2 - 1) * w.conf.MaxSpeed
	vel.Z = (w.rnd.Float64()*2 - 1) * w.conf.MaxSpeed

	bounds, err := bvh.NewBoundsFromPoints(pos, pos.Add(size))
	if err != nil {
		return nil, errors.New("creating body bounds failed").
			WithType(ErrTypeTree).
			Wrap(err)
	}

	w.nextID++
	return &Body{
		ID:       w.nextID,
		Bounds:   bounds,
		Velocity: vel,
	}, nil
}

func (w *World) randomSize() float64 {
	return w.conf.MaxBodySize * (0.1 + 0.9*w.rnd.Float64())
}

// BroadPhase calls fn once for each pair of bodies whose bounds intersect,
// with a.ID < b.ID, and returns the number of pairs. Each body gathers at
// most QueryLimit candidates besides itself, so pairs can be missed when the
// limit is set.
func (w *World) BroadPhase(fn func(a, b *Body)) (int, error) {
	limit := w.queryLimit() + 1

	pairs := 0
	for _, a := range w.bodies {
		var err error
		w.candidates, err = w.tree.AppendIntersections(w.candidates[:0], a.Bounds, limit)
		if err != nil {
			instrumentQueryError(broadPhaseQuery, err)
			return pairs, errors.New("broad phase query failed").
				WithType(ErrTypeTree).
				WithTag("body_id", a.ID).
				Wrap(err)
		}

		for _, b := range w.candidates {
			if a.ID < b.ID {
				fn(a, b)
				pairs++
			}
		}
		instrumentQuery(broadPhaseQuery, len(w.candidates)-1)
	}
	return pairs, nil
}

func (w *World) queryLimit() int {
	if w.conf.QueryLimit == 0 {
		return w.tree.Size()
	}
	return w.conf.QueryLimit
}

// Camera returns the view volume looked at on the current step: a cube with
// a quarter of the world edge orbiting the world center.
func (w *World) Camera() (*bvh.Bounds, error) {
	size := w.conf.WorldSize
	angle := float64(w.totals.Steps) * 0.01
	center := r3.Vector{
		X: size/2 + math.Cos(angle)*size/4,
		Y: size / 2,
		Z: size/2 + math.Sin(angle)*size/4,
	}
	half := r3.Vector{X: size / 8, Y: size / 8, Z: size / 8}
	return bvh.NewBoundsFromPoints(center.Sub(half), center.Add(half))
}

// look counts the bodies inside the camera and the ones under its center.
func (w *World) look() (visible, picked int, err error) {
	camera, err := w.Camera()
	if err != nil {
		return 0, 0, errors.New("creating camera failed").
			WithType(ErrTypeTree).
			Wrap(err)
	}

	err = w.tree.VisitIntersections(camera, func(*bvh.Bounds, *Body) bool {
		visible++
		return true
	})
	if err != nil {
		instrumentQueryError(visibilityQuery, err)
		return 0, 0, errors.New("visibility query failed").
			WithType(ErrTypeTree).
			Wrap(err)
	}
	instrumentQuery(visibilityQuery, visible)

	w.picked, err = w.tree.AppendIntersectionsAt(w.picked[:0], camera.Center(), w.queryLimit())
	if err != nil {
		instrumentQueryError(pickQuery, err)
		return 0, 0, errors.New("pick query failed").
			WithType(ErrTypeTree).
			Wrap(err)
	}
	instrumentQuery(pickQuery, len(w.picked))
	return visible, len(w.picked), nil
}
