// Package world owns the simulation space and converts variable frame time
// into a bounded number of fixed-size physics steps. One World exclusively
// owns one cp.Space for its whole lifetime.
package world

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/jakecoffman/cp"

	"github.com/solthas/platsim/internal/config"
	"github.com/solthas/platsim/internal/event"
)

// Collision types let handlers tell terrain, platforms, actors and loose
// dynamic bodies apart.
const (
	TypeTerrain cp.CollisionType = iota + 1
	TypePlatform
	TypeActor
	TypeDynamic
)

// TagShape assigns a shape its collision type and mirrors it into UserData.
// The engine exposes no getter for the type, so readers go through
// ShapeType.
func TagShape(s *cp.Shape, t cp.CollisionType) {
	s.SetCollisionType(t)
	s.UserData = t
}

// ShapeType reports the collision type a shape was tagged with, or zero for
// shapes built elsewhere.
func ShapeType(s *cp.Shape) cp.CollisionType {
	if t, ok := s.UserData.(cp.CollisionType); ok {
		return t
	}
	return 0
}

type World struct {
	space *cp.Space
	bus   *event.Bus

	fixedDt       float64
	maxFrameDelta float64
	maxSteps      int
	accumulator   float64

	// stepFn is the engine step call; a seam so tests can make it fail.
	stepFn func(dt float64)

	contacts   []event.ContactStarted
	movers     []*mover
	breakables map[*cp.Shape]*breakable
}

type mover struct {
	body     *cp.Body
	from, to cp.Vector
	speed    float64
}

type breakable struct {
	shape     *cp.Shape
	center    cp.Vector
	remaining int
}

func New(cfg config.WorldConfig, bus *event.Bus) (*World, error) {
	if cfg.FixedDt <= 0 {
		return nil, fmt.Errorf("%w: fixed dt %f", ErrInit, cfg.FixedDt)
	}
	if cfg.MaxSteps < 1 {
		return nil, fmt.Errorf("%w: max steps %d", ErrInit, cfg.MaxSteps)
	}
	if cfg.MaxFrameDelta < cfg.FixedDt || cfg.MaxFrameDelta > float64(cfg.MaxSteps)*cfg.FixedDt {
		// Outside this range either no step ever runs or a single frame
		// can leave more than one step of debt in the accumulator.
		return nil, fmt.Errorf("%w: max frame delta %f incompatible with dt %f x %d steps",
			ErrInit, cfg.MaxFrameDelta, cfg.FixedDt, cfg.MaxSteps)
	}

	space := cp.NewSpace()
	// Downward-positive convention: gravity pulls toward +y. Only loose
	// dynamic bodies feel it; actor bodies are kinematic.
	space.SetGravity(cp.Vector{X: 0, Y: cfg.Gravity})

	w := &World{
		space:         space,
		bus:           bus,
		fixedDt:       cfg.FixedDt,
		maxFrameDelta: cfg.MaxFrameDelta,
		maxSteps:      cfg.MaxSteps,
		breakables:    make(map[*cp.Shape]*breakable),
	}
	w.stepFn = space.Step

	handler := space.NewWildcardCollisionHandler(TypeDynamic)
	handler.BeginFunc = func(arb *cp.Arbiter, _ *cp.Space, _ interface{}) bool {
		a, b := arb.Shapes()
		w.contacts = append(w.contacts, event.ContactStarted{
			A: uint(ShapeType(a)),
			B: uint(ShapeType(b)),
		})
		return true
	}

	return w, nil
}

// Space exposes the owned space for controllers and queries. Callers must not
// step it themselves.
func (w *World) Space() *cp.Space { return w.space }

func (w *World) FixedDt() float64 { return w.fixedDt }

// Accumulator returns the unconsumed simulation time, for tests and debug
// overlays.
func (w *World) Accumulator() float64 { return w.accumulator }

// Step advances the simulation by frameDelta seconds of wall time, running
// zero or more fixed-size sub-steps. It returns the clamped frame delta that
// entered the accumulator. On a step failure the accumulator keeps the
// unconsumed time: simulated time is delayed, never silently lost.
func (w *World) Step(frameDelta float64) (float64, error) {
	if math.IsNaN(frameDelta) || frameDelta < 0 {
		frameDelta = 0
	}
	if frameDelta > w.maxFrameDelta {
		frameDelta = w.maxFrameDelta
	}
	w.accumulator += frameDelta

	steps := 0
	for w.accumulator >= w.fixedDt && steps < w.maxSteps {
		if err := w.stepOnce(); err != nil {
			return frameDelta, err
		}
		w.accumulator -= w.fixedDt
		steps++
	}

	w.drainContacts()
	return frameDelta, nil
}

func (w *World) stepOnce() (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &StepError{Reason: r}
		}
	}()

	for _, m := range w.movers {
		m.advance(w.fixedDt)
	}
	w.stepFn(w.fixedDt)
	return nil
}

func (w *World) drainContacts() {
	for _, c := range w.contacts {
		w.bus.Publish(event.EventContactStarted, c)
	}
	w.contacts = w.contacts[:0]
}

// advance retargets the platform's velocity; the engine integrates kinematic
// positions during the step.
func (m *mover) advance(dt float64) {
	pos := m.body.Position()
	dir := m.to.Sub(pos)
	if dir.Length() <= m.speed*dt {
		m.body.SetPosition(m.to)
		m.from, m.to = m.to, m.from
		dir = m.to.Sub(m.body.Position())
	}
	if dir.Length() == 0 {
		m.body.SetVelocityVector(cp.Vector{})
		return
	}
	m.body.SetVelocityVector(dir.Normalize().Mult(m.speed))
}

// RegisterLanding tells the world an actor landed on the given ground shape.
// Breakable platforms consume one landing each; a depleted platform is
// removed and announced.
func (w *World) RegisterLanding(shape *cp.Shape) {
	b, ok := w.breakables[shape]
	if !ok {
		return
	}
	b.remaining--
	if b.remaining > 0 {
		return
	}
	w.space.RemoveShape(shape)
	delete(w.breakables, shape)
	w.bus.Publish(event.EventPlatformBroken, event.PlatformBroken{Position: b.center})
	slog.Debug("breakable platform removed", "x", b.center.X, "y", b.center.Y)
}

// Close releases the world. Handles derived from the space are invalid
// afterwards.
func (w *World) Close() {
	w.space = nil
	w.stepFn = func(float64) { panic("world: stepped after close") }
}
