package world

import (
	"fmt"

	"github.com/jakecoffman/cp"

	"github.com/solthas/platsim/internal/collision"
)

// PlatformKind tags the level-object variants. Dispatch happens through one
// builder table, not scattered type checks.
type PlatformKind int

const (
	KindStatic PlatformKind = iota
	KindMoving
	KindBreakable
	KindDynamic
)

func (k PlatformKind) String() string {
	switch k {
	case KindStatic:
		return "static"
	case KindMoving:
		return "moving"
	case KindBreakable:
		return "breakable"
	case KindDynamic:
		return "dynamic"
	}
	return fmt.Sprintf("PlatformKind(%d)", int(k))
}

// PlatformSpec describes one level object in meters. Geometry is always a
// box: the capsule sweep relies on polygon colliders (segment-vs-segment
// contacts are not generated by the engine).
type PlatformSpec struct {
	Kind         PlatformKind
	Center       cp.Vector
	HalfW, HalfH float64

	// Moving platforms patrol Center <-> To at Speed m/s.
	To    cp.Vector
	Speed float64

	// Breakable platforms survive Hits landings.
	Hits int

	// Dynamic obstacles get a real solver-driven body.
	Mass float64
}

var builders = map[PlatformKind]func(w *World, spec PlatformSpec) error{
	KindStatic:    buildStatic,
	KindMoving:    buildMoving,
	KindBreakable: buildBreakable,
	KindDynamic:   buildDynamic,
}

// Build inserts level geometry into the space. Colliders carry encoded
// collision groups; the motion system only cares that they exist.
func (w *World) Build(specs []PlatformSpec) error {
	for i, spec := range specs {
		build, ok := builders[spec.Kind]
		if !ok {
			return fmt.Errorf("%w: unknown platform kind %d at index %d", ErrInit, spec.Kind, i)
		}
		if err := build(w, spec); err != nil {
			return err
		}
	}
	return nil
}

func boxAround(center cp.Vector, halfW, halfH float64) cp.BB {
	return cp.BB{
		L: center.X - halfW,
		B: center.Y - halfH,
		R: center.X + halfW,
		T: center.Y + halfH,
	}
}

func buildStatic(w *World, spec PlatformSpec) error {
	shape := cp.NewBox2(w.space.StaticBody, boxAround(spec.Center, spec.HalfW, spec.HalfH), 0)
	shape.SetFilter(collision.Filter(cp.NO_GROUP, collision.Encode(collision.CategoryStatic, collision.MaskAll)))
	TagShape(shape, TypeTerrain)
	shape.SetFriction(1.0)
	w.space.AddShape(shape)
	return nil
}

func buildMoving(w *World, spec PlatformSpec) error {
	if spec.Speed <= 0 {
		return fmt.Errorf("%w: moving platform needs positive speed", ErrInit)
	}
	body := cp.NewKinematicBody()
	body.SetPosition(spec.Center)
	w.space.AddBody(body)

	shape := cp.NewBox(body, spec.HalfW*2, spec.HalfH*2, 0)
	shape.SetFilter(collision.Filter(cp.NO_GROUP, collision.Encode(collision.CategoryStatic, collision.MaskAll)))
	TagShape(shape, TypePlatform)
	shape.SetFriction(1.0)
	w.space.AddShape(shape)

	w.movers = append(w.movers, &mover{body: body, from: spec.Center, to: spec.To, speed: spec.Speed})
	return nil
}

func buildBreakable(w *World, spec PlatformSpec) error {
	hits := spec.Hits
	if hits < 1 {
		hits = 1
	}
	shape := cp.NewBox2(w.space.StaticBody, boxAround(spec.Center, spec.HalfW, spec.HalfH), 0)
	shape.SetFilter(collision.Filter(cp.NO_GROUP, collision.Encode(collision.CategoryStatic, collision.MaskAll)))
	TagShape(shape, TypePlatform)
	shape.SetFriction(1.0)
	w.space.AddShape(shape)

	w.breakables[shape] = &breakable{shape: shape, center: spec.Center, remaining: hits}
	return nil
}

func buildDynamic(w *World, spec PlatformSpec) error {
	mass := spec.Mass
	if mass <= 0 {
		mass = 1
	}
	width, height := spec.HalfW*2, spec.HalfH*2
	body := cp.NewBody(mass, cp.MomentForBox(mass, width, height))
	body.SetPosition(spec.Center)
	w.space.AddBody(body)

	shape := cp.NewBox(body, width, height, 0)
	shape.SetFilter(collision.Filter(cp.NO_GROUP, collision.Encode(collision.CategoryDynamic, collision.MaskAll)))
	TagShape(shape, TypeDynamic)
	shape.SetFriction(0.7)
	w.space.AddShape(shape)
	return nil
}
