// Package actor composes the motion pieces into a playable character: the
// jump machine, the movement integrator, the collision-corrected controller
// and the ground tracker run in a fixed order every tick, and the results go
// out as feedback events. A fault guard keeps one misbehaving actor from
// taking the frame down with it.
package actor

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/jakecoffman/cp"

	"github.com/solthas/platsim/internal/char"
	"github.com/solthas/platsim/internal/config"
	"github.com/solthas/platsim/internal/event"
	"github.com/solthas/platsim/internal/motion"
	"github.com/solthas/platsim/internal/units"
	"github.com/solthas/platsim/internal/world"
)

// Actor is one character in a scene. Not safe for concurrent use; the scene
// ticks all actors from the frame goroutine.
type Actor struct {
	name string

	ctrl       *char.Controller
	state      *motion.State
	integrator *motion.Integrator
	tracker    *motion.GroundTracker
	jumper     *motion.JumpController

	world *world.World
	bus   *event.Bus
	conv  *units.Converter

	// lastGoodPos is the simulation position after the last successful
	// tick; renderPos is its pixel-space projection. The render fallback
	// leans on these when a tick fails.
	lastGoodPos cp.Vector
	renderPos   mgl64.Vec2
}

// New adds an actor to the world at the given position in meters.
func New(name string, w *world.World, conv *units.Converter, bus *event.Bus, cfg *config.Config, at cp.Vector) (*Actor, error) {
	ctrl, err := char.NewController(w.Space(), at, cfg.Body)
	if err != nil {
		return nil, err
	}
	return &Actor{
		name:        name,
		ctrl:        ctrl,
		state:       motion.NewState(cfg.Jump.MaxJumps),
		integrator:  motion.NewIntegrator(cfg.Movement, cfg.World.Gravity),
		tracker:     motion.NewGroundTracker(cfg.Jump.CoyoteTime, cfg.Movement.LandingRecovery),
		jumper:      motion.NewJumpController(cfg.Jump),
		world:       w,
		bus:         bus,
		conv:        conv,
		lastGoodPos: at,
		renderPos:   conv.VecToPixels(at),
	}, nil
}

// Update runs one motion tick. The order is fixed: jump requests shape this
// tick's velocity, integration proposes a displacement, the controller
// corrects it against geometry, the corrected result is committed, and only
// then is the new ground state inferred for the next tick to consume.
func (a *Actor) Update(intent motion.Intent, dt float64) error {
	jumped := a.jumper.Tick(a.state, intent, dt)

	a.ctrl.SetAutostepEnabled(!intent.DuckHeld)
	desired := a.integrator.Integrate(a.state, intent, dt)

	corrected, err := a.ctrl.Resolve(desired)
	if err != nil {
		return err
	}
	if err := a.ctrl.Apply(corrected); err != nil {
		return err
	}

	landed, left := a.tracker.Update(a.state, desired, corrected, a.ctrl.GroundShape() != nil)

	pos := a.ctrl.Position()
	a.lastGoodPos = pos
	a.renderPos = a.conv.VecToPixels(pos)

	if jumped {
		a.bus.Publish(event.EventJumpPerformed, event.JumpPerformed{
			Position:  pos,
			Velocity:  a.state.Velocity,
			JumpIndex: a.state.JumpsUsed,
		})
	}
	if landed {
		a.bus.Publish(event.EventLanded, event.Landed{Position: pos, Velocity: a.state.Velocity})
		a.bus.Publish(event.EventGroundedChanged, event.GroundedChanged{Grounded: true})
		if gs := a.ctrl.GroundShape(); gs != nil {
			a.world.RegisterLanding(gs)
		}
	}
	if left {
		a.bus.Publish(event.EventGroundedChanged, event.GroundedChanged{Grounded: false})
	}
	return nil
}

func (a *Actor) Name() string { return a.name }

// Position is the last committed simulation position, in meters.
func (a *Actor) Position() cp.Vector { return a.lastGoodPos }

// PixelPosition is the presentation-space position renderers consume.
func (a *Actor) PixelPosition() mgl64.Vec2 { return a.renderPos }

func (a *Actor) Velocity() cp.Vector { return a.state.Velocity }

func (a *Actor) IsGrounded() bool { return a.state.Grounded }

// Snapshot exposes the serializable motion state for recorders.
func (a *Actor) Snapshot() motion.Snapshot { return a.state.Snapshot() }

// refreshRender reprojects the last good simulation position into pixels.
// This is the render-only fallback path for failed ticks.
func (a *Actor) refreshRender() {
	a.renderPos = a.conv.VecToPixels(a.lastGoodPos)
}

// Release frees the actor's physics resources. Further Updates fail.
func (a *Actor) Release() {
	a.ctrl.Release()
}
