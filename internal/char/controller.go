// Package char moves a capsule-shaped character through a physics space
// with swept collision, automatic step climbing and ground snapping. The
// capsule is a kinematic body: the engine never integrates it, so every
// displacement is proposed, corrected against geometry here, and only
// then committed.
package char

import (
	"fmt"
	"math"
	"sync/atomic"

	"github.com/jakecoffman/cp"

	"github.com/solthas/platsim/internal/collision"
	"github.com/solthas/platsim/internal/config"
	"github.com/solthas/platsim/internal/world"
)

// nextGroup hands out a distinct collision group per controller so a
// capsule's probe never reports the capsule itself as an obstacle.
var nextGroup atomic.Uint64

// Controller owns one character's kinematic body, its capsule collider
// and a detached probe copy used for overlap queries. It is not safe
// for concurrent use; ticks drive it from a single goroutine.
type Controller struct {
	space *cp.Space
	body  *cp.Body
	shape *cp.Shape

	// The probe mirrors the capsule but is never added to the space,
	// so it can be teleported freely to test candidate positions.
	probeBody  *cp.Body
	probeShape *cp.Shape

	cfg     config.BodyConfig
	quantum float64
	filter  cp.ShapeFilter

	ground   *cp.Shape
	noStep   bool
	released bool
}

// NewController adds a kinematic capsule to the space at the given
// position (meters, y down). The capsule stands upright: a vertical
// segment of the configured radius whose total height is 2*HalfHeight.
func NewController(space *cp.Space, at cp.Vector, cfg config.BodyConfig) (*Controller, error) {
	if space == nil {
		return nil, fmt.Errorf("%w: nil space", ErrConfig)
	}
	if cfg.CapsuleRadius <= 0 {
		return nil, fmt.Errorf("%w: capsule radius %v", ErrConfig, cfg.CapsuleRadius)
	}
	if cfg.CapsuleHalfHeight < cfg.CapsuleRadius {
		return nil, fmt.Errorf("%w: half height %v below radius %v",
			ErrConfig, cfg.CapsuleHalfHeight, cfg.CapsuleRadius)
	}
	if cfg.SkinOffset <= 0 {
		return nil, fmt.Errorf("%w: skin offset %v", ErrConfig, cfg.SkinOffset)
	}

	group := uint(nextGroup.Add(1))
	filter := collision.Filter(group, collision.Encode(collision.CategoryPlayer, collision.MaskAll))

	half := cfg.CapsuleHalfHeight - cfg.CapsuleRadius
	a := cp.Vector{X: 0, Y: -half}
	b := cp.Vector{X: 0, Y: half}

	body := cp.NewKinematicBody()
	body.SetPosition(at)
	space.AddBody(body)

	shape := space.AddShape(cp.NewSegment(body, a, b, cfg.CapsuleRadius))
	shape.SetFilter(filter)
	world.TagShape(shape, world.TypeActor)
	shape.SetFriction(0)

	probeBody := cp.NewKinematicBody()
	probeBody.SetPosition(at)
	probeShape := cp.NewSegment(probeBody, a, b, cfg.CapsuleRadius)
	probeShape.SetFilter(filter)

	return &Controller{
		space:      space,
		body:       body,
		shape:      shape,
		probeBody:  probeBody,
		probeShape: probeShape,
		cfg:        cfg,
		quantum:    cfg.SkinOffset,
		filter:     filter,
	}, nil
}

// Position reports the capsule center in meters.
func (c *Controller) Position() cp.Vector {
	return c.body.Position()
}

// SetPosition teleports the capsule, bypassing collision resolution.
func (c *Controller) SetPosition(at cp.Vector) error {
	if c.released {
		return ErrReleased
	}
	c.body.SetPosition(at)
	c.shape.CacheBB()
	return nil
}

// SetAutostepEnabled suppresses or restores step climbing. Ducking
// characters stay low instead of popping up ledges.
func (c *Controller) SetAutostepEnabled(enabled bool) {
	c.noStep = !enabled
}

// GroundShape reports the shape directly under the capsule after the
// most recent Resolve, or nil when airborne.
func (c *Controller) GroundShape() *cp.Shape {
	return c.ground
}

// Resolve sweeps the capsule along the desired displacement and returns
// the displacement actually possible. Horizontal travel is resolved
// before vertical so walking into a wall still lets gravity act. The
// body is not moved; call Apply with the corrected value to commit.
func (c *Controller) Resolve(desired cp.Vector) (cp.Vector, error) {
	if c.released {
		return cp.Vector{}, ErrReleased
	}
	if !finite(desired.X) || !finite(desired.Y) {
		return cp.Vector{}, fmt.Errorf("%w: %v", ErrNonFinite, desired)
	}

	start := c.body.Position()
	pos := c.sweepX(start, desired.X)
	pos = c.sweepY(pos, desired.Y)
	if desired.Y >= 0 {
		pos = c.snapDown(pos)
	}
	c.ground = c.probeGround(pos)
	return pos.Sub(start), nil
}

// Apply commits a displacement previously returned by Resolve and
// reindexes the collider so subsequent queries see the new position.
func (c *Controller) Apply(corrected cp.Vector) error {
	if c.released {
		return ErrReleased
	}
	c.body.SetPosition(c.body.Position().Add(corrected))
	c.shape.CacheBB()
	return nil
}

// Release removes the collider and body from the space. Collider before
// body; the space rejects shape removal once its body is gone. Further
// calls on the controller fail with ErrReleased.
func (c *Controller) Release() {
	if c.released {
		return
	}
	c.space.RemoveShape(c.shape)
	c.space.RemoveBody(c.body)
	c.ground = nil
	c.released = true
}

// sweepX advances horizontally one quantum at a time, stopping at the
// last free position before an obstacle. Low obstacles may be climbed.
func (c *Controller) sweepX(pos cp.Vector, dist float64) cp.Vector {
	if dist == 0 {
		return pos
	}
	sign := 1.0
	if dist < 0 {
		sign = -1
	}
	remaining := math.Abs(dist)
	for remaining > 0 {
		step := math.Min(c.quantum, remaining)
		next := cp.Vector{X: pos.X + step*sign, Y: pos.Y}
		blocking := c.overlapAt(next)
		if blocking == nil {
			pos = next
			remaining -= step
			continue
		}
		if climbed, ok := c.tryStep(pos, step*sign, blocking); ok {
			pos = climbed
			remaining -= step
			continue
		}
		break
	}
	return pos
}

// sweepY advances vertically. Positive is down.
func (c *Controller) sweepY(pos cp.Vector, dist float64) cp.Vector {
	if dist == 0 {
		return pos
	}
	sign := 1.0
	if dist < 0 {
		sign = -1
	}
	remaining := math.Abs(dist)
	for remaining > 0 {
		step := math.Min(c.quantum, remaining)
		next := cp.Vector{X: pos.X, Y: pos.Y + step*sign}
		if c.overlapAt(next) != nil {
			break
		}
		pos = next
		remaining -= step
	}
	return pos
}

// tryStep scans raised copies of the blocked horizontal move until the
// capsule clears the obstacle, up to the configured step height. The
// climb is taken only when the landing has enough forward clearance to
// stand on, so shallow lips are not treated as stairs.
func (c *Controller) tryStep(pos cp.Vector, dx float64, blocking *cp.Shape) (cp.Vector, bool) {
	if c.noStep || !c.cfg.Autostep || c.cfg.AutostepMaxHeight <= 0 {
		return pos, false
	}
	if !c.cfg.AutostepDynamic && world.ShapeType(blocking) == world.TypeDynamic {
		return pos, false
	}
	ahead := c.cfg.AutostepMinWidth * math.Copysign(1, dx)
	for lift := c.quantum; lift <= c.cfg.AutostepMaxHeight+1e-9; lift += c.quantum {
		cand := cp.Vector{X: pos.X + dx, Y: pos.Y - lift}
		if c.overlapAt(cand) != nil {
			continue
		}
		clear := cp.Vector{X: cand.X + ahead, Y: cand.Y}
		if c.overlapAt(clear) == nil {
			return cand, true
		}
	}
	return pos, false
}

// snapDown glues the capsule to ground it is hovering just above, so
// walking down a slope or shallow step does not flicker into a fall.
// The extra travel is committed only when it ends in contact; if the
// full snap distance is open air the capsule genuinely left the ledge.
func (c *Controller) snapDown(pos cp.Vector) cp.Vector {
	if !c.cfg.GroundSnap || c.cfg.SnapDistance <= 0 {
		return pos
	}
	p := pos
	moved := 0.0
	for moved < c.cfg.SnapDistance {
		step := math.Min(c.quantum, c.cfg.SnapDistance-moved)
		next := cp.Vector{X: p.X, Y: p.Y + step}
		if c.overlapAt(next) != nil {
			return p
		}
		p = next
		moved += step
	}
	return pos
}

// overlapAt teleports the probe to a candidate center and reports the
// first shape the capsule would intersect there, or nil when free.
func (c *Controller) overlapAt(at cp.Vector) *cp.Shape {
	c.probeBody.SetPosition(at)
	var hit *cp.Shape
	c.space.ShapeQuery(c.probeShape, func(s *cp.Shape, _ *cp.ContactPointSet) {
		if hit == nil {
			hit = s
		}
	})
	return hit
}

// probeGround casts a short ray from the bottom cap straight down, just
// past the capsule tip plus the skin margin, and reports what it hits.
func (c *Controller) probeGround(pos cp.Vector) *cp.Shape {
	half := c.cfg.CapsuleHalfHeight - c.cfg.CapsuleRadius
	start := cp.Vector{X: pos.X, Y: pos.Y + half}
	end := cp.Vector{X: start.X, Y: start.Y + c.cfg.CapsuleRadius + 2*c.cfg.SkinOffset}
	info := c.space.SegmentQueryFirst(start, end, 0, c.filter)
	return info.Shape
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
