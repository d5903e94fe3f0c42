package motion

import (
	"math"

	"github.com/jakecoffman/cp"

	"github.com/solthas/platsim/internal/config"
)

// fallbackDt substitutes a non-finite or non-positive tick length.
const fallbackDt = 1.0 / 60.0

// Integrator converts input intent and the previous tick's grounded state
// into an updated velocity and a desired displacement for the tick.
type Integrator struct {
	cfg     config.MovementConfig
	gravity float64
}

func NewIntegrator(cfg config.MovementConfig, gravity float64) *Integrator {
	return &Integrator{cfg: cfg, gravity: gravity}
}

// Integrate mutates st.Velocity and returns the desired displacement in
// meters. The grounded flag consumed here is the one inferred at the end of
// the previous tick.
func (g *Integrator) Integrate(st *State, intent Intent, dt float64) cp.Vector {
	if !(dt > 0) || math.IsInf(dt, 0) {
		dt = fallbackDt
	}

	target := float64(intent.Axis) * g.cfg.WalkSpeed
	if intent.DuckHeld && st.Grounded {
		target *= 0.5
	}
	if st.LandingRecoveryTimer > 0 {
		target *= g.cfg.RecoveryMultiplier
	}

	if intent.Axis != 0 {
		accel := g.cfg.GroundAcceleration
		if !st.Grounded {
			accel = g.cfg.AirAcceleration * g.cfg.AirControlFactor
		}
		st.Velocity.X = approach(st.Velocity.X, target, accel*dt)
	} else {
		decel := g.cfg.Deceleration
		if !st.Grounded {
			decel = g.cfg.AirAcceleration
		}
		st.Velocity.X = approach(st.Velocity.X, 0, decel*dt)
	}

	if st.Grounded {
		if st.Velocity.Y > 0 {
			st.Velocity.Y = 0
		}
	} else {
		st.Velocity.Y += g.gravity * dt
		if st.Velocity.Y > g.cfg.MaxFallSpeed {
			st.Velocity.Y = g.cfg.MaxFallSpeed
		}
	}

	if st.LandingRecoveryTimer > 0 {
		st.LandingRecoveryTimer = countdown(st.LandingRecoveryTimer, dt)
	}

	return st.Velocity.Mult(dt)
}

// approach moves current toward target by at most delta, never overshooting.
func approach(current, target, delta float64) float64 {
	if current < target {
		return math.Min(current+delta, target)
	}
	return math.Max(current-delta, target)
}
