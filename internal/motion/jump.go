package motion

import (
	"math"

	"github.com/solthas/platsim/internal/config"
)

// JumpController runs the jump state machine: buffering, coyote-gated
// execution, multi-jump counting and early-release height cutting.
type JumpController struct {
	cfg config.JumpConfig
}

func NewJumpController(cfg config.JumpConfig) *JumpController {
	return &JumpController{cfg: cfg}
}

// Tick runs at the start of an actor tick, before movement integration, so an
// executed jump shapes this tick's displacement. It returns whether a jump
// executed; st.JumpsUsed then already counts it.
func (j *JumpController) Tick(st *State, intent Intent, dt float64) (jumped bool) {
	if !(dt > 0) || math.IsInf(dt, 0) {
		dt = fallbackDt
	}

	if intent.JumpJustPressed {
		st.JumpBufferTimer = j.cfg.BufferTime
	}

	canJump := st.Grounded || st.CoyoteTimer > 0
	if canJump && st.JumpBufferTimer > 0 && st.JumpsUsed < st.MaxJumps {
		st.Velocity.Y = -j.cfg.Velocity * math.Pow(j.cfg.Decay, float64(st.JumpsUsed))
		st.JumpBufferTimer = 0
		st.CoyoteTimer = 0
		st.JumpsUsed++
		jumped = true
	}

	// Variable height: releasing jump early cuts upward speed, never adds.
	cutoff := -j.cfg.Velocity * j.cfg.MinHeightFraction
	if !intent.JumpHeld && st.Velocity.Y < cutoff {
		st.Velocity.Y = cutoff
	}

	st.CoyoteTimer = countdown(st.CoyoteTimer, dt)
	st.JumpBufferTimer = countdown(st.JumpBufferTimer, dt)

	return jumped
}

// CanJump reports whether a buffered press would execute this tick.
func (j *JumpController) CanJump(st *State) bool {
	return (st.Grounded || st.CoyoteTimer > 0) && st.JumpsUsed < st.MaxJumps
}
