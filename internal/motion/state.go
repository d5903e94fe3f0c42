// Package motion turns input intent and inferred ground state into velocity
// and per-tick displacement for a kinematic platformer actor. Everything here
// is engine-free: displacements go out as desired vectors and come back
// collision-corrected from the character controller.
//
// Convention: simulation y grows downward, so gravity and fall speed are
// positive and jump velocity is negative.
package motion

import "github.com/jakecoffman/cp"

// State is the per-actor motion state, mutated every tick. Timers are in
// seconds and count down to zero.
type State struct {
	Velocity             cp.Vector
	Grounded             bool
	CoyoteTimer          float64
	JumpBufferTimer      float64
	LandingRecoveryTimer float64
	JumpsUsed            int
	MaxJumps             int
}

func NewState(maxJumps int) *State {
	if maxJumps < 1 {
		maxJumps = 1
	}
	return &State{MaxJumps: maxJumps}
}

// Snapshot is the serializable surface for save/replay collaborators.
type Snapshot struct {
	VelX            float64 `json:"vel_x" yaml:"vel_x"`
	VelY            float64 `json:"vel_y" yaml:"vel_y"`
	Grounded        bool    `json:"grounded" yaml:"grounded"`
	CoyoteTimer     float64 `json:"coyote_timer" yaml:"coyote_timer"`
	JumpBufferTimer float64 `json:"jump_buffer_timer" yaml:"jump_buffer_timer"`
	RecoveryTimer   float64 `json:"recovery_timer" yaml:"recovery_timer"`
	JumpsUsed       int     `json:"jumps_used" yaml:"jumps_used"`
}

func (s *State) Snapshot() Snapshot {
	return Snapshot{
		VelX:            s.Velocity.X,
		VelY:            s.Velocity.Y,
		Grounded:        s.Grounded,
		CoyoteTimer:     s.CoyoteTimer,
		JumpBufferTimer: s.JumpBufferTimer,
		RecoveryTimer:   s.LandingRecoveryTimer,
		JumpsUsed:       s.JumpsUsed,
	}
}

// countdown advances a timer toward zero. Residuals below a nanosecond are
// flushed so a window of T seconds is exactly ceil(T/dt) ticks wide instead
// of gaining a tick from accumulated rounding.
func countdown(timer, dt float64) float64 {
	timer -= dt
	if timer < 1e-9 {
		return 0
	}
	return timer
}

func (s *State) Restore(snap Snapshot) {
	s.Velocity = cp.Vector{X: snap.VelX, Y: snap.VelY}
	s.Grounded = snap.Grounded
	s.CoyoteTimer = snap.CoyoteTimer
	s.JumpBufferTimer = snap.JumpBufferTimer
	s.LandingRecoveryTimer = snap.RecoveryTimer
	s.JumpsUsed = snap.JumpsUsed
}
