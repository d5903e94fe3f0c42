package event

import "github.com/jakecoffman/cp"

const (
	EventJumpPerformed   = "motion.jump"
	EventLanded          = "motion.landed"
	EventGroundedChanged = "motion.grounded"
	EventContactStarted  = "world.contact"
	EventPlatformBroken  = "world.platform_broken"
)

// JumpPerformed is published on the tick a jump executes. Position and
// velocity are in meters; JumpIndex is 1 for the first jump of a chain.
type JumpPerformed struct {
	Position  cp.Vector
	Velocity  cp.Vector
	JumpIndex int
}

// Landed is published on the tick an actor's grounded state flips true.
type Landed struct {
	Position cp.Vector
	Velocity cp.Vector
}

// GroundedChanged is published on every grounded transition, both directions.
type GroundedChanged struct {
	Grounded bool
}

// ContactStarted reports a new contact pair drained from the engine after a
// physics step. A and B are the collision types of the two shapes.
type ContactStarted struct {
	A, B uint
}

// PlatformBroken is published when a breakable platform is used up and
// removed from the world.
type PlatformBroken struct {
	Position cp.Vector
}
