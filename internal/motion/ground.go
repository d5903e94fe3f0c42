package motion

import (
	"math"

	"github.com/jakecoffman/cp"
)

// groundEpsilon is the displacement/velocity threshold below which vertical
// motion counts as blocked or at rest, in meters and meters per second.
const groundEpsilon = 0.01

// GroundTracker infers grounded state from the relationship between the
// desired and the collision-corrected displacement of a tick. No direct
// "is touching ground" query is assumed available from the engine.
//
// The inferred value is consumed at the start of the NEXT tick's movement and
// jump calculations. The one-frame lag is deliberate: inference needs the
// corrected displacement, which only exists after collision resolution, so a
// jump pressed on the landing frame executes on the following tick (the jump
// buffer absorbs it).
type GroundTracker struct {
	coyoteTime      float64
	landingRecovery float64
}

func NewGroundTracker(coyoteTime, landingRecovery float64) *GroundTracker {
	return &GroundTracker{coyoteTime: coyoteTime, landingRecovery: landingRecovery}
}

// Update is called once per tick, after the body has been advanced by
// corrected. groundBelow tells it whether the controller still sees support
// under the capsule; without it a standing actor that walks off a ledge
// would stay grounded forever, since a grounded tick produces no vertical
// displacement to be blocked. It returns whether this tick landed
// (false→true) or left the ground (true→false).
func (g *GroundTracker) Update(st *State, desired, corrected cp.Vector, groundBelow bool) (landed, left bool) {
	fallingDown := st.Velocity.Y > 0
	verticallyBlocked := fallingDown &&
		math.Abs(corrected.Y) < math.Abs(desired.Y)-groundEpsilon
	atRest := math.Abs(st.Velocity.Y) < groundEpsilon && groundBelow

	grounded := verticallyBlocked || atRest

	switch {
	case grounded && !st.Grounded:
		landed = true
		st.CoyoteTimer = 0
		st.JumpsUsed = 0
		st.LandingRecoveryTimer = g.landingRecovery
		// No residual fall speed is preserved into a landing.
		if st.Velocity.Y > 0 {
			st.Velocity.Y = 0
		}
	case !grounded && st.Grounded:
		left = true
		st.CoyoteTimer = g.coyoteTime
	}

	st.Grounded = grounded
	return landed, left
}
