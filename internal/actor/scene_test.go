package actor

import (
	"testing"

	"github.com/jakecoffman/cp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/solthas/platsim/internal/config"
	"github.com/solthas/platsim/internal/event"
	"github.com/solthas/platsim/internal/motion"
	"github.com/solthas/platsim/internal/world"
)

const dt = 1.0 / 60.0

// flatFloor is a wide static slab whose walkable top sits at y=0.
func flatFloor() []world.PlatformSpec {
	return []world.PlatformSpec{
		{Kind: world.KindStatic, Center: cp.Vector{X: 0, Y: 0.5}, HalfW: 10, HalfH: 0.5},
	}
}

func newTestScene(t *testing.T, mutate func(*config.Config), level []world.PlatformSpec) *Scene {
	t.Helper()
	cfg := config.DefaultConfig()
	if mutate != nil {
		mutate(cfg)
	}
	s, err := NewScene(cfg, level)
	require.NoError(t, err)
	t.Cleanup(s.Close)
	return s
}

// settle spawns an actor just above the floor and runs idle frames until the
// ground tracker reports it standing.
func settle(t *testing.T, s *Scene, name string) *Guarded {
	t.Helper()
	g, err := s.Spawn(name, cp.Vector{X: 0, Y: -0.46})
	require.NoError(t, err)
	for i := 0; i < 10 && !g.Actor().IsGrounded(); i++ {
		require.NoError(t, s.Frame(dt, nil))
	}
	require.True(t, g.Actor().IsGrounded(), "actor should settle onto the floor")
	return g
}

func TestJumpFromStand(t *testing.T) {
	s := newTestScene(t, nil, flatFloor())
	g := settle(t, s, "hero")
	hero := g.Actor()

	var jumps []event.JumpPerformed
	s.Bus().Subscribe(event.EventJumpPerformed, func(evt any) {
		jumps = append(jumps, evt.(event.JumpPerformed))
	})

	press := map[string]motion.Intent{"hero": {JumpJustPressed: true, JumpHeld: true}}
	hold := map[string]motion.Intent{"hero": {JumpHeld: true}}

	// Launch tick: the grounded branch applies no gravity, so the full
	// takeoff speed survives the tick.
	require.NoError(t, s.Frame(dt, press))
	assert.InDelta(t, -config.DefaultJumpVelocity, hero.Velocity().Y, 1e-12)
	assert.Equal(t, 1, hero.Snapshot().JumpsUsed)
	assert.False(t, hero.IsGrounded())

	// First airborne tick: one gravity increment.
	require.NoError(t, s.Frame(dt, hold))
	assert.InDelta(t, -config.DefaultJumpVelocity+config.DefaultGravity*dt,
		hero.Velocity().Y, 1e-12)

	require.Len(t, jumps, 1)
	assert.Equal(t, 1, jumps[0].JumpIndex)
	assert.Negative(t, jumps[0].Velocity.Y)
}

func TestFullHopReturnsToFloor(t *testing.T) {
	s := newTestScene(t, nil, flatFloor())
	g := settle(t, s, "hero")
	hero := g.Actor()

	var landings int
	s.Bus().Subscribe(event.EventLanded, func(any) { landings++ })

	require.NoError(t, s.Frame(dt, map[string]motion.Intent{
		"hero": {JumpJustPressed: true, JumpHeld: true},
	}))
	hold := map[string]motion.Intent{"hero": {JumpHeld: true}}

	landedAt := -1
	for i := 0; i < 120; i++ {
		require.NoError(t, s.Frame(dt, hold))
		if hero.IsGrounded() {
			landedAt = i
			break
		}
	}
	require.GreaterOrEqual(t, landedAt, 0, "hop should come back down within 2s")

	snap := hero.Snapshot()
	assert.Equal(t, 0, snap.JumpsUsed, "landing resets the jump count")
	assert.Equal(t, 1, landings)
	assert.InDelta(t, -0.45, hero.Position().Y, 0.03, "standing height restored")
}

func TestDoubleJumpUsesDecay(t *testing.T) {
	s := newTestScene(t, func(cfg *config.Config) {
		cfg.Jump.MaxJumps = 3
		cfg.Jump.Decay = 0.8
	}, flatFloor())
	g := settle(t, s, "hero")
	hero := g.Actor()

	press := map[string]motion.Intent{"hero": {JumpJustPressed: true, JumpHeld: true}}
	hold := map[string]motion.Intent{"hero": {JumpHeld: true}}

	require.NoError(t, s.Frame(dt, press))
	require.NoError(t, s.Frame(dt, hold))

	// Second press lands inside the coyote window armed on takeoff, so it
	// executes immediately at the decayed speed plus one gravity tick.
	require.NoError(t, s.Frame(dt, press))
	want := -config.DefaultJumpVelocity*0.8 + config.DefaultGravity*dt
	assert.InDelta(t, want, hero.Velocity().Y, 1e-12)
	assert.Equal(t, 2, hero.Snapshot().JumpsUsed)
}

func TestWalkAcceleratesAndStops(t *testing.T) {
	s := newTestScene(t, nil, flatFloor())
	g := settle(t, s, "hero")
	hero := g.Actor()

	right := map[string]motion.Intent{"hero": {Axis: 1}}
	for i := 0; i < 60; i++ {
		require.NoError(t, s.Frame(dt, right))
	}
	assert.InDelta(t, config.DefaultWalkSpeed, hero.Velocity().X, 1e-9,
		"a second of held input reaches walk speed")
	assert.Positive(t, hero.Position().X)
	assert.Positive(t, hero.PixelPosition().X(), "pixel projection tracks")

	for i := 0; i < 60; i++ {
		require.NoError(t, s.Frame(dt, nil))
	}
	assert.Zero(t, hero.Velocity().X, "deceleration snaps to zero")
}

func TestFramesAreDeterministic(t *testing.T) {
	script := func(i int) motion.Intent {
		in := motion.Intent{JumpHeld: i%2 == 0}
		switch {
		case i < 90:
			in.Axis = 1
		case i < 180:
			in.Axis = -1
		}
		if i%47 == 0 {
			in.JumpJustPressed = true
			in.JumpHeld = true
		}
		return in
	}

	run := func() ([]motion.Snapshot, []cp.Vector) {
		s := newTestScene(t, nil, flatFloor())
		g := settle(t, s, "hero")
		snaps := make([]motion.Snapshot, 0, 240)
		positions := make([]cp.Vector, 0, 240)
		for i := 0; i < 240; i++ {
			require.NoError(t, s.Frame(dt, map[string]motion.Intent{"hero": script(i)}))
			snaps = append(snaps, g.Actor().Snapshot())
			positions = append(positions, g.Actor().Position())
		}
		return snaps, positions
	}

	snapsA, posA := run()
	snapsB, posB := run()
	require.Equal(t, snapsA, snapsB, "identical inputs, bit-identical state")
	require.Equal(t, posA, posB, "identical inputs, bit-identical trajectory")
}

// narrowFloor ends at x=2, with open air beyond.
func narrowFloor() []world.PlatformSpec {
	return []world.PlatformSpec{
		{Kind: world.KindStatic, Center: cp.Vector{X: 0, Y: 0.5}, HalfW: 2, HalfH: 0.5},
	}
}

func TestWalkingOffLedgeArmsCoyote(t *testing.T) {
	s := newTestScene(t, nil, narrowFloor())
	g := settle(t, s, "hero")
	hero := g.Actor()

	right := map[string]motion.Intent{"hero": {Axis: 1}}
	airborneAt := -1
	for i := 0; i < 120; i++ {
		require.NoError(t, s.Frame(dt, right))
		if !hero.IsGrounded() {
			airborneAt = i
			break
		}
	}
	require.GreaterOrEqual(t, airborneAt, 0, "walking must carry the actor off the edge")
	assert.Greater(t, hero.Position().X, 1.9, "went airborne at the ledge, not before")
	assert.InDelta(t, config.DefaultCoyoteTime, hero.Snapshot().CoyoteTimer, 1e-12,
		"leaving the ground arms the coyote window")

	// A jump pressed shortly after the edge still executes from the window.
	require.NoError(t, s.Frame(dt, right))
	require.NoError(t, s.Frame(dt, map[string]motion.Intent{
		"hero": {Axis: 1, JumpJustPressed: true, JumpHeld: true},
	}))
	assert.Equal(t, 1, hero.Snapshot().JumpsUsed)
	assert.Negative(t, hero.Velocity().Y, "coyote jump launched upward")
}

func TestWalkingOffLedgeFalls(t *testing.T) {
	s := newTestScene(t, nil, narrowFloor())
	g := settle(t, s, "hero")
	hero := g.Actor()

	right := map[string]motion.Intent{"hero": {Axis: 1}}
	for i := 0; i < 180; i++ {
		require.NoError(t, s.Frame(dt, right))
	}

	assert.False(t, hero.IsGrounded(), "nothing past the edge to stand on")
	assert.Greater(t, hero.Position().X, 2.0)
	assert.Greater(t, hero.Position().Y, 1.0, "well below the old floor by now")
	assert.Positive(t, hero.Velocity().Y, "still falling")
}

func TestLandingBreaksBreakablePlatform(t *testing.T) {
	level := append(flatFloor(), world.PlatformSpec{
		Kind:   world.KindBreakable,
		Center: cp.Vector{X: 3, Y: -1},
		HalfW:  1, HalfH: 0.2,
		Hits: 1,
	})
	s := newTestScene(t, nil, level)

	var broken []event.PlatformBroken
	s.Bus().Subscribe(event.EventPlatformBroken, func(evt any) {
		broken = append(broken, evt.(event.PlatformBroken))
	})

	// Drop the actor straight onto the breakable slab (top at y=-1.2).
	g, err := s.Spawn("hero", cp.Vector{X: 3, Y: -2.2})
	require.NoError(t, err)
	for i := 0; i < 120 && !g.Actor().IsGrounded(); i++ {
		require.NoError(t, s.Frame(dt, nil))
	}
	require.True(t, g.Actor().IsGrounded())

	require.Len(t, broken, 1, "single landing uses up the platform")
	assert.InDelta(t, 3, broken[0].Position.X, 1e-9)
}

func TestSpawnIntoClosedSceneFails(t *testing.T) {
	s := newTestScene(t, nil, flatFloor())
	s.Close()
	_, err := s.Spawn("late", cp.Vector{})
	assert.Error(t, err)
}
