package world

import (
	"errors"
	"math"
	"testing"

	"github.com/jakecoffman/cp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/solthas/platsim/internal/config"
	"github.com/solthas/platsim/internal/event"
)

func testWorld(t *testing.T) *World {
	t.Helper()
	w, err := New(config.DefaultConfig().World, event.NewBus())
	require.NoError(t, err)
	return w
}

func TestNewRejectsBadConfig(t *testing.T) {
	tests := []struct {
		name string
		mut  func(*config.WorldConfig)
	}{
		{"zero dt", func(c *config.WorldConfig) { c.FixedDt = 0 }},
		{"negative dt", func(c *config.WorldConfig) { c.FixedDt = -0.01 }},
		{"zero max steps", func(c *config.WorldConfig) { c.MaxSteps = 0 }},
		{"delta below dt", func(c *config.WorldConfig) { c.MaxFrameDelta = c.FixedDt / 2 }},
		{"delta beyond step budget", func(c *config.WorldConfig) { c.MaxFrameDelta = 1.0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.DefaultConfig().World
			tt.mut(&cfg)
			_, err := New(cfg, event.NewBus())
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInit))
		})
	}
}

func TestStepCounting(t *testing.T) {
	w := testWorld(t)
	dt := w.FixedDt()

	stepped := 0
	w.stepFn = func(float64) { stepped++ }

	// A full tick's worth of time runs exactly one step.
	_, err := w.Step(dt)
	require.NoError(t, err)
	assert.Equal(t, 1, stepped)

	// Half a tick accumulates without stepping.
	_, err = w.Step(dt / 2)
	require.NoError(t, err)
	assert.Equal(t, 1, stepped)

	// The next half tick completes the debt.
	_, err = w.Step(dt / 2)
	require.NoError(t, err)
	assert.Equal(t, 2, stepped)
}

func TestStepTotalWithinBound(t *testing.T) {
	w := testWorld(t)
	dt := w.FixedDt()

	stepped := 0
	w.stepFn = func(float64) { stepped++ }

	// Irregular deltas summing to exactly 1 second.
	deltas := []float64{0.016, 0.02, 0.013, 0.04, 0.011}
	total := 0.0
	for total < 1.0 {
		for _, d := range deltas {
			if total+d > 1.0 {
				d = 1.0 - total
			}
			_, err := w.Step(d)
			require.NoError(t, err)
			total += d
			assert.GreaterOrEqual(t, w.Accumulator(), 0.0)
			assert.Less(t, w.Accumulator(), dt)
			if total >= 1.0 {
				break
			}
		}
	}

	want := int(math.Floor(1.0 / dt))
	assert.InDelta(t, want, stepped, 1, "total sub-steps for 1s of frame time")
}

func TestStepClampsStall(t *testing.T) {
	w := testWorld(t)

	stepped := 0
	w.stepFn = func(float64) { stepped++ }

	// A two-second stall must not demand two seconds of catch-up.
	clamped, err := w.Step(2.0)
	require.NoError(t, err)
	assert.Equal(t, config.DefaultMaxFrameDelta, clamped)
	assert.Equal(t, 3, stepped, "bounded by max sub-steps per frame")
	assert.Less(t, w.Accumulator(), w.FixedDt())
}

func TestStepIgnoresGarbageDeltas(t *testing.T) {
	w := testWorld(t)
	stepped := 0
	w.stepFn = func(float64) { stepped++ }

	for _, bad := range []float64{math.NaN(), -1.0} {
		clamped, err := w.Step(bad)
		require.NoError(t, err)
		assert.Equal(t, 0.0, clamped)
	}
	assert.Equal(t, 0, stepped)
	assert.Equal(t, 0.0, w.Accumulator())
}

func TestStepFailureKeepsAccumulator(t *testing.T) {
	w := testWorld(t)
	dt := w.FixedDt()

	w.stepFn = func(float64) { panic("solver exploded") }

	_, err := w.Step(dt * 2)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrStep))

	// The unconsumed time is preserved, only delayed.
	assert.InDelta(t, dt*2, w.Accumulator(), 1e-12)

	// Once the engine recovers, the debt is worked off.
	stepped := 0
	w.stepFn = func(float64) { stepped++ }
	_, err = w.Step(0)
	require.NoError(t, err)
	assert.Equal(t, 2, stepped)
}

func TestShapeTagRoundTrip(t *testing.T) {
	body := cp.NewStaticBody()
	tagged := cp.NewBox(body, 1, 1, 0)
	TagShape(tagged, TypePlatform)
	assert.Equal(t, TypePlatform, ShapeType(tagged))

	// Shapes built outside the level loader carry no tag.
	foreign := cp.NewBox(body, 1, 1, 0)
	assert.Equal(t, cp.CollisionType(0), ShapeType(foreign))
}

func TestDynamicContactReportsTaggedTypes(t *testing.T) {
	bus := event.NewBus()
	w, err := New(config.DefaultConfig().World, bus)
	require.NoError(t, err)

	var contacts []event.ContactStarted
	bus.Subscribe(event.EventContactStarted, func(evt any) {
		contacts = append(contacts, evt.(event.ContactStarted))
	})

	require.NoError(t, w.Build([]PlatformSpec{
		{Kind: KindStatic, Center: cp.Vector{X: 0, Y: 0.5}, HalfW: 2, HalfH: 0.5},
		{Kind: KindDynamic, Center: cp.Vector{X: 0, Y: -1}, HalfW: 0.2, HalfH: 0.2, Mass: 1},
	}))

	// A second of simulated time is plenty for the crate to land.
	for i := 0; i < 60 && len(contacts) == 0; i++ {
		_, err := w.Step(w.FixedDt())
		require.NoError(t, err)
	}

	require.NotEmpty(t, contacts)
	got := []cp.CollisionType{cp.CollisionType(contacts[0].A), cp.CollisionType(contacts[0].B)}
	assert.Contains(t, got, TypeDynamic)
	assert.Contains(t, got, TypeTerrain)
}

func TestBuildUnknownKind(t *testing.T) {
	w := testWorld(t)
	err := w.Build([]PlatformSpec{{Kind: PlatformKind(42)}})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInit))
}

func TestBreakablePlatform(t *testing.T) {
	bus := event.NewBus()
	w, err := New(config.DefaultConfig().World, bus)
	require.NoError(t, err)

	var broken []event.PlatformBroken
	bus.Subscribe(event.EventPlatformBroken, func(evt any) {
		broken = append(broken, evt.(event.PlatformBroken))
	})

	spec := PlatformSpec{Kind: KindBreakable, Center: cp.Vector{X: 1, Y: 2}, HalfW: 0.5, HalfH: 0.1, Hits: 2}
	require.NoError(t, w.Build([]PlatformSpec{spec}))
	require.Len(t, w.breakables, 1)

	var shape *cp.Shape
	for s := range w.breakables {
		shape = s
	}

	w.RegisterLanding(shape)
	assert.Empty(t, broken, "first landing only cracks it")

	w.RegisterLanding(shape)
	require.Len(t, broken, 1)
	assert.Equal(t, cp.Vector{X: 1, Y: 2}, broken[0].Position)
	assert.Empty(t, w.breakables)

	// Landings on unknown shapes are ignored.
	w.RegisterLanding(shape)
	assert.Len(t, broken, 1)
}

func TestMovingPlatformPatrols(t *testing.T) {
	w := testWorld(t)
	require.NoError(t, w.Build([]PlatformSpec{{
		Kind:   KindMoving,
		Center: cp.Vector{X: 0, Y: 0},
		To:     cp.Vector{X: 1, Y: 0},
		HalfW:  0.5, HalfH: 0.1,
		Speed: 1.0,
	}}))
	require.Len(t, w.movers, 1)
	body := w.movers[0].body

	// Half a second of simulated time moves the platform about halfway.
	for i := 0; i < 30; i++ {
		_, err := w.Step(w.FixedDt())
		require.NoError(t, err)
	}
	assert.InDelta(t, 0.5, body.Position().X, 0.05)

	// After well over the two-second round trip it is still on the segment.
	for i := 0; i < 300; i++ {
		_, err := w.Step(w.FixedDt())
		require.NoError(t, err)
	}
	pos := body.Position()
	assert.GreaterOrEqual(t, pos.X, -1e-9)
	assert.LessOrEqual(t, pos.X, 1.0+1e-9)
}
