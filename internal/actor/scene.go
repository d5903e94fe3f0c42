package actor

import (
	"fmt"
	"log/slog"

	"github.com/jakecoffman/cp"

	"github.com/solthas/platsim/internal/config"
	"github.com/solthas/platsim/internal/event"
	"github.com/solthas/platsim/internal/motion"
	"github.com/solthas/platsim/internal/units"
	"github.com/solthas/platsim/internal/world"
)

// Scene is the single owner of a simulation: one world, one bus, one unit
// converter and the actors living in the world. Everything a frame needs
// hangs off the scene; there is no package-level simulation state.
type Scene struct {
	cfg  *config.Config
	w    *world.World
	bus  *event.Bus
	conv *units.Converter

	actors []*Guarded
	closed bool
}

// NewScene builds a world from the level description. A world or level
// construction failure is fatal for the scene: nothing is returned.
func NewScene(cfg *config.Config, level []world.PlatformSpec) (*Scene, error) {
	bus := event.NewBus()
	w, err := world.New(cfg.World, bus)
	if err != nil {
		return nil, fmt.Errorf("scene: %w", err)
	}
	if err := w.Build(level); err != nil {
		w.Close()
		return nil, fmt.Errorf("scene: %w", err)
	}
	return &Scene{
		cfg:  cfg,
		w:    w,
		bus:  bus,
		conv: units.NewConverter(cfg.World.PixelsPerMeter),
	}, nil
}

// Spawn adds a guarded actor at the given position in meters.
func (s *Scene) Spawn(name string, at cp.Vector) (*Guarded, error) {
	if s.closed {
		return nil, fmt.Errorf("scene: spawn %q into closed scene", name)
	}
	a, err := New(name, s.w, s.conv, s.bus, s.cfg, at)
	if err != nil {
		return nil, fmt.Errorf("scene: spawn %q: %w", name, err)
	}
	g := NewGuarded(a, s.cfg.Fault)
	s.actors = append(s.actors, g)
	return g, nil
}

// Frame advances the whole scene by one rendered frame: the world consumes
// the frame delta in fixed sub-steps, then every actor ticks once with the
// clamped delta. A step failure is recoverable — the world keeps the
// unconsumed time and actors still tick, so input stays responsive.
func (s *Scene) Frame(frameDelta float64, intents map[string]motion.Intent) error {
	clamped, err := s.w.Step(frameDelta)
	if err != nil {
		slog.Warn("world step failed, time deferred", "err", err)
	}
	for _, g := range s.actors {
		g.Update(intents[g.actor.name], clamped)
	}
	return err
}

func (s *Scene) Bus() *event.Bus { return s.bus }

func (s *Scene) World() *world.World { return s.w }

func (s *Scene) Converter() *units.Converter { return s.conv }

func (s *Scene) Actors() []*Guarded { return s.actors }

// Close releases actors before the world that hosts their bodies.
func (s *Scene) Close() {
	if s.closed {
		return
	}
	for _, g := range s.actors {
		g.actor.Release()
	}
	s.w.Close()
	s.closed = true
}
