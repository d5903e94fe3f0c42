package actor

import (
	"fmt"
	"log/slog"

	"github.com/solthas/platsim/internal/config"
	"github.com/solthas/platsim/internal/motion"
)

// Guarded wraps an actor with fault containment. Errors and panics from a
// tick are absorbed: the actor falls back to rendering its last good
// position for the frame, and after enough consecutive failures it is
// benched until revived. Other actors and the frame itself carry on.
type Guarded struct {
	actor *Actor

	threshold  int
	autoRevive float64 // seconds benched before automatic revive; 0 = never

	errorCount int
	benched    bool
	benchedFor float64

	// updateFn is the guarded call; a seam so tests can inject faults.
	updateFn func(motion.Intent, float64) error
}

func NewGuarded(a *Actor, cfg config.FaultConfig) *Guarded {
	threshold := cfg.Threshold
	if threshold < 1 {
		threshold = config.DefaultFaultThreshold
	}
	g := &Guarded{actor: a, threshold: threshold, autoRevive: cfg.AutoRevive}
	g.updateFn = a.Update
	return g
}

// Update ticks the wrapped actor unless it is benched. A successful tick
// resets the failure count; only consecutive failures accumulate.
func (g *Guarded) Update(intent motion.Intent, dt float64) {
	if g.benched {
		if g.autoRevive <= 0 {
			return
		}
		g.benchedFor += dt
		if g.benchedFor < g.autoRevive {
			return
		}
		slog.Info("actor auto-revived", "actor", g.actor.name, "after_s", g.benchedFor)
		g.Revive()
	}

	err := g.tick(intent, dt)
	if err == nil {
		g.errorCount = 0
		return
	}

	g.errorCount++
	slog.Warn("actor tick failed",
		"actor", g.actor.name, "err", err, "consecutive", g.errorCount)
	g.renderFallback()

	if g.errorCount >= g.threshold {
		g.benched = true
		g.benchedFor = 0
		slog.Error("actor benched after repeated failures",
			"actor", g.actor.name, "failures", g.errorCount)
	}
}

// tick converts a panic out of the physics layer into an ordinary error so
// it counts like any other fault.
func (g *Guarded) tick(intent motion.Intent, dt float64) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("actor %s: tick panic: %v", g.actor.name, r)
		}
	}()
	return g.updateFn(intent, dt)
}

// renderFallback keeps the actor visible at its last good position. A
// failure inside the fallback itself is swallowed; the stale pixel position
// stands and the frame goes on.
func (g *Guarded) renderFallback() {
	defer func() {
		if r := recover(); r != nil {
			slog.Warn("render fallback failed", "actor", g.actor.name, "panic", r)
		}
	}()
	g.actor.refreshRender()
}

// Revive puts a benched actor back into play and clears its failure count.
func (g *Guarded) Revive() {
	g.benched = false
	g.errorCount = 0
	g.benchedFor = 0
}

func (g *Guarded) Benched() bool { return g.benched }

func (g *Guarded) ErrorCount() int { return g.errorCount }

func (g *Guarded) Actor() *Actor { return g.actor }
