// Package trace records per-tick motion samples during a run and persists
// them as one directory per run: metadata.json describing the run and
// ticks.csv holding the samples. Traces are the determinism evidence and the
// input to the plot command.
package trace

import (
	"github.com/solthas/platsim/internal/motion"
)

// Sample is one recorded tick. Positions are meters, simulation y down.
type Sample struct {
	Time     float64
	PosX     float64
	PosY     float64
	VelX     float64
	VelY     float64
	Grounded bool
	Jumps    int
}

// Recorder accumulates samples in memory for the duration of a run.
type Recorder struct {
	samples []Sample
	elapsed float64
}

func NewRecorder() *Recorder {
	return &Recorder{}
}

// Record appends one tick. dt advances the recorded clock.
func (r *Recorder) Record(dt float64, posX, posY float64, snap motion.Snapshot) {
	r.elapsed += dt
	r.samples = append(r.samples, Sample{
		Time:     r.elapsed,
		PosX:     posX,
		PosY:     posY,
		VelX:     snap.VelX,
		VelY:     snap.VelY,
		Grounded: snap.Grounded,
		Jumps:    snap.JumpsUsed,
	})
}

func (r *Recorder) Samples() []Sample { return r.samples }

func (r *Recorder) Len() int { return len(r.samples) }

// Column extracts one field across all samples, for plotting.
func (r *Recorder) Column(name string) []float64 {
	out := make([]float64, len(r.samples))
	for i, s := range r.samples {
		switch name {
		case "pos_x":
			out[i] = s.PosX
		case "pos_y":
			out[i] = s.PosY
		case "vel_x":
			out[i] = s.VelX
		case "vel_y":
			out[i] = s.VelY
		case "jumps":
			out[i] = float64(s.Jumps)
		}
	}
	return out
}
