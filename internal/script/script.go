// Package script provides named deterministic input patterns for headless
// runs. A pattern maps the tick index to the intent for that tick, so the
// same pattern always produces the same trajectory.
package script

import (
	"fmt"
	"sort"

	"github.com/solthas/platsim/internal/motion"
)

// Pattern yields the input intent for a given tick index.
type Pattern func(tick int) motion.Intent

var Patterns = map[string]Pattern{
	// idle: stand still; exercises settling and rest detection.
	"idle": func(int) motion.Intent {
		return motion.Intent{}
	},

	// walk: hold right the whole run.
	"walk": func(int) motion.Intent {
		return motion.Intent{Axis: 1}
	},

	// hop: a single full-height jump half a second in, then coast.
	"hop": func(tick int) motion.Intent {
		in := motion.Intent{JumpHeld: tick >= 30 && tick < 60}
		if tick == 30 {
			in.JumpJustPressed = true
		}
		return in
	},

	// pogo: press jump every half second while drifting right. Landing
	// frames buffer the press, so the chain never stalls.
	"pogo": func(tick int) motion.Intent {
		in := motion.Intent{Axis: 1, JumpHeld: true}
		if tick%30 == 0 {
			in.JumpJustPressed = true
		}
		return in
	},

	// course: walk right with short jumps released early, then turn
	// around. Exercises variable height and air control.
	"course": func(tick int) motion.Intent {
		in := motion.Intent{Axis: 1}
		if tick >= 240 {
			in.Axis = -1
		}
		if tick%90 == 0 && tick > 0 {
			in.JumpJustPressed = true
		}
		in.JumpHeld = tick%90 < 10
		return in
	},
}

func Get(name string) (Pattern, error) {
	p, ok := Patterns[name]
	if !ok {
		return nil, fmt.Errorf("script: unknown pattern %q", name)
	}
	return p, nil
}

func List() []string {
	names := make([]string, 0, len(Patterns))
	for name := range Patterns {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
