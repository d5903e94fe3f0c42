package world

import (
	"errors"
	"fmt"
)

// Domain errors for world construction and stepping.
var (
	// ErrInit indicates the simulation world could not be constructed.
	// Fatal at scene scope; never folded into a fault counter.
	ErrInit = errors.New("world: initialization failed")

	// ErrStep indicates the underlying physics step raised. Recoverable;
	// the time accumulator keeps the unconsumed time.
	ErrStep = errors.New("world: physics step failed")
)

// StepError carries the recovered panic value of a failed physics step.
type StepError struct {
	Reason any
}

func (e *StepError) Error() string {
	return fmt.Sprintf("world: physics step panicked: %v", e.Reason)
}

func (e *StepError) Unwrap() error {
	return ErrStep
}
