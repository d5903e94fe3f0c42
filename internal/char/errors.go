package char

import "errors"

// Domain errors for controller construction and per-tick resolution.
var (
	// ErrConfig indicates an unusable capsule or controller configuration.
	ErrConfig = errors.New("char: invalid controller configuration")

	// ErrReleased indicates the controller was used after its body and
	// collider were released. The tick is skipped for the actor; the
	// frame goes on.
	ErrReleased = errors.New("char: controller used after release")

	// ErrNonFinite indicates a requested displacement with NaN or Inf
	// components. The offending tick's movement is discarded.
	ErrNonFinite = errors.New("char: non-finite displacement")
)
