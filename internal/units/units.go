// Package units converts between simulation space (meters) and presentation
// space (pixels). Simulation values travel as cp.Vector, presentation values
// as mgl64.Vec2, so a mixed-unit expression does not typecheck; this package
// is the only place both representations appear together.
package units

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/jakecoffman/cp"
)

// DefaultPixelsPerMeter is the scale used when no explicit one is configured.
const DefaultPixelsPerMeter = 50.0

// Converter maps between the two unit systems via one shared scale constant.
type Converter struct {
	pixelsPerMeter float64
}

func NewConverter(pixelsPerMeter float64) *Converter {
	if pixelsPerMeter <= 0 {
		pixelsPerMeter = DefaultPixelsPerMeter
	}
	return &Converter{pixelsPerMeter: pixelsPerMeter}
}

func (c *Converter) PixelsPerMeter() float64 { return c.pixelsPerMeter }

func (c *Converter) ToMeters(pixels float64) float64 {
	return pixels / c.pixelsPerMeter
}

func (c *Converter) ToPixels(meters float64) float64 {
	return meters * c.pixelsPerMeter
}

// VecToMeters converts a presentation-space point into simulation space.
func (c *Converter) VecToMeters(px mgl64.Vec2) cp.Vector {
	return cp.Vector{X: px.X() / c.pixelsPerMeter, Y: px.Y() / c.pixelsPerMeter}
}

// VecToPixels converts a simulation-space point into presentation space.
func (c *Converter) VecToPixels(m cp.Vector) mgl64.Vec2 {
	return mgl64.Vec2{m.X * c.pixelsPerMeter, m.Y * c.pixelsPerMeter}
}
