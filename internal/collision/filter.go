// Package collision encodes the collision-group filter used by every body and
// shape in the simulation. A filter packs a 16-bit membership set ("what
// category am I") and a 16-bit interaction mask ("what categories may I touch")
// into one 32-bit value; the engine's broad phase consults both sides of a
// potential pair.
package collision

import "github.com/jakecoffman/cp"

// Category bits. Membership and mask are both built from these.
const (
	CategoryPlayer uint16 = 1 << iota
	CategoryStatic
	CategoryDynamic
	CategoryHazard
	CategorySensor
)

// MaskAll interacts with every category.
const MaskAll uint16 = 0xffff

// Encode packs membership and mask into a single filter value.
// All 16-bit combinations are legal.
func Encode(membership, mask uint16) uint32 {
	return uint32(membership)<<16 | uint32(mask)
}

// Decode splits a filter value back into its membership and mask halves.
func Decode(encoded uint32) (membership, mask uint16) {
	return uint16(encoded >> 16), uint16(encoded)
}

// Filter builds the engine-side shape filter for an encoded group value.
// Shapes sharing a non-zero group never collide regardless of categories;
// each actor gets a unique group so its sweep probe ignores its own collider.
func Filter(group uint, encoded uint32) cp.ShapeFilter {
	membership, mask := Decode(encoded)
	return cp.NewShapeFilter(group, uint(membership), uint(mask))
}
