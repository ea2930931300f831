package model

import "math"

// Vec3 represents a point in world space.
// X and Z span the ground plane, Y is the vertical axis.
// Value type, passed by value (immutable).
type Vec3 struct {
	X float64
	Y float64
	Z float64
}

// NewVec3 creates a Vec3 with the given coordinates.
func NewVec3(x, y, z float64) Vec3 {
	return Vec3{X: x, Y: y, Z: z}
}

// WithY returns a new Vec3 with the vertical coordinate replaced (immutable pattern).
func (v Vec3) WithY(y float64) Vec3 {
	v.Y = y
	return v
}

// DistanceSquared returns the squared distance to another point (no sqrt for performance).
func (v Vec3) DistanceSquared(other Vec3) float64 {
	dx := v.X - other.X
	dy := v.Y - other.Y
	dz := v.Z - other.Z
	return dx*dx + dy*dy + dz*dz
}

// Distance returns the Euclidean distance to another point.
func (v Vec3) Distance(other Vec3) float64 {
	return math.Sqrt(v.DistanceSquared(other))
}

// GroundDistanceSquared returns the squared distance on the ground plane,
// ignoring the vertical axis. Used for movement thresholds where height
// differences must not inflate the distance.
func (v Vec3) GroundDistanceSquared(other Vec3) float64 {
	dx := v.X - other.X
	dz := v.Z - other.Z
	return dx*dx + dz*dz
}

// GroundDistance returns the distance on the ground plane.
func (v Vec3) GroundDistance(other Vec3) float64 {
	return math.Sqrt(v.GroundDistanceSquared(other))
}
