package model

// EntityID uniquely identifies a mobile entity within the server process.
type EntityID uint32

// MapID identifies one loaded map. Navigation grids are cached per MapID.
type MapID string

// PositionSnapshot is a point-in-time view of where an entity currently is.
// Produced by the position projection, consumed by the movement orchestrator.
// The orchestrator never writes back through this structure.
type PositionSnapshot struct {
	Map MapID
	Pos Vec3
}
