package world

import "github.com/dkoval/navgrid/internal/model"

// Rect is an axis-aligned blocking rectangle in world units.
type Rect struct {
	MinX float64
	MinZ float64
	MaxX float64
	MaxZ float64
}

// Contains reports whether the point lies inside the rectangle (inclusive bounds).
func (r Rect) Contains(x, z float64) bool {
	return x >= r.MinX && x <= r.MaxX && z >= r.MinZ && z <= r.MaxZ
}

// Expand returns the rectangle grown outward by the given radius on all sides.
func (r Rect) Expand(radius float64) Rect {
	return Rect{
		MinX: r.MinX - radius,
		MinZ: r.MinZ - radius,
		MaxX: r.MaxX + radius,
		MaxZ: r.MaxZ + radius,
	}
}

// TileMap is the static geometry of one flat map: an axis-aligned play
// area with blocking rectangles (walls, fixed objects). Geometry is read
// exactly once per map key at grid-build time and never mutated after.
type TileMap struct {
	ID    model.MapID
	Width float64 // world units along X
	Depth float64 // world units along Z
	Walls []Rect
}

// Blocked reports whether the point is inside any blocking rectangle.
func (m *TileMap) Blocked(x, z float64) bool {
	for _, w := range m.Walls {
		if w.Contains(x, z) {
			return true
		}
	}
	return false
}
