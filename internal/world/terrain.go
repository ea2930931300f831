package world

import "github.com/dkoval/navgrid/internal/model"

// Terrain is the static geometry of one height-aware block map.
// Each column (x, z) either has a resolvable walking surface at some
// height, or none at all (water, void). Columns may additionally be
// occupied by a solid blocking block (rocks, trees, placed structures).
//
// Like TileMap, terrain is read once at grid-build time and never
// mutated afterwards.
type Terrain struct {
	ID       model.MapID
	Width    int // columns along X
	Depth    int // columns along Z
	CellSize float64

	heights []float64
	surface []bool
	solid   []bool
}

// NewTerrain creates an empty terrain with no resolvable surfaces.
func NewTerrain(id model.MapID, width, depth int, cellSize float64) *Terrain {
	return &Terrain{
		ID:       id,
		Width:    width,
		Depth:    depth,
		CellSize: cellSize,
		heights:  make([]float64, width*depth),
		surface:  make([]bool, width*depth),
		solid:    make([]bool, width*depth),
	}
}

func (t *Terrain) index(cx, cz int) (int, bool) {
	if cx < 0 || cx >= t.Width || cz < 0 || cz >= t.Depth {
		return 0, false
	}
	return cz*t.Width + cx, true
}

// SetColumn records the walking surface height of a column.
func (t *Terrain) SetColumn(cx, cz int, height float64) {
	if i, ok := t.index(cx, cz); ok {
		t.heights[i] = height
		t.surface[i] = true
	}
}

// ClearColumn removes the walking surface of a column (water, void).
func (t *Terrain) ClearColumn(cx, cz int) {
	if i, ok := t.index(cx, cz); ok {
		t.surface[i] = false
		t.heights[i] = 0
	}
}

// SetSolid marks or unmarks a column as occupied by a blocking block.
func (t *Terrain) SetSolid(cx, cz int, solid bool) {
	if i, ok := t.index(cx, cz); ok {
		t.solid[i] = solid
	}
}

// SurfaceHeight returns the walking surface height of the column.
// The second return is false when the column has no resolvable surface.
// Out-of-bounds columns have no surface.
func (t *Terrain) SurfaceHeight(cx, cz int) (float64, bool) {
	i, ok := t.index(cx, cz)
	if !ok || !t.surface[i] {
		return 0, false
	}
	return t.heights[i], true
}

// Solid reports whether the column is occupied by a blocking block.
// Out-of-bounds columns report solid so dilation near the map edge
// behaves the same as dilation near an obstacle.
func (t *Terrain) Solid(cx, cz int) bool {
	i, ok := t.index(cx, cz)
	if !ok {
		return true
	}
	return t.solid[i]
}
