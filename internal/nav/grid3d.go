package nav

import (
	"math"

	"github.com/dkoval/navgrid/internal/model"
	"github.com/dkoval/navgrid/internal/world"
)

// TerrainGrid is the occupancy grid of a height-aware block map.
// A cell is walkable when its column has a resolvable surface, is not
// occupied by a solid block, and no solid block sits within the mover
// footprint radius (dilation in whole cells). Waypoints produced from
// this grid carry the terrain surface height.
type TerrainGrid struct {
	id       model.MapID
	width    int
	depth    int
	cellSize float64
	maxStep  float64
	walkable []bool
	heights  []float64
}

// BuildTerrainGrid bakes terrain geometry into a navigation grid.
// moverRadius is converted to a Chebyshev dilation radius in cells;
// maxStep caps the surface-height delta between adjacent cells a mover
// can climb.
func BuildTerrainGrid(t *world.Terrain, moverRadius, maxStep float64) *TerrainGrid {
	g := &TerrainGrid{
		id:       t.ID,
		width:    t.Width,
		depth:    t.Depth,
		cellSize: t.CellSize,
		maxStep:  maxStep,
		walkable: make([]bool, t.Width*t.Depth),
		heights:  make([]float64, t.Width*t.Depth),
	}

	dilate := int(math.Ceil(moverRadius / t.CellSize))

	for cz := 0; cz < t.Depth; cz++ {
		for cx := 0; cx < t.Width; cx++ {
			i := cz*t.Width + cx

			h, ok := t.SurfaceHeight(cx, cz)
			if !ok {
				continue
			}
			g.heights[i] = h

			if solidNear(t, cx, cz, dilate) {
				continue
			}
			g.walkable[i] = true
		}
	}

	return g
}

// solidNear reports whether any column within the Chebyshev radius is
// occupied by a solid block. Out-of-bounds columns count as solid, so
// map edges are dilated like obstacles.
func solidNear(t *world.Terrain, cx, cz, radius int) bool {
	for dz := -radius; dz <= radius; dz++ {
		for dx := -radius; dx <= radius; dx++ {
			if t.Solid(cx+dx, cz+dz) {
				return true
			}
		}
	}
	return false
}

// MapID returns the map key this grid was built for.
func (g *TerrainGrid) MapID() model.MapID { return g.id }

// Size returns the grid dimensions in cells.
func (g *TerrainGrid) Size() (int, int) { return g.width, g.depth }

// CellSize returns the world-unit extent of one cell.
func (g *TerrainGrid) CellSize() float64 { return g.cellSize }

// CellIndex returns the dense index of the cell, or -1 if out of bounds.
func (g *TerrainGrid) CellIndex(c Cell) int {
	if c.X < 0 || c.X >= g.width || c.Z < 0 || c.Z >= g.depth {
		return -1
	}
	return c.Z*g.width + c.X
}

// IsWalkable reports whether the cell has a standable surface.
func (g *TerrainGrid) IsWalkable(c Cell) bool {
	i := g.CellIndex(c)
	return i >= 0 && g.walkable[i]
}

// SurfaceHeight returns the baked surface height of a walkable cell.
func (g *TerrainGrid) SurfaceHeight(c Cell) float64 {
	i := g.CellIndex(c)
	if i < 0 {
		return 0
	}
	return g.heights[i]
}

// WorldToCell maps a world position to the column containing it.
func (g *TerrainGrid) WorldToCell(p model.Vec3) Cell {
	return Cell{
		X: int(math.Floor(p.X / g.cellSize)),
		Z: int(math.Floor(p.Z / g.cellSize)),
	}
}

// CellToWorld returns the cell-center position with the vertical
// coordinate resolved from the terrain surface, so waypoints sit on the
// ground rather than at a fixed altitude.
func (g *TerrainGrid) CellToWorld(c Cell) model.Vec3 {
	return model.Vec3{
		X: (float64(c.X) + 0.5) * g.cellSize,
		Y: g.SurfaceHeight(c),
		Z: (float64(c.Z) + 0.5) * g.cellSize,
	}
}

// Neighbors appends the walkable 8-connected neighbors of c to buf,
// excluding steps over the climbable height limit.
func (g *TerrainGrid) Neighbors(c Cell, buf []Cell) []Cell {
	return gridNeighbors(g, c, buf)
}

// canStep vetoes steps whose surface-height delta exceeds the limit.
func (g *TerrainGrid) canStep(from, to Cell) bool {
	return math.Abs(g.SurfaceHeight(to)-g.SurfaceHeight(from)) <= g.maxStep
}
