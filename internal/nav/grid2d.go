package nav

import (
	"math"

	"github.com/dkoval/navgrid/internal/model"
	"github.com/dkoval/navgrid/internal/world"
)

// TileGrid is the occupancy grid of a flat 2D map. Walkability is
// rasterized once at build time from the map's blocking rectangles,
// dilated outward by the mover footprint radius so a point-sized path
// keeps a footprint-sized mover clear of walls.
type TileGrid struct {
	id       model.MapID
	width    int
	depth    int
	cellSize float64
	walkable []bool
}

// BuildTileGrid rasterizes a tile map into a navigation grid.
// moverRadius expands every blocking rectangle outward before cell
// centers are tested against it.
func BuildTileGrid(m *world.TileMap, cellSize, moverRadius float64) *TileGrid {
	width := int(math.Ceil(m.Width / cellSize))
	depth := int(math.Ceil(m.Depth / cellSize))

	dilated := make([]world.Rect, len(m.Walls))
	for i, w := range m.Walls {
		dilated[i] = w.Expand(moverRadius)
	}

	g := &TileGrid{
		id:       m.ID,
		width:    width,
		depth:    depth,
		cellSize: cellSize,
		walkable: make([]bool, width*depth),
	}

	for cz := 0; cz < depth; cz++ {
		for cx := 0; cx < width; cx++ {
			x := (float64(cx) + 0.5) * cellSize
			z := (float64(cz) + 0.5) * cellSize

			blocked := false
			for _, w := range dilated {
				if w.Contains(x, z) {
					blocked = true
					break
				}
			}
			g.walkable[cz*width+cx] = !blocked
		}
	}

	return g
}

// MapID returns the map key this grid was built for.
func (g *TileGrid) MapID() model.MapID { return g.id }

// Size returns the grid dimensions in cells.
func (g *TileGrid) Size() (int, int) { return g.width, g.depth }

// CellSize returns the world-unit extent of one cell.
func (g *TileGrid) CellSize() float64 { return g.cellSize }

// CellIndex returns the dense index of the cell, or -1 if out of bounds.
func (g *TileGrid) CellIndex(c Cell) int {
	if c.X < 0 || c.X >= g.width || c.Z < 0 || c.Z >= g.depth {
		return -1
	}
	return c.Z*g.width + c.X
}

// IsWalkable reports whether the cell is inside the map and free of
// dilated obstacle geometry.
func (g *TileGrid) IsWalkable(c Cell) bool {
	i := g.CellIndex(c)
	return i >= 0 && g.walkable[i]
}

// WorldToCell maps a world position to the cell containing it.
func (g *TileGrid) WorldToCell(p model.Vec3) Cell {
	return Cell{
		X: int(math.Floor(p.X / g.cellSize)),
		Z: int(math.Floor(p.Z / g.cellSize)),
	}
}

// CellToWorld returns the cell-center world position. The cell-center
// convention keeps paths from hugging cell edges.
func (g *TileGrid) CellToWorld(c Cell) model.Vec3 {
	return model.Vec3{
		X: (float64(c.X) + 0.5) * g.cellSize,
		Z: (float64(c.Z) + 0.5) * g.cellSize,
	}
}

// Neighbors appends the walkable 8-connected neighbors of c to buf.
func (g *TileGrid) Neighbors(c Cell, buf []Cell) []Cell {
	return gridNeighbors(g, c, buf)
}

// stepChecker lets a grid veto individual steps between adjacent
// walkable cells (terrain uses it for surface-height deltas).
type stepChecker interface {
	canStep(from, to Cell) bool
}

// gridNeighbors implements the shared 8-connected neighbor expansion:
// cardinals first, then diagonals gated on both adjacent cardinals
// being passable so corners are never cut.
func gridNeighbors(g Grid, c Cell, buf []Cell) []Cell {
	check, _ := g.(stepChecker)

	var passable [4]bool
	for i, o := range cardinalOffsets {
		n := Cell{X: c.X + o[0], Z: c.Z + o[1]}
		if !g.IsWalkable(n) {
			continue
		}
		if check != nil && !check.canStep(c, n) {
			continue
		}
		passable[i] = true
		buf = append(buf, n)
	}

	for _, d := range diagonalOffsets {
		if !passable[d.adj1] || !passable[d.adj2] {
			continue
		}
		n := Cell{X: c.X + d.dx, Z: c.Z + d.dz}
		if !g.IsWalkable(n) {
			continue
		}
		if check != nil && !check.canStep(c, n) {
			continue
		}
		buf = append(buf, n)
	}

	return buf
}
