package nav

import "github.com/dkoval/navgrid/internal/model"

// SnapToWalkable maps a continuous world position to the nearest
// walkable cell, searching concentric square rings of increasing
// Chebyshev radius (0, 1, ... maxRadius) around the containing cell.
// The first ring containing a walkable cell wins; within the ring, the
// candidate closest to the original position is chosen, so a point just
// past a cell boundary snaps back to the cell it drifted off.
//
// Continuous positions drift off walkable cells on ledges, slopes and
// block edges; without this recovery every path request near a terrain
// edge would fail. The second return is false only when no walkable
// cell exists within maxRadius rings — callers fall back to their last
// known good position, never fault.
func SnapToWalkable(g Grid, pos model.Vec3, maxRadius int) (Cell, bool) {
	center := g.WorldToCell(pos)
	if g.IsWalkable(center) {
		return center, true
	}

	for r := 1; r <= maxRadius; r++ {
		if c, ok := bestOnRing(g, pos, center, r); ok {
			return c, true
		}
	}

	return Cell{}, false
}

// bestOnRing scans the square ring of Chebyshev radius r and returns
// the walkable cell whose center is closest to pos.
func bestOnRing(g Grid, pos model.Vec3, center Cell, r int) (Cell, bool) {
	var best Cell
	bestDist := 0.0
	found := false

	consider := func(c Cell) {
		if !g.IsWalkable(c) {
			return
		}
		d := g.CellToWorld(c).GroundDistanceSquared(pos)
		if !found || d < bestDist {
			best, bestDist, found = c, d, true
		}
	}

	// Top and bottom rows of the ring.
	for x := center.X - r; x <= center.X+r; x++ {
		consider(Cell{X: x, Z: center.Z - r})
		consider(Cell{X: x, Z: center.Z + r})
	}
	// Left and right columns, corners already covered.
	for z := center.Z - r + 1; z <= center.Z+r-1; z++ {
		consider(Cell{X: center.X - r, Z: z})
		consider(Cell{X: center.X + r, Z: z})
	}

	return best, found
}
