package nav

import "github.com/dkoval/navgrid/internal/model"

// HasLineOfSight reports whether the straight segment between two world
// positions crosses only walkable cells. It traces the segment with a
// Bresenham cell walk and fails on the first blocked cell, so a true
// result guarantees every crossed cell is walkable.
//
// Used by the orchestrator as a performance shortcut for short
// player-driven moves; it is not a movement validator — diagonal
// corner-cut through touching obstacle corners is tolerated here, which
// is why AI movers never take this shortcut.
func HasLineOfSight(g Grid, from, to model.Vec3) bool {
	start := g.WorldToCell(from)
	end := g.WorldToCell(to)

	it := NewLineIterator(start.X, start.Z, end.X, end.Z)
	for it.Next() {
		if !g.IsWalkable(Cell{X: it.X(), Z: it.Z()}) {
			return false
		}
	}
	return true
}
