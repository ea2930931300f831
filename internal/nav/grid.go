package nav

import (
	"errors"

	"github.com/dkoval/navgrid/internal/model"
)

// ErrNoPath is returned when no route exists between two points, when
// the start or goal cell is not walkable, or when the expansion budget
// is exceeded.
var ErrNoPath = errors.New("nav: no path")

// ErrUnknownMap is returned by grid builders for map keys without geometry.
var ErrUnknownMap = errors.New("nav: unknown map")

// Cell addresses one grid cell. X and Z index the horizontal tiling,
// Y is the vertical layer. Terrain is single-layer today, so Y stays 0;
// the field exists for future multi-level support.
type Cell struct {
	X int
	Y int
	Z int
}

// Grid is an immutable occupancy grid over one map's geometry.
// Built once per map key, then shared read-only across all entities and
// all path queries. Both concrete representations (TileGrid for flat
// maps, TerrainGrid for block terrain) satisfy it, so the search runs
// against either.
type Grid interface {
	// MapID returns the map key this grid was built for.
	MapID() model.MapID

	// Size returns the grid dimensions in cells along X and Z.
	Size() (width, depth int)

	// CellSize returns the world-unit extent of one cell.
	CellSize() float64

	// IsWalkable reports whether the cell can be stood on.
	// Out-of-bounds cells are never walkable; this is a safe predicate,
	// not a fault.
	IsWalkable(c Cell) bool

	// WorldToCell maps a world position to the cell containing it.
	WorldToCell(p model.Vec3) Cell

	// CellToWorld returns the world position of the cell center.
	// Terrain grids resolve the vertical coordinate from the surface
	// height, so waypoints sit on the ground.
	CellToWorld(c Cell) model.Vec3

	// Neighbors appends the walkable cells adjacent to c (8-connected,
	// diagonals only when both adjacent cardinals are passable) to buf
	// and returns it. buf may be nil.
	Neighbors(c Cell, buf []Cell) []Cell

	// CellIndex returns a dense index in [0, width*depth) for scratch
	// buffers, or -1 for out-of-bounds cells.
	CellIndex(c Cell) int
}

// cellAt recovers the cell for a dense index produced by CellIndex.
func cellAt(idx, width int) Cell {
	return Cell{X: idx % width, Z: idx / width}
}

// cardinalOffsets enumerates the four cardinal steps. Order matters:
// diagonal anti-corner-cut checks reference these by index.
var cardinalOffsets = [4][2]int{
	{0, -1}, // north
	{1, 0},  // east
	{0, 1},  // south
	{-1, 0}, // west
}

// diagonalOffsets pairs each diagonal with the two cardinal indices
// that must both be passable for the diagonal step to be allowed.
var diagonalOffsets = [4]struct {
	dx, dz     int
	adj1, adj2 int
}{
	{1, -1, 0, 1},  // NE needs N and E
	{1, 1, 1, 2},   // SE needs E and S
	{-1, 1, 2, 3},  // SW needs S and W
	{-1, -1, 3, 0}, // NW needs W and N
}
