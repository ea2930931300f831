package nav

import (
	"container/heap"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/dkoval/navgrid/internal/model"
)

// SearchOptions tunes the path finder.
type SearchOptions struct {
	// MaxExpansions caps the number of cells the search may expand.
	// 0 means bounded only by the grid size.
	MaxExpansions int

	// PreferRecent breaks f-cost ties toward the most recently
	// discovered node. Affects path shape on equal-cost branches, not
	// optimality.
	PreferRecent bool

	// Metrics receives search counters and timings. Optional.
	Metrics *Metrics
}

// PathFinder runs A* over any Grid. Scratch buffers are pooled and
// reused across queries; each query is otherwise independent, so a
// single finder serves every map and every entity.
type PathFinder struct {
	maxExpansions int
	preferRecent  bool
	metrics       *Metrics
	pool          sync.Pool
}

// NewPathFinder creates a PathFinder with the given options.
func NewPathFinder(opts SearchOptions) *PathFinder {
	f := &PathFinder{
		maxExpansions: opts.MaxExpansions,
		preferRecent:  opts.PreferRecent,
		metrics:       opts.Metrics,
	}
	f.pool.New = func() any { return newSearchScratch(opts.PreferRecent) }
	return f
}

// FindPath searches for a shortest path between the cells containing
// start and goal and returns it as world-space waypoints, start cell
// excluded, goal cell included. Step cost and heuristic are Euclidean
// ground-plane distances, so the first goal expansion is optimal.
//
// A start or goal on a non-walkable cell returns ErrNoPath; callers
// wanting recovery snap first (see SnapToWalkable). Identical start and
// goal cells return an empty path, meaning "already arrived".
func (f *PathFinder) FindPath(g Grid, start, goal Cell) ([]model.Vec3, error) {
	began := time.Now()

	path, expansions, err := f.findPath(g, start, goal)

	if f.metrics != nil {
		f.metrics.observeSearch(time.Since(began), expansions, err)
	}
	return path, err
}

func (f *PathFinder) findPath(g Grid, start, goal Cell) ([]model.Vec3, int, error) {
	startIdx := g.CellIndex(start)
	goalIdx := g.CellIndex(goal)

	if startIdx < 0 || !g.IsWalkable(start) {
		return nil, 0, fmt.Errorf("start cell (%d,%d) not walkable: %w", start.X, start.Z, ErrNoPath)
	}
	if goalIdx < 0 || !g.IsWalkable(goal) {
		return nil, 0, fmt.Errorf("goal cell (%d,%d) not walkable: %w", goal.X, goal.Z, ErrNoPath)
	}
	if startIdx == goalIdx {
		return []model.Vec3{}, 0, nil // already arrived
	}

	width, depth := g.Size()
	cellSize := g.CellSize()

	s := f.pool.Get().(*searchScratch)
	defer f.releaseScratch(s)
	s.ensure(width * depth)

	goalX := float64(goal.X)
	goalZ := float64(goal.Z)
	h := func(c Cell) float64 {
		dx := float64(c.X) - goalX
		dz := float64(c.Z) - goalZ
		return math.Hypot(dx, dz) * cellSize
	}

	s.discover(int32(startIdx), -1, 0)
	s.push(pathNode{idx: int32(startIdx), cell: start, f: h(start)})

	expansions := 0
	neighborBuf := make([]Cell, 0, 8)

	for s.open.Len() > 0 {
		n := s.pop()

		if s.state[n.idx] == stateClosed {
			continue // stale open entry, already expanded via a cheaper route
		}
		s.state[n.idx] = stateClosed

		if int(n.idx) == goalIdx {
			return f.reconstruct(g, s, goalIdx, width), expansions, nil
		}

		expansions++
		if f.maxExpansions > 0 && expansions > f.maxExpansions {
			return nil, expansions, fmt.Errorf("expansion budget %d exceeded: %w", f.maxExpansions, ErrNoPath)
		}

		neighborBuf = g.Neighbors(n.cell, neighborBuf[:0])
		for _, nb := range neighborBuf {
			ni := int32(g.CellIndex(nb))
			if s.state[ni] == stateClosed {
				continue
			}

			dx := float64(nb.X - n.cell.X)
			dz := float64(nb.Z - n.cell.Z)
			tentative := s.g[n.idx] + math.Hypot(dx, dz)*cellSize

			if s.state[ni] == stateOpen && tentative >= s.g[ni] {
				continue
			}

			s.discover(ni, n.idx, tentative)
			s.push(pathNode{idx: ni, cell: nb, f: tentative + h(nb)})
		}
	}

	return nil, expansions, fmt.Errorf("open set exhausted: %w", ErrNoPath)
}

// reconstruct walks parent links from the goal back to the start and
// reverses them into world-space waypoints. The start cell is excluded;
// the mover is already standing on it.
func (f *PathFinder) reconstruct(g Grid, s *searchScratch, goalIdx, width int) []model.Vec3 {
	path := make([]model.Vec3, 0, 16)
	for idx := int32(goalIdx); s.parent[idx] >= 0; idx = s.parent[idx] {
		path = append(path, g.CellToWorld(cellAt(int(idx), width)))
	}

	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

// releaseScratch resets per-query state before the scratch returns to
// the pool. Reset touches only the cells written by this query.
func (f *PathFinder) releaseScratch(s *searchScratch) {
	s.reset()
	f.pool.Put(s)
}

// Node states in the dense scratch arrays.
const (
	stateUnseen uint8 = iota
	stateOpen
	stateClosed
)

// searchScratch holds the per-query open list and the dense per-cell
// arrays, indexed by Grid.CellIndex rather than hashed coordinates.
// Instances are pooled; reset discipline is explicit (see reset) and
// covered by tests.
type searchScratch struct {
	g       []float64
	parent  []int32
	state   []uint8
	touched []int32
	open    nodeHeap
	seq     int32
}

func newSearchScratch(preferRecent bool) *searchScratch {
	return &searchScratch{open: nodeHeap{preferRecent: preferRecent}}
}

// ensure grows the dense arrays to cover a grid of n cells.
func (s *searchScratch) ensure(n int) {
	if len(s.state) >= n {
		return
	}
	s.g = make([]float64, n)
	s.parent = make([]int32, n)
	s.state = make([]uint8, n)
}

// discover records or improves the route to a cell.
func (s *searchScratch) discover(idx, parent int32, gCost float64) {
	if s.state[idx] == stateUnseen {
		s.touched = append(s.touched, idx)
	}
	s.state[idx] = stateOpen
	s.parent[idx] = parent
	s.g[idx] = gCost
}

func (s *searchScratch) push(n pathNode) {
	s.seq++
	n.seq = s.seq
	heap.Push(&s.open, n)
}

func (s *searchScratch) pop() pathNode {
	return heap.Pop(&s.open).(pathNode)
}

// reset clears exactly the state written since the last reset: the
// touched dense entries, the open list, and the discovery sequence.
func (s *searchScratch) reset() {
	for _, idx := range s.touched {
		s.state[idx] = stateUnseen
		s.parent[idx] = 0
		s.g[idx] = 0
	}
	s.touched = s.touched[:0]
	s.open.nodes = s.open.nodes[:0]
	s.seq = 0
}

// pathNode is one open-list entry. Entries are small values; stale
// duplicates are skipped at pop time via the closed state.
type pathNode struct {
	idx  int32
	cell Cell
	f    float64
	seq  int32
}

// nodeHeap implements container/heap for the A* open list (min-heap by
// f-cost). With preferRecent set, equal f-costs order the most recently
// discovered node first, which trims visually redundant equal-cost
// branches.
type nodeHeap struct {
	nodes        []pathNode
	preferRecent bool
}

func (h *nodeHeap) Len() int { return len(h.nodes) }

func (h *nodeHeap) Less(i, j int) bool {
	a, b := h.nodes[i], h.nodes[j]
	if a.f != b.f {
		return a.f < b.f
	}
	if h.preferRecent {
		return a.seq > b.seq
	}
	return a.seq < b.seq
}

func (h *nodeHeap) Swap(i, j int) { h.nodes[i], h.nodes[j] = h.nodes[j], h.nodes[i] }

func (h *nodeHeap) Push(x any) { h.nodes = append(h.nodes, x.(pathNode)) }

func (h *nodeHeap) Pop() any {
	old := h.nodes
	n := len(old)
	node := old[n-1]
	h.nodes = old[:n-1]
	return node
}
