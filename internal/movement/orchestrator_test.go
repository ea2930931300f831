package movement

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkoval/navgrid/internal/config"
	"github.com/dkoval/navgrid/internal/model"
	"github.com/dkoval/navgrid/internal/nav"
	"github.com/dkoval/navgrid/internal/world"
)

// fakeProjection is an in-memory PositionProvider.
type fakeProjection map[model.EntityID]model.PositionSnapshot

func (f fakeProjection) Position(id model.EntityID) (model.PositionSnapshot, bool) {
	snap, ok := f[id]
	return snap, ok
}

// fakeClassifier marks listed entities as AI-controlled.
type fakeClassifier map[model.EntityID]bool

func (f fakeClassifier) IsAIControlled(id model.EntityID) bool { return f[id] }

// recordingSink counts transitions so tests can assert "exactly one per
// intent".
type recordingSink struct {
	store       *model.MovementStore
	transitions int
}

func (s *recordingSink) SetMovement(id model.EntityID, st model.MovementState) {
	s.transitions++
	s.store.SetMovement(id, st)
}

// staticGrids serves one prebuilt grid for every map key it knows.
type staticGrids map[model.MapID]nav.Grid

func (s staticGrids) Get(ctx context.Context, id model.MapID) (nav.Grid, error) {
	g, ok := s[id]
	if !ok {
		return nil, nav.ErrUnknownMap
	}
	return g, nil
}

// wallGapGrid mirrors the canonical nav test fixture: 10x10, wall at
// x=5, gap at z=5.
func wallGapGrid(t *testing.T) nav.Grid {
	t.Helper()
	m := &world.TileMap{
		ID:    "arena",
		Width: 10,
		Depth: 10,
		Walls: []world.Rect{
			{MinX: 5, MinZ: 0, MaxX: 6, MaxZ: 5},
			{MinX: 5, MinZ: 6, MaxX: 6, MaxZ: 10},
		},
	}
	return nav.BuildTileGrid(m, 1, 0)
}

func terrainGrid(t *testing.T) nav.Grid {
	t.Helper()
	terr := world.NewTerrain("highlands", 10, 10, 1)
	for cz := 0; cz < 10; cz++ {
		for cx := 2; cx < 10; cx++ {
			terr.SetColumn(cx, cz, 1.5)
		}
	}
	return nav.BuildTerrainGrid(terr, 0, 1)
}

type fixture struct {
	orch       *Orchestrator
	projection fakeProjection
	classifier fakeClassifier
	sink       *recordingSink
}

func newFixture(t *testing.T, grids staticGrids, cfg config.Nav) *fixture {
	t.Helper()
	f := &fixture{
		projection: fakeProjection{},
		classifier: fakeClassifier{},
		sink:       &recordingSink{store: model.NewMovementStore()},
	}
	finder := nav.NewPathFinder(nav.SearchOptions{
		MaxExpansions: cfg.MaxExpansions,
		PreferRecent:  cfg.PreferRecent,
	})
	f.orch = New(grids, f.projection, f.classifier, f.sink, finder, cfg)
	return f
}

func TestHandleMoveIntentDirectMotion(t *testing.T) {
	f := newFixture(t, staticGrids{"arena": wallGapGrid(t)}, config.DefaultNav())
	f.projection[1] = model.PositionSnapshot{Map: "arena", Pos: model.Vec3{X: 1.5, Z: 1.5}}

	target := model.Vec3{X: 3.5, Z: 2.5}
	f.orch.HandleMoveIntent(context.Background(), 1, target)

	st := f.sink.store.Movement(1)
	assert.Equal(t, model.MoveDirect, st.Mode, "short unobstructed player move goes direct")
	assert.Equal(t, target, st.Target)
	assert.Equal(t, 1, f.sink.transitions)
}

func TestHandleMoveIntentAINeverDirect(t *testing.T) {
	f := newFixture(t, staticGrids{"arena": wallGapGrid(t)}, config.DefaultNav())
	f.projection[7] = model.PositionSnapshot{Map: "arena", Pos: model.Vec3{X: 1.5, Z: 1.5}}
	f.classifier[7] = true

	f.orch.HandleMoveIntent(context.Background(), 7, model.Vec3{X: 3.5, Z: 2.5})

	st := f.sink.store.Movement(7)
	assert.Equal(t, model.MovePath, st.Mode, "AI movers always path, even close with clear LOS")
	assert.NotEmpty(t, st.Waypoints)
}

func TestHandleMoveIntentPathAroundWall(t *testing.T) {
	f := newFixture(t, staticGrids{"arena": wallGapGrid(t)}, config.DefaultNav())
	f.projection[2] = model.PositionSnapshot{Map: "arena", Pos: model.Vec3{X: 0.5, Z: 2.5}}

	f.orch.HandleMoveIntent(context.Background(), 2, model.Vec3{X: 9.5, Z: 2.5})

	st := f.sink.store.Movement(2)
	require.Equal(t, model.MovePath, st.Mode, "wall blocks LOS and target is far, so search runs")

	grid := wallGapGrid(t)
	sawGap := false
	for _, wp := range st.Waypoints {
		if grid.WorldToCell(wp) == (nav.Cell{X: 5, Z: 5}) {
			sawGap = true
		}
	}
	assert.True(t, sawGap, "route threads the wall gap")
	assert.Equal(t, 1, f.sink.transitions)
}

func TestHandleMoveIntentUnknownEntityDropped(t *testing.T) {
	f := newFixture(t, staticGrids{"arena": wallGapGrid(t)}, config.DefaultNav())

	f.orch.HandleMoveIntent(context.Background(), 99, model.Vec3{X: 3, Z: 3})

	assert.Zero(t, f.sink.transitions, "despawned entities get no state transition")
}

func TestHandleMoveIntentUnknownMapDropped(t *testing.T) {
	f := newFixture(t, staticGrids{}, config.DefaultNav())
	f.projection[3] = model.PositionSnapshot{Map: "gone", Pos: model.Vec3{X: 1, Z: 1}}

	f.orch.HandleMoveIntent(context.Background(), 3, model.Vec3{X: 5, Z: 5})

	assert.Zero(t, f.sink.transitions)
}

func TestHandleMoveIntentUnreachableIdles(t *testing.T) {
	// Target inside the wall, far enough that the direct shortcut does
	// not apply, with snapping disabled.
	cfg := config.DefaultNav()
	cfg.SnapRadius = 0
	f := newFixture(t, staticGrids{"arena": wallGapGrid(t)}, cfg)
	f.projection[4] = model.PositionSnapshot{Map: "arena", Pos: model.Vec3{X: 0.5, Z: 0.5}}

	f.orch.HandleMoveIntent(context.Background(), 4, model.Vec3{X: 5.5, Z: 8.5})

	st := f.sink.store.Movement(4)
	assert.Equal(t, model.MoveIdle, st.Mode, "no route is published as idle, not an error")
	assert.Equal(t, 1, f.sink.transitions)
}

func TestHandleMoveIntentAlreadyArrived(t *testing.T) {
	cfg := config.DefaultNav()
	f := newFixture(t, staticGrids{"arena": wallGapGrid(t)}, cfg)
	f.projection[5] = model.PositionSnapshot{Map: "arena", Pos: model.Vec3{X: 2.5, Z: 2.5}}
	f.classifier[5] = true // skip the direct shortcut

	f.orch.HandleMoveIntent(context.Background(), 5, model.Vec3{X: 2.7, Z: 2.4})

	st := f.sink.store.Movement(5)
	assert.Equal(t, model.MoveIdle, st.Mode, "same-cell target means already arrived")
}

func TestHandleMoveIntentSnapsOffGridPosition(t *testing.T) {
	f := newFixture(t, staticGrids{"highlands": terrainGrid(t)}, config.DefaultNav())
	f.classifier[6] = true

	// Standing 0.4 units off the walkable plateau edge.
	f.projection[6] = model.PositionSnapshot{Map: "highlands", Pos: model.Vec3{X: 1.6, Z: 4.5}}

	f.orch.HandleMoveIntent(context.Background(), 6, model.Vec3{X: 8.5, Z: 4.5})

	st := f.sink.store.Movement(6)
	require.Equal(t, model.MovePath, st.Mode, "snapped start still produces a route")
	assert.NotEmpty(t, st.Waypoints)
	assert.InDelta(t, 1.5, st.Waypoints[0].Y, 1e-9, "waypoints carry terrain surface height")
}

func TestHandleMoveIntentLastWriteWins(t *testing.T) {
	f := newFixture(t, staticGrids{"arena": wallGapGrid(t)}, config.DefaultNav())
	f.projection[8] = model.PositionSnapshot{Map: "arena", Pos: model.Vec3{X: 0.5, Z: 5.5}}
	f.classifier[8] = true

	ctx := context.Background()
	f.orch.HandleMoveIntent(ctx, 8, model.Vec3{X: 9.5, Z: 5.5})
	first := f.sink.store.Movement(8)
	require.Equal(t, model.MovePath, first.Mode)

	f.orch.HandleMoveIntent(ctx, 8, model.Vec3{X: 0.5, Z: 9.5})
	second := f.sink.store.Movement(8)

	assert.Equal(t, 2, f.sink.transitions, "one transition per handled intent")
	assert.NotEqual(t, first.Waypoints, second.Waypoints, "second intent overwrote the first")
}

func TestRunHandlesIntentsInOrder(t *testing.T) {
	f := newFixture(t, staticGrids{"arena": wallGapGrid(t)}, config.DefaultNav())
	f.projection[9] = model.PositionSnapshot{Map: "arena", Pos: model.Vec3{X: 0.5, Z: 5.5}}
	f.classifier[9] = true

	intents := make(chan Intent, 2)
	intents <- Intent{Entity: 9, Target: model.Vec3{X: 9.5, Z: 5.5}}
	intents <- Intent{Entity: 9, Target: model.Vec3{X: 0.5, Z: 0.5}}
	close(intents)

	f.orch.Run(context.Background(), intents)

	st := f.sink.store.Movement(9)
	require.Equal(t, model.MovePath, st.Mode)
	last := st.Waypoints[len(st.Waypoints)-1]
	grid := wallGapGrid(t)
	assert.Equal(t, nav.Cell{X: 0, Z: 0}, grid.WorldToCell(last),
		"the later intent's destination wins")
}
