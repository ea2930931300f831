package nav

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dkoval/navgrid/internal/model"
)

func TestHasLineOfSightClear(t *testing.T) {
	g := openGrid(t, 10)

	assert.True(t, HasLineOfSight(g, model.Vec3{X: 0.5, Z: 0.5}, model.Vec3{X: 9.5, Z: 9.5}))
	assert.True(t, HasLineOfSight(g, model.Vec3{X: 2.5, Z: 2.5}, model.Vec3{X: 2.5, Z: 2.5}), "degenerate segment")
}

func TestHasLineOfSightBlockedByWall(t *testing.T) {
	g := wallGapGrid(t)

	from := model.Vec3{X: 0.5, Z: 2.5}
	to := model.Vec3{X: 9.5, Z: 2.5}
	assert.False(t, HasLineOfSight(g, from, to), "segment crosses the wall at x=5")

	throughGap := model.Vec3{X: 0.5, Z: 5.5}
	target := model.Vec3{X: 9.5, Z: 5.5}
	assert.True(t, HasLineOfSight(g, throughGap, target), "gap row is clear")
}

func TestHasLineOfSightOffGrid(t *testing.T) {
	g := openGrid(t, 10)

	assert.False(t, HasLineOfSight(g, model.Vec3{X: -3, Z: 5}, model.Vec3{X: 5, Z: 5}),
		"segments starting off-grid cross non-walkable cells")
}

// TestHasLineOfSightSoundness pins the defining property: a true
// result means every cell the traced segment passes through is
// walkable.
func TestHasLineOfSightSoundness(t *testing.T) {
	g := wallGapGrid(t)

	cases := []struct{ fx, fz, tx, tz float64 }{
		{0.5, 5.5, 9.5, 5.5},
		{0.5, 0.5, 4.5, 9.5},
		{1.2, 8.7, 3.4, 0.3},
	}
	for _, tc := range cases {
		from := model.Vec3{X: tc.fx, Z: tc.fz}
		to := model.Vec3{X: tc.tx, Z: tc.tz}
		if !HasLineOfSight(g, from, to) {
			continue
		}

		start := g.WorldToCell(from)
		end := g.WorldToCell(to)
		it := NewLineIterator(start.X, start.Z, end.X, end.Z)
		for it.Next() {
			assert.True(t, g.IsWalkable(Cell{X: it.X(), Z: it.Z()}),
				"clear LOS but traced cell (%d,%d) is blocked", it.X(), it.Z())
		}
	}
}
