// Package movement turns "move entity E to point P" intents into
// movement-state transitions: direct motion, a waypoint path, or idle
// when no route exists. It is the only part of the navigation subsystem
// with side effects; everything it calls is a pure computation over an
// immutable grid.
package movement

import (
	"context"
	"errors"
	"log/slog"

	"github.com/dkoval/navgrid/internal/config"
	"github.com/dkoval/navgrid/internal/model"
	"github.com/dkoval/navgrid/internal/nav"
)

// PositionProvider exposes the current position of an entity as a
// point-in-time snapshot. The orchestrator only reads it.
type PositionProvider interface {
	Position(id model.EntityID) (model.PositionSnapshot, bool)
}

// MoverClassifier reports whether an entity is AI-controlled. Consulted
// once per intent to gate the line-of-sight shortcut.
type MoverClassifier interface {
	IsAIControlled(id model.EntityID) bool
}

// StateSink accepts exactly one movement-state transition per handled
// intent. model.MovementStore satisfies it.
type StateSink interface {
	SetMovement(id model.EntityID, state model.MovementState)
}

// GridSource yields the navigation grid for a map key. nav.Cache
// satisfies it.
type GridSource interface {
	Get(ctx context.Context, id model.MapID) (nav.Grid, error)
}

// Intent is one "move entity to position" request.
type Intent struct {
	Entity model.EntityID
	Target model.Vec3
}

// Orchestrator handles move intents for one world. The same type serves
// flat and terrain maps; flat maps are configured with SnapRadius 0
// because their continuous positions always land on a valid cell index.
type Orchestrator struct {
	grids     GridSource
	positions PositionProvider
	movers    MoverClassifier
	sink      StateSink
	finder    *nav.PathFinder

	freeMoveDistance float64
	snapRadius       int
}

// New creates an Orchestrator wired to its collaborators.
func New(grids GridSource, positions PositionProvider, movers MoverClassifier, sink StateSink, finder *nav.PathFinder, cfg config.Nav) *Orchestrator {
	return &Orchestrator{
		grids:            grids,
		positions:        positions,
		movers:           movers,
		sink:             sink,
		finder:           finder,
		freeMoveDistance: cfg.FreeMoveDistance,
		snapRadius:       cfg.SnapRadius,
	}
}

// HandleMoveIntent resolves one intent synchronously and publishes at
// most one movement-state transition:
//
//   - entity has no known position: the intent is dropped silently
//     (it may have just despawned), no transition
//   - player-controlled, close enough and clear line of sight: direct
//     motion toward the target
//   - otherwise: full path search; path motion on success, idle on
//     failure (idle is the user-visible "no route" signal)
//
// AI movers never take the direct-motion shortcut: the static grid does
// not model everything they can collide with, and a clipped corner that
// looks fine for a player click leaves an AI stuck against it.
func (o *Orchestrator) HandleMoveIntent(ctx context.Context, id model.EntityID, target model.Vec3) {
	snap, ok := o.positions.Position(id)
	if !ok {
		slog.Debug("move intent for unknown entity", "entity", id)
		return
	}

	grid, err := o.grids.Get(ctx, snap.Map)
	if err != nil {
		slog.Warn("no navigation grid for move intent", "entity", id, "map", snap.Map, "err", err)
		return
	}

	startCell, startOK := o.resolveCell(grid, snap.Pos)
	goalCell, goalOK := o.resolveCell(grid, target)

	if !o.movers.IsAIControlled(id) &&
		snap.Pos.GroundDistance(target) <= o.freeMoveDistance &&
		nav.HasLineOfSight(grid, snap.Pos, target) {
		o.sink.SetMovement(id, model.DirectTo(target))
		return
	}

	if !startOK || !goalOK {
		// Snapping failed; search on the raw cells will fail naturally
		// and the entity idles instead of faulting.
		slog.Debug("unsnappable move intent", "entity", id, "map", snap.Map)
	}

	path, err := o.finder.FindPath(grid, startCell, goalCell)
	if err != nil {
		if !errors.Is(err, nav.ErrNoPath) {
			slog.Warn("path search failed", "entity", id, "map", snap.Map, "err", err)
		}
		o.sink.SetMovement(id, model.Idle())
		return
	}
	if len(path) == 0 {
		// Start and goal share a cell — already arrived.
		o.sink.SetMovement(id, model.Idle())
		return
	}

	o.sink.SetMovement(id, model.AlongPath(path))
}

// resolveCell maps a continuous position to a walkable cell, snapping
// within the configured radius when the position does not land on one.
// With snapping disabled or exhausted it returns the raw cell and false.
func (o *Orchestrator) resolveCell(grid nav.Grid, pos model.Vec3) (nav.Cell, bool) {
	cell := grid.WorldToCell(pos)
	if grid.IsWalkable(cell) {
		return cell, true
	}
	if o.snapRadius > 0 {
		if snapped, ok := nav.SnapToWalkable(grid, pos, o.snapRadius); ok {
			return snapped, true
		}
	}
	return cell, false
}

// Run consumes intents in delivery order until the context is done.
// Intents are handled strictly sequentially: no reordering, no
// coalescing. Two intents for the same entity in one frame resolve by
// last-write-wins in the state sink.
func (o *Orchestrator) Run(ctx context.Context, intents <-chan Intent) {
	for {
		select {
		case <-ctx.Done():
			return
		case in, ok := <-intents:
			if !ok {
				return
			}
			o.HandleMoveIntent(ctx, in.Entity, in.Target)
		}
	}
}
