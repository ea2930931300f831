package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dkoval/navgrid/internal/model"
	"github.com/dkoval/navgrid/internal/world"
)

// Map kinds stored in the maps table.
const (
	KindTile    = "tile"
	KindTerrain = "terrain"
)

// MapRepository persists authored and generated map geometry.
// Geometry is written once by the baking tools and read once per map
// key at grid-build time.
type MapRepository struct {
	db *pgxpool.Pool
}

// NewMapRepository creates a new MapRepository.
func NewMapRepository(db *pgxpool.Pool) *MapRepository {
	return &MapRepository{db: db}
}

// Kind returns the stored kind of a map ("tile" or "terrain").
// Returns "" with no error if the map does not exist.
func (r *MapRepository) Kind(ctx context.Context, id model.MapID) (string, error) {
	var kind string
	err := r.db.QueryRow(ctx,
		`SELECT kind FROM maps WHERE map_id = $1`, string(id),
	).Scan(&kind)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("querying map %q: %w", id, err)
	}
	return kind, nil
}

// ListMaps returns the IDs of all stored maps.
func (r *MapRepository) ListMaps(ctx context.Context) ([]model.MapID, error) {
	rows, err := r.db.Query(ctx, `SELECT map_id FROM maps ORDER BY map_id`)
	if err != nil {
		return nil, fmt.Errorf("listing maps: %w", err)
	}
	defer rows.Close()

	var ids []model.MapID
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning map id: %w", err)
		}
		ids = append(ids, model.MapID(id))
	}
	return ids, rows.Err()
}

// SaveTileMap stores a tile map, replacing any previous geometry under
// the same key.
func (r *MapRepository) SaveTileMap(ctx context.Context, m *world.TileMap, cellSize float64) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM maps WHERE map_id = $1`, string(m.ID)); err != nil {
		return fmt.Errorf("deleting old map %q: %w", m.ID, err)
	}

	if _, err := tx.Exec(ctx,
		`INSERT INTO maps (map_id, kind, width, depth, cell_size) VALUES ($1, $2, $3, $4, $5)`,
		string(m.ID), KindTile, m.Width, m.Depth, cellSize,
	); err != nil {
		return fmt.Errorf("inserting map %q: %w", m.ID, err)
	}

	for _, w := range m.Walls {
		if _, err := tx.Exec(ctx,
			`INSERT INTO map_walls (map_id, min_x, min_z, max_x, max_z) VALUES ($1, $2, $3, $4, $5)`,
			string(m.ID), w.MinX, w.MinZ, w.MaxX, w.MaxZ,
		); err != nil {
			return fmt.Errorf("inserting wall for map %q: %w", m.ID, err)
		}
	}

	return tx.Commit(ctx)
}

// LoadTileMap loads the tile map stored under the key.
// Returns nil, nil if the map does not exist.
func (r *MapRepository) LoadTileMap(ctx context.Context, id model.MapID) (*world.TileMap, error) {
	m := &world.TileMap{ID: id}
	err := r.db.QueryRow(ctx,
		`SELECT width, depth FROM maps WHERE map_id = $1 AND kind = $2`,
		string(id), KindTile,
	).Scan(&m.Width, &m.Depth)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying tile map %q: %w", id, err)
	}

	rows, err := r.db.Query(ctx,
		`SELECT min_x, min_z, max_x, max_z FROM map_walls WHERE map_id = $1`,
		string(id),
	)
	if err != nil {
		return nil, fmt.Errorf("querying walls for map %q: %w", id, err)
	}
	defer rows.Close()

	for rows.Next() {
		var w world.Rect
		if err := rows.Scan(&w.MinX, &w.MinZ, &w.MaxX, &w.MaxZ); err != nil {
			return nil, fmt.Errorf("scanning wall for map %q: %w", id, err)
		}
		m.Walls = append(m.Walls, w)
	}
	return m, rows.Err()
}

// SaveTerrain stores terrain geometry, replacing any previous geometry
// under the same key. Columns are written with COPY; only columns with
// a surface or a solid block are stored.
func (r *MapRepository) SaveTerrain(ctx context.Context, t *world.Terrain) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM maps WHERE map_id = $1`, string(t.ID)); err != nil {
		return fmt.Errorf("deleting old map %q: %w", t.ID, err)
	}

	if _, err := tx.Exec(ctx,
		`INSERT INTO maps (map_id, kind, width, depth, cell_size) VALUES ($1, $2, $3, $4, $5)`,
		string(t.ID), KindTerrain, float64(t.Width), float64(t.Depth), t.CellSize,
	); err != nil {
		return fmt.Errorf("inserting map %q: %w", t.ID, err)
	}

	var cols [][]any
	for cz := 0; cz < t.Depth; cz++ {
		for cx := 0; cx < t.Width; cx++ {
			h, ok := t.SurfaceHeight(cx, cz)
			solid := t.Solid(cx, cz)
			if !ok && !solid {
				continue
			}
			var height *float64
			if ok {
				height = &h
			}
			cols = append(cols, []any{string(t.ID), cx, cz, height, solid})
		}
	}

	if _, err := tx.CopyFrom(ctx,
		pgx.Identifier{"terrain_columns"},
		[]string{"map_id", "x", "z", "height", "solid"},
		pgx.CopyFromRows(cols),
	); err != nil {
		return fmt.Errorf("copying terrain columns for map %q: %w", t.ID, err)
	}

	return tx.Commit(ctx)
}

// LoadTerrain loads the terrain stored under the key.
// Returns nil, nil if the map does not exist.
func (r *MapRepository) LoadTerrain(ctx context.Context, id model.MapID) (*world.Terrain, error) {
	var width, depth, cellSize float64
	err := r.db.QueryRow(ctx,
		`SELECT width, depth, cell_size FROM maps WHERE map_id = $1 AND kind = $2`,
		string(id), KindTerrain,
	).Scan(&width, &depth, &cellSize)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying terrain %q: %w", id, err)
	}

	t := world.NewTerrain(id, int(width), int(depth), cellSize)

	rows, err := r.db.Query(ctx,
		`SELECT x, z, height, solid FROM terrain_columns WHERE map_id = $1`,
		string(id),
	)
	if err != nil {
		return nil, fmt.Errorf("querying terrain columns %q: %w", id, err)
	}
	defer rows.Close()

	for rows.Next() {
		var x, z int
		var height *float64
		var solid bool
		if err := rows.Scan(&x, &z, &height, &solid); err != nil {
			return nil, fmt.Errorf("scanning terrain column %q: %w", id, err)
		}
		if height != nil {
			t.SetColumn(x, z, *height)
		}
		t.SetSolid(x, z, solid)
	}
	return t, rows.Err()
}
