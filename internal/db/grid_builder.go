package db

import (
	"context"
	"fmt"

	"github.com/dkoval/navgrid/internal/config"
	"github.com/dkoval/navgrid/internal/model"
	"github.com/dkoval/navgrid/internal/nav"
)

// NewGridBuilder returns a nav.GridBuilder that reads map geometry from
// the repository and bakes the matching grid representation. This is the
// production geometry provider: the cache calls it once per map key.
func NewGridBuilder(repo *MapRepository, cfg config.Nav) nav.GridBuilder {
	return func(ctx context.Context, id model.MapID) (nav.Grid, error) {
		kind, err := repo.Kind(ctx, id)
		if err != nil {
			return nil, err
		}

		switch kind {
		case KindTile:
			m, err := repo.LoadTileMap(ctx, id)
			if err != nil {
				return nil, err
			}
			if m == nil {
				return nil, nav.ErrUnknownMap
			}
			return nav.BuildTileGrid(m, cfg.CellSize, cfg.MoverRadius), nil

		case KindTerrain:
			t, err := repo.LoadTerrain(ctx, id)
			if err != nil {
				return nil, err
			}
			if t == nil {
				return nil, nav.ErrUnknownMap
			}
			return nav.BuildTerrainGrid(t, cfg.MoverRadius, cfg.MaxStepHeight), nil

		case "":
			return nil, nav.ErrUnknownMap

		default:
			return nil, fmt.Errorf("map %q has unsupported kind %q", id, kind)
		}
	}
}
