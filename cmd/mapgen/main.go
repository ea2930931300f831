// mapgen generates map geometry and writes it to the map store.
// Terrain maps come from deterministic Perlin noise, tile maps from
// seeded wall scattering, so re-running with the same seed reproduces
// the same world.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/dkoval/navgrid/internal/config"
	"github.com/dkoval/navgrid/internal/db"
	"github.com/dkoval/navgrid/internal/model"
	"github.com/dkoval/navgrid/internal/world"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		slog.Info("shutting down", "signal", sig)
		cancel()
	}()

	if err := run(ctx); err != nil {
		slog.Error("fatal", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	var (
		cfgPath = flag.String("config", "config/navgrid.yaml", "config file path")
		prefix  = flag.String("prefix", "world", "map id prefix")
		count   = flag.Int("count", 1, "number of maps to generate")
		kind    = flag.String("kind", db.KindTerrain, "map kind: tile or terrain")
		seed    = flag.Int64("seed", 1, "generation seed")
		size    = flag.Int("size", 256, "map size in cells per side")
		walls   = flag.Int("walls", 24, "wall count for tile maps")
	)
	flag.Parse()

	cfg, err := config.LoadServer(*cfgPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.LogLevel),
	})))

	database, err := db.New(ctx, cfg.Database.DSN())
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	defer database.Close()

	if err := db.RunMigrations(ctx, cfg.Database.DSN()); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	slog.Info("database ready", "host", cfg.Database.Host, "db", cfg.Database.DBName)

	repo := db.NewMapRepository(database.Pool())

	g, gctx := errgroup.WithContext(ctx)
	for i := range *count {
		id := model.MapID(fmt.Sprintf("%s-%d", *prefix, i+1))
		gen := world.NewGenerator(*seed + int64(i))

		g.Go(func() error {
			switch *kind {
			case db.KindTerrain:
				t := gen.Terrain(id, *size, *size, cfg.Nav.CellSize)
				if err := repo.SaveTerrain(gctx, t); err != nil {
					return fmt.Errorf("saving terrain %q: %w", id, err)
				}
			case db.KindTile:
				extent := float64(*size) * cfg.Nav.CellSize
				m := gen.TileMap(id, extent, extent, *walls)
				if err := repo.SaveTileMap(gctx, m, cfg.Nav.CellSize); err != nil {
					return fmt.Errorf("saving tile map %q: %w", id, err)
				}
			default:
				return fmt.Errorf("unknown map kind %q", *kind)
			}

			slog.Info("map generated", "map", id, "kind", *kind, "size", *size)
			return nil
		})
	}

	return g.Wait()
}

func parseLogLevel(s string) slog.Level {
	switch s {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
