// pathprobe loads stored maps, bakes their navigation grids and runs
// randomized path queries against them. Used to sanity-check baked
// geometry and to eyeball search cost before a map ships.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dkoval/navgrid/internal/config"
	"github.com/dkoval/navgrid/internal/db"
	"github.com/dkoval/navgrid/internal/model"
	"github.com/dkoval/navgrid/internal/nav"
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
		mapID   = flag.String("map", "", "probe a single map (default: all stored maps)")
		probes  = flag.Int("probes", 100, "path queries per map")
		seed    = flag.Int64("seed", time.Now().UnixNano(), "probe position seed")
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

	repo := db.NewMapRepository(database.Pool())

	reg := prometheus.NewRegistry()
	metrics := nav.NewMetrics(reg)

	if cfg.MetricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
		go func() {
			slog.Info("metrics endpoint up", "addr", cfg.MetricsAddr)
			if err := http.ListenAndServe(cfg.MetricsAddr, mux); err != nil {
				slog.Warn("metrics endpoint stopped", "err", err)
			}
		}()
	}

	cache := nav.NewCache(db.NewGridBuilder(repo, cfg.Nav), metrics)
	finder := nav.NewPathFinder(nav.SearchOptions{
		MaxExpansions: cfg.Nav.MaxExpansions,
		PreferRecent:  cfg.Nav.PreferRecent,
		Metrics:       metrics,
	})

	var ids []model.MapID
	if *mapID != "" {
		ids = []model.MapID{model.MapID(*mapID)}
	} else {
		ids, err = repo.ListMaps(ctx)
		if err != nil {
			return fmt.Errorf("listing maps: %w", err)
		}
	}
	if len(ids) == 0 {
		return fmt.Errorf("no maps stored, run mapgen first")
	}

	rng := rand.New(rand.NewSource(*seed))
	for _, id := range ids {
		if err := probeMap(ctx, cache, finder, cfg.Nav, id, *probes, rng); err != nil {
			return err
		}
	}
	return nil
}

// probeMap runs random start/goal queries on one map and logs a summary.
func probeMap(ctx context.Context, cache *nav.Cache, finder *nav.PathFinder, cfg config.Nav, id model.MapID, probes int, rng *rand.Rand) error {
	grid, err := cache.Get(ctx, id)
	if err != nil {
		return fmt.Errorf("probing map %q: %w", id, err)
	}
	width, depth := grid.Size()

	found, failed := 0, 0
	waypoints := 0
	began := time.Now()

	for range probes {
		start, ok := randomWalkable(grid, rng, width, depth, cfg.SnapRadius)
		if !ok {
			failed++
			continue
		}
		goal, ok := randomWalkable(grid, rng, width, depth, cfg.SnapRadius)
		if !ok {
			failed++
			continue
		}

		path, err := finder.FindPath(grid, start, goal)
		if err != nil {
			failed++
			continue
		}
		found++
		waypoints += len(path)
	}

	slog.Info("map probed",
		"map", id,
		"grid", fmt.Sprintf("%dx%d", width, depth),
		"probes", probes,
		"found", found,
		"failed", failed,
		"avg_waypoints", avg(waypoints, found),
		"elapsed", time.Since(began))
	return nil
}

// randomWalkable picks a random cell and snaps it to walkable ground.
func randomWalkable(grid nav.Grid, rng *rand.Rand, width, depth, snapRadius int) (nav.Cell, bool) {
	c := nav.Cell{X: rng.Intn(width), Z: rng.Intn(depth)}
	if grid.IsWalkable(c) {
		return c, true
	}
	return nav.SnapToWalkable(grid, grid.CellToWorld(c), snapRadius)
}

func avg(total, n int) int {
	if n == 0 {
		return 0
	}
	return total / n
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
