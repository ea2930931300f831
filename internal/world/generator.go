package world

import (
	"math/rand"

	"github.com/aquilax/go-perlin"

	"github.com/dkoval/navgrid/internal/model"
)

// Generation thresholds on normalized noise height (0..1).
const (
	WaterLevel    = 0.30 // below this a column has no walking surface
	RockThreshold = 0.92 // secondary noise above this places a blocking rock
	HeightScale   = 12.0 // world-unit height of the tallest terrain
)

// Generator produces deterministic Perlin-noise terrain.
// The same seed always yields the same terrain, so generated maps can be
// re-baked instead of persisted when storage is unavailable.
type Generator struct {
	Seed       int64
	NoiseScale float64 // horizontal noise frequency
	RockScale  float64 // frequency of the blocking-rock noise

	height *perlin.Perlin
	rocks  *perlin.Perlin
}

// NewGenerator creates a terrain generator for the given seed.
func NewGenerator(seed int64) *Generator {
	return &Generator{
		Seed:       seed,
		NoiseScale: 0.05,
		RockScale:  0.11,
		height:     perlin.NewPerlin(2, 2, 3, seed),
		rocks:      perlin.NewPerlin(2, 2, 3, seed+1),
	}
}

// Terrain generates a width x depth terrain for the given map key.
// Columns below the water level get no surface; high spots of the
// secondary noise become solid rocks.
func (g *Generator) Terrain(id model.MapID, width, depth int, cellSize float64) *Terrain {
	t := NewTerrain(id, width, depth, cellSize)

	for cz := 0; cz < depth; cz++ {
		for cx := 0; cx < width; cx++ {
			h := g.normalized(g.height, cx, cz, g.NoiseScale)
			if h < WaterLevel {
				continue // no surface
			}
			t.SetColumn(cx, cz, h*HeightScale)

			if g.normalized(g.rocks, cx, cz, g.RockScale) > RockThreshold {
				t.SetSolid(cx, cz, true)
			}
		}
	}

	return t
}

// TileMap generates a flat map with randomly scattered wall rectangles.
// Wall placement is deterministic per seed.
func (g *Generator) TileMap(id model.MapID, width, depth float64, walls int) *TileMap {
	rng := rand.New(rand.NewSource(g.Seed))
	m := &TileMap{ID: id, Width: width, Depth: depth}

	for range walls {
		w := 1 + rng.Float64()*(width/8)
		d := 1 + rng.Float64()*(depth/8)
		x := rng.Float64() * (width - w)
		z := rng.Float64() * (depth - d)
		m.Walls = append(m.Walls, Rect{MinX: x, MinZ: z, MaxX: x + w, MaxZ: z + d})
	}

	return m
}

// normalized maps 2D Perlin noise from its native range into 0..1.
func (g *Generator) normalized(p *perlin.Perlin, cx, cz int, scale float64) float64 {
	n := p.Noise2D(float64(cx)*scale, float64(cz)*scale)
	v := (n + 1) / 2
	if v < 0 {
		v = 0
	}
	if v > 1 {
		v = 1
	}
	return v
}
