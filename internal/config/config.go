package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Nav holds all tunables of the navigation subsystem.
type Nav struct {
	// Grid geometry
	CellSize      float64 `yaml:"cell_size"`      // world units per grid cell
	MoverRadius   float64 `yaml:"mover_radius"`   // half-width of the mover footprint, used for obstacle dilation
	MaxStepHeight float64 `yaml:"max_step_height"` // max surface-height delta between adjacent walkable cells (3D)

	// Orchestrator
	FreeMoveDistance float64 `yaml:"free_move_distance"` // below this distance players may move directly if LOS is clear
	SnapRadius       int     `yaml:"snap_radius"`        // max Chebyshev ring radius for snap-to-walkable, 0 disables snapping

	// Search
	MaxExpansions int  `yaml:"max_expansions"` // A* expansion cap, 0 = bounded only by grid size
	PreferRecent  bool `yaml:"prefer_recent"`  // on equal f-cost, expand the most recently discovered node first
}

// Database holds PostgreSQL connection parameters for the map store.
type Database struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	DBName   string `yaml:"dbname"`
	SSLMode  string `yaml:"sslmode"`
}

// DSN returns the PostgreSQL connection string.
func (d Database) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}

// Server is the top-level configuration of the navigation service.
type Server struct {
	Nav      Nav      `yaml:"nav"`
	Database Database `yaml:"database"`

	// MetricsAddr is the listen address of the Prometheus /metrics endpoint
	// in the cmd tools. Empty disables the endpoint.
	MetricsAddr string `yaml:"metrics_addr"`

	LogLevel string `yaml:"log_level"`
}

// DefaultNav returns Nav config with sensible defaults.
func DefaultNav() Nav {
	return Nav{
		CellSize:         1.0,
		MoverRadius:      0.4,
		MaxStepHeight:    1.0,
		FreeMoveDistance: 6.0,
		SnapRadius:       6,
		MaxExpansions:    0,
		PreferRecent:     true,
	}
}

// DefaultServer returns Server config with sensible defaults.
func DefaultServer() Server {
	return Server{
		Nav:         DefaultNav(),
		MetricsAddr: "",
		LogLevel:    "info",
		Database: Database{
			Host:     "127.0.0.1",
			Port:     5432,
			User:     "navgrid",
			Password: "navgrid",
			DBName:   "navgrid",
			SSLMode:  "disable",
		},
	}
}

// LoadServer loads server config from a YAML file.
// If the file doesn't exist, returns defaults.
func LoadServer(path string) (Server, error) {
	cfg := DefaultServer()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}

	return cfg, nil
}
