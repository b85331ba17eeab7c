package config

import (
	"fmt"
	"runtime"
	"strconv"
	"strings"
	"time"
)

// Tile identifies one slippy-map tile by zoom and column/row indices.
type Tile struct {
	Z int
	X int
	Y int
}

// String returns the tile in z/x/y format
func (t Tile) String() string {
	return fmt.Sprintf("%d/%d/%d", t.Z, t.X, t.Y)
}

// ParseTile parses a tile string in "z/x/y" format
func ParseTile(s string) (Tile, error) {
	parts := strings.Split(strings.TrimSpace(s), "/")
	if len(parts) != 3 {
		return Tile{}, fmt.Errorf("tile must be in z/x/y format, got %q", s)
	}

	var vals [3]int
	for i, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return Tile{}, fmt.Errorf("invalid tile coordinate %q: %w", p, err)
		}
		vals[i] = v
	}

	tile := Tile{Z: vals[0], X: vals[1], Y: vals[2]}
	if tile.Z < 0 || tile.Z > 22 {
		return Tile{}, fmt.Errorf("zoom %d out of range 0..22", tile.Z)
	}
	max := 1 << uint(tile.Z)
	if tile.X < 0 || tile.X >= max || tile.Y < 0 || tile.Y >= max {
		return Tile{}, fmt.Errorf("tile %s out of range for zoom %d", tile, tile.Z)
	}
	return tile, nil
}

// ParseTiles parses a comma-separated list of z/x/y tile strings
func ParseTiles(s string) ([]Tile, error) {
	if s == "" {
		return nil, fmt.Errorf("no tiles given")
	}
	var tiles []Tile
	for _, part := range strings.Split(s, ",") {
		tile, err := ParseTile(part)
		if err != nil {
			return nil, err
		}
		tiles = append(tiles, tile)
	}
	return tiles, nil
}

// Config holds the global configuration for tile generation
type Config struct {
	// Input settings
	InputFile string
	Tiles     []Tile

	// Output settings
	OutputDir string

	// Style settings
	StyleFile string

	// Elevation settings
	FlatHeight float64 // used when no elevation service is configured

	// Processing settings
	Workers int

	// Logging settings
	Verbose         bool
	LogFile         string
	MetricsInterval time.Duration
}

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		OutputDir: "./tiles",
		Workers:   runtime.NumCPU(),
	}
}

// Validate checks the configuration for consistency
func (c *Config) Validate() error {
	if c.InputFile == "" {
		return fmt.Errorf("input file is required")
	}
	if len(c.Tiles) == 0 {
		return fmt.Errorf("at least one tile is required")
	}
	if c.Workers < 1 {
		return fmt.Errorf("workers must be >= 1, got %d", c.Workers)
	}
	return nil
}
