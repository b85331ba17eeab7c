package style

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds the styling rules used when classifying vector features and
// sizing their 3D geometry.
type Config struct {
	// RoadWidths maps a highway class to its full carriageway width in meters.
	RoadWidths map[string]float64 `yaml:"road_widths,omitempty"`
	// SurfaceMaterials maps an OSM surface tag value to a pavement material
	// name (asphalt, concrete, cobblestone). Unmapped surfaces cast no vote
	// during intersection material resolution.
	SurfaceMaterials map[string]string `yaml:"surface_materials,omitempty"`

	// Geometry sizing defaults
	LevelHeight     float64 `yaml:"level_height,omitempty"`     // meters per building level
	DefaultLevels   float64 `yaml:"default_levels,omitempty"`   // levels assumed when untagged
	WallHeight      float64 `yaml:"wall_height,omitempty"`      // free-standing wall height
	FenceHeight     float64 `yaml:"fence_height,omitempty"`     // fence height
	PathWidth       float64 `yaml:"path_width,omitempty"`       // footpath/track ribbon width
	WaterwayWidth   float64 `yaml:"waterway_width,omitempty"`   // fallback river/stream width
	TreeHeight      float64 `yaml:"tree_height,omitempty"`      // standalone tree height
	TreeSpacing     float64 `yaml:"tree_spacing,omitempty"`     // forest scatter grid spacing
	PowerlineHeight float64 `yaml:"powerline_height,omitempty"` // tower height, wires attach here
	PowerlineSag    float64 `yaml:"powerline_sag,omitempty"`    // wire mid-span dip
}

// LoadConfig loads styling rules from a YAML file, filling unset values with
// defaults.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read style file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse style YAML: %w", err)
	}
	cfg.fillDefaults()

	return cfg, nil
}

// DefaultConfig returns the built-in styling rules
func DefaultConfig() *Config {
	cfg := &Config{
		RoadWidths: map[string]float64{
			"motorway":      16,
			"trunk":         12,
			"primary":       10,
			"secondary":     9,
			"tertiary":      8,
			"residential":   7,
			"unclassified":  6,
			"service":       4.5,
			"living_street": 6,
		},
		SurfaceMaterials: map[string]string{
			"asphalt":       "asphalt",
			"concrete":      "concrete",
			"cobblestone":   "cobblestone",
			"sett":          "cobblestone",
			"paving_stones": "cobblestone",
		},
	}
	cfg.fillDefaults()
	return cfg
}

func (c *Config) fillDefaults() {
	if c.LevelHeight == 0 {
		c.LevelHeight = 3.5
	}
	if c.DefaultLevels == 0 {
		c.DefaultLevels = 2
	}
	if c.WallHeight == 0 {
		c.WallHeight = 2
	}
	if c.FenceHeight == 0 {
		c.FenceHeight = 1.5
	}
	if c.PathWidth == 0 {
		c.PathWidth = 2
	}
	if c.WaterwayWidth == 0 {
		c.WaterwayWidth = 5
	}
	if c.TreeHeight == 0 {
		c.TreeHeight = 10
	}
	if c.TreeSpacing == 0 {
		c.TreeSpacing = 18
	}
	if c.PowerlineHeight == 0 {
		c.PowerlineHeight = 25
	}
	if c.PowerlineSag == 0 {
		c.PowerlineSag = 3
	}
}

// RoadWidth returns the configured width for a highway class, falling back
// to the unclassified width.
func (c *Config) RoadWidth(class string) float64 {
	if w, ok := c.RoadWidths[class]; ok {
		return w
	}
	return c.RoadWidths["unclassified"]
}
