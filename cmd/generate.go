package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/spf13/cobra"

	"github.com/westnordost/streets-gl/internal/config"
	"github.com/westnordost/streets-gl/internal/elevation"
	"github.com/westnordost/streets-gl/internal/logger"
	"github.com/westnordost/streets-gl/internal/metrics"
	"github.com/westnordost/streets-gl/internal/pipeline"
	"github.com/westnordost/streets-gl/internal/style"
	"github.com/westnordost/streets-gl/internal/vectile"
)

var (
	tilesStr   string
	styleFile  string
	flatHeight float64
)

var generateCmd = &cobra.Command{
	Use:   "generate <input.geojson>",
	Short: "Generate 3D tile geometry from vector features",
	Long: `Convert a GeoJSON FeatureCollection of OSM-style vector features into
3D tile geometry.

One pipeline runs per requested tile:
  - buildings are extruded, roads projected, paths and rivers draped
    over the terrain
  - road intersections are detected in a connectivity graph and get
    synthesized pavement polygons
  - all terrain heights are resolved in a single batched elevation query

Each tile is written as <z>_<x>_<y>.json into the output directory.`,
	Args: cobra.ExactArgs(1),
	Run:  runGenerate,
}

func init() {
	rootCmd.AddCommand(generateCmd)

	generateCmd.Flags().StringVarP(&tilesStr, "tiles", "t", "", "Tiles to generate, comma-separated z/x/y (required)")
	generateCmd.Flags().StringVar(&styleFile, "style", "", "Path to style YAML file (road widths, materials, sizes)")
	generateCmd.Flags().Float64Var(&flatHeight, "flat-height", 0, "Constant terrain height in meters")
	generateCmd.MarkFlagRequired("tiles")
}

func runGenerate(cmd *cobra.Command, args []string) {
	cfg.InputFile = args[0]
	cfg.StyleFile = styleFile
	cfg.FlatHeight = flatHeight
	log := logger.Get()

	tiles, err := config.ParseTiles(tilesStr)
	if err != nil {
		exitWithError("invalid tile list", err)
	}
	cfg.Tiles = tiles

	if err := cfg.Validate(); err != nil {
		exitWithError("invalid configuration", err)
	}

	st := style.DefaultConfig()
	if cfg.StyleFile != "" {
		st, err = style.LoadConfig(cfg.StyleFile)
		if err != nil {
			exitWithError("failed to load style", err)
		}
	}

	log.Info("Starting tile generation",
		zap.String("input", cfg.InputFile),
		zap.String("output", cfg.OutputDir),
		zap.Int("tiles", len(cfg.Tiles)),
		zap.Int("workers", cfg.Workers),
	)

	ctx := context.Background()
	if cfg.MetricsInterval > 0 {
		metricsCtx, cancelMetrics := context.WithCancel(ctx)
		defer cancelMetrics()

		collector := metrics.NewCollector(cfg.MetricsInterval, log)
		go collector.Start(metricsCtx)
	}

	start := time.Now()
	generator := pipeline.NewGenerator(elevation.Flat{Height: cfg.FlatHeight}, st)

	source := func(tile config.Tile) (*vectile.Collection, error) {
		return vectile.LoadGeoJSON(cfg.InputFile, tile)
	}
	results, stats, err := generator.GenerateTiles(ctx, cfg.Tiles, source, cfg.Workers)
	if err != nil {
		exitWithError("tile generation failed", err)
	}

	if err := os.MkdirAll(cfg.OutputDir, 0755); err != nil {
		exitWithError("failed to create output directory", err)
	}
	for tile, collection := range results {
		path := filepath.Join(cfg.OutputDir, fmt.Sprintf("%d_%d_%d.json", tile.Z, tile.X, tile.Y))
		data, err := json.Marshal(collection)
		if err != nil {
			exitWithError("failed to encode tile", err)
		}
		if err := os.WriteFile(path, data, 0644); err != nil {
			exitWithError("failed to write tile", err)
		}
	}

	log.Info("Tile generation complete",
		zap.Int("tiles", stats.Tiles),
		zap.Int("features", stats.Features),
		zap.Duration("elapsed", time.Since(start)),
	)
	logger.Sync()
}
