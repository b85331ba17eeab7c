package pipeline

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/westnordost/streets-gl/internal/config"
	"github.com/westnordost/streets-gl/internal/tile3d"
	"github.com/westnordost/streets-gl/internal/vectile"
)

// Source yields the vector features of one tile.
type Source func(tile config.Tile) (*vectile.Collection, error)

// BatchStats summarizes a batch generation run
type BatchStats struct {
	Tiles    int
	Features int
	Elapsed  time.Duration
}

// GenerateTiles runs one independent pipeline per tile with bounded
// parallelism. Tiles share nothing, so the only coordination is the worker
// limit; the first failing tile cancels the rest.
func (g *Generator) GenerateTiles(ctx context.Context, tiles []config.Tile, src Source, workers int) (map[config.Tile]*tile3d.Collection, *BatchStats, error) {
	if workers < 1 {
		workers = 1
	}
	start := time.Now()

	var mu sync.Mutex
	results := make(map[config.Tile]*tile3d.Collection, len(tiles))

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(workers)
	for _, tile := range tiles {
		tile := tile
		eg.Go(func() error {
			collection, err := vectorsFor(src, tile)
			if err != nil {
				return err
			}
			out, err := g.GenerateTile(egCtx, tile, collection)
			if err != nil {
				return err
			}
			mu.Lock()
			results[tile] = out
			mu.Unlock()
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, nil, err
	}

	stats := &BatchStats{
		Tiles:   len(results),
		Elapsed: time.Since(start),
	}
	for _, c := range results {
		stats.Features += c.Size()
	}
	g.log.Info("Batch generation finished",
		zap.Int("tiles", stats.Tiles),
		zap.Int("features", stats.Features),
		zap.Duration("elapsed", stats.Elapsed))

	return results, stats, nil
}

func vectorsFor(src Source, tile config.Tile) (*vectile.Collection, error) {
	collection, err := src(tile)
	if err != nil {
		return nil, err
	}
	if collection == nil {
		collection = &vectile.Collection{}
	}
	return collection, nil
}
