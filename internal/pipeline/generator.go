// Package pipeline orchestrates per-tile 3D geometry generation: it builds
// one handler per vector feature, derives intersection pavements from the
// road graph, resolves every handler's elevation demand in a single batched
// query, and assembles the output collection.
package pipeline

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/paulmach/osm"

	"github.com/westnordost/streets-gl/internal/config"
	"github.com/westnordost/streets-gl/internal/elevation"
	"github.com/westnordost/streets-gl/internal/handler"
	"github.com/westnordost/streets-gl/internal/logger"
	"github.com/westnordost/streets-gl/internal/proj"
	"github.com/westnordost/streets-gl/internal/roadgraph"
	"github.com/westnordost/streets-gl/internal/style"
	"github.com/westnordost/streets-gl/internal/tile3d"
	"github.com/westnordost/streets-gl/internal/vectile"
)

// ringSimplifyTolerance is the fixed tolerance, in tile-local units, applied
// to area rings before handler construction.
const ringSimplifyTolerance = 0.5

// Generator runs independent per-tile pipelines. Safe for concurrent tile
// generation as long as the elevation provider is.
type Generator struct {
	provider elevation.Provider
	style    *style.Config
	log      *zap.Logger
}

// NewGenerator creates a tile generator backed by the given elevation
// provider and styling rules.
func NewGenerator(provider elevation.Provider, st *style.Config) *Generator {
	if st == nil {
		st = style.DefaultConfig()
	}
	return &Generator{
		provider: provider,
		style:    st,
		log:      logger.Get(),
	}
}

// GenerateTile converts one tile's vector features into a 3D feature
// collection. Any elevation or graph failure aborts the whole tile; no
// partial collection is returned.
func (g *Generator) GenerateTile(ctx context.Context, tile config.Tile, src *vectile.Collection) (*tile3d.Collection, error) {
	handlers := buildHandlers(src, g.style)

	graph := roadgraph.NewGraph()
	materials := make(map[*roadgraph.Road]roadgraph.Material)
	for _, h := range handlers {
		h.SetRoadGraph(graph)
	}
	for _, h := range handlers {
		road, material := h.Road()
		if road == nil {
			continue
		}
		if err := graph.AddRoad(road); err != nil {
			return nil, fmt.Errorf("road registration failed: %w", err)
		}
		materials[road] = material
	}
	if err := graph.Finalize(); err != nil {
		return nil, fmt.Errorf("road graph finalization failed: %w", err)
	}

	synthesized := 0
	for _, it := range graph.Intersections() {
		material, ok := roadgraph.ResolveMaterial(it, materials)
		if !ok {
			continue
		}
		area := intersectionArea(it, material)
		if area == nil {
			continue
		}
		// Output-only synthetic feature; it never registers in the graph.
		handlers = append(handlers, handler.NewArea(area, g.style))
		synthesized++
	}

	scale := proj.MercatorScaleFactor(tile.X, tile.Y, tile.Z)
	for _, h := range handlers {
		h.SetMercatorScale(scale)
	}

	var requests []*elevation.Request
	for _, h := range handlers {
		if req := h.ElevationRequest(); req != nil && len(req.Positions) > 0 {
			requests = append(requests, req)
		}
	}
	if err := elevation.Resolve(ctx, g.provider, requests); err != nil {
		return nil, err
	}

	out := tile3d.NewCollection()
	for _, h := range handlers {
		for _, f := range h.Features() {
			out.Add(f)
		}
	}
	out.ScaleExtrudedHeights(scale)

	g.log.Debug("Tile generated",
		zap.String("tile", tile.String()),
		zap.Int("handlers", len(handlers)),
		zap.Int("intersections", synthesized),
		zap.Int("elevation_requests", len(requests)),
		zap.Int("features", out.Size()))

	return out, nil
}

// buildHandlers constructs the handler list in the fixed order that drives
// elevation offset bookkeeping and per-bucket output order: all nodes, all
// polylines, all areas (each simplified first), then the single powerline
// aggregate.
func buildHandlers(src *vectile.Collection, st *style.Config) []handler.Handler {
	handlers := make([]handler.Handler, 0, len(src.Nodes)+len(src.Polylines)+len(src.Areas)+1)

	for _, node := range src.Nodes {
		handlers = append(handlers, handler.NewNode(node, st))
	}
	for _, line := range src.Polylines {
		handlers = append(handlers, handler.NewPolyline(line, st))
	}
	for _, area := range src.Areas {
		vectile.SimplifyRings(area, ringSimplifyTolerance)
		handlers = append(handlers, handler.NewArea(area, st))
	}
	handlers = append(handlers, handler.NewPowerline(src, st))

	return handlers
}

// intersectionArea wraps a usable intersection's footprint in a synthetic
// pavement area feature.
func intersectionArea(it *roadgraph.Intersection, material roadgraph.Material) *vectile.Area {
	ring := it.Footprint()
	if len(ring) < 4 {
		return nil
	}
	return &vectile.Area{
		Rings: []vectile.Ring{{Type: vectile.RingOuter, Nodes: ring}},
		Tags: osm.Tags{
			{Key: "area:highway", Value: "intersection"},
			{Key: "surface", Value: material.String()},
		},
	}
}
