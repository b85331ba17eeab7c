package pipeline

import (
	"context"
	"errors"
	"testing"

	"github.com/paulmach/orb"
	"github.com/paulmach/osm"

	"github.com/westnordost/streets-gl/internal/config"
	"github.com/westnordost/streets-gl/internal/elevation"
	"github.com/westnordost/streets-gl/internal/handler"
	"github.com/westnordost/streets-gl/internal/style"
	"github.com/westnordost/streets-gl/internal/vectile"
)

// countingProvider wraps Flat and records invocations
type countingProvider struct {
	elevation.Flat
	calls int
}

func (p *countingProvider) QueryHeights(ctx context.Context, positions []float64) ([]float64, error) {
	p.calls++
	return p.Flat.QueryHeights(ctx, positions)
}

type failingProvider struct{ err error }

func (p failingProvider) QueryHeights(context.Context, []float64) ([]float64, error) {
	return nil, p.err
}

func road(points orb.LineString, surface string) *vectile.Polyline {
	tags := osm.Tags{{Key: "highway", Value: "residential"}}
	if surface != "" {
		tags = append(tags, osm.Tag{Key: "surface", Value: surface})
	}
	return &vectile.Polyline{Points: points, Tags: tags}
}

func TestBuildHandlersOrder(t *testing.T) {
	src := &vectile.Collection{
		Nodes: []*vectile.Node{
			{Point: orb.Point{1, 1}, Tags: osm.Tags{{Key: "natural", Value: "tree"}}},
		},
		Polylines: []*vectile.Polyline{
			road(orb.LineString{{0, 0}, {100, 0}}, "concrete"),
		},
		Areas: []*vectile.Area{
			{
				Rings: []vectile.Ring{{Type: vectile.RingOuter, Nodes: orb.Ring{{0, 0}, {10, 0}, {10, 10}, {0, 10}, {0, 0}}}},
				Tags:  osm.Tags{{Key: "building", Value: "yes"}},
			},
		},
	}

	handlers := buildHandlers(src, style.DefaultConfig())
	if len(handlers) != 4 {
		t.Fatalf("expected 4 handlers, got %d", len(handlers))
	}
	if _, ok := handlers[0].(*handler.NodeHandler); !ok {
		t.Errorf("handler 0 is %T, want NodeHandler", handlers[0])
	}
	if _, ok := handlers[1].(*handler.PolylineHandler); !ok {
		t.Errorf("handler 1 is %T, want PolylineHandler", handlers[1])
	}
	if _, ok := handlers[2].(*handler.AreaHandler); !ok {
		t.Errorf("handler 2 is %T, want AreaHandler", handlers[2])
	}
	if _, ok := handlers[3].(*handler.PowerlineHandler); !ok {
		t.Errorf("handler 3 is %T, want PowerlineHandler", handlers[3])
	}
}

func TestGenerateTileEmptyInput(t *testing.T) {
	provider := &countingProvider{}
	g := NewGenerator(provider, nil)

	out, err := g.GenerateTile(context.Background(), config.Tile{Z: 16, X: 100, Y: 100}, &vectile.Collection{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if provider.calls != 0 {
		t.Errorf("elevation provider invoked %d times for a tile without requests", provider.calls)
	}
	if out.Size() != 0 {
		t.Errorf("expected all buckets empty, got %d features", out.Size())
	}
}

func TestGenerateTileProviderFailure(t *testing.T) {
	cause := errors.New("timeout")
	g := NewGenerator(failingProvider{err: cause}, nil)

	src := &vectile.Collection{
		Nodes: []*vectile.Node{
			{Point: orb.Point{1, 1}, Tags: osm.Tags{{Key: "natural", Value: "tree"}}},
		},
	}

	out, err := g.GenerateTile(context.Background(), config.Tile{Z: 16, X: 0, Y: 0}, src)
	if !errors.Is(err, cause) {
		t.Fatalf("error %v should wrap the provider failure", err)
	}
	if out != nil {
		t.Error("no partial collection may be returned on elevation failure")
	}
}

func TestGenerateTileSynthesizesIntersection(t *testing.T) {
	// Two crossing roads sharing the vertex (50, 50): 4 incident road ends,
	// all voting asphalt.
	src := &vectile.Collection{
		Polylines: []*vectile.Polyline{
			road(orb.LineString{{0, 50}, {50, 50}, {100, 50}}, "asphalt"),
			road(orb.LineString{{50, 0}, {50, 50}, {50, 100}}, "asphalt"),
		},
	}

	g := NewGenerator(elevation.Flat{}, nil)
	out, err := g.GenerateTile(context.Background(), config.Tile{Z: 16, X: 100, Y: 100}, src)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// 2 road ribbons followed by the synthesized intersection polygon, in
	// handler order.
	if len(out.Projected) != 3 {
		t.Fatalf("projected bucket = %d features, want 3", len(out.Projected))
	}
	pavement := out.Projected[2]
	if pavement.Material != "asphalt" {
		t.Errorf("intersection material = %q, want asphalt", pavement.Material)
	}
}

func TestGenerateTileBelowVoteThreshold(t *testing.T) {
	// One road ending on another: 3 road ends but only 2 carry a material.
	through := road(orb.LineString{{0, 50}, {50, 50}, {100, 50}}, "")
	through.Tags = osm.Tags{{Key: "highway", Value: "residential"}, {Key: "surface", Value: "gravel"}}
	ending := road(orb.LineString{{50, 50}, {50, 100}}, "asphalt")

	src := &vectile.Collection{Polylines: []*vectile.Polyline{through, ending}}

	g := NewGenerator(elevation.Flat{}, nil)
	out, err := g.GenerateTile(context.Background(), config.Tile{Z: 16, X: 100, Y: 100}, src)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out.Projected) != 2 {
		t.Errorf("skipped intersection must not synthesize pavement, got %d projected features", len(out.Projected))
	}
}

func TestGenerateTileElevationOrder(t *testing.T) {
	// Two trees: the first handler must receive the first result slice.
	src := &vectile.Collection{
		Nodes: []*vectile.Node{
			{Point: orb.Point{1, 1}, Tags: osm.Tags{{Key: "natural", Value: "tree"}}},
			{Point: orb.Point{2, 2}, Tags: osm.Tags{{Key: "natural", Value: "tree"}}},
		},
	}

	g := NewGenerator(indexedProvider{}, nil)
	out, err := g.GenerateTile(context.Background(), config.Tile{Z: 0, X: 0, Y: 0}, src)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out.Instances) != 2 {
		t.Fatalf("expected 2 tree instances, got %d", len(out.Instances))
	}
	// At zoom 0 the mercator scale is 1, so instance heights carry the raw
	// provider values.
	if out.Instances[0].Vertices[1] != 0 || out.Instances[1].Vertices[1] != 1 {
		t.Errorf("handlers received slices out of order: %f, %f",
			out.Instances[0].Vertices[1], out.Instances[1].Vertices[1])
	}
}

// indexedProvider returns each position's global index as its height
type indexedProvider struct{}

func (indexedProvider) QueryHeights(_ context.Context, positions []float64) ([]float64, error) {
	heights := make([]float64, len(positions)/2)
	for i := range heights {
		heights[i] = float64(i)
	}
	return heights, nil
}
