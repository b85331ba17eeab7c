package vectile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/westnordost/streets-gl/internal/config"
)

const sampleGeoJSON = `{
  "type": "FeatureCollection",
  "features": [
    {
      "type": "Feature",
      "id": 42,
      "properties": {"natural": "tree", "height": 12},
      "geometry": {"type": "Point", "coordinates": [0, 0]}
    },
    {
      "type": "Feature",
      "properties": {"highway": "residential"},
      "geometry": {"type": "LineString", "coordinates": [[0, 0], [0.001, 0]]}
    },
    {
      "type": "Feature",
      "properties": {"building": "yes"},
      "geometry": {"type": "Polygon", "coordinates": [
        [[0, 0], [0.001, 0], [0.001, 0.001], [0, 0.001], [0, 0]],
        [[0.0002, 0.0002], [0.0008, 0.0002], [0.0008, 0.0008], [0.0002, 0.0008], [0.0002, 0.0002]]
      ]}
    },
    {
      "type": "Feature",
      "properties": {},
      "geometry": {"type": "MultiPoint", "coordinates": [[1, 1]]}
    }
  ]
}`

func writeSample(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "features.geojson")
	if err := os.WriteFile(path, []byte(sampleGeoJSON), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadGeoJSON(t *testing.T) {
	collection, err := LoadGeoJSON(writeSample(t), config.Tile{Z: 0, X: 0, Y: 0})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(collection.Nodes) != 1 || len(collection.Polylines) != 1 || len(collection.Areas) != 1 {
		t.Fatalf("got %d/%d/%d features, want 1/1/1 (multipoint ignored)",
			len(collection.Nodes), len(collection.Polylines), len(collection.Areas))
	}

	node := collection.Nodes[0]
	if node.Tags.Find("natural") != "tree" {
		t.Errorf("string property lost: %v", node.Tags)
	}
	if node.Tags.Find("height") != "" {
		t.Error("non-string properties must be dropped")
	}
	if node.Origin != 42 {
		t.Errorf("origin = %v, want 42", node.Origin)
	}

	area := collection.Areas[0]
	if len(area.Rings) != 2 {
		t.Fatalf("expected outer + inner ring, got %d", len(area.Rings))
	}
	if area.Rings[0].Type != RingOuter || area.Rings[1].Type != RingInner {
		t.Error("first ring must be outer, the rest inner")
	}

	// Lon/lat (0,0) sits at the center of tile 0/0/0, so tile-local
	// coordinates are half the world extent from the corner.
	p := node.Point
	if p[0] <= 0 || p[1] <= 0 {
		t.Errorf("tile-local coordinates must be positive in-tile, got %v", p)
	}
	line := collection.Polylines[0].Points
	if line[1][0] <= line[0][0] {
		t.Error("east must map to growing x")
	}
}

func TestLoadGeoJSONMissingFile(t *testing.T) {
	if _, err := LoadGeoJSON("/no/such/file.geojson", config.Tile{}); err == nil {
		t.Error("missing file must be an error")
	}
}

func TestLoadGeoJSONInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.geojson")
	if err := os.WriteFile(path, []byte("{not geojson"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadGeoJSON(path, config.Tile{}); err == nil {
		t.Error("malformed input must be an error")
	}
}
