package vectile

import (
	"fmt"
	"os"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/paulmach/osm"

	"github.com/westnordost/streets-gl/internal/config"
	"github.com/westnordost/streets-gl/internal/proj"
)

// LoadGeoJSON reads a GeoJSON FeatureCollection in WGS84 and returns its
// features as a tile-local vector collection for the given tile. Coordinates
// are re-expressed in Web Mercator meters relative to the tile's north-west
// corner, x growing east and y growing south. Features are kept in file
// order; geometry types other than Point, LineString and Polygon are
// ignored.
func LoadGeoJSON(path string, tile config.Tile) (*Collection, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read input file: %w", err)
	}

	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse GeoJSON: %w", err)
	}

	minX, _, _, maxY := proj.TileBounds(tile.X, tile.Y, tile.Z)
	local := func(p orb.Point) orb.Point {
		mx, my := proj.LonLatToWebMercator(p[0], p[1])
		return orb.Point{mx - minX, maxY - my}
	}

	collection := &Collection{}
	for _, f := range fc.Features {
		tags := tagsFromProperties(f.Properties)
		origin := originFromFeature(f)

		switch geom := f.Geometry.(type) {
		case orb.Point:
			collection.Nodes = append(collection.Nodes, &Node{
				Point:  local(geom),
				Tags:   tags,
				Origin: origin,
			})
		case orb.LineString:
			points := make(orb.LineString, len(geom))
			for i, p := range geom {
				points[i] = local(p)
			}
			collection.Polylines = append(collection.Polylines, &Polyline{
				Points: points,
				Tags:   tags,
				Origin: origin,
			})
		case orb.Polygon:
			area := &Area{Tags: tags, Origin: origin}
			for i, ring := range geom {
				nodes := make(orb.Ring, len(ring))
				for j, p := range ring {
					nodes[j] = local(p)
				}
				ringType := RingOuter
				if i > 0 {
					ringType = RingInner
				}
				area.Rings = append(area.Rings, Ring{Type: ringType, Nodes: nodes})
			}
			collection.Areas = append(collection.Areas, area)
		}
	}

	return collection, nil
}

func tagsFromProperties(props geojson.Properties) osm.Tags {
	var tags osm.Tags
	for key, value := range props {
		if s, ok := value.(string); ok {
			tags = append(tags, osm.Tag{Key: key, Value: s})
		}
	}
	tags.SortByKeyValue()
	return tags
}

func originFromFeature(f *geojson.Feature) osm.ElementID {
	switch id := f.ID.(type) {
	case float64:
		return osm.ElementID(int64(id))
	case int64:
		return osm.ElementID(id)
	}
	return 0
}
