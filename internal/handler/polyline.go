package handler

import (
	"github.com/westnordost/streets-gl/internal/elevation"
	"github.com/westnordost/streets-gl/internal/roadgraph"
	"github.com/westnordost/streets-gl/internal/style"
	"github.com/westnordost/streets-gl/internal/tile3d"
	"github.com/westnordost/streets-gl/internal/vectile"
)

type polylineKind int

const (
	polylineNone polylineKind = iota
	polylineRoad
	polylinePath
	polylineWaterway
	polylineWall
	polylineFence
)

// PolylineHandler converts one linear feature. Road-like features produce
// flat projected ribbons and register a connectivity edge in the road graph;
// paths and waterways hug the terrain; walls and fences are extruded.
type PolylineHandler struct {
	line  *vectile.Polyline
	style *style.Config

	kind     polylineKind
	road     *roadgraph.Road
	material roadgraph.Material

	scale   float64
	heights []float64
	req     *elevation.Request
}

// NewPolyline builds a handler for one linear feature
func NewPolyline(line *vectile.Polyline, st *style.Config) *PolylineHandler {
	h := &PolylineHandler{line: line, style: st, scale: 1}
	h.classify()
	return h
}

func (h *PolylineHandler) classify() {
	tags := h.line.Tags

	if highway := tags.Find("highway"); highway != "" {
		switch highway {
		case "footway", "path", "cycleway", "track", "steps", "bridleway":
			h.kind = polylinePath
		default:
			if _, ok := h.style.RoadWidths[highway]; ok {
				h.kind = polylineRoad
				h.road = &roadgraph.Road{
					Points: h.line.Points,
					Width:  h.style.RoadWidth(highway),
				}
				h.material = h.declaredMaterial()
			}
		}
		return
	}

	switch tags.Find("waterway") {
	case "river", "stream", "canal", "ditch":
		h.kind = polylineWaterway
		return
	}

	switch tags.Find("barrier") {
	case "wall", "city_wall", "retaining_wall":
		h.kind = polylineWall
	case "fence":
		h.kind = polylineFence
	}
}

// declaredMaterial maps the way's surface tag to an intersection material
// vote. Untagged roads vote asphalt; surfaces with no configured mapping
// vote none.
func (h *PolylineHandler) declaredMaterial() roadgraph.Material {
	surface := h.line.Tags.Find("surface")
	if surface == "" {
		return roadgraph.MaterialAsphalt
	}
	return roadgraph.MaterialFromString(h.style.SurfaceMaterials[surface])
}

func (h *PolylineHandler) SetMercatorScale(scale float64) {
	h.scale = scale
}

func (h *PolylineHandler) SetRoadGraph(*roadgraph.Graph) {}

func (h *PolylineHandler) Road() (*roadgraph.Road, roadgraph.Material) {
	if h.kind != polylineRoad {
		return nil, roadgraph.MaterialNone
	}
	return h.road, h.material
}

func (h *PolylineHandler) ElevationRequest() *elevation.Request {
	switch h.kind {
	case polylinePath, polylineWaterway, polylineWall, polylineFence:
	default:
		return nil
	}
	if len(h.line.Points) < 2 {
		return nil
	}

	if h.req == nil {
		positions := make([]float64, 0, len(h.line.Points)*2)
		for _, p := range h.line.Points {
			positions = append(positions, p[0], p[1])
		}
		h.req = &elevation.Request{
			Positions: positions,
			Apply: func(heights []float64) {
				h.heights = heights
			},
		}
	}
	return h.req
}

func (h *PolylineHandler) Features() []*tile3d.Feature {
	if len(h.line.Points) < 2 {
		return nil
	}

	switch h.kind {
	case polylineRoad:
		verts, indices := ribbon(h.line.Points, h.road.Width, nil)
		return []*tile3d.Feature{{
			Kind:     tile3d.KindProjected,
			Material: h.roadSurface(),
			Vertices: verts,
			Indices:  indices,
			Origin:   h.line.Origin,
		}}

	case polylinePath, polylineWaterway:
		width := h.style.PathWidth
		material := "path"
		if h.kind == polylineWaterway {
			width = h.style.WaterwayWidth
			material = "water"
		}
		verts, indices := ribbon(h.line.Points, width, h.scaledHeights())
		return []*tile3d.Feature{{
			Kind:     tile3d.KindHugging,
			Material: material,
			Vertices: verts,
			Indices:  indices,
			Origin:   h.line.Origin,
		}}

	case polylineWall, polylineFence:
		height := h.style.WallHeight
		material := "wall"
		if h.kind == polylineFence {
			height = h.style.FenceHeight
			material = "fence"
		}
		verts, indices := wallStrip(h.line.Points, h.heights, height)
		return []*tile3d.Feature{{
			Kind:     tile3d.KindExtruded,
			Material: material,
			Vertices: verts,
			Indices:  indices,
			Origin:   h.line.Origin,
		}}
	}
	return nil
}

func (h *PolylineHandler) roadSurface() string {
	if h.material == roadgraph.MaterialNone {
		return roadgraph.MaterialAsphalt.String()
	}
	return h.material.String()
}

func (h *PolylineHandler) scaledHeights() []float64 {
	if h.heights == nil {
		return nil
	}
	scaled := make([]float64, len(h.heights))
	for i, v := range h.heights {
		scaled[i] = v * h.scale
	}
	return scaled
}
