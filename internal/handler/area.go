package handler

import (
	"math"
	"strconv"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"

	"github.com/westnordost/streets-gl/internal/elevation"
	"github.com/westnordost/streets-gl/internal/roadgraph"
	"github.com/westnordost/streets-gl/internal/style"
	"github.com/westnordost/streets-gl/internal/tile3d"
	"github.com/westnordost/streets-gl/internal/vectile"
)

type areaKind int

const (
	areaNone areaKind = iota
	areaBuilding
	areaWater
	areaGreen
	areaForest
	areaPavement
)

// degenerate rings below this area are dropped silently
const minRingArea = 1e-6

// AreaHandler converts one polygonal feature: buildings become extruded
// volumes, water and greenery become flat projected polygons, forests
// additionally scatter tree instances, and pavement areas (including the
// synthesized roadway intersections) become projected surfaces.
type AreaHandler struct {
	area  *vectile.Area
	style *style.Config

	kind     areaKind
	centroid orb.Point
	label    string

	treePoints []orb.Point

	scale       float64
	base        float64
	treeHeights []float64
	req         *elevation.Request
}

// NewArea builds a handler for one polygonal feature
func NewArea(area *vectile.Area, st *style.Config) *AreaHandler {
	h := &AreaHandler{area: area, style: st, scale: 1}

	outer := area.OuterRing()
	if len(outer) < 3 {
		return h
	}
	centroid, size := planar.CentroidArea(outer)
	if math.Abs(size) < minRingArea {
		return h
	}
	h.centroid = centroid
	h.classify()
	h.label = area.Tags.Find("name")

	if h.kind == areaForest {
		h.treePoints = scatterTrees(outer, st.TreeSpacing)
	}
	return h
}

func (h *AreaHandler) classify() {
	tags := h.area.Tags

	switch {
	case tags.Find("building") != "":
		h.kind = areaBuilding
	case tags.Find("area:highway") != "":
		h.kind = areaPavement
	case tags.Find("natural") == "water" || tags.Find("landuse") == "reservoir":
		h.kind = areaWater
	case tags.Find("landuse") == "forest" || tags.Find("natural") == "wood":
		h.kind = areaForest
	case tags.Find("landuse") == "grass" || tags.Find("landuse") == "meadow" ||
		tags.Find("leisure") == "park" || tags.Find("leisure") == "garden":
		h.kind = areaGreen
	}
}

// scatterTrees lays a deterministic grid of tree positions over the ring's
// bounding box and keeps the ones inside the polygon.
func scatterTrees(ring orb.Ring, spacing float64) []orb.Point {
	if spacing <= 0 {
		return nil
	}
	bound := ring.Bound()

	var points []orb.Point
	// offset alternating rows by half the spacing so the grid reads less
	// mechanical
	row := 0
	for y := bound.Min[1] + spacing/2; y < bound.Max[1]; y += spacing {
		shift := 0.0
		if row%2 == 1 {
			shift = spacing / 2
		}
		for x := bound.Min[0] + spacing/2 + shift; x < bound.Max[0]; x += spacing {
			p := orb.Point{x, y}
			if planar.RingContains(ring, p) {
				points = append(points, p)
			}
		}
		row++
	}
	return points
}

func (h *AreaHandler) SetMercatorScale(scale float64) {
	h.scale = scale
}

func (h *AreaHandler) SetRoadGraph(*roadgraph.Graph) {}

func (h *AreaHandler) Road() (*roadgraph.Road, roadgraph.Material) {
	return nil, roadgraph.MaterialNone
}

func (h *AreaHandler) ElevationRequest() *elevation.Request {
	if h.req != nil {
		return h.req
	}

	switch h.kind {
	case areaBuilding:
		h.req = &elevation.Request{
			Positions: []float64{h.centroid[0], h.centroid[1]},
			Apply: func(heights []float64) {
				h.base = heights[0]
			},
		}

	case areaForest:
		labeled := h.label != ""
		positions := make([]float64, 0, (len(h.treePoints)+1)*2)
		if labeled {
			positions = append(positions, h.centroid[0], h.centroid[1])
		}
		for _, p := range h.treePoints {
			positions = append(positions, p[0], p[1])
		}
		if len(positions) == 0 {
			return nil
		}
		h.req = &elevation.Request{
			Positions: positions,
			Apply: func(heights []float64) {
				if labeled {
					h.base = heights[0]
					heights = heights[1:]
				}
				h.treeHeights = heights
			},
		}

	case areaWater, areaGreen, areaPavement:
		// flat surfaces only need terrain for anchoring a label
		if h.label == "" {
			return nil
		}
		h.req = &elevation.Request{
			Positions: []float64{h.centroid[0], h.centroid[1]},
			Apply: func(heights []float64) {
				h.base = heights[0]
			},
		}

	default:
		return nil
	}
	return h.req
}

func (h *AreaHandler) Features() []*tile3d.Feature {
	var features []*tile3d.Feature

	switch h.kind {
	case areaBuilding:
		features = append(features, h.buildingFeature())

	case areaWater:
		features = append(features, h.flatFeature("water"))

	case areaGreen:
		features = append(features, h.flatFeature("grass"))

	case areaForest:
		features = append(features, h.flatFeature("grass"))
		for i, p := range h.treePoints {
			y := 0.0
			if h.treeHeights != nil {
				y = h.treeHeights[i] * h.scale
			}
			features = append(features, &tile3d.Feature{
				Kind:     tile3d.KindInstance,
				Material: "tree",
				Vertices: []float64{p[0], y, p[1]},
				Height:   h.style.TreeHeight * h.scale,
				Origin:   h.area.Origin,
			})
		}

	case areaPavement:
		features = append(features, h.flatFeature(h.pavementMaterial()))
	}

	if h.label != "" && h.kind != areaNone {
		features = append(features, &tile3d.Feature{
			Kind:     tile3d.KindLabel,
			Text:     h.label,
			Vertices: []float64{h.centroid[0], h.base * h.scale, h.centroid[1]},
			Origin:   h.area.Origin,
		})
	}
	return features
}

// innerRings returns the hole outlines big enough to matter.
func (h *AreaHandler) innerRings() []orb.Ring {
	var inners []orb.Ring
	for _, ring := range h.area.Rings {
		if ring.Type != vectile.RingInner || len(ring.Nodes) < 3 {
			continue
		}
		if _, size := planar.CentroidArea(ring.Nodes); math.Abs(size) < minRingArea {
			continue
		}
		inners = append(inners, ring.Nodes)
	}
	return inners
}

// buildingFeature extrudes every usable ring into walls and caps the roof,
// leaving courtyards open.
func (h *AreaHandler) buildingFeature() *tile3d.Feature {
	height := h.buildingHeight()

	var verts []float64
	var indices []uint32
	for _, ring := range h.area.Rings {
		if len(ring.Nodes) < 3 {
			continue
		}
		if _, size := planar.CentroidArea(ring.Nodes); math.Abs(size) < minRingArea {
			continue
		}
		wallVerts, wallIndices := extrudeRing(ring.Nodes, h.base, height)
		verts, indices = appendGeometry(verts, indices, wallVerts, wallIndices)
	}

	roofVerts, roofIndices := flatPolygon(h.area.OuterRing(), h.innerRings(), h.base+height)
	verts, indices = appendGeometry(verts, indices, roofVerts, roofIndices)

	if len(verts) == 0 {
		return nil
	}
	return &tile3d.Feature{
		Kind:     tile3d.KindExtruded,
		Material: "building",
		Vertices: verts,
		Indices:  indices,
		Origin:   h.area.Origin,
	}
}

func (h *AreaHandler) buildingHeight() float64 {
	if v := h.area.Tags.Find("height"); v != "" {
		if height, err := strconv.ParseFloat(v, 64); err == nil && height > 0 {
			return height
		}
	}
	if v := h.area.Tags.Find("building:levels"); v != "" {
		if levels, err := strconv.ParseFloat(v, 64); err == nil && levels > 0 {
			return levels * h.style.LevelHeight
		}
	}
	return h.style.DefaultLevels * h.style.LevelHeight
}

func (h *AreaHandler) flatFeature(material string) *tile3d.Feature {
	verts, indices := flatPolygon(h.area.OuterRing(), h.innerRings(), 0)
	if len(verts) == 0 {
		return nil
	}
	return &tile3d.Feature{
		Kind:     tile3d.KindProjected,
		Material: material,
		Vertices: verts,
		Indices:  indices,
		Origin:   h.area.Origin,
	}
}

func (h *AreaHandler) pavementMaterial() string {
	surface := h.area.Tags.Find("surface")
	if m := roadgraph.MaterialFromString(surface); m != roadgraph.MaterialNone {
		return m.String()
	}
	if mapped, ok := h.style.SurfaceMaterials[surface]; ok {
		return mapped
	}
	return roadgraph.MaterialAsphalt.String()
}
