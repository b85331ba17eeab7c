package handler

import (
	"github.com/paulmach/orb"

	"github.com/westnordost/streets-gl/internal/elevation"
	"github.com/westnordost/streets-gl/internal/roadgraph"
	"github.com/westnordost/streets-gl/internal/style"
	"github.com/westnordost/streets-gl/internal/tile3d"
	"github.com/westnordost/streets-gl/internal/vectile"
)

// PowerlineHandler is the aggregate handler: it scans the whole input
// collection once for power infrastructure and emits tower instances plus
// sagging wire spans between consecutive line vertices. Exactly one is
// appended after all per-feature handlers.
type PowerlineHandler struct {
	style *style.Config

	towers []*vectile.Node
	lines  []*vectile.Polyline

	scale   float64
	heights []float64
	req     *elevation.Request
}

// NewPowerline scans the collection for towers and power lines
func NewPowerline(src *vectile.Collection, st *style.Config) *PowerlineHandler {
	h := &PowerlineHandler{style: st, scale: 1}

	for _, node := range src.Nodes {
		switch node.Tags.Find("power") {
		case "tower", "pole":
			h.towers = append(h.towers, node)
		}
	}
	for _, line := range src.Polylines {
		switch line.Tags.Find("power") {
		case "line", "minor_line":
			if len(line.Points) >= 2 {
				h.lines = append(h.lines, line)
			}
		}
	}
	return h
}

func (h *PowerlineHandler) SetMercatorScale(scale float64) {
	h.scale = scale
}

func (h *PowerlineHandler) SetRoadGraph(*roadgraph.Graph) {}

func (h *PowerlineHandler) Road() (*roadgraph.Road, roadgraph.Material) {
	return nil, roadgraph.MaterialNone
}

// sampleCount returns how many positions the handler samples: one per tower,
// then one per line vertex.
func (h *PowerlineHandler) sampleCount() int {
	n := len(h.towers)
	for _, line := range h.lines {
		n += len(line.Points)
	}
	return n
}

func (h *PowerlineHandler) ElevationRequest() *elevation.Request {
	if h.sampleCount() == 0 {
		return nil
	}
	if h.req == nil {
		positions := make([]float64, 0, h.sampleCount()*2)
		for _, tower := range h.towers {
			positions = append(positions, tower.Point[0], tower.Point[1])
		}
		for _, line := range h.lines {
			for _, p := range line.Points {
				positions = append(positions, p[0], p[1])
			}
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

func (h *PowerlineHandler) Features() []*tile3d.Feature {
	var features []*tile3d.Feature

	cursor := 0
	ground := func() float64 {
		y := 0.0
		if h.heights != nil {
			y = h.heights[cursor]
		}
		cursor++
		return y
	}

	for _, tower := range h.towers {
		features = append(features, &tile3d.Feature{
			Kind:     tile3d.KindInstance,
			Material: "power_tower",
			Vertices: []float64{tower.Point[0], ground() * h.scale, tower.Point[1]},
			Origin:   tower.Origin,
		})
	}

	for _, line := range h.lines {
		attach := h.style.PowerlineHeight
		sag := h.style.PowerlineSag

		verts := make([]float64, 0, (len(line.Points)*2-1)*3)
		var prev orb.Point
		var prevY float64
		for i, p := range line.Points {
			y := (ground() + attach) * h.scale
			if i > 0 {
				// wire dips halfway between supports
				mid := orb.Point{(prev[0] + p[0]) / 2, (prev[1] + p[1]) / 2}
				midY := (prevY+y)/2 - sag*h.scale
				verts = append(verts, mid[0], midY, mid[1])
			}
			verts = append(verts, p[0], y, p[1])
			prev = p
			prevY = y
		}

		features = append(features, &tile3d.Feature{
			Kind:     tile3d.KindHugging,
			Material: "powerline",
			Vertices: verts,
			Origin:   line.Origin,
		})
	}
	return features
}
