package handler

import (
	"github.com/westnordost/streets-gl/internal/elevation"
	"github.com/westnordost/streets-gl/internal/roadgraph"
	"github.com/westnordost/streets-gl/internal/style"
	"github.com/westnordost/streets-gl/internal/tile3d"
	"github.com/westnordost/streets-gl/internal/vectile"
)

// NodeHandler converts one point feature into an instance and/or a label.
type NodeHandler struct {
	node  *vectile.Node
	style *style.Config

	model string // instanced model name, empty when the node places nothing
	label string

	scale     float64
	height    float64
	hasHeight bool
	req       *elevation.Request
}

// NewNode builds a handler for one point feature
func NewNode(node *vectile.Node, st *style.Config) *NodeHandler {
	h := &NodeHandler{node: node, style: st, scale: 1}

	// Power towers and poles belong to the powerline aggregate handler.
	if node.Tags.Find("power") == "" {
		h.model = instanceModel(node)
	}
	h.label = node.Tags.Find("name")

	return h
}

func instanceModel(node *vectile.Node) string {
	switch {
	case node.Tags.Find("natural") == "tree":
		return "tree"
	case node.Tags.Find("highway") == "street_lamp":
		return "street_lamp"
	case node.Tags.Find("emergency") == "fire_hydrant":
		return "fire_hydrant"
	case node.Tags.Find("amenity") == "bench":
		return "bench"
	}
	return ""
}

func (h *NodeHandler) SetMercatorScale(scale float64) {
	h.scale = scale
}

func (h *NodeHandler) SetRoadGraph(*roadgraph.Graph) {}

func (h *NodeHandler) Road() (*roadgraph.Road, roadgraph.Material) {
	return nil, roadgraph.MaterialNone
}

func (h *NodeHandler) ElevationRequest() *elevation.Request {
	if h.model == "" && h.label == "" {
		return nil
	}
	if h.req == nil {
		h.req = &elevation.Request{
			Positions: []float64{h.node.Point[0], h.node.Point[1]},
			Apply: func(heights []float64) {
				h.height = heights[0]
				h.hasHeight = true
			},
		}
	}
	return h.req
}

func (h *NodeHandler) Features() []*tile3d.Feature {
	var features []*tile3d.Feature
	y := h.height * h.scale

	if h.model != "" {
		instance := &tile3d.Feature{
			Kind:     tile3d.KindInstance,
			Material: h.model,
			Vertices: []float64{h.node.Point[0], y, h.node.Point[1]},
			Origin:   h.node.Origin,
		}
		if h.model == "tree" {
			instance.Height = h.style.TreeHeight * h.scale
		}
		features = append(features, instance)
	}
	if h.label != "" {
		features = append(features, &tile3d.Feature{
			Kind:     tile3d.KindLabel,
			Text:     h.label,
			Vertices: []float64{h.node.Point[0], y, h.node.Point[1]},
			Origin:   h.node.Origin,
		})
	}
	return features
}
