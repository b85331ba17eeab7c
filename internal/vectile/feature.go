package vectile

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/osm"
)

// RingType tags a polygon ring as outer boundary or inner hole.
type RingType int

const (
	RingOuter RingType = iota
	RingInner
)

// Ring is one ordered boundary of an area feature. Nodes are tile-local
// coordinates; a closed ring repeats its first node last.
type Ring struct {
	Type  RingType
	Nodes orb.Ring
}

// Node is a point feature in tile-local coordinates.
type Node struct {
	Point  orb.Point
	Tags   osm.Tags
	Origin osm.ElementID
}

// Polyline is a linear feature in tile-local coordinates.
type Polyline struct {
	Points orb.LineString
	Tags   osm.Tags
	Origin osm.ElementID
}

// Area is a polygonal feature made of one or more rings.
type Area struct {
	Rings  []Ring
	Tags   osm.Tags
	Origin osm.ElementID
}

// OuterRing returns the first outer ring of the area, or nil.
func (a *Area) OuterRing() orb.Ring {
	for i := range a.Rings {
		if a.Rings[i].Type == RingOuter {
			return a.Rings[i].Nodes
		}
	}
	return nil
}

// Collection holds every vector feature of one tile, in the order the
// upstream provider emitted them.
type Collection struct {
	Nodes     []*Node
	Polylines []*Polyline
	Areas     []*Area
}

// Empty reports whether the collection holds no features at all.
func (c *Collection) Empty() bool {
	return len(c.Nodes) == 0 && len(c.Polylines) == 0 && len(c.Areas) == 0
}
