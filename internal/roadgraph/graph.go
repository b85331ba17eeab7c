package roadgraph

import (
	"fmt"
	"math"
	"sort"

	"github.com/paulmach/orb"
)

// Road is one connectivity edge of the graph, created by exactly one
// road-producing polyline handler.
type Road struct {
	Points orb.LineString
	Width  float64
}

// positions are quantized to 1/16 of a tile-local unit so that vertices
// shared between ways snap to the same graph vertex.
const quantum = 0.0625

type vertexKey struct {
	x, y int64
}

func keyOf(p orb.Point) vertexKey {
	return vertexKey{
		x: int64(math.Round(p[0] / quantum)),
		y: int64(math.Round(p[1] / quantum)),
	}
}

type incidence struct {
	road   *Road
	toward orb.Point
}

// Graph is the road-connectivity graph of one tile. Write-once-then-read:
// every AddRoad happens before Finalize, and intersections are read only
// after Finalize.
type Graph struct {
	incidences map[vertexKey][]incidence
	centers    map[vertexKey]orb.Point
	order      []vertexKey

	intersections []*Intersection
	finalized     bool
}

// NewGraph returns an empty road graph
func NewGraph() *Graph {
	return &Graph{
		incidences: make(map[vertexKey][]incidence),
		centers:    make(map[vertexKey]orb.Point),
	}
}

// AddRoad registers every vertex of the road in the graph. Interior vertices
// contribute two incident directions, endpoints one.
func (g *Graph) AddRoad(road *Road) error {
	if g.finalized {
		return fmt.Errorf("road registered after graph finalization")
	}
	if len(road.Points) < 2 {
		return nil
	}

	for i, p := range road.Points {
		key := keyOf(p)
		if _, seen := g.centers[key]; !seen {
			g.centers[key] = p
			g.order = append(g.order, key)
		}
		if i > 0 {
			g.incidences[key] = append(g.incidences[key], incidence{road: road, toward: road.Points[i-1]})
		}
		if i < len(road.Points)-1 {
			g.incidences[key] = append(g.incidences[key], incidence{road: road, toward: road.Points[i+1]})
		}
	}
	return nil
}

// Finalize computes the intersection set: every graph vertex where two or
// more distinct roads meet becomes an Intersection, its incident directions
// sorted by angle. No road may be registered afterwards.
func (g *Graph) Finalize() error {
	if g.finalized {
		return fmt.Errorf("graph already finalized")
	}
	g.finalized = true

	for _, key := range g.order {
		incident := g.incidences[key]
		roads := make(map[*Road]struct{}, len(incident))
		for _, in := range incident {
			roads[in.road] = struct{}{}
		}
		if len(roads) < 2 {
			continue
		}

		center := g.centers[key]
		directions := make([]Direction, 0, len(incident))
		for _, in := range incident {
			angle := math.Atan2(in.toward[1]-center[1], in.toward[0]-center[0])
			directions = append(directions, Direction{Road: in.road, Angle: angle})
		}
		sort.Slice(directions, func(i, j int) bool {
			return directions[i].Angle < directions[j].Angle
		})

		g.intersections = append(g.intersections, &Intersection{
			Center:     center,
			Directions: directions,
		})
	}
	return nil
}

// Intersections returns the finalized intersection set, in road registration
// order. Empty before Finalize.
func (g *Graph) Intersections() []*Intersection {
	return g.intersections
}
