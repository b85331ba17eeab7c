package roadgraph

import (
	"math"

	"github.com/paulmach/orb"
)

// minMaterialVotes is the minimum number of non-none material votes an
// intersection needs before a pavement polygon is synthesized for it.
const minMaterialVotes = 3

// footprintReach stretches the intersection polygon along each incident road
// relative to the widest incident half width.
const footprintReach = 1.5

// Direction is one incident road end at an intersection.
type Direction struct {
	Road  *Road
	Angle float64 // radians, toward the road's neighboring vertex
}

// Intersection is a graph vertex where two or more roads meet. Directions
// are sorted by angle. Skipped marks intersections that resolved no usable
// material.
type Intersection struct {
	Center     orb.Point
	Directions []Direction
	Skipped    bool
}

// ResolveMaterial tallies the material votes of the intersection's incident
// road ends against the side table and returns the winning material. Every
// incident road end with a declared material casts one vote; "none" is
// ignored. Fewer than minMaterialVotes votes, or a zero-vote winner, marks
// the intersection skipped and reports false. Ties resolve to the first
// material in declaration order.
func ResolveMaterial(it *Intersection, materials map[*Road]Material) (Material, bool) {
	votes := make(map[Material]int)
	total := 0
	for _, d := range it.Directions {
		m, ok := materials[d.Road]
		if !ok || m == MaterialNone {
			continue
		}
		votes[m]++
		total++
	}

	if total < minMaterialVotes {
		it.Skipped = true
		return MaterialNone, false
	}

	winner := MaterialNone
	winnerVotes := 0
	for _, m := range votingOrder {
		if votes[m] > winnerVotes {
			winner = m
			winnerVotes = votes[m]
		}
	}
	if winnerVotes == 0 {
		it.Skipped = true
		return MaterialNone, false
	}
	return winner, true
}

// Footprint builds the intersection's pavement outline: two corner points
// per incident direction, pushed out along the direction and offset by the
// road's half width. The ring is closed by repeating the first vertex and
// then reversed in winding.
func (it *Intersection) Footprint() orb.Ring {
	if len(it.Directions) < 2 {
		return nil
	}

	reach := 0.0
	for _, d := range it.Directions {
		if half := d.Road.Width / 2; half > reach {
			reach = half
		}
	}
	reach *= footprintReach

	ring := make(orb.Ring, 0, len(it.Directions)*2+1)
	for _, d := range it.Directions {
		sin, cos := math.Sincos(d.Angle)
		half := d.Road.Width / 2
		// perpendicular on the trailing side first so consecutive
		// directions chain into a counter-clockwise outline
		ring = append(ring,
			orb.Point{it.Center[0] + cos*reach + sin*half, it.Center[1] + sin*reach - cos*half},
			orb.Point{it.Center[0] + cos*reach - sin*half, it.Center[1] + sin*reach + cos*half},
		)
	}
	ring = append(ring, ring[0])

	for i, j := 0, len(ring)-1; i < j; i, j = i+1, j-1 {
		ring[i], ring[j] = ring[j], ring[i]
	}
	return ring
}
