package handler

import (
	"math"
	"sort"

	"github.com/paulmach/orb"
)

// vertexNormal returns the averaged unit normal of the segments meeting at
// point i of the line.
func vertexNormal(points orb.LineString, i int) (nx, ny float64) {
	if i > 0 {
		dx := points[i][0] - points[i-1][0]
		dy := points[i][1] - points[i-1][1]
		if l := math.Hypot(dx, dy); l > 0 {
			nx += -dy / l
			ny += dx / l
		}
	}
	if i < len(points)-1 {
		dx := points[i+1][0] - points[i][0]
		dy := points[i+1][1] - points[i][1]
		if l := math.Hypot(dx, dy); l > 0 {
			nx += -dy / l
			ny += dx / l
		}
	}
	if l := math.Hypot(nx, ny); l > 0 {
		nx /= l
		ny /= l
	}
	return nx, ny
}

// ribbon triangulates a constant-width band along the line. Two vertices per
// line point; heights supplies the vertical coordinate per point, nil meaning
// ground level.
func ribbon(points orb.LineString, width float64, heights []float64) ([]float64, []uint32) {
	if len(points) < 2 {
		return nil, nil
	}

	half := width / 2
	verts := make([]float64, 0, len(points)*6)
	for i, p := range points {
		nx, ny := vertexNormal(points, i)
		y := 0.0
		if heights != nil {
			y = heights[i]
		}
		verts = append(verts,
			p[0]-nx*half, y, p[1]-ny*half,
			p[0]+nx*half, y, p[1]+ny*half,
		)
	}

	indices := make([]uint32, 0, (len(points)-1)*6)
	for i := 0; i < len(points)-1; i++ {
		a := uint32(i * 2)
		indices = append(indices, a, a+1, a+2, a+1, a+3, a+2)
	}
	return verts, indices
}

// wallStrip builds a vertical band standing on the line. base supplies the
// per-point foot height (nil meaning ground level); the band rises by height.
func wallStrip(points orb.LineString, base []float64, height float64) ([]float64, []uint32) {
	if len(points) < 2 {
		return nil, nil
	}

	verts := make([]float64, 0, len(points)*6)
	for i, p := range points {
		foot := 0.0
		if base != nil {
			foot = base[i]
		}
		verts = append(verts,
			p[0], foot, p[1],
			p[0], foot+height, p[1],
		)
	}

	indices := make([]uint32, 0, (len(points)-1)*6)
	for i := 0; i < len(points)-1; i++ {
		a := uint32(i * 2)
		indices = append(indices, a, a+2, a+1, a+1, a+2, a+3)
	}
	return verts, indices
}

// ringArea returns the signed area of the ring (positive when wound
// counter-clockwise in the x/z plane).
func ringArea(ring orb.Ring) float64 {
	sum := 0.0
	for i := 1; i < len(ring); i++ {
		sum += ring[i-1][0]*ring[i][1] - ring[i][0]*ring[i-1][1]
	}
	if len(ring) > 1 && ring[0] != ring[len(ring)-1] {
		last := len(ring) - 1
		sum += ring[last][0]*ring[0][1] - ring[0][0]*ring[last][1]
	}
	return sum / 2
}

// openRing strips the closing vertex so first != last
func openRing(ring orb.Ring) orb.Ring {
	if len(ring) > 1 && ring[0] == ring[len(ring)-1] {
		return ring[:len(ring)-1]
	}
	return ring
}

func cross(o, a, b orb.Point) float64 {
	return (a[0]-o[0])*(b[1]-o[1]) - (a[1]-o[1])*(b[0]-o[0])
}

func pointInTriangle(p, a, b, c orb.Point) bool {
	d1 := cross(p, a, b)
	d2 := cross(p, b, c)
	d3 := cross(p, c, a)
	hasNeg := d1 < 0 || d2 < 0 || d3 < 0
	hasPos := d1 > 0 || d2 > 0 || d3 > 0
	return !(hasNeg && hasPos)
}

// triangulateRing ear-clips a simple polygon ring into triangle indices into
// the opened ring. Degenerate remainders fall back to a fan so a slightly
// self-touching outline never aborts the feature.
func triangulateRing(ring orb.Ring) []uint32 {
	open := openRing(ring)
	n := len(open)
	if n < 3 {
		return nil
	}

	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	if ringArea(open) < 0 {
		for i, j := 0, n-1; i < j; i, j = i+1, j-1 {
			idx[i], idx[j] = idx[j], idx[i]
		}
	}

	var tris []uint32
	for len(idx) > 3 {
		clipped := false
		for i := 0; i < len(idx); i++ {
			prev := idx[(i+len(idx)-1)%len(idx)]
			cur := idx[i]
			next := idx[(i+1)%len(idx)]

			if cross(open[prev], open[cur], open[next]) <= 0 {
				continue
			}
			ear := true
			for _, j := range idx {
				if j == prev || j == cur || j == next {
					continue
				}
				// keyhole rings duplicate bridge vertices; a twin sitting on
				// a corner must not veto the ear
				p := open[j]
				if p == open[prev] || p == open[cur] || p == open[next] {
					continue
				}
				if pointInTriangle(p, open[prev], open[cur], open[next]) {
					ear = false
					break
				}
			}
			if !ear {
				continue
			}

			tris = append(tris, uint32(prev), uint32(cur), uint32(next))
			idx = append(idx[:i], idx[i+1:]...)
			clipped = true
			break
		}
		if !clipped {
			for i := 1; i < len(idx)-1; i++ {
				tris = append(tris, uint32(idx[0]), uint32(idx[i]), uint32(idx[i+1]))
			}
			return tris
		}
	}
	tris = append(tris, uint32(idx[0]), uint32(idx[1]), uint32(idx[2]))
	return tris
}

func reverseRing(ring orb.Ring) {
	for i, j := 0, len(ring)-1; i < j; i, j = i+1, j-1 {
		ring[i], ring[j] = ring[j], ring[i]
	}
}

func rightmostIndex(ring orb.Ring) int {
	best := 0
	for i, p := range ring {
		if p[0] > ring[best][0] {
			best = i
		}
	}
	return best
}

// bridgeVertex picks the ring vertex to cut a keyhole to: the nearest one
// not left of the hole's rightmost point, falling back to the nearest
// overall.
func bridgeVertex(ring orb.Ring, p orb.Point) int {
	best := -1
	bestDist := math.Inf(1)
	for i, v := range ring {
		if v[0] < p[0] {
			continue
		}
		if d := math.Hypot(v[0]-p[0], v[1]-p[1]); d < bestDist {
			best, bestDist = i, d
		}
	}
	if best >= 0 {
		return best
	}
	for i, v := range ring {
		if d := math.Hypot(v[0]-p[0], v[1]-p[1]); d < bestDist {
			best, bestDist = i, d
		}
	}
	return best
}

// combineRings splices hole rings into the outer ring through keyhole
// bridges, yielding one open counter-clockwise ring that a single
// ear-clipping pass can triangulate. The duplicated bridge vertices cancel
// in the signed area.
func combineRings(outer orb.Ring, inners []orb.Ring) orb.Ring {
	combined := append(orb.Ring(nil), openRing(outer)...)
	if ringArea(combined) < 0 {
		reverseRing(combined)
	}

	holes := make([]orb.Ring, 0, len(inners))
	for _, inner := range inners {
		hole := append(orb.Ring(nil), openRing(inner)...)
		if len(hole) < 3 {
			continue
		}
		if ringArea(hole) > 0 {
			reverseRing(hole)
		}
		holes = append(holes, hole)
	}
	// bridge the rightmost hole first so its keyhole cannot cut a later hole
	// off from the boundary
	sort.SliceStable(holes, func(i, j int) bool {
		return holes[i][rightmostIndex(holes[i])][0] > holes[j][rightmostIndex(holes[j])][0]
	})

	for _, hole := range holes {
		hi := rightmostIndex(hole)
		bi := bridgeVertex(combined, hole[hi])
		spliced := make(orb.Ring, 0, len(combined)+len(hole)+2)
		spliced = append(spliced, combined[:bi+1]...)
		for k := 0; k <= len(hole); k++ {
			spliced = append(spliced, hole[(hi+k)%len(hole)])
		}
		spliced = append(spliced, combined[bi:]...)
		combined = spliced
	}
	return combined
}

// flatPolygon triangulates the polygon into a horizontal surface at height
// y. Inner rings become holes left uncovered.
func flatPolygon(outer orb.Ring, inners []orb.Ring, y float64) ([]float64, []uint32) {
	ring := openRing(outer)
	if len(inners) > 0 {
		ring = combineRings(outer, inners)
	}
	indices := triangulateRing(ring)
	if len(indices) == 0 {
		return nil, nil
	}

	verts := make([]float64, 0, len(ring)*3)
	for _, p := range ring {
		verts = append(verts, p[0], y, p[1])
	}
	return verts, indices
}

// extrudeRing builds the side walls of a ring between base and base+height,
// one quad per edge.
func extrudeRing(ring orb.Ring, base, height float64) ([]float64, []uint32) {
	open := openRing(ring)
	if len(open) < 3 {
		return nil, nil
	}

	var verts []float64
	var indices []uint32
	for i := 0; i < len(open); i++ {
		a := open[i]
		b := open[(i+1)%len(open)]
		start := uint32(len(verts) / 3)
		verts = append(verts,
			a[0], base, a[1],
			b[0], base, b[1],
			b[0], base+height, b[1],
			a[0], base+height, a[1],
		)
		indices = append(indices, start, start+1, start+2, start, start+2, start+3)
	}
	return verts, indices
}

// appendGeometry merges a vertex/index pair into the accumulated buffers,
// rebasing the incoming indices.
func appendGeometry(verts []float64, indices []uint32, addVerts []float64, addIndices []uint32) ([]float64, []uint32) {
	offset := uint32(len(verts) / 3)
	verts = append(verts, addVerts...)
	for _, i := range addIndices {
		indices = append(indices, i+offset)
	}
	return verts, indices
}
