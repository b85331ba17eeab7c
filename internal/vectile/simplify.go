package vectile

import (
	"github.com/paulmach/orb/simplify"
)

// SimplifyRings replaces each ring's node sequence with its Douglas-Peucker
// simplification at the given tolerance. Single pass, not recursive; the
// endpoints of every ring survive, so the first/last closing relationship is
// preserved. Simplifying an already-simplified ring at the same tolerance is
// a no-op.
func SimplifyRings(a *Area, tolerance float64) {
	dp := simplify.DouglasPeucker(tolerance)
	for i := range a.Rings {
		if len(a.Rings[i].Nodes) < 4 {
			continue
		}
		a.Rings[i].Nodes = dp.Ring(a.Rings[i].Nodes)
	}
}
