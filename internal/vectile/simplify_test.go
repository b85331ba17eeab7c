package vectile

import (
	"testing"

	"github.com/paulmach/orb"
)

func ringEqual(a, b orb.Ring) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestSimplifyRingsRemovesCollinearNoise(t *testing.T) {
	area := &Area{
		Rings: []Ring{
			{
				Type: RingOuter,
				Nodes: orb.Ring{
					{0, 0}, {5, 0.1}, {10, 0}, {10, 10}, {0, 10}, {0, 0},
				},
			},
		},
	}

	SimplifyRings(area, 0.5)

	want := orb.Ring{{0, 0}, {10, 0}, {10, 10}, {0, 10}, {0, 0}}
	if !ringEqual(area.Rings[0].Nodes, want) {
		t.Errorf("simplified ring = %v, want %v", area.Rings[0].Nodes, want)
	}
}

func TestSimplifyRingsIdempotent(t *testing.T) {
	area := &Area{
		Rings: []Ring{
			{
				Type: RingOuter,
				Nodes: orb.Ring{
					{0, 0}, {3, 0.2}, {6, 0.3}, {10, 0}, {10, 4}, {10.2, 7},
					{10, 10}, {5, 10.1}, {0, 10}, {0, 0},
				},
			},
		},
	}

	SimplifyRings(area, 0.5)
	once := make(orb.Ring, len(area.Rings[0].Nodes))
	copy(once, area.Rings[0].Nodes)

	SimplifyRings(area, 0.5)
	if !ringEqual(area.Rings[0].Nodes, once) {
		t.Errorf("second pass changed ring: %v != %v", area.Rings[0].Nodes, once)
	}
}

func TestSimplifyRingsPreservesClosure(t *testing.T) {
	ring := orb.Ring{
		{0, 0}, {2, 0.1}, {4, 0}, {8, 0.2}, {10, 0}, {10, 10}, {0, 10}, {0, 0},
	}
	area := &Area{Rings: []Ring{{Type: RingOuter, Nodes: ring}}}

	SimplifyRings(area, 0.5)

	got := area.Rings[0].Nodes
	if len(got) < 4 {
		t.Fatalf("ring degenerated to %d nodes", len(got))
	}
	if got[0] != got[len(got)-1] {
		t.Errorf("ring no longer closed: first %v, last %v", got[0], got[len(got)-1])
	}
}

func TestSimplifyRingsSkipsTinyRings(t *testing.T) {
	ring := orb.Ring{{0, 0}, {1, 0}, {0, 1}}
	area := &Area{Rings: []Ring{{Type: RingOuter, Nodes: ring}}}

	SimplifyRings(area, 0.5)

	if len(area.Rings[0].Nodes) != 3 {
		t.Errorf("tiny ring must be left alone, got %v", area.Rings[0].Nodes)
	}
}
