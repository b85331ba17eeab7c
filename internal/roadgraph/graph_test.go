package roadgraph

import (
	"testing"

	"github.com/paulmach/orb"
)

func TestFinalizeFindsSharedVertices(t *testing.T) {
	through := &Road{Points: orb.LineString{{0, 50}, {50, 50}, {100, 50}}, Width: 8}
	ending := &Road{Points: orb.LineString{{50, 50}, {50, 100}}, Width: 6}

	g := NewGraph()
	if err := g.AddRoad(through); err != nil {
		t.Fatalf("AddRoad: %v", err)
	}
	if err := g.AddRoad(ending); err != nil {
		t.Fatalf("AddRoad: %v", err)
	}
	if err := g.Finalize(); err != nil {
		t.Fatalf("Finalize: %v", err)
	}

	intersections := g.Intersections()
	if len(intersections) != 1 {
		t.Fatalf("expected 1 intersection, got %d", len(intersections))
	}

	it := intersections[0]
	if it.Center != (orb.Point{50, 50}) {
		t.Errorf("center = %v, want (50, 50)", it.Center)
	}
	// The through road contributes two directions, the ending road one.
	if len(it.Directions) != 3 {
		t.Fatalf("expected 3 incident directions, got %d", len(it.Directions))
	}
	for i := 1; i < len(it.Directions); i++ {
		if it.Directions[i-1].Angle > it.Directions[i].Angle {
			t.Errorf("directions not sorted by angle: %v", it.Directions)
		}
	}
}

func TestSingleRoadHasNoIntersections(t *testing.T) {
	g := NewGraph()
	g.AddRoad(&Road{Points: orb.LineString{{0, 0}, {50, 0}, {100, 0}}, Width: 8})
	if err := g.Finalize(); err != nil {
		t.Fatalf("Finalize: %v", err)
	}
	if len(g.Intersections()) != 0 {
		t.Errorf("a lone road must produce no intersections, got %d", len(g.Intersections()))
	}
}

func TestQuantizationSnapsNearbyEndpoints(t *testing.T) {
	a := &Road{Points: orb.LineString{{0, 0}, {50, 0}}, Width: 8}
	b := &Road{Points: orb.LineString{{50.01, 0.01}, {50, 50}}, Width: 8}
	c := &Road{Points: orb.LineString{{49.99, -0.01}, {100, 0}}, Width: 8}

	g := NewGraph()
	g.AddRoad(a)
	g.AddRoad(b)
	g.AddRoad(c)
	if err := g.Finalize(); err != nil {
		t.Fatalf("Finalize: %v", err)
	}

	if len(g.Intersections()) != 1 {
		t.Fatalf("expected endpoints within snapping distance to merge, got %d intersections", len(g.Intersections()))
	}
	if len(g.Intersections()[0].Directions) != 3 {
		t.Errorf("expected 3 directions, got %d", len(g.Intersections()[0].Directions))
	}
}

func TestAddRoadAfterFinalizeFails(t *testing.T) {
	g := NewGraph()
	if err := g.Finalize(); err != nil {
		t.Fatalf("Finalize: %v", err)
	}
	if err := g.AddRoad(&Road{Points: orb.LineString{{0, 0}, {1, 1}}}); err == nil {
		t.Error("registration after finalization must fail")
	}
	if err := g.Finalize(); err == nil {
		t.Error("double finalization must fail")
	}
}

func TestResolveMaterialMajority(t *testing.T) {
	roads := []*Road{
		{Points: orb.LineString{{0, 0}, {1, 0}}},
		{Points: orb.LineString{{0, 0}, {0, 1}}},
		{Points: orb.LineString{{0, 0}, {-1, 0}}},
	}

	tests := []struct {
		name      string
		materials []Material
		want      Material
		usable    bool
	}{
		{
			name:      "clear majority",
			materials: []Material{MaterialAsphalt, MaterialAsphalt, MaterialConcrete},
			want:      MaterialAsphalt,
			usable:    true,
		},
		{
			name:      "below vote threshold",
			materials: []Material{MaterialAsphalt, MaterialConcrete, MaterialNone},
			usable:    false,
		},
		{
			name:      "three-way tie resolves to first declared",
			materials: []Material{MaterialCobblestone, MaterialConcrete, MaterialAsphalt},
			want:      MaterialAsphalt,
			usable:    true,
		},
		{
			name:      "all votes none",
			materials: []Material{MaterialNone, MaterialNone, MaterialNone},
			usable:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			it := &Intersection{Center: orb.Point{0, 0}}
			table := make(map[*Road]Material)
			for i, road := range roads {
				it.Directions = append(it.Directions, Direction{Road: road, Angle: float64(i)})
				table[road] = tt.materials[i]
			}

			got, ok := ResolveMaterial(it, table)
			if ok != tt.usable {
				t.Fatalf("usable = %v, want %v", ok, tt.usable)
			}
			if !tt.usable {
				if !it.Skipped {
					t.Error("unusable intersection must be marked skipped")
				}
				return
			}
			if got != tt.want {
				t.Errorf("material = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestResolveMaterialCountsPerRoadEnd(t *testing.T) {
	// A through road casts one vote per incident end, so two concrete ends
	// plus one asphalt end reach the threshold and resolve to concrete.
	through := &Road{Points: orb.LineString{{0, 50}, {50, 50}, {100, 50}}}
	ending := &Road{Points: orb.LineString{{50, 50}, {50, 100}}}

	it := &Intersection{
		Center: orb.Point{50, 50},
		Directions: []Direction{
			{Road: through, Angle: 0},
			{Road: ending, Angle: 1.5},
			{Road: through, Angle: 3.1},
		},
	}
	table := map[*Road]Material{through: MaterialConcrete, ending: MaterialAsphalt}

	got, ok := ResolveMaterial(it, table)
	if !ok || got != MaterialConcrete {
		t.Errorf("material = %v (usable=%v), want concrete", got, ok)
	}
}

func shoelace(r orb.Ring) float64 {
	sum := 0.0
	for i := 1; i < len(r); i++ {
		sum += r[i-1][0]*r[i][1] - r[i][0]*r[i-1][1]
	}
	return sum / 2
}

func TestFootprintClosedAndReverseWound(t *testing.T) {
	ew := &Road{Points: orb.LineString{{0, 50}, {50, 50}, {100, 50}}, Width: 8}
	ns := &Road{Points: orb.LineString{{50, 0}, {50, 50}, {50, 100}}, Width: 8}

	g := NewGraph()
	g.AddRoad(ew)
	g.AddRoad(ns)
	if err := g.Finalize(); err != nil {
		t.Fatalf("Finalize: %v", err)
	}
	if len(g.Intersections()) != 1 {
		t.Fatalf("expected 1 intersection, got %d", len(g.Intersections()))
	}

	ring := g.Intersections()[0].Footprint()
	if len(ring) != 9 {
		t.Fatalf("expected 2 corners per direction plus closing vertex, got %d", len(ring))
	}
	if ring[0] != ring[len(ring)-1] {
		t.Errorf("ring not closed: first %v, last %v", ring[0], ring[len(ring)-1])
	}
	// Raw corner order is counter-clockwise; the synthesized ring is handed
	// out reversed, so its signed area must be negative.
	if area := shoelace(ring); area >= 0 {
		t.Errorf("ring winding not reversed, signed area = %f", area)
	}
}
