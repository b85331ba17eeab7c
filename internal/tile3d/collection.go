package tile3d

import (
	"github.com/paulmach/osm"
)

// Kind tags an output feature with the geometry class the renderer expects.
type Kind int

const (
	// KindInstance is a single placed model (tree, pole, tower).
	KindInstance Kind = iota
	// KindProjected is flat geometry projected onto the ground plane.
	KindProjected
	// KindExtruded is a vertically extruded volume.
	KindExtruded
	// KindHugging is geometry that follows the terrain surface.
	KindHugging
	// KindLabel is a text label anchored at a point.
	KindLabel
)

var kindNames = map[Kind]string{
	KindInstance:  "instance",
	KindProjected: "projected",
	KindExtruded:  "extruded",
	KindHugging:   "hugging",
	KindLabel:     "label",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// Feature is one renderable 3D feature. Vertices are interleaved x, y, z with
// y pointing up; Indices triangulate the vertex buffer where the kind calls
// for solid geometry, and stay empty for instances, labels and line strips.
// Height gives instances their vertical extent in meters; zero means the
// model's native size.
type Feature struct {
	Kind     Kind          `json:"kind"`
	Material string        `json:"material,omitempty"`
	Vertices []float64     `json:"vertices"`
	Indices  []uint32      `json:"indices,omitempty"`
	Height   float64       `json:"height,omitempty"`
	Text     string        `json:"text,omitempty"`
	Origin   osm.ElementID `json:"origin,omitempty"`
}

// Collection is the assembled 3D output of one tile: five ordered buckets,
// one per kind. Order within a bucket follows handler order; there is no
// global order across buckets.
type Collection struct {
	Instances []*Feature `json:"instances"`
	Projected []*Feature `json:"projected"`
	Extruded  []*Feature `json:"extruded"`
	Hugging   []*Feature `json:"hugging"`
	Labels    []*Feature `json:"labels"`
}

// NewCollection returns an empty collection
func NewCollection() *Collection {
	return &Collection{}
}

// Add appends a feature to the bucket matching its kind. Nil features are
// dropped.
func (c *Collection) Add(f *Feature) {
	if f == nil {
		return
	}
	switch f.Kind {
	case KindInstance:
		c.Instances = append(c.Instances, f)
	case KindProjected:
		c.Projected = append(c.Projected, f)
	case KindExtruded:
		c.Extruded = append(c.Extruded, f)
	case KindHugging:
		c.Hugging = append(c.Hugging, f)
	case KindLabel:
		c.Labels = append(c.Labels, f)
	}
}

// Size returns the total feature count across all buckets
func (c *Collection) Size() int {
	return len(c.Instances) + len(c.Projected) + len(c.Extruded) + len(c.Hugging) + len(c.Labels)
}

// ScaleExtrudedHeights multiplies the vertical coordinate of every extruded
// feature by the given factor. Applied once after assembly to correct
// mercator distortion of extruded volumes as a whole.
func (c *Collection) ScaleExtrudedHeights(factor float64) {
	for _, f := range c.Extruded {
		for i := 1; i < len(f.Vertices); i += 3 {
			f.Vertices[i] *= factor
		}
	}
}
