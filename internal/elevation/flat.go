package elevation

import (
	"context"
)

// Flat is a trivial provider returning the same height for every position.
// Used when no terrain service is wired up, and in tests.
type Flat struct {
	Height float64
}

// QueryHeights returns Height once per submitted position pair
func (f Flat) QueryHeights(_ context.Context, positions []float64) ([]float64, error) {
	heights := make([]float64, len(positions)/2)
	for i := range heights {
		heights[i] = f.Height
	}
	return heights, nil
}
