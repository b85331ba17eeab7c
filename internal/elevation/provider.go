package elevation

import (
	"context"
	"fmt"
)

// Provider answers batched terrain-height queries. Positions are interleaved
// x, y pairs of arbitrary even length; the result carries exactly one height
// per pair, in the same order. Implementations must be safe for concurrent
// use, since independent tile pipelines may query at the same time.
type Provider interface {
	QueryHeights(ctx context.Context, positions []float64) ([]float64, error)
}

// Request is one handler's elevation demand: the sample positions it needs
// heights for, and the callback that receives them. A handler submits at
// most one request per tile.
type Request struct {
	// Positions holds interleaved x, y sample coordinates.
	Positions []float64
	// Apply receives one height per submitted position pair.
	Apply func(heights []float64)
}

// Resolve satisfies all requests with a single provider round trip. Request
// buffers are concatenated in submission order with a strictly increasing
// cumulative offset recorded per request; the combined result is split by
// those offsets and delivered to each callback in the same order the
// requests were submitted. With no requests the provider is not invoked at
// all. A provider failure aborts resolution with no callback invoked.
func Resolve(ctx context.Context, provider Provider, requests []*Request) error {
	if len(requests) == 0 {
		return nil
	}

	offsets := make([]int, len(requests))
	total := 0
	for i, req := range requests {
		if len(req.Positions)%2 != 0 {
			return fmt.Errorf("request %d has odd position buffer length %d", i, len(req.Positions))
		}
		total += len(req.Positions) / 2
		offsets[i] = total
	}

	combined := make([]float64, 0, total*2)
	for _, req := range requests {
		combined = append(combined, req.Positions...)
	}

	heights, err := provider.QueryHeights(ctx, combined)
	if err != nil {
		return fmt.Errorf("elevation query failed: %w", err)
	}
	if len(heights) != total {
		return fmt.Errorf("elevation provider returned %d heights for %d positions", len(heights), total)
	}

	start := 0
	for i, req := range requests {
		end := offsets[i]
		req.Apply(heights[start:end])
		start = end
	}
	return nil
}
