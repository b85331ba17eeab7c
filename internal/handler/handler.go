// Package handler converts individual vector features into renderable 3D
// tile features. One handler wraps one source feature (the powerline
// aggregate wraps the whole collection); after construction it is mutated
// exactly twice, first with the tile's mercator scale and then with its
// batched elevation results, and finally queried once for output.
package handler

import (
	"github.com/westnordost/streets-gl/internal/elevation"
	"github.com/westnordost/streets-gl/internal/roadgraph"
	"github.com/westnordost/streets-gl/internal/tile3d"
)

// Handler is the shared capability contract of all feature handlers.
type Handler interface {
	// SetMercatorScale hands the handler the tile's projection distortion
	// factor.
	SetMercatorScale(scale float64)

	// SetRoadGraph attaches the shared per-tile road graph. Handlers only
	// read intersection results after the graph is finalized.
	SetRoadGraph(g *roadgraph.Graph)

	// ElevationRequest returns the handler's terrain sample positions, or
	// nil when the handler supplies its own vertical coordinates. Called
	// repeatedly it returns the same request.
	ElevationRequest() *elevation.Request

	// Features returns the handler's output features. Entries may be nil;
	// the assembler drops them.
	Features() []*tile3d.Feature

	// Road returns the road this handler registers in the graph together
	// with its declared intersection material. Non-road handlers return
	// (nil, MaterialNone).
	Road() (*roadgraph.Road, roadgraph.Material)
}
