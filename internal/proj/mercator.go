package proj

import (
	"math"
)

// Web Mercator constants
const (
	// Semi-major axis of WGS84 ellipsoid in meters
	earthRadius = 6378137.0
	// Maximum extent of Web Mercator
	maxExtent = 20037508.342789244
)

// LonLatToWebMercator converts WGS84 (lon, lat) to Web Mercator (x, y) meters
func LonLatToWebMercator(lon, lat float64) (x, y float64) {
	// Clamp latitude to avoid infinity at poles
	if lat > 85.06 {
		lat = 85.06
	} else if lat < -85.06 {
		lat = -85.06
	}

	x = lon * maxExtent / 180.0

	latRad := lat * math.Pi / 180.0
	y = math.Log(math.Tan(math.Pi/4.0+latRad/2.0)) * earthRadius

	return x, y
}

// TileSizeMeters returns the side length of a tile at the given zoom in
// Web Mercator meters.
func TileSizeMeters(zoom int) float64 {
	return 2 * maxExtent / float64(int64(1)<<uint(zoom))
}

// TileBounds returns the Web Mercator bounds of tile (x, y) at the given
// zoom. minY/maxY follow mercator axis orientation (north is +y), while the
// tile y index grows southward.
func TileBounds(x, y, zoom int) (minX, minY, maxX, maxY float64) {
	size := TileSizeMeters(zoom)
	minX = -maxExtent + float64(x)*size
	maxY = maxExtent - float64(y)*size
	return minX, maxY - size, minX + size, maxY
}

// TileCenterLat returns the latitude (degrees) of the center of tile row y
// at the given zoom.
func TileCenterLat(y, zoom int) float64 {
	n := math.Pi * (1 - 2*(float64(y)+0.5)/float64(int64(1)<<uint(zoom)))
	return math.Atan(math.Sinh(n)) * 180.0 / math.Pi
}

// MercatorScaleFactor returns the local projection distortion factor for a
// tile: one real-world meter spans this many mercator meters at the tile
// center. Heights extruded in mercator space are multiplied by it so they
// keep their proportions at high latitudes.
func MercatorScaleFactor(x, y, zoom int) float64 {
	latRad := TileCenterLat(y, zoom) * math.Pi / 180.0
	return 1.0 / math.Cos(latRad)
}
