package geo

import (
	"math"

	"github.com/paulmach/orb"
)

// MaxLat is the latitude limit of the Web Mercator projection.
const MaxLat = 85.05112878

// TileForLonLat converts a WGS84 position to XYZ (slippy) tile indices
// at the given zoom level. Latitude is clamped to the Mercator limits,
// indices are clamped to the tile grid.
func TileForLonLat(lon, lat float64, zoom int) (x, y int) {
	if lat > MaxLat {
		lat = MaxLat
	} else if lat < -MaxLat {
		lat = -MaxLat
	}

	n := float64(int(1) << zoom)
	latRad := lat * math.Pi / 180.0

	x = int(math.Floor((lon + 180.0) / 360.0 * n))
	y = int(math.Floor((1.0 - math.Asinh(math.Tan(latRad))/math.Pi) / 2.0 * n))

	max := (1 << zoom) - 1
	if x < 0 {
		x = 0
	} else if x > max {
		x = max
	}
	if y < 0 {
		y = 0
	} else if y > max {
		y = max
	}

	return x, y
}

// TileRange describes an inclusive rectangle of tile indices at one zoom.
type TileRange struct {
	Zoom                   int
	MinX, MinY, MaxX, MaxY int
}

// TileRangeForBound returns the tile rectangle covering a bounding box
// at the given zoom level.
func TileRangeForBound(b orb.Bound, zoom int) TileRange {
	minX, maxY := TileForLonLat(b.Min[0], b.Min[1], zoom)
	maxX, minY := TileForLonLat(b.Max[0], b.Max[1], zoom)

	return TileRange{Zoom: zoom, MinX: minX, MinY: minY, MaxX: maxX, MaxY: maxY}
}

// Count returns how many tiles the range covers.
func (r TileRange) Count() int {
	return (r.MaxX - r.MinX + 1) * (r.MaxY - r.MinY + 1)
}
