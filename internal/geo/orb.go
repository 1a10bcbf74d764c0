package geo

import (
	"encoding/json"
	"fmt"

	"github.com/paulmach/orb"
)

// Orb decodes polygon-family coordinates into an orb geometry.
// Only Polygon and MultiPolygon are supported; everything else is
// passed through the pipeline untouched and never reaches here.
func (g *Geometry) Orb() (orb.Geometry, error) {
	switch g.Type {
	case "Polygon":
		var rings [][][]float64
		if err := json.Unmarshal(g.Coordinates, &rings); err != nil {
			return nil, fmt.Errorf("decode polygon coordinates: %w", err)
		}
		return polygonFromRings(rings), nil

	case "MultiPolygon":
		var polys [][][][]float64
		if err := json.Unmarshal(g.Coordinates, &polys); err != nil {
			return nil, fmt.Errorf("decode multipolygon coordinates: %w", err)
		}
		mp := make(orb.MultiPolygon, 0, len(polys))
		for _, rings := range polys {
			mp = append(mp, polygonFromRings(rings))
		}
		return mp, nil

	default:
		return nil, fmt.Errorf("unsupported geometry type %q", g.Type)
	}
}

// FromOrb encodes an orb geometry back into a raw-coordinate Geometry.
func FromOrb(geom orb.Geometry) (*Geometry, error) {
	var coords interface{}

	switch gt := geom.(type) {
	case orb.Polygon:
		coords = ringsFromPolygon(gt)
	case orb.MultiPolygon:
		polys := make([][][][]float64, 0, len(gt))
		for _, p := range gt {
			polys = append(polys, ringsFromPolygon(p))
		}
		coords = polys
	default:
		return nil, fmt.Errorf("unsupported geometry type %q", geom.GeoJSONType())
	}

	raw, err := json.Marshal(coords)
	if err != nil {
		return nil, err
	}

	return &Geometry{Type: geom.GeoJSONType(), Coordinates: raw}, nil
}

func polygonFromRings(rings [][][]float64) orb.Polygon {
	poly := make(orb.Polygon, 0, len(rings))
	for _, ring := range rings {
		r := make(orb.Ring, 0, len(ring))
		for _, pt := range ring {
			if len(pt) < 2 {
				continue
			}
			r = append(r, orb.Point{pt[0], pt[1]})
		}
		poly = append(poly, r)
	}
	return poly
}

func ringsFromPolygon(poly orb.Polygon) [][][]float64 {
	rings := make([][][]float64, 0, len(poly))
	for _, r := range poly {
		ring := make([][]float64, 0, len(r))
		for _, pt := range r {
			ring = append(ring, []float64{pt[0], pt[1]})
		}
		rings = append(rings, ring)
	}
	return rings
}

// Bound computes the bounding box over all coordinates of the geometry,
// whatever its type. The second return is false when the geometry holds
// no positions at all.
func (g *Geometry) Bound() (orb.Bound, bool) {
	if g == nil {
		return orb.Bound{}, false
	}

	var nested interface{}
	if err := json.Unmarshal(g.Coordinates, &nested); err != nil {
		return orb.Bound{}, false
	}

	b := orb.Bound{Min: orb.Point{180, 90}, Max: orb.Point{-180, -90}}
	found := false
	walkPositions(nested, func(lon, lat float64) {
		found = true
		b = b.Extend(orb.Point{lon, lat})
	})

	return b, found
}

// walkPositions descends arbitrarily nested coordinate arrays and calls
// fn for every [lon, lat, ...] position found.
func walkPositions(v interface{}, fn func(lon, lat float64)) {
	arr, ok := v.([]interface{})
	if !ok || len(arr) == 0 {
		return
	}

	if lon, ok := arr[0].(float64); ok {
		if len(arr) < 2 {
			return
		}
		if lat, ok := arr[1].(float64); ok {
			fn(lon, lat)
		}
		return
	}

	for _, item := range arr {
		walkPositions(item, fn)
	}
}
