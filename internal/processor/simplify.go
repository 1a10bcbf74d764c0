package processor

import (
	"github.com/rsparks3/deepstate-map-data/internal/geo"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/simplify"
)

// SimplifyAll reduces the vertex density of polygon-family features
// with Douglas-Peucker at the given tolerance (degrees). A tolerance
// <= 0 disables the stage. Failures are contained per feature: the
// original geometry is kept and processing continues.
func SimplifyAll(features []*geo.Feature, tolerance float64) []*geo.Feature {
	if tolerance <= 0 {
		return features
	}

	simplifier := simplify.DouglasPeucker(tolerance)
	for _, f := range features {
		simplifyFeature(f, simplifier)
	}

	return features
}

func simplifyFeature(f *geo.Feature, s *simplify.DouglasPeuckerSimplifier) {
	// orb panics on some degenerate rings; treat that like any other
	// per-feature failure and keep the original geometry.
	defer func() { _ = recover() }()

	if f == nil || !f.Geometry.IsPolygonal() {
		return
	}

	g, err := f.Geometry.Orb()
	if err != nil {
		return
	}

	var simplified orb.Geometry
	switch gt := g.(type) {
	case orb.Polygon:
		simplified = simplifyPolygon(gt, s)
	case orb.MultiPolygon:
		mp := make(orb.MultiPolygon, 0, len(gt))
		for _, p := range gt {
			mp = append(mp, simplifyPolygon(p, s))
		}
		simplified = mp
	default:
		return
	}

	ng, err := geo.FromOrb(simplified)
	if err != nil {
		return
	}

	f.Geometry = ng
}

// simplifyPolygon simplifies each ring independently. A ring that
// degenerates (fewer than 4 points no longer closes a polygon) or
// somehow grows falls back to the original, so the geometry type and
// topology are preserved and vertex count never increases.
func simplifyPolygon(p orb.Polygon, s *simplify.DouglasPeuckerSimplifier) orb.Polygon {
	out := make(orb.Polygon, 0, len(p))
	for _, ring := range p {
		sr, ok := s.Simplify(ring.Clone()).(orb.Ring)
		if !ok || len(sr) < 4 || len(sr) > len(ring) {
			sr = ring
		}
		out = append(out, sr)
	}

	return out
}
