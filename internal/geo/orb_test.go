package geo

import (
	"encoding/json"
	"testing"

	"github.com/paulmach/orb"
)

func TestPolygonRoundTrip(t *testing.T) {
	g := &Geometry{
		Type:        "Polygon",
		Coordinates: json.RawMessage(`[[[0,0],[1,0],[1,1],[0,1],[0,0]]]`),
	}

	og, err := g.Orb()
	if err != nil {
		t.Fatal(err)
	}

	poly, ok := og.(orb.Polygon)
	if !ok {
		t.Fatalf("expected orb.Polygon, got %T", og)
	}
	if len(poly) != 1 || len(poly[0]) != 5 {
		t.Fatalf("unexpected ring shape: %v", poly)
	}

	back, err := FromOrb(og)
	if err != nil {
		t.Fatal(err)
	}
	if back.Type != "Polygon" {
		t.Errorf("type changed to %s", back.Type)
	}

	var rings [][][]float64
	if err := json.Unmarshal(back.Coordinates, &rings); err != nil {
		t.Fatal(err)
	}
	if len(rings[0]) != 5 || rings[0][2][0] != 1 || rings[0][2][1] != 1 {
		t.Errorf("coordinates corrupted: %v", rings)
	}
}

func TestMultiPolygonRoundTrip(t *testing.T) {
	g := &Geometry{
		Type:        "MultiPolygon",
		Coordinates: json.RawMessage(`[[[[0,0],[1,0],[1,1],[0,0]]],[[[2,2],[3,2],[3,3],[2,2]]]]`),
	}

	og, err := g.Orb()
	if err != nil {
		t.Fatal(err)
	}

	mp, ok := og.(orb.MultiPolygon)
	if !ok {
		t.Fatalf("expected orb.MultiPolygon, got %T", og)
	}
	if len(mp) != 2 {
		t.Fatalf("expected 2 polygons, got %d", len(mp))
	}

	back, err := FromOrb(og)
	if err != nil {
		t.Fatal(err)
	}
	if back.Type != "MultiPolygon" {
		t.Errorf("type changed to %s", back.Type)
	}
}

func TestOrbRejectsUnsupported(t *testing.T) {
	g := &Geometry{Type: "Point", Coordinates: json.RawMessage(`[0,0]`)}
	if _, err := g.Orb(); err == nil {
		t.Error("expected error for Point conversion")
	}
}

func TestGeometryBound(t *testing.T) {
	g := &Geometry{
		Type:        "MultiPolygon",
		Coordinates: json.RawMessage(`[[[[10,40],[20,40],[20,50],[10,40]]]]`),
	}

	b, ok := g.Bound()
	if !ok {
		t.Fatal("expected a bound")
	}
	if b.Min[0] != 10 || b.Min[1] != 40 || b.Max[0] != 20 || b.Max[1] != 50 {
		t.Errorf("wrong bound: %v", b)
	}
}

func TestGeometryBoundEmpty(t *testing.T) {
	g := &Geometry{Type: "Polygon", Coordinates: json.RawMessage(`[]`)}
	if _, ok := g.Bound(); ok {
		t.Error("empty coordinates must yield no bound")
	}

	var nilGeom *Geometry
	if _, ok := nilGeom.Bound(); ok {
		t.Error("nil geometry must yield no bound")
	}
}
