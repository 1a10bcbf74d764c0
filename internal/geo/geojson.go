// Package geo handles geographic data structures and geometry conversions.
package geo

import "encoding/json"

// FeatureCollection represents a collection of geographic features.
// It follows the standard GeoJSON structure.
type FeatureCollection struct {
	Type     string     `json:"type"`
	Features []*Feature `json:"features"`
}

// NewFeatureCollection returns an empty collection ready to append to.
func NewFeatureCollection() *FeatureCollection {
	return &FeatureCollection{Type: "FeatureCollection", Features: []*Feature{}}
}

// Feature represents a single geographic feature with geometry and properties.
// Coordinates are kept as raw JSON so that any geometry type round-trips
// without loss; only polygon-family geometry is ever decoded further.
type Feature struct {
	Properties map[string]interface{} `json:"properties"`
	Type       string                 `json:"type"`
	Geometry   *Geometry              `json:"geometry"`
}

// Geometry represents the geometry of a feature (Point, Polygon, etc.).
type Geometry struct {
	Type        string          `json:"type"`
	Coordinates json.RawMessage `json:"coordinates"`
}

// IsPoint reports whether the geometry is a GeoJSON Point.
func (g *Geometry) IsPoint() bool {
	return g != nil && g.Type == "Point"
}

// IsPolygonal reports whether the geometry is Polygon or MultiPolygon.
func (g *Geometry) IsPolygonal() bool {
	if g == nil {
		return false
	}
	return g.Type == "Polygon" || g.Type == "MultiPolygon"
}
