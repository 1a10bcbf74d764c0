package processor

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/rsparks3/deepstate-map-data/internal/geo"
)

var testDate = time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC)

func TestAnnotatePolygon(t *testing.T) {
	f := &geo.Feature{
		Type:     "Feature",
		Geometry: &geo.Geometry{Type: "Polygon", Coordinates: json.RawMessage(`[[[0,0],[1,0],[1,1],[0,0]]]`)},
	}

	Annotate(f, testDate)

	if f.Properties["time"] != "2023-06-01T00:00:00" {
		t.Errorf("wrong time: %v", f.Properties["time"])
	}

	style, ok := f.Properties["style"].(map[string]interface{})
	if !ok {
		t.Fatal("polygon missing style block")
	}
	if style["fillColor"] != "#8B0000" {
		t.Errorf("wrong fillColor: %v", style["fillColor"])
	}
	if _, ok := f.Properties["iconstyle"]; ok {
		t.Error("polygon must not carry iconstyle")
	}
}

func TestAnnotatePoint(t *testing.T) {
	f := &geo.Feature{
		Type:       "Feature",
		Geometry:   &geo.Geometry{Type: "Point", Coordinates: json.RawMessage(`[31.1656,48.3794]`)},
		Properties: map[string]interface{}{"name": "somewhere"},
	}

	Annotate(f, testDate)

	if f.Properties["time"] != "2023-06-01T00:00:00" {
		t.Errorf("wrong time: %v", f.Properties["time"])
	}
	if f.Properties["icon"] != "circle" {
		t.Errorf("wrong icon: %v", f.Properties["icon"])
	}

	iconstyle, ok := f.Properties["iconstyle"].(map[string]interface{})
	if !ok {
		t.Fatal("point missing iconstyle block")
	}
	if iconstyle["fillColor"] != "#8B0000" {
		t.Errorf("wrong fillColor: %v", iconstyle["fillColor"])
	}
	if _, ok := f.Properties["style"]; ok {
		t.Error("point must not carry style")
	}

	// Existing properties survive
	if f.Properties["name"] != "somewhere" {
		t.Error("existing property lost")
	}
}

func TestAnnotateOtherGeometryTimestampOnly(t *testing.T) {
	f := &geo.Feature{
		Type:     "Feature",
		Geometry: &geo.Geometry{Type: "LineString", Coordinates: json.RawMessage(`[[0,0],[1,1]]`)},
	}

	Annotate(f, testDate)

	if f.Properties["time"] != "2023-06-01T00:00:00" {
		t.Errorf("wrong time: %v", f.Properties["time"])
	}
	if _, ok := f.Properties["style"]; ok {
		t.Error("unstyled geometry got a style block")
	}
	if _, ok := f.Properties["iconstyle"]; ok {
		t.Error("unstyled geometry got an iconstyle block")
	}
}
