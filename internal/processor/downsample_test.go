package processor

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/rsparks3/deepstate-map-data/internal/geo"
)

func makePoints(n int) []*geo.Feature {
	features := make([]*geo.Feature, 0, n)
	for i := 0; i < n; i++ {
		features = append(features, &geo.Feature{
			Type: "Feature",
			Geometry: &geo.Geometry{
				Type:        "Point",
				Coordinates: json.RawMessage(fmt.Sprintf("[%d.0, %d.0]", i%180, i%80)),
			},
			Properties: map[string]interface{}{"id": i},
		})
	}
	return features
}

func TestDownsampleNoOpUnderCap(t *testing.T) {
	features := makePoints(200)

	out := Downsample(features, 200)
	if len(out) != 200 {
		t.Fatalf("expected no-op, got %d features", len(out))
	}
	for i := range out {
		if out[i] != features[i] {
			t.Fatalf("feature %d changed identity", i)
		}
	}
}

func TestDownsampleStride(t *testing.T) {
	features := makePoints(500)

	out := Downsample(features, 200)

	// 500/200 rounds up to stride 3, ceil(500/3) = 167 kept
	if len(out) != 167 {
		t.Fatalf("expected 167 features, got %d", len(out))
	}

	for i, f := range out {
		want := i * 3
		if got := f.Properties["id"].(int); got != want {
			t.Fatalf("position %d: expected source index %d, got %d", i, want, got)
		}
	}
}

func TestDownsampleDisabled(t *testing.T) {
	features := makePoints(500)

	if out := Downsample(features, 0); len(out) != 500 {
		t.Fatalf("cap 0 must keep everything, got %d", len(out))
	}
}
