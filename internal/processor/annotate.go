package processor

import (
	"time"

	"github.com/rsparks3/deepstate-map-data/internal/geo"
)

// featureColor is the dark red used for both fills and strokes.
const featureColor = "#8B0000"

// timeLayout is the ISO form the time-dimension layer expects.
const timeLayout = "2006-01-02T15:04:05"

// Annotate stamps a feature with its source date and the fixed style
// block for its geometry family. Polygon-family features get "style",
// points get "icon"/"iconstyle", anything else only the timestamp.
func Annotate(f *geo.Feature, date time.Time) {
	if f.Properties == nil {
		f.Properties = map[string]interface{}{}
	}

	f.Properties["time"] = date.Format(timeLayout)

	switch {
	case f.Geometry.IsPolygonal():
		f.Properties["style"] = map[string]interface{}{
			"fillColor":   featureColor,
			"color":       featureColor,
			"weight":      0.5,
			"opacity":     0.7,
			"fillOpacity": 0.55,
		}

	case f.Geometry.IsPoint():
		f.Properties["icon"] = "circle"
		f.Properties["iconstyle"] = map[string]interface{}{
			"fillColor":   featureColor,
			"color":       featureColor,
			"radius":      2,
			"weight":      0,
			"opacity":     0.9,
			"fillOpacity": 0.8,
		}
	}
}
