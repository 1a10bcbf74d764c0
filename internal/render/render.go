// Package render produces the final animated map HTML artifact.
package render

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html/template"
	"os"

	"github.com/rsparks3/deepstate-map-data/assets"
	"github.com/rsparks3/deepstate-map-data/internal/config"
	"github.com/rsparks3/deepstate-map-data/internal/geo"

	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/css"
	"github.com/tdewolff/minify/v2/html"
	"github.com/tdewolff/minify/v2/js"
)

type pageData struct {
	Title        string
	Width        template.CSS
	Height       template.CSS
	OptionsJSON  template.JS
	FeaturesJSON template.JS
}

// WriteMap renders the feature collection into the configured output
// file, overwriting any previous artifact.
func WriteMap(fc *geo.FeatureCollection, cfg *config.Config, localTiles bool) error {
	page, err := Page(fc, cfg, localTiles)
	if err != nil {
		return err
	}

	return os.WriteFile(cfg.Output, page, 0644)
}

// Page builds the minified HTML document for the collection. With
// localTiles set, the base layer points at the prefetched tile cache
// instead of the online tile source.
func Page(fc *geo.FeatureCollection, cfg *config.Config, localTiles bool) ([]byte, error) {
	tmpl, err := template.New("map").Parse(assets.MapTemplate)
	if err != nil {
		return nil, fmt.Errorf("parse page template: %w", err)
	}

	featuresJSON, err := json.Marshal(fc)
	if err != nil {
		return nil, fmt.Errorf("marshal features: %w", err)
	}

	tilesURL := cfg.Map.TilesURL
	if localTiles && cfg.Tiles != nil {
		tilesURL = "tiles/{z}/{x}/{y}.webp"
	}

	optionsJSON, err := json.Marshal(map[string]interface{}{
		"center":      []float64{cfg.Map.CenterLat, cfg.Map.CenterLon},
		"zoom":        cfg.Map.Zoom,
		"tilesUrl":    tilesURL,
		"attribution": cfg.Map.Attribution,
		"period":      cfg.Animation.Period,
		"duration":    cfg.Animation.Duration,
		"dateFormat":  cfg.Animation.DateFormat,
		"maxSpeed":    cfg.Animation.MaxSpeed,
		"autoPlay":    cfg.Animation.AutoPlay,
		"loop":        cfg.Animation.Loop,
		"loopButton":  cfg.Animation.LoopButton,
		"dragUpdate":  cfg.Animation.DragUpdate,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal options: %w", err)
	}

	var buf bytes.Buffer
	err = tmpl.Execute(&buf, pageData{
		Title:        "Animated map",
		Width:        template.CSS(cfg.Map.Width),
		Height:       template.CSS(cfg.Map.Height),
		OptionsJSON:  template.JS(optionsJSON),
		FeaturesJSON: template.JS(featuresJSON),
	})
	if err != nil {
		return nil, fmt.Errorf("execute page template: %w", err)
	}

	m := minify.New()
	m.AddFunc("text/css", css.Minify)
	m.AddFunc("text/html", html.Minify)
	m.AddFunc("text/javascript", js.Minify)

	minified, err := m.Bytes("text/html", buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("minify page: %w", err)
	}

	return minified, nil
}
