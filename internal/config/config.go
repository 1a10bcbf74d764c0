// Package config handles configuration loading and shared data structures.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config represents the root configuration file structure.
// Every field has a compiled-in default, so the file itself is optional.
type Config struct {
	DataDir           string    `yaml:"data_dir,omitempty"`
	Output            string    `yaml:"output,omitempty"`
	PointCap          int       `yaml:"point_cap,omitempty"`
	SimplifyTolerance float64   `yaml:"simplify_tolerance"`
	Map               MapView   `yaml:"map,omitempty"`
	Animation         Animation `yaml:"animation,omitempty"`
	Tiles             *Tiles    `yaml:"tiles,omitempty"`
}

// MapView describes the initial viewport and base layer of the page.
type MapView struct {
	TilesURL    string  `yaml:"tiles_url,omitempty"`
	Attribution string  `yaml:"attribution,omitempty"`
	Width       string  `yaml:"width,omitempty"`
	Height      string  `yaml:"height,omitempty"`
	CenterLat   float64 `yaml:"center_lat,omitempty"`
	CenterLon   float64 `yaml:"center_lon,omitempty"`
	Zoom        int     `yaml:"zoom,omitempty"`
}

// Animation describes the time-dimension playback settings.
type Animation struct {
	Period     string `yaml:"period,omitempty"`
	Duration   string `yaml:"duration,omitempty"`
	DateFormat string `yaml:"date_format,omitempty"`
	MaxSpeed   int    `yaml:"max_speed,omitempty"`
	AutoPlay   bool   `yaml:"auto_play,omitempty"`
	Loop       bool   `yaml:"loop,omitempty"`
	LoopButton bool   `yaml:"loop_button,omitempty"`
	DragUpdate bool   `yaml:"drag_update,omitempty"`
}

// Tiles configures the optional local basemap cache. URL is an XYZ
// template ({z}/{x}/{y}, optionally {tms_y}); Image is a single large
// source image sliced into tiles instead.
type Tiles struct {
	URL         string `yaml:"url,omitempty"`
	Image       string `yaml:"image,omitempty"`
	Dir         string `yaml:"dir,omitempty"`
	ZoomLimit   int    `yaml:"zoom,omitempty"`
	TileSize    int    `yaml:"tile_size,omitempty"`
	Concurrency int    `yaml:"concurrency,omitempty"`
}

// HasSource reports whether the tiles section names anything to build
// the cache from. A bare "tiles:" section configures nothing.
func (t *Tiles) HasSource() bool {
	return t != nil && (t.URL != "" || t.Image != "")
}

// Default returns the configuration used when no file is present.
// The point cap and simplification tolerance match the tuning the
// generated maps were calibrated with.
func Default() *Config {
	return &Config{
		DataDir:           "data",
		Output:            "animated_map.html",
		PointCap:          200,
		SimplifyTolerance: 0.005, // ~100m at the equator
		Map: MapView{
			TilesURL:    "https://{s}.basemaps.cartocdn.com/light_all/{z}/{x}/{y}{r}.png",
			Attribution: `&copy; <a href="https://www.openstreetmap.org/copyright">OpenStreetMap</a> contributors &copy; <a href="https://carto.com/attributions">CARTO</a>`,
			Width:       "70%",
			Height:      "70%",
			CenterLat:   48.3794,
			CenterLon:   31.1656,
			Zoom:        5,
		},
		Animation: Animation{
			Period:     "P1D",
			Duration:   "P1D",
			DateFormat: "YYYY-MM-DD",
			MaxSpeed:   20,
			AutoPlay:   false,
			Loop:       false,
			LoopButton: true,
			DragUpdate: false,
		},
	}
}

// Load reads and parses the YAML configuration file from the specified
// path. A missing file is not an error: defaults are returned. Values
// from the file overlay the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	if cfg.Tiles != nil {
		if cfg.Tiles.Dir == "" {
			cfg.Tiles.Dir = "tiles"
		}
		if cfg.Tiles.ZoomLimit <= 0 {
			cfg.Tiles.ZoomLimit = 6
		}
		if cfg.Tiles.TileSize <= 0 {
			cfg.Tiles.TileSize = 256
		}
		if cfg.Tiles.Concurrency <= 0 {
			cfg.Tiles.Concurrency = 50
		}
	}

	return cfg, nil
}
