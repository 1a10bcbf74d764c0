package processor

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/rsparks3/deepstate-map-data/internal/config"
	"github.com/rsparks3/deepstate-map-data/internal/geo"

	"github.com/rs/zerolog/log"
)

// Run executes the whole transformation over the data directory and
// returns the aggregated, annotated feature collection ready for
// rendering. Any file-level problem (unreadable file, bad JSON, bad
// filename date) aborts the run.
func Run(cfg *config.Config) (*geo.FeatureCollection, error) {
	files, err := DiscoverFiles(cfg.DataDir)
	if err != nil {
		return nil, err
	}

	if len(files) == 0 {
		log.Warn().Str("dir", cfg.DataDir).Msg("No feature files found")
	}

	all := geo.NewFeatureCollection()

	for _, df := range files {
		fc, err := loadCollection(df.Path)
		if err != nil {
			return nil, err
		}

		points, polygons := classify(fc)

		kept := Downsample(points, cfg.PointCap)
		if len(kept) < len(points) {
			log.Debug().
				Str("file", df.Path).
				Int("points", len(points)).
				Int("kept", len(kept)).
				Msg("Downsampled dense point set")
		}

		polygons = SimplifyAll(polygons, cfg.SimplifyTolerance)

		// Polygons first, then points, matching the draw order of the
		// rendered layer (points on top).
		for _, f := range append(polygons, kept...) {
			Annotate(f, df.Date)
			all.Features = append(all.Features, f)
		}

		log.Info().
			Str("file", df.Path).
			Time("date", df.Date).
			Int("polygons", len(polygons)).
			Int("points", len(kept)).
			Msg("File processed")
	}

	log.Info().
		Int("files", len(files)).
		Int("features", len(all.Features)).
		Msg("Pipeline finished")

	return all, nil
}

// loadCollection reads and decodes one GeoJSON FeatureCollection.
func loadCollection(path string) (*geo.FeatureCollection, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var fc geo.FeatureCollection
	if err := json.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	return &fc, nil
}

// classify splits features into points and the polygon family. Any
// geometry type that is neither rides with the polygons, untouched by
// simplification but still timestamped. Features without a geometry
// are dropped silently.
func classify(fc *geo.FeatureCollection) (points, polygons []*geo.Feature) {
	for _, f := range fc.Features {
		if f == nil || f.Geometry == nil {
			continue
		}
		if f.Geometry.IsPoint() {
			points = append(points, f)
		} else {
			polygons = append(polygons, f)
		}
	}

	return points, polygons
}
