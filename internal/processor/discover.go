// Package processor handles ingesting dated feature files and preparing
// them for rendering.
package processor

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// DatedFile is a source file together with the date encoded in its name.
type DatedFile struct {
	Path string
	Date time.Time
}

// DiscoverFiles lists the point and polygon feature files in dataDir,
// sorted lexicographically, and extracts the date from each filename.
// A filename that does not carry a parseable date aborts the run.
func DiscoverFiles(dataDir string) ([]DatedFile, error) {
	points, err := filepath.Glob(filepath.Join(dataDir, "*_points.geojson"))
	if err != nil {
		return nil, err
	}
	polygons, err := filepath.Glob(filepath.Join(dataDir, "*_polygons.geojson"))
	if err != nil {
		return nil, err
	}

	paths := append(points, polygons...)
	sort.Strings(paths)

	files := make([]DatedFile, 0, len(paths))
	for _, path := range paths {
		date, err := DateFromFilename(path)
		if err != nil {
			return nil, err
		}
		files = append(files, DatedFile{Path: path, Date: date})
	}

	return files, nil
}

// DateFromFilename extracts the date embedded in a feature filename.
// The basename's third underscore-delimited token must be YYYYMMDD,
// e.g. "region_data_20230601_points.geojson".
func DateFromFilename(path string) (time.Time, error) {
	base := filepath.Base(path)

	parts := strings.Split(base, "_")
	if len(parts) < 3 {
		return time.Time{}, fmt.Errorf("filename %q has no date token", base)
	}

	date, err := time.Parse("20060102", parts[2])
	if err != nil {
		return time.Time{}, fmt.Errorf("filename %q: bad date token %q: %w", base, parts[2], err)
	}

	return date, nil
}
