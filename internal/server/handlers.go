// Package server handles HTTP requests and middleware.
package server

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

const etagCap = 64

// HandleIndex serves the rendered map page.
func (s *ServerContext) HandleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	etag := fmt.Sprintf(`"%x"`, len(s.PageHTML))

	if match := r.Header.Get("If-None-Match"); match == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("ETag", etag)
	w.Header().Set("Cache-Control", "public, no-cache")
	_, _ = w.Write(s.PageHTML)
}

// HandleData serves the source GeoJSON files from the data directory.
// Path: /data/{name}.geojson
func (s *ServerContext) HandleData(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimPrefix(r.URL.Path, "/data/")
	if name == "" || name != filepath.Base(name) || !strings.HasSuffix(name, ".geojson") {
		http.NotFound(w, r)
		return
	}

	path := filepath.Join(s.Config.DataDir, name)
	if !s.serveFile(w, r, path, "application/geo+json") {
		http.NotFound(w, r)
	}
}

// HandleTile serves prefetched basemap tiles with a transparent
// fallback for anything outside the cached coverage.
// Path: /tiles/{z}/{x}/{y}.webp
func (s *ServerContext) HandleTile(w http.ResponseWriter, r *http.Request) {
	if s.Config.Tiles == nil {
		http.NotFound(w, r)
		return
	}

	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	// parts: tiles, z, x, y.webp
	if len(parts) != 4 {
		http.NotFound(w, r)
		return
	}

	z, x, y := parts[1], parts[2], parts[3]
	if !validTileCoord(z) || !validTileCoord(x) || !validTileCoord(strings.TrimSuffix(y, ".webp")) {
		http.NotFound(w, r)
		return
	}

	path := filepath.Join(s.Config.Tiles.Dir, z, x, y)
	if s.serveFile(w, r, path, "image/webp") {
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	_, _ = w.Write(s.TransparentTile)
}

func validTileCoord(s string) bool {
	_, err := strconv.Atoi(s)
	return err == nil
}

// serveFile tries to serve a file from disk with ETag generation.
// It returns true if the file was found and served (or 304).
func (s *ServerContext) serveFile(w http.ResponseWriter, r *http.Request, path string, contentType string) bool {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return false
	}

	buf := make([]byte, 0, etagCap)
	buf = append(buf, '"')
	buf = strconv.AppendInt(buf, info.Size(), 16)
	buf = append(buf, '-')
	buf = strconv.AppendInt(buf, info.ModTime().UnixNano(), 16)
	buf = append(buf, '"')
	etag := string(buf)

	// check If-None-Match (client sent ETag)
	if match := r.Header.Get("If-None-Match"); match == etag {
		w.WriteHeader(http.StatusNotModified)
		return true
	}

	w.Header().Set("ETag", etag)
	w.Header().Set("Cache-Control", "public, no-cache")

	if contentType != "" {
		w.Header().Set("Content-Type", contentType)
	}

	http.ServeFile(w, r, path)
	return true
}
