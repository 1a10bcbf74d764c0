package server

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/rsparks3/deepstate-map-data/internal/config"
)

func testContext(t *testing.T) *ServerContext {
	t.Helper()

	cfg := config.Default()
	cfg.Output = filepath.Join(t.TempDir(), "animated_map.html")
	cfg.DataDir = t.TempDir()
	cfg.Tiles = &config.Tiles{Dir: t.TempDir()}

	if err := os.WriteFile(cfg.Output, []byte("<html>map</html>"), 0644); err != nil {
		t.Fatal(err)
	}

	ctx, err := NewServerContext(cfg)
	if err != nil {
		t.Fatal(err)
	}
	return ctx
}

func TestHandleIndex(t *testing.T) {
	ctx := testContext(t)

	rr := httptest.NewRecorder()
	ctx.HandleIndex(rr, httptest.NewRequest("GET", "/", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("wrong status: %d", rr.Code)
	}
	if rr.Body.String() != "<html>map</html>" {
		t.Errorf("wrong body: %s", rr.Body.String())
	}

	etag := rr.Header().Get("ETag")
	if etag == "" {
		t.Fatal("missing ETag")
	}

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("If-None-Match", etag)
	rr = httptest.NewRecorder()
	ctx.HandleIndex(rr, req)

	if rr.Code != http.StatusNotModified {
		t.Errorf("expected 304, got %d", rr.Code)
	}
}

func TestHandleIndexUnknownPath(t *testing.T) {
	ctx := testContext(t)

	rr := httptest.NewRecorder()
	ctx.HandleIndex(rr, httptest.NewRequest("GET", "/nope", nil))

	if rr.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rr.Code)
	}
}

func TestHandleData(t *testing.T) {
	ctx := testContext(t)

	doc := `{"type":"FeatureCollection","features":[]}`
	if err := os.WriteFile(filepath.Join(ctx.Config.DataDir, "region_data_20230601_points.geojson"), []byte(doc), 0644); err != nil {
		t.Fatal(err)
	}

	rr := httptest.NewRecorder()
	ctx.HandleData(rr, httptest.NewRequest("GET", "/data/region_data_20230601_points.geojson", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("wrong status: %d", rr.Code)
	}
	if ct := rr.Header().Get("Content-Type"); ct != "application/geo+json" {
		t.Errorf("wrong content type: %s", ct)
	}
}

func TestHandleDataRejectsNonGeoJSON(t *testing.T) {
	ctx := testContext(t)

	if err := os.WriteFile(filepath.Join(ctx.Config.DataDir, "secret.txt"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	rr := httptest.NewRecorder()
	ctx.HandleData(rr, httptest.NewRequest("GET", "/data/secret.txt", nil))

	if rr.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rr.Code)
	}
}

func TestHandleTileFallback(t *testing.T) {
	ctx := testContext(t)

	rr := httptest.NewRecorder()
	ctx.HandleTile(rr, httptest.NewRequest("GET", "/tiles/3/4/5.webp", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("wrong status: %d", rr.Code)
	}
	// No cached tile on disk, transparent fallback served
	if ct := rr.Header().Get("Content-Type"); ct != "image/png" {
		t.Errorf("expected fallback tile, got content type %s", ct)
	}
	if rr.Body.Len() == 0 {
		t.Error("empty fallback tile")
	}
}

func TestHandleTileCached(t *testing.T) {
	ctx := testContext(t)

	tileDir := filepath.Join(ctx.Config.Tiles.Dir, "3", "4")
	if err := os.MkdirAll(tileDir, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(tileDir, "5.webp"), []byte("webp-bytes"), 0644); err != nil {
		t.Fatal(err)
	}

	rr := httptest.NewRecorder()
	ctx.HandleTile(rr, httptest.NewRequest("GET", "/tiles/3/4/5.webp", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("wrong status: %d", rr.Code)
	}
	if ct := rr.Header().Get("Content-Type"); ct != "image/webp" {
		t.Errorf("wrong content type: %s", ct)
	}
}

func TestHandleTileBadCoords(t *testing.T) {
	ctx := testContext(t)

	rr := httptest.NewRecorder()
	ctx.HandleTile(rr, httptest.NewRequest("GET", "/tiles/a/b/c.webp", nil))

	if rr.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rr.Code)
	}
}
