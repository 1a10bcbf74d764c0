package processor

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/rsparks3/deepstate-map-data/internal/config"
	"github.com/rsparks3/deepstate-map-data/internal/geo"

	"github.com/chai2010/webp"
	"github.com/paulmach/orb"
	"github.com/rs/zerolog/log"
	_ "golang.org/x/image/bmp"
	xdraw "golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// TileCoordinate represents a specific tile.
type TileCoordinate struct {
	Z, X, Y int
}

type tileJob struct {
	URLTemplate string
	BaseDir     string
	Coord       TileCoordinate
}

// PrefetchTiles builds a local webp tile cache covering the bounding
// box of the feature collection, either by downloading from an XYZ URL
// template or by slicing a single large source image. Per-tile errors
// are logged and skipped; the run never fails because of one tile.
func PrefetchTiles(client *http.Client, tcfg *config.Tiles, fc *geo.FeatureCollection, force bool) error {
	if tcfg == nil {
		return nil
	}

	if tcfg.Image != "" {
		return sliceImage(client, tcfg, force)
	}
	if tcfg.URL == "" {
		return fmt.Errorf("tiles section has neither url nor image source")
	}

	bound, ok := collectionBound(fc)
	if !ok {
		return fmt.Errorf("no coordinates to compute tile coverage from")
	}

	log.Info().
		Str("source", tcfg.URL).
		Int("zoom_limit", tcfg.ZoomLimit).
		Floats64("bbox", []float64{bound.Min[0], bound.Min[1], bound.Max[0], bound.Max[1]}).
		Msg("Starting basemap tile prefetch")

	for z := 0; z <= tcfg.ZoomLimit; z++ {
		r := geo.TileRangeForBound(bound, z)

		log.Debug().Int("zoom", z).Int("count", r.Count()).Msg("Processing zoom level")

		downloadRange(client, tcfg, r, force)
	}

	return nil
}

// collectionBound unions the bounding boxes of every feature geometry.
func collectionBound(fc *geo.FeatureCollection) (orb.Bound, bool) {
	var bound orb.Bound
	found := false

	for _, f := range fc.Features {
		if f == nil {
			continue
		}
		b, ok := f.Geometry.Bound()
		if !ok {
			continue
		}
		if !found {
			bound = b
			found = true
		} else {
			bound = bound.Union(b)
		}
	}

	return bound, found
}

// downloadRange fetches one zoom level's tile rectangle with a worker pool.
func downloadRange(client *http.Client, tcfg *config.Tiles, r geo.TileRange, force bool) {
	jobs := make(chan tileJob, r.Count())

	go func() {
		for x := r.MinX; x <= r.MaxX; x++ {
			for y := r.MinY; y <= r.MaxY; y++ {
				jobs <- tileJob{
					URLTemplate: tcfg.URL,
					BaseDir:     tcfg.Dir,
					Coord:       TileCoordinate{Z: r.Zoom, X: x, Y: y},
				}
			}
		}
		close(jobs)
	}()

	var wg sync.WaitGroup
	for i := 0; i < tcfg.Concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobs {
				if err := downloadAndConvert(client, j, force); err != nil {
					log.Trace().
						Err(err).
						Str("url", buildURL(j.URLTemplate, j.Coord)).
						Msg("Failed to fetch tile")
				}
			}
		}()
	}
	wg.Wait()
}

func downloadAndConvert(client *http.Client, j tileJob, force bool) error {
	outPath := tilePath(j.BaseDir, j.Coord)

	// Check existence if not forcing overwrite
	if !force {
		if info, err := os.Stat(outPath); err == nil && info.Size() > 0 {
			return nil
		}
	}

	url := buildURL(j.URLTemplate, j.Coord)
	resp, err := client.Get(url)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == 404 {
		log.Trace().Str("url", url).Msg("Tile not found (404)")
		return nil
	}
	if resp.StatusCode != 200 {
		return fmt.Errorf("status code %d", resp.StatusCode)
	}

	bodyBytes, _ := io.ReadAll(resp.Body)
	img, _, err := image.Decode(bytes.NewReader(bodyBytes))
	if err != nil {
		// Not an image or corrupted
		log.Trace().Err(err).Str("url", url).Msg("Failed to decode tile")
		return nil
	}

	// Filter out empty/1px tiles some servers return for OOB areas
	if img.Bounds().Dx() <= 1 {
		return nil
	}

	return writeWebp(outPath, img, 80)
}

// sliceImage cuts one large basemap image into a tile pyramid. The
// source is resized from the original at every zoom level, so quality
// is preserved at the cost of CatmullRom being slower.
func sliceImage(client *http.Client, tcfg *config.Tiles, force bool) error {
	srcImg, err := loadSourceImage(client, tcfg.Image)
	if err != nil {
		return err
	}

	bounds := srcImg.Bounds()
	log.Info().
		Int("width", bounds.Dx()).
		Int("height", bounds.Dy()).
		Msg("Source image loaded, starting tiling")

	for z := 0; z <= tcfg.ZoomLimit; z++ {
		gridSize := 1 << z
		totalPixels := gridSize * tcfg.TileSize

		log.Debug().
			Int("zoom", z).
			Int("grid", gridSize).
			Int("px", totalPixels).
			Msg("Processing zoom level")

		dstImg := image.NewRGBA(image.Rect(0, 0, totalPixels, totalPixels))
		xdraw.CatmullRom.Scale(dstImg, dstImg.Bounds(), srcImg, srcImg.Bounds(), draw.Over, nil)

		var wg sync.WaitGroup
		// Semaphore to limit file I/O concurrency
		sem := make(chan struct{}, 20)

		for x := 0; x < gridSize; x++ {
			for y := 0; y < gridSize; y++ {
				wg.Add(1)
				sem <- struct{}{}

				go func(zx, zy int) {
					defer wg.Done()
					defer func() { <-sem }()

					rect := image.Rect(zx*tcfg.TileSize, zy*tcfg.TileSize, (zx+1)*tcfg.TileSize, (zy+1)*tcfg.TileSize)
					subImg := dstImg.SubImage(rect)

					outPath := tilePath(tcfg.Dir, TileCoordinate{Z: z, X: zx, Y: zy})

					if !force {
						if info, err := os.Stat(outPath); err == nil && info.Size() > 0 {
							return
						}
					}

					if err := writeWebp(outPath, subImg, 85); err != nil {
						log.Error().Err(err).Str("path", outPath).Msg("Failed to write tile")
					}
				}(x, y)
			}
		}
		wg.Wait()
	}

	return nil
}

func loadSourceImage(client *http.Client, source string) (image.Image, error) {
	var reader io.Reader

	if strings.HasPrefix(source, "http") {
		log.Info().Str("url", source).Msg("Downloading source image...")
		resp, err := client.Get(source)
		if err != nil {
			return nil, err
		}
		defer func() { _ = resp.Body.Close() }()

		if resp.StatusCode != 200 {
			return nil, fmt.Errorf("download failed: %d", resp.StatusCode)
		}

		// Buffer the body, some decoders need a seekable source
		bodyBytes, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, err
		}
		reader = bytes.NewReader(bodyBytes)
	} else {
		f, err := os.Open(source)
		if err != nil {
			return nil, err
		}
		defer func() { _ = f.Close() }()

		reader = f
	}

	img, format, err := image.Decode(reader)
	if err != nil {
		return nil, fmt.Errorf("decode failed: %w", err)
	}

	log.Debug().Str("format", format).Msg("Image decoded")
	return img, nil
}

func writeWebp(path string, img image.Image, quality float32) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	return webp.Encode(f, img, &webp.Options{Lossless: false, Quality: quality})
}

func tilePath(baseDir string, c TileCoordinate) string {
	return filepath.Join(
		baseDir,
		fmt.Sprintf("%d", c.Z),
		fmt.Sprintf("%d", c.X),
		fmt.Sprintf("%d", c.Y)+".webp")
}

func buildURL(tpl string, c TileCoordinate) string {
	s := strings.ReplaceAll(tpl, "{z}", fmt.Sprintf("%d", c.Z))
	s = strings.ReplaceAll(s, "{x}", fmt.Sprintf("%d", c.X))
	s = strings.ReplaceAll(s, "{y}", fmt.Sprintf("%d", c.Y))
	s = strings.ReplaceAll(s, "{s}", "a")
	s = strings.ReplaceAll(s, "{r}", "")

	if strings.Contains(s, "{tms_y}") {
		maxCoord := (1 << c.Z) - 1
		tmsY := maxCoord - c.Y
		s = strings.ReplaceAll(s, "{tms_y}", fmt.Sprintf("%d", tmsY))
	}

	return s
}
