package server

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"

	"github.com/rsparks3/deepstate-map-data/internal/config"

	"github.com/rs/zerolog/log"
)

// ServerContext holds dependencies for request handlers.
type ServerContext struct {
	Config          *config.Config
	PageHTML        []byte
	TransparentTile []byte
}

// NewServerContext loads the rendered artifact and prepares the
// fallback tile. The artifact must exist: the server previews what the
// pipeline produced, it does not generate anything itself.
func NewServerContext(cfg *config.Config) (*ServerContext, error) {
	page, err := os.ReadFile(cfg.Output)
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("page", cfg.Output).
		Int("bytes", len(page)).
		Msg("Rendered map page loaded")

	return &ServerContext{
		Config:          cfg,
		PageHTML:        page,
		TransparentTile: transparentTile(),
	}, nil
}

// transparentTile encodes a single fully transparent pixel; tile
// requests outside the prefetched coverage resolve to it.
func transparentTile() []byte {
	img := image.NewNRGBA(image.Rect(0, 0, 1, 1))
	img.SetNRGBA(0, 0, color.NRGBA{})

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		log.Error().Err(err).Msg("Failed to encode fallback tile")
		return nil
	}

	return buf.Bytes()
}
