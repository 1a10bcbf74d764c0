package main

import (
	"net/http"
	"os"
	"time"

	"github.com/rsparks3/deepstate-map-data/internal/config"
	"github.com/rsparks3/deepstate-map-data/internal/logger"
	"github.com/rsparks3/deepstate-map-data/internal/processor"
	"github.com/rsparks3/deepstate-map-data/internal/render"

	"github.com/jessevdk/go-flags"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Options struct {
	Logger logger.Logger `group:"Logger options"`

	ConfigFile string  `short:"c" long:"config"    env:"CONFIG_FILE"        description:"Path to configuration file" default:"config.yaml"`
	DataDir    string  `short:"d" long:"data-dir"  env:"DATA_DIR"           description:"Directory with dated GeoJSON feature files"`
	Output     string  `short:"o" long:"output"    env:"OUTPUT_FILE"        description:"Output HTML file"`
	PointCap   int     `long:"point-cap"           env:"POINT_CAP"          description:"Max point features kept per file (0 keeps all)" default:"-1"`
	Tolerance  float64 `long:"tolerance"           env:"SIMPLIFY_TOLERANCE" description:"Polygon simplification tolerance in degrees (0 disables)" default:"-1"`
	TilesOnly  bool    `short:"t" long:"tiles-only" description:"Prefetch basemap tiles only, do not render the map"`
	SkipTiles  bool    `short:"T" long:"skip-tiles" description:"Skip basemap tile prefetch"`
	Force      bool    `short:"f" long:"force"      description:"Force overwrite of cached tiles"`
}

func main() {
	_ = godotenv.Load()

	var opts Options
	parser := flags.NewParser(&opts, flags.Default)
	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	opts.Logger.Setup()

	cfg, err := config.Load(opts.ConfigFile)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Flags override config; negative means "not set"
	if opts.DataDir != "" {
		cfg.DataDir = opts.DataDir
	}
	if opts.Output != "" {
		cfg.Output = opts.Output
	}
	if opts.PointCap >= 0 {
		cfg.PointCap = opts.PointCap
	}
	if opts.Tolerance >= 0 {
		cfg.SimplifyTolerance = opts.Tolerance
	}

	log.Info().
		Str("data_dir", cfg.DataDir).
		Int("point_cap", cfg.PointCap).
		Float64("tolerance", cfg.SimplifyTolerance).
		Msg("Starting pipeline")

	fc, err := processor.Run(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Pipeline failed")
	}

	if opts.TilesOnly {
		if !cfg.Tiles.HasSource() {
			log.Fatal().Msg("No tile source configured, nothing to prefetch")
		}
		if err := processor.PrefetchTiles(newTileClient(), cfg.Tiles, fc, opts.Force); err != nil {
			log.Fatal().Err(err).Msg("Tile prefetch failed")
		}

		log.Info().Str("dir", cfg.Tiles.Dir).Msg("Tile cache ready")
		return
	}

	localTiles := false
	if cfg.Tiles != nil {
		switch {
		case opts.SkipTiles:
			// Use an already prefetched cache if one is on disk
			if _, err := os.Stat(cfg.Tiles.Dir); err == nil {
				localTiles = true
			}
		case !cfg.Tiles.HasSource():
			log.Warn().Msg("Tiles section has no url or image source, using online tiles")
		default:
			if err := processor.PrefetchTiles(newTileClient(), cfg.Tiles, fc, opts.Force); err != nil {
				log.Error().Err(err).Msg("Tile prefetch failed, falling back to online tiles")
			} else {
				localTiles = true
			}
		}
	}

	if err := render.WriteMap(fc, cfg, localTiles); err != nil {
		log.Fatal().Err(err).Msg("Failed to write map")
	}

	log.Info().
		Str("output", cfg.Output).
		Int("features", len(fc.Features)).
		Msg("Animated map written")
}

func newTileClient() *http.Client {
	return &http.Client{
		Transport: &http.Transport{
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 100,
		},
		Timeout: 15 * time.Second,
	}
}
