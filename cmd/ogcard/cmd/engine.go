package cmd

import (
	"github.com/rs/zerolog"

	"github.com/xob0t/ogcard/internal/infra"
	"github.com/xob0t/ogcard/pkg/engine"
	"github.com/xob0t/ogcard/pkg/photo"
	"github.com/xob0t/ogcard/pkg/raster"
)

// newEngine wires the photo loader, font source and rasterizer from cfg.
func newEngine(cfg *infra.Config, logger zerolog.Logger) *engine.Engine {
	var fonts raster.FontSource = raster.EmbeddedFonts()
	if cfg.Fonts == infra.FontsSystem {
		fonts = raster.SystemFonts(logger)
	}

	loader := photo.New(photo.Options{
		UserAgent:   userAgent(),
		ReadTimeout: cfg.PhotoReadTimeout,
		MaxBytes:    cfg.PhotoMaxBytes,
		Logger:      logger,
	})

	return engine.New(loader, raster.NewRasterizer(fonts, logger), logger)
}
