// Package engine turns card requests into SVG documents or PNG bitmaps.
//
// Both outputs share one pipeline: the request is composed into SVG; for
// bitmaps the remote photo is first inlined as a data URI and the document is
// then rasterized.
package engine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/xob0t/ogcard/pkg/card"
)

// PhotoLoader inlines a remote photo. Implemented by photo.Loader.
type PhotoLoader interface {
	LoadDataURI(ctx context.Context, url string) (string, error)
}

// Rasterizer converts an SVG document to PNG. Implemented by raster.Rasterizer.
type Rasterizer interface {
	Rasterize(svg []byte) ([]byte, error)
}

// Kind classifies a render failure.
type Kind int

const (
	// KindPhoto is a problem with the caller-supplied photo.
	KindPhoto Kind = iota + 1
	// KindRaster is an internal rendering failure.
	KindRaster
)

func (k Kind) String() string {
	switch k {
	case KindPhoto:
		return "photo"
	case KindRaster:
		return "raster"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Error is returned by RenderBitmap.
type Error struct {
	Kind Kind
	Err  error
}

func (e *Error) Error() string { return e.Kind.String() + ": " + e.Err.Error() }

func (e *Error) Unwrap() error { return e.Err }

// IsKind reports whether err is an *Error of kind k.
func IsKind(err error, k Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == k
}

// Engine renders cards. It is safe for concurrent use when its loader and
// rasterizer are.
type Engine struct {
	photos PhotoLoader
	raster Rasterizer
	log    zerolog.Logger
}

// New creates an Engine.
func New(photos PhotoLoader, raster Rasterizer, logger zerolog.Logger) *Engine {
	return &Engine{
		photos: photos,
		raster: raster,
		log:    logger.With().Str("component", "engine").Logger(),
	}
}

// RenderVector composes req without any network access. The photo is
// referenced as given.
func (e *Engine) RenderVector(req card.Request) card.Document {
	return card.Compose(req)
}

// RenderBitmap inlines the photo and rasterizes the composed card.
func (e *Engine) RenderBitmap(ctx context.Context, req card.Request) ([]byte, error) {
	if !strings.HasPrefix(req.Photo, "data:") {
		uri, err := e.photos.LoadDataURI(ctx, req.Photo)
		if err != nil {
			e.log.Debug().Err(err).Str("photo", req.Photo).Msg("photo rejected")
			return nil, &Error{Kind: KindPhoto, Err: err}
		}
		req.Photo = uri
	}

	out, err := e.raster.Rasterize(card.Compose(req).Bytes())
	if err != nil {
		e.log.Error().Err(err).Msg("rasterize failed")
		return nil, &Error{Kind: KindRaster, Err: err}
	}
	return out, nil
}

// ── Output formats ──

// Format is an output encoding.
type Format int

const (
	FormatSVG Format = iota
	FormatPNG
)

// ContentType returns the MIME type of f.
func (f Format) ContentType() string {
	if f == FormatPNG {
		return "image/png"
	}
	return card.ContentType
}

// FormatFromExt maps ".svg" and ".png" (any case) to a Format.
func FormatFromExt(ext string) (Format, error) {
	switch strings.ToLower(ext) {
	case ".svg":
		return FormatSVG, nil
	case ".png":
		return FormatPNG, nil
	default:
		return 0, fmt.Errorf("unsupported format %q: use .svg or .png", ext)
	}
}

// Render produces req in format f.
func (e *Engine) Render(ctx context.Context, req card.Request, f Format) ([]byte, error) {
	if f == FormatPNG {
		return e.RenderBitmap(ctx, req)
	}
	return e.RenderVector(req).Bytes(), nil
}

// RenderTo writes req to w in format f.
func (e *Engine) RenderTo(ctx context.Context, w io.Writer, req card.Request, f Format) error {
	data, err := e.Render(ctx, req, f)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

// WriteFile renders req to output. The format is inferred from the extension.
func (e *Engine) WriteFile(ctx context.Context, output string, req card.Request) error {
	f, err := FormatFromExt(filepath.Ext(output))
	if err != nil {
		return err
	}
	data, err := e.Render(ctx, req, f)
	if err != nil {
		return err
	}
	if err := os.WriteFile(output, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", output, err)
	}
	return nil
}
