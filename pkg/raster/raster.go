// raster.go — SVG to PNG conversion for composed cards.
//
// Package raster renders the SVG subset produced by the card composer into a
// PNG bitmap. Text is drawn with fonts from a FontSource; embedded images are
// drawn only when they are data URIs.
package raster

import (
	"bytes"
	"fmt"

	"github.com/fogleman/gg"
	"github.com/rs/zerolog"
)

// ContentType is the MIME type of Rasterize output.
const ContentType = "image/png"

// Rasterizer converts SVG documents to PNG. It is safe for concurrent use if
// its FontSource is.
type Rasterizer struct {
	fonts FontSource
	log   zerolog.Logger
}

// NewRasterizer creates a rasterizer. A nil fonts uses EmbeddedFonts.
func NewRasterizer(fonts FontSource, logger zerolog.Logger) *Rasterizer {
	if fonts == nil {
		fonts = EmbeddedFonts()
	}
	return &Rasterizer{
		fonts: fonts,
		log:   logger.With().Str("component", "raster").Logger(),
	}
}

// Rasterize parses doc and encodes it as a PNG of the document's intrinsic size.
func (r *Rasterizer) Rasterize(doc []byte) ([]byte, error) {
	sc, err := Parse(doc)
	if err != nil {
		return nil, err
	}
	dc, err := r.Draw(sc)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("encode PNG: %w", err)
	}
	return buf.Bytes(), nil
}

// Draw renders a parsed scene onto a new transparent context.
func (r *Rasterizer) Draw(sc *Scene) (*gg.Context, error) {
	dc := gg.NewContext(sc.Width, sc.Height)
	if vb := sc.ViewBox; vb.W > 0 && vb.H > 0 {
		dc.Scale(float64(sc.Width)/vb.W, float64(sc.Height)/vb.H)
		dc.Translate(-vb.X, -vb.Y)
	}

	rd := &renderer{dc: dc, fonts: r.fonts, families: sc.Families, log: r.log}
	if err := rd.nodes(sc.Nodes); err != nil {
		return nil, fmt.Errorf("draw: %w", err)
	}
	return dc, nil
}
