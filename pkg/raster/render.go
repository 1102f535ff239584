// render.go - Draw a scene tree onto a gg context.
package raster

import (
	"errors"
	"image/color"
	"math"

	"github.com/fogleman/gg"
	"github.com/rs/zerolog"
	"golang.org/x/image/font"
)

type renderer struct {
	dc       *gg.Context
	fonts    FontSource
	families []string
	log      zerolog.Logger
}

func (rd *renderer) nodes(nodes []Node) error {
	for _, n := range nodes {
		if err := rd.node(n); err != nil {
			return err
		}
	}
	return nil
}

func (rd *renderer) node(n Node) error {
	switch n := n.(type) {
	case *Rect:
		rd.dc.DrawRectangle(n.X, n.Y, n.W, n.H)
		rd.paint(n.Fill, n.Stroke, n.StrokeWidth)
	case *Circle:
		rd.dc.DrawCircle(n.CX, n.CY, n.R)
		rd.paint(n.Fill, n.Stroke, n.StrokeWidth)
	case *Text:
		return rd.text(n)
	case *Image:
		rd.image(n)
	case *Group:
		if n.Clip == nil {
			return rd.nodes(n.Children)
		}
		rd.dc.Push()
		defer rd.dc.Pop()
		rd.dc.DrawCircle(n.Clip.CX, n.Clip.CY, n.Clip.R)
		rd.dc.Clip()
		return rd.nodes(n.Children)
	}
	return nil
}

// paint fills then strokes the current path, then clears it.
func (rd *renderer) paint(fill, stroke *color.RGBA, width float64) {
	if fill != nil {
		rd.dc.SetColor(*fill)
		rd.dc.FillPreserve()
	}
	if stroke != nil && width > 0 {
		rd.dc.SetColor(*stroke)
		rd.dc.SetLineWidth(width)
		rd.dc.StrokePreserve()
	}
	rd.dc.ClearPath()
}

func (rd *renderer) text(t *Text) error {
	if t.Fill == nil || len(t.Runs) == 0 {
		return nil
	}
	families := t.Families
	if families == nil {
		families = rd.families
	}
	face, err := rd.fonts.Face(families, t.Weight, t.Size)
	if err != nil {
		return err
	}
	defer face.Close()

	rd.dc.SetFontFace(face)
	rd.dc.SetColor(*t.Fill)
	shift := baselineShift(face, t.Baseline)

	x, y := t.X, t.Y
	for _, run := range t.Runs {
		if run.X != nil {
			x = *run.X
		}
		if run.Y != nil {
			y = *run.Y
		}
		x += run.DX
		y += run.DY
		if run.Text == "" {
			continue
		}
		rd.dc.DrawString(run.Text, x, y+shift)
		w, _ := rd.dc.MeasureString(run.Text)
		x += w
	}
	return nil
}

// baselineShift moves the alphabetic baseline to the requested one.
func baselineShift(face font.Face, baseline string) float64 {
	m := face.Metrics()
	ascent := float64(m.Ascent) / 64
	descent := float64(m.Descent) / 64
	switch baseline {
	case "hanging", "text-before-edge":
		return ascent
	case "middle", "central":
		return (ascent - descent) / 2
	case "text-after-edge", "ideographic":
		return -descent
	default:
		return 0
	}
}

// image draws a data: href centred in its box. Anything else is skipped.
func (rd *renderer) image(im *Image) {
	log := rd.log
	mediaType, data, err := parseDataURI(im.Href)
	if errors.Is(err, ErrNotDataURI) {
		log.Debug().Str("href", truncate(im.Href, 80)).Msg("skipping remote image")
		return
	}
	if err != nil {
		log.Warn().Err(err).Msg("skipping unreadable image")
		return
	}

	w, h := int(math.Round(im.W)), int(math.Round(im.H))
	img, err := decodeFitted(mediaType, data, w, h)
	if err != nil {
		log.Warn().Err(err).Str("type", mediaType).Msg("skipping undecodable image")
		return
	}

	b := img.Bounds()
	x := int(math.Round(im.X)) + (w-b.Dx())/2
	y := int(math.Round(im.Y)) + (h-b.Dy())/2
	rd.dc.DrawImage(img, x, y)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
