// images.go - Decode embedded images and fit them into their boxes.
package raster

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"math"
	"mime"
	"net/url"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
	_ "golang.org/x/image/webp"
)

// ErrNotDataURI marks an href that would need a fetch.
var ErrNotDataURI = errors.New("not a data uri")

// parseDataURI splits "data:[<mediatype>][;base64],<data>".
func parseDataURI(href string) (mediaType string, data []byte, err error) {
	rest, ok := strings.CutPrefix(strings.TrimSpace(href), "data:")
	if !ok {
		return "", nil, ErrNotDataURI
	}
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return "", nil, errors.New("data uri without payload")
	}

	isBase64 := false
	if m, found := strings.CutSuffix(meta, ";base64"); found {
		meta, isBase64 = m, true
	}
	if meta != "" {
		if mediaType, _, err = mime.ParseMediaType(meta); err != nil {
			return "", nil, fmt.Errorf("data uri media type: %w", err)
		}
	}

	if isBase64 {
		payload = strings.Map(func(r rune) rune {
			if r == ' ' || r == '\n' || r == '\r' || r == '\t' {
				return -1
			}
			return r
		}, payload)
		data, err = base64.StdEncoding.DecodeString(payload)
	} else {
		var s string
		s, err = url.PathUnescape(payload)
		data = []byte(s)
	}
	if err != nil {
		return "", nil, fmt.Errorf("data uri payload: %w", err)
	}
	return mediaType, data, nil
}

// decodeFitted decodes an image and scales it to fit a w×h box with its
// aspect ratio kept.
func decodeFitted(mediaType string, data []byte, w, h int) (image.Image, error) {
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("empty image box %dx%d", w, h)
	}
	if mediaType == "image/svg+xml" {
		return rasterizeIcon(data, w, h)
	}

	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	b := src.Bounds()
	fw, fh := fitSize(b.Dx(), b.Dy(), w, h)
	return imaging.Resize(src, fw, fh, imaging.Lanczos), nil
}

// rasterizeIcon renders an SVG image directly at its fitted size.
func rasterizeIcon(data []byte, w, h int) (image.Image, error) {
	icon, err := oksvg.ReadIconStream(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode svg image: %w", err)
	}
	iw, ih := int(math.Ceil(icon.ViewBox.W)), int(math.Ceil(icon.ViewBox.H))
	if iw <= 0 || ih <= 0 {
		iw, ih = w, h
	}
	fw, fh := fitSize(iw, ih, w, h)

	icon.SetTarget(0, 0, float64(fw), float64(fh))
	dst := image.NewRGBA(image.Rect(0, 0, fw, fh))
	scanner := rasterx.NewScannerGV(fw, fh, dst, dst.Bounds())
	icon.Draw(rasterx.NewDasher(fw, fh, scanner), 1.0)
	return dst, nil
}

// fitSize scales srcW×srcH to fit inside boxW×boxH.
func fitSize(srcW, srcH, boxW, boxH int) (int, int) {
	if srcW <= 0 || srcH <= 0 {
		return boxW, boxH
	}
	scale := math.Min(float64(boxW)/float64(srcW), float64(boxH)/float64(srcH))
	w := max(1, int(math.Round(float64(srcW)*scale)))
	h := max(1, int(math.Round(float64(srcH)*scale)))
	return min(w, boxW), min(h, boxH)
}
