// color.go — Paint parsing for fill and stroke attributes.
package raster

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"
)

// parseColor parses "#rrggbb" or "#rgb".
func parseColor(s string) (color.RGBA, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) != 6 {
		return color.RGBA{}, fmt.Errorf("invalid color %q: expected #rrggbb", s)
	}

	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 255}, nil
}

// parsePaint parses a fill or stroke value; nil means "none". An absent
// attribute yields def.
func parsePaint(s string, present bool, def *color.RGBA) (*color.RGBA, error) {
	if !present {
		return def, nil
	}
	switch strings.TrimSpace(s) {
	case "none", "transparent":
		return nil, nil
	}
	c, err := parseColor(s)
	if err != nil {
		return nil, err
	}
	return &c, nil
}
