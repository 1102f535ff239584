//go:build js && wasm

// ogcard WASM — Client-side card renderer.
// Compiled with: GOOS=js GOARCH=wasm go build -o ogcard.wasm ./clients/wasm/
package main

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"syscall/js"

	"github.com/rs/zerolog"

	"github.com/xob0t/ogcard/pkg/card"
	"github.com/xob0t/ogcard/pkg/raster"
)

// The browser has no font directories; text uses the embedded Go fonts.
var rasterizer = raster.NewRasterizer(raster.EmbeddedFonts(), zerolog.Nop())

func main() {
	fmt.Println("ogcard WASM loaded")

	js.Global().Set("goRenderSVG", js.FuncOf(renderSVG))
	js.Global().Set("goRenderPNG", js.FuncOf(renderPNG))
	js.Global().Set("goThemes", js.FuncOf(themes))
	js.Global().Set("goReady", js.ValueOf(true))

	// Block forever (WASM must not exit).
	select {}
}

// parseRequest decodes a JSON card request and fills in defaults.
func parseRequest(args []js.Value) (card.Request, error) {
	var req card.Request
	if len(args) > 0 && args[0].Type() == js.TypeString && args[0].String() != "" {
		if err := json.Unmarshal([]byte(args[0].String()), &req); err != nil {
			return req, fmt.Errorf("parse request: %w", err)
		}
	}
	return req.WithDefaults(), nil
}

// goRenderSVG(requestJSON) — return the SVG document.
func renderSVG(this js.Value, args []js.Value) interface{} {
	req, err := parseRequest(args)
	if err != nil {
		return js.ValueOf("error: " + err.Error())
	}
	return js.ValueOf(card.Compose(req).String())
}

// goRenderPNG(requestJSON) — return a base64 PNG. Only data: photos are drawn.
func renderPNG(this js.Value, args []js.Value) interface{} {
	req, err := parseRequest(args)
	if err != nil {
		return js.ValueOf("error: " + err.Error())
	}
	out, err := rasterizer.Rasterize(card.Compose(req).Bytes())
	if err != nil {
		return js.ValueOf("error: render: " + err.Error())
	}
	return js.ValueOf(base64.StdEncoding.EncodeToString(out))
}

type themeInfo struct {
	Name    string       `json:"name"`
	Label   string       `json:"label"`
	Palette card.Palette `json:"palette"`
}

// goThemes() — return the theme list as JSON.
func themes(this js.Value, args []js.Value) interface{} {
	list := make([]themeInfo, 0, len(card.Themes()))
	for _, t := range card.Themes() {
		list = append(list, themeInfo{Name: t.String(), Label: t.Label(), Palette: t.Palette()})
	}
	data, err := json.Marshal(list)
	if err != nil {
		return js.ValueOf("error: " + err.Error())
	}
	return js.ValueOf(string(data))
}
