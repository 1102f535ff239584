package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"image/png"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/xob0t/ogcard/pkg/card"
	"github.com/xob0t/ogcard/pkg/engine"
	"github.com/xob0t/ogcard/pkg/photo"
	"github.com/xob0t/ogcard/pkg/raster"
)

type stubLoader struct{ err error }

func (s stubLoader) LoadDataURI(context.Context, string) (string, error) {
	return "", s.err
}

type failingRenderer struct{}

func (failingRenderer) RenderVector(req card.Request) card.Document { return card.Compose(req) }

func (failingRenderer) RenderBitmap(context.Context, card.Request) ([]byte, error) {
	return nil, &engine.Error{Kind: engine.KindRaster, Err: raster.ErrSurface}
}

func newTestServer(t *testing.T, render Renderer) *httptest.Server {
	t.Helper()
	if render == nil {
		loader := stubLoader{err: fmt.Errorf("%w: text/html", photo.ErrDisallowedContentType)}
		render = engine.New(loader, raster.NewRasterizer(raster.EmbeddedFonts(), zerolog.Nop()), zerolog.Nop())
	}
	h, err := New(Options{
		Renderer:  render,
		Logger:    zerolog.Nop(),
		PublicURL: "https://og.example.com",
		Version:   "test",
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return srv
}

func get(t *testing.T, srv *httptest.Server, path string) (*http.Response, []byte) {
	t.Helper()
	resp, err := http.Get(srv.URL + path)
	if err != nil {
		t.Fatalf("GET %s: %v", path, err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return resp, body
}

func decodeError(t *testing.T, body []byte) errorBody {
	t.Helper()
	var e errorBody
	if err := json.Unmarshal(body, &e); err != nil {
		t.Fatalf("error body is not JSON: %v: %s", err, body)
	}
	return e
}

func TestSVGEndpoint(t *testing.T) {
	srv := newTestServer(t, nil)

	resp, body := get(t, srv, "/v0/svg?title=Hello+World&theme=night_owl")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status %d: %s", resp.StatusCode, body)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "image/svg+xml" {
		t.Fatalf("Content-Type = %q", ct)
	}
	for _, want := range []string{">Hello World</tspan>", card.ThemeNightOwl.Palette().Background, ">" + card.DefaultAuthor + "<"} {
		if !bytes.Contains(body, []byte(want)) {
			t.Fatalf("body missing %q:\n%s", want, body)
		}
	}
}

func TestSVGEndpointUnknownTheme(t *testing.T) {
	srv := newTestServer(t, nil)

	resp, body := get(t, srv, "/v0/svg?theme=solarized")
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status %d", resp.StatusCode)
	}
	e := decodeError(t, body)
	if e.Code != 400 || !strings.Contains(e.Message, "unknown theme") {
		t.Fatalf("error body %+v", e)
	}
}

func TestPNGEndpoint(t *testing.T) {
	srv := newTestServer(t, nil)

	photoURI := "data:image/svg+xml;base64,PHN2ZyB4bWxucz0iaHR0cDovL3d3dy53My5vcmcvMjAwMC9zdmciIHZpZXdCb3g9IjAgMCAxIDEiLz4="
	resp, body := get(t, srv, "/v0/png?title=Hello&photo="+url.QueryEscape(photoURI))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status %d: %s", resp.StatusCode, body)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "image/png" {
		t.Fatalf("Content-Type = %q", ct)
	}
	img, err := png.Decode(bytes.NewReader(body))
	if err != nil {
		t.Fatalf("body is not a PNG: %v", err)
	}
	if b := img.Bounds(); b.Dx() != card.Width || b.Dy() != card.Height {
		t.Fatalf("bitmap %v", b)
	}
}

func TestPNGEndpointPhotoError(t *testing.T) {
	srv := newTestServer(t, nil)

	resp, body := get(t, srv, "/v0/png?photo="+url.QueryEscape("https://example.com/page.html"))
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status %d: %s", resp.StatusCode, body)
	}
	e := decodeError(t, body)
	if e.Code != 400 || e.Message != "content type not allowed: text/html" {
		t.Fatalf("error body %+v", e)
	}
}

func TestPNGEndpointRasterError(t *testing.T) {
	srv := newTestServer(t, failingRenderer{})

	resp, body := get(t, srv, "/v0/png")
	if resp.StatusCode != http.StatusInternalServerError {
		t.Fatalf("status %d", resp.StatusCode)
	}
	e := decodeError(t, body)
	if e.Code != 500 || strings.Contains(e.Message, raster.ErrSurface.Error()) {
		t.Fatalf("error body leaks internals: %+v", e)
	}
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t, nil)

	resp, body := get(t, srv, "/health")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status %d", resp.StatusCode)
	}
	var got map[string]string
	if err := json.Unmarshal(body, &got); err != nil {
		t.Fatal(err)
	}
	if got["status"] != "ok" || got["ver"] != "test" {
		t.Fatalf("health = %v", got)
	}
}

func TestAssets(t *testing.T) {
	srv := newTestServer(t, nil)

	tests := []struct {
		path   string
		status int
		ctype  string
	}{
		{"/assets/app.js", http.StatusOK, "javascript"},
		{"/assets/app.css", http.StatusOK, "text/css"},
		{"/assets/favicon.svg", http.StatusOK, "image/svg+xml"},
		{"/assets/missing.txt", http.StatusNotFound, "application/json"},
	}
	for _, tc := range tests {
		resp, _ := get(t, srv, tc.path)
		if resp.StatusCode != tc.status {
			t.Fatalf("%s: status %d, want %d", tc.path, resp.StatusCode, tc.status)
		}
		if ct := resp.Header.Get("Content-Type"); !strings.Contains(ct, tc.ctype) {
			t.Fatalf("%s: Content-Type %q, want %q", tc.path, ct, tc.ctype)
		}
	}
}

func TestNotFound(t *testing.T) {
	srv := newTestServer(t, nil)

	resp, body := get(t, srv, "/v1/nothing")
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("status %d", resp.StatusCode)
	}
	if e := decodeError(t, body); e.Code != 404 || e.Message != "not found" {
		t.Fatalf("error body %+v", e)
	}
}

func TestIndexPage(t *testing.T) {
	srv := newTestServer(t, nil)

	resp, body := get(t, srv, "/")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Fatalf("Content-Type = %q", ct)
	}
	page := string(body)
	for _, want := range []string{
		`property="og:image" content="https://og.example.com/v0/png?`,
		"theme=tinacious",
		`hx-get="/v0/svg"`,
		`<option value="night-owl">Night Owl</option>`,
		`<span class="kw">{title}</span>`,
		`value="` + card.DefaultAuthor + `"`,
	} {
		if !strings.Contains(page, want) {
			t.Fatalf("page missing %q", want)
		}
	}
	if strings.Contains(page, "<?xml") || !strings.Contains(page, "<svg") {
		t.Fatalf("preview is not inlined as bare svg")
	}
}

func TestRequestFromQueryDefaults(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/v0/svg?title=+&author=&theme=", nil)
	req, err := requestFromQuery(r)
	if err != nil {
		t.Fatal(err)
	}
	if req != card.DefaultRequest() {
		t.Fatalf("got %+v", req)
	}

	r = httptest.NewRequest(http.MethodGet, "/v0/svg?theme=bogus", nil)
	if _, err := requestFromQuery(r); !errors.Is(err, card.ErrUnknownTheme) {
		t.Fatalf("got %v, want ErrUnknownTheme", err)
	}
}
