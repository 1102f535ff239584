// Package server provides the ogcard HTTP API and preview page.
package server

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"mime"
	"net/http"
	"path"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/xob0t/ogcard/pkg/card"
	"github.com/xob0t/ogcard/pkg/engine"
	"github.com/xob0t/ogcard/pkg/raster"
)

//go:embed web/*
var webContent embed.FS

// Renderer produces cards. Implemented by engine.Engine.
type Renderer interface {
	RenderVector(req card.Request) card.Document
	RenderBitmap(ctx context.Context, req card.Request) ([]byte, error)
}

// Options configures the HTTP surface.
type Options struct {
	Renderer  Renderer
	Logger    zerolog.Logger
	PublicURL string // absolute base URL used in meta tags
	Version   string
}

type srv struct {
	render  Renderer
	log     zerolog.Logger
	assets  fs.FS
	index   *indexPage
	version string
}

// New builds the router.
func New(opts Options) (http.Handler, error) {
	assets, err := fs.Sub(webContent, "web/assets")
	if err != nil {
		return nil, fmt.Errorf("embed web: %w", err)
	}
	index, err := newIndexPage(opts.PublicURL, opts.Renderer)
	if err != nil {
		return nil, err
	}

	s := &srv{
		render:  opts.Renderer,
		log:     opts.Logger.With().Str("component", "http").Logger(),
		assets:  assets,
		index:   index,
		version: opts.Version,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(accessLog(s.log))
	r.Use(middleware.Recoverer)

	r.Get("/", s.handleIndex)
	r.Get("/health", s.handleHealth)
	r.Get("/v0/svg", s.handleSVG)
	r.Get("/v0/png", s.handlePNG)
	r.Get("/assets/*", s.handleAsset)

	r.NotFound(s.handleNotFound)
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	})

	return r, nil
}

// ── Card endpoints ──

// requestFromQuery reads the card fields from the query string and applies
// defaults to empty ones.
func requestFromQuery(r *http.Request) (card.Request, error) {
	q := r.URL.Query()
	theme, err := card.ParseTheme(q.Get("theme"))
	if err != nil {
		return card.Request{}, err
	}
	req := card.Request{
		Title:  q.Get("title"),
		Author: q.Get("author"),
		URL:    q.Get("url"),
		Photo:  q.Get("photo"),
		Theme:  theme,
	}
	return req.WithDefaults(), nil
}

func (s *srv) handleSVG(w http.ResponseWriter, r *http.Request) {
	req, err := requestFromQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	w.Header().Set("Content-Type", card.ContentType)
	w.Write(s.render.RenderVector(req).Bytes())
}

func (s *srv) handlePNG(w http.ResponseWriter, r *http.Request) {
	req, err := requestFromQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	out, err := s.render.RenderBitmap(r.Context(), req)
	if err != nil {
		var e *engine.Error
		if errors.As(err, &e) && e.Kind == engine.KindPhoto {
			writeError(w, http.StatusBadRequest, e.Err.Error())
			return
		}
		s.log.Error().Err(err).Str("request_id", middleware.GetReqID(r.Context())).Msg("render png")
		writeError(w, http.StatusInternalServerError, "failed to render image")
		return
	}

	w.Header().Set("Content-Type", raster.ContentType)
	w.Write(out)
}

// ── Page, health, assets ──

func (s *srv) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.index.render(w); err != nil {
		s.log.Error().Err(err).Msg("render index")
	}
}

func (s *srv) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "ver": s.version})
}

func (s *srv) handleAsset(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "*")
	data, err := fs.ReadFile(s.assets, name)
	if err != nil {
		s.handleNotFound(w, r)
		return
	}

	ct := mime.TypeByExtension(path.Ext(name))
	if ct == "" {
		ct = "application/octet-stream"
	}
	w.Header().Set("Content-Type", ct)
	w.Write(data)
}

func (s *srv) handleNotFound(w http.ResponseWriter, r *http.Request) {
	writeError(w, http.StatusNotFound, "not found")
}

// ── Helpers ──

type errorBody struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, errorBody{Code: code, Message: msg})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}
