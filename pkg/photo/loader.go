// loader.go — Fetch remote avatars and inline them as data URIs.
//
// Package photo downloads a remote image with size, type and time limits and
// returns it as a base64 data URI that the rasterizer can draw without network
// access.
package photo

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"mime"
	"net"
	"net/http"
	"net/url"
	"strings"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

var (
	ErrUnsupportedScheme     = errors.New("unsupported url scheme")
	ErrUnknownSize           = errors.New("unknown image size")
	ErrTooLarge              = errors.New("image too large")
	ErrUnknownContentType    = errors.New("unknown content type")
	ErrDisallowedContentType = errors.New("content type not allowed")
	ErrStatus                = errors.New("unexpected response status")
	ErrTimeout               = errors.New("photo read timeout")
	ErrFetch                 = errors.New("fetch failed")
)

// Defaults applied by New to zero Options fields.
const (
	DefaultUserAgent      = "ogcard"
	DefaultReadTimeout    = 10 * time.Second
	DefaultConnectTimeout = 5 * time.Second
	DefaultMaxBytes       = 5 << 20
)

// allowedTypes are the media types the rasterizer can decode.
var allowedTypes = map[string]bool{
	"image/jpeg":    true,
	"image/png":     true,
	"image/webp":    true,
	"image/svg+xml": true,
}

// Options configures a Loader.
type Options struct {
	// HTTPClient overrides the client built from the timeouts below.
	HTTPClient     *http.Client
	UserAgent      string
	ReadTimeout    time.Duration // header wait and per-read idle limit
	ConnectTimeout time.Duration
	MaxBytes       int64
	Logger         zerolog.Logger
}

// Loader fetches photos. It holds no per-request state and is safe for
// concurrent use.
type Loader struct {
	client      *http.Client
	userAgent   string
	readTimeout time.Duration
	maxBytes    int64
	log         zerolog.Logger
}

// New creates a Loader.
func New(opts Options) *Loader {
	if opts.UserAgent == "" {
		opts.UserAgent = DefaultUserAgent
	}
	if opts.ReadTimeout <= 0 {
		opts.ReadTimeout = DefaultReadTimeout
	}
	if opts.ConnectTimeout <= 0 {
		opts.ConnectTimeout = DefaultConnectTimeout
	}
	if opts.MaxBytes <= 0 {
		opts.MaxBytes = DefaultMaxBytes
	}

	client := opts.HTTPClient
	if client == nil {
		dialer := &net.Dialer{Timeout: opts.ConnectTimeout}
		client = &http.Client{
			Transport: &http.Transport{
				Proxy:                 http.ProxyFromEnvironment,
				DialContext:           dialer.DialContext,
				DisableCompression:    true,
				TLSHandshakeTimeout:   opts.ConnectTimeout,
				ResponseHeaderTimeout: opts.ReadTimeout,
				MaxIdleConns:          16,
				IdleConnTimeout:       90 * time.Second,
			},
		}
	}

	return &Loader{
		client:      client,
		userAgent:   opts.UserAgent,
		readTimeout: opts.ReadTimeout,
		maxBytes:    opts.MaxBytes,
		log:         opts.Logger.With().Str("component", "photo").Logger(),
	}
}

// LoadDataURI downloads rawURL and returns it as "data:{mime};base64,{payload}".
func (l *Loader) LoadDataURI(ctx context.Context, rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedScheme, rawURL)
	}

	start := time.Now()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// The idle timer cancels the request when neither headers nor body bytes
	// arrive within the read timeout.
	var timedOut atomic.Bool
	idle := time.AfterFunc(l.readTimeout, func() {
		timedOut.Store(true)
		cancel()
	})
	defer idle.Stop()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrFetch, err)
	}
	req.Header.Set("User-Agent", l.userAgent)
	req.Header.Set("Accept", "image/png,image/jpeg,image/webp,image/svg+xml")
	// Transparent gzip would drop Content-Length, which the size check needs.
	req.Header.Set("Accept-Encoding", "identity")

	resp, err := l.client.Do(req)
	if err != nil {
		return "", l.transportError(err, timedOut.Load())
	}
	defer resp.Body.Close()
	idle.Reset(l.readTimeout)

	mediaType, err := l.validate(resp)
	if err != nil {
		return "", err
	}

	body, err := io.ReadAll(io.LimitReader(&idleReader{r: resp.Body, timer: idle, d: l.readTimeout}, l.maxBytes+1))
	if err != nil {
		return "", l.transportError(err, timedOut.Load())
	}
	if int64(len(body)) > l.maxBytes {
		return "", fmt.Errorf("%w: body exceeds %d bytes", ErrTooLarge, l.maxBytes)
	}

	l.log.Debug().
		Str("url", rawURL).
		Str("type", mediaType).
		Int("bytes", len(body)).
		Dur("took", time.Since(start)).
		Msg("photo loaded")

	return "data:" + mediaType + ";base64," + base64.StdEncoding.EncodeToString(body), nil
}

// validate checks the response before any body byte is read.
func (l *Loader) validate(resp *http.Response) (string, error) {
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("%w: %s", ErrStatus, resp.Status)
	}
	if resp.ContentLength < 0 {
		return "", ErrUnknownSize
	}
	if resp.ContentLength > l.maxBytes {
		return "", fmt.Errorf("%w: %d bytes, limit %d", ErrTooLarge, resp.ContentLength, l.maxBytes)
	}

	ct := resp.Header.Get("Content-Type")
	if strings.TrimSpace(ct) == "" {
		return "", ErrUnknownContentType
	}
	mediaType, _, err := mime.ParseMediaType(ct)
	if err != nil || !allowedTypes[strings.ToLower(mediaType)] {
		return "", fmt.Errorf("%w: %s", ErrDisallowedContentType, ct)
	}
	return strings.ToLower(mediaType), nil
}

func (l *Loader) transportError(err error, timedOut bool) error {
	var netErr net.Error
	if timedOut || (errors.As(err, &netErr) && netErr.Timeout()) {
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return fmt.Errorf("%w: %v", ErrFetch, err)
}

// idleReader pushes the idle deadline back whenever a read makes progress.
type idleReader struct {
	r     io.Reader
	timer *time.Timer
	d     time.Duration
}

func (ir *idleReader) Read(p []byte) (int, error) {
	n, err := ir.r.Read(p)
	if n > 0 {
		ir.timer.Reset(ir.d)
	}
	return n, err
}
