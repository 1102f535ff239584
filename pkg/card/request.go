// Package card builds Open Graph preview cards as SVG documents.
//
// A card is a fixed 1200x630 template with a bordered background, a wrapped
// title, an author line, a URL line and a circular avatar, coloured by one of a
// closed set of themes.
package card

import "strings"

// Canvas dimensions of every card.
const (
	Width  = 1200
	Height = 630
)

// Default field values substituted by Request.WithDefaults.
const (
	DefaultTitle  = "Dynamic Open Graph Image Generator"
	DefaultAuthor = "vladkens"
	DefaultURL    = "vnotes.pages.dev"
	DefaultPhoto  = "https://avatars.githubusercontent.com/u/825754"
)

// Request describes the page a card is rendered for. Photo is either a remote
// URL or a data URI.
type Request struct {
	Title  string `json:"title"`
	Author string `json:"author"`
	URL    string `json:"url"`
	Photo  string `json:"photo"`
	Theme  Theme  `json:"theme"`
}

// DefaultRequest returns the request used when nothing is specified.
func DefaultRequest() Request {
	return Request{
		Title:  DefaultTitle,
		Author: DefaultAuthor,
		URL:    DefaultURL,
		Photo:  DefaultPhoto,
		Theme:  ThemeDefault,
	}
}

// WithDefaults trims every text field and replaces empty ones with the
// defaults. Compose expects requests normalised this way.
func (r Request) WithDefaults() Request {
	r.Title = orDefault(r.Title, DefaultTitle)
	r.Author = orDefault(r.Author, DefaultAuthor)
	r.URL = orDefault(r.URL, DefaultURL)
	r.Photo = orDefault(r.Photo, DefaultPhoto)
	if !r.Theme.Valid() {
		r.Theme = ThemeDefault
	}
	return r
}

func orDefault(s, def string) string {
	if s = strings.TrimSpace(s); s == "" {
		return def
	}
	return s
}
