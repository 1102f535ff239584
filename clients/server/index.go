package server

import (
	"fmt"
	"html"
	"html/template"
	"io"
	"net/url"
	"strings"

	"github.com/xob0t/ogcard/pkg/card"
)

const (
	siteName        = "OpenGraph"
	siteTitle       = "OpenGraph Preview & Generate Social Media Meta Tags"
	siteDescription = "Preview and generate Open Graph images and meta tags so your pages display well on social media."
)

type formInput struct {
	ID, Label, Name, Value string
}

type themeOption struct {
	Value, Label string
}

type indexData struct {
	Title       string
	Description string
	SiteName    string
	PublicURL   string
	OGImage     string
	Width       int
	Height      int
	Preview     template.HTML
	Inputs      []formInput
	ThemeID     string
	Themes      []themeOption
	Usage       template.HTML
}

// indexPage renders the preview page. Static parts are computed once; the
// preview and element ids are fresh per request.
type indexPage struct {
	tmpl     *template.Template
	renderer Renderer
	base     indexData
}

func newIndexPage(publicURL string, render Renderer) (*indexPage, error) {
	tmpl, err := template.ParseFS(webContent, "web/index.html")
	if err != nil {
		return nil, fmt.Errorf("parse index template: %w", err)
	}
	publicURL = strings.TrimSuffix(publicURL, "/")

	themes := make([]themeOption, 0, len(card.Themes()))
	for _, t := range card.Themes() {
		themes = append(themes, themeOption{Value: t.String(), Label: t.Label()})
	}

	return &indexPage{
		tmpl:     tmpl,
		renderer: render,
		base: indexData{
			Title:       siteTitle,
			Description: siteDescription,
			SiteName:    siteName,
			PublicURL:   publicURL,
			OGImage:     ogImageURL(publicURL),
			Width:       card.Width,
			Height:      card.Height,
			Themes:      themes,
			Usage:       usageSnippet(publicURL),
		},
	}, nil
}

func (p *indexPage) render(w io.Writer) error {
	def := card.DefaultRequest()
	data := p.base
	data.Preview = inlineSVG(p.renderer.RenderVector(def))
	data.Inputs = []formInput{
		{ID: card.NewID(), Label: "Title", Name: "title", Value: def.Title},
		{ID: card.NewID(), Label: "Author", Name: "author", Value: def.Author},
		{ID: card.NewID(), Label: "Image URL", Name: "photo", Value: def.Photo},
		{ID: card.NewID(), Label: "Website URL", Name: "url", Value: def.URL},
	}
	data.ThemeID = card.NewID()
	return p.tmpl.Execute(w, data)
}

// ogImageURL is the page's own card: rendered by this service in the
// tinacious theme with the favicon as the photo.
func ogImageURL(publicURL string) string {
	host := publicURL
	if _, rest, ok := strings.Cut(publicURL, "://"); ok {
		host = rest
	}
	q := url.Values{}
	q.Set("title", siteTitle)
	q.Set("author", siteName)
	q.Set("photo", publicURL+"/assets/favicon.svg")
	q.Set("url", host)
	q.Set("theme", card.ThemeTinacious.String())
	return publicURL + "/v0/png?" + q.Encode()
}

// usageSnippet shows the PNG endpoint with each field as a highlighted token.
func usageSnippet(publicURL string) template.HTML {
	fields := []string{"title", "author", "photo", "url", "theme"}
	parts := make([]string, len(fields))
	for i, f := range fields {
		parts[i] = fmt.Sprintf(`%s=<span class="kw">{%s}</span>`, f, f)
	}
	return template.HTML(html.EscapeString(publicURL+"/v0/png?") + strings.Join(parts, "&amp;"))
}

// inlineSVG drops the XML prolog so the document can sit inside HTML.
func inlineSVG(doc card.Document) template.HTML {
	s := doc.String()
	if i := strings.Index(s, "<svg"); i > 0 {
		s = s[i:]
	}
	return template.HTML(s)
}
