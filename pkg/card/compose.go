// compose.go — Assemble the card SVG from a request.
package card

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"strings"

	svg "github.com/ajstarks/svgo"
)

// Document is a complete SVG card.
type Document string

// ContentType is the MIME type of a Document.
const ContentType = "image/svg+xml"

func (d Document) String() string { return string(d) }

func (d Document) Bytes() []byte { return []byte(d) }

// Layout of the template, in user units.
const (
	borderWidth = 16

	titleWidth    = 24 // columns
	titleMaxLines = 3
	titleSize     = 72
	titleX        = 128 - avatarRadius/2
	titleY        = 128

	avatarRadius = 50
	avatarX      = 128
	avatarY      = Height - 128
	ringWidth    = 4

	authorSize = 48
	urlSize    = 32
	lineX      = avatarX + avatarRadius + 20
	authorY    = avatarY - (avatarRadius-10)/2 + authorSize/2 - 6
	urlY       = avatarY - (avatarRadius-10)/2 + urlSize/2 + 6

	fontRule = "text { font-family: 'Open Sans', Arial, sans-serif; }"
)

// Compose renders req into an SVG document. Fields are expected to be trimmed
// and non-empty (see Request.WithDefaults). Output is identical for equal
// requests except for the generated clip-path id.
func Compose(req Request) Document {
	pal := req.Theme.Palette()

	var buf bytes.Buffer
	canvas := svg.New(&buf)
	canvas.Start(Width, Height, fmt.Sprintf(`viewBox="0 0 %d %d"`, Width, Height))
	canvas.Style("text/css", fontRule)

	canvas.Rect(0, 0, Width, Height,
		fmt.Sprintf(`fill="%s" stroke="%s" stroke-width="%d"`, pal.Background, pal.Title, borderWidth))

	multilineText(canvas, Wrap(req.Title, titleWidth, titleMaxLines), titleX, titleY, titleSize, pal.Title)

	canvas.Text(lineX, authorY, req.Author,
		fmt.Sprintf(`dominant-baseline="auto" font-weight="700" fill="%s" font-size="%d"`, pal.Author, authorSize))
	canvas.Text(lineX, urlY, req.URL,
		fmt.Sprintf(`dominant-baseline="hanging" font-weight="400" fill="%s" font-size="%d"`, pal.URL, urlSize))

	circleAvatar(canvas, req.Photo, pal.Title)

	canvas.End()
	return Document(buf.String())
}

// multilineText writes lines as tspans, each one line-height below the previous.
func multilineText(canvas *svg.SVG, lines []string, x, y, fontSize int, fill string) {
	dy := int(float64(fontSize) * 1.25)
	canvas.Textspan(x, y, "",
		fmt.Sprintf(`font-size="%d" fill="%s" font-weight="700"`, fontSize, fill))
	for _, line := range lines {
		canvas.Span(line, fmt.Sprintf(`x="%d" dy="%d"`, x, dy))
	}
	canvas.TextEnd()
}

// circleAvatar clips the photo to a circle and strokes a ring over it.
func circleAvatar(canvas *svg.SVG, href, ring string) {
	clipID := NewID()

	canvas.Def()
	canvas.ClipPath(fmt.Sprintf(`id="%s"`, clipID))
	canvas.Circle(avatarX, avatarY, avatarRadius)
	canvas.ClipEnd()
	canvas.DefEnd()

	canvas.Group(fmt.Sprintf(`clip-path="url(#%s)"`, clipID))
	canvas.Image(avatarX-avatarRadius, avatarY-avatarRadius, avatarRadius*2, avatarRadius*2, escapeAttr(href))
	canvas.Circle(avatarX, avatarY, avatarRadius,
		fmt.Sprintf(`stroke="%s" stroke-width="%d" fill="none"`, ring, ringWidth))
	canvas.Gend()
}

// escapeAttr escapes s for use inside a double-quoted attribute.
func escapeAttr(s string) string {
	var sb strings.Builder
	_ = xml.EscapeText(&sb, []byte(s))
	return sb.String()
}
