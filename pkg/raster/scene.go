// scene.go - Parse the card's SVG subset into a scene tree.
package raster

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"image/color"
	"io"
	"math"
	"strconv"
	"strings"
)

var (
	// ErrMalformed reports a document the rasterizer cannot interpret.
	ErrMalformed = errors.New("malformed svg")
	// ErrSurface reports an intrinsic size outside (0, MaxSide].
	ErrSurface = errors.New("invalid surface size")
)

// MaxSide bounds each side of the drawing surface.
const MaxSide = 8192

var black = color.RGBA{A: 255}

// Scene is a parsed document.
type Scene struct {
	Width, Height int
	// ViewBox maps user units onto the surface; zero W or H means identity.
	ViewBox  ViewBox
	Families []string // from the text rule in <style>
	Nodes    []Node
}

type ViewBox struct{ X, Y, W, H float64 }

// Node is one drawable element.
type Node interface{ node() }

type Rect struct {
	X, Y, W, H  float64
	Fill        *color.RGBA
	Stroke      *color.RGBA
	StrokeWidth float64
}

type Circle struct {
	CX, CY, R   float64
	Fill        *color.RGBA
	Stroke      *color.RGBA
	StrokeWidth float64
}

// Text is a text element. Runs are drawn in order from a current position
// that starts at (X, Y) and advances by each run's width.
type Text struct {
	X, Y     float64
	Size     float64
	Weight   int
	Families []string // nil means the scene default
	Fill     *color.RGBA
	Baseline string
	Runs     []Run
}

// Run is a chunk of text, either bare character data or a tspan.
type Run struct {
	X, Y   *float64 // absolute repositioning
	DX, DY float64
	Text   string
}

type Image struct {
	X, Y, W, H float64
	Href       string
}

// Group is a <g>; Clip is resolved from its clip-path reference.
type Group struct {
	Clip     *Circle
	Children []Node

	clipRef string
}

func (*Rect) node()   {}
func (*Circle) node() {}
func (*Text) node()   {}
func (*Image) node()  {}
func (*Group) node()  {}

// Parse reads an SVG document. Elements outside the supported subset are
// skipped.
func Parse(doc []byte) (*Scene, error) {
	dec := xml.NewDecoder(bytes.NewReader(doc))

	var root *xml.StartElement
	for root == nil {
		tok, err := dec.Token()
		if err == io.EOF {
			return nil, fmt.Errorf("%w: no <svg> root", ErrMalformed)
		}
		if err != nil {
			return nil, malformed(err)
		}
		if se, ok := tok.(xml.StartElement); ok {
			if se.Name.Local != "svg" {
				return nil, fmt.Errorf("%w: root is <%s>, want <svg>", ErrMalformed, se.Name.Local)
			}
			root = &se
		}
	}

	p := &parser{dec: dec, clips: make(map[string]*Circle)}
	sc := &Scene{}
	if err := p.root(sc, *root); err != nil {
		return nil, err
	}
	nodes, err := p.children("svg")
	if err != nil {
		return nil, err
	}
	sc.Nodes = nodes
	sc.Families = p.families
	if err := p.resolveClips(sc.Nodes); err != nil {
		return nil, err
	}
	return sc, nil
}

func malformed(err error) error {
	return fmt.Errorf("%w: %v", ErrMalformed, err)
}

type parser struct {
	dec      *xml.Decoder
	clips    map[string]*Circle
	families []string
}

func (p *parser) root(sc *Scene, se xml.StartElement) error {
	a := attrs(se)

	if vb, ok := a["viewBox"]; ok {
		f := strings.FieldsFunc(vb, func(r rune) bool { return r == ' ' || r == ',' })
		if len(f) != 4 {
			return fmt.Errorf("%w: viewBox %q", ErrMalformed, vb)
		}
		var v [4]float64
		for i, s := range f {
			n, err := strconv.ParseFloat(s, 64)
			if err != nil {
				return fmt.Errorf("%w: viewBox %q", ErrMalformed, vb)
			}
			v[i] = n
		}
		sc.ViewBox = ViewBox{X: v[0], Y: v[1], W: v[2], H: v[3]}
	}

	w, err := a.length("width", sc.ViewBox.W)
	if err != nil {
		return err
	}
	h, err := a.length("height", sc.ViewBox.H)
	if err != nil {
		return err
	}
	if w == 0 && h == 0 {
		return fmt.Errorf("%w: no intrinsic size", ErrMalformed)
	}

	sc.Width, sc.Height = int(math.Ceil(w)), int(math.Ceil(h))
	if sc.Width <= 0 || sc.Height <= 0 || sc.Width > MaxSide || sc.Height > MaxSide {
		return fmt.Errorf("%w: %dx%d", ErrSurface, sc.Width, sc.Height)
	}
	return nil
}

// children parses nodes until the end tag of the enclosing element.
func (p *parser) children(parent string) ([]Node, error) {
	var nodes []Node
	for {
		tok, err := p.dec.Token()
		if err == io.EOF {
			return nil, fmt.Errorf("%w: unterminated <%s>", ErrMalformed, parent)
		}
		if err != nil {
			return nil, malformed(err)
		}

		switch t := tok.(type) {
		case xml.EndElement:
			return nodes, nil
		case xml.StartElement:
			n, err := p.element(t)
			if err != nil {
				return nil, err
			}
			if n != nil {
				nodes = append(nodes, n)
			}
		}
	}
}

func (p *parser) element(se xml.StartElement) (Node, error) {
	a := attrs(se)
	switch se.Name.Local {
	case "rect":
		return p.leaf(parseRect(a))
	case "circle":
		return p.leaf(parseCircle(a))
	case "image":
		return p.leaf(parseImage(a))
	case "text":
		return p.text(a)
	case "g":
		g := &Group{}
		if ref, ok := a["clip-path"]; ok && ref != "none" {
			id, err := urlRef(ref)
			if err != nil {
				return nil, err
			}
			g.clipRef = id
		}
		children, err := p.children("g")
		if err != nil {
			return nil, err
		}
		g.Children = children
		return g, nil
	case "defs":
		return nil, p.defs()
	case "style":
		return nil, p.style()
	default:
		if err := p.dec.Skip(); err != nil {
			return nil, malformed(err)
		}
		return nil, nil
	}
}

// leaf consumes the rest of an element that has no drawable children.
func (p *parser) leaf(n Node, err error) (Node, error) {
	if err != nil {
		return nil, err
	}
	if err := p.dec.Skip(); err != nil {
		return nil, malformed(err)
	}
	return n, nil
}

// defs collects clip paths; anything else inside <defs> is ignored.
func (p *parser) defs() error {
	for {
		tok, err := p.dec.Token()
		if err != nil {
			return malformed(err)
		}
		switch t := tok.(type) {
		case xml.EndElement:
			return nil
		case xml.StartElement:
			if t.Name.Local != "clipPath" {
				if err := p.dec.Skip(); err != nil {
					return malformed(err)
				}
				continue
			}
			if err := p.clipPath(attrs(t)); err != nil {
				return err
			}
		}
	}
}

func (p *parser) clipPath(a attrMap) error {
	id := a["id"]
	if id == "" {
		return fmt.Errorf("%w: clipPath without id", ErrMalformed)
	}
	children, err := p.children("clipPath")
	if err != nil {
		return err
	}
	for _, n := range children {
		if c, ok := n.(*Circle); ok {
			p.clips[id] = c
			return nil
		}
	}
	return fmt.Errorf("%w: clipPath %q has no circle", ErrMalformed, id)
}

// style extracts the font-family declaration of the stylesheet.
func (p *parser) style() error {
	var css strings.Builder
	for {
		tok, err := p.dec.Token()
		if err != nil {
			return malformed(err)
		}
		switch t := tok.(type) {
		case xml.CharData:
			css.Write(t)
		case xml.EndElement:
			if fam, ok := cssProperty(css.String(), "font-family"); ok {
				p.families = splitFamilies(fam)
			}
			return nil
		}
	}
}

func (p *parser) text(a attrMap) (*Text, error) {
	t := &Text{Weight: 400, Size: 16, Baseline: a["dominant-baseline"]}
	var err error
	if t.X, err = a.number("x", 0); err != nil {
		return nil, err
	}
	if t.Y, err = a.number("y", 0); err != nil {
		return nil, err
	}
	if t.Size, err = a.length("font-size", 16); err != nil {
		return nil, err
	}
	if t.Weight, err = parseWeight(a["font-weight"]); err != nil {
		return nil, err
	}
	if fam, ok := a["font-family"]; ok {
		t.Families = splitFamilies(fam)
	}
	fill, ok := a["fill"]
	if t.Fill, err = parsePaint(fill, ok, &black); err != nil {
		return nil, malformed(err)
	}

	for {
		tok, err := p.dec.Token()
		if err != nil {
			return nil, malformed(err)
		}
		switch tk := tok.(type) {
		case xml.EndElement:
			return t, nil
		case xml.CharData:
			if s := collapse(string(tk)); s != "" {
				t.Runs = append(t.Runs, Run{Text: s})
			}
		case xml.StartElement:
			if tk.Name.Local != "tspan" {
				if err := p.dec.Skip(); err != nil {
					return nil, malformed(err)
				}
				continue
			}
			run, err := p.tspan(attrs(tk))
			if err != nil {
				return nil, err
			}
			t.Runs = append(t.Runs, run)
		}
	}
}

func (p *parser) tspan(a attrMap) (Run, error) {
	var (
		run Run
		err error
	)
	for _, pos := range []struct {
		name string
		dst  **float64
	}{{"x", &run.X}, {"y", &run.Y}} {
		if _, ok := a[pos.name]; !ok {
			continue
		}
		v, err := a.number(pos.name, 0)
		if err != nil {
			return run, err
		}
		*pos.dst = &v
	}
	if run.DX, err = a.number("dx", 0); err != nil {
		return run, err
	}
	if run.DY, err = a.number("dy", 0); err != nil {
		return run, err
	}

	var sb strings.Builder
	for {
		tok, err := p.dec.Token()
		if err != nil {
			return run, malformed(err)
		}
		switch t := tok.(type) {
		case xml.CharData:
			sb.Write(t)
		case xml.StartElement:
			if err := p.dec.Skip(); err != nil {
				return run, malformed(err)
			}
		case xml.EndElement:
			run.Text = collapse(sb.String())
			return run, nil
		}
	}
}

func (p *parser) resolveClips(nodes []Node) error {
	for _, n := range nodes {
		g, ok := n.(*Group)
		if !ok {
			continue
		}
		if g.clipRef != "" {
			c, ok := p.clips[g.clipRef]
			if !ok {
				return fmt.Errorf("%w: unknown clip-path #%s", ErrMalformed, g.clipRef)
			}
			g.Clip = c
		}
		if err := p.resolveClips(g.Children); err != nil {
			return err
		}
	}
	return nil
}

// ── Elements ──

func parseRect(a attrMap) (*Rect, error) {
	r := &Rect{}
	var err error
	for _, f := range []struct {
		name string
		dst  *float64
	}{{"x", &r.X}, {"y", &r.Y}, {"width", &r.W}, {"height", &r.H}} {
		if *f.dst, err = a.length(f.name, 0); err != nil {
			return nil, err
		}
	}
	if r.Fill, r.Stroke, r.StrokeWidth, err = a.paints(); err != nil {
		return nil, err
	}
	return r, nil
}

func parseCircle(a attrMap) (*Circle, error) {
	c := &Circle{}
	var err error
	for _, f := range []struct {
		name string
		dst  *float64
	}{{"cx", &c.CX}, {"cy", &c.CY}, {"r", &c.R}} {
		if *f.dst, err = a.length(f.name, 0); err != nil {
			return nil, err
		}
	}
	if c.Fill, c.Stroke, c.StrokeWidth, err = a.paints(); err != nil {
		return nil, err
	}
	return c, nil
}

func parseImage(a attrMap) (*Image, error) {
	im := &Image{Href: a["href"]}
	var err error
	for _, f := range []struct {
		name string
		dst  *float64
	}{{"x", &im.X}, {"y", &im.Y}, {"width", &im.W}, {"height", &im.H}} {
		if *f.dst, err = a.length(f.name, 0); err != nil {
			return nil, err
		}
	}
	return im, nil
}

// ── Attributes ──

// attrMap is keyed by local name, so xlink:href and href are the same key.
type attrMap map[string]string

func attrs(se xml.StartElement) attrMap {
	m := make(attrMap, len(se.Attr))
	for _, a := range se.Attr {
		if _, dup := m[a.Name.Local]; dup && a.Name.Space != "" {
			continue
		}
		m[a.Name.Local] = a.Value
	}
	return m
}

func (a attrMap) number(name string, def float64) (float64, error) {
	s, ok := a[name]
	if !ok || strings.TrimSpace(s) == "" {
		return def, nil
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s=%q", ErrMalformed, name, s)
	}
	return v, nil
}

// length is number with an optional "px" unit.
func (a attrMap) length(name string, def float64) (float64, error) {
	if s, ok := a[name]; ok {
		a = attrMap{name: strings.TrimSuffix(strings.TrimSpace(s), "px")}
	}
	return a.number(name, def)
}

func (a attrMap) paints() (fill, stroke *color.RGBA, width float64, err error) {
	v, ok := a["fill"]
	if fill, err = parsePaint(v, ok, &black); err != nil {
		return nil, nil, 0, malformed(err)
	}
	v, ok = a["stroke"]
	if stroke, err = parsePaint(v, ok, nil); err != nil {
		return nil, nil, 0, malformed(err)
	}
	if width, err = a.length("stroke-width", 1); err != nil {
		return nil, nil, 0, err
	}
	return fill, stroke, width, nil
}

func parseWeight(s string) (int, error) {
	switch strings.TrimSpace(s) {
	case "", "normal", "lighter":
		return 400, nil
	case "bold", "bolder":
		return 700, nil
	}
	w, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || w < 1 || w > 1000 {
		return 0, fmt.Errorf("%w: font-weight=%q", ErrMalformed, s)
	}
	return w, nil
}

// urlRef extracts the id from "url(#id)".
func urlRef(s string) (string, error) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "url(#") || !strings.HasSuffix(s, ")") {
		return "", fmt.Errorf("%w: clip-path=%q", ErrMalformed, s)
	}
	return s[len("url(#") : len(s)-1], nil
}

// cssProperty finds the first declaration of prop in a stylesheet.
func cssProperty(css, prop string) (string, bool) {
	i := strings.Index(css, prop+":")
	if i < 0 {
		return "", false
	}
	v := css[i+len(prop)+1:]
	if end := strings.IndexAny(v, ";}"); end >= 0 {
		v = v[:end]
	}
	return strings.TrimSpace(v), true
}

func splitFamilies(s string) []string {
	var out []string
	for _, f := range strings.Split(s, ",") {
		f = strings.Trim(strings.TrimSpace(f), `'"`)
		if f != "" {
			out = append(out, f)
		}
	}
	return out
}

// collapse applies default xml:space handling.
func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
