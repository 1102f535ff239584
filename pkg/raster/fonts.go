// fonts.go - Font sources for text rendering. System fonts are discovered in the
// host font directories; the embedded Go fonts are the fallback and the
// deterministic choice for tests.
package raster

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/adrg/sysfont"
	"github.com/rs/zerolog"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

// FontSource resolves a face for a text element. families is the CSS
// font-family list in priority order, weight a CSS numeric weight and size the
// font size in pixels. Returned faces are not shared between calls.
type FontSource interface {
	Face(families []string, weight int, size float64) (font.Face, error)
}

// newFace creates a face at size pixels (72 DPI makes points equal pixels).
func newFace(f *opentype.Font, size float64) (font.Face, error) {
	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create font face: %w", err)
	}
	return face, nil
}

func isBold(weight int) bool { return weight >= 600 }

// ── Embedded ──

type embeddedFonts struct{}

var parseEmbedded = sync.OnceValues(func() ([2]*opentype.Font, error) {
	regular, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return [2]*opentype.Font{}, fmt.Errorf("failed to parse Go Regular: %w", err)
	}
	bold, err := opentype.Parse(gobold.TTF)
	if err != nil {
		return [2]*opentype.Font{}, fmt.Errorf("failed to parse Go Bold: %w", err)
	}
	return [2]*opentype.Font{regular, bold}, nil
})

// EmbeddedFonts returns a FontSource that ignores family names and always uses
// Go Regular or Go Bold.
func EmbeddedFonts() FontSource { return embeddedFonts{} }

func (embeddedFonts) Face(_ []string, weight int, size float64) (font.Face, error) {
	fonts, err := parseEmbedded()
	if err != nil {
		return nil, err
	}
	if isBold(weight) {
		return newFace(fonts[1], size)
	}
	return newFace(fonts[0], size)
}

// ── System ──

// genericFamilies are served by the fallback.
var genericFamilies = map[string]bool{
	"serif":      true,
	"sans-serif": true,
	"monospace":  true,
	"system-ui":  true,
	"cursive":    true,
	"fantasy":    true,
}

// SystemFontSource matches families against fonts installed on the host.
type SystemFontSource struct {
	fonts    []*sysfont.Font
	fallback FontSource
	log      zerolog.Logger

	mu     sync.Mutex
	parsed map[string]*opentype.Font // by filename
}

// SystemFonts scans the platform font directories for TrueType and OpenType
// files. Families that are not installed fall back to the embedded fonts.
func SystemFonts(logger zerolog.Logger) *SystemFontSource {
	finder := sysfont.NewFinder(&sysfont.FinderOpts{
		Extensions: []string{".ttf", ".otf"},
	})
	fonts := finder.List()
	logger.Debug().Int("fonts", len(fonts)).Msg("system fonts discovered")
	return newSystemFonts(fonts, logger)
}

func newSystemFonts(fonts []*sysfont.Font, logger zerolog.Logger) *SystemFontSource {
	return &SystemFontSource{
		fonts:    fonts,
		fallback: EmbeddedFonts(),
		log:      logger,
		parsed:   make(map[string]*opentype.Font),
	}
}

// Face returns the first family that is installed and parses, else the fallback.
func (s *SystemFontSource) Face(families []string, weight int, size float64) (font.Face, error) {
	for _, family := range families {
		if genericFamilies[strings.ToLower(family)] {
			break
		}
		match := s.match(family, isBold(weight))
		if match == nil {
			continue
		}
		f, err := s.load(match.Filename)
		if err != nil {
			s.log.Warn().Err(err).Str("file", match.Filename).Msg("skipping unreadable font")
			continue
		}
		return newFace(f, size)
	}
	return s.fallback.Face(families, weight, size)
}

// match picks the installed font of family whose style name best fits bold.
func (s *SystemFontSource) match(family string, bold bool) *sysfont.Font {
	var (
		best      *sysfont.Font
		bestScore int
	)
	for _, f := range s.fonts {
		if !strings.EqualFold(f.Family, family) {
			continue
		}
		if score := styleScore(f.Name, bold); best == nil || score > bestScore {
			best, bestScore = f, score
		}
	}
	return best
}

var offStyles = []string{"light", "thin", "medium", "semibold", "extrabold", "condensed", "narrow"}

func styleScore(name string, bold bool) int {
	n := strings.ToLower(name)
	score := 0
	if strings.Contains(n, "italic") || strings.Contains(n, "oblique") {
		score -= 4
	}
	heavy := strings.Contains(n, "bold") || strings.Contains(n, "black") || strings.Contains(n, "heavy")
	if heavy == bold {
		score += 2
	}
	for _, st := range offStyles {
		if strings.Contains(n, st) {
			score--
		}
	}
	return score
}

func (s *SystemFontSource) load(filename string) (*opentype.Font, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if f, ok := s.parsed[filename]; ok {
		return f, nil
	}
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("read font: %w", err)
	}
	f, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse font: %w", err)
	}
	s.parsed[filename] = f
	return f, nil
}
