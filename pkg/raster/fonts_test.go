package raster

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/adrg/sysfont"
	"github.com/rs/zerolog"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
)

func writeFont(t *testing.T, dir, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestEmbeddedFonts(t *testing.T) {
	fonts := EmbeddedFonts()
	regular, err := fonts.Face([]string{"Open Sans"}, 400, 48)
	if err != nil {
		t.Fatal(err)
	}
	defer regular.Close()
	bold, err := fonts.Face(nil, 700, 48)
	if err != nil {
		t.Fatal(err)
	}
	defer bold.Close()

	ra, _ := regular.GlyphAdvance('m')
	ba, _ := bold.GlyphAdvance('m')
	if ra == ba {
		t.Fatalf("regular and bold faces have the same advance %v", ra)
	}
}

func TestSystemFontsMatchAndCache(t *testing.T) {
	dir := t.TempDir()
	regular := writeFont(t, dir, "TestSans-Regular.ttf", goregular.TTF)
	bold := writeFont(t, dir, "TestSans-Bold.ttf", gobold.TTF)

	src := newSystemFonts([]*sysfont.Font{
		{Family: "Test Sans", Name: "Test Sans Regular", Filename: regular},
		{Family: "Test Sans", Name: "Test Sans Bold", Filename: bold},
		{Family: "Other", Name: "Other", Filename: filepath.Join(dir, "missing.ttf")},
	}, zerolog.Nop())

	for i := 0; i < 2; i++ {
		face, err := src.Face([]string{"test sans"}, 700, 20)
		if err != nil {
			t.Fatal(err)
		}
		face.Close()
	}
	if len(src.parsed) != 1 {
		t.Fatalf("parsed %d fonts, want 1 cached", len(src.parsed))
	}
	if _, ok := src.parsed[bold]; !ok {
		t.Fatalf("bold weight did not pick the bold file: %v", src.parsed)
	}

	// An unreadable match falls through to the embedded fonts.
	face, err := src.Face([]string{"Other", "sans-serif"}, 400, 20)
	if err != nil {
		t.Fatalf("fallback: %v", err)
	}
	face.Close()
}

func TestStyleScore(t *testing.T) {
	tests := []struct {
		better, worse string
		bold          bool
	}{
		{"Open Sans Bold", "Open Sans SemiBold", true},
		{"Open Sans Bold", "Open Sans Bold Italic", true},
		{"Open Sans Regular", "Open Sans Bold", false},
		{"Open Sans Regular", "Open Sans Light", false},
	}
	for _, tc := range tests {
		if styleScore(tc.better, tc.bold) <= styleScore(tc.worse, tc.bold) {
			t.Fatalf("bold=%v: %q should outrank %q", tc.bold, tc.better, tc.worse)
		}
	}
}
