// theme.go — Closed set of card themes and their colour palettes.
package card

import (
	"errors"
	"fmt"
	"strings"
)

// Theme selects the colour palette of a card.
type Theme int

const (
	ThemeDefault Theme = iota
	ThemeNightOwl
	ThemeGithub
	ThemeMatrix
	ThemeDracula
	ThemeTinacious
	ThemeShadesOfPurple

	numThemes
)

// ErrUnknownTheme is returned by ParseTheme for names outside the enumeration.
var ErrUnknownTheme = errors.New("unknown theme")

// Palette holds the four "#rrggbb" colours of a theme.
type Palette struct {
	Background string `json:"background"`
	Title      string `json:"title"`
	Author     string `json:"author"`
	URL        string `json:"url"`
}

var themeNames = [...]string{
	ThemeDefault:        "default",
	ThemeNightOwl:       "night-owl",
	ThemeGithub:         "github",
	ThemeMatrix:         "matrix",
	ThemeDracula:        "dracula",
	ThemeTinacious:      "tinacious",
	ThemeShadesOfPurple: "shades-of-purple",
}

var themeLabels = [...]string{
	ThemeDefault:        "Default",
	ThemeNightOwl:       "Night Owl",
	ThemeGithub:         "GitHub",
	ThemeMatrix:         "Matrix",
	ThemeDracula:        "Dracula",
	ThemeTinacious:      "Tinacious",
	ThemeShadesOfPurple: "Shades of Purple",
}

// Colours follow https://github.com/sagarhani/og-image-generator/blob/main/utils/themes.ts
var palettes = [...]Palette{
	ThemeDefault:        {Background: "#000000", Title: "#ffffff", Author: "#ffffff", URL: "#ffffff"},
	ThemeNightOwl:       {Background: "#011627", Title: "#c792ea", Author: "#f07178", URL: "#82aaff"},
	ThemeGithub:         {Background: "#f0f0f0", Title: "#2f363c", Author: "#005cc5", URL: "#d73a49"},
	ThemeMatrix:         {Background: "#003300", Title: "#00ff00", Author: "#ccffcc", URL: "#ff6666"},
	ThemeDracula:        {Background: "#191a21", Title: "#bd93f9", Author: "#ff79c6", URL: "#f8f8f2"},
	ThemeTinacious:      {Background: "#ececec", Title: "#ff3399", Author: "#00aee8", URL: "#44425e"},
	ThemeShadesOfPurple: {Background: "#2d2b55", Title: "#b362ff", Author: "#ff9d00", URL: "#9effff"},
}

// Every table must have exactly one entry per theme; a mismatch does not compile.
var (
	_ = [1]struct{}{}[len(palettes)-int(numThemes)]
	_ = [1]struct{}{}[len(themeNames)-int(numThemes)]
	_ = [1]struct{}{}[len(themeLabels)-int(numThemes)]
)

// Themes returns every theme in declaration order.
func Themes() []Theme {
	out := make([]Theme, 0, numThemes)
	for t := ThemeDefault; t < numThemes; t++ {
		out = append(out, t)
	}
	return out
}

// Valid reports whether t is a member of the enumeration.
func (t Theme) Valid() bool {
	return t >= ThemeDefault && t < numThemes
}

// Palette returns the colours of t. Values outside the enumeration get the
// default palette.
func (t Theme) Palette() Palette {
	if !t.Valid() {
		return palettes[ThemeDefault]
	}
	return palettes[t]
}

// String returns the canonical kebab-case name used in query strings.
func (t Theme) String() string {
	if !t.Valid() {
		return fmt.Sprintf("Theme(%d)", int(t))
	}
	return themeNames[t]
}

// Label returns a human readable name for selection lists.
func (t Theme) Label() string {
	if !t.Valid() {
		return t.String()
	}
	return themeLabels[t]
}

// ParseTheme resolves a theme name. Matching ignores case and treats "_" like
// "-", so both "night-owl" and "night_owl" work. An empty name is the default theme.
func ParseTheme(name string) (Theme, error) {
	key := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), "_", "-")
	if key == "" {
		return ThemeDefault, nil
	}
	for t, n := range themeNames {
		if n == key {
			return Theme(t), nil
		}
	}
	return ThemeDefault, fmt.Errorf("%w: %s", ErrUnknownTheme, name)
}

func (t Theme) MarshalText() ([]byte, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownTheme, int(t))
	}
	return []byte(themeNames[t]), nil
}

func (t *Theme) UnmarshalText(text []byte) error {
	parsed, err := ParseTheme(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}
