package card

import (
	"strings"
	"testing"
)

func TestWrap(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		width    int
		maxLines int
		want     []string
	}{
		{
			name:     "fits on one line",
			text:     "Hello World",
			width:    24,
			maxLines: 3,
			want:     []string{"Hello World"},
		},
		{
			name:     "empty input",
			text:     "",
			width:    24,
			maxLines: 3,
			want:     []string{""},
		},
		{
			name:     "default title",
			text:     DefaultTitle,
			width:    24,
			maxLines: 3,
			want:     []string{"Dynamic Open Graph Image", "Generator"},
		},
		{
			name:     "long word is not broken",
			text:     "a supercalifragilisticexpialidocious b",
			width:    10,
			maxLines: 0,
			want:     []string{"a", "supercalifragilisticexpialidocious", "b"},
		},
		{
			name:     "whitespace collapses",
			text:     "  one \t two   three ",
			width:    24,
			maxLines: 3,
			want:     []string{"one two three"},
		},
		{
			name:     "hard breaks",
			text:     "one\n\ntwo",
			width:    24,
			maxLines: 0,
			want:     []string{"one", "", "two"},
		},
		{
			name:     "truncated with ellipsis",
			text:     "aaa bbb ccc ddd eee",
			width:    3,
			maxLines: 3,
			want:     []string{"aaa", "bbb", "ccc…"},
		},
		{
			name:     "no-break spaces stay inside a word",
			text:     "go 10\u00a0km now",
			width:    6,
			maxLines: 0,
			want:     []string{"go", "10\u00a0km", "now"},
		},
		{
			name:     "narrow no-break space is kept",
			text:     "50\u202f% off",
			width:    24,
			maxLines: 3,
			want:     []string{"50\u202f% off"},
		},
		{
			name:     "wide runes count double",
			text:     "日本語 日本語",
			width:    8,
			maxLines: 3,
			want:     []string{"日本語", "日本語"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Wrap(tc.text, tc.width, tc.maxLines)
			if strings.Join(got, "|") != strings.Join(tc.want, "|") || len(got) != len(tc.want) {
				t.Fatalf("Wrap(%q, %d, %d) = %q, want %q", tc.text, tc.width, tc.maxLines, got, tc.want)
			}
		})
	}
}

func TestWrapWidthBound(t *testing.T) {
	text := "The quick brown fox jumps over the lazy dog while the five boxing wizards jump quickly"
	for width := 1; width <= 100; width++ {
		lines := Wrap(text, width, 3)
		if len(lines) > 3 {
			t.Fatalf("width %d: got %d lines", width, len(lines))
		}
		for i, line := range lines {
			line = strings.TrimSuffix(line, Ellipsis)
			if DisplayWidth(line) <= width {
				continue
			}
			// Only a single overlong word may exceed the budget.
			if strings.Contains(line, " ") {
				t.Fatalf("width %d: line %d %q exceeds budget", width, i, line)
			}
		}
	}
}

func TestWrapTruncationDropsOverflow(t *testing.T) {
	text := "alpha bravo charlie delta echo foxtrot golf hotel india juliett kilo lima mike november oscar papa"
	full := Wrap(text, 24, 0)
	if len(full) <= 3 {
		t.Fatalf("test text should need more than 3 lines, got %d", len(full))
	}

	got := Wrap(text, 24, 3)
	if len(got) != 3 {
		t.Fatalf("got %d lines, want 3", len(got))
	}
	if !strings.HasSuffix(got[2], Ellipsis) {
		t.Fatalf("last line %q does not end with ellipsis", got[2])
	}
	if strings.TrimSuffix(got[2], Ellipsis) != full[2] {
		t.Fatalf("last line %q, want %q plus ellipsis", got[2], full[2])
	}
	joined := strings.Join(got, " ")
	for _, line := range full[3:] {
		if strings.Contains(joined, line) {
			t.Fatalf("overflow line %q leaked into result %q", line, got)
		}
	}
}

func TestWrapMultibyteEllipsis(t *testing.T) {
	got := Wrap("ёж ёж ёж ёж", 2, 2)
	if len(got) != 2 || got[1] != "ёж…" {
		t.Fatalf("got %q", got)
	}
}

func TestWrapPanicsOnZeroWidth(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic for zero width")
		}
	}()
	Wrap("text", 0, 3)
}
