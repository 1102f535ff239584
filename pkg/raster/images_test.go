package raster

import (
	"errors"
	"testing"
)

func TestFitSize(t *testing.T) {
	tests := []struct {
		srcW, srcH, boxW, boxH int
		wantW, wantH           int
	}{
		{10, 10, 100, 100, 100, 100},
		{400, 200, 100, 100, 100, 50},
		{200, 400, 100, 100, 50, 100},
		{1000, 1, 100, 100, 100, 1},
		{0, 0, 100, 100, 100, 100},
	}
	for _, tc := range tests {
		w, h := fitSize(tc.srcW, tc.srcH, tc.boxW, tc.boxH)
		if w != tc.wantW || h != tc.wantH {
			t.Fatalf("fitSize(%d, %d, %d, %d) = %d, %d, want %d, %d",
				tc.srcW, tc.srcH, tc.boxW, tc.boxH, w, h, tc.wantW, tc.wantH)
		}
	}
}

func TestParseDataURI(t *testing.T) {
	tests := []struct {
		href     string
		wantType string
		wantData string
	}{
		{"data:image/png;base64,aGVsbG8=", "image/png", "hello"},
		{"data:image/svg+xml;charset=utf-8,%3Csvg%2F%3E", "image/svg+xml", "<svg/>"},
		{"data:;base64,aGVs\nbG8=", "", "hello"},
	}
	for _, tc := range tests {
		typ, data, err := parseDataURI(tc.href)
		if err != nil {
			t.Fatalf("parseDataURI(%q): %v", tc.href, err)
		}
		if typ != tc.wantType || string(data) != tc.wantData {
			t.Fatalf("parseDataURI(%q) = %q, %q", tc.href, typ, data)
		}
	}

	if _, _, err := parseDataURI("https://example.com/a.png"); !errors.Is(err, ErrNotDataURI) {
		t.Fatalf("expected ErrNotDataURI, got %v", err)
	}
	if _, _, err := parseDataURI("data:image/png;base64"); err == nil {
		t.Fatalf("expected error for missing payload")
	}
	if _, _, err := parseDataURI("data:image/png;base64,!!!"); err == nil {
		t.Fatalf("expected error for bad base64")
	}
}
