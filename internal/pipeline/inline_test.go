package pipeline

// Notes:
// - Tests InlineImages through its public API only
// - Error branches in parseHTML/renderHTML are defensive and not covered:
//   the html package rarely fails on parseable input
// - Warning capture asserts the non-fatal failure policy: one bad image
//   never aborts the rest

import (
	"encoding/base64"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// writeTestImage creates a file in dir and returns its content.
func writeTestImage(t *testing.T, dir, name string, content []byte) []byte {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), content, 0o644); err != nil {
		t.Fatalf("writing %s: %v", name, err)
	}
	return content
}

// pngBytes is a tiny stand-in for raster data; the inliner never decodes
// pixels, so arbitrary bytes suffice.
var pngBytes = []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A, 0x00, 0x01, 0x02}

func TestInlineImagesRaster(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeTestImage(t, dir, "a.png", pngBytes)
	writeTestImage(t, dir, "b.jpg", []byte{0xFF, 0xD8, 0xFF})
	writeTestImage(t, dir, "c.webp", []byte("RIFFxxxxWEBP"))

	tests := []struct {
		name       string
		html       string
		wantPrefix string
	}{
		{
			name:       "png keeps extension as mime subtype",
			html:       `<img src="a.png">`,
			wantPrefix: `src="data:image/png;base64,`,
		},
		{
			name:       "jpg maps to jpeg",
			html:       `<img src="b.jpg">`,
			wantPrefix: `src="data:image/jpeg;base64,`,
		},
		{
			name:       "other extensions pass through verbatim",
			html:       `<img src="c.webp">`,
			wantPrefix: `src="data:image/webp;base64,`,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := InlineImages(tt.html, dir, nil)
			if err != nil {
				t.Fatalf("InlineImages: %v", err)
			}
			if !strings.Contains(got, tt.wantPrefix) {
				t.Errorf("got %q, want substring %q", got, tt.wantPrefix)
			}
		})
	}
}

func TestInlineImagesBase64RoundTrip(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	original := writeTestImage(t, dir, "a.png", pngBytes)

	got, err := InlineImages(`<img src="a.png">`, dir, nil)
	if err != nil {
		t.Fatalf("InlineImages: %v", err)
	}

	const prefix = `src="data:image/png;base64,`
	start := strings.Index(got, prefix)
	if start == -1 {
		t.Fatalf("no data URL in %q", got)
	}
	encoded := got[start+len(prefix):]
	encoded = encoded[:strings.Index(encoded, `"`)]

	decoded, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		t.Fatalf("decoding payload: %v", err)
	}
	if string(decoded) != string(original) {
		t.Errorf("decoded bytes differ from original file")
	}
}

func TestInlineImagesSVG(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	svgText := `<svg xmlns="http://www.w3.org/2000/svg"><rect width="1" height="1"/></svg>`
	writeTestImage(t, dir, "a.svg", []byte(svgText))

	got, err := InlineImages(`<img src="a.svg">`, dir, nil)
	if err != nil {
		t.Fatalf("InlineImages: %v", err)
	}

	// Text form, percent-encoded, never base64.
	if strings.Contains(got, "base64") {
		t.Errorf("SVG must not be base64-encoded: %q", got)
	}
	const prefix = `src="data:image/svg+xml;utf8,`
	start := strings.Index(got, prefix)
	if start == -1 {
		t.Fatalf("no SVG data URL in %q", got)
	}
	encoded := got[start+len(prefix):]
	encoded = encoded[:strings.Index(encoded, `"`)]

	// The renderer HTML-escapes the attribute; undo that before the
	// percent-decode round trip.
	decoded, err := url.PathUnescape(strings.ReplaceAll(encoded, "&amp;", "&"))
	if err != nil {
		t.Fatalf("percent-decoding payload: %v", err)
	}
	if decoded != svgText {
		t.Errorf("decoded SVG = %q, want %q", decoded, svgText)
	}
}

func TestInlineImagesSkipsNonLocal(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		html string
		want string
	}{
		{
			name: "https URL unchanged",
			html: `<img src="https://example.com/logo.png">`,
			want: `src="https://example.com/logo.png"`,
		},
		{
			name: "http URL unchanged",
			html: `<img src="http://example.com/logo.png">`,
			want: `src="http://example.com/logo.png"`,
		},
		{
			name: "data URL unchanged",
			html: `<img src="data:image/png;base64,AAAA">`,
			want: `src="data:image/png;base64,AAAA"`,
		},
		{
			name: "file URL unchanged",
			html: `<img src="file:///abs/logo.png">`,
			want: `src="file:///abs/logo.png"`,
		},
		{
			name: "protocol-relative unchanged",
			html: `<img src="//cdn.example.com/logo.png">`,
			want: `src="//cdn.example.com/logo.png"`,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := InlineImages(tt.html, t.TempDir(), nil)
			if err != nil {
				t.Fatalf("InlineImages: %v", err)
			}
			if !strings.Contains(got, tt.want) {
				t.Errorf("got %q, want substring %q", got, tt.want)
			}
		})
	}
}

func TestInlineImagesFailurePolicy(t *testing.T) {
	t.Parallel()

	t.Run("missing file warns and keeps original src", func(t *testing.T) {
		t.Parallel()
		var warnings []string
		warnf := func(format string, args ...any) {
			warnings = append(warnings, format)
		}

		got, err := InlineImages(`<img src="missing.png">`, t.TempDir(), warnf)
		if err != nil {
			t.Fatalf("InlineImages must not fail for one bad image: %v", err)
		}
		if !strings.Contains(got, `src="missing.png"`) {
			t.Errorf("original src not preserved: %q", got)
		}
		if len(warnings) != 1 {
			t.Errorf("got %d warnings, want 1", len(warnings))
		}
	})

	t.Run("svg without svg tag is rejected", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		writeTestImage(t, dir, "fake.svg", []byte("<html>not svg</html>"))

		var warned bool
		got, err := InlineImages(`<img src="fake.svg">`, dir, func(string, ...any) { warned = true })
		if err != nil {
			t.Fatalf("InlineImages: %v", err)
		}
		if !strings.Contains(got, `src="fake.svg"`) {
			t.Errorf("original src not preserved: %q", got)
		}
		if !warned {
			t.Error("expected a malformed-SVG warning")
		}
	})

	t.Run("one failure does not stop remaining images", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		writeTestImage(t, dir, "good.png", pngBytes)

		got, err := InlineImages(`<img src="missing.png"><img src="good.png">`, dir, func(string, ...any) {})
		if err != nil {
			t.Fatalf("InlineImages: %v", err)
		}
		if !strings.Contains(got, `src="missing.png"`) {
			t.Errorf("failed image src not preserved: %q", got)
		}
		if !strings.Contains(got, "data:image/png;base64,") {
			t.Errorf("good image not inlined: %q", got)
		}
	})
}

func TestInlineImagesFragmentHandling(t *testing.T) {
	t.Parallel()

	t.Run("fragment is not wrapped in html and body", func(t *testing.T) {
		t.Parallel()
		got, err := InlineImages(`<p>hello</p>`, t.TempDir(), nil)
		if err != nil {
			t.Fatalf("InlineImages: %v", err)
		}
		if strings.Contains(got, "<html>") || strings.Contains(got, "<body>") {
			t.Errorf("fragment was wrapped: %q", got)
		}
	})

	t.Run("minimally malformed html is tolerated", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		writeTestImage(t, dir, "a.png", pngBytes)

		got, err := InlineImages(`<p><img src="a.png"><p>unclosed`, dir, nil)
		if err != nil {
			t.Fatalf("InlineImages: %v", err)
		}
		if !strings.Contains(got, "data:image/png;base64,") {
			t.Errorf("image not inlined: %q", got)
		}
	})

	t.Run("absolute filesystem path is resolved as-is", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		writeTestImage(t, dir, "a.png", pngBytes)
		abs := filepath.Join(dir, "a.png")

		got, err := InlineImages(`<img src="`+abs+`">`, "/elsewhere", nil)
		if err != nil {
			t.Fatalf("InlineImages: %v", err)
		}
		if !strings.Contains(got, "data:image/png;base64,") {
			t.Errorf("absolute path not inlined: %q", got)
		}
	})
}
