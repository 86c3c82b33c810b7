package pipeline

import (
	"bytes"
	"fmt"
	"math"
	"strconv"
	"strings"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/styles"

	"github.com/mdpage/mdpage/internal/assets"
)

// Heading and code font-size multipliers relative to the base font size,
// expressed in hundredths so the pixel values come out as exact decimals
// (2.00, 1.50, 1.25, 1.10, 1.00, 0.90). These are tuned visual-hierarchy
// ratios; changing any of them changes the rendered output.
const (
	h1Percent   = 200
	h2Percent   = 150
	h3Percent   = 125
	h4Percent   = 110
	h5Percent   = 100
	h6Percent   = 90
	codePercent = 90 // floored to a whole pixel
)

// highlightStyle is the chroma style used for code blocks.
const highlightStyle = "github"

// documentSkeleton is the fixed frame around the fragment. The single
// style block carries every stylesheet; nothing in the document requires
// a network fetch.
const documentSkeleton = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<style>
%s
</style>
</head>
<body>
<article class="markdown-body">
%s
</article>
</body>
</html>`

// AssembleDocument wraps an HTML fragment into one self-contained document.
//
// Stylesheet order is a contract: base theme first, highlight CSS second,
// print CSS third, optional extra CSS, computed size overrides last. Later
// sources must win specificity ties, so this order is preserved exactly.
func AssembleDocument(fragment string, fontSizePx int, extraCSS string) (string, error) {
	baseCSS, err := assets.LoadStyle("github")
	if err != nil {
		return "", err
	}
	printCSS, err := assets.LoadStyle("print")
	if err != nil {
		return "", err
	}
	highlightCSS, err := buildHighlightCSS()
	if err != nil {
		return "", err
	}

	sources := []string{baseCSS, highlightCSS, printCSS}
	if extraCSS != "" {
		sources = append(sources, extraCSS)
	}
	sources = append(sources, buildFontSizeCSS(fontSizePx))

	css := sanitizeCSS(strings.Join(sources, "\n"))
	return fmt.Sprintf(documentSkeleton, css, fragment), nil
}

// buildHighlightCSS generates the stylesheet matching the class-based
// chroma output produced by the goldmark highlighting extension.
func buildHighlightCSS() (string, error) {
	formatter := chromahtml.New(chromahtml.WithClasses(true))

	var buf bytes.Buffer
	if err := formatter.WriteCSS(&buf, styles.Get(highlightStyle)); err != nil {
		return "", fmt.Errorf("generating highlight CSS: %w", err)
	}
	return buf.String(), nil
}

// buildFontSizeCSS computes the per-element size overrides from the base
// font size.
func buildFontSizeCSS(fontSizePx int) string {
	codePx := int(math.Floor(float64(fontSizePx*codePercent) / 100))

	var buf strings.Builder
	buf.WriteString(".markdown-body { font-size: ")
	buf.WriteString(strconv.Itoa(fontSizePx))
	buf.WriteString("px; }\n")

	headings := []struct {
		selector string
		percent  int
	}{
		{"h1", h1Percent},
		{"h2", h2Percent},
		{"h3", h3Percent},
		{"h4", h4Percent},
		{"h5", h5Percent},
		{"h6", h6Percent},
	}
	for _, h := range headings {
		fmt.Fprintf(&buf, ".markdown-body %s { font-size: %spx; }\n",
			h.selector, formatPx(fontSizePx, h.percent))
	}

	fmt.Fprintf(&buf, ".markdown-body code, .markdown-body pre code { font-size: %dpx; }\n", codePx)
	return buf.String()
}

// formatPx renders base*percent/100 pixels without trailing zeros (24, 17.6).
// The numerator is formed in integers so the printed value is the exact
// decimal rather than a binary-float artifact.
func formatPx(base, percent int) string {
	return strconv.FormatFloat(float64(base*percent)/100, 'f', -1, 64)
}

// sanitizeCSS escapes sequences that could break out of a <style> block.
func sanitizeCSS(css string) string {
	return strings.ReplaceAll(css, "</", `<\/`)
}
