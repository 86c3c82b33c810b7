package pipeline

import (
	"encoding/base64"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// ErrMalformedSVG indicates an .svg file without an <svg> tag.
var ErrMalformedSVG = errors.New("file has .svg extension but no <svg> tag")

// WarnFunc receives non-fatal inlining warnings.
type WarnFunc func(format string, args ...any)

// InlineImages embeds local image references into the HTML fragment as
// data URLs. Every <img> whose src is neither an absolute HTTP(S) URL nor
// already a data URL is resolved against baseDir and rewritten.
//
// Failures are per-image and non-fatal: a warning goes to warnf, the
// original src is left in place, and inlining continues. The fragment is
// never written back to disk.
func InlineImages(htmlContent, baseDir string, warnf WarnFunc) (string, error) {
	if warnf == nil {
		warnf = func(string, ...any) {}
	}

	doc, isFragment, err := parseHTML(htmlContent)
	if err != nil {
		return "", err
	}

	inlineNode(doc, baseDir, warnf)

	return renderHTML(doc, isFragment)
}

// parseHTML parses HTML content, handling both full documents and fragments.
// Returns the parsed node, whether it was a fragment, and any error.
func parseHTML(content string) (*html.Node, bool, error) {
	trimmed := strings.ToLower(strings.TrimSpace(content))

	// Full document: starts with <!DOCTYPE or <html
	if strings.HasPrefix(trimmed, "<!doctype") || strings.HasPrefix(trimmed, "<html") {
		doc, err := html.Parse(strings.NewReader(content))
		return doc, false, err
	}

	// Fragment: parse with body context to avoid wrapping
	context := &html.Node{
		Type:     html.ElementNode,
		DataAtom: atom.Body,
		Data:     "body",
	}
	nodes, err := html.ParseFragment(strings.NewReader(content), context)
	if err != nil {
		return nil, true, err
	}

	// Wrap nodes in a container for uniform traversal
	container := &html.Node{Type: html.DocumentNode}
	for _, n := range nodes {
		container.AppendChild(n)
	}

	return container, true, nil
}

// renderHTML renders the document back to string.
// For fragments, only renders the children (avoids adding <html><body> wrapper).
func renderHTML(doc *html.Node, isFragment bool) (string, error) {
	var buf strings.Builder

	if isFragment {
		for c := doc.FirstChild; c != nil; c = c.NextSibling {
			if err := html.Render(&buf, c); err != nil {
				return "", err
			}
		}
		return buf.String(), nil
	}

	if err := html.Render(&buf, doc); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// inlineNode traverses the DOM and rewrites img src attributes.
func inlineNode(n *html.Node, baseDir string, warnf WarnFunc) {
	if n.Type == html.ElementNode && n.Data == "img" {
		for i, attr := range n.Attr {
			if attr.Key != "src" || !isLocalRef(attr.Val) {
				continue
			}
			dataURL, err := fileToDataURL(attr.Val, baseDir)
			if err != nil {
				warnf("inlining %s: %v", attr.Val, err)
				continue // original src stays in place
			}
			n.Attr[i].Val = dataURL
		}
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		inlineNode(c, baseDir, warnf)
	}
}

// isLocalRef returns true if the src should be inlined.
func isLocalRef(src string) bool {
	if src == "" {
		return false
	}

	// Skip remote URLs, existing data URLs, file URLs, protocol-relative
	if strings.HasPrefix(src, "http://") ||
		strings.HasPrefix(src, "https://") ||
		strings.HasPrefix(src, "file://") ||
		strings.HasPrefix(src, "data:") ||
		strings.HasPrefix(src, "//") {
		return false
	}

	return true
}

// fileToDataURL reads a local image and encodes it as a data URL.
// SVG files are kept as percent-encoded text; everything else is base64.
func fileToDataURL(src, baseDir string) (string, error) {
	path := src
	if !filepath.IsAbs(path) {
		path = filepath.Join(baseDir, src)
	}

	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	if ext == "svg" {
		return svgToDataURL(path)
	}

	data, err := os.ReadFile(path) // #nosec G304 -- path comes from the user's own document
	if err != nil {
		return "", err
	}

	return "data:image/" + mimeSubtype(ext) + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}

// svgToDataURL reads an SVG as text and percent-encodes it. SVGs are not
// base64-encoded: the text form stays readable in the assembled HTML and
// avoids the encoding size overhead.
func svgToDataURL(path string) (string, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- path comes from the user's own document
	if err != nil {
		return "", err
	}

	if !strings.Contains(strings.ToLower(string(data)), "<svg") {
		return "", fmt.Errorf("%w: %s", ErrMalformedSVG, filepath.Base(path))
	}

	return "data:image/svg+xml;utf8," + url.PathEscape(string(data)), nil
}

// mimeSubtype maps a file extension to a MIME subtype. Only jpg needs
// translation; every other extension is used verbatim.
func mimeSubtype(ext string) string {
	if ext == "jpg" {
		return "jpeg"
	}
	return ext
}
