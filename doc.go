// Package mdpage converts Markdown documents to paginated A4 PDFs using
// headless Chrome.
//
// # Quick Start
//
// Create a converter, convert markdown, and close when done:
//
//	conv := mdpage.New()
//	defer conv.Close()
//
//	result, err := conv.Convert(ctx, mdpage.Input{
//	    Markdown: "# Hello\n\nWorld",
//	    Settings: mdpage.DefaultSettings(),
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	os.WriteFile("output.pdf", result.PDF, 0644)
//
// The result contains both the PDF bytes (result.PDF) and the assembled
// HTML (result.HTML) for debugging. ConvertFile handles the file-to-file
// case, deriving the output path and writing it atomically.
//
// # Conversion Pipeline
//
//  1. Markdown normalization (line endings, blank-line compression)
//  2. Markdown to HTML via Goldmark (GFM, footnotes, syntax highlighting)
//  3. Local image inlining as data URLs (SVG as percent-encoded text,
//     everything else as base64)
//  4. Document assembly: GitHub-style CSS, highlight CSS, print CSS, and
//     computed font-size overrides in one style block
//  5. PDF rendering via headless Chrome (go-rod): A4 viewport, print
//     media, full resource settlement, page-number footer
//
// # Settings
//
// Input.Settings carries scale (a CSS transform on the body), base font
// size in pixels (headings and code scale from it by fixed ratios), and
// per-side page margins in millimeters.
//
// # Browser Requirements
//
// PDF generation requires Chrome/Chromium. The go-rod library downloads a
// managed Chromium on first run. For containers and CI, set
// ROD_NO_SANDBOX=1 to disable the Chrome sandbox and ROD_BROWSER_BIN to
// use a pre-installed binary.
package mdpage
