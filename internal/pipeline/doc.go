// Package pipeline implements the Markdown-to-HTML stages of a conversion.
//
// This package handles everything up to the assembled document:
//   - Markdown preprocessing (line-ending normalization, blank-line limits)
//   - Markdown to HTML fragment conversion via Goldmark
//   - Local image and SVG inlining as data URLs
//   - Document assembly (stylesheets, computed font sizes, HTML skeleton)
//
// PDF generation is handled separately by the root mdpage package using
// headless Chrome (go-rod). This separation keeps the pipeline focused on
// document structure and content, while PDF rendering handles page layout,
// margins, and browser-based rendering concerns.
package pipeline
