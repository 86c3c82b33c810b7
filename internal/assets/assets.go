// Package assets provides the embedded stylesheets used by the document
// assembler.
package assets

import (
	"embed"
	"errors"
	"fmt"
)

//go:embed styles/*
var stylesFS embed.FS

// ErrStyleNotFound indicates the named stylesheet is not embedded.
var ErrStyleNotFound = errors.New("style not found")

// LoadStyle loads an embedded CSS style by name (without the .css
// extension).
func LoadStyle(name string) (string, error) {
	content, err := stylesFS.ReadFile("styles/" + name + ".css")
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrStyleNotFound, name)
	}
	return string(content), nil
}
