package assets

import (
	"errors"
	"strings"
	"testing"
)

func TestLoadStyle(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		want string // a selector the stylesheet must contain
	}{
		{"github", ".markdown-body"},
		{"print", "@media print"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			css, err := LoadStyle(tt.name)
			if err != nil {
				t.Fatalf("LoadStyle(%q) error = %v", tt.name, err)
			}
			if !strings.Contains(css, tt.want) {
				t.Errorf("style %q missing %q", tt.name, tt.want)
			}
		})
	}
}

func TestLoadStyleNotFound(t *testing.T) {
	t.Parallel()

	_, err := LoadStyle("nonexistent")
	if !errors.Is(err, ErrStyleNotFound) {
		t.Errorf("LoadStyle() error = %v, want ErrStyleNotFound", err)
	}
}

// The base theme must not set font sizes; those are computed from the
// configured base size and must win.
func TestGithubStyleSetsNoFontSize(t *testing.T) {
	t.Parallel()

	css, err := LoadStyle("github")
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(css, "font-size") {
		t.Error("github.css sets font-size; sizes belong to the computed overrides")
	}
}

func TestPrintStyleBreakRules(t *testing.T) {
	t.Parallel()

	css, err := LoadStyle("print")
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{
		"break-before: page",
		"break-after: avoid",
		"break-inside: avoid",
		":first-child",
	} {
		if !strings.Contains(css, want) {
			t.Errorf("print.css missing %q", want)
		}
	}
}
