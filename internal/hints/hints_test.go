package hints

import (
	"strings"
	"testing"
)

func TestForBrowserConnectInCI(t *testing.T) {
	t.Setenv("CI", "true")
	t.Setenv("ROD_NO_SANDBOX", "")
	t.Setenv("ROD_BROWSER_BIN", "")

	hint := ForBrowserConnect()
	if !strings.Contains(hint, "ROD_NO_SANDBOX") {
		t.Errorf("hint %q missing ROD_NO_SANDBOX suggestion", hint)
	}
	if !strings.Contains(hint, "ROD_BROWSER_BIN") {
		t.Errorf("hint %q missing ROD_BROWSER_BIN suggestion", hint)
	}
	if !strings.HasPrefix(hint, "\n  hint: ") {
		t.Errorf("hint %q not in the standard format", hint)
	}
}

func TestForBrowserConnectSandboxAlreadyDisabled(t *testing.T) {
	t.Setenv("CI", "true")
	t.Setenv("ROD_NO_SANDBOX", "1")
	t.Setenv("ROD_BROWSER_BIN", "")

	hint := ForBrowserConnect()
	if strings.Contains(hint, "ROD_NO_SANDBOX") {
		t.Errorf("hint %q repeats ROD_NO_SANDBOX although it is set", hint)
	}
}

func TestForBrowserConnectOutsideCI(t *testing.T) {
	t.Setenv("CI", "")
	t.Setenv("GITHUB_ACTIONS", "")
	t.Setenv("GITLAB_CI", "")
	t.Setenv("JENKINS_URL", "")
	t.Setenv("ROD_NO_SANDBOX", "")
	t.Setenv("ROD_BROWSER_BIN", "/usr/bin/chromium")

	orig := IsInContainer
	IsInContainer = func() bool { return false }
	defer func() { IsInContainer = orig }()

	if hint := ForBrowserConnect(); hint != "" {
		t.Errorf("hint = %q, want empty outside CI with browser configured", hint)
	}
}

func TestForBrowserConnectInContainer(t *testing.T) {
	t.Setenv("CI", "")
	t.Setenv("GITHUB_ACTIONS", "")
	t.Setenv("GITLAB_CI", "")
	t.Setenv("JENKINS_URL", "")
	t.Setenv("ROD_NO_SANDBOX", "")

	orig := IsInContainer
	IsInContainer = func() bool { return true }
	defer func() { IsInContainer = orig }()

	if hint := ForBrowserConnect(); !strings.Contains(hint, "ROD_NO_SANDBOX") {
		t.Errorf("hint %q missing sandbox suggestion inside container", hint)
	}
}

func TestForTimeout(t *testing.T) {
	t.Parallel()

	hint := ForTimeout()
	if !strings.Contains(hint, "--timeout") {
		t.Errorf("hint %q missing --timeout", hint)
	}
	if !strings.HasPrefix(hint, "\n  hint: ") {
		t.Errorf("hint %q not in the standard format", hint)
	}
}
