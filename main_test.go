package main

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"jvirtualenv/internal/activate"
	"jvirtualenv/internal/config"
	"jvirtualenv/internal/executil"
	"jvirtualenv/internal/executil/executiltest"
	"jvirtualenv/internal/java"
	"jvirtualenv/internal/scanner"
	"jvirtualenv/internal/store"
)

func TestErrorMessage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want string
	}{
		{"conflict", fmt.Errorf("init: %w", &config.DirectoryConflictError{Path: "/etc/jvirtualenv.d"}), "directory /etc/jvirtualenv.d conflict"},
		{"no tag", fmt.Errorf("%w: 9", store.ErrTagNotFound), "No matched tag"},
		{"no java", java.ErrNoJavaFound, "No Java installation found"},
		{"interrupted", java.ErrScanInterrupted, "Search interrupted"},
		{"scan failed", fmt.Errorf("%w: locate: exit status 2", scanner.ErrScanFailed), "Searching for JDKs failed: "},
		{"project exists", activate.ErrProjectExists, "-f argument"},
		{"unknown", errors.New("permission denied"), "permission denied"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := errorMessage(tt.err); !strings.Contains(got, tt.want) {
				t.Errorf("errorMessage() = %q, want it to contain %q", got, tt.want)
			}
		})
	}
}

func TestActivationHintPOSIX(t *testing.T) {
	t.Parallel()

	cwd := filepath.Join(string(filepath.Separator), "work")
	script := filepath.Join(cwd, "demo", "bin", "activate")

	got := activationHint(activate.POSIX, cwd, []string{script})
	if len(got) != 2 {
		t.Fatalf("activationHint() = %q", got)
	}
	want := "run `source " + filepath.Join("demo", "bin", "activate") + "` to activate it"
	if got[1] != want {
		t.Errorf("hint = %q, want %q", got[1], want)
	}
}

func TestActivationHintWindows(t *testing.T) {
	t.Parallel()

	got := activationHint(activate.Windows, "", []string{`C:\work\demo\bin\activate.bat`, `C:\work\demo\bin\deactivate.bat`})
	want := []string{
		`create active file C:\work\demo\bin\activate.bat`,
		`run "C:\work\demo\bin\activate.bat" to activate it`,
		`run "C:\work\demo\bin\deactivate.bat" to deactivate it`,
	}
	if strings.Join(got, "\n") != strings.Join(want, "\n") {
		t.Errorf("activationHint() = %q, want %q", got, want)
	}
	if activationHint(activate.Windows, "", nil) != nil {
		t.Error("activationHint(no paths) != nil")
	}
}

func TestRenderTagList(t *testing.T) {
	t.Parallel()

	installs := []java.Installation{
		{Tag: "1:8:0:64", Version: java.Version{Major: 1, Minor: 8, Raw: "1.8.0_202"}, Bit: "64", Home: "/opt/jdk8"},
		{Tag: "11:0:2:64", Version: java.Version{Major: 11, Patch: 2, Raw: "11.0.2"}, Bit: "64", Home: "/opt/jdk11"},
	}
	out := renderTagList(installs, "11:0:2:64")
	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("rendered %d lines, want 2:\n%s", len(lines), out)
	}
	if !strings.HasPrefix(lines[0], "  ") || !strings.Contains(lines[0], "/opt/jdk8") {
		t.Errorf("first row = %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], "→ ") || !strings.Contains(lines[1], "11:0:2:64") {
		t.Errorf("active row = %q", lines[1])
	}
}

func TestRefreshLocateDB(t *testing.T) {
	logger = log.New(io.Discard)

	fake := executiltest.NewFake()
	if err := refreshLocateDB(fake, false); err == nil {
		t.Error("refreshLocateDB() without sudo on PATH returned nil")
	}
	if len(fake.Calls()) != 0 {
		t.Errorf("ran %q without sudo available", fake.Calls())
	}

	fake.Paths["sudo"] = "/usr/bin/sudo"
	fake.Results["sudo updatedb"] = &executil.Result{}
	if err := refreshLocateDB(fake, false); err != nil {
		t.Errorf("refreshLocateDB() error = %v", err)
	}

	fake.Paths["updatedb"] = "/usr/bin/updatedb"
	fake.Results["updatedb"] = &executil.Result{ExitCode: 1, Stderr: []string{"updatedb: can not open a temporary file"}}
	if err := refreshLocateDB(fake, true); err == nil || !strings.Contains(err.Error(), "exit status 1") {
		t.Errorf("refreshLocateDB(root) error = %v", err)
	}
}
