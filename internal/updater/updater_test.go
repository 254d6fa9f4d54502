package updater

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/creativeprojects/go-selfupdate"

	"jvirtualenv/internal/config"
)

type stubSource struct {
	release *selfupdate.Release
	found   bool
	err     error
	slug    string
}

func (s *stubSource) DetectLatest(_ context.Context, repo selfupdate.Repository) (*selfupdate.Release, bool, error) {
	owner, name, _ := repo.GetSlug()
	s.slug = owner + "/" + name
	return s.release, s.found, s.err
}

func newTestSettings(t *testing.T) *config.Settings {
	t.Helper()
	s, err := config.LoadSettings(filepath.Join(t.TempDir(), "settings.json"))
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func quietLogger() *log.Logger {
	return log.New(io.Discard)
}

func TestShouldCheckForUpdate(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		name      string
		enabled   bool
		autoCheck bool
		lastCheck time.Time
		want      bool
	}{
		{"never checked", true, true, time.Time{}, true},
		{"checked recently", true, true, now.Add(-time.Hour), false},
		{"checked a day ago", true, true, now.Add(-CheckInterval), true},
		{"disabled", false, true, time.Time{}, false},
		{"auto check off", true, false, time.Time{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			s := newTestSettings(t)
			s.UpdateConfig.Enabled = tt.enabled
			s.UpdateConfig.AutoCheck = tt.autoCheck
			s.UpdateConfig.LastCheck = tt.lastCheck

			u := newUpdater(s, "v0.2.0", &stubSource{}, quietLogger())
			u.now = func() time.Time { return now }
			if got := u.ShouldCheckForUpdate(); got != tt.want {
				t.Errorf("ShouldCheckForUpdate() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsNewer(t *testing.T) {
	t.Parallel()

	tests := []struct {
		current, latest, skipped string
		want                     bool
	}{
		{"0.2.0", "0.3.0", "", true},
		{"0.3.0", "0.3.0", "", false},
		{"0.4.0", "0.3.0", "", false},
		{"0.2.0", "0.3.0", "0.3.0", false},
		{"dev", "0.3.0", "", true},
		{"0.2.0", "garbage", "", false},
	}
	for _, tt := range tests {
		if got := isNewer(tt.current, tt.latest, tt.skipped); got != tt.want {
			t.Errorf("isNewer(%q, %q, %q) = %v, want %v", tt.current, tt.latest, tt.skipped, got, tt.want)
		}
	}
}

func TestCheckForUpdateErrors(t *testing.T) {
	t.Parallel()

	s := newTestSettings(t)
	boom := errors.New("rate limited")
	u := newUpdater(s, "0.2.0", &stubSource{err: boom}, quietLogger())
	if _, err := u.CheckForUpdate(context.Background()); !errors.Is(err, boom) {
		t.Errorf("CheckForUpdate() error = %v, want %v", err, boom)
	}

	src := &stubSource{found: false}
	u = newUpdater(s, "0.2.0", src, quietLogger())
	if _, err := u.CheckForUpdate(context.Background()); err == nil {
		t.Error("CheckForUpdate() with no releases returned nil error")
	}
	if src.slug != GitHubRepo {
		t.Errorf("queried %q, want %q", src.slug, GitHubRepo)
	}
}

func TestSkipVersionPersists(t *testing.T) {
	t.Parallel()

	s := newTestSettings(t)
	u := newUpdater(s, "0.2.0", &stubSource{}, quietLogger())
	if err := u.SkipVersion("0.3.0"); err != nil {
		t.Fatalf("SkipVersion() error = %v", err)
	}

	reloaded, err := config.LoadSettings(s.Path())
	if err != nil {
		t.Fatal(err)
	}
	if reloaded.UpdateConfig.SkipVersion != "0.3.0" {
		t.Errorf("SkipVersion = %q", reloaded.UpdateConfig.SkipVersion)
	}
}

func TestTruncateChangelog(t *testing.T) {
	t.Parallel()

	if got := truncateChangelog("  ", 10); !strings.Contains(got, "release notes") {
		t.Errorf("empty changelog = %q", got)
	}
	if got := truncateChangelog("short", 10); got != "short" {
		t.Errorf("short changelog = %q", got)
	}
	long := "first line here\nsecond line that runs long"
	got := truncateChangelog(long, 24)
	if got != "first line here..." {
		t.Errorf("truncateChangelog() = %q", got)
	}
}

func TestCleanVersion(t *testing.T) {
	t.Parallel()

	if got := cleanVersion("v1.2.3"); got != "1.2.3" {
		t.Errorf("cleanVersion(v1.2.3) = %q", got)
	}
	if got := newUpdater(newTestSettings(t), "v0.1.0", nil, nil).CurrentVersion(); got != "0.1.0" {
		t.Errorf("CurrentVersion() = %q", got)
	}
}
