// Package updater replaces the running jvirtualenv binary with the latest
// GitHub release.
package updater

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/creativeprojects/go-selfupdate"
	goversion "github.com/hashicorp/go-version"

	"jvirtualenv/internal/config"
)

const (
	// GitHubRepo publishes the release archives and SHA256SUMS.txt.
	GitHubRepo = "minghu6/jvirtualenv"

	// CheckInterval is the minimum time between automatic checks.
	CheckInterval = 24 * time.Hour

	// UpdateTimeout bounds a check plus download.
	UpdateTimeout = 5 * time.Minute
)

// Source looks up the newest release of a repository.
type Source interface {
	DetectLatest(ctx context.Context, repository selfupdate.Repository) (*selfupdate.Release, bool, error)
}

// Updater checks for and applies releases, recording its state in the
// update section of the settings file.
type Updater struct {
	settings       *config.Settings
	currentVersion string
	source         Source
	logger         *log.Logger
	now            func() time.Time
}

// NewUpdater creates an Updater that validates downloads against the
// release's SHA256SUMS.txt.
func NewUpdater(settings *config.Settings, version string, logger *log.Logger) (*Updater, error) {
	su, err := selfupdate.NewUpdater(selfupdate.Config{
		Validator: &selfupdate.ChecksumValidator{
			UniqueFilename: "SHA256SUMS.txt",
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create updater: %w", err)
	}
	return newUpdater(settings, version, su, logger), nil
}

func newUpdater(settings *config.Settings, version string, source Source, logger *log.Logger) *Updater {
	if logger == nil {
		logger = log.New(os.Stderr)
	}
	return &Updater{
		settings:       settings,
		currentVersion: cleanVersion(version),
		source:         source,
		logger:         logger,
		now:            time.Now,
	}
}

// CurrentVersion is the running version without its "v" prefix.
func (u *Updater) CurrentVersion() string {
	return u.currentVersion
}

// ShouldCheckForUpdate reports whether an automatic check is due.
func (u *Updater) ShouldCheckForUpdate() bool {
	uc := u.settings.UpdateConfig
	if !uc.Enabled || !uc.AutoCheck {
		return false
	}
	return u.now().Sub(uc.LastCheck) >= CheckInterval
}

// CheckForUpdate returns the latest release when it is newer than the
// running binary and has not been skipped. It returns nil otherwise.
func (u *Updater) CheckForUpdate(ctx context.Context) (*selfupdate.Release, error) {
	latest, found, err := u.source.DetectLatest(ctx, selfupdate.ParseSlug(GitHubRepo))
	if err != nil {
		return nil, fmt.Errorf("failed to check for updates: %w", err)
	}
	if !found {
		return nil, fmt.Errorf("no releases found for %s", GitHubRepo)
	}

	u.settings.UpdateConfig.LastCheck = u.now()
	if err := u.settings.Save(); err != nil {
		u.logger.Warn("failed to record update check", "path", u.settings.Path(), "err", err)
	}

	if !isNewer(u.currentVersion, latest.Version(), u.settings.UpdateConfig.SkipVersion) {
		return nil, nil
	}
	return latest, nil
}

// isNewer reports whether latest should be offered over current. Dev
// builds with an unparsable version are always offered the release.
func isNewer(current, latest, skipped string) bool {
	if latest == skipped {
		return false
	}
	lv, err := goversion.NewVersion(latest)
	if err != nil {
		return false
	}
	cv, err := goversion.NewVersion(current)
	if err != nil {
		return true
	}
	return lv.GreaterThan(cv)
}

// PerformUpdate installs release over the running executable, restoring
// a backup when the replacement fails.
func (u *Updater) PerformUpdate(ctx context.Context, release *selfupdate.Release) error {
	exe, err := os.Executable()
	if err != nil {
		return fmt.Errorf("failed to determine executable path: %w", err)
	}

	backup := exe + ".backup"
	if err := copyFile(exe, backup); err != nil {
		return fmt.Errorf("failed to create backup: %w", err)
	}

	if err := selfupdate.UpdateTo(ctx, release.AssetURL, release.AssetName, exe); err != nil {
		if rollbackErr := os.Rename(backup, exe); rollbackErr != nil {
			return fmt.Errorf("update failed and rollback failed: update error: %w, rollback error: %v", err, rollbackErr)
		}
		return fmt.Errorf("update failed (rolled back): %w", err)
	}

	if err := os.Remove(backup); err != nil {
		u.logger.Debug("backup left behind", "path", backup, "err", err)
	}
	return nil
}

// SkipVersion stops version from being offered again.
func (u *Updater) SkipVersion(version string) error {
	u.settings.UpdateConfig.SkipVersion = version
	return u.settings.Save()
}

func copyFile(src, dst string) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return err
	}
	return os.WriteFile(dst, data, 0755)
}

func cleanVersion(version string) string {
	return strings.TrimPrefix(version, "v")
}
