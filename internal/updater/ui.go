package updater

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/creativeprojects/go-selfupdate"

	"jvirtualenv/internal/theme"
)

// Prompt answers.
const (
	ActionUpdate = "update"
	ActionSkip   = "skip"
	ActionLater  = "later"
)

// PromptForUpdate asks whether to install release now. Choosing to skip
// records the version in the settings.
func (u *Updater) PromptForUpdate(release *selfupdate.Release) (string, error) {
	sizeMB := float64(release.AssetByteSize) / 1024 / 1024
	description := fmt.Sprintf("Download size: %.1f MB\n\n%s", sizeMB, truncateChangelog(release.ReleaseNotes, 400))

	var action string
	err := huh.NewSelect[string]().
		Title(theme.Subtitle.Render(fmt.Sprintf("jvirtualenv %s → %s", u.currentVersion, release.Version()))).
		Description(theme.Faint.Render(description)).
		Options(
			huh.NewOption(theme.SuccessStyle.Render("Update now"), ActionUpdate),
			huh.NewOption(theme.InfoStyle.Render("Skip this version"), ActionSkip),
			huh.NewOption(theme.WarningStyle.Render("Remind me later"), ActionLater),
		).
		Value(&action).
		Run()
	if err != nil {
		return "", err
	}

	if action == ActionSkip {
		if err := u.SkipVersion(release.Version()); err != nil {
			u.logger.Warn("failed to save skip preference", "err", err)
		}
	}
	return action, nil
}

// ShowUpdateNotification prints a one-line hint about a newer release.
func ShowUpdateNotification(currentVersion, latestVersion string) {
	fmt.Fprintf(theme.Out, "\n%s jvirtualenv %s → %s %s\n\n",
		theme.InfoStyle.Render("ℹ"),
		theme.Faint.Render(currentVersion),
		theme.CurrentStyle.Render(latestVersion),
		theme.Faint.Render("(run 'jvirtualenv update')"))
}

// ShowUpdateSuccess prints the post-install banner.
func ShowUpdateSuccess(version string) {
	title := theme.SuccessStyle.Padding(0, 2).Render("✓ Updated to " + version)
	fmt.Fprintln(theme.Out)
	fmt.Fprintln(theme.Out, theme.SuccessBox.Render(title))
	fmt.Fprintln(theme.Out, theme.Faint.Render("Existing activate scripts keep working; no need to regenerate them."))
}

// ShowAlreadyUpToDate prints the no-op result of a check.
func ShowAlreadyUpToDate(version string) {
	theme.PrintOK("jvirtualenv %s is the latest release", version)
}

func truncateChangelog(changelog string, maxLen int) string {
	changelog = strings.TrimSpace(changelog)
	if changelog == "" {
		return "See the release notes on GitHub for details."
	}
	if len(changelog) <= maxLen {
		return changelog
	}

	truncated := changelog[:maxLen]
	if idx := strings.LastIndex(truncated, "\n"); idx > maxLen/2 {
		truncated = truncated[:idx]
	} else if idx := strings.LastIndex(truncated, " "); idx > maxLen/2 {
		truncated = truncated[:idx]
	}
	return truncated + "..."
}
