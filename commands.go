package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"jvirtualenv/internal/activate"
	"jvirtualenv/internal/config"
	"jvirtualenv/internal/env"
	"jvirtualenv/internal/executil"
	"jvirtualenv/internal/java"
	"jvirtualenv/internal/store"
	"jvirtualenv/internal/theme"
	"jvirtualenv/internal/updater"
)

var (
	flagUpdateDB  bool
	flagCheckOnly bool
)

var listCmd = &cobra.Command{
	Use:     "list-tag",
	Aliases: []string{"list"},
	Short:   "List the tags of the discovered JDKs",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := discoveryConfig()
		if err != nil {
			return err
		}
		installs, err := loadTagList(cfg)
		if err != nil {
			return err
		}
		if len(installs) == 0 {
			theme.PrintWarn("empty")
			return nil
		}

		active := ""
		if s, ok := env.Active(); ok {
			active = s.Tag
		}
		fmt.Fprintln(theme.Out, theme.Title.Render("Available JDK tags:"))
		fmt.Fprintln(theme.Out)
		fmt.Fprint(theme.Out, renderTagList(installs, active))
		return nil
	},
}

// renderTagList lays out one row per record, in stored order. The record
// whose tag is activeTag is marked.
func renderTagList(installs []java.Installation, activeTag string) string {
	tagWidth, versionWidth := 0, 0
	for _, inst := range installs {
		tagWidth = max(tagWidth, lipgloss.Width(inst.Tag))
		versionWidth = max(versionWidth, lipgloss.Width(inst.Version.String()))
	}

	var b strings.Builder
	for _, inst := range installs {
		marker := "  "
		tag := inst.Tag
		if activeTag != "" && inst.Tag == activeTag {
			marker = "→ "
			tag = theme.CurrentStyle.Render(tag)
		}
		tag += strings.Repeat(" ", tagWidth-lipgloss.Width(inst.Tag))
		version := inst.Version.String()
		version += strings.Repeat(" ", versionWidth-lipgloss.Width(version))

		fmt.Fprintf(&b, "%s%s  %s  %s  %s\n",
			marker,
			tag,
			theme.Faint.Render(version),
			theme.Faint.Render(inst.Bit+"-bit"),
			theme.PathStyle.Render(inst.Home))
	}
	return b.String()
}

var reinitCmd = &cobra.Command{
	Use:     "reinit-tag",
	Aliases: []string{"reinit"},
	Short:   "Rediscover the installed JDKs and rewrite the tag list",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := discoveryConfig()
		if err != nil {
			return err
		}
		if flagUpdateDB && activate.HostFlavor() == activate.POSIX {
			if err := refreshLocateDB(runner, env.IsAdmin()); err != nil {
				return err
			}
		}

		settings, err := config.LoadSettings(cfg.SettingsPath)
		if err != nil {
			return err
		}
		if _, err := store.Init(cfg, discoverer(settings)); err != nil {
			return err
		}
		theme.PrintOK("reinit config in %s", cfg.StorePath)
		return nil
	},
}

// refreshLocateDB rebuilds the locate index so new JDKs become visible.
// Without root rights it goes through sudo.
func refreshLocateDB(r executil.Runner, admin bool) error {
	command, tool := "sudo updatedb", "sudo"
	if admin {
		command, tool = "updatedb", "updatedb"
	}
	if _, err := r.LookPath(tool); err != nil {
		return fmt.Errorf("refresh locate database: %w", err)
	}
	logger.Debug("refreshing locate database", "command", command)

	res, err := r.Run(command)
	if err != nil {
		return err
	}
	if res.ExitCode != 0 {
		return fmt.Errorf("refresh locate database: %s: exit status %d", command, res.ExitCode)
	}
	return nil
}

var addPathCmd = &cobra.Command{
	Use:   "add-path <directory>",
	Short: "Add a directory to search for JDKs",
	Long:  "Add a directory that discovery searches in addition to the platform locations.\nRun reinit-tag afterwards to rebuild the tag list.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := filepath.Abs(args[0])
		if err != nil {
			return err
		}
		if !isDir(path) {
			return fmt.Errorf("invalid directory path: %s", path)
		}

		settings, err := loadSettings()
		if err != nil {
			return err
		}
		if !settings.AddSearchPath(path) {
			theme.PrintWarn("This search path is already configured.")
			return nil
		}
		if err := settings.Save(); err != nil {
			return err
		}

		theme.PrintOK("Added search path:")
		fmt.Fprintln(theme.Out, "  "+theme.PathStyle.Render(path))
		fmt.Fprintln(theme.Out, theme.Faint.Render("Run ")+theme.Code.Render("jvirtualenv reinit-tag")+theme.Faint.Render(" to rescan"))
		return nil
	},
}

var removePathCmd = &cobra.Command{
	Use:   "remove-path [directory]",
	Short: "Remove a directory from the JDK search paths",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		settings, err := loadSettings()
		if err != nil {
			return err
		}

		var path string
		switch {
		case len(args) == 1:
			path = args[0]
			if abs, err := filepath.Abs(path); err == nil && !settings.HasSearchPath(path) {
				path = abs
			}
		case len(settings.SearchPaths) == 0:
			theme.PrintInfo("No custom search paths to remove")
			return nil
		case interactive:
			if path, err = selectSearchPath(settings.SearchPaths); err != nil {
				return err
			}
		default:
			return fmt.Errorf("remove-path needs a directory argument when not run on a terminal")
		}

		if !settings.RemoveSearchPath(path) {
			theme.PrintWarn("This path is not in the search paths list.")
			return nil
		}
		if err := settings.Save(); err != nil {
			return err
		}
		theme.PrintOK("Removed search path %s", path)
		return nil
	},
}

var listPathsCmd = &cobra.Command{
	Use:   "list-paths",
	Short: "Show the directories searched for JDKs",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		settings, err := loadSettings()
		if err != nil {
			return err
		}

		fmt.Fprintln(theme.Out, theme.Title.Render("JDK Search Paths"))
		fmt.Fprintln(theme.Out)
		fmt.Fprintln(theme.Out, theme.LabelStyle.Render("Built-in:"))
		if activate.HostFlavor() == activate.Windows {
			fmt.Fprintln(theme.Out, "  Program Files, Program Files (x86) and ProgramData on every drive, and the current directory")
		} else {
			fmt.Fprintln(theme.Out, "  locate index, paths matching "+theme.Code.Render(".*/jdk*/bin/java"))
			fmt.Fprintln(theme.Out, "  custom paths below are searched for any "+theme.Code.Render("bin/java"))
		}
		fmt.Fprintln(theme.Out)

		if len(settings.SearchPaths) == 0 {
			theme.PrintInfo("No custom search paths configured.")
			fmt.Fprintln(theme.Out, theme.Faint.Render("Use 'jvirtualenv add-path <directory>' to add one."))
			return nil
		}
		fmt.Fprintln(theme.Out, theme.TableStyle.Render(renderSearchPaths(settings.SearchPaths)))
		return nil
	},
}

func renderSearchPaths(paths []string) string {
	existsStyle := theme.SuccessStyle.Padding(0, 1)
	notFoundStyle := theme.ErrorStyle.Padding(0, 1)

	width := len("Path")
	for _, p := range paths {
		width = max(width, lipgloss.Width(p))
	}

	rows := []string{lipgloss.JoinHorizontal(lipgloss.Left,
		theme.TableHeader.Width(width+2).Render("Path"),
		theme.TableHeader.Render("Status"),
	)}
	for _, p := range paths {
		status := notFoundStyle.Render("✗ Not found")
		if isDir(p) {
			status = existsStyle.Render("✓ Exists")
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Left,
			theme.TableCell.Width(width+2).Render(p),
			status,
		))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func loadSettings() (*config.Settings, error) {
	cfg, err := discoveryConfig()
	if err != nil {
		return nil, err
	}
	return config.LoadSettings(cfg.SettingsPath)
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Update jvirtualenv to the latest release",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		settings, err := loadSettings()
		if err != nil {
			return err
		}
		if !settings.UpdateConfig.Enabled {
			theme.PrintWarn("Updates are disabled in configuration.")
			fmt.Fprintln(theme.Out, theme.Faint.Render("Set update_config.enabled to true in "+settings.Path()+" to enable them."))
			return nil
		}

		upd, err := updater.NewUpdater(settings, Version, logger)
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), updater.UpdateTimeout)
		defer cancel()

		theme.PrintInfo("Checking for updates...")
		release, err := upd.CheckForUpdate(ctx)
		if err != nil {
			return err
		}
		if release == nil {
			updater.ShowAlreadyUpToDate(upd.CurrentVersion())
			return nil
		}
		if flagCheckOnly || !interactive {
			updater.ShowUpdateNotification(upd.CurrentVersion(), release.Version())
			return nil
		}

		action, err := upd.PromptForUpdate(release)
		if err != nil {
			theme.PrintWarn("Update cancelled.")
			return nil
		}
		switch action {
		case updater.ActionSkip:
			theme.PrintInfo("Skipped version %s", release.Version())
			return nil
		case updater.ActionLater:
			theme.PrintInfo("Update postponed")
			return nil
		}

		theme.PrintInfo("Downloading jvirtualenv %s...", release.Version())
		if err := upd.PerformUpdate(ctx, release); err != nil {
			return fmt.Errorf("%w\ndownload manually from https://github.com/%s/releases", err, updater.GitHubRepo)
		}
		updater.ShowUpdateSuccess(release.Version())
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(theme.Out, "%s %s %s\n",
			theme.Subtitle.Render("jvirtualenv"),
			theme.Faint.Render("version"),
			theme.HighlightText(Version))
		fmt.Fprintln(theme.Out, theme.Faint.Render("https://github.com/"+updater.GitHubRepo))
	},
}

// checkForUpdateBackground prints a hint when a newer release exists. It
// only runs on terminals, at most once per check interval, and stays
// silent on any failure.
func checkForUpdateBackground() {
	if !interactive || logger == nil {
		return
	}
	cfg, err := config.NewDiscoveryConfig(flagGlobal)
	if err != nil {
		return
	}
	settings, err := config.LoadSettings(cfg.SettingsPath)
	if err != nil {
		return
	}
	upd, err := updater.NewUpdater(settings, Version, logger)
	if err != nil || !upd.ShouldCheckForUpdate() {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	release, err := upd.CheckForUpdate(ctx)
	if err != nil {
		logger.Debug("update check failed", "err", err)
		return
	}
	if release != nil {
		updater.ShowUpdateNotification(upd.CurrentVersion(), release.Version())
	}
}

func selectTag(installs []java.Installation) (java.Installation, error) {
	options := make([]huh.Option[int], len(installs))
	for i, inst := range installs {
		label := fmt.Sprintf("%s  %s  %s",
			theme.CurrentStyle.Render(inst.Tag),
			inst.Version.String(),
			theme.Faint.Render(inst.Home))
		options[i] = huh.NewOption(label, i)
	}

	var idx int
	err := huh.NewSelect[int]().
		Title(theme.Subtitle.Render("Select JDK")).
		Description(theme.Faint.Render("Use arrow keys to navigate, Enter to select")).
		Options(options...).
		Value(&idx).
		Run()
	if err != nil {
		return java.Installation{}, err
	}
	return installs[idx], nil
}

func selectSearchPath(paths []string) (string, error) {
	options := make([]huh.Option[string], len(paths))
	for i, p := range paths {
		status := theme.Faint.Render("Not found")
		if isDir(p) {
			status = theme.SuccessStyle.Render("✓ Exists")
		}
		options[i] = huh.NewOption(fmt.Sprintf("%s  %s", theme.CurrentStyle.Render(p), status), p)
	}

	var path string
	err := huh.NewSelect[string]().
		Title(theme.Subtitle.Render("Select Search Path to Remove")).
		Description(theme.Faint.Render("Use arrow keys to navigate, Enter to select")).
		Options(options...).
		Value(&path).
		Run()
	return path, err
}

func confirmAction(title, description string) (bool, error) {
	var confirmed bool
	err := huh.NewConfirm().
		Title(theme.Subtitle.Render(title)).
		Description(theme.Faint.Render(description)).
		Affirmative(theme.SuccessStyle.Render("Yes")).
		Negative(theme.ErrorStyle.Render("No")).
		Value(&confirmed).
		Run()
	return confirmed, err
}
