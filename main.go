package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"jvirtualenv/internal/activate"
	"jvirtualenv/internal/config"
	"jvirtualenv/internal/env"
	"jvirtualenv/internal/executil"
	"jvirtualenv/internal/java"
	"jvirtualenv/internal/store"
	"jvirtualenv/internal/theme"
)

// Version is set during build time via ldflags
var Version = "dev"

var (
	flagGlobal  bool
	flagVerbose bool
	flagJava    string
	flagForce   bool
)

// Shared state built once in PersistentPreRunE.
var (
	logger      *log.Logger
	runner      executil.Runner
	interactive bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		theme.PrintErr("%s", errorMessage(err))
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "jvirtualenv [--java=<tag>] <project>",
	Short: "Virtual environments for Java JDKs",
	Long: "jvirtualenv finds the JDKs installed on this machine, records them by tag,\n" +
		"and creates project directories whose bin/activate points JAVA_HOME at one of them.\n\n" +
		"Examples:\n" +
		"  jvirtualenv list-tag\n" +
		"  jvirtualenv --java=1:8 demo\n" +
		"  jvirtualenv -j 11 demo -f",
	Args:              cobra.MaximumNArgs(1),
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		switch cmd.Name() {
		case "update", "version":
		default:
			checkForUpdateBackground()
		}
	},
	RunE: runCreate,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&flagGlobal, "global", "g", false, "global mode, maybe need sudo")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "log discovery details")
	rootCmd.Flags().StringVarP(&flagJava, "java", "j", "", "tag (or tag prefix) of the JDK to use")
	rootCmd.Flags().BoolVarP(&flagForce, "force", "f", false, "create the environment in an existing folder")
	reinitCmd.Flags().BoolVar(&flagUpdateDB, "updatedb", false, "refresh the locate database first (POSIX)")
	updateCmd.Flags().BoolVar(&flagCheckOnly, "check", false, "only report whether a newer release exists")

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(reinitCmd)
	rootCmd.AddCommand(addPathCmd)
	rootCmd.AddCommand(removePathCmd)
	rootCmd.AddCommand(listPathsCmd)
	rootCmd.AddCommand(updateCmd)
	rootCmd.AddCommand(versionCmd)
}

func setup(cmd *cobra.Command, args []string) error {
	level := log.WarnLevel
	if flagVerbose {
		level = log.DebugLevel
	}
	logger = log.NewWithOptions(os.Stderr, log.Options{
		Prefix: "jvirtualenv",
		Level:  level,
	})
	runner = executil.NewShell()
	interactive = term.IsTerminal(int(os.Stdout.Fd())) && term.IsTerminal(int(os.Stdin.Fd()))
	return nil
}

// discoveryConfig resolves the config directory for the current mode and
// warns when global mode lacks the rights to write it.
func discoveryConfig() (config.DiscoveryConfig, error) {
	cfg, err := config.NewDiscoveryConfig(flagGlobal)
	if err != nil {
		return config.DiscoveryConfig{}, err
	}
	if cfg.Global && !env.IsAdmin() {
		theme.PrintWarn("global mode without administrator rights; writing %s may fail", cfg.ConfigDir)
	}
	logger.Debug("config", "dir", cfg.ConfigDir, "global", cfg.Global)
	return cfg, nil
}

// discoverer returns the discovery pass used to (re)build the tag list.
// On a terminal the scan runs behind a spinner.
func discoverer(settings *config.Settings) store.DiscoverFunc {
	return func() ([]java.Installation, error) {
		var installs []java.Installation
		scan := func(found java.ScanProgress) error {
			opts := []java.Option{
				java.WithLogger(logger),
				java.WithSearchPaths(settings.SearchPaths),
			}
			if found != nil {
				opts = append(opts, java.WithOnFound(func(java.Installation) { found() }))
			}
			var err error
			installs, err = java.NewDetector(runner, opts...).FindAll()
			return err
		}

		var err error
		if interactive && !flagVerbose {
			err = java.WithScanner("Searching for JDKs...", scan)
		} else {
			err = scan(nil)
		}
		if err != nil {
			return nil, err
		}
		return installs, nil
	}
}

// loadTagList returns the stored tag list, running discovery when the
// store does not exist yet.
func loadTagList(cfg config.DiscoveryConfig) ([]java.Installation, error) {
	settings, err := config.LoadSettings(cfg.SettingsPath)
	if err != nil {
		return nil, err
	}
	installs, created, err := store.LoadOrInit(cfg, discoverer(settings))
	if err != nil {
		return nil, err
	}
	if created {
		theme.PrintOK("init config in %s", cfg.StorePath)
	}
	return installs, nil
}

func runCreate(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return cmd.Help()
	}
	project := args[0]

	cfg, err := discoveryConfig()
	if err != nil {
		return err
	}
	installs, err := loadTagList(cfg)
	if err != nil {
		return err
	}

	var inst java.Installation
	switch {
	case flagJava != "":
		var ok bool
		if inst, ok = store.Find(installs, flagJava); !ok {
			return fmt.Errorf("%w: %s", store.ErrTagNotFound, flagJava)
		}
	case interactive && len(installs) > 0:
		if inst, err = selectTag(installs); err != nil {
			return err
		}
	default:
		return errMissingTag
	}

	flavor := activate.HostFlavor()
	paths, err := activate.Write(flavor, project, inst, flagForce)
	if errors.Is(err, activate.ErrProjectExists) {
		abs, _ := filepath.Abs(project)
		if !interactive {
			theme.PrintWarn("project directory %s exists already", abs)
			theme.PrintInfo("you can use -f argument to continue.")
			return nil
		}
		ok, cerr := confirmAction("Use existing directory?", fmt.Sprintf("%s exists already; bin/activate will be overwritten.", abs))
		if cerr != nil || !ok {
			theme.PrintWarn("Operation cancelled.")
			return nil
		}
		paths, err = activate.Write(flavor, project, inst, true)
	}
	if err != nil {
		return err
	}

	cwd, _ := os.Getwd()
	for _, line := range activationHint(flavor, cwd, paths) {
		theme.PrintInfo("%s", line)
	}
	return nil
}

// activationHint tells the user how to enter and leave the environment.
func activationHint(flavor activate.Flavor, cwd string, paths []string) []string {
	if len(paths) == 0 {
		return nil
	}
	lines := []string{"create active file " + paths[0]}
	if flavor == activate.Windows {
		lines = append(lines, fmt.Sprintf(`run "%s" to activate it`, paths[0]))
		if len(paths) > 1 {
			lines = append(lines, fmt.Sprintf(`run "%s" to deactivate it`, paths[1]))
		}
		return lines
	}

	shown := paths[0]
	if cwd != "" {
		if rel, err := filepath.Rel(cwd, paths[0]); err == nil {
			shown = rel
		}
	}
	return append(lines, fmt.Sprintf("run `source %s` to activate it", shown))
}
