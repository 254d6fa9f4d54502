package scanner

import (
	"iter"
	"os"
	"path/filepath"
	"strings"

	"jvirtualenv/internal/executil"
)

// programDirs are searched under every drive, in this order.
var programDirs = []string{
	"Program Files (x86)",
	"Program Files",
	"ProgramData",
}

// Windows searches well-known install directories of every drive with
// "where /R".
type Windows struct {
	runner executil.Runner
	drives func() []string
	getwd  func() (string, error)
}

// NewWindows creates the where-backed strategy.
func NewWindows(runner executil.Runner) *Windows {
	return &Windows{
		runner: runner,
		drives: logicalDrives,
		getwd:  os.Getwd,
	}
}

func (w *Windows) Name() string { return "where" }

func (w *Windows) Pattern() string { return "java" }

// CandidateRoots returns the program directories of each drive, then the
// current directory, then extra.
func (w *Windows) CandidateRoots(extra []string) []string {
	var roots []string
	for _, drive := range w.drives() {
		drive = strings.TrimRight(drive, `\`)
		for _, dir := range programDirs {
			roots = append(roots, drive+`\`+dir)
		}
	}
	if cwd, err := w.getwd(); err == nil {
		roots = append(roots, cwd)
	}
	return append(roots, extra...)
}

// WhereCommand builds the recursive where invocation for one root.
func WhereCommand(root, name string) string {
	if filepath.Ext(name) == "" {
		name += ".exe"
	}
	return "where /R " + executil.Quote(root) + " " + name
}

// Scan runs where once per existing root. Results from overlapping roots
// are all yielded.
func (w *Windows) Scan(roots []string, pattern string) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		for _, root := range roots {
			if info, err := os.Stat(root); err != nil || !info.IsDir() {
				continue
			}
			// where exits 1 when nothing matched
			for line, err := range w.runner.Stream(WhereCommand(root, pattern), 1) {
				if err != nil {
					yield("", scanFailed("where", err))
					return
				}
				path := strings.TrimSpace(line)
				if path == "" || !exists(path) {
					continue
				}
				if !yield(path, nil) {
					return
				}
			}
		}
	}
}

// Which returns the first java.exe found on PATH by where.
func (w *Windows) Which() (string, error) {
	res, err := w.runner.Run("where java")
	if err != nil {
		return "", err
	}
	if res.ExitCode != 0 {
		return "", nil
	}
	for _, line := range res.Stdout {
		if path := strings.TrimSpace(line); path != "" && exists(path) {
			return path, nil
		}
	}
	return "", nil
}
