// Package scanner finds candidate java executables on disk using the
// search tools of the host platform.
package scanner

import (
	"errors"
	"fmt"
	"iter"
	"os"
	"runtime"

	"github.com/charmbracelet/log"

	"jvirtualenv/internal/executil"
)

// JDKPathPattern matches a java launcher inside a directory whose name
// starts with "jdk".
const JDKPathPattern = `.*/jdk[^/]*/bin/java$`

// ErrScanFailed reports that the platform search utility failed outright,
// as opposed to finding nothing.
var ErrScanFailed = errors.New("filesystem scan failed")

// Strategy is the platform-specific way of finding java executables.
type Strategy interface {
	// Name identifies the strategy in logs.
	Name() string

	// CandidateRoots lists the directories to search, followed by extra.
	CandidateRoots(extra []string) []string

	// Pattern is the search pattern understood by Scan.
	Pattern() string

	// Scan lazily yields candidate paths under roots matching pattern.
	// The sequence is finite and not restartable. A non-nil error ends it.
	Scan(roots []string, pattern string) iter.Seq2[string, error]

	// Which resolves java through the shell's command lookup. It returns
	// an empty path if nothing is found.
	Which() (string, error)
}

// New selects the Strategy for the running platform.
func New(runner executil.Runner, logger *log.Logger) Strategy {
	if runtime.GOOS == "windows" {
		return NewWindows(runner)
	}
	return NewPOSIX(runner, logger)
}

// exists reports whether path is still present on disk.
func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func scanFailed(tool string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrScanFailed, tool, err)
}
