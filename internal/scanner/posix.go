package scanner

import (
	"errors"
	"io"
	"io/fs"
	"iter"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/charmbracelet/log"

	"jvirtualenv/internal/executil"
)

// SearchPathPattern matches any java launcher in a bin directory. User
// search roots hold JDK homes of any name (java-17-openjdk-amd64, openjdk),
// so only the launcher location is constrained there.
const SearchPathPattern = `(^|.*/)bin/java$`

var searchPathRe = regexp.MustCompile(SearchPathPattern)

// shellNotFound is the exit status of sh when the command does not exist.
const shellNotFound = 127

// POSIX searches the locate database for the whole filesystem and walks
// any additional roots directly.
type POSIX struct {
	runner executil.Runner
	logger *log.Logger
}

// NewPOSIX creates the locate-backed strategy. A nil logger discards.
func NewPOSIX(runner executil.Runner, logger *log.Logger) *POSIX {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &POSIX{runner: runner, logger: logger}
}

func (p *POSIX) Name() string { return "locate" }

func (p *POSIX) Pattern() string { return JDKPathPattern }

func (p *POSIX) CandidateRoots(extra []string) []string {
	roots := []string{"/"}
	for _, r := range extra {
		if r = filepath.Clean(r); r != "/" {
			roots = append(roots, r)
		}
	}
	return roots
}

// LocateCommand builds the locate invocation for pattern.
func LocateCommand(pattern string) string {
	return "locate -r " + executil.Quote(pattern)
}

// Scan runs locate with pattern once for the root "/" and walks every
// other root for launchers matching SearchPathPattern. Paths already
// produced by locate are not repeated by a walk. A host without locate
// gets a warning and the walks only.
func (p *POSIX) Scan(roots []string, pattern string) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		seen := make(map[string]bool)
		for _, root := range roots {
			if root == "/" {
				// locate exits 1 when the database has no match
				for line, err := range p.runner.Stream(LocateCommand(pattern), 1) {
					if err != nil {
						var exitErr *executil.ExitError
						if errors.As(err, &exitErr) && exitErr.ExitCode == shellNotFound {
							p.logger.Warn("locate is not installed; searching the configured paths only", "err", err)
							break
						}
						yield("", scanFailed("locate", err))
						return
					}
					path := strings.TrimSpace(line)
					if path == "" || seen[path] || !exists(path) {
						continue
					}
					seen[path] = true
					if !yield(path, nil) {
						return
					}
				}
				continue
			}

			for path := range walk(root, searchPathRe) {
				if seen[path] {
					continue
				}
				seen[path] = true
				if !yield(path, nil) {
					return
				}
			}
		}
	}
}

// walk yields files under root whose slash-separated path matches re.
// Unreadable directories are skipped.
func walk(root string, re *regexp.Regexp) iter.Seq[string] {
	return func(yield func(string) bool) {
		_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				if d != nil && d.IsDir() {
					return fs.SkipDir
				}
				return nil
			}
			if d.IsDir() || !re.MatchString(filepath.ToSlash(path)) {
				return nil
			}
			if !yield(path) {
				return fs.SkipAll
			}
			return nil
		})
	}
}

// Which asks the shell where java is and follows symlinks such as
// /usr/bin/java -> /etc/alternatives/java to the real launcher.
func (p *POSIX) Which() (string, error) {
	res, err := p.runner.Run("command -v java")
	if err != nil {
		return "", err
	}
	if res.ExitCode != 0 || len(res.Stdout) == 0 {
		return "", nil
	}
	path := strings.TrimSpace(res.Stdout[0])
	if !filepath.IsAbs(path) {
		return "", nil
	}
	if resolved, err := filepath.EvalSymlinks(path); err == nil {
		path = resolved
	}
	if !exists(path) {
		return "", nil
	}
	return path, nil
}
