package java

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/charmbracelet/log"

	"jvirtualenv/internal/executil"
	"jvirtualenv/internal/scanner"
)

var (
	// ErrNotJDK marks a candidate that is not a usable JDK: a JRE, a
	// launcher outside a bin directory, or one that cannot report its version.
	ErrNotJDK = errors.New("not a JDK")

	// ErrNoJavaFound means neither the filesystem scan nor the command
	// lookup produced a java executable.
	ErrNoJavaFound = errors.New("no java found")
)

// Installation is one discovered JDK.
type Installation struct {
	Tag     string  `json:"tag"`
	Version Version `json:"version"`
	Bit     string  `json:"bit"`
	Home    string  `json:"home"`
}

// Detector finds JDK installations on the system
type Detector struct {
	runner      executil.Runner
	platform    scanner.Strategy
	searchPaths []string
	logger      *log.Logger
	onFound     func(Installation)
}

// Option configures a Detector.
type Option func(*Detector)

// WithStrategy overrides the platform search strategy.
func WithStrategy(s scanner.Strategy) Option {
	return func(d *Detector) { d.platform = s }
}

// WithSearchPaths adds directories searched after the platform roots.
func WithSearchPaths(paths []string) Option {
	return func(d *Detector) { d.searchPaths = append(d.searchPaths, paths...) }
}

// WithLogger sets the logger used for per-candidate diagnostics.
func WithLogger(l *log.Logger) Option {
	return func(d *Detector) { d.logger = l }
}

// WithOnFound registers a callback invoked for each accepted installation.
func WithOnFound(fn func(Installation)) Option {
	return func(d *Detector) { d.onFound = fn }
}

// NewDetector creates a Detector for the running platform.
func NewDetector(runner executil.Runner, opts ...Option) *Detector {
	d := &Detector{
		runner: runner,
		logger: log.New(os.Stderr),
	}
	d.logger.SetLevel(log.WarnLevel)
	for _, opt := range opts {
		opt(d)
	}
	if d.platform == nil {
		d.platform = scanner.New(runner, d.logger)
	}
	return d
}

func executable(name string) string {
	if runtime.GOOS == "windows" {
		return name + ".exe"
	}
	return name
}

// IsJDK reports whether javaPath sits in a bin directory next to a javac
// compiler.
func IsJDK(javaPath string) bool {
	dir := filepath.Dir(javaPath)
	if filepath.Base(dir) != "bin" {
		return false
	}
	info, err := os.Stat(filepath.Join(dir, executable("javac")))
	return err == nil && info.Mode().IsRegular()
}

// Classify validates javaPath and builds its Installation. Candidates that
// are not JDKs, including those whose version cannot be read, return an
// error matching ErrNotJDK. Failures to run the launcher at all are
// returned unchanged.
func (d *Detector) Classify(javaPath string) (Installation, error) {
	if !IsJDK(javaPath) {
		return Installation{}, ErrNotJDK
	}

	v, bit, err := QueryVersion(d.runner, javaPath)
	if err != nil {
		if errors.Is(err, ErrVersionDetection) {
			return Installation{}, fmt.Errorf("%w: %w", ErrNotJDK, err)
		}
		return Installation{}, err
	}

	return Installation{
		Tag:     Tag(v, bit),
		Version: v,
		Bit:     bit,
		Home:    filepath.Dir(filepath.Dir(javaPath)),
	}, nil
}

// FindAll scans the platform roots and returns every JDK found, in
// discovery order. Nothing is sorted or de-duplicated. If the scan yields
// no candidate at all, java is resolved through the shell instead; when
// that fails too, ErrNoJavaFound is returned.
func (d *Detector) FindAll() ([]Installation, error) {
	roots := d.platform.CandidateRoots(d.searchPaths)
	d.logger.Debug("scanning", "strategy", d.platform.Name(), "roots", roots)

	installs := make([]Installation, 0)
	candidates := 0
	for path, err := range d.platform.Scan(roots, d.platform.Pattern()) {
		if err != nil {
			return nil, err
		}
		candidates++

		inst, ok, err := d.accept(path)
		if err != nil {
			return nil, err
		}
		if ok {
			installs = append(installs, inst)
		}
	}

	if candidates > 0 {
		return installs, nil
	}

	path, err := d.platform.Which()
	if err != nil {
		return nil, err
	}
	if path == "" {
		return nil, ErrNoJavaFound
	}
	d.logger.Debug("scan found nothing, using command lookup", "path", path)

	inst, ok, err := d.accept(path)
	if err != nil {
		return nil, err
	}
	if ok {
		installs = append(installs, inst)
	}
	return installs, nil
}

func (d *Detector) accept(path string) (Installation, bool, error) {
	inst, err := d.Classify(path)
	if errors.Is(err, ErrNotJDK) {
		d.logger.Debug("skipping candidate", "path", path, "reason", err)
		return Installation{}, false, nil
	}
	if err != nil {
		return Installation{}, false, err
	}

	d.logger.Debug("found JDK", "tag", inst.Tag, "home", inst.Home)
	if d.onFound != nil {
		d.onFound(inst)
	}
	return inst, true, nil
}
