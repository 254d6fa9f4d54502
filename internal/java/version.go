package java

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	goversion "github.com/hashicorp/go-version"

	"jvirtualenv/internal/executil"
)

// ErrVersionDetection means a java launcher's -version banner could not be parsed.
var ErrVersionDetection = errors.New("java version detection failed")

// DefaultBit is reported when the banner does not mention a bit width.
const DefaultBit = "32"

var bitPattern = regexp.MustCompile(`\b(\d+)-Bit\b`)

// Version is a JDK release reduced to major.minor.patch. Raw keeps the
// vendor string the numbers were read from (e.g. "1.8.0_202").
type Version struct {
	Major int
	Minor int
	Patch int
	Raw   string
}

// ParseVersionString reads the first three numeric components of a vendor
// version string. Missing components are 0.
func ParseVersionString(raw string) (Version, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Version{}, fmt.Errorf("%w: empty version string", ErrVersionDetection)
	}

	// 1.8.0_202: the update number after '_' is build metadata, not a segment
	normalized := strings.Replace(raw, "_", "+", 1)
	v, err := goversion.NewVersion(normalized)
	if err != nil {
		return Version{}, fmt.Errorf("%w: %q: %w", ErrVersionDetection, raw, err)
	}

	seg := v.Segments()
	return Version{Major: seg[0], Minor: seg[1], Patch: seg[2], Raw: raw}, nil
}

func (v Version) String() string {
	if v.Raw != "" {
		return v.Raw
	}
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}

// MarshalText stores the vendor string.
func (v Version) MarshalText() ([]byte, error) {
	return []byte(v.String()), nil
}

// UnmarshalText re-derives the numeric components from the vendor string.
func (v *Version) UnmarshalText(text []byte) error {
	parsed, err := ParseVersionString(string(text))
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

// Tag builds the lookup key of an installation. JDK 9 releases are tagged
// with their vendor string; every other release with major:minor:patch:bit.
func Tag(v Version, bit string) string {
	if v.Major == 9 && v.Raw != "" {
		return v.Raw
	}
	return fmt.Sprintf("%d:%d:%d:%s", v.Major, v.Minor, v.Patch, bit)
}

// ParseBanner extracts the version and bit width from the lines a java
// launcher prints for -version:
//
//	java version "1.8.0_202"
//	Java(TM) SE Runtime Environment (build 1.8.0_202-b08)
//	Java HotSpot(TM) 64-Bit Server VM (build 25.202-b08, mixed mode)
//
// Every failure is reported as ErrVersionDetection.
func ParseBanner(lines []string) (Version, string, error) {
	// JAVA_TOOL_OPTIONS and friends are echoed ahead of the banner
	for len(lines) > 0 && strings.HasPrefix(lines[0], "Picked up ") {
		lines = lines[1:]
	}
	if len(lines) == 0 {
		return Version{}, "", fmt.Errorf("%w: no output", ErrVersionDetection)
	}

	fields := strings.Fields(lines[0])
	idx := -1
	for i, f := range fields {
		if f == "version" {
			idx = i
			break
		}
	}
	if idx < 0 || idx+1 >= len(fields) {
		return Version{}, "", fmt.Errorf("%w: no version token in %q", ErrVersionDetection, lines[0])
	}

	raw := strings.TrimSuffix(strings.TrimPrefix(fields[idx+1], `"`), `"`)
	v, err := ParseVersionString(raw)
	if err != nil {
		return Version{}, "", err
	}

	if len(lines) < 3 {
		return Version{}, "", fmt.Errorf("%w: banner has %d lines, want 3", ErrVersionDetection, len(lines))
	}
	bit := DefaultBit
	if m := bitPattern.FindStringSubmatch(lines[2]); m != nil {
		bit = m[1]
	}

	return v, bit, nil
}

// QueryVersion runs "<javaPath> -version" and parses the banner, which the
// launcher writes to stderr.
func QueryVersion(runner executil.Runner, javaPath string) (Version, string, error) {
	res, err := runner.Run(VersionCommand(javaPath))
	if err != nil {
		return Version{}, "", err
	}
	return ParseBanner(res.Stderr)
}

// VersionCommand is the shell command QueryVersion runs.
func VersionCommand(javaPath string) string {
	return executil.Quote(javaPath) + " -version"
}
