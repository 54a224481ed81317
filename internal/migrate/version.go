package migrate

import (
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// CompareVersions compares two version strings using semver.
// Returns -1 if a < b, 0 if equal, 1 if a > b. A leading "v" is tolerated
// and short forms such as "3.6" are accepted.
func CompareVersions(a, b string) (int, error) {
	av, err := parseSemver(a)
	if err != nil {
		return 0, fmt.Errorf("parsing version %q: %w", a, err)
	}
	bv, err := parseSemver(b)
	if err != nil {
		return 0, fmt.Errorf("parsing version %q: %w", b, err)
	}
	return av.Compare(bv), nil
}

// versionOrder orders a workspace version against the target. Versions
// that do not parse (such as the "1.x" default) sort before any target
// unless the strings are identical.
func versionOrder(current, target string) int {
	if current == target {
		return 0
	}
	cmp, err := CompareVersions(current, target)
	if err != nil {
		return -1
	}
	return cmp
}

func parseSemver(version string) (*semver.Version, error) {
	version = strings.TrimPrefix(strings.TrimSpace(version), "v")
	return semver.NewVersion(version)
}
