package semver

import (
	"regexp"

	"github.com/Masterminds/semver/v3"
	"github.com/pkg/errors"
)

// schedulers prefix their versions, e.g. "PBSPro_13.1.0" or "OpenPBS 23.6.1"
var versionRegexp = regexp.MustCompile(`[0-9]+(\.[0-9]+){0,2}`)

// Parse reads the first dotted version number found in a scheduler version string.
func Parse(raw string) (*semver.Version, error) {
	match := versionRegexp.FindString(raw)
	if match == "" {
		return nil, errors.Errorf("no version number in %q", raw)
	}

	v, err := semver.NewVersion(match)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to parse version %q", raw)
	}

	return v, nil
}

// Satisfies reports whether the scheduler version matches a constraint such as ">= 19.1".
func Satisfies(raw, constraint string) (bool, error) {
	c, err := semver.NewConstraint(constraint)
	if err != nil {
		return false, errors.Wrapf(err, "invalid version constraint %q", constraint)
	}

	v, err := Parse(raw)
	if err != nil {
		return false, err
	}

	return c.Check(v), nil
}
