package serverversion

import (
	"math"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// Minimum server versions for optional rule parts.
const (
	// HostMatcherServerRange gates the host matchers.
	HostMatcherServerRange = ">=1.5.0"

	// BodyMatchingRange gates the raw and JSON body matchers.
	BodyMatchingRange = ">=1.6.0"

	// FromFileHandlerServerRange gates the file response handler.
	FromFileHandlerServerRange = ">=1.5.0"

	// PassthroughTransformsRange gates the request/response transformer.
	PassthroughTransformsRange = ">=1.11.0"
)

// Satisfies reports whether version lies inside constraint.
//
// An empty version means the server version is not known yet and
// satisfies every constraint. A version or constraint that does not parse
// never satisfies. Build metadata is ignored. A pre-release orders below
// its release and above every earlier release, so "1.6.0-beta.1" does not
// satisfy ">=1.6.0" while "1.7.0-rc.1" does.
func Satisfies(version, constraint string) bool {
	version = strings.TrimSpace(version)
	if version == "" {
		return true
	}

	v, err := semver.NewVersion(version)
	if err != nil {
		return false
	}
	c, err := semver.NewConstraint(constraint)
	if err != nil {
		return false
	}

	if c.Check(v) {
		return true
	}
	if v.Prerelease() == "" {
		return false
	}

	// Constraints without a pre-release never admit one, so check the
	// releases on either side instead.
	release := semver.New(v.Major(), v.Minor(), v.Patch(), "", "")
	prev, ok := previousRelease(release)
	if !ok {
		return false
	}
	return c.Check(prev) && c.Check(release)
}

// previousRelease returns the highest release below v. Missing patch and
// minor numbers are filled with the largest value.
func previousRelease(v *semver.Version) (*semver.Version, bool) {
	switch {
	case v.Patch() > 0:
		return semver.New(v.Major(), v.Minor(), v.Patch()-1, "", ""), true
	case v.Minor() > 0:
		return semver.New(v.Major(), v.Minor()-1, math.MaxUint64, "", ""), true
	case v.Major() > 0:
		return semver.New(v.Major()-1, math.MaxUint64, math.MaxUint64, "", ""), true
	}
	return nil, false
}

// ValidConstraint reports whether constraint parses as a version range.
func ValidConstraint(constraint string) bool {
	_, err := semver.NewConstraint(constraint)
	return err == nil
}

// Valid reports whether version parses as a semantic version.
func Valid(version string) bool {
	_, err := semver.NewVersion(strings.TrimSpace(version))
	return err == nil
}
