package bop

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/mod/semver"
)

var (
	// ErrInvalidVersion is returned when a string is not a plain X.Y.Z version.
	ErrInvalidVersion = errors.New("invalid version")
	// ErrInvalidBumpKind is returned for bump names other than major, minor and patch.
	ErrInvalidBumpKind = errors.New("invalid bump kind")
)

// Bump kinds accepted by BumpByName.
const (
	BumpMajor = "major"
	BumpMinor = "minor"
	BumpPatch = "patch"
)

// Version is a three component version number. It is a value type: bumping
// returns a new Version and never modifies the receiver.
type Version struct {
	Major int
	Minor int
	Patch int
}

// BumpPolicy controls what happens to lower order components on a bump.
//
// The zero value keeps minor and patch untouched when bumping major (and patch
// when bumping minor), which is what existing release histories were produced
// with. ResetLower switches to the conventional semver behaviour.
type BumpPolicy struct {
	ResetLower bool
}

// ParseVersion splits a dotted string into exactly three decimal components.
func ParseVersion(s string) (Version, error) {
	parts := strings.Split(s, ".")
	if len(parts) != 3 {
		return Version{}, fmt.Errorf("%w: %q (expected X.Y.Z)", ErrInvalidVersion, s)
	}

	var nums [3]int
	for i, p := range parts {
		if !isDecimal(p) {
			return Version{}, fmt.Errorf("%w: %q has a bad component %q", ErrInvalidVersion, s, p)
		}
		n, err := strconv.Atoi(p)
		if err != nil {
			return Version{}, fmt.Errorf("%w: %q has a bad component %q", ErrInvalidVersion, s, p)
		}
		nums[i] = n
	}

	return Version{Major: nums[0], Minor: nums[1], Patch: nums[2]}, nil
}

// isDecimal reports whether p is a plain decimal number: digits only, and no
// leading zero unless p is "0".
func isDecimal(p string) bool {
	if p == "" || (len(p) > 1 && p[0] == '0') {
		return false
	}
	for _, r := range p {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// ParseExplicit parses a user supplied target version such as "1.4.0" or
// "v1.4.0". Prereleases and build metadata are rejected.
func ParseExplicit(s string) (Version, error) {
	canonical := s
	if !strings.HasPrefix(canonical, "v") {
		canonical = "v" + canonical
	}
	if !semver.IsValid(canonical) || semver.Canonical(canonical) != canonical || semver.Prerelease(canonical) != "" {
		return Version{}, fmt.Errorf("%w: %q is not a canonical X.Y.Z version", ErrInvalidVersion, s)
	}
	return ParseVersion(strings.TrimPrefix(canonical, "v"))
}

// String renders the version as "major.minor.patch".
func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}

// Tag returns the tag name for the version, e.g. "v1.2.3".
func (v Version) Tag() string {
	return "v" + v.String()
}

// Compare returns -1, 0 or +1 depending on whether v sorts before, equal to,
// or after other.
func (v Version) Compare(other Version) int {
	return semver.Compare(v.Tag(), other.Tag())
}

// BumpMajor increments the major component.
func (v Version) BumpMajor(p BumpPolicy) Version {
	v.Major++
	if p.ResetLower {
		v.Minor = 0
		v.Patch = 0
	}
	return v
}

// BumpMinor increments the minor component.
func (v Version) BumpMinor(p BumpPolicy) Version {
	v.Minor++
	if p.ResetLower {
		v.Patch = 0
	}
	return v
}

// BumpPatch increments the patch component.
func (v Version) BumpPatch() Version {
	v.Patch++
	return v
}

// BumpByName bumps v along the named axis.
func BumpByName(v Version, kind string, p BumpPolicy) (Version, error) {
	switch kind {
	case BumpMajor:
		return v.BumpMajor(p), nil
	case BumpMinor:
		return v.BumpMinor(p), nil
	case BumpPatch:
		return v.BumpPatch(), nil
	default:
		return v, fmt.Errorf("%w: %q (want major, minor or patch)", ErrInvalidBumpKind, kind)
	}
}
