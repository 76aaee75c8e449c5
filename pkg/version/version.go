// Package version reports the dtpl release and checks version requirements against it.
package version

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/mod/semver"
)

const (
	Major = 0
	Minor = 1
	Patch = 0
)

var (
	ErrInvalidVersion = errors.New("invalid version")
	ErrTooOld         = errors.New("dtpl is too old")
)

// String is the release without the leading "v".
func String() string {
	return fmt.Sprintf("%d.%d.%d", Major, Minor, Patch)
}

// Canonical is the release in semver form, "v0.1.0".
func Canonical() string {
	return "v" + String()
}

// Normalize accepts "1", "v1.2" or "1.2.3" and returns the canonical "v1.2.3" form.
func Normalize(s string) (string, error) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "v") {
		s = "v" + s
	}
	if !semver.IsValid(s) {
		return "", fmt.Errorf("%w: %q", ErrInvalidVersion, strings.TrimPrefix(s, "v"))
	}
	return semver.Canonical(s), nil
}

// Check fails when the running release is older than required.
func Check(required string) error {
	want, err := Normalize(required)
	if err != nil {
		return err
	}
	if semver.Compare(Canonical(), want) < 0 {
		return fmt.Errorf("%w: %s required, running %s", ErrTooOld, want, Canonical())
	}
	return nil
}
