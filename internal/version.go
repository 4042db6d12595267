package internal

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/mod/semver"
)

const InitialVersion = "1.0.0"

// NextVersion computes the version a release of type rt produces after last.
// Versions are plain semver without the "v" prefix.
func NextVersion(last LastRelease, rt ReleaseType) (string, error) {
	if rt == ReleaseInitial || !last.Released() {
		return InitialVersion, nil
	}

	canonical := "v" + strings.TrimPrefix(last.Version, "v")
	if !semver.IsValid(canonical) {
		return "", fmt.Errorf("last version %q is not valid semver", last.Version)
	}

	core := strings.TrimPrefix(semver.Canonical(canonical), "v")
	core, _, _ = strings.Cut(core, "-")
	parts := strings.Split(core, ".")
	major, _ := strconv.Atoi(parts[0])
	minor, _ := strconv.Atoi(parts[1])
	patch, _ := strconv.Atoi(parts[2])

	switch rt {
	case ReleaseMajor:
		major, minor, patch = major+1, 0, 0
	case ReleaseMinor:
		minor, patch = minor+1, 0
	case ReleasePatch:
		patch++
	default:
		return "", fmt.Errorf("%w: cannot bump with %q", ErrUnknownReleaseType, rt)
	}

	return fmt.Sprintf("%d.%d.%d", major, minor, patch), nil
}
