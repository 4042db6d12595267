package internal

import (
	"fmt"
	"strings"
)

// FlatTagSeparator joins version and package name in flat tags, for tooling
// that cannot use "@" in tag names.
const FlatTagSeparator = "-semver-tag-for-"

type TagScheme string

const (
	TagSchemeScoped TagScheme = "scoped"
	TagSchemeFlat   TagScheme = "flat"
)

func (s TagScheme) Valid() bool {
	return s == TagSchemeScoped || s == TagSchemeFlat
}

// Tag is a package name and version recovered from a git tag.
type Tag struct {
	Name    string
	Version string
}

func EncodeScoped(name, version string) string {
	return name + "@" + version
}

func EncodeFlat(name, version string) string {
	return version + FlatTagSeparator + name
}

func EncodeTag(scheme TagScheme, name, version string) (string, error) {
	switch scheme {
	case TagSchemeScoped, "":
		return EncodeScoped(name, version), nil
	case TagSchemeFlat:
		return EncodeFlat(name, version), nil
	default:
		return "", fmt.Errorf("%w: unknown tag scheme %q", ErrInvalidConfig, scheme)
	}
}

// DecodeTag splits a tag produced by EncodeScoped or EncodeFlat. The boolean
// is false for tags that follow neither scheme; callers skip those.
func DecodeTag(tag string) (Tag, bool) {
	if name, version, ok := strings.Cut(tag, "@"); ok {
		return Tag{Name: name, Version: version}, true
	}
	if version, name, ok := strings.Cut(tag, FlatTagSeparator); ok {
		return Tag{Name: name, Version: version}, true
	}
	return Tag{}, false
}

func (t Tag) String() string {
	return EncodeScoped(t.Name, t.Version)
}
