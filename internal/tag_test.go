package internal

import (
	"errors"
	"testing"
)

func TestEncodeTag(t *testing.T) {
	tests := []struct {
		scheme TagScheme
		name   string
		want   string
	}{
		{TagSchemeScoped, "my-lib", "my-lib@1.2.3"},
		{"", "my-lib", "my-lib@1.2.3"},
		{TagSchemeFlat, "my-lib", "1.2.3-semver-tag-for-my-lib"},
	}

	for _, tt := range tests {
		got, err := EncodeTag(tt.scheme, tt.name, "1.2.3")
		if err != nil {
			t.Fatalf("EncodeTag(%q): %v", tt.scheme, err)
		}
		if got != tt.want {
			t.Errorf("EncodeTag(%q) = %q, want %q", tt.scheme, got, tt.want)
		}
	}
}

func TestEncodeTagUnknownScheme(t *testing.T) {
	_, err := EncodeTag("dotted", "my-lib", "1.0.0")
	if !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("err = %v, want ErrInvalidConfig", err)
	}
}

func TestDecodeTag(t *testing.T) {
	tests := []struct {
		tag  string
		want Tag
	}{
		{"my-lib@1.2.3", Tag{Name: "my-lib", Version: "1.2.3"}},
		{"1.2.3-semver-tag-for-my-lib", Tag{Name: "my-lib", Version: "1.2.3"}},
		{"2.0.0-beta.1-semver-tag-for-tools", Tag{Name: "tools", Version: "2.0.0-beta.1"}},
		// "@" wins when both markers are present.
		{"a@1.0.0-semver-tag-for-b", Tag{Name: "a", Version: "1.0.0-semver-tag-for-b"}},
	}

	for _, tt := range tests {
		got, ok := DecodeTag(tt.tag)
		if !ok {
			t.Errorf("DecodeTag(%q) not decodable", tt.tag)
			continue
		}
		if got != tt.want {
			t.Errorf("DecodeTag(%q) = %+v, want %+v", tt.tag, got, tt.want)
		}
	}
}

func TestDecodeTagForeign(t *testing.T) {
	for _, tag := range []string{"v1.0.0", "release-2024", "latest", ""} {
		if got, ok := DecodeTag(tag); ok {
			t.Errorf("DecodeTag(%q) = %+v, want not decodable", tag, got)
		}
	}
}

func TestTagRoundTrip(t *testing.T) {
	names := []string{"core", "my-lib", "semrel-cli"}
	versions := []string{"0.0.1", "1.2.3", "10.0.0-rc.2"}

	for _, scheme := range []TagScheme{TagSchemeScoped, TagSchemeFlat} {
		for _, name := range names {
			for _, version := range versions {
				encoded, err := EncodeTag(scheme, name, version)
				if err != nil {
					t.Fatalf("EncodeTag: %v", err)
				}
				got, ok := DecodeTag(encoded)
				if !ok || got.Name != name || got.Version != version {
					t.Errorf("%s: DecodeTag(%q) = %+v, %v", scheme, encoded, got, ok)
				}
			}
		}
	}
}

func TestTagSchemeValid(t *testing.T) {
	if !TagSchemeScoped.Valid() || !TagSchemeFlat.Valid() {
		t.Error("known schemes should be valid")
	}
	if TagScheme("").Valid() || TagScheme("other").Valid() {
		t.Error("unknown schemes should be invalid")
	}
}
