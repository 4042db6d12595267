package main

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/4thel00z/semrel/internal"
)

func setupTagsRepo(t *testing.T) *fixtureRepo {
	t.Helper()
	r := setupFixtureRepo(t)
	head := r.commit("index.js", "feat: first")
	r.tag("a@1.0.0", head)
	r.tag("a@1.1.0", head)
	r.tag("2.0.0-semver-tag-for-b", head)
	r.tag("v3", head)
	return r
}

func TestTagsCmd(t *testing.T) {
	r := setupTagsRepo(t)

	out, err := execute(t, testApp(&recordingRunner{}), "tags", "--dir", r.dir)
	if err != nil {
		t.Fatalf("execute: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 tags, got %d:\n%s", len(lines), out)
	}
	if strings.Contains(out, "v3") {
		t.Errorf("foreign tag listed:\n%s", out)
	}
}

func TestTagsCmdFilterJSON(t *testing.T) {
	r := setupTagsRepo(t)

	out, err := execute(t, testApp(&recordingRunner{}), "tags", "a", "--dir", r.dir, "--json")
	if err != nil {
		t.Fatalf("execute: %v", err)
	}

	var tags []internal.PackageTag
	if err := json.Unmarshal([]byte(out), &tags); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(tags) != 2 {
		t.Fatalf("expected 2 tags for a, got %d", len(tags))
	}
	for _, tag := range tags {
		if tag.Name != "a" {
			t.Errorf("tag %q is not for package a", tag.Tag)
		}
	}
}

func TestTagsCmdEmptyJSON(t *testing.T) {
	r := setupTagsRepo(t)

	out, err := execute(t, testApp(&recordingRunner{}), "tags", "missing", "--dir", r.dir, "--json")
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if strings.TrimSpace(out) != "[]" {
		t.Errorf("output = %q, want []", out)
	}
}
