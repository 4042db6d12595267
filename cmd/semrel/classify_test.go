package main

import (
	"strings"
	"testing"
)

func TestClassifyCmd(t *testing.T) {
	r := setupFixtureRepo(t)
	r.tag("lib@1.0.0", r.commit("index.js", "feat: first"))
	r.commit("index.js", "fix(core): null check")
	r.commit("index.js", "WIP")

	out, err := execute(t, testApp(&recordingRunner{}), "classify", "--dir", r.dir, "--since", "lib@1.0.0")
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if !strings.Contains(out, "fix(core): null check") {
		t.Errorf("missing record in output:\n%s", out)
	}
	if !strings.Contains(out, "verdict: patch (1 skipped)") {
		t.Errorf("missing verdict in output:\n%s", out)
	}
}

func TestClassifyCmdBreaking(t *testing.T) {
	r := setupFixtureRepo(t)
	r.commit("index.js", "fix: a")
	r.commit("index.js", "feat!: drop callbacks")

	out, err := execute(t, testApp(&recordingRunner{}), "classify", "--dir", r.dir)
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if !strings.Contains(out, "feat!: drop callbacks") || !strings.Contains(out, "verdict: major") {
		t.Errorf("unexpected output:\n%s", out)
	}
}
