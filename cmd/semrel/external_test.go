package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestFindExternal(t *testing.T) {
	tmp := t.TempDir()
	script := filepath.Join(tmp, "semrel-test")
	if err := os.WriteFile(script, []byte("#!/bin/sh\necho ok"), 0755); err != nil {
		t.Fatal(err)
	}

	orig := os.Getenv("PATH")
	t.Setenv("PATH", tmp+":"+orig)

	path, err := findExternal("test")
	if err != nil {
		t.Fatalf("expected to find semrel-test, got error: %v", err)
	}
	if path != script {
		t.Errorf("expected %s, got %s", script, path)
	}
}

func TestFindExternalNotFound(t *testing.T) {
	_, err := findExternal("nonexistent-command-12345")
	if err == nil {
		t.Fatal("expected error for nonexistent command")
	}
}

func TestListExternalCommands(t *testing.T) {
	tmp := t.TempDir()

	scripts := []string{"semrel-foo", "semrel-bar", "semrel-baz"}
	for _, s := range scripts {
		path := filepath.Join(tmp, s)
		if err := os.WriteFile(path, []byte("#!/bin/sh"), 0755); err != nil {
			t.Fatal(err)
		}
	}

	// Add non-semrel script (should be ignored)
	other := filepath.Join(tmp, "other-script")
	if err := os.WriteFile(other, []byte("#!/bin/sh"), 0755); err != nil {
		t.Fatal(err)
	}

	orig := os.Getenv("PATH")
	t.Setenv("PATH", tmp+":"+orig)

	cmds := listExternalCommands()

	found := make(map[string]bool)
	for _, c := range cmds {
		found[c] = true
	}

	for _, expected := range []string{"foo", "bar", "baz"} {
		if !found[expected] {
			t.Errorf("expected to find %q in external commands", expected)
		}
	}

	if found["other-script"] {
		t.Error("non-semrel script should not be listed")
	}
}

func TestExtractExternalName(t *testing.T) {
	tmp := t.TempDir()

	script := filepath.Join(tmp, "semrel-hello")
	if err := os.WriteFile(script, []byte("#!/bin/sh"), 0755); err != nil {
		t.Fatal(err)
	}

	entries, _ := os.ReadDir(tmp)
	for _, e := range entries {
		if e.Name() == "semrel-hello" {
			name := extractExternalName(tmp, e)
			if name != "hello" {
				t.Errorf("expected 'hello', got %q", name)
			}
			return
		}
	}
	t.Fatal("semrel-hello not found in dir entries")
}

func TestExtractExternalNameNotExecutable(t *testing.T) {
	tmp := t.TempDir()

	script := filepath.Join(tmp, "semrel-noexec")
	if err := os.WriteFile(script, []byte("#!/bin/sh"), 0644); err != nil {
		t.Fatal(err)
	}

	entries, _ := os.ReadDir(tmp)
	for _, e := range entries {
		if e.Name() == "semrel-noexec" {
			name := extractExternalName(tmp, e)
			if name != "" {
				t.Errorf("expected empty string for non-executable, got %q", name)
			}
			return
		}
	}
	t.Fatal("semrel-noexec not found in dir entries")
}

func TestBuildExternalEnv(t *testing.T) {
	root := t.TempDir()
	if err := os.Mkdir(filepath.Join(root, ".git"), 0755); err != nil {
		t.Fatal(err)
	}
	origWd, _ := os.Getwd()
	t.Cleanup(func() { _ = os.Chdir(origWd) })
	if err := os.Chdir(root); err != nil {
		t.Fatalf("chdir: %v", err)
	}

	env := make(map[string]string)
	for _, e := range buildExternalEnv("1.0.0") {
		if k, v, ok := strings.Cut(e, "="); ok {
			env[k] = v
		}
	}

	if env["SEMREL_VERSION"] != "1.0.0" {
		t.Errorf("SEMREL_VERSION = %q, want 1.0.0", env["SEMREL_VERSION"])
	}
	if _, ok := env["SEMREL_BIN"]; !ok {
		t.Error("SEMREL_BIN not found in env")
	}
	if got, _ := filepath.EvalSymlinks(env["SEMREL_ROOT"]); got != mustEvalSymlinks(t, root) {
		t.Errorf("SEMREL_ROOT = %q, want %q", env["SEMREL_ROOT"], root)
	}
	if !strings.HasSuffix(env["SEMREL_CONFIG"], ".semrel.yaml") {
		t.Errorf("SEMREL_CONFIG = %q", env["SEMREL_CONFIG"])
	}
}

func TestBuildExternalEnvOutsideRepo(t *testing.T) {
	origWd, _ := os.Getwd()
	t.Cleanup(func() { _ = os.Chdir(origWd) })
	if err := os.Chdir(t.TempDir()); err != nil {
		t.Fatalf("chdir: %v", err)
	}

	for _, e := range buildExternalEnv("dev") {
		if strings.HasPrefix(e, "SEMREL_ROOT=") {
			t.Errorf("unexpected %s outside a repository", e)
		}
	}
}

func TestListExternalCommandsSorted(t *testing.T) {
	tmp := t.TempDir()
	for _, s := range []string{"semrel-zeta", "semrel-alpha"} {
		if err := os.WriteFile(filepath.Join(tmp, s), []byte("#!/bin/sh"), 0755); err != nil {
			t.Fatal(err)
		}
	}
	t.Setenv("PATH", tmp)

	got := listExternalCommands()
	if len(got) != 2 || got[0] != "alpha" || got[1] != "zeta" {
		t.Errorf("listExternalCommands() = %v", got)
	}
}

func mustEvalSymlinks(t *testing.T, path string) string {
	t.Helper()
	resolved, err := filepath.EvalSymlinks(path)
	if err != nil {
		t.Fatal(err)
	}
	return resolved
}
