package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/4thel00z/semrel/internal"
	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

type fixtureRepo struct {
	t    *testing.T
	dir  string
	repo *git.Repository
	n    int
}

func setupFixtureRepo(t *testing.T) *fixtureRepo {
	t.Helper()
	dir := t.TempDir()
	repo, err := git.PlainInit(dir, false)
	if err != nil {
		t.Fatalf("init repo: %v", err)
	}
	return &fixtureRepo{t: t, dir: dir, repo: repo}
}

func (r *fixtureRepo) commit(path, message string) string {
	r.t.Helper()
	r.n++

	full := filepath.Join(r.dir, filepath.FromSlash(path))
	if err := os.MkdirAll(filepath.Dir(full), 0755); err != nil {
		r.t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(full, []byte(fmt.Sprintf("change %d\n", r.n)), 0644); err != nil {
		r.t.Fatalf("write: %v", err)
	}

	wt, err := r.repo.Worktree()
	if err != nil {
		r.t.Fatalf("worktree: %v", err)
	}
	if _, err := wt.Add(path); err != nil {
		r.t.Fatalf("add: %v", err)
	}
	hash, err := wt.Commit(message, &git.CommitOptions{
		Author: &object.Signature{Name: "Test", Email: "test@example.com", When: time.Now()},
	})
	if err != nil {
		r.t.Fatalf("commit: %v", err)
	}
	return hash.String()
}

func (r *fixtureRepo) tag(name, hash string) {
	r.t.Helper()
	if _, err := r.repo.CreateTag(name, plumbing.NewHash(hash), nil); err != nil {
		r.t.Fatalf("tag %s: %v", name, err)
	}
}

func (r *fixtureRepo) manifest(dir string, fields map[string]any) {
	r.t.Helper()
	fields["repository"] = "https://example.com/repo.git"
	data, err := json.Marshal(fields)
	if err != nil {
		r.t.Fatal(err)
	}
	full := filepath.Join(r.dir, filepath.FromSlash(dir))
	if err := os.MkdirAll(full, 0755); err != nil {
		r.t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(full, internal.ManifestFilename), data, 0644); err != nil {
		r.t.Fatal(err)
	}
}

// recordingRunner stands in for git and external classifiers.
type recordingRunner struct {
	mu     sync.Mutex
	calls  []internal.Command
	result internal.CommandResult
}

func (r *recordingRunner) Run(_ context.Context, cmd internal.Command) (internal.CommandResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if cmd.Stdin != nil {
		_, _ = io.Copy(io.Discard, cmd.Stdin)
	}
	r.calls = append(r.calls, cmd)
	return r.result, nil
}

func testApp(runner internal.CommandRunner) *app {
	return newApp(internal.Dependencies{Runner: runner})
}

// execute runs the full command tree with args and returns stdout.
func execute(t *testing.T, a *app, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd("test", a)
	root.SetArgs(args)

	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)

	err := root.Execute()
	return out.String(), err
}
