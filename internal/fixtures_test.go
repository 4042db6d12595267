package internal

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/require"
)

// testRepo is a throwaway git repository driven through go-git.
type testRepo struct {
	t    *testing.T
	dir  string
	repo *git.Repository
	wt   *git.Worktree
	n    int
}

func newTestRepo(t *testing.T) *testRepo {
	t.Helper()

	dir := t.TempDir()
	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)

	wt, err := repo.Worktree()
	require.NoError(t, err)

	return &testRepo{t: t, dir: dir, repo: repo, wt: wt}
}

func testSignature() *object.Signature {
	return &object.Signature{Name: "Test", Email: "test@example.com", When: time.Now()}
}

// commit writes a change to path and commits it with message, returning the hash.
func (r *testRepo) commit(path, message string) string {
	r.t.Helper()
	r.n++

	full := filepath.Join(r.dir, filepath.FromSlash(path))
	require.NoError(r.t, os.MkdirAll(filepath.Dir(full), 0755))
	require.NoError(r.t, os.WriteFile(full, []byte(fmt.Sprintf("change %d\n", r.n)), 0644))

	_, err := r.wt.Add(path)
	require.NoError(r.t, err)

	hash, err := r.wt.Commit(message, &git.CommitOptions{Author: testSignature()})
	require.NoError(r.t, err)
	return hash.String()
}

func (r *testRepo) tag(name, commit string) {
	r.t.Helper()
	_, err := r.repo.CreateTag(name, plumbing.NewHash(commit), nil)
	require.NoError(r.t, err)
}

func (r *testRepo) annotatedTag(name, commit string) {
	r.t.Helper()
	_, err := r.repo.CreateTag(name, plumbing.NewHash(commit), &git.CreateTagOptions{
		Tagger:  testSignature(),
		Message: "release " + name,
	})
	require.NoError(r.t, err)
}

func (r *testRepo) workspace(pkgDir string) Workspace {
	return Workspace{Root: r.dir, PackageDir: filepath.Join(r.dir, filepath.FromSlash(pkgDir))}
}

// writeManifest writes a package.json into dir without committing it.
func writeManifest(t *testing.T, dir string, m map[string]any) {
	t.Helper()
	if _, ok := m["repository"]; !ok {
		m["repository"] = map[string]string{"type": "git", "url": "https://example.com/repo.git"}
	}
	data, err := json.MarshalIndent(m, "", "  ")
	require.NoError(t, err)
	require.NoError(t, os.MkdirAll(dir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ManifestFilename), data, 0644))
}

// fakeRunner records commands and answers from a script.
type fakeRunner struct {
	mu     sync.Mutex
	calls  []Command
	stdins []string
	result func(Command) (CommandResult, error)
}

func (f *fakeRunner) Run(_ context.Context, cmd Command) (CommandResult, error) {
	f.mu.Lock()
	f.calls = append(f.calls, cmd)
	if cmd.Stdin != nil {
		data, _ := io.ReadAll(cmd.Stdin)
		f.stdins = append(f.stdins, string(data))
	}
	f.mu.Unlock()

	if f.result == nil {
		return CommandResult{}, nil
	}
	return f.result(cmd)
}

func (f *fakeRunner) Calls() []Command {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Command(nil), f.calls...)
}

// staticTags is a TagLister over a fixed set of refs.
type staticTags []TagRef

func (s staticTags) ListTags(context.Context) ([]TagRef, error) {
	return s, nil
}

func staticConfig(cfg *Config) func(Workspace) (*Config, error) {
	return func(Workspace) (*Config, error) {
		return cfg, nil
	}
}
