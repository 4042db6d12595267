package internal

import (
	"fmt"
	"os"
	"path/filepath"
)

// Workspace is a git working tree and the package inside it being released.
type Workspace struct {
	Root       string // repository root
	PackageDir string // absolute package directory, Root for single-package repos
}

func (w Workspace) ConfigPath() string {
	return filepath.Join(w.Root, ConfigFilename)
}

// PackagePath is the package directory relative to the root, "." for the root.
func (w Workspace) PackagePath() string {
	rel, err := filepath.Rel(w.Root, w.PackageDir)
	if err != nil {
		return "."
	}
	return filepath.ToSlash(rel)
}

// ForPackage returns the same workspace pointed at another package dir.
// Relative dirs are taken from the root.
func (w Workspace) ForPackage(dir string) Workspace {
	if !filepath.IsAbs(dir) {
		dir = filepath.Join(w.Root, dir)
	}
	return Workspace{Root: w.Root, PackageDir: filepath.Clean(dir)}
}

// FindRepoRoot walks up from dir looking for a .git entry.
func FindRepoRoot(dir string) (string, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolve path: %w", err)
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, ".git")); err == nil {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("%w (no .git found)", ErrNotGitRepository)
		}
		dir = parent
	}
}

// ResolveWorkspace finds the repository enclosing dir and uses dir as the
// package directory.
func ResolveWorkspace(dir string) (Workspace, error) {
	if dir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return Workspace{}, fmt.Errorf("get working directory: %w", err)
		}
		dir = cwd
	}

	abs, err := filepath.Abs(dir)
	if err != nil {
		return Workspace{}, fmt.Errorf("resolve path: %w", err)
	}

	root, err := FindRepoRoot(abs)
	if err != nil {
		return Workspace{}, err
	}

	return Workspace{Root: root, PackageDir: abs}, nil
}
