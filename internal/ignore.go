package internal

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-git/v5/plumbing/format/gitignore"
)

var alwaysSkipped = map[string]bool{
	".git":         true,
	"node_modules": true,
}

// PackageMatcher decides which directories package discovery descends into,
// honouring every .gitignore in the tree.
type PackageMatcher struct {
	matcher  gitignore.Matcher
	basePath string
}

func NewPackageMatcher(basePath string) (*PackageMatcher, error) {
	patterns, err := gitignore.ReadPatterns(osfs.New(basePath), nil)
	if err != nil {
		return nil, fmt.Errorf("read ignore patterns: %w", err)
	}
	return &PackageMatcher{
		matcher:  gitignore.NewMatcher(patterns),
		basePath: basePath,
	}, nil
}

func (m *PackageMatcher) SkipDir(path string) bool {
	if alwaysSkipped[filepath.Base(path)] {
		return true
	}
	relPath, err := filepath.Rel(m.basePath, path)
	if err != nil || relPath == "." {
		return false
	}
	return m.matcher.Match(strings.Split(relPath, string(filepath.Separator)), true)
}

// DiscoverPackages returns the directories under root, relative to it, that
// contain a package manifest. The root itself is reported as ".".
func DiscoverPackages(root string) ([]string, error) {
	m, err := NewPackageMatcher(root)
	if err != nil {
		return nil, err
	}

	var dirs []string
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != root && m.SkipDir(path) {
				return filepath.SkipDir
			}
			return nil
		}
		if d.Name() != ManifestFilename {
			return nil
		}
		rel, err := filepath.Rel(root, filepath.Dir(path))
		if err != nil {
			return err
		}
		dirs = append(dirs, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk packages: %w", err)
	}

	sort.Strings(dirs)
	return dirs, nil
}
