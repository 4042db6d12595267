package internal

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

var ErrCommitNotInHistory = errors.New("last release commit is not in history")

// TagRef is a git tag and the commit it points at.
type TagRef struct {
	Name   string
	Commit string
}

// CommitRange selects the commits after Since (exclusive) up to HEAD.
// Path restricts the range to commits touching files under it, relative to
// the repository root.
type CommitRange struct {
	Since string
	Path  string
}

type TagLister interface {
	ListTags(ctx context.Context) ([]TagRef, error)
}

type CommitSource interface {
	Commits(ctx context.Context, rng CommitRange) ([]RawCommit, error)
}

// GitRepository reads tags and history through go-git. Writes go through the
// Serializer so they respect the index lock.
type GitRepository struct {
	repo     *git.Repository
	rootPath string
}

func OpenGitRepository(path string) (*GitRepository, error) {
	repo, err := git.PlainOpenWithOptions(path, &git.PlainOpenOptions{DetectDotGit: true})
	if errors.Is(err, git.ErrRepositoryNotExists) {
		return nil, fmt.Errorf("%w: %s", ErrNotGitRepository, path)
	}
	if err != nil {
		return nil, fmt.Errorf("open repository: %w", err)
	}

	worktree, err := repo.Worktree()
	if err != nil {
		return nil, fmt.Errorf("get worktree: %w", err)
	}

	return &GitRepository{
		repo:     repo,
		rootPath: worktree.Filesystem.Root(),
	}, nil
}

func (r *GitRepository) Root() string {
	return r.rootPath
}

// Head returns the commit hash HEAD points at, or "" for an empty repository.
func (r *GitRepository) Head(ctx context.Context) (string, error) {
	head, err := r.repo.Head()
	if errors.Is(err, plumbing.ErrReferenceNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("get HEAD: %w", err)
	}
	return head.Hash().String(), nil
}

// ResolveCommit resolves rev to a commit hash. Tag names are tried first
// since release tags may contain "@", which revision syntax reserves.
func (r *GitRepository) ResolveCommit(ctx context.Context, rev string) (string, error) {
	if ref, err := r.repo.Tag(rev); err == nil {
		target, err := r.peel(ref.Hash())
		if err != nil {
			return "", fmt.Errorf("peel tag %s: %w", rev, err)
		}
		return target.String(), nil
	}

	hash, err := r.repo.ResolveRevision(plumbing.Revision(rev))
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w", rev, err)
	}
	return hash.String(), nil
}

func (r *GitRepository) ListTags(ctx context.Context) ([]TagRef, error) {
	iter, err := r.repo.Tags()
	if err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	defer iter.Close()

	var tags []TagRef
	err = iter.ForEach(func(ref *plumbing.Reference) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		target, err := r.peel(ref.Hash())
		if err != nil {
			return fmt.Errorf("peel tag %s: %w", ref.Name().Short(), err)
		}
		tags = append(tags, TagRef{
			Name:   ref.Name().Short(),
			Commit: target.String(),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(tags, func(i, j int) bool {
		return tags[i].Name < tags[j].Name
	})

	return tags, nil
}

// peel resolves annotated tags to the commit they point at. Lightweight tags
// already point at the commit.
func (r *GitRepository) peel(hash plumbing.Hash) (plumbing.Hash, error) {
	tag, err := r.repo.TagObject(hash)
	if errors.Is(err, plumbing.ErrObjectNotFound) {
		return hash, nil
	}
	if err != nil {
		return plumbing.ZeroHash, err
	}

	commit, err := tag.Commit()
	if err != nil {
		return tag.Target, nil
	}
	return commit.Hash, nil
}

func (r *GitRepository) Commits(ctx context.Context, rng CommitRange) ([]RawCommit, error) {
	head, err := r.repo.Head()
	if errors.Is(err, plumbing.ErrReferenceNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get HEAD: %w", err)
	}

	released, err := r.ancestors(ctx, rng.Since)
	if err != nil {
		return nil, err
	}

	opts := &git.LogOptions{From: head.Hash()}
	if prefix := pathPrefix(rng.Path); prefix != "" {
		opts.PathFilter = func(p string) bool {
			return strings.HasPrefix(p, prefix)
		}
	}

	iter, err := r.repo.Log(opts)
	if err != nil {
		return nil, fmt.Errorf("get log: %w", err)
	}
	defer iter.Close()

	var commits []RawCommit
	err = iter.ForEach(func(c *object.Commit) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if _, ok := released[c.Hash]; ok {
			return nil
		}
		commits = append(commits, RawCommit{
			Hash:    c.Hash.String(),
			Message: strings.TrimSpace(c.Message),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	return commits, nil
}

// ancestors returns since and every commit reachable from it.
func (r *GitRepository) ancestors(ctx context.Context, since string) (map[plumbing.Hash]struct{}, error) {
	seen := make(map[plumbing.Hash]struct{})
	if since == "" {
		return seen, nil
	}

	hash := plumbing.NewHash(since)
	if _, err := r.repo.CommitObject(hash); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrCommitNotInHistory, since)
	}

	iter, err := r.repo.Log(&git.LogOptions{From: hash})
	if err != nil {
		return nil, fmt.Errorf("get log: %w", err)
	}
	defer iter.Close()

	err = iter.ForEach(func(c *object.Commit) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		seen[c.Hash] = struct{}{}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return seen, nil
}

func pathPrefix(path string) string {
	p := filepath.ToSlash(filepath.Clean(path))
	if p == "." || p == "" || p == "/" {
		return ""
	}
	return strings.TrimSuffix(strings.TrimPrefix(p, "./"), "/") + "/"
}

var _ TagLister = (*GitRepository)(nil)
var _ CommitSource = (*GitRepository)(nil)
