package internal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	"golang.org/x/sync/errgroup"
)

// Repository is the read side of git a release decision needs.
type Repository interface {
	TagLister
	CommitSource
	Head(ctx context.Context) (string, error)
	ResolveCommit(ctx context.Context, rev string) (string, error)
}

// Dependencies wires use cases to their collaborators. Zero fields fall back
// to the production implementations.
type Dependencies struct {
	RepoFor     func(Workspace) (Repository, error)
	ConfigFor   func(Workspace) (*Config, error)
	ResolverFor func(Manifest, *Config, TagLister) (LastReleaseResolver, error)
	Runner      CommandRunner
	HTTPClient  *http.Client
	Logger      *slog.Logger
}

func (d Dependencies) withDefaults() Dependencies {
	if d.Logger == nil {
		d.Logger = discardLogger()
	}
	if d.Runner == nil {
		d.Runner = NewExecRunner()
	}
	if d.RepoFor == nil {
		d.RepoFor = func(ws Workspace) (Repository, error) {
			repo, err := OpenGitRepository(ws.Root)
			if err != nil {
				return nil, err
			}
			return repo, nil
		}
	}
	if d.ConfigFor == nil {
		d.ConfigFor = LoadConfig
	}
	if d.ResolverFor == nil {
		client, logger := d.HTTPClient, d.Logger
		d.ResolverFor = func(m Manifest, cfg *Config, tags TagLister) (LastReleaseResolver, error) {
			return SelectResolver(m, cfg, tags, client, logger)
		}
	}
	return d
}

func (d Dependencies) classifierFor(cfg *Config, ws Workspace) CommitClassifier {
	if cfg.Release.Classifier.Command != "" {
		return NewExternalClassifier(cfg.Release.Classifier.Command, d.Runner, ws.Root)
	}
	return ConventionalClassifier{}
}

func (d Dependencies) serializerFor(cfg *Config) *Serializer {
	opts := append(cfg.SerializerOptions(),
		WithCommandRunner(d.Runner),
		WithSerializerLogger(d.Logger),
	)
	return NewSerializer(opts...)
}

// Decision is the outcome of a release decision for one package.
type Decision struct {
	Package     string         `json:"package"`
	Path        string         `json:"path"`
	ReleaseType ReleaseType    `json:"release_type"`
	LastRelease LastRelease    `json:"last_release"`
	NextVersion string         `json:"next_version,omitempty"`
	Tag         string         `json:"tag,omitempty"`
	Commits     int            `json:"commits"`
	Relevant    []CommitRecord `json:"relevant,omitempty"`
}

type DecideReleaseUseCase struct {
	deps Dependencies
}

func NewDecideReleaseUseCase(deps Dependencies) *DecideReleaseUseCase {
	return &DecideReleaseUseCase{deps: deps.withDefaults()}
}

// Execute runs the decision pipeline for the package in ws. When nothing
// warrants a release it returns the partial decision together with
// ErrNoRelevantChanges.
func (uc *DecideReleaseUseCase) Execute(ctx context.Context, ws Workspace) (*Decision, error) {
	log := uc.deps.Logger.With("package_dir", ws.PackagePath())

	cfg, err := uc.deps.ConfigFor(ws)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	manifest, err := LoadManifest(ws.PackageDir)
	if err != nil {
		return nil, err
	}

	repo, err := uc.deps.RepoFor(ws)
	if err != nil {
		return nil, fmt.Errorf("get repository: %w", err)
	}

	resolver, err := uc.deps.ResolverFor(*manifest, cfg, repo)
	if err != nil {
		return nil, err
	}

	last, err := resolver.LastRelease(ctx, *manifest)
	if err != nil {
		return nil, fmt.Errorf("resolve last release: %w", err)
	}
	log.Debug("last release resolved", "package", manifest.Name, "version", last.Version, "git_head", last.GitHead)

	rng := CommitRange{Since: last.GitHead}
	if p := ws.PackagePath(); p != "." {
		rng.Path = p
	}
	commits, err := repo.Commits(ctx, rng)
	if err != nil {
		return nil, fmt.Errorf("collect commits: %w", err)
	}
	log.Debug("commits collected", "count", len(commits))

	decision := &Decision{
		Package:     manifest.Name,
		Path:        ws.PackagePath(),
		ReleaseType: ReleaseNone,
		LastRelease: last,
		Commits:     len(commits),
		Relevant:    relevantRecords(commits),
	}

	rt, err := NewReleaseTypeResolver(uc.deps.classifierFor(cfg, ws)).Resolve(ctx, commits, last)
	if err != nil {
		return decision, err
	}
	decision.ReleaseType = rt

	next, err := NextVersion(last, rt)
	if err != nil {
		return nil, err
	}
	decision.NextVersion = next

	tag, err := EncodeTag(cfg.Tags.Scheme, manifest.Name, next)
	if err != nil {
		return nil, err
	}
	decision.Tag = tag

	log.Info("release decided", "package", manifest.Name, "type", rt, "next", next)
	return decision, nil
}

func relevantRecords(commits []RawCommit) []CommitRecord {
	var out []CommitRecord
	for _, rec := range ParseCommits(commits) {
		if rec.Breaking() || rec.Type == "feat" || rec.Type == "fix" {
			out = append(out, rec)
		}
	}
	return out
}

type LastReleaseOutput struct {
	Package     string      `json:"package"`
	Version     string      `json:"manifest_version,omitempty"`
	Private     bool        `json:"private"`
	LastRelease LastRelease `json:"last_release"`
}

type LastReleaseUseCase struct {
	deps Dependencies
}

func NewLastReleaseUseCase(deps Dependencies) *LastReleaseUseCase {
	return &LastReleaseUseCase{deps: deps.withDefaults()}
}

func (uc *LastReleaseUseCase) Execute(ctx context.Context, ws Workspace) (*LastReleaseOutput, error) {
	cfg, err := uc.deps.ConfigFor(ws)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	manifest, err := LoadManifest(ws.PackageDir)
	if err != nil {
		return nil, err
	}

	repo, err := uc.deps.RepoFor(ws)
	if err != nil {
		return nil, fmt.Errorf("get repository: %w", err)
	}

	resolver, err := uc.deps.ResolverFor(*manifest, cfg, repo)
	if err != nil {
		return nil, err
	}

	last, err := resolver.LastRelease(ctx, *manifest)
	if err != nil {
		return nil, fmt.Errorf("resolve last release: %w", err)
	}

	return &LastReleaseOutput{
		Package:     manifest.Name,
		Version:     manifest.Version,
		Private:     manifest.Private,
		LastRelease: last,
	}, nil
}

type ClassifyInput struct {
	Since string
	Path  string
}

type ClassifyOutput struct {
	Verdict ReleaseType    `json:"verdict"`
	Records []CommitRecord `json:"records"`
	Skipped int            `json:"skipped"`
}

// ClassifyUseCase classifies a commit range without consulting any release
// history.
type ClassifyUseCase struct {
	deps Dependencies
}

func NewClassifyUseCase(deps Dependencies) *ClassifyUseCase {
	return &ClassifyUseCase{deps: deps.withDefaults()}
}

func (uc *ClassifyUseCase) Execute(ctx context.Context, ws Workspace, input ClassifyInput) (*ClassifyOutput, error) {
	cfg, err := uc.deps.ConfigFor(ws)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	repo, err := uc.deps.RepoFor(ws)
	if err != nil {
		return nil, fmt.Errorf("get repository: %w", err)
	}

	since := input.Since
	if since != "" {
		if since, err = repo.ResolveCommit(ctx, since); err != nil {
			return nil, err
		}
	}

	commits, err := repo.Commits(ctx, CommitRange{Since: since, Path: input.Path})
	if err != nil {
		return nil, fmt.Errorf("collect commits: %w", err)
	}

	verdict, err := uc.deps.classifierFor(cfg, ws).Classify(ctx, commits)
	if err != nil {
		return nil, fmt.Errorf("classify commits: %w", err)
	}

	records := ParseCommits(commits)
	return &ClassifyOutput{
		Verdict: verdict,
		Records: records,
		Skipped: len(commits) - len(records),
	}, nil
}

type PackageTag struct {
	Tag     string `json:"tag"`
	Name    string `json:"name"`
	Version string `json:"version"`
	Commit  string `json:"commit"`
}

type ListTagsUseCase struct {
	deps Dependencies
}

func NewListTagsUseCase(deps Dependencies) *ListTagsUseCase {
	return &ListTagsUseCase{deps: deps.withDefaults()}
}

// Execute lists the decodable tags, optionally restricted to one package.
// Tags following neither scheme are skipped.
func (uc *ListTagsUseCase) Execute(ctx context.Context, ws Workspace, pkg string) ([]PackageTag, error) {
	repo, err := uc.deps.RepoFor(ws)
	if err != nil {
		return nil, fmt.Errorf("get repository: %w", err)
	}

	refs, err := repo.ListTags(ctx)
	if err != nil {
		return nil, err
	}

	var out []PackageTag
	for _, ref := range refs {
		tag, ok := DecodeTag(ref.Name)
		if !ok {
			continue
		}
		if pkg != "" && tag.Name != pkg {
			continue
		}
		out = append(out, PackageTag{
			Tag:     ref.Name,
			Name:    tag.Name,
			Version: tag.Version,
			Commit:  ref.Commit,
		})
	}
	return out, nil
}

type TagReleaseInput struct {
	Version string // defaults to the manifest version
	Ref     string // commit to tag, defaults to HEAD
	Message string // annotated tag message; empty creates a lightweight tag
}

type TagReleaseOutput struct {
	Tag     string `json:"tag"`
	Package string `json:"package"`
	Version string `json:"version"`
	Ref     string `json:"ref,omitempty"`
}

// TagReleaseUseCase writes a package release tag through the Serializer.
type TagReleaseUseCase struct {
	deps Dependencies
}

func NewTagReleaseUseCase(deps Dependencies) *TagReleaseUseCase {
	return &TagReleaseUseCase{deps: deps.withDefaults()}
}

func (uc *TagReleaseUseCase) Execute(ctx context.Context, ws Workspace, input TagReleaseInput) (*TagReleaseOutput, error) {
	cfg, err := uc.deps.ConfigFor(ws)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	manifest, err := LoadManifest(ws.PackageDir)
	if err != nil {
		return nil, err
	}

	version := input.Version
	if version == "" {
		version = manifest.Version
	}
	if version == "" {
		return nil, fmt.Errorf("%w: %s has no version to tag", ErrInvalidManifest, manifest.Name)
	}

	tag, err := EncodeTag(cfg.Tags.Scheme, manifest.Name, version)
	if err != nil {
		return nil, err
	}

	args := []string{"tag"}
	if input.Message != "" {
		args = append(args, "-a", tag, "-m", input.Message)
	} else {
		args = append(args, tag)
	}
	if input.Ref != "" {
		args = append(args, input.Ref)
	}

	if _, err := uc.deps.serializerFor(cfg).Run(ctx, ws.Root, args...); err != nil {
		return nil, fmt.Errorf("create tag %s: %w", tag, err)
	}
	uc.deps.Logger.Info("tag created", "tag", tag)

	return &TagReleaseOutput{
		Tag:     tag,
		Package: manifest.Name,
		Version: version,
		Ref:     input.Ref,
	}, nil
}

// GitUseCase runs an arbitrary git command behind the index lock.
type GitUseCase struct {
	deps Dependencies
}

func NewGitUseCase(deps Dependencies) *GitUseCase {
	return &GitUseCase{deps: deps.withDefaults()}
}

func (uc *GitUseCase) Execute(ctx context.Context, ws Workspace, args []string) (CommandResult, error) {
	cfg, err := uc.deps.ConfigFor(ws)
	if err != nil {
		return CommandResult{}, fmt.Errorf("load config: %w", err)
	}
	return uc.deps.serializerFor(cfg).Run(ctx, ws.Root, args...)
}

type ReleaseAllInput struct {
	Tag         bool // create tags for packages that warrant a release
	Concurrency int
}

type PackageResult struct {
	Dir      string            `json:"dir"`
	Decision *Decision         `json:"decision,omitempty"`
	Tagged   *TagReleaseOutput `json:"tagged,omitempty"`
	Skipped  bool              `json:"skipped"`
	Error    string            `json:"error,omitempty"`
}

// ReleaseAllUseCase decides, and optionally tags, every package of a
// monorepo concurrently. A failing package does not stop the others.
type ReleaseAllUseCase struct {
	deps   Dependencies
	decide *DecideReleaseUseCase
	tag    *TagReleaseUseCase
}

func NewReleaseAllUseCase(deps Dependencies) *ReleaseAllUseCase {
	deps = deps.withDefaults()
	return &ReleaseAllUseCase{
		deps:   deps,
		decide: NewDecideReleaseUseCase(deps),
		tag:    NewTagReleaseUseCase(deps),
	}
}

func (uc *ReleaseAllUseCase) Execute(ctx context.Context, ws Workspace, input ReleaseAllInput) ([]PackageResult, error) {
	cfg, err := uc.deps.ConfigFor(ws)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	dirs := cfg.Packages
	if len(dirs) == 0 {
		if dirs, err = DiscoverPackages(ws.Root); err != nil {
			return nil, err
		}
	}

	results := make([]PackageResult, len(dirs))
	var (
		mu   sync.Mutex
		errs []error
	)

	g := new(errgroup.Group)
	if input.Concurrency > 0 {
		g.SetLimit(input.Concurrency)
	}

	for i, dir := range dirs {
		g.Go(func() error {
			res, err := uc.releaseOne(ctx, ws.ForPackage(dir), input)
			res.Dir = dir
			if err != nil {
				res.Error = err.Error()
				mu.Lock()
				errs = append(errs, fmt.Errorf("%s: %w", dir, err))
				mu.Unlock()
			}
			results[i] = res
			return nil
		})
	}
	_ = g.Wait()

	return results, errors.Join(errs...)
}

func (uc *ReleaseAllUseCase) releaseOne(ctx context.Context, ws Workspace, input ReleaseAllInput) (PackageResult, error) {
	decision, err := uc.decide.Execute(ctx, ws)
	if errors.Is(err, ErrNoRelevantChanges) {
		return PackageResult{Decision: decision, Skipped: true}, nil
	}
	if err != nil {
		return PackageResult{}, err
	}

	res := PackageResult{Decision: decision}
	if !input.Tag {
		return res, nil
	}

	tagged, err := uc.tag.Execute(ctx, ws, TagReleaseInput{Version: decision.NextVersion})
	if err != nil {
		return res, err
	}
	res.Tagged = tagged
	return res, nil
}
