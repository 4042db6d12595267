package v1

import (
	"context"
	"errors"
	"fmt"

	"github.com/4thel00z/semrel/internal"
)

// ErrNoRelevantChanges is returned by Decide when no commit warrants a release.
var ErrNoRelevantChanges = internal.ErrNoRelevantChanges

// Client makes release decisions for one package.
type Client struct {
	ws     internal.Workspace
	decide *internal.DecideReleaseUseCase
	last   *internal.LastReleaseUseCase
	tag    *internal.TagReleaseUseCase
}

// New creates a Client for the package in the configured directory.
func New(opts ...Option) (*Client, error) {
	cfg := &clientConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	ws, err := internal.ResolveWorkspace(cfg.dir)
	if err != nil {
		return nil, err
	}

	deps := internal.Dependencies{
		HTTPClient: cfg.httpClient,
		Logger:     cfg.logger,
	}

	return &Client{
		ws:     ws,
		decide: internal.NewDecideReleaseUseCase(deps),
		last:   internal.NewLastReleaseUseCase(deps),
		tag:    internal.NewTagReleaseUseCase(deps),
	}, nil
}

// Root is the repository root the client operates in.
func (c *Client) Root() string {
	return c.ws.Root
}

// Decide returns the next release of the package. When nothing warrants a
// release the decision is still returned, together with ErrNoRelevantChanges.
func (c *Client) Decide(ctx context.Context) (*Decision, error) {
	d, err := c.decide.Execute(ctx, c.ws)
	if d == nil {
		return nil, fmt.Errorf("decide: %w", err)
	}

	out := &Decision{
		Package:     d.Package,
		ReleaseType: ReleaseType(d.ReleaseType),
		LastRelease: Release(d.LastRelease),
		NextVersion: d.NextVersion,
		Tag:         d.Tag,
	}
	if errors.Is(err, ErrNoRelevantChanges) {
		return out, ErrNoRelevantChanges
	}
	return out, err
}

// LastRelease returns the last release of the package; the zero Release
// when it was never released.
func (c *Client) LastRelease(ctx context.Context) (Release, error) {
	out, err := c.last.Execute(ctx, c.ws)
	if err != nil {
		return Release{}, fmt.Errorf("last release: %w", err)
	}
	return Release(out.LastRelease), nil
}

// Tag creates the release tag for version at HEAD and returns its name.
func (c *Client) Tag(ctx context.Context, version string) (string, error) {
	out, err := c.tag.Execute(ctx, c.ws, internal.TagReleaseInput{Version: version})
	if err != nil {
		return "", fmt.Errorf("tag: %w", err)
	}
	return out.Tag, nil
}

// Classify returns the release type conventional commits call for, without
// consulting any release history.
func Classify(commits []Commit) ReleaseType {
	raws := make([]internal.RawCommit, len(commits))
	for i, c := range commits {
		raws[i] = internal.RawCommit(c)
	}
	return ReleaseType(internal.ClassifyRecords(internal.ParseCommits(raws)))
}

// Close releases any resources held by the client.
func (c *Client) Close() error {
	return nil
}
