package internal

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
)

// LastReleaseResolver finds the most recent release of a package.
type LastReleaseResolver interface {
	LastRelease(ctx context.Context, m Manifest) (LastRelease, error)
}

// LocalTagResolver finds the last release of an unpublished package from the
// repository's tags.
//
// The tag is matched against the version currently recorded in the manifest,
// not the newest tag. A manifest bumped without a matching tag therefore
// resolves to no release.
type LocalTagResolver struct {
	tags   TagLister
	logger *slog.Logger
}

func NewLocalTagResolver(tags TagLister, logger *slog.Logger) *LocalTagResolver {
	return &LocalTagResolver{tags: tags, logger: orDiscard(logger)}
}

func (r *LocalTagResolver) LastRelease(ctx context.Context, m Manifest) (LastRelease, error) {
	refs, err := r.tags.ListTags(ctx)
	if err != nil {
		return LastRelease{}, fmt.Errorf("list tags: %w", err)
	}

	for _, ref := range refs {
		tag, ok := DecodeTag(ref.Name)
		if !ok {
			r.logger.Debug("skipping foreign tag", "tag", ref.Name)
			continue
		}
		if tag.Name != m.Name {
			continue
		}
		if tag.Version == m.Version {
			return LastRelease{Version: tag.Version, GitHead: ref.Commit}, nil
		}
	}

	return LastRelease{}, nil
}

// SelectResolver picks the resolver for a package: private packages (or an
// explicit "local" setting) use tags, everything else the registry.
func SelectResolver(m Manifest, cfg *Config, tags TagLister, client *http.Client, logger *slog.Logger) (LastReleaseResolver, error) {
	mode := ResolverAuto
	if cfg != nil && cfg.Release.Resolver != "" {
		mode = cfg.Release.Resolver
	}

	var registry RegistryConfig
	if cfg != nil {
		registry = cfg.Registry
	}

	switch mode {
	case ResolverLocal:
		return NewLocalTagResolver(tags, logger), nil
	case ResolverRegistry:
		return NewRegistryResolver(registry, client), nil
	case ResolverAuto:
		if m.Private {
			return NewLocalTagResolver(tags, logger), nil
		}
		return NewRegistryResolver(registry, client), nil
	default:
		return nil, fmt.Errorf("%w: unknown resolver %q", ErrInvalidConfig, mode)
	}
}

var _ LastReleaseResolver = (*LocalTagResolver)(nil)
var _ LastReleaseResolver = (*RegistryResolver)(nil)
