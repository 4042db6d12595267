package internal

import (
	"context"
	"fmt"
)

type ReleaseType string

const (
	ReleaseNone    ReleaseType = "none"
	ReleasePatch   ReleaseType = "patch"
	ReleaseMinor   ReleaseType = "minor"
	ReleaseMajor   ReleaseType = "major"
	ReleaseInitial ReleaseType = "initial"
)

func ParseReleaseType(s string) (ReleaseType, error) {
	switch rt := ReleaseType(s); rt {
	case ReleaseNone, ReleasePatch, ReleaseMinor, ReleaseMajor, ReleaseInitial:
		return rt, nil
	case "":
		return ReleaseNone, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownReleaseType, s)
	}
}

func (r ReleaseType) String() string {
	return string(r)
}

// LastRelease describes the most recent release of a package. Empty fields
// mean the package was never released or the release has no recorded commit.
type LastRelease struct {
	Version string `json:"version,omitempty"`
	GitHead string `json:"git_head,omitempty"`
}

func (l LastRelease) Released() bool {
	return l.Version != ""
}

// ResolveReleaseType turns a classifier verdict into the release decision.
// A package that was never released always gets an initial release.
func ResolveReleaseType(verdict ReleaseType, last LastRelease) (ReleaseType, error) {
	if verdict == ReleaseNone || verdict == "" {
		return ReleaseNone, ErrNoRelevantChanges
	}
	if !last.Released() {
		return ReleaseInitial, nil
	}
	return verdict, nil
}

// ReleaseTypeResolver combines a classifier with ResolveReleaseType.
type ReleaseTypeResolver struct {
	classifier CommitClassifier
}

func NewReleaseTypeResolver(classifier CommitClassifier) *ReleaseTypeResolver {
	if classifier == nil {
		classifier = ConventionalClassifier{}
	}
	return &ReleaseTypeResolver{classifier: classifier}
}

func (r *ReleaseTypeResolver) Resolve(ctx context.Context, commits []RawCommit, last LastRelease) (ReleaseType, error) {
	verdict, err := r.classifier.Classify(ctx, commits)
	if err != nil {
		return ReleaseNone, fmt.Errorf("classify commits: %w", err)
	}
	return ResolveReleaseType(verdict, last)
}
