package internal

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

// CommitClassifier reduces a window of commits to a single release type.
// ReleaseNone means nothing in the window warrants a release.
type CommitClassifier interface {
	Classify(ctx context.Context, commits []RawCommit) (ReleaseType, error)
}

// ClassifierFunc adapts a plain function to CommitClassifier.
type ClassifierFunc func(ctx context.Context, commits []RawCommit) (ReleaseType, error)

func (f ClassifierFunc) Classify(ctx context.Context, commits []RawCommit) (ReleaseType, error) {
	return f(ctx, commits)
}

// ConventionalClassifier applies major > minor > patch > none over
// conventional commits. The first breaking change ends the scan.
type ConventionalClassifier struct{}

func (ConventionalClassifier) Classify(_ context.Context, commits []RawCommit) (ReleaseType, error) {
	return ClassifyRecords(ParseCommits(commits)), nil
}

func ClassifyRecords(records []CommitRecord) ReleaseType {
	verdict := ReleaseNone
	for _, rec := range records {
		if rec.Breaking() {
			return ReleaseMajor
		}
		switch {
		case rec.Type == "feat":
			verdict = ReleaseMinor
		case rec.Type == "fix" && verdict == ReleaseNone:
			verdict = ReleasePatch
		}
	}
	return verdict
}

// ExternalClassifier delegates classification to an executable. The commits
// are written to its stdin as a JSON array and it must print one release
// type on stdout.
type ExternalClassifier struct {
	Command string
	Args    []string
	Dir     string
	Runner  CommandRunner
}

func NewExternalClassifier(command string, runner CommandRunner, dir string) *ExternalClassifier {
	fields := strings.Fields(command)
	c := &ExternalClassifier{Dir: dir, Runner: runner}
	if len(fields) > 0 {
		c.Command = fields[0]
		c.Args = fields[1:]
	}
	if c.Runner == nil {
		c.Runner = NewExecRunner()
	}
	return c
}

func (c *ExternalClassifier) Classify(ctx context.Context, commits []RawCommit) (ReleaseType, error) {
	if c.Command == "" {
		return ReleaseNone, fmt.Errorf("%w: empty classifier command", ErrInvalidConfig)
	}
	if commits == nil {
		commits = []RawCommit{}
	}

	payload, err := json.Marshal(commits)
	if err != nil {
		return ReleaseNone, fmt.Errorf("marshal commits: %w", err)
	}

	res, err := c.Runner.Run(ctx, Command{
		Dir:   c.Dir,
		Name:  c.Command,
		Args:  c.Args,
		Stdin: bytes.NewReader(payload),
	})
	if err != nil {
		return ReleaseNone, fmt.Errorf("run classifier %s: %w", c.Command, err)
	}
	if res.ExitCode != 0 {
		return ReleaseNone, fmt.Errorf("classifier %s exited %d: %s", c.Command, res.ExitCode, strings.TrimSpace(res.Stderr))
	}

	return ParseReleaseType(strings.TrimSpace(res.Stdout))
}

var _ CommitClassifier = ConventionalClassifier{}
var _ CommitClassifier = (*ExternalClassifier)(nil)
var _ CommitClassifier = ClassifierFunc(nil)
