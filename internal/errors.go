package internal

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNoRelevantChanges    = errors.New("no relevant changes, no release")
	ErrRegistryLookupFailed = errors.New("registry lookup failed")
	ErrGitCommandFailed     = errors.New("git command failed")
	ErrLockWaitAborted      = errors.New("gave up waiting for git index lock")
	ErrInvalidManifest      = errors.New("invalid package manifest")
	ErrInvalidConfig        = errors.New("invalid configuration")
	ErrNotGitRepository     = errors.New("not a git repository")
	ErrUnknownReleaseType   = errors.New("unknown release type")
)

// GitCommandError carries the outcome of a git subcommand that exited non-zero.
type GitCommandError struct {
	Args     []string
	ExitCode int
	Stderr   string
}

func (e *GitCommandError) Error() string {
	msg := fmt.Sprintf("git %s: exit status %d", strings.Join(e.Args, " "), e.ExitCode)
	if s := strings.TrimSpace(e.Stderr); s != "" {
		msg = fmt.Sprintf("%s: %s", msg, s)
	}
	return msg
}

func (e *GitCommandError) Unwrap() error {
	return ErrGitCommandFailed
}

// RegistryError is returned when the registry answers with an explicit error payload.
type RegistryError struct {
	Package    string
	StatusCode int
	Message    string
}

func (e *RegistryError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("registry lookup for %s (status %d): %s", e.Package, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("registry lookup for %s: status %d", e.Package, e.StatusCode)
}

func (e *RegistryError) Unwrap() error {
	return ErrRegistryLookupFailed
}
