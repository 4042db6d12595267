package internal

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

const (
	DefaultPollInterval = 100 * time.Millisecond
	IndexLockName       = "index.lock"
)

// IndexLockPath is git's own lock marker for the working tree at repoRoot.
func IndexLockPath(repoRoot string) string {
	return filepath.Join(repoRoot, ".git", IndexLockName)
}

// LockProbe reports whether another process holds the index lock.
type LockProbe interface {
	Locked(repoRoot string) (bool, error)
}

type FileLockProbe struct{}

func (FileLockProbe) Locked(repoRoot string) (bool, error) {
	_, err := os.Stat(IndexLockPath(repoRoot))
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("stat index lock: %w", err)
	}
	return true, nil
}

// Serializer runs git mutations only while no process holds the index lock.
// It never creates or removes the lock itself and keeps no shared state, so
// independent serializers on one repository coordinate through the file only.
type Serializer struct {
	interval time.Duration
	watch    bool
	probe    LockProbe
	runner   CommandRunner
	logger   *slog.Logger
}

type SerializerOption func(*Serializer)

func WithPollInterval(d time.Duration) SerializerOption {
	return func(s *Serializer) {
		if d > 0 {
			s.interval = d
		}
	}
}

// WithLockWatch toggles the fsnotify wake-up. Polling always stays on.
func WithLockWatch(enabled bool) SerializerOption {
	return func(s *Serializer) {
		s.watch = enabled
	}
}

func WithLockProbe(p LockProbe) SerializerOption {
	return func(s *Serializer) {
		if p != nil {
			s.probe = p
		}
	}
}

func WithCommandRunner(r CommandRunner) SerializerOption {
	return func(s *Serializer) {
		if r != nil {
			s.runner = r
		}
	}
}

func WithSerializerLogger(l *slog.Logger) SerializerOption {
	return func(s *Serializer) {
		s.logger = orDiscard(l)
	}
}

func NewSerializer(opts ...SerializerOption) *Serializer {
	s := &Serializer{
		interval: DefaultPollInterval,
		watch:    true,
		probe:    FileLockProbe{},
		runner:   NewExecRunner(),
		logger:   discardLogger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// RunString runs "git <command>", splitting command on whitespace.
func (s *Serializer) RunString(ctx context.Context, repoRoot, command string) (CommandResult, error) {
	return s.Run(ctx, repoRoot, strings.Fields(command)...)
}

// Run waits for the index lock to clear and then runs git with args exactly
// once. A non-zero exit is returned as *GitCommandError together with the
// captured result; it is never retried.
func (s *Serializer) Run(ctx context.Context, repoRoot string, args ...string) (CommandResult, error) {
	if err := s.WaitUnlocked(ctx, repoRoot); err != nil {
		return CommandResult{}, err
	}

	s.logger.Debug("running git", "root", repoRoot, "args", args)
	res, err := s.runner.Run(ctx, Command{Dir: repoRoot, Name: "git", Args: args})
	if err != nil {
		return res, fmt.Errorf("git %s: %w", strings.Join(args, " "), err)
	}
	if res.ExitCode != 0 {
		return res, &GitCommandError{Args: args, ExitCode: res.ExitCode, Stderr: res.Stderr}
	}
	return res, nil
}

// WaitUnlocked blocks until the index lock is absent. There is no retry
// limit; only ctx bounds the wait.
func (s *Serializer) WaitUnlocked(ctx context.Context, repoRoot string) error {
	locked, err := s.probe.Locked(repoRoot)
	if err != nil {
		return err
	}
	if !locked {
		return nil
	}

	s.logger.Debug("waiting for git index lock", "lock", IndexLockPath(repoRoot), "interval", s.interval)

	var wake <-chan struct{}
	if s.watch {
		ch, stop, err := watchIndexLock(repoRoot)
		if err != nil {
			s.logger.Debug("lock watch unavailable, polling only", "err", err)
		} else {
			defer stop()
			wake = ch
			// The lock may have gone before the watch was in place.
			if locked, err = s.probe.Locked(repoRoot); err != nil || !locked {
				return err
			}
		}
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for polls := 1; ; polls++ {
		select {
		case <-ctx.Done():
			return fmt.Errorf("%w after %d checks: %w", ErrLockWaitAborted, polls, ctx.Err())
		case <-ticker.C:
		case <-wake:
		}

		locked, err := s.probe.Locked(repoRoot)
		if err != nil {
			return err
		}
		if !locked {
			s.logger.Debug("git index lock released", "checks", polls)
			return nil
		}
	}
}

// watchIndexLock signals when index.lock is removed or renamed away. The
// signal only triggers an early probe; it is not trusted on its own.
func watchIndexLock(repoRoot string) (<-chan struct{}, func(), error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := watcher.Add(filepath.Join(repoRoot, ".git")); err != nil {
		watcher.Close()
		return nil, nil, fmt.Errorf("watch git dir: %w", err)
	}

	wake := make(chan struct{}, 1)
	done := make(chan struct{})

	go func() {
		defer close(done)
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if !isLockRelease(event) {
					continue
				}
				select {
				case wake <- struct{}{}:
				default:
				}
			case _, ok := <-watcher.Errors:
				if !ok {
					return
				}
			}
		}
	}()

	stop := func() {
		watcher.Close()
		<-done
	}
	return wake, stop, nil
}

func isLockRelease(event fsnotify.Event) bool {
	if filepath.Base(event.Name) != IndexLockName {
		return false
	}
	return event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename)
}
