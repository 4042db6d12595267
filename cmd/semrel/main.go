package main

import (
	"context"
	"fmt"
	"os"

	"github.com/4thel00z/semrel/internal"
	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
)

// version is set via ldflags at build time
var version = "dev"

func main() {
	ctx := context.Background()

	if tryExternalCommand(ctx) {
		return
	}

	rootCmd := NewRootCmd(version, newApp(internal.Dependencies{}))
	if err := fang.Execute(ctx, rootCmd); err != nil {
		os.Exit(1)
	}
}

func tryExternalCommand(ctx context.Context) bool {
	if len(os.Args) < 2 {
		return false
	}

	cmd := os.Args[1]
	if cmd == "" || cmd[0] == '-' {
		return false
	}

	if _, err := findExternal(cmd); err != nil {
		return false
	}

	if err := executeExternal(ctx, cmd, os.Args[2:], version); err != nil {
		fmt.Fprintf(os.Stderr, "semrel %s: %v\n", cmd, err)
		os.Exit(1)
	}

	return true
}

type app struct {
	deps internal.Dependencies

	decideUC     *internal.DecideReleaseUseCase
	lastUC       *internal.LastReleaseUseCase
	classifyUC   *internal.ClassifyUseCase
	tagsUC       *internal.ListTagsUseCase
	tagUC        *internal.TagReleaseUseCase
	gitUC        *internal.GitUseCase
	releaseAllUC *internal.ReleaseAllUseCase
}

func newApp(deps internal.Dependencies) *app {
	a := &app{deps: deps}
	a.build()
	return a
}

// configure attaches a logger honouring --verbose and rebuilds the use cases
// with it. Loggers injected by tests are left alone.
func (a *app) configure(cmd *cobra.Command) {
	if a.deps.Logger == nil {
		verbose, _ := cmd.Flags().GetBool("verbose")
		a.deps.Logger = internal.NewLogger(cmd.ErrOrStderr(), verbose)
	}
	a.build()
}

func (a *app) build() {
	a.decideUC = internal.NewDecideReleaseUseCase(a.deps)
	a.lastUC = internal.NewLastReleaseUseCase(a.deps)
	a.classifyUC = internal.NewClassifyUseCase(a.deps)
	a.tagsUC = internal.NewListTagsUseCase(a.deps)
	a.tagUC = internal.NewTagReleaseUseCase(a.deps)
	a.gitUC = internal.NewGitUseCase(a.deps)
	a.releaseAllUC = internal.NewReleaseAllUseCase(a.deps)
}
