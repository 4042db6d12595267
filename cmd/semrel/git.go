package main

import (
	"errors"
	"fmt"

	"github.com/4thel00z/semrel/internal"
	"github.com/spf13/cobra"
)

func NewGitCmd(gitUC func() *internal.GitUseCase) *cobra.Command {
	return &cobra.Command{
		Use:   "git -- <args>...",
		Short: "Run a git command once the index lock is free",
		Long: `Wait until no other process holds .git/index.lock, then run git with the
given arguments in the repository root.`,
		Example: "  semrel git -- commit -m \"chore(release): 1.2.0\"",
		Args:    cobra.MinimumNArgs(1),
		RunE:    makeGitRunner(gitUC),
	}
}

func makeGitRunner(gitUC func() *internal.GitUseCase) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		ws, err := workspaceFromFlags(cmd)
		if err != nil {
			return err
		}

		res, err := gitUC().Execute(cmd.Context(), ws, args)
		fmt.Fprint(cmd.OutOrStdout(), res.Stdout)
		fmt.Fprint(cmd.ErrOrStderr(), res.Stderr)

		var gitErr *internal.GitCommandError
		if errors.As(err, &gitErr) {
			return fmt.Errorf("git exited with status %d", gitErr.ExitCode)
		}
		return err
	}
}
