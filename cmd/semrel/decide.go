package main

import (
	"errors"
	"fmt"

	"github.com/4thel00z/semrel/internal"
	"github.com/spf13/cobra"
)

func NewDecideCmd(decideUC func() *internal.DecideReleaseUseCase) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "decide",
		Short: "Decide the next release of a package",
		Long: `Find the last release of the package, classify the commits made since
and print the release type, next version and tag.

A package without relevant changes is not an error; pass --strict to exit
non-zero in that case.`,
		RunE: makeDecideRunner(decideUC),
	}

	cmd.Flags().Bool("strict", false, "Fail when there is nothing to release")
	cmd.Flags().Bool("commits", false, "List the commits that drove the decision")
	return cmd
}

func makeDecideRunner(decideUC func() *internal.DecideReleaseUseCase) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		strict, _ := cmd.Flags().GetBool("strict")
		showCommits, _ := cmd.Flags().GetBool("commits")
		asJSON, _ := cmd.Flags().GetBool("json")

		ws, err := workspaceFromFlags(cmd)
		if err != nil {
			return err
		}

		decision, err := decideUC().Execute(cmd.Context(), ws)
		noRelease := errors.Is(err, internal.ErrNoRelevantChanges)
		if err != nil && !noRelease {
			return fmt.Errorf("decide release: %w", err)
		}

		if asJSON {
			if err := outputJSON(cmd, decision); err != nil {
				return err
			}
		} else {
			printDecision(cmd, decision, showCommits)
		}

		if noRelease && strict {
			return err
		}
		return nil
	}
}

func printDecision(cmd *cobra.Command, d *internal.Decision, showCommits bool) {
	out := cmd.OutOrStdout()

	if d.ReleaseType == internal.ReleaseNone {
		fmt.Fprintf(out, "%s: no relevant changes, no release (%d commits checked)\n", d.Package, d.Commits)
		return
	}

	fmt.Fprintf(out, "%s: %s release\n", d.Package, d.ReleaseType)
	if d.LastRelease.Released() {
		fmt.Fprintf(out, "  last release: %s", d.LastRelease.Version)
		if d.LastRelease.GitHead != "" {
			fmt.Fprintf(out, " (%s)", shortHash(d.LastRelease.GitHead))
		}
		fmt.Fprintln(out)
	} else {
		fmt.Fprintln(out, "  last release: none")
	}
	fmt.Fprintf(out, "  next version: %s\n", d.NextVersion)
	fmt.Fprintf(out, "  tag:          %s\n", d.Tag)

	if !showCommits {
		return
	}
	for _, rec := range d.Relevant {
		marker := rec.Type
		if rec.Breaking() {
			marker += "!"
		}
		fmt.Fprintf(out, "  %s %s: %s\n", shortHash(rec.Hash), marker, rec.Subject)
	}
}
