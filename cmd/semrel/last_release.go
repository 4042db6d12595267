package main

import (
	"fmt"

	"github.com/4thel00z/semrel/internal"
	"github.com/spf13/cobra"
)

func NewLastReleaseCmd(lastUC func() *internal.LastReleaseUseCase) *cobra.Command {
	return &cobra.Command{
		Use:   "last-release",
		Short: "Show the last release of a package",
		Long:  `Look up the last release in the registry, or in local tags for private packages.`,
		RunE:  makeLastReleaseRunner(lastUC),
	}
}

func makeLastReleaseRunner(lastUC func() *internal.LastReleaseUseCase) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		asJSON, _ := cmd.Flags().GetBool("json")

		ws, err := workspaceFromFlags(cmd)
		if err != nil {
			return err
		}

		out, err := lastUC().Execute(cmd.Context(), ws)
		if err != nil {
			return fmt.Errorf("last release: %w", err)
		}

		if asJSON {
			return outputJSON(cmd, out)
		}

		if !out.LastRelease.Released() {
			fmt.Fprintf(cmd.OutOrStdout(), "%s has not been released\n", out.Package)
			return nil
		}

		fmt.Fprintf(cmd.OutOrStdout(), "%s@%s", out.Package, out.LastRelease.Version)
		if out.LastRelease.GitHead != "" {
			fmt.Fprintf(cmd.OutOrStdout(), " %s", out.LastRelease.GitHead)
		}
		fmt.Fprintln(cmd.OutOrStdout())
		return nil
	}
}
