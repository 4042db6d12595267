package main

import (
	"fmt"

	"github.com/4thel00z/semrel/internal"
	"github.com/spf13/cobra"
)

func NewReleaseAllCmd(releaseAllUC func() *internal.ReleaseAllUseCase) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "release-all",
		Short: "Decide releases for every package in the repository",
		Long: `Decide the release of every package listed in .semrel.yaml, or of every
package.json found in the repository when none are listed. With --tag the
release tags are created as well.`,
		RunE: makeReleaseAllRunner(releaseAllUC),
	}

	cmd.Flags().Bool("tag", false, "Create release tags")
	cmd.Flags().IntP("concurrency", "j", 4, "Packages processed at once")
	return cmd
}

func makeReleaseAllRunner(releaseAllUC func() *internal.ReleaseAllUseCase) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		tag, _ := cmd.Flags().GetBool("tag")
		concurrency, _ := cmd.Flags().GetInt("concurrency")
		asJSON, _ := cmd.Flags().GetBool("json")

		ws, err := workspaceFromFlags(cmd)
		if err != nil {
			return err
		}

		results, runErr := releaseAllUC().Execute(cmd.Context(), ws, internal.ReleaseAllInput{
			Tag: tag, Concurrency: concurrency,
		})
		if results == nil && runErr != nil {
			return fmt.Errorf("release all: %w", runErr)
		}

		if asJSON {
			if err := outputJSON(cmd, results); err != nil {
				return err
			}
		} else {
			printReleaseResults(cmd, results)
		}

		if runErr != nil {
			return fmt.Errorf("release all: %w", runErr)
		}
		return nil
	}
}

func printReleaseResults(cmd *cobra.Command, results []internal.PackageResult) {
	out := cmd.OutOrStdout()
	for _, res := range results {
		switch {
		case res.Error != "":
			fmt.Fprintf(out, "%-24s error: %s\n", res.Dir, res.Error)
		case res.Skipped:
			fmt.Fprintf(out, "%-24s %s: no release\n", res.Dir, res.Decision.Package)
		case res.Tagged != nil:
			fmt.Fprintf(out, "%-24s %s: %s -> %s (tagged)\n", res.Dir, res.Decision.Package, res.Decision.ReleaseType, res.Tagged.Tag)
		default:
			fmt.Fprintf(out, "%-24s %s: %s -> %s\n", res.Dir, res.Decision.Package, res.Decision.ReleaseType, res.Decision.Tag)
		}
	}
}
