package main

import (
	"fmt"

	"github.com/4thel00z/semrel/internal"
	"github.com/spf13/cobra"
)

func NewClassifyCmd(classifyUC func() *internal.ClassifyUseCase) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "classify",
		Short: "Classify a range of commits",
		Long:  `Parse the commits after --since (all of history by default) and print the release type they call for.`,
		RunE:  makeClassifyRunner(classifyUC),
	}

	cmd.Flags().String("since", "", "Exclusive start of the range (commit, tag or revision)")
	cmd.Flags().String("path", "", "Only consider commits touching this path")
	return cmd
}

func makeClassifyRunner(classifyUC func() *internal.ClassifyUseCase) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		since, _ := cmd.Flags().GetString("since")
		path, _ := cmd.Flags().GetString("path")
		asJSON, _ := cmd.Flags().GetBool("json")

		ws, err := workspaceFromFlags(cmd)
		if err != nil {
			return err
		}

		out, err := classifyUC().Execute(cmd.Context(), ws, internal.ClassifyInput{
			Since: since, Path: path,
		})
		if err != nil {
			return fmt.Errorf("classify: %w", err)
		}

		if asJSON {
			return outputJSON(cmd, out)
		}

		for _, rec := range out.Records {
			scope := ""
			if rec.Scope != "" {
				scope = "(" + rec.Scope + ")"
			}
			bang := ""
			if rec.Breaking() {
				bang = "!"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s%s%s: %s\n", shortHash(rec.Hash), rec.Type, scope, bang, rec.Subject)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "verdict: %s (%d skipped)\n", out.Verdict, out.Skipped)
		return nil
	}
}
