package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/4thel00z/semrel/internal"
	"github.com/spf13/cobra"
)

func NewTagsCmd(tagsUC func() *internal.ListTagsUseCase) *cobra.Command {
	return &cobra.Command{
		Use:   "tags [package]",
		Short: "List release tags",
		Long:  `List the tags that decode as package releases, optionally for one package.`,
		Args:  cobra.MaximumNArgs(1),
		RunE:  makeTagsRunner(tagsUC),
	}
}

func makeTagsRunner(tagsUC func() *internal.ListTagsUseCase) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		asJSON, _ := cmd.Flags().GetBool("json")

		var pkg string
		if len(args) > 0 {
			pkg = args[0]
		}

		ws, err := workspaceFromFlags(cmd)
		if err != nil {
			return err
		}

		tags, err := tagsUC().Execute(cmd.Context(), ws, pkg)
		if err != nil {
			return fmt.Errorf("list tags: %w", err)
		}

		if asJSON {
			if tags == nil {
				tags = []internal.PackageTag{}
			}
			return outputJSON(cmd, tags)
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		for _, tag := range tags {
			fmt.Fprintf(w, "%s\t%s\t%s\n", tag.Name, tag.Version, shortHash(tag.Commit))
		}
		return w.Flush()
	}
}
