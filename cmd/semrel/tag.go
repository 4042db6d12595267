package main

import (
	"fmt"

	"github.com/4thel00z/semrel/internal"
	"github.com/spf13/cobra"
)

func NewTagCmd(tagUC func() *internal.TagReleaseUseCase) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tag [version]",
		Short: "Tag a package release",
		Long: `Create the release tag for the package, using the manifest version when
none is given. The tag is written once the git index lock is free.`,
		Args: cobra.MaximumNArgs(1),
		RunE: makeTagRunner(tagUC),
	}

	cmd.Flags().String("ref", "", "Commit to tag (default: HEAD)")
	cmd.Flags().StringP("message", "m", "", "Create an annotated tag with this message")
	return cmd
}

func makeTagRunner(tagUC func() *internal.TagReleaseUseCase) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		ref, _ := cmd.Flags().GetString("ref")
		message, _ := cmd.Flags().GetString("message")
		asJSON, _ := cmd.Flags().GetBool("json")

		input := internal.TagReleaseInput{Ref: ref, Message: message}
		if len(args) > 0 {
			input.Version = args[0]
		}

		ws, err := workspaceFromFlags(cmd)
		if err != nil {
			return err
		}

		out, err := tagUC().Execute(cmd.Context(), ws, input)
		if err != nil {
			return fmt.Errorf("tag release: %w", err)
		}

		if asJSON {
			return outputJSON(cmd, out)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Tagged %s\n", out.Tag)
		return nil
	}
}
