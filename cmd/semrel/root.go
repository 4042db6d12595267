package main

import (
	"encoding/json"
	"fmt"

	"github.com/4thel00z/semrel/internal"
	"github.com/spf13/cobra"
)

func NewRootCmd(version string, a *app) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "semrel",
		Short:         "Release decisions for npm packages in git",
		Long:          `Decide whether and how a package should be released from its commit history, and tag releases safely alongside other git writers.`,
		Version:       version,
		SilenceErrors: true,
		SilenceUsage:  true,
		Run: func(cmd *cobra.Command, _ []string) {
			_ = cmd.Help()
		},
	}

	addPersistentFlags(rootCmd)
	setHelpWithExternals(rootCmd)

	if a != nil {
		rootCmd.PersistentPreRun = func(cmd *cobra.Command, _ []string) {
			a.configure(cmd)
		}
		addSubcommands(rootCmd, a)
	}

	return rootCmd
}

func addPersistentFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().StringP("dir", "C", "", "Package directory (default: current directory)")
	cmd.PersistentFlags().Bool("json", false, "Output in JSON format")
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Log debug output to stderr")
}

func addSubcommands(root *cobra.Command, a *app) {
	decide := func() *internal.DecideReleaseUseCase { return a.decideUC }
	last := func() *internal.LastReleaseUseCase { return a.lastUC }
	classify := func() *internal.ClassifyUseCase { return a.classifyUC }
	tags := func() *internal.ListTagsUseCase { return a.tagsUC }
	tag := func() *internal.TagReleaseUseCase { return a.tagUC }
	git := func() *internal.GitUseCase { return a.gitUC }
	releaseAll := func() *internal.ReleaseAllUseCase { return a.releaseAllUC }

	root.AddCommand(
		NewInitCmd(),
		NewDecideCmd(decide),
		NewLastReleaseCmd(last),
		NewClassifyCmd(classify),
		NewTagsCmd(tags),
		NewTagCmd(tag),
		NewGitCmd(git),
		NewReleaseAllCmd(releaseAll),
	)
}

func setHelpWithExternals(cmd *cobra.Command) {
	defaultHelp := cmd.HelpFunc()

	cmd.SetHelpFunc(func(c *cobra.Command, args []string) {
		defaultHelp(c, args)
		printExternalCommands(c)
	})
}

func printExternalCommands(cmd *cobra.Command) {
	externals := listExternalCommands()
	if len(externals) == 0 {
		return
	}

	fmt.Fprintln(cmd.OutOrStdout(), "\nExternal commands (semrel-*):")
	for _, name := range externals {
		fmt.Fprintf(cmd.OutOrStdout(), "  %s\n", name)
	}
}

func workspaceFromFlags(cmd *cobra.Command) (internal.Workspace, error) {
	dir, _ := cmd.Flags().GetString("dir")
	return internal.ResolveWorkspace(dir)
}

func outputJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func shortHash(hash string) string {
	if len(hash) > 7 {
		return hash[:7]
	}
	return hash
}
