package main

import (
	"fmt"
	"os"

	"github.com/4thel00z/semrel/internal"
	"github.com/spf13/cobra"
)

func NewInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default .semrel.yaml",
		Long:  `Write a .semrel.yaml with default settings to the root of the repository.`,
		RunE:  runInit,
	}

	cmd.Flags().String("scheme", string(internal.TagSchemeScoped), "Tag scheme (scoped|flat)")
	cmd.Flags().String("resolver", string(internal.ResolverAuto), "Last release lookup (auto|registry|local)")
	cmd.Flags().String("registry", internal.DefaultRegistryURL, "Registry URL")
	cmd.Flags().Bool("force", false, "Overwrite an existing config")
	return cmd
}

func runInit(cmd *cobra.Command, _ []string) error {
	scheme, _ := cmd.Flags().GetString("scheme")
	resolver, _ := cmd.Flags().GetString("resolver")
	registry, _ := cmd.Flags().GetString("registry")
	force, _ := cmd.Flags().GetBool("force")

	ws, err := workspaceFromFlags(cmd)
	if err != nil {
		return err
	}

	if _, err := os.Stat(ws.ConfigPath()); err == nil && !force {
		return fmt.Errorf("already initialized at %s", ws.ConfigPath())
	}

	cfg := internal.DefaultConfig()
	cfg.Tags.Scheme = internal.TagScheme(scheme)
	cfg.Release.Resolver = internal.ResolverMode(resolver)
	cfg.Registry.URL = registry
	if err := cfg.Validate(); err != nil {
		return err
	}

	if err := internal.SaveConfig(ws, cfg); err != nil {
		return fmt.Errorf("save config: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", ws.ConfigPath())
	return nil
}
